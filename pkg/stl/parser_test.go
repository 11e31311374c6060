package stl

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/philipparndt/goview/pkg/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const asciiTetra = `solid tetra
  facet normal 0 0 -1
    outer loop
      vertex 0 0 0
      vertex 1 0 0
      vertex 0 1 0
    endloop
  endfacet
  facet normal 0 -1 0
    outer loop
      vertex 0 0 0
      vertex 0 0 1
      vertex 1 0 0
    endloop
  endfacet
endsolid tetra
`

func binarySTL(t *testing.T, header string, triangles [][4][3]float32) []byte {
	t.Helper()

	var buf bytes.Buffer
	h := make([]byte, headerSize)
	copy(h, header)
	buf.Write(h)
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint32(len(triangles))))
	for _, tri := range triangles {
		require.NoError(t, binary.Write(&buf, binary.LittleEndian, tri))
		require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint16(0)))
	}
	return buf.Bytes()
}

func TestParseASCII(t *testing.T) {
	m, err := ParseBytes([]byte(asciiTetra))
	require.NoError(t, err)

	assert.Equal(t, "tetra", m.Name)
	require.Equal(t, 2, m.TriangleCount())
	assert.Equal(t, geometry.NewVector3(0, 0, -1), m.Triangles[0].Normal)
	assert.Equal(t, geometry.NewVector3(0, 0, 1), m.Triangles[1].V2)
}

func TestParseASCIIInvalidVertex(t *testing.T) {
	_, err := ParseBytes([]byte("solid x\nfacet normal 0 0 1\nvertex 0 nope 0\n"))
	assert.Error(t, err)
}

func TestParseBinary(t *testing.T) {
	data := binarySTL(t, "binary part", [][4][3]float32{
		{{0, 0, 1}, {0, 0, 0}, {2, 0, 0}, {0, 2, 0}},
		{{0, 0, 1}, {2, 0, 0}, {2, 2, 0}, {0, 2, 0}},
	})

	m, err := ParseBytes(data)
	require.NoError(t, err)

	assert.Equal(t, "binary part", m.Name)
	require.Equal(t, 2, m.TriangleCount())
	assert.Equal(t, geometry.NewVector3(2, 2, 0), m.Triangles[1].V2)
	assert.InDelta(t, 4.0, m.SurfaceArea(), 1e-9)
}

func TestParseBinaryWithSolidHeader(t *testing.T) {
	data := binarySTL(t, "solid exported by a CAD tool", [][4][3]float32{
		{{0, 0, 1}, {0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
	})

	m, err := ParseBytes(data)
	require.NoError(t, err)
	assert.Equal(t, 1, m.TriangleCount())
}

func TestParseBinaryTruncated(t *testing.T) {
	data := binarySTL(t, "short", [][4][3]float32{
		{{0, 0, 1}, {0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
	})

	_, err := ParseBytes(data[:len(data)-10])
	assert.Error(t, err)
}

func TestParseBinaryOversizedCount(t *testing.T) {
	data := binarySTL(t, "bogus", [][4][3]float32{
		{{0, 0, 1}, {0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
	})
	binary.LittleEndian.PutUint32(data[headerSize:binaryPrefix], 0xFFFFFFFF)

	_, err := ParseBytes(data)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bracket.stl")
	require.NoError(t, os.WriteFile(path, []byte("solid\n"+asciiTetra[len("solid tetra\n"):]), 0o644))

	m, err := Parse(path)
	require.NoError(t, err)

	assert.Equal(t, "bracket", m.Name)
	assert.Equal(t, path, m.Source)
	assert.Equal(t, 2, m.TriangleCount())
}

func TestParseMissingFile(t *testing.T) {
	_, err := Parse(filepath.Join(t.TempDir(), "missing.stl"))
	assert.Error(t, err)
}

func TestParseReaderTooShort(t *testing.T) {
	_, err := ParseReader(bytes.NewReader([]byte("so")))
	assert.Error(t, err)
}
