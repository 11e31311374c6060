package loader

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/philipparndt/goview/pkg/geometry"
)

// triangleDocument builds a document with one indexed triangle mesh used by
// two nodes: a root translated along X and its rotated child.
func triangleDocument() *gltf.Document {
	doc := gltf.NewDocument()
	pos := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}})
	idx := modeler.WriteIndices(doc, []uint16{0, 1, 2})

	doc.Meshes = []*gltf.Mesh{{
		Name: "triangle",
		Primitives: []*gltf.Primitive{{
			Indices:    gltf.Index(idx),
			Attributes: map[string]uint32{gltf.POSITION: pos},
		}},
	}}

	s := float32(math.Sqrt2 / 2)
	doc.Nodes = []*gltf.Node{
		{Name: "root", Mesh: gltf.Index(0), Translation: [3]float32{10, 0, 0}, Children: []uint32{1}},
		{Name: "child", Mesh: gltf.Index(0), Rotation: [4]float32{0, 0, s, s}, Scale: [3]float32{2, 2, 2}},
	}
	doc.Scenes[0].Nodes = []uint32{0}
	return doc
}

func assertVector(t *testing.T, expected, actual geometry.Vector3) {
	t.Helper()
	assert.InDelta(t, expected.X, actual.X, 1e-5)
	assert.InDelta(t, expected.Y, actual.Y, 1e-5)
	assert.InDelta(t, expected.Z, actual.Z, 1e-5)
}

func TestFromDocumentAppliesNodeTransforms(t *testing.T) {
	m, err := FromDocument(triangleDocument())
	require.NoError(t, err)

	assert.Equal(t, "triangle", m.Name)
	require.Equal(t, 2, m.TriangleCount())

	root := m.Triangles[0]
	assertVector(t, geometry.NewVector3(10, 0, 0), root.V1)
	assertVector(t, geometry.NewVector3(11, 0, 0), root.V2)

	// child: scaled by 2, rotated 90 degrees about Z, then moved by the parent
	child := m.Triangles[1]
	assertVector(t, geometry.NewVector3(10, 0, 0), child.V1)
	assertVector(t, geometry.NewVector3(10, 2, 0), child.V2)
	assertVector(t, geometry.NewVector3(8, 0, 0), child.V3)
	assertVector(t, geometry.NewVector3(0, 0, 1), child.Normal)
}

func TestFromDocumentSkipsNonTriangles(t *testing.T) {
	doc := triangleDocument()
	doc.Meshes[0].Primitives[0].Mode = gltf.PrimitiveLines

	m, err := FromDocument(doc)
	require.NoError(t, err)
	assert.Zero(t, m.TriangleCount())
}

func TestFromDocumentWithoutScenes(t *testing.T) {
	doc := triangleDocument()
	doc.Scenes = nil
	doc.Scene = nil

	m, err := FromDocument(doc)
	require.NoError(t, err)
	assert.Equal(t, 2, m.TriangleCount())
}

func TestFromDocumentRejectsBrokenReferences(t *testing.T) {
	doc := triangleDocument()
	doc.Nodes[1].Mesh = gltf.Index(7)

	_, err := FromDocument(doc)
	assert.Error(t, err)
}

func TestLoadGLB(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Part.GLB")
	require.NoError(t, gltf.SaveBinary(triangleDocument(), path))

	m, err := Load(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, path, m.Source)
	assert.Equal(t, 2, m.TriangleCount())
	assert.False(t, m.BoundingVolume().IsDegenerate())
}

func TestLoadSTL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plate.stl")
	content := "solid plate\nfacet normal 0 0 1\nouter loop\nvertex 0 0 0\nvertex 4 0 0\nvertex 0 4 0\nendloop\nendfacet\nendsolid plate\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	m, err := Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "plate", m.Name)
	assert.Equal(t, 4.0, m.BoundingVolume().MaxExtent())
}

func TestLoadUnsupported(t *testing.T) {
	_, err := Load(context.Background(), "model.obj")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.False(t, Supported("model.obj"))
	assert.True(t, Supported("MODEL.Gltf"))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "missing.glb"))
	assert.Error(t, err)
}

func TestDependencies(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.scad"), []byte("include <b.scad>\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.scad"), []byte("cube(2);\n"), 0o644))

	deps, err := Dependencies(filepath.Join(dir, "a.scad"))
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.scad"), filepath.Join(dir, "b.scad")}, deps)

	deps, err = Dependencies(filepath.Join(dir, "model.stl"))
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "model.stl")}, deps)
}
