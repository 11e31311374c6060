// Package stl reads ASCII and binary STL files.
package stl

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/philipparndt/goview/pkg/geometry"
	"github.com/philipparndt/goview/pkg/mesh"
)

const (
	headerSize   = 80
	facetSize    = 50 // normal + 3 vertices as float32, plus attribute count
	binaryPrefix = headerSize + 4
)

// Parse reads an STL file and returns its mesh.
// It automatically detects whether the file is ASCII or binary format.
func Parse(filename string) (*mesh.Mesh, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	m, err := ParseBytes(data)
	if err != nil {
		return nil, err
	}
	m.Source = filename
	if m.Name == "" {
		m.Name = strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	}
	return m, nil
}

// ParseReader reads a whole STL stream
func ParseReader(r io.Reader) (*mesh.Mesh, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read STL data: %w", err)
	}
	return ParseBytes(data)
}

// ParseBytes parses STL content held in memory
func ParseBytes(data []byte) (*mesh.Mesh, error) {
	if len(data) < 5 {
		return nil, fmt.Errorf("failed to read file header: %w", io.ErrUnexpectedEOF)
	}
	if isASCII(data) {
		return parseASCII(bytes.NewReader(data))
	}
	return parseBinary(data)
}

// isASCII checks for the "solid" keyword. Some exporters write binary files
// whose header also starts with "solid", so a size that matches the binary
// layout exactly wins.
func isASCII(data []byte) bool {
	if !bytes.HasPrefix(data, []byte("solid")) {
		return false
	}
	if len(data) >= binaryPrefix {
		count := binary.LittleEndian.Uint32(data[headerSize:binaryPrefix])
		if int64(len(data)) == binaryPrefix+int64(count)*facetSize {
			return false
		}
	}
	return true
}

func parseASCII(reader io.Reader) (*mesh.Mesh, error) {
	scanner := bufio.NewScanner(reader)
	m := mesh.New("")

	var normal geometry.Vector3
	var vertices []geometry.Vector3

	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "solid":
			if len(fields) > 1 {
				m.Name = strings.Join(fields[1:], " ")
			}

		case "facet":
			if len(fields) >= 5 && fields[1] == "normal" {
				v, err := parseVector(fields[2:5])
				if err != nil {
					return nil, fmt.Errorf("invalid facet normal %q: %w", scanner.Text(), err)
				}
				normal = v
			}

		case "vertex":
			if len(fields) < 4 {
				return nil, fmt.Errorf("invalid vertex line %q", scanner.Text())
			}
			v, err := parseVector(fields[1:4])
			if err != nil {
				return nil, fmt.Errorf("invalid vertex %q: %w", scanner.Text(), err)
			}
			vertices = append(vertices, v)

		case "endfacet":
			if len(vertices) == 3 {
				m.AddTriangle(geometry.NewTriangle(normal, vertices[0], vertices[1], vertices[2]))
			}
			vertices = vertices[:0]
			normal = geometry.Vector3{}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading ASCII STL: %w", err)
	}

	return m, nil
}

func parseVector(fields []string) (geometry.Vector3, error) {
	var c [3]float64
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return geometry.Vector3{}, err
		}
		c[i] = v
	}
	return geometry.NewVector3(c[0], c[1], c[2]), nil
}

// facet mirrors the 50 byte binary record
type facet struct {
	Normal     [3]float32
	V1, V2, V3 [3]float32
	Attribute  uint16
}

func parseBinary(data []byte) (*mesh.Mesh, error) {
	m := mesh.New("")
	reader := bytes.NewReader(data)

	header := make([]byte, headerSize)
	if _, err := io.ReadFull(reader, header); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	m.Name = strings.TrimSpace(string(bytes.TrimRight(header, "\x00")))

	var count uint32
	if err := binary.Read(reader, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("failed to read triangle count: %w", err)
	}

	// the count comes from the file, so it must fit the bytes that follow
	available := (len(data) - binaryPrefix) / facetSize
	if int64(count) > int64(available) {
		return nil, fmt.Errorf("binary STL claims %d triangles but holds at most %d: %w",
			count, available, io.ErrUnexpectedEOF)
	}

	m.Triangles = make([]geometry.Triangle, 0, count)
	for i := uint32(0); i < count; i++ {
		var f facet
		if err := binary.Read(reader, binary.LittleEndian, &f); err != nil {
			return nil, fmt.Errorf("failed to read triangle %d: %w", i, err)
		}
		m.AddTriangle(geometry.NewTriangle(vec(f.Normal), vec(f.V1), vec(f.V2), vec(f.V3)))
	}

	return m, nil
}

func vec(v [3]float32) geometry.Vector3 {
	return geometry.NewVector3(float64(v[0]), float64(v[1]), float64(v[2]))
}
