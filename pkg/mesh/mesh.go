// Package mesh holds the triangle soup every loader produces.
package mesh

import (
	"github.com/philipparndt/goview/pkg/geometry"
)

// Mesh is a named list of triangles in world space
type Mesh struct {
	Name      string
	Source    string // path the mesh was loaded from, if any
	Triangles []geometry.Triangle
}

// New creates an empty mesh
func New(name string) *Mesh {
	return &Mesh{
		Name:      name,
		Triangles: make([]geometry.Triangle, 0),
	}
}

// AddTriangle adds a triangle to the mesh
func (m *Mesh) AddTriangle(triangle geometry.Triangle) {
	m.Triangles = append(m.Triangles, triangle)
}

// TriangleCount returns the number of triangles in the mesh
func (m *Mesh) TriangleCount() int {
	return len(m.Triangles)
}

// BoundingBox calculates the bounding box of the entire mesh
func (m *Mesh) BoundingBox() geometry.BoundingBox {
	bbox := geometry.NewBoundingBox()
	for _, triangle := range m.Triangles {
		bbox.Extend(triangle.V1)
		bbox.Extend(triangle.V2)
		bbox.Extend(triangle.V3)
	}
	return bbox
}

// BoundingVolume returns the box and its circumscribed sphere
func (m *Mesh) BoundingVolume() geometry.BoundingVolume {
	return geometry.NewBoundingVolume(m.BoundingBox())
}

// SurfaceArea calculates the total surface area of the mesh
func (m *Mesh) SurfaceArea() float64 {
	totalArea := 0.0
	for _, triangle := range m.Triangles {
		totalArea += triangle.Area()
	}
	return totalArea
}
