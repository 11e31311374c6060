// Package analysis summarises a mesh for the info command.
package analysis

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/philipparndt/goview/pkg/geometry"
	"github.com/philipparndt/goview/pkg/mesh"
)

// EdgeInfo describes one triangle edge
type EdgeInfo struct {
	Start      geometry.Vector3
	End        geometry.Vector3
	Length     float64
	TriangleID int
}

// Result contains the statistics of a mesh
type Result struct {
	Volume        geometry.BoundingVolume
	Dimensions    geometry.Vector3
	BoxVolume     float64
	SurfaceArea   float64
	TriangleCount int
	EdgeCount     int
	MinEdgeLength float64
	MaxEdgeLength float64
	AvgEdgeLength float64
	StdEdgeLength float64
	Edges         []EdgeInfo
}

// AnalyzeMesh computes bounds, area and edge statistics
func AnalyzeMesh(m *mesh.Mesh) *Result {
	result := &Result{
		Volume:        m.BoundingVolume(),
		SurfaceArea:   m.SurfaceArea(),
		TriangleCount: m.TriangleCount(),
		Edges:         make([]EdgeInfo, 0, 3*m.TriangleCount()),
	}
	result.Dimensions = result.Volume.Box.Size()
	result.BoxVolume = result.Volume.Box.Volume()

	lengths := make([]float64, 0, 3*m.TriangleCount())
	for i, tri := range m.Triangles {
		v := tri.Vertices()
		for j := 0; j < 3; j++ {
			start, end := v[j], v[(j+1)%3]
			length := start.Distance(end)
			result.Edges = append(result.Edges, EdgeInfo{
				Start:      start,
				End:        end,
				Length:     length,
				TriangleID: i,
			})
			lengths = append(lengths, length)
		}
	}

	result.EdgeCount = len(lengths)
	if result.EdgeCount == 0 {
		return result
	}

	sorted := append([]float64(nil), lengths...)
	sort.Float64s(sorted)
	result.MinEdgeLength = sorted[0]
	result.MaxEdgeLength = sorted[len(sorted)-1]
	result.AvgEdgeLength, result.StdEdgeLength = stat.MeanStdDev(lengths, nil)

	return result
}

// LongestEdges returns the n longest edges, longest first
func (r *Result) LongestEdges(n int) []EdgeInfo {
	edges := append([]EdgeInfo(nil), r.Edges...)
	sort.SliceStable(edges, func(i, j int) bool {
		return edges[i].Length > edges[j].Length
	})
	if n > len(edges) {
		n = len(edges)
	}
	return edges[:n]
}

// FormatVector formats a 3D vector
func FormatVector(v geometry.Vector3) string {
	return fmt.Sprintf("(%.6f, %.6f, %.6f)", v.X, v.Y, v.Z)
}
