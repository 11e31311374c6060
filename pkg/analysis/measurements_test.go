package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/philipparndt/goview/pkg/geometry"
	"github.com/philipparndt/goview/pkg/mesh"
)

func TestAnalyzeMesh(t *testing.T) {
	m := mesh.New("triangle")
	m.AddTriangle(geometry.TriangleFromVertices(
		geometry.NewVector3(0, 0, 0),
		geometry.NewVector3(3, 0, 0),
		geometry.NewVector3(0, 4, 0),
	))

	r := AnalyzeMesh(m)

	assert.Equal(t, 1, r.TriangleCount)
	assert.Equal(t, 3, r.EdgeCount)
	assert.InDelta(t, 6, r.SurfaceArea, 1e-12)
	assert.Equal(t, geometry.NewVector3(3, 4, 0), r.Dimensions)
	assert.Equal(t, 3.0, r.MinEdgeLength)
	assert.Equal(t, 5.0, r.MaxEdgeLength)
	assert.InDelta(t, 4, r.AvgEdgeLength, 1e-12)
	assert.InDelta(t, 1, r.StdEdgeLength, 1e-12)
	assert.InDelta(t, 2.5, r.Volume.Radius(), 1e-12)

	longest := r.LongestEdges(10)
	require.Len(t, longest, 3)
	assert.Equal(t, 5.0, longest[0].Length)
}

func TestAnalyzeEmptyMesh(t *testing.T) {
	r := AnalyzeMesh(mesh.New("empty"))

	assert.Zero(t, r.EdgeCount)
	assert.Zero(t, r.AvgEdgeLength)
	assert.False(t, math.IsNaN(r.StdEdgeLength))
	assert.True(t, r.Volume.IsDegenerate())
}

func TestFormatVector(t *testing.T) {
	assert.Equal(t, "(1.000000, -2.000000, 0.500000)", FormatVector(geometry.NewVector3(1, -2, 0.5)))
}
