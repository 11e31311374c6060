package geometry

import "math"

// BoundingBox represents an axis-aligned bounding box
type BoundingBox struct {
	Min Vector3
	Max Vector3
}

// NewBoundingBox creates an empty bounding box. Min starts above Max so the
// first Extend sets both corners.
func NewBoundingBox() BoundingBox {
	return BoundingBox{
		Min: Vector3{X: math.MaxFloat64, Y: math.MaxFloat64, Z: math.MaxFloat64},
		Max: Vector3{X: -math.MaxFloat64, Y: -math.MaxFloat64, Z: -math.MaxFloat64},
	}
}

// NewBoundingBoxFromPoints creates the smallest box containing all points
func NewBoundingBoxFromPoints(points ...Vector3) BoundingBox {
	b := NewBoundingBox()
	for _, p := range points {
		b.Extend(p)
	}
	return b
}

// Extend expands the bounding box to include a point
func (b *BoundingBox) Extend(point Vector3) {
	b.Min = b.Min.Min(point)
	b.Max = b.Max.Max(point)
}

// IsEmpty reports whether no point has been added yet
func (b BoundingBox) IsEmpty() bool {
	return b.Max.X < b.Min.X || b.Max.Y < b.Min.Y || b.Max.Z < b.Min.Z
}

// Size returns the dimensions of the bounding box
func (b BoundingBox) Size() Vector3 {
	if b.IsEmpty() {
		return Vector3{}
	}
	return b.Max.Sub(b.Min)
}

// Center returns the center point of the bounding box
func (b BoundingBox) Center() Vector3 {
	if b.IsEmpty() {
		return Vector3{}
	}
	return Vector3{
		X: (b.Min.X + b.Max.X) / 2.0,
		Y: (b.Min.Y + b.Max.Y) / 2.0,
		Z: (b.Min.Z + b.Max.Z) / 2.0,
	}
}

// MaxExtent returns the largest side length
func (b BoundingBox) MaxExtent() float64 {
	return b.Size().MaxComponent()
}

// Diagonal returns the length of the bounding box diagonal
func (b BoundingBox) Diagonal() float64 {
	return b.Size().Length()
}

// Volume returns the volume of the bounding box
func (b BoundingBox) Volume() float64 {
	size := b.Size()
	return size.X * size.Y * size.Z
}

// BoundingSphere returns the sphere circumscribing the box
func (b BoundingBox) BoundingSphere() Sphere {
	return Sphere{Center: b.Center(), Radius: b.Diagonal() / 2.0}
}

// Sphere is a center and a radius
type Sphere struct {
	Center Vector3
	Radius float64
}

// Contains reports whether point lies inside or on the sphere
func (s Sphere) Contains(point Vector3) bool {
	return s.Center.Distance(point) <= s.Radius
}

// BoundingVolume bundles a box and a sphere computed from the same geometry.
// Camera framing needs the box center, the largest box side and the sphere
// radius.
type BoundingVolume struct {
	Box    BoundingBox
	Sphere Sphere
}

// NewBoundingVolume derives the sphere from the box
func NewBoundingVolume(box BoundingBox) BoundingVolume {
	return BoundingVolume{Box: box, Sphere: box.BoundingSphere()}
}

// Center returns the box center
func (v BoundingVolume) Center() Vector3 {
	return v.Box.Center()
}

// MaxExtent returns the largest box side
func (v BoundingVolume) MaxExtent() float64 {
	return v.Box.MaxExtent()
}

// Radius returns the sphere radius, never negative
func (v BoundingVolume) Radius() float64 {
	return math.Abs(v.Sphere.Radius)
}

// IsDegenerate reports whether the volume has no extent at all
func (v BoundingVolume) IsDegenerate() bool {
	return v.Box.IsEmpty() || v.MaxExtent() == 0
}
