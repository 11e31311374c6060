// Package framing computes a camera placement that shows a whole object.
//
// Frame takes the object's bounding volume and the camera's field of view
// and returns a new position, look-at target and clip planes. The viewing
// direction is kept from the current camera position, so reframing after a
// model load does not reset the angle the user was looking from.
package framing

import (
	"errors"
	"math"

	"github.com/philipparndt/goview/pkg/geometry"
)

const (
	// MinNear is the smallest near clip distance Frame produces
	MinNear = 0.1
	// nearRatio is distance/near
	nearRatio = 1000.0
	// farRatio is far/distance
	farRatio = 10.0
)

// DefaultDirection is used when the camera sits exactly on the object's center
var DefaultDirection = geometry.NewVector3(0, 0, 1)

// ErrDegenerateVolume is returned when the object has no extent along any
// axis. The returned extrinsics are the unchanged camera; callers are
// expected to log it and carry on.
var ErrDegenerateVolume = errors.New("bounding volume has zero extent")

// Target is a camera controller that orbits around a point, such as an orbit
// control. Frame itself never calls it: controllers read the camera pose when
// they refresh, so whoever applies the Extrinsics to the camera must call
// SetTarget(result.Target) and then Update afterwards.
type Target interface {
	SetTarget(center geometry.Vector3)
	Update()
}

// Intrinsics are the camera parameters Frame reads but never changes
type Intrinsics struct {
	FOV  float64 // vertical field of view in degrees
	Near float64
	Far  float64
}

// Extrinsics is the camera pose and clip planes produced by Frame
type Extrinsics struct {
	Position geometry.Vector3
	Target   geometry.Vector3
	Near     float64
	Far      float64
	Distance float64 // distance from Target to Position, zero when unchanged
}

// Request bundles the inputs of a single Frame call
type Request struct {
	Volume     geometry.BoundingVolume
	Intrinsics Intrinsics
	Position   geometry.Vector3 // current camera position
	LookAt     geometry.Vector3 // current look-at target, kept on a no-op
	Padding    float64          // distance multiplier, zero means 1
}

// Frame computes the extrinsics that fit the request's volume into view.
//
// Two candidate distances are computed and the larger one wins: the
// bounding sphere inscribed in the view cone (radius / sin(fov/2)) and half
// the largest box side seen under half the field of view
// ((maxExtent/2) / tan(fov/2)). The result is scaled by Padding.
//
// A degenerate volume returns the current camera with ErrDegenerateVolume.
// Padding values <= 0 other than zero are not guarded against.
func Frame(req Request) (Extrinsics, error) {
	if req.Volume.IsDegenerate() {
		return Extrinsics{
			Position: req.Position,
			Target:   req.LookAt,
			Near:     req.Intrinsics.Near,
			Far:      req.Intrinsics.Far,
		}, ErrDegenerateVolume
	}

	center := req.Volume.Center()
	distance := Distance(req.Volume, req.Intrinsics.FOV, req.Padding)
	direction := ViewDirection(req.Position, center)

	result := Extrinsics{
		Position: center.Add(direction.Mul(distance)),
		Target:   center,
		Near:     math.Max(MinNear, distance/nearRatio),
		Far:      math.Max(req.Intrinsics.Far, distance*farRatio),
		Distance: distance,
	}
	return result, nil
}

// Distance returns the padded camera distance for a volume and a vertical
// field of view in degrees. It does not check for degenerate volumes.
func Distance(volume geometry.BoundingVolume, fovDegrees, padding float64) float64 {
	if padding == 0 {
		padding = 1
	}

	half := fovDegrees * math.Pi / 180 / 2
	sphere := math.Abs(volume.Radius() / math.Sin(half))
	box := (volume.MaxExtent() / 2) / math.Tan(half)

	return math.Max(sphere, box) * padding
}

// ViewDirection returns the unit vector from center towards position, or
// DefaultDirection when they coincide or their offset is not finite.
func ViewDirection(position, center geometry.Vector3) geometry.Vector3 {
	offset := position.Sub(center)
	if !offset.IsFinite() {
		return DefaultDirection
	}

	// scale first so squaring large offsets in Length cannot overflow
	scale := math.Max(math.Abs(offset.X), math.Max(math.Abs(offset.Y), math.Abs(offset.Z)))
	if scale == 0 {
		return DefaultDirection
	}
	return offset.Mul(1 / scale).Normalize()
}
