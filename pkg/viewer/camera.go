package viewer

import (
	"math"

	"github.com/philipparndt/goview/pkg/framing"
	"github.com/philipparndt/goview/pkg/geometry"
)

// Camera is a perspective camera looking at Target
type Camera struct {
	Position geometry.Vector3
	Target   geometry.Vector3
	Up       geometry.Vector3
	FOV      float64 // vertical field of view in degrees
	Near     float64
	Far      float64
}

// NewCamera creates a camera at (0, 0, 5) looking at the origin with a 75
// degree field of view
func NewCamera() *Camera {
	return &Camera{
		Position: geometry.NewVector3(0, 0, 5),
		Up:       geometry.NewVector3(0, 1, 0),
		FOV:      75,
		Near:     0.1,
		Far:      1000,
	}
}

// Intrinsics returns the projection parameters used for framing
func (c *Camera) Intrinsics() framing.Intrinsics {
	return framing.Intrinsics{FOV: c.FOV, Near: c.Near, Far: c.Far}
}

// Extrinsics returns the current pose and clip planes
func (c *Camera) Extrinsics() framing.Extrinsics {
	return framing.Extrinsics{
		Position: c.Position,
		Target:   c.Target,
		Near:     c.Near,
		Far:      c.Far,
		Distance: c.Position.Distance(c.Target),
	}
}

// Apply copies a framing result onto the camera
func (c *Camera) Apply(e framing.Extrinsics) {
	c.Position = e.Position
	c.Target = e.Target
	c.Near = e.Near
	c.Far = e.Far
}

// SetPosition moves the camera and keeps looking at the current target
func (c *Camera) SetPosition(p geometry.Vector3) {
	c.Position = p
}

// Frame fits volume into view. When controls is non-nil it is re-targeted
// onto the volume center after the camera has moved, so controls that read
// the camera pose in Update see the new one. A degenerate volume leaves the
// camera untouched and returns framing.ErrDegenerateVolume.
func (c *Camera) Frame(volume geometry.BoundingVolume, padding float64, controls framing.Target) error {
	req := framing.Request{
		Volume:     volume,
		Intrinsics: c.Intrinsics(),
		Position:   c.Position,
		LookAt:     c.Target,
		Padding:    padding,
	}

	result, err := framing.Frame(req)
	if err != nil {
		return err
	}
	c.Apply(result)

	if controls != nil {
		controls.SetTarget(result.Target)
		controls.Update()
	}
	return nil
}

// basis returns the camera's forward, right and up unit vectors
func (c *Camera) basis() (forward, right, up geometry.Vector3) {
	forward = c.Target.Sub(c.Position).Normalize()
	right = forward.Cross(c.Up).Normalize()
	if right.Length() == 0 {
		// Looking straight along Up: pick any perpendicular axis.
		right = forward.Cross(geometry.NewVector3(0, 0, 1)).Normalize()
	}
	up = right.Cross(forward).Normalize()
	return forward, right, up
}

// Project projects a 3D point to screen coordinates. The third value is the
// depth along the view axis.
func (c *Camera) Project(point geometry.Vector3, width, height float64) (float64, float64, float64) {
	forward, right, up := c.basis()

	relative := point.Sub(c.Position)
	x := relative.Dot(right)
	y := relative.Dot(up)
	z := relative.Dot(forward)

	if z <= 1e-9 {
		z = 1e-9
	}

	aspect := width / height
	fovScale := math.Tan(c.fovRadians() / 2)

	screenX := (x/(z*fovScale*aspect))*(width/2) + (width / 2)
	screenY := (-y/(z*fovScale))*(height/2) + (height / 2)

	return screenX, screenY, z
}

// Visible reports whether a depth returned by Project lies between the clip
// planes
func (c *Camera) Visible(depth float64) bool {
	return depth >= c.Near && depth <= c.Far
}

// Unproject converts screen coordinates back into a world space ray
func (c *Camera) Unproject(screenX, screenY, width, height float64) (origin, direction geometry.Vector3) {
	ndcX := (2.0 * screenX / width) - 1.0
	ndcY := 1.0 - (2.0 * screenY / height)

	aspect := width / height
	fovScale := math.Tan(c.fovRadians() / 2)

	forward, right, up := c.basis()
	rayDir := forward.Add(right.Mul(ndcX * fovScale * aspect)).Add(up.Mul(ndcY * fovScale))

	return c.Position, rayDir.Normalize()
}

func (c *Camera) fovRadians() float64 {
	return c.FOV * math.Pi / 180
}
