package viewer

import (
	"math"

	"github.com/philipparndt/goview/pkg/framing"
	"github.com/philipparndt/goview/pkg/geometry"
)

const (
	// maxPitch keeps the camera away from the poles where Up and the view
	// direction become parallel
	maxPitch = math.Pi/2 - 0.01
	// MinOrbitDistance is the closest Zoom gets to the target
	MinOrbitDistance = 0.01
)

var _ framing.Target = (*OrbitControls)(nil)

// OrbitControls rotates a camera around a target point on a sphere.
// Angles follow a Y-up convention: yaw around Y, pitch towards +Y.
type OrbitControls struct {
	camera   *Camera
	target   geometry.Vector3
	distance float64
	yaw      float64
	pitch    float64
	onChange []func(position geometry.Vector3)
}

// NewOrbitControls attaches controls to camera and adopts its current pose
func NewOrbitControls(camera *Camera) *OrbitControls {
	o := &OrbitControls{camera: camera, target: camera.Target}
	o.sync()
	return o
}

// Target returns the orbit center
func (o *OrbitControls) Target() geometry.Vector3 {
	return o.target
}

// Distance returns the radius of the orbit
func (o *OrbitControls) Distance() float64 {
	return o.distance
}

// Angles returns yaw and pitch in radians
func (o *OrbitControls) Angles() (yaw, pitch float64) {
	return o.yaw, o.pitch
}

// SetTarget moves the orbit center. The camera follows on the next Update.
func (o *OrbitControls) SetTarget(center geometry.Vector3) {
	o.target = center
}

// Update re-derives the orbit from the camera position, points the camera
// at the target and notifies listeners
func (o *OrbitControls) Update() {
	o.sync()
	o.apply()
}

// OnChange registers a listener called with the camera position after every
// change made through the controls
func (o *OrbitControls) OnChange(fn func(position geometry.Vector3)) {
	o.onChange = append(o.onChange, fn)
}

// Rotate adds yaw and pitch deltas in radians
func (o *OrbitControls) Rotate(deltaYaw, deltaPitch float64) {
	o.yaw += deltaYaw
	o.pitch = math.Max(-maxPitch, math.Min(maxPitch, o.pitch+deltaPitch))
	o.apply()
}

// Zoom scales the orbit distance by 1+delta
func (o *OrbitControls) Zoom(delta float64) {
	o.distance = math.Max(MinOrbitDistance, o.distance*(1.0+delta))
	o.apply()
}

// sync reads distance and angles from the camera relative to the target.
// The pitch is not clamped here, so Update reproduces a framed pose exactly
// even when it looks straight down or up; only Rotate keeps off the poles.
func (o *OrbitControls) sync() {
	offset := o.camera.Position.Sub(o.target)
	o.distance = offset.Length()
	if o.distance == 0 {
		o.yaw, o.pitch = 0, 0
		return
	}
	o.yaw = math.Atan2(offset.X, offset.Z)
	o.pitch = math.Asin(math.Max(-1, math.Min(1, offset.Y/o.distance)))
}

// apply positions the camera from the spherical coordinates
func (o *OrbitControls) apply() {
	x := o.distance * math.Cos(o.pitch) * math.Sin(o.yaw)
	y := o.distance * math.Sin(o.pitch)
	z := o.distance * math.Cos(o.pitch) * math.Cos(o.yaw)

	o.camera.Position = o.target.Add(geometry.NewVector3(x, y, z))
	o.camera.Target = o.target

	for _, fn := range o.onChange {
		fn(o.camera.Position)
	}
}
