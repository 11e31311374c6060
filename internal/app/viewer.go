// Package app holds the viewer workflow shared by the command line and the
// desktop front ends: load a model, frame it, render it, capture it.
package app

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"sync"
	"time"

	"github.com/philipparndt/goview/internal/capture"
	"github.com/philipparndt/goview/internal/config"
	"github.com/philipparndt/goview/pkg/framing"
	"github.com/philipparndt/goview/pkg/geometry"
	"github.com/philipparndt/goview/pkg/loader"
	"github.com/philipparndt/goview/pkg/mesh"
	"github.com/philipparndt/goview/pkg/viewer"
)

// ErrNoModel is returned by operations that need a loaded model
var ErrNoModel = errors.New("no model loaded")

// Viewer owns the current model, the camera and the capture history.
// All methods are safe for concurrent use.
type Viewer struct {
	mu          sync.Mutex
	settings    config.Settings
	source      string
	model       *mesh.Mesh
	camera      *viewer.Camera
	orbit       *viewer.OrbitControls
	background  color.RGBA
	transparent bool
	format      capture.Format
	history     *capture.History
	listeners   []func(geometry.Vector3)
}

// New creates a viewer configured from settings
func New(settings config.Settings) *Viewer {
	v := &Viewer{
		settings: settings,
		history:  capture.NewHistory(),
	}
	v.resetView()
	return v
}

// resetView restores camera, background and format from the settings
func (v *Viewer) resetView() {
	v.camera = viewer.NewCamera()
	v.camera.FOV = v.settings.FOV
	v.camera.Near = v.settings.Near
	v.camera.Far = v.settings.Far
	v.orbit = viewer.NewOrbitControls(v.camera)
	for _, fn := range v.listeners {
		v.orbit.OnChange(fn)
	}

	v.background = v.settings.BackgroundColor()
	v.transparent = v.settings.Transparent
	v.format = capture.PNG
	if f, err := capture.ParseFormat(v.settings.Format); err == nil {
		v.format = f
	}
}

// Load reads the model at path and frames the camera around it. A model
// without extent is kept but leaves the camera where it was. Any other
// framing failure restores the previously loaded model.
func (v *Viewer) Load(ctx context.Context, path string) (*mesh.Mesh, error) {
	start := time.Now()
	m, err := loader.Load(ctx, path)
	if err != nil {
		return nil, err
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	prevModel, prevSource := v.model, v.source
	v.model = m
	v.source = path
	if err := v.frameLocked(); err != nil && !errors.Is(err, framing.ErrDegenerateVolume) {
		v.model, v.source = prevModel, prevSource
		return nil, fmt.Errorf("failed to frame %s: %w", path, err)
	}

	slog.Info("model loaded",
		"path", path,
		"triangles", m.TriangleCount(),
		"elapsed", time.Since(start).Round(time.Millisecond))
	return m, nil
}

// Reload re-reads the current file and keeps the camera pose, shifting it by
// how far the model center moved
func (v *Viewer) Reload(ctx context.Context) error {
	v.mu.Lock()
	path := v.source
	v.mu.Unlock()

	if path == "" {
		return ErrNoModel
	}

	m, err := loader.Load(ctx, path)
	if err != nil {
		return fmt.Errorf("failed to reload %s: %w", path, err)
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if v.source != path {
		// a different file was opened while this one was loading
		return nil
	}

	var delta geometry.Vector3
	if v.model != nil {
		delta = m.BoundingBox().Center().Sub(v.model.BoundingBox().Center())
	}
	v.model = m
	v.camera.Position = v.camera.Position.Add(delta)
	v.orbit.SetTarget(v.orbit.Target().Add(delta))
	v.orbit.Update()

	slog.Info("model reloaded", "path", path, "triangles", m.TriangleCount())
	return nil
}

// Frame re-fits the camera around the current model
func (v *Viewer) Frame() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.model == nil {
		return ErrNoModel
	}
	return v.frameLocked()
}

func (v *Viewer) frameLocked() error {
	err := v.camera.Frame(v.model.BoundingVolume(), v.settings.Padding, v.orbit)
	if errors.Is(err, framing.ErrDegenerateVolume) {
		slog.Warn("model has no extent, camera unchanged", "model", v.model.Name)
	}
	return err
}

// Model returns the loaded mesh or nil
func (v *Viewer) Model() *mesh.Mesh {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.model
}

// Source returns the path of the loaded file
func (v *Viewer) Source() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.source
}

// Camera returns a copy of the camera state
func (v *Viewer) Camera() viewer.Camera {
	v.mu.Lock()
	defer v.mu.Unlock()
	return *v.camera
}

// SetCameraPosition moves the camera and re-aims it at the orbit target
func (v *Viewer) SetCameraPosition(p geometry.Vector3) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.camera.SetPosition(p)
	v.orbit.Update()
}

// OnCameraChange registers fn to be called with the camera position after
// every orbit update. fn runs with the viewer locked and must not call back
// into it.
func (v *Viewer) OnCameraChange(fn func(geometry.Vector3)) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.listeners = append(v.listeners, fn)
	v.orbit.OnChange(fn)
}

// Rotate orbits the camera by yaw and pitch deltas in radians
func (v *Viewer) Rotate(deltaYaw, deltaPitch float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.orbit.Rotate(deltaYaw, deltaPitch)
}

// Zoom moves the camera towards (negative) or away from the target
func (v *Viewer) Zoom(delta float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.orbit.Zoom(delta)
}

// SetBackground sets the background color used when not transparent
func (v *Viewer) SetBackground(c color.Color) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.background = color.RGBAModel.Convert(c).(color.RGBA)
}

// Background returns the current background color
func (v *Viewer) Background() color.RGBA {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.background
}

// SetTransparent toggles a transparent background
func (v *Viewer) SetTransparent(transparent bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.transparent = transparent
}

// Transparent reports whether renders have a transparent background
func (v *Viewer) Transparent() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.transparent
}

// SetFormat selects the encoding used by Capture
func (v *Viewer) SetFormat(f capture.Format) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.format = f
}

// Format returns the capture encoding
func (v *Viewer) Format() capture.Format {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.format
}

// History returns the capture history
func (v *Viewer) History() *capture.History {
	return v.history
}

// Render draws the current scene at width x height. Without a model only
// the background is drawn.
func (v *Viewer) Render(width, height int) *image.RGBA {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.renderLocked(width, height)
}

func (v *Viewer) renderLocked(width, height int) *image.RGBA {
	opts := viewer.DefaultRenderOptions()
	opts.Width = width
	opts.Height = height
	opts.Background = v.background
	opts.Transparent = v.transparent
	opts.Wireframe = v.settings.Wireframe

	return viewer.Render(v.model, v.camera, opts)
}

// Capture renders at the configured size and appends the image to the
// history in the current format
func (v *Viewer) Capture() (capture.Capture, error) {
	v.mu.Lock()
	if v.model == nil {
		v.mu.Unlock()
		return capture.Capture{}, ErrNoModel
	}
	img := v.renderLocked(v.settings.Width, v.settings.Height)
	format := v.format
	v.mu.Unlock()

	c, err := v.history.Add(img, format)
	if err != nil {
		return capture.Capture{}, err
	}
	slog.Debug("captured", "id", c.ID, "format", format, "bytes", len(c.Data))
	return c, nil
}

// Reset drops the model and the captures and restores the default view
func (v *Viewer) Reset() {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.model = nil
	v.source = ""
	v.history.Clear()
	v.resetView()
}
