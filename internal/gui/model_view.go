package gui

import (
	"image"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"github.com/philipparndt/goview/internal/app"
)

const (
	rotateSpeed = 0.01
	zoomSpeed   = 0.001
)

var (
	_ fyne.Draggable  = (*ModelView)(nil)
	_ fyne.Scrollable = (*ModelView)(nil)
)

// ModelView shows the viewer's scene and orbits it with the mouse
type ModelView struct {
	widget.BaseWidget

	viewer *app.Viewer
	raster *canvas.Raster
}

// NewModelView creates a view drawing v
func NewModelView(v *app.Viewer) *ModelView {
	m := &ModelView{viewer: v}
	m.raster = canvas.NewRaster(func(w, h int) image.Image {
		return m.viewer.Render(w, h)
	})
	m.ExtendBaseWidget(m)
	return m
}

// CreateRenderer implements fyne.Widget
func (m *ModelView) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(m.raster)
}

// MinSize keeps the view usable in small windows
func (m *ModelView) MinSize() fyne.Size {
	return fyne.NewSize(400, 400)
}

// Dragged rotates the camera around the model
func (m *ModelView) Dragged(event *fyne.DragEvent) {
	m.viewer.Rotate(-float64(event.Dragged.DX)*rotateSpeed, float64(event.Dragged.DY)*rotateSpeed)
	m.raster.Refresh()
}

// DragEnd implements fyne.Draggable
func (m *ModelView) DragEnd() {}

// Scrolled zooms in and out
func (m *ModelView) Scrolled(event *fyne.ScrollEvent) {
	m.viewer.Zoom(-float64(event.Scrolled.DY) * zoomSpeed)
	m.raster.Refresh()
}

// Refresh redraws the scene
func (m *ModelView) Refresh() {
	m.raster.Refresh()
}
