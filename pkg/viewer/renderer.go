// Package viewer renders meshes from a perspective camera into images.
package viewer

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"

	"github.com/philipparndt/goview/pkg/geometry"
	"github.com/philipparndt/goview/pkg/mesh"
)

// Light intensities of the scene, ambient 1 and directional 2 normalized so
// a face lit head-on reaches full brightness
const (
	ambientIntensity     = 1.0 / 3.0
	directionalIntensity = 2.0 / 3.0
)

// LightPosition is where the directional light shines from
var LightPosition = geometry.NewVector3(10, 10, 10)

// RenderOptions controls a software render
type RenderOptions struct {
	Width       int
	Height      int
	Background  color.Color // ignored when Transparent is set
	Transparent bool
	ModelColor  color.RGBA
	Wireframe   bool
	EdgeColor   color.RGBA
}

// DefaultRenderOptions renders 800x600 on white with a light grey model
func DefaultRenderOptions() RenderOptions {
	return RenderOptions{
		Width:      800,
		Height:     600,
		Background: color.White,
		ModelColor: color.RGBA{R: 200, G: 200, B: 205, A: 255},
		EdgeColor:  color.RGBA{R: 40, G: 40, B: 40, A: 255},
	}
}

// Render draws m as seen by cam. A nil mesh renders only the background.
func Render(m *mesh.Mesh, cam *Camera, opts RenderOptions) *image.RGBA {
	width, height := opts.Width, opts.Height
	if width <= 0 || height <= 0 {
		width, height = 1, 1
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	if !opts.Transparent && opts.Background != nil {
		draw.Draw(img, img.Bounds(), image.NewUniform(opts.Background), image.Point{}, draw.Src)
	}
	if m == nil {
		return img
	}

	w, h := float64(width), float64(height)
	zb := newZBuffer(width, height)
	light := LightPosition.Normalize()

	for _, tri := range m.Triangles {
		var verts [3]screenVertex
		visible := true
		for i, v := range tri.Vertices() {
			x, y, z := cam.Project(v, w, h)
			if !cam.Visible(z) {
				visible = false
				break
			}
			verts[i] = screenVertex{x: x, y: y, z: z}
		}
		if !visible {
			continue
		}

		// Two-sided lighting: face the normal towards the camera so meshes
		// with inconsistent winding still shade.
		normal := tri.FaceNormal()
		if normal.Dot(cam.Position.Sub(tri.Center())) < 0 {
			normal = normal.Mul(-1)
		}
		fillTriangle(img, zb, verts[0], verts[1], verts[2], shade(opts.ModelColor, normal, light))
	}

	if opts.Wireframe {
		drawWireframe(img, m, cam, opts.EdgeColor)
	}

	return img
}

// shade applies ambient plus Lambert diffuse lighting to base
func shade(base color.RGBA, normal, light geometry.Vector3) color.RGBA {
	intensity := ambientIntensity + directionalIntensity*math.Max(0, normal.Dot(light))
	scale := func(c uint8) uint8 {
		return uint8(math.Min(255, math.Round(float64(c)*intensity)))
	}
	return color.RGBA{R: scale(base.R), G: scale(base.G), B: scale(base.B), A: 255}
}

func drawWireframe(img *image.RGBA, m *mesh.Mesh, cam *Camera, col color.RGBA) {
	w, h := float64(img.Bounds().Dx()), float64(img.Bounds().Dy())
	for _, tri := range m.Triangles {
		vertices := tri.Vertices()
		for i := 0; i < 3; i++ {
			x1, y1, z1 := cam.Project(vertices[i], w, h)
			x2, y2, z2 := cam.Project(vertices[(i+1)%3], w, h)
			if !cam.Visible(z1) || !cam.Visible(z2) {
				continue
			}
			drawLine(img, int(math.Round(x1)), int(math.Round(y1)), int(math.Round(x2)), int(math.Round(y2)), col)
		}
	}
}
