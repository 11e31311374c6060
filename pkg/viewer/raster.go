package viewer

import (
	"image"
	"image/color"
	"math"
)

// zbuffer holds one depth value per pixel, smaller is closer
type zbuffer struct {
	width int
	depth []float64
}

func newZBuffer(width, height int) *zbuffer {
	depth := make([]float64, width*height)
	for i := range depth {
		depth[i] = math.Inf(1)
	}
	return &zbuffer{width: width, depth: depth}
}

// test stores z and returns true when it is closer than the stored depth
func (zb *zbuffer) test(x, y int, z float64) bool {
	idx := y*zb.width + x
	if idx < 0 || idx >= len(zb.depth) || z >= zb.depth[idx] {
		return false
	}
	zb.depth[idx] = z
	return true
}

// screenVertex is a projected vertex: pixel coordinates plus view depth
type screenVertex struct {
	x, y, z float64
}

// fillTriangle fills a triangle with a scanline walk, interpolating depth
// along the edges and across each span
func fillTriangle(img *image.RGBA, zb *zbuffer, a, b, c screenVertex, col color.RGBA) {
	// Sort vertices top to bottom
	if a.y > b.y {
		a, b = b, a
	}
	if b.y > c.y {
		b, c = c, b
	}
	if a.y > b.y {
		a, b = b, a
	}

	bounds := img.Bounds()
	yStart := int(math.Max(float64(bounds.Min.Y), math.Ceil(a.y)))
	yEnd := int(math.Min(float64(bounds.Max.Y-1), math.Floor(c.y)))

	for y := yStart; y <= yEnd; y++ {
		fy := float64(y)

		// The long edge a-c spans every scanline; the short side switches
		// from a-b to b-c at b.
		xl, zl, ok := edgeAt(a, c, fy)
		if !ok {
			continue
		}
		var xr, zr float64
		if fy < b.y {
			xr, zr, ok = edgeAt(a, b, fy)
		} else {
			xr, zr, ok = edgeAt(b, c, fy)
		}
		if !ok {
			continue
		}

		if xl > xr {
			xl, xr = xr, xl
			zl, zr = zr, zl
		}

		xStart := int(math.Max(float64(bounds.Min.X), math.Ceil(xl)))
		xEnd := int(math.Min(float64(bounds.Max.X-1), math.Floor(xr)))

		for x := xStart; x <= xEnd; x++ {
			t := 0.0
			if xr != xl {
				t = (float64(x) - xl) / (xr - xl)
			}
			if zb.test(x-bounds.Min.X, y-bounds.Min.Y, zl+t*(zr-zl)) {
				img.SetRGBA(x, y, col)
			}
		}
	}
}

// edgeAt interpolates x and z where the edge p-q crosses scanline y
func edgeAt(p, q screenVertex, y float64) (x, z float64, ok bool) {
	if p.y == q.y {
		if y != p.y {
			return 0, 0, false
		}
		return math.Min(p.x, q.x), math.Min(p.z, q.z), true
	}
	t := (y - p.y) / (q.y - p.y)
	if t < 0 || t > 1 {
		return 0, 0, false
	}
	return p.x + t*(q.x-p.x), p.z + t*(q.z-p.z), true
}

// drawLine draws a line using Bresenham's algorithm
func drawLine(img *image.RGBA, x1, y1, x2, y2 int, col color.RGBA) {
	bounds := img.Bounds()

	dx := abs(x2 - x1)
	dy := abs(y2 - y1)

	sx, sy := -1, -1
	if x1 < x2 {
		sx = 1
	}
	if y1 < y2 {
		sy = 1
	}

	err := dx - dy
	for {
		if (image.Point{X: x1, Y: y1}).In(bounds) {
			img.SetRGBA(x1, y1, col)
		}

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
