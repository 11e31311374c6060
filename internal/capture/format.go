package capture

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
)

// ErrUnknownFormat is returned by ParseFormat for unsupported names
var ErrUnknownFormat = errors.New("unknown image format")

// Format is an image encoding for captures
type Format int

const (
	PNG Format = iota
	JPEG
	BMP
	TIFF
)

// Formats lists every supported format in menu order
var Formats = []Format{PNG, JPEG, BMP, TIFF}

// jpegQuality matches the browser default for canvas exports
const jpegQuality = 92

func (f Format) String() string {
	switch f {
	case JPEG:
		return "jpeg"
	case BMP:
		return "bmp"
	case TIFF:
		return "tiff"
	default:
		return "png"
	}
}

// MIME returns the media type
func (f Format) MIME() string {
	return "image/" + f.String()
}

// Ext returns the file extension including the dot
func (f Format) Ext() string {
	if f == JPEG {
		return ".jpg"
	}
	return "." + f.String()
}

// ParseFormat accepts a name, an extension or a MIME type
func ParseFormat(s string) (Format, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	name = strings.TrimPrefix(name, "image/")
	name = strings.TrimPrefix(name, ".")

	switch name {
	case "png":
		return PNG, nil
	case "jpeg", "jpg":
		return JPEG, nil
	case "bmp":
		return BMP, nil
	case "tiff", "tif":
		return TIFF, nil
	}
	return PNG, fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Encode writes img in format f. JPEG cannot store alpha, so transparent
// pixels are composited over white first.
func Encode(w io.Writer, img image.Image, f Format) error {
	var err error
	switch f {
	case PNG:
		err = png.Encode(w, img)
	case JPEG:
		err = jpeg.Encode(w, flatten(img, color.White), &jpeg.Options{Quality: jpegQuality})
	case BMP:
		err = bmp.Encode(w, img)
	case TIFF:
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return fmt.Errorf("%w: %d", ErrUnknownFormat, int(f))
	}
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", f, err)
	}
	return nil
}

func flatten(img image.Image, bg color.Color) image.Image {
	out := image.NewRGBA(img.Bounds())
	draw.Draw(out, out.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	draw.Draw(out, out.Bounds(), img, img.Bounds().Min, draw.Over)
	return out
}

// Thumbnail scales img to fit inside a size x size square
func Thumbnail(img image.Image, size int) *image.RGBA {
	b := img.Bounds()
	w, h := size, size
	if b.Dx() > b.Dy() {
		h = max(1, size*b.Dy()/b.Dx())
	} else if b.Dy() > b.Dx() {
		w = max(1, size*b.Dx()/b.Dy())
	}

	out := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(out, out.Bounds(), img, b, draw.Src, nil)
	return out
}
