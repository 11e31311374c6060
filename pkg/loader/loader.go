// Package loader picks a reader for a model file based on its extension.
package loader

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/philipparndt/goview/pkg/mesh"
	"github.com/philipparndt/goview/pkg/openscad"
	"github.com/philipparndt/goview/pkg/stl"
)

// ErrUnsupportedFormat is returned for extensions no reader handles
var ErrUnsupportedFormat = errors.New("unsupported model format")

// Extensions lists the file extensions Load understands
var Extensions = []string{".glb", ".gltf", ".stl", ".scad"}

// Supported reports whether Load can read path
func Supported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions {
		if e == ext {
			return true
		}
	}
	return false
}

// Load reads the model at path into a mesh
func Load(ctx context.Context, path string) (*mesh.Mesh, error) {
	start := time.Now()

	var (
		m   *mesh.Mesh
		err error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".glb", ".gltf":
		m, err = LoadGLTF(path)
	case ".stl":
		m, err = stl.Parse(path)
	case ".scad":
		m, err = openscad.NewRenderer(filepath.Dir(path)).Render(ctx, path)
	default:
		return nil, fmt.Errorf("%w: %q (use %s)", ErrUnsupportedFormat, ext, strings.Join(Extensions, ", "))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	slog.Debug("model loaded", "path", path, "triangles", m.TriangleCount(), "elapsed", time.Since(start))
	return m, nil
}

// Dependencies returns every file whose change should trigger a reload of
// path. For OpenSCAD sources that includes use/include targets.
func Dependencies(path string) ([]string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path %s: %w", path, err)
	}
	if strings.ToLower(filepath.Ext(abs)) != ".scad" {
		return []string{abs}, nil
	}
	return openscad.NewRenderer(filepath.Dir(abs)).ResolveDependencies(abs)
}
