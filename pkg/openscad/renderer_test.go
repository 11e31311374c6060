package openscad

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestResolveDependencies(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "main.scad"), "use <lib/shapes.scad>\ninclude <./params.scad>\n// use <ignored.scad>\ncube(1);\n")
	writeFile(t, filepath.Join(dir, "lib", "shapes.scad"), "include <../params.scad>\nmodule s() {}\n")
	writeFile(t, filepath.Join(dir, "params.scad"), "use <main.scad>\nsize = 3;\n")

	deps, err := NewRenderer(dir).ResolveDependencies("main.scad")
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(dir, "main.scad"),
		filepath.Join(dir, "lib", "shapes.scad"),
		filepath.Join(dir, "params.scad"),
	}, deps)
}

func TestResolveDependenciesMissingFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "main.scad"), "use <missing.scad>\n")

	_, err := NewRenderer(dir).ResolveDependencies(filepath.Join(dir, "main.scad"))
	assert.Error(t, err)
}

func TestRenderWithoutBinary(t *testing.T) {
	r := NewRenderer(t.TempDir())
	r.binary = "openscad-binary-that-does-not-exist"

	_, err := r.Render(context.Background(), "part.scad")
	assert.True(t, errors.Is(err, ErrNotInstalled))
}
