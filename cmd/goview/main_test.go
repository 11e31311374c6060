package main

import (
	"bytes"
	"encoding/json"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/philipparndt/goview/internal/config"
	"github.com/philipparndt/goview/pkg/geometry"
)

const boxSTL = `solid box
facet normal 0 0 1
outer loop
vertex -1 -1 -1
vertex 1 -1 -1
vertex 1 1 1
endloop
endfacet
facet normal 0 0 1
outer loop
vertex -1 -1 -1
vertex 1 1 1
vertex -1 1 1
endloop
endfacet
endsolid box
`

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// execute runs the CLI with args and returns stdout
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	resetFlags(rootCmd)
	settings = config.Default()

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func writeModel(t *testing.T) string {
	return writeFile(t, "box.stl", boxSTL)
}

func TestParseVector(t *testing.T) {
	v, err := parseVector("1, -2.5,3")
	require.NoError(t, err)
	assert.Equal(t, geometry.NewVector3(1, -2.5, 3), v)

	_, err = parseVector("1,2")
	assert.Error(t, err)
	_, err = parseVector("1,a,2")
	assert.Error(t, err)
}

func TestFrameJSON(t *testing.T) {
	out, err := execute(t, "frame", writeModel(t), "--json", "--pos", "0,0,10")
	require.NoError(t, err)

	var got frameOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.True(t, got.Framed)
	assert.Equal(t, [3]float64{0, 0, 0}, got.Target)
	assert.InDelta(t, got.Distance, got.Position[2], 1e-9)
	assert.InDelta(t, 2, got.Extent, 1e-12)
	assert.GreaterOrEqual(t, got.Near, 0.1)
	assert.GreaterOrEqual(t, got.Far, 1000.0)
}

func TestFramePaddingScalesDistance(t *testing.T) {
	path := writeModel(t)

	out, err := execute(t, "frame", path, "--json")
	require.NoError(t, err)
	var base frameOutput
	require.NoError(t, json.Unmarshal([]byte(out), &base))

	out, err = execute(t, "frame", path, "--json", "--padding", "2")
	require.NoError(t, err)
	var padded frameOutput
	require.NoError(t, json.Unmarshal([]byte(out), &padded))

	assert.InDelta(t, 2*base.Distance, padded.Distance, 1e-9)
}

func TestFrameText(t *testing.T) {
	out, err := execute(t, "frame", writeModel(t))
	require.NoError(t, err)
	assert.Contains(t, out, "Camera Framing")
	assert.Contains(t, out, "Target: (0.000000, 0.000000, 0.000000)")
}

func TestFrameRejectsBadFlags(t *testing.T) {
	_, err := execute(t, "frame", writeModel(t), "--fov", "0")
	assert.Error(t, err)

	_, err = execute(t, "frame", writeModel(t), "--pos", "1,2")
	assert.Error(t, err)
}

func TestInfo(t *testing.T) {
	out, err := execute(t, "info", writeModel(t), "-n", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Name: box")
	assert.Contains(t, out, "Triangles: 2")
	assert.Contains(t, out, "Longest Edges:")
}

func TestSnapshot(t *testing.T) {
	out := filepath.Join(t.TempDir(), "shot.png")
	stdout, err := execute(t, "snapshot", writeModel(t), "-o", out, "--width", "40", "--height", "30", "--transparent")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Wrote "+out)

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 40, img.Bounds().Dx())
	assert.Equal(t, 30, img.Bounds().Dy())

	_, _, _, a := img.At(0, 0).RGBA()
	assert.Zero(t, a)
}

func TestSnapshotDefaultName(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "goview.toml")
	require.NoError(t, os.WriteFile(cfg, []byte("output_dir = \""+filepath.ToSlash(dir)+"\"\nwidth = 8\nheight = 8\n"), 0o644))

	_, err := execute(t, "--config", cfg, "snapshot", writeModel(t), "--format", "jpeg")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "box.jpg"))
}

func TestSnapshotUnsupported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.obj")
	require.NoError(t, os.WriteFile(path, []byte("v 0 0 0\n"), 0o644))

	_, err := execute(t, "snapshot", path)
	assert.Error(t, err)
}

func TestConfigCommand(t *testing.T) {
	out, err := execute(t, "config")
	require.NoError(t, err)
	assert.Contains(t, out, "fov = 75")
	assert.Contains(t, out, "300ms")

	_, err = config.Load(writeFile(t, "goview.toml", out))
	assert.NoError(t, err)
}

func TestCompletion(t *testing.T) {
	out, err := execute(t, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "goview")

	_, err = execute(t, "completion", "tcsh")
	assert.Error(t, err)
}
