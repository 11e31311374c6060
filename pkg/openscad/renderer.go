// Package openscad turns OpenSCAD sources into meshes by running the
// openscad executable.
package openscad

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/philipparndt/goview/pkg/mesh"
	"github.com/philipparndt/goview/pkg/stl"
)

// ErrNotInstalled is returned when the openscad binary cannot be found
var ErrNotInstalled = errors.New("openscad not found in PATH, install it from https://openscad.org/")

var (
	useRegex     = regexp.MustCompile(`^\s*use\s*<([^>]+)>`)
	includeRegex = regexp.MustCompile(`^\s*include\s*<([^>]+)>`)
)

// Renderer handles OpenSCAD file rendering
type Renderer struct {
	workDir string
	binary  string
}

// NewRenderer creates a renderer that resolves relative paths against workDir
func NewRenderer(workDir string) *Renderer {
	return &Renderer{workDir: workDir, binary: "openscad"}
}

// Render renders scadFile into a temporary STL and parses it
func (r *Renderer) Render(ctx context.Context, scadFile string) (*mesh.Mesh, error) {
	tmp, err := os.MkdirTemp("", "goview-scad-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tmp)

	out := filepath.Join(tmp, "model.stl")
	if err := r.RenderToSTL(ctx, scadFile, out); err != nil {
		return nil, err
	}

	m, err := stl.Parse(out)
	if err != nil {
		return nil, fmt.Errorf("failed to read rendered STL: %w", err)
	}
	m.Source = r.abs(scadFile)
	m.Name = strings.TrimSuffix(filepath.Base(scadFile), filepath.Ext(scadFile))
	return m, nil
}

// RenderToSTL renders an OpenSCAD file to STL format
func (r *Renderer) RenderToSTL(ctx context.Context, scadFile, outputFile string) error {
	path, err := exec.LookPath(r.binary)
	if err != nil {
		return ErrNotInstalled
	}

	source := r.abs(scadFile)
	slog.Debug("rendering openscad file", "source", source, "output", outputFile)

	cmd := exec.CommandContext(ctx, path, "-o", outputFile, source)
	cmd.Dir = r.workDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var msg strings.Builder
		fmt.Fprintf(&msg, "failed to render %s: %v", scadFile, err)
		if stderr.Len() > 0 {
			fmt.Fprintf(&msg, "\nstderr: %s", stderr.String())
		}
		if stdout.Len() > 0 {
			fmt.Fprintf(&msg, "\nstdout: %s", stdout.String())
		}
		return errors.New(msg.String())
	}

	return nil
}

// ResolveDependencies returns scadFile and every file it pulls in through
// use or include statements, as absolute paths. Cycles are followed once.
func (r *Renderer) ResolveDependencies(scadFile string) ([]string, error) {
	visited := make(map[string]bool)
	var deps []string

	var walk func(file string) error
	walk = func(file string) error {
		if visited[file] {
			return nil
		}
		visited[file] = true
		deps = append(deps, file)

		direct, err := r.parseDependencies(file)
		if err != nil {
			return err
		}
		for _, dep := range direct {
			if err := walk(dep); err != nil {
				return err
			}
		}
		return nil
	}

	if err := walk(r.abs(scadFile)); err != nil {
		return nil, err
	}
	return deps, nil
}

func (r *Renderer) parseDependencies(scadFile string) ([]string, error) {
	file, err := os.Open(scadFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", scadFile, err)
	}
	defer file.Close()

	var deps []string
	dir := filepath.Dir(scadFile)
	scanner := bufio.NewScanner(file)

	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(strings.TrimSpace(line), "//") {
			continue
		}

		for _, re := range []*regexp.Regexp{useRegex, includeRegex} {
			if matches := re.FindStringSubmatch(line); len(matches) > 1 {
				deps = append(deps, r.resolveDepPath(matches[1], dir))
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading %s: %w", scadFile, err)
	}

	return deps, nil
}

// resolveDepPath tries the including file's directory first, then workDir
func (r *Renderer) resolveDepPath(depPath, currentDir string) string {
	if strings.HasPrefix(depPath, "./") || strings.HasPrefix(depPath, "../") {
		return filepath.Clean(filepath.Join(currentDir, depPath))
	}

	local := filepath.Join(currentDir, depPath)
	if _, err := os.Stat(local); err == nil {
		return filepath.Clean(local)
	}

	return filepath.Clean(filepath.Join(r.workDir, depPath))
}

func (r *Renderer) abs(file string) string {
	if filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(r.workDir, file)
}
