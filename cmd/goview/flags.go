package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/philipparndt/goview/pkg/geometry"
)

// parseVector parses "x,y,z"
func parseVector(s string) (geometry.Vector3, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return geometry.Vector3{}, fmt.Errorf("expected x,y,z, got %q", s)
	}

	var c [3]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return geometry.Vector3{}, fmt.Errorf("invalid coordinate %q: %w", p, err)
		}
		c[i] = v
	}
	return geometry.NewVector3(c[0], c[1], c[2]), nil
}

// cameraFlags are shared by frame and snapshot
type cameraFlags struct {
	fov      float64
	padding  float64
	far      float64
	position string
}

func (f *cameraFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.fov, "fov", settings.FOV, "Vertical field of view in degrees")
	cmd.Flags().Float64Var(&f.padding, "padding", settings.Padding, "Distance multiplier applied after framing")
	cmd.Flags().Float64Var(&f.far, "far", settings.Far, "Far clip plane before framing")
	cmd.Flags().StringVar(&f.position, "pos", "", "Camera position x,y,z")
}

// apply copies explicitly set flags over the loaded settings
func (f *cameraFlags) apply(cmd *cobra.Command) error {
	if cmd.Flags().Changed("fov") {
		settings.FOV = f.fov
	}
	if cmd.Flags().Changed("padding") {
		settings.Padding = f.padding
	}
	if cmd.Flags().Changed("far") {
		settings.Far = f.far
	}
	return settings.Validate()
}

// startPosition returns the --pos value, if given
func (f *cameraFlags) startPosition() (geometry.Vector3, bool, error) {
	if f.position == "" {
		return geometry.Vector3{}, false, nil
	}
	p, err := parseVector(f.position)
	return p, err == nil, err
}
