package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/philipparndt/goview/pkg/analysis"
	"github.com/philipparndt/goview/pkg/framing"
	"github.com/philipparndt/goview/pkg/loader"
	"github.com/philipparndt/goview/pkg/viewer"
)

var (
	frameCamera cameraFlags
	frameJSON   bool
)

var frameCmd = &cobra.Command{
	Use:   "frame [file]",
	Short: "Compute the camera pose that frames a model",
	Long: `Fit a perspective camera around the model's bounding volume and print the
resulting position, target and clip planes. The camera keeps the direction it
had from --pos towards the model center.`,
	Args: cobra.ExactArgs(1),
	RunE: runFrame,
}

func init() {
	rootCmd.AddCommand(frameCmd)

	frameCamera.register(frameCmd)
	frameCmd.Flags().BoolVar(&frameJSON, "json", false, "Print the result as JSON")
}

type frameOutput struct {
	Position [3]float64 `json:"position"`
	Target   [3]float64 `json:"target"`
	Near     float64    `json:"near"`
	Far      float64    `json:"far"`
	Distance float64    `json:"distance"`
	Radius   float64    `json:"radius"`
	Extent   float64    `json:"maxExtent"`
	Framed   bool       `json:"framed"`
}

func runFrame(cmd *cobra.Command, args []string) error {
	if err := frameCamera.apply(cmd); err != nil {
		return err
	}

	m, err := loader.Load(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	cam := viewer.NewCamera()
	cam.FOV = settings.FOV
	cam.Near = settings.Near
	cam.Far = settings.Far
	if p, ok, err := frameCamera.startPosition(); err != nil {
		return err
	} else if ok {
		cam.SetPosition(p)
	}

	volume := m.BoundingVolume()
	framed := true
	if err := cam.Frame(volume, settings.Padding, nil); err != nil {
		if !errors.Is(err, framing.ErrDegenerateVolume) {
			return err
		}
		slog.Warn("model has no extent, camera unchanged", "file", args[0])
		framed = false
	}

	e := cam.Extrinsics()
	if frameJSON {
		out := frameOutput{
			Position: [3]float64{e.Position.X, e.Position.Y, e.Position.Z},
			Target:   [3]float64{e.Target.X, e.Target.Y, e.Target.Z},
			Near:     e.Near,
			Far:      e.Far,
			Distance: e.Distance,
			Radius:   volume.Radius(),
			Extent:   volume.MaxExtent(),
			Framed:   framed,
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintln(w, "Camera Framing")
	fmt.Fprintln(w, "==============")
	fmt.Fprintf(w, "File: %s\n", args[0])
	fmt.Fprintf(w, "FOV: %.2f degrees, padding %.2f\n\n", settings.FOV, settings.Padding)
	fmt.Fprintf(w, "Bounding radius: %.6f\n", volume.Radius())
	fmt.Fprintf(w, "Max extent: %.6f\n\n", volume.MaxExtent())
	fmt.Fprintf(w, "Position: %s\n", analysis.FormatVector(e.Position))
	fmt.Fprintf(w, "Target: %s\n", analysis.FormatVector(e.Target))
	fmt.Fprintf(w, "Distance: %.6f\n", e.Distance)
	fmt.Fprintf(w, "Near: %.6f\n", e.Near)
	fmt.Fprintf(w, "Far: %.6f\n", e.Far)
	return nil
}
