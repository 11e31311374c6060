package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/philipparndt/goview/pkg/analysis"
	"github.com/philipparndt/goview/pkg/loader"
)

var infoLongest int

var infoCmd = &cobra.Command{
	Use:   "info [file]",
	Short: "Display general information about a model",
	Long:  "Show dimensions, bounding sphere, triangle count, surface area and edge statistics.",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)

	infoCmd.Flags().IntVarP(&infoLongest, "longest", "n", 0, "Also list the n longest edges")
}

func runInfo(cmd *cobra.Command, args []string) error {
	filename := args[0]

	m, err := loader.Load(cmd.Context(), filename)
	if err != nil {
		return err
	}

	result := analysis.AnalyzeMesh(m)
	box := result.Volume.Box
	w := cmd.OutOrStdout()

	fmt.Fprintln(w, "Model Information")
	fmt.Fprintln(w, "=================")
	if m.Name != "" {
		fmt.Fprintf(w, "Name: %s\n", m.Name)
	}
	fmt.Fprintf(w, "File: %s\n\n", filename)

	fmt.Fprintln(w, "Model Statistics:")
	fmt.Fprintf(w, "  Triangles: %d\n", result.TriangleCount)
	fmt.Fprintf(w, "  Edges: %d\n", result.EdgeCount)
	fmt.Fprintf(w, "  Surface Area: %.6f square units\n\n", result.SurfaceArea)

	fmt.Fprintln(w, "Bounding Box:")
	fmt.Fprintf(w, "  Min: %s\n", analysis.FormatVector(box.Min))
	fmt.Fprintf(w, "  Max: %s\n", analysis.FormatVector(box.Max))
	fmt.Fprintf(w, "  Center: %s\n\n", analysis.FormatVector(box.Center()))

	fmt.Fprintln(w, "Bounding Sphere:")
	fmt.Fprintf(w, "  Center: %s\n", analysis.FormatVector(result.Volume.Sphere.Center))
	fmt.Fprintf(w, "  Radius: %.6f units\n\n", result.Volume.Radius())

	fmt.Fprintln(w, "Dimensions:")
	fmt.Fprintf(w, "  Width (X): %.6f units\n", result.Dimensions.X)
	fmt.Fprintf(w, "  Depth (Y): %.6f units\n", result.Dimensions.Y)
	fmt.Fprintf(w, "  Height (Z): %.6f units\n", result.Dimensions.Z)
	fmt.Fprintf(w, "  Diagonal: %.6f units\n", box.Diagonal())
	fmt.Fprintf(w, "  Box Volume: %.6f cubic units\n\n", result.BoxVolume)

	fmt.Fprintln(w, "Edge Lengths:")
	fmt.Fprintf(w, "  Minimum: %.6f units\n", result.MinEdgeLength)
	fmt.Fprintf(w, "  Maximum: %.6f units\n", result.MaxEdgeLength)
	fmt.Fprintf(w, "  Average: %.6f units\n", result.AvgEdgeLength)
	fmt.Fprintf(w, "  Std Dev: %.6f units\n", result.StdEdgeLength)

	if infoLongest > 0 {
		fmt.Fprintf(w, "\nLongest Edges:\n")
		for i, e := range result.LongestEdges(infoLongest) {
			fmt.Fprintf(w, "  %d. %.6f  %s -> %s\n", i+1, e.Length,
				analysis.FormatVector(e.Start), analysis.FormatVector(e.End))
		}
	}
	return nil
}
