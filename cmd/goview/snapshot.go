package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/philipparndt/goview/internal/app"
	"github.com/philipparndt/goview/internal/capture"
)

var (
	snapshotCamera      cameraFlags
	snapshotOutput      string
	snapshotFormat      string
	snapshotBackground  string
	snapshotTransparent bool
	snapshotWidth       int
	snapshotHeight      int
	snapshotWireframe   bool
	snapshotWatch       bool
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot [file]",
	Short: "Render a framed image of a model",
	Long: `Frame the model, render it in software and write one image. With --watch the
image is rewritten whenever the model or one of its OpenSCAD dependencies
changes, until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runSnapshot,
}

func init() {
	rootCmd.AddCommand(snapshotCmd)

	snapshotCamera.register(snapshotCmd)
	snapshotCmd.Flags().StringVarP(&snapshotOutput, "output", "o", "", "Output file (default <output_dir>/<model>.<ext>)")
	snapshotCmd.Flags().StringVarP(&snapshotFormat, "format", "f", "", "Image format: png, jpeg, bmp or tiff")
	snapshotCmd.Flags().StringVar(&snapshotBackground, "background", "", "Background color #rrggbb")
	snapshotCmd.Flags().BoolVar(&snapshotTransparent, "transparent", false, "Transparent background")
	snapshotCmd.Flags().IntVar(&snapshotWidth, "width", 0, "Image width in pixels")
	snapshotCmd.Flags().IntVar(&snapshotHeight, "height", 0, "Image height in pixels")
	snapshotCmd.Flags().BoolVar(&snapshotWireframe, "wireframe", false, "Draw triangle edges")
	snapshotCmd.Flags().BoolVarP(&snapshotWatch, "watch", "w", false, "Re-render when the model changes")
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	source := args[0]

	if err := applySnapshotFlags(cmd); err != nil {
		return err
	}

	format, err := snapshotImageFormat()
	if err != nil {
		return err
	}
	output := snapshotOutputPath(source, format)

	v := app.New(settings)
	v.SetFormat(format)
	if _, err := v.Load(cmd.Context(), source); err != nil {
		return err
	}
	if p, ok, err := snapshotCamera.startPosition(); err != nil {
		return err
	} else if ok {
		v.SetCameraPosition(p)
	}

	if err := writeSnapshot(v, output, format); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", output)

	if !snapshotWatch {
		return nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return v.Watch(ctx, time.Duration(settings.WatchDebounce), func(err error) {
		if err != nil {
			return
		}
		if err := writeSnapshot(v, output, format); err != nil {
			slog.Error("failed to write snapshot", "error", err)
			return
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", output)
	})
}

func applySnapshotFlags(cmd *cobra.Command) error {
	flags := cmd.Flags()
	if flags.Changed("background") {
		settings.Background = snapshotBackground
	}
	if flags.Changed("transparent") {
		settings.Transparent = snapshotTransparent
	}
	if flags.Changed("width") {
		settings.Width = snapshotWidth
	}
	if flags.Changed("height") {
		settings.Height = snapshotHeight
	}
	if flags.Changed("wireframe") {
		settings.Wireframe = snapshotWireframe
	}
	if flags.Changed("format") {
		settings.Format = snapshotFormat
	}
	return snapshotCamera.apply(cmd)
}

// snapshotImageFormat prefers --format, then the output extension, then
// the configured format
func snapshotImageFormat() (capture.Format, error) {
	if snapshotFormat == "" && snapshotOutput != "" {
		if f, err := capture.ParseFormat(filepath.Ext(snapshotOutput)); err == nil {
			return f, nil
		}
	}
	return capture.ParseFormat(settings.Format)
}

func snapshotOutputPath(source string, format capture.Format) string {
	if snapshotOutput != "" {
		return snapshotOutput
	}
	base := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	return filepath.Join(settings.OutputDir, base+format.Ext())
}

func writeSnapshot(v *app.Viewer, path string, format capture.Format) error {
	img := v.Render(settings.Width, settings.Height)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := capture.Encode(f, img, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
