package main

import (
	"fmt"
	"os"

	"fyne.io/fyne/v2/app"
	"github.com/spf13/cobra"

	"github.com/philipparndt/goview/internal/config"
	"github.com/philipparndt/goview/internal/gui"
	"github.com/philipparndt/goview/internal/logx"
	"github.com/philipparndt/goview/version"
)

var (
	configFile string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:           "goview-gui [file]",
	Short:         "Desktop viewer for 3D models",
	Long:          "Open a GLB/glTF, STL or OpenSCAD model, orbit around it and capture images.",
	Args:          cobra.MaximumNArgs(1),
	Version:       version.GetFullVersion(),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		logx.Setup(cmd.ErrOrStderr(), logx.LevelFromFlags(verbose, false))

		settings := config.Default()
		if configFile != "" {
			s, err := config.Load(configFile)
			if err != nil {
				return err
			}
			settings = s
		}

		a := app.NewWithID("io.github.philipparndt.goview")
		w := gui.NewWindow(a, settings)

		if len(args) > 0 {
			w.Open(args[0])
		}

		w.Window().ShowAndRun()
		return nil
	},
}

func init() {
	rootCmd.Flags().StringVar(&configFile, "config", "", "TOML settings file")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
