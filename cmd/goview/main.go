package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/philipparndt/goview/internal/config"
	"github.com/philipparndt/goview/internal/logx"
	"github.com/philipparndt/goview/version"
)

var (
	configFile string
	verbose    bool
	quiet      bool

	// settings holds the configuration after PersistentPreRunE
	settings = config.Default()
)

var rootCmd = &cobra.Command{
	Use:   "goview",
	Short: "Frame, render and capture 3D models",
	Long: `goview loads GLB/glTF, STL and OpenSCAD models, fits a perspective camera
around them and renders still images in software.`,
	Version:       version.GetFullVersion(),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logx.Setup(cmd.ErrOrStderr(), logx.LevelFromFlags(verbose, quiet))

		if configFile == "" {
			return nil
		}
		s, err := config.Load(configFile)
		if err != nil {
			return err
		}
		settings = s
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "TOML settings file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Only log warnings and errors")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
