package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "roadworld",
		Short: "Procedural road-world geometry engine",
	}

	rootCmd.AddCommand(generateCmd())
	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(renderCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(statsCmd())
	rootCmd.AddCommand(serveCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func generateCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "generate [project-path]",
		Short: "Generate the world and write it as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runGenerate(args[0], out)
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	return cmd
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [project-path]",
		Short: "Validate a project and its generated world",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runValidate(args[0])
		},
	}
}

func renderCmd() *cobra.Command {
	var (
		out    string
		view   string
		radius float64
		width  int
	)

	cmd := &cobra.Command{
		Use:   "render [project-path]",
		Short: "Render one frame of the world as SVG",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runRender(args[0], out, view, radius, width)
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "world.svg", "output SVG file")
	cmd.Flags().StringVar(&view, "view", "", "view point as x,y (default: project view point)")
	cmd.Flags().Float64Var(&radius, "radius", 0, "render radius (default: project render radius)")
	cmd.Flags().IntVar(&width, "width", 0, "image width in pixels")
	return cmd
}

func exportCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export [project-path]",
		Short: "Generate the world and export it as GeoJSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runExport(args[0], out)
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	return cmd
}

func statsCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "stats [project-path]",
		Short: "Print road network and land use metrics",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runStats(args[0], asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print metrics as JSON")
	return cmd
}

func serveCmd() *cobra.Command {
	var (
		port    int
		fps     int
		envFile string
	)

	cmd := &cobra.Command{
		Use:   "serve [project-path]",
		Short: "Start the local dev server with live light updates",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadServeConfig(envFile, port, fps, cmd.Flags().Changed("port"), cmd.Flags().Changed("fps"))
			return runServe(args[0], cfg)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 3000, "HTTP server port (env ROADWORLD_PORT)")
	cmd.Flags().IntVar(&fps, "fps", 60, "light animation frames per second (env ROADWORLD_FPS)")
	cmd.Flags().StringVar(&envFile, "env-file", ".env", "optional env file")
	return cmd
}
