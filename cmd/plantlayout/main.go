package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:          "plantlayout",
		Short:        "Generate and check plant site layouts",
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level := log.InfoLevel
			if verbose {
				level = log.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(cmd.ErrOrStderr(), level)))
		},
	}
	root.SetVersionTemplate(fmt.Sprintf("plantlayout %s\n", version))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(generateCmd())
	root.AddCommand(validateCmd())
	root.AddCommand(heatCmd())
	root.AddCommand(sceneCmd())
	root.AddCommand(snapCmd())
	root.AddCommand(importCmd())
	root.AddCommand(catalogCmd())
	root.AddCommand(serveCmd())
	return root
}

func generateCmd() *cobra.Command {
	var output, cacheDir string

	cmd := &cobra.Command{
		Use:   "generate [project-path]",
		Short: "Place blocks on the site and write the layout as GeoJSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, args[0], output, cacheDir)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVar(&cacheDir, "cache-dir", "", "cache generated layouts in this directory")
	return cmd
}

func validateCmd() *cobra.Command {
	var cacheDir string

	cmd := &cobra.Command{
		Use:   "validate [project-path]",
		Short: "Check a project file and the layout it generates",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, args[0], cacheDir)
		},
	}
	cmd.Flags().StringVar(&cacheDir, "cache-dir", "", "cache generated layouts in this directory")
	return cmd
}

func heatCmd() *cobra.Command {
	var (
		output     string
		catchments bool
	)

	cmd := &cobra.Command{
		Use:   "heat [project-path]",
		Short: "Compute the proximity heat field for the project's sources",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHeat(cmd, args[0], output, catchments)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&catchments, "catchments", false, "also print the area nearest each source")
	return cmd
}

func sceneCmd() *cobra.Command {
	var output, cacheDir string

	cmd := &cobra.Command{
		Use:   "scene [project-path]",
		Short: "Run the full pipeline and write a 2D scene for rendering",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScene(cmd, args[0], output, cacheDir)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVar(&cacheDir, "cache-dir", "", "cache generated layouts in this directory")
	return cmd
}

func snapCmd() *cobra.Command {
	var opts snapFlags

	cmd := &cobra.Command{
		Use:   "snap [geometry-file]",
		Short: "Snap shapes in a GeoJSON, KML or WKT file to a metric grid",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSnap(cmd, args[0], opts)
		},
	}
	opts.register(cmd)
	cmd.Flags().BoolVar(&opts.close, "close", true, "re-close rings after orthogonalising")
	return cmd
}

func importCmd() *cobra.Command {
	var opts snapFlags

	cmd := &cobra.Command{
		Use:   "import [geometry-file]",
		Short: "Read a GeoJSON, KML or WKT file and export it as a tagged layout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, args[0], opts)
		},
	}
	opts.register(cmd)
	return cmd
}

func catalogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog [project-path]",
		Short: "List process types, with a project's overrides when given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			project := ""
			if len(args) == 1 {
				project = args[0]
			}
			return runCatalog(cmd, project)
		},
	}
}

func serveCmd() *cobra.Command {
	var (
		port    int
		envFile string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, port, envFile)
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 0, "HTTP server port (default LAYOUT_PORT or 8080)")
	cmd.Flags().StringVar(&envFile, "env-file", ".env", "environment file to load")
	return cmd
}
