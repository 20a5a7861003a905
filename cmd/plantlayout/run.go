package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/spf13/cobra"

	"github.com/c5kyx9vb72-sketch/Layout-App/internal/server"
	"github.com/c5kyx9vb72-sketch/Layout-App/pkg/cache"
	"github.com/c5kyx9vb72-sketch/Layout-App/pkg/errors"
	"github.com/c5kyx9vb72-sketch/Layout-App/pkg/exchange"
	"github.com/c5kyx9vb72-sketch/Layout-App/pkg/heat"
	"github.com/c5kyx9vb72-sketch/Layout-App/pkg/pipeline"
	"github.com/c5kyx9vb72-sketch/Layout-App/pkg/plant"
	"github.com/c5kyx9vb72-sketch/Layout-App/pkg/scene2d"
	"github.com/c5kyx9vb72-sketch/Layout-App/pkg/snap"
	"github.com/c5kyx9vb72-sketch/Layout-App/pkg/spec"
	"github.com/c5kyx9vb72-sketch/Layout-App/pkg/validation"
)

// snapFlags are shared by the commands that read geometry files.
type snapFlags struct {
	spacing    float64
	origin     []float64
	orthogonal bool
	output     string
	close      bool
}

func (f *snapFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.spacing, "spacing", 0, "grid spacing in meters (0 disables snapping)")
	cmd.Flags().Float64SliceVar(&f.origin, "origin", nil, "grid origin as lng,lat (default south-west corner)")
	cmd.Flags().BoolVar(&f.orthogonal, "orthogonal", false, "force edges east-west or north-south")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file (default stdout)")
}

func (f *snapFlags) options() (snap.Options, error) {
	opt := snap.Options{SpacingM: f.spacing, Orthogonal: f.orthogonal}
	switch len(f.origin) {
	case 0:
	case 2:
		opt = opt.At(orb.Point{f.origin[0], f.origin[1]})
	default:
		return opt, errors.New(errors.ErrCodeInvalidInput, "--origin needs lng,lat, got %v", f.origin)
	}
	if opt.SpacingM < 0 {
		return opt, errors.New(errors.ErrCodeInvalidInput, "--spacing must be non-negative, got %v", opt.SpacingM)
	}
	return opt, nil
}

// loadAndValidate loads the project file and runs schema validation.
func loadAndValidate(projectPath string) (*spec.PlantSpec, *validation.Report, error) {
	s, err := spec.LoadProject(projectPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading spec: %w", err)
	}
	return s, validation.ValidateSchema(s), nil
}

// loadProject loads, validates and resolves a project. Schema errors are
// printed and returned as an error.
func loadProject(cmd *cobra.Command, projectPath string) (*pipeline.Project, *validation.Report, error) {
	s, report, err := loadAndValidate(projectPath)
	if err != nil {
		return nil, nil, err
	}
	if err := report.Err(); err != nil {
		printValidationReport(cmd.OutOrStdout(), report)
		return nil, report, err
	}
	p, err := pipeline.Resolve(s)
	if err != nil {
		return nil, report, fmt.Errorf("resolving project: %w", err)
	}
	return p, report, nil
}

func newRunner(cacheDir string, logger *log.Logger) (*pipeline.Runner, error) {
	if cacheDir == "" {
		return pipeline.NewRunner(nil, logger), nil
	}
	c, err := cache.NewFileCache(cacheDir)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(c, logger), nil
}

func runGenerate(cmd *cobra.Command, projectPath, output, cacheDir string) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	p, _, err := loadProject(cmd, projectPath)
	if err != nil {
		return err
	}
	runner, err := newRunner(cacheDir, logger)
	if err != nil {
		return err
	}
	defer runner.Cache.Close()

	prog := newProgress(logger)
	blocks, stats, hit, err := runner.Generate(ctx, p.Site, p.Types, p.Generation)
	if err != nil {
		return err
	}
	prog.done("layout ready", "project", p.Name, "blocks", len(blocks), "attempts", stats.Attempts, "cached", hit)
	return writeGeoJSON(cmd, output, exchange.Export(p.Site, blocks))
}

func runValidate(cmd *cobra.Command, projectPath, cacheDir string) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	s, report, err := loadAndValidate(projectPath)
	if err != nil {
		return err
	}
	if report.Valid {
		p, err := pipeline.Resolve(s)
		if err != nil {
			return fmt.Errorf("resolving project: %w", err)
		}
		runner, err := newRunner(cacheDir, logger)
		if err != nil {
			return err
		}
		defer runner.Cache.Close()

		blocks, _, _, err := runner.Generate(ctx, p.Site, p.Types, p.Generation)
		if err != nil {
			return err
		}
		issues, err := runner.Validate(ctx, p.Site, blocks, p.Thresholds)
		if err != nil {
			return err
		}
		report.Merge(validation.IssuesReport(issues))
	}

	printValidationReport(cmd.OutOrStdout(), report)
	return report.Err()
}

func runHeat(cmd *cobra.Command, projectPath, output string, catchments bool) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	p, _, err := loadProject(cmd, projectPath)
	if err != nil {
		return err
	}
	if len(p.Sources) == 0 || p.HeatCellM <= 0 {
		return errors.New(errors.ErrCodeInvalidSpec, "heat needs heat.sources and a positive heat.cell_m")
	}

	prog := newProgress(logger)
	field, _, err := pipeline.NewRunner(nil, logger).Heat(ctx, p.Site, p.Sources, p.HeatCellM)
	if err != nil {
		return err
	}
	prog.done("heat field ready", "cells", len(field.Cells), "min", field.Min, "max", field.Max, "mean", field.Mean)

	if catchments {
		for _, c := range heat.Catchments(p.Site, p.Sources) {
			logger.Info("catchment", "source", c.Source, "area_m2", fmt.Sprintf("%.0f", c.Area), "neighbors", c.Neighbors)
		}
	}
	return writeGeoJSON(cmd, output, field.Collection())
}

func runScene(cmd *cobra.Command, projectPath, output, cacheDir string) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	p, _, err := loadProject(cmd, projectPath)
	if err != nil {
		return err
	}
	runner, err := newRunner(cacheDir, logger)
	if err != nil {
		return err
	}
	defer runner.Cache.Close()

	prog := newProgress(logger)
	res, err := runner.Run(ctx, p)
	if err != nil {
		return err
	}
	scene := scene2d.Assemble2D(p.Name, p.Site, p.Types, res.Blocks, res.Issues, res.Heat)
	prog.done("scene ready", "blocks", scene.Metadata.BlockCount, "issues", scene.Metadata.IssueCount,
		"coverage", fmt.Sprintf("%.1f%%", scene.Metadata.Coverage*100))

	data, err := json.MarshalIndent(scene, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding scene: %w", err)
	}
	data = append(data, '\n')
	if output == "" {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(output, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", output, err)
	}
	logger.Info("wrote", "path", output)
	return nil
}

func runSnap(cmd *cobra.Command, path string, flags snapFlags) error {
	logger := loggerFromContext(cmd.Context())
	opt, err := flags.options()
	if err != nil {
		return err
	}
	fc, format, err := exchange.ParseFile(path)
	if err != nil {
		return err
	}
	out := exchange.Snap(fc, opt)
	logger.Info("snapped", "format", format, "features", len(out.Features), "spacing_m", opt.SpacingM)
	return writeGeoJSON(cmd, flags.output, out)
}

func runImport(cmd *cobra.Command, path string, flags snapFlags) error {
	logger := loggerFromContext(cmd.Context())
	opt, err := flags.options()
	if err != nil {
		return err
	}
	fc, format, err := exchange.ParseFile(path)
	if err != nil {
		return err
	}
	l := exchange.Prepare(fc, opt)
	if len(l.Site) == 0 {
		return errors.New(errors.ErrCodeInvalidGeometry, "%s has no site polygon", path)
	}
	logger.Info("imported", "format", format, "blocks", len(l.Blocks), "sources", len(l.Sources))
	return writeGeoJSON(cmd, flags.output, exchange.Export(l.Site, l.Blocks))
}

func runCatalog(cmd *cobra.Command, projectPath string) error {
	cat := plant.DefaultCatalog()
	if projectPath != "" {
		s, err := spec.LoadProject(projectPath)
		if err != nil {
			return fmt.Errorf("loading spec: %w", err)
		}
		var unknown []string
		cat, unknown = s.BuildCatalog()
		for _, id := range unknown {
			loggerFromContext(cmd.Context()).Warn("unknown process type in catalog.enabled", "id", id)
		}
	}
	printCatalog(cmd.OutOrStdout(), cat)
	return nil
}

func runServe(cmd *cobra.Command, port int, envFile string) error {
	logger := loggerFromContext(cmd.Context())
	cfg := server.ConfigFromEnv(envFile)
	if port > 0 {
		cfg.Port = port
	}
	cfg.Version = version

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cc := cfg.CacheConfig()
	c, err := cache.Open(ctx, cc)
	if err != nil {
		return err
	}
	defer c.Close()
	logger.Info("cache ready", "backend", cc.Backend)

	return server.New(cfg, pipeline.NewRunner(c, logger), logger).Start(ctx)
}

// writeGeoJSON writes fc indented to path, or to stdout when path is empty.
func writeGeoJSON(cmd *cobra.Command, path string, fc *geojson.FeatureCollection) error {
	raw, err := fc.MarshalJSON()
	if err != nil {
		return fmt.Errorf("encoding geojson: %w", err)
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return fmt.Errorf("encoding geojson: %w", err)
	}
	buf.WriteByte('\n')

	if path == "" {
		_, err = cmd.OutOrStdout().Write(buf.Bytes())
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	loggerFromContext(cmd.Context()).Info("wrote", "path", path, "features", len(fc.Features))
	return nil
}
