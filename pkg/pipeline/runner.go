// Package pipeline runs generation, validation and the heat field over a
// resolved project, caching the expensive stages.
package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/paulmach/orb"

	"github.com/c5kyx9vb72-sketch/Layout-App/pkg/cache"
	"github.com/c5kyx9vb72-sketch/Layout-App/pkg/heat"
	"github.com/c5kyx9vb72-sketch/Layout-App/pkg/layout"
	"github.com/c5kyx9vb72-sketch/Layout-App/pkg/plant"
	"github.com/c5kyx9vb72-sketch/Layout-App/pkg/validation"
)

// Cache stage names, also used as key prefixes.
const (
	StageLayout = "layout"
	StageHeat   = "heat"
)

// DefaultTTL is how long cached stages live.
const DefaultTTL = 24 * time.Hour

// Runner executes pipeline stages with caching. It holds no results, so one
// Runner can serve concurrent requests.
type Runner struct {
	Cache  cache.Cache
	Logger *log.Logger
	Hooks  Hooks
	TTL    time.Duration
}

// NewRunner creates a runner. A nil cache disables caching and a nil
// logger falls back to log.Default().
func NewRunner(c cache.Cache, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Logger: logger, Hooks: NoopHooks{}, TTL: DefaultTTL}
}

// Result is the output of a full run.
type Result struct {
	Blocks []plant.Block      `json:"blocks"`
	Stats  layout.Stats       `json:"stats"`
	Issues []validation.Issue `json:"issues"`
	Heat   heat.Field         `json:"heat"`
	Report *validation.Report `json:"report"`
	Cache  map[string]bool    `json:"cache"`
	Timing map[string]float64 `json:"timing_ms"`
}

func millis(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000
}

// Run generates, validates and scores the project.
func (r *Runner) Run(ctx context.Context, p *Project) (*Result, error) {
	res := &Result{Cache: map[string]bool{}, Timing: map[string]float64{}}

	start := time.Now()
	blocks, stats, hit, err := r.Generate(ctx, p.Site, p.Types, p.Generation)
	if err != nil {
		return nil, err
	}
	res.Blocks, res.Stats = blocks, stats
	res.Cache[StageLayout] = hit
	res.Timing[StageLayout] = millis(start)

	start = time.Now()
	res.Issues, err = r.Validate(ctx, p.Site, blocks, p.Thresholds)
	if err != nil {
		return nil, err
	}
	res.Report = validation.IssuesReport(res.Issues)
	res.Timing["validate"] = millis(start)

	start = time.Now()
	res.Heat, hit, err = r.Heat(ctx, p.Site, p.Sources, p.HeatCellM)
	if err != nil {
		return nil, err
	}
	res.Cache[StageHeat] = hit
	res.Timing[StageHeat] = millis(start)

	r.Logger.Info("pipeline complete",
		"project", p.Name,
		"blocks", len(res.Blocks),
		"issues", len(res.Issues),
		"cells", len(res.Heat.Cells))
	return res, nil
}

type layoutEntry struct {
	Blocks []plant.Block `msgpack:"blocks"`
	Stats  layout.Stats  `msgpack:"stats"`
}

// Generate places blocks, reusing a cached layout for identical inputs.
func (r *Runner) Generate(ctx context.Context, site orb.Polygon, types []plant.ProcessType, cfg layout.Config) ([]plant.Block, layout.Stats, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, layout.Stats{}, false, err
	}
	key, err := cache.Key(StageLayout, site, types, cfg)
	if err != nil {
		return nil, layout.Stats{}, false, err
	}

	var entry layoutEntry
	if hit, err := cache.GetValue(ctx, r.Cache, key, &entry); err == nil && hit {
		r.Hooks.OnCache(StageLayout, true)
		r.Logger.Debug("layout cache hit", "blocks", len(entry.Blocks))
		return entry.Blocks, entry.Stats, true, nil
	} else if err != nil {
		r.Logger.Warn("layout cache read failed", "err", err)
	}
	r.Hooks.OnCache(StageLayout, false)

	start := time.Now()
	blocks, stats := layout.Generate(site, types, cfg)
	elapsed := time.Since(start)
	r.Hooks.OnGenerate(elapsed, len(blocks))
	r.Logger.Info("generated layout",
		"blocks", len(blocks),
		"candidates", stats.Candidates,
		"attempts", stats.Attempts,
		"step", stats.Step,
		"duration", elapsed)

	entry = layoutEntry{Blocks: blocks, Stats: stats}
	if err := cache.SetValue(ctx, r.Cache, key, &entry, r.TTL); err != nil {
		r.Logger.Warn("layout cache write failed", "err", err)
	}
	return blocks, stats, false, nil
}

// Validate checks blocks against the site. It is not cached: the check is
// cheap next to generation and blocks are often edited between calls.
func (r *Runner) Validate(ctx context.Context, site orb.Polygon, blocks []plant.Block, th validation.Thresholds) ([]validation.Issue, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	issues := validation.CheckLayout(site, blocks, th)
	counts := validation.CountByKind(issues)
	r.Hooks.OnValidate(counts)
	r.Logger.Info("validated layout",
		"blocks", len(blocks),
		"clash", counts[validation.KindClash],
		"aisle", counts[validation.KindAisle],
		"boundary", counts[validation.KindBoundary],
		"turning", counts[validation.KindTurning])
	return issues, nil
}

// Heat computes the proximity field, reusing a cached field for identical
// inputs.
func (r *Runner) Heat(ctx context.Context, site orb.Polygon, sources []orb.Point, cellM float64) (heat.Field, bool, error) {
	if err := ctx.Err(); err != nil {
		return heat.Field{}, false, err
	}
	key, err := cache.Key(StageHeat, site, sources, cellM)
	if err != nil {
		return heat.Field{}, false, err
	}

	var field heat.Field
	if hit, err := cache.GetValue(ctx, r.Cache, key, &field); err == nil && hit {
		r.Hooks.OnCache(StageHeat, true)
		return field, true, nil
	}
	r.Hooks.OnCache(StageHeat, false)

	start := time.Now()
	field = heat.Generate(site, sources, cellM)
	elapsed := time.Since(start)
	r.Hooks.OnHeat(elapsed, len(field.Cells))
	r.Logger.Debug("heat field", "cells", len(field.Cells), "duration", elapsed)

	if err := cache.SetValue(ctx, r.Cache, key, &field, r.TTL); err != nil {
		r.Logger.Warn("heat cache write failed", "err", err)
	}
	return field, false, nil
}
