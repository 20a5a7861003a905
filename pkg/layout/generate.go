// Package layout places rectangular process blocks inside a site polygon.
package layout

import (
	"math"

	"github.com/paulmach/orb"

	"github.com/c5kyx9vb72-sketch/Layout-App/pkg/geo"
	"github.com/c5kyx9vb72-sketch/Layout-App/pkg/geodesic"
	"github.com/c5kyx9vb72-sketch/Layout-App/pkg/plant"
	"github.com/c5kyx9vb72-sketch/Layout-App/pkg/rng"
)

// minStep is the smallest candidate spacing, in meters.
const minStep = 5.0

// Config holds the generation parameters.
type Config struct {
	// PlacementMargin is the aisle the generator leaves around blocks. It
	// sets the lattice spacing and keeps blocks PlacementMargin/2 from the
	// site edge. Validation uses its own minimum aisle threshold.
	PlacementMargin float64 `yaml:"placement_margin" toml:"placement_margin" json:"placement_margin" msgpack:"placement_margin"`
	Rotation        float64 `yaml:"rotation" toml:"rotation" json:"rotation" msgpack:"rotation"` // degrees
	Seed            int64   `yaml:"seed" toml:"seed" json:"seed" msgpack:"seed"`
	Jitter          float64 `yaml:"jitter" toml:"jitter" json:"jitter" msgpack:"jitter"` // meters
	MaxBlocks       int     `yaml:"max_blocks" toml:"max_blocks" json:"max_blocks" msgpack:"max_blocks"`
}

// DefaultConfig returns the settings used when a project omits them.
func DefaultConfig() Config {
	return Config{PlacementMargin: 10, Seed: 42, Jitter: 0, MaxBlocks: 50}
}

// Stats describes one generation run.
type Stats struct {
	Step       float64 `json:"step"`
	Candidates int     `json:"candidates"`
	Attempts   int     `json:"attempts"`
	Accepted   int     `json:"accepted"`
}

// Generate places blocks of the given types inside site. Every candidate
// centre is tried against every type in order, each attempt with its own
// jitter draw; a rectangle is kept only if it lies inside the site at least
// PlacementMargin/2 from its edge. Generation stops once MaxBlocks are kept.
// The result depends only on the arguments.
func Generate(site orb.Polygon, types []plant.ProcessType, cfg Config) ([]plant.Block, Stats) {
	var stats Stats
	if len(site) == 0 || len(site[0]) < 4 || len(types) == 0 {
		return nil, stats
	}

	stats.Step = math.Max(minStep, plant.MaxWidth(types)+cfg.PlacementMargin)
	candidates := SampleGrid(site, stats.Step)
	stats.Candidates = len(candidates)

	frame := geodesic.NewFrame(site.Bound().Center())
	boundary := frame.Polygon(site)
	inset := cfg.PlacementMargin / 2
	r := rng.New(cfg.Seed)

	var blocks []plant.Block
	for _, c := range candidates {
		for _, t := range types {
			if len(blocks) >= cfg.MaxBlocks {
				stats.Accepted = len(blocks)
				return blocks, stats
			}
			stats.Attempts++
			dx := r.Centered(cfg.Jitter)
			dy := r.Centered(cfg.Jitter)
			rect := BuildRectangle(displace(c, dx, dy), t.Width, t.Height, cfg.Rotation)
			if !geo.WithinClearance(frame.Polygon(rect), boundary, inset, geo.DefaultEpsilon) {
				continue
			}
			blocks = append(blocks, plant.Block{Type: t.ID, Polygon: rect})
		}
	}
	stats.Accepted = len(blocks)
	return blocks, stats
}

// displace moves p by dx meters east and dy meters north.
func displace(p orb.Point, dx, dy float64) orb.Point {
	off := geo.Pt(dx, dy)
	d := off.Length()
	if d == 0 {
		return p
	}
	return geodesic.Destination(p, d, off.Bearing())
}
