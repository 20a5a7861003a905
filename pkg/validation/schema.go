package validation

import (
	"fmt"

	"github.com/c5kyx9vb72-sketch/Layout-App/pkg/geodesic"
	"github.com/c5kyx9vb72-sketch/Layout-App/pkg/spec"
)

// ValidateSchema checks a parsed plant spec for structural problems before
// anything is generated.
func ValidateSchema(s *spec.PlantSpec) *Report {
	r := NewReport()

	validateVersion(s, r)
	validateSite(s, r)
	validateCatalog(s, r)
	validateGeneration(s, r)
	validateChecks(s, r)
	validateSnap(s, r)
	validateHeat(s, r)

	return r
}

func validateVersion(s *spec.PlantSpec, r *Report) {
	if s.SpecVersion == "" {
		r.AddWarning(Result{
			Level:    LevelSchema,
			Message:  "spec_version is not set",
			Path:     "spec_version",
			Expected: "a version string such as \"0.1.0\"",
		})
	}
}

func validLngLat(c [2]float64) bool {
	return c[0] >= -180 && c[0] <= 180 && c[1] >= -90 && c[1] <= 90
}

func validateSite(s *spec.PlantSpec, r *Report) {
	site := s.Site
	if len(site.Coordinates) == 0 && site.File == "" {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "site must give coordinates or a geometry file",
			Path:        "site",
			Suggestions: []string{"Add site.coordinates as [lng, lat] pairs", "Set site.file to a GeoJSON, KML or WKT file"},
		})
		return
	}
	if len(site.Coordinates) == 0 {
		return
	}

	for i, c := range site.Coordinates {
		if !validLngLat(c) {
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     fmt.Sprintf("site.coordinates[%d] is not a valid [lng, lat]", i),
				Path:        fmt.Sprintf("site.coordinates[%d]", i),
				ActualValue: c,
				Expected:    "lng in [-180, 180], lat in [-90, 90]",
			})
		}
	}

	poly := site.Polygon()
	if len(poly[0]) < 4 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "site needs at least 3 distinct vertices",
			Path:        "site.coordinates",
			ActualValue: len(site.Coordinates),
			Expected:    ">= 3",
		})
		return
	}
	if area := geodesic.Area(poly); area <= 0 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "site has zero area",
			Path:        "site.coordinates",
			ActualValue: area,
			Expected:    "> 0 m²",
		})
	}
}

func validateCatalog(s *spec.PlantSpec, r *Report) {
	seen := make(map[string]bool)
	for i, t := range s.Catalog.Types {
		path := fmt.Sprintf("catalog.types[%d]", i)
		if t.ID == "" {
			r.AddError(Result{Level: LevelSchema, Message: path + " has no id", Path: path + ".id"})
			continue
		}
		if seen[t.ID] {
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     fmt.Sprintf("catalog type %q is defined twice", t.ID),
				Path:        path + ".id",
				ActualValue: t.ID,
			})
		}
		seen[t.ID] = true
		if t.Width <= 0 || t.Height <= 0 {
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     fmt.Sprintf("catalog type %q must have positive width and height", t.ID),
				Path:        path,
				ActualValue: fmt.Sprintf("%gx%g", t.Width, t.Height),
				Expected:    "> 0 m",
			})
		}
	}

	cat, unknown := s.BuildCatalog()
	for _, id := range unknown {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     fmt.Sprintf("catalog.enabled names unknown type %q", id),
			Path:        "catalog.enabled",
			ActualValue: id,
		})
	}
	if len(cat.Enabled()) == 0 {
		r.AddWarning(Result{
			Level:   LevelSchema,
			Message: "no process types are enabled; generation will place nothing",
			Path:    "catalog.enabled",
		})
	}
}

func validateGeneration(s *spec.PlantSpec, r *Report) {
	g := s.Generation
	if g.PlacementMargin < 0 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "generation.placement_margin must be non-negative",
			Path:        "generation.placement_margin",
			ActualValue: g.PlacementMargin,
			Expected:    ">= 0",
		})
	}
	if g.Jitter < 0 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "generation.jitter must be non-negative",
			Path:        "generation.jitter",
			ActualValue: g.Jitter,
			Expected:    ">= 0",
		})
	}
	if g.MaxBlocks <= 0 {
		r.AddWarning(Result{
			Level:       LevelSchema,
			Message:     "generation.max_blocks is not positive; no blocks will be placed",
			Path:        "generation.max_blocks",
			ActualValue: g.MaxBlocks,
			Expected:    "> 0",
		})
	}
}

func validateChecks(s *spec.PlantSpec, r *Report) {
	c := s.Checks
	fields := []struct {
		name string
		v    float64
	}{
		{"min_aisle", c.MinAisle},
		{"boundary_clearance", c.BoundaryClearance},
		{"turn_radius", c.TurnRadius},
	}
	for _, f := range fields {
		if f.v < 0 {
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     fmt.Sprintf("checks.%s must be non-negative", f.name),
				Path:        "checks." + f.name,
				ActualValue: f.v,
				Expected:    ">= 0 (0 disables the check)",
			})
		}
	}
	// Each block grows by min_aisle, so neighbours need twice that apart.
	if c.MinAisle > 0 && 2*c.MinAisle > s.Generation.PlacementMargin {
		r.AddInfo(Result{
			Level:       LevelSchema,
			Message:     "checks.min_aisle exceeds half the placement margin; generated neighbours may be flagged",
			Path:        "checks.min_aisle",
			ActualValue: c.MinAisle,
			Expected:    fmt.Sprintf("<= %g", s.Generation.PlacementMargin/2),
		})
	}
}

func validateSnap(s *spec.PlantSpec, r *Report) {
	if s.Snap.SpacingM < 0 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "snap.spacing_m must be non-negative",
			Path:        "snap.spacing_m",
			ActualValue: s.Snap.SpacingM,
			Expected:    ">= 0 (0 disables snapping)",
		})
	}
	if s.Snap.Origin != nil && !validLngLat(*s.Snap.Origin) {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "snap.origin is not a valid [lng, lat]",
			Path:        "snap.origin",
			ActualValue: *s.Snap.Origin,
		})
	}
}

func validateHeat(s *spec.PlantSpec, r *Report) {
	h := s.Heat
	if len(h.Sources) > 0 && h.CellM <= 0 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "heat.cell_m must be positive when sources are given",
			Path:        "heat.cell_m",
			ActualValue: h.CellM,
			Expected:    "> 0",
		})
	}
	for i, c := range h.Sources {
		if !validLngLat(c) {
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     fmt.Sprintf("heat.sources[%d] is not a valid [lng, lat]", i),
				Path:        fmt.Sprintf("heat.sources[%d]", i),
				ActualValue: c,
			})
		}
	}
}
