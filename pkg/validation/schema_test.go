package validation

import (
	"testing"

	"github.com/c5kyx9vb72-sketch/Layout-App/pkg/layout"
	"github.com/c5kyx9vb72-sketch/Layout-App/pkg/plant"
	"github.com/c5kyx9vb72-sketch/Layout-App/pkg/spec"
)

func validSpec() *spec.PlantSpec {
	return &spec.PlantSpec{
		SpecVersion: "0.1.0",
		Name:        "test-plant",
		Site: spec.SiteDef{Coordinates: [][2]float64{
			{5.10, 52.09}, {5.106, 52.09}, {5.106, 52.094}, {5.10, 52.094},
		}},
		Generation: layout.Config{PlacementMargin: 10, Seed: 1, MaxBlocks: 20},
		Checks:     spec.ChecksDef{MinAisle: 5, BoundaryClearance: 5, TurnRadius: 15},
		Snap:       spec.SnapDef{SpacingM: 5},
		Heat:       spec.HeatDef{CellM: 25, Sources: [][2]float64{{5.101, 52.091}}},
	}
}

func pathsOf(results []Result) []string {
	var out []string
	for _, r := range results {
		out = append(out, r.Path)
	}
	return out
}

func TestValidateSchemaValid(t *testing.T) {
	r := ValidateSchema(validSpec())
	if !r.Valid {
		t.Errorf("expected valid report, got %d errors: %v", len(r.Errors), r.Errors)
	}
	if len(r.Warnings) != 0 {
		t.Errorf("expected no warnings, got %v", r.Warnings)
	}
}

func TestValidateSchemaMissingSite(t *testing.T) {
	s := validSpec()
	s.Site = spec.SiteDef{}
	r := ValidateSchema(s)
	if r.Valid {
		t.Fatal("expected invalid report for missing site")
	}
	if r.Errors[0].Path != "site" {
		t.Errorf("expected site error, got %q", r.Errors[0].Path)
	}
}

func TestValidateSchemaSiteFileOnly(t *testing.T) {
	s := validSpec()
	s.Site = spec.SiteDef{File: "site.kml"}
	if r := ValidateSchema(s); !r.Valid {
		t.Errorf("site file alone should be valid, got %v", r.Errors)
	}
}

func TestValidateSchemaBadCoordinates(t *testing.T) {
	s := validSpec()
	s.Site.Coordinates[1] = [2]float64{190, 52.09}
	r := ValidateSchema(s)
	if r.Valid {
		t.Fatal("expected invalid report for out of range longitude")
	}
	if r.Errors[0].Path != "site.coordinates[1]" {
		t.Errorf("unexpected path %q", r.Errors[0].Path)
	}
}

func TestValidateSchemaTooFewVertices(t *testing.T) {
	s := validSpec()
	s.Site.Coordinates = s.Site.Coordinates[:2]
	if r := ValidateSchema(s); r.Valid {
		t.Error("expected invalid report for two-vertex site")
	}
}

func TestValidateSchemaCatalog(t *testing.T) {
	s := validSpec()
	s.Catalog = spec.CatalogDef{
		Types: []plant.ProcessType{
			{ID: "silo", Width: 10, Height: 10},
			{ID: "silo", Width: 10, Height: 0},
		},
		Enabled: []string{"silo", "ghost"},
	}
	r := ValidateSchema(s)
	if len(r.Errors) != 3 {
		t.Fatalf("expected 3 errors (duplicate, size, unknown), got %d: %v", len(r.Errors), pathsOf(r.Errors))
	}
}

func TestValidateSchemaNothingEnabled(t *testing.T) {
	s := validSpec()
	s.Catalog.Types = []plant.ProcessType{{ID: "x", Width: 1, Height: 1}}
	s.Catalog.Enabled = nil
	for _, id := range []string{"receiving", "raw_store", "cold_store", "processing", "packaging", "fg_warehouse"} {
		s.Catalog.Types = append(s.Catalog.Types, plant.ProcessType{ID: id, Width: 10, Height: 10})
	}
	r := ValidateSchema(s)
	if !r.Valid {
		t.Fatalf("expected valid report, got %v", r.Errors)
	}
	if len(r.Warnings) != 1 || r.Warnings[0].Path != "catalog.enabled" {
		t.Errorf("expected one catalog.enabled warning, got %v", pathsOf(r.Warnings))
	}
}

func TestValidateSchemaNegativeValues(t *testing.T) {
	s := validSpec()
	s.Generation.PlacementMargin = -1
	s.Generation.Jitter = -2
	s.Checks.TurnRadius = -3
	s.Snap.SpacingM = -4
	r := ValidateSchema(s)
	if len(r.Errors) != 4 {
		t.Errorf("expected 4 errors, got %d: %v", len(r.Errors), pathsOf(r.Errors))
	}
}

func TestValidateSchemaMaxBlocksWarning(t *testing.T) {
	s := validSpec()
	s.Generation.MaxBlocks = 0
	r := ValidateSchema(s)
	if !r.Valid || len(r.Warnings) != 1 {
		t.Errorf("expected one warning, got %v", pathsOf(r.Warnings))
	}
}

func TestValidateSchemaAisleInfo(t *testing.T) {
	s := validSpec()
	s.Checks.MinAisle = 8
	r := ValidateSchema(s)
	if len(r.Info) != 1 || r.Info[0].Path != "checks.min_aisle" {
		t.Errorf("expected min_aisle info, got %v", pathsOf(r.Info))
	}
}

func TestValidateSchemaHeat(t *testing.T) {
	s := validSpec()
	s.Heat.CellM = 0
	s.Heat.Sources = append(s.Heat.Sources, [2]float64{0, 100})
	r := ValidateSchema(s)
	if len(r.Errors) != 2 {
		t.Errorf("expected 2 heat errors, got %v", pathsOf(r.Errors))
	}
}
