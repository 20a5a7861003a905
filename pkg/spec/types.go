package spec

import (
	"github.com/paulmach/orb"

	"github.com/c5kyx9vb72-sketch/Layout-App/pkg/layout"
	"github.com/c5kyx9vb72-sketch/Layout-App/pkg/plant"
	"github.com/c5kyx9vb72-sketch/Layout-App/pkg/snap"
)

// PlantSpec is the top-level project file for a plant site.
type PlantSpec struct {
	SpecVersion string        `yaml:"spec_version" toml:"spec_version" json:"spec_version"`
	Name        string        `yaml:"name" toml:"name" json:"name"`
	Site        SiteDef       `yaml:"site" toml:"site" json:"site"`
	Catalog     CatalogDef    `yaml:"catalog" toml:"catalog" json:"catalog"`
	Generation  layout.Config `yaml:"generation" toml:"generation" json:"generation"`
	Checks      ChecksDef     `yaml:"checks" toml:"checks" json:"checks"`
	Snap        SnapDef       `yaml:"snap" toml:"snap" json:"snap"`
	Heat        HeatDef       `yaml:"heat" toml:"heat" json:"heat"`

	// Dir is the directory the file was loaded from. Relative paths
	// resolve against it.
	Dir string `yaml:"-" toml:"-" json:"-"`
}

// SiteDef gives the site either inline or as a geometry file in any import
// format. Inline coordinates win when both are set.
type SiteDef struct {
	Coordinates [][2]float64 `yaml:"coordinates" toml:"coordinates" json:"coordinates"` // [lng, lat]
	File        string       `yaml:"file" toml:"file" json:"file"`
}

// Polygon returns the inline site as a closed single-ring polygon, or nil
// when no coordinates are given.
func (s SiteDef) Polygon() orb.Polygon {
	if len(s.Coordinates) == 0 {
		return nil
	}
	ring := make(orb.Ring, 0, len(s.Coordinates)+1)
	for _, c := range s.Coordinates {
		ring = append(ring, orb.Point{c[0], c[1]})
	}
	if !ring.Closed() {
		ring = append(ring, ring[0])
	}
	return orb.Polygon{ring}
}

// CatalogDef adjusts the built-in catalog. Types replace built-in entries
// with the same id and are appended otherwise. When Enabled is non-empty it
// lists exactly the types to use.
type CatalogDef struct {
	Types   []plant.ProcessType `yaml:"types" toml:"types" json:"types"`
	Enabled []string            `yaml:"enabled" toml:"enabled" json:"enabled"`
}

// ChecksDef holds validator thresholds in meters.
type ChecksDef struct {
	MinAisle          float64 `yaml:"min_aisle" toml:"min_aisle" json:"min_aisle"`
	BoundaryClearance float64 `yaml:"boundary_clearance" toml:"boundary_clearance" json:"boundary_clearance"`
	TurnRadius        float64 `yaml:"turn_radius" toml:"turn_radius" json:"turn_radius"`
}

// SnapDef configures grid snapping of imported shapes. A missing origin
// defaults to the site's south-west bounding corner.
type SnapDef struct {
	SpacingM   float64     `yaml:"spacing_m" toml:"spacing_m" json:"spacing_m"`
	Orthogonal bool        `yaml:"orthogonal" toml:"orthogonal" json:"orthogonal"`
	Origin     *[2]float64 `yaml:"origin" toml:"origin" json:"origin"`
}

// Options converts the snap settings. A nil origin stays nil, which the
// importer replaces with the collection's south-west corner.
func (d SnapDef) Options() snap.Options {
	opt := snap.Options{SpacingM: d.SpacingM, Orthogonal: d.Orthogonal}
	if d.Origin != nil {
		opt = opt.At(orb.Point(*d.Origin))
	}
	return opt
}

// HeatDef configures the proximity heat field.
type HeatDef struct {
	CellM   float64      `yaml:"cell_m" toml:"cell_m" json:"cell_m"`
	Sources [][2]float64 `yaml:"sources" toml:"sources" json:"sources"` // [lng, lat]
}

// Points returns the heat sources as points.
func (h HeatDef) Points() []orb.Point {
	pts := make([]orb.Point, len(h.Sources))
	for i, s := range h.Sources {
		pts[i] = orb.Point{s[0], s[1]}
	}
	return pts
}

// BuildCatalog applies the catalog overrides to the built-in catalog and
// returns the result with any enabled ids that matched nothing.
func (s *PlantSpec) BuildCatalog() (plant.Catalog, []string) {
	cat := plant.DefaultCatalog()
	for _, t := range s.Catalog.Types {
		if existing := cat.ByID(t.ID); existing != nil {
			*existing = t
			continue
		}
		cat = append(cat, t)
	}
	if len(s.Catalog.Enabled) == 0 {
		return cat, nil
	}
	return cat, cat.SetEnabled(s.Catalog.Enabled)
}
