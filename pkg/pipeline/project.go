package pipeline

import (
	"github.com/paulmach/orb"

	"github.com/c5kyx9vb72-sketch/Layout-App/pkg/errors"
	"github.com/c5kyx9vb72-sketch/Layout-App/pkg/exchange"
	"github.com/c5kyx9vb72-sketch/Layout-App/pkg/layout"
	"github.com/c5kyx9vb72-sketch/Layout-App/pkg/plant"
	"github.com/c5kyx9vb72-sketch/Layout-App/pkg/spec"
	"github.com/c5kyx9vb72-sketch/Layout-App/pkg/validation"
)

// Project is a plant spec with its site loaded and its catalog applied.
type Project struct {
	Name       string                `json:"name"`
	Site       orb.Polygon           `json:"site"`
	Types      []plant.ProcessType   `json:"types"`
	Generation layout.Config         `json:"generation"`
	Thresholds validation.Thresholds `json:"thresholds"`
	Sources    []orb.Point           `json:"sources"`
	HeatCellM  float64               `json:"heat_cell_m"`

	// Unknown lists enabled ids that matched no catalog entry.
	Unknown []string `json:"unknown,omitempty"`
}

// Resolve turns a parsed project file into a Project. An inline site is used as
// given; a site file is imported, snapped with the file's snap settings and
// split, and any source points it carries join the configured heat sources.
func Resolve(s *spec.PlantSpec) (*Project, error) {
	p := &Project{
		Name:       s.Name,
		Generation: s.Generation,
		Thresholds: Thresholds(s.Checks),
		Sources:    s.Heat.Points(),
		HeatCellM:  s.Heat.CellM,
	}

	p.Site = s.Site.Polygon()
	if p.Site == nil && s.Site.File != "" {
		fc, _, err := exchange.ParseFile(s.ResolvePath(s.Site.File))
		if err != nil {
			return nil, err
		}
		l := exchange.Prepare(fc, s.Snap.Options())
		p.Site = l.Site
		p.Sources = append(p.Sources, l.Sources...)
	}
	if len(p.Site) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidGeometry, "project %q has no site polygon", s.Name)
	}

	cat, unknown := s.BuildCatalog()
	p.Types = cat.Enabled()
	p.Unknown = unknown
	return p, nil
}

// Thresholds maps the project's check settings onto validator limits.
func Thresholds(c spec.ChecksDef) validation.Thresholds {
	return validation.Thresholds{
		MinAisle:          c.MinAisle,
		BoundaryClearance: c.BoundaryClearance,
		TurnRadius:        c.TurnRadius,
	}
}
