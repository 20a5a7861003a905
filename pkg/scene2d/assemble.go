package scene2d

import (
	"sort"
	"time"

	"github.com/paulmach/orb"

	planar "github.com/c5kyx9vb72-sketch/Layout-App/pkg/geo"
	"github.com/c5kyx9vb72-sketch/Layout-App/pkg/geodesic"
	"github.com/c5kyx9vb72-sketch/Layout-App/pkg/heat"
	"github.com/c5kyx9vb72-sketch/Layout-App/pkg/plant"
	"github.com/c5kyx9vb72-sketch/Layout-App/pkg/validation"
)

// Assemble2D converts pipeline outputs into a 2D scene suitable for SVG
// rendering. Everything is projected into a local metric frame centred on
// the site's bounding box. Blocks whose type is not in types keep an empty
// label and color.
func Assemble2D(
	project string,
	site orb.Polygon,
	types []plant.ProcessType,
	blocks []plant.Block,
	issues []validation.Issue,
	field heat.Field,
) *Scene2D {
	frame := geodesic.NewFrame(site.Bound().Center())
	siteArea := geodesic.Area(site)

	scene := &Scene2D{
		Site:    assembleSite(frame, site),
		Blocks:  assembleBlocks(frame, plant.Catalog(types), blocks),
		Issues:  assembleIssues(frame, issues),
		Heat:    assembleHeat(frame, field),
		Summary: assembleSummary(blocks),
	}
	scene.Metadata = assembleMetadata(project, frame, siteArea, scene)
	return scene
}

func assembleMetadata(project string, frame geodesic.Frame, siteArea float64, scene *Scene2D) Metadata {
	var placed float64
	for _, b := range scene.Blocks {
		placed += b.AreaM2
	}
	coverage := 0.0
	if siteArea > 0 {
		coverage = placed / siteArea
	}
	return Metadata{
		Project:     project,
		Origin:      [2]float64{frame.Origin.Lon(), frame.Origin.Lat()},
		SiteAreaM2:  siteArea,
		BlockCount:  len(scene.Blocks),
		IssueCount:  len(scene.Issues),
		Coverage:    coverage,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
	}
}

func assembleSite(frame geodesic.Frame, site orb.Polygon) Site2D {
	if len(site) == 0 {
		return Site2D{Boundary: [][2]float64{}}
	}
	s := Site2D{Boundary: polygonToCoords(frame.Ring(site[0]))}
	for _, hole := range site[1:] {
		s.Holes = append(s.Holes, polygonToCoords(frame.Ring(hole)))
	}
	return s
}

func assembleBlocks(frame geodesic.Frame, cat plant.Catalog, blocks []plant.Block) []Block2D {
	result := make([]Block2D, 0, len(blocks))
	for i, b := range blocks {
		local := frame.Polygon(b.Polygon)
		b2 := Block2D{
			Index:   i,
			Type:    b.Type,
			Center:  pointToCoord(local.Centroid()),
			Polygon: polygonToCoords(local),
			AreaM2:  local.Area(),
		}
		if t := cat.ByID(b.Type); t != nil {
			b2.Label = t.Label
			b2.Color = t.Color
		}
		result = append(result, b2)
	}
	return result
}

func assembleIssues(frame geodesic.Frame, issues []validation.Issue) []Issue2D {
	result := make([]Issue2D, 0, len(issues))
	for _, is := range issues {
		polys := make([][][2]float64, 0, len(is.Geometry))
		for _, p := range is.Geometry {
			polys = append(polys, polygonToCoords(frame.Polygon(p)))
		}
		result = append(result, Issue2D{
			Kind:     string(is.Kind),
			Blocks:   is.Blocks,
			Polygons: polys,
			AreaM2:   is.Area,
		})
	}
	return result
}

func assembleHeat(frame geodesic.Frame, field heat.Field) *Heat2D {
	if field.Empty() {
		return nil
	}
	h := &Heat2D{Min: field.Min, Max: field.Max, Cells: make([]Cell2D, 0, len(field.Cells))}
	for _, c := range field.Cells {
		h.Cells = append(h.Cells, Cell2D{
			Center:  pointToCoord(frame.ToLocal(c.Center)),
			Polygon: polygonToCoords(frame.Polygon(c.Polygon)),
			Value:   field.Normalized(c.Value),
		})
	}
	return h
}

// assembleSummary reports per-type counts and geodesic areas, sorted by type.
func assembleSummary(blocks []plant.Block) []TypeSummary {
	byType := make(map[string]*TypeSummary)
	for _, b := range blocks {
		ts, ok := byType[b.Type]
		if !ok {
			ts = &TypeSummary{Type: b.Type}
			byType[b.Type] = ts
		}
		ts.Count++
		ts.AreaM2 += geodesic.Area(b.Polygon)
	}
	result := make([]TypeSummary, 0, len(byType))
	for _, ts := range byType {
		result = append(result, *ts)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Type < result[j].Type })
	return result
}

func pointToCoord(p planar.Point2D) [2]float64 {
	return [2]float64{p.X, p.Y}
}

func polygonToCoords(p planar.Polygon) [][2]float64 {
	coords := make([][2]float64, p.Len())
	for i, v := range p.Vertices {
		coords[i] = pointToCoord(v)
	}
	return coords
}
