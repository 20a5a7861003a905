package exchange

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/c5kyx9vb72-sketch/Layout-App/pkg/plant"
	"github.com/c5kyx9vb72-sketch/Layout-App/pkg/snap"
)

// RoleSource tags point features used as heat sources.
const RoleSource = "source"

// Layout is an imported collection sorted into its parts.
type Layout struct {
	Site    orb.Polygon   `json:"site"`
	Blocks  []plant.Block `json:"blocks"`
	Sources []orb.Point   `json:"sources"`
}

// Split sorts features by their "role" property. The site is the first
// polygon with role "site", or failing that the first untagged polygon.
// Polygons with role "block" become blocks and points become sources
// unless tagged with another role.
func Split(fc *geojson.FeatureCollection) Layout {
	var (
		out      Layout
		fallback orb.Polygon
	)
	for _, f := range fc.Features {
		role := f.Properties.MustString("role", "")
		switch g := f.Geometry.(type) {
		case orb.Point:
			if role == "" || role == RoleSource {
				out.Sources = append(out.Sources, g)
			}
			continue
		case orb.MultiPoint:
			if role == "" || role == RoleSource {
				out.Sources = append(out.Sources, g...)
			}
			continue
		}

		polys := polygons(f.Geometry)
		switch role {
		case plant.RoleSite:
			if out.Site == nil && len(polys) > 0 {
				out.Site = polys[0]
			}
		case plant.RoleBlock:
			typ := f.Properties.MustString("type", "")
			for _, p := range polys {
				out.Blocks = append(out.Blocks, plant.Block{Type: typ, Polygon: p})
			}
		case "":
			if fallback == nil && len(polys) > 0 {
				fallback = polys[0]
			}
		}
	}
	if out.Site == nil {
		out.Site = fallback
	}
	return out
}

// Snap snaps every feature onto the grid and re-closes its rings. A nil
// origin anchors the grid at the south-west corner of the collection.
func Snap(fc *geojson.FeatureCollection, opt snap.Options) *geojson.FeatureCollection {
	snapped := snap.Collection(fc, opt)
	for _, f := range snapped.Features {
		f.Geometry = snap.Close(f.Geometry)
	}
	return snapped
}

// Prepare snaps the collection and splits it.
func Prepare(fc *geojson.FeatureCollection, opt snap.Options) Layout {
	return Split(Snap(fc, opt))
}
