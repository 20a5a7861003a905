package plant

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Block is a placed process footprint.
type Block struct {
	Type    string      `json:"type" msgpack:"type"`
	Polygon orb.Polygon `json:"polygon" msgpack:"polygon"`
}

// Feature returns the block as a GeoJSON feature tagged with its role and type.
func (b Block) Feature() *geojson.Feature {
	f := geojson.NewFeature(b.Polygon)
	f.Properties["role"] = RoleBlock
	f.Properties["type"] = b.Type
	return f
}

// BlockFromFeature reads a block back from a feature. It reports false when
// the feature is not a polygon.
func BlockFromFeature(f *geojson.Feature) (Block, bool) {
	if f == nil {
		return Block{}, false
	}
	poly, ok := f.Geometry.(orb.Polygon)
	if !ok {
		return Block{}, false
	}
	return Block{Type: f.Properties.MustString("type", ""), Polygon: poly}, true
}

// SiteFeature wraps a site polygon as a feature with the site role.
func SiteFeature(site orb.Polygon) *geojson.Feature {
	f := geojson.NewFeature(site)
	f.Properties["role"] = RoleSite
	return f
}

// BlockCollection converts blocks to a feature collection in block order.
func BlockCollection(blocks []Block) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, b := range blocks {
		fc.Append(b.Feature())
	}
	return fc
}
