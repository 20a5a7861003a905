package exchange

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
	"github.com/paulmach/orb/geojson"

	"github.com/c5kyx9vb72-sketch/Layout-App/pkg/plant"
)

// blockNamespace scopes block ids so they never collide with other UUIDv5
// users of the same names.
var blockNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("urn:plantlayout:block"))

// BlockID derives a stable id from a block's position in the layout, its
// type and its geometry.
func BlockID(index int, b plant.Block) string {
	name := fmt.Sprintf("%d|%s|%s", index, b.Type, wkt.MarshalString(b.Polygon))
	return uuid.NewSHA1(blockNamespace, []byte(name)).String()
}

// Export builds the interchange collection: the site tagged "site" followed
// by every block tagged "block" with its type and id. Exporting the same
// layout twice gives identical output.
func Export(site orb.Polygon, blocks []plant.Block) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	if len(site) > 0 {
		fc.Append(plant.SiteFeature(site))
	}
	for i, b := range blocks {
		f := b.Feature()
		id := BlockID(i, b)
		f.ID = id
		f.Properties["id"] = id
		fc.Append(f)
	}
	return fc
}
