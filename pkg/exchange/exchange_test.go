package exchange

import (
	"testing"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c5kyx9vb72-sketch/Layout-App/pkg/errors"
	"github.com/c5kyx9vb72-sketch/Layout-App/pkg/plant"
	"github.com/c5kyx9vb72-sketch/Layout-App/pkg/snap"
)

var square = orb.Polygon{{{10, 50}, {10.01, 50}, {10.01, 50.01}, {10, 50.01}, {10, 50}}}

const featureCollection = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "properties": {"role": "block", "type": "packaging"},
     "geometry": {"type": "Polygon", "coordinates": [[[10.001,50.001],[10.002,50.001],[10.002,50.002],[10.001,50.002],[10.001,50.001]]]}},
    {"type": "Feature", "properties": {"role": "site"},
     "geometry": {"type": "Polygon", "coordinates": [[[10,50],[10.01,50],[10.01,50.01],[10,50.01],[10,50]]]}},
    {"type": "Feature", "properties": {},
     "geometry": {"type": "Point", "coordinates": [10.005, 50.005]}}
  ]
}`

const kmlDoc = `<?xml version="1.0" encoding="UTF-8"?>
<kml xmlns="http://www.opengis.net/kml/2.2">
  <Document>
    <Folder>
      <Placemark>
        <name>Site</name>
        <ExtendedData><Data name="role"><value>site</value></Data></ExtendedData>
        <Polygon><outerBoundaryIs><LinearRing><coordinates>
          10,50,0 10.01,50,0 10.01,50.01,0 10,50.01,0 10,50,0
        </coordinates></LinearRing></outerBoundaryIs></Polygon>
      </Placemark>
    </Folder>
    <Placemark>
      <name>Dock</name>
      <Point><coordinates>10.002,50.003</coordinates></Point>
    </Placemark>
    <Placemark>
      <name>Halls</name>
      <MultiGeometry>
        <Polygon><outerBoundaryIs><LinearRing><coordinates>0,0 1,0 1,1 0,0</coordinates></LinearRing></outerBoundaryIs></Polygon>
        <Polygon><outerBoundaryIs><LinearRing><coordinates>2,2 3,2 3,3 2,2</coordinates></LinearRing></outerBoundaryIs></Polygon>
      </MultiGeometry>
    </Placemark>
  </Document>
</kml>`

func TestDetect(t *testing.T) {
	assert.Equal(t, FormatKML, Detect([]byte(kmlDoc)))
	assert.Equal(t, FormatGeoJSON, Detect([]byte("  \n{\"type\":\"Point\"}")))
	assert.Equal(t, FormatWKT, Detect([]byte("POINT(1 2)")))
}

func TestParseFeatureCollection(t *testing.T) {
	fc, format, err := Parse([]byte(featureCollection))
	require.NoError(t, err)
	assert.Equal(t, FormatGeoJSON, format)
	assert.Len(t, fc.Features, 3)
}

func TestParseSingleFeatureAndGeometry(t *testing.T) {
	fc, _, err := Parse([]byte(`{"type":"Feature","properties":{"role":"site"},"geometry":{"type":"Point","coordinates":[1,2]}}`))
	require.NoError(t, err)
	require.Len(t, fc.Features, 1)
	assert.Equal(t, "site", fc.Features[0].Properties["role"])

	fc, _, err = Parse([]byte(`{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,0]]]}`))
	require.NoError(t, err)
	require.Len(t, fc.Features, 1)
	assert.IsType(t, orb.Polygon{}, fc.Features[0].Geometry)
}

func TestParseKML(t *testing.T) {
	fc, format, err := Parse([]byte(kmlDoc))
	require.NoError(t, err)
	assert.Equal(t, FormatKML, format)
	require.Len(t, fc.Features, 3)

	site := fc.Features[0]
	assert.Equal(t, "site", site.Properties["role"])
	assert.Equal(t, "Site", site.Properties["name"])
	assert.Equal(t, square, site.Geometry)

	assert.Equal(t, orb.Point{10.002, 50.003}, fc.Features[1].Geometry)

	mp, ok := fc.Features[2].Geometry.(orb.MultiPolygon)
	require.True(t, ok)
	assert.Len(t, mp, 2)
}

func TestParseWKT(t *testing.T) {
	fc, format, err := Parse([]byte("POINT(1 2)\n\nLINESTRING(0 0,1 1)\n"))
	require.NoError(t, err)
	assert.Equal(t, FormatWKT, format)
	require.Len(t, fc.Features, 2)
	assert.Equal(t, orb.Point{1, 2}, fc.Features[0].Geometry)

	fc, _, err = Parse([]byte("POLYGON((0 0,\n1 0,\n1 1,\n0 0))"))
	require.NoError(t, err)
	require.Len(t, fc.Features, 1)
	assert.Equal(t, orb.Polygon{{{0, 0}, {1, 0}, {1, 1}, {0, 0}}}, fc.Features[0].Geometry)
}

func TestParseMalformed(t *testing.T) {
	for _, in := range []string{
		"",
		"   ",
		"{not json",
		`{"coordinates":[1,2]}`,
		"definitely not geometry",
		`<kml><Document></Document></kml>`,
		`<kml><Placemark><Point><coordinates>abc,1</coordinates></Point></Placemark></kml>`,
	} {
		_, _, err := Parse([]byte(in))
		require.Error(t, err, "input %q", in)
		assert.True(t, errors.Is(err, errors.ErrCodeInvalidFormat), "input %q: %v", in, err)
	}
}

func TestParseFileMissing(t *testing.T) {
	_, _, err := ParseFile("testdata/missing.geojson")
	assert.True(t, errors.Is(err, errors.ErrCodeFileNotFound))
}

func TestSplit(t *testing.T) {
	fc, _, err := Parse([]byte(featureCollection))
	require.NoError(t, err)
	l := Split(fc)
	assert.Equal(t, square, l.Site)
	require.Len(t, l.Blocks, 1)
	assert.Equal(t, "packaging", l.Blocks[0].Type)
	assert.Equal(t, []orb.Point{{10.005, 50.005}}, l.Sources)
}

func TestSplitFallbackSite(t *testing.T) {
	fc := geojson.NewFeatureCollection()
	fc.Append(geojson.NewFeature(square))
	assert.Equal(t, square, Split(fc).Site)
}

func TestPrepareSnaps(t *testing.T) {
	fc := geojson.NewFeatureCollection()
	crooked := orb.Polygon{{{10, 50}, {10.01003, 50.00002}, {10.01, 50.01}, {10, 50.01}, {10, 50}}}
	fc.Append(geojson.NewFeature(crooked))

	l := Prepare(fc, snap.Options{SpacingM: 5, Orthogonal: true})
	require.NotNil(t, l.Site)
	ring := l.Site[0]
	// The first edge is forced horizontal.
	assert.Equal(t, ring[0].Lat(), ring[1].Lat())
	assert.Equal(t, ring[0], ring[len(ring)-1])
}

func TestSnapKeepsExplicitZeroOrigin(t *testing.T) {
	fc := geojson.NewFeatureCollection()
	fc.Append(geojson.NewFeature(square))

	opt := snap.Options{SpacingM: 10}.At(orb.Point{0, 0})
	out := Snap(fc, opt)
	ring := out.Features[0].Geometry.(orb.Polygon)[0]
	// Anchored at [0, 0], not at the collection corner, so the corner moves.
	assert.NotEqual(t, orb.Point{10, 50}, ring[0])
	assert.Equal(t, snap.Close(snap.Geometry(square, opt)), out.Features[0].Geometry)
}

func TestExport(t *testing.T) {
	blocks := []plant.Block{
		{Type: "packaging", Polygon: orb.Polygon{{{10.001, 50.001}, {10.002, 50.001}, {10.002, 50.002}, {10.001, 50.001}}}},
		{Type: "cold_store", Polygon: orb.Polygon{{{10.003, 50.003}, {10.004, 50.003}, {10.004, 50.004}, {10.003, 50.003}}}},
	}
	fc := Export(square, blocks)
	require.Len(t, fc.Features, 3)
	assert.Equal(t, "site", fc.Features[0].Properties["role"])
	assert.Equal(t, "block", fc.Features[1].Properties["role"])
	assert.Equal(t, "packaging", fc.Features[1].Properties["type"])

	id := fc.Features[1].Properties.MustString("id")
	parsed, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(5), parsed.Version())
	assert.NotEqual(t, id, fc.Features[2].Properties["id"])

	again := Export(square, blocks)
	assert.Equal(t, fc.Features[1].ID, again.Features[1].ID)
	assert.Equal(t, fc.Features[2].ID, again.Features[2].ID)
}

func TestExportRoundTrip(t *testing.T) {
	blocks := []plant.Block{{Type: "utilities", Polygon: orb.Polygon{{{10.001, 50.001}, {10.002, 50.001}, {10.002, 50.002}, {10.001, 50.001}}}}}
	data, err := Export(square, blocks).MarshalJSON()
	require.NoError(t, err)

	fc, _, err := Parse(data)
	require.NoError(t, err)
	l := Split(fc)
	assert.Equal(t, square, l.Site)
	assert.Equal(t, blocks, l.Blocks)
}

func TestSnapDefaultsOriginToCollectionCorner(t *testing.T) {
	fc := geojson.NewFeatureCollection()
	fc.Append(geojson.NewFeature(square))
	fc.Append(geojson.NewFeature(orb.Point{10.02, 50.02}))

	b := snap.Bound(fc)
	assert.Equal(t, orb.Point{10, 50}, b.Min)
	assert.Equal(t, orb.Point{10.02, 50.02}, b.Max)

	out := Snap(fc, snap.Options{SpacingM: 10})
	require.Len(t, out.Features, 2)
	ring := out.Features[0].Geometry.(orb.Polygon)[0]
	// The south-west corner is the lattice origin and does not move.
	assert.Equal(t, orb.Point{10, 50}, ring[0])
	assert.Equal(t, ring[0], ring[len(ring)-1])
}
