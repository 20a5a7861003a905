package snap

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c5kyx9vb72-sketch/Layout-App/pkg/geo"
	"github.com/c5kyx9vb72-sketch/Layout-App/pkg/geodesic"
)

var (
	origin = orb.Point{13.4, 52.52}
	frame  = geodesic.NewFrame(origin)
)

// sketch returns a closed ring through the given local points.
func sketch(pts ...geo.Point2D) orb.Ring {
	return frame.ToRing(geo.NewPolygon(pts...))
}

// freehand is a hand-drawn, slightly crooked rectangle.
func freehand() orb.Polygon {
	return orb.Polygon{sketch(
		geo.Pt(1.2, 0.8),
		geo.Pt(41.3, 2.1),
		geo.Pt(39.6, 27.7),
		geo.Pt(-0.9, 26.4),
	)}
}

func onLattice(t *testing.T, p orb.Point, spacing float64) {
	t.Helper()
	l := frame.ToLocal(p)
	assert.InDelta(t, 0, math.Remainder(l.X, spacing), 1e-6, "x=%v", l.X)
	assert.InDelta(t, 0, math.Remainder(l.Y, spacing), 1e-6, "y=%v", l.Y)
}

func TestSnapToLattice(t *testing.T) {
	out := Geometry(freehand(), Options{SpacingM: 5, Origin: &origin}).(orb.Polygon)
	require.Len(t, out[0], 5)
	for _, p := range out[0] {
		onLattice(t, p, 5)
	}
	first := frame.ToLocal(out[0][1])
	assert.InDelta(t, 40, first.X, 1e-6)
	assert.InDelta(t, 0, first.Y, 1e-6)
}

func TestSnapIdempotent(t *testing.T) {
	for _, ortho := range []bool{false, true} {
		opt := Options{SpacingM: 5, Origin: &origin, Orthogonal: ortho}
		once := Geometry(freehand(), opt).(orb.Polygon)
		twice := Geometry(once, opt).(orb.Polygon)
		require.Len(t, twice[0], len(once[0]))
		for i := range once[0] {
			assert.InDelta(t, once[0][i].Lon(), twice[0][i].Lon(), 1e-12)
			assert.InDelta(t, once[0][i].Lat(), twice[0][i].Lat(), 1e-12)
		}
	}
}

func TestOrthogonalEdgesAreAxisAligned(t *testing.T) {
	out := Geometry(freehand(), Options{SpacingM: 5, Origin: &origin, Orthogonal: true}).(orb.Polygon)
	ring := out[0]
	for i := 1; i < len(ring); i++ {
		a, b := ring[i-1], ring[i]
		if a.Lat() != b.Lat() && a.Lon() != b.Lon() {
			t.Errorf("edge %d is diagonal: %v -> %v", i, a, b)
		}
	}
}

func TestOrthogonalClosureCanDiverge(t *testing.T) {
	// The last vertex is pulled onto the axis of its predecessor, so a ring
	// whose last edge runs diagonally comes back open.
	ring := sketch(geo.Pt(0, 0), geo.Pt(40, 0), geo.Pt(40, 30), geo.Pt(12, 22))
	out := Geometry(orb.Polygon{ring}, Options{SpacingM: 5, Origin: &origin, Orthogonal: true}).(orb.Polygon)
	r := out[0]
	assert.NotEqual(t, r[0], r[len(r)-1], "ring unexpectedly stayed closed")

	closed := Close(out).(orb.Polygon)
	assert.Equal(t, closed[0][0], closed[0][len(closed[0])-1])
	// Close works on a copy.
	assert.NotEqual(t, out[0][0], out[0][len(out[0])-1])
}

func TestNonOrthogonalKeepsClosure(t *testing.T) {
	out := Geometry(freehand(), Options{SpacingM: 5, Origin: &origin}).(orb.Polygon)
	assert.Equal(t, out[0][0], out[0][len(out[0])-1])
}

func TestOrthogonalTieKeepsLatitude(t *testing.T) {
	line := orb.LineString{frame.ToLngLat(geo.Pt(0, 0)), frame.ToLngLat(geo.Pt(10, 10))}
	out := Geometry(line, Options{SpacingM: 5, Origin: &origin, Orthogonal: true}).(orb.LineString)
	assert.Equal(t, out[0].Lat(), out[1].Lat())
}

func TestZeroSpacingCopies(t *testing.T) {
	in := freehand()
	out := Geometry(in, Options{SpacingM: 0, Origin: &origin}).(orb.Polygon)
	assert.Equal(t, in, out)
	out[0][0] = orb.Point{0, 0}
	assert.NotEqual(t, in[0][0], out[0][0])
}

func TestMultiPolygon(t *testing.T) {
	mp := orb.MultiPolygon{freehand(), freehand()}
	out := Geometry(mp, Options{SpacingM: 10, Origin: &origin}).(orb.MultiPolygon)
	require.Len(t, out, 2)
	for _, p := range out {
		for _, v := range p[0] {
			onLattice(t, v, 10)
		}
	}
}

func TestFeatureKeepsProperties(t *testing.T) {
	f := geojson.NewFeature(freehand())
	f.ID = "site-1"
	f.Properties["role"] = "site"

	out := Feature(f, Options{SpacingM: 5, Origin: &origin})
	assert.Equal(t, "site-1", out.ID)
	assert.Equal(t, "site", out.Properties["role"])

	out.Properties["role"] = "changed"
	assert.Equal(t, "site", f.Properties["role"])
}

func TestCollection(t *testing.T) {
	fc := geojson.NewFeatureCollection()
	fc.Append(geojson.NewFeature(freehand()))
	fc.Append(geojson.NewFeature(frame.ToLngLat(geo.Pt(7, 12))))
	out := Collection(fc, Options{SpacingM: 5, Origin: &origin})
	require.Len(t, out.Features, 2)
	onLattice(t, out.Features[1].Geometry.(orb.Point), 5)
}

func TestNilOriginAnchorsAtSouthWestCorner(t *testing.T) {
	in := freehand()
	sw := in.Bound().Min
	out := Geometry(in, Options{SpacingM: 5}).(orb.Polygon)
	anchored := Geometry(in, Options{SpacingM: 5}.At(sw)).(orb.Polygon)
	assert.Equal(t, anchored, out)
}

func TestExplicitZeroOriginIsKept(t *testing.T) {
	fc := geojson.NewFeatureCollection()
	fc.Append(geojson.NewFeature(freehand()))

	zero := Options{SpacingM: 5}.At(orb.Point{0, 0})
	out := Collection(fc, zero)
	want := Geometry(freehand(), zero)
	assert.Equal(t, want, out.Features[0].Geometry)
	assert.NotEqual(t, Collection(fc, Options{SpacingM: 5}).Features[0].Geometry, out.Features[0].Geometry)
}

func TestBound(t *testing.T) {
	fc := geojson.NewFeatureCollection()
	fc.Append(geojson.NewFeature(orb.Point{1, 2}))
	fc.Append(&geojson.Feature{Type: "Feature", Properties: geojson.Properties{}})
	fc.Append(geojson.NewFeature(orb.Point{-3, 5}))
	assert.Equal(t, orb.Bound{Min: orb.Point{-3, 2}, Max: orb.Point{1, 5}}, Bound(fc))
}
