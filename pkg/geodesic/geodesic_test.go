package geodesic

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"

	planar "github.com/c5kyx9vb72-sketch/Layout-App/pkg/geo"
)

var origin = orb.Point{-1.5, 52.5}

func TestUnits(t *testing.T) {
	assert.InDelta(t, 1.25, MetersToKm(1250), 1e-12)
	assert.InDelta(t, 1250, KmToMeters(1.25), 1e-9)
}

func TestDestinationDistanceRoundTrip(t *testing.T) {
	for _, bearing := range []float64{0, 45, 90, 180, 270} {
		p := Destination(origin, 250, bearing)
		assert.InDelta(t, 250, Distance(origin, p), 0.01, "bearing %v", bearing)
	}
}

func TestDestinationBearings(t *testing.T) {
	north := Destination(origin, 100, 0)
	assert.Greater(t, north.Lat(), origin.Lat())
	assert.InDelta(t, origin.Lon(), north.Lon(), 1e-9)

	east := Destination(origin, 100, 90)
	assert.Greater(t, east.Lon(), origin.Lon())
}

func TestDestinationZero(t *testing.T) {
	assert.Equal(t, origin, Destination(origin, 0, 123))
}

func TestFrameRoundTrip(t *testing.T) {
	f := NewFrame(origin)
	p := orb.Point{-1.497, 52.502}
	back := f.ToLngLat(f.ToLocal(p))
	assert.InDelta(t, p.Lon(), back.Lon(), 1e-12)
	assert.InDelta(t, p.Lat(), back.Lat(), 1e-12)
}

func TestFrameScale(t *testing.T) {
	f := NewFrame(origin)
	// Latitude degrees are ~111.3km; longitude shrinks with cos(lat).
	assert.InDelta(t, 111319, f.MetersLat, 50)
	assert.InDelta(t, f.MetersLat*math.Cos(origin.Lat()*math.Pi/180), f.MetersLng, 50)

	// A local offset agrees with the geodesic distance at short range.
	p := Destination(origin, 300, 90)
	assert.InDelta(t, 300, f.ToLocal(p).X, 0.5)
}

func TestFrameRingDropsClosingVertex(t *testing.T) {
	f := NewFrame(origin)
	ring := orb.Ring{origin, {-1.49, 52.5}, {-1.49, 52.51}, origin}
	poly := f.Ring(ring)
	assert.Equal(t, 3, poly.Len())
	assert.Equal(t, planar.Point2D{}, poly.Vertices[0])

	closed := f.ToRing(poly)
	assert.Len(t, closed, 4)
	assert.Equal(t, closed[0], closed[3])
}

func TestAreaOfSquare(t *testing.T) {
	f := NewFrame(origin)
	sq := planar.NewPolygon(planar.Pt(0, 0), planar.Pt(200, 0), planar.Pt(200, 200), planar.Pt(0, 200))
	poly := f.ToPolygon(sq)
	assert.InDelta(t, 40000, Area(poly), 40000*0.01)
	assert.InDelta(t, 800, Perimeter(poly), 800*0.01)

	// Winding does not matter.
	assert.InDelta(t, Area(poly), Area(f.ToPolygon(sq.Reverse())), 1e-6)
}

func TestAreaEmpty(t *testing.T) {
	assert.Zero(t, Area(nil))
	assert.Zero(t, Perimeter(nil))
}
