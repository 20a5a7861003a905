package geodesic

import (
	"github.com/paulmach/orb"

	planar "github.com/c5kyx9vb72-sketch/Layout-App/pkg/geo"
)

// sampleDeg is the size of the east and north steps used to linearise the
// degree scale around a frame origin.
const sampleDeg = 0.01

// Frame is a locally linearised projection between [lng, lat] and planar
// meters centred on Origin. X grows east and Y grows north.
//
// The scale is measured once at the origin, so error grows with distance
// from it. The frame is meant for site extents of a few hundred meters up
// to a few kilometers and is not a substitute for a real map projection.
type Frame struct {
	Origin    orb.Point
	MetersLng float64 // meters per degree of longitude at Origin
	MetersLat float64 // meters per degree of latitude at Origin
}

// NewFrame measures the degree scale at origin with two short geodesic steps.
func NewFrame(origin orb.Point) Frame {
	east := orb.Point{origin.Lon() + sampleDeg, origin.Lat()}
	north := orb.Point{origin.Lon(), origin.Lat() + sampleDeg}
	return Frame{
		Origin:    origin,
		MetersLng: Distance(origin, east) / sampleDeg,
		MetersLat: Distance(origin, north) / sampleDeg,
	}
}

// ToLocal projects p into frame meters.
func (f Frame) ToLocal(p orb.Point) planar.Point2D {
	return planar.Point2D{
		X: (p.Lon() - f.Origin.Lon()) * f.MetersLng,
		Y: (p.Lat() - f.Origin.Lat()) * f.MetersLat,
	}
}

// ToLngLat converts frame meters back to [lng, lat].
func (f Frame) ToLngLat(p planar.Point2D) orb.Point {
	lng, lat := f.Origin.Lon(), f.Origin.Lat()
	if f.MetersLng != 0 {
		lng += p.X / f.MetersLng
	}
	if f.MetersLat != 0 {
		lat += p.Y / f.MetersLat
	}
	return orb.Point{lng, lat}
}

// DegreesLng converts an east-west distance in meters to degrees of longitude.
func (f Frame) DegreesLng(m float64) float64 { return m / f.MetersLng }

// DegreesLat converts a north-south distance in meters to degrees of latitude.
func (f Frame) DegreesLat(m float64) float64 { return m / f.MetersLat }

// Ring projects a ring, dropping the closing vertex.
func (f Frame) Ring(r orb.Ring) planar.Polygon {
	pts := openRing(r)
	out := make([]planar.Point2D, len(pts))
	for i, p := range pts {
		out[i] = f.ToLocal(p)
	}
	return planar.Polygon{Vertices: out}
}

// Polygon projects the outer ring of p.
func (f Frame) Polygon(p orb.Polygon) planar.Polygon {
	if len(p) == 0 {
		return planar.Polygon{}
	}
	return f.Ring(p[0])
}

// ToRing converts a planar polygon back to a closed ring.
func (f Frame) ToRing(p planar.Polygon) orb.Ring {
	if p.Len() == 0 {
		return nil
	}
	r := make(orb.Ring, 0, p.Len()+1)
	for _, v := range p.Vertices {
		r = append(r, f.ToLngLat(v))
	}
	return append(r, r[0])
}

// ToPolygon converts a planar polygon back to a single-ring orb polygon.
func (f Frame) ToPolygon(p planar.Polygon) orb.Polygon {
	if p.Len() == 0 {
		return nil
	}
	return orb.Polygon{f.ToRing(p)}
}
