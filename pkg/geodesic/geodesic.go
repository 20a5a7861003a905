// Package geodesic converts between longitude/latitude coordinates and the
// local planar meters used by the layout kernel.
package geodesic

import (
	"math"

	"github.com/golang/geo/s2"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// EarthRadius is the sphere radius, in meters, used for areas and distances.
const EarthRadius = orb.EarthRadius

// MetersToKm converts meters to kilometers.
func MetersToKm(m float64) float64 { return m / 1000 }

// KmToMeters converts kilometers to meters.
func KmToMeters(km float64) float64 { return km * 1000 }

// Destination returns the point reached by travelling distanceM meters from p
// along the great circle with the given bearing (degrees clockwise from north).
func Destination(p orb.Point, distanceM, bearingDeg float64) orb.Point {
	if distanceM == 0 {
		return p
	}
	return geo.PointAtBearingAndDistance(p, bearingDeg, distanceM)
}

// Distance returns the haversine distance between a and b in meters.
func Distance(a, b orb.Point) float64 {
	return geo.DistanceHaversine(a, b)
}

// Perimeter returns the length of the outer ring of p in meters.
func Perimeter(p orb.Polygon) float64 {
	if len(p) == 0 {
		return 0
	}
	return geo.Length(p[0])
}

// Area returns the spherical area of p in square meters, holes subtracted.
func Area(p orb.Polygon) float64 {
	if len(p) == 0 {
		return 0
	}
	area := ringArea(p[0])
	for _, hole := range p[1:] {
		area -= ringArea(hole)
	}
	return math.Max(area, 0)
}

func ringArea(r orb.Ring) float64 {
	pts := openRing(r)
	if len(pts) < 3 {
		return 0
	}
	verts := make([]s2.Point, len(pts))
	for i, p := range pts {
		verts[i] = s2.PointFromLatLng(s2.LatLngFromDegrees(p.Lat(), p.Lon()))
	}
	loop := s2.LoopFromPoints(verts)
	loop.Normalize()
	return loop.Area() * EarthRadius * EarthRadius
}

// openRing returns the ring without its closing vertex.
func openRing(r orb.Ring) []orb.Point {
	if len(r) > 1 && r[0] == r[len(r)-1] {
		return r[:len(r)-1]
	}
	return r
}
