package layout

import (
	"github.com/paulmach/orb"

	"github.com/c5kyx9vb72-sketch/Layout-App/pkg/geo"
	"github.com/c5kyx9vb72-sketch/Layout-App/pkg/geodesic"
)

// SampleGrid returns the lattice points spaced stepM meters apart, anchored
// at the minimum corner of the polygon's bounding box, that lie strictly
// inside the polygon. Points on the boundary or inside a hole are dropped.
// Columns of equal longitude come first, rows of latitude within them.
func SampleGrid(poly orb.Polygon, stepM float64) []orb.Point {
	if stepM <= 0 || len(poly) == 0 || len(poly[0]) < 4 {
		return nil
	}
	bound := poly.Bound()
	frame := geodesic.NewFrame(bound.Min)
	dLng := frame.DegreesLng(stepM)
	dLat := frame.DegreesLat(stepM)
	if dLng <= 0 || dLat <= 0 {
		return nil
	}

	outer := frame.Ring(poly[0])
	holes := make([]geo.Polygon, 0, len(poly)-1)
	for _, h := range poly[1:] {
		holes = append(holes, frame.Ring(h))
	}

	var pts []orb.Point
	for i := 0; ; i++ {
		lng := bound.Min.Lon() + float64(i)*dLng
		if lng > bound.Max.Lon() {
			break
		}
		for j := 0; ; j++ {
			lat := bound.Min.Lat() + float64(j)*dLat
			if lat > bound.Max.Lat() {
				break
			}
			p := orb.Point{lng, lat}
			if interior(frame.ToLocal(p), outer, holes) {
				pts = append(pts, p)
			}
		}
	}
	return pts
}

func interior(p geo.Point2D, outer geo.Polygon, holes []geo.Polygon) bool {
	if !outer.ContainsStrict(p, geo.DefaultEpsilon) {
		return false
	}
	for _, h := range holes {
		if h.Contains(p) || h.OnBoundary(p, geo.DefaultEpsilon) {
			return false
		}
	}
	return true
}
