package geo

import (
	"math"
	"sort"
)

// bufferSegments is the number of segments used for a full buffer arc.
const bufferSegments = 32

// ConvexHull returns the convex hull of pts in CCW order using the monotone
// chain algorithm. Fewer than 3 distinct points yield an empty polygon.
func ConvexHull(pts []Point2D) Polygon {
	if len(pts) < 3 {
		return Polygon{}
	}
	sorted := make([]Point2D, len(pts))
	copy(sorted, pts)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].X != sorted[j].X {
			return sorted[i].X < sorted[j].X
		}
		return sorted[i].Y < sorted[j].Y
	})

	hull := make([]Point2D, 0, 2*len(sorted))
	for _, p := range sorted {
		for len(hull) >= 2 && hull[len(hull)-1].Sub(hull[len(hull)-2]).Cross(p.Sub(hull[len(hull)-2])) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	lower := len(hull) + 1
	for i := len(sorted) - 2; i >= 0; i-- {
		p := sorted[i]
		for len(hull) >= lower && hull[len(hull)-1].Sub(hull[len(hull)-2]).Cross(p.Sub(hull[len(hull)-2])) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	hull = hull[:len(hull)-1]
	if len(hull) < 3 {
		return Polygon{}
	}
	return Polygon{Vertices: hull}
}

// Buffer expands p outward by d meters. The result is the convex hull of a
// circle of radius d around every vertex, which is exact (up to arc
// resolution) for convex input and fills the notches of concave input;
// buffer the ConvexParts of a concave polygon instead.
// Non-positive d returns the hull of p.
func Buffer(p Polygon, d float64) Polygon {
	if p.Len() == 0 {
		return Polygon{}
	}
	if d <= 0 {
		return ConvexHull(p.Vertices)
	}
	pts := make([]Point2D, 0, p.Len()*bufferSegments)
	for _, v := range p.Vertices {
		for i := 0; i < bufferSegments; i++ {
			a := 2 * math.Pi * float64(i) / float64(bufferSegments)
			pts = append(pts, Point2D{X: v.X + d*math.Cos(a), Y: v.Y + d*math.Sin(a)})
		}
	}
	return ConvexHull(pts)
}
