package geo

import "math"

// DefaultEpsilon is the distance tolerance, in meters, used by the layout
// predicates when a caller has no better value.
const DefaultEpsilon = 1e-6

// pointSegmentDistance returns the distance from p to the segment a-b.
func pointSegmentDistance(p, a, b Point2D) float64 {
	ab := b.Sub(a)
	l2 := ab.Dot(ab)
	if l2 == 0 {
		return p.Distance(a)
	}
	t := p.Sub(a).Dot(ab) / l2
	t = math.Max(0, math.Min(1, t))
	return p.Distance(a.Add(ab.Scale(t)))
}

// side returns the signed distance of p from the directed line a-b.
// Positive is left.
func side(a, b, p Point2D) float64 {
	ab := b.Sub(a)
	l := ab.Length()
	if l == 0 {
		return p.Distance(a)
	}
	return ab.Cross(p.Sub(a)) / l
}

// segmentsCross reports whether segments a-b and c-d cross at a point
// interior to both. Touching, collinear overlap and endpoint contact within
// eps do not count.
func segmentsCross(a, b, c, d Point2D, eps float64) bool {
	d1 := side(a, b, c)
	d2 := side(a, b, d)
	d3 := side(c, d, a)
	d4 := side(c, d, b)
	return ((d1 > eps && d2 < -eps) || (d1 < -eps && d2 > eps)) &&
		((d3 > eps && d4 < -eps) || (d3 < -eps && d4 > eps))
}

// segmentsTouch reports whether segments a-b and c-d share any point.
func segmentsTouch(a, b, c, d Point2D, eps float64) bool {
	if segmentsCross(a, b, c, d, 0) {
		return true
	}
	return pointSegmentDistance(a, c, d) <= eps ||
		pointSegmentDistance(b, c, d) <= eps ||
		pointSegmentDistance(c, a, b) <= eps ||
		pointSegmentDistance(d, a, b) <= eps
}

// segmentDistance returns the shortest distance between segments a-b and c-d.
func segmentDistance(a, b, c, d Point2D) float64 {
	if segmentsTouch(a, b, c, d, 0) {
		return 0
	}
	return math.Min(
		math.Min(pointSegmentDistance(a, c, d), pointSegmentDistance(b, c, d)),
		math.Min(pointSegmentDistance(c, a, b), pointSegmentDistance(d, a, b)),
	)
}

// coveredBy reports whether pt is inside outer or on its boundary.
func coveredBy(pt Point2D, outer Polygon, eps float64) bool {
	return outer.Contains(pt) || outer.OnBoundary(pt, eps)
}

// Within reports whether inner lies entirely inside outer, boundary contact
// allowed. Both polygons must be simple.
func Within(inner, outer Polygon, eps float64) bool {
	if inner.Len() == 0 || outer.IsEmpty() {
		return false
	}
	for _, v := range inner.Vertices {
		if !coveredBy(v, outer, eps) {
			return false
		}
	}
	n, m := inner.Len(), outer.Len()
	for i := 0; i < n; i++ {
		a, b := inner.Edge(i)
		for j := 0; j < m; j++ {
			c, d := outer.Edge(j)
			if segmentsCross(a, b, c, d, eps) {
				return false
			}
		}
		// An edge can leave and re-enter through a concave notch while
		// touching only vertices of outer.
		if !coveredBy(MidPoint(a, b), outer, eps) {
			return false
		}
	}
	return true
}

// Clearance returns the shortest distance between the boundaries of a and b.
func Clearance(a, b Polygon) float64 {
	if a.Len() == 0 || b.Len() == 0 {
		return math.Inf(1)
	}
	best := math.Inf(1)
	for i := 0; i < a.Len(); i++ {
		p, q := a.Edge(i)
		for j := 0; j < b.Len(); j++ {
			r, s := b.Edge(j)
			best = math.Min(best, segmentDistance(p, q, r, s))
			if best == 0 {
				return 0
			}
		}
	}
	return best
}

// WithinClearance reports whether inner lies inside outer shrunk inward by
// d meters. For a simple outer polygon this equals containment in the
// negative buffer of outer, without constructing it.
func WithinClearance(inner, outer Polygon, d, eps float64) bool {
	if !Within(inner, outer, eps) {
		return false
	}
	if d <= 0 {
		return true
	}
	return Clearance(inner, outer) >= d-eps
}
