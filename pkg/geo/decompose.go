package geo

import "math"

// sliverArea is the area, in m², below which a clipped piece is dropped.
const sliverArea = 1e-9

// cleanRing drops repeated and collinear vertices and returns the rest in
// CCW order.
func cleanRing(p Polygon) []Point2D {
	pts := make([]Point2D, 0, p.Len())
	for _, v := range p.EnsureCCW().Vertices {
		if len(pts) > 0 && pts[len(pts)-1].Distance(v) <= DefaultEpsilon {
			continue
		}
		pts = append(pts, v)
	}
	if len(pts) > 1 && pts[0].Distance(pts[len(pts)-1]) <= DefaultEpsilon {
		pts = pts[:len(pts)-1]
	}
	for changed := true; changed && len(pts) >= 3; {
		changed = false
		for i := 0; i < len(pts); i++ {
			prev := pts[(i+len(pts)-1)%len(pts)]
			next := pts[(i+1)%len(pts)]
			if math.Abs(side(prev, next, pts[i])) <= DefaultEpsilon {
				pts = append(pts[:i], pts[i+1:]...)
				changed = true
				break
			}
		}
	}
	return pts
}

// Triangulate splits a simple polygon into CCW triangles by ear clipping.
func Triangulate(p Polygon) []Polygon {
	pts := cleanRing(p)
	if len(pts) < 3 {
		return nil
	}
	var tris []Polygon
	for len(pts) > 3 {
		ear := -1
		n := len(pts)
		for i := 0; i < n; i++ {
			a, b, c := pts[(i+n-1)%n], pts[i], pts[(i+1)%n]
			if b.Sub(a).Cross(c.Sub(b)) <= 0 {
				continue
			}
			if !anyInTriangle(pts, a, b, c) {
				ear = i
				break
			}
		}
		if ear < 0 {
			// Only a self-intersecting ring has no ear; keep what is left whole.
			break
		}
		tris = append(tris, NewPolygon(pts[(ear+n-1)%n], pts[ear], pts[(ear+1)%n]))
		pts = append(pts[:ear:ear], pts[ear+1:]...)
	}
	return append(tris, NewPolygon(pts...))
}

// anyInTriangle reports whether a vertex of pts other than a, b and c lies
// inside or on the CCW triangle a-b-c.
func anyInTriangle(pts []Point2D, a, b, c Point2D) bool {
	for _, p := range pts {
		if p == a || p == b || p == c {
			continue
		}
		if isInsideEdge(p, a, b) && isInsideEdge(p, b, c) && isInsideEdge(p, c, a) {
			return true
		}
	}
	return false
}

// ConvexParts splits a simple polygon into interior-disjoint convex pieces.
// A convex polygon comes back as itself. Otherwise the ear-clipped
// triangles are merged across shared diagonals while the union stays
// convex (Hertel-Mehlhorn).
func ConvexParts(p Polygon) []Polygon {
	if p.IsEmpty() {
		return nil
	}
	if p.IsConvex() {
		return []Polygon{p.EnsureCCW()}
	}
	parts := Triangulate(p)
	for merged := true; merged; {
		merged = false
	search:
		for i := range parts {
			for j := i + 1; j < len(parts); j++ {
				if m, ok := mergeConvex(parts[i], parts[j]); ok {
					parts[i] = m
					parts = append(parts[:j], parts[j+1:]...)
					merged = true
					break search
				}
			}
		}
	}
	return parts
}

// mergeConvex joins two CCW polygons along a shared edge when the result
// is convex.
func mergeConvex(p, q Polygon) (Polygon, bool) {
	n, m := p.Len(), q.Len()
	for i := 0; i < n; i++ {
		u, v := p.Edge(i)
		for j := 0; j < m; j++ {
			x, y := q.Edge(j)
			if x != v || y != u {
				continue
			}
			// p from v round to u, then q's vertices strictly between u and v.
			out := make([]Point2D, 0, n+m-2)
			for k := 0; k < n; k++ {
				out = append(out, p.Vertices[(i+1+k)%n])
			}
			for k := 2; k < m; k++ {
				out = append(out, q.Vertices[(j+k)%m])
			}
			merged := Polygon{Vertices: out}
			if merged.IsConvex() {
				return merged, true
			}
			return Polygon{}, false
		}
	}
	return Polygon{}, false
}

// Difference returns p minus q for convex p and q as interior-disjoint
// convex pieces. Each piece is what remains of p outside one edge of q and
// inside every earlier edge.
func Difference(p, q Polygon) []Polygon {
	if p.IsEmpty() {
		return nil
	}
	if q.IsEmpty() {
		return []Polygon{p}
	}
	q = q.EnsureCCW()
	rest := p
	var out []Polygon
	for i := 0; i < q.Len() && !rest.IsEmpty(); i++ {
		a, b := q.Edge(i)
		if a == b {
			continue
		}
		if outside := clipToHalfPlane(rest, b, a); outside.Area() > sliverArea {
			out = append(out, outside)
		}
		rest = clipToHalfPlane(rest, a, b)
	}
	return out
}

// Disjoint rewrites overlapping convex pieces as interior-disjoint convex
// pieces covering the same region. Earlier pieces are kept whole.
func Disjoint(pieces []Polygon) []Polygon {
	var out []Polygon
	for _, p := range pieces {
		frags := []Polygon{p}
		for _, kept := range out {
			var next []Polygon
			for _, f := range frags {
				next = append(next, Difference(f, kept)...)
			}
			frags = next
			if len(frags) == 0 {
				break
			}
		}
		out = append(out, frags...)
	}
	return out
}

// Intersection returns the overlap of two simple polygons as
// interior-disjoint convex pieces. Either polygon may be concave; both are
// split with ConvexParts and every pair of parts is clipped.
func Intersection(a, b Polygon) []Polygon {
	return IntersectParts(ConvexParts(a), ConvexParts(b))
}

// IntersectParts clips every convex part of a against every convex part of
// b. The parts of one side may overlap each other, as the buffered parts of
// a concave block do; the result is made disjoint.
func IntersectParts(a, b []Polygon) []Polygon {
	var pieces []Polygon
	for _, pa := range a {
		for _, pb := range b {
			if r := ClipToConvex(pa, pb); r.Area() > sliverArea {
				pieces = append(pieces, r)
			}
		}
	}
	if len(pieces) < 2 {
		return pieces
	}
	return Disjoint(pieces)
}

// TotalArea sums the areas of pieces.
func TotalArea(pieces []Polygon) float64 {
	total := 0.0
	for _, p := range pieces {
		total += p.Area()
	}
	return total
}
