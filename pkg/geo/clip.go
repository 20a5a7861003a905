package geo

import "math"

// circleSegments is the default resolution for circle approximation.
const circleSegments = 64

// ApproximateCircle returns a polygon approximating a circle with the given
// center, radius, and number of segments. Vertices are in CCW order.
// A segment count below 3 uses the default resolution.
func ApproximateCircle(center Point2D, radius float64, segments int) Polygon {
	if segments < 3 {
		segments = circleSegments
	}
	pts := make([]Point2D, segments)
	for i := 0; i < segments; i++ {
		angle := 2 * math.Pi * float64(i) / float64(segments)
		pts[i] = Point2D{
			X: center.X + radius*math.Cos(angle),
			Y: center.Y + radius*math.Sin(angle),
		}
	}
	return Polygon{Vertices: pts}
}

// ClipToConvex clips the subject polygon to a convex clip polygon using
// the Sutherland-Hodgman algorithm. Returns the intersection polygon, or an
// empty polygon when they do not overlap. The subject may be concave; the
// result is then a single ring that can carry zero-width bridges between
// separate pieces, which leaves its area correct.
func ClipToConvex(subject, clipper Polygon) Polygon {
	if subject.IsEmpty() || clipper.IsEmpty() {
		return Polygon{}
	}
	clipper = clipper.EnsureCCW()
	output := make([]Point2D, len(subject.Vertices))
	copy(output, subject.Vertices)

	clipN := len(clipper.Vertices)
	for i := 0; i < clipN; i++ {
		if len(output) == 0 {
			return Polygon{}
		}
		edgeStart := clipper.Vertices[i]
		edgeEnd := clipper.Vertices[(i+1)%clipN]
		if edgeStart == edgeEnd {
			continue
		}
		output = clipToHalfPlane(Polygon{Vertices: output}, edgeStart, edgeEnd).Vertices
	}
	if len(output) < 3 {
		return Polygon{}
	}
	return Polygon{Vertices: output}
}

// clipToHalfPlane clips a polygon to the left side of the directed line from a to b.
func clipToHalfPlane(poly Polygon, a, b Point2D) Polygon {
	if poly.IsEmpty() {
		return Polygon{}
	}
	n := len(poly.Vertices)
	output := make([]Point2D, 0, n)
	for i := 0; i < n; i++ {
		curr := poly.Vertices[i]
		next := poly.Vertices[(i+1)%n]
		currInside := isInsideEdge(curr, a, b)
		nextInside := isInsideEdge(next, a, b)

		switch {
		case currInside && nextInside:
			output = append(output, next)
		case currInside && !nextInside:
			if ix, ok := lineIntersection(curr, next, a, b); ok {
				output = append(output, ix)
			}
		case !currInside && nextInside:
			if ix, ok := lineIntersection(curr, next, a, b); ok {
				output = append(output, ix)
			}
			output = append(output, next)
		}
	}
	if len(output) < 3 {
		return Polygon{}
	}
	return Polygon{Vertices: output}
}

// isInsideEdge returns true if the point is on the inside (left) of the
// directed edge from edgeStart to edgeEnd.
func isInsideEdge(p, edgeStart, edgeEnd Point2D) bool {
	return (edgeEnd.X-edgeStart.X)*(p.Y-edgeStart.Y)-
		(edgeEnd.Y-edgeStart.Y)*(p.X-edgeStart.X) >= 0
}

// lineIntersection returns the intersection point of lines (p1→p2) and (p3→p4).
func lineIntersection(p1, p2, p3, p4 Point2D) (Point2D, bool) {
	d := (p1.X-p2.X)*(p3.Y-p4.Y) - (p1.Y-p2.Y)*(p3.X-p4.X)
	if math.Abs(d) < 1e-12 {
		return Point2D{}, false
	}
	t := ((p1.X-p3.X)*(p3.Y-p4.Y) - (p1.Y-p3.Y)*(p3.X-p4.X)) / d
	return Point2D{
		X: p1.X + t*(p2.X-p1.X),
		Y: p1.Y + t*(p2.Y-p1.Y),
	}, true
}
