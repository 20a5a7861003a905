// Package snap moves drawn or imported shapes onto a square metric grid,
// optionally forcing every edge to run east-west or north-south.
package snap

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/c5kyx9vb72-sketch/Layout-App/pkg/geo"
	"github.com/c5kyx9vb72-sketch/Layout-App/pkg/geodesic"
)

// Options configures snapping. Origin is the lattice anchor as [lng, lat];
// nil anchors the lattice at the south-west corner of the input, while an
// explicit [0, 0] is kept.
type Options struct {
	SpacingM   float64    `json:"spacing_m"`
	Origin     *orb.Point `json:"origin,omitempty"`
	Orthogonal bool       `json:"orthogonal"`
}

// At returns a copy of opt anchored at origin.
func (opt Options) At(origin orb.Point) Options {
	opt.Origin = &origin
	return opt
}

// Geometry returns a snapped copy of g. Each vertex is rounded to the
// nearest lattice point in a local frame at Origin, or at the south-west
// corner of g when Origin is nil. With Orthogonal set,
// every vertex after the first of a line or ring keeps the latitude or the
// longitude of the snapped vertex before it, whichever axis its own raw
// offset from that vertex is larger on. Ties keep the latitude.
//
// Vertices are handled independently, so a closed ring may come back open
// when orthogonalised; use Close to re-close it. A non-positive spacing
// returns an unmodified copy.
func Geometry(g orb.Geometry, opt Options) orb.Geometry {
	if g == nil {
		return nil
	}
	if opt.SpacingM <= 0 {
		return orb.Clone(g)
	}
	origin := g.Bound().Min
	if opt.Origin != nil {
		origin = *opt.Origin
	}
	s := snapper{opt: opt, frame: geodesic.NewFrame(origin)}
	return s.geometry(g)
}

// Feature returns a snapped copy of f with its id and properties.
func Feature(f *geojson.Feature, opt Options) *geojson.Feature {
	out := geojson.NewFeature(Geometry(f.Geometry, opt))
	out.ID = f.ID
	out.Properties = f.Properties.Clone()
	return out
}

// Collection snaps every feature in fc onto one lattice. A nil origin is
// taken from the south-west corner of the whole collection.
func Collection(fc *geojson.FeatureCollection, opt Options) *geojson.FeatureCollection {
	if opt.Origin == nil {
		opt = opt.At(Bound(fc).Min)
	}
	out := geojson.NewFeatureCollection()
	for _, f := range fc.Features {
		out.Append(Feature(f, opt))
	}
	return out
}

// Bound returns the bounding box of every geometry in fc.
func Bound(fc *geojson.FeatureCollection) orb.Bound {
	var (
		b   orb.Bound
		set bool
	)
	for _, f := range fc.Features {
		if f.Geometry == nil {
			continue
		}
		if !set {
			b, set = f.Geometry.Bound(), true
			continue
		}
		b = b.Union(f.Geometry.Bound())
	}
	return b
}

type snapper struct {
	opt   Options
	frame geodesic.Frame
}

func (s snapper) geometry(g orb.Geometry) orb.Geometry {
	switch g := g.(type) {
	case orb.Point:
		return s.frame.ToLngLat(s.frame.ToLocal(g).Round(s.opt.SpacingM))
	case orb.MultiPoint:
		out := make(orb.MultiPoint, len(g))
		for i, p := range g {
			out[i] = s.frame.ToLngLat(s.frame.ToLocal(p).Round(s.opt.SpacingM))
		}
		return out
	case orb.LineString:
		return orb.LineString(s.path(g))
	case orb.MultiLineString:
		out := make(orb.MultiLineString, len(g))
		for i, ls := range g {
			out[i] = orb.LineString(s.path(ls))
		}
		return out
	case orb.Ring:
		return orb.Ring(s.path(g))
	case orb.Polygon:
		return s.polygon(g)
	case orb.MultiPolygon:
		out := make(orb.MultiPolygon, len(g))
		for i, p := range g {
			out[i] = s.polygon(p)
		}
		return out
	case orb.Collection:
		out := make(orb.Collection, len(g))
		for i, c := range g {
			out[i] = s.geometry(c)
		}
		return out
	default:
		return orb.Clone(g)
	}
}

func (s snapper) polygon(p orb.Polygon) orb.Polygon {
	out := make(orb.Polygon, len(p))
	for i, r := range p {
		out[i] = orb.Ring(s.path(r))
	}
	return out
}

func (s snapper) path(pts []orb.Point) []orb.Point {
	out := make([]orb.Point, len(pts))
	var prev geo.Point2D
	for i, p := range pts {
		raw := s.frame.ToLocal(p)
		q := raw.Round(s.opt.SpacingM)
		if s.opt.Orthogonal && i > 0 {
			if math.Abs(raw.X-prev.X) >= math.Abs(raw.Y-prev.Y) {
				q.Y = prev.Y
			} else {
				q.X = prev.X
			}
		}
		out[i] = s.frame.ToLngLat(q)
		prev = q
	}
	return out
}

// Close returns a copy of g with the last vertex of every ring set to its
// first. Other geometry types are copied unchanged.
func Close(g orb.Geometry) orb.Geometry {
	switch g := orb.Clone(g).(type) {
	case orb.Ring:
		return closeRing(g)
	case orb.Polygon:
		for i := range g {
			g[i] = closeRing(g[i])
		}
		return g
	case orb.MultiPolygon:
		for _, p := range g {
			for i := range p {
				p[i] = closeRing(p[i])
			}
		}
		return g
	default:
		return g
	}
}

func closeRing(r orb.Ring) orb.Ring {
	if len(r) > 1 {
		r[len(r)-1] = r[0]
	}
	return r
}
