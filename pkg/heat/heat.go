// Package heat builds proximity fields over a site: a grid of cells scored
// by distance to the nearest source, and the catchment of each source.
package heat

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/c5kyx9vb72-sketch/Layout-App/pkg/geo"
	"github.com/c5kyx9vb72-sketch/Layout-App/pkg/geodesic"
)

// offsetKm keeps the value finite when a cell centre sits on a source.
const offsetKm = 0.001

// Cell is one square of the heat grid.
type Cell struct {
	Polygon orb.Polygon `json:"polygon" msgpack:"polygon"`
	Center  orb.Point   `json:"center" msgpack:"center"`
	Value   float64     `json:"value" msgpack:"value"`
}

// Field is a heat grid with summary statistics over its values.
type Field struct {
	Cells []Cell  `json:"cells" msgpack:"cells"`
	Min   float64 `json:"min" msgpack:"min"`
	Max   float64 `json:"max" msgpack:"max"`
	Mean  float64 `json:"mean" msgpack:"mean"`
}

// Empty reports whether the field has no cells.
func (f Field) Empty() bool { return len(f.Cells) == 0 }

// Value scores a distance in meters.
func Value(distanceM float64) float64 {
	return 1 / (geodesic.MetersToKm(distanceM) + offsetKm)
}

// Generate tiles the site's bounding box with cellM-meter squares starting
// at its minimum corner, keeps the cells whose centre is inside the site and
// scores each by its distance to the nearest source. No site, no sources or
// a non-positive cell size gives an empty field.
func Generate(site orb.Polygon, sources []orb.Point, cellM float64) Field {
	if len(site) == 0 || len(site[0]) < 4 || len(sources) == 0 || cellM <= 0 {
		return Field{}
	}
	bound := site.Bound()
	frame := geodesic.NewFrame(bound.Min)
	dLng := frame.DegreesLng(cellM)
	dLat := frame.DegreesLat(cellM)
	boundary := frame.Polygon(site)

	var cells []Cell
	for i := 0; ; i++ {
		west := bound.Min.Lon() + float64(i)*dLng
		if west >= bound.Max.Lon() {
			break
		}
		for j := 0; ; j++ {
			south := bound.Min.Lat() + float64(j)*dLat
			if south >= bound.Max.Lat() {
				break
			}
			center := orb.Point{west + dLng/2, south + dLat/2}
			if !boundary.Contains(frame.ToLocal(center)) {
				continue
			}
			cells = append(cells, Cell{
				Polygon: orb.Polygon{{
					{west, south}, {west + dLng, south},
					{west + dLng, south + dLat}, {west, south + dLat},
					{west, south},
				}},
				Center: center,
				Value:  Value(nearest(center, sources)),
			})
		}
	}
	return summarize(cells)
}

// nearest returns the distance in meters from p to the closest source.
func nearest(p orb.Point, sources []orb.Point) float64 {
	best := math.Inf(1)
	for _, s := range sources {
		best = math.Min(best, geodesic.Distance(p, s))
	}
	return best
}

func summarize(cells []Cell) Field {
	if len(cells) == 0 {
		return Field{}
	}
	values := make([]float64, len(cells))
	for i, c := range cells {
		values[i] = c.Value
	}
	return Field{
		Cells: cells,
		Min:   floats.Min(values),
		Max:   floats.Max(values),
		Mean:  stat.Mean(values, nil),
	}
}

// Normalized maps v onto [0, 1] between the field's Min and Max.
func (f Field) Normalized(v float64) float64 {
	if f.Max <= f.Min {
		return 0
	}
	return (v - f.Min) / (f.Max - f.Min)
}

// Collection returns the cells as features carrying a "value" property.
func (f Field) Collection() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, c := range f.Cells {
		feat := geojson.NewFeature(c.Polygon)
		feat.Properties["value"] = c.Value
		fc.Append(feat)
	}
	return fc
}

// Catchment is the part of the site nearer to one source than to any other.
type Catchment struct {
	Source    int         `json:"source"`
	Polygon   orb.Polygon `json:"polygon"`
	Area      float64     `json:"area"` // m²
	Neighbors []int       `json:"neighbors"`
}

// Catchments splits the site between sources. Sources whose region misses
// the site get an empty polygon.
func Catchments(site orb.Polygon, sources []orb.Point) []Catchment {
	if len(site) == 0 || len(site[0]) < 4 || len(sources) == 0 {
		return nil
	}
	frame := geodesic.NewFrame(site.Bound().Center())
	boundary := frame.Polygon(site)
	lo, hi := boundary.BoundingBox()
	for _, s := range sources {
		p := frame.ToLocal(s)
		lo = geo.Pt(math.Min(lo.X, p.X), math.Min(lo.Y, p.Y))
		hi = geo.Pt(math.Max(hi.X, p.X), math.Max(hi.Y, p.Y))
	}
	bounds := geo.NewPolygon(lo, geo.Pt(hi.X, lo.Y), hi, geo.Pt(lo.X, hi.Y))

	seeds := make([]geo.Point2D, len(sources))
	for i, s := range sources {
		seeds[i] = frame.ToLocal(s)
	}

	cells := geo.Voronoi(seeds, bounds)
	out := make([]Catchment, len(cells))
	for i, c := range cells {
		region := geo.ClipToConvex(boundary, c.Polygon)
		out[i] = Catchment{
			Source:    c.SeedIndex,
			Polygon:   frame.ToPolygon(region),
			Area:      region.Area(),
			Neighbors: c.Neighbors,
		}
	}
	return out
}
