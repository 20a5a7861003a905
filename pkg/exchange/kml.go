package exchange

import (
	"bytes"
	"encoding/xml"
	"io"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/c5kyx9vb72-sketch/Layout-App/pkg/errors"
)

type kmlPlacemark struct {
	Name    string      `xml:"name"`
	Data    []kmlData   `xml:"ExtendedData>Data"`
	Point   *kmlPoint   `xml:"Point"`
	Line    *kmlLine    `xml:"LineString"`
	Polygon *kmlPolygon `xml:"Polygon"`
	Multi   *kmlMulti   `xml:"MultiGeometry"`
}

type kmlData struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value"`
}

type kmlPoint struct {
	Coordinates string `xml:"coordinates"`
}

type kmlLine struct {
	Coordinates string `xml:"coordinates"`
}

type kmlPolygon struct {
	Outer string   `xml:"outerBoundaryIs>LinearRing>coordinates"`
	Inner []string `xml:"innerBoundaryIs>LinearRing>coordinates"`
}

type kmlMulti struct {
	Points   []kmlPoint   `xml:"Point"`
	Lines    []kmlLine    `xml:"LineString"`
	Polygons []kmlPolygon `xml:"Polygon"`
}

// parseKML collects every Placemark in the document, at any folder depth.
func parseKML(data []byte) (*geojson.FeatureCollection, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	fc := geojson.NewFeatureCollection()
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parsing kml")
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "Placemark" {
			continue
		}
		var pm kmlPlacemark
		if err := dec.DecodeElement(&pm, &start); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parsing kml placemark")
		}
		g, err := pm.geometry()
		if err != nil {
			return nil, err
		}
		if g == nil {
			continue
		}
		f := geojson.NewFeature(g)
		if pm.Name != "" {
			f.Properties["name"] = pm.Name
		}
		for _, d := range pm.Data {
			f.Properties[d.Name] = strings.TrimSpace(d.Value)
		}
		fc.Append(f)
	}
	if len(fc.Features) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "kml has no placemark geometry")
	}
	return fc, nil
}

func (pm kmlPlacemark) geometry() (orb.Geometry, error) {
	switch {
	case pm.Point != nil:
		pts, err := parseCoordinates(pm.Point.Coordinates)
		if err != nil || len(pts) != 1 {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "kml point %q", pm.Name)
		}
		return pts[0], nil
	case pm.Line != nil:
		pts, err := parseCoordinates(pm.Line.Coordinates)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "kml linestring %q", pm.Name)
		}
		return orb.LineString(pts), nil
	case pm.Polygon != nil:
		return pm.Polygon.polygon(pm.Name)
	case pm.Multi != nil:
		return pm.Multi.geometry(pm.Name)
	}
	return nil, nil
}

func (p kmlPolygon) polygon(name string) (orb.Polygon, error) {
	outer, err := parseCoordinates(p.Outer)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "kml polygon %q", name)
	}
	poly := orb.Polygon{orb.Ring(outer)}
	for _, in := range p.Inner {
		hole, err := parseCoordinates(in)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "kml polygon %q hole", name)
		}
		poly = append(poly, orb.Ring(hole))
	}
	return poly, nil
}

// geometry returns a MultiPolygon when the multigeometry holds only
// polygons and a Collection otherwise.
func (m kmlMulti) geometry(name string) (orb.Geometry, error) {
	var polys orb.MultiPolygon
	for _, p := range m.Polygons {
		poly, err := p.polygon(name)
		if err != nil {
			return nil, err
		}
		polys = append(polys, poly)
	}
	if len(m.Points) == 0 && len(m.Lines) == 0 {
		return polys, nil
	}
	var coll orb.Collection
	for _, p := range polys {
		coll = append(coll, p)
	}
	for _, l := range m.Lines {
		pts, err := parseCoordinates(l.Coordinates)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "kml multigeometry %q", name)
		}
		coll = append(coll, orb.LineString(pts))
	}
	for _, p := range m.Points {
		pts, err := parseCoordinates(p.Coordinates)
		if err != nil || len(pts) != 1 {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "kml multigeometry %q", name)
		}
		coll = append(coll, pts[0])
	}
	return coll, nil
}

// parseCoordinates reads whitespace separated "lng,lat[,alt]" tuples.
func parseCoordinates(s string) ([]orb.Point, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "empty coordinates")
	}
	pts := make([]orb.Point, 0, len(fields))
	for _, f := range fields {
		parts := strings.Split(f, ",")
		if len(parts) < 2 {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "bad coordinate %q", f)
		}
		lng, err := strconv.ParseFloat(parts[0], 64)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "bad longitude %q", parts[0])
		}
		lat, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "bad latitude %q", parts[1])
		}
		pts = append(pts, orb.Point{lng, lat})
	}
	return pts, nil
}
