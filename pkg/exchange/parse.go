// Package exchange reads and writes site and block geometry in the
// interchange formats: GeoJSON, KML and WKT on the way in, GeoJSON out.
package exchange

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
	"github.com/paulmach/orb/geojson"

	"github.com/c5kyx9vb72-sketch/Layout-App/pkg/errors"
)

// Format names an input format.
type Format string

const (
	FormatGeoJSON Format = "geojson"
	FormatKML     Format = "kml"
	FormatWKT     Format = "wkt"
)

// Detect picks the format of data: KML when it mentions a <kml element,
// GeoJSON when it is a JSON object, WKT otherwise.
func Detect(data []byte) Format {
	if bytes.Contains(bytes.ToLower(data), []byte("<kml")) {
		return FormatKML
	}
	if t := bytes.TrimSpace(data); len(t) > 0 && t[0] == '{' {
		return FormatGeoJSON
	}
	return FormatWKT
}

// Parse converts GeoJSON, KML or WKT text into a feature collection.
// Malformed input returns an INVALID_FORMAT error.
func Parse(data []byte) (*geojson.FeatureCollection, Format, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, "", errors.New(errors.ErrCodeInvalidFormat, "empty geometry payload")
	}
	format := Detect(data)
	var (
		fc  *geojson.FeatureCollection
		err error
	)
	switch format {
	case FormatKML:
		fc, err = parseKML(data)
	case FormatGeoJSON:
		fc, err = parseGeoJSON(data)
	default:
		fc, err = parseWKT(data)
	}
	if err != nil {
		return nil, format, err
	}
	return fc, format, nil
}

// ParseFile reads and parses a geometry file.
func ParseFile(path string) (*geojson.FeatureCollection, Format, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", errors.Wrap(errors.ErrCodeFileNotFound, err, "geometry file %s", path)
		}
		return nil, "", errors.Wrap(errors.ErrCodeInternal, err, "reading geometry file %s", path)
	}
	return Parse(data)
}

func parseGeoJSON(data []byte) (*geojson.FeatureCollection, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parsing geojson")
	}
	switch head.Type {
	case "FeatureCollection":
		fc, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parsing geojson feature collection")
		}
		return fc, nil
	case "Feature":
		f, err := geojson.UnmarshalFeature(data)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parsing geojson feature")
		}
		fc := geojson.NewFeatureCollection()
		fc.Append(f)
		return fc, nil
	case "":
		return nil, errors.New(errors.ErrCodeInvalidFormat, "geojson object has no type")
	default:
		g, err := geojson.UnmarshalGeometry(data)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parsing geojson geometry")
		}
		fc := geojson.NewFeatureCollection()
		fc.Append(geojson.NewFeature(g.Geometry()))
		return fc, nil
	}
}

// parseWKT reads one geometry per non-empty line. A line that fails on its
// own is retried as part of the whole payload, so a single geometry may
// span lines.
func parseWKT(data []byte) (*geojson.FeatureCollection, error) {
	fc := geojson.NewFeatureCollection()
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), len(data)+1)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		g, err := wkt.Unmarshal(line)
		if err != nil {
			whole, werr := wkt.Unmarshal(strings.Join(strings.Fields(string(data)), " "))
			if werr != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parsing wkt")
			}
			single := geojson.NewFeatureCollection()
			single.Append(geojson.NewFeature(whole))
			return single, nil
		}
		fc.Append(geojson.NewFeature(g))
	}
	if len(fc.Features) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "no wkt geometry found")
	}
	return fc, nil
}

// polygons returns the polygons carried by a geometry.
func polygons(g orb.Geometry) []orb.Polygon {
	switch g := g.(type) {
	case orb.Polygon:
		return []orb.Polygon{g}
	case orb.MultiPolygon:
		return g
	case orb.Collection:
		var out []orb.Polygon
		for _, c := range g {
			out = append(out, polygons(c)...)
		}
		return out
	}
	return nil
}
