package validation

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Kind is the type of a layout issue.
type Kind string

const (
	KindClash    Kind = "clash"
	KindAisle    Kind = "aisle"
	KindBoundary Kind = "boundary"
	KindTurning  Kind = "turning"
)

// Issue is one geometric violation found in a layout. Blocks holds indices
// into the validated block list; Geometry is the offending region, which
// can fall apart into several polygons when a block is concave.
type Issue struct {
	Kind     Kind             `json:"kind" msgpack:"kind"`
	Blocks   []int            `json:"blocks" msgpack:"blocks"`
	Geometry orb.MultiPolygon `json:"geometry" msgpack:"geometry"`
	Area     float64          `json:"area,omitempty" msgpack:"area,omitempty"` // m²
}

// Feature returns the issue as a GeoJSON feature.
func (i Issue) Feature() *geojson.Feature {
	f := geojson.NewFeature(i.Geometry)
	f.Properties["kind"] = string(i.Kind)
	f.Properties["blocks"] = i.Blocks
	if i.Area > 0 {
		f.Properties["area"] = i.Area
	}
	return f
}

// IssueCollection converts issues to a feature collection in issue order.
func IssueCollection(issues []Issue) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, i := range issues {
		fc.Append(i.Feature())
	}
	return fc
}

// CountByKind tallies issues per kind.
func CountByKind(issues []Issue) map[Kind]int {
	counts := make(map[Kind]int, 4)
	for _, i := range issues {
		counts[i.Kind]++
	}
	return counts
}

// IssuesReport converts layout issues to a Report. Clash and boundary
// issues are errors; aisle and turning issues are warnings.
func IssuesReport(issues []Issue) *Report {
	r := NewReport()
	for _, is := range issues {
		res := Result{Level: LevelGeometry, Kind: is.Kind, Blocks: is.Blocks}
		switch is.Kind {
		case KindClash:
			res.Message = fmt.Sprintf("blocks %d and %d overlap by %.1f m²", is.Blocks[0], is.Blocks[1], is.Area)
			res.ActualValue = is.Area
			res.Expected = "0 m²"
			res.Suggestions = []string{"Regenerate with a larger placement margin or remove one block"}
			r.AddError(res)
		case KindAisle:
			res.Message = fmt.Sprintf("blocks %d and %d are closer than the minimum aisle", is.Blocks[0], is.Blocks[1])
			res.ActualValue = is.Area
			res.Suggestions = []string{"Increase the placement margin"}
			r.AddWarning(res)
		case KindBoundary:
			res.Message = fmt.Sprintf("block %d is inside the boundary clearance", is.Blocks[0])
			res.Suggestions = []string{"Move the block inward or reduce boundary clearance"}
			r.AddError(res)
		case KindTurning:
			res.Message = "turning circle at the site centroid does not fit inside the site"
			res.Suggestions = []string{"Reduce the turning radius or enlarge the site"}
			r.AddWarning(res)
		}
	}
	if len(issues) == 0 {
		r.AddInfo(Result{Level: LevelGeometry, Message: "layout satisfies all geometric checks"})
	}
	return r
}
