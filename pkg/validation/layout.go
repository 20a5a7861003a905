package validation

import (
	"runtime"
	"sync"

	"github.com/paulmach/orb"

	"github.com/c5kyx9vb72-sketch/Layout-App/pkg/geo"
	"github.com/c5kyx9vb72-sketch/Layout-App/pkg/geodesic"
	"github.com/c5kyx9vb72-sketch/Layout-App/pkg/plant"
)

const (
	turningSegments = 64

	// minIssueArea is the overlap, in m², below which an intersection is
	// treated as contact rather than a violation.
	minIssueArea = 1e-6
)

// Thresholds holds the validator limits, all in meters. A zero value
// disables the matching check; clash detection always runs.
type Thresholds struct {
	MinAisle          float64 `yaml:"min_aisle" toml:"min_aisle" json:"min_aisle" msgpack:"min_aisle"`
	BoundaryClearance float64 `yaml:"boundary_clearance" toml:"boundary_clearance" json:"boundary_clearance" msgpack:"boundary_clearance"`
	TurnRadius        float64 `yaml:"turn_radius" toml:"turn_radius" json:"turn_radius" msgpack:"turn_radius"`
}

// CheckLayout runs the clash, aisle, boundary and turning checks over blocks
// placed in site. Issues come back grouped by check in that order; pair
// issues are ordered by (i, j) with i < j and boundary issues by block index.
// An empty site or block list yields no issues.
//
// Blocks may be concave. Each footprint is split into convex parts, and pair
// regions are the disjoint union of the part-by-part intersections.
func CheckLayout(site orb.Polygon, blocks []plant.Block, th Thresholds) []Issue {
	if len(site) == 0 || len(site[0]) < 4 || len(blocks) == 0 {
		return nil
	}
	frame := geodesic.NewFrame(site.Bound().Center())
	boundary := frame.Polygon(site)
	footprints := make([]geo.Polygon, len(blocks))
	parts := make([][]geo.Polygon, len(blocks))
	for i, b := range blocks {
		footprints[i] = frame.Polygon(b.Polygon)
		parts[i] = geo.ConvexParts(footprints[i])
	}

	var issues []Issue
	issues = append(issues, pairIssues(KindClash, parts, frame)...)

	if th.MinAisle > 0 {
		// The buffer of a union is the union of the buffers, so growing
		// each convex part keeps the notches of a concave block open.
		expanded := make([][]geo.Polygon, len(parts))
		for i, ps := range parts {
			expanded[i] = make([]geo.Polygon, len(ps))
			for k, p := range ps {
				expanded[i][k] = geo.Buffer(p, th.MinAisle)
			}
		}
		issues = append(issues, pairIssues(KindAisle, expanded, frame)...)
	}

	if th.BoundaryClearance > 0 {
		for i, fp := range footprints {
			if !geo.WithinClearance(fp, boundary, th.BoundaryClearance, geo.DefaultEpsilon) {
				issues = append(issues, Issue{
					Kind:     KindBoundary,
					Blocks:   []int{i},
					Geometry: orb.MultiPolygon{blocks[i].Polygon},
				})
			}
		}
	}

	if th.TurnRadius > 0 {
		circle := geo.ApproximateCircle(boundary.Centroid(), th.TurnRadius, turningSegments)
		if !geo.Within(circle, boundary, geo.DefaultEpsilon) {
			issues = append(issues, Issue{
				Kind:     KindTurning,
				Blocks:   []int{},
				Geometry: orb.MultiPolygon{frame.ToPolygon(circle)},
			})
		}
	}
	return issues
}

// parallelPairs is the block count below which pairs are checked on the
// calling goroutine.
const parallelPairs = 16

// pairIssues intersects every pair i < j. From parallelPairs blocks up,
// rows run concurrently and write to their own slot so the output order
// does not depend on scheduling.
func pairIssues(kind Kind, parts [][]geo.Polygon, frame geodesic.Frame) []Issue {
	n := len(parts)
	rows := make([][]Issue, n)
	row := func(i int) {
		for j := i + 1; j < n; j++ {
			pieces, area, ok := overlap(parts[i], parts[j])
			if !ok {
				continue
			}
			region := make(orb.MultiPolygon, len(pieces))
			for k, p := range pieces {
				region[k] = frame.ToPolygon(p)
			}
			rows[i] = append(rows[i], Issue{
				Kind:     kind,
				Blocks:   []int{i, j},
				Geometry: region,
				Area:     area,
			})
		}
	}

	if n < parallelPairs {
		for i := 0; i < n-1; i++ {
			row(i)
		}
	} else {
		sem := make(chan struct{}, runtime.GOMAXPROCS(0))
		var wg sync.WaitGroup
		for i := 0; i < n-1; i++ {
			wg.Add(1)
			sem <- struct{}{}
			go func(i int) {
				defer wg.Done()
				defer func() { <-sem }()
				row(i)
			}(i)
		}
		wg.Wait()
	}

	var out []Issue
	for _, r := range rows {
		out = append(out, r...)
	}
	return out
}

// overlap returns the intersection of two blocks given as convex parts.
func overlap(a, b []geo.Polygon) ([]geo.Polygon, float64, bool) {
	if len(a) == 0 || len(b) == 0 {
		return nil, 0, false
	}
	pieces := geo.IntersectParts(a, b)
	area := geo.TotalArea(pieces)
	if area <= minIssueArea {
		return nil, 0, false
	}
	return pieces, area, true
}
