package geo

import (
	"math"
	"sort"
)

// VoronoiCell is the region of the bounds nearer to one seed than to any other.
type VoronoiCell struct {
	SeedIndex int     // index into the seed slice
	Seed      Point2D // the seed point
	Polygon   Polygon // cell boundary, clipped to the bounds
	Neighbors []int   // indices of seeds sharing a Delaunay edge
}

// Voronoi computes the Voronoi diagram of seeds clipped to a convex bounds
// polygon. Cell geometry comes from half-plane intersection and adjacency
// from a Bowyer-Watson Delaunay triangulation.
func Voronoi(seeds []Point2D, bounds Polygon) []VoronoiCell {
	n := len(seeds)
	if n == 0 || bounds.IsEmpty() {
		return nil
	}
	bounds = bounds.EnsureCCW()
	if n == 1 {
		return []VoronoiCell{{SeedIndex: 0, Seed: seeds[0], Polygon: bounds}}
	}

	adj := delaunayNeighbors(seeds, bounds)
	cells := make([]VoronoiCell, n)
	for i, s := range seeds {
		cells[i] = VoronoiCell{
			SeedIndex: i,
			Seed:      s,
			Polygon:   halfPlaneCell(i, seeds, bounds),
			Neighbors: adj[i],
		}
	}
	return cells
}

// halfPlaneCell clips bounds to the half-plane closer to seeds[idx] for every
// other seed. Coincident seeds are skipped.
func halfPlaneCell(idx int, seeds []Point2D, bounds Polygon) Polygon {
	cell := bounds
	s := seeds[idx]
	for j, other := range seeds {
		if j == idx || other == s {
			continue
		}
		mid := MidPoint(s, other)
		cell = clipToHalfPlane(cell, mid, mid.Add(other.Sub(s).Perp()))
		if cell.IsEmpty() {
			break
		}
	}
	return cell
}

type triangle [3]int

type edge struct{ a, b int }

func (e edge) norm() edge {
	if e.a > e.b {
		return edge{e.b, e.a}
	}
	return e
}

// delaunayNeighbors triangulates the seeds and returns, per seed, the sorted
// indices of adjacent seeds.
func delaunayNeighbors(seeds []Point2D, bounds Polygon) [][]int {
	n := len(seeds)
	result := make([][]int, n)
	if n < 2 {
		return result
	}

	// Offset each seed slightly so collinear and cocircular inputs stay
	// non-degenerate.
	pts := make([]Point2D, n, n+3)
	for i, s := range seeds {
		pts[i] = Point2D{X: s.X + float64(i)*1e-8, Y: s.Y + float64(i)*1e-8}
	}

	lo, hi := bounds.BoundingBox()
	span := math.Max(hi.X-lo.X, hi.Y-lo.Y) * 4
	if span == 0 {
		span = 1
	}
	pts = append(pts,
		Point2D{lo.X - span, lo.Y - span},
		Point2D{hi.X + span, lo.Y - span},
		Point2D{(lo.X + hi.X) / 2, hi.Y + span},
	)

	tris := []triangle{{n, n + 1, n + 2}}
	for pi := 0; pi < n; pi++ {
		p := pts[pi]
		var bad []int
		counts := make(map[edge]int)
		for ti, t := range tris {
			if inCircumcircle(p, pts[t[0]], pts[t[1]], pts[t[2]]) {
				bad = append(bad, ti)
				for k := 0; k < 3; k++ {
					counts[edge{t[k], t[(k+1)%3]}.norm()]++
				}
			}
		}

		var rim []edge
		for _, ti := range bad {
			t := tris[ti]
			for k := 0; k < 3; k++ {
				e := edge{t[k], t[(k+1)%3]}
				if counts[e.norm()] == 1 {
					rim = append(rim, e)
				}
			}
		}

		sort.Sort(sort.Reverse(sort.IntSlice(bad)))
		for _, ti := range bad {
			tris[ti] = tris[len(tris)-1]
			tris = tris[:len(tris)-1]
		}
		for _, e := range rim {
			tris = append(tris, triangle{e.a, e.b, pi})
		}
	}

	sets := make([]map[int]struct{}, n)
	for i := range sets {
		sets[i] = make(map[int]struct{})
	}
	// Edges between two real seeds count even when the triangle also uses a
	// super-triangle vertex; those are the hull edges.
	for _, t := range tris {
		for k := 0; k < 3; k++ {
			a, b := t[k], t[(k+1)%3]
			if a >= n || b >= n {
				continue
			}
			sets[a][b] = struct{}{}
			sets[b][a] = struct{}{}
		}
	}
	for i, set := range sets {
		keys := make([]int, 0, len(set))
		for k := range set {
			keys = append(keys, k)
		}
		sort.Ints(keys)
		result[i] = keys
	}
	return result
}

// inCircumcircle reports whether p lies inside the circumcircle of a, b, c.
func inCircumcircle(p, a, b, c Point2D) bool {
	ax, ay := a.X-p.X, a.Y-p.Y
	bx, by := b.X-p.X, b.Y-p.Y
	cx, cy := c.X-p.X, c.Y-p.Y

	det := ax*(by*(cx*cx+cy*cy)-cy*(bx*bx+by*by)) -
		ay*(bx*(cx*cx+cy*cy)-cx*(bx*bx+by*by)) +
		(ax*ax+ay*ay)*(bx*cy-cx*by)

	if (b.X-a.X)*(c.Y-a.Y)-(b.Y-a.Y)*(c.X-a.X) < 0 {
		det = -det
	}
	return det > 0
}
