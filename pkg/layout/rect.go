package layout

import (
	"github.com/paulmach/orb"

	"github.com/c5kyx9vb72-sketch/Layout-App/pkg/geodesic"
)

// BuildRectangle returns a closed rectangle centred on center. The width
// runs along bearing rotation and the height along rotation+90, both in
// meters on the ground. Each corner is reached by two geodesic moves from
// the centre. A zero width or height yields a degenerate ring.
func BuildRectangle(center orb.Point, width, height, rotation float64) orb.Polygon {
	hw, hh := width/2, height/2
	corner := func(sw, sh float64) orb.Point {
		p := move(center, sw*hw, rotation)
		return move(p, sh*hh, rotation+90)
	}
	ring := orb.Ring{
		corner(-1, -1),
		corner(1, -1),
		corner(1, 1),
		corner(-1, 1),
	}
	ring = append(ring, ring[0])
	return orb.Polygon{ring}
}

// move travels a signed distance along bearing; negative distances go the
// opposite way.
func move(p orb.Point, d, bearing float64) orb.Point {
	if d < 0 {
		return geodesic.Destination(p, -d, bearing+180)
	}
	return geodesic.Destination(p, d, bearing)
}
