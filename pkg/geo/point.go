package geo

import "math"

// Point2D is a position or offset in a local planar frame, in meters.
// X grows east and Y grows north.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt builds a Point2D.
func Pt(x, y float64) Point2D { return Point2D{X: x, Y: y} }

func (p Point2D) Add(q Point2D) Point2D      { return Point2D{p.X + q.X, p.Y + q.Y} }
func (p Point2D) Sub(q Point2D) Point2D      { return Point2D{p.X - q.X, p.Y - q.Y} }
func (p Point2D) Scale(s float64) Point2D    { return Point2D{p.X * s, p.Y * s} }
func (p Point2D) Dot(q Point2D) float64      { return p.X*q.X + p.Y*q.Y }
func (p Point2D) Cross(q Point2D) float64    { return p.X*q.Y - p.Y*q.X }
func (p Point2D) Length() float64            { return math.Hypot(p.X, p.Y) }
func (p Point2D) Distance(q Point2D) float64 { return p.Sub(q).Length() }

// Lerp interpolates from p (t=0) to q (t=1).
func (p Point2D) Lerp(q Point2D, t float64) Point2D {
	return Point2D{p.X + (q.X-p.X)*t, p.Y + (q.Y-p.Y)*t}
}

// Perp is p turned 90 degrees counterclockwise.
func (p Point2D) Perp() Point2D { return Point2D{-p.Y, p.X} }

// MidPoint returns the point halfway between p and q.
func MidPoint(p, q Point2D) Point2D { return p.Lerp(q, 0.5) }

// Bearing is the compass direction of the offset p in degrees: 0 is north
// and 90 is east.
func (p Point2D) Bearing() float64 {
	return math.Atan2(p.X, p.Y) * 180 / math.Pi
}

// Round moves p to the nearest multiple of step on both axes.
func (p Point2D) Round(step float64) Point2D {
	return Point2D{math.Round(p.X/step) * step, math.Round(p.Y/step) * step}
}
