package goslide

import "math"

// Design-unit conversion helpers.
// Element geometry is stored in design units on an 800×600 reference canvas;
// a scale factor maps design units to output pixels.

const (
	// ReferenceWidth is the width of the reference canvas in design units.
	ReferenceWidth = 800
	// ReferenceHeight is the height of the reference canvas in design units.
	ReferenceHeight = 600
	// Epsilon is the smallest dimension used as a divisor and the tolerance
	// shared by every size-sum check.
	Epsilon = 1e-6
	// maxCoord is the largest coordinate magnitude allowed in output.
	maxCoord = 1e9
)

// Point is a position in design units or pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Box is an axis-aligned rectangle.
type Box struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Center returns the centre of the box.
func (b Box) Center() Point {
	return Point{X: b.X + b.Width/2, Y: b.Y + b.Height/2}
}

// Translate returns the box moved by (dx, dy).
func (b Box) Translate(dx, dy float64) Box {
	return Box{X: b.X + dx, Y: b.Y + dy, Width: b.Width, Height: b.Height}
}

// Size is a width/height pair.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// ScalePoint scales a point linearly about the origin.
func ScalePoint(p Point, scale float64) Point {
	s := finite(scale, 1)
	return Point{X: clampCoord(p.X * s), Y: clampCoord(p.Y * s)}
}

// ScaleBox scales a box linearly about the origin: a box at (x, y) scaled
// by s starts at (x·s, y·s).
func ScaleBox(b Box, scale float64) Box {
	s := finite(scale, 1)
	return Box{
		X:      clampCoord(b.X * s),
		Y:      clampCoord(b.Y * s),
		Width:  clampCoord(b.Width * s),
		Height: clampCoord(b.Height * s),
	}
}

// ScalePoints scales every point of a polygon.
func ScalePoints(pts []Point, scale float64) []Point {
	out := make([]Point, len(pts))
	for i, p := range pts {
		out[i] = ScalePoint(p, scale)
	}
	return out
}

// finite returns v, or fallback when v is NaN or infinite.
func finite(v, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return v
}

// clampDim clamps a width or height to at least Epsilon so it can be used
// as a divisor.
func clampDim(v float64) float64 {
	v = finite(v, 0)
	if v < Epsilon {
		return Epsilon
	}
	return v
}

// clampCoord keeps coordinates finite and within a safe range.
func clampCoord(v float64) float64 {
	v = finite(v, 0)
	if v > maxCoord {
		return maxCoord
	}
	if v < -maxCoord {
		return -maxCoord
	}
	return v
}

func nearlyEqual(a, b float64) bool {
	return math.Abs(a-b) <= Epsilon*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}
