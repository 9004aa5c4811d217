package goslide

import "math"

// starInnerRatio is the inner/outer radius ratio of a five-point star.
const starInnerRatio = 0.5

// TrianglePoints returns an isosceles triangle filling a w×h box.
func TrianglePoints(w, h float64) []Point {
	return []Point{{X: w / 2, Y: 0}, {X: w, Y: h}, {X: 0, Y: h}}
}

// StarPoints returns the outline of an n-point star inscribed in a w×h
// box, starting at the top point and alternating outer and inner vertices.
func StarPoints(n int, inner, w, h float64) []Point {
	if n < 2 {
		n = 5
	}
	inner = finite(inner, starInnerRatio)
	rx, ry := w/2, h/2
	pts := make([]Point, 0, 2*n)
	for i := 0; i < 2*n; i++ {
		r := 1.0
		if i%2 == 1 {
			r = inner
		}
		a := -math.Pi/2 + float64(i)*math.Pi/float64(n)
		pts = append(pts, Point{
			X: snapZero(rx+rx*r*math.Cos(a), rx),
			Y: snapZero(ry+ry*r*math.Sin(a), ry),
		})
	}
	return pts
}

// translatePoints offsets every point by (dx, dy).
func translatePoints(pts []Point, dx, dy float64) []Point {
	out := make([]Point, len(pts))
	for i, p := range pts {
		out[i] = Point{X: p.X + dx, Y: p.Y + dy}
	}
	return out
}
