package goslide

import "math"

const (
	// BlurbTailSize is the thickness of the tail: the body rectangle is
	// inset by this much on the tail's side.
	BlurbTailSize = 15
	// BlurbTailHalfWidth is half the width of the tail base.
	BlurbTailHalfWidth = 15
)

// BlurbLayout is the geometry of a speech bubble relative to its element
// box, in the same units as the box size it was computed for.
type BlurbLayout struct {
	Body Box
	// Tail holds the base start, the apex and the base end.
	Tail [3]Point
}

// Apex returns the tip of the tail.
func (l BlurbLayout) Apex() Point { return l.Tail[1] }

// tailFraction returns the fraction along the tail edge for a position.
func tailFraction(p TailPosition) float64 {
	switch p {
	case TailBottomLeft, TailTopLeft:
		return 0.2
	case TailBottomRight, TailTopRight:
		return 0.8
	}
	return 0.5
}

// BlurbGeometry computes the body rectangle and tail triangle of a w×h
// speech bubble. The apex always lies on the outer edge of the box; the
// base sits on the inset body edge. Unknown positions use bottom-left.
func BlurbGeometry(tail TailPosition, w, h float64) BlurbLayout {
	w = math.Max(finite(w, 0), 0)
	h = math.Max(finite(h, 0), 0)
	switch tail {
	case TailBottomLeft, TailBottomCenter, TailBottomRight,
		TailTopLeft, TailTopCenter, TailTopRight,
		TailLeftCenter, TailRightCenter:
	default:
		tail = TailBottomLeft
	}
	f := tailFraction(tail)

	switch tail {
	case TailTopLeft, TailTopCenter, TailTopRight:
		t := math.Min(BlurbTailSize, h/2)
		x, hw := tailBase(f, w)
		return BlurbLayout{
			Body: Box{X: 0, Y: t, Width: w, Height: h - t},
			Tail: [3]Point{{X: x - hw, Y: t}, {X: x, Y: 0}, {X: x + hw, Y: t}},
		}
	case TailLeftCenter:
		t := math.Min(BlurbTailSize, w/2)
		y, hw := tailBase(f, h)
		return BlurbLayout{
			Body: Box{X: t, Y: 0, Width: w - t, Height: h},
			Tail: [3]Point{{X: t, Y: y - hw}, {X: 0, Y: y}, {X: t, Y: y + hw}},
		}
	case TailRightCenter:
		t := math.Min(BlurbTailSize, w/2)
		y, hw := tailBase(f, h)
		return BlurbLayout{
			Body: Box{X: 0, Y: 0, Width: w - t, Height: h},
			Tail: [3]Point{{X: w - t, Y: y - hw}, {X: w, Y: y}, {X: w - t, Y: y + hw}},
		}
	}
	t := math.Min(BlurbTailSize, h/2)
	x, hw := tailBase(f, w)
	return BlurbLayout{
		Body: Box{X: 0, Y: 0, Width: w, Height: h - t},
		Tail: [3]Point{{X: x - hw, Y: h - t}, {X: x, Y: h}, {X: x + hw, Y: h - t}},
	}
}

// tailBase returns the centre of the tail base along an edge of the given
// length and the half-width, shrunk so the base never leaves the edge.
func tailBase(f, length float64) (center, halfWidth float64) {
	center = f * length
	halfWidth = math.Min(BlurbTailHalfWidth, math.Min(center, length-center))
	return center, math.Max(halfWidth, 0)
}
