package goslide

import "math"

// GradientVector returns the start and end points of a linear gradient
// line for the given angle in degrees inside a w×h box.
//
// The vertical axis is rotated by angle−90, scaled to the box diagonal and
// centred on (w/2, h/2). Angle 0 runs vertically with the start above the
// centre, angle 90 runs horizontally. The result scales linearly with the
// box.
func GradientVector(angle, w, h float64) (start, end Point) {
	angle = normalizeAngle(finite(angle, 180))
	w = finite(w, 0)
	h = finite(h, 0)

	rad := (angle - 90) * math.Pi / 180
	half := math.Hypot(w, h) / 2
	dx := math.Cos(rad) * half
	dy := math.Sin(rad) * half
	// Snap values that are only non-zero because of float rounding so that
	// the axis-aligned angles produce exactly vertical/horizontal vectors.
	dx = snapZero(dx, half)
	dy = snapZero(dy, half)

	cx, cy := w/2, h/2
	start = Point{X: cx + dx, Y: cy + dy}
	end = Point{X: cx - dx, Y: cy - dy}
	return start, end
}

// normalizeAngle maps any finite angle into [0, 360).
func normalizeAngle(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	return a
}

func snapZero(v, magnitude float64) float64 {
	if math.Abs(v) <= 1e-12*math.Max(1, magnitude) {
		return 0
	}
	return v
}

// CornerRadius converts a corner radius percentage (0..100) into pixels for
// a w×h box. The percentage is relative to half of the smaller dimension;
// 100 or more yields exactly min(w,h)/2.
func CornerRadius(pct, w, h float64) float64 {
	m := math.Min(math.Max(finite(w, 0), 0), math.Max(finite(h, 0), 0))
	pct = finite(pct, 0)
	switch {
	case pct <= 0:
		return 0
	case pct >= 100:
		return m / 2
	}
	return (pct / 100) * (m / 2)
}

// CornerRadii holds per-corner radius percentages.
type CornerRadii struct {
	TopLeft     float64 `json:"topLeft"`
	TopRight    float64 `json:"topRight"`
	BottomRight float64 `json:"bottomRight"`
	BottomLeft  float64 `json:"bottomLeft"`
}

// UniformRadii returns radii with every corner set to pct.
func UniformRadii(pct float64) CornerRadii {
	return CornerRadii{TopLeft: pct, TopRight: pct, BottomRight: pct, BottomLeft: pct}
}

// Corners holds resolved per-corner radii in pixels.
type Corners struct {
	TopLeft     float64 `json:"topLeft"`
	TopRight    float64 `json:"topRight"`
	BottomRight float64 `json:"bottomRight"`
	BottomLeft  float64 `json:"bottomLeft"`
}

// IsZero reports whether every corner is square.
func (c Corners) IsZero() bool {
	return c.TopLeft == 0 && c.TopRight == 0 && c.BottomRight == 0 && c.BottomLeft == 0
}

// Scale multiplies every radius by s.
func (c Corners) Scale(s float64) Corners {
	s = finite(s, 1)
	return Corners{
		TopLeft:     c.TopLeft * s,
		TopRight:    c.TopRight * s,
		BottomRight: c.BottomRight * s,
		BottomLeft:  c.BottomLeft * s,
	}
}

// ResolveCornerRadii resolves every corner against the same smaller box
// dimension, so equal percentages degenerate to an exact circle or ellipse.
func ResolveCornerRadii(r CornerRadii, w, h float64) Corners {
	return Corners{
		TopLeft:     CornerRadius(r.TopLeft, w, h),
		TopRight:    CornerRadius(r.TopRight, w, h),
		BottomRight: CornerRadius(r.BottomRight, w, h),
		BottomLeft:  CornerRadius(r.BottomLeft, w, h),
	}
}

// rotatePoint rotates p by deg degrees around pivot.
func rotatePoint(p, pivot Point, deg float64) Point {
	if deg == 0 {
		return p
	}
	rad := deg * math.Pi / 180
	sin, cos := math.Sincos(rad)
	dx, dy := p.X-pivot.X, p.Y-pivot.Y
	return Point{
		X: pivot.X + dx*cos - dy*sin,
		Y: pivot.Y + dx*sin + dy*cos,
	}
}
