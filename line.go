package goslide

import "math"

// LineLayout is the resolved geometry of a line element relative to its box.
type LineLayout struct {
	Start  Point
	End    Point
	Length float64
	Angle  float64 // degrees, atan2(dy, dx)
}

// LineGeometry computes the length and angle of a line.
func LineGeometry(l *LineContent) LineLayout {
	start := Point{X: finite(l.X1, 0), Y: finite(l.Y1, 0)}
	end := Point{X: finite(l.X2, 0), Y: finite(l.Y2, 0)}
	dx, dy := end.X-start.X, end.Y-start.Y
	return LineLayout{
		Start:  start,
		End:    end,
		Length: math.Hypot(dx, dy),
		Angle:  math.Atan2(dy, dx) * 180 / math.Pi,
	}
}

// LineRect is a line drawn as a thin rectangle rotated about its anchor.
type LineRect struct {
	Box      Box
	Rotation float64
	Pivot    Point
}

// AsRect returns the line as a rectangle of the given thickness anchored at
// the first endpoint, for backends without a line primitive.
func (l LineLayout) AsRect(thickness float64) LineRect {
	t := math.Max(finite(thickness, 1), 0)
	return LineRect{
		Box:      Box{X: l.Start.X, Y: l.Start.Y - t/2, Width: l.Length, Height: t},
		Rotation: l.Angle,
		Pivot:    l.Start,
	}
}

// ArrowHead returns a triangle with its tip at `to`, pointing away from
// `from`. size is the length of the head along the line.
func ArrowHead(from, to Point, size float64) []Point {
	dx, dy := to.X-from.X, to.Y-from.Y
	length := math.Hypot(dx, dy)
	if length < Epsilon || size <= 0 {
		return nil
	}
	ux, uy := dx/length, dy/length
	half := size / 2
	bx, by := to.X-ux*size, to.Y-uy*size
	return []Point{
		to,
		{X: bx - uy*half, Y: by + ux*half},
		{X: bx + uy*half, Y: by - ux*half},
	}
}
