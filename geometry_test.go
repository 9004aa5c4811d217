package goslide

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCornerRadius_FullRoundIsCircle(t *testing.T) {
	for _, w := range []float64{1, 10, 37.5, 200, 1e6} {
		c := ResolveCornerRadii(UniformRadii(100), w, w)
		assert.Equal(t, w/2, c.TopLeft)
		assert.Equal(t, w/2, c.TopRight)
		assert.Equal(t, w/2, c.BottomRight)
		assert.Equal(t, w/2, c.BottomLeft)
	}
}

func TestCornerRadius_EllipseUsesSmallerSide(t *testing.T) {
	c := ResolveCornerRadii(UniformRadii(100), 200, 80)
	assert.Equal(t, Corners{TopLeft: 40, TopRight: 40, BottomRight: 40, BottomLeft: 40}, c)

	c = ResolveCornerRadii(UniformRadii(100), 80, 200)
	assert.Equal(t, 40.0, c.TopLeft)
}

func TestCornerRadius_Clamping(t *testing.T) {
	assert.Equal(t, 0.0, CornerRadius(-5, 100, 100))
	assert.Equal(t, 0.0, CornerRadius(math.NaN(), 100, 100))
	assert.Equal(t, 50.0, CornerRadius(150, 100, 100))
	assert.Equal(t, 25.0, CornerRadius(50, 100, 100))
	assert.Equal(t, 0.0, CornerRadius(100, 0, 100))
	assert.Equal(t, 0.0, CornerRadius(100, -20, 100))
}

func TestCornerRadius_PerCorner(t *testing.T) {
	r := CornerRadii{TopLeft: 100, TopRight: 0, BottomRight: 50, BottomLeft: 10}
	c := ResolveCornerRadii(r, 300, 100)
	assert.Equal(t, Corners{TopLeft: 50, TopRight: 0, BottomRight: 25, BottomLeft: 5}, c)
}

func TestGradientVector_Vertical(t *testing.T) {
	start, end := GradientVector(0, 100, 50)
	assert.Equal(t, start.X, end.X)
	assert.Equal(t, 50.0, start.X)
	assert.Less(t, start.Y, 25.0, "start above centre")
	assert.Greater(t, end.Y, 25.0, "end below centre")
}

func TestGradientVector_Horizontal(t *testing.T) {
	start, end := GradientVector(90, 100, 50)
	assert.Equal(t, start.Y, end.Y)
	assert.Equal(t, 25.0, start.Y)
	assert.NotEqual(t, start.X, end.X)
}

func TestGradientVector_Periodic(t *testing.T) {
	for _, a := range []float64{0, 30, 90, 135, 270} {
		s1, e1 := GradientVector(a, 120, 80)
		s2, e2 := GradientVector(a+360, 120, 80)
		s3, e3 := GradientVector(a-360, 120, 80)
		assert.InDelta(t, s1.X, s2.X, 1e-9)
		assert.InDelta(t, s1.Y, s2.Y, 1e-9)
		assert.InDelta(t, e1.X, e2.X, 1e-9)
		assert.InDelta(t, e1.Y, e2.Y, 1e-9)
		assert.InDelta(t, s1.X, s3.X, 1e-9)
		assert.InDelta(t, e1.Y, e3.Y, 1e-9)
	}
}

func TestGradientVector_ScalesLinearly(t *testing.T) {
	s1, e1 := GradientVector(45, 200, 100)
	s2, e2 := GradientVector(45, 400, 200)
	assert.InDelta(t, 2*s1.X, s2.X, 1e-9)
	assert.InDelta(t, 2*s1.Y, s2.Y, 1e-9)
	assert.InDelta(t, 2*e1.X, e2.X, 1e-9)
	assert.InDelta(t, 2*e1.Y, e2.Y, 1e-9)
}

func TestGradientVector_NaNAngle(t *testing.T) {
	start, end := GradientVector(math.NaN(), 100, 100)
	for _, v := range []float64{start.X, start.Y, end.X, end.Y} {
		assert.False(t, math.IsNaN(v))
	}
}

func TestScaleBox(t *testing.T) {
	b := ScaleBox(Box{X: 10, Y: 20, Width: 30, Height: 40}, 0.5)
	assert.Equal(t, Box{X: 5, Y: 10, Width: 15, Height: 20}, b)

	b = ScaleBox(Box{X: math.Inf(1), Y: math.NaN(), Width: 1, Height: 1}, 2)
	assert.Equal(t, 0.0, b.Y)
	assert.LessOrEqual(t, b.X, maxCoord)
}

func TestLineGeometry(t *testing.T) {
	l := LineGeometry(&LineContent{X1: 0, Y1: 0, X2: 3, Y2: 4})
	assert.Equal(t, 5.0, l.Length)
	assert.InDelta(t, math.Atan2(4, 3)*180/math.Pi, l.Angle, 1e-9)

	r := l.AsRect(2)
	assert.Equal(t, 5.0, r.Box.Width)
	assert.Equal(t, -1.0, r.Box.Y)
	assert.Equal(t, l.Start, r.Pivot)
}

func TestArrowHead(t *testing.T) {
	pts := ArrowHead(Point{X: 0, Y: 0}, Point{X: 10, Y: 0}, 4)
	if assert.Len(t, pts, 3) {
		assert.Equal(t, Point{X: 10, Y: 0}, pts[0])
		assert.InDelta(t, 6, pts[1].X, 1e-9)
		assert.InDelta(t, 6, pts[2].X, 1e-9)
		assert.InDelta(t, 4, math.Abs(pts[1].Y-pts[2].Y), 1e-9)
	}
	assert.Nil(t, ArrowHead(Point{}, Point{}, 4))
}

func TestStarPoints(t *testing.T) {
	pts := StarPoints(5, starInnerRatio, 100, 100)
	assert.Len(t, pts, 10)
	assert.InDelta(t, 50, pts[0].X, 1e-9)
	assert.InDelta(t, 0, pts[0].Y, 1e-9)
	for _, p := range pts {
		assert.GreaterOrEqual(t, p.X, -1e-9)
		assert.LessOrEqual(t, p.X, 100+1e-9)
	}
}
