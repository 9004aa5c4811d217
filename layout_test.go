package goslide

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlurbGeometry_BottomLeft(t *testing.T) {
	l := BlurbGeometry(TailBottomLeft, 200, 100)
	apex := l.Apex()
	assert.InDelta(t, 0.2*200, apex.X, BlurbTailHalfWidth)
	assert.Equal(t, 100.0, apex.Y)
	assert.Equal(t, Box{X: 0, Y: 0, Width: 200, Height: 85}, l.Body)
	assert.Equal(t, 85.0, l.Tail[0].Y)
	assert.Equal(t, 85.0, l.Tail[2].Y)
}

func TestBlurbGeometry_Positions(t *testing.T) {
	tests := []struct {
		pos  TailPosition
		apex Point
		body Box
	}{
		{TailBottomCenter, Point{X: 100, Y: 100}, Box{Width: 200, Height: 85}},
		{TailBottomRight, Point{X: 160, Y: 100}, Box{Width: 200, Height: 85}},
		{TailTopLeft, Point{X: 40, Y: 0}, Box{Y: 15, Width: 200, Height: 85}},
		{TailTopCenter, Point{X: 100, Y: 0}, Box{Y: 15, Width: 200, Height: 85}},
		{TailLeftCenter, Point{X: 0, Y: 50}, Box{X: 15, Width: 185, Height: 100}},
		{TailRightCenter, Point{X: 200, Y: 50}, Box{Width: 185, Height: 100}},
		{"sideways", Point{X: 40, Y: 100}, Box{Width: 200, Height: 85}},
	}
	for _, tt := range tests {
		t.Run(string(tt.pos), func(t *testing.T) {
			l := BlurbGeometry(tt.pos, 200, 100)
			assert.Equal(t, tt.apex, l.Apex())
			assert.Equal(t, tt.body, l.Body)
		})
	}
}

func TestBlurbGeometry_TinyBox(t *testing.T) {
	l := BlurbGeometry(TailBottomLeft, 10, 10)
	assert.Equal(t, 5.0, l.Body.Height)
	for _, p := range l.Tail {
		assert.GreaterOrEqual(t, p.X, 0.0)
		assert.LessOrEqual(t, p.X, 10.0)
	}
	assert.Equal(t, 10.0, l.Apex().Y)
}

func TestLayoutTable_Uniform(t *testing.T) {
	tbl := &TableContent{Rows: 3, Columns: 3}
	l := LayoutTable(tbl, 300, 90)
	assert.Equal(t, []float64{0, 100, 200, 300}, l.ColumnX)
	assert.Equal(t, []float64{0, 30, 60, 90}, l.RowY)
	assert.Equal(t, 3, l.Rows())
	assert.Equal(t, 3, l.Columns())
}

func TestLayoutTable_ExplicitSizes(t *testing.T) {
	tbl := &TableContent{
		Rows:         2,
		Columns:      3,
		ColumnWidths: []float64{50, 150, 100},
		RowHeights:   []float64{20, 60},
	}
	require.True(t, tbl.SizesValid(300, 80))
	l := LayoutTable(tbl, 300, 80)
	assert.Equal(t, []float64{0, 50, 200, 300}, l.ColumnX)
	assert.Equal(t, []float64{0, 20, 80}, l.RowY)
	assert.Equal(t, Box{X: 200, Y: 20, Width: 100, Height: 60}, l.CellBox(1, 2))
	assert.Equal(t, Box{}, l.CellBox(2, 0))
}

func TestLayoutTable_MismatchedSumFallsBackToUniform(t *testing.T) {
	tbl := &TableContent{Rows: 1, Columns: 2, ColumnWidths: []float64{100, 300}}
	assert.False(t, tbl.SizesValid(200, 50))
	l := LayoutTable(tbl, 200, 50)
	assert.Equal(t, []float64{0, 100, 200}, l.ColumnX)

	tbl = &TableContent{Rows: 2, Columns: 1, RowHeights: []float64{10, 10}}
	l = LayoutTable(tbl, 50, 100)
	assert.Equal(t, []float64{0, 50, 100}, l.RowY)
}

func TestLayoutTable_ClampsHugeGrids(t *testing.T) {
	tbl := &TableContent{Rows: 1_000_000_000, Columns: 3}
	l := LayoutTable(tbl, 300, 100)
	assert.Equal(t, MaxTableTracks, l.Rows())
	assert.Equal(t, 3, l.Columns())
	assert.Equal(t, 100.0, l.RowY[MaxTableTracks])
}

func TestLayoutTable_LastOffsetIsExact(t *testing.T) {
	tbl := &TableContent{Rows: 7, Columns: 3}
	l := LayoutTable(tbl, 100, 100)
	assert.Equal(t, 100.0, l.ColumnX[3])
	assert.Equal(t, 100.0, l.RowY[7])
	sum := 0.0
	for c := 0; c < 3; c++ {
		sum += l.CellBox(0, c).Width
	}
	assert.InDelta(t, 100, sum, Epsilon)
}

func TestLayoutTable_WrongCountFallsBackToUniform(t *testing.T) {
	tbl := &TableContent{Rows: 2, Columns: 2, ColumnWidths: []float64{10, 20, 30}}
	l := LayoutTable(tbl, 200, 100)
	assert.Equal(t, []float64{0, 100, 200}, l.ColumnX)
	assert.False(t, tbl.SizesValid(200, 100))
}

func TestLayoutTable_Empty(t *testing.T) {
	l := LayoutTable(&TableContent{}, 100, 100)
	assert.Equal(t, 0, l.Rows())
	assert.Equal(t, 0, l.Columns())
}

func TestTableContent_Cell(t *testing.T) {
	tbl := &TableContent{Rows: 2, Columns: 2, Cells: [][]TableCell{{{Text: "a"}}}}
	assert.Equal(t, "a", tbl.Cell(0, 0).Text)
	assert.Equal(t, "", tbl.Cell(0, 1).Text)
	assert.Equal(t, "", tbl.Cell(1, 1).Text)
	assert.Equal(t, "", tbl.Cell(-1, 0).Text)
}
