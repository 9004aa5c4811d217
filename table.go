package goslide

import "math"

// TableLayout is the cell grid of a table relative to its element box.
// ColumnX has Columns+1 offsets and RowY has Rows+1 offsets; the last offset
// of each equals the box width or height exactly.
type TableLayout struct {
	ColumnX []float64
	RowY    []float64
}

// Rows returns the number of rows in the layout.
func (l TableLayout) Rows() int { return max(len(l.RowY)-1, 0) }

// Columns returns the number of columns in the layout.
func (l TableLayout) Columns() int { return max(len(l.ColumnX)-1, 0) }

// CellBox returns the box of cell (r, c).
func (l TableLayout) CellBox(r, c int) Box {
	if r < 0 || c < 0 || r >= l.Rows() || c >= l.Columns() {
		return Box{}
	}
	return Box{
		X:      l.ColumnX[c],
		Y:      l.RowY[r],
		Width:  l.ColumnX[c+1] - l.ColumnX[c],
		Height: l.RowY[r+1] - l.RowY[r],
	}
}

// LayoutTable computes the cell grid of t inside a w×h box.
//
// Explicit column widths and row heights are used only when their count
// matches the grid and they sum to the box within Epsilon; otherwise the box
// is divided uniformly. Offsets are prefix sums accumulated in storage order
// so every consumer reproduces the same grid. Grids larger than
// MaxTableTracks in either direction are cut to that many tracks.
func LayoutTable(t *TableContent, w, h float64) TableLayout {
	if t == nil || t.Rows <= 0 || t.Columns <= 0 {
		return TableLayout{}
	}
	rows, cols := t.tracks()
	return TableLayout{
		ColumnX: prefixOffsets(trackSizes(t.ColumnWidths, cols, w), w),
		RowY:    prefixOffsets(trackSizes(t.RowHeights, rows, h), h),
	}
}

// MaxTableTracks bounds the rows and columns a table is laid out with.
const MaxTableTracks = 256

// tracks returns the row and column counts clamped to MaxTableTracks.
func (t *TableContent) tracks() (rows, cols int) {
	return min(max(t.Rows, 0), MaxTableTracks), min(max(t.Columns, 0), MaxTableTracks)
}

// trackSizes returns n sizes that sum to total.
func trackSizes(explicit []float64, n int, total float64) []float64 {
	total = math.Max(finite(total, 0), 0)
	sizes := make([]float64, n)
	if len(explicit) == n {
		sum := 0.0
		valid := true
		for _, v := range explicit {
			if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
				valid = false
				break
			}
			sum += v
		}
		if valid && nearlyEqual(sum, total) {
			copy(sizes, explicit)
			return sizes
		}
	}
	for i := range sizes {
		sizes[i] = total / float64(n)
	}
	return sizes
}

func prefixOffsets(sizes []float64, total float64) []float64 {
	off := make([]float64, len(sizes)+1)
	for i, s := range sizes {
		off[i+1] = off[i] + s
	}
	// The accumulated sum may differ from total by float rounding; pin the
	// final edge so the grid reconstructs the box exactly.
	off[len(sizes)] = math.Max(finite(total, 0), 0)
	return off
}

// IsHeaderCell reports whether (r, c) belongs to the header row or column.
func (t *TableContent) IsHeaderCell(r, c int) bool {
	return (t.HeaderRow && r == 0) || (t.HeaderColumn && c == 0)
}

// SizesValid reports whether explicit sizes, when present, match the grid
// and sum to the box within Epsilon.
func (t *TableContent) SizesValid(w, h float64) bool {
	check := func(sizes []float64, n int, total float64) bool {
		if len(sizes) == 0 {
			return true
		}
		if len(sizes) != n {
			return false
		}
		sum := 0.0
		for _, v := range sizes {
			sum += v
		}
		return nearlyEqual(sum, total)
	}
	return check(t.ColumnWidths, t.Columns, w) && check(t.RowHeights, t.Rows, h)
}
