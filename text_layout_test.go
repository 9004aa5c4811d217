package goslide

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func plainStyle(size float64) TextStyle {
	return TextStyle{Font: FontSpec{Family: "Inter", Weight: 400, Size: size}, LineHeight: 1.2}
}

func TestMeasure_ConstrainedWidthIsPreserved(t *testing.T) {
	m := NewTextMeasurer(nil)
	w := 50.0
	got := m.Measure("hello world, this wraps", plainStyle(10), &w)
	assert.Equal(t, 50.0, got.Width)
	assert.Greater(t, got.Height, 12.0, "wrapped onto several lines")
}

func TestMeasure_EmptyText(t *testing.T) {
	m := NewTextMeasurer(nil)
	got := m.Measure("", TextStyle{}, nil)
	assert.Equal(t, float64(DefaultTextWidth), got.Width)
	assert.InDelta(t, DefaultFontSize*DefaultLineHeight, got.Height, 1e-9)

	w := 80.0
	got = m.Measure("", TextStyle{}, &w)
	assert.Equal(t, 80.0, got.Width)
}

func TestMeasure_Unconstrained(t *testing.T) {
	m := NewTextMeasurer(nil)
	got := m.Measure("aa\naaaa", plainStyle(10), nil)
	assert.InDelta(t, 22, got.Width, 1e-9)
	assert.InDelta(t, 24, got.Height, 1e-9)
}

func TestLayout_WrapsAtWords(t *testing.T) {
	m := NewTextMeasurer(nil)
	block := m.Layout("aaaa bbbb", plainStyle(10), 30)
	require.Len(t, block.Lines, 2)
	assert.Equal(t, "aaaa", block.Lines[0].Text)
	assert.Equal(t, "bbbb", block.Lines[1].Text)
	assert.InDelta(t, 12, block.LineHeight, 1e-9)
	assert.InDelta(t, 24, block.Height, 1e-9)
}

func TestLayout_BreaksLongWords(t *testing.T) {
	m := NewTextMeasurer(nil)
	block := m.Layout(strings.Repeat("a", 10), plainStyle(10), 20)
	require.Len(t, block.Lines, 4)
	for _, l := range block.Lines {
		assert.NotEmpty(t, l.Text)
		assert.LessOrEqual(t, l.Width, 20.0)
	}
}

func TestLayout_NarrowerThanOneRune(t *testing.T) {
	m := NewTextMeasurer(nil)
	block := m.Layout("abc", plainStyle(10), 1)
	assert.Len(t, block.Lines, 3, "every line keeps at least one rune")
}

func TestLayout_Bullets(t *testing.T) {
	m := NewTextMeasurer(nil)
	st := plainStyle(10)
	st.ListStyle = ListBullet
	block := m.Layout("one\n\ntwo", st, 0)
	require.Len(t, block.Lines, 3)
	assert.Equal(t, BulletPrefix+"one", block.Lines[0].Text)
	assert.Equal(t, "", block.Lines[1].Text)
	assert.Equal(t, BulletPrefix+"two", block.Lines[2].Text)
}

func TestLayout_LetterSpacing(t *testing.T) {
	m := NewTextMeasurer(nil)
	st := plainStyle(10)
	plain := m.Layout("abcd", st, 0).Width
	st.LetterSpacing = 2
	assert.InDelta(t, plain+8, m.Layout("abcd", st, 0).Width, 1e-9)
}

func TestPrepareText_LineEndings(t *testing.T) {
	assert.Equal(t, "a\nb\nc", PrepareText("a\r\nb\rc", TextStyle{}))
}

func TestEstimateMetrics(t *testing.T) {
	var m EstimateMetrics
	assert.InDelta(t, 10, m.Advance("中", FontSpec{Size: 10}), 1e-9)
	assert.InDelta(t, 6.5, m.Advance("A", FontSpec{Size: 10}), 1e-9)
	assert.InDelta(t, 2.8, m.Advance(" ", FontSpec{Size: 10}), 1e-9)
	assert.Greater(t, m.Advance("A", FontSpec{Size: 10, Weight: 700}), m.Advance("A", FontSpec{Size: 10, Weight: 400}))
	assert.Equal(t, m.Advance("x", FontSpec{Size: DefaultFontSize}), m.Advance("x", FontSpec{}))
}

func TestTextStyleOf_ThemeDefaults(t *testing.T) {
	theme := DefaultTheme()
	st := TextStyleOf(Style{}, theme)
	assert.Equal(t, theme.FontFamily, st.Font.Family)
	assert.Equal(t, theme.FontSize, st.Font.Size)
	assert.Equal(t, DefaultLineHeight, st.LineHeight)
	assert.Equal(t, 400, st.Font.Weight)
}
