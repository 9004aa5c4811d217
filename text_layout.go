package goslide

import (
	"math"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/width"
)

const (
	// DefaultFontSize is the font size, in design units, of unstyled text.
	DefaultFontSize = 16
	// DefaultLineHeight is the line-height multiplier of unstyled text.
	DefaultLineHeight = 1.2
	// DefaultTextWidth is the width reported for empty, unconstrained text.
	DefaultTextWidth = 200
	// BulletPrefix is prepended to every non-blank line of a bullet list.
	BulletPrefix = "• "
)

// FontSpec identifies a font face at a size in design units.
type FontSpec struct {
	Family string  `json:"family"`
	Weight int     `json:"weight"`
	Italic bool    `json:"italic,omitempty"`
	Size   float64 `json:"size"`
}

// FontMetrics measures the advance width of a string.
type FontMetrics interface {
	// Advance returns the width of text in design units, excluding letter
	// spacing.
	Advance(text string, f FontSpec) float64
}

// TextStyle is the subset of Style that affects text layout.
type TextStyle struct {
	Font          FontSpec
	LineHeight    float64
	LetterSpacing float64
	ListStyle     ListStyle
}

// LineAdvance returns the distance between baselines.
func (s TextStyle) LineAdvance() float64 {
	return s.Font.Size * s.LineHeight
}

func (s TextStyle) normalized() TextStyle {
	if s.Font.Size <= 0 || math.IsNaN(s.Font.Size) || math.IsInf(s.Font.Size, 0) {
		s.Font.Size = DefaultFontSize
	}
	if s.LineHeight <= 0 || math.IsNaN(s.LineHeight) || math.IsInf(s.LineHeight, 0) {
		s.LineHeight = DefaultLineHeight
	}
	if s.Font.Weight == 0 {
		s.Font.Weight = 400
	}
	s.LetterSpacing = finite(s.LetterSpacing, 0)
	return s
}

// TextStyleOf derives the text style of an element style, filling unset
// fields from the theme.
func TextStyleOf(st Style, theme Theme) TextStyle {
	family := st.FontFamily
	if family == "" {
		family = theme.FontFamily
	}
	size := st.FontSize
	if size <= 0 {
		size = theme.FontSize
	}
	return TextStyle{
		Font: FontSpec{
			Family: family,
			Weight: st.Weight(),
			Italic: st.Italic(),
			Size:   size,
		},
		LineHeight:    st.LineHeight,
		LetterSpacing: st.LetterSpacing,
		ListStyle:     st.ListStyle,
	}.normalized()
}

// ApplyBullets prefixes every non-blank line with BulletPrefix.
func ApplyBullets(text string) string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		if strings.TrimSpace(l) != "" {
			lines[i] = BulletPrefix + l
		}
	}
	return strings.Join(lines, "\n")
}

// TextLine is one laid-out line.
type TextLine struct {
	Text  string  `json:"text"`
	Width float64 `json:"width"`
}

// TextBlock is the result of laying out a text.
type TextBlock struct {
	Lines      []TextLine
	LineHeight float64 // distance between baselines
	Width      float64
	Height     float64
}

// TextMeasurer lays out and measures text using a FontMetrics provider.
// Measurement and rendering share Layout so what is measured is what is
// drawn.
type TextMeasurer struct {
	Metrics FontMetrics
}

// NewTextMeasurer returns a measurer for m; nil uses EstimateMetrics.
func NewTextMeasurer(m FontMetrics) *TextMeasurer {
	if m == nil {
		m = EstimateMetrics{}
	}
	return &TextMeasurer{Metrics: m}
}

func (m *TextMeasurer) advance(s string, st TextStyle) float64 {
	if s == "" {
		return 0
	}
	w := m.Metrics.Advance(s, st.Font) + st.LetterSpacing*float64(utf8.RuneCountInString(s))
	return math.Max(finite(w, 0), 0)
}

// PrepareText normalizes line endings and applies the list style.
func PrepareText(text string, st TextStyle) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	if st.ListStyle == ListBullet {
		text = ApplyBullets(text)
	}
	return text
}

// Layout splits text into lines. A positive maxWidth wraps at word
// boundaries, breaking words that do not fit on a line of their own.
func (m *TextMeasurer) Layout(text string, st TextStyle, maxWidth float64) TextBlock {
	st = st.normalized()
	text = PrepareText(text, st)
	maxWidth = finite(maxWidth, 0)

	var lines []TextLine
	for _, para := range strings.Split(text, "\n") {
		if maxWidth <= 0 {
			lines = append(lines, TextLine{Text: para, Width: m.advance(para, st)})
			continue
		}
		lines = append(lines, m.wrap(para, st, maxWidth)...)
	}

	block := TextBlock{Lines: lines, LineHeight: st.LineAdvance()}
	for _, l := range lines {
		block.Width = math.Max(block.Width, l.Width)
	}
	block.Height = float64(len(lines)) * block.LineHeight
	return block
}

func (m *TextMeasurer) wrap(para string, st TextStyle, maxWidth float64) []TextLine {
	words := strings.Split(para, " ")
	var out []TextLine
	line := ""
	for _, word := range words {
		candidate := word
		if line != "" {
			candidate = line + " " + word
		}
		if m.advance(candidate, st) <= maxWidth {
			line = candidate
			continue
		}
		if line != "" {
			out = append(out, TextLine{Text: line, Width: m.advance(line, st)})
			line = ""
		}
		if m.advance(word, st) <= maxWidth {
			line = word
			continue
		}
		chunks := m.breakWord(word, st, maxWidth)
		out = append(out, chunks[:len(chunks)-1]...)
		line = chunks[len(chunks)-1].Text
	}
	return append(out, TextLine{Text: line, Width: m.advance(line, st)})
}

// breakWord splits a word wider than maxWidth into chunks that fit; every
// chunk holds at least one rune.
func (m *TextMeasurer) breakWord(word string, st TextStyle, maxWidth float64) []TextLine {
	var out []TextLine
	chunk := ""
	for _, r := range word {
		next := chunk + string(r)
		if chunk != "" && m.advance(next, st) > maxWidth {
			out = append(out, TextLine{Text: chunk, Width: m.advance(chunk, st)})
			next = string(r)
		}
		chunk = next
	}
	return append(out, TextLine{Text: chunk, Width: m.advance(chunk, st)})
}

// Measure returns the size of text. With a width constraint the text is
// wrapped and the returned width is exactly *width; only the height is
// recomputed. Without one the natural width is the longest line.
// Empty text is one line high.
func (m *TextMeasurer) Measure(text string, st TextStyle, width *float64) Size {
	st = st.normalized()
	if text == "" {
		w := float64(DefaultTextWidth)
		if width != nil {
			w = *width
		}
		return Size{Width: w, Height: st.LineAdvance()}
	}
	if width != nil {
		block := m.Layout(text, st, *width)
		return Size{Width: *width, Height: block.Height}
	}
	block := m.Layout(text, st, 0)
	return Size{Width: block.Width, Height: block.Height}
}

// EstimateMetrics is a deterministic FontMetrics used while real fonts are
// unavailable. East Asian wide runes take a full em, spaces and narrow
// punctuation less than the average Latin glyph.
type EstimateMetrics struct{}

// Advance implements FontMetrics.
func (EstimateMetrics) Advance(text string, f FontSpec) float64 {
	size := f.Size
	if size <= 0 {
		size = DefaultFontSize
	}
	em := 0.0
	for _, r := range text {
		em += estimateRune(r)
	}
	if f.Weight >= 600 {
		em *= 1.05
	}
	return em * size
}

func estimateRune(r rune) float64 {
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return 1
	}
	switch {
	case r == ' ':
		return 0.28
	case strings.ContainsRune("il.,:;'|!", r):
		return 0.28
	case strings.ContainsRune("mwMW", r):
		return 0.85
	case r >= 'A' && r <= 'Z':
		return 0.65
	}
	return 0.55
}
