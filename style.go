package goslide

import (
	"math"
	"strconv"
	"strings"
)

// Style holds the visual attributes of an element. Zero values mean
// "unset" and are filled from the theme at render time.
type Style struct {
	BackgroundColor string       `json:"backgroundColor,omitempty"`
	Gradient        *Gradient    `json:"gradient,omitempty"`
	BorderColor     string       `json:"borderColor,omitempty"`
	BorderWidth     float64      `json:"borderWidth,omitempty"`
	BorderStyle     BorderStyle  `json:"borderStyle,omitempty"`
	BorderRadius    *float64     `json:"borderRadius,omitempty"` // percentage 0..100
	CornerRadii     *CornerRadii `json:"cornerRadii,omitempty"`  // per-corner percentages

	Color         string        `json:"color,omitempty"`
	FontFamily    string        `json:"fontFamily,omitempty"`
	FontSize      float64       `json:"fontSize,omitempty"`
	FontWeight    string        `json:"fontWeight,omitempty"`
	FontStyle     string        `json:"fontStyle,omitempty"`
	LineHeight    float64       `json:"lineHeight,omitempty"`
	LetterSpacing float64       `json:"letterSpacing,omitempty"`
	TextAlign     TextAlign     `json:"textAlign,omitempty"`
	VerticalAlign VerticalAlign `json:"verticalAlign,omitempty"`
	ListStyle     ListStyle     `json:"listStyle,omitempty"`
	Padding       *float64      `json:"padding,omitempty"`

	StrokeColor string    `json:"strokeColor,omitempty"`
	StrokeWidth float64   `json:"strokeWidth,omitempty"`
	ObjectFit   ObjectFit `json:"objectFit,omitempty"`
	ZIndex      *int      `json:"zIndex,omitempty"`
}

// BorderStyle represents the border line style.
type BorderStyle string

const (
	BorderNone   BorderStyle = "none"
	BorderSolid  BorderStyle = "solid"
	BorderDashed BorderStyle = "dashed"
	BorderDotted BorderStyle = "dotted"
)

// TextAlign represents horizontal text alignment.
type TextAlign string

const (
	AlignLeft    TextAlign = "left"
	AlignCenter  TextAlign = "center"
	AlignRight   TextAlign = "right"
	AlignJustify TextAlign = "justify"
)

// VerticalAlign represents vertical text alignment.
type VerticalAlign string

const (
	VerticalTop    VerticalAlign = "top"
	VerticalMiddle VerticalAlign = "middle"
	VerticalBottom VerticalAlign = "bottom"
)

// ListStyle selects list decoration for text.
type ListStyle string

const (
	ListNone   ListStyle = "none"
	ListBullet ListStyle = "bullet"
)

// ObjectFit controls how an image fills its box.
type ObjectFit string

const (
	FitCover   ObjectFit = "cover"
	FitContain ObjectFit = "contain"
	FitFill    ObjectFit = "fill"
)

// Apply returns a copy of s with every set field of patch applied.
// Neither s nor patch is modified.
func (s Style) Apply(patch Style) Style {
	out := s
	setStr := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	setNum := func(dst *float64, v float64) {
		if v != 0 {
			*dst = v
		}
	}
	setStr(&out.BackgroundColor, patch.BackgroundColor)
	setStr(&out.BorderColor, patch.BorderColor)
	setStr(&out.Color, patch.Color)
	setStr(&out.FontFamily, patch.FontFamily)
	setStr(&out.FontWeight, patch.FontWeight)
	setStr(&out.FontStyle, patch.FontStyle)
	setStr(&out.StrokeColor, patch.StrokeColor)
	setNum(&out.BorderWidth, patch.BorderWidth)
	setNum(&out.FontSize, patch.FontSize)
	setNum(&out.LineHeight, patch.LineHeight)
	setNum(&out.LetterSpacing, patch.LetterSpacing)
	setNum(&out.StrokeWidth, patch.StrokeWidth)
	if patch.BorderStyle != "" {
		out.BorderStyle = patch.BorderStyle
	}
	if patch.TextAlign != "" {
		out.TextAlign = patch.TextAlign
	}
	if patch.VerticalAlign != "" {
		out.VerticalAlign = patch.VerticalAlign
	}
	if patch.ListStyle != "" {
		out.ListStyle = patch.ListStyle
	}
	if patch.ObjectFit != "" {
		out.ObjectFit = patch.ObjectFit
	}
	if patch.Gradient != nil {
		g := patch.Gradient.clone()
		out.Gradient = &g
	} else if s.Gradient != nil {
		g := s.Gradient.clone()
		out.Gradient = &g
	}
	out.BorderRadius = pickPtr(s.BorderRadius, patch.BorderRadius)
	out.Padding = pickPtr(s.Padding, patch.Padding)
	out.ZIndex = pickPtr(s.ZIndex, patch.ZIndex)
	out.CornerRadii = pickPtr(s.CornerRadii, patch.CornerRadii)
	return out
}

// pickPtr returns a fresh copy of patch when set, otherwise of base.
func pickPtr[T any](base, patch *T) *T {
	src := base
	if patch != nil {
		src = patch
	}
	if src == nil {
		return nil
	}
	v := *src
	return &v
}

// Radii returns the per-corner radius percentages of the style.
// CornerRadii wins over the uniform BorderRadius.
func (s Style) Radii() CornerRadii {
	if s.CornerRadii != nil {
		return *s.CornerRadii
	}
	if s.BorderRadius != nil {
		return UniformRadii(*s.BorderRadius)
	}
	return CornerRadii{}
}

// Weight returns the numeric CSS font weight (100..900).
func (s Style) Weight() int {
	return parseFontWeight(s.FontWeight)
}

// Italic reports whether the font style is italic or oblique.
func (s Style) Italic() bool {
	return s.FontStyle == "italic" || s.FontStyle == "oblique"
}

func parseFontWeight(w string) int {
	switch strings.ToLower(strings.TrimSpace(w)) {
	case "", "normal":
		return 400
	case "bold":
		return 700
	case "lighter":
		return 300
	case "bolder":
		return 800
	}
	n, err := strconv.Atoi(strings.TrimSpace(w))
	if err != nil || n < 100 || n > 900 {
		return 400
	}
	return n
}

// GradientStop is one color stop; Offset is a percentage 0..100.
type GradientStop struct {
	Color  string  `json:"color"`
	Offset float64 `json:"offset"`
}

// Gradient is a linear gradient description. Angle follows GradientVector:
// 0 puts the first stop above the centre and 90 puts it on the right.
// ParseGradient converts CSS angles, whose 0 points the gradient upwards,
// into this convention.
type Gradient struct {
	Angle float64        `json:"angle"`
	Stops []GradientStop `json:"stops"`
}

func (g Gradient) clone() Gradient {
	stops := make([]GradientStop, len(g.Stops))
	copy(stops, g.Stops)
	return Gradient{Angle: g.Angle, Stops: stops}
}

var gradientSides = map[string]float64{
	"to top":          0,
	"to top right":    45,
	"to right top":    45,
	"to right":        90,
	"to bottom right": 135,
	"to right bottom": 135,
	"to bottom":       180,
	"to bottom left":  225,
	"to left bottom":  225,
	"to left":         270,
	"to top left":     315,
	"to left top":     315,
}

// cssAngle converts a CSS gradient angle, which names the direction the
// gradient runs towards, into a GradientVector angle, which names where the
// first stop sits.
func cssAngle(a float64) float64 {
	return normalizeAngle(a + 180)
}

// ParseGradient parses a CSS "linear-gradient(...)" string. Stops without an
// explicit offset are spread evenly between their neighbours.
func ParseGradient(s string) (*Gradient, bool) {
	s = strings.TrimSpace(strings.ToLower(s))
	s = strings.TrimPrefix(s, "repeating-")
	if !strings.HasPrefix(s, "linear-gradient(") || !strings.HasSuffix(s, ")") {
		return nil, false
	}
	params := splitTopLevel(s[len("linear-gradient(") : len(s)-1])
	if len(params) == 0 {
		return nil, false
	}

	g := &Gradient{Angle: cssAngle(180)}
	first := strings.TrimSpace(params[0])
	switch {
	case strings.HasSuffix(first, "deg"):
		a, err := strconv.ParseFloat(strings.TrimSuffix(first, "deg"), 64)
		if err != nil {
			return nil, false
		}
		g.Angle = cssAngle(finite(a, 180))
		params = params[1:]
	case strings.HasSuffix(first, "turn"):
		a, err := strconv.ParseFloat(strings.TrimSuffix(first, "turn"), 64)
		if err != nil {
			return nil, false
		}
		g.Angle = cssAngle(finite(a*360, 180))
		params = params[1:]
	case strings.HasPrefix(first, "to "):
		a, ok := gradientSides[strings.Join(strings.Fields(first), " ")]
		if !ok {
			return nil, false
		}
		g.Angle = cssAngle(a)
		params = params[1:]
	}

	offsets := make([]float64, len(params))
	for i, p := range params {
		fields := strings.Fields(strings.TrimSpace(p))
		if len(fields) == 0 {
			return nil, false
		}
		col := fields[0]
		// rgb()/rgba() may contain spaces after the commas.
		if strings.HasPrefix(col, "rgb") && !strings.HasSuffix(col, ")") {
			end := strings.IndexByte(p, ')')
			if end < 0 {
				return nil, false
			}
			col = strings.TrimSpace(p[:end+1])
			fields = append([]string{col}, strings.Fields(p[end+1:])...)
		}
		if _, ok := ParseColor(col); !ok {
			return nil, false
		}
		offsets[i] = math.NaN()
		if len(fields) > 1 {
			if v, err := strconv.ParseFloat(strings.TrimSuffix(fields[1], "%"), 64); err == nil {
				offsets[i] = v
			}
		}
		g.Stops = append(g.Stops, GradientStop{Color: col})
	}
	if len(g.Stops) < 2 {
		return nil, false
	}
	fillStopOffsets(offsets)
	for i := range g.Stops {
		g.Stops[i].Offset = offsets[i]
	}
	return g, true
}

// fillStopOffsets replaces NaN offsets: the first defaults to 0, the last to
// 100 and inner gaps are interpolated linearly.
func fillStopOffsets(off []float64) {
	n := len(off)
	if math.IsNaN(off[0]) {
		off[0] = 0
	}
	if math.IsNaN(off[n-1]) {
		off[n-1] = 100
	}
	for i := 1; i < n-1; i++ {
		if !math.IsNaN(off[i]) {
			continue
		}
		j := i
		for math.IsNaN(off[j]) {
			j++
		}
		step := (off[j] - off[i-1]) / float64(j-i+1)
		for k := i; k < j; k++ {
			off[k] = off[k-1] + step
		}
	}
}

// splitTopLevel splits s on commas that are not nested in parentheses.
func splitTopLevel(s string) []string {
	var parts []string
	depth, start := 0, 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	if rest := strings.TrimSpace(s[start:]); rest != "" {
		parts = append(parts, s[start:])
	}
	return parts
}

// BackgroundKind classifies a slide background string.
type BackgroundKind int

const (
	BackgroundNone BackgroundKind = iota
	BackgroundSolid
	BackgroundGradient
	BackgroundImage
)

// Background is a parsed slide background.
type Background struct {
	Kind     BackgroundKind
	Color    Color
	Gradient *Gradient
	ImageURL string
}

var imageExts = []string{".png", ".jpg", ".jpeg", ".gif", ".webp", ".svg", ".bmp"}

// ParseBackground classifies a background string as a solid color, a
// gradient or an image reference. Unrecognised strings yield BackgroundNone.
func ParseBackground(s string) Background {
	s = strings.TrimSpace(s)
	if s == "" {
		return Background{Kind: BackgroundNone}
	}
	lower := strings.ToLower(s)
	if strings.Contains(lower, "gradient(") {
		if g, ok := ParseGradient(s); ok {
			return Background{Kind: BackgroundGradient, Gradient: g}
		}
		return Background{Kind: BackgroundNone}
	}
	if strings.HasPrefix(lower, "url(") && strings.HasSuffix(s, ")") {
		u := strings.Trim(strings.TrimSpace(s[4:len(s)-1]), `"'`)
		return Background{Kind: BackgroundImage, ImageURL: u}
	}
	if c, ok := ParseColor(s); ok {
		return Background{Kind: BackgroundSolid, Color: c}
	}
	if isImageRef(lower) {
		return Background{Kind: BackgroundImage, ImageURL: s}
	}
	return Background{Kind: BackgroundNone}
}

func isImageRef(lower string) bool {
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") ||
		strings.HasPrefix(lower, "data:image/") {
		return true
	}
	if q := strings.IndexAny(lower, "?#"); q >= 0 {
		lower = lower[:q]
	}
	for _, ext := range imageExts {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
