package goslide

// Theme supplies the defaults used for every style attribute an element
// leaves unset.
type Theme struct {
	FontFamily      string
	FontSize        float64
	Background      Color
	TextColor       Color
	PlaceholderText Color
	Accent          Color
	ShapeFill       Color
	BorderColor     Color
	LineColor       Color
	IconColor       Color
	BlurbFill       Color
	BlurbBorder     Color
	HeaderFill      Color
	HeaderTextColor Color
	CellBorder      Color
	PlaceholderFill Color
}

// DefaultTheme returns the built-in light theme.
func DefaultTheme() Theme {
	return Theme{
		FontFamily:      "Inter",
		FontSize:        DefaultFontSize,
		Background:      ColorWhite,
		TextColor:       NewColor("#1f2937"),
		PlaceholderText: ColorGray,
		Accent:          NewColor("#3b82f6"),
		ShapeFill:       NewColor("#3b82f6"),
		BorderColor:     NewColor("#d1d5db"),
		LineColor:       NewColor("#374151"),
		IconColor:       NewColor("#374151"),
		BlurbFill:       ColorWhite,
		BlurbBorder:     NewColor("#374151"),
		HeaderFill:      NewColor("#f3f4f6"),
		HeaderTextColor: NewColor("#111827"),
		CellBorder:      NewColor("#d1d5db"),
		PlaceholderFill: ColorLightGray,
	}
}

// withDefaults fills zero fields from the default theme.
func (t Theme) withDefaults() Theme {
	d := DefaultTheme()
	if t.FontFamily == "" {
		t.FontFamily = d.FontFamily
	}
	if t.FontSize <= 0 {
		t.FontSize = d.FontSize
	}
	pick := func(c *Color, def Color) {
		if !isValidARGB(c.ARGB) {
			*c = def
		}
	}
	pick(&t.Background, d.Background)
	pick(&t.TextColor, d.TextColor)
	pick(&t.PlaceholderText, d.PlaceholderText)
	pick(&t.Accent, d.Accent)
	pick(&t.ShapeFill, d.ShapeFill)
	pick(&t.BorderColor, d.BorderColor)
	pick(&t.LineColor, d.LineColor)
	pick(&t.IconColor, d.IconColor)
	pick(&t.BlurbFill, d.BlurbFill)
	pick(&t.BlurbBorder, d.BlurbBorder)
	pick(&t.HeaderFill, d.HeaderFill)
	pick(&t.HeaderTextColor, d.HeaderTextColor)
	pick(&t.CellBorder, d.CellBorder)
	pick(&t.PlaceholderFill, d.PlaceholderFill)
	return t
}
