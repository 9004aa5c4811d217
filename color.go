package goslide

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"
)

// Color represents an ARGB color.
type Color struct {
	ARGB string `json:"argb"` // 8-character hex string, e.g., "FF000000" for black
}

// Predefined colors.
var (
	ColorBlack       = Color{ARGB: "FF000000"}
	ColorWhite       = Color{ARGB: "FFFFFFFF"}
	ColorTransparent = Color{ARGB: "00000000"}
	ColorLightGray   = Color{ARGB: "FFE5E7EB"}
	ColorGray        = Color{ARGB: "FF9CA3AF"}
)

var namedColors = map[string]string{
	"black":       "FF000000",
	"white":       "FFFFFFFF",
	"red":         "FFFF0000",
	"green":       "FF008000",
	"blue":        "FF0000FF",
	"yellow":      "FFFFFF00",
	"orange":      "FFFFA500",
	"purple":      "FF800080",
	"gray":        "FF808080",
	"grey":        "FF808080",
	"transparent": "00000000",
}

// NewColor parses a CSS color string and falls back to black when the
// string is not a valid color.
func NewColor(s string) Color {
	c, ok := ParseColor(s)
	if !ok {
		return ColorBlack
	}
	return c
}

// ParseColor parses "#rgb", "#rrggbb", "#rrggbbaa", "rgb(r,g,b)",
// "rgba(r,g,b,a)" and a small set of color names.
func ParseColor(s string) (Color, bool) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return Color{}, false
	}
	if argb, ok := namedColors[s]; ok {
		return Color{ARGB: argb}, true
	}
	if strings.HasPrefix(s, "#") {
		return parseHexColor(s[1:])
	}
	if strings.HasPrefix(s, "rgb") {
		return parseRGBFunc(s)
	}
	return Color{}, false
}

func parseHexColor(h string) (Color, bool) {
	switch len(h) {
	case 3:
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
		fallthrough
	case 6:
		h = "ff" + h
	case 8:
		// CSS puts alpha last.
		h = h[6:8] + h[0:6]
	default:
		return Color{}, false
	}
	argb := strings.ToUpper(h)
	if !isValidARGB(argb) {
		return Color{}, false
	}
	return Color{ARGB: argb}, true
}

func parseRGBFunc(s string) (Color, bool) {
	open := strings.IndexByte(s, '(')
	if open < 0 || !strings.HasSuffix(s, ")") {
		return Color{}, false
	}
	parts := strings.Split(s[open+1:len(s)-1], ",")
	if len(parts) != 3 && len(parts) != 4 {
		return Color{}, false
	}
	var rgb [3]uint8
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseFloat(strings.TrimSpace(parts[i]), 64)
		if err != nil {
			return Color{}, false
		}
		rgb[i] = uint8(math.Round(math.Max(0, math.Min(255, v))))
	}
	alpha := uint8(255)
	if len(parts) == 4 {
		a, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
		if err != nil {
			return Color{}, false
		}
		alpha = uint8(math.Round(math.Max(0, math.Min(1, a)) * 255))
	}
	return Color{ARGB: fmt.Sprintf("%02X%02X%02X%02X", alpha, rgb[0], rgb[1], rgb[2])}, true
}

// isValidARGB checks that s is exactly 8 hex characters.
func isValidARGB(s string) bool {
	if len(s) != 8 {
		return false
	}
	for _, c := range s {
		if !((c >= '0' && c <= '9') || (c >= 'A' && c <= 'F')) {
			return false
		}
	}
	return true
}

// GetRed returns the red component (0-255).
func (c Color) GetRed() uint8 {
	return parseHexByte(c.ARGB, 2)
}

// GetGreen returns the green component (0-255).
func (c Color) GetGreen() uint8 {
	return parseHexByte(c.ARGB, 4)
}

// GetBlue returns the blue component (0-255).
func (c Color) GetBlue() uint8 {
	return parseHexByte(c.ARGB, 6)
}

// GetAlpha returns the alpha component (0-255).
func (c Color) GetAlpha() uint8 {
	return parseHexByte(c.ARGB, 0)
}

// IsTransparent reports whether the color has zero alpha.
func (c Color) IsTransparent() bool {
	return c.GetAlpha() == 0
}

// WithAlpha returns the color with its alpha multiplied by f (0..1).
func (c Color) WithAlpha(f float64) Color {
	f = math.Max(0, math.Min(1, finite(f, 1)))
	a := uint8(math.Round(float64(c.GetAlpha()) * f))
	return Color{ARGB: fmt.Sprintf("%02X%s", a, c.rgbHex())}
}

func (c Color) rgbHex() string {
	if len(c.ARGB) != 8 {
		return "000000"
	}
	return c.ARGB[2:]
}

// NRGBA converts the color to a non-premultiplied image/color value.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.GetRed(), G: c.GetGreen(), B: c.GetBlue(), A: c.GetAlpha()}
}

// parseHexByte parses two hex characters at offset into a uint8.
// Returns 0 on any error (out of range, invalid chars).
func parseHexByte(s string, offset int) uint8 {
	if offset+2 > len(s) {
		return 0
	}
	h := hexVal(s[offset])
	l := hexVal(s[offset+1])
	if h < 0 || l < 0 {
		return 0
	}
	return uint8(h<<4 | l)
}

func hexVal(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	default:
		return -1
	}
}
