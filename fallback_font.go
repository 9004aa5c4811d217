package goslide

import (
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
)

var (
	fallbackOnce  sync.Once
	fallbackFonts [4]*truetype.Font // regular, bold, italic, bold italic
)

func loadFallbackFonts() {
	for i, data := range [][]byte{goregular.TTF, gobold.TTF, goitalic.TTF, gobolditalic.TTF} {
		f, err := truetype.Parse(data)
		if err != nil {
			// Embedded font data is static.
			panic(err)
		}
		fallbackFonts[i] = f
	}
}

// FallbackFont returns the embedded Go font matching weight and italic.
func FallbackFont(weight int, italic bool) *truetype.Font {
	fallbackOnce.Do(loadFallbackFonts)
	i := 0
	if weight >= 600 {
		i |= 1
	}
	if italic {
		i |= 2
	}
	return fallbackFonts[i]
}

// NewFallbackFace returns an unhinted embedded Go face at spec's size.
// FontCache measures fonts it cannot resolve with these faces, and backends
// draw such text with them.
func NewFallbackFace(spec FontSpec) font.Face {
	size := spec.Size
	if size <= 0 {
		size = DefaultFontSize
	}
	return truetype.NewFace(FallbackFont(spec.Weight, spec.Italic), &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
}
