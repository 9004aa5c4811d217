package raster

import (
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"

	goslide "github.com/VantageDataChat/GoSlide"
)

// face returns a face for spec at its pixel size. Faces are private to the
// painter because glyph buffers are not safe for concurrent use. Fonts the
// cache cannot resolve are drawn with the same embedded faces it measures
// them with.
func (p *painter) face(spec goslide.FontSpec) font.Face {
	if spec.Size <= 0 {
		return nil
	}
	if f, ok := p.faces[spec]; ok {
		return f
	}
	var face font.Face
	if p.fonts != nil {
		if f, ok := p.fonts.GetOrLoad(spec.Family, spec.Weight, spec.Italic); ok {
			var err error
			face, err = opentype.NewFace(f, &opentype.FaceOptions{
				Size:    spec.Size,
				DPI:     72,
				Hinting: font.HintingNone,
			})
			if err != nil {
				face = nil
			}
		}
	}
	if face == nil {
		face = goslide.NewFallbackFace(spec)
	}
	p.faces[spec] = face
	return face
}
