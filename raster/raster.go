// Package raster paints goslide draw operations onto an RGBA image.
package raster

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log/slog"
	"math"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"golang.org/x/image/font"

	goslide "github.com/VantageDataChat/GoSlide"
)

// ImageOpener decodes image sources referenced by image ops.
type ImageOpener interface {
	Open(src string) (image.Image, error)
}

// Options configures rasterization.
type Options struct {
	// Width and Height are the output size in pixels.
	Width  int
	Height int
	// Background is painted before any op. Nil leaves the canvas transparent.
	Background color.Color
	// Fonts supplies faces for text ops. Nil or unloaded fonts fall back to
	// the embedded Go fonts.
	Fonts *goslide.FontCache
	// Images decodes image sources. Nil uses an ImagingLoader rooted at
	// ImageDir.
	Images   ImageOpener
	ImageDir string
	Logger   *slog.Logger
}

var placeholderColor = color.NRGBA{R: 0xE5, G: 0xE7, B: 0xEB, A: 0xFF}

type painter struct {
	dc     *gg.Context
	fonts  *goslide.FontCache
	images ImageOpener
	faces  map[goslide.FontSpec]font.Face
	log    *slog.Logger
}

// Draw paints ops in order and returns the resulting image.
func Draw(ops []goslide.DrawOp, opts *Options) (*image.RGBA, error) {
	if opts == nil || opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("invalid canvas size")
	}
	p := &painter{
		dc:     gg.NewContext(opts.Width, opts.Height),
		fonts:  opts.Fonts,
		images: opts.Images,
		faces:  make(map[goslide.FontSpec]font.Face),
		log:    opts.Logger,
	}
	if p.images == nil {
		p.images = goslide.NewImagingLoader(opts.ImageDir)
	}
	if p.log == nil {
		p.log = slog.Default()
	}
	if opts.Background != nil {
		p.dc.SetColor(opts.Background)
		p.dc.Clear()
	}
	for _, op := range ops {
		p.draw(op)
	}

	if rgba, ok := p.dc.Image().(*image.RGBA); ok {
		return rgba, nil
	}
	src := p.dc.Image()
	out := image.NewRGBA(src.Bounds())
	draw.Draw(out, out.Bounds(), src, src.Bounds().Min, draw.Src)
	return out, nil
}

func (p *painter) draw(op goslide.DrawOp) {
	b := op.Common()
	if b.Opacity <= 0 {
		return
	}
	dc := p.dc
	dc.Push()
	defer dc.Pop()
	dc.ClearPath()
	if b.Rotation != 0 {
		dc.RotateAbout(gg.Radians(b.Rotation), b.Pivot.X, b.Pivot.Y)
	}

	switch o := op.(type) {
	case goslide.RectOp:
		p.roundedRect(o.Box, o.Radii)
		p.paint(o.Fill, o.Stroke, b.Opacity)
	case goslide.EllipseOp:
		dc.DrawEllipse(o.Center.X, o.Center.Y, o.RX, o.RY)
		p.paint(o.Fill, o.Stroke, b.Opacity)
	case goslide.PolygonOp:
		if len(o.Points) < 2 {
			return
		}
		dc.MoveTo(o.Points[0].X, o.Points[0].Y)
		for _, pt := range o.Points[1:] {
			dc.LineTo(pt.X, pt.Y)
		}
		dc.ClosePath()
		p.paint(o.Fill, o.Stroke, b.Opacity)
	case goslide.PathOp:
		p.path(o.Commands)
		p.paint(o.Fill, o.Stroke, b.Opacity)
	case goslide.LineOp:
		dc.MoveTo(o.From.X, o.From.Y)
		dc.LineTo(o.To.X, o.To.Y)
		p.paint(nil, &o.Stroke, b.Opacity)
	case goslide.TextOp:
		p.text(o, b.Opacity)
	case goslide.ImageOp:
		p.image(o, b.Opacity)
	default:
		p.log.Warn("unsupported draw op", slog.String("kind", string(op.Kind())))
	}
}

func (p *painter) paint(fill *goslide.Paint, stroke *goslide.Stroke, opacity float64) {
	dc := p.dc
	hasStroke := stroke != nil && stroke.Width > 0
	if pat := pattern(fill, opacity); pat != nil {
		dc.SetFillStyle(pat)
		if hasStroke {
			dc.FillPreserve()
		} else {
			dc.Fill()
		}
	}
	if hasStroke {
		dc.SetStrokeStyle(gg.NewSolidPattern(withOpacity(stroke.Color, opacity)))
		dc.SetLineWidth(stroke.Width)
		dc.SetDash(stroke.Dash...)
		dc.SetLineCap(lineCap(stroke.Cap))
		dc.Stroke()
	}
	dc.ClearPath()
}

func pattern(fill *goslide.Paint, opacity float64) gg.Pattern {
	switch {
	case fill == nil:
		return nil
	case fill.Gradient != nil:
		g := fill.Gradient
		grad := gg.NewLinearGradient(g.Start.X, g.Start.Y, g.End.X, g.End.Y)
		for _, s := range g.Stops {
			grad.AddColorStop(s.Offset, withOpacity(s.Color, opacity))
		}
		return grad
	case fill.Color != nil:
		return gg.NewSolidPattern(withOpacity(*fill.Color, opacity))
	}
	return nil
}

func withOpacity(c goslide.Color, opacity float64) color.NRGBA {
	n := c.NRGBA()
	n.A = uint8(math.Round(float64(n.A) * math.Max(0, math.Min(1, opacity))))
	return n
}

func lineCap(c goslide.LineCap) gg.LineCap {
	switch c {
	case goslide.CapRound:
		return gg.LineCapRound
	case goslide.CapSquare:
		return gg.LineCapSquare
	}
	return gg.LineCapButt
}

// roundedRect adds a rectangle with per-corner radii to the current path.
func (p *painter) roundedRect(b goslide.Box, r goslide.Corners) {
	dc := p.dc
	if r.IsZero() {
		dc.DrawRectangle(b.X, b.Y, b.Width, b.Height)
		return
	}
	limit := math.Min(b.Width, b.Height) / 2
	clamp := func(v float64) float64 { return math.Max(0, math.Min(v, limit)) }
	tl, tr, br, bl := clamp(r.TopLeft), clamp(r.TopRight), clamp(r.BottomRight), clamp(r.BottomLeft)
	x0, y0, x1, y1 := b.X, b.Y, b.X+b.Width, b.Y+b.Height

	dc.NewSubPath()
	dc.MoveTo(x0+tl, y0)
	dc.LineTo(x1-tr, y0)
	if tr > 0 {
		dc.DrawArc(x1-tr, y0+tr, tr, gg.Radians(-90), 0)
	}
	dc.LineTo(x1, y1-br)
	if br > 0 {
		dc.DrawArc(x1-br, y1-br, br, 0, gg.Radians(90))
	}
	dc.LineTo(x0+bl, y1)
	if bl > 0 {
		dc.DrawArc(x0+bl, y1-bl, bl, gg.Radians(90), gg.Radians(180))
	}
	dc.LineTo(x0, y0+tl)
	if tl > 0 {
		dc.DrawArc(x0+tl, y0+tl, tl, gg.Radians(180), gg.Radians(270))
	}
	dc.ClosePath()
}

func (p *painter) path(cmds []goslide.PathCommand) {
	dc := p.dc
	for _, c := range cmds {
		pts := c.Pts
		switch c.Verb {
		case goslide.PathMoveTo:
			if len(pts) == 1 {
				dc.MoveTo(pts[0].X, pts[0].Y)
			}
		case goslide.PathLineTo:
			if len(pts) == 1 {
				dc.LineTo(pts[0].X, pts[0].Y)
			}
		case goslide.PathQuadTo:
			if len(pts) == 2 {
				dc.QuadraticTo(pts[0].X, pts[0].Y, pts[1].X, pts[1].Y)
			}
		case goslide.PathCubicTo:
			if len(pts) == 3 {
				dc.CubicTo(pts[0].X, pts[0].Y, pts[1].X, pts[1].Y, pts[2].X, pts[2].Y)
			}
		case goslide.PathClose:
			dc.ClosePath()
		}
	}
}

func (p *painter) text(o goslide.TextOp, opacity float64) {
	face := p.face(o.Font)
	if face == nil {
		return
	}
	dc := p.dc
	dc.SetFontFace(face)
	dc.SetColor(withOpacity(o.Color, opacity))
	for _, l := range o.Lines {
		if o.LetterSpacing == 0 {
			dc.DrawString(l.Text, l.X, l.Baseline)
			continue
		}
		x := l.X
		for _, r := range l.Text {
			s := string(r)
			dc.DrawString(s, x, l.Baseline)
			w, _ := dc.MeasureString(s)
			x += w + o.LetterSpacing
		}
	}
}

func (p *painter) image(o goslide.ImageOp, opacity float64) {
	dc := p.dc
	img, err := p.images.Open(o.Src)
	if err != nil {
		p.log.Warn("image unavailable", slog.String("element", o.ElementID), slog.String("src", o.Src), slog.Any("error", err))
		p.roundedRect(o.Clip, o.Radii)
		c := placeholderColor
		c.A = uint8(math.Round(255 * opacity))
		dc.SetColor(c)
		dc.Fill()
		return
	}

	if o.SrcRect != nil {
		r := image.Rect(
			int(math.Round(o.SrcRect.X)), int(math.Round(o.SrcRect.Y)),
			int(math.Round(o.SrcRect.X+o.SrcRect.Width)), int(math.Round(o.SrcRect.Y+o.SrcRect.Height)),
		).Add(img.Bounds().Min)
		img = imaging.Crop(img, r)
	}
	w, h := int(math.Round(o.Box.Width)), int(math.Round(o.Box.Height))
	if w <= 0 || h <= 0 {
		return
	}
	var scaled image.Image = imaging.Resize(img, w, h, imaging.Lanczos)
	if opacity < 1 {
		scaled = imaging.AdjustFunc(scaled, func(c color.NRGBA) color.NRGBA {
			c.A = uint8(math.Round(float64(c.A) * opacity))
			return c
		})
	}

	clip := !o.Radii.IsZero() || o.Box != o.Clip
	if clip {
		p.roundedRect(o.Clip, o.Radii)
		dc.Clip()
		defer dc.ResetClip()
	}
	dc.DrawImage(scaled, int(math.Round(o.Box.X)), int(math.Round(o.Box.Y)))
}
