package goslide

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"
)

const (
	defaultBlurbPadding = 12
	defaultBlurbRadius  = 20
	defaultCellPadding  = 6
	defaultLineWidth    = 2
	defaultGridWidth    = 1
	defaultPlaceholder  = "Image"
	starPoints          = 5
)

// RenderOptions configures a Renderer.
type RenderOptions struct {
	// Theme is used by calls that pass a zero Theme.
	Theme Theme
	// Metrics measures text. Nil uses EstimateMetrics.
	Metrics FontMetrics
	// Icons resolves icon ids. Nil uses DefaultIcons().
	Icons *IconRegistry
	// Images reports natural image sizes. Nil places every image with
	// fit "fill".
	Images ImageLoader
	// Logger receives warnings about malformed elements.
	// Default: slog.Default().
	Logger *slog.Logger
}

// DefaultRenderOptions returns default rendering options.
func DefaultRenderOptions() *RenderOptions {
	return &RenderOptions{
		Theme:  DefaultTheme(),
		Icons:  DefaultIcons(),
		Logger: slog.Default(),
	}
}

// Renderer converts elements into draw operations. It holds no mutable
// state of its own and may be shared between goroutines.
type Renderer struct {
	opts     RenderOptions
	measurer *TextMeasurer
	log      *slog.Logger
}

// NewRenderer returns a renderer for opts; nil uses DefaultRenderOptions.
func NewRenderer(opts *RenderOptions) *Renderer {
	if opts == nil {
		opts = DefaultRenderOptions()
	}
	o := *opts
	if o.Icons == nil {
		o.Icons = DefaultIcons()
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	o.Theme = o.Theme.withDefaults()
	return &Renderer{opts: o, measurer: NewTextMeasurer(o.Metrics), log: o.Logger}
}

// Measurer returns the text measurer shared by rendering and measurement.
func (r *Renderer) Measurer() *TextMeasurer { return r.measurer }

func (r *Renderer) resolveTheme(t Theme) Theme {
	if t == (Theme{}) {
		return r.opts.Theme
	}
	return t.withDefaults()
}

// elementFrame carries the resolved frame of the element being rendered.
type elementFrame struct {
	el    Element
	scale float64
	theme Theme
	base  OpBase
	box   Box // element box in pixels
}

// px converts a box in slide design units to pixels.
func (f *elementFrame) px(b Box) Box { return ScaleBox(b, f.scale) }

// local converts a box relative to the element into slide design units.
func (f *elementFrame) local(b Box) Box { return b.Translate(f.el.X, f.el.Y) }

// Render converts one element into draw operations at the given scale.
// Malformed elements produce no operations and a warning; Render never
// panics on bad data.
func (r *Renderer) Render(el Element, scale float64, theme Theme) []DrawOp {
	if !el.IsVisible() || el.EffectiveOpacity() == 0 {
		return nil
	}
	if !el.ContentMatches() {
		r.warn(el, "content does not match element type")
		return nil
	}
	scale = finite(scale, 0)
	if scale <= 0 {
		r.warn(el, "scale must be positive", slog.Float64("scale", scale))
		return nil
	}
	el.X, el.Y = finite(el.X, 0), finite(el.Y, 0)
	el.Width = math.Max(finite(el.Width, 0), 0)
	el.Height = math.Max(finite(el.Height, 0), 0)

	box := ScaleBox(el.Box(), scale)
	f := &elementFrame{
		el:    el,
		scale: scale,
		theme: r.resolveTheme(theme),
		box:   box,
		base: OpBase{
			ElementID: el.ID,
			Opacity:   el.EffectiveOpacity(),
			Rotation:  finite(el.Rotation, 0),
			Pivot:     box.Center(),
		},
	}

	switch c := el.Content.(type) {
	case *TextContent:
		return r.renderText(f, c)
	case *BlurbContent:
		return r.renderBlurb(f, c)
	case *ImageContent:
		return r.renderImage(f, c)
	case *ShapeContent:
		return r.renderShape(f, c)
	case *LineContent:
		return r.renderLine(f, c)
	case *IconContent:
		return r.renderIcon(f, c)
	case *TableContent:
		return r.renderTable(f, c)
	}
	r.warn(el, "unsupported content")
	return nil
}

// RenderSlide renders the slide background followed by every element in
// paint order.
func (r *Renderer) RenderSlide(s Slide, scale float64, theme Theme) []DrawOp {
	scale = finite(scale, 0)
	if scale <= 0 {
		r.log.Warn("scale must be positive", slog.String("slide", s.ID), slog.Float64("scale", scale))
		return nil
	}
	th := r.resolveTheme(theme)
	canvas := s.CanvasSize()
	ops := r.renderBackground(s, ScaleBox(Box{Width: canvas.Width, Height: canvas.Height}, scale), th)
	for _, el := range s.PaintOrder() {
		ops = append(ops, r.Render(el, scale, th)...)
	}
	return ops
}

// RenderSlides renders slides concurrently. The result has one entry per
// slide, in input order.
func (r *Renderer) RenderSlides(ctx context.Context, slides []Slide, scale float64, theme Theme) ([][]DrawOp, error) {
	out := make([][]DrawOp, len(slides))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range slides {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out[i] = r.RenderSlide(slides[i], scale, theme)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("render slides: %w", err)
	}
	return out, nil
}

func (r *Renderer) renderBackground(s Slide, canvas Box, th Theme) []DrawOp {
	base := OpBase{Opacity: 1, Pivot: canvas.Center()}
	bg := ParseBackground(s.Background)
	switch bg.Kind {
	case BackgroundSolid:
		return []DrawOp{RectOp{OpBase: base, Box: canvas, Fill: SolidPaint(bg.Color)}}
	case BackgroundGradient:
		if p := gradientPaint(*bg.Gradient, canvas); p != nil {
			return []DrawOp{RectOp{OpBase: base, Box: canvas, Fill: p}}
		}
	case BackgroundImage:
		op := ImageOp{OpBase: base, Src: bg.ImageURL, Box: canvas, Clip: canvas, Fit: FitCover}
		if r.opts.Images != nil {
			w, h, err := r.opts.Images.NaturalSize(bg.ImageURL)
			if err != nil {
				r.log.Warn("slide background image unavailable",
					slog.String("slide", s.ID), slog.String("src", bg.ImageURL), slog.Any("error", err))
				break
			}
			op.NaturalWidth, op.NaturalHeight = w, h
			op.Box, op.SrcRect = FitImage(FitCover, canvas, w, h)
		}
		return []DrawOp{op}
	case BackgroundNone:
		if s.Background != "" {
			r.log.Warn("unrecognised slide background", slog.String("slide", s.ID), slog.String("background", s.Background))
		}
	}
	return []DrawOp{RectOp{OpBase: base, Box: canvas, Fill: SolidPaint(th.Background)}}
}

func (r *Renderer) warn(el Element, msg string, args ...any) {
	attrs := append([]any{slog.String("element", el.ID), slog.String("type", string(el.Type))}, args...)
	r.log.Warn(msg, attrs...)
}

// --- paint ---

// fillPaint resolves the fill of st over box (pixels). def is used when the
// style sets neither a gradient nor a background; nil def means no fill.
func fillPaint(st Style, box Box, def *Color) *Paint {
	if st.Gradient != nil {
		if p := gradientPaint(*st.Gradient, box); p != nil {
			return p
		}
	}
	if st.BackgroundColor != "" {
		bg := ParseBackground(st.BackgroundColor)
		switch bg.Kind {
		case BackgroundSolid:
			return SolidPaint(bg.Color)
		case BackgroundGradient:
			if p := gradientPaint(*bg.Gradient, box); p != nil {
				return p
			}
		}
	}
	if def != nil {
		return SolidPaint(*def)
	}
	return nil
}

// gradientPaint resolves a gradient over box. Stops with invalid colors are
// dropped; fewer than two stops degrade to a solid fill or none.
func gradientPaint(g Gradient, box Box) *Paint {
	stops := make([]ColorStop, 0, len(g.Stops))
	for _, s := range g.Stops {
		c, ok := ParseColor(s.Color)
		if !ok {
			continue
		}
		off := math.Max(0, math.Min(1, finite(s.Offset, 0)/100))
		stops = append(stops, ColorStop{Offset: off, Color: c})
	}
	switch len(stops) {
	case 0:
		return nil
	case 1:
		return SolidPaint(stops[0].Color)
	}
	start, end := GradientVector(g.Angle, box.Width, box.Height)
	return &Paint{Gradient: &LinearGradient{
		Start: Point{X: box.X + start.X, Y: box.Y + start.Y},
		End:   Point{X: box.X + end.X, Y: box.Y + end.Y},
		Stops: stops,
	}}
}

// borderStroke resolves the border of st, or nil when there is none.
// def supplies color and width when the style sets a color but no width.
func borderStroke(st Style, scale float64, defColor Color, defWidth float64) *Stroke {
	if st.BorderStyle == BorderNone {
		return nil
	}
	w := finite(st.BorderWidth, 0)
	if w <= 0 {
		if st.BorderColor == "" || defWidth <= 0 {
			return nil
		}
		w = defWidth
	}
	c := defColor
	if st.BorderColor != "" {
		if pc, ok := ParseColor(st.BorderColor); ok {
			c = pc
		}
	}
	return &Stroke{Color: c, Width: w * scale, Dash: dashPattern(st.BorderStyle, w*scale)}
}

func dashPattern(bs BorderStyle, width float64) []float64 {
	width = math.Max(width, 1)
	switch bs {
	case BorderDashed:
		return []float64{3 * width, 2 * width}
	case BorderDotted:
		return []float64{width, width}
	}
	return nil
}

func colorOr(s string, def Color) Color {
	if c, ok := ParseColor(s); ok {
		return c
	}
	return def
}

// boxOps returns the background and border of an element box, or nothing
// when the style sets neither.
func boxOps(f *elementFrame, box Box, radii Corners, defFill *Color, defStroke *Stroke) []DrawOp {
	st := f.el.Style
	fill := fillPaint(st, box, defFill)
	stroke := borderStroke(st, f.scale, f.theme.BorderColor, 0)
	if stroke == nil {
		stroke = defStroke
	}
	if fill == nil && stroke == nil {
		return nil
	}
	return []DrawOp{RectOp{OpBase: f.base, Box: box, Radii: radii, Fill: fill, Stroke: stroke}}
}

func (f *elementFrame) radii(box Box) Corners {
	return ResolveCornerRadii(f.el.Style.Radii(), box.Width, box.Height)
}

func (f *elementFrame) padding(def float64) float64 {
	if f.el.Style.Padding == nil {
		return def
	}
	return math.Max(finite(*f.el.Style.Padding, def), 0)
}

// --- text ---

// textOp lays text out inside inner (design units) and positions the lines
// in pixels. Blank text yields no op.
func (r *Renderer) textOp(f *elementFrame, inner Box, text string, ts TextStyle, c Color, align TextAlign, valign VerticalAlign) (TextOp, bool) {
	if strings.TrimSpace(text) == "" {
		return TextOp{}, false
	}
	inner.Width = math.Max(inner.Width, Epsilon)
	block := r.measurer.Layout(text, ts, inner.Width)
	ts = ts.normalized()

	top := inner.Y
	switch valign {
	case VerticalMiddle:
		top += (inner.Height - block.Height) / 2
	case VerticalBottom:
		top += inner.Height - block.Height
	}

	s := f.scale
	lines := make([]PositionedLine, 0, len(block.Lines))
	for i, l := range block.Lines {
		x := inner.X
		switch align {
		case AlignCenter:
			x += (inner.Width - l.Width) / 2
		case AlignRight:
			x += inner.Width - l.Width
		}
		lineTop := top + float64(i)*block.LineHeight
		baseline := lineTop + (block.LineHeight-ts.Font.Size)/2 + ts.Font.Size*0.8
		lines = append(lines, PositionedLine{
			Text:     l.Text,
			X:        clampCoord(x * s),
			Top:      clampCoord(lineTop * s),
			Baseline: clampCoord(baseline * s),
			Width:    l.Width * s,
		})
	}
	font := ts.Font
	font.Size *= s
	if align == "" {
		align = AlignLeft
	}
	return TextOp{
		OpBase:        f.base,
		Box:           f.px(inner),
		Lines:         lines,
		Font:          font,
		Color:         c,
		Align:         align,
		LetterSpacing: ts.LetterSpacing * s,
	}, true
}

func (r *Renderer) renderText(f *elementFrame, c *TextContent) []DrawOp {
	ops := boxOps(f, f.box, f.radii(f.box), nil, nil)
	text, color := c.Text, colorOr(f.el.Style.Color, f.theme.TextColor)
	if text == "" {
		text, color = c.Placeholder, f.theme.PlaceholderText
	}
	pad := f.padding(0)
	inner := Box{X: f.el.X + pad, Y: f.el.Y + pad, Width: f.el.Width - 2*pad, Height: f.el.Height - 2*pad}
	valign := f.el.Style.VerticalAlign
	if valign == "" {
		valign = VerticalTop
	}
	if op, ok := r.textOp(f, inner, text, TextStyleOf(f.el.Style, f.theme), color, f.el.Style.TextAlign, valign); ok {
		ops = append(ops, op)
	}
	return ops
}

// --- blurb ---

func (r *Renderer) renderBlurb(f *elementFrame, c *BlurbContent) []DrawOp {
	st := f.el.Style
	layout := BlurbGeometry(c.TailPosition, f.el.Width, f.el.Height)
	body := f.px(f.local(layout.Body))
	tail := ScalePoints(translatePoints(layout.Tail[:], f.el.X, f.el.Y), f.scale)

	radii := st.Radii()
	if st.BorderRadius == nil && st.CornerRadii == nil {
		radii = UniformRadii(defaultBlurbRadius)
	}
	fill := fillPaint(st, body, &f.theme.BlurbFill)
	stroke := borderStroke(st, f.scale, f.theme.BlurbBorder, defaultLineWidth)
	if stroke == nil && st.BorderStyle != BorderNone {
		stroke = &Stroke{Color: f.theme.BlurbBorder, Width: defaultLineWidth * f.scale}
	}

	ops := []DrawOp{
		RectOp{OpBase: f.base, Box: body, Radii: ResolveCornerRadii(radii, body.Width, body.Height), Fill: fill, Stroke: stroke},
		PolygonOp{OpBase: f.base, Points: tail, Fill: fill, Stroke: stroke},
	}

	text, color := c.Text, colorOr(st.Color, f.theme.TextColor)
	if text == "" {
		text, color = c.Placeholder, f.theme.PlaceholderText
	}
	pad := f.padding(defaultBlurbPadding)
	inner := f.local(layout.Body)
	inner = Box{X: inner.X + pad, Y: inner.Y + pad, Width: inner.Width - 2*pad, Height: inner.Height - 2*pad}
	valign := st.VerticalAlign
	if valign == "" {
		valign = VerticalMiddle
	}
	align := st.TextAlign
	if align == "" {
		align = AlignCenter
	}
	if op, ok := r.textOp(f, inner, text, TextStyleOf(st, f.theme), color, align, valign); ok {
		ops = append(ops, op)
	}
	return ops
}

// --- image ---

func (r *Renderer) renderImage(f *elementFrame, c *ImageContent) []DrawOp {
	radii := f.radii(f.box)
	if strings.TrimSpace(c.Src) == "" {
		return r.imagePlaceholder(f, c, radii)
	}
	fit := f.el.Style.ObjectFit
	switch fit {
	case FitCover, FitContain, FitFill:
	default:
		fit = FitCover
	}
	op := ImageOp{OpBase: f.base, Src: c.Src, Box: f.box, Clip: f.box, Radii: radii, Fit: fit}
	if r.opts.Images != nil {
		w, h, err := r.opts.Images.NaturalSize(c.Src)
		if err != nil {
			r.warn(f.el, "image unavailable", slog.String("src", c.Src), slog.Any("error", err))
			return r.imagePlaceholder(f, c, radii)
		}
		op.NaturalWidth, op.NaturalHeight = w, h
		op.Box, op.SrcRect = FitImage(fit, f.box, w, h)
	}
	ops := []DrawOp{op}
	if stroke := borderStroke(f.el.Style, f.scale, f.theme.BorderColor, 0); stroke != nil {
		ops = append(ops, RectOp{OpBase: f.base, Box: f.box, Radii: radii, Stroke: stroke})
	}
	return ops
}

func (r *Renderer) imagePlaceholder(f *elementFrame, c *ImageContent, radii Corners) []DrawOp {
	ops := []DrawOp{RectOp{
		OpBase: f.base,
		Box:    f.box,
		Radii:  radii,
		Fill:   SolidPaint(f.theme.PlaceholderFill),
		Stroke: borderStroke(f.el.Style, f.scale, f.theme.BorderColor, 0),
	}}
	label := c.Alt
	if label == "" {
		label = defaultPlaceholder
	}
	ts := TextStyleOf(Style{FontSize: f.el.Style.FontSize}, f.theme)
	if op, ok := r.textOp(f, f.el.Box(), label, ts, f.theme.PlaceholderText, AlignCenter, VerticalMiddle); ok {
		ops = append(ops, op)
	}
	return ops
}

// --- shape ---

func (r *Renderer) renderShape(f *elementFrame, c *ShapeContent) []DrawOp {
	st := f.el.Style
	box := f.box
	fill := fillPaint(st, box, &f.theme.ShapeFill)
	stroke := borderStroke(st, f.scale, f.theme.BorderColor, 0)
	if stroke == nil && st.StrokeWidth > 0 {
		stroke = &Stroke{Color: colorOr(st.StrokeColor, f.theme.BorderColor), Width: st.StrokeWidth * f.scale}
	}

	switch c.Shape {
	case ShapeCircle:
		return []DrawOp{EllipseOp{
			OpBase: f.base,
			Center: box.Center(),
			RX:     box.Width / 2,
			RY:     box.Height / 2,
			Fill:   fill,
			Stroke: stroke,
		}}
	case ShapeTriangle:
		pts := translatePoints(TrianglePoints(box.Width, box.Height), box.X, box.Y)
		return []DrawOp{PolygonOp{OpBase: f.base, Points: pts, Fill: fill, Stroke: stroke}}
	case ShapeStar:
		pts := translatePoints(StarPoints(starPoints, starInnerRatio, box.Width, box.Height), box.X, box.Y)
		return []DrawOp{PolygonOp{OpBase: f.base, Points: pts, Fill: fill, Stroke: stroke}}
	case ShapeSVG:
		return r.renderSVGShape(f, c, fill, stroke)
	case ShapeRectangle:
	default:
		r.warn(f.el, "unknown shape kind, drawing a rectangle", slog.String("shape", string(c.Shape)))
	}
	return []DrawOp{RectOp{OpBase: f.base, Box: box, Radii: f.radii(box), Fill: fill, Stroke: stroke}}
}

func (r *Renderer) renderSVGShape(f *elementFrame, c *ShapeContent, fill *Paint, stroke *Stroke) []DrawOp {
	cmds, err := ParsePath(c.Path)
	if err != nil {
		r.warn(f.el, "malformed path data", slog.Any("error", err))
	}
	if len(cmds) == 0 {
		return nil
	}
	vb := DefaultViewBox
	if c.ViewBox != nil && c.ViewBox.Width > 0 && c.ViewBox.Height > 0 {
		vb = *c.ViewBox
	} else if c.ViewBox == nil {
		b := PathBounds(cmds)
		vb = ViewBox{MinX: b.X, MinY: b.Y, Width: b.Width, Height: b.Height}
	}
	sx := f.box.Width / clampDim(vb.Width)
	sy := f.box.Height / clampDim(vb.Height)
	native := &NativePath{
		Commands: cmds,
		ViewBox:  vb,
		Origin:   Point{X: f.box.X, Y: f.box.Y},
		ScaleX:   sx,
		ScaleY:   sy,
	}
	if stroke != nil {
		native.StrokeWidth = IconStrokeWidth(stroke.Width, sx)
	}
	return []DrawOp{PathOp{
		OpBase:   f.base,
		Commands: FitPath(cmds, vb, f.box),
		Fill:     fill,
		Stroke:   stroke,
		Native:   native,
	}}
}

// --- line ---

func (r *Renderer) renderLine(f *elementFrame, c *LineContent) []DrawOp {
	st := f.el.Style
	geo := LineGeometry(c)
	from := ScalePoint(Point{X: f.el.X + geo.Start.X, Y: f.el.Y + geo.Start.Y}, f.scale)
	to := ScalePoint(Point{X: f.el.X + geo.End.X, Y: f.el.Y + geo.End.Y}, f.scale)

	width := st.StrokeWidth
	if width <= 0 {
		width = st.BorderWidth
	}
	if width <= 0 {
		width = defaultLineWidth
	}
	col := f.theme.LineColor
	switch {
	case st.StrokeColor != "":
		col = colorOr(st.StrokeColor, col)
	case st.BorderColor != "":
		col = colorOr(st.BorderColor, col)
	}
	lineCap := c.Cap
	switch lineCap {
	case CapButt, CapRound, CapSquare:
	default:
		lineCap = CapButt
	}
	stroke := Stroke{Color: col, Width: width * f.scale, Dash: dashPattern(st.BorderStyle, width*f.scale), Cap: lineCap}

	ops := []DrawOp{LineOp{OpBase: f.base, From: from, To: to, Stroke: stroke}}
	head := math.Max(3*stroke.Width, 8*f.scale)
	if c.ArrowEnd {
		if pts := ArrowHead(from, to, head); pts != nil {
			ops = append(ops, PolygonOp{OpBase: f.base, Points: pts, Fill: SolidPaint(col)})
		}
	}
	if c.ArrowStart {
		if pts := ArrowHead(to, from, head); pts != nil {
			ops = append(ops, PolygonOp{OpBase: f.base, Points: pts, Fill: SolidPaint(col)})
		}
	}
	return ops
}

// --- icon ---

func (r *Renderer) renderIcon(f *elementFrame, c *IconContent) []DrawOp {
	st := f.el.Style
	ops := boxOps(f, f.box, f.radii(f.box), nil, nil)

	ic, ok := r.opts.Icons.Lookup(c.IconID)
	if !ok {
		r.warn(f.el, "icon not registered, using fallback", slog.String("icon", c.IconID))
		ic = r.opts.Icons.Resolve(c.IconID)
	}
	col := colorOr(st.Color, f.theme.IconColor)
	base := st.StrokeWidth
	if base <= 0 {
		base = DefaultIconStrokeWidth
	}
	layout := FitIcon(ic, f.box, base*f.scale)
	op := PathOp{
		OpBase:   f.base,
		Commands: layout.Commands,
		Native: &NativePath{
			Commands: ic.Commands,
			ViewBox:  ic.ViewBox,
			Origin:   Point{X: f.box.X, Y: f.box.Y},
			ScaleX:   layout.ScaleX,
			ScaleY:   layout.ScaleY,
		},
	}
	if ic.Filled {
		op.Fill = SolidPaint(col)
	} else {
		op.Stroke = &Stroke{Color: col, Width: base * f.scale, Cap: CapRound}
		op.Native.StrokeWidth = layout.NativeStrokeWidth
	}
	return append(ops, op)
}

// --- table ---

func (r *Renderer) renderTable(f *elementFrame, t *TableContent) []DrawOp {
	if t.Rows <= 0 || t.Columns <= 0 {
		r.warn(f.el, "table has no cells", slog.Int("rows", t.Rows), slog.Int("columns", t.Columns))
		return nil
	}
	if t.Rows > MaxTableTracks || t.Columns > MaxTableTracks {
		r.warn(f.el, "table is too large, extra tracks are dropped",
			slog.Int("rows", t.Rows), slog.Int("columns", t.Columns), slog.Int("max", MaxTableTracks))
	}
	if !t.SizesValid(f.el.Width, f.el.Height) {
		r.warn(f.el, "table track sizes do not match the element box, using uniform tracks")
	}
	st := f.el.Style
	layout := LayoutTable(t, f.el.Width, f.el.Height)
	rows, cols := layout.Rows(), layout.Columns()
	ops := boxOps(f, f.box, Corners{}, nil, nil)

	cellBox := func(row, col int) Box { return f.local(layout.CellBox(row, col)) }

	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			var fill *Paint
			if t.IsHeaderCell(row, col) {
				fill = SolidPaint(f.theme.HeaderFill)
			}
			if cs := t.Cell(row, col).Style; cs != nil && cs.BackgroundColor != "" {
				if c, ok := ParseColor(cs.BackgroundColor); ok {
					fill = SolidPaint(c)
				} else {
					r.warn(f.el, "invalid cell background", slog.Int("row", row), slog.Int("column", col), slog.String("color", cs.BackgroundColor))
				}
			}
			if fill != nil {
				ops = append(ops, RectOp{OpBase: f.base, Box: f.px(cellBox(row, col)), Fill: fill})
			}
		}
	}

	if st.BorderStyle != BorderNone {
		w := st.BorderWidth
		if w <= 0 {
			w = defaultGridWidth
		}
		grid := Stroke{Color: colorOr(st.BorderColor, f.theme.CellBorder), Width: w * f.scale, Dash: dashPattern(st.BorderStyle, w*f.scale)}
		for row := 0; row < rows; row++ {
			for col := 0; col < cols; col++ {
				s := grid
				ops = append(ops, RectOp{OpBase: f.base, Box: f.px(cellBox(row, col)), Stroke: &s})
			}
		}
	}

	pad := f.padding(defaultCellPadding)
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			cell := t.Cell(row, col)
			cellStyle := st
			header := t.IsHeaderCell(row, col)
			color := colorOr(st.Color, f.theme.TextColor)
			if header {
				cellStyle.FontWeight = "bold"
				color = f.theme.HeaderTextColor
			}
			align := st.TextAlign
			if cs := cell.Style; cs != nil {
				if cs.FontSize > 0 {
					cellStyle.FontSize = cs.FontSize
				}
				if cs.FontWeight != "" {
					cellStyle.FontWeight = cs.FontWeight
				}
				if cs.TextAlign != "" {
					align = cs.TextAlign
				}
				color = colorOr(cs.Color, color)
			}
			b := cellBox(row, col)
			inner := Box{X: b.X + pad, Y: b.Y + pad, Width: b.Width - 2*pad, Height: b.Height - 2*pad}
			if op, ok := r.textOp(f, inner, cell.Text, TextStyleOf(cellStyle, f.theme), color, align, VerticalMiddle); ok {
				ops = append(ops, op)
			}
		}
	}
	return ops
}
