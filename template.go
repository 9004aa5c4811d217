package goslide

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/oklog/ulid/v2"
)

const (
	defaultTemplateWidth  = DefaultTextWidth
	defaultTemplateHeight = 100
)

// TemplateElement is a partial element: unset geometry and style are filled
// with defaults when the template is populated, and text content may carry
// {{path}} placeholders.
type TemplateElement struct {
	ID       string      `json:"id"`
	Type     ElementType `json:"type"`
	X        *float64    `json:"x,omitempty"`
	Y        *float64    `json:"y,omitempty"`
	Width    *float64    `json:"width,omitempty"`
	Height   *float64    `json:"height,omitempty"`
	Rotation *float64    `json:"rotation,omitempty"`
	Opacity  *float64    `json:"opacity,omitempty"`
	Visible  *bool       `json:"visible,omitempty"`
	Locked   bool        `json:"locked,omitempty"`
	Content  Content     `json:"content"`
	Style    *Style      `json:"style,omitempty"`
}

type templateElementJSON struct {
	ID       string          `json:"id"`
	Type     ElementType     `json:"type"`
	X        *float64        `json:"x,omitempty"`
	Y        *float64        `json:"y,omitempty"`
	Width    *float64        `json:"width,omitempty"`
	Height   *float64        `json:"height,omitempty"`
	Rotation *float64        `json:"rotation,omitempty"`
	Opacity  *float64        `json:"opacity,omitempty"`
	Visible  *bool           `json:"visible,omitempty"`
	Locked   bool            `json:"locked,omitempty"`
	Content  json.RawMessage `json:"content"`
	Style    *Style          `json:"style,omitempty"`
}

// UnmarshalJSON decodes the content payload according to the element type.
func (e *TemplateElement) UnmarshalJSON(data []byte) error {
	var raw templateElementJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode template element: %w", err)
	}
	*e = TemplateElement{
		ID:       raw.ID,
		Type:     raw.Type,
		X:        raw.X,
		Y:        raw.Y,
		Width:    raw.Width,
		Height:   raw.Height,
		Rotation: raw.Rotation,
		Opacity:  raw.Opacity,
		Visible:  raw.Visible,
		Locked:   raw.Locked,
		Content:  decodeContent(raw.Type, raw.Content),
		Style:    raw.Style,
	}
	return nil
}

// SlideTemplate is a read-only blueprint for slides. DataKeys maps an
// element id to the data path whose value replaces that element's content.
type SlideTemplate struct {
	ID         string            `json:"id"`
	Name       string            `json:"name,omitempty"`
	Width      float64           `json:"width,omitempty"`
	Height     float64           `json:"height,omitempty"`
	Background string            `json:"background,omitempty"`
	Elements   []TemplateElement `json:"elements"`
	DataKeys   map[string]string `json:"dataKeys,omitempty"`
}

// PopulateOptions configures template population.
type PopulateOptions struct {
	// NewID generates slide ids and ids for template elements without one.
	// Default: a new ULID.
	NewID func() string
	// Metrics measures text when heights are recomputed. Nil uses
	// EstimateMetrics.
	Metrics FontMetrics
	// Theme supplies the font used for measuring unstyled text.
	Theme Theme
	// Logger receives debug messages about unresolved data paths.
	// Default: slog.Default().
	Logger *slog.Logger
}

// DefaultPopulateOptions returns default population options.
func DefaultPopulateOptions() *PopulateOptions {
	return &PopulateOptions{
		NewID:  func() string { return ulid.Make().String() },
		Theme:  DefaultTheme(),
		Logger: slog.Default(),
	}
}

// PopulateTemplate instantiates tpl with data. The template is never
// modified. Text and blurb elements whose content changed are re-measured:
// their width is kept and their height recomputed.
func PopulateTemplate(tpl SlideTemplate, data any, opts *PopulateOptions) Slide {
	o := DefaultPopulateOptions()
	if opts != nil {
		if opts.NewID != nil {
			o.NewID = opts.NewID
		}
		if opts.Logger != nil {
			o.Logger = opts.Logger
		}
		o.Metrics = opts.Metrics
		o.Theme = opts.Theme
	}
	o.Theme = o.Theme.withDefaults()
	b := binder{data: data, log: o.Logger, measurer: NewTextMeasurer(o.Metrics), theme: o.Theme}

	s := Slide{
		ID:         o.NewID(),
		Width:      tpl.Width,
		Height:     tpl.Height,
		Background: b.substitute(tpl.Background),
		Elements:   make([]Element, 0, len(tpl.Elements)),
	}
	for _, te := range tpl.Elements {
		el := instantiate(te)
		if el.ID == "" {
			el.ID = o.NewID()
		}
		if te.Content == nil {
			el.Content = newContent(el.Type)
		}
		if el.Content == nil {
			o.Logger.Warn("template element has no usable content", slog.String("element", el.ID), slog.String("type", string(el.Type)))
			s.Elements = append(s.Elements, el)
			continue
		}
		key, hasKey := tpl.DataKeys[te.ID]
		s.Elements = append(s.Elements, b.bind(el, key, hasKey))
	}
	return s
}

// instantiate copies a template element into a concrete element with
// default geometry.
func instantiate(te TemplateElement) Element {
	deref := func(p *float64, def float64) float64 {
		if p == nil {
			return def
		}
		return finite(*p, def)
	}
	el := Element{
		ID:       te.ID,
		Type:     te.Type,
		X:        deref(te.X, 0),
		Y:        deref(te.Y, 0),
		Width:    math.Max(deref(te.Width, defaultTemplateWidth), 0),
		Height:   math.Max(deref(te.Height, defaultTemplateHeight), 0),
		Rotation: deref(te.Rotation, 0),
		Locked:   te.Locked,
	}
	if te.Opacity != nil {
		v := *te.Opacity
		el.Opacity = &v
	}
	if te.Visible != nil {
		v := *te.Visible
		el.Visible = &v
	}
	if te.Content != nil {
		el.Content = te.Content.cloneContent()
	}
	if te.Style != nil {
		el.Style = Style{}.Apply(*te.Style)
	}
	return el
}

type binder struct {
	data     any
	log      *slog.Logger
	measurer *TextMeasurer
	theme    Theme
}

// bind applies the element's data key and placeholder substitution to a
// freshly instantiated element it owns.
func (b binder) bind(el Element, key string, hasKey bool) Element {
	var bound any
	resolved := false
	if hasKey {
		bound, resolved = ResolvePath(b.data, key)
		if !resolved {
			b.log.Debug("data key did not resolve", slog.String("element", el.ID), slog.String("path", key))
		}
	}

	switch c := el.Content.(type) {
	case *TextContent:
		before := c.Text
		if resolved {
			c.Text = stringify(bound)
		}
		c.Text = b.substitute(c.Text)
		c.Placeholder = b.substitute(c.Placeholder)
		if hasKey || c.Text != before {
			el.Height = b.textHeight(el, c.DisplayText(), 0, 0)
		}
	case *BlurbContent:
		before := c.Text
		if resolved {
			c.Text = stringify(bound)
		}
		c.Text = b.substitute(c.Text)
		c.Placeholder = b.substitute(c.Placeholder)
		if hasKey || c.Text != before {
			el.Height = b.blurbHeight(el, c)
		}
	case *ImageContent:
		if resolved {
			c.Src = stringify(bound)
		}
		c.Src = b.substitute(c.Src)
		c.Alt = b.substitute(c.Alt)
	case *IconContent:
		if resolved {
			c.IconID = stringify(bound)
		}
		c.IconID = b.substitute(c.IconID)
	case *TableContent:
		if resolved {
			fillCells(c, bound)
		}
		for i := range c.Cells {
			for j := range c.Cells[i] {
				c.Cells[i][j].Text = b.substitute(c.Cells[i][j].Text)
			}
		}
	case *ShapeContent, *LineContent:
		if resolved {
			b.log.Debug("data key ignored for element type", slog.String("element", el.ID), slog.String("type", string(el.Type)))
		}
	}
	return el
}

// textHeight measures text at the element's width less horizontal padding
// and returns the height including vertical padding.
func (b binder) textHeight(el Element, text string, defPad, extraWidth float64) float64 {
	pad := defPad
	if el.Style.Padding != nil {
		pad = math.Max(finite(*el.Style.Padding, defPad), 0)
	}
	inner := math.Max(el.Width-2*pad-extraWidth, Epsilon)
	ts := TextStyleOf(el.Style, b.theme)
	return b.measurer.Measure(text, ts, &inner).Height + 2*pad
}

func (b binder) blurbHeight(el Element, c *BlurbContent) float64 {
	switch c.TailPosition {
	case TailLeftCenter, TailRightCenter:
		return b.textHeight(el, c.DisplayText(), defaultBlurbPadding, BlurbTailSize)
	}
	return b.textHeight(el, c.DisplayText(), defaultBlurbPadding, 0) + BlurbTailSize
}

func (b binder) substitute(text string) string {
	return substitute(text, b.data, b.log)
}

// fillCells writes a two-dimensional value into the table cells, growing
// the grid when the data is larger.
func fillCells(t *TableContent, v any) {
	rows, ok := asSlice(v)
	if !ok {
		return
	}
	for i, rv := range rows {
		cols, ok := asSlice(rv)
		if !ok {
			continue
		}
		for len(t.Cells) <= i {
			t.Cells = append(t.Cells, nil)
		}
		for j, cv := range cols {
			for len(t.Cells[i]) <= j {
				t.Cells[i] = append(t.Cells[i], TableCell{})
			}
			t.Cells[i][j].Text = stringify(cv)
		}
		t.Columns = max(t.Columns, len(cols))
	}
	t.Rows = max(t.Rows, len(rows))
	if len(t.RowHeights) != 0 && len(t.RowHeights) != t.Rows {
		t.RowHeights = nil
	}
	if len(t.ColumnWidths) != 0 && len(t.ColumnWidths) != t.Columns {
		t.ColumnWidths = nil
	}
}

func asSlice(v any) ([]any, bool) {
	if s, ok := v.([]any); ok {
		return s, true
	}
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// --- path resolution ---

var (
	placeholderRe = regexp.MustCompile(`\{\{\s*([^{}]*?)\s*\}\}`)
	headwordRe    = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*\[\s*\d+\s*\]$`)
)

// ResolvePath looks up a dot/bracket path such as "a.b[0].c" in data. It
// reports false when any segment is missing or the value is nil. A path of
// the exact form identifier[index] that lands on an object with a "word"
// field resolves to that word.
func ResolvePath(data any, path string) (any, bool) {
	path = strings.TrimSpace(path)
	segs := splitPath(path)
	if len(segs) == 0 {
		return nil, false
	}
	cur := data
	for _, seg := range segs {
		next, ok := step(cur, seg)
		if !ok {
			return nil, false
		}
		cur = next
	}
	if cur == nil {
		return nil, false
	}
	if headwordRe.MatchString(path) {
		if w, ok := step(cur, "word"); ok && w != nil {
			return w, true
		}
	}
	return cur, true
}

// splitPath turns "a.b[0]['c']" into [a b 0 c].
func splitPath(path string) []string {
	var segs []string
	var cur strings.Builder
	flush := func() {
		if s := strings.TrimSpace(cur.String()); s != "" {
			segs = append(segs, s)
		}
		cur.Reset()
	}
	for i := 0; i < len(path); i++ {
		switch ch := path[i]; ch {
		case '.':
			flush()
		case '[':
			flush()
			end := strings.IndexByte(path[i:], ']')
			if end < 0 {
				cur.WriteString(path[i+1:])
				i = len(path)
				break
			}
			seg := strings.Trim(strings.TrimSpace(path[i+1:i+end]), `"'`)
			segs = append(segs, seg)
			i += end
		default:
			cur.WriteByte(ch)
		}
	}
	flush()
	return segs
}

// step descends one segment into v.
func step(v any, seg string) (any, bool) {
	switch t := v.(type) {
	case nil:
		return nil, false
	case map[string]any:
		x, ok := t[seg]
		return x, ok
	case []any:
		i, err := strconv.Atoi(seg)
		if err != nil || i < 0 || i >= len(t) {
			return nil, false
		}
		return t[i], true
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		x := rv.MapIndex(reflect.ValueOf(seg).Convert(rv.Type().Key()))
		if !x.IsValid() {
			return nil, false
		}
		return x.Interface(), true
	case reflect.Slice, reflect.Array:
		i, err := strconv.Atoi(seg)
		if err != nil || i < 0 || i >= rv.Len() {
			return nil, false
		}
		return rv.Index(i).Interface(), true
	case reflect.Struct:
		return structField(rv, seg)
	}
	return nil, false
}

// structField finds an exported field by json tag or case-insensitive name.
func structField(rv reflect.Value, name string) (any, bool) {
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		if !f.IsExported() {
			continue
		}
		tag, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if tag == name || (tag == "" && strings.EqualFold(f.Name, name)) {
			return rv.Field(i).Interface(), true
		}
	}
	return nil, false
}

// --- substitution ---

// Substitute replaces every {{path}} in text with the value it resolves to
// in data. Tokens that do not resolve are left exactly as written.
func Substitute(text string, data any) string {
	return substitute(text, data, slog.Default())
}

func substitute(text string, data any, log *slog.Logger) string {
	if !strings.Contains(text, "{{") {
		return text
	}
	return placeholderRe.ReplaceAllStringFunc(text, func(tok string) string {
		path := placeholderRe.FindStringSubmatch(tok)[1]
		v, ok := ResolvePath(data, path)
		if !ok {
			log.Debug("placeholder did not resolve", slog.String("path", path))
			return tok
		}
		return stringify(v)
	})
}

// stringify formats a resolved value for display. Numbers drop trailing
// zeros and composite values are encoded as JSON.
func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	case json.Number:
		return t.String()
	case fmt.Stringer:
		return t.String()
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int8, reflect.Int16, reflect.Int32:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10)
	case reflect.String:
		return rv.String()
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Sprint(v)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
