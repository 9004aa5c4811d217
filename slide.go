// Package goslide is a declarative slide rendering and template data-binding
// engine.
//
// A Slide is pure data: an ordered list of elements with geometry in design
// units on an 800×600 reference canvas. A Renderer turns a slide into an
// ordered list of backend-agnostic draw operations at any scale factor, so
// an editor canvas, thumbnails and document export agree modulo scale.
// PopulateTemplate fills a SlideTemplate from an arbitrary data object.
//
// See the Version variable for the current library version.
package goslide

import (
	"encoding/json"
	"fmt"
	"sort"
)

// ElementType is the discriminator of an element's content.
type ElementType string

const (
	ElementText  ElementType = "text"
	ElementImage ElementType = "image"
	ElementShape ElementType = "shape"
	ElementBlurb ElementType = "blurb"
	ElementLine  ElementType = "line"
	ElementIcon  ElementType = "icon"
	ElementTable ElementType = "table"
)

// Element is one item on a slide. Elements are values: every With* method
// returns a new element and leaves the receiver untouched.
type Element struct {
	ID       string      `json:"id"`
	Type     ElementType `json:"type"`
	X        float64     `json:"x"`
	Y        float64     `json:"y"`
	Width    float64     `json:"width"`
	Height   float64     `json:"height"`
	Rotation float64     `json:"rotation,omitempty"` // degrees around the box centre
	Opacity  *float64    `json:"opacity,omitempty"`  // nil means fully opaque
	Visible  *bool       `json:"visible,omitempty"`  // nil means visible
	Locked   bool        `json:"locked,omitempty"`
	Content  Content     `json:"content"`
	Style    Style       `json:"style"`
}

// Box returns the element's bounding box in design units.
func (e Element) Box() Box {
	return Box{X: e.X, Y: e.Y, Width: e.Width, Height: e.Height}
}

// IsVisible reports whether the element should be drawn at all.
func (e Element) IsVisible() bool {
	return e.Visible == nil || *e.Visible
}

// EffectiveOpacity returns the opacity clamped to [0, 1].
func (e Element) EffectiveOpacity() float64 {
	if e.Opacity == nil {
		return 1
	}
	o := finite(*e.Opacity, 1)
	switch {
	case o < 0:
		return 0
	case o > 1:
		return 1
	}
	return o
}

// ContentMatches reports whether the content payload belongs to the
// element's declared type.
func (e Element) ContentMatches() bool {
	return e.Content != nil && e.Content.ElementType() == e.Type
}

// Clone returns a deep copy of the element.
func (e Element) Clone() Element {
	out := e
	if e.Opacity != nil {
		o := *e.Opacity
		out.Opacity = &o
	}
	if e.Visible != nil {
		v := *e.Visible
		out.Visible = &v
	}
	if e.Content != nil {
		out.Content = e.Content.cloneContent()
	}
	out.Style = Style{}.Apply(e.Style)
	return out
}

// WithBox returns a copy of the element moved and resized to b.
func (e Element) WithBox(b Box) Element {
	out := e.Clone()
	out.X, out.Y, out.Width, out.Height = b.X, b.Y, b.Width, b.Height
	return out
}

// WithStyle returns a copy of the element with patch applied to its style.
func (e Element) WithStyle(patch Style) Element {
	out := e.Clone()
	out.Style = e.Style.Apply(patch)
	return out
}

// WithContent returns a copy of the element carrying c.
func (e Element) WithContent(c Content) Element {
	out := e.Clone()
	if c != nil {
		out.Content = c.cloneContent()
	} else {
		out.Content = nil
	}
	return out
}

type elementJSON struct {
	ID       string          `json:"id"`
	Type     ElementType     `json:"type"`
	X        float64         `json:"x"`
	Y        float64         `json:"y"`
	Width    float64         `json:"width"`
	Height   float64         `json:"height"`
	Rotation float64         `json:"rotation"`
	Opacity  *float64        `json:"opacity"`
	Visible  *bool           `json:"visible"`
	Locked   bool            `json:"locked"`
	Content  json.RawMessage `json:"content"`
	Style    Style           `json:"style"`
}

// UnmarshalJSON decodes an element and dispatches its content on "type".
// Content that does not decode into the payload of the declared type is
// left nil, so one malformed element does not fail a whole slide.
func (e *Element) UnmarshalJSON(data []byte) error {
	var raw elementJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode element: %w", err)
	}
	*e = Element{
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
		Style:    raw.Style,
	}
	e.Content = decodeContent(raw.Type, raw.Content)
	return nil
}

// contentKeys lists, per element type, the keys of which a content payload
// must carry at least one. Other keys are ignored.
var contentKeys = map[ElementType][]string{
	ElementText:  {"text", "placeholder"},
	ElementBlurb: {"text", "placeholder", "tailPosition"},
	ElementImage: {"src"},
	ElementShape: {"shape"},
	ElementLine:  {"x1", "y1", "x2", "y2"},
	ElementIcon:  {"iconId"},
	ElementTable: {"rows", "columns"},
}

func decodeContent(t ElementType, raw json.RawMessage) Content {
	c := newContent(t)
	if c == nil || len(raw) == 0 {
		return nil
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return nil
	}
	found := false
	for _, k := range contentKeys[t] {
		if _, ok := fields[k]; ok {
			found = true
			break
		}
	}
	if !found {
		return nil
	}
	if err := json.Unmarshal(raw, c); err != nil {
		return nil
	}
	return c
}

// Slide is an ordered list of elements plus a background.
type Slide struct {
	ID         string    `json:"id"`
	Width      float64   `json:"width,omitempty"`  // design units, default ReferenceWidth
	Height     float64   `json:"height,omitempty"` // design units, default ReferenceHeight
	Background string    `json:"background,omitempty"`
	Elements   []Element `json:"elements"`
}

// CanvasSize returns the slide size in design units.
func (s Slide) CanvasSize() Size {
	w, h := s.Width, s.Height
	if w <= 0 || finite(w, 0) == 0 {
		w = ReferenceWidth
	}
	if h <= 0 || finite(h, 0) == 0 {
		h = ReferenceHeight
	}
	return Size{Width: w, Height: h}
}

// Element returns the element with the given id.
func (s Slide) Element(id string) (Element, bool) {
	for _, el := range s.Elements {
		if el.ID == id {
			return el, true
		}
	}
	return Element{}, false
}

// WithElement returns a copy of the slide where the element with el.ID is
// replaced by el, or el is appended when no such element exists.
func (s Slide) WithElement(el Element) Slide {
	out := s.Clone()
	for i := range out.Elements {
		if out.Elements[i].ID == el.ID {
			out.Elements[i] = el.Clone()
			return out
		}
	}
	out.Elements = append(out.Elements, el.Clone())
	return out
}

// RemoveElement returns a copy of the slide without the element id.
func (s Slide) RemoveElement(id string) Slide {
	out := s
	out.Elements = make([]Element, 0, len(s.Elements))
	for _, el := range s.Elements {
		if el.ID != id {
			out.Elements = append(out.Elements, el.Clone())
		}
	}
	return out
}

// Clone returns a deep copy of the slide.
func (s Slide) Clone() Slide {
	out := s
	out.Elements = make([]Element, len(s.Elements))
	for i, el := range s.Elements {
		out.Elements[i] = el.Clone()
	}
	return out
}

// PaintOrder returns the elements in the order they must be painted: list
// order, stably re-sorted by an explicit zIndex (unset counts as 0).
func (s Slide) PaintOrder() []Element {
	out := make([]Element, len(s.Elements))
	copy(out, s.Elements)
	sort.SliceStable(out, func(i, j int) bool {
		return zIndex(out[i]) < zIndex(out[j])
	})
	return out
}

func zIndex(e Element) int {
	if e.Style.ZIndex == nil {
		return 0
	}
	return *e.Style.ZIndex
}
