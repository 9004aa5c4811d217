package goslide

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const slideJSON = `{
	"id": "s1",
	"background": "#f8fafc",
	"elements": [
		{"id": "t", "type": "text", "x": 10, "y": 10, "width": 300, "height": 40,
		 "content": {"text": "Hello"}, "style": {"fontSize": 24, "zIndex": 3}},
		{"id": "b", "type": "blurb", "x": 50, "y": 80, "width": 200, "height": 100,
		 "content": {"text": "Hi!", "tailPosition": "bottom-right"}, "style": {}},
		{"id": "bad", "type": "icon", "x": 0, "y": 0, "width": 24, "height": 24,
		 "content": {"shape": "circle"}, "style": {}},
		{"id": "tbl", "type": "table", "x": 0, "y": 200, "width": 300, "height": 60,
		 "content": {"rows": 1, "columns": 2, "cells": [[{"text": "a"}, {"text": "b", "style": {"color": "#ff0000"}}]]},
		 "style": {}}
	]
}`

func TestSlide_UnmarshalJSON(t *testing.T) {
	var s Slide
	require.NoError(t, json.Unmarshal([]byte(slideJSON), &s))
	require.Len(t, s.Elements, 4)

	assert.Equal(t, "Hello", s.Elements[0].Content.(*TextContent).Text)
	assert.Equal(t, TailBottomRight, s.Elements[1].Content.(*BlurbContent).TailPosition)
	assert.Nil(t, s.Elements[2].Content, "content of the wrong shape is dropped")
	assert.False(t, s.Elements[2].ContentMatches())

	tbl := s.Elements[3].Content.(*TableContent)
	assert.Equal(t, "#ff0000", tbl.Cell(0, 1).Style.Color)
	assert.Equal(t, Size{Width: ReferenceWidth, Height: ReferenceHeight}, s.CanvasSize())
}

func TestDecodeContent(t *testing.T) {
	tests := []struct {
		name string
		typ  ElementType
		raw  string
		want Content
	}{
		{"extra keys are ignored", ElementText, `{"text": "Hi", "html": "<b>Hi</b>"}`, &TextContent{Text: "Hi"}},
		{"placeholder only", ElementText, `{"placeholder": "Type here"}`, &TextContent{Placeholder: "Type here"}},
		{"shape", ElementShape, `{"shape": "star", "fill": "gold"}`, &ShapeContent{Shape: ShapeStar}},
		{"table", ElementTable, `{"rows": 1, "columns": 1, "caption": "x"}`, &TableContent{Rows: 1, Columns: 1}},
		{"line", ElementLine, `{"x2": 10}`, &LineContent{X2: 10}},
		{"icon without iconId", ElementIcon, `{"shape": "circle"}`, nil},
		{"image without src", ElementImage, `{"alt": "cat"}`, nil},
		{"table without size", ElementTable, `{"cells": []}`, nil},
		{"wrong field type", ElementText, `{"text": 5}`, nil},
		{"not an object", ElementText, `"hello"`, nil},
		{"null", ElementText, `null`, nil},
		{"unknown type", "chart", `{"text": "x"}`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := decodeContent(tt.typ, json.RawMessage(tt.raw))
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSlide_PaintOrderIsStable(t *testing.T) {
	var s Slide
	require.NoError(t, json.Unmarshal([]byte(slideJSON), &s))
	var ids []string
	for _, el := range s.PaintOrder() {
		ids = append(ids, el.ID)
	}
	assert.Equal(t, []string{"b", "bad", "tbl", "t"}, ids)
	assert.Equal(t, "t", s.Elements[0].ID, "slide order is untouched")
}

func TestSlide_ImmutableUpdates(t *testing.T) {
	var s Slide
	require.NoError(t, json.Unmarshal([]byte(slideJSON), &s))

	el, ok := s.Element("t")
	require.True(t, ok)
	moved := el.WithBox(Box{X: 1, Y: 2, Width: 3, Height: 4}).WithStyle(Style{Color: "#000000"})
	next := s.WithElement(moved)

	orig, _ := s.Element("t")
	assert.Equal(t, 10.0, orig.X)
	assert.Empty(t, orig.Style.Color)
	updated, _ := next.Element("t")
	assert.Equal(t, 1.0, updated.X)
	assert.Equal(t, "#000000", updated.Style.Color)
	assert.Equal(t, 24.0, updated.Style.FontSize)

	next.Elements[3].Content.(*TableContent).Cells[0][0].Text = "changed"
	assert.Equal(t, "a", s.Elements[3].Content.(*TableContent).Cell(0, 0).Text)

	removed := s.RemoveElement("bad")
	assert.Len(t, removed.Elements, 3)
	assert.Len(t, s.Elements, 4)

	added := s.WithElement(Element{ID: "new", Type: ElementText, Content: &TextContent{}})
	assert.Len(t, added.Elements, 5)
}

func TestElement_EffectiveOpacity(t *testing.T) {
	assert.Equal(t, 1.0, Element{}.EffectiveOpacity())
	assert.Equal(t, 0.0, Element{Opacity: ptr(-1.0)}.EffectiveOpacity())
	assert.Equal(t, 1.0, Element{Opacity: ptr(2.0)}.EffectiveOpacity())
	assert.Equal(t, 0.3, Element{Opacity: ptr(0.3)}.EffectiveOpacity())
	assert.True(t, Element{}.IsVisible())
	assert.False(t, Element{Visible: ptr(false)}.IsVisible())
}

func TestSlide_Validate(t *testing.T) {
	var s Slide
	require.NoError(t, json.Unmarshal([]byte(slideJSON), &s))
	err := s.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "element 3 (bad): content is missing or undecodable")

	s = s.RemoveElement("bad")
	assert.NoError(t, s.Validate())
}

func TestSlide_ValidateReportsEveryProblem(t *testing.T) {
	s := Slide{
		Width:      -1,
		Background: "wallpaper",
		Elements: []Element{
			{ID: "a", Type: ElementShape, Width: -5, Height: 10, Opacity: ptr(1.5), Content: &ShapeContent{Shape: "hexagon"}},
			{ID: "a", Type: ElementIcon, Width: 10, Height: 10, Content: &IconContent{IconID: "unicorn"}},
			{Type: ElementImage, Width: 10, Height: 10, Content: &ImageContent{}},
			{ID: "t", Type: ElementTable, Width: 100, Height: 10, Content: &TableContent{Rows: 1, Columns: 2, ColumnWidths: []float64{10, 10}}},
			{ID: "p", Type: ElementShape, Width: 10, Height: 10, Content: &ShapeContent{Shape: ShapeSVG, Path: "M0 0 L"}},
			{ID: "m", Type: ElementLine, Width: 10, Height: 10, Content: &TextContent{}},
			{ID: "c", Type: ElementText, Width: 10, Height: 10, Content: &TextContent{}, Style: Style{BackgroundColor: "nope"}},
			{ID: "h", Type: ElementTable, Width: 10, Height: 10, Content: &TableContent{Rows: 5000, Columns: 1}},
		},
	}
	err := s.Validate()
	require.Error(t, err)
	msg := err.Error()
	for _, want := range []string{
		"slide size must not be negative",
		"unrecognised background: wallpaper",
		"element 1 (a): width is negative",
		"element 1 (a): opacity must be within [0, 1]",
		"element 1 (a): unknown shape kind: hexagon",
		"element 2 (a): duplicate id, first used by element 1",
		"element 2 (a): unknown icon: unicorn",
		"element 3: id is empty",
		"element 3: image source is empty",
		"element 4 (t): table column widths or row heights do not sum",
		"element 5 (p): path data:",
		"element 6 (m): content is text, element type is line",
		"element 7 (c): invalid background color: nope",
		"element 8 (h): table exceeds 256 rows or columns",
	} {
		assert.Contains(t, msg, want)
	}
}
