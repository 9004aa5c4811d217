package goslide

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vocabularyData() map[string]any {
	return map[string]any{
		"title": "Animals",
		"vocabulary": []any{
			map[string]any{"word": "cat", "meaning": "feline"},
			map[string]any{"word": "dog", "meaning": "canine"},
		},
		"count": 2.0,
		"ratio": 0.25,
		"tags":  []any{"pets", "<home>"},
		"rows": []any{
			[]any{"Word", "Meaning"},
			[]any{"cat", "feline"},
			[]any{"dog", "canine"},
		},
	}
}

func testPopulateOptions() *PopulateOptions {
	n := 0
	opts := DefaultPopulateOptions()
	opts.NewID = func() string {
		n++
		return "id-" + strings.Repeat("x", n)
	}
	opts.Logger = quietLogger()
	return opts
}

func TestResolvePath(t *testing.T) {
	data := vocabularyData()
	tests := []struct {
		path string
		want any
		ok   bool
	}{
		{"title", "Animals", true},
		{"vocabulary[0]", "cat", true},
		{"vocabulary[1].meaning", "canine", true},
		{"vocabulary[0].word", "cat", true},
		{" vocabulary[ 1 ] ", "dog", true},
		{"vocabulary.1.word", "dog", true},
		{"vocabulary['0'].meaning", "feline", true},
		{"vocabulary[2]", nil, false},
		{"vocabulary[-1]", nil, false},
		{"missing.path", nil, false},
		{"title.length", nil, false},
		{"", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, ok := ResolvePath(data, tt.path)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolvePath_NilIsMissing(t *testing.T) {
	_, ok := ResolvePath(map[string]any{"a": nil}, "a")
	assert.False(t, ok)
	_, ok = ResolvePath(nil, "a")
	assert.False(t, ok)
}

func TestResolvePath_Structs(t *testing.T) {
	type entry struct {
		Word    string `json:"word"`
		Meaning string
		secret  string
	}
	data := &struct {
		Entries []entry          `json:"entries"`
		Extra   map[string]int   `json:"extra"`
		Grid    [2][2]string     `json:"grid"`
		Nested  *map[string]bool `json:"nested"`
	}{
		Entries: []entry{{Word: "owl", Meaning: "bird", secret: "x"}},
		Extra:   map[string]int{"n": 7},
		Grid:    [2][2]string{{"a", "b"}, {"c", "d"}},
	}
	v, ok := ResolvePath(data, "entries[0]")
	require.True(t, ok)
	assert.Equal(t, "owl", v)

	v, ok = ResolvePath(data, "entries[0].meaning")
	require.True(t, ok)
	assert.Equal(t, "bird", v)

	v, ok = ResolvePath(data, "extra.n")
	require.True(t, ok)
	assert.Equal(t, 7, v)

	v, ok = ResolvePath(data, "grid[1][0]")
	require.True(t, ok)
	assert.Equal(t, "c", v)

	_, ok = ResolvePath(data, "entries[0].secret")
	assert.False(t, ok)
	_, ok = ResolvePath(data, "nested.flag")
	assert.False(t, ok)
}

func TestSubstitute(t *testing.T) {
	data := vocabularyData()
	assert.Equal(t, "Topic: Animals", Substitute("Topic: {{title}}", data))
	assert.Equal(t, "cat means feline", Substitute("{{vocabulary[0]}} means {{ vocabulary[0].meaning }}", data))
	assert.Equal(t, "2 items, 0.25", Substitute("{{count}} items, {{ratio}}", data))
	assert.Equal(t, `["pets","<home>"]`, Substitute("{{tags}}", data))
	assert.Equal(t, "no tokens", Substitute("no tokens", data))
}

func TestSubstitute_UnresolvedTokensStay(t *testing.T) {
	data := vocabularyData()
	in := "Hello {{ missing.path }} and {{vocabulary[9]}} / {{title}}"
	assert.Equal(t, "Hello {{ missing.path }} and {{vocabulary[9]}} / Animals", Substitute(in, data))
	assert.Equal(t, "{{title}}", Substitute("{{title}}", nil))
}

func TestStringify(t *testing.T) {
	assert.Equal(t, "3", stringify(3.0))
	assert.Equal(t, "1.5", stringify(float32(1.5)))
	assert.Equal(t, "42", stringify(42))
	assert.Equal(t, "7", stringify(uint8(7)))
	assert.Equal(t, "true", stringify(true))
	assert.Equal(t, "", stringify(nil))
	assert.Equal(t, "12.50", stringify(json.Number("12.50")))
	assert.Equal(t, `{"a":1}`, stringify(map[string]int{"a": 1}))
}

func TestPopulateTemplate_TextKeepsWidthAndRemeasures(t *testing.T) {
	tpl := SlideTemplate{
		ID: "tpl",
		Elements: []TemplateElement{{
			ID: "title", Type: ElementText,
			X: ptr(40.0), Y: ptr(30.0), Width: ptr(120.0), Height: ptr(20.0),
			Content: &TextContent{Text: "{{vocabulary[0].meaning}} is a word that will certainly wrap"},
		}},
	}
	opts := testPopulateOptions()
	s := PopulateTemplate(tpl, vocabularyData(), opts)
	require.Len(t, s.Elements, 1)
	el := s.Elements[0]

	text := el.Content.(*TextContent).Text
	assert.Equal(t, "feline is a word that will certainly wrap", text)
	assert.Equal(t, 120.0, el.Width)
	assert.Equal(t, 40.0, el.X)

	w := 120.0
	want := NewTextMeasurer(nil).Measure(text, TextStyleOf(Style{}, opts.Theme), &w).Height
	assert.Equal(t, want, el.Height)
	assert.Greater(t, el.Height, 20.0)
}

func TestPopulateTemplate_DoesNotMutateTemplate(t *testing.T) {
	content := &TextContent{Text: "{{title}}"}
	style := &Style{Color: "#ff0000"}
	tpl := SlideTemplate{
		Background: "{{bg}}",
		Elements:   []TemplateElement{{ID: "t", Type: ElementText, Content: content, Style: style}},
	}
	s := PopulateTemplate(tpl, map[string]any{"title": "Done", "bg": "#000000"}, testPopulateOptions())

	assert.Equal(t, "{{title}}", content.Text)
	assert.Equal(t, "{{bg}}", tpl.Background)
	assert.Equal(t, "Done", s.Elements[0].Content.(*TextContent).Text)
	assert.Equal(t, "#000000", s.Background)

	s.Elements[0].Style.Color = "#00ff00"
	assert.Equal(t, "#ff0000", style.Color)
}

func TestPopulateTemplate_DataKeys(t *testing.T) {
	tpl := SlideTemplate{
		Elements: []TemplateElement{
			{ID: "word", Type: ElementText, Content: &TextContent{Text: "placeholder"}},
			{ID: "pic", Type: ElementImage, Content: &ImageContent{Src: "default.png"}},
			{ID: "icon", Type: ElementIcon, Content: &IconContent{IconID: "help-circle"}},
			{ID: "grid", Type: ElementTable, Width: ptr(300.0), Height: ptr(90.0), Content: &TableContent{Rows: 1, Columns: 1, RowHeights: []float64{90}}},
			{ID: "missing", Type: ElementText, Content: &TextContent{Text: "kept"}},
		},
		DataKeys: map[string]string{
			"word":    "vocabulary[1]",
			"pic":     "image",
			"icon":    "icon",
			"grid":    "rows",
			"missing": "nope",
		},
	}
	data := vocabularyData()
	data["image"] = "dog.png"
	data["icon"] = "star"
	s := PopulateTemplate(tpl, data, testPopulateOptions())

	byID := func(id string) Element {
		el, ok := s.Element(id)
		require.True(t, ok, id)
		return el
	}
	assert.Equal(t, "dog", byID("word").Content.(*TextContent).Text)
	assert.Equal(t, "dog.png", byID("pic").Content.(*ImageContent).Src)
	assert.Equal(t, "star", byID("icon").Content.(*IconContent).IconID)
	assert.Equal(t, "kept", byID("missing").Content.(*TextContent).Text)

	tbl := byID("grid").Content.(*TableContent)
	assert.Equal(t, 3, tbl.Rows)
	assert.Equal(t, 2, tbl.Columns)
	assert.Equal(t, "feline", tbl.Cell(1, 1).Text)
	assert.Nil(t, tbl.RowHeights, "stale row heights are dropped")
	assert.Equal(t, 90.0, byID("grid").Height)
}

func TestPopulateTemplate_TableCellSubstitution(t *testing.T) {
	tpl := SlideTemplate{Elements: []TemplateElement{{
		ID: "t", Type: ElementTable,
		Content: &TableContent{Rows: 1, Columns: 2, Cells: [][]TableCell{{{Text: "{{vocabulary[0]}}"}, {Text: "{{vocabulary[0].meaning}}"}}}},
	}}}
	s := PopulateTemplate(tpl, vocabularyData(), testPopulateOptions())
	tbl := s.Elements[0].Content.(*TableContent)
	assert.Equal(t, "cat", tbl.Cell(0, 0).Text)
	assert.Equal(t, "feline", tbl.Cell(0, 1).Text)
}

func TestPopulateTemplate_BlurbHeightIncludesTail(t *testing.T) {
	tpl := SlideTemplate{Elements: []TemplateElement{
		{ID: "down", Type: ElementBlurb, Width: ptr(200.0), Content: &BlurbContent{Text: "{{title}}"}},
		{ID: "side", Type: ElementBlurb, Width: ptr(200.0), Content: &BlurbContent{Text: "{{title}}", TailPosition: TailLeftCenter}},
	}}
	opts := testPopulateOptions()
	s := PopulateTemplate(tpl, vocabularyData(), opts)
	line := TextStyleOf(Style{}, opts.Theme).LineAdvance()

	assert.InDelta(t, line+2*defaultBlurbPadding+BlurbTailSize, s.Elements[0].Height, 1e-9)
	assert.InDelta(t, line+2*defaultBlurbPadding, s.Elements[1].Height, 1e-9)
	assert.Equal(t, 200.0, s.Elements[1].Width)
}

func TestPopulateTemplate_DefaultsAndIDs(t *testing.T) {
	tpl := SlideTemplate{
		Width: 1024, Height: 768,
		Elements: []TemplateElement{
			{Type: ElementShape, Content: &ShapeContent{Shape: ShapeCircle}},
			{ID: "static", Type: ElementText, Height: ptr(50.0), Content: &TextContent{Text: "Static"}},
			{ID: "empty", Type: ElementIcon},
		},
	}
	s := PopulateTemplate(tpl, nil, testPopulateOptions())
	assert.Equal(t, "id-x", s.ID)
	assert.Equal(t, 1024.0, s.Width)
	require.Len(t, s.Elements, 3)

	shape := s.Elements[0]
	assert.Equal(t, "id-xx", shape.ID)
	assert.Equal(t, Box{Width: 200, Height: 100}, shape.Box())

	assert.Equal(t, 50.0, s.Elements[1].Height, "unchanged text keeps its height")
	assert.IsType(t, &IconContent{}, s.Elements[2].Content)
}

func TestPopulateTemplate_DefaultIDsAreULIDs(t *testing.T) {
	s := PopulateTemplate(SlideTemplate{}, nil, nil)
	assert.Len(t, s.ID, 26)
}

func TestSlideTemplate_UnmarshalJSON(t *testing.T) {
	raw := `{
		"id": "vocab",
		"elements": [
			{"id": "t", "type": "text", "width": 300, "content": {"text": "{{title}}"}},
			{"id": "b", "type": "blurb", "content": {"text": "hi", "tailPosition": "top-center"}},
			{"id": "x", "type": "text", "content": {"src": "wrong.png"}}
		],
		"dataKeys": {"b": "vocabulary[0]"}
	}`
	var tpl SlideTemplate
	require.NoError(t, json.Unmarshal([]byte(raw), &tpl))
	require.Len(t, tpl.Elements, 3)
	assert.Equal(t, 300.0, *tpl.Elements[0].Width)
	assert.Nil(t, tpl.Elements[0].X)
	assert.Equal(t, TailTopCenter, tpl.Elements[1].Content.(*BlurbContent).TailPosition)
	assert.Nil(t, tpl.Elements[2].Content)

	s := PopulateTemplate(tpl, vocabularyData(), testPopulateOptions())
	assert.Equal(t, "Animals", s.Elements[0].Content.(*TextContent).Text)
	assert.Equal(t, "cat", s.Elements[1].Content.(*BlurbContent).Text)
	assert.Equal(t, "", s.Elements[2].Content.(*TextContent).Text)
}
