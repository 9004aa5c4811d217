package goslide

// Content is the type-specific payload of an element. The set of
// implementations is closed; each reports the element type it belongs to.
type Content interface {
	ElementType() ElementType
	cloneContent() Content
}

// TextContent is the payload of a text element.
type TextContent struct {
	Text        string `json:"text"`
	Placeholder string `json:"placeholder,omitempty"`
}

func (*TextContent) ElementType() ElementType { return ElementText }

func (c *TextContent) cloneContent() Content { v := *c; return &v }

// DisplayText returns the text to draw: the real text, or the placeholder
// when no text is present.
func (c *TextContent) DisplayText() string {
	if c.Text != "" {
		return c.Text
	}
	return c.Placeholder
}

// TailPosition selects the edge and offset of a speech-bubble tail.
type TailPosition string

const (
	TailBottomLeft   TailPosition = "bottom-left"
	TailBottomCenter TailPosition = "bottom-center"
	TailBottomRight  TailPosition = "bottom-right"
	TailTopLeft      TailPosition = "top-left"
	TailTopCenter    TailPosition = "top-center"
	TailTopRight     TailPosition = "top-right"
	TailLeftCenter   TailPosition = "left-center"
	TailRightCenter  TailPosition = "right-center"
)

// BlurbContent is the payload of a speech-bubble element.
type BlurbContent struct {
	Text         string       `json:"text"`
	Placeholder  string       `json:"placeholder,omitempty"`
	TailPosition TailPosition `json:"tailPosition,omitempty"`
}

func (*BlurbContent) ElementType() ElementType { return ElementBlurb }

func (c *BlurbContent) cloneContent() Content { v := *c; return &v }

// DisplayText returns the text to draw inside the bubble.
func (c *BlurbContent) DisplayText() string {
	if c.Text != "" {
		return c.Text
	}
	return c.Placeholder
}

// ImageContent is the payload of an image element.
type ImageContent struct {
	Src string `json:"src"`
	Alt string `json:"alt,omitempty"`
}

func (*ImageContent) ElementType() ElementType { return ElementImage }

func (c *ImageContent) cloneContent() Content { v := *c; return &v }

// ShapeKind is the geometric kind of a shape element.
type ShapeKind string

const (
	ShapeRectangle ShapeKind = "rectangle"
	ShapeCircle    ShapeKind = "circle"
	ShapeTriangle  ShapeKind = "triangle"
	ShapeStar      ShapeKind = "star"
	ShapeSVG       ShapeKind = "svg"
)

// ViewBox is the coordinate space of SVG path data.
type ViewBox struct {
	MinX   float64 `json:"minX"`
	MinY   float64 `json:"minY"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// DefaultViewBox is the native 24×24 box of registry icons.
var DefaultViewBox = ViewBox{Width: 24, Height: 24}

// ShapeContent is the payload of a shape element.
type ShapeContent struct {
	Shape   ShapeKind `json:"shape"`
	Path    string    `json:"path,omitempty"`
	ViewBox *ViewBox  `json:"viewBox,omitempty"`
}

func (*ShapeContent) ElementType() ElementType { return ElementShape }

func (c *ShapeContent) cloneContent() Content {
	v := *c
	if c.ViewBox != nil {
		vb := *c.ViewBox
		v.ViewBox = &vb
	}
	return &v
}

// LineCap is the end style of a line.
type LineCap string

const (
	CapButt   LineCap = "butt"
	CapRound  LineCap = "round"
	CapSquare LineCap = "square"
)

// LineContent is the payload of a line element. Endpoints are relative to
// the element box.
type LineContent struct {
	X1         float64 `json:"x1"`
	Y1         float64 `json:"y1"`
	X2         float64 `json:"x2"`
	Y2         float64 `json:"y2"`
	Cap        LineCap `json:"cap,omitempty"`
	ArrowStart bool    `json:"arrowStart,omitempty"`
	ArrowEnd   bool    `json:"arrowEnd,omitempty"`
}

func (*LineContent) ElementType() ElementType { return ElementLine }

func (c *LineContent) cloneContent() Content { v := *c; return &v }

// IconContent is the payload of an icon element.
type IconContent struct {
	IconID string `json:"iconId"`
}

func (*IconContent) ElementType() ElementType { return ElementIcon }

func (c *IconContent) cloneContent() Content { v := *c; return &v }

// CellStyle holds per-cell overrides.
type CellStyle struct {
	BackgroundColor string    `json:"backgroundColor,omitempty"`
	Color           string    `json:"color,omitempty"`
	FontSize        float64   `json:"fontSize,omitempty"`
	FontWeight      string    `json:"fontWeight,omitempty"`
	TextAlign       TextAlign `json:"textAlign,omitempty"`
}

// TableCell is one cell of a table.
type TableCell struct {
	Text  string     `json:"text"`
	Style *CellStyle `json:"style,omitempty"`
}

// TableContent is the payload of a table element.
type TableContent struct {
	Rows         int           `json:"rows"`
	Columns      int           `json:"columns"`
	Cells        [][]TableCell `json:"cells"`
	ColumnWidths []float64     `json:"columnWidths,omitempty"`
	RowHeights   []float64     `json:"rowHeights,omitempty"`
	HeaderRow    bool          `json:"headerRow,omitempty"`
	HeaderColumn bool          `json:"headerColumn,omitempty"`
}

func (*TableContent) ElementType() ElementType { return ElementTable }

func (c *TableContent) cloneContent() Content {
	v := *c
	v.Cells = make([][]TableCell, len(c.Cells))
	for i, row := range c.Cells {
		v.Cells[i] = make([]TableCell, len(row))
		for j, cell := range row {
			v.Cells[i][j] = cell
			if cell.Style != nil {
				st := *cell.Style
				v.Cells[i][j].Style = &st
			}
		}
	}
	v.ColumnWidths = append([]float64(nil), c.ColumnWidths...)
	v.RowHeights = append([]float64(nil), c.RowHeights...)
	return &v
}

// Cell returns the cell at (r, c), or an empty cell when the grid is ragged.
func (c *TableContent) Cell(r, col int) TableCell {
	if r < 0 || r >= len(c.Cells) || col < 0 || col >= len(c.Cells[r]) {
		return TableCell{}
	}
	return c.Cells[r][col]
}

// newContent returns an empty payload for the element type, or nil when the
// type is unknown.
func newContent(t ElementType) Content {
	switch t {
	case ElementText:
		return &TextContent{}
	case ElementBlurb:
		return &BlurbContent{}
	case ElementImage:
		return &ImageContent{}
	case ElementShape:
		return &ShapeContent{}
	case ElementLine:
		return &LineContent{}
	case ElementIcon:
		return &IconContent{}
	case ElementTable:
		return &TableContent{}
	}
	return nil
}
