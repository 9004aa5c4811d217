package goslide

import (
	"encoding/json"
	"fmt"
)

// OpKind identifies the kind of a draw operation.
type OpKind string

const (
	OpRect    OpKind = "rect"
	OpEllipse OpKind = "ellipse"
	OpPolygon OpKind = "polygon"
	OpPath    OpKind = "path"
	OpLine    OpKind = "line"
	OpText    OpKind = "text"
	OpImage   OpKind = "image"
)

// DrawOp is a backend-agnostic drawing instruction with fully resolved
// pixel geometry. Backends type-switch on the concrete op.
type DrawOp interface {
	Kind() OpKind
	Common() OpBase
}

// OpBase holds the attributes shared by every op. Rotation is in degrees
// clockwise around Pivot and applies to the op's whole geometry.
type OpBase struct {
	ElementID string  `json:"elementId,omitempty"`
	Opacity   float64 `json:"opacity"`
	Rotation  float64 `json:"rotation,omitempty"`
	Pivot     Point   `json:"pivot"`
}

// Common returns the shared attributes.
func (b OpBase) Common() OpBase { return b }

// ColorStop is a resolved gradient stop; Offset is 0..1.
type ColorStop struct {
	Offset float64 `json:"offset"`
	Color  Color   `json:"color"`
}

// LinearGradient is a gradient in pixel coordinates.
type LinearGradient struct {
	Start Point       `json:"start"`
	End   Point       `json:"end"`
	Stops []ColorStop `json:"stops"`
}

// Paint is a solid color or a linear gradient.
type Paint struct {
	Color    *Color          `json:"color,omitempty"`
	Gradient *LinearGradient `json:"gradient,omitempty"`
}

// SolidPaint returns a Paint of a single color.
func SolidPaint(c Color) *Paint {
	return &Paint{Color: &c}
}

// Stroke describes an outline.
type Stroke struct {
	Color Color     `json:"color"`
	Width float64   `json:"width"`
	Dash  []float64 `json:"dash,omitempty"`
	Cap   LineCap   `json:"cap,omitempty"`
}

// RectOp fills and/or strokes a rectangle with optional rounded corners.
type RectOp struct {
	OpBase
	Box    Box     `json:"box"`
	Radii  Corners `json:"radii"`
	Fill   *Paint  `json:"fill,omitempty"`
	Stroke *Stroke `json:"stroke,omitempty"`
}

func (RectOp) Kind() OpKind { return OpRect }

// EllipseOp fills and/or strokes an ellipse.
type EllipseOp struct {
	OpBase
	Center Point   `json:"center"`
	RX     float64 `json:"rx"`
	RY     float64 `json:"ry"`
	Fill   *Paint  `json:"fill,omitempty"`
	Stroke *Stroke `json:"stroke,omitempty"`
}

func (EllipseOp) Kind() OpKind { return OpEllipse }

// PolygonOp fills and/or strokes a closed polygon.
type PolygonOp struct {
	OpBase
	Points []Point `json:"points"`
	Fill   *Paint  `json:"fill,omitempty"`
	Stroke *Stroke `json:"stroke,omitempty"`
}

func (PolygonOp) Kind() OpKind { return OpPolygon }

// NativePath is the unscaled source of a PathOp, for backends that draw
// the original path under a transform. Under the transform
// translate(Origin)·scale(ScaleX, ScaleY)·translate(-ViewBox.Min), a stroke
// of StrokeWidth has the same visible width as the PathOp stroke.
type NativePath struct {
	Commands    []PathCommand `json:"commands"`
	ViewBox     ViewBox       `json:"viewBox"`
	Origin      Point         `json:"origin"`
	ScaleX      float64       `json:"scaleX"`
	ScaleY      float64       `json:"scaleY"`
	StrokeWidth float64       `json:"strokeWidth,omitempty"`
}

// PathOp fills and/or strokes a path in pixel coordinates.
type PathOp struct {
	OpBase
	Commands []PathCommand `json:"commands"`
	Fill     *Paint        `json:"fill,omitempty"`
	Stroke   *Stroke       `json:"stroke,omitempty"`
	Native   *NativePath   `json:"native,omitempty"`
}

func (PathOp) Kind() OpKind { return OpPath }

// LineOp strokes a straight segment.
type LineOp struct {
	OpBase
	From   Point  `json:"from"`
	To     Point  `json:"to"`
	Stroke Stroke `json:"stroke"`
}

func (LineOp) Kind() OpKind { return OpLine }

// PositionedLine is a line of text placed in pixel coordinates. X is the
// left edge of the line after alignment, Top the top of its line box and
// Baseline the text baseline.
type PositionedLine struct {
	Text     string  `json:"text"`
	X        float64 `json:"x"`
	Top      float64 `json:"top"`
	Baseline float64 `json:"baseline"`
	Width    float64 `json:"width"`
}

// TextOp draws laid-out text runs. Font.Size and LetterSpacing are in
// pixels.
type TextOp struct {
	OpBase
	Box           Box              `json:"box"`
	Lines         []PositionedLine `json:"lines"`
	Font          FontSpec         `json:"font"`
	Color         Color            `json:"color"`
	Align         TextAlign        `json:"align"`
	LetterSpacing float64          `json:"letterSpacing,omitempty"`
}

func (TextOp) Kind() OpKind { return OpText }

// ImageOp draws an image. Box is the destination, Clip the element box the
// image is clipped to, and SrcRect (natural pixels) the part of the image
// to draw; nil means the whole image.
type ImageOp struct {
	OpBase
	Src           string    `json:"src"`
	Box           Box       `json:"box"`
	Clip          Box       `json:"clip"`
	Radii         Corners   `json:"radii"`
	SrcRect       *Box      `json:"srcRect,omitempty"`
	Fit           ObjectFit `json:"fit"`
	NaturalWidth  int       `json:"naturalWidth,omitempty"`
	NaturalHeight int       `json:"naturalHeight,omitempty"`
}

func (ImageOp) Kind() OpKind { return OpImage }

// MarshalOps encodes ops as a JSON array of {"kind", "op"} objects.
func MarshalOps(ops []DrawOp) ([]byte, error) {
	type tagged struct {
		Kind OpKind `json:"kind"`
		Op   DrawOp `json:"op"`
	}
	out := make([]tagged, len(ops))
	for i, op := range ops {
		out[i] = tagged{Kind: op.Kind(), Op: op}
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode draw ops: %w", err)
	}
	return data, nil
}
