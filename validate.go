package goslide

import (
	"fmt"
	"math"
	"strings"
)

// Validate checks the slide for structural issues and returns an error
// describing all problems found, or nil if the slide is valid.
// Rendering does not require a valid slide; malformed elements are skipped.
func (s Slide) Validate() error {
	var errs []string

	if s.Width < 0 || s.Height < 0 {
		errs = append(errs, "slide size must not be negative")
	}
	if s.Background != "" && ParseBackground(s.Background).Kind == BackgroundNone {
		errs = append(errs, "unrecognised background: "+s.Background)
	}

	seen := make(map[string]int, len(s.Elements))
	for i, el := range s.Elements {
		prefix := fmt.Sprintf("element %d", i+1)
		if el.ID == "" {
			errs = append(errs, prefix+": id is empty")
		} else {
			prefix = fmt.Sprintf("element %d (%s)", i+1, el.ID)
			if first, dup := seen[el.ID]; dup {
				errs = append(errs, fmt.Sprintf("%s: duplicate id, first used by element %d", prefix, first))
			} else {
				seen[el.ID] = i + 1
			}
		}
		for _, e := range validateElement(el) {
			errs = append(errs, prefix+": "+e)
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("validation failed:\n  %s", strings.Join(errs, "\n  "))
}

func validateElement(el Element) []string {
	var errs []string
	for _, v := range []float64{el.X, el.Y, el.Width, el.Height, el.Rotation} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			errs = append(errs, "geometry is not finite")
			break
		}
	}
	if el.Width < 0 {
		errs = append(errs, "width is negative")
	}
	if el.Height < 0 {
		errs = append(errs, "height is negative")
	}
	if el.Opacity != nil && (*el.Opacity < 0 || *el.Opacity > 1) {
		errs = append(errs, "opacity must be within [0, 1]")
	}
	if el.Content == nil {
		return append(errs, "content is missing or undecodable")
	}
	if !el.ContentMatches() {
		return append(errs, fmt.Sprintf("content is %s, element type is %s", el.Content.ElementType(), el.Type))
	}

	switch c := el.Content.(type) {
	case *ShapeContent:
		switch c.Shape {
		case ShapeRectangle, ShapeCircle, ShapeTriangle, ShapeStar:
		case ShapeSVG:
			if _, err := ParsePath(c.Path); err != nil {
				errs = append(errs, "path data: "+err.Error())
			}
		default:
			errs = append(errs, "unknown shape kind: "+string(c.Shape))
		}
	case *TableContent:
		if c.Rows <= 0 || c.Columns <= 0 {
			errs = append(errs, "table must have at least 1 row and 1 column")
			break
		}
		if c.Rows > MaxTableTracks || c.Columns > MaxTableTracks {
			errs = append(errs, fmt.Sprintf("table exceeds %d rows or columns", MaxTableTracks))
		}
		if !c.SizesValid(el.Width, el.Height) {
			errs = append(errs, "table column widths or row heights do not sum to the element size")
		}
		if len(c.Cells) > c.Rows {
			errs = append(errs, "table has more rows of cells than declared")
		}
	case *IconContent:
		if _, ok := DefaultIcons().Lookup(c.IconID); !ok {
			errs = append(errs, "unknown icon: "+c.IconID)
		}
	case *ImageContent:
		if strings.TrimSpace(c.Src) == "" {
			errs = append(errs, "image source is empty")
		}
	}
	if st := el.Style; st.BackgroundColor != "" && ParseBackground(st.BackgroundColor).Kind == BackgroundNone {
		errs = append(errs, "invalid background color: "+st.BackgroundColor)
	}
	return errs
}
