package goslide

import (
	"fmt"
	"math"
	"strconv"
)

// PathVerb is the kind of a normalized path command.
type PathVerb string

const (
	PathMoveTo  PathVerb = "M"
	PathLineTo  PathVerb = "L"
	PathCubicTo PathVerb = "C"
	PathQuadTo  PathVerb = "Q"
	PathClose   PathVerb = "Z"
)

// PathCommand is one absolute path command. Pts holds the control points
// followed by the end point: 1 for M/L, 2 for Q, 3 for C, none for Z.
type PathCommand struct {
	Verb PathVerb `json:"verb"`
	Pts  []Point  `json:"pts,omitempty"`
}

// ParsePath parses SVG path data into absolute commands. Relative commands,
// H/V, smooth curves and elliptical arcs are normalized to M, L, C, Q and Z.
// On malformed input the commands parsed so far are returned with an error.
func ParsePath(d string) ([]PathCommand, error) {
	p := &pathParser{s: d}
	return p.parse()
}

type pathParser struct {
	s   string
	i   int
	out []PathCommand

	cur, start Point
	lastCtrl   Point
	lastVerb   byte
}

func (p *pathParser) parse() ([]PathCommand, error) {
	var cmd byte
	for {
		p.skipSeparators()
		if p.i >= len(p.s) {
			return p.out, nil
		}
		c := p.s[p.i]
		if isCommandLetter(c) {
			cmd = c
			p.i++
		} else if cmd == 0 {
			return p.out, fmt.Errorf("path data must start with a command, got %q at %d", c, p.i)
		}
		if err := p.command(cmd); err != nil {
			return p.out, err
		}
		// Coordinates following a moveto are implicit linetos.
		switch cmd {
		case 'M':
			cmd = 'L'
		case 'm':
			cmd = 'l'
		case 'Z', 'z':
			cmd = 0
		}
	}
}

func isCommandLetter(c byte) bool {
	switch c | 0x20 {
	case 'm', 'l', 'h', 'v', 'c', 's', 'q', 't', 'a', 'z':
		return true
	}
	return false
}

func (p *pathParser) command(cmd byte) error {
	rel := cmd >= 'a'
	base := Point{}
	if rel {
		base = p.cur
	}
	upper := cmd &^ 0x20
	switch upper {
	case 'Z':
		p.emit(PathClose)
		p.cur = p.start
		p.lastCtrl = p.cur
	case 'M', 'L':
		pt, err := p.point(base)
		if err != nil {
			return err
		}
		if upper == 'M' {
			p.emit(PathMoveTo, pt)
			p.start = pt
		} else {
			p.emit(PathLineTo, pt)
		}
		p.cur, p.lastCtrl = pt, pt
	case 'H', 'V':
		v, err := p.number()
		if err != nil {
			return err
		}
		pt := p.cur
		if upper == 'H' {
			pt.X = v
			if rel {
				pt.X += p.cur.X
			}
		} else {
			pt.Y = v
			if rel {
				pt.Y += p.cur.Y
			}
		}
		p.emit(PathLineTo, pt)
		p.cur, p.lastCtrl = pt, pt
	case 'C', 'S':
		var c1 Point
		if upper == 'S' {
			c1 = p.reflect('C')
		} else {
			var err error
			if c1, err = p.point(base); err != nil {
				return err
			}
		}
		c2, err := p.point(base)
		if err != nil {
			return err
		}
		end, err := p.point(base)
		if err != nil {
			return err
		}
		p.emit(PathCubicTo, c1, c2, end)
		p.cur, p.lastCtrl = end, c2
	case 'Q', 'T':
		var c1 Point
		if upper == 'T' {
			c1 = p.reflect('Q')
		} else {
			var err error
			if c1, err = p.point(base); err != nil {
				return err
			}
		}
		end, err := p.point(base)
		if err != nil {
			return err
		}
		p.emit(PathQuadTo, c1, end)
		p.cur, p.lastCtrl = end, c1
	case 'A':
		if err := p.arc(base); err != nil {
			return err
		}
	}
	p.lastVerb = upper
	return nil
}

// reflect returns the reflection of the previous control point when the
// previous command was of the same family, else the current point.
func (p *pathParser) reflect(family byte) Point {
	same := (family == 'C' && (p.lastVerb == 'C' || p.lastVerb == 'S')) ||
		(family == 'Q' && (p.lastVerb == 'Q' || p.lastVerb == 'T'))
	if !same {
		return p.cur
	}
	return Point{X: 2*p.cur.X - p.lastCtrl.X, Y: 2*p.cur.Y - p.lastCtrl.Y}
}

func (p *pathParser) emit(v PathVerb, pts ...Point) {
	p.out = append(p.out, PathCommand{Verb: v, Pts: pts})
}

func (p *pathParser) arc(base Point) error {
	rx, err := p.number()
	if err != nil {
		return err
	}
	ry, err := p.number()
	if err != nil {
		return err
	}
	rot, err := p.number()
	if err != nil {
		return err
	}
	large, err := p.flag()
	if err != nil {
		return err
	}
	sweep, err := p.flag()
	if err != nil {
		return err
	}
	end, err := p.point(base)
	if err != nil {
		return err
	}
	for _, seg := range arcToCubics(p.cur, end, rx, ry, rot, large, sweep) {
		p.emit(PathCubicTo, seg[0], seg[1], seg[2])
		p.lastCtrl = seg[1]
	}
	p.cur = end
	p.lastCtrl = end
	return nil
}

func (p *pathParser) point(base Point) (Point, error) {
	x, err := p.number()
	if err != nil {
		return Point{}, err
	}
	y, err := p.number()
	if err != nil {
		return Point{}, err
	}
	return Point{X: base.X + x, Y: base.Y + y}, nil
}

func (p *pathParser) skipSeparators() {
	for p.i < len(p.s) {
		switch p.s[p.i] {
		case ' ', '\t', '\n', '\r', '\f', ',':
			p.i++
		default:
			return
		}
	}
}

func (p *pathParser) number() (float64, error) {
	p.skipSeparators()
	start := p.i
	if p.i < len(p.s) && (p.s[p.i] == '+' || p.s[p.i] == '-') {
		p.i++
	}
	digits, dot := 0, false
	for p.i < len(p.s) {
		c := p.s[p.i]
		if c >= '0' && c <= '9' {
			digits++
		} else if c == '.' && !dot {
			dot = true
		} else {
			break
		}
		p.i++
	}
	if digits == 0 {
		p.i = start
		return 0, fmt.Errorf("expected number at %d in path data", start)
	}
	if p.i < len(p.s) && (p.s[p.i] == 'e' || p.s[p.i] == 'E') {
		j := p.i + 1
		if j < len(p.s) && (p.s[j] == '+' || p.s[j] == '-') {
			j++
		}
		if j < len(p.s) && p.s[j] >= '0' && p.s[j] <= '9' {
			for j < len(p.s) && p.s[j] >= '0' && p.s[j] <= '9' {
				j++
			}
			p.i = j
		}
	}
	v, err := strconv.ParseFloat(p.s[start:p.i], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q in path data: %w", p.s[start:p.i], err)
	}
	return v, nil
}

// flag reads an arc flag, which may be written without separators.
func (p *pathParser) flag() (bool, error) {
	p.skipSeparators()
	if p.i >= len(p.s) {
		return false, fmt.Errorf("expected arc flag at end of path data")
	}
	switch p.s[p.i] {
	case '0':
		p.i++
		return false, nil
	case '1':
		p.i++
		return true, nil
	}
	return false, fmt.Errorf("invalid arc flag %q at %d", p.s[p.i], p.i)
}

// arcToCubics converts an SVG endpoint-parameterized elliptical arc into
// cubic béziers of at most 90° each. Each segment is {c1, c2, end}.
func arcToCubics(from, to Point, rx, ry, rotDeg float64, large, sweep bool) [][3]Point {
	if from == to {
		return nil
	}
	rx, ry = math.Abs(rx), math.Abs(ry)
	if rx < Epsilon || ry < Epsilon {
		return [][3]Point{{from, to, to}}
	}
	phi := rotDeg * math.Pi / 180
	sinPhi, cosPhi := math.Sincos(phi)

	dx2, dy2 := (from.X-to.X)/2, (from.Y-to.Y)/2
	x1p := cosPhi*dx2 + sinPhi*dy2
	y1p := -sinPhi*dx2 + cosPhi*dy2

	// Scale radii up when they cannot span the endpoints.
	lambda := (x1p*x1p)/(rx*rx) + (y1p*y1p)/(ry*ry)
	if lambda > 1 {
		s := math.Sqrt(lambda)
		rx, ry = rx*s, ry*s
	}

	num := rx*rx*ry*ry - rx*rx*y1p*y1p - ry*ry*x1p*x1p
	den := rx*rx*y1p*y1p + ry*ry*x1p*x1p
	coef := 0.0
	if den > 0 && num > 0 {
		coef = math.Sqrt(num / den)
	}
	if large == sweep {
		coef = -coef
	}
	cxp := coef * rx * y1p / ry
	cyp := -coef * ry * x1p / rx
	cx := cosPhi*cxp - sinPhi*cyp + (from.X+to.X)/2
	cy := sinPhi*cxp + cosPhi*cyp + (from.Y+to.Y)/2

	theta1 := vectorAngle(1, 0, (x1p-cxp)/rx, (y1p-cyp)/ry)
	delta := vectorAngle((x1p-cxp)/rx, (y1p-cyp)/ry, (-x1p-cxp)/rx, (-y1p-cyp)/ry)
	if !sweep && delta > 0 {
		delta -= 2 * math.Pi
	} else if sweep && delta < 0 {
		delta += 2 * math.Pi
	}

	n := int(math.Ceil(math.Abs(delta) / (math.Pi / 2)))
	if n < 1 {
		n = 1
	}
	step := delta / float64(n)
	k := 4.0 / 3.0 * math.Tan(step/4)

	onEllipse := func(t float64) (Point, Point) {
		sinT, cosT := math.Sincos(t)
		p := Point{
			X: cx + rx*cosT*cosPhi - ry*sinT*sinPhi,
			Y: cy + rx*cosT*sinPhi + ry*sinT*cosPhi,
		}
		d := Point{
			X: -rx*sinT*cosPhi - ry*cosT*sinPhi,
			Y: -rx*sinT*sinPhi + ry*cosT*cosPhi,
		}
		return p, d
	}

	segs := make([][3]Point, 0, n)
	t := theta1
	p0, d0 := onEllipse(t)
	for i := 0; i < n; i++ {
		t2 := t + step
		p1, d1 := onEllipse(t2)
		if i == n-1 {
			p1 = to
		}
		segs = append(segs, [3]Point{
			{X: p0.X + k*d0.X, Y: p0.Y + k*d0.Y},
			{X: p1.X - k*d1.X, Y: p1.Y - k*d1.Y},
			p1,
		})
		t, p0, d0 = t2, p1, d1
	}
	return segs
}

func vectorAngle(ux, uy, vx, vy float64) float64 {
	return math.Atan2(ux*vy-uy*vx, ux*vx+uy*vy)
}

// PathBounds returns the bounding box of every point of the commands,
// control points included.
func PathBounds(cmds []PathCommand) Box {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, c := range cmds {
		for _, p := range c.Pts {
			minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
			minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
		}
	}
	if math.IsInf(minX, 1) {
		return Box{}
	}
	return Box{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// FitPath maps commands from the viewBox onto dst, scaling X and Y
// independently.
func FitPath(cmds []PathCommand, vb ViewBox, dst Box) []PathCommand {
	sx := dst.Width / clampDim(vb.Width)
	sy := dst.Height / clampDim(vb.Height)
	out := make([]PathCommand, len(cmds))
	for i, c := range cmds {
		pts := make([]Point, len(c.Pts))
		for j, p := range c.Pts {
			pts[j] = Point{
				X: clampCoord(dst.X + (p.X-vb.MinX)*sx),
				Y: clampCoord(dst.Y + (p.Y-vb.MinY)*sy),
			}
		}
		out[i] = PathCommand{Verb: c.Verb, Pts: pts}
	}
	return out
}
