package goslide

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func verbs(cmds []PathCommand) []PathVerb {
	out := make([]PathVerb, len(cmds))
	for i, c := range cmds {
		out[i] = c.Verb
	}
	return out
}

func TestParsePath_Absolute(t *testing.T) {
	cmds, err := ParsePath("M0 0 L10 0 L10 10 Z")
	require.NoError(t, err)
	assert.Equal(t, []PathVerb{PathMoveTo, PathLineTo, PathLineTo, PathClose}, verbs(cmds))
	assert.Equal(t, Point{X: 10, Y: 10}, cmds[2].Pts[0])
}

func TestParsePath_RelativeAndShorthand(t *testing.T) {
	cmds, err := ParsePath("m1 1 l2 0 h3 v4")
	require.NoError(t, err)
	require.Len(t, cmds, 4)
	assert.Equal(t, Point{X: 1, Y: 1}, cmds[0].Pts[0])
	assert.Equal(t, Point{X: 3, Y: 1}, cmds[1].Pts[0])
	assert.Equal(t, Point{X: 6, Y: 1}, cmds[2].Pts[0])
	assert.Equal(t, Point{X: 6, Y: 5}, cmds[3].Pts[0])
}

func TestParsePath_ImplicitLineTo(t *testing.T) {
	cmds, err := ParsePath("M0,0 10,0 10,10")
	require.NoError(t, err)
	assert.Equal(t, []PathVerb{PathMoveTo, PathLineTo, PathLineTo}, verbs(cmds))
}

func TestParsePath_Arc(t *testing.T) {
	for _, d := range []string{"M0 0 A5 5 0 0 1 10 0", "M0 0a5 5 0 0110 0"} {
		cmds, err := ParsePath(d)
		require.NoError(t, err, d)
		require.Greater(t, len(cmds), 1, d)
		last := cmds[len(cmds)-1]
		assert.Equal(t, PathCubicTo, last.Verb)
		end := last.Pts[len(last.Pts)-1]
		assert.InDelta(t, 10, end.X, 1e-9)
		assert.InDelta(t, 0, end.Y, 1e-9)
	}
}

func TestParsePath_Malformed(t *testing.T) {
	cmds, err := ParsePath("M0 0 L10")
	assert.Error(t, err)
	require.NotEmpty(t, cmds)
	assert.Equal(t, PathMoveTo, cmds[0].Verb)

	_, err = ParsePath("10 10")
	assert.Error(t, err)
}

func TestFitPath(t *testing.T) {
	cmds, err := ParsePath("M0 0 L24 24")
	require.NoError(t, err)
	fitted := FitPath(cmds, DefaultViewBox, Box{X: 10, Y: 10, Width: 48, Height: 24})
	assert.Equal(t, Point{X: 10, Y: 10}, fitted[0].Pts[0])
	assert.Equal(t, Point{X: 58, Y: 34}, fitted[1].Pts[0])
	// Source commands are untouched.
	assert.Equal(t, Point{X: 24, Y: 24}, cmds[1].Pts[0])
}

func TestPathBounds(t *testing.T) {
	cmds, err := ParsePath("M2 3 L10 -1 L4 8")
	require.NoError(t, err)
	assert.Equal(t, Box{X: 2, Y: -1, Width: 8, Height: 9}, PathBounds(cmds))
	assert.Equal(t, Box{}, PathBounds(nil))
}

func TestIconRegistry_ResolveFallback(t *testing.T) {
	reg := DefaultIcons()
	ic := reg.Resolve("does-not-exist")
	assert.Equal(t, FallbackIconID, ic.ID)
	_, ok := reg.Lookup("does-not-exist")
	assert.False(t, ok)
}

func TestIconRegistry_NormalizesAndAliases(t *testing.T) {
	reg := DefaultIcons()
	ic, ok := reg.Lookup("Star-Icon")
	require.True(t, ok)
	assert.Equal(t, "star", ic.ID)

	ic, ok = reg.Lookup("close")
	require.True(t, ok)
	assert.Equal(t, "x", ic.ID)
}

func TestIconRegistry_Register(t *testing.T) {
	reg, err := NewIconRegistry(IconDef{ID: "dot", Path: "M11 11 L13 13"})
	require.NoError(t, err)
	assert.Equal(t, 2, reg.Len(), "fallback icon is added")
	assert.Equal(t, "dot", reg.Resolve("dot").ID)
	assert.Equal(t, DefaultViewBox, reg.Resolve("dot").ViewBox)

	assert.Error(t, reg.Register(IconDef{ID: "broken", Path: "Q1"}))
	assert.Error(t, reg.Register(IconDef{ID: " ", Path: "M0 0"}))
}

func TestDefaultIcons_AllParse(t *testing.T) {
	reg := DefaultIcons()
	assert.GreaterOrEqual(t, reg.Len(), 20)
	for _, d := range builtinIcons {
		ic, ok := reg.Lookup(d.ID)
		require.True(t, ok, d.ID)
		assert.NotEmpty(t, ic.Commands, d.ID)
	}
}

func TestFitIcon_StrokeCompensation(t *testing.T) {
	ic := DefaultIcons().Resolve("check")
	l := FitIcon(ic, Box{Width: 48, Height: 96}, 2)
	assert.Equal(t, 2.0, l.ScaleX)
	assert.Equal(t, 4.0, l.ScaleY)
	assert.Equal(t, 1.0, l.NativeStrokeWidth)
	assert.Equal(t, 1.0, IconStrokeWidth(2, 2))
	assert.Len(t, l.Commands, len(ic.Commands))
}
