package goslide

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFitImage(t *testing.T) {
	box := Box{X: 10, Y: 10, Width: 100, Height: 100}

	dst, src := FitImage(FitFill, box, 400, 200)
	assert.Equal(t, box, dst)
	assert.Nil(t, src)

	dst, src = FitImage(FitContain, box, 400, 200)
	assert.Equal(t, Box{X: 10, Y: 35, Width: 100, Height: 50}, dst)
	assert.Nil(t, src)

	dst, src = FitImage(FitCover, box, 400, 200)
	assert.Equal(t, box, dst)
	assert.Equal(t, &Box{X: 100, Y: 0, Width: 200, Height: 200}, src)

	dst, src = FitImage(FitCover, box, 0, 200)
	assert.Equal(t, box, dst)
	assert.Nil(t, src)
}

func TestImagingLoader_File(t *testing.T) {
	dir := t.TempDir()
	img := imaging.New(64, 32, color.NRGBA{R: 255, A: 255})
	require.NoError(t, imaging.Save(img, filepath.Join(dir, "red.png")))

	l := NewImagingLoader(dir)
	w, h, err := l.NaturalSize("red.png")
	require.NoError(t, err)
	assert.Equal(t, 64, w)
	assert.Equal(t, 32, h)

	w, h, err = l.NaturalSize("file://" + filepath.Join(dir, "red.png"))
	require.NoError(t, err)
	assert.Equal(t, 64, w)
	assert.Equal(t, 32, h)
}

func TestImagingLoader_DataURI(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, imaging.New(5, 7, color.White), imaging.PNG))
	uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())

	w, h, err := NewImagingLoader("").NaturalSize(uri)
	require.NoError(t, err)
	assert.Equal(t, 5, w)
	assert.Equal(t, 7, h)

	_, _, err = NewImagingLoader("").NaturalSize("data:image/png,notbase64")
	assert.Error(t, err)
}

func TestImagingLoader_Unavailable(t *testing.T) {
	l := NewImagingLoader(t.TempDir())
	for _, src := range []string{"", "missing.png", "https://example.com/cat.png"} {
		_, _, err := l.NaturalSize(src)
		assert.True(t, errors.Is(err, ErrImageNotFound), src)
	}
}
