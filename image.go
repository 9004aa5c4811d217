package goslide

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
)

// ErrImageNotFound is returned when an image source cannot be resolved
// locally.
var ErrImageNotFound = errors.New("image not found")

// ImageLoader supplies the natural pixel size of an image source.
type ImageLoader interface {
	NaturalSize(src string) (width, height int, err error)
}

// maxImageFileSize is the maximum allowed size for an image file loaded from disk.
const maxImageFileSize = 50 << 20 // 50 MB

type imageSize struct{ w, h int }

// ImagingLoader decodes local files and data: URIs. Natural sizes are
// cached per source; remote URLs are not fetched and report
// ErrImageNotFound.
type ImagingLoader struct {
	BaseDir string

	mu    sync.RWMutex
	sizes map[string]imageSize
}

// NewImagingLoader resolves relative paths against baseDir.
func NewImagingLoader(baseDir string) *ImagingLoader {
	return &ImagingLoader{BaseDir: baseDir, sizes: make(map[string]imageSize)}
}

// NaturalSize implements ImageLoader.
func (l *ImagingLoader) NaturalSize(src string) (int, int, error) {
	l.mu.RLock()
	sz, ok := l.sizes[src]
	l.mu.RUnlock()
	if ok {
		return sz.w, sz.h, nil
	}
	img, err := l.Open(src)
	if err != nil {
		return 0, 0, err
	}
	b := img.Bounds()
	l.mu.Lock()
	l.sizes[src] = imageSize{w: b.Dx(), h: b.Dy()}
	l.mu.Unlock()
	return b.Dx(), b.Dy(), nil
}

// Open decodes the image behind src.
func (l *ImagingLoader) Open(src string) (image.Image, error) {
	src = strings.TrimSpace(src)
	lower := strings.ToLower(src)
	switch {
	case src == "":
		return nil, fmt.Errorf("empty image source: %w", ErrImageNotFound)
	case strings.HasPrefix(lower, "data:"):
		return decodeDataURI(src)
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		return nil, fmt.Errorf("remote image %q: %w", src, ErrImageNotFound)
	}

	path := strings.TrimPrefix(src, "file://")
	if !filepath.IsAbs(path) && l.BaseDir != "" {
		path = filepath.Join(l.BaseDir, path)
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat image %q: %w", src, ErrImageNotFound)
	}
	if info.Size() > maxImageFileSize {
		return nil, fmt.Errorf("image file too large: %d bytes (max %d)", info.Size(), maxImageFileSize)
	}
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image %q: %w", src, err)
	}
	return img, nil
}

func decodeDataURI(uri string) (image.Image, error) {
	comma := strings.IndexByte(uri, ',')
	if comma < 0 {
		return nil, fmt.Errorf("malformed data URI")
	}
	meta, payload := uri[:comma], uri[comma+1:]
	if !strings.Contains(meta, ";base64") {
		return nil, fmt.Errorf("data URI is not base64 encoded")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decode data URI: %w", err)
	}
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode data URI image: %w", err)
	}
	return img, nil
}

// FitImage places an image of natural size (nw, nh) into box according to
// fit. It returns the destination box and, for cover, the source crop in
// natural pixels.
func FitImage(fit ObjectFit, box Box, nw, nh int) (Box, *Box) {
	if nw <= 0 || nh <= 0 {
		return box, nil
	}
	iw, ih := float64(nw), float64(nh)
	bw, bh := clampDim(box.Width), clampDim(box.Height)
	switch fit {
	case FitFill:
		return box, nil
	case FitContain:
		s := math.Min(bw/iw, bh/ih)
		w, h := iw*s, ih*s
		return Box{X: box.X + (box.Width-w)/2, Y: box.Y + (box.Height-h)/2, Width: w, Height: h}, nil
	}
	// cover: crop the centre of the image to the box aspect ratio.
	s := math.Max(bw/iw, bh/ih)
	cw, ch := bw/s, bh/s
	return box, &Box{X: (iw - cw) / 2, Y: (ih - ch) / 2, Width: cw, Height: ch}
}
