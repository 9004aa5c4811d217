package raster

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// Format represents the output image format.
type Format int

const (
	FormatPNG Format = iota
	FormatJPEG
)

// ParseFormat maps "png", "jpg" or "jpeg" to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "png":
		return FormatPNG, nil
	case "jpg", "jpeg":
		return FormatJPEG, nil
	}
	return FormatPNG, fmt.Errorf("unsupported image format %q", s)
}

// FormatFromPath guesses the format from a file extension.
func FormatFromPath(path string) Format {
	f, err := ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return FormatPNG
	}
	return f
}

// Save encodes img to path, creating parent directories as needed.
// quality applies to JPEG only; values outside 1..100 use 90.
func Save(img image.Image, path string, format Format, quality int) error {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer f.Close()

	if quality <= 0 || quality > 100 {
		quality = 90
	}
	enc := imaging.PNG
	if format == FormatJPEG {
		enc = imaging.JPEG
	}
	if err := imaging.Encode(f, img, enc, imaging.JPEGQuality(quality)); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return nil
}
