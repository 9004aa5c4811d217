package goslide

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
)

// ErrFontNotFound is returned by a FontSource that has no matching font.
var ErrFontNotFound = errors.New("font not found")

// fontKey identifies a font by family, weight and style.
type fontKey struct {
	family string
	bold   bool
	italic bool
}

func keyOf(family string, weight int, italic bool) fontKey {
	return fontKey{family: strings.ToLower(strings.TrimSpace(family)), bold: weight >= 600, italic: italic}
}

// faceKey identifies a sized face.
type faceKey struct {
	fontKey
	size float64
}

// FontSource loads fonts on behalf of a FontCache.
type FontSource interface {
	Load(family string, weight int, italic bool) (*opentype.Font, error)
}

// FontCache is the process-wide font service. Lookups never block: a font
// that is not loaded yet is scheduled for asynchronous loading and measured
// with the embedded Go fonts meanwhile; callers re-render once it resolves.
// Fonts that fail to load keep the Go font metrics.
type FontCache struct {
	mu      sync.RWMutex
	source  FontSource
	fonts   map[fontKey]*opentype.Font
	faces   map[faceKey]font.Face // measure faces (HintingNone)
	backups map[faceKey]font.Face // embedded Go faces for unresolved fonts
	pending map[fontKey]bool
	failed  map[fontKey]error
	onLoad  func(family string, weight int, italic bool)
	wg      sync.WaitGroup
	logger  *slog.Logger

	// measureMu serializes use of the shared measure faces, which keep
	// internal glyph buffers.
	measureMu sync.Mutex
}

// NewFontCache creates a FontCache backed by src. A nil src only serves
// fonts registered with LoadFontData.
func NewFontCache(src FontSource, logger *slog.Logger) *FontCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &FontCache{
		source:  src,
		fonts:   make(map[fontKey]*opentype.Font),
		faces:   make(map[faceKey]font.Face),
		backups: make(map[faceKey]font.Face),
		pending: make(map[fontKey]bool),
		failed:  make(map[fontKey]error),
		logger:  logger,
	}
}

// OnLoad registers a callback invoked after a font finishes loading.
func (fc *FontCache) OnLoad(fn func(family string, weight int, italic bool)) {
	fc.mu.Lock()
	fc.onLoad = fn
	fc.mu.Unlock()
}

// LoadFontData registers a TrueType/OpenType font from raw bytes.
func (fc *FontCache) LoadFontData(family string, weight int, italic bool, data []byte) error {
	f, err := opentype.Parse(data)
	if err != nil {
		return fmt.Errorf("parse font %q: %w", family, err)
	}
	fc.store(keyOf(family, weight, italic), f)
	return nil
}

// GetOrLoad returns the font when it is loaded. Otherwise it schedules an
// asynchronous load (once per key) and returns false.
func (fc *FontCache) GetOrLoad(family string, weight int, italic bool) (*opentype.Font, bool) {
	key := keyOf(family, weight, italic)

	fc.mu.RLock()
	f, ok := fc.fonts[key]
	_, busy := fc.pending[key]
	_, bad := fc.failed[key]
	fc.mu.RUnlock()
	if ok {
		return f, true
	}
	if busy || bad || fc.source == nil {
		return nil, false
	}

	fc.mu.Lock()
	if fc.pending[key] || fc.fonts[key] != nil {
		fc.mu.Unlock()
		return nil, false
	}
	fc.pending[key] = true
	fc.wg.Add(1)
	fc.mu.Unlock()

	go func() {
		defer fc.wg.Done()
		if err := fc.loadKey(key, family, weight, italic); err != nil {
			fc.logger.Debug("font load failed",
				slog.String("family", family),
				slog.Int("weight", weight),
				slog.Any("error", err))
		}
	}()
	return nil, false
}

// Load loads a font synchronously, for callers that can afford to wait
// (CLI export, tests).
func (fc *FontCache) Load(family string, weight int, italic bool) error {
	key := keyOf(family, weight, italic)
	fc.mu.RLock()
	_, ok := fc.fonts[key]
	fc.mu.RUnlock()
	if ok {
		return nil
	}
	if fc.source == nil {
		return fmt.Errorf("load font %q: %w", family, ErrFontNotFound)
	}
	return fc.loadKey(key, family, weight, italic)
}

func (fc *FontCache) loadKey(key fontKey, family string, weight int, italic bool) error {
	f, err := fc.source.Load(family, weight, italic)

	fc.mu.Lock()
	delete(fc.pending, key)
	if err != nil {
		fc.failed[key] = err
		fc.mu.Unlock()
		return fmt.Errorf("load font %q: %w", family, err)
	}
	fc.fonts[key] = f
	cb := fc.onLoad
	fc.mu.Unlock()

	if cb != nil {
		cb(family, weight, italic)
	}
	return nil
}

func (fc *FontCache) store(key fontKey, f *opentype.Font) {
	fc.mu.Lock()
	fc.fonts[key] = f
	delete(fc.failed, key)
	fc.mu.Unlock()
}

// Wait blocks until every scheduled load has finished.
func (fc *FontCache) Wait() {
	fc.wg.Wait()
}

// Face returns the shared unhinted face for spec at its size, or nil when
// the font is not loaded. The face is not safe for concurrent use; backends
// drawing concurrently create their own faces from GetOrLoad.
func (fc *FontCache) Face(spec FontSpec) font.Face {
	f, ok := fc.GetOrLoad(spec.Family, spec.Weight, spec.Italic)
	if !ok {
		return nil
	}
	key := faceKey{fontKey: keyOf(spec.Family, spec.Weight, spec.Italic), size: spec.Size}

	fc.mu.RLock()
	face, ok := fc.faces[key]
	fc.mu.RUnlock()
	if ok {
		return face
	}

	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    spec.Size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil
	}
	fc.mu.Lock()
	fc.faces[key] = face
	fc.mu.Unlock()
	return face
}

// fallbackFace returns the shared embedded Go face for spec's style and size.
func (fc *FontCache) fallbackFace(spec FontSpec) font.Face {
	key := faceKey{fontKey: fontKey{bold: spec.Weight >= 600, italic: spec.Italic}, size: spec.Size}
	fc.mu.RLock()
	face, ok := fc.backups[key]
	fc.mu.RUnlock()
	if ok {
		return face
	}
	face = NewFallbackFace(spec)
	fc.mu.Lock()
	fc.backups[key] = face
	fc.mu.Unlock()
	return face
}

// Advance implements FontMetrics. Loaded fonts are measured with their
// unhinted glyph advances; others with the embedded Go font of the same
// style, which is what the raster backend draws them with.
func (fc *FontCache) Advance(text string, spec FontSpec) float64 {
	if spec.Size <= 0 {
		spec.Size = DefaultFontSize
	}
	face := fc.Face(spec)
	if face == nil {
		face = fc.fallbackFace(spec)
	}
	fc.measureMu.Lock()
	adv := font.MeasureString(face, text)
	fc.measureMu.Unlock()
	return float64(adv) / 64
}

// MemorySource serves fonts registered in memory.
type MemorySource struct {
	mu    sync.RWMutex
	fonts map[fontKey]*opentype.Font
}

// NewMemorySource returns an empty MemorySource.
func NewMemorySource() *MemorySource {
	return &MemorySource{fonts: make(map[fontKey]*opentype.Font)}
}

// Add parses and registers font data.
func (s *MemorySource) Add(family string, weight int, italic bool, data []byte) error {
	f, err := opentype.Parse(data)
	if err != nil {
		return fmt.Errorf("parse font %q: %w", family, err)
	}
	s.mu.Lock()
	s.fonts[keyOf(family, weight, italic)] = f
	s.mu.Unlock()
	return nil
}

// Load implements FontSource. A missing bold/italic variant falls back to
// the regular face of the family.
func (s *MemorySource) Load(family string, weight int, italic bool) (*opentype.Font, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if f, ok := s.fonts[keyOf(family, weight, italic)]; ok {
		return f, nil
	}
	if f, ok := s.fonts[keyOf(family, 400, false)]; ok {
		return f, nil
	}
	return nil, ErrFontNotFound
}

// DirSource finds fonts in directories of .ttf/.otf/.ttc files. The
// directories are scanned once, on the first Load.
type DirSource struct {
	mu      sync.Mutex
	dirs    []string
	fonts   map[string]*opentype.Font // lowercase name -> parsed font
	scanned bool
}

// NewDirSource searches the given directories plus the OS font directories.
func NewDirSource(extraDirs ...string) *DirSource {
	return &DirSource{
		dirs:  append(systemFontDirs(), extraDirs...),
		fonts: make(map[string]*opentype.Font),
	}
}

// Load implements FontSource, trying style-specific names first.
func (s *DirSource) Load(family string, weight int, italic bool) (*opentype.Font, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.scanned {
		s.scanned = true
		for _, dir := range s.dirs {
			s.scanDirDepth(dir, 0)
		}
	}

	lower := strings.ToLower(strings.TrimSpace(family))
	if alias, ok := fontAliases[lower]; ok {
		lower = alias
	}
	bold := weight >= 600
	var suffixes []string
	switch {
	case bold && italic:
		suffixes = []string{" bold italic", "bi", " bolditalic", "z"}
	case bold:
		suffixes = []string{" bold", "bd", "b", "-bold"}
	case italic:
		suffixes = []string{" italic", "i", " it", "-italic"}
	}
	for _, suf := range append(suffixes, "", " regular", "-regular") {
		if f, ok := s.fonts[lower+suf]; ok {
			return f, nil
		}
	}
	return nil, ErrFontNotFound
}

// maxFontScanDepth limits recursive directory traversal when scanning for fonts.
const maxFontScanDepth = 3

// maxFontFileSize limits the size of individual font files loaded into memory.
const maxFontFileSize = 20 << 20 // 20 MB

func (s *DirSource) scanDirDepth(dir string, depth int) {
	if depth > maxFontScanDepth {
		return
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		if entry.IsDir() {
			s.scanDirDepth(filepath.Join(dir, entry.Name()), depth+1)
			continue
		}
		lower := strings.ToLower(entry.Name())
		isTTC := strings.HasSuffix(lower, ".ttc") || strings.HasSuffix(lower, ".otc")
		isSingle := strings.HasSuffix(lower, ".ttf") || strings.HasSuffix(lower, ".otf")
		if !isTTC && !isSingle {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.Size() > maxFontFileSize {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			continue
		}
		base := strings.TrimSuffix(lower, filepath.Ext(lower))
		if isTTC {
			s.loadCollection(data, base)
		} else if f, err := opentype.Parse(data); err == nil {
			s.fonts[base] = f
			s.registerNames(f)
		}
	}
}

func (s *DirSource) loadCollection(data []byte, base string) {
	coll, err := opentype.ParseCollection(data)
	if err != nil {
		return
	}
	for i := 0; i < coll.NumFonts(); i++ {
		f, err := coll.Font(i)
		if err != nil {
			continue
		}
		if i == 0 {
			s.fonts[base] = f
		}
		s.registerNames(f)
	}
}

// registerNames registers a font under its family and full names.
func (s *DirSource) registerNames(f *opentype.Font) {
	for _, id := range []sfnt.NameID{sfnt.NameIDFamily, sfnt.NameIDFull} {
		if name, err := f.Name(nil, id); err == nil && name != "" {
			s.fonts[strings.ToLower(name)] = f
		}
	}
}

// fontAliases maps web font names used by slide styles to common
// installed family names.
var fontAliases = map[string]string{
	"sans-serif": "dejavu sans",
	"serif":      "dejavu serif",
	"monospace":  "dejavu sans mono",
	"system-ui":  "dejavu sans",
	"微软雅黑":       "microsoft yahei",
	"宋体":         "simsun",
	"黑体":         "simhei",
}

// systemFontDirs returns OS-specific font directories.
func systemFontDirs() []string {
	home, _ := os.UserHomeDir()
	switch runtime.GOOS {
	case "windows":
		windir := os.Getenv("WINDIR")
		if windir == "" {
			windir = `C:\Windows`
		}
		dirs := []string{filepath.Join(windir, "Fonts")}
		if local := os.Getenv("LOCALAPPDATA"); local != "" {
			dirs = append(dirs, filepath.Join(local, "Microsoft", "Windows", "Fonts"))
		}
		return dirs
	case "darwin":
		dirs := []string{"/System/Library/Fonts", "/Library/Fonts"}
		if home != "" {
			dirs = append(dirs, filepath.Join(home, "Library", "Fonts"))
		}
		return dirs
	default:
		dirs := []string{"/usr/share/fonts", "/usr/local/share/fonts"}
		if home != "" {
			dirs = append(dirs, filepath.Join(home, ".local", "share", "fonts"), filepath.Join(home, ".fonts"))
		}
		return dirs
	}
}
