package goslide

import (
	"fmt"
	"strings"
	"sync"
)

// FallbackIconID is returned for unknown icon ids.
const FallbackIconID = "help-circle"

// DefaultIconStrokeWidth is the stroke width of outline icons in design
// units.
const DefaultIconStrokeWidth = 2

// IconDef is the static definition of an icon.
type IconDef struct {
	ID      string
	Path    string
	ViewBox ViewBox
	Filled  bool
}

// Icon is a resolved icon: normalized path commands plus bounds relative
// to its viewBox.
type Icon struct {
	ID       string
	Path     string
	ViewBox  ViewBox
	Filled   bool
	Commands []PathCommand
	Bounds   Box
}

// IconRegistry maps icon ids to icons. Resolve never fails: unknown ids
// resolve to the fallback icon.
type IconRegistry struct {
	mu       sync.RWMutex
	icons    map[string]Icon
	aliases  map[string]string
	fallback Icon
}

// NewIconRegistry builds a registry from defs. The fallback icon must be
// among them; otherwise the built-in help-circle is added.
func NewIconRegistry(defs ...IconDef) (*IconRegistry, error) {
	r := &IconRegistry{
		icons:   make(map[string]Icon, len(defs)),
		aliases: make(map[string]string),
	}
	for _, d := range defs {
		if err := r.Register(d); err != nil {
			return nil, err
		}
	}
	if _, ok := r.icons[FallbackIconID]; !ok {
		if err := r.Register(builtinIcons[0]); err != nil {
			return nil, err
		}
	}
	r.fallback = r.icons[FallbackIconID]
	return r, nil
}

// Register parses and adds an icon definition.
func (r *IconRegistry) Register(d IconDef) error {
	id := normalizeIconID(d.ID)
	if id == "" {
		return fmt.Errorf("icon id is empty")
	}
	cmds, err := ParsePath(d.Path)
	if err != nil {
		return fmt.Errorf("icon %q: %w", d.ID, err)
	}
	vb := d.ViewBox
	if vb.Width <= 0 || vb.Height <= 0 {
		vb = DefaultViewBox
	}
	ic := Icon{
		ID:       id,
		Path:     d.Path,
		ViewBox:  vb,
		Filled:   d.Filled,
		Commands: cmds,
		Bounds:   PathBounds(cmds),
	}
	r.mu.Lock()
	r.icons[id] = ic
	if id == FallbackIconID {
		r.fallback = ic
	}
	r.mu.Unlock()
	return nil
}

// Alias makes alias resolve to the icon id.
func (r *IconRegistry) Alias(alias, id string) {
	r.mu.Lock()
	r.aliases[normalizeIconID(alias)] = normalizeIconID(id)
	r.mu.Unlock()
}

// Lookup returns the icon for id and whether it was found.
func (r *IconRegistry) Lookup(id string) (Icon, bool) {
	key := normalizeIconID(id)
	r.mu.RLock()
	defer r.mu.RUnlock()
	if target, ok := r.aliases[key]; ok {
		key = target
	}
	ic, ok := r.icons[key]
	return ic, ok
}

// Resolve returns the icon for id, or the fallback icon.
func (r *IconRegistry) Resolve(id string) Icon {
	if ic, ok := r.Lookup(id); ok {
		return ic
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.fallback
}

// Len returns the number of registered icons.
func (r *IconRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.icons)
}

func normalizeIconID(id string) string {
	id = strings.ToLower(strings.TrimSpace(id))
	id = strings.TrimSuffix(id, "-icon")
	return strings.ReplaceAll(id, "_", "-")
}

// IconLayout is an icon fitted into a destination box.
type IconLayout struct {
	Commands []PathCommand // absolute, in destination coordinates
	ScaleX   float64
	ScaleY   float64
	// NativeStrokeWidth is the stroke width to use when drawing the native
	// path under a (ScaleX, ScaleY) transform: base / ScaleX.
	NativeStrokeWidth float64
}

// FitIcon rescales the icon from its viewBox into dst, independently in X
// and Y. baseStroke is the desired visible stroke width in destination
// units.
func FitIcon(ic Icon, dst Box, baseStroke float64) IconLayout {
	sx := dst.Width / clampDim(ic.ViewBox.Width)
	sy := dst.Height / clampDim(ic.ViewBox.Height)
	return IconLayout{
		Commands:          FitPath(ic.Commands, ic.ViewBox, dst),
		ScaleX:            sx,
		ScaleY:            sy,
		NativeStrokeWidth: IconStrokeWidth(baseStroke, sx),
	}
}

// IconStrokeWidth compensates a stroke width for an X scale factor so the
// stroke keeps its visible thickness once the path is scaled.
func IconStrokeWidth(base, scaleX float64) float64 {
	return finite(base, DefaultIconStrokeWidth) / clampDim(scaleX)
}

var (
	defaultIconsOnce sync.Once
	defaultIcons     *IconRegistry
)

// DefaultIcons returns the shared registry of built-in icons.
func DefaultIcons() *IconRegistry {
	defaultIconsOnce.Do(func() {
		r, err := NewIconRegistry(builtinIcons...)
		if err != nil {
			// Built-in path data is static; a parse failure is a programming error.
			panic(err)
		}
		r.Alias("close", "x")
		r.Alias("question", "help-circle")
		r.Alias("idea", "lightbulb")
		r.Alias("speech", "message-circle")
		defaultIcons = r
	})
	return defaultIcons
}

const circlePath = "M12 2a10 10 0 1 0 0 20a10 10 0 1 0 0-20z"

var builtinIcons = []IconDef{
	{ID: "help-circle", Path: circlePath + "M9.09 9a3 3 0 0 1 5.83 1c0 2-3 3-3 3M12 17h.01"},
	{ID: "circle", Path: circlePath},
	{ID: "circle-filled", Path: circlePath, Filled: true},
	{ID: "star", Path: "M12 2l3.09 6.26L22 9.27l-5 4.87 1.18 6.88L12 17.77l-6.18 3.25L7 14.14 2 9.27l6.91-1.01L12 2z"},
	{ID: "star-filled", Path: "M12 2l3.09 6.26L22 9.27l-5 4.87 1.18 6.88L12 17.77l-6.18 3.25L7 14.14 2 9.27l6.91-1.01L12 2z", Filled: true},
	{ID: "heart", Path: "M20.84 4.61a5.5 5.5 0 0 0-7.78 0L12 5.67l-1.06-1.06a5.5 5.5 0 0 0-7.78 7.78l1.06 1.06L12 21.23l7.78-7.78 1.06-1.06a5.5 5.5 0 0 0 0-7.78z"},
	{ID: "heart-filled", Path: "M20.84 4.61a5.5 5.5 0 0 0-7.78 0L12 5.67l-1.06-1.06a5.5 5.5 0 0 0-7.78 7.78l1.06 1.06L12 21.23l7.78-7.78 1.06-1.06a5.5 5.5 0 0 0 0-7.78z", Filled: true},
	{ID: "check", Path: "M20 6L9 17l-5-5"},
	{ID: "x", Path: "M18 6L6 18M6 6l12 12"},
	{ID: "plus", Path: "M12 5v14M5 12h14"},
	{ID: "minus", Path: "M5 12h14"},
	{ID: "arrow-right", Path: "M5 12h14M12 5l7 7-7 7"},
	{ID: "arrow-left", Path: "M19 12H5M12 19l-7-7 7-7"},
	{ID: "arrow-up", Path: "M12 19V5M5 12l7-7 7 7"},
	{ID: "arrow-down", Path: "M12 5v14M19 12l-7 7-7-7"},
	{ID: "info", Path: circlePath + "M12 16v-4M12 8h.01"},
	{ID: "alert-triangle", Path: "M10.29 3.86L1.82 18a2 2 0 0 0 1.71 3h16.94a2 2 0 0 0 1.71-3L13.71 3.86a2 2 0 0 0-3.42 0zM12 9v4M12 17h.01"},
	{ID: "book", Path: "M4 19.5A2.5 2.5 0 0 1 6.5 17H20M6.5 2H20v20H6.5A2.5 2.5 0 0 1 4 19.5v-15A2.5 2.5 0 0 1 6.5 2z"},
	{ID: "lightbulb", Path: "M9 18h6M10 22h4M12 2a7 7 0 0 0-4 12.74V17h8v-2.26A7 7 0 0 0 12 2z"},
	{ID: "message-circle", Path: "M21 11.5a8.38 8.38 0 0 1-.9 3.8 8.5 8.5 0 0 1-7.6 4.7 8.38 8.38 0 0 1-3.8-.9L3 21l1.9-5.7a8.38 8.38 0 0 1-.9-3.8 8.5 8.5 0 0 1 4.7-7.6 8.38 8.38 0 0 1 3.8-.9h.5a8.48 8.48 0 0 1 8 8v.5z"},
	{ID: "user", Path: "M20 21v-2a4 4 0 0 0-4-4H8a4 4 0 0 0-4 4v2M12 3a4 4 0 1 0 0 8a4 4 0 1 0 0-8z"},
	{ID: "globe", Path: circlePath + "M2 12h20M12 2a15.3 15.3 0 0 1 4 10 15.3 15.3 0 0 1-4 10 15.3 15.3 0 0 1-4-10 15.3 15.3 0 0 1 4-10z"},
	{ID: "clock", Path: circlePath + "M12 6v6l4 2"},
	{ID: "music", Path: "M9 18V5l12-2v13M6 15a3 3 0 1 0 0 6a3 3 0 1 0 0-6zM18 13a3 3 0 1 0 0 6a3 3 0 1 0 0-6z"},
	{ID: "home", Path: "M3 9l9-7 9 7v11a2 2 0 0 1-2 2H5a2 2 0 0 1-2-2zM9 22V12h6v10"},
	{ID: "pencil", Path: "M17 3a2.83 2.83 0 1 1 4 4L7.5 20.5 2 22l1.5-5.5L17 3z"},
	{ID: "calendar", Path: "M5 4h14a2 2 0 0 1 2 2v14a2 2 0 0 1-2 2H5a2 2 0 0 1-2-2V6a2 2 0 0 1 2-2zM16 2v4M8 2v4M3 10h18"},
	{ID: "image", Path: "M5 3h14a2 2 0 0 1 2 2v14a2 2 0 0 1-2 2H5a2 2 0 0 1-2-2V5a2 2 0 0 1 2-2zM8.5 7a1.5 1.5 0 1 0 0 3a1.5 1.5 0 1 0 0-3zM21 15l-5-5L5 21"},
}
