// Command slidectl renders slides, dumps their draw operations and
// populates templates from data files.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	goslide "github.com/VantageDataChat/GoSlide"
	"github.com/VantageDataChat/GoSlide/raster"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "slidectl: %v\n", err)
		os.Exit(1)
	}
}

type app struct {
	configPath string
	logLevel   string
	cfg        Config
	log        *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "slidectl",
		Short:         "Render declarative slides and populate slide templates",
		Version:       goslide.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd.ErrOrStderr())
		},
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "YAML config file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	root.AddCommand(a.renderCmd(), a.opsCmd(), a.populateCmd())
	return root
}

func (a *app) init(logOut io.Writer) error {
	cfg, err := loadConfig(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	logger, err := newLogger(cfg.Log, logOut)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = logger
	slog.SetDefault(logger)
	return nil
}

func (a *app) renderCmd() *cobra.Command {
	var (
		out    string
		scale  float64
		width  int
		format string
	)
	cmd := &cobra.Command{
		Use:   "render <slides.json>",
		Short: "Render a slide, or an array of slides, to images",
		Long: "Render a slide, or an array of slides, to PNG or JPEG.\n" +
			"For an array the output path must contain a %d verb, e.g. slide%02d.png.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("scale") {
				a.cfg.Scale = scale
				a.cfg.Width = 0
			}
			if width > 0 {
				a.cfg.Width = width
			}
			switch ext := strings.TrimPrefix(filepath.Ext(out), "."); {
			case format != "":
				a.cfg.Format = format
			case ext != "":
				a.cfg.Format = ext
			}
			return a.render(cmd.Context(), args[0], out)
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "slide.png", "output image path")
	cmd.Flags().Float64Var(&scale, "scale", 1, "design units to pixels")
	cmd.Flags().IntVar(&width, "width", 0, "output width in pixels (overrides scale)")
	cmd.Flags().StringVar(&format, "format", "", "png or jpeg (default: output extension, then config)")
	return cmd
}

func (a *app) render(ctx context.Context, in, out string) error {
	slides, err := a.readSlides(in)
	if err != nil {
		return err
	}
	if len(slides) > 1 && !strings.Contains(out, "%") {
		return fmt.Errorf("output %q must contain a %%d verb for %d slides", out, len(slides))
	}
	format, err := raster.ParseFormat(a.cfg.Format)
	if err != nil {
		return err
	}
	theme, err := a.cfg.Theme.apply(goslide.DefaultTheme())
	if err != nil {
		return err
	}

	fonts := goslide.NewFontCache(goslide.NewDirSource(a.cfg.FontDirs...), a.log)
	preloadFonts(fonts, slides, theme)

	imageDir := a.cfg.ImageDir
	if imageDir == "" {
		imageDir = filepath.Dir(in)
	}
	images := goslide.NewImagingLoader(imageDir)
	r := goslide.NewRenderer(&goslide.RenderOptions{
		Theme:   theme,
		Metrics: fonts,
		Icons:   goslide.DefaultIcons(),
		Images:  images,
		Logger:  a.log,
	})

	for i, s := range slides {
		scale := a.scaleFor(s)
		ops := r.RenderSlide(s, scale, theme)
		canvas := s.CanvasSize()
		img, err := raster.Draw(ops, &raster.Options{
			Width:      int(canvas.Width*scale + 0.5),
			Height:     int(canvas.Height*scale + 0.5),
			Background: theme.Background.NRGBA(),
			Fonts:      fonts,
			Images:     images,
			Logger:     a.log,
		})
		if err != nil {
			return fmt.Errorf("slide %d: %w", i+1, err)
		}
		path := out
		if len(slides) > 1 {
			path = fmt.Sprintf(out, i+1)
		}
		if err := raster.Save(img, path, format, a.cfg.JPEGQuality); err != nil {
			return fmt.Errorf("slide %d: %w", i+1, err)
		}
		a.log.Info("rendered slide", slog.String("slide", s.ID), slog.String("path", path), slog.Int("ops", len(ops)))
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	return nil
}

func (a *app) scaleFor(s goslide.Slide) float64 {
	if a.cfg.Width > 0 {
		return float64(a.cfg.Width) / s.CanvasSize().Width
	}
	return a.cfg.Scale
}

// preloadFonts loads every font the slides reference so measurement and
// drawing use real metrics on the first pass.
func preloadFonts(fc *goslide.FontCache, slides []goslide.Slide, theme goslide.Theme) {
	seen := make(map[goslide.FontSpec]bool)
	for _, s := range slides {
		for _, el := range s.Elements {
			ts := goslide.TextStyleOf(el.Style, theme)
			spec := ts.Font
			spec.Size = 0
			if seen[spec] {
				continue
			}
			seen[spec] = true
			// Missing fonts are measured and drawn with the embedded Go fonts.
			_ = fc.Load(spec.Family, spec.Weight, spec.Italic)
		}
	}
}

func (a *app) opsCmd() *cobra.Command {
	var scale float64
	cmd := &cobra.Command{
		Use:   "ops <slide.json>",
		Short: "Print the draw operations of a slide as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			slides, err := a.readSlides(args[0])
			if err != nil {
				return err
			}
			theme, err := a.cfg.Theme.apply(goslide.DefaultTheme())
			if err != nil {
				return err
			}
			r := goslide.NewRenderer(&goslide.RenderOptions{Theme: theme, Logger: a.log})
			results, err := r.RenderSlides(cmd.Context(), slides, scale, theme)
			if err != nil {
				return err
			}
			var ops []goslide.DrawOp
			for _, res := range results {
				ops = append(ops, res...)
			}
			data, err := goslide.MarshalOps(ops)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return err
		},
	}
	cmd.Flags().Float64Var(&scale, "scale", 1, "design units to pixels")
	return cmd
}

func (a *app) populateCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "populate <template.json> <data.json>",
		Short: "Fill a slide template with data and print the slide JSON",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var tpl goslide.SlideTemplate
			if err := readJSON(args[0], &tpl); err != nil {
				return err
			}
			var data any
			if err := readJSON(args[1], &data); err != nil {
				return err
			}
			theme, err := a.cfg.Theme.apply(goslide.DefaultTheme())
			if err != nil {
				return err
			}
			opts := goslide.DefaultPopulateOptions()
			opts.Theme = theme
			opts.Logger = a.log
			slide := goslide.PopulateTemplate(tpl, data, opts)

			enc, err := json.MarshalIndent(slide, "", "  ")
			if err != nil {
				return fmt.Errorf("encode slide: %w", err)
			}
			if out == "" {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(enc))
				return err
			}
			if err := os.WriteFile(out, append(enc, '\n'), 0o644); err != nil {
				return fmt.Errorf("write slide: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "write the slide to a file instead of stdout")
	return cmd
}

// readSlides decodes the slides in path and logs their validation
// problems. Invalid slides are still returned; the renderer skips what it
// cannot draw.
func (a *app) readSlides(path string) ([]goslide.Slide, error) {
	slides, err := decodeSlides(path)
	if err != nil {
		return nil, err
	}
	for i, s := range slides {
		if err := s.Validate(); err != nil {
			a.log.Warn("slide has problems", slog.Int("slide", i+1), slog.String("id", s.ID), slog.Any("error", err))
		}
	}
	return slides, nil
}

// decodeSlides decodes a single slide or an array of slides.
func decodeSlides(path string) ([]goslide.Slide, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read slides: %w", err)
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var slides []goslide.Slide
		if err := json.Unmarshal(trimmed, &slides); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
		return slides, nil
	}
	var s goslide.Slide
	if err := json.Unmarshal(trimmed, &s); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return []goslide.Slide{s}, nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
