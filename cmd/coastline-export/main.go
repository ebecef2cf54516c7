// Command coastline-export renders a saved map without opening a window.
// It writes the map as a PNG at the requested DPI and, optionally, the
// walkability grid used for navigation as JSON.
//
//	coastline-export -project island.json -dpi 300 -nav island-nav.json
//
// A -script runs an editor script after the project is loaded, which is
// handy for generating maps in CI.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/phanxgames/coastline"
)

type options struct {
	project string
	script  string
	dpi     float64
	out     string
	nav     string
	land    string
	sea     string
	brushes []string
	timeout time.Duration
	frames  int
	verbose bool
}

func main() {
	var o options
	flag.StringVar(&o.project, "project", "", "project file to render")
	flag.StringVar(&o.script, "script", "", "editor script to run after loading")
	flag.Float64Var(&o.dpi, "dpi", coastline.BaseDPI, "export resolution in dots per inch")
	flag.StringVar(&o.out, "out", "", "PNG output path (default map-WxH@DPIdpi.png)")
	flag.StringVar(&o.nav, "nav", "", "write the walkability grid JSON to this path")
	flag.StringVar(&o.land, "land", coastline.DefaultLandTexture, "land texture source")
	flag.StringVar(&o.sea, "sea", coastline.DefaultSeaTexture, "sea texture source")
	brushes := flag.String("brushes", strings.Join(coastline.DefaultBrushTextures, ","), "comma-separated paint brush textures for -script")
	flag.DurationVar(&o.timeout, "timeout", 30*time.Second, "asset loading timeout")
	flag.IntVar(&o.frames, "frames", 10000, "frame limit for -script")
	flag.BoolVar(&o.verbose, "v", false, "verbose logging")
	flag.Parse()
	for _, src := range strings.Split(*brushes, ",") {
		if src = strings.TrimSpace(src); src != "" {
			o.brushes = append(o.brushes, src)
		}
	}

	level := slog.LevelInfo
	if o.verbose {
		level = slog.LevelDebug
	}
	coastline.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if err := run(o); err != nil {
		fmt.Fprintln(os.Stderr, "coastline-export:", err)
		os.Exit(1)
	}
}

func run(o options) error {
	if o.project == "" && o.script == "" {
		return errors.New("one of -project or -script is required")
	}
	ctx, cancel := context.WithTimeout(context.Background(), o.timeout)
	defer cancel()

	cfg := coastline.DefaultConfig()
	cfg.LandTexture, cfg.SeaTexture = o.land, o.sea
	// Only scripts paint; a plain export needs no brush textures. Stamps the
	// project uses are loaded with it, so the catalogue is skipped too.
	cfg.BrushTextures = nil
	if o.script != "" {
		cfg.BrushTextures = o.brushes
	}
	cfg.StampAssets = nil
	e, err := coastline.NewEditor(cfg)
	if err != nil {
		return err
	}
	e.LoadAssets(ctx)
	if err := e.WaitAssets(ctx); err != nil {
		return fmt.Errorf("load assets: %w", err)
	}

	if o.project != "" {
		if err := loadProject(e, o.project); err != nil {
			return err
		}
		if err := e.WaitAssets(ctx); err != nil {
			return fmt.Errorf("load stamp assets: %w", err)
		}
	}
	if o.script != "" {
		data, err := os.ReadFile(o.script)
		if err != nil {
			return fmt.Errorf("read script: %w", err)
		}
		r, err := coastline.LoadScript(data)
		if err != nil {
			return err
		}
		if err := coastline.RunScript(e, r, o.frames); err != nil {
			return err
		}
	}

	img, err := e.ExportRaster(o.dpi)
	if err != nil {
		return err
	}
	out := o.out
	if out == "" {
		w, h := e.Surfaces().DesignSize()
		out = coastline.ExportFileName(w, h, o.dpi)
	}
	if err := writeFile(out, func(w io.Writer) error { return coastline.WriteRaster(w, img) }); err != nil {
		return err
	}
	coastline.Logger().Info("map written", "path", out, "width", img.Rect.Dx(), "height", img.Rect.Dy())

	if o.nav != "" {
		grid := e.ExportWalkabilityGrid()
		if err := writeFile(o.nav, func(w io.Writer) error { return coastline.WriteWalkabilityJSON(w, grid) }); err != nil {
			return err
		}
		coastline.Logger().Info("walkability grid written", "path", o.nav, "rows", len(grid))
	}
	return nil
}

func loadProject(e *coastline.Editor, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open project: %w", err)
	}
	defer f.Close()
	if err := e.LoadProject(f); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
