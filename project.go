package coastline

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"io"
	"net/url"
	"strings"

	"golang.org/x/sync/errgroup"
)

// ProjectVersion is written to saved projects.
const ProjectVersion = "1.0.0"

// CanvasSize is the canvas size in design pixels.
type CanvasSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Project is the saved form of an editor document.
type Project struct {
	Version           string         `json:"version"`
	CanvasSize        *CanvasSize    `json:"canvasSize"`
	Layers            LayerList      `json:"layers"`
	MaskDataURL       string         `json:"maskDataURL"`
	BackgroundDataURL string         `json:"backgroundDataURL"`
	BrushTopDataURL   string         `json:"brushTopDataURL"`
	MaskEffects       *EffectsConfig `json:"maskEffects"`
}

// projectFields lists the keys a project document must contain.
var projectFields = []string{"version", "canvasSize", "layers", "maskDataURL"}

// ParseProject decodes and validates a project document. Missing required
// fields and malformed content report [ErrInvalidProject].
func ParseProject(r io.Reader) (*Project, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read project: %w", err)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse project: %w: %w", ErrInvalidProject, err)
	}
	for _, k := range projectFields {
		if v, ok := raw[k]; !ok || string(v) == "null" {
			return nil, fmt.Errorf("parse project: %w: missing %q", ErrInvalidProject, k)
		}
	}
	var p Project
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse project: %w: %w", ErrInvalidProject, err)
	}
	if p.Version == "" || p.MaskDataURL == "" {
		return nil, fmt.Errorf("parse project: %w: empty version or mask", ErrInvalidProject)
	}
	if p.CanvasSize == nil {
		return nil, fmt.Errorf("parse project: %w: missing %q", ErrInvalidProject, "canvasSize")
	}
	if p.CanvasSize.Width <= 0 || p.CanvasSize.Height <= 0 {
		return nil, fmt.Errorf("parse project: %w: %w", ErrInvalidProject, ErrInvalidCanvasSize)
	}
	return &p, nil
}

// projectRasters holds the decoded images of a project. A nil image means
// the project carried none for that surface.
type projectRasters struct {
	background, mask, paint image.Image
}

// decodeRasters decodes the embedded images concurrently. Any failure fails
// the whole set.
func (p *Project) decodeRasters() (projectRasters, error) {
	var out projectRasters
	var g errgroup.Group
	decode := func(name, dataURL string, dst *image.Image) {
		if dataURL == "" {
			return
		}
		g.Go(func() error {
			img, err := DecodeDataURL(dataURL)
			if err != nil {
				return fmt.Errorf("decode %s: %w", name, err)
			}
			*dst = img
			return nil
		})
	}
	decode("backgroundDataURL", p.BackgroundDataURL, &out.background)
	decode("maskDataURL", p.MaskDataURL, &out.mask)
	decode("brushTopDataURL", p.BrushTopDataURL, &out.paint)
	if err := g.Wait(); err != nil {
		return projectRasters{}, fmt.Errorf("load project: %w: %w", ErrInvalidProject, err)
	}
	return out, nil
}

// WriteProject encodes p as indented JSON.
func WriteProject(w io.Writer, p *Project) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p); err != nil {
		return fmt.Errorf("write project: %w", err)
	}
	return nil
}

// EncodeDataURL encodes img as a base64 PNG data URL.
func EncodeDataURL(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("encode data url: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// DecodeDataURL decodes an image from a data URL in base64 or
// percent-encoded form.
func DecodeDataURL(s string) (image.Image, error) {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return nil, fmt.Errorf("decode data url: missing data: prefix")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, fmt.Errorf("decode data url: missing payload")
	}
	var data []byte
	if strings.HasSuffix(meta, ";base64") {
		b, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("decode data url: %w", err)
		}
		data = b
	} else {
		u, err := url.PathUnescape(payload)
		if err != nil {
			return nil, fmt.Errorf("decode data url: %w", err)
		}
		data = []byte(u)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode data url: %w", err)
	}
	return img, nil
}

// Project returns the editor's document in saved form.
func (e *Editor) Project() (*Project, error) {
	w, h := e.surfaces.DesignSize()
	p := &Project{
		Version:    ProjectVersion,
		CanvasSize: &CanvasSize{Width: w, Height: h},
		Layers:     e.layers.Layers(),
	}
	fx := e.effects
	p.MaskEffects = &fx
	// The mask is saved unshaded; loading re-applies the inner shadow.
	for _, f := range []struct {
		src *Surface
		dst *string
	}{
		{e.surfaces.Land(), &p.MaskDataURL},
		{e.surfaces.Background(), &p.BackgroundDataURL},
		{e.surfaces.Paint(), &p.BrushTopDataURL},
	} {
		s, err := EncodeDataURL(f.src.Image())
		if err != nil {
			return nil, fmt.Errorf("save project: %s: %w", f.src.Name(), err)
		}
		*f.dst = s
	}
	return p, nil
}

// SaveProject writes the editor's document as JSON.
func (e *Editor) SaveProject(w io.Writer) error {
	p, err := e.Project()
	if err != nil {
		return err
	}
	if err := WriteProject(w, p); err != nil {
		return err
	}
	Logger().Info("project saved", "width", p.CanvasSize.Width, "height", p.CanvasSize.Height)
	return nil
}

// LoadProject replaces the editor's document with one read from r. The
// document is fully parsed and its images decoded before anything changes;
// on error the editor is left untouched. A document without effect
// settings keeps the current ones. Stamp images the document references
// start loading in the background and appear once applied by Update or
// WaitAssets.
func (e *Editor) LoadProject(r io.Reader) error {
	p, err := ParseProject(r)
	if err != nil {
		return err
	}
	rasters, err := p.decodeRasters()
	if err != nil {
		return err
	}
	e.applyProject(p, rasters)
	e.LoadLayerAssets(context.Background())
	return nil
}

// applyProject installs a parsed project with its decoded images.
func (e *Editor) applyProject(p *Project, rasters projectRasters) {
	w, h := p.CanvasSize.Width, p.CanvasSize.Height
	e.cfg.Width, e.cfg.Height = w, h
	e.surfaces.Resize(w, h, RenderScale(e.cfg.ViewportDPI))
	e.layers.SetLayers(p.Layers)
	e.pointer = pointerState{}
	e.closeSelectionPanel()
	if p.MaskEffects != nil {
		e.effects = *p.MaskEffects
	}

	bg := e.surfaces.Background()
	if rasters.background != nil {
		bg.DrawScaled(rasters.background, bg.Image().Rect)
	} else {
		e.brush.FillBackground()
	}
	for _, f := range []struct {
		img image.Image
		dst *Surface
	}{
		{rasters.mask, e.surfaces.Land()},
		{rasters.paint, e.surfaces.Paint()},
	} {
		if f.img != nil {
			f.dst.DrawScaled(f.img, f.dst.Image().Rect)
		}
	}
	e.renderStamps()
	e.applyEffects()
	e.renderGrid()
	for id := range surfaceCount {
		e.touch(id)
	}
	Logger().Info("project loaded", "width", w, "height", h, "layers", e.layers.Len())
	e.emit(EditorEvent{Type: EventProjectLoaded, Width: w, Height: h})
	e.emit(EditorEvent{Type: EventSelectionChanged})
}
