package coastline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image/color"
	"image/png"
	"net/url"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestParseProjectValidation(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not json", `{`},
		{"missing version", `{"canvasSize":{"width":10,"height":10},"layers":[],"maskDataURL":"data:,"}`},
		{"missing canvas size", `{"version":"1.0.0","layers":[],"maskDataURL":"data:,"}`},
		{"missing layers", `{"version":"1.0.0","canvasSize":{"width":10,"height":10},"maskDataURL":"data:,"}`},
		{"missing mask", `{"version":"1.0.0","canvasSize":{"width":10,"height":10},"layers":[]}`},
		{"null layers", `{"version":"1.0.0","canvasSize":{"width":10,"height":10},"layers":null,"maskDataURL":"data:,"}`},
		{"empty version", `{"version":"","canvasSize":{"width":10,"height":10},"layers":[],"maskDataURL":"data:,"}`},
		{"null canvas size", `{"version":"1.0.0","canvasSize":null,"layers":[],"maskDataURL":"data:,"}`},
		{"canvas size not an object", `{"version":"1.0.0","canvasSize":7,"layers":[],"maskDataURL":"data:,"}`},
		{"zero width", `{"version":"1.0.0","canvasSize":{"width":0,"height":10},"layers":[],"maskDataURL":"data:,"}`},
		{"bad layer", `{"version":"1.0.0","canvasSize":{"width":10,"height":10},"layers":[{"type":"circle"}],"maskDataURL":"data:,"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseProject(strings.NewReader(tt.doc)); !errors.Is(err, ErrInvalidProject) {
				t.Errorf("ParseProject() err = %v, want ErrInvalidProject", err)
			}
		})
	}
}

func TestParseProjectOptionalFields(t *testing.T) {
	doc := `{"version":"1.0.0","canvasSize":{"width":30,"height":20},"layers":[` +
		`{"type":"stamp","id":"a","src":"tree.png","x":1,"y":2,"width":10,"height":10}],"maskDataURL":"data:,"}`
	p, err := ParseProject(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("ParseProject: %v", err)
	}
	if p.MaskEffects != nil {
		t.Error("absent maskEffects decoded as non-nil")
	}
	if p.BackgroundDataURL != "" || p.BrushTopDataURL != "" {
		t.Error("absent images decoded as non-empty")
	}
	if len(p.Layers) != 1 || p.Layers[0].(Stamp).Saturation != 100 {
		t.Errorf("layers = %+v", p.Layers)
	}
}

func TestDataURLRoundTrip(t *testing.T) {
	src := solidNRGBA(3, 2, treeGreen)
	s, err := EncodeDataURL(src)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(s, "data:image/png;base64,") {
		t.Errorf("data url prefix = %q", s[:min(len(s), 24)])
	}
	img, err := DecodeDataURL(s)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds() != src.Rect {
		t.Errorf("bounds = %v, want %v", img.Bounds(), src.Rect)
	}
}

func TestDecodeDataURLPercentEncoded(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, solidNRGBA(2, 2, treeGreen)); err != nil {
		t.Fatal(err)
	}
	img, err := DecodeDataURL("data:image/png," + url.PathEscape(buf.String()))
	if err != nil {
		t.Fatalf("DecodeDataURL: %v", err)
	}
	if img.Bounds().Dx() != 2 {
		t.Errorf("width = %d, want 2", img.Bounds().Dx())
	}
}

func TestDecodeDataURLInvalid(t *testing.T) {
	for _, s := range []string{"", "image/png;base64,AAAA", "data:image/png;base64", "data:image/png;base64,!!!", "data:,notanimage"} {
		if _, err := DecodeDataURL(s); err == nil {
			t.Errorf("DecodeDataURL(%q) succeeded", s)
		}
	}
}

func TestSaveProjectFormat(t *testing.T) {
	e, _ := newTestEditor(t, 40, 30)
	e.Layers().AddStamp(stampAt("a", 1, 2))
	var buf bytes.Buffer
	if err := e.SaveProject(&buf); err != nil {
		t.Fatalf("SaveProject: %v", err)
	}
	if !strings.Contains(buf.String(), "\n  \"version\": \"1.0.0\"") {
		t.Errorf("document is not 2-space indented:\n%s", buf.String()[:min(buf.Len(), 80)])
	}
	var raw map[string]any
	if err := json.Unmarshal(buf.Bytes(), &raw); err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"version", "canvasSize", "layers", "maskDataURL", "backgroundDataURL", "brushTopDataURL", "maskEffects"} {
		if _, ok := raw[k]; !ok {
			t.Errorf("saved document lacks %q", k)
		}
	}
	layer := raw["layers"].([]any)[0].(map[string]any)
	if layer["type"] != "stamp" || layer["id"] != "a" {
		t.Errorf("layer = %v", layer)
	}
}

func TestProjectRoundTrip(t *testing.T) {
	e, _ := newTestEditor(t, 64, 48)
	e.SetMaskBrush(MaskBrush{Mode: BrushAdd, Shape: ShapeSquare, Size: 16})
	e.SelectTool(ToolMask)
	click(e, 20, 20)
	e.Surfaces().Paint().Image().SetNRGBA(50, 40, paintRed)
	e.SelectTool(ToolStamp)
	e.SelectStampAsset("tree.png")
	click(e, 40, 24)
	g := e.CreateGroup()
	fx := DefaultEffects()
	fx.Ripples.Enabled = false
	e.SetEffects(fx)

	var buf bytes.Buffer
	if err := e.SaveProject(&buf); err != nil {
		t.Fatal(err)
	}

	loaded, sink := newTestEditor(t, 10, 10)
	if err := loaded.LoadProject(&buf); err != nil {
		t.Fatalf("LoadProject: %v", err)
	}
	if w, h := loaded.Surfaces().DesignSize(); w != 64 || h != 48 {
		t.Errorf("DesignSize() = %dx%d, want 64x48", w, h)
	}
	if !reflect.DeepEqual(loaded.Layers().Layers(), e.Layers().Layers()) {
		t.Errorf("layers = %+v, want %+v", loaded.Layers().Layers(), e.Layers().Layers())
	}
	if _, ok := loaded.Layers().Find(g.ID); !ok {
		t.Error("group lost")
	}
	if len(loaded.Layers().Selection()) != 0 {
		t.Error("selection not cleared on load")
	}
	if loaded.Effects() != fx {
		t.Errorf("effects = %+v, want %+v", loaded.Effects(), fx)
	}
	if a := loaded.Surfaces().Mask().AlphaAt(20, 20); a == 0 {
		t.Error("mask content lost")
	}
	if got := loaded.Surfaces().Paint().Image().NRGBAAt(50, 40); got != paintRed {
		t.Errorf("paint pixel = %v, want %v", got, paintRed)
	}
	if got := loaded.Surfaces().Stamps().Image().NRGBAAt(40, 24); got != treeGreen {
		t.Errorf("stamp not re-rendered: %v", got)
	}
	if !sink.has(EventProjectLoaded) {
		t.Error("no project-loaded event")
	}
}

func TestLoadProjectKeepsEffectsWhenAbsent(t *testing.T) {
	e, _ := newTestEditor(t, 16, 16)
	fx := DefaultEffects()
	fx.Stroke.Width = 4
	e.SetEffects(fx)
	mask, _ := EncodeDataURL(solidNRGBA(8, 8, landGreen))
	doc := `{"version":"1.0.0","canvasSize":{"width":8,"height":8},"layers":[],"maskDataURL":"` + mask + `"}`
	if err := e.LoadProject(strings.NewReader(doc)); err != nil {
		t.Fatal(err)
	}
	if e.Effects() != fx {
		t.Error("effects replaced by a document without them")
	}
	if got := e.Surfaces().Background().Image().NRGBAAt(4, 4); got != seaBlue {
		t.Errorf("background = %v, want sea fill", got)
	}
}

func TestLoadProjectScalesToRenderResolution(t *testing.T) {
	e, _ := newTestEditor(t, 16, 16)
	if err := e.SetViewportDPI(192); err != nil {
		t.Fatal(err)
	}
	mask, _ := EncodeDataURL(solidNRGBA(8, 8, landGreen))
	doc := `{"version":"1.0.0","canvasSize":{"width":8,"height":8},"layers":[],"maskDataURL":"` + mask + `"}`
	if err := e.LoadProject(strings.NewReader(doc)); err != nil {
		t.Fatal(err)
	}
	m := e.Surfaces().Mask()
	if m.Width() != 16 || m.Height() != 16 {
		t.Fatalf("mask buffer = %dx%d, want 16x16", m.Width(), m.Height())
	}
	if a := m.AlphaAt(15, 15); a != 255 {
		t.Errorf("alpha at (15, 15) = %d, want 255", a)
	}
}

func TestLoadProjectInvalidLeavesEditor(t *testing.T) {
	e, _ := newTestEditor(t, 32, 32)
	e.Layers().AddStamp(stampAt("a", 0, 0))
	fillLand(e.Surfaces(), ColorWhite)

	docs := []string{
		`{"version":"1.0.0"}`,
		`{"version":"1.0.0","canvasSize":{"width":8,"height":8},"layers":[],"maskDataURL":"data:image/png;base64,AAAA"}`,
	}
	for _, doc := range docs {
		if err := e.LoadProject(strings.NewReader(doc)); !errors.Is(err, ErrInvalidProject) {
			t.Errorf("LoadProject() err = %v, want ErrInvalidProject", err)
		}
	}
	if w, _ := e.Surfaces().DesignSize(); w != 32 {
		t.Errorf("width = %d, want 32", w)
	}
	if e.Layers().Len() != 1 {
		t.Error("layers replaced by an invalid document")
	}
	if e.Surfaces().Mask().AlphaAt(5, 5) != 255 {
		t.Error("mask cleared by an invalid document")
	}
}

func TestLoadProjectLoadsStampImages(t *testing.T) {
	e, _ := newTestEditor(t, 16, 16)
	src, err := EncodeDataURL(solidNRGBA(4, 4, treeGreen))
	if err != nil {
		t.Fatal(err)
	}
	mask, _ := EncodeDataURL(solidNRGBA(16, 16, landGreen))
	doc := `{"version":"1.0.0","canvasSize":{"width":16,"height":16},"layers":[` +
		`{"type":"stamp","id":"a","src":"` + src + `","x":2,"y":2,"width":4,"height":4}],"maskDataURL":"` + mask + `"}`
	if err := e.LoadProject(strings.NewReader(doc)); err != nil {
		t.Fatal(err)
	}
	if e.Assets().Pending() != 1 {
		t.Fatalf("Pending() = %d, want 1", e.Assets().Pending())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := e.WaitAssets(ctx); err != nil {
		t.Fatal(err)
	}
	if got := e.Surfaces().Stamps().Image().NRGBAAt(3, 3); got != treeGreen {
		t.Errorf("stamp pixel = %v, want %v", got, treeGreen)
	}
}

func TestEffectsRerunsKeepMaskAndSaveUnshaded(t *testing.T) {
	e, _ := newTestEditor(t, 64, 64)
	e.SetMaskBrush(MaskBrush{Mode: BrushAdd, Shape: ShapeSquare, Size: 20})
	e.SelectTool(ToolMask)
	click(e, 32, 32)

	m := e.Surfaces().Mask().Image()
	if edge := m.NRGBAAt(23, 23); edge == landGreen {
		t.Errorf("inner edge (23,23) = %v, want shaded", edge)
	}
	first := bytes.Clone(m.Pix)
	for range 3 {
		e.SetEffects(DefaultEffects())
	}
	if !bytes.Equal(first, e.Surfaces().Mask().Image().Pix) {
		t.Errorf("mask changed across effect runs: (23,23) = %v", e.Surfaces().Mask().Image().NRGBAAt(23, 23))
	}

	p, err := e.Project()
	if err != nil {
		t.Fatal(err)
	}
	img, err := DecodeDataURL(p.MaskDataURL)
	if err != nil {
		t.Fatal(err)
	}
	if got := color.NRGBAModel.Convert(img.At(23, 23)).(color.NRGBA); got != landGreen {
		t.Errorf("saved mask (23,23) = %v, want unshaded %v", got, landGreen)
	}

	var buf bytes.Buffer
	if err := WriteProject(&buf, p); err != nil {
		t.Fatal(err)
	}
	loaded, _ := newTestEditor(t, 8, 8)
	if err := loaded.LoadProject(&buf); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first, loaded.Surfaces().Mask().Image().Pix) {
		t.Error("reloaded mask differs from the shaded original")
	}
}
