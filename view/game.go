// Package view displays a coastline editor in an Ebitengine window.
//
// A [Game] uploads the editor's surfaces to GPU images when their revision
// changes, draws them under the camera transform and turns mouse, wheel and
// keyboard state into pointer events and commands. [Run] opens a window
// around a Game:
//
//	e, err := coastline.NewEditor(coastline.DefaultConfig())
//	if err != nil {
//		log.Fatal(err)
//	}
//	e.LoadAssets(context.Background())
//	log.Fatal(view.Run(e, view.RunConfig{Title: "Coastline", Width: 1280, Height: 800}))
package view

import (
	"fmt"
	"image/color"
	"net/url"
	"path"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/phanxgames/coastline"
)

// RunConfig configures the editor window.
type RunConfig struct {
	// Title is the window title.
	Title string
	// Width and Height are the initial window size. Zero means 1280×800.
	Width, Height int
	// ShowFPS draws frame and tick rates in the corner.
	ShowFPS bool
	// ScreenshotDir receives F12 screenshots. Empty means "screenshots".
	ScreenshotDir string
	// ClearColor fills the area around the canvas.
	ClearColor coastline.Color
	// FitDuration animates the initial and F-key fit-to-view, in seconds.
	FitDuration float32
}

const (
	defaultWidth  = 1280
	defaultHeight = 800
)

// uploaded is the GPU copy of one editor surface.
type uploaded struct {
	img *ebiten.Image
	rev uint64
	buf []byte
}

// Game implements [ebiten.Game] for an editor.
type Game struct {
	editor *coastline.Editor
	cfg    RunConfig

	surfaces map[coastline.SurfaceID]*uploaded
	input    inputState

	width, height int
	fitted        bool
	showHUD       bool

	screenshotQueue []string
}

// NewGame wraps e. The editor must not be mutated from other goroutines
// while the game runs.
func NewGame(e *coastline.Editor, cfg RunConfig) *Game {
	if cfg.Width <= 0 {
		cfg.Width = defaultWidth
	}
	if cfg.Height <= 0 {
		cfg.Height = defaultHeight
	}
	if cfg.ScreenshotDir == "" {
		cfg.ScreenshotDir = "screenshots"
	}
	if cfg.ClearColor == (coastline.Color{}) {
		cfg.ClearColor = coastline.Color{R: 0.16, G: 0.16, B: 0.18, A: 1}
	}
	return &Game{
		editor:   e,
		cfg:      cfg,
		surfaces: make(map[coastline.SurfaceID]*uploaded),
		showHUD:  true,
	}
}

// Editor returns the wrapped editor.
func (g *Game) Editor() *coastline.Editor { return g.editor }

// Screenshot queues a labeled capture of the next drawn frame.
func (g *Game) Screenshot(label string) {
	g.screenshotQueue = append(g.screenshotQueue, label)
}

// Update processes input and advances the editor by one tick.
func (g *Game) Update() error {
	dt := float32(1.0 / float64(ebiten.TPS()))
	if !g.editor.Injecting() {
		g.processInput()
	}
	g.editor.Update(dt)
	return nil
}

// Draw composites the editor surfaces onto screen.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(toRGBA(g.cfg.ClearColor))

	geo := canvasGeoM(g.editor.Camera(), g.editor.Surfaces().RenderScale())
	op := &ebiten.DrawImageOptions{GeoM: geo}
	if g.editor.Camera().Scale < g.editor.Surfaces().RenderScale() {
		op.Filter = ebiten.FilterLinear
	}
	for id, s := range g.editor.Surfaces().All() {
		screen.DrawImage(g.upload(id, s), op)
	}

	g.drawSelection(screen)
	g.drawMarquee(screen)
	g.drawBrushCursor(screen)
	if g.showHUD {
		g.drawHUD(screen)
	}
	g.flushScreenshots(screen)
}

// Layout tracks the window size and fits the canvas on the first call.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.width, g.height = outsideWidth, outsideHeight
	if !g.fitted {
		g.fitted = true
		g.fitView(0)
	}
	return outsideWidth, outsideHeight
}

func (g *Game) fitView(duration float32) {
	g.editor.FitView(coastline.Rect{Width: float64(g.width), Height: float64(g.height)}, duration)
}

// upload returns the GPU image of a surface, refreshing it when the editor
// has touched the surface since the last frame.
func (g *Game) upload(id coastline.SurfaceID, s *coastline.Surface) *ebiten.Image {
	src := s.Image()
	w, h := src.Rect.Dx(), src.Rect.Dy()
	rev := g.editor.Revision(id)
	u := g.surfaces[id]
	if u != nil && u.img.Bounds().Dx() == w && u.img.Bounds().Dy() == h && u.rev == rev {
		return u.img
	}
	if u == nil || u.img.Bounds().Dx() != w || u.img.Bounds().Dy() != h {
		if u != nil {
			u.img.Deallocate()
		}
		u = &uploaded{img: ebiten.NewImage(w, h)}
		g.surfaces[id] = u
	}
	u.buf = premultiply(u.buf, src.Pix)
	u.img.WritePixels(u.buf)
	u.rev = rev
	return u.img
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	st := g.editor.Snapshot()
	w, h := g.editor.Surfaces().DesignSize()
	msg := fmt.Sprintf("tool: %s  %s  zoom %.0f%%\ncanvas %dx%d  cursor %.0f,%.0f  selected %d",
		st.Tool, st.Interaction, g.editor.Camera().Scale*100,
		w, h, st.Cursor.X, st.Cursor.Y, len(st.Selection))
	if src := g.editor.Placement().Asset; src != "" {
		msg += "\nstamp: " + stampLabel(src) + "  (Tab to change)"
	}
	if g.cfg.ShowFPS {
		msg += fmt.Sprintf("\nFPS: %.1f  TPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS())
	}
	ebitenutil.DebugPrintAt(screen, msg, 8, 8)
}

// stampLabel shortens an asset source to its unescaped file name.
func stampLabel(src string) string {
	name := path.Base(src)
	if u, err := url.PathUnescape(name); err == nil {
		name = u
	}
	return name
}

// canvasGeoM maps surface buffer pixels to the screen: buffers are
// renderScale times the design size and the camera maps design pixels.
func canvasGeoM(cam *coastline.Camera, renderScale float64) ebiten.GeoM {
	var geo ebiten.GeoM
	if renderScale > 0 {
		geo.Scale(1/renderScale, 1/renderScale)
	}
	m := cam.Matrix()
	var camGeo ebiten.GeoM
	camGeo.SetElement(0, 0, m[0])
	camGeo.SetElement(1, 0, m[1])
	camGeo.SetElement(0, 1, m[2])
	camGeo.SetElement(1, 1, m[3])
	camGeo.SetElement(0, 2, m[4])
	camGeo.SetElement(1, 2, m[5])
	geo.Concat(camGeo)
	return geo
}

// premultiply converts straight-alpha RGBA bytes to the premultiplied form
// ebiten expects, reusing dst.
func premultiply(dst, src []byte) []byte {
	if cap(dst) < len(src) {
		dst = make([]byte, len(src))
	}
	dst = dst[:len(src)]
	for i := 0; i < len(src); i += 4 {
		a := uint32(src[i+3])
		switch a {
		case 255:
			copy(dst[i:i+4], src[i:i+4])
		case 0:
			dst[i], dst[i+1], dst[i+2], dst[i+3] = 0, 0, 0, 0
		default:
			dst[i] = uint8(uint32(src[i]) * a / 255)
			dst[i+1] = uint8(uint32(src[i+1]) * a / 255)
			dst[i+2] = uint8(uint32(src[i+2]) * a / 255)
			dst[i+3] = uint8(a)
		}
	}
	return dst
}

func toRGBA(c coastline.Color) color.RGBA {
	return color.RGBA{
		R: uint8(c.R*c.A*255 + 0.5),
		G: uint8(c.G*c.A*255 + 0.5),
		B: uint8(c.B*c.A*255 + 0.5),
		A: uint8(c.A*255 + 0.5),
	}
}

// Run opens a window and runs the editor until the window is closed.
func Run(e *coastline.Editor, cfg RunConfig) error {
	g := NewGame(e, cfg)
	ebiten.SetWindowTitle(g.cfg.Title)
	ebiten.SetWindowSize(g.cfg.Width, g.cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(g); err != nil {
		return fmt.Errorf("run editor: %w", err)
	}
	return nil
}
