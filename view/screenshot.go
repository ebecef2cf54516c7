package view

import (
	"image"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/image/draw"

	"github.com/phanxgames/coastline"
)

// flushScreenshots saves the frame just drawn once per queued label. Files
// are PNGs named by time and label under RunConfig.ScreenshotDir.
func (g *Game) flushScreenshots(screen *ebiten.Image) {
	if len(g.screenshotQueue) == 0 {
		return
	}
	defer func() { g.screenshotQueue = g.screenshotQueue[:0] }()

	if err := os.MkdirAll(g.cfg.ScreenshotDir, 0o755); err != nil {
		coastline.Logger().Warn("screenshot skipped", "dir", g.cfg.ScreenshotDir, "err", err)
		return
	}

	bounds := screen.Bounds()
	pixels := make([]byte, 4*bounds.Dx()*bounds.Dy())
	screen.ReadPixels(pixels)
	img := unpremultiply(pixels, bounds.Dx(), bounds.Dy())

	prefix := time.Now().Format("2006-01-02T150405")
	for _, label := range g.screenshotQueue {
		path := filepath.Join(g.cfg.ScreenshotDir, prefix+"-"+sanitizeLabel(label)+".png")
		if err := saveFrame(path, img); err != nil {
			coastline.Logger().Warn("screenshot failed", "path", path, "err", err)
			continue
		}
		coastline.Logger().Info("screenshot written", "path", path)
	}
}

// unpremultiply wraps premultiplied RGBA bytes read back from the GPU and
// converts them to a straight-alpha image.
func unpremultiply(pixels []byte, w, h int) *image.NRGBA {
	rect := image.Rect(0, 0, w, h)
	src := &image.RGBA{Pix: pixels, Stride: 4 * w, Rect: rect}
	dst := image.NewNRGBA(rect)
	draw.Draw(dst, rect, src, image.Point{}, draw.Src)
	return dst
}

func saveFrame(path string, img image.Image) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return coastline.WriteRaster(f, img)
}

// sanitizeLabel keeps letters, digits, dashes and dots and turns anything
// else into an underscore. Blank labels become "unlabeled".
func sanitizeLabel(label string) string {
	if label = strings.TrimSpace(label); label == "" {
		return "unlabeled"
	}
	return strings.Map(func(r rune) rune {
		if r < utf8.RuneSelf && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '.') {
			return r
		}
		return '_'
	}, label)
}
