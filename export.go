package coastline

import (
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"io"
	"iter"
	"math"

	"golang.org/x/image/draw"
)

// WalkabilityFileName is the conventional name of the walkability export.
const WalkabilityFileName = "navigation.json"

// exportLayers are the surfaces flattened into a raster export, back to
// front. Stamps are drawn separately.
var exportLayers = []SurfaceID{SurfaceBackground, SurfaceEffects, SurfaceMask, SurfacePaint}

// ExportSize returns the pixel size of a raster export of a width × height
// canvas at dpi.
func ExportSize(width, height int, dpi float64) (int, int) {
	s := dpi / BaseDPI
	return int(math.Round(float64(width) * s)), int(math.Round(float64(height) * s))
}

// ExportFileName returns the conventional file name of a raster export of
// the given pixel size.
func ExportFileName(w, h int, dpi float64) string {
	return fmt.Sprintf("map-%dx%d@%sdpi.png", w, h, formatDPI(dpi))
}

func formatDPI(dpi float64) string {
	if dpi == math.Trunc(dpi) {
		return fmt.Sprintf("%d", int(dpi))
	}
	return fmt.Sprintf("%g", dpi)
}

// ExportRaster flattens the canvas at dpi: the raster surfaces are resampled
// to the output size and every stamp is drawn on top individually, with its
// own colour adjustment and opacity.
func ExportRaster(s *Surfaces, stamps iter.Seq[Stamp], assets StampSource, dpi float64) (*image.NRGBA, error) {
	if dpi <= 0 || math.IsNaN(dpi) || math.IsInf(dpi, 0) {
		return nil, fmt.Errorf("export raster: invalid dpi %v", dpi)
	}
	w, h := s.DesignSize()
	ow, oh := ExportSize(w, h, dpi)
	if ow <= 0 || oh <= 0 {
		return nil, fmt.Errorf("export raster: %w: %dx%d at %v dpi", ErrInvalidCanvasSize, w, h, dpi)
	}
	out := image.NewNRGBA(image.Rect(0, 0, ow, oh))
	for _, id := range exportLayers {
		src := s.Get(id).Image()
		if src.Rect.Dx() == ow && src.Rect.Dy() == oh {
			draw.Draw(out, out.Rect, src, image.Point{}, draw.Over)
			continue
		}
		draw.CatmullRom.Scale(out, out.Rect, src, src.Rect, draw.Over, nil)
	}
	if assets != nil {
		scale := dpi / BaseDPI
		for st := range stamps {
			if tex, ok := assets.StampImage(st.Src); ok {
				drawStamp(out, st, tex, scale)
			}
		}
	}
	return out, nil
}

// WriteRaster encodes img as PNG.
func WriteRaster(w io.Writer, img image.Image) error {
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(w, img); err != nil {
		return fmt.Errorf("write raster: %w", err)
	}
	return nil
}

// WalkabilityGrid returns one cell per design pixel, row-major: 1 where the
// mask has land and neither the stamp nor the paint surface covers it,
// 0 elsewhere.
func WalkabilityGrid(s *Surfaces) [][]int {
	w, h := s.DesignSize()
	if w <= 0 || h <= 0 {
		return [][]int{}
	}
	land := downsample(s.Mask().Image(), w, h)
	obstacles := downsample(s.Stamps().Image(), w, h)
	paint := downsample(s.Paint().Image(), w, h)

	grid := make([][]int, h)
	for y := range h {
		row := make([]int, w)
		for x := range w {
			i := y*land.Stride + x*4 + 3
			if land.Pix[i] > 0 && obstacles.Pix[i] == 0 && paint.Pix[i] == 0 {
				row[x] = 1
			}
		}
		grid[y] = row
	}
	return grid
}

// downsample resamples src to exactly w × h pixels.
func downsample(src *image.NRGBA, w, h int) *image.NRGBA {
	if src.Rect.Dx() == w && src.Rect.Dy() == h && src.Rect.Min == (image.Point{}) {
		return src
	}
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Rect, src, src.Rect, draw.Src, nil)
	return dst
}

// WriteWalkabilityJSON writes grid as nested JSON arrays.
func WriteWalkabilityJSON(w io.Writer, grid [][]int) error {
	if err := json.NewEncoder(w).Encode(grid); err != nil {
		return fmt.Errorf("write walkability grid: %w", err)
	}
	return nil
}

// ExportRaster flattens the editor's canvas at dpi (see [ExportRaster]).
func (e *Editor) ExportRaster(dpi float64) (*image.NRGBA, error) {
	img, err := ExportRaster(e.surfaces, e.layers.Flatten(), e.assets, dpi)
	if err != nil {
		return nil, err
	}
	Logger().Info("raster exported", "width", img.Rect.Dx(), "height", img.Rect.Dy(), "dpi", dpi)
	return img, nil
}

// ExportWalkabilityGrid returns the editor's walkability grid (see
// [WalkabilityGrid]).
func (e *Editor) ExportWalkabilityGrid() [][]int {
	return WalkabilityGrid(e.surfaces)
}
