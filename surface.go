package coastline

import (
	"image"
	"iter"
	"math"

	"golang.org/x/image/draw"
)

// Surface is a persistent straight-alpha raster buffer at render resolution.
// Unlike scratch tiles built during a dab, a Surface is owned by the editor
// and mutated in place until the canvas is resized.
type Surface struct {
	name string
	img  *image.NRGBA
}

// NewSurface creates a transparent surface of w × h pixels.
func NewSurface(name string, w, h int) *Surface {
	return &Surface{name: name, img: image.NewNRGBA(image.Rect(0, 0, max(w, 0), max(h, 0)))}
}

// Name returns the surface name.
func (s *Surface) Name() string { return s.name }

// Image returns the underlying buffer for direct manipulation.
func (s *Surface) Image() *image.NRGBA { return s.img }

// Width returns the surface width in pixels.
func (s *Surface) Width() int { return s.img.Rect.Dx() }

// Height returns the surface height in pixels.
func (s *Surface) Height() int { return s.img.Rect.Dy() }

// Clear fills the surface with transparent black.
func (s *Surface) Clear() {
	clear(s.img.Pix)
}

// Fill fills the entire surface with the given color.
func (s *Surface) Fill(c Color) {
	n := c.NRGBA()
	if n.A == 0 {
		s.Clear()
		return
	}
	px := [4]byte{n.R, n.G, n.B, n.A}
	for i := 0; i < len(s.img.Pix); i += 4 {
		copy(s.img.Pix[i:i+4], px[:])
	}
}

// AlphaAt returns the alpha at (x, y), or 0 outside the surface.
func (s *Surface) AlphaAt(x, y int) uint8 {
	if !(image.Point{x, y}.In(s.img.Rect)) {
		return 0
	}
	return s.img.Pix[s.img.PixOffset(x, y)+3]
}

// Draw composites src at (x, y) using op and a global alpha.
func (s *Surface) Draw(src image.Image, x, y int, op CompositeOp, alpha float64) {
	compositeImage(s.img, src, nil, x, y, op, alpha)
}

// DrawMasked composites src at (x, y) with its coverage multiplied by mask,
// which is aligned with src.
func (s *Surface) DrawMasked(src image.Image, mask *image.Alpha, x, y int, op CompositeOp, alpha float64) {
	compositeImage(s.img, src, mask, x, y, op, alpha)
}

// DrawScaled resamples src into r with source-over blending.
func (s *Surface) DrawScaled(src image.Image, r image.Rectangle) {
	draw.CatmullRom.Scale(s.img, r, src, src.Bounds(), draw.Over, nil)
}

// Empty reports whether every pixel is fully transparent.
func (s *Surface) Empty() bool {
	for i := 3; i < len(s.img.Pix); i += 4 {
		if s.img.Pix[i] != 0 {
			return false
		}
	}
	return true
}

// SurfaceID identifies one of the fixed editor surfaces.
type SurfaceID uint8

// Surfaces in back-to-front screen order.
const (
	SurfaceBackground SurfaceID = iota // sea
	SurfaceEffects                     // procedural coast overlay
	SurfaceMask                        // land; its alpha defines the coastline
	SurfaceStamps                      // rendered object layer
	SurfacePaint                       // secondary ("top") paint
	SurfaceGrid                        // navigation grid overlay
	surfaceCount
)

var surfaceNames = [...]string{"background", "effects", "mask", "stamps", "paint", "grid"}

func (id SurfaceID) String() string {
	if int(id) < len(surfaceNames) {
		return surfaceNames[id]
	}
	return "unknown"
}

// Surfaces is the fixed set of raster buffers backing a canvas.
type Surfaces struct {
	width, height int
	renderScale   float64
	list          [surfaceCount]*Surface
	land          *Surface
}

// NewSurfaces creates every surface for a canvas of width × height design
// pixels at the given render scale.
func NewSurfaces(width, height int, renderScale float64) *Surfaces {
	s := &Surfaces{}
	s.Resize(width, height, renderScale)
	return s
}

// Resize recreates every surface, clearing all pixel content.
func (s *Surfaces) Resize(width, height int, renderScale float64) {
	if renderScale <= 0 {
		renderScale = 1
	}
	s.width, s.height, s.renderScale = width, height, renderScale
	pw, ph := s.PixelSize()
	for i := range s.list {
		s.list[i] = NewSurface(SurfaceID(i).String(), pw, ph)
	}
	s.land = NewSurface("land", pw, ph)
}

// Get returns the surface with the given id.
func (s *Surfaces) Get(id SurfaceID) *Surface { return s.list[id] }

// Background returns the sea surface.
func (s *Surfaces) Background() *Surface { return s.list[SurfaceBackground] }

// Effects returns the procedural overlay surface.
func (s *Surfaces) Effects() *Surface { return s.list[SurfaceEffects] }

// Mask returns the displayed land surface: the land with the inner shadow
// applied by the last effects run.
func (s *Surfaces) Mask() *Surface { return s.list[SurfaceMask] }

// Land returns the unshaded land buffer. It is not displayed. Brushes and
// project loads write it alongside Mask, and [ApplyEffects] rebuilds Mask
// from it, so shading never accumulates.
func (s *Surfaces) Land() *Surface { return s.land }

// RestoreMask overwrites Mask with the unshaded land.
func (s *Surfaces) RestoreMask() {
	copy(s.Mask().img.Pix, s.land.img.Pix)
}

// Stamps returns the object layer surface.
func (s *Surfaces) Stamps() *Surface { return s.list[SurfaceStamps] }

// Paint returns the secondary paint surface.
func (s *Surfaces) Paint() *Surface { return s.list[SurfacePaint] }

// Grid returns the grid overlay surface.
func (s *Surfaces) Grid() *Surface { return s.list[SurfaceGrid] }

// DesignSize returns the canvas size in design pixels.
func (s *Surfaces) DesignSize() (int, int) { return s.width, s.height }

// RenderScale returns the current render scale.
func (s *Surfaces) RenderScale() float64 { return s.renderScale }

// PixelSize returns the backing buffer size.
func (s *Surfaces) PixelSize() (int, int) {
	return int(math.Ceil(float64(s.width) * s.renderScale)),
		int(math.Ceil(float64(s.height) * s.renderScale))
}

// All yields every surface in back-to-front screen order.
func (s *Surfaces) All() iter.Seq2[SurfaceID, *Surface] {
	return func(yield func(SurfaceID, *Surface) bool) {
		for i, sf := range s.list {
			if !yield(SurfaceID(i), sf) {
				return
			}
		}
	}
}
