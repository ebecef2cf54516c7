package coastline

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// fitMargin is the fraction of the viewport the canvas occupies after FitTo.
const fitMargin = 0.9

// zoomAnim holds the active tweens of an animated zoom.
type zoomAnim struct {
	scale, x, y *gween.Tween
	done        [3]bool
}

// Camera is the pan/zoom transform applied to the canvas container.
// A world point w appears on screen at Origin + (X, Y) + w*Scale.
type Camera struct {
	// Scale is the uniform zoom factor (1.0 = design size).
	Scale float64
	// X and Y are the pan offset in screen pixels relative to Origin.
	X, Y float64
	// Origin is the container's top-left corner on screen.
	Origin Vec2

	anim *zoomAnim
}

// NewCamera returns a camera with scale 1 and no pan.
func NewCamera() *Camera {
	return &Camera{Scale: 1}
}

// ScreenToWorld converts screen coordinates to world (design pixel)
// coordinates. The result is computed from the current fields on every call.
func (c *Camera) ScreenToWorld(sx, sy float64) (wx, wy float64) {
	s := c.Scale
	if s == 0 {
		s = 1
	}
	return (sx - c.Origin.X - c.X) / s, (sy - c.Origin.Y - c.Y) / s
}

// WorldToScreen converts world coordinates to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy float64) (sx, sy float64) {
	return wx*c.Scale + c.X + c.Origin.X, wy*c.Scale + c.Y + c.Origin.Y
}

// Matrix returns the world-to-screen affine matrix.
func (c *Camera) Matrix() [6]float64 {
	return [6]float64{c.Scale, 0, 0, c.Scale, c.X + c.Origin.X, c.Y + c.Origin.Y}
}

// Pan moves the view by a screen-space delta. Zoom does not affect the step.
func (c *Camera) Pan(dx, dy float64) {
	c.anim = nil
	c.X += dx
	c.Y += dy
}

// ZoomAt zooms in or out by ZoomStep around the screen point (sx, sy),
// keeping the world point under it fixed. Scale is clamped to
// [MinZoom, MaxZoom].
func (c *Camera) ZoomAt(sx, sy float64, zoomIn bool) {
	factor := ZoomStep
	if !zoomIn {
		factor = 1 / ZoomStep
	}
	c.zoomAround(sx, sy, c.Scale*factor)
}

func (c *Camera) zoomAround(sx, sy, newScale float64) {
	c.anim = nil
	newScale = clampZoom(newScale)
	mx := sx - c.Origin.X
	my := sy - c.Origin.Y
	c.X = mx - (mx-c.X)*newScale/c.Scale
	c.Y = my - (my-c.Y)*newScale/c.Scale
	c.Scale = newScale
}

// ZoomTo animates the camera to the given scale and pan offset over duration
// seconds. A non-positive duration applies the values immediately.
func (c *Camera) ZoomTo(scale, x, y float64, duration float32, easeFn ease.TweenFunc) {
	scale = clampZoom(scale)
	if duration <= 0 {
		c.anim = nil
		c.Scale, c.X, c.Y = scale, x, y
		return
	}
	if easeFn == nil {
		easeFn = ease.OutCubic
	}
	c.anim = &zoomAnim{
		scale: gween.New(float32(c.Scale), float32(scale), duration, easeFn),
		x:     gween.New(float32(c.X), float32(x), duration, easeFn),
		y:     gween.New(float32(c.Y), float32(y), duration, easeFn),
	}
}

// FitTo animates the camera so a canvas of the given design size is centred
// inside viewport (screen coordinates) with a small margin.
func (c *Camera) FitTo(viewport Rect, canvasW, canvasH float64, duration float32) {
	if canvasW <= 0 || canvasH <= 0 || viewport.Width <= 0 || viewport.Height <= 0 {
		return
	}
	scale := clampZoom(math.Min(viewport.Width/canvasW, viewport.Height/canvasH) * fitMargin)
	x := viewport.X - c.Origin.X + (viewport.Width-canvasW*scale)/2
	y := viewport.Y - c.Origin.Y + (viewport.Height-canvasH*scale)/2
	c.ZoomTo(scale, x, y, duration, ease.InOutQuad)
}

// Animating reports whether a zoom tween is in progress.
func (c *Camera) Animating() bool {
	return c.anim != nil
}

// Update advances an active zoom tween by dt seconds.
func (c *Camera) Update(dt float32) {
	a := c.anim
	if a == nil {
		return
	}
	step := func(i int, tw *gween.Tween, dst *float64) {
		if a.done[i] {
			return
		}
		val, done := tw.Update(dt)
		*dst = float64(val)
		a.done[i] = done
	}
	step(0, a.scale, &c.Scale)
	step(1, a.x, &c.X)
	step(2, a.y, &c.Y)
	if a.done[0] && a.done[1] && a.done[2] {
		c.anim = nil
	}
}

func clampZoom(s float64) float64 {
	return math.Max(MinZoom, math.Min(MaxZoom, s))
}
