package coastline

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"
)

// Zoom limits and the base DPI that maps to a render scale of 1.
const (
	MinZoom  = 0.1
	MaxZoom  = 10.0
	ZoomStep = 1.1
	BaseDPI  = 96.0
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float64
}

// Common colors.
var (
	ColorWhite       = Color{1, 1, 1, 1}
	ColorBlack       = Color{0, 0, 0, 1}
	ColorTransparent = Color{}
)

// NRGBA converts c to a straight-alpha 8-bit color.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{
		R: unit8(c.R),
		G: unit8(c.G),
		B: unit8(c.B),
		A: unit8(c.A),
	}
}

// String returns the CSS form of c: #rrggbb when opaque, rgba(...) otherwise.
func (c Color) String() string {
	n := c.NRGBA()
	if n.A == 255 {
		return fmt.Sprintf("#%02x%02x%02x", n.R, n.G, n.B)
	}
	return fmt.Sprintf("rgba(%d,%d,%d,%s)", n.R, n.G, n.B,
		strconv.FormatFloat(math.Round(c.A*1000)/1000, 'f', -1, 64))
}

// MarshalText encodes c as a CSS color string.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText parses a CSS color string.
func (c *Color) UnmarshalText(b []byte) error {
	parsed, err := ParseColor(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseColor parses the CSS color forms used by project files:
// #rgb, #rrggbb, #rrggbbaa, rgb(r,g,b), rgba(r,g,b,a) and the keywords
// white, black and transparent.
func ParseColor(s string) (Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "white":
		return ColorWhite, nil
	case "black":
		return ColorBlack, nil
	case "transparent":
		return ColorTransparent, nil
	}
	if strings.HasPrefix(s, "#") {
		return parseHexColor(s[1:])
	}
	var body string
	switch {
	case strings.HasPrefix(s, "rgba(") && strings.HasSuffix(s, ")"):
		body = s[5 : len(s)-1]
	case strings.HasPrefix(s, "rgb(") && strings.HasSuffix(s, ")"):
		body = s[4 : len(s)-1]
	default:
		return Color{}, fmt.Errorf("parse color %q: unsupported format", s)
	}
	parts := strings.Split(body, ",")
	if len(parts) != 3 && len(parts) != 4 {
		return Color{}, fmt.Errorf("parse color %q: want 3 or 4 components", s)
	}
	var v [4]float64
	v[3] = 1
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return Color{}, fmt.Errorf("parse color %q: %w", s, err)
		}
		v[i] = f
	}
	return Color{
		R: clamp01(v[0] / 255),
		G: clamp01(v[1] / 255),
		B: clamp01(v[2] / 255),
		A: clamp01(v[3]),
	}, nil
}

func parseHexColor(h string) (Color, error) {
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) == 6 {
		h += "ff"
	}
	if len(h) != 8 {
		return Color{}, fmt.Errorf("parse color %q: bad hex length", "#"+h)
	}
	n, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("parse color %q: %w", "#"+h, err)
	}
	return Color{
		R: float64(n>>24&0xff) / 255,
		G: float64(n>>16&0xff) / 255,
		B: float64(n>>8&0xff) / 255,
		A: float64(n&0xff) / 255,
	}, nil
}

// Vec2 is a 2D vector used for positions, offsets and sizes.
type Vec2 struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// RectFromPoints returns the normalized rectangle spanned by two corners.
func RectFromPoints(a, b Vec2) Rect {
	return Rect{
		X:      math.Min(a.X, b.X),
		Y:      math.Min(a.Y, b.Y),
		Width:  math.Abs(a.X - b.X),
		Height: math.Abs(a.Y - b.Y),
	}
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// CompositeOp selects a Porter-Duff compositing rule.
type CompositeOp uint8

const (
	OpSourceOver      CompositeOp = iota // standard alpha blending
	OpSourceAtop                         // paint only where the destination is opaque
	OpSourceIn                           // source clipped to destination alpha, destination discarded
	OpSourceOut                          // source where the destination is transparent
	OpDestinationIn                      // keep destination where the source is opaque
	OpDestinationOut                     // punch transparent holes where the source is opaque
)

var compositeOpNames = [...]string{
	"source-over", "source-atop", "source-in", "source-out",
	"destination-in", "destination-out",
}

func (op CompositeOp) String() string {
	if int(op) < len(compositeOpNames) {
		return compositeOpNames[op]
	}
	return "unknown"
}

// MouseButton identifies a mouse button.
type MouseButton uint8

const (
	MouseButtonLeft   MouseButton = iota // primary (left) mouse button
	MouseButtonRight                     // secondary (right) mouse button
	MouseButtonMiddle                    // middle mouse button (scroll wheel click)
)

// KeyModifiers is a bitmask of keyboard modifier keys.
// Values can be combined with bitwise OR (e.g. ModShift | ModCtrl).
type KeyModifiers uint8

const (
	ModShift KeyModifiers = 1 << iota // Shift key
	ModCtrl                           // Control key
	ModAlt                            // Alt / Option key
	ModMeta                           // Meta / Command / Windows key
)

// Additive reports whether Ctrl or Meta is held.
func (m KeyModifiers) Additive() bool {
	return m&(ModCtrl|ModMeta) != 0
}

// Tool is an editor tool or side panel.
type Tool uint8

const (
	ToolSettings Tool = iota
	ToolMask
	ToolStamp
	ToolBrush
	ToolAssets
	ToolExport
	ToolGrid
	ToolSelection
)

var toolNames = [...]string{"settings", "mask", "stamp", "brush", "assets", "export", "grid", "selection"}

func (t Tool) String() string {
	if int(t) < len(toolNames) {
		return toolNames[t]
	}
	return "unknown"
}

// ParseTool returns the tool with the given name.
func ParseTool(s string) (Tool, error) {
	for i, n := range toolNames {
		if n == s {
			return Tool(i), nil
		}
	}
	return 0, fmt.Errorf("parse tool %q: unknown tool", s)
}

// BrushMode selects whether the mask brush adds or removes land.
type BrushMode uint8

const (
	BrushAdd BrushMode = iota
	BrushSubtract
)

func (m BrushMode) String() string {
	if m == BrushSubtract {
		return "subtract"
	}
	return "add"
}

// BrushShape is the footprint of a single dab.
type BrushShape uint8

const (
	ShapeCircle BrushShape = iota
	ShapeSquare
	ShapeEdge // jittered polygon
)

var shapeNames = [...]string{"circle", "square", "edge"}

func (s BrushShape) String() string {
	if int(s) < len(shapeNames) {
		return shapeNames[s]
	}
	return "unknown"
}

// ParseBrushShape returns the shape with the given name.
func ParseBrushShape(s string) (BrushShape, error) {
	for i, n := range shapeNames {
		if n == s {
			return BrushShape(i), nil
		}
	}
	return 0, fmt.Errorf("parse brush shape %q: unknown shape", s)
}

// PaintTarget selects the surface the paint brush draws on.
type PaintTarget uint8

const (
	TargetBackground PaintTarget = iota
	TargetForeground             // the mask surface; paint lands only on existing land
	TargetTop                    // the secondary paint surface
)

func (t PaintTarget) String() string {
	switch t {
	case TargetBackground:
		return "background"
	case TargetForeground:
		return "foreground"
	case TargetTop:
		return "top"
	}
	return "unknown"
}

// GridShape selects the overlay grid geometry.
type GridShape uint8

const (
	GridSquare GridShape = iota
	GridHexagon
)

func (g GridShape) String() string {
	if g == GridHexagon {
		return "hexagon"
	}
	return "square"
}

// RenderScale converts a viewport DPI to the multiplier between design
// pixels and backing-buffer pixels.
func RenderScale(dpi float64) float64 {
	if dpi <= 0 {
		return 1
	}
	return dpi / BaseDPI
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func unit8(v float64) uint8 {
	return uint8(clamp01(v)*255 + 0.5)
}
