package coastline

import "fmt"

// Default asset locations used by the editor when no others are configured.
const (
	DefaultLandTexture = "https://raw.githubusercontent.com/tttkvn/Upanh/main/brushtexturemap2d/nendatbt.png"
	DefaultSeaTexture  = "https://raw.githubusercontent.com/tttkvn/Upanh/main/brushtexturemap2d/nenbien.jpg"
)

// DefaultBrushTextures lists the paint-brush textures offered by default.
var DefaultBrushTextures = []string{
	"https://raw.githubusercontent.com/tttkvn/Upanh/main/brushtexturemap2d/nenda.png",
	"https://raw.githubusercontent.com/tttkvn/Upanh/main/brushtexturemap2d/nendatbt.png",
	"https://raw.githubusercontent.com/tttkvn/Upanh/main/brushtexturemap2d/nendatnut.png",
	"https://raw.githubusercontent.com/tttkvn/Upanh/main/brushtexturemap2d/nendanham.png",
	"https://raw.githubusercontent.com/tttkvn/Upanh/main/brushtexturemap2d/nendaxam.png",
	"https://raw.githubusercontent.com/tttkvn/Upanh/main/brushtexturemap2d/nendavang.png",
	"https://raw.githubusercontent.com/tttkvn/Upanh/main/brushtexturemap2d/nenbang1.png",
	"https://raw.githubusercontent.com/tttkvn/Upanh/main/brushtexturemap2d/nenbang2.png",
	"https://raw.githubusercontent.com/tttkvn/Upanh/main/brushtexturemap2d/nenbang3.png",
	"https://raw.githubusercontent.com/tttkvn/Upanh/main/brushtexturemap2d/nenbang4.png",
	"https://raw.githubusercontent.com/tttkvn/Upanh/main/brushtexturemap2d/nenbang5.png",
}

const (
	stampBaseURL    = "https://raw.githubusercontent.com/tttkvn/Upanh/main/"
	mountainStamps  = 31
	mountainPattern = stampBaseURL + "stamptoolmap1/Moutains%%20%d.png"
)

var plantStamps = []string{"cayda", "caytre", "caydua", "caysen", "chuoi"}

// DefaultStampAssets returns the stamp catalogue offered by default:
// category "1" holds the mountains and category "2" the plants.
func DefaultStampAssets() map[string][]string {
	mountains := make([]string, mountainStamps)
	for i := range mountains {
		mountains[i] = fmt.Sprintf(mountainPattern, i+1)
	}
	plants := make([]string, len(plantStamps))
	for i, name := range plantStamps {
		plants[i] = stampBaseURL + "stamptoolmap2/" + name + ".png"
	}
	return map[string][]string{"1": mountains, "2": plants}
}

// Config configures a new Editor.
type Config struct {
	// Width and Height are the canvas size in design pixels.
	Width, Height int
	// ViewportDPI sets the render scale (DPI / 96). Zero means 96.
	ViewportDPI float64
	// Debug enables effect stage timings and tree depth warnings.
	Debug bool
	// LandTexture and SeaTexture are asset sources for the mask brush and
	// the background fill.
	LandTexture, SeaTexture string
	// BrushTextures are the paint brush texture sources.
	BrushTextures []string
	// StampAssets maps a category name to stamp image sources.
	StampAssets map[string][]string
}

// DefaultConfig returns the configuration of a fresh 512×512 canvas.
func DefaultConfig() Config {
	return Config{
		Width:         512,
		Height:        512,
		ViewportDPI:   BaseDPI,
		LandTexture:   DefaultLandTexture,
		SeaTexture:    DefaultSeaTexture,
		BrushTextures: DefaultBrushTextures,
		StampAssets:   DefaultStampAssets(),
	}
}

// MaskBrush configures the land mask brush.
type MaskBrush struct {
	Mode  BrushMode
	Shape BrushShape
	// Size is the dab diameter in design pixels.
	Size float64
	// Roughness scatters circle/square dabs (0 = solid) and sets the vertex
	// count of the edge shape.
	Roughness float64
}

// DefaultMaskBrush returns the initial mask brush.
func DefaultMaskBrush() MaskBrush {
	return MaskBrush{Mode: BrushAdd, Shape: ShapeCircle, Size: 50}
}

// PaintBrush configures the texture paint brush.
type PaintBrush struct {
	Target PaintTarget
	Shape  BrushShape
	// Size is the dab diameter in design pixels.
	Size float64
	// Hardness is the fraction of the radius painted at full opacity before
	// the circular falloff begins.
	Hardness float64
	Opacity  float64
	// Texture is the source of the active brush texture.
	Texture string
	// TextureScale is the pattern tile side in design pixels.
	TextureScale float64
	// Hue is in degrees; Saturation, Brightness and Contrast are
	// percentages where 100 leaves the texture unchanged.
	Hue, Saturation, Brightness, Contrast float64
}

// DefaultPaintBrush returns the initial paint brush.
func DefaultPaintBrush() PaintBrush {
	return PaintBrush{
		Target:       TargetForeground,
		Shape:        ShapeCircle,
		Size:         50,
		Hardness:     0.8,
		Opacity:      1,
		TextureScale: 100,
		Saturation:   100,
		Brightness:   100,
		Contrast:     100,
	}
}

// StampPlacement configures new stamps created by clicking with the stamp
// tool.
type StampPlacement struct {
	// Asset is the source of the active stamp asset; empty means none.
	Asset string
	// Scale multiplies the asset's natural size.
	Scale float64
	// Rotation is in degrees.
	Rotation float64
}

// DefaultStampPlacement returns placement with no asset chosen.
func DefaultStampPlacement() StampPlacement {
	return StampPlacement{Scale: 1}
}

// GridConfig configures the navigation grid overlay.
type GridConfig struct {
	Visible bool
	Shape   GridShape
	// Columns and Rows set the cell count; for hexagons Columns sets the
	// cell width and Rows is ignored.
	Columns, Rows int
}

// DefaultGrid returns a hidden 20×20 square grid.
func DefaultGrid() GridConfig {
	return GridConfig{Shape: GridSquare, Columns: 20, Rows: 20}
}

// StrokeConfig is the solid coastline outline.
type StrokeConfig struct {
	Enabled bool    `json:"enabled"`
	Color   Color   `json:"color"`
	Width   float64 `json:"width"`
}

// ShadowConfig is a drop shadow cast from the coastline.
type ShadowConfig struct {
	Enabled bool    `json:"enabled"`
	Color   Color   `json:"color"`
	OffsetX float64 `json:"offsetX"`
	OffsetY float64 `json:"offsetY"`
	Blur    float64 `json:"blur"`
}

// RipplesConfig is the pair of wavy foam bands around the coastline.
type RipplesConfig struct {
	Enabled bool `json:"enabled"`
	// Width controls the noise frequency; larger means broader waves.
	Width float64 `json:"width"`
	// Count is the number of noise octaves.
	Count int `json:"count"`
	// Gap is the distance of the foam bands from the coast.
	Gap float64 `json:"gap"`
}

// EffectsConfig configures the edge-effects pipeline. It is pure
// configuration and owns no resources.
type EffectsConfig struct {
	Enabled     bool          `json:"enabled"`
	Stroke      StrokeConfig  `json:"stroke"`
	OuterShadow ShadowConfig  `json:"outerShadow"`
	InnerShadow ShadowConfig  `json:"innerShadow"`
	Ripples     RipplesConfig `json:"ripples"`
}

// DefaultEffects returns the default coastline effects, all enabled.
func DefaultEffects() EffectsConfig {
	return EffectsConfig{
		Enabled: true,
		Stroke: StrokeConfig{
			Enabled: true,
			Color:   Color{R: 0x36 / 255.0, G: 0x21 / 255.0, B: 0x14 / 255.0, A: 1},
			Width:   0.75,
		},
		OuterShadow: ShadowConfig{Enabled: true, Color: Color{A: 0.7}, OffsetX: 2, OffsetY: 2, Blur: 3},
		InnerShadow: ShadowConfig{Enabled: true, Color: Color{A: 0.8}, OffsetX: 2, OffsetY: 2, Blur: 3},
		Ripples:     RipplesConfig{Enabled: true, Width: 50, Count: 3, Gap: 3},
	}
}

// ExportConfig configures raster export.
type ExportConfig struct {
	DPI float64
}

// ExportPresets are the DPI values offered for export.
var ExportPresets = []float64{96, 150, 300}

// DefaultExport returns a 96 DPI export.
func DefaultExport() ExportConfig {
	return ExportConfig{DPI: BaseDPI}
}
