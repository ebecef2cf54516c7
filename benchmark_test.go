package coastline

import (
	"slices"
	"testing"
)

// setupBenchSurfaces returns 512×512 surfaces with a painted island in the
// middle of the mask.
func setupBenchSurfaces() (*Surfaces, *BrushEngine) {
	s := NewSurfaces(512, 512, 1)
	e := NewBrushEngine(s, testTextures(), seeded(1))
	brush := MaskBrush{Mode: BrushAdd, Shape: ShapeCircle, Size: 120, Roughness: 0.3}
	for i := range 8 {
		e.PaintMask(Vec2{X: 160 + float64(i)*25, Y: 256}, brush)
	}
	return s, e
}

// --- Brush benchmarks ---

func BenchmarkPaintMask_Circle(b *testing.B) {
	_, e := setupBenchSurfaces()
	brush := MaskBrush{Mode: BrushAdd, Shape: ShapeCircle, Size: 50}

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		e.PaintMask(Vec2{X: float64(i % 512), Y: 200}, brush)
	}
}

func BenchmarkPaintMask_Edge(b *testing.B) {
	_, e := setupBenchSurfaces()
	brush := MaskBrush{Mode: BrushAdd, Shape: ShapeEdge, Size: 50, Roughness: 0.6}

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		e.PaintMask(Vec2{X: float64(i % 512), Y: 300}, brush)
	}
}

func BenchmarkPaint_TexturedDab(b *testing.B) {
	_, e := setupBenchSurfaces()
	brush := DefaultPaintBrush()
	brush.Texture = "red"
	brush.Target = TargetTop

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		e.Paint(Vec2{X: float64(i % 512), Y: 256}, brush)
	}
}

// --- Effects benchmarks ---

func BenchmarkApplyEffects_Default(b *testing.B) {
	s, _ := setupBenchSurfaces()
	cfg := DefaultEffects()

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := ApplyEffects(s, cfg); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkApplyEffects_StrokeOnly(b *testing.B) {
	s, _ := setupBenchSurfaces()
	cfg := DefaultEffects()
	cfg.Ripples.Enabled = false
	cfg.OuterShadow.Enabled = false
	cfg.InnerShadow.Enabled = false

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := ApplyEffects(s, cfg); err != nil {
			b.Fatal(err)
		}
	}
}

// --- Stamp benchmarks ---

func BenchmarkRenderStamps_1000(b *testing.B) {
	s, _ := setupBenchSurfaces()
	assets := stampImages{"tree.png": solidNRGBA(32, 32, treeGreen)}
	stamps := make([]Stamp, 0, 1000)
	for i := range 1000 {
		st := NewStamp("", "tree.png", float64(i%40)*12, float64(i/40)*20, 32, 32)
		st.Rotation = float64(i % 360)
		stamps = append(stamps, st)
	}

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		RenderStamps(s.Stamps(), slices.Values(stamps), assets, 1)
	}
}

func BenchmarkHitTest_1000(b *testing.B) {
	stamps := make([]Stamp, 0, 1000)
	for i := range 1000 {
		stamps = append(stamps, NewStamp("", "tree.png", float64(i%40)*12, float64(i/40)*20, 32, 32))
	}
	seq := slices.Values(stamps)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		HitTest(seq, 250, 250)
	}
}
