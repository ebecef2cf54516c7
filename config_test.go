package coastline

import (
	"strings"
	"testing"
)

func TestDefaultConfigAssets(t *testing.T) {
	cfg := DefaultConfig()
	if n := len(cfg.BrushTextures); n != 11 {
		t.Errorf("len(BrushTextures) = %d, want 11", n)
	}
	tests := []struct {
		category string
		n        int
		first    string
		last     string
	}{
		{"1", 31, "stamptoolmap1/Moutains%201.png", "stamptoolmap1/Moutains%2031.png"},
		{"2", 5, "stamptoolmap2/cayda.png", "stamptoolmap2/chuoi.png"},
	}
	for _, tt := range tests {
		srcs := cfg.StampAssets[tt.category]
		if len(srcs) != tt.n {
			t.Errorf("category %q has %d stamps, want %d", tt.category, len(srcs), tt.n)
			continue
		}
		if !strings.HasSuffix(srcs[0], tt.first) || !strings.HasSuffix(srcs[tt.n-1], tt.last) {
			t.Errorf("category %q = %s ... %s", tt.category, srcs[0], srcs[tt.n-1])
		}
	}
}

func TestDefaultStampAssetsFresh(t *testing.T) {
	a := DefaultStampAssets()
	a["1"][0] = "changed"
	if DefaultStampAssets()["1"][0] == "changed" {
		t.Error("DefaultStampAssets shares its slices between calls")
	}
}
