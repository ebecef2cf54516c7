package coastline

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"
	"testing"
	"time"
)

// captureLogs routes the package logger into a buffer for the test's
// duration.
func captureLogs(t *testing.T, level slog.Level) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: level})))
	t.Cleanup(func() { SetLogger(nil) })
	return &buf
}

func TestCollectDebugStats(t *testing.T) {
	s := collectDebugStats([]StageTiming{
		{Name: "stroke", Duration: 2 * time.Millisecond},
		{Name: "shadow", Duration: 5 * time.Millisecond},
		{Name: "ripples", Duration: time.Millisecond},
	})
	if s.stages != 3 {
		t.Errorf("stages = %d, want 3", s.stages)
	}
	if s.total != 8*time.Millisecond {
		t.Errorf("total = %v, want 8ms", s.total)
	}
	if s.slowest.Name != "shadow" {
		t.Errorf("slowest = %q, want shadow", s.slowest.Name)
	}
	if empty := collectDebugStats(nil); empty.stages != 0 || empty.slowest.Name != "" {
		t.Errorf("collectDebugStats(nil) = %+v", empty)
	}
}

func TestDebugCheckTreeDepth(t *testing.T) {
	var l Layer = stampAt("leaf", 0, 0)
	for i := range debugMaxTreeDepth {
		l = Group{ID: fmt.Sprintf("g%d", i), Children: []Layer{l}}
	}
	m := newTreeManager(l)

	buf := captureLogs(t, slog.LevelWarn)
	debugCheckTreeDepth(m)
	if !strings.Contains(buf.String(), "deeply nested") {
		t.Errorf("no warning for depth %d:\n%s", m.Depth(), buf.String())
	}

	buf.Reset()
	debugCheckTreeDepth(newTestManager())
	if buf.Len() != 0 {
		t.Errorf("warning for a flat tree:\n%s", buf.String())
	}
}

func TestDebugModeLogsEffectTimings(t *testing.T) {
	e, _ := newTestEditor(t, 20, 20)
	buf := captureLogs(t, slog.LevelDebug)

	e.SetEffects(DefaultEffects())
	if strings.Contains(buf.String(), "effects applied") {
		t.Error("timings logged with debug mode off")
	}

	e.SetDebugMode(true)
	e.SetEffects(DefaultEffects())
	out := buf.String()
	if !strings.Contains(out, "effects applied") || !strings.Contains(out, "stage=") {
		t.Errorf("debug log lacks effect timings:\n%s", out)
	}
}
