package coastline

import (
	"log/slog"
	"time"
)

// debugStats summarises one run of the effects pipeline.
// Only computed when Editor.debug is true.
type debugStats struct {
	stages  int
	total   time.Duration
	slowest StageTiming
}

func collectDebugStats(timings []StageTiming) debugStats {
	var s debugStats
	for _, t := range timings {
		s.stages++
		s.total += t.Duration
		if t.Duration > s.slowest.Duration {
			s.slowest = t
		}
	}
	return s
}

// debugLogTimings logs per-stage effect timings at debug level.
func debugLogTimings(timings []StageTiming) {
	l := Logger()
	for _, t := range timings {
		l.Debug("effects stage", "stage", t.Name, "duration", t.Duration)
	}
	s := collectDebugStats(timings)
	l.Debug("effects applied",
		slog.Int("stages", s.stages),
		slog.Duration("total", s.total),
		slog.String("slowest", s.slowest.Name))
}

// debugMaxTreeDepth is the layer nesting depth above which a warning is
// logged.
const debugMaxTreeDepth = 16

// debugCheckTreeDepth warns when the layer tree nests deeper than
// debugMaxTreeDepth.
func debugCheckTreeDepth(m *LayerManager) {
	if d := m.Depth(); d > debugMaxTreeDepth {
		Logger().Warn("layer tree is deeply nested", "depth", d, "threshold", debugMaxTreeDepth)
	}
}
