package game

import (
	"log/slog"
	"time"
)

func logError(msg string, err error) {
	slog.Error(msg, "error", err)
}

// logStartup records the effective tank setup.
func (g *Game) logStartup() {
	slog.Info("tank ready",
		"seed", g.seed,
		"headless", g.headless,
		"bounded", g.bounded,
		"fish", len(g.agents),
		"pellet_cap", g.pellets.Capacity(),
		"eviction", g.pellets.Policy().String(),
		"bubble_cap", g.bubbles.Capacity(),
		"quality", g.quality,
		"output", g.outputManager.Dir(),
	)
}

// logPerfStats logs the rolling per-phase timings, used by the viewer.
func (g *Game) logPerfStats() {
	stats := g.perfCollector.Stats()
	slog.Info("viewer perf",
		"tick", g.tick,
		"steps_per_update", g.stepsPerUpdate,
		"tick_avg", stats.AvgTickDuration.Round(time.Microsecond).String(),
		"stats", stats,
	)
}
