package telemetry

import (
	"log/slog"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Census at window end
	Fish      int `csv:"fish"`
	Wandering int `csv:"wandering"`
	Seeking   int `csv:"seeking"`
	Resting   int `csv:"resting"`
	Pellets   int `csv:"pellets"`
	PelletCap int `csv:"pellet_cap"`
	FreeSlots int `csv:"free_slots"`
	Bubbles   int `csv:"bubbles"`

	// Pool events during window
	Spawned  int `csv:"spawned"`
	Rejected int `csv:"rejected"`
	Evicted  int `csv:"evicted"`
	Consumed int `csv:"consumed"`
	Expired  int `csv:"expired"`
	Revoked  int `csv:"revoked"`
	Surfaced int `csv:"surfaced"`

	// Fish transitions during window
	Acquired  int     `csv:"acquired"`
	Abandoned int     `csv:"abandoned"`
	EatRate   float64 `csv:"eat_rate"` // consumed / spawned

	// Swimming speed (sampled at window end)
	SpeedMean float64 `csv:"speed_mean"`
	SpeedP10  float64 `csv:"speed_p10"`
	SpeedP50  float64 `csv:"speed_p50"`
	SpeedP90  float64 `csv:"speed_p90"`

	// Pellet age when eaten
	MealAgeMean float64 `csv:"meal_age_mean"`
	MealAgeP50  float64 `csv:"meal_age_p50"`
	MealAgeP90  float64 `csv:"meal_age_p90"`
}

// ComputeStats calculates mean and percentiles of values.
// Empty input yields zeros.
func ComputeStats(values []float64) (mean, p10, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	mean = stat.Mean(sorted, nil)
	p10 = stat.Quantile(0.10, stat.LinInterp, sorted, nil)
	p50 = stat.Quantile(0.50, stat.LinInterp, sorted, nil)
	p90 = stat.Quantile(0.90, stat.LinInterp, sorted, nil)

	return mean, p10, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("fish", s.Fish),
		slog.Int("wandering", s.Wandering),
		slog.Int("seeking", s.Seeking),
		slog.Int("resting", s.Resting),
		slog.Int("pellets", s.Pellets),
		slog.Int("pellet_cap", s.PelletCap),
		slog.Int("bubbles", s.Bubbles),
		slog.Int("spawned", s.Spawned),
		slog.Int("rejected", s.Rejected),
		slog.Int("evicted", s.Evicted),
		slog.Int("consumed", s.Consumed),
		slog.Int("expired", s.Expired),
		slog.Int("revoked", s.Revoked),
		slog.Int("surfaced", s.Surfaced),
		slog.Int("acquired", s.Acquired),
		slog.Int("abandoned", s.Abandoned),
		slog.Float64("eat_rate", s.EatRate),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("speed_p50", s.SpeedP50),
		slog.Float64("meal_age_mean", s.MealAgeMean),
		slog.Float64("meal_age_p90", s.MealAgeP90),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"fish", s.Fish,
		"seeking", s.Seeking,
		"resting", s.Resting,
		"pellets", s.Pellets,
		"bubbles", s.Bubbles,
		"spawned", s.Spawned,
		"rejected", s.Rejected,
		"evicted", s.Evicted,
		"consumed", s.Consumed,
		"expired", s.Expired,
		"acquired", s.Acquired,
		"abandoned", s.Abandoned,
		"eat_rate", s.EatRate,
		"speed_p50", s.SpeedP50,
		"meal_age_p50", s.MealAgeP50,
	)
}
