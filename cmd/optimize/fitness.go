package main

import (
	"fmt"
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/aquarium/config"
	"github.com/pthm-cable/aquarium/game"
	"github.com/pthm-cable/aquarium/telemetry"
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params      *ParamVector
	maxTicks    int32
	seeds       []int64
	baseConfig  *config.Config
	statsWindow float64

	// Best run tracking
	mu          sync.Mutex
	bestFitness float64
	bestRun     *runResult
	lastScore   score // from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int32, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxTicks:    maxTicks,
		seeds:       seeds,
		baseConfig:  baseCfg,
		statsWindow: 10.0, // 10 seconds per window
		bestFitness: math.Inf(1),
	}
}

// BestRun returns the single seed run with the lowest fitness so far.
func (fe *FitnessEvaluator) BestRun() *runResult {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.bestRun
}

// LastScore returns the averaged score components of the most recent evaluation.
func (fe *FitnessEvaluator) LastScore() score {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastScore
}

// Fitness weights.
const (
	weightAbandon = 0.10 // abandoned chases per acquisition
	weightMealAge = 0.25 // pellet age at meal, as a fraction of lifetime

	warmupWindows = 1 // skip first N windows while the first drops sink
)

// runResult holds the results from a single simulation run.
type runResult struct {
	seed        int64
	windowStats []telemetry.WindowStats // collected via StatsCallback each window
	feeding     []telemetry.FeedingRecord
	score       score
}

// score is the breakdown behind one fitness value.
type score struct {
	EatRate     float64 // consumed / spawned
	AbandonRate float64 // abandoned / acquired
	MealAge     float64 // mean pellet age at consumption / lifetime
}

// fitness folds a score into a scalar (lower = better).
func (s score) fitness() float64 {
	return -s.EatRate + weightAbandon*s.AbandonRate + weightMealAge*s.MealAge
}

// Evaluate computes fitness for a parameter vector (lower = better).
// Every seed runs in parallel on its own Game.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([]*runResult, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			r, err := fe.runSimulation(x, s)
			if err != nil {
				// Parameters the game refuses score as badly as a tank that never eats.
				r = &runResult{seed: s}
			}
			results[idx] = r
		}(i, seed)
	}
	wg.Wait()

	// Aggregate results
	var total float64
	var avg score
	var best *runResult
	for _, r := range results {
		f := r.score.fitness()
		total += f
		avg.EatRate += r.score.EatRate
		avg.AbandonRate += r.score.AbandonRate
		avg.MealAge += r.score.MealAge
		if best == nil || f < best.score.fitness() {
			best = r
		}
	}

	n := float64(len(results))
	avgFitness := total / n
	avg.EatRate /= n
	avg.AbandonRate /= n
	avg.MealAge /= n

	fe.mu.Lock()
	if avgFitness < fe.bestFitness {
		fe.bestFitness = avgFitness
		fe.bestRun = best
	}
	fe.lastScore = avg
	fe.mu.Unlock()

	return avgFitness
}

// runSimulation executes a single headless simulation run for maxTicks.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) (*runResult, error) {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)

	result := &runResult{seed: seed}

	g, err := game.NewGame(cfg, game.Options{
		Seed:           seed,
		Headless:       true,
		StatsWindowSec: fe.statsWindow,
		StepsPerUpdate: 1,
		StatsCallback: func(stats telemetry.WindowStats) {
			result.windowStats = append(result.windowStats, stats)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("seed %d: %w", seed, err)
	}
	defer g.Unload()

	for g.Ticks() < fe.maxTicks {
		g.UpdateHeadless()
	}

	result.feeding = g.Ledger().Records()
	result.score = computeScore(result.windowStats, cfg.Pellet.Lifetime)
	return result, nil
}

// copyConfig returns a per-run copy of the base config. Only scalar fish
// fields are rewritten, so sharing the Quality slice is safe.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	return &cfg
}

// computeScore aggregates window stats after warmup.
func computeScore(windows []telemetry.WindowStats, lifetime float64) score {
	if len(windows) <= warmupWindows {
		return score{}
	}
	valid := windows[warmupWindows:]

	var spawned, consumed, acquired, abandoned int
	ages := make([]float64, 0, len(valid))
	weights := make([]float64, 0, len(valid))
	for _, w := range valid {
		spawned += w.Spawned
		consumed += w.Consumed
		acquired += w.Acquired
		abandoned += w.Abandoned
		if w.Consumed > 0 {
			ages = append(ages, w.MealAgeMean)
			weights = append(weights, float64(w.Consumed))
		}
	}

	var s score
	if spawned > 0 {
		s.EatRate = float64(consumed) / float64(spawned)
	}
	if acquired > 0 {
		s.AbandonRate = float64(abandoned) / float64(acquired)
	}
	if len(ages) > 0 && lifetime > 0 {
		s.MealAge = stat.Mean(ages, weights) / lifetime
	}
	return s
}
