// Package main provides CMA-ES optimization of fish foraging parameters,
// scoring each candidate by how much of the dropped food the school eats.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/aquarium/config"
	"github.com/pthm-cable/aquarium/telemetry"
)

// formatDuration formats a duration as HH:MM:SS or MM:SS for shorter durations.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

// evalRow is one line of optimize_log.csv.
type evalRow struct {
	Eval        int     `csv:"eval"`
	Fitness     float64 `csv:"fitness"`
	EatRate     float64 `csv:"eat_rate"`
	AbandonRate float64 `csv:"abandon_rate"`
	MealAge     float64 `csv:"meal_age"`

	Speed               float64 `csv:"speed"`
	TurnRate            float64 `csv:"turn_rate"`
	DetectionRadius     float64 `csv:"detection_radius"`
	PursuitAcceleration float64 `csv:"pursuit_acceleration"`
	WanderJitter        float64 `csv:"wander_jitter"`
	RecenterInterval    float64 `csv:"recenter_interval"`
	ResumeDelayMin      float64 `csv:"resume_delay_min"`
	ResumeDelayMax      float64 `csv:"resume_delay_max"`
	BoundaryMargin      float64 `csv:"boundary_margin"`
}

// newEvalRow reads parameter columns back out of a config the values were
// applied to, so the log always shows what the game actually ran with.
func newEvalRow(eval int, fitness float64, s score, fish config.FishConfig) evalRow {
	return evalRow{
		Eval:                eval,
		Fitness:             fitness,
		EatRate:             s.EatRate,
		AbandonRate:         s.AbandonRate,
		MealAge:             s.MealAge,
		Speed:               fish.Speed,
		TurnRate:            fish.TurnRate,
		DetectionRadius:     fish.DetectionRadius,
		PursuitAcceleration: fish.PursuitAcceleration,
		WanderJitter:        fish.WanderJitter,
		RecenterInterval:    fish.RecenterInterval,
		ResumeDelayMin:      fish.ResumeDelayMin,
		ResumeDelayMax:      fish.ResumeDelayMax,
		BoundaryMargin:      fish.BoundaryMargin,
	}
}

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	maxTicks := flag.Int("max-ticks", 36000, "Simulation duration per run in ticks")
	seeds := flag.Int("seeds", 3, "Number of seeds per evaluation")
	maxEvals := flag.Int("max-evals", 200, "Maximum number of evaluations")
	population := flag.Int("population", 0, "CMA-ES population size (0 = auto)")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	if *outputDir == "" {
		log.Fatal("--output is required")
	}

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	// Load base config
	if err := config.Init(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	baseCfg := config.Cfg()

	params := NewParamVector()

	// Generate seeds for evaluation
	evalSeeds := make([]int64, *seeds)
	for i := range evalSeeds {
		evalSeeds[i] = int64(i*1000 + 42)
	}

	evaluator := NewFitnessEvaluator(params, int32(*maxTicks), evalSeeds, baseCfg)

	// Set up CMA-ES in normalized space
	dim := params.Dim()
	initX := params.Normalize(params.ExtractFromConfig(baseCfg))

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			return evaluator.Evaluate(params.Denormalize(x))
		},
	}

	settings := &optimize.Settings{
		FuncEvaluations: *maxEvals,
		Concurrent:      0, // seeds already run in parallel
	}

	popSize := *population
	if popSize == 0 {
		popSize = 4 + int(3.0*float64(dim)/2.0)
	}

	method := &optimize.CmaEsChol{
		InitStepSize: 0.3,
		Population:   popSize,
	}

	logPath := filepath.Join(*outputDir, "optimize_log.csv")
	logFile, err := os.Create(logPath)
	if err != nil {
		log.Fatalf("failed to create log file: %v", err)
	}
	defer logFile.Close()

	evalCount := 0
	bestFitness := 1e9
	var bestParams []float64
	startTime := time.Now()

	originalFunc := problem.Func
	problem.Func = func(x []float64) float64 {
		fitness := originalFunc(x)
		evalCount++

		clamped := params.Clamp(params.Denormalize(x))
		if fitness < bestFitness {
			bestFitness = fitness
			bestParams = clamped
		}

		applied := *baseCfg
		params.ApplyToConfig(&applied, clamped)
		s := evaluator.LastScore()
		rows := []evalRow{newEvalRow(evalCount, fitness, s, applied.Fish)}
		var werr error
		if evalCount == 1 {
			werr = gocsv.Marshal(rows, logFile)
		} else {
			werr = gocsv.MarshalWithoutHeaders(rows, logFile)
		}
		if werr != nil {
			log.Printf("failed to log eval %d: %v", evalCount, werr)
		}

		elapsed := time.Since(startTime)
		avgPerEval := elapsed / time.Duration(evalCount)
		remaining := time.Duration(*maxEvals-evalCount) * avgPerEval

		fmt.Printf("Eval %d/%d: eat=%.2f abandon=%.2f age=%.2f fitness=%.4f (best=%.4f) | elapsed: %s, ETA: %s\n",
			evalCount, *maxEvals, s.EatRate, s.AbandonRate, s.MealAge, fitness, bestFitness,
			formatDuration(elapsed), formatDuration(remaining))

		return fitness
	}

	fmt.Printf("Starting CMA-ES optimization with %d parameters, population=%d, max_evals=%d\n",
		dim, popSize, *maxEvals)
	fmt.Printf("Seeds per evaluation: %d, ticks per run: %d\n", *seeds, *maxTicks)

	result, err := optimize.Minimize(problem, initX, settings, method)
	if err != nil {
		log.Printf("optimization ended: %v", err)
	}

	// Use best params found (may be from any evaluation, not just final)
	if bestParams == nil && result != nil {
		bestParams = params.Clamp(params.Denormalize(result.X))
	}
	if bestParams == nil {
		log.Fatal("no evaluations completed")
	}

	totalTime := time.Since(startTime)
	fmt.Printf("\nOptimization complete after %d evaluations in %s\n", evalCount, formatDuration(totalTime))
	fmt.Printf("Best fitness: %.4f\n", bestFitness)

	fmt.Println("\nBest parameters:")
	for i, spec := range params.Specs {
		fmt.Printf("  %s: %.6f\n", spec.Name, bestParams[i])
	}

	bestCfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to reload config: %v", err)
	}
	params.ApplyToConfig(bestCfg, bestParams)

	configOutPath := filepath.Join(*outputDir, "best_config.yaml")
	if err := bestCfg.WriteYAML(configOutPath); err != nil {
		log.Printf("failed to write best config: %v", err)
	} else {
		fmt.Printf("\nBest config saved to: %s\n", configOutPath)
	}

	if run := evaluator.BestRun(); run != nil {
		if err := writeBestRun(*outputDir, run); err != nil {
			log.Printf("failed to write best run: %v", err)
		} else {
			fmt.Printf("Best run (seed %d) telemetry saved to: %s\n", run.seed, *outputDir)
		}
	}
}

// writeBestRun stores the window stats and feeding ledger of the best seed run.
func writeBestRun(dir string, run *runResult) error {
	om, err := telemetry.NewOutputManager(dir)
	if err != nil {
		return err
	}
	for _, w := range run.windowStats {
		if err := om.WriteTelemetry(w); err != nil {
			om.Close()
			return err
		}
	}
	if err := om.WriteFeeding(run.feeding); err != nil {
		om.Close()
		return err
	}
	return om.Close()
}
