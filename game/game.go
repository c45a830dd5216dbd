package game

import (
	"fmt"
	"math/rand"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/aquarium/camera"
	"github.com/pthm-cable/aquarium/components"
	"github.com/pthm-cable/aquarium/config"
	"github.com/pthm-cable/aquarium/systems"
	"github.com/pthm-cable/aquarium/telemetry"
)

// Pool ids stored in components.Resource.Pool.
const (
	PelletPoolID uint16 = 1
	BubblePoolID uint16 = 2
)

// Options configures a Game beyond the loaded config.
type Options struct {
	Seed           int64
	LogStats       bool
	StatsWindowSec float64 // 0 = use config
	OutputDir      string
	Headless       bool
	StepsPerUpdate int
	FeedInterval   float64 // headless auto-feeder period; < 0 disables, 0 = use config
	Quality        string  // preset name; empty keeps the config counts
	EmptyTank      bool    // skip the initial fish population

	// StatsCallback receives every flushed window (used by the optimizer).
	StatsCallback func(telemetry.WindowStats)
}

// Game is the simulation context: it owns the ECS world, the agent
// registry and both resource pools, and advances them in a fixed order.
type Game struct {
	cfg   *config.Config
	world *ecs.World
	rng   *rand.Rand
	seed  int64

	// Fish storage
	fishMapper *ecs.Map5[
		components.Position,
		components.Velocity,
		components.Fin,
		components.Steering,
		components.Fish,
	]
	fishFilter *ecs.Filter5[
		components.Position,
		components.Velocity,
		components.Fin,
		components.Steering,
		components.Fish,
	]
	resourceFilter *ecs.Filter3[
		components.Position,
		components.Velocity,
		components.Resource,
	]

	// Individual component mappers for lookups
	posMap   *ecs.Map[components.Position]
	velMap   *ecs.Map[components.Velocity]
	finMap   *ecs.Map[components.Fin]
	steerMap *ecs.Map[components.Steering]
	fishMap  *ecs.Map[components.Fish]

	// Agent registry in update order
	agents []ecs.Entity
	nextID uint32

	// Tank
	bounds   systems.Bounds
	bounded  bool
	pellets  *systems.ResourcePool
	bubbles  *systems.ResourcePool
	steering *systems.SteeringSystem
	emitter  *systems.BubbleEmitter
	burst    systems.BurstParams
	quality  string

	// Telemetry
	collector     *telemetry.Collector
	perfCollector *telemetry.PerfCollector
	ledger        *telemetry.FeedingLedger
	outputManager *telemetry.OutputManager
	logStats      bool
	statsCallback func(telemetry.WindowStats)

	// Clock
	tick           int32
	simTime        float64
	stepsPerUpdate int
	feedInterval   float64
	feedTimer      float64

	// Viewer state, unused when headless
	headless bool
	orbit    *camera.Orbit
	paused   bool
	hud      hudState
}

// NewGame builds a tank from cfg. Configuration errors are returned, never
// clamped.
func NewGame(cfg *config.Config, opts Options) (*Game, error) {
	if cfg == nil {
		return nil, fmt.Errorf("game: nil config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("game: %w", err)
	}

	world := ecs.NewWorld()
	g := &Game{
		cfg:   cfg,
		world: world,
		rng:   rand.New(rand.NewSource(opts.Seed)),
		seed:  opts.Seed,

		fishMapper: ecs.NewMap5[
			components.Position,
			components.Velocity,
			components.Fin,
			components.Steering,
			components.Fish,
		](world),
		fishFilter: ecs.NewFilter5[
			components.Position,
			components.Velocity,
			components.Fin,
			components.Steering,
			components.Fish,
		](world),
		resourceFilter: ecs.NewFilter3[
			components.Position,
			components.Velocity,
			components.Resource,
		](world),

		posMap:   ecs.NewMap[components.Position](world),
		velMap:   ecs.NewMap[components.Velocity](world),
		finMap:   ecs.NewMap[components.Fin](world),
		steerMap: ecs.NewMap[components.Steering](world),
		fishMap:  ecs.NewMap[components.Fish](world),

		nextID:         1,
		ledger:         telemetry.NewFeedingLedger(),
		perfCollector:  telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		logStats:       opts.LogStats,
		statsCallback:  opts.StatsCallback,
		stepsPerUpdate: max(opts.StepsPerUpdate, 1),
		headless:       opts.Headless,
	}

	windowSec := cfg.Telemetry.StatsWindow
	if opts.StatsWindowSec > 0 {
		windowSec = opts.StatsWindowSec
	}
	g.collector = telemetry.NewCollector(windowSec)

	g.feedInterval = cfg.Feeder.Interval
	if opts.FeedInterval != 0 {
		g.feedInterval = opts.FeedInterval
	}

	if err := g.buildTank(); err != nil {
		return nil, err
	}

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("game: %w", err)
	}
	g.outputManager = om
	if err := om.WriteConfig(cfg); err != nil {
		return nil, fmt.Errorf("game: %w", err)
	}

	fishCount := cfg.Fish.Count
	if opts.Quality != "" {
		preset, ok := cfg.QualityPreset(opts.Quality)
		if !ok {
			return nil, fmt.Errorf("game: unknown quality preset %q", opts.Quality)
		}
		if err := g.applyPoolSizes(preset); err != nil {
			return nil, err
		}
		fishCount = preset.Fish
		g.quality = preset.Name
	}
	if !opts.EmptyTank {
		g.populate(fishCount)
	}

	if !g.headless {
		cc := cfg.Camera
		g.orbit = camera.New(cc.Distance, cc.Height, cc.OrbitSpeed, cc.DriftAmplitude, cc.Fovy, g.bounds.Center)
		g.initViewer()
	}

	g.logStartup()
	return g, nil
}

// buildTank creates bounds, pools, steering and the bubble emitter.
func (g *Game) buildTank() error {
	cfg := g.cfg
	bounds, err := systems.NewBounds(cfg.Tank.Center.R3(), r3.Scale(0.5, cfg.Tank.Size.R3()))
	if err != nil {
		return fmt.Errorf("game: tank: %w", err)
	}
	g.bounds = bounds
	g.bounded = cfg.Tank.Bounded

	policy, err := systems.ParseEvictionPolicy(cfg.Pellet.EvictionPolicy)
	if err != nil {
		return fmt.Errorf("game: %w", err)
	}

	g.pellets, err = systems.NewResourcePool(g.world, systems.PoolOptions{
		Name:       "pellets",
		ID:         PelletPoolID,
		Capacity:   cfg.Pellet.PoolCapacity,
		Policy:     policy,
		Consumable: true,
		Motion:     g.pelletMotion(),
	})
	if err != nil {
		return fmt.Errorf("game: %w", err)
	}
	g.pellets.SetListener(g)

	bubbleCap := cfg.Bubble.Capacity
	if !cfg.Bubble.Enabled {
		bubbleCap = 0
	}
	g.bubbles, err = systems.NewResourcePool(g.world, systems.PoolOptions{
		Name:     "bubbles",
		ID:       BubblePoolID,
		Capacity: bubbleCap,
		Policy:   systems.EvictReject,
		Motion:   g.bubbleMotion(),
	})
	if err != nil {
		return fmt.Errorf("game: %w", err)
	}
	g.bubbles.SetListener(g)

	g.steering = systems.NewSteeringSystem(g.boundsRef(), g.rng, systems.SteeringParams{
		BoundaryMargin:   cfg.Fish.BoundaryMargin,
		ArrivalTolerance: cfg.Fish.ArrivalTolerance,
		VerticalJitter:   cfg.Fish.VerticalJitter,
		ResumeDelayMin:   cfg.Fish.ResumeDelayMin,
		ResumeDelayMax:   cfg.Fish.ResumeDelayMax,
	})
	g.emitter = systems.NewBubbleEmitter(g.bubbles, g.seed+1, g.bubbleParams())

	g.burst = systems.BurstParams{
		Jitter:    cfg.Pellet.SpawnJitter,
		Drift:     cfg.Pellet.Drift,
		SinkSpeed: cfg.Pellet.SinkSpeed,
		Lifetime:  cfg.Pellet.Lifetime,
	}
	return nil
}

// boundsRef returns the steering bounds, nil when the tank is unbounded.
func (g *Game) boundsRef() *systems.Bounds {
	if !g.bounded {
		return nil
	}
	return &g.bounds
}

func (g *Game) floorY() float64   { return g.bounds.Center.Y - g.bounds.Extents.Y }
func (g *Game) surfaceY() float64 { return g.bounds.Center.Y + g.bounds.Extents.Y }

func (g *Game) pelletMotion() systems.Motion {
	p := g.cfg.Pellet
	return systems.Motion{
		Terminal: r3Down(p.SinkSpeed),
		Response: p.SinkResponse,
		Floor:    g.floorY() + p.FloorOffset,
		HasFloor: true,
	}
}

func (g *Game) bubbleMotion() systems.Motion {
	b := g.cfg.Bubble
	return systems.Motion{
		Terminal:   r3Up(b.RiseSpeed),
		Response:   b.RiseResponse,
		Ceiling:    g.surfaceY() - b.SurfaceOffset,
		HasCeiling: true,
	}
}

func (g *Game) bubbleParams() systems.BubbleParams {
	b := g.cfg.Bubble
	base := g.bounds.Center
	base.Y = g.floorY()
	return systems.BubbleParams{
		Rate:      b.Rate,
		Spread:    b.Spread,
		RiseSpeed: b.RiseSpeed,
		LifeMin:   b.LifeMin,
		LifeMax:   b.LifeMax,
		HeightMin: g.floorY() + b.SpawnHeightMin,
		HeightMax: g.floorY() + b.SpawnHeightMax,
		Sway:      b.Sway,
		SwayScale: b.SwayScale,
		Base:      base,
	}
}

// Config returns the configuration the game was built from.
func (g *Game) Config() *config.Config { return g.cfg }

// Ticks returns the number of ticks run so far.
func (g *Game) Ticks() int32 { return g.tick }

// SimTime returns the simulated seconds elapsed.
func (g *Game) SimTime() float64 { return g.simTime }

// Pellets returns the food pool.
func (g *Game) Pellets() *systems.ResourcePool { return g.pellets }

// Bubbles returns the ambient bubble pool.
func (g *Game) Bubbles() *systems.ResourcePool { return g.bubbles }

// Bounds returns the tank volume.
func (g *Game) Bounds() systems.Bounds { return g.bounds }

// Ledger returns the per-fish feeding records.
func (g *Game) Ledger() *telemetry.FeedingLedger { return g.ledger }

// Quality returns the active preset name, empty if none was applied.
func (g *Game) Quality() string { return g.quality }

// AgentCount returns the number of registered fish.
func (g *Game) AgentCount() int { return len(g.agents) }

// Unload writes final output and releases resources.
func (g *Game) Unload() {
	if err := g.outputManager.WriteFeeding(g.ledger.Records()); err != nil {
		logError("failed to write feeding ledger", err)
	}
	if err := g.outputManager.Close(); err != nil {
		logError("failed to close output", err)
	}
}
