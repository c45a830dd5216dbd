package telemetry

// Collector accumulates events within sim-time windows and produces
// WindowStats. Windows are measured in simulated seconds because the viewer
// ticks with variable deltas.
type Collector struct {
	windowDurationSec float64

	// Current window tracking
	windowStartTick int32
	windowStartTime float64

	counts       [numEventTypes]int
	consumedAges []float64
}

// Populations is the tank census taken at flush time.
type Populations struct {
	Fish      int
	Wandering int
	Seeking   int
	Resting   int // wandering with a pending resume delay

	Pellets       int
	PelletCap     int
	Bubbles       int
	FreePelletLen int
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
func NewCollector(windowDurationSec float64) *Collector {
	if !(windowDurationSec > 0) {
		windowDurationSec = 10
	}
	return &Collector{windowDurationSec: windowDurationSec}
}

// Record counts an event in the current window.
func (c *Collector) Record(ev Event) {
	if ev.Type >= numEventTypes {
		return
	}
	c.counts[ev.Type]++
	if ev.Type == EventConsume {
		c.consumedAges = append(c.consumedAges, ev.Age)
	}
}

// Count returns the number of events of type t in the current window.
func (c *Collector) Count(t EventType) int {
	if t >= numEventTypes {
		return 0
	}
	return c.counts[t]
}

// ShouldFlush returns true once the window has covered its duration.
// The small slack absorbs float drift from summing deltas.
func (c *Collector) ShouldFlush(simTime float64) bool {
	return simTime-c.windowStartTime >= c.windowDurationSec-1e-9
}

// Flush produces a WindowStats and resets counters for the next window.
// fishSpeeds are sampled by the caller at flush time.
func (c *Collector) Flush(currentTick int32, simTime float64, pop Populations, fishSpeeds []float64) WindowStats {
	speedMean, speedP10, speedP50, speedP90 := ComputeStats(fishSpeeds)
	ageMean, _, ageP50, ageP90 := ComputeStats(c.consumedAges)

	var eatRate float64
	if spawned := c.counts[EventSpawn]; spawned > 0 {
		eatRate = float64(c.counts[EventConsume]) / float64(spawned)
	}

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      simTime,

		Fish:      pop.Fish,
		Wandering: pop.Wandering,
		Seeking:   pop.Seeking,
		Resting:   pop.Resting,
		Pellets:   pop.Pellets,
		PelletCap: pop.PelletCap,
		FreeSlots: pop.FreePelletLen,
		Bubbles:   pop.Bubbles,

		Spawned:   c.counts[EventSpawn],
		Rejected:  c.counts[EventReject],
		Evicted:   c.counts[EventEvict],
		Consumed:  c.counts[EventConsume],
		Expired:   c.counts[EventExpire],
		Revoked:   c.counts[EventRevoke],
		Surfaced:  c.counts[EventSurface],
		Acquired:  c.counts[EventAcquire],
		Abandoned: c.counts[EventAbandon],
		EatRate:   eatRate,

		SpeedMean: speedMean,
		SpeedP10:  speedP10,
		SpeedP50:  speedP50,
		SpeedP90:  speedP90,

		MealAgeMean: ageMean,
		MealAgeP50:  ageP50,
		MealAgeP90:  ageP90,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.windowStartTime = simTime
	c.counts = [numEventTypes]int{}
	c.consumedAges = c.consumedAges[:0]

	return stats
}

// WindowDuration returns the window length in simulated seconds.
func (c *Collector) WindowDuration() float64 {
	return c.windowDurationSec
}
