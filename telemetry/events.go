// Package telemetry provides windowed tank statistics, feeding ledgers and
// performance tracking.
package telemetry

// EventType identifies telemetry events.
type EventType uint8

const (
	EventSpawn   EventType = iota // pellet acquired from the pool
	EventReject                   // pellet spawn refused at capacity
	EventEvict                    // oldest pellet recycled to make room
	EventConsume                  // pellet eaten
	EventExpire                   // pellet ran out of life
	EventRevoke                   // pellet removed by reconfiguration
	EventSurface                  // bubble reached the surface
	EventAcquire                  // fish started chasing a pellet
	EventAbandon                  // fish lost its pellet to something else

	numEventTypes
)

var eventNames = [numEventTypes]string{
	"spawned", "rejected", "evicted", "consumed", "expired",
	"revoked", "surfaced", "acquired", "abandoned",
}

// String returns the event name used in logs.
func (t EventType) String() string {
	if t < numEventTypes {
		return eventNames[t]
	}
	return "unknown"
}

// Event represents a single telemetry event.
type Event struct {
	Type   EventType
	Tick   int32
	FishID uint32 // zero for pool-only events

	// Age of the pellet in seconds for consume events.
	Age float64
}

// NewPoolEvent creates an event that involves no fish.
func NewPoolEvent(t EventType, tick int32) Event {
	return Event{Type: t, Tick: tick}
}

// NewConsumeEvent creates a consume event.
func NewConsumeEvent(tick int32, fishID uint32, age float64) Event {
	return Event{Type: EventConsume, Tick: tick, FishID: fishID, Age: age}
}

// NewFishEvent creates an acquire or abandon event.
func NewFishEvent(t EventType, tick int32, fishID uint32) Event {
	return Event{Type: t, Tick: tick, FishID: fishID}
}
