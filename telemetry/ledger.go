package telemetry

import "sort"

// FeedingRecord tracks one fish's foraging history.
type FeedingRecord struct {
	FishID         uint32  `csv:"fish_id"`
	BirthTick      int32   `csv:"birth_tick"`
	Meals          int     `csv:"meals"`
	Chases         int     `csv:"chases"`
	AbandonedChase int     `csv:"abandoned_chases"`
	ChaseTimeSec   float64 `csv:"chase_time"` // summed over successful chases
	LastMealTick   int32   `csv:"last_meal_tick"`
}

// SuccessRate returns meals per chase, or 0 before the first chase.
func (r *FeedingRecord) SuccessRate() float64 {
	if r.Chases == 0 {
		return 0
	}
	return float64(r.Meals) / float64(r.Chases)
}

// FeedingLedger manages per-fish feeding records.
type FeedingLedger struct {
	records map[uint32]*FeedingRecord
}

// NewFeedingLedger creates an empty ledger.
func NewFeedingLedger() *FeedingLedger {
	return &FeedingLedger{
		records: make(map[uint32]*FeedingRecord),
	}
}

// Register starts a record for a new fish.
func (l *FeedingLedger) Register(fishID uint32, birthTick int32) {
	l.records[fishID] = &FeedingRecord{FishID: fishID, BirthTick: birthTick, LastMealTick: -1}
}

// Get returns the record for a fish, or nil if not found.
func (l *FeedingLedger) Get(fishID uint32) *FeedingRecord {
	return l.records[fishID]
}

// Remove drops a fish's record and returns it.
func (l *FeedingLedger) Remove(fishID uint32) *FeedingRecord {
	r := l.records[fishID]
	delete(l.records, fishID)
	return r
}

// RecordChase counts a newly acquired target.
func (l *FeedingLedger) RecordChase(fishID uint32) {
	if r := l.records[fishID]; r != nil {
		r.Chases++
	}
}

// RecordAbandon counts a chase lost to another fish, expiry or revocation.
func (l *FeedingLedger) RecordAbandon(fishID uint32) {
	if r := l.records[fishID]; r != nil {
		r.AbandonedChase++
	}
}

// RecordMeal counts a consumed pellet.
func (l *FeedingLedger) RecordMeal(fishID uint32, tick int32, chaseTime float64) {
	if r := l.records[fishID]; r != nil {
		r.Meals++
		r.ChaseTimeSec += chaseTime
		r.LastMealTick = tick
	}
}

// Records returns copies of all records ordered by fish ID.
func (l *FeedingLedger) Records() []FeedingRecord {
	out := make([]FeedingRecord, 0, len(l.records))
	for _, r := range l.records {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FishID < out[j].FishID })
	return out
}

// Count returns the number of tracked fish.
func (l *FeedingLedger) Count() int {
	return len(l.records)
}

// TotalMeals sums meals across all fish.
func (l *FeedingLedger) TotalMeals() int {
	n := 0
	for _, r := range l.records {
		n += r.Meals
	}
	return n
}
