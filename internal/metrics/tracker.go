// Package metrics provides real-time session stats for the scanner.
package metrics

import (
	"sync"
	"time"
)

// Snapshot is a point-in-time view of session stats.
type Snapshot struct {
	EventsSeen     int64
	EventsAccepted int64
	CountByTag     map[string]int64
	EventRate      float64 // events per second over the last minute
	StreamStatus   string
	BackfillCount  int
	Uptime         time.Duration
}

// Tracker provides thread-safe stats tracking.
type Tracker struct {
	mu              sync.RWMutex
	eventsSeen      int64
	eventsAccepted  int64
	countByTag      map[string]int64
	eventTimestamps []time.Time // for rate calculation
	streamStatus    string
	backfillCount   int
	startTime       time.Time

	now func() time.Time
}

// NewTracker creates a Tracker.
func NewTracker() *Tracker {
	return &Tracker{
		countByTag:      make(map[string]int64),
		eventTimestamps: make([]time.Time, 0, 1000),
		streamStatus:    "idle",
		startTime:       time.Now(),
		now:             time.Now,
	}
}

// RecordEvent counts one raw event off the stream.
func (t *Tracker) RecordEvent() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.eventsSeen++
	now := t.now()
	t.eventTimestamps = append(t.eventTimestamps, now)

	// Keep only the last 60 seconds of timestamps
	cutoff := now.Add(-60 * time.Second)
	validIdx := 0
	for i, ts := range t.eventTimestamps {
		if ts.After(cutoff) {
			validIdx = i
			break
		}
	}
	if validIdx > 0 {
		t.eventTimestamps = t.eventTimestamps[validIdx:]
	}
}

// RecordAccepted counts one record admitted to the buffer under its tag.
func (t *Tracker) RecordAccepted(tag string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.eventsAccepted++
	t.countByTag[tag]++
}

// SetStreamStatus records the live feed connection state.
func (t *Tracker) SetStreamStatus(status string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.streamStatus = status
}

// SetBackfillCount records how many historical rows the backfill admitted.
func (t *Tracker) SetBackfillCount(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.backfillCount = n
}

// Snapshot returns a consistent copy of the stats.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()

	byTag := make(map[string]int64, len(t.countByTag))
	for k, v := range t.countByTag {
		byTag[k] = v
	}

	rate := 0.0
	if n := len(t.eventTimestamps); n > 1 {
		window := t.eventTimestamps[n-1].Sub(t.eventTimestamps[0]).Seconds()
		if window > 0 {
			rate = float64(n) / window
		}
	}

	return Snapshot{
		EventsSeen:     t.eventsSeen,
		EventsAccepted: t.eventsAccepted,
		CountByTag:     byTag,
		EventRate:      rate,
		StreamStatus:   t.streamStatus,
		BackfillCount:  t.backfillCount,
		Uptime:         time.Since(t.startTime),
	}
}
