package metrics

import (
	"testing"
	"time"
)

func TestTrackerCounters(t *testing.T) {
	tr := NewTracker()

	tr.RecordEvent()
	tr.RecordEvent()
	tr.RecordAccepted("SWEEP")
	tr.RecordAccepted("SWEEP")
	tr.RecordAccepted("BLOCK")
	tr.SetStreamStatus("connected")
	tr.SetBackfillCount(7)

	snap := tr.Snapshot()
	if snap.EventsSeen != 2 {
		t.Errorf("expected 2 seen, got %d", snap.EventsSeen)
	}
	if snap.EventsAccepted != 3 {
		t.Errorf("expected 3 accepted, got %d", snap.EventsAccepted)
	}
	if snap.CountByTag["SWEEP"] != 2 || snap.CountByTag["BLOCK"] != 1 {
		t.Errorf("unexpected tag counts %v", snap.CountByTag)
	}
	if snap.StreamStatus != "connected" {
		t.Errorf("expected connected, got %q", snap.StreamStatus)
	}
	if snap.BackfillCount != 7 {
		t.Errorf("expected backfill 7, got %d", snap.BackfillCount)
	}
}

func TestTrackerSnapshotCopiesTagMap(t *testing.T) {
	tr := NewTracker()
	tr.RecordAccepted("SWEEP")

	snap := tr.Snapshot()
	snap.CountByTag["SWEEP"] = 99

	if got := tr.Snapshot().CountByTag["SWEEP"]; got != 1 {
		t.Errorf("snapshot mutation leaked into tracker: %d", got)
	}
}

func TestTrackerEventRate(t *testing.T) {
	tr := NewTracker()
	cur := time.Unix(1000, 0)
	tr.now = func() time.Time { return cur }

	// three events over two seconds
	tr.RecordEvent()
	cur = cur.Add(time.Second)
	tr.RecordEvent()
	cur = cur.Add(time.Second)
	tr.RecordEvent()

	if got := tr.Snapshot().EventRate; got != 1.5 {
		t.Errorf("expected rate 1.5, got %v", got)
	}
}

func TestTrackerRateWindowPrunesOldEvents(t *testing.T) {
	tr := NewTracker()
	cur := time.Unix(1000, 0)
	tr.now = func() time.Time { return cur }

	tr.RecordEvent()
	cur = cur.Add(time.Second)
	tr.RecordEvent()
	cur = cur.Add(time.Second)
	tr.RecordEvent()

	// two minutes of silence pushes the earlier events out of the window
	cur = cur.Add(2 * time.Minute)
	tr.RecordEvent()

	snap := tr.Snapshot()
	if snap.EventsSeen != 4 {
		t.Errorf("expected 4 seen, got %d", snap.EventsSeen)
	}
	// a single in-window timestamp yields no measurable rate
	if snap.EventRate != 0 {
		t.Errorf("expected stale events pruned from the rate window, got rate %v", snap.EventRate)
	}
}
