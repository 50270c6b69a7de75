package ui

import (
	"fmt"
	"time"

	"github.com/rivo/tview"

	"github.com/vamsirch/flowtrend-scanner/internal/flow"
	"github.com/vamsirch/flowtrend-scanner/internal/metrics"
	"github.com/vamsirch/flowtrend-scanner/internal/scan"
)

// StatsView displays session stats and feed health.
type StatsView struct {
	textView *tview.TextView
}

// NewStatsView creates the stats strip.
func NewStatsView() *StatsView {
	textView := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(false)

	textView.SetTitle(" Session ").SetBorder(true)

	return &StatsView{textView: textView}
}

// Widget returns the tview primitive.
func (v *StatsView) Widget() tview.Primitive {
	return v.textView
}

// Update refreshes the stats display.
func (v *StatsView) Update(snapshot metrics.Snapshot, state scan.State) {
	v.textView.Clear()

	streamColor := "red"
	if snapshot.StreamStatus == "connected" {
		streamColor = "green"
	}

	text := fmt.Sprintf(`[yellow]Feed[-]  %s   Stream: [%s]%s[-]   Uptime: %s
[yellow]Events[-]  seen: %d   accepted: %d   rate: %.1f/s
[yellow]Flow[-]  sweeps: %d   blocks: %d   historical: %d (backfill %d)
`,
		state,
		streamColor, snapshot.StreamStatus,
		formatDuration(snapshot.Uptime),
		snapshot.EventsSeen,
		snapshot.EventsAccepted,
		snapshot.EventRate,
		snapshot.CountByTag[flow.TagSweep],
		snapshot.CountByTag[flow.TagBlock],
		snapshot.CountByTag[flow.TagHistorical],
		snapshot.BackfillCount,
	)

	fmt.Fprint(v.textView, text)
}

// formatDuration formats a duration in human-readable form.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.0fs", d.Seconds())
	}
	if d < time.Hour {
		return fmt.Sprintf("%.0fm", d.Minutes())
	}
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh %dm", hours, minutes)
}
