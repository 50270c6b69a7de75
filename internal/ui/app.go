// Package ui provides the terminal dashboard.
package ui

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/vamsirch/flowtrend-scanner/internal/flow"
	"github.com/vamsirch/flowtrend-scanner/internal/metrics"
	"github.com/vamsirch/flowtrend-scanner/internal/scan"
)

// App is the main TUI application.
type App struct {
	app    *tview.Application
	pages  *tview.Pages
	layout *tview.Flex

	// Views
	flowTable *FlowTableView
	stats     *StatsView
	inspector *InspectorView

	// Collaborators
	controller *scan.Controller
	buffer     *flow.Buffer
	tracker    *metrics.Tracker

	refreshRate time.Duration

	ctx    context.Context
	cancel context.CancelFunc
}

// NewApp creates the dashboard over an already-constructed pipeline.
func NewApp(controller *scan.Controller, buffer *flow.Buffer, tracker *metrics.Tracker, inspector *InspectorView, refreshRate time.Duration) *App {
	ctx, cancel := context.WithCancel(context.Background())

	a := &App{
		app:         tview.NewApplication(),
		controller:  controller,
		buffer:      buffer,
		tracker:     tracker,
		inspector:   inspector,
		refreshRate: refreshRate,
		ctx:         ctx,
		cancel:      cancel,
	}

	a.flowTable = NewFlowTableView()
	a.stats = NewStatsView()
	a.inspector.attach(a.app)

	a.setupLayout()
	a.setupKeyboard()

	return a
}

// setupLayout arranges the scanner page and the inspector page.
func (a *App) setupLayout() {
	// Scanner page: flow table over the stats strip
	scannerPage := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(a.flowTable.Widget(), 0, 4, true).
		AddItem(a.stats.Widget(), 9, 0, false)

	a.pages = tview.NewPages().
		AddPage("scanner", scannerPage, true, true).
		AddPage("inspector", a.inspector.Widget(), true, false)

	a.layout = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(a.pages, 0, 1, true).
		AddItem(a.helpBar(), 1, 0, false)

	a.app.SetRoot(a.layout, true)
}

// helpBar renders the one-line key legend.
func (a *App) helpBar() tview.Primitive {
	bar := tview.NewTextView().SetDynamicColors(true)
	fmt.Fprint(bar, " [yellow]s[-] start feed  [yellow]x[-] stop feed  [yellow]Tab[-] scanner/inspector  [yellow]q[-] quit")
	return bar
}

// setupKeyboard configures keyboard shortcuts.
func (a *App) setupKeyboard() {
	a.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		// The inspector form owns its own keystrokes except for page switching.
		if event.Key() == tcell.KeyTab {
			a.togglePage()
			return nil
		}
		if name, _ := a.pages.GetFrontPage(); name == "inspector" {
			return event
		}

		switch event.Key() {
		case tcell.KeyCtrlC:
			a.Stop()
			return nil
		case tcell.KeyRune:
			switch event.Rune() {
			case 'q', 'Q':
				a.Stop()
				return nil
			case 's', 'S':
				a.startFeed()
				return nil
			case 'x', 'X':
				a.controller.Stop()
				return nil
			}
		}
		return event
	})
}

// togglePage flips between the scanner and the inspector.
func (a *App) togglePage() {
	if name, _ := a.pages.GetFrontPage(); name == "scanner" {
		a.pages.SwitchToPage("inspector")
		a.app.SetFocus(a.inspector.Widget())
	} else {
		a.pages.SwitchToPage("scanner")
		a.app.SetFocus(a.flowTable.Widget())
	}
}

// startFeed launches the controller off the UI goroutine; the backfill is
// synchronous and must not block the event loop.
func (a *App) startFeed() {
	go func() {
		if _, err := a.controller.Start(a.ctx); err != nil {
			slog.Error("feed_start_failed", "error", err)
		}
	}()
}

// Run starts the dashboard (blocking).
func (a *App) Run() error {
	go a.updateLoop()

	if err := a.app.Run(); err != nil {
		return fmt.Errorf("app run failed: %w", err)
	}
	return nil
}

// Stop gracefully stops the application.
func (a *App) Stop() {
	a.controller.Stop()
	a.cancel()
	a.app.Stop()
}

// updateLoop periodically refreshes the views from the buffer and tracker.
func (a *App) updateLoop() {
	ticker := time.NewTicker(a.refreshRate)
	defer ticker.Stop()

	for {
		select {
		case <-a.ctx.Done():
			return
		case <-ticker.C:
			records := a.buffer.Snapshot()
			snapshot := a.tracker.Snapshot()
			state := a.controller.State()

			a.app.QueueUpdateDraw(func() {
				a.flowTable.Update(records)
				a.stats.Update(snapshot, state)
			})
		}
	}
}
