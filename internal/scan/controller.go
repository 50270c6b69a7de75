package scan

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/vamsirch/flowtrend-scanner/internal/flow"
	"github.com/vamsirch/flowtrend-scanner/internal/market"
	"github.com/vamsirch/flowtrend-scanner/internal/metrics"
)

// ErrMissingCredentials is returned when the feed is started without a
// market-data API key.
var ErrMissingCredentials = errors.New("scan: market data API key is not configured")

// restPacing spaces the backfill's chain-snapshot requests.
const restPacing = 100 * time.Millisecond

// TradeStream is the live feed the listener consumes.
type TradeStream interface {
	Start(ctx context.Context)
	Events() <-chan market.TradeEvent
}

// State is the controller's lifecycle position.
type State int

const (
	StateIdle State = iota
	StateStarting
	StateRunning
	StateStopped
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	}
	return "unknown"
}

// Options configures a Controller. All collaborators are injected; the
// controller holds no process-wide state.
type Options struct {
	APIKey        string
	Watchlist     []string
	Threshold     float64
	BackfillLimit int

	Buffer  *flow.Buffer
	Tracker *metrics.Tracker
	Source  SnapshotSource

	// NewStream builds a fresh stream per session so each start gets its
	// own event channel.
	NewStream func() TradeStream
}

// Controller owns the feed lifecycle: Idle -> Starting -> Running -> Stopped.
// Start runs the backfill synchronously, then launches the listener; Stop
// cancels the listener's context so ingestion actually halts. Buffer
// contents survive a stop and remain visible.
type Controller struct {
	opts    Options
	limiter *rate.Limiter

	mu     sync.Mutex
	state  State
	cancel context.CancelFunc
	done   chan struct{}
}

// NewController creates a controller over the given collaborators.
func NewController(opts Options) *Controller {
	return &Controller{
		opts:    opts,
		limiter: rate.NewLimiter(rate.Every(restPacing), 1),
		state:   StateIdle,
	}
}

// Start brings the feed up. It is a no-op when a session is already
// starting or running. It blocks for the duration of the backfill and
// returns the number of historical records admitted.
func (c *Controller) Start(ctx context.Context) (int, error) {
	c.mu.Lock()
	if c.state == StateStarting || c.state == StateRunning {
		c.mu.Unlock()
		slog.Debug("feed_start_ignored", "state", c.state.String())
		return 0, nil
	}
	if c.opts.APIKey == "" {
		c.mu.Unlock()
		return 0, ErrMissingCredentials
	}
	c.state = StateStarting
	c.mu.Unlock()

	// The backfill runs synchronously on the triggering call so the table
	// is non-empty before streaming begins.
	count := Backfill(ctx, c.opts.Source, c.opts.Buffer, c.opts.Tracker, c.opts.Watchlist, c.opts.Threshold, c.opts.BackfillLimit, c.limiter)
	c.opts.Tracker.SetBackfillCount(count)

	c.mu.Lock()
	if c.state != StateStarting {
		// stopped while the backfill was running
		c.mu.Unlock()
		return count, nil
	}

	runCtx, cancel := context.WithCancel(ctx)
	stream := c.opts.NewStream()
	stream.Start(runCtx)

	// the stream reports "connected" itself once its dial succeeds
	c.opts.Tracker.SetStreamStatus("connecting")

	done := make(chan struct{})
	go c.listen(runCtx, stream, done)

	c.state = StateRunning
	c.cancel = cancel
	c.done = done
	c.mu.Unlock()

	slog.Info("feed_started",
		"watchlist", len(c.opts.Watchlist),
		"threshold", c.opts.Threshold,
		"backfill_records", count,
	)
	return count, nil
}

// Stop halts ingestion. Idempotent; stopping an idle or already-stopped
// feed does nothing.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateRunning && c.state != StateStarting {
		return
	}
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.state = StateStopped
	c.opts.Tracker.SetStreamStatus("stopped")
	slog.Info("feed_stopped")
}

// Running reports whether the live listener is active.
func (c *Controller) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == StateRunning
}

// State returns the controller's lifecycle position.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Done returns the running listener's completion handle, or nil when no
// listener has been launched.
func (c *Controller) Done() <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.done
}

// listen consumes the stream until the session context is cancelled or the
// stream's channel closes. The watchlist and threshold captured here govern
// the whole session; later config edits require a stop/start.
func (c *Controller) listen(ctx context.Context, stream TradeStream, done chan struct{}) {
	defer close(done)

	classifier := flow.NewClassifier(c.opts.Watchlist, c.opts.Threshold)

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-stream.Events():
			if !ok {
				slog.Warn("trade_stream_ended")
				c.opts.Tracker.SetStreamStatus("disconnected")
				return
			}
			c.opts.Tracker.RecordEvent()
			rec, accepted := classifier.Classify(ev, time.Now())
			if !accepted {
				continue
			}
			c.opts.Buffer.Prepend(rec)
			c.opts.Tracker.RecordAccepted(rec.Tag)
		}
	}
}
