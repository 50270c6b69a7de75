package market

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// DefaultStreamURL is the provider's options trade cluster.
const DefaultStreamURL = "wss://socket.polygon.io/options"

// Reconnection constants.
const (
	initialBackoff = 1 * time.Second
	maxBackoff     = 60 * time.Second
	backoffFactor  = 2.0
	jitterPercent  = 0.2

	handshakeTimeout = 10 * time.Second
	writeTimeout     = 10 * time.Second
	readIdleTimeout  = 70 * time.Second

	eventChannelBuffer = 1024
)

// wsAction is the control message grammar of the trade feed.
type wsAction struct {
	Action string `json:"action"`
	Params string `json:"params,omitempty"`
}

func authAction(key string) wsAction { return wsAction{Action: "auth", Params: key} }

// allOptionTrades subscribes to every option trade print on the cluster.
func allOptionTrades() wsAction { return wsAction{Action: "subscribe", Params: "T.*"} }

// Stream maintains a long-lived subscription to the live option trade feed
// and fans events into a buffered channel. It reconnects with exponential
// backoff until its context is cancelled, then closes the channel.
type Stream struct {
	url    string
	apiKey string

	events  chan TradeEvent
	backoff time.Duration

	connMu sync.Mutex
	conn   *websocket.Conn

	statusFn func(status string)

	startOnce sync.Once
	wg        sync.WaitGroup
}

// NewStream creates a stream for the given endpoint. An empty url selects
// the default options cluster.
func NewStream(url, apiKey string) *Stream {
	if url == "" {
		url = DefaultStreamURL
	}
	return &Stream{
		url:     url,
		apiKey:  apiKey,
		events:  make(chan TradeEvent, eventChannelBuffer),
		backoff: initialBackoff,
	}
}

// Events returns the channel of live trade events. It is closed after the
// stream's context is cancelled and the run loop has wound down.
func (s *Stream) Events() <-chan TradeEvent {
	return s.events
}

// SetStatusFunc registers a callback fired on connection state changes
// ("connected", "disconnected"). Must be called before Start.
func (s *Stream) SetStatusFunc(fn func(status string)) {
	s.statusFn = fn
}

func (s *Stream) notifyStatus(status string) {
	if s.statusFn != nil {
		s.statusFn(status)
	}
}

// Start launches the connection loop. Subsequent calls are no-ops.
func (s *Stream) Start(ctx context.Context) {
	s.startOnce.Do(func() {
		s.wg.Add(1)
		go s.runLoop(ctx)
	})
}

// Wait blocks until the run loop has exited.
func (s *Stream) Wait() {
	s.wg.Wait()
}

// runLoop handles connection, reading, and reconnection.
func (s *Stream) runLoop(ctx context.Context) {
	defer s.wg.Done()
	defer close(s.events)

	for {
		select {
		case <-ctx.Done():
			slog.Info("stream_stopping", "reason", "context cancelled")
			return
		default:
		}

		if err := s.connect(ctx); err != nil {
			slog.Error("stream_connect_failed", "error", err, "backoff", s.backoff)
			s.waitBackoff(ctx)
			continue
		}

		if err := s.readLoop(ctx); err != nil {
			slog.Warn("stream_read_error", "error", err)
		}

		s.closeConnection()

		select {
		case <-ctx.Done():
			return
		default:
			s.waitBackoff(ctx)
		}
	}
}

// connect dials the cluster, authenticates, and subscribes to all option
// trades.
func (s *Stream) connect(ctx context.Context) error {
	dialer := websocket.Dialer{
		HandshakeTimeout:  handshakeTimeout,
		EnableCompression: true,
	}

	conn, resp, err := dialer.DialContext(ctx, s.url, nil)
	if err != nil {
		if resp != nil {
			return fmt.Errorf("dial failed with status %d: %w", resp.StatusCode, err)
		}
		return fmt.Errorf("dial failed: %w", err)
	}

	s.connMu.Lock()
	s.conn = conn
	s.connMu.Unlock()

	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := conn.WriteJSON(authAction(s.apiKey)); err != nil {
		return fmt.Errorf("auth write failed: %w", err)
	}

	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := conn.WriteJSON(allOptionTrades()); err != nil {
		return fmt.Errorf("subscribe write failed: %w", err)
	}

	// Reset backoff on successful connection
	s.backoff = initialBackoff

	s.notifyStatus("connected")
	slog.Info("stream_connected", "endpoint", s.url, "params", "T.*")
	return nil
}

// readLoop reads frames until the connection fails or the context ends.
func (s *Stream) readLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		s.connMu.Lock()
		conn := s.conn
		s.connMu.Unlock()
		if conn == nil {
			return fmt.Errorf("connection is nil")
		}

		conn.SetReadDeadline(time.Now().Add(readIdleTimeout))

		var msgs []json.RawMessage
		if err := conn.ReadJSON(&msgs); err != nil {
			return fmt.Errorf("read error: %w", err)
		}

		for _, raw := range msgs {
			s.handleMessage(raw)
		}
	}
}

// handleMessage dispatches one event from a feed frame. Malformed events
// are dropped; the feed keeps flowing.
func (s *Stream) handleMessage(raw json.RawMessage) {
	var head struct {
		EventType string `json:"ev"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		slog.Debug("stream_parse_error", "error", err)
		return
	}

	switch head.EventType {
	case "T":
		var ev TradeEvent
		if err := json.Unmarshal(raw, &ev); err != nil {
			slog.Debug("stream_trade_parse_error", "error", err)
			return
		}
		select {
		case s.events <- ev:
		default:
			slog.Warn("stream_channel_full", "dropped_symbol", ev.Symbol)
		}
	case "status":
		var st statusEvent
		if err := json.Unmarshal(raw, &st); err == nil {
			slog.Debug("stream_status", "status", st.Status, "message", st.Message)
			if st.Status == "auth_failed" {
				slog.Error("stream_auth_failed", "message", st.Message)
			}
		}
	default:
		// other clusters' events are not subscribed; ignore
	}
}

// closeConnection safely closes the websocket connection.
func (s *Stream) closeConnection() {
	s.connMu.Lock()
	defer s.connMu.Unlock()

	if s.conn != nil {
		s.conn.Close()
		s.conn = nil
		s.notifyStatus("disconnected")
		slog.Info("stream_disconnected")
	}
}

// waitBackoff waits for the backoff duration with jitter.
func (s *Stream) waitBackoff(ctx context.Context) {
	jitter := time.Duration(float64(s.backoff) * jitterPercent * (rand.Float64()*2 - 1))
	wait := s.backoff + jitter

	select {
	case <-ctx.Done():
	case <-time.After(wait):
	}

	s.backoff = time.Duration(float64(s.backoff) * backoffFactor)
	if s.backoff > maxBackoff {
		s.backoff = maxBackoff
	}
}
