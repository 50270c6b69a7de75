// Package scan is the streaming whale-detection pipeline: the startup
// backfill, the live feed listener, and the controller that owns their
// lifecycle.
package scan

import (
	"context"
	"log/slog"

	"golang.org/x/time/rate"

	"github.com/vamsirch/flowtrend-scanner/internal/flow"
	"github.com/vamsirch/flowtrend-scanner/internal/market"
	"github.com/vamsirch/flowtrend-scanner/internal/metrics"
	"github.com/vamsirch/flowtrend-scanner/internal/occ"
)

// SnapshotSource serves the daily chain snapshots the backfill reads.
type SnapshotSource interface {
	TopActiveContracts(ctx context.Context, ticker string, limit int) ([]market.ContractDay, error)
}

// Backfill seeds the buffer with today's significant day-aggregate flow so
// the table is populated before the first live print arrives. For each
// watched ticker it fetches the most active contracts and appends a
// Historical record for every one whose day notional clears the threshold,
// counting it against the tracker when one is supplied. One ticker's failure
// never aborts the remaining tickers. Returns the number of records admitted.
func Backfill(ctx context.Context, src SnapshotSource, buf *flow.Buffer, tracker *metrics.Tracker, watchlist []string, threshold float64, limit int, limiter *rate.Limiter) int {
	count := 0
	for _, ticker := range watchlist {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return count
			}
		}

		contracts, err := src.TopActiveContracts(ctx, ticker, limit)
		if err != nil {
			slog.Warn("backfill_ticker_failed", "ticker", ticker, "error", err)
			continue
		}

		accepted := 0
		for _, c := range contracts {
			if c.DayClose <= 0 || c.DayVolume <= 0 {
				continue
			}
			size := int64(c.DayVolume)
			notional := c.DayClose * float64(size) * flow.Multiplier
			if notional < threshold {
				continue
			}

			buf.Append(flow.NewRecord(flow.Record{
				// zero Timestamp marks the day-aggregate sentinel
				Ticker:         ticker,
				ContractSymbol: c.Symbol,
				Side:           occ.Side(c.ContractType),
				Price:          c.DayClose,
				Size:           size,
				Notional:       notional,
				Tag:            flow.TagHistorical,
			}))
			if tracker != nil {
				tracker.RecordAccepted(flow.TagHistorical)
			}
			accepted++
		}

		count += accepted
		slog.Debug("backfill_ticker_done", "ticker", ticker, "contracts", len(contracts), "accepted", accepted)
	}

	slog.Info("backfill_complete", "tickers", len(watchlist), "records", count)
	return count
}
