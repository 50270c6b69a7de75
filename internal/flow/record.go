// Package flow holds the whale-flow data model: classified trade records and
// the bounded buffer that stores them.
package flow

import (
	"time"

	"github.com/google/uuid"

	"github.com/vamsirch/flowtrend-scanner/internal/occ"
)

// Multiplier is the number of shares one option contract controls.
const Multiplier = 100

// Tags classify how a record entered the feed.
const (
	// TagHistorical marks a day-aggregate row reconstructed by the
	// startup backfill.
	TagHistorical = "HISTORICAL"

	// TagSweep marks an aggressive intermarket sweep print.
	TagSweep = "SWEEP"

	// TagBlock marks a non-sweep real-time print.
	TagBlock = "BLOCK"
)

// Record is one observed or reconstructed whale event.
type Record struct {
	// ID is a unique identifier for this record.
	ID string

	// Timestamp is the wall-clock observation time. The zero value is the
	// day-aggregate sentinel used by backfilled rows.
	Timestamp time.Time

	// Ticker is the underlying symbol.
	Ticker string

	// ContractSymbol is the provider option ticker, e.g. "O:SPY240621C00500000".
	ContractSymbol string

	// Side is call or put.
	Side occ.Side

	// Price is the per-contract premium.
	Price float64

	// Size is the contract count.
	Size int64

	// Notional is Price * Size * Multiplier.
	Notional float64

	// Tag is one of TagHistorical, TagSweep, TagBlock.
	Tag string
}

// NewRecord assigns a fresh ID to a record.
func NewRecord(r Record) Record {
	r.ID = uuid.NewString()
	return r
}

// DayAggregate reports whether this record summarizes a whole trading day
// rather than a single print.
func (r Record) DayAggregate() bool {
	return r.Timestamp.IsZero()
}
