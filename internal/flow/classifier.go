package flow

import (
	"math"
	"time"

	"github.com/vamsirch/flowtrend-scanner/internal/market"
	"github.com/vamsirch/flowtrend-scanner/internal/occ"
)

// sweepCondition is the feed's condition code for an intermarket sweep.
const sweepCondition = 14

// Classifier decides which live trade events count as whale flow. It is
// pure apart from the clock its caller supplies.
type Classifier struct {
	watchlist map[string]struct{}
	threshold float64
}

// NewClassifier captures the watchlist and minimum notional by value; edits
// to the caller's slice after construction do not affect a running session.
func NewClassifier(watchlist []string, threshold float64) *Classifier {
	set := make(map[string]struct{}, len(watchlist))
	for _, t := range watchlist {
		set[t] = struct{}{}
	}
	return &Classifier{watchlist: set, threshold: threshold}
}

// Classify inspects one raw trade event. It returns the classified record
// and true when the event is relevant whale flow; otherwise the zero record
// and false. Malformed events are rejected, never propagated as errors.
func (c *Classifier) Classify(ev market.TradeEvent, now time.Time) (Record, bool) {
	if !validEvent(ev) {
		return Record{}, false
	}

	contract, err := occ.Parse(ev.Symbol)
	if err != nil {
		return Record{}, false
	}
	if _, ok := c.watchlist[contract.Underlying]; !ok {
		return Record{}, false
	}

	notional := ev.Price * float64(ev.Size) * Multiplier
	if notional < c.threshold {
		return Record{}, false
	}

	tag := TagBlock
	for _, cond := range ev.Conditions {
		if cond == sweepCondition {
			tag = TagSweep
			break
		}
	}

	return NewRecord(Record{
		Timestamp:      now,
		Ticker:         contract.Underlying,
		ContractSymbol: ev.Symbol,
		Side:           contract.Side,
		Price:          ev.Price,
		Size:           ev.Size,
		Notional:       notional,
		Tag:            tag,
	}), true
}

// validEvent rejects events missing fields or carrying non-finite numbers.
func validEvent(ev market.TradeEvent) bool {
	if ev.Symbol == "" {
		return false
	}
	if ev.Price <= 0 || math.IsNaN(ev.Price) || math.IsInf(ev.Price, 0) {
		return false
	}
	if ev.Size <= 0 {
		return false
	}
	return true
}
