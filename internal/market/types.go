// Package market is the Polygon.io collaborator: a REST client for
// snapshots, contract listings and aggregates, and a websocket stream of
// live option trades.
package market

import (
	"errors"
	"time"
)

// ErrNoData marks a valid request that returned an empty result. Callers
// surface it as an informational message, not a failure.
var ErrNoData = errors.New("market: no data")

// TradeEvent is one raw option trade from the live stream.
type TradeEvent struct {
	EventType  string  `json:"ev"`  // "T"
	Symbol     string  `json:"sym"` // option ticker, e.g. "O:SPY240621C00500000"
	Price      float64 `json:"p"`
	Size       int64   `json:"s"`
	Conditions []int32 `json:"c"`
	Exchange   int32   `json:"x"`
	Timestamp  int64   `json:"t"` // SIP ms
}

// statusEvent is the feed's control message ("connected", "auth_success", ...).
type statusEvent struct {
	EventType string `json:"ev"`
	Status    string `json:"status"`
	Message   string `json:"message"`
}

// UnderlyingSnapshot is the current state of an underlying equity.
type UnderlyingSnapshot struct {
	LastTradePrice float64
	PrevDayClose   float64
}

// Price returns the freshest reference price available.
func (s UnderlyingSnapshot) Price() float64 {
	if s.LastTradePrice > 0 {
		return s.LastTradePrice
	}
	return s.PrevDayClose
}

// ContractDay is one contract from the daily chain snapshot, carrying the
// day-aggregate figures the backfill needs.
type ContractDay struct {
	Symbol       string
	ContractType string // "call" or "put"
	Strike       float64
	Expiration   string
	DayClose     float64
	DayVolume    float64
}

// OptionSnapshot is the research view of a single contract.
type OptionSnapshot struct {
	LastTradePrice    float64
	LastTradeSize     float64
	DayClose          float64
	DayVolume         float64
	BidPrice          float64
	AskPrice          float64
	Delta             float64
	Gamma             float64
	ImpliedVolatility float64
}

// Premium returns the most recent per-contract price, falling back to the
// daily close when the contract has not traded recently.
func (s OptionSnapshot) Premium() (price, size float64) {
	if s.LastTradePrice > 0 {
		return s.LastTradePrice, s.LastTradeSize
	}
	return s.DayClose, s.DayVolume
}

// Bar is one intraday aggregate.
type Bar struct {
	Timestamp time.Time
	Close     float64
}
