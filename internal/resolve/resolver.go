// Package resolve turns a ticker, expiration, side and reference price
// into the canonical symbol of the nearest listed contract.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/vamsirch/flowtrend-scanner/internal/occ"
)

// ErrNoContracts is returned when no contracts are listed for the
// requested ticker, expiration and side.
var ErrNoContracts = errors.New("resolve: no contracts listed")

// strikeListLimit bounds a single strike listing request.
const strikeListLimit = 1000

// StrikeSource lists the strikes available for a contract series.
type StrikeSource interface {
	ListStrikes(ctx context.Context, ticker string, expiration time.Time, side occ.Side, limit int) ([]float64, error)
}

// Resolution is a resolved contract with the strike grid it was chosen from.
type Resolution struct {
	Contract occ.Contract
	Symbol   string
	Strikes  []float64 // deduplicated, ascending
}

// Resolver picks nearest-the-money contracts against a strike source.
type Resolver struct {
	src StrikeSource
}

// NewResolver creates a Resolver over the given source.
func NewResolver(src StrikeSource) *Resolver {
	return &Resolver{src: src}
}

// Nearest resolves the contract whose strike is closest to the reference
// price. Ties go to the lower strike.
func (r *Resolver) Nearest(ctx context.Context, ticker string, expiration time.Time, side occ.Side, reference float64) (Resolution, error) {
	raw, err := r.src.ListStrikes(ctx, ticker, expiration, side, strikeListLimit)
	if err != nil {
		return Resolution{}, fmt.Errorf("listing strikes for %s: %w", ticker, err)
	}

	strikes := dedupeSorted(raw)
	if len(strikes) == 0 {
		return Resolution{}, ErrNoContracts
	}

	strike := nearestStrike(strikes, reference)
	contract := occ.Contract{
		Underlying: ticker,
		Expiration: expiration,
		Side:       side,
		Strike:     strike,
	}

	slog.Debug("contract_resolved",
		"ticker", ticker,
		"expiration", expiration.Format("2006-01-02"),
		"side", string(side),
		"reference", reference,
		"strike", strike,
		"strikes_listed", len(strikes),
	)

	return Resolution{
		Contract: contract,
		Symbol:   occ.Build(ticker, expiration, side, strike),
		Strikes:  strikes,
	}, nil
}

// dedupeSorted sorts strikes ascending and drops duplicates.
func dedupeSorted(strikes []float64) []float64 {
	if len(strikes) == 0 {
		return nil
	}
	out := make([]float64, len(strikes))
	copy(out, strikes)
	sort.Float64s(out)

	n := 1
	for i := 1; i < len(out); i++ {
		if out[i] != out[n-1] {
			out[n] = out[i]
			n++
		}
	}
	return out[:n]
}

// nearestStrike picks the strike with minimal distance to reference from an
// ascending slice. On equal distance the lower strike wins, so iteration
// replaces only on strict improvement.
func nearestStrike(strikes []float64, reference float64) float64 {
	best := strikes[0]
	bestDist := math.Abs(best - reference)
	for _, s := range strikes[1:] {
		d := math.Abs(s - reference)
		if d < bestDist {
			best = s
			bestDist = d
		}
	}
	return best
}
