// Package occ parses and builds OCC-style option tickers as used by the
// market-data provider, e.g. "O:SPY240621C00500000".
package occ

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Side is the option side encoded in the ticker.
type Side string

const (
	Call Side = "call"
	Put  Side = "put"
)

// Prefix marks an option ticker on the options feed.
const Prefix = "O:"

// Contract is the decoded form of an option ticker.
type Contract struct {
	// Underlying is the underlying equity symbol, e.g. "SPY".
	Underlying string

	// Expiration is the contract expiration date (midnight UTC).
	Expiration time.Time

	// Side is call or put.
	Side Side

	// Strike is the strike price in dollars.
	Strike float64
}

// Parse decodes an option ticker. The accepted grammar is an optional "O:"
// prefix, the underlying symbol, a six-digit YYMMDD expiration, a single
// C or P side marker, and an eight-digit strike (dollars x 1000).
func Parse(symbol string) (Contract, error) {
	s := strings.TrimPrefix(symbol, Prefix)

	// Underlying length varies, so decode from the fixed-width tail.
	if len(s) < 16 {
		return Contract{}, fmt.Errorf("option ticker %q too short", symbol)
	}

	strikeStr := s[len(s)-8:]
	sideChar := s[len(s)-9]
	dateStr := s[len(s)-15 : len(s)-9]
	underlying := s[:len(s)-15]

	if underlying == "" {
		return Contract{}, fmt.Errorf("option ticker %q has no underlying", symbol)
	}
	for _, r := range underlying {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') && r != '.' {
			return Contract{}, fmt.Errorf("option ticker %q has invalid underlying %q", symbol, underlying)
		}
	}

	var side Side
	switch sideChar {
	case 'C':
		side = Call
	case 'P':
		side = Put
	default:
		return Contract{}, fmt.Errorf("option ticker %q has invalid side marker %q", symbol, string(sideChar))
	}

	exp, err := time.Parse("060102", dateStr)
	if err != nil {
		return Contract{}, fmt.Errorf("option ticker %q has invalid expiration: %w", symbol, err)
	}

	milli, err := strconv.ParseInt(strikeStr, 10, 64)
	if err != nil {
		return Contract{}, fmt.Errorf("option ticker %q has invalid strike: %w", symbol, err)
	}

	return Contract{
		Underlying: underlying,
		Expiration: exp,
		Side:       side,
		Strike:     decimal.NewFromInt(milli).Div(decimal.NewFromInt(1000)).InexactFloat64(),
	}, nil
}

// Build encodes a contract into its canonical ticker, e.g. a SPY
// 2024-06-21 call at 500 becomes "O:SPY240621C00500000". The strike is
// encoded through decimal arithmetic so prices like 107.50 round-trip
// without float drift.
func Build(underlying string, expiration time.Time, side Side, strike float64) string {
	sideChar := "C"
	if side == Put {
		sideChar = "P"
	}
	milli := decimal.NewFromFloat(strike).Mul(decimal.NewFromInt(1000)).Round(0).IntPart()
	return fmt.Sprintf("%s%s%s%s%08d",
		Prefix,
		strings.ToUpper(underlying),
		expiration.Format("060102"),
		sideChar,
		milli,
	)
}
