package market

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"time"

	polygonrest "github.com/polygon-io/client-go/rest"
	rmodels "github.com/polygon-io/client-go/rest/models"

	"github.com/vamsirch/flowtrend-scanner/internal/occ"
)

const restTimeout = 10 * time.Second

// Client wraps the provider's REST API.
type Client struct {
	rest *polygonrest.Client
}

// NewClient creates a REST client with a bounded request timeout.
func NewClient(apiKey string) *Client {
	return &Client{
		rest: polygonrest.NewWithClient(apiKey, &http.Client{Timeout: restTimeout}),
	}
}

// UnderlyingSnapshot fetches the current state of an underlying equity.
func (c *Client) UnderlyingSnapshot(ctx context.Context, ticker string) (UnderlyingSnapshot, error) {
	resp, err := c.rest.GetTickerSnapshot(ctx, &rmodels.GetTickerSnapshotParams{
		Locale:     rmodels.US,
		MarketType: rmodels.Stocks,
		Ticker:     ticker,
	})
	if err != nil {
		return UnderlyingSnapshot{}, fmt.Errorf("ticker snapshot %s: %w", ticker, err)
	}

	return UnderlyingSnapshot{
		LastTradePrice: resp.Snapshot.LastTrade.Price,
		PrevDayClose:   resp.Snapshot.PrevDay.Close,
	}, nil
}

// ListStrikes returns the strike prices listed for a ticker, expiration and
// side. The result may contain duplicates; callers dedupe.
func (c *Client) ListStrikes(ctx context.Context, ticker string, expiration time.Time, side occ.Side, limit int) ([]float64, error) {
	contractType := string(side)
	expDate := rmodels.Date(expiration)

	params := &rmodels.ListOptionsContractsParams{
		UnderlyingTickerEQ: &ticker,
		ContractType:       &contractType,
		ExpirationDateEQ:   &expDate,
	}
	params.Limit = &limit

	var strikes []float64
	iter := c.rest.ListOptionsContracts(ctx, params)
	for iter.Next() {
		strikes = append(strikes, iter.Item().StrikePrice)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("list contracts %s %s: %w", ticker, expiration.Format("2006-01-02"), err)
	}
	return strikes, nil
}

// OptionSnapshot fetches the research view of a single contract.
func (c *Client) OptionSnapshot(ctx context.Context, ticker, symbol string) (OptionSnapshot, error) {
	resp, err := c.rest.GetOptionContractSnapshot(ctx, &rmodels.GetOptionContractSnapshotParams{
		UnderlyingAsset: ticker,
		OptionContract:  symbol,
	})
	if err != nil {
		return OptionSnapshot{}, fmt.Errorf("option snapshot %s: %w", symbol, err)
	}

	r := resp.Results
	return OptionSnapshot{
		LastTradePrice:    r.LastTrade.Price,
		LastTradeSize:     r.LastTrade.Size,
		DayClose:          r.Day.Close,
		DayVolume:         r.Day.Volume,
		BidPrice:          r.LastQuote.Bid,
		AskPrice:          r.LastQuote.Ask,
		Delta:             r.Greeks.Delta,
		Gamma:             r.Greeks.Gamma,
		ImpliedVolatility: r.ImpliedVolatility,
	}, nil
}

// IntradayBars fetches minute aggregates for a contract on one date.
func (c *Client) IntradayBars(ctx context.Context, symbol string, intervalMinutes int, date time.Time) ([]Bar, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	params := &rmodels.ListAggsParams{
		Ticker:     symbol,
		Multiplier: intervalMinutes,
		Timespan:   rmodels.Minute,
		From:       rmodels.Millis(dayStart),
		To:         rmodels.Millis(dayEnd),
	}
	lim := 5000
	asc := rmodels.Asc
	adj := true
	params.Limit = &lim
	params.Order = &asc
	params.Adjusted = &adj

	var bars []Bar
	iter := c.rest.ListAggs(ctx, params)
	for iter.Next() {
		a := iter.Item()
		bars = append(bars, Bar{
			Timestamp: time.Time(a.Timestamp),
			Close:     a.Close,
		})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("intraday aggs %s: %w", symbol, err)
	}
	if len(bars) == 0 {
		return nil, ErrNoData
	}
	return bars, nil
}

// TopActiveContracts returns up to limit contracts from today's chain
// snapshot, ordered by descending daily volume. Contracts without day
// figures are skipped.
func (c *Client) TopActiveContracts(ctx context.Context, ticker string, limit int) ([]ContractDay, error) {
	params := &rmodels.ListOptionsChainParams{
		UnderlyingAsset: ticker,
	}
	params.Limit = &limit

	var contracts []ContractDay
	iter := c.rest.ListOptionsChainSnapshot(ctx, params)
	for iter.Next() {
		snap := iter.Item()
		if snap.Day.Close <= 0 || snap.Day.Volume <= 0 {
			continue
		}
		contracts = append(contracts, ContractDay{
			Symbol:       snap.Details.Ticker,
			ContractType: snap.Details.ContractType,
			Strike:       snap.Details.StrikePrice,
			Expiration:   time.Time(snap.Details.ExpirationDate).Format("2006-01-02"),
			DayClose:     snap.Day.Close,
			DayVolume:    snap.Day.Volume,
		})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("chain snapshot %s: %w", ticker, err)
	}

	return topByVolume(contracts, limit), nil
}

// topByVolume orders contracts by descending daily volume and keeps at most
// limit of them.
func topByVolume(contracts []ContractDay, limit int) []ContractDay {
	sort.Slice(contracts, func(i, j int) bool {
		return contracts[i].DayVolume > contracts[j].DayVolume
	})
	if len(contracts) > limit {
		contracts = contracts[:limit]
	}
	return contracts
}
