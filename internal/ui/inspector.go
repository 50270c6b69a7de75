package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/rivo/tview"

	"github.com/vamsirch/flowtrend-scanner/internal/flow"
	"github.com/vamsirch/flowtrend-scanner/internal/market"
	"github.com/vamsirch/flowtrend-scanner/internal/occ"
	"github.com/vamsirch/flowtrend-scanner/internal/resolve"
)

const (
	inspectTimeout    = 30 * time.Second
	sparklineInterval = 5 // minutes per bar
)

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

// MarketData is the slice of the REST client the inspector reads.
type MarketData interface {
	UnderlyingSnapshot(ctx context.Context, ticker string) (market.UnderlyingSnapshot, error)
	OptionSnapshot(ctx context.Context, ticker, symbol string) (market.OptionSnapshot, error)
	IntradayBars(ctx context.Context, symbol string, intervalMinutes int, date time.Time) ([]market.Bar, error)
}

// InspectorView is the single-contract research page: pick a ticker,
// expiration and side, and it resolves the nearest-the-money contract and
// shows its premium, quote, greeks and intraday chart.
type InspectorView struct {
	layout *tview.Flex
	form   *tview.Form
	result *tview.TextView

	resolver *resolve.Resolver
	data     MarketData

	app *tview.Application
}

// NewInspectorView creates the inspector page.
func NewInspectorView(resolver *resolve.Resolver, data MarketData) *InspectorView {
	v := &InspectorView{
		resolver: resolver,
		data:     data,
	}

	v.result = tview.NewTextView().SetDynamicColors(true)
	v.result.SetTitle(" Contract ").SetBorder(true)

	v.form = tview.NewForm().
		AddInputField("Ticker", "SPY", 10, nil, nil).
		AddInputField("Expiration (YYYY-MM-DD)", nextFriday().Format("2006-01-02"), 14, nil, nil).
		AddDropDown("Side", []string{"call", "put"}, 0, nil).
		AddButton("Inspect", func() { v.inspect() })
	v.form.SetTitle(" Inspector ").SetBorder(true)

	v.layout = tview.NewFlex().
		AddItem(v.form, 40, 0, true).
		AddItem(v.result, 0, 1, false)

	return v
}

// attach gives the view its draw handle; called once by the owning App.
func (v *InspectorView) attach(app *tview.Application) {
	v.app = app
}

// Widget returns the tview primitive.
func (v *InspectorView) Widget() tview.Primitive {
	return v.layout
}

// inspect reads the form and kicks off the lookup off the UI goroutine.
func (v *InspectorView) inspect() {
	ticker := strings.ToUpper(strings.TrimSpace(v.form.GetFormItemByLabel("Ticker").(*tview.InputField).GetText()))
	expStr := strings.TrimSpace(v.form.GetFormItemByLabel("Expiration (YYYY-MM-DD)").(*tview.InputField).GetText())
	_, sideStr := v.form.GetFormItemByLabel("Side").(*tview.DropDown).GetCurrentOption()

	expiration, err := time.Parse("2006-01-02", expStr)
	if err != nil {
		v.showError(fmt.Errorf("bad expiration %q: %w", expStr, err))
		return
	}
	if ticker == "" {
		v.showError(fmt.Errorf("ticker is required"))
		return
	}

	v.result.Clear()
	fmt.Fprintf(v.result, "resolving %s %s %s...", ticker, expStr, sideStr)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), inspectTimeout)
		defer cancel()

		text, err := v.lookup(ctx, ticker, expiration, occ.Side(sideStr))
		v.app.QueueUpdateDraw(func() {
			v.result.Clear()
			if err != nil {
				fmt.Fprintf(v.result, "[red]%v[-]", err)
				return
			}
			fmt.Fprint(v.result, text)
		})
	}()
}

// lookup resolves the contract and assembles the research text.
func (v *InspectorView) lookup(ctx context.Context, ticker string, expiration time.Time, side occ.Side) (string, error) {
	under, err := v.data.UnderlyingSnapshot(ctx, ticker)
	if err != nil {
		return "", fmt.Errorf("underlying %s: %w", ticker, err)
	}

	res, err := v.resolver.Nearest(ctx, ticker, expiration, side, under.Price())
	if err != nil {
		return "", err
	}

	snap, err := v.data.OptionSnapshot(ctx, ticker, res.Symbol)
	if err != nil {
		return "", fmt.Errorf("snapshot %s: %w", res.Symbol, err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[yellow]%s[-]\n", res.Symbol)
	fmt.Fprintf(&b, "underlying %.2f   strike %.2f   %d strikes listed\n\n", under.Price(), res.Contract.Strike, len(res.Strikes))
	price, size := snap.Premium()
	fmt.Fprintf(&b, "[yellow]Last[-]  %.2f x %.0f   notional %s\n", price, size, formatNotional(price*size*flow.Multiplier))
	fmt.Fprintf(&b, "[yellow]Quote[-]  %.2f / %.2f\n", snap.BidPrice, snap.AskPrice)
	fmt.Fprintf(&b, "[yellow]Day[-]  close %.2f   volume %.0f\n", snap.DayClose, snap.DayVolume)
	fmt.Fprintf(&b, "[yellow]Greeks[-]  delta %.3f   gamma %.4f   IV %.1f%%\n\n", snap.Delta, snap.Gamma, snap.ImpliedVolatility*100)

	bars, err := v.data.IntradayBars(ctx, res.Symbol, sparklineInterval, time.Now())
	switch {
	case errors.Is(err, market.ErrNoData):
		b.WriteString("no intraday prints today\n")
	case err != nil:
		slog.Warn("inspector_bars_failed", "symbol", res.Symbol, "error", err)
		b.WriteString("intraday chart unavailable\n")
	default:
		fmt.Fprintf(&b, "[yellow]Intraday[-] (%dm bars)\n%s\n", sparklineInterval, sparkline(bars, 60))
	}

	return b.String(), nil
}

// showError renders a form-validation failure without a network round trip.
func (v *InspectorView) showError(err error) {
	v.result.Clear()
	fmt.Fprintf(v.result, "[red]%v[-]", err)
}

// sparkline renders closes as a one-line block-character chart.
func sparkline(bars []market.Bar, width int) string {
	if len(bars) == 0 {
		return ""
	}
	if len(bars) > width {
		bars = bars[len(bars)-width:]
	}

	lo, hi := bars[0].Close, bars[0].Close
	for _, b := range bars[1:] {
		if b.Close < lo {
			lo = b.Close
		}
		if b.Close > hi {
			hi = b.Close
		}
	}

	var sb strings.Builder
	for _, b := range bars {
		idx := 0
		if hi > lo {
			idx = int((b.Close - lo) / (hi - lo) * float64(len(sparkRunes)-1))
		}
		sb.WriteRune(sparkRunes[idx])
	}
	fmt.Fprintf(&sb, "  %.2f-%.2f", lo, hi)
	return sb.String()
}

// nextFriday is the default expiration offered by the form.
func nextFriday() time.Time {
	t := time.Now()
	for t.Weekday() != time.Friday {
		t = t.AddDate(0, 0, 1)
	}
	return t
}
