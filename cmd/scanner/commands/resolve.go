package commands

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vamsirch/flowtrend-scanner/internal/market"
	"github.com/vamsirch/flowtrend-scanner/internal/occ"
	"github.com/vamsirch/flowtrend-scanner/internal/resolve"
)

// resolveCmd represents the resolve command
var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve the nearest-the-money contract",
	Long: `One-shot contract resolution: looks up the underlying's current price,
lists the strikes for the given expiration and side, and prints the
closest contract's canonical symbol.

Example:
  scanner resolve --ticker SPY --expiration 2026-09-18 --side call
  scanner resolve --ticker NVDA --expiration 2026-10-16 --side put --price 175`,
	RunE: runResolve,
}

var (
	resolveTicker     string
	resolveExpiration string
	resolveSide       string
	resolvePrice      float64
)

func init() {
	rootCmd.AddCommand(resolveCmd)

	resolveCmd.Flags().StringVar(&resolveTicker, "ticker", "", "underlying ticker (required)")
	resolveCmd.Flags().StringVar(&resolveExpiration, "expiration", "", "expiration date YYYY-MM-DD (required)")
	resolveCmd.Flags().StringVar(&resolveSide, "side", "call", "contract side (call|put)")
	resolveCmd.Flags().Float64Var(&resolvePrice, "price", 0, "reference price (default: underlying's last trade)")
	resolveCmd.MarkFlagRequired("ticker")
	resolveCmd.MarkFlagRequired("expiration")
}

func runResolve(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		return err
	}

	ticker := strings.ToUpper(strings.TrimSpace(resolveTicker))
	expiration, err := time.Parse("2006-01-02", resolveExpiration)
	if err != nil {
		return fmt.Errorf("bad expiration %q: %w", resolveExpiration, err)
	}

	side := occ.Side(strings.ToLower(resolveSide))
	if side != occ.Call && side != occ.Put {
		return fmt.Errorf("bad side %q: want call or put", resolveSide)
	}

	ctx := cmd.Context()
	client := market.NewClient(cfg.PolygonAPIKey)

	reference := resolvePrice
	if reference == 0 {
		snap, err := client.UnderlyingSnapshot(ctx, ticker)
		if err != nil {
			return fmt.Errorf("fetching underlying %s: %w", ticker, err)
		}
		reference = snap.Price()
	}

	res, err := resolve.NewResolver(client).Nearest(ctx, ticker, expiration, side, reference)
	if err != nil {
		return err
	}

	fmt.Printf("%s\n", res.Symbol)
	fmt.Printf("  underlying %.2f  strike %.2f  (%d strikes listed)\n", reference, res.Contract.Strike, len(res.Strikes))
	return nil
}
