package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/vamsirch/flowtrend-scanner/internal/flow"
	"github.com/vamsirch/flowtrend-scanner/internal/market"
	"github.com/vamsirch/flowtrend-scanner/internal/metrics"
	"github.com/vamsirch/flowtrend-scanner/internal/resolve"
	"github.com/vamsirch/flowtrend-scanner/internal/scan"
	"github.com/vamsirch/flowtrend-scanner/internal/ui"
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Run the whale flow dashboard",
	Long: `Starts the terminal dashboard: backfills today's significant flow for
the watchlist, then streams live option trades and surfaces whales.

Keys: s start feed, x stop feed, Tab inspector, q quit.

Example:
  scanner scan
  scanner scan --no-start`,
	RunE: runScan,
}

var noStart bool

func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().BoolVar(&noStart, "no-start", false, "open the dashboard without starting the feed")
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		return err
	}

	slog.Info("config_loaded",
		"watchlist", len(cfg.Watchlist),
		"threshold", cfg.NotionalThreshold,
		"buffer_capacity", cfg.BufferCapacity,
		"backfill_limit", cfg.BackfillLimit,
		"api_key", cfg.MaskedAPIKey(),
	)

	client := market.NewClient(cfg.PolygonAPIKey)
	buffer := flow.NewBuffer(cfg.BufferCapacity)
	tracker := metrics.NewTracker()

	controller := scan.NewController(scan.Options{
		APIKey:        cfg.PolygonAPIKey,
		Watchlist:     cfg.Watchlist,
		Threshold:     cfg.NotionalThreshold,
		BackfillLimit: cfg.BackfillLimit,
		Buffer:        buffer,
		Tracker:       tracker,
		Source:        client,
		NewStream: func() scan.TradeStream {
			s := market.NewStream(cfg.StreamURL, cfg.PolygonAPIKey)
			s.SetStatusFunc(tracker.SetStreamStatus)
			return s
		},
	})

	inspector := ui.NewInspectorView(resolve.NewResolver(client), client)
	app := ui.NewApp(controller, buffer, tracker, inspector, cfg.UIRefreshRate)

	if !noStart {
		go func() {
			if _, err := controller.Start(cmd.Context()); err != nil {
				slog.Error("feed_start_failed", "error", err)
			}
		}()
	}

	return app.Run()
}
