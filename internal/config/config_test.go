package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadWatchlistCSV(t *testing.T) {
	got, err := loadWatchlist(" spy, QQQ ,nvda,,QQQ", "")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	want := []string{"SPY", "QQQ", "NVDA"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestLoadWatchlistYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "watchlist.yaml")
	data := "watchlist:\n  - symbol: tsla\n    name: Tesla\n  - symbol: AMD\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := loadWatchlist("", path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(got) != 2 || got[0] != "TSLA" || got[1] != "AMD" {
		t.Fatalf("unexpected watchlist %v", got)
	}
}

func TestLoadWatchlistDefault(t *testing.T) {
	got, err := loadWatchlist("", "")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(got) != len(DefaultWatchlist) {
		t.Fatalf("expected default watchlist, got %v", got)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	base := func() *Config {
		return &Config{
			StreamURL:         "wss://socket.polygon.io/options",
			Watchlist:         []string{"SPY"},
			NotionalThreshold: 50000,
			BufferCapacity:    500,
			BackfillLimit:     250,
		}
	}

	if err := base().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero threshold", func(c *Config) { c.NotionalThreshold = 0 }},
		{"zero capacity", func(c *Config) { c.BufferCapacity = 0 }},
		{"zero backfill limit", func(c *Config) { c.BackfillLimit = 0 }},
		{"empty watchlist", func(c *Config) { c.Watchlist = nil }},
		{"empty stream url", func(c *Config) { c.StreamURL = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestMaskSecret(t *testing.T) {
	if got := maskSecret(""); got != "(not set)" {
		t.Errorf("empty secret: got %q", got)
	}
	if got := maskSecret("short"); got != "****" {
		t.Errorf("short secret: got %q", got)
	}
	if got := maskSecret("abcd1234efgh5678"); got != "abcd...5678" {
		t.Errorf("long secret: got %q", got)
	}
}
