package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/vamsirch/flowtrend-scanner/internal/market"
)

func TestFormatNotional(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{450, "$450"},
		{52000, "$52K"},
		{1234567, "$1.2M"},
		{10000000, "$10.0M"},
	}
	for _, tc := range cases {
		if got := formatNotional(tc.in); got != tc.want {
			t.Errorf("formatNotional(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSparklineShape(t *testing.T) {
	base := time.Now()
	bars := []market.Bar{
		{Timestamp: base, Close: 1.0},
		{Timestamp: base.Add(time.Minute), Close: 2.0},
		{Timestamp: base.Add(2 * time.Minute), Close: 3.0},
	}

	s := sparkline(bars, 60)
	if !strings.HasSuffix(s, "1.00-3.00") {
		t.Errorf("expected range suffix, got %q", s)
	}

	runes := []rune(strings.Fields(s)[0])
	if len(runes) != 3 {
		t.Fatalf("expected 3 chart runes, got %d in %q", len(runes), s)
	}
	// monotone closes render monotone blocks
	if runes[0] >= runes[1] || runes[1] >= runes[2] {
		t.Errorf("expected rising blocks, got %q", string(runes))
	}
}

func TestSparklineFlatSeries(t *testing.T) {
	bars := []market.Bar{{Close: 5}, {Close: 5}, {Close: 5}}
	s := sparkline(bars, 60)
	if !strings.HasPrefix(s, "▁▁▁") {
		t.Errorf("flat series should render the low block, got %q", s)
	}
}

func TestSparklineTruncatesToWidth(t *testing.T) {
	bars := make([]market.Bar, 100)
	for i := range bars {
		bars[i].Close = float64(i)
	}
	s := sparkline(bars, 10)
	runes := []rune(strings.Fields(s)[0])
	if len(runes) != 10 {
		t.Errorf("expected 10 chart runes, got %d", len(runes))
	}
}
