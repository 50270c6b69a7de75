package occ

import (
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	c, err := Parse("O:SPY240621C00500000")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if c.Underlying != "SPY" {
		t.Errorf("expected underlying SPY, got %s", c.Underlying)
	}
	if c.Side != Call {
		t.Errorf("expected call, got %s", c.Side)
	}
	if c.Strike != 500 {
		t.Errorf("expected strike 500, got %v", c.Strike)
	}
	want := time.Date(2024, 6, 21, 0, 0, 0, 0, time.UTC)
	if !c.Expiration.Equal(want) {
		t.Errorf("expected expiration %v, got %v", want, c.Expiration)
	}
}

func TestParseWithoutPrefix(t *testing.T) {
	c, err := Parse("AAPL231215P00150000")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if c.Underlying != "AAPL" || c.Side != Put || c.Strike != 150 {
		t.Errorf("unexpected contract: %+v", c)
	}
}

func TestParseFractionalStrike(t *testing.T) {
	c, err := Parse("O:QQQ250117C00107500")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if c.Strike != 107.5 {
		t.Errorf("expected strike 107.5, got %v", c.Strike)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	cases := []string{
		"",
		"SPY",
		"O:SPY240621X00500000",  // bad side marker
		"O:SPY24ab21C00500000",  // bad date
		"O:spy240621C00500000",  // lowercase underlying
		"O:240621C00500000",     // no underlying
		"O:SPY240621C0050000x",  // bad strike
	}
	for _, sym := range cases {
		if _, err := Parse(sym); err == nil {
			t.Errorf("expected error for %q", sym)
		}
	}
}

func TestBuild(t *testing.T) {
	exp := time.Date(2024, 6, 21, 0, 0, 0, 0, time.UTC)
	got := Build("SPY", exp, Call, 500)
	if got != "O:SPY240621C00500000" {
		t.Errorf("unexpected symbol: %s", got)
	}

	got = Build("qqq", exp, Put, 107.5)
	if got != "O:QQQ240621P00107500" {
		t.Errorf("unexpected symbol: %s", got)
	}
}

func TestBuildParseRoundTrip(t *testing.T) {
	exp := time.Date(2025, 1, 17, 0, 0, 0, 0, time.UTC)
	sym := Build("NVDA", exp, Call, 832.5)
	c, err := Parse(sym)
	if err != nil {
		t.Fatalf("Parse failed for %s: %v", sym, err)
	}
	if c.Underlying != "NVDA" || c.Side != Call || c.Strike != 832.5 || !c.Expiration.Equal(exp) {
		t.Errorf("round trip mismatch: %+v", c)
	}
}
