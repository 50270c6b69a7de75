package resolve

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vamsirch/flowtrend-scanner/internal/occ"
)

type fakeStrikes struct {
	strikes []float64
	err     error
}

func (f *fakeStrikes) ListStrikes(context.Context, string, time.Time, occ.Side, int) ([]float64, error) {
	return f.strikes, f.err
}

var expiry = time.Date(2024, 6, 21, 0, 0, 0, 0, time.UTC)

func TestNearestPicksClosestStrike(t *testing.T) {
	r := NewResolver(&fakeStrikes{strikes: []float64{100, 105, 110}})

	res, err := r.Nearest(context.Background(), "SPY", expiry, occ.Call, 104)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if res.Contract.Strike != 105 {
		t.Errorf("expected strike 105, got %v", res.Contract.Strike)
	}
	if res.Symbol != "O:SPY240621C00105000" {
		t.Errorf("unexpected symbol %s", res.Symbol)
	}
}

func TestNearestBetweenStrikes(t *testing.T) {
	r := NewResolver(&fakeStrikes{strikes: []float64{100, 105, 110}})

	// 105 is 2 away, 110 is 3 away
	res, err := r.Nearest(context.Background(), "SPY", expiry, occ.Call, 107)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if res.Contract.Strike != 105 {
		t.Errorf("expected strike 105, got %v", res.Contract.Strike)
	}
}

func TestNearestTieGoesToLowerStrike(t *testing.T) {
	r := NewResolver(&fakeStrikes{strikes: []float64{100, 105, 110}})

	res, err := r.Nearest(context.Background(), "SPY", expiry, occ.Call, 107.5)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if res.Contract.Strike != 105 {
		t.Errorf("expected tie to break low, got %v", res.Contract.Strike)
	}
}

func TestNearestDedupesAndSorts(t *testing.T) {
	r := NewResolver(&fakeStrikes{strikes: []float64{110, 100, 105, 100, 110}})

	res, err := r.Nearest(context.Background(), "AAPL", expiry, occ.Put, 99)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	want := []float64{100, 105, 110}
	if len(res.Strikes) != len(want) {
		t.Fatalf("expected %v, got %v", want, res.Strikes)
	}
	for i := range want {
		if res.Strikes[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, res.Strikes)
		}
	}
	if res.Contract.Strike != 100 {
		t.Errorf("expected strike 100, got %v", res.Contract.Strike)
	}
}

func TestNearestEmptyChain(t *testing.T) {
	r := NewResolver(&fakeStrikes{})

	_, err := r.Nearest(context.Background(), "SPY", expiry, occ.Call, 500)
	if !errors.Is(err, ErrNoContracts) {
		t.Fatalf("expected ErrNoContracts, got %v", err)
	}
}

func TestNearestSourceError(t *testing.T) {
	srcErr := errors.New("rate limited")
	r := NewResolver(&fakeStrikes{err: srcErr})

	_, err := r.Nearest(context.Background(), "SPY", expiry, occ.Call, 500)
	if !errors.Is(err, srcErr) {
		t.Fatalf("expected wrapped source error, got %v", err)
	}
}

func TestNearestFractionalStrike(t *testing.T) {
	r := NewResolver(&fakeStrikes{strikes: []float64{107, 107.5, 108}})

	res, err := r.Nearest(context.Background(), "QQQ", expiry, occ.Put, 107.6)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if res.Contract.Strike != 107.5 {
		t.Errorf("expected 107.5, got %v", res.Contract.Strike)
	}
	if res.Symbol != "O:QQQ240621P00107500" {
		t.Errorf("unexpected symbol %s", res.Symbol)
	}
}
