package market

import "testing"

func TestTopByVolumeOrdersDescending(t *testing.T) {
	contracts := []ContractDay{
		{Symbol: "O:SPY240621C00500000", DayVolume: 100},
		{Symbol: "O:SPY240621C00510000", DayVolume: 900},
		{Symbol: "O:SPY240621P00500000", DayVolume: 400},
	}

	got := topByVolume(contracts, 10)
	if len(got) != 3 {
		t.Fatalf("expected 3 contracts, got %d", len(got))
	}
	if got[0].DayVolume != 900 || got[1].DayVolume != 400 || got[2].DayVolume != 100 {
		t.Errorf("unexpected order: %v %v %v", got[0].DayVolume, got[1].DayVolume, got[2].DayVolume)
	}
}

func TestTopByVolumeTruncatesToLimit(t *testing.T) {
	contracts := []ContractDay{
		{DayVolume: 1}, {DayVolume: 5}, {DayVolume: 3}, {DayVolume: 4},
	}

	got := topByVolume(contracts, 2)
	if len(got) != 2 {
		t.Fatalf("expected 2 contracts, got %d", len(got))
	}
	if got[0].DayVolume != 5 || got[1].DayVolume != 4 {
		t.Errorf("expected the two most active, got %v %v", got[0].DayVolume, got[1].DayVolume)
	}
}

func TestTopByVolumeEmpty(t *testing.T) {
	if got := topByVolume(nil, 5); len(got) != 0 {
		t.Errorf("expected empty result, got %v", got)
	}
}
