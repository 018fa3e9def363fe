package contracts

import (
	"encoding/json"
	"testing"
)

func TestStrategySignal_Key(t *testing.T) {
	a := StrategySignal{Code: "600000", StrategyID: "one_sun", Date: day(8)}
	b := StrategySignal{Code: "600000", StrategyID: "one_sun", Date: day(8), Price: 12, Label: "x"}
	c := StrategySignal{Code: "600000", StrategyID: "golden_pit", Date: day(8)}

	if a.Key() != b.Key() {
		t.Errorf("Key() differs for the same (code, strategy, date): %s vs %s", a.Key(), b.Key())
	}
	if a.Key() == c.Key() {
		t.Errorf("Key() collides across strategies: %s", a.Key())
	}
	if a.Key() != "600000|one_sun|20240308" {
		t.Errorf("Key() = %s", a.Key())
	}
}

func TestScanResult_BuySignals(t *testing.T) {
	r := &ScanResult{Signals: []StrategySignal{
		{Code: "600000", StrategyID: "macd_divergence", Side: SideSell},
		{Code: "600000", StrategyID: "one_sun", Side: SideBuy},
		{Code: "000001", StrategyID: "golden_pit"}, // zero side counts as buy
	}}

	buys := r.BuySignals()
	if len(buys) != 2 {
		t.Fatalf("BuySignals() = %d signals, want 2", len(buys))
	}
	if buys[0].StrategyID != "one_sun" || buys[1].StrategyID != "golden_pit" {
		t.Errorf("BuySignals() order = %s, %s", buys[0].StrategyID, buys[1].StrategyID)
	}

	groups := r.ByStrategy()
	if len(groups["one_sun"]) != 1 || len(groups["macd_divergence"]) != 1 {
		t.Errorf("ByStrategy() = %v", groups)
	}
}

func TestScanStats_Merge(t *testing.T) {
	total := NewScanStats()

	a := NewScanStats()
	a.Loaded, a.Evaluated = 3, 2
	a.Hits["one_sun"] = 1
	a.Rejects["one_sun:out_of_band"] = 1

	b := NewScanStats()
	b.Loaded, b.Failed = 1, 1
	b.Hits["one_sun"] = 2
	b.Hits["golden_pit"] = 1

	total.Merge(a)
	total.Merge(b)

	if total.Loaded != 4 || total.Evaluated != 2 || total.Failed != 1 {
		t.Errorf("counters = loaded %d evaluated %d failed %d", total.Loaded, total.Evaluated, total.Failed)
	}
	if total.Hits["one_sun"] != 3 || total.Hits["golden_pit"] != 1 {
		t.Errorf("Hits = %v", total.Hits)
	}
	if total.Rejects["one_sun:out_of_band"] != 1 {
		t.Errorf("Rejects = %v", total.Rejects)
	}
}

func TestTierOf(t *testing.T) {
	tests := []struct {
		count int
		want  Tier
	}{
		{5, TierCore},
		{3, TierCore},
		{2, TierWatch},
		{1, TierNone},
		{0, TierNone},
	}

	for _, tt := range tests {
		if got := TierOf(tt.count); got != tt.want {
			t.Errorf("TierOf(%d) = %q, want %q", tt.count, got, tt.want)
		}
	}
}

func TestVerdict_RejectNotSerialized(t *testing.T) {
	data, err := json.Marshal(Verdict{Side: SideBuy, Reject: "short_history"})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(data) != `{"side":"buy"}` {
		t.Errorf("Marshal() = %s", data)
	}
}

func TestStage_ShortName(t *testing.T) {
	want := []string{"S0", "S1", "S2", "S3", "S4"}
	for i, stage := range AllStages() {
		if got := stage.ShortName(); got != want[i] {
			t.Errorf("%s.ShortName() = %s, want %s", stage, got, want[i])
		}
		if !IsValidStage(string(stage)) {
			t.Errorf("IsValidStage(%s) = false", stage)
		}
	}
	if IsValidStage("S9_UNKNOWN") {
		t.Error("IsValidStage accepted an unknown stage")
	}
}
