package contracts

import "time"

// Side distinguishes entry signals from exit warnings
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// Verdict is what a strategy returns. When it does not fire, Reject may name
// the gate that declined (tallied per run, never persisted).
type Verdict struct {
	Side   Side   `json:"side"`
	Label  string `json:"label,omitempty"` // sub-type, e.g. "breakout_retest"
	Reject string `json:"-"`
}

// StrategySignal is one strategy hit on one symbol for one date
// ⭐ SSOT: S2 → S3 신호 전달, (code, strategy_id, date) 唯一
type StrategySignal struct {
	Code       string    `json:"code"`
	Name       string    `json:"name"`
	StrategyID string    `json:"strategy_id"`
	Date       time.Time `json:"date"`
	Price      float64   `json:"price"`
	PctChg     float64   `json:"pct_chg"`
	Side       Side      `json:"side"`
	Label      string    `json:"label,omitempty"`
}

// Key returns the unique identity of the signal
func (s StrategySignal) Key() string {
	return s.Code + "|" + s.StrategyID + "|" + s.Date.Format("20060102")
}

// IsBuy reports whether the signal is an entry signal
func (s StrategySignal) IsBuy() bool {
	return s.Side != SideSell
}

// ScanStats is the per-run diagnostic accumulator returned by the scanner
type ScanStats struct {
	Universe     int            `json:"universe"`
	Loaded       int            `json:"loaded"`
	ShortHistory int            `json:"short_history"`
	OutOfBand    int            `json:"out_of_band"`
	Failed       int            `json:"failed"`
	Evaluated    int            `json:"evaluated"`
	Hits         map[string]int `json:"hits"`    // strategy id → signal count
	Rejects      map[string]int `json:"rejects"` // "strategy_id:gate" → count
}

// NewScanStats returns an empty accumulator
func NewScanStats() *ScanStats {
	return &ScanStats{Hits: make(map[string]int), Rejects: make(map[string]int)}
}

// Merge folds another accumulator into s
func (s *ScanStats) Merge(o *ScanStats) {
	s.Universe += o.Universe
	s.Loaded += o.Loaded
	s.ShortHistory += o.ShortHistory
	s.OutOfBand += o.OutOfBand
	s.Failed += o.Failed
	s.Evaluated += o.Evaluated
	for id, n := range o.Hits {
		s.Hits[id] += n
	}
	for key, n := range o.Rejects {
		s.Rejects[key] += n
	}
}

// ScanResult is the fan-in output of the universe scan
type ScanResult struct {
	Date    time.Time          `json:"date"`
	Signals []StrategySignal   `json:"signals"`
	Prices  map[string]float64 `json:"prices"` // today's close for every loaded symbol
	Stats   *ScanStats         `json:"stats"`
}

// BuySignals returns entry-side signals only
func (r *ScanResult) BuySignals() []StrategySignal {
	out := make([]StrategySignal, 0, len(r.Signals))
	for _, s := range r.Signals {
		if s.IsBuy() {
			out = append(out, s)
		}
	}
	return out
}

// ByStrategy groups signals by strategy id, preserving order
func (r *ScanResult) ByStrategy() map[string][]StrategySignal {
	out := make(map[string][]StrategySignal)
	for _, s := range r.Signals {
		out[s.StrategyID] = append(out[s.StrategyID], s)
	}
	return out
}
