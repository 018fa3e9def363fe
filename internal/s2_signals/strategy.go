package s2_signals

import (
	"math"

	"github.com/wonny/dahai/internal/contracts"
)

// Strategy is one named screening rule.
// Evaluate is pure: it reads the series and the shared indicator set and
// declines (false) instead of failing when its preconditions are unmet.
type Strategy interface {
	ID() string
	Name() string
	Guide() string
	MinBars() int
	Evaluate(series *contracts.TimeSeries, ind *contracts.IndicatorSet) (contracts.Verdict, bool)
}

// Reject gates shared by every strategy
const (
	RejectShortHistory = "short_history"
	RejectOutOfBand    = "out_of_band"
)

// meta carries the identity, history floor and price band of a strategy
type meta struct {
	id       string
	name     string
	guide    string
	minBars  int
	priceMin float64
	priceMax float64
}

func (m meta) ID() string    { return m.id }
func (m meta) Name() string  { return m.name }
func (m meta) Guide() string { return m.guide }
func (m meta) MinBars() int  { return m.minBars }

// admit checks history length and the family price band on the last close.
// Every Evaluate calls it before touching any indicator.
func (m meta) admit(s *contracts.TimeSeries) string {
	if s.Len() < m.minBars || s.Len() < 2 {
		return RejectShortHistory
	}
	c := s.Last().Close
	if m.priceMin > 0 && c < m.priceMin {
		return RejectOutOfBand
	}
	if m.priceMax > 0 && c > m.priceMax {
		return RejectOutOfBand
	}
	return ""
}

func fire(label string) (contracts.Verdict, bool) {
	return contracts.Verdict{Side: contracts.SideBuy, Label: label}, true
}

func warn(label string) (contracts.Verdict, bool) {
	return contracts.Verdict{Side: contracts.SideSell, Label: label}, true
}

func decline(gate string) (contracts.Verdict, bool) {
	return contracts.Verdict{Reject: gate}, false
}

func miss() (contracts.Verdict, bool) {
	return contracts.Verdict{}, false
}

// at reads an indicator k bars back from the last bar
func at(series []float64, k int) float64 {
	return contracts.At(series, k)
}

var valid = contracts.Valid

// volume average over bars [k0, k1) counted back from the last bar (k=0 is today)
func meanVolume(s *contracts.TimeSeries, k0, k1 int) float64 {
	if k1 > s.Len() || k0 >= k1 {
		return math.NaN()
	}
	sum := 0.0
	for k := k0; k < k1; k++ {
		sum += s.Back(k).Volume
	}
	return sum / float64(k1-k0)
}

func maxHigh(s *contracts.TimeSeries, k0, k1 int) float64 {
	if k1 > s.Len() || k0 >= k1 {
		return math.NaN()
	}
	m := s.Back(k0).High
	for k := k0 + 1; k < k1; k++ {
		m = math.Max(m, s.Back(k).High)
	}
	return m
}

func minLow(s *contracts.TimeSeries, k0, k1 int) float64 {
	if k1 > s.Len() || k0 >= k1 {
		return math.NaN()
	}
	m := s.Back(k0).Low
	for k := k0 + 1; k < k1; k++ {
		m = math.Min(m, s.Back(k).Low)
	}
	return m
}

func minClose(s *contracts.TimeSeries, k0, k1 int) float64 {
	if k1 > s.Len() || k0 >= k1 {
		return math.NaN()
	}
	m := s.Back(k0).Close
	for k := k0 + 1; k < k1; k++ {
		m = math.Min(m, s.Back(k).Close)
	}
	return m
}

func min3(a, b, c float64) float64 { return math.Min(a, math.Min(b, c)) }
func max3(a, b, c float64) float64 { return math.Max(a, math.Max(b, c)) }
