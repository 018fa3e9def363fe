package contracts

import "math"

// IndicatorSet holds per-bar derived series aligned 1:1 with TimeSeries.Bars.
// Values inside an indicator's warm-up window are NaN.
// ⭐ SSOT: 종목당 1회 계산, 모든 전략이 읽기 전용으로 공유
type IndicatorSet struct {
	MA5   []float64
	MA10  []float64
	MA20  []float64
	MA34  []float64
	MA60  []float64
	MA120 []float64
	MA250 []float64

	EMA12 []float64
	EMA26 []float64
	Diff  []float64 // EMA12 - EMA26
	DEA   []float64 // EMA(Diff, 9)
	Hist  []float64 // 2 × (Diff - DEA)

	RSI6 []float64
	KDJK []float64

	VolMA5     []float64 // includes today
	VolMA5Prev []float64 // previous 5 bars, excluding today
	VolMA20    []float64
	VolRatio   []float64 // volume / VolMA5Prev
}

// At returns series[len-1-back], NaN when out of range.
// Strategies read indicators only through At so short series never index past the start.
func At(series []float64, back int) float64 {
	i := len(series) - 1 - back
	if i < 0 || i >= len(series) {
		return math.NaN()
	}
	return series[i]
}

// Valid reports whether every value is a defined number
func Valid(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
