package indicator

import (
	"github.com/wonny/dahai/internal/contracts"
)

// MACD returns diff = EMA(fast) - EMA(slow), dea = EMA(diff, signal) and hist = 2×(diff - dea)
func MACD(closes []float64, fast, slow, signal int) (diff, dea, hist []float64) {
	emaFast := EMA(closes, fast)
	emaSlow := EMA(closes, slow)

	diff = make([]float64, len(closes))
	for i := range closes {
		diff[i] = emaFast[i] - emaSlow[i]
	}
	dea = EMA(diff, signal)

	hist = make([]float64, len(closes))
	for i := range closes {
		hist[i] = 2 * (diff[i] - dea[i])
	}
	return diff, dea, hist
}

// Compute derives the full indicator set for one symbol.
// Pure: short series produce NaN warm-up values, never an error.
// ⭐ SSOT: 指标只在这里计算一次, 策略只读
func Compute(series *contracts.TimeSeries) *contracts.IndicatorSet {
	closes := series.Closes()
	highs := series.Highs()
	lows := series.Lows()
	volumes := series.Volumes()

	set := &contracts.IndicatorSet{
		MA5:   SMA(closes, 5),
		MA10:  SMA(closes, 10),
		MA20:  SMA(closes, 20),
		MA34:  SMA(closes, 34),
		MA60:  SMA(closes, 60),
		MA120: SMA(closes, 120),
		MA250: SMA(closes, 250),

		EMA12: EMA(closes, 12),
		EMA26: EMA(closes, 26),

		RSI6: RSI(closes, 6),
		KDJK: KDJK(highs, lows, closes, 9, 2),

		VolMA5:  SMA(volumes, 5),
		VolMA20: SMA(volumes, 20),
	}

	set.Diff, set.DEA, set.Hist = MACD(closes, 12, 26, 9)
	set.VolMA5Prev = Shift(set.VolMA5, 1)
	set.VolRatio = Ratio(volumes, set.VolMA5Prev)

	return set
}
