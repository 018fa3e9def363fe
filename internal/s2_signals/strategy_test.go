package s2_signals

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/dahai/internal/contracts"
	"github.com/wonny/dahai/internal/indicator"
	"github.com/wonny/dahai/internal/s1_universe"
)

func TestStrategies_ShortSeriesDecline(t *testing.T) {
	r := defaultRegistry(t)

	for _, n := range []int{2, 10, 19} {
		series := flatSeries(n, 10, 1000)
		ind := indicator.Compute(series)
		for _, s := range r.All() {
			assert.NotPanics(t, func() {
				v, fired := s.Evaluate(series, ind)
				assert.False(t, fired, "%s fired on %d bars", s.ID(), n)
				assert.Equal(t, RejectShortHistory, v.Reject, s.ID())
			})
		}
	}
}

func TestStrategies_NeverFireOnUndefinedIndicators(t *testing.T) {
	r := defaultRegistry(t)
	series := flatSeries(260, 10, 1000)
	ind := blankIndicators(series.Len())

	for _, s := range r.All() {
		_, fired := s.Evaluate(series, ind)
		if fired {
			// rules that read only raw bars may still fire
			switch s.ID() {
			case "single_yang", "limit_pullback", "limit_break", "double_plate", "hot_money", "chase_rise":
				continue
			}
			t.Errorf("%s fired with undefined indicators", s.ID())
		}
	}
}

// volumeJumpSeries is n-1 flat bars at 10.0 then a jump bar to 12.0 with the given volume
func volumeJumpSeries(n int, volume float64) *contracts.TimeSeries {
	series := flatSeries(n, 10, 1000)
	for i := range series.Bars {
		series.Bars[i].Turnover = 5
	}
	jump := &series.Bars[n-1]
	jump.Close, jump.High, jump.Low = 12, 12.1, 9.9
	jump.PctChg = 20
	jump.Volume = volume
	return series
}

// 59 flat bars at 10.0, then the jump bar at 12.0 on unchanged volume
func TestStrategies_FlatVolumeJump(t *testing.T) {
	series := volumeJumpSeries(60, 1000)
	jump := series.Last()

	ind := indicator.Compute(series)
	r := defaultRegistry(t)

	for _, id := range []string{"trend_select", "willow_pull"} {
		s, ok := r.Lookup(id)
		require.True(t, ok)
		v, fired := s.Evaluate(series, ind)
		assert.False(t, fired, id)
		assert.Empty(t, v.Reject, id)
	}
	for _, id := range []string{"one_sun", "three_in_one", "hot_money"} {
		s, ok := r.Lookup(id)
		require.True(t, ok)
		v, fired := s.Evaluate(series, ind)
		assert.False(t, fired, id)
		assert.Equal(t, RejectShortHistory, v.Reject, id)
	}

	duck, _ := r.Lookup("duck_hunter")
	v, fired := duck.Evaluate(series, ind)
	if fired {
		assert.NotEqual(t, "volume_surge", v.Label)
	}

	trend, _ := r.Lookup("trend_select")
	v, _ = trend.Evaluate(series, ind)
	assert.Empty(t, v.Reject, "band 5-20 admits 12.0")

	filter, err := s1_universe.NewBuilder(s1_universe.Config{PriceMin: 5, PriceMax: 20})
	require.NoError(t, err)
	assert.Empty(t, filter.CheckPrice(jump.Close))
}

func TestMACDDivergence(t *testing.T) {
	cfg := defaultConfig(t).Strategies.MACDDivergence
	s := newMACDDivergence(cfg)
	series := flatSeries(40, 10, 1000)

	tests := []struct {
		name  string
		tail  []float64
		peak  float64
		fired bool
		side  contracts.Side
		label string
	}{
		{name: "shrinking green", tail: []float64{-0.15, -0.1, -0.05}, peak: -1, fired: true, side: contracts.SideBuy, label: LabelMACDBuy},
		{name: "shrinking red", tail: []float64{0.15, 0.1, 0.05}, peak: 1, fired: true, side: contracts.SideSell, label: LabelMACDSell},
		{name: "expanding green", tail: []float64{-0.05, -0.1, -0.15}, peak: -1},
		{name: "mixed sign", tail: []float64{-0.1, -0.05, 0.01}, peak: -1},
		{name: "still large", tail: []float64{-0.9, -0.6, -0.3}, peak: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ind := blankIndicators(series.Len())
			fill(ind.Hist, tt.peak)
			copy(ind.Hist[len(ind.Hist)-3:], tt.tail)

			v, fired := s.Evaluate(series, ind)
			assert.Equal(t, tt.fired, fired)
			if tt.fired {
				assert.Equal(t, tt.side, v.Side)
				assert.Equal(t, tt.label, v.Label)
			}
		})
	}
}

func TestMACDDivergence_OutOfBand(t *testing.T) {
	s := newMACDDivergence(defaultConfig(t).Strategies.MACDDivergence)
	series := flatSeries(40, 25, 1000)

	v, fired := s.Evaluate(series, blankIndicators(series.Len()))
	assert.False(t, fired)
	assert.Equal(t, RejectOutOfBand, v.Reject)
}

func TestGoldenPit(t *testing.T) {
	s := newGoldenPit(defaultConfig(t).Strategies.GoldenPit)

	series := flatSeries(40, 10.2, 1000)
	for i := range series.Bars {
		series.Bars[i].Low = 10
	}
	last := &series.Bars[39]
	last.Open, last.Close, last.High, last.Low = 10.5, 11, 11.1, 10.4

	ind := blankIndicators(series.Len())
	fill(ind.VolMA20, 1000)

	v, fired := s.Evaluate(series, ind)
	require.True(t, fired)
	assert.Equal(t, "rebound 10.00%", v.Label)

	// bearish candle
	last.Open = 11.2
	_, fired = s.Evaluate(series, ind)
	assert.False(t, fired)
}

func TestYangjiaLowBuy_UptrendPullback(t *testing.T) {
	s := newYangjiaLowBuy(defaultConfig(t).Strategies.YangjiaLowBuy)

	series := flatSeries(60, 10, 1000)
	last := &series.Bars[59]
	last.Low, last.Volume = 9.9, 500

	ind := blankIndicators(series.Len())
	fill(ind.MA10, 9.95)
	for i := range ind.MA20 {
		ind.MA20[i] = 9.9 - float64(59-i)*0.01
	}

	v, fired := s.Evaluate(series, ind)
	require.True(t, fired)
	assert.Equal(t, LabelUptrendPullback, v.Label)

	// volume no longer shrinking
	last.Volume = 1000
	_, fired = s.Evaluate(series, ind)
	assert.False(t, fired)
}

func TestYangjiaLowBuy_BreakoutRetest(t *testing.T) {
	s := newYangjiaLowBuy(defaultConfig(t).Strategies.YangjiaLowBuy)

	series := flatSeries(60, 10, 1000)
	last := &series.Bars[59]
	last.Close, last.High, last.Volume = 10.3, 10.4, 500

	v, fired := s.Evaluate(series, blankIndicators(series.Len()))
	require.True(t, fired)
	assert.Equal(t, LabelBreakoutRetest, v.Label)
}

func yinSeries() (*contracts.TimeSeries, *contracts.IndicatorSet) {
	series := flatSeries(60, 20, 10_000_000)
	last := &series.Bars[59]
	last.Open, last.Close, last.High, last.Low = 20.5, 20, 20.6, 18.9

	ind := blankIndicators(series.Len())
	fill(ind.MA60, 15)
	fill(ind.MA20, 18)
	fill(ind.MA10, 19)
	fill(ind.MA5, 19)
	fill(ind.VolMA5Prev, 20_000_000)
	return series, ind
}

func TestYinLine(t *testing.T) {
	s := newYinLine(defaultConfig(t).Strategies.YinLine)

	series, ind := yinSeries()
	v, fired := s.Evaluate(series, ind)
	require.True(t, fired)
	assert.Equal(t, "shrink_pullback+retest_ma5", v.Label)

	// liquidity is close × volume; the amount column is not read
	series.Bars[59].Amount = 0
	_, fired = s.Evaluate(series, ind)
	assert.True(t, fired)
}

func TestYinLine_Gates(t *testing.T) {
	s := newYinLine(defaultConfig(t).Strategies.YinLine)

	tests := []struct {
		name   string
		mutate func(*contracts.TimeSeries, *contracts.IndicatorSet)
		reject string
	}{
		{name: "below ma60", mutate: func(_ *contracts.TimeSeries, ind *contracts.IndicatorSet) { fill(ind.MA60, 25) }, reject: RejectYinTrend},
		{name: "ma20 falling", mutate: func(_ *contracts.TimeSeries, ind *contracts.IndicatorSet) { ind.MA20[59] = 17 }, reject: RejectYinTrend},
		{name: "thin amount", mutate: func(s *contracts.TimeSeries, _ *contracts.IndicatorSet) { s.Bars[59].Volume = 1000 }, reject: RejectYinAmount},
		{name: "bullish candle", mutate: func(s *contracts.TimeSeries, _ *contracts.IndicatorSet) { s.Bars[59].Open = 19.5 }, reject: RejectYinPattern},
		{name: "no pattern", mutate: func(s *contracts.TimeSeries, ind *contracts.IndicatorSet) {
			s.Bars[59].Low = 19.5
			fill(ind.VolMA5Prev, 10_000_000)
		}, reject: RejectYinPattern},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			series, ind := yinSeries()
			tt.mutate(series, ind)

			v, fired := s.Evaluate(series, ind)
			assert.False(t, fired)
			assert.Equal(t, tt.reject, v.Reject)
		})
	}
}

func TestMildLowBuy_MissingTurnoverDeclines(t *testing.T) {
	s := newMildLowBuy(defaultConfig(t).Strategies.MildLowBuy)

	series := flatSeries(60, 10, 1000)
	ind := blankIndicators(series.Len())
	fill(ind.MA5, 9.9)
	fill(ind.MA60, 12)
	fill(ind.RSI6, 20)
	fill(ind.KDJK, 20)
	fill(ind.VolRatio, 0.8)

	_, fired := s.Evaluate(series, ind)
	assert.False(t, fired)

	for i := range series.Bars {
		series.Bars[i].Turnover = 1.5
	}
	v, fired := s.Evaluate(series, ind)
	require.True(t, fired)
	assert.Equal(t, "rsi6 20.0 k 20.0", v.Label)

	// an undefined oscillator never passes
	ind.RSI6[59] = math.NaN()
	_, fired = s.Evaluate(series, ind)
	assert.False(t, fired)
}

func TestSupportRetest(t *testing.T) {
	s := newSupportRetest(defaultConfig(t).Strategies.SupportRetest)

	series := flatSeries(30, 11, 1000)
	last := &series.Bars[29]
	last.Close, last.Low, last.Volume = 10.1, 10.05, 800

	ind := blankIndicators(series.Len())
	fill(ind.MA20, 10)
	fill(ind.VolMA5Prev, 1000)

	_, fired := s.Evaluate(series, ind)
	assert.True(t, fired)

	// closed below the average
	last.Close = 9.95
	_, fired = s.Evaluate(series, ind)
	assert.False(t, fired)
}

func TestCatalogRules(t *testing.T) {
	cat := defaultConfig(t).Strategies.Catalog

	tests := []struct {
		name  string
		check func() bool
		want  bool
	}{
		{name: "hot money doubles volume", want: true, check: func() bool {
			s := flatSeries(260, 10, 1000)
			s.Bars[259].Volume = 2001
			return hotMoney(cat, s, nil)
		}},
		{name: "hot money exact double", want: false, check: func() bool {
			s := flatSeries(260, 10, 1000)
			s.Bars[259].Volume = 2000
			return hotMoney(cat, s, nil)
		}},
		{name: "limit break", want: true, check: func() bool {
			s := flatSeries(260, 10, 1000)
			s.Bars[257].PctChg = 10
			s.Bars[259].Close = 10.2
			return limitBreak(cat, s, nil)
		}},
		{name: "double plate", want: true, check: func() bool {
			s := flatSeries(260, 10, 1000)
			s.Bars[257].PctChg, s.Bars[258].PctChg, s.Bars[259].PctChg = 6, -1, 4
			return doublePlate(cat, s, nil)
		}},
		{name: "chase rise at 20-day high", want: true, check: func() bool {
			s := flatSeries(260, 10, 1000)
			s.Bars[259].Close = 10.1
			return chaseRise(cat, s, nil)
		}},
		{name: "single yang holds its low", want: true, check: func() bool {
			s := flatSeries(260, 10, 1000)
			s.Bars[255].PctChg, s.Bars[255].Low = 6, 9.8
			return singleYang(cat, s, nil)
		}},
		{name: "single yang broken", want: false, check: func() bool {
			s := flatSeries(260, 10, 1000)
			s.Bars[255].PctChg, s.Bars[255].Low = 6, 10.5
			return singleYang(cat, s, nil)
		}},
		{name: "macd bottom cross below zero", want: true, check: func() bool {
			s := flatSeries(260, 10, 1000)
			ind := blankIndicators(260)
			ind.Diff[258], ind.DEA[258] = -0.5, -0.4
			ind.Diff[259], ind.DEA[259] = -0.3, -0.35
			return macdBottom(cat, s, ind)
		}},
		{name: "no loss near ma250", want: true, check: func() bool {
			s := flatSeries(260, 10, 1000)
			ind := blankIndicators(260)
			fill(ind.MA250, 10.4)
			return noLoss(cat, s, ind)
		}},
		{name: "inst swing needs positive hist", want: false, check: func() bool {
			s := flatSeries(260, 10, 1000)
			ind := blankIndicators(260)
			ind.Hist[258], ind.Hist[259] = -0.3, -0.1
			return instSwing(cat, s, ind)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.check())
		})
	}
}

// with a full year of history the jump reaches the volume gates
func TestStrategies_FlatVolumeJump_FullHistory(t *testing.T) {
	r := defaultRegistry(t)

	tests := []struct {
		name      string
		volume    float64
		wantFired bool
	}{
		{name: "unchanged volume", volume: 1000, wantFired: false},
		{name: "volume at the one sun bound", volume: 1800, wantFired: false},
		{name: "volume surge", volume: 2500, wantFired: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			series := volumeJumpSeries(260, tt.volume)
			ind := indicator.Compute(series)

			for _, id := range []string{"one_sun", "three_in_one", "hot_money"} {
				s, ok := r.Lookup(id)
				require.True(t, ok)
				v, fired := s.Evaluate(series, ind)
				assert.Equal(t, tt.wantFired, fired, id)
				assert.Empty(t, v.Reject, id)
			}
		})
	}
}

func TestOneSun(t *testing.T) {
	s := newOneSun(defaultConfig(t).Strategies.OneSun)

	fixture := func() (*contracts.TimeSeries, *contracts.IndicatorSet) {
		series := flatSeries(200, 10, 1000)
		last := &series.Bars[199]
		last.Open, last.Close, last.High, last.Low = 9.5, 10.6, 10.7, 9.4
		last.PctChg, last.Volume, last.Turnover = 6, 2000, 5

		ind := blankIndicators(series.Len())
		fill(ind.MA5, 10)
		fill(ind.MA10, 10)
		fill(ind.MA20, 10)
		fill(ind.VolMA5Prev, 1000)
		return series, ind
	}

	runRuleCases(t, s, fixture, []ruleCase{
		{name: "crosses three averages on volume", wantFired: true},
		{name: "volume at the bound", mutate: func(s *contracts.TimeSeries, _ *contracts.IndicatorSet) {
			s.Bars[199].Volume = 1800
		}},
		{name: "turnover at the bound", mutate: func(s *contracts.TimeSeries, _ *contracts.IndicatorSet) {
			s.Bars[199].Turnover = 3
		}},
		{name: "gain too small", mutate: func(s *contracts.TimeSeries, _ *contracts.IndicatorSet) {
			s.Bars[199].PctChg = 4.9
		}},
		{name: "opens above an average", mutate: func(s *contracts.TimeSeries, ind *contracts.IndicatorSet) {
			ind.MA20[199] = 9.4
		}},
		{name: "closes below an average", mutate: func(s *contracts.TimeSeries, ind *contracts.IndicatorSet) {
			ind.MA5[199] = 10.8
		}},
		{name: "missing turnover", mutate: func(s *contracts.TimeSeries, _ *contracts.IndicatorSet) {
			s.Bars[199].Turnover = math.NaN()
		}},
	})
}

func TestTrendSelect(t *testing.T) {
	s := newTrendSelect(defaultConfig(t).Strategies.TrendSelect)

	fixture := func() (*contracts.TimeSeries, *contracts.IndicatorSet) {
		series := flatSeries(30, 10, 1000)
		series.Bars[29].Close, series.Bars[29].Volume = 10.5, 1300

		ind := blankIndicators(series.Len())
		fill(ind.MA5, 10.2)
		fill(ind.MA10, 10)
		fill(ind.VolMA5Prev, 1000)
		return series, ind
	}

	runRuleCases(t, s, fixture, []ruleCase{
		{name: "stacked averages with volume", wantFired: true},
		{name: "volume at the bound", mutate: func(s *contracts.TimeSeries, _ *contracts.IndicatorSet) {
			s.Bars[29].Volume = 1200
		}},
		{name: "ma5 under ma10", mutate: func(_ *contracts.TimeSeries, ind *contracts.IndicatorSet) {
			ind.MA5[29] = 9.9
		}},
		{name: "close under ma5", mutate: func(s *contracts.TimeSeries, _ *contracts.IndicatorSet) {
			s.Bars[29].Close = 10.1
		}},
	})
}

func TestDuckHunter(t *testing.T) {
	s := newDuckHunter(defaultConfig(t).Strategies.DuckHunter)

	fixture := func() (*contracts.TimeSeries, *contracts.IndicatorSet) {
		series := flatSeries(30, 10, 1000)
		series.Bars[29].Close = 10.5

		ind := blankIndicators(series.Len())
		fill(ind.MA5, 10.1)
		ind.MA5[29] = 10.2
		fill(ind.MA10, 10)
		fill(ind.VolMA5, 1000)
		return series, ind
	}
	volume := func(v float64) func(*contracts.TimeSeries, *contracts.IndicatorSet) {
		return func(s *contracts.TimeSeries, _ *contracts.IndicatorSet) { s.Bars[29].Volume = v }
	}

	runRuleCases(t, s, fixture, []ruleCase{
		{name: "volume surge", mutate: volume(1300), wantFired: true, wantLabel: "volume_surge"},
		{name: "quiet hold of ma10", mutate: volume(900), wantFired: true, wantLabel: "quiet_support"},
		{name: "average volume counts as quiet", mutate: volume(1000), wantFired: true, wantLabel: "quiet_support"},
		{name: "volume between quiet and surge", mutate: volume(1100)},
		{name: "ma5 flat", mutate: func(s *contracts.TimeSeries, ind *contracts.IndicatorSet) {
			s.Bars[29].Volume = 1300
			ind.MA5[29] = 10.1
		}},
		{name: "close under ma5", mutate: func(s *contracts.TimeSeries, _ *contracts.IndicatorSet) {
			s.Bars[29].Close, s.Bars[29].Volume = 10.15, 1300
		}},
	})
}

func TestWillowPull(t *testing.T) {
	s := newWillowPull(defaultConfig(t).Strategies.WillowPull)

	fixture := func() (*contracts.TimeSeries, *contracts.IndicatorSet) {
		series := flatSeries(40, 10, 1000)
		last := &series.Bars[39]
		last.Open, last.Close, last.High, last.Low = 10.6, 10.3, 10.7, 10.2
		last.PctChg, last.Volume = 3, 2000

		ind := blankIndicators(series.Len())
		fill(ind.MA10, 10)
		return series, ind
	}

	runRuleCases(t, s, fixture, []ruleCase{
		{name: "heavy bearish bar above ma10", wantFired: true},
		{name: "volume at the bound", mutate: func(s *contracts.TimeSeries, _ *contracts.IndicatorSet) {
			s.Bars[39].Volume = 1800
		}},
		{name: "body too small", mutate: func(s *contracts.TimeSeries, _ *contracts.IndicatorSet) {
			s.Bars[39].Open = 10.45
		}},
		{name: "bullish bar", mutate: func(s *contracts.TimeSeries, _ *contracts.IndicatorSet) {
			s.Bars[39].Open, s.Bars[39].Close = 10.3, 10.6
		}},
		{name: "close under ma10", mutate: func(_ *contracts.TimeSeries, ind *contracts.IndicatorSet) {
			ind.MA10[39] = 10.4
		}},
		{name: "falls too far", mutate: func(s *contracts.TimeSeries, _ *contracts.IndicatorSet) {
			s.Bars[39].PctChg = -2.5
		}},
	})
}

// dragonSeries rallies 10 -> 16 over bars 45..55 with three limit-ups, then retraces to 13.6
func dragonSeries() (*contracts.TimeSeries, *contracts.IndicatorSet) {
	series := flatSeries(60, 10, 1000)
	for i := 46; i <= 55; i++ {
		b := &series.Bars[i]
		b.Close = 10 + 0.6*float64(i-45)
		b.Volume = 3000
	}
	series.Bars[45].Volume = 3000
	series.Bars[55].Close = 16
	for _, i := range []int{47, 49, 51} {
		series.Bars[i].PctChg = 10
	}
	for i, c := range []float64{15.2, 14.6, 14, 13.6} {
		series.Bars[56+i].Close = c
	}

	ind := blankIndicators(series.Len())
	fill(ind.MA20, 13)
	return series, ind
}

func TestDragonReturns(t *testing.T) {
	s := newDragonReturns(defaultConfig(t).Strategies.DragonReturns)

	runRuleCases(t, s, dragonSeries, []ruleCase{
		{name: "dry pullback into the retrace band", wantFired: true, wantLabel: "retrace 40%"},
		{name: "retrace too shallow", mutate: func(s *contracts.TimeSeries, _ *contracts.IndicatorSet) {
			s.Bars[59].Close = 15.5
		}},
		{name: "retrace too deep", mutate: func(s *contracts.TimeSeries, ind *contracts.IndicatorSet) {
			s.Bars[59].Close = 12.2
			fill(ind.MA20, 12)
		}},
		{name: "below ma20 floor", mutate: func(_ *contracts.TimeSeries, ind *contracts.IndicatorSet) {
			fill(ind.MA20, 15)
		}},
		{name: "pullback volume not dry", mutate: func(s *contracts.TimeSeries, _ *contracts.IndicatorSet) {
			for i := 57; i < 60; i++ {
				s.Bars[i].Volume = 2000
			}
		}},
		{name: "two limit-ups only", mutate: func(s *contracts.TimeSeries, _ *contracts.IndicatorSet) {
			s.Bars[51].PctChg = 0
		}},
	})
}

func TestMildLowBuy(t *testing.T) {
	s := newMildLowBuy(defaultConfig(t).Strategies.MildLowBuy)

	fixture := func() (*contracts.TimeSeries, *contracts.IndicatorSet) {
		series := flatSeries(60, 10, 1000)
		for i := range series.Bars {
			series.Bars[i].Turnover = 1.5
		}

		ind := blankIndicators(series.Len())
		fill(ind.MA5, 9.9)
		fill(ind.MA60, 12)
		fill(ind.RSI6, 20)
		fill(ind.KDJK, 20)
		fill(ind.VolRatio, 0.8)
		return series, ind
	}

	runRuleCases(t, s, fixture, []ruleCase{
		{name: "quiet oversold under ma60", wantFired: true, wantLabel: "rsi6 20.0 k 20.0"},
		{name: "volume ratio too high", mutate: func(_ *contracts.TimeSeries, ind *contracts.IndicatorSet) {
			ind.VolRatio[59] = 1.2
		}},
		{name: "volume ratio too low", mutate: func(_ *contracts.TimeSeries, ind *contracts.IndicatorSet) {
			ind.VolRatio[59] = 0.1
		}},
		{name: "rsi not oversold", mutate: func(_ *contracts.TimeSeries, ind *contracts.IndicatorSet) {
			ind.RSI6[59] = 40
		}},
		{name: "kdj too high", mutate: func(_ *contracts.TimeSeries, ind *contracts.IndicatorSet) {
			ind.KDJK[59] = 45
		}},
		{name: "too close to ma60", mutate: func(_ *contracts.TimeSeries, ind *contracts.IndicatorSet) {
			ind.MA60[59] = 10.5
		}},
		{name: "under ma5", mutate: func(_ *contracts.TimeSeries, ind *contracts.IndicatorSet) {
			ind.MA5[59] = 10.1
		}},
		{name: "day gain too large", mutate: func(s *contracts.TimeSeries, _ *contracts.IndicatorSet) {
			s.Bars[59].PctChg = 3
		}},
		{name: "active turnover", mutate: func(s *contracts.TimeSeries, _ *contracts.IndicatorSet) {
			for i := range s.Bars {
				s.Bars[i].Turnover = 4
			}
		}},
	})
}
