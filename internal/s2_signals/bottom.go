package s2_signals

import (
	"fmt"
	"math"

	"github.com/wonny/dahai/internal/contracts"
	"github.com/wonny/dahai/internal/strategyconfig"
)

// goldenPit 黄金坑: a bullish rebound off the recent low with volume recovering
type goldenPit struct {
	meta
	cfg strategyconfig.GoldenPit
}

func newGoldenPit(cfg strategyconfig.GoldenPit) *goldenPit {
	return &goldenPit{
		meta: meta{
			id:       "golden_pit",
			name:     "黄金坑",
			guide:    "【底部位】黄金坑企稳。属于左侧交易，适合潜伏。今日放量阳线确认坑底，跌破坑底最低价止损。",
			minBars:  cfg.MinBars,
			priceMin: cfg.PriceMin,
			priceMax: cfg.PriceMax,
		},
		cfg: cfg,
	}
}

func (s *goldenPit) Evaluate(series *contracts.TimeSeries, ind *contracts.IndicatorSet) (contracts.Verdict, bool) {
	if gate := s.admit(series); gate != "" {
		return decline(gate)
	}

	bar := series.Last()
	pitLow := minLow(series, 0, s.cfg.Lookback)
	volMA20 := at(ind.VolMA20, 0)
	if !valid(pitLow, volMA20) || pitLow <= 0 {
		return miss()
	}

	rebound := bar.Close > pitLow*s.cfg.ReboundMin && bar.Close < pitLow*s.cfg.ReboundMax
	if rebound && bar.Close > bar.Open && bar.Volume > volMA20*s.cfg.VolumeFloor {
		return fire(fmt.Sprintf("rebound %.2f%%", (bar.Close/pitLow-1)*100))
	}
	return miss()
}

// supportRetest 回踩支撑: price ran well above MA20, now tags it from above on shrinking volume
type supportRetest struct {
	meta
	cfg strategyconfig.SupportRetest
}

func newSupportRetest(cfg strategyconfig.SupportRetest) *supportRetest {
	return &supportRetest{
		meta: meta{
			id:       "support_retest",
			name:     "回踩支撑",
			guide:    "【回踩位】强势股首次缩量回踩20日线。触线企稳可分批低吸，收盘有效跌破20日线止损。",
			minBars:  cfg.MinBars,
			priceMin: cfg.PriceMin,
			priceMax: cfg.PriceMax,
		},
		cfg: cfg,
	}
}

func (s *supportRetest) Evaluate(series *contracts.TimeSeries, ind *contracts.IndicatorSet) (contracts.Verdict, bool) {
	if gate := s.admit(series); gate != "" {
		return decline(gate)
	}

	bar := series.Last()
	ma20, volPrev := at(ind.MA20, 0), at(ind.VolMA5Prev, 0)
	if !valid(ma20, volPrev) {
		return miss()
	}

	separated := false
	for k := 1; k <= s.cfg.Lookback; k++ {
		m := at(ind.MA20, k)
		if valid(m) && series.Back(k).Close > m*(1+s.cfg.Separation) {
			separated = true
			break
		}
	}
	if !separated {
		return miss()
	}

	if bar.Low <= ma20*s.cfg.TouchBand && bar.Close >= ma20 && bar.Volume < volPrev {
		return fire("")
	}
	return miss()
}

// dragonReturns 龙回头: a recent limit-up rally followed by a measured, low-volume pullback
type dragonReturns struct {
	meta
	cfg strategyconfig.DragonReturns
}

func newDragonReturns(cfg strategyconfig.DragonReturns) *dragonReturns {
	return &dragonReturns{
		meta: meta{
			id:       "dragon_returns",
			name:     "龙回头",
			guide:    "【二波位】真龙回头。缩量回调至前波涨幅三到五成且守住20日线，放量反包即是买点，跌破20日线离场。",
			minBars:  cfg.MinBars,
			priceMin: cfg.PriceMin,
			priceMax: cfg.PriceMax,
		},
		cfg: cfg,
	}
}

func (s *dragonReturns) Evaluate(series *contracts.TimeSeries, ind *contracts.IndicatorSet) (contracts.Verdict, bool) {
	if gate := s.admit(series); gate != "" {
		return decline(gate)
	}

	n := series.Len()
	peak, start := -1, -1
	// rally windows ending 4..23 bars back, nearest first
	for i := 5; i < 25; i++ {
		end := n - i
		begin := end - s.cfg.RallyWindow
		if begin < 0 {
			continue
		}
		base := series.Bars[begin].Close
		if base <= 0 {
			continue
		}
		gain := (series.Bars[end].Close - base) / base

		limitUps := 0
		for _, b := range series.Bars[begin : end+1] {
			if b.PctChg > s.cfg.LimitUpPct {
				limitUps++
			}
		}

		if gain >= s.cfg.RallyGain && limitUps >= s.cfg.MinLimitUps {
			peak, start = end, begin
			break
		}
	}
	if peak < 0 {
		return miss()
	}

	bar := series.Last()
	rise := series.Bars[peak].Close - series.Bars[start].Close
	if rise <= 0 {
		return miss()
	}
	retrace := (series.Bars[peak].Close - bar.Close) / rise
	if retrace < s.cfg.RetraceMin || retrace > s.cfg.RetraceMax {
		return miss()
	}

	ma20 := at(ind.MA20, 0)
	if !valid(ma20) || bar.Close < ma20*s.cfg.MA20Floor {
		return miss()
	}

	rallyVol := 0.0
	for _, b := range series.Bars[start : peak+1] {
		rallyVol += b.Volume
	}
	rallyVol /= float64(peak - start + 1)
	if meanVolume(series, 0, 3) > rallyVol*s.cfg.VolumeDry {
		return miss()
	}

	return fire(fmt.Sprintf("retrace %.0f%%", retrace*100))
}

// mildLowBuy 温和低吸: oversold, quiet, well below MA60 but holding MA5
type mildLowBuy struct {
	meta
	cfg strategyconfig.MildLowBuy
}

func newMildLowBuy(cfg strategyconfig.MildLowBuy) *mildLowBuy {
	return &mildLowBuy{
		meta: meta{
			id:       "mild_low_buy",
			name:     "温和低吸",
			guide:    "【低吸位】超跌缩量站稳5日线。小仓位试错，目标看60日线，跌破前低止损。",
			minBars:  cfg.MinBars,
			priceMin: cfg.PriceMin,
			priceMax: cfg.PriceMax,
		},
		cfg: cfg,
	}
}

func (s *mildLowBuy) Evaluate(series *contracts.TimeSeries, ind *contracts.IndicatorSet) (contracts.Verdict, bool) {
	if gate := s.admit(series); gate != "" {
		return decline(gate)
	}

	bar := series.Last()

	// missing turnover history declines rather than passing unchecked
	turnover := 0.0
	for k := 0; k < s.cfg.TurnoverWindow; k++ {
		t := series.Back(k).Turnover
		if math.IsNaN(t) {
			return miss()
		}
		turnover += t
	}
	turnover /= float64(s.cfg.TurnoverWindow)
	if turnover > s.cfg.MaxAvgTurnover {
		return miss()
	}

	ma5, ma60 := at(ind.MA5, 0), at(ind.MA60, 0)
	rsi, k := at(ind.RSI6, 0), at(ind.KDJK, 0)
	volRatio := at(ind.VolRatio, 0)
	if !valid(ma5, ma60, rsi, k, volRatio, bar.PctChg) || bar.Close <= 0 {
		return miss()
	}

	if (ma60-bar.Close)/bar.Close < s.cfg.MA60Potential || bar.PctChg > s.cfg.MaxPctChg {
		return miss()
	}
	if rsi > s.cfg.RSI6Max || k > s.cfg.KDJKMax || bar.Close < ma5 {
		return miss()
	}
	if volRatio < s.cfg.VolRatioMin || volRatio > s.cfg.VolRatioMax {
		return miss()
	}
	return fire(fmt.Sprintf("rsi6 %.1f k %.1f", rsi, k))
}
