package s2_signals

import (
	"fmt"
	"math"
	"strings"

	"github.com/wonny/dahai/internal/contracts"
	"github.com/wonny/dahai/internal/strategyconfig"
)

// MACD divergence labels
const (
	LabelMACDBuy  = "small_green"
	LabelMACDSell = "small_red"
)

// macdDivergence 买在小绿柱, 卖在小红柱: histogram bars of one sign shrinking toward zero
type macdDivergence struct {
	meta
	cfg strategyconfig.MACDDivergence
}

func newMACDDivergence(cfg strategyconfig.MACDDivergence) *macdDivergence {
	return &macdDivergence{
		meta: meta{
			id:       "macd_divergence",
			name:     "MACD小柱",
			guide:    "【拐点位】MACD绿柱连续缩短贴近零轴，下跌动能衰竭。可轻仓试多，绿柱重新放大离场；红柱缩短为卖出预警。",
			minBars:  cfg.MinBars,
			priceMin: cfg.PriceMin,
			priceMax: cfg.PriceMax,
		},
		cfg: cfg,
	}
}

func (s *macdDivergence) Evaluate(series *contracts.TimeSeries, ind *contracts.IndicatorSet) (contracts.Verdict, bool) {
	if gate := s.admit(series); gate != "" {
		return decline(gate)
	}

	// recent[0] is the oldest of the last N bars
	recent := make([]float64, s.cfg.Bars)
	for i := range recent {
		recent[i] = at(ind.Hist, s.cfg.Bars-1-i)
	}
	if !valid(recent...) {
		return miss()
	}

	peak := 0.0
	for k := 0; k < s.cfg.Lookback; k++ {
		h := at(ind.Hist, k)
		if !valid(h) {
			return miss()
		}
		peak = math.Max(peak, math.Abs(h))
	}
	last := recent[len(recent)-1]
	if peak == 0 || math.Abs(last) >= peak*s.cfg.MaxFraction {
		return miss()
	}

	allNeg, allPos := true, true
	rising, falling := true, true
	for i, h := range recent {
		allNeg = allNeg && h < 0
		allPos = allPos && h > 0
		if i > 0 {
			rising = rising && h > recent[i-1]
			falling = falling && h < recent[i-1]
		}
	}

	switch {
	case allNeg && rising:
		return fire(LabelMACDBuy)
	case allPos && falling:
		return warn(LabelMACDSell)
	}
	return miss()
}

// Low-buy classifier labels, checked in this order
const (
	LabelBreakoutRetest   = "breakout_retest"
	LabelBottomDivergence = "macd_bottom_divergence"
	LabelLongMASupport    = "long_ma_support"
	LabelUptrendPullback  = "uptrend_pullback"
)

// yangjiaLowBuy 养家低吸: classifies one of four low-risk entry setups
type yangjiaLowBuy struct {
	meta
	cfg strategyconfig.YangjiaLowBuy
}

func newYangjiaLowBuy(cfg strategyconfig.YangjiaLowBuy) *yangjiaLowBuy {
	return &yangjiaLowBuy{
		meta: meta{
			id:       "yangjia_low_buy",
			name:     "养家低吸",
			guide:    "【低吸位】缩量回踩关键支撑（前高、均线或底背离）。支撑位附近分批买入，有效跌破支撑止损。",
			minBars:  cfg.MinBars,
			priceMin: cfg.PriceMin,
			priceMax: cfg.PriceMax,
		},
		cfg: cfg,
	}
}

func (s *yangjiaLowBuy) Evaluate(series *contracts.TimeSeries, ind *contracts.IndicatorSet) (contracts.Verdict, bool) {
	if gate := s.admit(series); gate != "" {
		return decline(gate)
	}

	bar := series.Last()
	volPrev4 := meanVolume(series, 1, 5)
	shrinking := valid(volPrev4) && bar.Volume < volPrev4

	// 1. 突破回踩: back at a prior high that now acts as support
	if rh := maxHigh(series, 5, 20); valid(rh) {
		if bar.Close > rh*0.98 && bar.Close < rh*1.05 && shrinking && bar.Close >= rh {
			return fire(LabelBreakoutRetest)
		}
	}

	// 2. MACD 底背离: new closing low while DIF holds above its recent low
	if low := minClose(series, 1, 20); valid(low) && bar.Close < low {
		difLow := math.Inf(1)
		for k := 1; k < 20; k++ {
			difLow = math.Min(difLow, at(ind.Diff, k))
		}
		dif, h, hPrev := at(ind.Diff, 0), at(ind.Hist, 0), at(ind.Hist, 1)
		if valid(dif, difLow, h, hPrev) && dif > difLow && h > hPrev {
			return fire(LabelBottomDivergence)
		}
	}

	// 3. 长线均线支撑: just above MA120 on shrinking volume (needs a full year of bars)
	if series.Len() >= 250 {
		ma120 := at(ind.MA120, 0)
		if valid(ma120) && ma120 > 0 && math.Abs(bar.Close-ma120)/ma120 < 0.02 && bar.Close > ma120 && shrinking {
			return fire(LabelLongMASupport)
		}
	}

	// 4. 上升通道回踩: MA10 over a rising MA20, tagged intraday and held at the close
	ma10, ma20, ma20Back := at(ind.MA10, 0), at(ind.MA20, 0), at(ind.MA20, 4)
	if valid(ma10, ma20, ma20Back) && ma10 > ma20 && ma20 > ma20Back {
		if bar.Low <= ma20*1.01 && bar.Close >= ma20 && shrinking {
			return fire(LabelUptrendPullback)
		}
	}

	return miss()
}

// Yin-line reject gates, tallied per run
const (
	RejectYinTrend   = "trend"
	RejectYinAmount  = "amount"
	RejectYinPattern = "pattern"
)

// yinLine 阴线买入: bearish candles inside an uptrend that read as accumulation
type yinLine struct {
	meta
	cfg strategyconfig.YinLine
}

func newYinLine(cfg strategyconfig.YinLine) *yinLine {
	return &yinLine{
		meta: meta{
			id:       "yin_line",
			name:     "阴线买入",
			guide:    "【吸筹位】趋势中的缩量阴线或回踩均线阴线。尾盘或次日低吸，收盘跌破60日线止损。",
			minBars:  cfg.MinBars,
			priceMin: cfg.PriceMin,
			priceMax: cfg.PriceMax,
		},
		cfg: cfg,
	}
}

func (s *yinLine) Evaluate(series *contracts.TimeSeries, ind *contracts.IndicatorSet) (contracts.Verdict, bool) {
	if gate := s.admit(series); gate != "" {
		return decline(gate)
	}

	cur, prev := series.Last(), series.Back(1)
	ma60, ma20, ma20Prev := at(ind.MA60, 0), at(ind.MA20, 0), at(ind.MA20, 1)
	if !valid(ma60, ma20, ma20Prev) || !(cur.Close > ma60 && ma20 >= ma20Prev) {
		return decline(RejectYinTrend)
	}

	if cur.Close*cur.Volume < s.cfg.MinAmount {
		return decline(RejectYinAmount)
	}

	if cur.Close >= cur.Open {
		return decline(RejectYinPattern)
	}

	var patterns []string

	// 缩量回调
	ma5, ma10, volPrev := at(ind.MA5, 0), at(ind.MA10, 0), at(ind.VolMA5Prev, 0)
	if valid(ma5, ma10, volPrev) && cur.Close > ma5 && cur.Close > ma10 && cur.Volume < volPrev*s.cfg.ShrinkRatio {
		patterns = append(patterns, "shrink_pullback")
	}

	// 回踩 MA5/10/20, first flat-or-rising average that was tagged and held
	for _, m := range []struct {
		n    int
		line []float64
	}{{5, ind.MA5}, {10, ind.MA10}, {20, ind.MA20}} {
		now, before := at(m.line, 0), at(m.line, 1)
		if !valid(now, before) || now < before {
			continue
		}
		if cur.Low <= now && cur.Close >= now {
			patterns = append(patterns, fmt.Sprintf("retest_ma%d", m.n))
			break
		}
	}

	// 放量假阴线: closes red but above yesterday, heavier volume, short upper shadow
	if cur.Close > prev.Close && cur.Volume > prev.Volume*s.cfg.FakeYinVolume && cur.Close > 0 {
		shadow := cur.High - math.Max(cur.Open, cur.Close)
		if shadow/cur.Close < s.cfg.MaxUpperShadow {
			patterns = append(patterns, "fake_yin")
		}
	}

	if len(patterns) == 0 {
		return decline(RejectYinPattern)
	}
	return fire(strings.Join(patterns, "+"))
}
