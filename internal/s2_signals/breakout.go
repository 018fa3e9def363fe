package s2_signals

import (
	"github.com/wonny/dahai/internal/contracts"
	"github.com/wonny/dahai/internal/strategyconfig"
)

// oneSun 一阳穿三线: a big bullish bar opening below MA5/10/20 and closing above all three
type oneSun struct {
	meta
	cfg strategyconfig.OneSun
}

func newOneSun(cfg strategyconfig.OneSun) *oneSun {
	return &oneSun{
		meta: meta{
			id:       "one_sun",
			name:     "一阳穿三线",
			guide:    "【爆发位】一阳穿三线。次日看高开(1%-3%)，放量突破昨日最高价即是买点。止损设在阳线一半位置。",
			minBars:  cfg.MinBars,
			priceMin: cfg.PriceMin,
			priceMax: cfg.PriceMax,
		},
		cfg: cfg,
	}
}

func (s *oneSun) Evaluate(series *contracts.TimeSeries, ind *contracts.IndicatorSet) (contracts.Verdict, bool) {
	if gate := s.admit(series); gate != "" {
		return decline(gate)
	}

	bar := series.Last()
	ma5, ma10, ma20 := at(ind.MA5, 0), at(ind.MA10, 0), at(ind.MA20, 0)
	volPrev := at(ind.VolMA5Prev, 0)
	if !valid(ma5, ma10, ma20, volPrev, bar.PctChg, bar.Turnover) {
		return miss()
	}

	if bar.PctChg < s.cfg.MinPctChg {
		return miss()
	}
	if !(bar.Close > max3(ma5, ma10, ma20) && bar.Open < min3(ma5, ma10, ma20)) {
		return miss()
	}
	if bar.Volume <= volPrev*s.cfg.VolumeSurge || bar.Turnover <= s.cfg.MinTurnover {
		return miss()
	}
	return fire("")
}

// trendSelect 趋势放量: close > MA5 > MA10 with volume above the prior five-day average
type trendSelect struct {
	meta
	cfg strategyconfig.TrendSelect
}

func newTrendSelect(cfg strategyconfig.TrendSelect) *trendSelect {
	return &trendSelect{
		meta: meta{
			id:       "trend_select",
			name:     "趋势放量",
			guide:    "【趋势位】均线多头放量。沿5日线持有，收盘跌破10日线减仓。",
			minBars:  cfg.MinBars,
			priceMin: cfg.PriceMin,
			priceMax: cfg.PriceMax,
		},
		cfg: cfg,
	}
}

func (s *trendSelect) Evaluate(series *contracts.TimeSeries, ind *contracts.IndicatorSet) (contracts.Verdict, bool) {
	if gate := s.admit(series); gate != "" {
		return decline(gate)
	}

	bar := series.Last()
	ma5, ma10, volPrev := at(ind.MA5, 0), at(ind.MA10, 0), at(ind.VolMA5Prev, 0)
	if !valid(ma5, ma10, volPrev) {
		return miss()
	}

	if bar.Close > ma5 && ma5 > ma10 && bar.Volume > volPrev*s.cfg.VolumeSurge {
		return fire("")
	}
	return miss()
}

// duckHunter 老鸭头: rising MA5 above MA10, either expanding volume or a quiet hold of MA10
type duckHunter struct {
	meta
	cfg strategyconfig.DuckHunter
}

func newDuckHunter(cfg strategyconfig.DuckHunter) *duckHunter {
	return &duckHunter{
		meta: meta{
			id:       "duck_hunter",
			name:     "老鸭头",
			guide:    "【波段位】老鸭头形态。极品形态，鸭嘴张开是主升浪起点。止损设在鸭嘴下沿（MA10或MA20）。",
			minBars:  cfg.MinBars,
			priceMin: cfg.PriceMin,
			priceMax: cfg.PriceMax,
		},
		cfg: cfg,
	}
}

func (s *duckHunter) Evaluate(series *contracts.TimeSeries, ind *contracts.IndicatorSet) (contracts.Verdict, bool) {
	if gate := s.admit(series); gate != "" {
		return decline(gate)
	}

	bar := series.Last()
	ma5, ma5Prev, ma10 := at(ind.MA5, 0), at(ind.MA5, 1), at(ind.MA10, 0)
	volMA5 := at(ind.VolMA5, 0)
	if !valid(ma5, ma5Prev, ma10, volMA5) {
		return miss()
	}

	if !(bar.Close > ma5 && ma5 > ma10 && ma5 > ma5Prev) {
		return miss()
	}

	switch {
	case bar.Volume > volMA5*s.cfg.VolumeSurge:
		return fire("volume_surge")
	case bar.Close >= ma10 && bar.Volume <= volMA5:
		return fire("quiet_support")
	}
	return miss()
}

// willowPull 倒拔垂杨柳: a high-volume bearish bar that holds the uptrend
type willowPull struct {
	meta
	cfg strategyconfig.WillowPull
}

func newWillowPull(cfg strategyconfig.WillowPull) *willowPull {
	return &willowPull{
		meta: meta{
			id:       "willow_pull",
			name:     "倒拔垂杨柳",
			guide:    "【洗盘位】放量假阴。次日不破阴线实体下沿可低吸，收盘跌破10日线止损。",
			minBars:  cfg.MinBars,
			priceMin: cfg.PriceMin,
			priceMax: cfg.PriceMax,
		},
		cfg: cfg,
	}
}

func (s *willowPull) Evaluate(series *contracts.TimeSeries, ind *contracts.IndicatorSet) (contracts.Verdict, bool) {
	if gate := s.admit(series); gate != "" {
		return decline(gate)
	}

	today, yesterday := series.Last(), series.Back(1)
	ma10 := at(ind.MA10, 0)
	volPrev := meanVolume(series, 1, 6)
	if !valid(ma10, volPrev, today.PctChg) || yesterday.Close <= 0 {
		return miss()
	}

	if today.Close <= ma10 || today.Open <= today.Close {
		return miss()
	}
	if (today.Open-today.Close)/yesterday.Close <= s.cfg.MinBody {
		return miss()
	}
	if today.Volume <= volPrev*s.cfg.VolumeSurge || today.PctChg <= s.cfg.MinPctChg {
		return miss()
	}
	return fire("")
}
