package s2_signals

import (
	"math"

	"github.com/wonny/dahai/internal/contracts"
	"github.com/wonny/dahai/internal/strategyconfig"
)

// catalogRule is one member of the 市场猛兽 resonance catalog.
// All members share the catalog band and the 250-bar history floor.
type catalogRule struct {
	meta
	cfg   strategyconfig.Catalog
	check func(c strategyconfig.Catalog, s *contracts.TimeSeries, ind *contracts.IndicatorSet) bool
}

func (r *catalogRule) Evaluate(series *contracts.TimeSeries, ind *contracts.IndicatorSet) (contracts.Verdict, bool) {
	if gate := r.admit(series); gate != "" {
		return decline(gate)
	}
	if r.check(r.cfg, series, ind) {
		return fire("")
	}
	return miss()
}

type catalogDef struct {
	id, name, guide string
	check           func(c strategyconfig.Catalog, s *contracts.TimeSeries, ind *contracts.IndicatorSet) bool
}

// catalogDefs lists the catalog in registry order.
var catalogDefs = []catalogDef{
	{"macd_bottom", "MACD水下金叉", "【转折位】DIF 在零轴下方上穿 DEA。轻仓试错，DIF 重新下穿止损。", macdBottom},
	{"duck_head", "老鸭头", "【形态位】均线多头且贴近 MA20。鸭嘴张开放量时介入，跌破 MA20 离场。", duckHead},
	{"three_in_one", "三位一体", "【共振位】大阳放量且 DIF 在零轴上。次日不破阳线实体中部可持有。", threeInOne},
	{"pregnancy_line", "底部孕线", "【蓄势位】低位孕线，多空收敛。等待次日放量方向选择。", pregnancyLine},
	{"single_yang", "单阳不破", "【支撑位】近期大阳线低点未破。回踩阳线低点附近低吸，破位止损。", singleYang},
	{"limit_pullback", "涨停缩量回调", "【回调位】涨停后缩量整理。缩量企稳处介入，跌破涨停阳线开盘价止损。", limitPullback},
	{"pit_reclaim", "黄金坑收复", "【收复位】挖坑后重新站上 MA5。站稳后跟进，再次跌破坑底离场。", pitReclaim},
	{"grass_fly", "草上飞", "【贴线位】贴近 MA60 运行。沿 60 日线低吸，有效跌破离场。", grassFly},
	{"limit_break", "涨停突破", "【突破位】涨停后继续走强。回踩涨停价不破可加仓。", limitBreak},
	{"double_plate", "双板回调", "【接力位】大阳后小阴再转强。确认站稳后参与，跌破小阴低点止损。", doublePlate},
	{"horse_back", "回马枪", "【回踩位】大阳次日回踩 MA10。缩量回踩介入，收盘跌破 MA10 离场。", horseBack},
	{"hot_money", "游资突击", "【资金位】成交量倍增。只做次日分歧转一致，严格止损。", hotMoney},
	{"wave_bottom", "波段底部", "【波段位】站上 MA5 且收涨。波段低吸，跌破前低离场。", waveBottom},
	{"no_loss", "年线不败", "【年线位】贴近年线 MA250。长线分批建仓，有效跌破年线离场。", noLoss},
	{"chase_rise", "追涨突破", "【新高位】突破 20 日新高。放量确认后追入，回落至突破位下方止损。", chaseRise},
	{"inst_swing", "机构波段", "【趋势位】MACD 红柱放大。顺势持有，红柱缩短减仓。", instSwing},
}

func newCatalog(cfg strategyconfig.Catalog) []Strategy {
	out := make([]Strategy, 0, len(catalogDefs))
	for _, d := range catalogDefs {
		out = append(out, &catalogRule{
			meta: meta{
				id:       d.id,
				name:     d.name,
				guide:    d.guide,
				minBars:  cfg.MinBars,
				priceMin: cfg.PriceMin,
				priceMax: cfg.PriceMax,
			},
			cfg:   cfg,
			check: d.check,
		})
	}
	return out
}

func macdBottom(_ strategyconfig.Catalog, _ *contracts.TimeSeries, ind *contracts.IndicatorSet) bool {
	dif, dea := at(ind.Diff, 0), at(ind.DEA, 0)
	difPrev, deaPrev := at(ind.Diff, 1), at(ind.DEA, 1)
	if !valid(dif, dea, difPrev, deaPrev) {
		return false
	}
	return dif < 0 && difPrev < deaPrev && dif > dea
}

func duckHead(_ strategyconfig.Catalog, s *contracts.TimeSeries, ind *contracts.IndicatorSet) bool {
	ma5, ma10, ma20 := at(ind.MA5, 0), at(ind.MA10, 0), at(ind.MA20, 0)
	if !valid(ma5, ma10, ma20) {
		return false
	}
	c := s.Last().Close
	return ma5 > ma10 && c > ma20 && c < ma20*1.03
}

func threeInOne(c strategyconfig.Catalog, s *contracts.TimeSeries, ind *contracts.IndicatorSet) bool {
	bar := s.Last()
	vma5, dif := at(ind.VolMA5, 0), at(ind.Diff, 0)
	if !valid(vma5, dif, bar.PctChg) {
		return false
	}
	return bar.PctChg > 4 && bar.Volume > vma5*c.VolumeSurge && dif > 0
}

func pregnancyLine(_ strategyconfig.Catalog, s *contracts.TimeSeries, ind *contracts.IndicatorSet) bool {
	cur, prev := s.Last(), s.Back(1)
	ma60 := at(ind.MA60, 0)
	if !valid(ma60) {
		return false
	}
	return cur.High <= prev.High && cur.Low >= prev.Low && cur.Close < ma60
}

// the most recent big bullish bar in the last 10 still holds its low
func singleYang(_ strategyconfig.Catalog, s *contracts.TimeSeries, _ *contracts.IndicatorSet) bool {
	for k := 0; k < 10 && k < s.Len(); k++ {
		b := s.Back(k)
		if valid(b.PctChg) && b.PctChg > 5 {
			return s.Last().Close >= b.Low
		}
	}
	return false
}

func limitPullback(c strategyconfig.Catalog, s *contracts.TimeSeries, _ *contracts.IndicatorSet) bool {
	cur, prev := s.Last(), s.Back(1)
	if !valid(cur.PctChg) {
		return false
	}
	hadLimit := false
	for k := 1; k <= 5; k++ {
		if p := s.Back(k).PctChg; valid(p) && p > c.LimitUpPct {
			hadLimit = true
			break
		}
	}
	return hadLimit && cur.Volume < prev.Volume && math.Abs(cur.PctChg) < 3
}

func pitReclaim(_ strategyconfig.Catalog, s *contracts.TimeSeries, ind *contracts.IndicatorSet) bool {
	ma34Back, ma5 := at(ind.MA34, 4), at(ind.MA5, 0)
	if !valid(ma34Back, ma5) {
		return false
	}
	return s.Back(4).Close < ma34Back && s.Last().Close > ma5
}

func grassFly(_ strategyconfig.Catalog, s *contracts.TimeSeries, ind *contracts.IndicatorSet) bool {
	ma60 := at(ind.MA60, 0)
	if !valid(ma60) || ma60 == 0 {
		return false
	}
	return math.Abs(s.Last().Close-ma60)/ma60 < 0.03
}

func limitBreak(c strategyconfig.Catalog, s *contracts.TimeSeries, _ *contracts.IndicatorSet) bool {
	p := s.Back(2).PctChg
	return valid(p) && s.Last().Close > s.Back(1).Close && p > c.LimitUpPct
}

func doublePlate(_ strategyconfig.Catalog, s *contracts.TimeSeries, _ *contracts.IndicatorSet) bool {
	p2, p1, p0 := s.Back(2).PctChg, s.Back(1).PctChg, s.Last().PctChg
	if !valid(p2, p1, p0) {
		return false
	}
	return p2 > 5 && p1 < 0 && p0 > 3
}

func horseBack(_ strategyconfig.Catalog, s *contracts.TimeSeries, ind *contracts.IndicatorSet) bool {
	p1, ma10 := s.Back(1).PctChg, at(ind.MA10, 0)
	if !valid(p1, ma10) {
		return false
	}
	return p1 > 7 && s.Last().Low < ma10*1.02
}

func hotMoney(c strategyconfig.Catalog, s *contracts.TimeSeries, _ *contracts.IndicatorSet) bool {
	return s.Last().Volume > s.Back(1).Volume*c.HotMoneySurge
}

func waveBottom(_ strategyconfig.Catalog, s *contracts.TimeSeries, ind *contracts.IndicatorSet) bool {
	ma5 := at(ind.MA5, 0)
	if !valid(ma5) {
		return false
	}
	c := s.Last().Close
	return c > ma5 && c > s.Back(1).Close
}

func noLoss(_ strategyconfig.Catalog, s *contracts.TimeSeries, ind *contracts.IndicatorSet) bool {
	ma250 := at(ind.MA250, 0)
	if !valid(ma250) || ma250 == 0 {
		return false
	}
	return math.Abs(s.Last().Close-ma250)/ma250 < 0.05
}

func chaseRise(_ strategyconfig.Catalog, s *contracts.TimeSeries, _ *contracts.IndicatorSet) bool {
	rh := maxHigh(s, 1, 21)
	return valid(rh) && s.Last().Close >= rh
}

func instSwing(_ strategyconfig.Catalog, _ *contracts.TimeSeries, ind *contracts.IndicatorSet) bool {
	h, hPrev := at(ind.Hist, 0), at(ind.Hist, 1)
	if !valid(h, hPrev) {
		return false
	}
	return h > hPrev && h > 0
}
