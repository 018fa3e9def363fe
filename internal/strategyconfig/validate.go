package strategyconfig

import (
	"fmt"
	"regexp"
)

// ValidationError 검증 실패 (run 중단)
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

const (
	minBarsFloor   = 20
	minBarsCeiling = 250
)

// Validate checks all required constraints
func Validate(cfg *Config) error {
	// === Universe ===
	if _, err := regexp.Compile(cfg.Universe.ExcludeNamePattern); err != nil {
		return ValidationError{"universe.exclude_name_pattern", err.Error()}
	}
	if err := validateBand("universe", cfg.Universe.PriceMin, cfg.Universe.PriceMax); err != nil {
		return err
	}

	s := cfg.Strategies

	// === Bands & history ===
	families := []struct {
		name     string
		min, max float64
		bars     int
	}{
		{"one_sun", s.OneSun.PriceMin, s.OneSun.PriceMax, s.OneSun.MinBars},
		{"golden_pit", s.GoldenPit.PriceMin, s.GoldenPit.PriceMax, s.GoldenPit.MinBars},
		{"duck_hunter", s.DuckHunter.PriceMin, s.DuckHunter.PriceMax, s.DuckHunter.MinBars},
		{"trend_select", s.TrendSelect.PriceMin, s.TrendSelect.PriceMax, s.TrendSelect.MinBars},
		{"macd_divergence", s.MACDDivergence.PriceMin, s.MACDDivergence.PriceMax, s.MACDDivergence.MinBars},
		{"willow_pull", s.WillowPull.PriceMin, s.WillowPull.PriceMax, s.WillowPull.MinBars},
		{"yangjia_low_buy", s.YangjiaLowBuy.PriceMin, s.YangjiaLowBuy.PriceMax, s.YangjiaLowBuy.MinBars},
		{"dragon_returns", s.DragonReturns.PriceMin, s.DragonReturns.PriceMax, s.DragonReturns.MinBars},
		{"yin_line", s.YinLine.PriceMin, s.YinLine.PriceMax, s.YinLine.MinBars},
		{"mild_low_buy", s.MildLowBuy.PriceMin, s.MildLowBuy.PriceMax, s.MildLowBuy.MinBars},
		{"support_retest", s.SupportRetest.PriceMin, s.SupportRetest.PriceMax, s.SupportRetest.MinBars},
		{"catalog", s.Catalog.PriceMin, s.Catalog.PriceMax, s.Catalog.MinBars},
	}
	for _, f := range families {
		prefix := "strategies." + f.name
		if err := validateBand(prefix, f.min, f.max); err != nil {
			return err
		}
		if f.bars < minBarsFloor || f.bars > minBarsCeiling {
			return ValidationError{prefix + ".min_bars", fmt.Sprintf("must be in [%d, %d]", minBarsFloor, minBarsCeiling)}
		}
	}

	// === Family-specific windows ===
	if s.GoldenPit.Lookback <= 0 || s.GoldenPit.Lookback > s.GoldenPit.MinBars {
		return ValidationError{"strategies.golden_pit.lookback", "must be in (0, min_bars]"}
	}
	if s.GoldenPit.ReboundMin >= s.GoldenPit.ReboundMax {
		return ValidationError{"strategies.golden_pit", "rebound_min must be < rebound_max"}
	}
	if s.MACDDivergence.Bars < 2 || s.MACDDivergence.Bars > s.MACDDivergence.Lookback {
		return ValidationError{"strategies.macd_divergence.bars", "must be in [2, lookback]"}
	}
	if s.MACDDivergence.MaxFraction <= 0 || s.MACDDivergence.MaxFraction >= 1 {
		return ValidationError{"strategies.macd_divergence.max_fraction", "must be in (0, 1)"}
	}
	if s.DragonReturns.RetraceMin >= s.DragonReturns.RetraceMax {
		return ValidationError{"strategies.dragon_returns", "retrace_min must be < retrace_max"}
	}
	// rally window ending 5..24 bars back must fit inside the history
	if s.DragonReturns.RallyWindow <= 0 || s.DragonReturns.RallyWindow+25 > s.DragonReturns.MinBars {
		return ValidationError{"strategies.dragon_returns.rally_window", "rally_window + 25 must fit in min_bars"}
	}
	if s.MildLowBuy.VolRatioMin >= s.MildLowBuy.VolRatioMax {
		return ValidationError{"strategies.mild_low_buy", "vol_ratio_min must be < vol_ratio_max"}
	}
	if s.MildLowBuy.TurnoverWindow <= 0 || s.MildLowBuy.TurnoverWindow > s.MildLowBuy.MinBars {
		return ValidationError{"strategies.mild_low_buy.turnover_window", "must be in (0, min_bars]"}
	}
	if s.SupportRetest.Lookback <= 0 || s.SupportRetest.Lookback >= s.SupportRetest.MinBars {
		return ValidationError{"strategies.support_retest.lookback", "must be in (0, min_bars)"}
	}

	// === Multipliers ===
	positives := map[string]float64{
		"strategies.one_sun.volume_surge":          s.OneSun.VolumeSurge,
		"strategies.golden_pit.volume_floor":       s.GoldenPit.VolumeFloor,
		"strategies.duck_hunter.volume_surge":      s.DuckHunter.VolumeSurge,
		"strategies.trend_select.volume_surge":     s.TrendSelect.VolumeSurge,
		"strategies.willow_pull.volume_surge":      s.WillowPull.VolumeSurge,
		"strategies.dragon_returns.volume_dry":     s.DragonReturns.VolumeDry,
		"strategies.yin_line.shrink_ratio":         s.YinLine.ShrinkRatio,
		"strategies.yin_line.fake_yin_volume":      s.YinLine.FakeYinVolume,
		"strategies.catalog.volume_surge":          s.Catalog.VolumeSurge,
		"strategies.catalog.hot_money_surge":       s.Catalog.HotMoneySurge,
		"strategies.catalog.limit_up_pct":          s.Catalog.LimitUpPct,
		"strategies.dragon_returns.limit_up_pct":   s.DragonReturns.LimitUpPct,
		"strategies.support_retest.separation":     s.SupportRetest.Separation,
		"strategies.mild_low_buy.max_avg_turnover": s.MildLowBuy.MaxAvgTurnover,
	}
	for field, v := range positives {
		if v <= 0 {
			return ValidationError{field, "must be > 0"}
		}
	}

	return nil
}

func validateBand(prefix string, min, max float64) error {
	if min < 0 {
		return ValidationError{prefix + ".price_min", "must be >= 0"}
	}
	if max > 0 && min >= max {
		return ValidationError{prefix, "price_min must be < price_max"}
	}
	return nil
}
