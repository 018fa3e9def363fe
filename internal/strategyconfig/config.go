package strategyconfig

// Config is the full threshold set of every strategy family.
// Families keep their own bands and multipliers; near-duplicate rules are not unified.
type Config struct {
	Meta       Meta       `yaml:"meta" json:"meta"`
	Universe   Universe   `yaml:"universe" json:"universe"`
	Strategies Strategies `yaml:"strategies" json:"strategies"`
}

// Meta 元信息
type Meta struct {
	StrategySet string `yaml:"strategy_set" json:"strategy_set" default:"dahai_v1"`
	Version     string `yaml:"version" json:"version" default:"1"`
}

// Universe S1: 股票池过滤
type Universe struct {
	AllowPrefixes      []string `yaml:"allow_prefixes" json:"allow_prefixes" default:"[\"60\",\"00\"]"`
	DenyPrefixes       []string `yaml:"deny_prefixes" json:"deny_prefixes" default:"[\"30\",\"68\"]"`
	ExcludeNamePattern string   `yaml:"exclude_name_pattern" json:"exclude_name_pattern" default:"(?i)ST|退"`
	PriceMin           float64  `yaml:"price_min" json:"price_min" default:"5"`
	PriceMax           float64  `yaml:"price_max" json:"price_max" default:"45"`
}

// Strategies S2: 各策略阈值
type Strategies struct {
	Disabled []string `yaml:"disabled" json:"disabled"`

	OneSun         OneSun         `yaml:"one_sun" json:"one_sun"`
	GoldenPit      GoldenPit      `yaml:"golden_pit" json:"golden_pit"`
	DuckHunter     DuckHunter     `yaml:"duck_hunter" json:"duck_hunter"`
	TrendSelect    TrendSelect    `yaml:"trend_select" json:"trend_select"`
	MACDDivergence MACDDivergence `yaml:"macd_divergence" json:"macd_divergence"`
	WillowPull     WillowPull     `yaml:"willow_pull" json:"willow_pull"`
	YangjiaLowBuy  YangjiaLowBuy  `yaml:"yangjia_low_buy" json:"yangjia_low_buy"`
	DragonReturns  DragonReturns  `yaml:"dragon_returns" json:"dragon_returns"`
	YinLine        YinLine        `yaml:"yin_line" json:"yin_line"`
	MildLowBuy     MildLowBuy     `yaml:"mild_low_buy" json:"mild_low_buy"`
	SupportRetest  SupportRetest  `yaml:"support_retest" json:"support_retest"`
	Catalog        Catalog        `yaml:"catalog" json:"catalog"`
}

// OneSun 一阳穿三线
type OneSun struct {
	PriceMin    float64 `yaml:"price_min" json:"price_min" default:"5"`
	PriceMax    float64 `yaml:"price_max" json:"price_max" default:"35"`
	MinBars     int     `yaml:"min_bars" json:"min_bars" default:"180"`
	MinPctChg   float64 `yaml:"min_pct_chg" json:"min_pct_chg" default:"5"`
	VolumeSurge float64 `yaml:"volume_surge" json:"volume_surge" default:"1.8"`
	MinTurnover float64 `yaml:"min_turnover" json:"min_turnover" default:"3"`
}

// GoldenPit 黄金坑
type GoldenPit struct {
	PriceMin    float64 `yaml:"price_min" json:"price_min" default:"5"`
	PriceMax    float64 `yaml:"price_max" json:"price_max" default:"45"`
	MinBars     int     `yaml:"min_bars" json:"min_bars" default:"40"`
	Lookback    int     `yaml:"lookback" json:"lookback" default:"20"`
	ReboundMin  float64 `yaml:"rebound_min" json:"rebound_min" default:"1.05"`
	ReboundMax  float64 `yaml:"rebound_max" json:"rebound_max" default:"1.15"`
	VolumeFloor float64 `yaml:"volume_floor" json:"volume_floor" default:"0.8"`
}

// DuckHunter 老鸭头
type DuckHunter struct {
	PriceMin    float64 `yaml:"price_min" json:"price_min" default:"5"`
	PriceMax    float64 `yaml:"price_max" json:"price_max" default:"20"`
	MinBars     int     `yaml:"min_bars" json:"min_bars" default:"30"`
	VolumeSurge float64 `yaml:"volume_surge" json:"volume_surge" default:"1.2"`
}

// TrendSelect 趋势放量
type TrendSelect struct {
	PriceMin    float64 `yaml:"price_min" json:"price_min" default:"5"`
	PriceMax    float64 `yaml:"price_max" json:"price_max" default:"20"`
	MinBars     int     `yaml:"min_bars" json:"min_bars" default:"30"`
	VolumeSurge float64 `yaml:"volume_surge" json:"volume_surge" default:"1.2"`
}

// MACDDivergence 买在小绿柱, 卖在小红柱
type MACDDivergence struct {
	PriceMin    float64 `yaml:"price_min" json:"price_min" default:"5"`
	PriceMax    float64 `yaml:"price_max" json:"price_max" default:"20"`
	MinBars     int     `yaml:"min_bars" json:"min_bars" default:"40"`
	Bars        int     `yaml:"bars" json:"bars" default:"3"`
	Lookback    int     `yaml:"lookback" json:"lookback" default:"20"`
	MaxFraction float64 `yaml:"max_fraction" json:"max_fraction" default:"0.2"`
}

// WillowPull 倒拔垂杨柳
type WillowPull struct {
	PriceMin    float64 `yaml:"price_min" json:"price_min" default:"5"`
	PriceMax    float64 `yaml:"price_max" json:"price_max" default:"20"`
	MinBars     int     `yaml:"min_bars" json:"min_bars" default:"20"`
	MinBody     float64 `yaml:"min_body" json:"min_body" default:"0.02"`
	VolumeSurge float64 `yaml:"volume_surge" json:"volume_surge" default:"1.8"`
	MinPctChg   float64 `yaml:"min_pct_chg" json:"min_pct_chg" default:"-2"`
}

// YangjiaLowBuy 杨家低吸分类
type YangjiaLowBuy struct {
	PriceMin float64 `yaml:"price_min" json:"price_min" default:"5"`
	PriceMax float64 `yaml:"price_max" json:"price_max" default:"20"`
	MinBars  int     `yaml:"min_bars" json:"min_bars" default:"60"`
}

// DragonReturns 龙回头
type DragonReturns struct {
	PriceMin    float64 `yaml:"price_min" json:"price_min" default:"5"`
	PriceMax    float64 `yaml:"price_max" json:"price_max" default:"45"`
	MinBars     int     `yaml:"min_bars" json:"min_bars" default:"40"`
	RallyWindow int     `yaml:"rally_window" json:"rally_window" default:"10"`
	RallyGain   float64 `yaml:"rally_gain" json:"rally_gain" default:"0.5"`
	LimitUpPct  float64 `yaml:"limit_up_pct" json:"limit_up_pct" default:"9.5"`
	MinLimitUps int     `yaml:"min_limit_ups" json:"min_limit_ups" default:"3"`
	RetraceMin  float64 `yaml:"retrace_min" json:"retrace_min" default:"0.3"`
	RetraceMax  float64 `yaml:"retrace_max" json:"retrace_max" default:"0.55"`
	MA20Floor   float64 `yaml:"ma20_floor" json:"ma20_floor" default:"0.98"`
	VolumeDry   float64 `yaml:"volume_dry" json:"volume_dry" default:"0.55"`
}

// YinLine 阴线买入
type YinLine struct {
	PriceMin       float64 `yaml:"price_min" json:"price_min" default:"5"`
	PriceMax       float64 `yaml:"price_max" json:"price_max" default:"45"`
	MinBars        int     `yaml:"min_bars" json:"min_bars" default:"60"`
	MinAmount      float64 `yaml:"min_amount" json:"min_amount" default:"100000000"`
	ShrinkRatio    float64 `yaml:"shrink_ratio" json:"shrink_ratio" default:"0.7"`
	FakeYinVolume  float64 `yaml:"fake_yin_volume" json:"fake_yin_volume" default:"1.3"`
	MaxUpperShadow float64 `yaml:"max_upper_shadow" json:"max_upper_shadow" default:"0.03"`
}

// MildLowBuy 温和低吸
type MildLowBuy struct {
	PriceMin       float64 `yaml:"price_min" json:"price_min" default:"5"`
	PriceMax       float64 `yaml:"price_max" json:"price_max" default:"45"`
	MinBars        int     `yaml:"min_bars" json:"min_bars" default:"60"`
	MaxAvgTurnover float64 `yaml:"max_avg_turnover" json:"max_avg_turnover" default:"3.5"`
	TurnoverWindow int     `yaml:"turnover_window" json:"turnover_window" default:"30"`
	MA60Potential  float64 `yaml:"ma60_potential" json:"ma60_potential" default:"0.1"`
	MaxPctChg      float64 `yaml:"max_pct_chg" json:"max_pct_chg" default:"2"`
	RSI6Max        float64 `yaml:"rsi6_max" json:"rsi6_max" default:"35"`
	KDJKMax        float64 `yaml:"kdj_k_max" json:"kdj_k_max" default:"40"`
	VolRatioMin    float64 `yaml:"vol_ratio_min" json:"vol_ratio_min" default:"0.2"`
	VolRatioMax    float64 `yaml:"vol_ratio_max" json:"vol_ratio_max" default:"1.05"`
}

// SupportRetest 回踩支撑
type SupportRetest struct {
	PriceMin   float64 `yaml:"price_min" json:"price_min" default:"5"`
	PriceMax   float64 `yaml:"price_max" json:"price_max" default:"35"`
	MinBars    int     `yaml:"min_bars" json:"min_bars" default:"30"`
	Lookback   int     `yaml:"lookback" json:"lookback" default:"10"`
	Separation float64 `yaml:"separation" json:"separation" default:"0.08"`
	TouchBand  float64 `yaml:"touch_band" json:"touch_band" default:"1.01"`
}

// Catalog 市场猛兽 16 条共振规则
type Catalog struct {
	PriceMin      float64 `yaml:"price_min" json:"price_min" default:"5"`
	PriceMax      float64 `yaml:"price_max" json:"price_max" default:"45"`
	MinBars       int     `yaml:"min_bars" json:"min_bars" default:"250"`
	LimitUpPct    float64 `yaml:"limit_up_pct" json:"limit_up_pct" default:"9.5"`
	VolumeSurge   float64 `yaml:"volume_surge" json:"volume_surge" default:"1.8"`
	HotMoneySurge float64 `yaml:"hot_money_surge" json:"hot_money_surge" default:"2"`
}
