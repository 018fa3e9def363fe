package contracts

import (
	"fmt"
	"math"
	"time"
)

// Bar is one daily OHLCV record. Optional fields are NaN when the source lacks them.
type Bar struct {
	Date     time.Time `json:"date"`
	Open     float64   `json:"open"`
	High     float64   `json:"high"`
	Low      float64   `json:"low"`
	Close    float64   `json:"close"`
	Volume   float64   `json:"volume"`
	Amount   float64   `json:"amount"`   // 成交额, optional
	Turnover float64   `json:"turnover"` // 换手率 %, optional
	PctChg   float64   `json:"pct_chg"`  // 涨跌幅 %, optional (derived when absent)
}

// TimeSeries is the daily history of one symbol
// ⭐ SSOT: S0 → S2 단일 종목 일봉 전달 (strictly increasing dates)
type TimeSeries struct {
	Code string `json:"code"`
	Name string `json:"name"`
	Bars []Bar  `json:"bars"`
}

// Len returns the number of bars
func (s *TimeSeries) Len() int {
	return len(s.Bars)
}

// Last returns the most recent bar. Callers check Len() first.
func (s *TimeSeries) Last() Bar {
	return s.Bars[len(s.Bars)-1]
}

// Back returns the bar k positions before the last one (Back(0) == Last()).
func (s *TimeSeries) Back(k int) Bar {
	return s.Bars[len(s.Bars)-1-k]
}

// Closes returns the close column
func (s *TimeSeries) Closes() []float64 { return s.column(func(b Bar) float64 { return b.Close }) }

// Highs returns the high column
func (s *TimeSeries) Highs() []float64 { return s.column(func(b Bar) float64 { return b.High }) }

// Lows returns the low column
func (s *TimeSeries) Lows() []float64 { return s.column(func(b Bar) float64 { return b.Low }) }

// Volumes returns the volume column
func (s *TimeSeries) Volumes() []float64 { return s.column(func(b Bar) float64 { return b.Volume }) }

func (s *TimeSeries) column(get func(Bar) float64) []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = get(b)
	}
	return out
}

// Validate checks ordering and the required numeric fields
func (s *TimeSeries) Validate() error {
	for i, b := range s.Bars {
		if i > 0 && !b.Date.After(s.Bars[i-1].Date) {
			return fmt.Errorf("%w: %s bar %d date %s not after %s",
				ErrMalformedSeries, s.Code, i, b.Date.Format("2006-01-02"), s.Bars[i-1].Date.Format("2006-01-02"))
		}
		for _, v := range [...]float64{b.Open, b.High, b.Low, b.Close, b.Volume} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%w: %s bar %d has non-finite OHLCV", ErrMalformedSeries, s.Code, i)
			}
		}
	}
	return nil
}

// DerivePctChg fills missing pct_chg from consecutive closes. The first bar stays NaN when absent.
func (s *TimeSeries) DerivePctChg() {
	for i := range s.Bars {
		if !math.IsNaN(s.Bars[i].PctChg) {
			continue
		}
		if i == 0 || s.Bars[i-1].Close == 0 {
			continue
		}
		prev := s.Bars[i-1].Close
		s.Bars[i].PctChg = (s.Bars[i].Close - prev) / prev * 100
	}
}
