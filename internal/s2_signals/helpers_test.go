package s2_signals

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/dahai/internal/contracts"
	"github.com/wonny/dahai/internal/strategyconfig"
)

var day0 = time.Date(2024, 1, 2, 0, 0, 0, 0, time.Local)

// flatSeries returns n identical bars at price c with volume v
func flatSeries(n int, c, v float64) *contracts.TimeSeries {
	s := &contracts.TimeSeries{Code: "600000"}
	for i := 0; i < n; i++ {
		s.Bars = append(s.Bars, contracts.Bar{
			Date: day0.AddDate(0, 0, i), Open: c, High: c + 0.1, Low: c - 0.1, Close: c,
			Volume: v, Amount: c * v, Turnover: math.NaN(), PctChg: 0,
		})
	}
	return s
}

// blankIndicators returns an indicator set of length n with every value undefined
func blankIndicators(n int) *contracts.IndicatorSet {
	nan := func() []float64 {
		out := make([]float64, n)
		for i := range out {
			out[i] = math.NaN()
		}
		return out
	}
	return &contracts.IndicatorSet{
		MA5: nan(), MA10: nan(), MA20: nan(), MA34: nan(), MA60: nan(), MA120: nan(), MA250: nan(),
		EMA12: nan(), EMA26: nan(), Diff: nan(), DEA: nan(), Hist: nan(),
		RSI6: nan(), KDJK: nan(),
		VolMA5: nan(), VolMA5Prev: nan(), VolMA20: nan(), VolRatio: nan(),
	}
}

func fill(vals []float64, v float64) {
	for i := range vals {
		vals[i] = v
	}
}

func defaultConfig(t *testing.T) *strategyconfig.Config {
	t.Helper()
	cfg, err := strategyconfig.Default()
	require.NoError(t, err)
	return cfg
}

func defaultRegistry(t *testing.T) *Registry {
	t.Helper()
	r, err := NewRegistry(defaultConfig(t))
	require.NoError(t, err)
	return r
}

type ruleCase struct {
	name      string
	mutate    func(s *contracts.TimeSeries, ind *contracts.IndicatorSet)
	wantFired bool
	wantLabel string
}

// runRuleCases evaluates each case against a fresh fixture. Every case is past the
// history and band gates, so a miss carries no reject code.
func runRuleCases(t *testing.T, s Strategy, fixture func() (*contracts.TimeSeries, *contracts.IndicatorSet), cases []ruleCase) {
	t.Helper()
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			series, ind := fixture()
			if tt.mutate != nil {
				tt.mutate(series, ind)
			}
			v, fired := s.Evaluate(series, ind)
			assert.Equal(t, tt.wantFired, fired)
			assert.Empty(t, v.Reject)
			if tt.wantFired {
				assert.Equal(t, tt.wantLabel, v.Label)
			}
		})
	}
}
