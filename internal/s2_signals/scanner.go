package s2_signals

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/wonny/dahai/internal/contracts"
	"github.com/wonny/dahai/internal/indicator"
	"github.com/wonny/dahai/pkg/logger"
)

// SeriesLoader reads the daily history of one symbol
type SeriesLoader interface {
	Load(code string) (*contracts.TimeSeries, error)
}

// PriceFilter applies the universe price band to a last close.
// It returns the exclusion reason, or "" when the price is admitted.
type PriceFilter interface {
	CheckPrice(close float64) string
}

// Scanner runs every registered strategy over every symbol of a universe
// ⭐ SSOT: S2 全市场扫描 (fan-out → fan-in) 只在这里
type Scanner struct {
	loader   SeriesLoader
	filter   PriceFilter
	registry *Registry
	workers  int
	logger   *logger.Logger
}

// NewScanner creates a scanner with a bounded worker pool
func NewScanner(loader SeriesLoader, filter PriceFilter, registry *Registry, workers int, log *logger.Logger) *Scanner {
	if workers < 1 {
		workers = 1
	}
	return &Scanner{
		loader:   loader,
		filter:   filter,
		registry: registry,
		workers:  workers,
		logger:   log,
	}
}

// Registry returns the strategy set the scanner evaluates
func (s *Scanner) Registry() *Registry {
	return s.registry
}

// symbolResult is what one worker hands back for one code
type symbolResult struct {
	signals []contracts.StrategySignal
	price   float64
	loaded  bool
	stats   *contracts.ScanStats
}

// Scan evaluates the universe and returns once every symbol is done.
// Per-symbol failures never abort the run; only cancellation does.
func (s *Scanner) Scan(ctx context.Context, universe *contracts.Universe, date time.Time) (*contracts.ScanResult, error) {
	start := time.Now()
	s.logger.WithFields(map[string]interface{}{
		"date":        date.Format("2006-01-02"),
		"stock_count": len(universe.Stocks),
		"strategies":  s.registry.Len(),
		"workers":     s.workers,
	}).Info("Starting universe scan")

	result := &contracts.ScanResult{
		Date:    date,
		Signals: []contracts.StrategySignal{},
		Prices:  make(map[string]float64),
		Stats:   contracts.NewScanStats(),
	}
	result.Stats.Universe = len(universe.Stocks)

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for _, code := range universe.Stocks {
		if gctx.Err() != nil {
			break
		}
		code := code
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res := s.scanSymbol(code, universe.NameOf(code))

			mu.Lock()
			defer mu.Unlock()
			result.Stats.Merge(res.stats)
			if res.loaded {
				result.Prices[code] = res.price
			}
			result.Signals = append(result.Signals, res.signals...)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("scan cancelled: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("scan cancelled: %w", err)
	}

	s.sortSignals(result.Signals)

	s.logger.WithFields(map[string]interface{}{
		"loaded":        result.Stats.Loaded,
		"evaluated":     result.Stats.Evaluated,
		"short_history": result.Stats.ShortHistory,
		"out_of_band":   result.Stats.OutOfBand,
		"failed":        result.Stats.Failed,
		"signals":       len(result.Signals),
		"duration_ms":   time.Since(start).Milliseconds(),
	}).Info("Universe scan completed")

	return result, nil
}

// scanSymbol never panics and never returns an error: failures land in stats.Failed
func (s *Scanner) scanSymbol(code, name string) (res symbolResult) {
	res.stats = contracts.NewScanStats()

	defer func() {
		if r := recover(); r != nil {
			s.logger.WithFields(map[string]interface{}{
				"code":  code,
				"panic": fmt.Sprint(r),
			}).Error("Strategy evaluation panicked")
			res.signals = nil
			res.stats = contracts.NewScanStats()
			res.stats.Failed = 1
			if res.loaded {
				res.stats.Loaded = 1
			}
		}
	}()

	series, err := s.loader.Load(code)
	if err != nil {
		s.logger.WithFields(map[string]interface{}{
			"code":  code,
			"error": err.Error(),
		}).Warn("Failed to load series")
		res.stats.Failed = 1
		return res
	}
	if series.Len() == 0 {
		res.stats.ShortHistory = 1
		return res
	}

	last := series.Last()
	res.loaded = true
	res.price = last.Close
	res.stats.Loaded = 1

	if series.Len() < s.registry.MinBars() {
		res.stats.ShortHistory = 1
		return res
	}
	if s.filter != nil {
		if reason := s.filter.CheckPrice(last.Close); reason != "" {
			res.stats.OutOfBand = 1
			return res
		}
	}

	ind := indicator.Compute(series)
	res.stats.Evaluated = 1

	for _, st := range s.registry.All() {
		v, ok := st.Evaluate(series, ind)
		if !ok {
			if v.Reject != "" {
				res.stats.Rejects[st.ID()+":"+v.Reject]++
			}
			continue
		}
		side := v.Side
		if side == "" {
			side = contracts.SideBuy
		}
		res.signals = append(res.signals, contracts.StrategySignal{
			Code:       code,
			Name:       name,
			StrategyID: st.ID(),
			Date:       last.Date,
			Price:      last.Close,
			PctChg:     last.PctChg,
			Side:       side,
			Label:      v.Label,
		})
		res.stats.Hits[st.ID()]++
	}

	return res
}

// sortSignals orders by registry position, then code
func (s *Scanner) sortSignals(signals []contracts.StrategySignal) {
	sort.SliceStable(signals, func(i, j int) bool {
		oi, oj := s.registry.Order(signals[i].StrategyID), s.registry.Order(signals[j].StrategyID)
		if oi != oj {
			return oi < oj
		}
		return signals[i].Code < signals[j].Code
	})
}
