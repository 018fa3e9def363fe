package s2_signals

import (
	"fmt"

	"github.com/wonny/dahai/internal/strategyconfig"
)

// Registry is the fixed, ordered set of active strategies
// ⭐ SSOT: 策略顺序 (报告 / 共振列表 / 排序) 只在这里定义
type Registry struct {
	strategies []Strategy
	index      map[string]int
	minBars    int
}

// NewRegistry builds every strategy family from cfg, in registry order,
// leaving out the ids listed in cfg.Strategies.Disabled.
func NewRegistry(cfg *strategyconfig.Config) (*Registry, error) {
	st := cfg.Strategies

	all := []Strategy{
		newOneSun(st.OneSun),
		newGoldenPit(st.GoldenPit),
		newDuckHunter(st.DuckHunter),
		newTrendSelect(st.TrendSelect),
		newMACDDivergence(st.MACDDivergence),
		newWillowPull(st.WillowPull),
		newYangjiaLowBuy(st.YangjiaLowBuy),
		newDragonReturns(st.DragonReturns),
		newYinLine(st.YinLine),
		newMildLowBuy(st.MildLowBuy),
		newSupportRetest(st.SupportRetest),
	}
	all = append(all, newCatalog(st.Catalog)...)

	known := make(map[string]bool, len(all))
	for _, s := range all {
		known[s.ID()] = true
	}
	disabled := make(map[string]bool, len(st.Disabled))
	for _, id := range st.Disabled {
		if !known[id] {
			return nil, fmt.Errorf("disabled strategy %q: unknown id", id)
		}
		disabled[id] = true
	}

	r := &Registry{index: make(map[string]int)}
	for _, s := range all {
		if disabled[s.ID()] {
			continue
		}
		r.index[s.ID()] = len(r.strategies)
		r.strategies = append(r.strategies, s)
		if r.minBars == 0 || s.MinBars() < r.minBars {
			r.minBars = s.MinBars()
		}
	}
	if len(r.strategies) == 0 {
		return nil, fmt.Errorf("no strategies enabled")
	}

	return r, nil
}

// All returns the active strategies in registry order
func (r *Registry) All() []Strategy {
	return r.strategies
}

// Len returns the number of active strategies
func (r *Registry) Len() int {
	return len(r.strategies)
}

// Lookup finds a strategy by id
func (r *Registry) Lookup(id string) (Strategy, bool) {
	i, ok := r.index[id]
	if !ok {
		return nil, false
	}
	return r.strategies[i], true
}

// IDs returns the active ids in registry order
func (r *Registry) IDs() []string {
	ids := make([]string, len(r.strategies))
	for i, s := range r.strategies {
		ids[i] = s.ID()
	}
	return ids
}

// Guide returns the action guide of a strategy, empty when unknown
func (r *Registry) Guide(id string) string {
	if s, ok := r.Lookup(id); ok {
		return s.Guide()
	}
	return ""
}

// Order returns the registry position of id; unknown ids sort last
func (r *Registry) Order(id string) int {
	if i, ok := r.index[id]; ok {
		return i
	}
	return len(r.strategies)
}

// MinBars is the smallest history any active strategy accepts.
// Shorter series are skipped before indicators are computed.
func (r *Registry) MinBars() int {
	return r.minBars
}
