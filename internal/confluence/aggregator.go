package confluence

import (
	"sort"
	"strings"

	"github.com/wonny/dahai/internal/contracts"
	"github.com/wonny/dahai/pkg/logger"
)

// Catalog is the registry view the aggregator needs
type Catalog interface {
	Order(id string) int
	Guide(id string) string
}

// Aggregator implements S3: per-symbol resonance of strategy hits
// ⭐ SSOT: 共振计数 / 排序 / 操作指南 只在这里
type Aggregator struct {
	catalog Catalog
	logger  *logger.Logger
}

// NewAggregator creates a new aggregator
func NewAggregator(catalog Catalog, log *logger.Logger) *Aggregator {
	return &Aggregator{
		catalog: catalog,
		logger:  log,
	}
}

// Aggregate groups buy-side signals by (date, code).
// The result is sorted by resonance count descending, then code ascending,
// and does not depend on the order of the input.
func (a *Aggregator) Aggregate(signals []contracts.StrategySignal) []contracts.ResonanceRecord {
	records := Aggregate(signals, a.catalog)

	core, watch := 0, 0
	for _, r := range records {
		switch r.Tier() {
		case contracts.TierCore:
			core++
		case contracts.TierWatch:
			watch++
		}
	}
	a.logger.WithFields(map[string]interface{}{
		"signals": len(signals),
		"records": len(records),
		"core":    core,
		"watch":   watch,
	}).Info("Confluence aggregation completed")

	return records
}

type groupKey struct {
	date string
	code string
}

// Aggregate is the pure form of Aggregator.Aggregate
func Aggregate(signals []contracts.StrategySignal, catalog Catalog) []contracts.ResonanceRecord {
	groups := make(map[groupKey]*contracts.ResonanceRecord)
	fired := make(map[groupKey]map[string]bool)

	for _, sig := range signals {
		if !sig.IsBuy() {
			continue
		}
		key := groupKey{date: sig.Date.Format("20060102"), code: sig.Code}
		rec, ok := groups[key]
		if !ok {
			rec = &contracts.ResonanceRecord{
				Code:  sig.Code,
				Name:  sig.Name,
				Date:  sig.Date,
				Price: sig.Price,
			}
			groups[key] = rec
			fired[key] = make(map[string]bool)
		}
		if fired[key][sig.StrategyID] {
			continue
		}
		fired[key][sig.StrategyID] = true
		rec.Strategies = append(rec.Strategies, sig.StrategyID)
	}

	records := make([]contracts.ResonanceRecord, 0, len(groups))
	for _, rec := range groups {
		ids := rec.Strategies
		sort.SliceStable(ids, func(i, j int) bool {
			oi, oj := catalog.Order(ids[i]), catalog.Order(ids[j])
			if oi != oj {
				return oi < oj
			}
			return ids[i] < ids[j]
		})

		guides := make([]string, 0, len(ids))
		for _, id := range ids {
			guides = append(guides, "["+id+"]: "+catalog.Guide(id))
		}

		rec.ResonanceCount = len(ids)
		rec.ActionGuide = strings.Join(guides, " | ")
		records = append(records, *rec)
	}

	sort.Slice(records, func(i, j int) bool {
		if records[i].ResonanceCount != records[j].ResonanceCount {
			return records[i].ResonanceCount > records[j].ResonanceCount
		}
		if records[i].Code != records[j].Code {
			return records[i].Code < records[j].Code
		}
		return records[i].Date.Before(records[j].Date)
	})

	return records
}

// Tiers groups records for display; records below watch are dropped
type Tiers struct {
	Core  []contracts.ResonanceRecord `json:"core"`
	Watch []contracts.ResonanceRecord `json:"watch"`
}

// Split partitions sorted records into core and watch tiers, preserving order
func Split(records []contracts.ResonanceRecord) Tiers {
	var t Tiers
	for _, r := range records {
		switch r.Tier() {
		case contracts.TierCore:
			t.Core = append(t.Core, r)
		case contracts.TierWatch:
			t.Watch = append(t.Watch, r)
		}
	}
	return t
}

// Picks returns the records whose resonance reaches minCount
func Picks(records []contracts.ResonanceRecord, minCount int) []contracts.ResonanceRecord {
	out := make([]contracts.ResonanceRecord, 0, len(records))
	for _, r := range records {
		if r.ResonanceCount >= minCount {
			out = append(out, r)
		}
	}
	return out
}

// StrategyList joins a record's strategy ids for flat files
func StrategyList(r contracts.ResonanceRecord) string {
	return strings.Join(r.Strategies, ",")
}
