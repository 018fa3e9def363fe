package ledger

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wonny/dahai/internal/confluence"
	"github.com/wonny/dahai/internal/contracts"
)

// Reasons reported when no reconciliation takes place
const (
	ReasonNoHistory   = "no prior history"
	ReasonSameDay     = "already reconciled today"
	ReasonNotBefore   = "latest history date is after today"
	ReasonNoneMatched = "no prior pick has a price today"
)

// Input is everything one reconciliation reads
type Input struct {
	Date    time.Time
	Now     time.Time
	Picks   []contracts.ResonanceRecord
	Prices  map[string]float64 // today's universe snapshot
	History []contracts.LedgerEntry
	State   contracts.LedgerState
}

// Result is the reconciled summary plus what must be persisted
type Result struct {
	Date    time.Time
	Entries []contracts.LedgerEntry // today's picks
	History []contracts.LedgerEntry // full log, today's date replaced
	State   contracts.LedgerState
	Summary contracts.PerformanceSummary
}

// Reconcile compares the latest prior date's picks with today's prices.
// It is pure: the same input always yields the same result.
func Reconcile(in Input) Result {
	today := dayKey(in.Date)

	entries := make([]contracts.LedgerEntry, 0, len(in.Picks))
	for _, p := range in.Picks {
		entries = append(entries, contracts.LedgerEntry{
			Date:         in.Date,
			Code:         p.Code,
			Name:         p.Name,
			StrategyList: confluence.StrategyList(p),
			Price:        round2(p.Price),
		})
	}

	// replace-by-date: any row already logged for today is dropped.
	// prior is the most recent logged date strictly before today.
	kept := make([]contracts.LedgerEntry, 0, len(in.History)+len(entries))
	var prior, latest string
	for _, e := range in.History {
		k := dayKey(e.Date)
		if k > latest {
			latest = k
		}
		if k < today && k > prior {
			prior = k
		}
		if k != today {
			kept = append(kept, e)
		}
	}

	state := in.State
	if state.Version == 0 {
		state.Version = contracts.LedgerStateVersion
	}
	state.UpdatedAt = in.Now

	summary := contracts.PerformanceSummary{Date: in.Date, TotalReturn: state.TotalReturn}

	switch {
	case latest > today:
		summary.Reason = ReasonNotBefore
	case !state.LastReconciled.IsZero() && dayKey(state.LastReconciled) == today:
		summary.Reason = ReasonSameDay
	case prior == "":
		summary.Reason = ReasonNoHistory
	default:
		var mean decimal.Decimal
		summary, mean = reconcilePrior(in, kept, prior, summary)
		if summary.Available {
			state.TotalReturn = decimal.NewFromFloat(state.TotalReturn).Add(mean).Round(2).InexactFloat64()
			state.LastReconciled = in.Date
			summary.TotalReturn = state.TotalReturn
		}
	}

	history := append(kept, entries...)
	sortEntries(history)

	return Result{
		Date:    in.Date,
		Entries: entries,
		History: history,
		State:   state,
		Summary: summary,
	}
}

// reconcilePrior also returns the unrounded mean so the running total
// accumulates before rounding
func reconcilePrior(in Input, history []contracts.LedgerEntry, prior string, summary contracts.PerformanceSummary) (contracts.PerformanceSummary, decimal.Decimal) {
	seen := make(map[string]bool)
	total := decimal.Zero
	wins := 0

	for _, e := range history {
		if dayKey(e.Date) != prior || seen[e.Code] {
			continue
		}
		summary.PriorDate = e.Date
		price, ok := in.Prices[e.Code]
		if !ok || e.Price <= 0 {
			continue
		}
		seen[e.Code] = true

		entry := decimal.NewFromFloat(e.Price)
		ret := decimal.NewFromFloat(price).Sub(entry).Div(entry).Mul(decimal.NewFromInt(100))
		total = total.Add(ret)
		if ret.IsPositive() {
			wins++
		}

		summary.Picks = append(summary.Picks, contracts.PickReturn{
			Code:       e.Code,
			Name:       e.Name,
			EntryPrice: e.Price,
			Price:      price,
			ReturnPct:  ret.Round(2).InexactFloat64(),
		})
	}

	if len(summary.Picks) == 0 {
		summary.Reason = ReasonNoneMatched
		return summary, decimal.Zero
	}

	n := len(summary.Picks)
	summary.Available = true
	summary.Matched = n
	mean := total.Div(decimal.NewFromInt(int64(n)))
	summary.MeanReturn = mean.Round(2).InexactFloat64()
	summary.WinRate = float64(wins) / float64(n)
	return summary, mean
}

func dayKey(t time.Time) string {
	return t.Format("20060102")
}

func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

func sortEntries(entries []contracts.LedgerEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		di, dj := dayKey(entries[i].Date), dayKey(entries[j].Date)
		if di != dj {
			return di < dj
		}
		return entries[i].Code < entries[j].Code
	})
}
