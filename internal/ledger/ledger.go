package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/dahai/internal/confluence"
	"github.com/wonny/dahai/internal/contracts"
	"github.com/wonny/dahai/pkg/logger"
)

// Ledger implements S4: pick log, forward-return reconciliation and the running total
// ⭐ SSOT: 每次运行最多调用一次 Run, 且在全部信号汇总之后
type Ledger struct {
	store        Store
	minResonance int
	logger       *logger.Logger
	now          func() time.Time
}

// New creates a ledger. Records with resonance below minResonance are not logged.
func New(store Store, minResonance int, log *logger.Logger) *Ledger {
	if minResonance < 1 {
		minResonance = 1
	}
	return &Ledger{
		store:        store,
		minResonance: minResonance,
		logger:       log,
		now:          time.Now,
	}
}

// Run loads the ledger, reconciles today's picks against the prior date and saves
func (l *Ledger) Run(ctx context.Context, date time.Time, records []contracts.ResonanceRecord, prices map[string]float64) (*Result, error) {
	history, err := l.store.LoadHistory(ctx)
	if err != nil {
		return nil, fmt.Errorf("load ledger history: %w", err)
	}
	state, err := l.store.LoadState(ctx)
	if err != nil {
		return nil, fmt.Errorf("load ledger state: %w", err)
	}

	res := Reconcile(Input{
		Date:    date,
		Now:     l.now(),
		Picks:   confluence.Picks(records, l.minResonance),
		Prices:  prices,
		History: history,
		State:   state,
	})

	if err := l.store.Save(ctx, &res); err != nil {
		return nil, fmt.Errorf("save ledger: %w", err)
	}

	fields := map[string]interface{}{
		"date":         date.Format("2006-01-02"),
		"picks":        len(res.Entries),
		"history":      len(res.History),
		"total_return": res.State.TotalReturn,
	}
	if res.Summary.Available {
		fields["prior_date"] = res.Summary.PriorDate.Format("2006-01-02")
		fields["matched"] = res.Summary.Matched
		fields["mean_return"] = res.Summary.MeanReturn
		fields["win_rate"] = res.Summary.WinRate
		l.logger.WithFields(fields).Info("Ledger reconciled")
	} else {
		fields["reason"] = res.Summary.Reason
		l.logger.WithFields(fields).Info("Ledger saved without reconciliation")
	}

	return &res, nil
}

// State returns the persisted cumulative record
func (l *Ledger) State(ctx context.Context) (contracts.LedgerState, error) {
	return l.store.LoadState(ctx)
}

// MinResonance is the pick threshold
func (l *Ledger) MinResonance() int {
	return l.minResonance
}

// History returns the full pick log ordered by date, then code
func (l *Ledger) History(ctx context.Context) ([]contracts.LedgerEntry, error) {
	return l.store.LoadHistory(ctx)
}
