package contracts

import "time"

// LedgerEntry is one persisted pick
// ⭐ SSOT: 원장은 ledger 패키지만 읽고 씀
type LedgerEntry struct {
	Date         time.Time `json:"date"`
	Code         string    `json:"code"`
	Name         string    `json:"name"`
	StrategyList string    `json:"strategy_list"` // comma-joined ids
	Price        float64   `json:"price"`
}

// LedgerStateVersion is the current persisted state format
const LedgerStateVersion = 1

// LedgerState is the versioned cumulative statistic record
type LedgerState struct {
	Version        int       `json:"version"`
	TotalReturn    float64   `json:"total_return"` // sum of daily mean forward returns, %, 2dp
	LastReconciled time.Time `json:"last_reconciled,omitempty"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// PickReturn is the forward return of one reconciled pick
type PickReturn struct {
	Code       string  `json:"code"`
	Name       string  `json:"name"`
	EntryPrice float64 `json:"entry_price"`
	Price      float64 `json:"price"`
	ReturnPct  float64 `json:"return_pct"`
}

// PerformanceSummary reports the reconciliation of the prior date's picks
type PerformanceSummary struct {
	Available   bool         `json:"available"`
	Reason      string       `json:"reason,omitempty"` // why not available
	PriorDate   time.Time    `json:"prior_date,omitempty"`
	Date        time.Time    `json:"date"`
	Matched     int          `json:"matched"`
	MeanReturn  float64      `json:"mean_return"`
	WinRate     float64      `json:"win_rate"` // 0..1
	TotalReturn float64      `json:"total_return"`
	Picks       []PickReturn `json:"picks,omitempty"`
}
