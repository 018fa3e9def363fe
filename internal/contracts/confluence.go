package contracts

import "time"

// Tier is a display grouping of resonance records
type Tier string

const (
	TierCore  Tier = "core"  // resonance ≥ 3
	TierWatch Tier = "watch" // resonance == 2
	TierNone  Tier = ""
)

// ResonanceRecord summarises all strategies firing on one symbol on one date
// ⭐ SSOT: S3 → S4 / report, 매 실행마다 새로 계산
type ResonanceRecord struct {
	Code           string    `json:"code"`
	Name           string    `json:"name"`
	Date           time.Time `json:"date"`
	Strategies     []string  `json:"strategies"` // registry order, distinct
	ResonanceCount int       `json:"resonance_count"`
	ActionGuide    string    `json:"action_guide"`
	Price          float64   `json:"price"`
}

// TierOf maps a resonance count to its display tier
func TierOf(count int) Tier {
	switch {
	case count >= 3:
		return TierCore
	case count == 2:
		return TierWatch
	default:
		return TierNone
	}
}

// Tier returns the record's display tier
func (r ResonanceRecord) Tier() Tier {
	return TierOf(r.ResonanceCount)
}

// ConfluenceSnapshot is the published form of one run's resonance report
type ConfluenceSnapshot struct {
	Date        string            `json:"date"` // YYYYMMDD, empty when read back from the report file
	GeneratedAt time.Time         `json:"generated_at"`
	Core        int               `json:"core"`
	Watch       int               `json:"watch"`
	Records     []ResonanceRecord `json:"records"`
}
