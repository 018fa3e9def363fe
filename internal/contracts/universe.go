package contracts

import "time"

// Universe represents eligible stocks passed from S1 to S2
// ⭐ SSOT: S1 → S2 可选股票池
type Universe struct {
	Date       time.Time         `json:"date"`
	Stocks     []string          `json:"stocks"`                // eligible codes
	Names      map[string]string `json:"names"`                 // code → display name
	Excluded   map[string]string `json:"excluded"`              // code → reason
	TotalCount int               `json:"total_count,omitempty"` // codes before filtering
}

// Contains checks if a stock code is in the universe
func (u *Universe) Contains(code string) bool {
	for _, stock := range u.Stocks {
		if stock == code {
			return true
		}
	}
	return false
}

// IsExcluded checks if a stock code is excluded with reason
func (u *Universe) IsExcluded(code string) (bool, string) {
	reason, exists := u.Excluded[code]
	return exists, reason
}

// Count returns the number of eligible stocks
func (u *Universe) Count() int {
	return len(u.Stocks)
}

// NameOf returns the display name, "unknown" when the mapping lacks the code
func (u *Universe) NameOf(code string) string {
	if name, ok := u.Names[code]; ok && name != "" {
		return name
	}
	return UnknownName
}

// UnknownName is the display name used when no mapping exists
const UnknownName = "unknown"
