package s1_universe

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/wonny/dahai/internal/contracts"
)

// Builder constructs the eligible universe from codes and names.
// Prefix and name checks run here with no I/O; the price band is applied
// by the scanner right after a series is loaded (CheckPrice).
type Builder struct {
	config      Config
	namePattern *regexp.Regexp
}

// Config holds universe filter criteria
type Config struct {
	AllowPrefixes      []string `yaml:"allow_prefixes"`       // 60 沪主板, 00 深主板
	DenyPrefixes       []string `yaml:"deny_prefixes"`        // 30 创业板, 68 科创板
	ExcludeNamePattern string   `yaml:"exclude_name_pattern"` // ST / 退市风险
	PriceMin           float64  `yaml:"price_min"`
	PriceMax           float64  `yaml:"price_max"`
}

// DefaultConfig returns the main-board filter with the widest strategy price band
func DefaultConfig() Config {
	return Config{
		AllowPrefixes:      []string{"60", "00"},
		DenyPrefixes:       []string{"30", "68"},
		ExcludeNamePattern: `(?i)ST|退`,
		PriceMin:           5,
		PriceMax:           45,
	}
}

// NewBuilder creates a new Universe Builder
func NewBuilder(config Config) (*Builder, error) {
	b := &Builder{config: config}
	if config.ExcludeNamePattern != "" {
		re, err := regexp.Compile(config.ExcludeNamePattern)
		if err != nil {
			return nil, fmt.Errorf("compile exclude_name_pattern: %w", err)
		}
		b.namePattern = re
	}
	if config.PriceMax > 0 && config.PriceMin > config.PriceMax {
		return nil, fmt.Errorf("price band inverted: min %.2f > max %.2f", config.PriceMin, config.PriceMax)
	}
	return b, nil
}

// Config returns the filter criteria
func (b *Builder) Config() Config {
	return b.config
}

// Build constructs the eligible universe
// ⭐ SSOT: S1 → S2 股票池生成
func (b *Builder) Build(date time.Time, codes []string, names map[string]string) *contracts.Universe {
	universe := &contracts.Universe{
		Date:       date,
		Stocks:     make([]string, 0, len(codes)),
		Names:      make(map[string]string, len(codes)),
		Excluded:   make(map[string]string),
		TotalCount: len(codes),
	}

	for _, code := range codes {
		name := names[code]
		if reason := b.checkExclusion(code, name); reason != "" {
			universe.Excluded[code] = reason
			continue
		}
		universe.Stocks = append(universe.Stocks, code)
		if name != "" {
			universe.Names[code] = name
		}
	}

	sort.Strings(universe.Stocks)
	return universe
}

// checkExclusion returns the exclusion reason, "" when eligible
func (b *Builder) checkExclusion(code, name string) string {
	// 1. 板块黑名单
	for _, p := range b.config.DenyPrefixes {
		if strings.HasPrefix(code, p) {
			return fmt.Sprintf("denied board (%s)", p)
		}
	}

	// 2. 板块白名单
	if len(b.config.AllowPrefixes) > 0 {
		allowed := false
		for _, p := range b.config.AllowPrefixes {
			if strings.HasPrefix(code, p) {
				allowed = true
				break
			}
		}
		if !allowed {
			return "board not allowed"
		}
	}

	// 3. ST / 退市
	if b.namePattern != nil && name != "" && b.namePattern.MatchString(name) {
		return fmt.Sprintf("name excluded (%s)", name)
	}

	return ""
}

// CheckPrice applies the price band to the latest close, "" when inside
func (b *Builder) CheckPrice(close float64) string {
	if b.config.PriceMin > 0 && close < b.config.PriceMin {
		return fmt.Sprintf("price below band (%.2f)", close)
	}
	if b.config.PriceMax > 0 && close > b.config.PriceMax {
		return fmt.Sprintf("price above band (%.2f)", close)
	}
	return ""
}
