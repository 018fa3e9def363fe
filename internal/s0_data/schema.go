package s0_data

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Column is a canonical bar column
type Column string

const (
	ColDate     Column = "date"
	ColCode     Column = "code"
	ColOpen     Column = "open"
	ColHigh     Column = "high"
	ColLow      Column = "low"
	ColClose    Column = "close"
	ColVolume   Column = "volume"
	ColAmount   Column = "amount"
	ColTurnover Column = "turnover"
	ColPctChg   Column = "pct_chg"
)

// RequiredColumns must resolve in every series file
var RequiredColumns = []Column{ColDate, ColOpen, ColHigh, ColLow, ColClose, ColVolume}

var knownColumns = map[Column]bool{
	ColDate: true, ColCode: true, ColOpen: true, ColHigh: true, ColLow: true,
	ColClose: true, ColVolume: true, ColAmount: true, ColTurnover: true, ColPctChg: true,
}

// defaultAliases maps localized display names (akshare / 东方财富 exports) and English headers
var defaultAliases = map[Column][]string{
	ColDate:     {"日期", "date", "trade_date"},
	ColCode:     {"股票代码", "代码", "code", "symbol"},
	ColOpen:     {"开盘", "open"},
	ColHigh:     {"最高", "high"},
	ColLow:      {"最低", "low"},
	ColClose:    {"收盘", "close"},
	ColVolume:   {"成交量", "volume", "vol"},
	ColAmount:   {"成交额", "amount"},
	ColTurnover: {"换手率", "turnover", "turn"},
	ColPctChg:   {"涨跌幅", "pct_chg", "pctchg", "change_pct"},
}

// Schema is the single header → canonical column table used at ingestion.
// ⭐ SSOT: 列名映射只在这里做, 指标与策略只看标准列
type Schema struct {
	aliases map[string]Column
}

// schemaFile is the YAML layout of an optional column map override
//
//	columns:
//	  close: ["收盘价"]
//	  volume: ["成交量(手)"]
type schemaFile struct {
	Columns map[string][]string `yaml:"columns"`
}

// DefaultSchema returns the built-in mapping
func DefaultSchema() *Schema {
	s, err := NewSchema(nil)
	if err != nil {
		// built-in table is static; a failure here is a programming error
		panic(err)
	}
	return s
}

// NewSchema builds the default table extended with extra aliases and validates it once
func NewSchema(extra map[Column][]string) (*Schema, error) {
	s := &Schema{aliases: make(map[string]Column)}

	add := func(col Column, names []string) error {
		if !knownColumns[col] {
			return fmt.Errorf("unknown column %q", col)
		}
		for _, n := range names {
			key := normalizeHeader(n)
			if key == "" {
				return fmt.Errorf("empty alias for column %q", col)
			}
			if prev, ok := s.aliases[key]; ok && prev != col {
				return fmt.Errorf("alias %q maps to both %q and %q", n, prev, col)
			}
			s.aliases[key] = col
		}
		return nil
	}

	for col, names := range defaultAliases {
		if err := add(col, names); err != nil {
			return nil, err
		}
	}
	for col, names := range extra {
		if err := add(col, names); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// LoadSchema reads a YAML column map and merges it over the defaults.
// An empty path returns the default schema.
func LoadSchema(path string) (*Schema, error) {
	if path == "" {
		return DefaultSchema(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read column map: %w", err)
	}

	var f schemaFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("parse column map: %w", err)
	}

	extra := make(map[Column][]string, len(f.Columns))
	for k, v := range f.Columns {
		extra[Column(strings.ToLower(k))] = v
	}

	s, err := NewSchema(extra)
	if err != nil {
		return nil, fmt.Errorf("invalid column map %s: %w", path, err)
	}
	return s, nil
}

// Resolve maps a header row to canonical column indices.
// Unknown headers are ignored; a missing required column is an error.
func (s *Schema) Resolve(header []string) (map[Column]int, error) {
	idx := make(map[Column]int, len(header))
	for i, h := range header {
		col, ok := s.aliases[normalizeHeader(h)]
		if !ok {
			continue
		}
		if _, dup := idx[col]; !dup {
			idx[col] = i
		}
	}

	var missing []string
	for _, col := range RequiredColumns {
		if _, ok := idx[col]; !ok {
			missing = append(missing, string(col))
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ","))
	}
	return idx, nil
}

func normalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	return strings.ToLower(strings.TrimSpace(h))
}
