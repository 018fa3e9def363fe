package s0_data

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var (
	codeHeaders = map[string]bool{"code": true, "代码": true, "股票代码": true, "symbol": true}
	nameHeaders = map[string]bool{"name": true, "名称": true, "股票名称": true, "简称": true}
)

// LoadNames reads a code,name listing. A missing file yields an empty map
// (names then default to "unknown"); found=false tells the caller to log it.
func LoadNames(path string) (names map[string]string, found bool, err error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, false, nil
		}
		return nil, false, fmt.Errorf("open names file: %w", err)
	}
	defer f.Close()

	names, err = ParseNames(f)
	if err != nil {
		return nil, true, fmt.Errorf("parse names file %s: %w", path, err)
	}
	return names, true, nil
}

// ParseNames decodes a listing with an optional header row.
// Without a recognised header, column 0 is the code and column 1 the name.
func ParseNames(r io.Reader) (map[string]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}

	names := make(map[string]string, len(rows))
	if len(rows) == 0 {
		return names, nil
	}

	codeIdx, nameIdx := 0, 1
	start := 0
	for i, h := range rows[0] {
		key := normalizeHeader(h)
		if codeHeaders[key] {
			codeIdx, start = i, 1
		}
		if nameHeaders[key] {
			nameIdx, start = i, 1
		}
	}

	for _, row := range rows[start:] {
		if codeIdx >= len(row) || nameIdx >= len(row) {
			continue
		}
		code := NormalizeCode(row[codeIdx])
		if code == "" {
			continue
		}
		names[code] = strings.TrimSpace(row[nameIdx])
	}
	return names, nil
}

// NormalizeCode left-pads numeric codes to 6 digits ("1" → "000001")
// and strips exchange prefixes such as "sh600000" or "600000.SH".
func NormalizeCode(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.TrimPrefix(strings.TrimPrefix(s, "sh"), "sz")
	if i := strings.IndexByte(s, '.'); i >= 0 {
		s = s[:i]
	}
	if s == "" || len(s) > 6 {
		return ""
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return ""
		}
	}
	return strings.Repeat("0", 6-len(s)) + s
}
