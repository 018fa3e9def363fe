package s0_data

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/wonny/dahai/internal/contracts"
)

var codePattern = regexp.MustCompile(`^\d{6}$`)

// dateLayouts accepted in the date column, tried in order
var dateLayouts = []string{
	"2006-01-02",
	"20060102",
	"2006/01/02",
	"2006-01-02 15:04:05",
	"2006/1/2",
}

// Loader reads per-symbol daily series from <dir>/<code>.csv
// ⭐ SSOT: 日线文件只在这里解析
type Loader struct {
	dir    string
	schema *Schema
}

// NewLoader creates a loader; a nil schema uses DefaultSchema
func NewLoader(dir string, schema *Schema) *Loader {
	if schema == nil {
		schema = DefaultSchema()
	}
	return &Loader{dir: dir, schema: schema}
}

// Dir returns the data directory
func (l *Loader) Dir() string {
	return l.dir
}

// ListCodes returns the sorted 6-digit codes that have a series file.
// A missing directory is a run-level failure.
func (l *Loader) ListCodes() ([]string, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", contracts.ErrDataDirMissing, l.dir)
		}
		return nil, fmt.Errorf("read data dir: %w", err)
	}

	codes := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".csv") {
			continue
		}
		stem := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		if codePattern.MatchString(stem) {
			codes = append(codes, stem)
		}
	}
	sort.Strings(codes)
	return codes, nil
}

// Load reads and validates one symbol's series
func (l *Loader) Load(code string) (*contracts.TimeSeries, error) {
	f, err := os.Open(filepath.Join(l.dir, code+".csv"))
	if err != nil {
		return nil, fmt.Errorf("open series %s: %w", code, err)
	}
	defer f.Close()

	return ParseSeries(code, f, l.schema)
}

// ParseSeries decodes a CSV series through schema
func ParseSeries(code string, r io.Reader, schema *Schema) (*contracts.TimeSeries, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: %s: empty file", contracts.ErrMalformedSeries, code)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: read header: %v", contracts.ErrMalformedSeries, code, err)
	}

	idx, err := schema.Resolve(header)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", contracts.ErrMalformedSeries, code, err)
	}

	series := &contracts.TimeSeries{Code: code}
	line := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("%w: %s line %d: %v", contracts.ErrMalformedSeries, code, line, err)
		}
		if isBlank(rec) {
			continue
		}

		bar, err := parseBar(rec, idx)
		if err != nil {
			return nil, fmt.Errorf("%w: %s line %d: %v", contracts.ErrMalformedSeries, code, line, err)
		}
		series.Bars = append(series.Bars, bar)
	}

	if len(series.Bars) == 0 {
		return nil, fmt.Errorf("%w: %s: no rows", contracts.ErrMalformedSeries, code)
	}
	if err := series.Validate(); err != nil {
		return nil, err
	}
	series.DerivePctChg()

	return series, nil
}

func parseBar(rec []string, idx map[Column]int) (contracts.Bar, error) {
	var bar contracts.Bar

	date, err := ParseDate(field(rec, idx, ColDate))
	if err != nil {
		return bar, err
	}
	bar.Date = date

	required := []struct {
		col Column
		dst *float64
	}{
		{ColOpen, &bar.Open},
		{ColHigh, &bar.High},
		{ColLow, &bar.Low},
		{ColClose, &bar.Close},
		{ColVolume, &bar.Volume},
	}
	for _, r := range required {
		v, err := parseNumber(field(rec, idx, r.col))
		if err != nil {
			return bar, fmt.Errorf("column %s: %w", r.col, err)
		}
		*r.dst = v
	}

	// optional columns: absent or blank → NaN, present but garbage → error
	optional := []struct {
		col Column
		dst *float64
	}{
		{ColAmount, &bar.Amount},
		{ColTurnover, &bar.Turnover},
		{ColPctChg, &bar.PctChg},
	}
	for _, o := range optional {
		raw := field(rec, idx, o.col)
		if raw == "" {
			*o.dst = math.NaN()
			continue
		}
		v, err := parseNumber(raw)
		if err != nil {
			return bar, fmt.Errorf("column %s: %w", o.col, err)
		}
		*o.dst = v
	}

	return bar, nil
}

func field(rec []string, idx map[Column]int, col Column) string {
	i, ok := idx[col]
	if !ok || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

func parseNumber(raw string) (float64, error) {
	s := strings.TrimSuffix(strings.ReplaceAll(raw, ",", ""), "%")
	if s == "" {
		return 0, fmt.Errorf("empty value")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", raw)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("not finite: %q", raw)
	}
	return v, nil
}

// ParseDate accepts the common exchange export layouts
func ParseDate(raw string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", raw)
}

func isBlank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
