package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wonny/dahai/internal/confluence"
	"github.com/wonny/dahai/internal/contracts"
	"github.com/wonny/dahai/pkg/logger"
)

// File names fixed by the report layout
const (
	ConfluenceFile = "confluence_report.csv"
	MACDBuyFile    = "macd_buy_signal"
	MACDSellFile   = "macd_sell_alert"
	macdID         = "macd_divergence"
)

// UTF-8 BOM so spreadsheet tools detect the encoding of the Chinese names
const bom = "\ufeff"

var (
	signalHeader      = []string{"date", "code", "name", "price", "pct_chg", "label"}
	confluenceHeader  = []string{"code", "name", "strategy_list", "resonance_count", "action_guide", "price"}
	performanceHeader = []string{"prior_date", "date", "code", "name", "entry_price", "price", "return_pct"}
)

// Writer writes the run's CSV artifacts below one output root:
//
//	<out>/confluence_report.csv              latest confluence report
//	<out>/<YYYYMM>/<id>_<YYYYMMDD_HHMMSS>.csv  per-strategy signals
//	<out>/<YYYYMM>/confluence_<stamp>.csv     partitioned confluence copy
//	<out>/<YYYYMM>/performance_<YYYYMMDD>.csv reconciled picks
type Writer struct {
	outDir string
	stamp  time.Time
	logger *logger.Logger
}

// NewWriter creates a writer whose partition and timestamp come from stamp
func NewWriter(outDir string, stamp time.Time, log *logger.Logger) *Writer {
	return &Writer{outDir: outDir, stamp: stamp, logger: log}
}

// OutDir returns the output root
func (w *Writer) OutDir() string {
	return w.outDir
}

func (w *Writer) monthDir() string {
	return filepath.Join(w.outDir, w.stamp.Format("200601"))
}

func (w *Writer) stampString() string {
	return w.stamp.Format("20060102_150405")
}

// WriteSignals writes one file per strategy that fired, in the given order.
// MACD divergence hits are split into buy and sell-alert files.
func (w *Writer) WriteSignals(ids []string, signals []contracts.StrategySignal) ([]string, error) {
	byFile := make(map[string][]contracts.StrategySignal)
	for _, s := range signals {
		name := s.StrategyID
		if name == macdID {
			name = MACDBuyFile
			if !s.IsBuy() {
				name = MACDSellFile
			}
		}
		byFile[name] = append(byFile[name], s)
	}

	var order []string
	for _, id := range ids {
		if id == macdID {
			order = append(order, MACDBuyFile, MACDSellFile)
			continue
		}
		order = append(order, id)
	}

	var paths []string
	for _, name := range order {
		rows := byFile[name]
		if len(rows) == 0 {
			continue
		}
		path := filepath.Join(w.monthDir(), name+"_"+w.stampString()+".csv")
		if err := writeCSV(path, func(cw *csv.Writer) error { return encodeSignals(cw, rows) }); err != nil {
			return paths, fmt.Errorf("write %s signals: %w", name, err)
		}
		paths = append(paths, path)
	}

	w.logger.WithFields(map[string]interface{}{
		"files":   len(paths),
		"signals": len(signals),
		"dir":     w.monthDir(),
	}).Info("Signal reports written")

	return paths, nil
}

// WriteConfluence writes the latest report and its partitioned copy
func (w *Writer) WriteConfluence(records []contracts.ResonanceRecord) (string, error) {
	latest := filepath.Join(w.outDir, ConfluenceFile)
	encode := func(cw *csv.Writer) error { return EncodeConfluence(cw, records) }

	if err := writeCSV(latest, encode); err != nil {
		return "", fmt.Errorf("write confluence report: %w", err)
	}
	dated := filepath.Join(w.monthDir(), "confluence_"+w.stampString()+".csv")
	if err := writeCSV(dated, encode); err != nil {
		return "", fmt.Errorf("write confluence copy: %w", err)
	}

	w.logger.WithFields(map[string]interface{}{
		"records": len(records),
		"path":    latest,
	}).Info("Confluence report written")

	return latest, nil
}

// WritePerformance writes the reconciled picks of one run; unavailable summaries write nothing
func (w *Writer) WritePerformance(summary contracts.PerformanceSummary) (string, error) {
	if !summary.Available {
		return "", nil
	}
	path := filepath.Join(w.monthDir(), "performance_"+summary.Date.Format("20060102")+".csv")
	err := writeCSV(path, func(cw *csv.Writer) error {
		if err := cw.Write(performanceHeader); err != nil {
			return err
		}
		for _, p := range summary.Picks {
			rec := []string{
				summary.PriorDate.Format("2006-01-02"),
				summary.Date.Format("2006-01-02"),
				p.Code,
				p.Name,
				money(p.EntryPrice),
				money(p.Price),
				money(p.ReturnPct),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("write performance report: %w", err)
	}
	return path, nil
}

func encodeSignals(cw *csv.Writer, rows []contracts.StrategySignal) error {
	if err := cw.Write(signalHeader); err != nil {
		return err
	}
	for _, s := range rows {
		rec := []string{
			s.Date.Format("2006-01-02"),
			s.Code,
			s.Name,
			money(s.Price),
			money(s.PctChg),
			s.Label,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

// EncodeConfluence writes records in report column order
func EncodeConfluence(cw *csv.Writer, records []contracts.ResonanceRecord) error {
	if err := cw.Write(confluenceHeader); err != nil {
		return err
	}
	for _, r := range records {
		rec := []string{
			r.Code,
			r.Name,
			confluence.StrategyList(r),
			strconv.Itoa(r.ResonanceCount),
			r.ActionGuide,
			money(r.Price),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

// money formats a value at two decimals; undefined values are left blank
func money(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	return decimal.NewFromFloat(v).StringFixed(2)
}

func writeCSV(path string, encode func(*csv.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := writeAll(f, encode); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeAll(out io.Writer, encode func(*csv.Writer) error) error {
	if _, err := io.WriteString(out, bom); err != nil {
		return err
	}
	cw := csv.NewWriter(out)
	if err := encode(cw); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}
