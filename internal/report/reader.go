package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/wonny/dahai/internal/confluence"
	"github.com/wonny/dahai/internal/contracts"
)

// ReadConfluence loads the latest confluence report below outDir
func ReadConfluence(outDir string) (*contracts.ConfluenceSnapshot, error) {
	path := filepath.Join(outDir, ConfluenceFile)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open confluence report: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat confluence report: %w", err)
	}

	records, err := ParseConfluence(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	tiers := confluence.Split(records)

	return &contracts.ConfluenceSnapshot{
		GeneratedAt: info.ModTime(),
		Core:        len(tiers.Core),
		Watch:       len(tiers.Watch),
		Records:     records,
	}, nil
}

// ParseConfluence decodes a report written by EncodeConfluence
func ParseConfluence(r io.Reader) ([]contracts.ResonanceRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(confluenceHeader)

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty report")
	}
	if err != nil {
		return nil, err
	}
	header[0] = strings.TrimPrefix(header[0], bom)
	for i, col := range confluenceHeader {
		if header[i] != col {
			return nil, fmt.Errorf("column %d: want %q, got %q", i, col, header[i])
		}
	}

	records := []contracts.ResonanceRecord{}
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		count, err := strconv.Atoi(rec[3])
		if err != nil {
			return nil, fmt.Errorf("row %s: resonance_count %q", rec[0], rec[3])
		}
		// blank price decodes as 0 so the records stay JSON-encodable
		var price float64
		if rec[5] != "" {
			if price, err = strconv.ParseFloat(rec[5], 64); err != nil {
				return nil, fmt.Errorf("row %s: price %q", rec[0], rec[5])
			}
		}
		var ids []string
		if rec[2] != "" {
			ids = strings.Split(rec[2], ",")
		}

		records = append(records, contracts.ResonanceRecord{
			Code:           rec[0],
			Name:           rec[1],
			Strategies:     ids,
			ResonanceCount: count,
			ActionGuide:    rec[4],
			Price:          price,
		})
	}
	return records, nil
}
