package ledger

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wonny/dahai/internal/contracts"
)

// Store persists the pick log and the cumulative state
type Store interface {
	LoadHistory(ctx context.Context) ([]contracts.LedgerEntry, error)
	LoadState(ctx context.Context) (contracts.LedgerState, error)
	// Save persists the result of one reconciliation: today's rows replace
	// any earlier rows for the same date, and the state is overwritten.
	Save(ctx context.Context, res *Result) error
}

// ErrUnsupportedVersion is returned for state written by a newer format
var ErrUnsupportedVersion = errors.New("unsupported ledger state version")

const (
	historyFile = "history.csv"
	stateFile   = "state.json"
	dateLayout  = "2006-01-02"
)

var historyHeader = []string{"date", "code", "name", "strategy_list", "price"}

// FileStore keeps the ledger as a CSV log plus a JSON state record in one directory
type FileStore struct {
	dir string
}

// NewFileStore creates a file store rooted at dir (created on first save)
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Dir returns the ledger directory
func (s *FileStore) Dir() string {
	return s.dir
}

// fileState is the on-disk form of contracts.LedgerState
type fileState struct {
	Version        int       `json:"version"`
	TotalReturn    string    `json:"total_return"` // fixed two decimals
	LastReconciled string    `json:"last_reconciled,omitempty"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// LoadHistory reads the log; a missing file is an empty history
func (s *FileStore) LoadHistory(ctx context.Context) ([]contracts.LedgerEntry, error) {
	f, err := os.Open(filepath.Join(s.dir, historyFile))
	if errors.Is(err, os.ErrNotExist) {
		return []contracts.LedgerEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open ledger history: %w", err)
	}
	defer f.Close()

	entries, err := ParseHistory(f)
	if err != nil {
		return nil, fmt.Errorf("ledger history %s: %w", f.Name(), err)
	}
	return entries, nil
}

// ParseHistory decodes a history CSV with its header row
func ParseHistory(r io.Reader) ([]contracts.LedgerEntry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(historyHeader)

	entries := []contracts.LedgerEntry{}
	header := true
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if header {
			header = false
			if strings.TrimPrefix(rec[0], "\ufeff") == historyHeader[0] {
				continue
			}
		}

		date, err := time.ParseInLocation(dateLayout, rec[0], time.Local)
		if err != nil {
			return nil, fmt.Errorf("date %q: %w", rec[0], err)
		}
		price, err := strconv.ParseFloat(rec[4], 64)
		if err != nil {
			return nil, fmt.Errorf("price %q: %w", rec[4], err)
		}
		entries = append(entries, contracts.LedgerEntry{
			Date:         date,
			Code:         rec[1],
			Name:         rec[2],
			StrategyList: rec[3],
			Price:        price,
		})
	}
	return entries, nil
}

// LoadState reads the state record; a missing file is a fresh state
func (s *FileStore) LoadState(ctx context.Context) (contracts.LedgerState, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, stateFile))
	if errors.Is(err, os.ErrNotExist) {
		return contracts.LedgerState{Version: contracts.LedgerStateVersion}, nil
	}
	if err != nil {
		return contracts.LedgerState{}, fmt.Errorf("read ledger state: %w", err)
	}

	var fs fileState
	if err := json.Unmarshal(data, &fs); err != nil {
		return contracts.LedgerState{}, fmt.Errorf("parse ledger state: %w", err)
	}
	if fs.Version > contracts.LedgerStateVersion {
		return contracts.LedgerState{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, fs.Version)
	}

	total := decimal.Zero
	if fs.TotalReturn != "" {
		if total, err = decimal.NewFromString(fs.TotalReturn); err != nil {
			return contracts.LedgerState{}, fmt.Errorf("parse total_return: %w", err)
		}
	}

	state := contracts.LedgerState{
		Version:     contracts.LedgerStateVersion,
		TotalReturn: total.Round(2).InexactFloat64(),
		UpdatedAt:   fs.UpdatedAt,
	}
	if fs.LastReconciled != "" {
		t, err := time.ParseInLocation(dateLayout, fs.LastReconciled, time.Local)
		if err != nil {
			return contracts.LedgerState{}, fmt.Errorf("parse last_reconciled: %w", err)
		}
		state.LastReconciled = t
	}
	return state, nil
}

// Save rewrites the state, then the log, each through a temp file and rename.
// A failure between the two leaves last_reconciled at today with the old log,
// which a same-day rerun repairs without counting the day twice.
func (s *FileStore) Save(ctx context.Context, res *Result) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create ledger dir: %w", err)
	}
	if err := s.saveState(res.State); err != nil {
		return fmt.Errorf("write ledger state: %w", err)
	}
	if err := s.saveHistory(res.History); err != nil {
		return fmt.Errorf("write ledger history: %w", err)
	}
	return nil
}

func (s *FileStore) saveState(state contracts.LedgerState) error {
	fs := fileState{
		Version:     state.Version,
		TotalReturn: decimal.NewFromFloat(state.TotalReturn).StringFixed(2),
		UpdatedAt:   state.UpdatedAt,
	}
	if !state.LastReconciled.IsZero() {
		fs.LastReconciled = state.LastReconciled.Format(dateLayout)
	}
	return writeAtomic(filepath.Join(s.dir, stateFile), func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(fs)
	})
}

func (s *FileStore) saveHistory(entries []contracts.LedgerEntry) error {
	return writeAtomic(filepath.Join(s.dir, historyFile), func(w io.Writer) error {
		return WriteHistory(w, entries)
	})
}

// WriteHistory encodes entries with a header row, prices at two decimals
func WriteHistory(w io.Writer, entries []contracts.LedgerEntry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(historyHeader); err != nil {
		return err
	}
	for _, e := range entries {
		rec := []string{
			e.Date.Format(dateLayout),
			e.Code,
			e.Name,
			e.StrategyList,
			decimal.NewFromFloat(e.Price).StringFixed(2),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeAtomic(path string, write func(io.Writer) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
