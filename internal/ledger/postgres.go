package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/wonny/dahai/internal/contracts"
	"github.com/wonny/dahai/pkg/database"
)

const schemaSQL = `
	CREATE TABLE IF NOT EXISTS ledger_history (
		date          DATE          NOT NULL,
		code          VARCHAR(6)    NOT NULL,
		name          TEXT          NOT NULL,
		strategy_list TEXT          NOT NULL,
		price         NUMERIC(12,2) NOT NULL,
		PRIMARY KEY (date, code)
	);
	CREATE TABLE IF NOT EXISTS ledger_state (
		id              SMALLINT      PRIMARY KEY CHECK (id = 1),
		version         INT           NOT NULL,
		total_return    NUMERIC(14,2) NOT NULL,
		last_reconciled DATE,
		updated_at      TIMESTAMPTZ   NOT NULL
	);
`

// PostgresStore keeps the ledger in two tables and saves in one transaction
// ⭐ SSOT: ledger_history / ledger_state 읽기·쓰기는 여기서만
type PostgresStore struct {
	db *database.DB
}

// NewPostgresStore creates a store on an open pool
func NewPostgresStore(db *database.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the ledger tables when missing
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to create ledger schema: %w", err)
	}
	return nil
}

// LoadHistory returns the log ordered by date then code
func (s *PostgresStore) LoadHistory(ctx context.Context) ([]contracts.LedgerEntry, error) {
	query := `
		SELECT date, code, name, strategy_list, price::float8
		FROM ledger_history
		ORDER BY date, code
	`

	rows, err := s.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger history: %w", err)
	}
	defer rows.Close()

	entries := []contracts.LedgerEntry{}
	for rows.Next() {
		var e contracts.LedgerEntry
		if err := rows.Scan(&e.Date, &e.Code, &e.Name, &e.StrategyList, &e.Price); err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		e.Date = time.Date(e.Date.Year(), e.Date.Month(), e.Date.Day(), 0, 0, 0, 0, time.Local)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ledger history: %w", err)
	}

	return entries, nil
}

// LoadState returns the state row, or a fresh state when none is stored
func (s *PostgresStore) LoadState(ctx context.Context) (contracts.LedgerState, error) {
	query := `
		SELECT version, total_return::float8, last_reconciled, updated_at
		FROM ledger_state
		WHERE id = 1
	`

	var state contracts.LedgerState
	var last *time.Time
	err := s.db.Pool.QueryRow(ctx, query).Scan(&state.Version, &state.TotalReturn, &last, &state.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return contracts.LedgerState{Version: contracts.LedgerStateVersion}, nil
	}
	if err != nil {
		return contracts.LedgerState{}, fmt.Errorf("failed to get ledger state: %w", err)
	}
	if state.Version > contracts.LedgerStateVersion {
		return contracts.LedgerState{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, state.Version)
	}
	if last != nil {
		state.LastReconciled = time.Date(last.Year(), last.Month(), last.Day(), 0, 0, 0, 0, time.Local)
	}

	return state, nil
}

// Save replaces today's rows and upserts the state in a single transaction
func (s *PostgresStore) Save(ctx context.Context, res *Result) error {
	day := time.Date(res.Date.Year(), res.Date.Month(), res.Date.Day(), 0, 0, 0, 0, time.UTC)

	return s.db.WithTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM ledger_history WHERE date = $1`, day); err != nil {
			return fmt.Errorf("failed to clear ledger date %s: %w", day.Format(dateLayout), err)
		}

		if len(res.Entries) > 0 {
			batch := &pgx.Batch{}
			for _, e := range res.Entries {
				batch.Queue(`
					INSERT INTO ledger_history (date, code, name, strategy_list, price)
					VALUES ($1, $2, $3, $4, $5)
				`, day, e.Code, e.Name, e.StrategyList, e.Price)
			}
			if err := tx.SendBatch(ctx, batch).Close(); err != nil {
				return fmt.Errorf("failed to insert ledger entries: %w", err)
			}
		}

		var last *time.Time
		if lr := res.State.LastReconciled; !lr.IsZero() {
			d := time.Date(lr.Year(), lr.Month(), lr.Day(), 0, 0, 0, 0, time.UTC)
			last = &d
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO ledger_state (id, version, total_return, last_reconciled, updated_at)
			VALUES (1, $1, $2, $3, $4)
			ON CONFLICT (id) DO UPDATE SET
				version = EXCLUDED.version,
				total_return = EXCLUDED.total_return,
				last_reconciled = EXCLUDED.last_reconciled,
				updated_at = EXCLUDED.updated_at
		`, res.State.Version, res.State.TotalReturn, last, res.State.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to upsert ledger state: %w", err)
		}
		return nil
	})
}
