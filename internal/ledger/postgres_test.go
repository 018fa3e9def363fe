package ledger

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/dahai/internal/contracts"
	"github.com/wonny/dahai/pkg/config"
	"github.com/wonny/dahai/pkg/database"
)

func testPostgresStore(t *testing.T) *PostgresStore {
	t.Helper()
	if testing.Short() || os.Getenv("DATABASE_URL") == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	db, err := database.New(ctx, &config.Config{Database: config.DatabaseConfig{
		URL:             os.Getenv("DATABASE_URL"),
		MaxConns:        2,
		MinConns:        1,
		MaxConnLifetime: time.Minute,
		MaxConnIdleTime: time.Minute,
	}})
	require.NoError(t, err)
	t.Cleanup(db.Close)

	store := NewPostgresStore(db)
	require.NoError(t, store.EnsureSchema(ctx))
	_, err = db.Pool.Exec(ctx, `TRUNCATE ledger_history; DELETE FROM ledger_state`)
	require.NoError(t, err)
	return store
}

func TestPostgresStore_SaveReplacesDate(t *testing.T) {
	store := testPostgresStore(t)
	ctx := context.Background()

	state, err := store.LoadState(ctx)
	require.NoError(t, err)
	assert.Equal(t, contracts.LedgerStateVersion, state.Version)

	first := Reconcile(Input{
		Date:   d1,
		Now:    now,
		Picks:  []contracts.ResonanceRecord{pick("000001", 10, "a", "b"), pick("600000", 8, "a", "b")},
		State:  state,
		Prices: map[string]float64{},
	})
	require.NoError(t, store.Save(ctx, &first))

	history, err := store.LoadHistory(ctx)
	require.NoError(t, err)
	require.Len(t, history, 2)

	second := Reconcile(Input{
		Date:    d2,
		Now:     now,
		Picks:   []contracts.ResonanceRecord{pick("000002", 5, "a", "b")},
		Prices:  map[string]float64{"000001": 10.5, "600000": 8},
		History: history,
		State:   first.State,
	})
	require.NoError(t, store.Save(ctx, &second))
	// rerun of the same date replaces its rows
	require.NoError(t, store.Save(ctx, &second))

	history, err = store.LoadHistory(ctx)
	require.NoError(t, err)
	assert.Len(t, history, 3)
	assert.Equal(t, d2, history[2].Date)

	state, err = store.LoadState(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2.5, state.TotalReturn)
	assert.Equal(t, d2, state.LastReconciled)
}
