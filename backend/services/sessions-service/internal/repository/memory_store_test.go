package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/libs/errs"
	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/services/sessions-service/internal/models"
)

func newStoreWithTable(t *testing.T) *MemoryStore {
	t.Helper()
	store := NewMemoryStore()
	store.PutCafe("cafe-1", models.StrategyProRata)
	store.PutTable(models.Table{ID: "t-1", CafeID: "cafe-1", Name: "Table 1", Type: models.TablePool})
	return store
}

func occupy(ctx context.Context, tx Tx, tableID, sessionID string) error {
	table, err := tx.LockTable(ctx, tableID)
	if err != nil {
		return err
	}
	session := models.Session{ID: sessionID, TableID: tableID, CafeID: table.CafeID, Status: models.SessionActive, Players: 2, StartTime: time.Now()}
	if err := tx.SaveSession(ctx, &session); err != nil {
		return err
	}
	expect := table.Status()
	table.Occupancy = models.Playing{Session: session}
	return tx.SaveTable(ctx, table, expect)
}

func TestMemoryStoreCommitsTogether(t *testing.T) {
	ctx := context.Background()
	store := newStoreWithTable(t)

	require.NoError(t, store.WithinTx(ctx, func(tx Tx) error {
		return occupy(ctx, tx, "t-1", "s-1")
	}))

	table, err := store.GetTable(ctx, "t-1")
	require.NoError(t, err)
	assert.Equal(t, models.TableInUse, table.Status())
	playing, ok := table.Occupancy.(models.Playing)
	require.True(t, ok)
	assert.Equal(t, "s-1", playing.Session.ID)
}

func TestMemoryStoreDiscardsOnError(t *testing.T) {
	ctx := context.Background()
	store := newStoreWithTable(t)

	err := store.WithinTx(ctx, func(tx Tx) error {
		if err := occupy(ctx, tx, "t-1", "s-1"); err != nil {
			return err
		}
		return errs.E(errs.KindInvalidInput, "test", "boom")
	})
	require.Error(t, err)

	table, err := store.GetTable(ctx, "t-1")
	require.NoError(t, err)
	assert.Equal(t, models.Vacant{}, table.Occupancy)
	_, err = store.GetSession(ctx, "s-1")
	assert.Equal(t, errs.KindNotFound, errs.KindOf(err))
}

func TestMemoryStoreDiscardsOnCancelledContext(t *testing.T) {
	store := newStoreWithTable(t)
	ctx, cancel := context.WithCancel(context.Background())

	err := store.WithinTx(ctx, func(tx Tx) error {
		if err := occupy(ctx, tx, "t-1", "s-1"); err != nil {
			return err
		}
		cancel()
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)

	table, err := store.GetTable(context.Background(), "t-1")
	require.NoError(t, err)
	assert.Equal(t, models.TableAvailable, table.Status())
}

func TestMemoryStoreCompareAndSwap(t *testing.T) {
	ctx := context.Background()
	store := newStoreWithTable(t)

	err := store.WithinTx(ctx, func(tx Tx) error {
		table, err := tx.LockTable(ctx, "t-1")
		if err != nil {
			return err
		}
		require.Equal(t, models.TableAvailable, table.Status())

		// Another transaction takes the table after this one has read it.
		require.NoError(t, store.WithinTx(ctx, func(other Tx) error {
			return occupy(ctx, other, "t-1", "s-1")
		}))

		session := models.Session{ID: "s-2", TableID: "t-1", CafeID: "cafe-1", Status: models.SessionActive, Players: 1, StartTime: time.Now()}
		if err := tx.SaveSession(ctx, &session); err != nil {
			return err
		}
		table.Occupancy = models.Playing{Session: session}
		return tx.SaveTable(ctx, table, models.TableAvailable)
	})
	assert.Equal(t, errs.KindConflict, errs.KindOf(err))

	table, err := store.GetTable(ctx, "t-1")
	require.NoError(t, err)
	session, ok := table.Session()
	require.True(t, ok)
	assert.Equal(t, "s-1", session.ID)
	_, err = store.GetSession(ctx, "s-2")
	assert.Equal(t, errs.KindNotFound, errs.KindOf(err))
}

func TestMemoryStoreRejectsSecondPayment(t *testing.T) {
	ctx := context.Background()
	store := newStoreWithTable(t)
	pay := func() error {
		return store.WithinTx(ctx, func(tx Tx) error {
			return tx.SavePayment(ctx, &models.Payment{ID: "p", SessionID: "s-1", PaidAt: time.Now()})
		})
	}
	require.NoError(t, pay())
	assert.Equal(t, errs.KindInvalidState, errs.KindOf(pay()))
}

func TestSeedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
cafes:
  - id: cafe-1
    strategy: Per_Minute
    tables:
      - {id: t-2, name: Snooker 1, type: Snooker}
      - {id: t-1, name: Pool 1, type: 8-Ball Pool}
    pricing:
      - type: 8-Ball Pool
        hour: "150"
        half_hour: "100"
`), 0o600))

	seed, err := LoadSeedFile(path)
	require.NoError(t, err)
	store := NewMemoryStore()
	require.NoError(t, seed.Apply(store))

	ctx := context.Background()
	tables, err := store.ListTables(ctx, "cafe-1")
	require.NoError(t, err)
	require.Len(t, tables, 2)
	assert.Equal(t, "Pool 1", tables[0].Name)

	rule, err := store.GetRule(ctx, "cafe-1", models.TablePool)
	require.NoError(t, err)
	assert.Equal(t, models.StrategyPerMinute, rule.Strategy)
	assert.True(t, rule.HourPrice.Valid)
	assert.False(t, rule.ExtraPlayerPrice.Valid)

	_, err = store.GetRule(ctx, "cafe-1", models.TableSnooker)
	assert.Equal(t, errs.KindNotFound, errs.KindOf(err))
}
