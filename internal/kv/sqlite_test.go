package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	d, err := sql.Open("sqlite", fmt.Sprintf("file:%s/kv.db?cache=shared&mode=rwc&_journal_mode=WAL", t.TempDir()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })

	_, err = d.Exec(`
		CREATE TABLE collections (
			key   TEXT PRIMARY KEY,
			value BLOB NOT NULL
		);
	`)
	require.NoError(t, err)
	return d
}

func TestGetMissingKey(t *testing.T) {
	store := NewSQLiteStore(openTestDB(t))

	value, err := store.Get(context.Background(), "courses")
	require.NoError(t, err)
	assert.Nil(t, value)
}

func TestSetAndGet(t *testing.T) {
	store := NewSQLiteStore(openTestDB(t))
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "courses", []byte(`[1]`)))
	require.NoError(t, store.Set(ctx, "courses", []byte(`[1,2]`)))

	value, err := store.Get(ctx, "courses")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[1,2]`), value)
}

func TestUpdateTransformsValue(t *testing.T) {
	store := NewSQLiteStore(openTestDB(t))
	ctx := context.Background()

	err := store.Update(ctx, "markers", func(current []byte) ([]byte, error) {
		assert.Nil(t, current)
		return []byte("a"), nil
	})
	require.NoError(t, err)

	err = store.Update(ctx, "markers", func(current []byte) ([]byte, error) {
		return append(current, 'b'), nil
	})
	require.NoError(t, err)

	value, err := store.Get(ctx, "markers")
	require.NoError(t, err)
	assert.Equal(t, []byte("ab"), value)
}

func TestUpdateErrorAbortsWithoutWrite(t *testing.T) {
	store := NewSQLiteStore(openTestDB(t))
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "markers", []byte("keep")))

	boom := errors.New("boom")
	err := store.Update(ctx, "markers", func(current []byte) ([]byte, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)

	value, err := store.Get(ctx, "markers")
	require.NoError(t, err)
	assert.Equal(t, []byte("keep"), value)
}

func TestConcurrentUpdatesLoseNothing(t *testing.T) {
	store := NewSQLiteStore(openTestDB(t))
	ctx := context.Background()

	const writers = 32
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := store.Update(ctx, "counter", func(current []byte) ([]byte, error) {
				return append(current, 'x'), nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	value, err := store.Get(ctx, "counter")
	require.NoError(t, err)
	assert.Len(t, value, writers)
}
