package kv

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verlato/mathtutor/internal/dbx"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE kvstore (
  key TEXT PRIMARY KEY,
  value BLOB NOT NULL
);
`)
	require.NoError(t, err)

	return db
}

func TestSetGet_OverwritesWholeValue(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "roster", []byte(`["a"]`)))

	got, err := r.Get(ctx, "roster")
	require.NoError(t, err)
	assert.Equal(t, []byte(`["a"]`), got)

	// a later write replaces the previous value wholesale
	require.NoError(t, r.Set(ctx, "roster", []byte(`["a","b"]`)))

	got, err = r.Get(ctx, "roster")
	require.NoError(t, err)
	assert.Equal(t, []byte(`["a","b"]`), got)
}

func TestGet_AbsentKeyIsNilNil(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)

	got, err := r.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDelete_RemovesKey(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "session/last/u1", []byte(`{}`)))
	require.NoError(t, r.Delete(ctx, "session/last/u1"))

	got, err := r.Get(ctx, "session/last/u1")
	require.NoError(t, err)
	assert.Nil(t, got)

	// deleting an absent key is not an error
	require.NoError(t, r.Delete(ctx, "session/last/u1"))
}

func TestListAndClear(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "k1", []byte("v1")))
	require.NoError(t, r.Set(ctx, "k2", []byte("v2")))

	all, err := r.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, []byte("v1"), all["k1"])

	require.NoError(t, r.Clear(ctx))

	all, err = r.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestJSONHelpers_RoundTrip(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	type doc struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	var out doc
	found, err := GetJSON(ctx, r, "doc", &out)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, SetJSON(ctx, r, "doc", doc{Name: "x", Count: 3}))

	found, err = GetJSON(ctx, r, "doc", &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, doc{Name: "x", Count: 3}, out)
}

func TestRepository_WorksInsideTransaction(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		r := NewSQLiteRepository(tx)
		if err := r.Set(ctx, "k", []byte("v")); err != nil {
			return err
		}
		got, err := r.Get(ctx, "k")
		if err != nil {
			return err
		}
		// a read immediately following a write observes that write
		assert.Equal(t, []byte("v"), got)
		return nil
	})
	require.NoError(t, err)

	got, err := NewSQLiteRepository(db).Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)
}
