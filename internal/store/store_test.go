package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/graaaaa/machineid-reset/internal/appinfo"
)

var testItems = map[string]string{
	"telemetry.devDeviceId":    "dev",
	"telemetry.macMachineId":   "mac",
	"telemetry.machineId":      "machine",
	"telemetry.sqmId":          "{SQM}",
	"storage.serviceMachineId": "dev",
}

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "state.vscdb"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestOpen_CreatesDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "state.vscdb")

	store, err := Open(dbPath)
	require.NoError(t, err)
	defer store.Close()

	_, err = os.Stat(dbPath)
	assert.NoError(t, err, "database file was not created")

	var name string
	err = store.db.QueryRowContext(context.Background(),
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?",
		appinfo.ItemTableName,
	).Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, appinfo.ItemTableName, name)

	count, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestOpen_PathWithSpaces(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "Application Support", "Cursor")
	require.NoError(t, os.MkdirAll(dir, 0755))

	store, err := Open(filepath.Join(dir, "state.vscdb"))
	require.NoError(t, err)
	store.Close()

	_, err = os.Stat(filepath.Join(dir, "state.vscdb"))
	assert.NoError(t, err, "database not created at escaped path")
}

func TestOpen_DirectoryFails(t *testing.T) {
	_, err := Open(t.TempDir())
	assert.Error(t, err)
}

func TestUpdateIDs_EmptyDatabase(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.UpdateIDs(ctx, testItems))

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(testItems), count)

	for k, want := range testItems {
		got, ok, err := store.Get(ctx, k)
		require.NoError(t, err)
		assert.True(t, ok, k)
		assert.Equal(t, want, got, k)
	}
}

func TestUpdateIDs_ReplacesExistingRow(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	_, err := store.db.ExecContext(ctx,
		"INSERT INTO "+appinfo.ItemTableName+" (key, value) VALUES (?, ?), (?, ?)",
		"telemetry.machineId", "old",
		"workbench.theme", "dark",
	)
	require.NoError(t, err)

	require.NoError(t, store.UpdateIDs(ctx, testItems))

	got, _, err := store.Get(ctx, "telemetry.machineId")
	require.NoError(t, err)
	assert.Equal(t, "machine", got)

	// Five identifiers plus the untouched unrelated row, no duplicates
	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(testItems)+1, count)

	theme, ok, err := store.Get(ctx, "workbench.theme")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "dark", theme)
}

func TestGet_MissingKey(t *testing.T) {
	store := openTestStore(t)

	_, ok, err := store.Get(context.Background(), "telemetry.machineId")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUpdateIDs_NoItems(t *testing.T) {
	store := openTestStore(t)

	assert.ErrorIs(t, store.UpdateIDs(context.Background(), nil), ErrNoItems)
}

func TestUpdateIDs_CanceledContextWritesNothing(t *testing.T) {
	store := openTestStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.Error(t, store.UpdateIDs(ctx, testItems))

	count, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestUpdateIDsAt_ExistingTableKept(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "state.vscdb")

	// Database created by someone else with its own rows
	db, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE ItemTable (key TEXT UNIQUE ON CONFLICT REPLACE, value BLOB)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO ItemTable VALUES ('telemetry.sqmId', 'old')`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	ctx := context.Background()
	require.NoError(t, UpdateIDsAt(ctx, dbPath, testItems))

	store, err := Open(dbPath)
	require.NoError(t, err)
	defer store.Close()

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(testItems), count)

	got, _, err := store.Get(ctx, "telemetry.sqmId")
	require.NoError(t, err)
	assert.Equal(t, "{SQM}", got)
}

func TestUpdateIDsAt_OpenFailure(t *testing.T) {
	assert.Error(t, UpdateIDsAt(context.Background(), t.TempDir(), testItems))
}
