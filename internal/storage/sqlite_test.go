package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper function to create test storage.
func createTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	store, err := Open(context.Background(), filepath.Join(t.TempDir(), "nested", "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStorage_GetSetDelete(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	_, err := store.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Set(ctx, "a", "1"))
	require.NoError(t, store.Set(ctx, "a", "2"))

	v, err := store.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "2", v)

	require.NoError(t, store.Delete(ctx, "a"))
	require.NoError(t, store.Delete(ctx, "a"))
	_, err = store.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteStorage_Validation(t *testing.T) {
	store := createTestStorage(t)

	//nolint:staticcheck // nil context is the case under test
	_, err := store.Get(nil, "a")
	assert.ErrorIs(t, err, ErrNilContext)

	assert.ErrorIs(t, store.Set(context.Background(), " ", "x"), ErrEmptyString)

	_, err = NewSQLiteStorage("")
	assert.ErrorIs(t, err, ErrEmptyString)
}

func TestMigrate_Idempotent(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.Migrate(ctx))

	version, err := store.SchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, ExpectedSchemaVersion, version)
}

func TestMigrate_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")
	ctx := context.Background()

	store, err := Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, TokenKey, "abc"))
	require.NoError(t, store.Close())

	store, err = Open(ctx, path)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	v, err := store.Get(ctx, TokenKey)
	require.NoError(t, err)
	assert.Equal(t, "abc", v)
	assert.Equal(t, path, store.Path())
}

func TestTokenStore(t *testing.T) {
	ctx := context.Background()
	tokens := NewTokenStore(createTestStorage(t))

	token, err := tokens.LoadToken(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)

	require.NoError(t, tokens.SaveToken(ctx, "jwt-1"))
	token, err = tokens.LoadToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "jwt-1", token)

	require.NoError(t, tokens.SaveToken(ctx, ""))
	token, err = tokens.LoadToken(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)

	require.NoError(t, tokens.SaveToken(ctx, "jwt-2"))
	require.NoError(t, tokens.ClearToken(ctx))
	token, err = tokens.LoadToken(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)
}
