package tokenstore_test

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/crm-console/internal/tokenstore"
)

func TestFileStoreRoundTrip(t *testing.T) {
	store, err := tokenstore.NewFileStore(filepath.Join(t.TempDir(), "nested", "token"))
	require.NoError(t, err)

	ctx := context.Background()

	token, err := store.Load(ctx)
	require.NoError(t, err)
	require.Empty(t, token)

	require.NoError(t, store.Save(ctx, "tok-1"))
	token, err = store.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, "tok-1", token)

	require.NoError(t, store.Save(ctx, "tok-2"))
	token, err = store.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, "tok-2", token)
}

func TestFileStoreClearIsIdempotent(t *testing.T) {
	store, err := tokenstore.NewFileStore(filepath.Join(t.TempDir(), "token"))
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.Clear(ctx))

	require.NoError(t, store.Save(ctx, "tok"))
	require.NoError(t, store.Clear(ctx))
	require.NoError(t, store.Clear(ctx))

	token, err := store.Load(ctx)
	require.NoError(t, err)
	require.Empty(t, token)
}

func TestFileStoreRestrictsPermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permissions")
	}

	path := filepath.Join(t.TempDir(), "token")
	store, err := tokenstore.NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Save(context.Background(), "secret"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFileStoreDefaultPathUnderHome(t *testing.T) {
	store, err := tokenstore.NewFileStore("")
	require.NoError(t, err)

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	require.Equal(t, filepath.Join(home, ".crm-console", "token"), store.Path())
}
