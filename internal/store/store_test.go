package store

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lexlens/lexlens/internal/config"
)

func TestBuildLibsqlDSN(t *testing.T) {
	t.Run("URLUsesRawValue", func(t *testing.T) {
		cfg := config.StoreConfig{
			URL:       "libsql://example.turso.io",
			AuthToken: "token123",
		}

		dsn, err := buildLibsqlDSN(cfg)
		require.NoError(t, err)
		require.Equal(t, "libsql://example.turso.io?authToken=token123", dsn)
	})

	t.Run("URLKeepsExistingAuthToken", func(t *testing.T) {
		cfg := config.StoreConfig{
			URL:       "libsql://example.turso.io?authToken=existing",
			AuthToken: "token123",
		}

		dsn, err := buildLibsqlDSN(cfg)
		require.NoError(t, err)
		require.Equal(t, "libsql://example.turso.io?authToken=existing", dsn)
	})

	t.Run("MemoryPathPassesThrough", func(t *testing.T) {
		dsn, err := buildLibsqlDSN(config.StoreConfig{Path: ":memory:"})
		require.NoError(t, err)
		require.Equal(t, ":memory:", dsn)
	})

	t.Run("PlainPathGetsFilePrefix", func(t *testing.T) {
		path := t.TempDir() + "/lexlens.db"
		dsn, err := buildLibsqlDSN(config.StoreConfig{Path: path})
		require.NoError(t, err)
		require.Equal(t, "file:"+path, dsn)
	})

	t.Run("EmptyConfigFails", func(t *testing.T) {
		_, err := buildLibsqlDSN(config.StoreConfig{})
		require.Error(t, err)
	})
}

func TestUnsupportedDriver(t *testing.T) {
	_, err := Open(nil, config.StoreConfig{Driver: "postgres", Path: ":memory:"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "unsupported store driver")
}
