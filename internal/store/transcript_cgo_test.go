//go:build cgo

package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lexlens/lexlens/internal/config"
)

func openMemoryStore(t *testing.T) *Store {
	t.Helper()

	ctx := context.Background()
	st, err := Open(ctx, config.StoreConfig{Driver: "libsql", Path: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, st.Migrate(ctx))
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestRecordAndRecent(t *testing.T) {
	ctx := context.Background()
	st := openMemoryStore(t)

	first := Transcript{
		RequestID:     "req-1",
		Question:      "Is this contract clause enforceable?",
		Model:         "deepseek-r1:8b",
		ImageCount:    1,
		FragmentCount: 12,
		Response:      "The clause is likely unenforceable because...",
		CreatedAt:     time.Now().Add(-time.Minute).UTC(),
	}
	require.NoError(t, st.Record(ctx, first))

	second := Transcript{
		Question: "Summarize the liability terms.",
		Model:    "deepseek-r1:8b",
		Response: "The liability terms state...",
	}
	require.NoError(t, st.Record(ctx, second))

	recent, err := st.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 2)

	// Newest first.
	require.Equal(t, "Summarize the liability terms.", recent[0].Question)
	require.NotEmpty(t, recent[0].ID)
	require.False(t, recent[0].CreatedAt.IsZero())

	require.Equal(t, "req-1", recent[1].RequestID)
	require.Equal(t, 1, recent[1].ImageCount)
	require.Equal(t, 12, recent[1].FragmentCount)
}

func TestRecentLimit(t *testing.T) {
	ctx := context.Background()
	st := openMemoryStore(t)

	for i := 0; i < 5; i++ {
		require.NoError(t, st.Record(ctx, Transcript{
			Question: "q",
			Model:    "m",
			Response: "r",
		}))
	}

	recent, err := st.Recent(ctx, 3)
	require.NoError(t, err)
	require.Len(t, recent, 3)
}

func TestStoreHealth(t *testing.T) {
	st := openMemoryStore(t)
	require.NoError(t, st.CheckHealth(context.Background()))

	var nilStore *Store
	require.Error(t, nilStore.CheckHealth(context.Background()))
}
