package store_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStore_IncrementActivity_CreatesAndBumps(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, s.IncrementActivity(ctx, "user_1", "2026-08-29"))
	require.NoError(t, s.IncrementActivity(ctx, "user_1", "2026-08-29"))
	require.NoError(t, s.IncrementActivity(ctx, "user_1", "2026-08-30"))

	counts, err := s.GetActivityRange(ctx, "user_1", "2026-08-01", "2026-08-31")
	require.NoError(t, err)
	require.Equal(t, 2, counts["2026-08-29"])
	require.Equal(t, 1, counts["2026-08-30"])
}

func TestStore_IncrementActivity_Concurrent(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	const workers = 10

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.IncrementActivity(ctx, "user_1", "2026-08-30")
		}()
	}
	wg.Wait()

	counts, err := s.GetActivityRange(ctx, "user_1", "2026-08-30", "2026-08-30")
	require.NoError(t, err)
	require.Equal(t, workers, counts["2026-08-30"])
}

func TestStore_GetActivityRange_Bounds(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	for _, date := range []string{"2026-07-01", "2026-08-15", "2026-09-01"} {
		require.NoError(t, s.IncrementActivity(ctx, "user_1", date))
	}
	// Another user's days never leak into the range.
	require.NoError(t, s.IncrementActivity(ctx, "user_2", "2026-08-15"))

	counts, err := s.GetActivityRange(ctx, "user_1", "2026-08-01", "2026-08-31")
	require.NoError(t, err)
	require.Len(t, counts, 1)
	require.Equal(t, 1, counts["2026-08-15"])
}

func TestStore_ListActivity_NewestFirstWithLimit(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	for _, date := range []string{"2026-08-10", "2026-08-12", "2026-08-11"} {
		require.NoError(t, s.IncrementActivity(ctx, "user_1", date))
	}

	days, err := s.ListActivity(ctx, "user_1", 2)
	require.NoError(t, err)
	require.Len(t, days, 2)
	require.Equal(t, "2026-08-12", days[0].Date)
	require.Equal(t, "2026-08-11", days[1].Date)
}
