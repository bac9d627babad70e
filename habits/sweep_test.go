package habits

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umageminite/habit-tracker-app/models"
)

// failingStore wraps a Store and fails UpdateFields for chosen habit ids.
type failingStore struct {
	Store
	failIDs map[string]bool
}

func (f *failingStore) UpdateFields(ctx context.Context, owner uint, id string, fields map[string]interface{}) (*models.Habit, error) {
	if f.failIDs[id] {
		return nil, errors.New("storage hiccup")
	}
	return f.Store.UpdateFields(ctx, owner, id, fields)
}

func sweepFixture(t *testing.T) (*MemoryStore, time.Time) {
	t.Helper()
	s := NewMemoryStore()
	ctx := context.Background()
	now := time.Date(2025, 3, 10, 1, 0, 0, 0, time.UTC)
	base := now.Add(-48 * time.Hour)

	seedHabit(t, s, 1, "a", "Read", models.FrequencyDaily, base)
	seedHabit(t, s, 1, "b", "Run", models.FrequencyDaily, base.Add(time.Hour))
	seedHabit(t, s, 1, "c", "Write", models.FrequencyDaily, base.Add(2*time.Hour))

	yesterday := now.Add(-3 * time.Hour) // previous calendar day
	for _, id := range []string{"a", "b"} {
		_, err := s.UpdateFields(ctx, 1, id, map[string]interface{}{
			"completed_today":   true,
			"streak":            3,
			"last_completed_at": yesterday,
		})
		require.NoError(t, err)
	}
	return s, yesterday
}

func TestResetAllClearsFlagsOnly(t *testing.T) {
	s, yesterday := sweepFixture(t)
	ctx := context.Background()

	n, err := ResetAll(ctx, s, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	for _, id := range []string{"a", "b"} {
		h, err := s.Get(ctx, 1, id)
		require.NoError(t, err)
		assert.False(t, h.CompletedToday)
		// Streak and timestamp survive the sweep so the next toggle still
		// sees yesterday's completion.
		assert.Equal(t, 3, h.Streak)
		require.NotNil(t, h.LastCompletedAt)
		assert.Equal(t, yesterday, *h.LastCompletedAt)
	}
}

func TestResetAllIdempotent(t *testing.T) {
	s, _ := sweepFixture(t)
	ctx := context.Background()

	n, err := ResetAll(ctx, s, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = ResetAll(ctx, s, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestResetAllSkipsOtherOwners(t *testing.T) {
	s, _ := sweepFixture(t)
	ctx := context.Background()

	seedHabit(t, s, 2, "z", "Other", models.FrequencyDaily, time.Now())
	_, err := s.UpdateFields(ctx, 2, "z", map[string]interface{}{"completed_today": true})
	require.NoError(t, err)

	n, err := ResetAll(ctx, s, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	other, err := s.Get(ctx, 2, "z")
	require.NoError(t, err)
	assert.True(t, other.CompletedToday)
}

func TestResetAllPartialFailure(t *testing.T) {
	s, _ := sweepFixture(t)
	ctx := context.Background()
	wrapped := &failingStore{Store: s, failIDs: map[string]bool{"a": true}}

	n, err := ResetAll(ctx, wrapped, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	a, err := s.Get(ctx, 1, "a")
	require.NoError(t, err)
	assert.True(t, a.CompletedToday, "failed habit keeps its flag")

	b, err := s.Get(ctx, 1, "b")
	require.NoError(t, err)
	assert.False(t, b.CompletedToday)

	// After the hiccup clears, a second sweep finishes the job.
	n, err = ResetAll(ctx, s, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
