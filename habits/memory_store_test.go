package habits

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umageminite/habit-tracker-app/models"
)

func seedHabit(t *testing.T, s Store, owner uint, id, name, frequency string, createdAt time.Time) {
	t.Helper()
	err := s.Create(context.Background(), &models.Habit{
		ID:        id,
		UserID:    owner,
		Name:      name,
		Frequency: frequency,
		CreatedAt: createdAt,
	})
	require.NoError(t, err)
}

func TestMemoryStoreCRUD(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	seedHabit(t, s, 1, "a", "Read", models.FrequencyDaily, time.Now())

	got, err := s.Get(ctx, 1, "a")
	require.NoError(t, err)
	assert.Equal(t, "Read", got.Name)

	updated, err := s.UpdateFields(ctx, 1, "a", map[string]interface{}{"name": "Read more"})
	require.NoError(t, err)
	assert.Equal(t, "Read more", updated.Name)

	require.NoError(t, s.Delete(ctx, 1, "a"))
	_, err = s.Get(ctx, 1, "a")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreOwnerIsolation(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	seedHabit(t, s, 1, "a", "Read", models.FrequencyDaily, time.Now())

	_, err := s.Get(ctx, 2, "a")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.UpdateFields(ctx, 2, "a", map[string]interface{}{"name": "x"})
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, s.Delete(ctx, 2, "a"), ErrNotFound)
}

func TestMemoryStoreListOrderAndFilters(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	seedHabit(t, s, 1, "a", "Read", models.FrequencyDaily, base)
	seedHabit(t, s, 1, "b", "Run", models.FrequencyDaily, base.Add(time.Hour))
	seedHabit(t, s, 1, "c", "Review", models.FrequencyWeekly, base.Add(2*time.Hour))
	_, err := s.UpdateFields(ctx, 1, "b", map[string]interface{}{"completed_today": true})
	require.NoError(t, err)

	// Newest first.
	all, total, err := s.List(ctx, 1, ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, all, 3)
	assert.Equal(t, "c", all[0].ID)
	assert.Equal(t, "a", all[2].ID)

	weekly, total, err := s.List(ctx, 1, ListFilter{Frequency: models.FrequencyWeekly})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, weekly, 1)
	assert.Equal(t, "c", weekly[0].ID)

	done := true
	completed, _, err := s.List(ctx, 1, ListFilter{CompletedToday: &done})
	require.NoError(t, err)
	require.Len(t, completed, 1)
	assert.Equal(t, "b", completed[0].ID)
}

func TestMemoryStoreListPagination(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		seedHabit(t, s, 1, string(rune('a'+i)), "H", models.FrequencyDaily, base.Add(time.Duration(i)*time.Hour))
	}

	page, total, err := s.List(ctx, 1, ListFilter{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, page, 2)
	assert.Equal(t, "c", page[0].ID)
	assert.Equal(t, "b", page[1].ID)

	empty, total, err := s.List(ctx, 1, ListFilter{Offset: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Empty(t, empty)
}

func TestMemoryStoreToggleRoundTrip(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	seedHabit(t, s, 1, "a", "Read", models.FrequencyDaily, now.Add(-time.Hour))

	h, err := s.Toggle(ctx, 1, "a", now)
	require.NoError(t, err)
	assert.True(t, h.CompletedToday)
	assert.Equal(t, 1, h.Streak)
	require.NotNil(t, h.LastCompletedAt)
	assert.Equal(t, now, *h.LastCompletedAt)

	h, err = s.Toggle(ctx, 1, "a", now.Add(time.Minute))
	require.NoError(t, err)
	assert.False(t, h.CompletedToday)
	assert.Equal(t, 0, h.Streak)
	assert.Nil(t, h.LastCompletedAt)

	_, err = s.Toggle(ctx, 2, "a", now)
	assert.ErrorIs(t, err, ErrNotFound)
}
