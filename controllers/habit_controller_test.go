package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umageminite/habit-tracker-app/habits"
	"github.com/umageminite/habit-tracker-app/models"
)

func TestMain(m *testing.M) {
	os.Setenv("JWT_SECRET", "test-secret")
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

// newHabitRouter wires the habit routes behind a stub auth middleware that
// authenticates every request as the given owner.
func newHabitRouter(store habits.Store, owner uint) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id", owner)
		c.Next()
	})
	hc := NewHabitController(store)
	r.GET("/habits", hc.List)
	r.POST("/habits", hc.Create)
	r.POST("/habits/reset", hc.Reset)
	r.GET("/habits/:id", hc.Get)
	r.PUT("/habits/:id", hc.Update)
	r.DELETE("/habits/:id", hc.Delete)
	r.POST("/habits/:id/toggle", hc.Toggle)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w, env
}

func decodeHabit(t *testing.T, raw json.RawMessage) models.Habit {
	t.Helper()
	var h models.Habit
	require.NoError(t, json.Unmarshal(raw, &h))
	return h
}

func TestHabitCreateAndGet(t *testing.T) {
	store := habits.NewMemoryStore()
	r := newHabitRouter(store, 10)

	w, env := doJSON(t, r, http.MethodPost, "/habits", gin.H{
		"name":        "  Read 20 pages  ",
		"description": "Before bed",
		"frequency":   "daily",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	require.True(t, env.Success)

	created := decodeHabit(t, env.Data)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Read 20 pages", created.Name)
	assert.Equal(t, models.FrequencyDaily, created.Frequency)
	assert.False(t, created.CompletedToday)
	assert.Equal(t, 0, created.Streak)
	assert.Nil(t, created.LastCompletedAt)

	w, env = doJSON(t, r, http.MethodGet, "/habits/"+created.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decodeHabit(t, env.Data)
	assert.Equal(t, created.ID, got.ID)
}

func TestHabitCreateDefaultsFrequency(t *testing.T) {
	store := habits.NewMemoryStore()
	r := newHabitRouter(store, 11)

	w, env := doJSON(t, r, http.MethodPost, "/habits", gin.H{"name": "Stretch"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, models.FrequencyDaily, decodeHabit(t, env.Data).Frequency)
}

func TestHabitCreateValidation(t *testing.T) {
	store := habits.NewMemoryStore()
	r := newHabitRouter(store, 12)

	long := make([]byte, 101)
	for i := range long {
		long[i] = 'x'
	}

	w, env := doJSON(t, r, http.MethodPost, "/habits", gin.H{
		"name":      string(long),
		"frequency": "hourly",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	assert.Contains(t, env.Error.Details, "name")
	assert.Contains(t, env.Error.Details, "frequency")

	w, env = doJSON(t, r, http.MethodPost, "/habits", gin.H{"description": "no name"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Error.Details, "name")
}

func TestHabitToggleFlow(t *testing.T) {
	store := habits.NewMemoryStore()
	r := newHabitRouter(store, 13)

	_, env := doJSON(t, r, http.MethodPost, "/habits", gin.H{"name": "Run"})
	id := decodeHabit(t, env.Data).ID

	w, env := doJSON(t, r, http.MethodPost, "/habits/"+id+"/toggle", nil)
	require.Equal(t, http.StatusOK, w.Code)
	toggled := decodeHabit(t, env.Data)
	assert.True(t, toggled.CompletedToday)
	assert.Equal(t, 1, toggled.Streak)
	assert.NotNil(t, toggled.LastCompletedAt)

	w, env = doJSON(t, r, http.MethodPost, "/habits/"+id+"/toggle", nil)
	require.Equal(t, http.StatusOK, w.Code)
	undone := decodeHabit(t, env.Data)
	assert.False(t, undone.CompletedToday)
	assert.Equal(t, 0, undone.Streak)
	assert.Nil(t, undone.LastCompletedAt)

	w, _ = doJSON(t, r, http.MethodPost, "/habits/missing/toggle", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHabitUpdate(t *testing.T) {
	store := habits.NewMemoryStore()
	r := newHabitRouter(store, 14)

	_, env := doJSON(t, r, http.MethodPost, "/habits", gin.H{"name": "Run"})
	id := decodeHabit(t, env.Data).ID

	w, env := doJSON(t, r, http.MethodPut, "/habits/"+id, gin.H{
		"name":      "Run 5k",
		"frequency": "weekly",
	})
	require.Equal(t, http.StatusOK, w.Code)
	updated := decodeHabit(t, env.Data)
	assert.Equal(t, "Run 5k", updated.Name)
	assert.Equal(t, models.FrequencyWeekly, updated.Frequency)

	w, env = doJSON(t, r, http.MethodPut, "/habits/"+id, gin.H{})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)

	w, env = doJSON(t, r, http.MethodPut, "/habits/missing", gin.H{"name": "x"})
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}

func TestHabitDelete(t *testing.T) {
	store := habits.NewMemoryStore()
	r := newHabitRouter(store, 15)

	_, env := doJSON(t, r, http.MethodPost, "/habits", gin.H{"name": "Run"})
	id := decodeHabit(t, env.Data).ID

	w, _ := doJSON(t, r, http.MethodDelete, "/habits/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, env = doJSON(t, r, http.MethodGet, "/habits/"+id, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}

func TestHabitListFilters(t *testing.T) {
	store := habits.NewMemoryStore()
	r := newHabitRouter(store, 16)

	_, env := doJSON(t, r, http.MethodPost, "/habits", gin.H{"name": "Run", "frequency": "daily"})
	runID := decodeHabit(t, env.Data).ID
	doJSON(t, r, http.MethodPost, "/habits", gin.H{"name": "Review", "frequency": "weekly"})

	// Mark the daily one complete after the first list has stamped today's
	// reset marker, so the flag survives subsequent reads.
	doJSON(t, r, http.MethodGet, "/habits", nil)
	doJSON(t, r, http.MethodPost, "/habits/"+runID+"/toggle", nil)

	type listPayload struct {
		Items []models.Habit `json:"items"`
		Total int64          `json:"total"`
	}

	w, env := doJSON(t, r, http.MethodGet, "/habits?frequency=weekly", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var p listPayload
	require.NoError(t, json.Unmarshal(env.Data, &p))
	require.Len(t, p.Items, 1)
	assert.Equal(t, "Review", p.Items[0].Name)

	w, env = doJSON(t, r, http.MethodGet, "/habits?completed_today=true", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &p))
	require.Len(t, p.Items, 1)
	assert.Equal(t, runID, p.Items[0].ID)

	w, env = doJSON(t, r, http.MethodGet, "/habits?frequency=hourly", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
}

func TestHabitListRunsLazyDailyReset(t *testing.T) {
	store := habits.NewMemoryStore()
	owner := uint(17)
	r := newHabitRouter(store, owner)

	// A habit whose completed flag survived from a previous day.
	yesterday := time.Now().UTC().Add(-30 * time.Hour)
	require.NoError(t, store.Create(context.Background(), &models.Habit{
		ID:              "stale",
		UserID:          owner,
		Name:            "Read",
		Frequency:       models.FrequencyDaily,
		CompletedToday:  true,
		Streak:          3,
		LastCompletedAt: &yesterday,
	}))

	w, env := doJSON(t, r, http.MethodGet, "/habits", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var p struct {
		Items []models.Habit `json:"items"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &p))
	require.Len(t, p.Items, 1)
	assert.False(t, p.Items[0].CompletedToday)
	assert.Equal(t, 3, p.Items[0].Streak)
}

func TestHabitResetEndpoint(t *testing.T) {
	store := habits.NewMemoryStore()
	r := newHabitRouter(store, 18)

	var ids []string
	for _, name := range []string{"Run", "Read"} {
		_, env := doJSON(t, r, http.MethodPost, "/habits", gin.H{"name": name})
		ids = append(ids, decodeHabit(t, env.Data).ID)
	}
	doJSON(t, r, http.MethodGet, "/habits", nil) // stamp today's marker
	for _, id := range ids {
		doJSON(t, r, http.MethodPost, "/habits/"+id+"/toggle", nil)
	}

	w, env := doJSON(t, r, http.MethodPost, "/habits/reset", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var payload struct {
		ResetCount int `json:"reset_count"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &payload))
	assert.Equal(t, 2, payload.ResetCount)

	w, env = doJSON(t, r, http.MethodPost, "/habits/reset", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &payload))
	assert.Equal(t, 0, payload.ResetCount)
}
