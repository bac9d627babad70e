package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/umageminite/habit-tracker-app/habits"
	"github.com/umageminite/habit-tracker-app/models"
	"github.com/umageminite/habit-tracker-app/utils"
)

// HabitController exposes habit CRUD, completion toggling, and the daily
// reset sweep over any habits.Store implementation.
type HabitController struct {
	store habits.Store
}

// NewHabitController creates a HabitController backed by the given store.
func NewHabitController(store habits.Store) *HabitController {
	return &HabitController{store: store}
}

func habitCachePrefix(owner uint) string {
	return "cache:habits:" + strconv.FormatUint(uint64(owner), 10)
}

func ownerID(ctx *gin.Context) (uint, bool) {
	v, exists := ctx.Get("user_id")
	if !exists {
		utils.Error(ctx, http.StatusUnauthorized, utils.CodeUnauthorized, "unauthorized")
		return 0, false
	}
	id, ok := v.(uint)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, utils.CodeUnauthorized, "unauthorized")
		return 0, false
	}
	return id, true
}

// maybeRunDailyReset clears stale completed-today flags the first time an
// owner's habits are read on a new UTC day. The sweep also runs through the
// explicit reset endpoint; both paths are idempotent.
func (h *HabitController) maybeRunDailyReset(ctx *gin.Context, owner uint) {
	if !utils.DailyResetDue(owner) {
		return
	}
	n, err := habits.ResetAll(ctx.Request.Context(), h.store, owner)
	if err != nil {
		if utils.Sugar != nil {
			utils.Sugar.Warnf("lazy daily reset for owner %d: %v", owner, err)
		}
		return
	}
	utils.MarkDailyReset(owner)
	if n > 0 {
		utils.InvalidateByPrefix(habitCachePrefix(owner))
	}
}

type habitPayload struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Frequency   *string `json:"frequency"`
}

// validateHabitFields checks the writable habit fields and returns
// field-level messages for anything invalid.
func validateHabitFields(p habitPayload, requireName bool) map[string]string {
	details := map[string]string{}
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name == "" {
			details["name"] = "name is required"
		} else if len([]rune(name)) > 100 {
			details["name"] = "name must be at most 100 characters"
		}
	} else if requireName {
		details["name"] = "name is required"
	}
	if p.Description != nil && len([]rune(*p.Description)) > 500 {
		details["description"] = "description must be at most 500 characters"
	}
	if p.Frequency != nil && !models.ValidFrequency(*p.Frequency) {
		details["frequency"] = "frequency must be daily or weekly"
	}
	return details
}

// Create adds a new habit for the authenticated user.
func (h *HabitController) Create(ctx *gin.Context) {
	owner, ok := ownerID(ctx)
	if !ok {
		return
	}

	var req habitPayload
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, utils.CodeValidation, "invalid request payload")
		return
	}
	if details := validateHabitFields(req, true); len(details) > 0 {
		utils.ErrorDetails(ctx, http.StatusBadRequest, utils.CodeValidation, "invalid habit data", details)
		return
	}

	habit := models.Habit{
		ID:        uuid.NewString(),
		UserID:    owner,
		Name:      utils.Sanitize(strings.TrimSpace(*req.Name)),
		Frequency: models.FrequencyDaily,
	}
	if req.Description != nil {
		habit.Description = utils.Sanitize(strings.TrimSpace(*req.Description))
	}
	if req.Frequency != nil {
		habit.Frequency = *req.Frequency
	}

	if err := h.store.Create(ctx.Request.Context(), &habit); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, utils.CodeInternalError, "failed to create habit")
		return
	}

	utils.InvalidateByPrefix(habitCachePrefix(owner))
	utils.Created(ctx, habit)
}

// List returns the user's habits, newest first, with optional frequency and
// completion filters. Triggers the lazy daily reset before reading.
func (h *HabitController) List(ctx *gin.Context) {
	owner, ok := ownerID(ctx)
	if !ok {
		return
	}

	h.maybeRunDailyReset(ctx, owner)

	var filter habits.ListFilter
	if v := strings.TrimSpace(ctx.Query("frequency")); v != "" {
		if !models.ValidFrequency(v) {
			utils.Error(ctx, http.StatusBadRequest, utils.CodeValidation, "frequency must be daily or weekly")
			return
		}
		filter.Frequency = v
	}
	if v := strings.TrimSpace(ctx.Query("completed_today")); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			utils.Error(ctx, http.StatusBadRequest, utils.CodeValidation, "completed_today must be a boolean")
			return
		}
		filter.CompletedToday = &b
	}
	if v := strings.TrimSpace(ctx.Query("limit")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			filter.Limit = n
		}
	}
	if v := strings.TrimSpace(ctx.Query("offset")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			filter.Offset = n
		}
	}

	// Only the unfiltered first page is cached; it is what the dashboard asks for.
	cacheable := filter.Frequency == "" && filter.CompletedToday == nil && filter.Offset == 0 && filter.Limit == 0
	cacheKey := habitCachePrefix(owner) + ":default"
	if cacheable {
		if b, hit := utils.CacheGetBytes(cacheKey); hit {
			ctx.Data(http.StatusOK, "application/json", b)
			return
		}
	}

	items, total, err := h.store.List(ctx.Request.Context(), owner, filter)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, utils.CodeInternalError, "failed to list habits")
		return
	}

	payload := gin.H{
		"items": items,
		"total": total,
	}
	if cacheable {
		utils.CacheSetJSON(cacheKey, utils.JSONResponse{Success: true, Data: payload}, 5*time.Minute)
	}
	utils.Success(ctx, payload)
}

// Get returns a single habit by id.
func (h *HabitController) Get(ctx *gin.Context) {
	owner, ok := ownerID(ctx)
	if !ok {
		return
	}

	habit, err := h.store.Get(ctx.Request.Context(), owner, ctx.Param("id"))
	if err != nil {
		if errors.Is(err, habits.ErrNotFound) {
			utils.Error(ctx, http.StatusNotFound, utils.CodeNotFound, "habit not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, utils.CodeInternalError, "failed to get habit")
		return
	}
	utils.Success(ctx, habit)
}

// Update modifies name, description, or frequency. Completion state and
// streaks only change through Toggle and the reset sweep.
func (h *HabitController) Update(ctx *gin.Context) {
	owner, ok := ownerID(ctx)
	if !ok {
		return
	}

	var req habitPayload
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, utils.CodeValidation, "invalid request payload")
		return
	}
	if req.Name == nil && req.Description == nil && req.Frequency == nil {
		utils.Error(ctx, http.StatusBadRequest, utils.CodeValidation, "no updatable fields provided")
		return
	}
	if details := validateHabitFields(req, false); len(details) > 0 {
		utils.ErrorDetails(ctx, http.StatusBadRequest, utils.CodeValidation, "invalid habit data", details)
		return
	}

	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["name"] = utils.Sanitize(strings.TrimSpace(*req.Name))
	}
	if req.Description != nil {
		fields["description"] = utils.Sanitize(strings.TrimSpace(*req.Description))
	}
	if req.Frequency != nil {
		fields["frequency"] = *req.Frequency
	}

	habit, err := h.store.UpdateFields(ctx.Request.Context(), owner, ctx.Param("id"), fields)
	if err != nil {
		if errors.Is(err, habits.ErrNotFound) {
			utils.Error(ctx, http.StatusNotFound, utils.CodeNotFound, "habit not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, utils.CodeInternalError, "failed to update habit")
		return
	}

	utils.InvalidateByPrefix(habitCachePrefix(owner))
	utils.Success(ctx, habit)
}

// Delete removes a habit permanently.
func (h *HabitController) Delete(ctx *gin.Context) {
	owner, ok := ownerID(ctx)
	if !ok {
		return
	}

	if err := h.store.Delete(ctx.Request.Context(), owner, ctx.Param("id")); err != nil {
		if errors.Is(err, habits.ErrNotFound) {
			utils.Error(ctx, http.StatusNotFound, utils.CodeNotFound, "habit not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, utils.CodeInternalError, "failed to delete habit")
		return
	}

	utils.InvalidateByPrefix(habitCachePrefix(owner))
	utils.Success(ctx, gin.H{"deleted": true})
}

// Toggle flips the habit's completion state for today and recomputes the
// streak. Concurrent toggles on the same habit serialize inside the store.
func (h *HabitController) Toggle(ctx *gin.Context) {
	owner, ok := ownerID(ctx)
	if !ok {
		return
	}

	habit, err := h.store.Toggle(ctx.Request.Context(), owner, ctx.Param("id"), time.Now().UTC())
	if err != nil {
		if errors.Is(err, habits.ErrNotFound) {
			utils.Error(ctx, http.StatusNotFound, utils.CodeNotFound, "habit not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, utils.CodeInternalError, "failed to toggle habit")
		return
	}

	utils.InvalidateByPrefix(habitCachePrefix(owner))
	utils.Success(ctx, habit)
}

// Reset runs the daily sweep immediately and reports how many habits were
// cleared. Safe to call repeatedly.
func (h *HabitController) Reset(ctx *gin.Context) {
	owner, ok := ownerID(ctx)
	if !ok {
		return
	}

	n, err := habits.ResetAll(ctx.Request.Context(), h.store, owner)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, utils.CodeInternalError, "failed to reset habits")
		return
	}
	utils.MarkDailyReset(owner)
	if n > 0 {
		utils.InvalidateByPrefix(habitCachePrefix(owner))
	}

	utils.Success(ctx, gin.H{"reset_count": n})
}
