package habits

import (
	"context"
	"errors"
	"time"

	"github.com/umageminite/habit-tracker-app/models"
)

// ErrNotFound is returned when no habit exists under the given owner/id pair.
var ErrNotFound = errors.New("habit not found")

// ListFilter narrows a List call. Nil pointer fields mean "no filter".
// Limit is capped at 100 by stores; zero means the default of 50.
type ListFilter struct {
	Frequency      string
	CompletedToday *bool
	Limit          int
	Offset         int
}

const (
	defaultListLimit = 50
	maxListLimit     = 100
)

func (f ListFilter) window() (limit, offset int) {
	limit = f.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	offset = f.Offset
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// Store is the persistence contract for habits, keyed by (owner, habit id).
// UpdateFields applies a partial update and returns the updated record;
// Toggle performs the read-compute-write of a completion toggle atomically
// with respect to concurrent toggles on the same habit.
type Store interface {
	Create(ctx context.Context, h *models.Habit) error
	Get(ctx context.Context, owner uint, id string) (*models.Habit, error)
	List(ctx context.Context, owner uint, f ListFilter) ([]models.Habit, int64, error)
	UpdateFields(ctx context.Context, owner uint, id string, fields map[string]interface{}) (*models.Habit, error)
	Delete(ctx context.Context, owner uint, id string) error
	Toggle(ctx context.Context, owner uint, id string, now time.Time) (*models.Habit, error)
}
