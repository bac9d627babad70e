package habits

import (
	"time"

	"github.com/umageminite/habit-tracker-app/models"
	"github.com/umageminite/habit-tracker-app/utils"
)

// NextToggle computes the partial update produced by toggling a habit's
// completion at instant now. It consults nothing beyond the record and the
// clock; stores apply the returned fields atomically.
//
// Marking complete: the streak continues (+1) when the last completion was on
// now's calendar date or the day before, otherwise it restarts at 1.
// Marking incomplete: the decrement only applies when the completion being
// undone happened on now's calendar date; an undo on a later day flips the
// flag and leaves streak and timestamp alone. When the streak drops to zero
// the completion timestamp is cleared.
func NextToggle(h *models.Habit, now time.Time) map[string]interface{} {
	fields := map[string]interface{}{
		"completed_today": !h.CompletedToday,
	}

	if !h.CompletedToday {
		streak := 1
		if h.LastCompletedAt != nil &&
			(utils.SameDay(*h.LastCompletedAt, now) || utils.YesterdayOf(*h.LastCompletedAt, now)) {
			streak = h.Streak + 1
		}
		fields["streak"] = streak
		fields["last_completed_at"] = now
		return fields
	}

	if h.LastCompletedAt != nil && utils.SameDay(*h.LastCompletedAt, now) {
		streak := h.Streak - 1
		if streak < 0 {
			streak = 0
		}
		fields["streak"] = streak
		if streak == 0 {
			// Undo does not restore the pre-completion timestamp.
			fields["last_completed_at"] = nil
		}
	}
	return fields
}
