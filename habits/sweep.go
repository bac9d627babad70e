package habits

import (
	"context"

	"github.com/umageminite/habit-tracker-app/utils"
)

// ResetAll clears the completed-today flag on every completed habit the owner
// has and returns the number of habits actually changed. Streaks and
// completion timestamps are left untouched so yesterday-comparisons on the
// next toggle stay valid. The sweep is best-effort: a failed update is logged
// and skipped, not rolled back, and the partial count is still reported.
// Calling it again on an already-reset day is a no-op (count 0).
func ResetAll(ctx context.Context, store Store, owner uint) (int, error) {
	// Snapshot the completed set first so pagination is not disturbed by the
	// updates that follow.
	completed := true
	var ids []string
	for offset := 0; ; {
		page, _, err := store.List(ctx, owner, ListFilter{CompletedToday: &completed, Limit: maxListLimit, Offset: offset})
		if err != nil {
			return 0, err
		}
		for _, h := range page {
			ids = append(ids, h.ID)
		}
		if len(page) < maxListLimit {
			break
		}
		offset += len(page)
	}

	count := 0
	for _, id := range ids {
		if _, err := store.UpdateFields(ctx, owner, id, map[string]interface{}{"completed_today": false}); err != nil {
			if utils.Sugar != nil {
				utils.Sugar.Warnf("reset sweep: habit %s owner %d: %v", id, owner, err)
			}
			continue
		}
		count++
	}
	return count, nil
}
