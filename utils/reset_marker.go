package utils

import (
	"context"
	"strconv"
	"sync"
	"time"
)

var (
	resetMarkers   = map[uint]string{}
	resetMarkersMu sync.RWMutex
)

func resetMarkerKey(owner uint) string {
	return "habits:lastreset:" + strconv.FormatUint(uint64(owner), 10)
}

// DailyResetDue reports whether the owner's habits have not been swept on the
// current UTC day yet. Markers live in Redis so multiple instances agree;
// without Redis an in-process map is used.
func DailyResetDue(owner uint) bool {
	today := TodayString()
	if rc := GetRedis(); rc != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		v, err := rc.Get(ctx, resetMarkerKey(owner)).Result()
		if err == nil {
			return v != today
		}
		// Missing key or Redis error both mean "run the sweep"; the sweep
		// itself is idempotent so a spurious run is harmless.
		return true
	}
	resetMarkersMu.RLock()
	v := resetMarkers[owner]
	resetMarkersMu.RUnlock()
	return v != today
}

// MarkDailyReset records that the owner's sweep ran today. The Redis entry
// expires after two days; it only needs to survive until the next day change.
func MarkDailyReset(owner uint) {
	today := TodayString()
	if rc := GetRedis(); rc != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = rc.Set(ctx, resetMarkerKey(owner), today, 48*time.Hour).Err()
		return
	}
	resetMarkersMu.Lock()
	resetMarkers[owner] = today
	resetMarkersMu.Unlock()
}
