package habits

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/umageminite/habit-tracker-app/models"
)

// MemoryStore is an in-process Store used by unit tests and by local runs
// without a database. A single mutex guards every operation, so Toggle's
// read-compute-write is atomic here too.
type MemoryStore struct {
	mu     sync.Mutex
	byUser map[uint]map[string]*models.Habit
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byUser: make(map[uint]map[string]*models.Habit)}
}

func (s *MemoryStore) Create(ctx context.Context, h *models.Habit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	if h.CreatedAt.IsZero() {
		h.CreatedAt = now
	}
	h.UpdatedAt = now
	if s.byUser[h.UserID] == nil {
		s.byUser[h.UserID] = make(map[string]*models.Habit)
	}
	cp := *h
	s.byUser[h.UserID][h.ID] = &cp
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, owner uint, id string) (*models.Habit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, err := s.find(owner, id)
	if err != nil {
		return nil, err
	}
	cp := *h
	return &cp, nil
}

func (s *MemoryStore) List(ctx context.Context, owner uint, f ListFilter) ([]models.Habit, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	matched := make([]models.Habit, 0, len(s.byUser[owner]))
	for _, h := range s.byUser[owner] {
		if f.Frequency != "" && h.Frequency != f.Frequency {
			continue
		}
		if f.CompletedToday != nil && h.CompletedToday != *f.CompletedToday {
			continue
		}
		matched = append(matched, *h)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	total := int64(len(matched))

	limit, offset := f.window()
	if offset >= len(matched) {
		return []models.Habit{}, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (s *MemoryStore) UpdateFields(ctx context.Context, owner uint, id string, fields map[string]interface{}) (*models.Habit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, err := s.find(owner, id)
	if err != nil {
		return nil, err
	}
	if err := applyFields(h, fields); err != nil {
		return nil, err
	}
	h.UpdatedAt = time.Now()
	cp := *h
	return &cp, nil
}

func (s *MemoryStore) Delete(ctx context.Context, owner uint, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.find(owner, id); err != nil {
		return err
	}
	delete(s.byUser[owner], id)
	return nil
}

func (s *MemoryStore) Toggle(ctx context.Context, owner uint, id string, now time.Time) (*models.Habit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, err := s.find(owner, id)
	if err != nil {
		return nil, err
	}
	if err := applyFields(h, NextToggle(h, now)); err != nil {
		return nil, err
	}
	h.UpdatedAt = now
	cp := *h
	return &cp, nil
}

func (s *MemoryStore) find(owner uint, id string) (*models.Habit, error) {
	if h, ok := s.byUser[owner][id]; ok {
		return h, nil
	}
	return nil, ErrNotFound
}

// applyFields mirrors the partial-update contract the SQL store gets from
// Updates(map): only whitelisted columns may appear.
func applyFields(h *models.Habit, fields map[string]interface{}) error {
	for k, v := range fields {
		switch k {
		case "name":
			h.Name = v.(string)
		case "description":
			h.Description = v.(string)
		case "frequency":
			h.Frequency = v.(string)
		case "completed_today":
			h.CompletedToday = v.(bool)
		case "streak":
			h.Streak = v.(int)
		case "last_completed_at":
			if v == nil {
				h.LastCompletedAt = nil
			} else {
				t := v.(time.Time)
				h.LastCompletedAt = &t
			}
		case "updated_at":
			// set by the store after apply
		default:
			return fmt.Errorf("unknown habit field %q", k)
		}
	}
	return nil
}
