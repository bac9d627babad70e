package habits

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/umageminite/habit-tracker-app/models"
)

// GormStore persists habits in MySQL through GORM.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps an initialized GORM handle.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Create(ctx context.Context, h *models.Habit) error {
	return s.db.WithContext(ctx).Create(h).Error
}

func (s *GormStore) Get(ctx context.Context, owner uint, id string) (*models.Habit, error) {
	var h models.Habit
	err := s.db.WithContext(ctx).Where("user_id = ? AND id = ?", owner, id).First(&h).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &h, nil
}

func (s *GormStore) List(ctx context.Context, owner uint, f ListFilter) ([]models.Habit, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Habit{}).Where("user_id = ?", owner)
	if f.Frequency != "" {
		query = query.Where("frequency = ?", f.Frequency)
	}
	if f.CompletedToday != nil {
		query = query.Where("completed_today = ?", *f.CompletedToday)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit, offset := f.window()
	var out []models.Habit
	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (s *GormStore) UpdateFields(ctx context.Context, owner uint, id string, fields map[string]interface{}) (*models.Habit, error) {
	set := make(map[string]interface{}, len(fields)+1)
	for k, v := range fields {
		set[k] = v
	}
	set["updated_at"] = time.Now()

	res := s.db.WithContext(ctx).Model(&models.Habit{}).
		Where("user_id = ? AND id = ?", owner, id).
		Updates(set)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.Get(ctx, owner, id)
}

func (s *GormStore) Delete(ctx context.Context, owner uint, id string) error {
	res := s.db.WithContext(ctx).Where("user_id = ? AND id = ?", owner, id).Delete(&models.Habit{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Toggle runs the read-compute-write of a completion toggle inside a
// transaction holding a FOR UPDATE row lock, so concurrent toggles on the
// same habit serialize instead of racing the streak counter.
func (s *GormStore) Toggle(ctx context.Context, owner uint, id string, now time.Time) (*models.Habit, error) {
	var updated models.Habit
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var h models.Habit
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND id = ?", owner, id).First(&h).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		fields := NextToggle(&h, now)
		fields["updated_at"] = now
		if err := tx.Model(&models.Habit{}).
			Where("user_id = ? AND id = ?", owner, id).
			Updates(fields).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ? AND id = ?", owner, id).First(&updated).Error
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}
