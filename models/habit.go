package models

import "time"

// Habit frequency values accepted by the API.
const (
	FrequencyDaily  = "daily"
	FrequencyWeekly = "weekly"
)

// Habit represents a recurring habit owned by a single user. The primary key
// is a UUID generated at creation; ownership is enforced by always pairing it
// with UserID in queries.
type Habit struct {
	ID              string     `gorm:"primaryKey;size:36" json:"id"`
	UserID          uint       `gorm:"index;not null" json:"user_id"`
	Name            string     `gorm:"size:100;not null" json:"name"`
	Description     string     `gorm:"size:500" json:"description"`
	Frequency       string     `gorm:"size:16;not null" json:"frequency"`
	CompletedToday  bool       `gorm:"default:false" json:"completed_today"`
	Streak          int        `gorm:"default:0" json:"streak"`
	LastCompletedAt *time.Time `json:"last_completed_at"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// ValidFrequency reports whether f is one of the supported frequency values.
func ValidFrequency(f string) bool {
	return f == FrequencyDaily || f == FrequencyWeekly
}
