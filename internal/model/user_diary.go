package model

import "time"

// UserDiary is a user's enrollment into a diary. SelectedDays is a snapshot
// of the DayAvailable ids chosen at enrollment time; the diary's slot set may
// change afterwards, so consumers must skip ids that no longer resolve.
type UserDiary struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	DiaryID      int64     `json:"diary_id"`
	SelectedDays []int64   `json:"selected_days"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`

	// Loaded for convenience (not a DB column)
	Diary *Diary `json:"diary,omitempty"`
}
