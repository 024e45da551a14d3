package model

import (
	"time"

	"github.com/fitadmin/diary_service/internal/apperror"
)

const DaysPerWeek = 7

// DayAvailable is one weekday + time-window slot owned by exactly one diary.
type DayAvailable struct {
	ID        int64  `json:"id"`
	DiaryID   int64  `json:"diary_id"`
	DayOfWeek int    `json:"day_of_week"` // 0 = Sunday, 6 = Saturday
	Available bool   `json:"available"`
	TimeStart string `json:"time_start"` // "HH:MM"
	TimeEnd   string `json:"time_end"`
}

// Validate checks the slot invariants.
func (d *DayAvailable) Validate() error {
	if d.DayOfWeek < 0 || d.DayOfWeek > 6 {
		return apperror.Validation("day_of_week", "must be between 0 and 6")
	}
	if !ValidClockTime(d.TimeStart) {
		return apperror.Validation("time_start", "must be a valid HH:MM time")
	}
	if !ValidClockTime(d.TimeEnd) {
		return apperror.Validation("time_end", "must be a valid HH:MM time")
	}
	// Zero-padded HH:MM strings order correctly as text.
	if d.TimeStart >= d.TimeEnd {
		return apperror.Validation("time_start", "must be before time_end")
	}
	return nil
}

// ValidClockTime reports whether s is a zero-padded "HH:MM" clock time.
func ValidClockTime(s string) bool {
	if len(s) != 5 {
		return false
	}
	_, err := time.Parse("15:04", s)
	return err == nil
}
