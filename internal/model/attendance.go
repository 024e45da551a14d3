package model

import "time"

// DiaryAttendance is one check-in record: one user, one slot, one calendar
// day. At most one row exists per (UserID, DayAvailableID, Date).
type DiaryAttendance struct {
	ID             int64     `json:"id"`
	UserID         int64     `json:"user_id"`
	FacilityID     int64     `json:"facility_id"`
	DayAvailableID int64     `json:"day_available_id"`
	Date           time.Time `json:"date"` // calendar day, truncated to midnight
	CreatedAt      time.Time `json:"created_at"`
}

// TruncateToDay drops the time-of-day part of t, keeping its location.
func TruncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DayWindow returns the half-open calendar-day window [day 00:00, day+1 00:00)
// containing t.
func DayWindow(t time.Time) (time.Time, time.Time) {
	from := TruncateToDay(t)
	return from, from.AddDate(0, 0, 1)
}
