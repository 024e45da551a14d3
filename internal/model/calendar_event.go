package model

import (
	"fmt"
	"time"
)

// CalendarEvent is one occurrence in a user's projected week. It is never
// persisted; the ID is stable across projections of the same inputs.
type CalendarEvent struct {
	ID             string    `json:"id"`
	UserDiaryID    int64     `json:"user_diary_id"`
	DiaryID        int64     `json:"diary_id"`
	DayAvailableID int64     `json:"day_available_id"`
	UserID         int64     `json:"user_id"`
	DiaryName      string    `json:"diary_name"`
	Date           time.Time `json:"date"`
	TimeStart      string    `json:"time_start"`
	TimeEnd        string    `json:"time_end"`
	Attended       bool      `json:"attended"`
}

// EventID builds the stable identity of a calendar event.
func EventID(userDiaryID, dayAvailableID int64, date time.Time) string {
	return fmt.Sprintf("%d:%d:%s", userDiaryID, dayAvailableID, date.Format("2006-01-02"))
}
