// Package projection materializes a user's week of calendar events from
// enrollment state. It is pure: no clock, no storage, no mutation, so a
// projection can be recomputed at any time and always yields the same
// ordered result for the same inputs.
package projection

import (
	"sort"
	"time"

	"github.com/fitadmin/diary_service/internal/model"
)

// AttendanceKey identifies one check-in: user, slot, calendar day.
type AttendanceKey struct {
	UserID         int64
	DayAvailableID int64
	Date           time.Time // midnight-truncated
}

// Key builds the lookup key for an attendance record.
func Key(att *model.DiaryAttendance) AttendanceKey {
	return AttendanceKey{
		UserID:         att.UserID,
		DayAvailableID: att.DayAvailableID,
		Date:           model.TruncateToDay(att.Date),
	}
}

// Input carries everything a projection needs. Enrollments must have their
// Diary (with Days) attached; inactive enrollments and enrollments without a
// loaded diary are skipped.
type Input struct {
	Enrollments []*model.UserDiary
	WeekDates   []time.Time
	Attended    map[AttendanceKey]bool
	IsHoliday   func(time.Time) bool // nil means no date is a holiday
}

// Project emits one event per (enrollment, resolved slot, matching week
// date), sorted by date then slot start time. Slot ids in the enrollment
// snapshot that no longer resolve to an available slot are skipped: the
// diary's slot set may have changed since enrollment.
func Project(in Input) []model.CalendarEvent {
	var events []model.CalendarEvent

	for _, enrollment := range in.Enrollments {
		if !enrollment.IsActive || enrollment.Diary == nil {
			continue
		}
		diary := enrollment.Diary

		for _, slot := range resolveSlots(enrollment) {
			for _, date := range in.WeekDates {
				day := model.TruncateToDay(date)
				if int(day.Weekday()) != slot.DayOfWeek {
					continue
				}
				if !diary.WorksHolidays && in.IsHoliday != nil && in.IsHoliday(day) {
					continue
				}
				events = append(events, model.CalendarEvent{
					ID:             model.EventID(enrollment.ID, slot.ID, day),
					UserDiaryID:    enrollment.ID,
					DiaryID:        diary.ID,
					DayAvailableID: slot.ID,
					UserID:         enrollment.UserID,
					DiaryName:      diary.Name,
					Date:           day,
					TimeStart:      slot.TimeStart,
					TimeEnd:        slot.TimeEnd,
					Attended: in.Attended[AttendanceKey{
						UserID:         enrollment.UserID,
						DayAvailableID: slot.ID,
						Date:           day,
					}],
				})
			}
		}
	}

	sort.SliceStable(events, func(i, j int) bool {
		if !events[i].Date.Equal(events[j].Date) {
			return events[i].Date.Before(events[j].Date)
		}
		if events[i].TimeStart != events[j].TimeStart {
			return events[i].TimeStart < events[j].TimeStart
		}
		return events[i].DayAvailableID < events[j].DayAvailableID
	})

	return events
}

// resolveSlots picks the slots an enrollment projects onto: the selected
// snapshot when present, otherwise every available slot of the diary.
func resolveSlots(enrollment *model.UserDiary) []*model.DayAvailable {
	available := make(map[int64]*model.DayAvailable, len(enrollment.Diary.Days))
	for _, slot := range enrollment.Diary.Days {
		if slot.Available {
			available[slot.ID] = slot
		}
	}

	if len(enrollment.SelectedDays) == 0 {
		slots := make([]*model.DayAvailable, 0, len(available))
		for _, slot := range enrollment.Diary.Days {
			if slot.Available {
				slots = append(slots, slot)
			}
		}
		return slots
	}

	slots := make([]*model.DayAvailable, 0, len(enrollment.SelectedDays))
	for _, id := range enrollment.SelectedDays {
		if slot, ok := available[id]; ok {
			slots = append(slots, slot)
		}
	}
	return slots
}

// WeekDates returns the seven consecutive calendar days starting at the day
// of start.
func WeekDates(start time.Time) []time.Time {
	first := model.TruncateToDay(start)
	dates := make([]time.Time, 0, model.DaysPerWeek)
	for i := 0; i < model.DaysPerWeek; i++ {
		dates = append(dates, first.AddDate(0, 0, i))
	}
	return dates
}
