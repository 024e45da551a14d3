package model

import (
	"time"

	"github.com/fitadmin/diary_service/internal/apperror"
)

type ScheduleType string

const (
	ScheduleTypeWeekly   ScheduleType = "weekly"   // repeats every week on the offered days
	ScheduleTypeInterval ScheduleType = "interval" // repeats every RepeatFor days
)

type GenreExclusive string

const (
	GenreExclusiveNone   GenreExclusive = "none"
	GenreExclusiveMale   GenreExclusive = "male"
	GenreExclusiveFemale GenreExclusive = "female"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// Matches checks whether a user of the given gender may enroll.
func (g GenreExclusive) Matches(gender Gender) bool {
	switch g {
	case GenreExclusiveNone, "":
		return true
	case GenreExclusiveMale:
		return gender == GenderMale
	case GenreExclusiveFemale:
		return gender == GenderFemale
	}
	return false
}

// Diary is a recurring weekly schedule template for one activity at one facility.
type Diary struct {
	ID             int64          `json:"id"`
	Name           string         `json:"name"`
	TypeSchedule   ScheduleType   `json:"type_schedule"`
	DateFrom       time.Time      `json:"date_from"`
	DateUntil      time.Time      `json:"date_until"`
	RepeatFor      *int           `json:"repeat_for"` // interval in days, nil unless TypeSchedule is "interval"
	OfferDays      []bool         `json:"offer_days"` // exactly 7 entries, index = weekday (0 = Sunday)
	TermDuration   int            `json:"term_duration"` // minutes
	AmountOfPeople int            `json:"amount_of_people"`
	IsActive       bool           `json:"is_active"`
	GenreExclusive GenreExclusive `json:"genre_exclusive"`
	WorksHolidays  bool           `json:"works_holidays"`
	Observations   string         `json:"observations"`
	FacilityID     int64          `json:"facility_id"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`

	// Slots owned by this diary, loaded alongside it (not a DB column)
	Days []*DayAvailable `json:"days,omitempty"`
}

// Validate checks the diary invariants.
func (d *Diary) Validate() error {
	if d.Name == "" {
		return apperror.Validation("name", "must not be empty")
	}
	if len(d.OfferDays) != DaysPerWeek {
		return apperror.Validation("offer_days", "must have exactly 7 entries")
	}
	if d.DateUntil.Before(d.DateFrom) {
		return apperror.Validation("date_until", "must not be before date_from")
	}
	if d.TermDuration < 1 {
		return apperror.Validation("term_duration", "must be at least 1 minute")
	}
	if d.AmountOfPeople < 1 {
		return apperror.Validation("amount_of_people", "must be at least 1")
	}
	switch d.TypeSchedule {
	case ScheduleTypeWeekly:
	case ScheduleTypeInterval:
		if d.RepeatFor == nil || *d.RepeatFor < 1 {
			return apperror.Validation("repeat_for", "must be a positive number of days for interval schedules")
		}
	default:
		return apperror.Validation("type_schedule", "must be weekly or interval")
	}
	switch d.GenreExclusive {
	case GenreExclusiveNone, GenreExclusiveMale, GenreExclusiveFemale:
	default:
		return apperror.Validation("genre_exclusive", "must be none, male or female")
	}
	return nil
}

// AcceptsDate reports whether the calendar day of t falls inside the
// diary's active window [DateFrom, DateUntil].
func (d *Diary) AcceptsDate(t time.Time) bool {
	day := TruncateToDay(t)
	return !day.Before(TruncateToDay(d.DateFrom)) && !day.After(TruncateToDay(d.DateUntil))
}

// DiaryFilter narrows listing results.
type DiaryFilter struct {
	OnlyActive   bool
	TypeSchedule ScheduleType // empty = any
}
