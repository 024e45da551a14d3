package service

import (
	"context"
	"time"

	"github.com/fitadmin/diary_service/internal/model"
	"github.com/fitadmin/diary_service/internal/projection"
	"go.uber.org/zap"
)

// HolidayCalendar answers whether a date is a holiday. The engine does not
// implement one; the surrounding application injects it.
type HolidayCalendar interface {
	IsHoliday(date time.Time) bool
}

// CalendarService assembles the inputs for a week projection and runs the
// pure projector over them.
type CalendarService struct {
	diaries     DiaryStore
	enrollments EnrollmentStore
	attendance  AttendanceStore
	holidays    HolidayCalendar // optional
	logger      *zap.Logger
}

func NewCalendarService(diaries DiaryStore, enrollments EnrollmentStore, attendance AttendanceStore, holidays HolidayCalendar, logger *zap.Logger) *CalendarService {
	return &CalendarService{
		diaries:     diaries,
		enrollments: enrollments,
		attendance:  attendance,
		holidays:    holidays,
		logger:      logger,
	}
}

// ProjectWeek materializes the user's calendar for the seven days starting
// at weekStart. It reads state and projects; nothing is mutated, so calling
// it again with the same arguments yields the same ordered events.
func (s *CalendarService) ProjectWeek(ctx context.Context, userID, facilityID int64, weekStart time.Time) ([]model.CalendarEvent, error) {
	enrollments, err := s.enrollments.ListActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	var slotIDs []int64
	for _, e := range enrollments {
		e.Diary, err = s.diaries.GetByID(ctx, e.DiaryID)
		if err != nil {
			return nil, err
		}
		for _, day := range e.Diary.Days {
			slotIDs = append(slotIDs, day.ID)
		}
	}

	weekDates := projection.WeekDates(weekStart)
	from := weekDates[0]
	to := from.AddDate(0, 0, model.DaysPerWeek)

	records, err := s.attendance.GetInWindow(ctx, userID, facilityID, slotIDs, from, to)
	if err != nil {
		return nil, err
	}
	attended := make(map[projection.AttendanceKey]bool, len(records))
	for _, att := range records {
		attended[projection.Key(att)] = true
	}

	var isHoliday func(time.Time) bool
	if s.holidays != nil {
		isHoliday = s.holidays.IsHoliday
	}

	events := projection.Project(projection.Input{
		Enrollments: enrollments,
		WeekDates:   weekDates,
		Attended:    attended,
		IsHoliday:   isHoliday,
	})

	s.logger.Debug("week projected",
		zap.Int64("user_id", userID),
		zap.Time("week_start", from),
		zap.Int("events", len(events)),
	)

	return events, nil
}
