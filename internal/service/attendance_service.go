package service

import (
	"context"
	"time"

	"github.com/fitadmin/diary_service/internal/model"
	"go.uber.org/zap"
)

// AttendanceService records and queries per-occurrence check-ins.
type AttendanceService struct {
	diaries    DiaryStore
	attendance AttendanceStore
	logger     *zap.Logger
	now        func() time.Time
}

func NewAttendanceService(diaries DiaryStore, attendance AttendanceStore, logger *zap.Logger) *AttendanceService {
	return &AttendanceService{
		diaries:    diaries,
		attendance: attendance,
		logger:     logger,
		now:        time.Now,
	}
}

// CheckIn records a check-in for the calendar day of date. Checking in twice
// for the same (user, slot, day) returns the first record unchanged; a
// duplicate is a normal outcome, not an error.
func (s *AttendanceService) CheckIn(ctx context.Context, userID, facilityID, dayAvailableID int64, date time.Time) (*model.DiaryAttendance, error) {
	if _, err := s.diaries.GetDayByID(ctx, dayAvailableID); err != nil {
		return nil, err
	}

	record, err := s.attendance.CheckIn(ctx, &model.DiaryAttendance{
		UserID:         userID,
		FacilityID:     facilityID,
		DayAvailableID: dayAvailableID,
		Date:           model.TruncateToDay(date),
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("check-in recorded",
		zap.Int64("attendance_id", record.ID),
		zap.Int64("user_id", userID),
		zap.Int64("day_available_id", dayAvailableID),
		zap.Time("date", record.Date),
	)

	return record, nil
}

// GetTodayAttendance returns the user's check-ins at a facility for the
// given slots within the current calendar day.
func (s *AttendanceService) GetTodayAttendance(ctx context.Context, userID, facilityID int64, dayAvailableIDs []int64) ([]*model.DiaryAttendance, error) {
	from, to := model.DayWindow(s.now())
	return s.attendance.GetInWindow(ctx, userID, facilityID, dayAvailableIDs, from, to)
}

// GetAttendanceBetween returns the user's check-ins for the given slots with
// date inside [from, to). Used for history and progress reporting.
func (s *AttendanceService) GetAttendanceBetween(ctx context.Context, userID, facilityID int64, dayAvailableIDs []int64, from, to time.Time) ([]*model.DiaryAttendance, error) {
	return s.attendance.GetInWindow(ctx, userID, facilityID, dayAvailableIDs, model.TruncateToDay(from), model.TruncateToDay(to))
}
