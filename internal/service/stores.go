package service

import (
	"context"
	"time"

	"github.com/fitadmin/diary_service/internal/model"
)

// DiaryStore is the persistence surface for diaries and their slots.
// Implemented by repository.DiaryRepository.
type DiaryStore interface {
	Create(ctx context.Context, diary *model.Diary) error
	GetByID(ctx context.Context, id int64) (*model.Diary, error)
	GetDayByID(ctx context.Context, id int64) (*model.DayAvailable, error)
	Update(ctx context.Context, diary *model.Diary) error
	ToggleActive(ctx context.Context, id int64) (bool, error)
	ListByFacility(ctx context.Context, facilityID int64, filter model.DiaryFilter) ([]*model.Diary, error)
}

// EnrollmentStore is the persistence surface for user enrollments.
// Implemented by repository.UserDiaryRepository.
type EnrollmentStore interface {
	CreateWithCapacityCheck(ctx context.Context, enrollment *model.UserDiary, capacity int) error
	GetByID(ctx context.Context, id int64) (*model.UserDiary, error)
	Deactivate(ctx context.Context, id int64) error
	UpdateSelectedDays(ctx context.Context, id int64, dayIDs []int64) error
	ListActiveByUser(ctx context.Context, userID int64) ([]*model.UserDiary, error)
}

// AttendanceStore is the persistence surface for check-ins.
// Implemented by repository.AttendanceRepository.
type AttendanceStore interface {
	CheckIn(ctx context.Context, att *model.DiaryAttendance) (*model.DiaryAttendance, error)
	GetInWindow(ctx context.Context, userID, facilityID int64, dayIDs []int64, from, to time.Time) ([]*model.DiaryAttendance, error)
}
