// Package httpapi exposes the scheduling engine over HTTP. Authentication
// is handled upstream; the caller's identity arrives as trusted headers.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/fitadmin/diary_service/internal/model"
	"github.com/fitadmin/diary_service/internal/service"
	"github.com/go-playground/validator/v10"
	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

// ScheduleRegistry is the diary template surface consumed by the API.
type ScheduleRegistry interface {
	CreateDiary(ctx context.Context, in service.CreateDiaryInput) (*model.Diary, error)
	UpdateDiary(ctx context.Context, id int64, patch service.DiaryPatch) (*model.Diary, error)
	ToggleActive(ctx context.Context, id int64) (bool, error)
	ListDiaries(ctx context.Context, facilityID int64, filter model.DiaryFilter) ([]*model.Diary, error)
}

// EnrollmentManager is the enrollment surface consumed by the API.
type EnrollmentManager interface {
	Enroll(ctx context.Context, userID, diaryID int64, selectedDayIDs []int64, gender model.Gender) (*model.UserDiary, error)
	Unenroll(ctx context.Context, userDiaryID int64) error
	ChangeSelectedDays(ctx context.Context, userDiaryID int64, newDayIDs []int64) (*model.UserDiary, error)
	ListUserEnrollments(ctx context.Context, userID int64) ([]*model.UserDiary, error)
}

// AttendanceTracker is the check-in surface consumed by the API.
type AttendanceTracker interface {
	CheckIn(ctx context.Context, userID, facilityID, dayAvailableID int64, date time.Time) (*model.DiaryAttendance, error)
	GetTodayAttendance(ctx context.Context, userID, facilityID int64, dayAvailableIDs []int64) ([]*model.DiaryAttendance, error)
}

// CalendarProjector is the week projection surface consumed by the API.
type CalendarProjector interface {
	ProjectWeek(ctx context.Context, userID, facilityID int64, weekStart time.Time) ([]model.CalendarEvent, error)
}

type API struct {
	schedule   ScheduleRegistry
	enrollment EnrollmentManager
	attendance AttendanceTracker
	calendar   CalendarProjector
	validate   *validator.Validate
	logger     *zap.Logger
}

func New(schedule ScheduleRegistry, enrollment EnrollmentManager, attendance AttendanceTracker, calendar CalendarProjector, logger *zap.Logger) *API {
	return &API{
		schedule:   schedule,
		enrollment: enrollment,
		attendance: attendance,
		calendar:   calendar,
		validate:   validator.New(),
		logger:     logger,
	}
}

// Handler returns the routed handler wrapped with the middleware chain.
func (a *API) Handler() http.Handler {
	router := httprouter.New()

	router.GET("/health", func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
		w.WriteHeader(http.StatusOK)
	})

	router.POST("/api/diaries", a.createDiary)
	router.PATCH("/api/diaries/:id", a.updateDiary)
	router.POST("/api/diaries/:id/toggle", a.toggleDiary)
	router.GET("/api/facilities/:facilityID/diaries", a.listDiaries)

	router.POST("/api/enrollments", a.enroll)
	router.GET("/api/enrollments", a.listEnrollments)
	router.POST("/api/enrollments/:id/unenroll", a.unenroll)
	router.PATCH("/api/enrollments/:id/days", a.changeSelectedDays)

	router.POST("/api/attendance/check-in", a.checkIn)
	router.GET("/api/attendance/today", a.todayAttendance)

	router.GET("/api/calendar/week", a.calendarWeek)

	return a.recoverer(a.requestLogger(router))
}
