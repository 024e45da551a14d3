package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fitadmin/diary_service/internal/apperror"
	"github.com/fitadmin/diary_service/internal/model"
	"github.com/fitadmin/diary_service/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubSchedule struct {
	diary *model.Diary
	err   error
}

func (s *stubSchedule) CreateDiary(context.Context, service.CreateDiaryInput) (*model.Diary, error) {
	return s.diary, s.err
}

func (s *stubSchedule) UpdateDiary(context.Context, int64, service.DiaryPatch) (*model.Diary, error) {
	return s.diary, s.err
}

func (s *stubSchedule) ToggleActive(context.Context, int64) (bool, error) {
	return true, s.err
}

func (s *stubSchedule) ListDiaries(context.Context, int64, model.DiaryFilter) ([]*model.Diary, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []*model.Diary{s.diary}, nil
}

type stubEnrollment struct {
	enrollment *model.UserDiary
	err        error
	gotGender  model.Gender
}

func (s *stubEnrollment) Enroll(_ context.Context, _, _ int64, _ []int64, gender model.Gender) (*model.UserDiary, error) {
	s.gotGender = gender
	return s.enrollment, s.err
}

func (s *stubEnrollment) Unenroll(context.Context, int64) error {
	return s.err
}

func (s *stubEnrollment) ChangeSelectedDays(context.Context, int64, []int64) (*model.UserDiary, error) {
	return s.enrollment, s.err
}

func (s *stubEnrollment) ListUserEnrollments(context.Context, int64) ([]*model.UserDiary, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []*model.UserDiary{s.enrollment}, nil
}

type stubAttendance struct {
	record *model.DiaryAttendance
	err    error
}

func (s *stubAttendance) CheckIn(context.Context, int64, int64, int64, time.Time) (*model.DiaryAttendance, error) {
	return s.record, s.err
}

func (s *stubAttendance) GetTodayAttendance(context.Context, int64, int64, []int64) ([]*model.DiaryAttendance, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []*model.DiaryAttendance{s.record}, nil
}

type stubCalendar struct {
	events []model.CalendarEvent
	err    error
}

func (s *stubCalendar) ProjectWeek(context.Context, int64, int64, time.Time) ([]model.CalendarEvent, error) {
	return s.events, s.err
}

type fixture struct {
	schedule   *stubSchedule
	enrollment *stubEnrollment
	attendance *stubAttendance
	calendar   *stubCalendar
	handler    http.Handler
}

func newFixture() *fixture {
	fx := &fixture{
		schedule:   &stubSchedule{diary: &model.Diary{ID: 1, Name: "Crossfit"}},
		enrollment: &stubEnrollment{enrollment: &model.UserDiary{ID: 1, UserID: 42, DiaryID: 1, IsActive: true}},
		attendance: &stubAttendance{record: &model.DiaryAttendance{ID: 1, UserID: 42}},
		calendar:   &stubCalendar{},
	}
	api := New(fx.schedule, fx.enrollment, fx.attendance, fx.calendar, zap.NewNop())
	fx.handler = api.Handler()
	return fx
}

func (fx *fixture) do(method, path, body string, authed bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if authed {
		req.Header.Set("X-User-ID", "42")
		req.Header.Set("X-User-Gender", "female")
	}
	rec := httptest.NewRecorder()
	fx.handler.ServeHTTP(rec, req)
	return rec
}

const validDiaryBody = `{
	"name": "Crossfit",
	"type_schedule": "weekly",
	"date_from": "2024-06-01",
	"date_until": "2024-12-31",
	"offer_days": [false, true, false, true, false, false, false],
	"term_duration": 60,
	"amount_of_people": 10,
	"facility_id": 1,
	"days": [{"day_of_week": 1, "time_start": "08:00", "time_end": "09:00"}]
}`

func TestMissingIdentityIsUnauthorized(t *testing.T) {
	fx := newFixture()

	paths := []struct {
		method, path, body string
	}{
		{http.MethodPost, "/api/diaries", validDiaryBody},
		{http.MethodPost, "/api/enrollments", `{"diary_id": 1}`},
		{http.MethodPost, "/api/attendance/check-in", `{"facility_id":1,"day_available_id":1,"date":"2024-06-04"}`},
		{http.MethodGet, "/api/calendar/week?facility_id=1&start=2024-06-02", ""},
	}

	for _, tt := range paths {
		rec := fx.do(tt.method, tt.path, tt.body, false)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, tt.path)
	}
}

func TestCreateDiary(t *testing.T) {
	fx := newFixture()

	rec := fx.do(http.MethodPost, "/api/diaries", validDiaryBody, true)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"Crossfit"`)
}

func TestCreateDiaryBadBody(t *testing.T) {
	fx := newFixture()

	rec := fx.do(http.MethodPost, "/api/diaries", `{not json`, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Fails the DTO contract: offer_days must have 7 entries.
	rec = fx.do(http.MethodPost, "/api/diaries", `{
		"name": "X", "type_schedule": "weekly",
		"date_from": "2024-06-01", "date_until": "2024-12-31",
		"offer_days": [true, true],
		"term_duration": 60, "amount_of_people": 10, "facility_id": 1
	}`, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", apperror.ErrNotFound, http.StatusNotFound},
		{"validation", apperror.Validation("selected_days", "bad"), http.StatusBadRequest},
		{"exclusivity", &apperror.GenreExclusivityError{Required: "male", Got: "female"}, http.StatusBadRequest},
		{"capacity", &apperror.CapacityExceededError{DiaryID: 1, Capacity: 2}, http.StatusConflict},
		{"persistence", apperror.Persistence("insert", assert.AnError), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newFixture()
			fx.enrollment.err = tt.err

			rec := fx.do(http.MethodPost, "/api/enrollments", `{"diary_id": 1}`, true)
			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusInternalServerError {
				// Internals never leak to clients.
				assert.NotContains(t, rec.Body.String(), "insert")
			}
		})
	}
}

func TestEnrollPassesGenderFromHeader(t *testing.T) {
	fx := newFixture()

	rec := fx.do(http.MethodPost, "/api/enrollments", `{"diary_id": 1, "selected_day_ids": [1, 2]}`, true)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, model.GenderFemale, fx.enrollment.gotGender)
}

func TestUnenroll(t *testing.T) {
	fx := newFixture()

	rec := fx.do(http.MethodPost, "/api/enrollments/5/unenroll", "", true)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = fx.do(http.MethodPost, "/api/enrollments/abc/unenroll", "", true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheckIn(t *testing.T) {
	fx := newFixture()

	rec := fx.do(http.MethodPost, "/api/attendance/check-in", `{"facility_id":1,"day_available_id":3,"date":"2024-06-04"}`, true)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = fx.do(http.MethodPost, "/api/attendance/check-in", `{"facility_id":1,"day_available_id":3,"date":"04.06.2024"}`, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTodayAttendance(t *testing.T) {
	fx := newFixture()

	rec := fx.do(http.MethodGet, "/api/attendance/today?facility_id=1&slots=1,2,3", "", true)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = fx.do(http.MethodGet, "/api/attendance/today?facility_id=1&slots=1,x", "", true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = fx.do(http.MethodGet, "/api/attendance/today?slots=1", "", true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCalendarWeek(t *testing.T) {
	fx := newFixture()
	fx.calendar.events = []model.CalendarEvent{{ID: "1:2:2024-06-04", DiaryName: "Crossfit"}}

	rec := fx.do(http.MethodGet, "/api/calendar/week?facility_id=1&start=2024-06-02", "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "1:2:2024-06-04")

	rec = fx.do(http.MethodGet, "/api/calendar/week?facility_id=1&start=June", "", true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealth(t *testing.T) {
	fx := newFixture()

	rec := fx.do(http.MethodGet, "/health", "", false)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequestIDHeader(t *testing.T) {
	fx := newFixture()

	rec := fx.do(http.MethodGet, "/health", "", false)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "test-id-1")
	resp := httptest.NewRecorder()
	fx.handler.ServeHTTP(resp, req)
	assert.Equal(t, "test-id-1", resp.Header().Get("X-Request-ID"))
}
