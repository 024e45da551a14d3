package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fitadmin/diary_service/internal/apperror"
	"github.com/fitadmin/diary_service/internal/model"
)

// In-memory stores backing the service tests. The enrollment store guards
// its maps with a mutex, which stands in for the per-diary row lock of the
// real repository.

type fakeDiaryStore struct {
	mu        sync.Mutex
	nextDiary int64
	nextDay   int64
	diaries   map[int64]*model.Diary
}

func newFakeDiaryStore() *fakeDiaryStore {
	return &fakeDiaryStore{diaries: make(map[int64]*model.Diary)}
}

func (s *fakeDiaryStore) Create(_ context.Context, diary *model.Diary) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextDiary++
	diary.ID = s.nextDiary
	diary.CreatedAt = time.Now()
	diary.UpdatedAt = diary.CreatedAt
	for _, day := range diary.Days {
		s.nextDay++
		day.ID = s.nextDay
		day.DiaryID = diary.ID
	}
	s.diaries[diary.ID] = diary
	return nil
}

func (s *fakeDiaryStore) GetByID(_ context.Context, id int64) (*model.Diary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	diary, ok := s.diaries[id]
	if !ok {
		return nil, fmt.Errorf("diary %d: %w", id, apperror.ErrNotFound)
	}
	return diary, nil
}

func (s *fakeDiaryStore) GetDayByID(_ context.Context, id int64) (*model.DayAvailable, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, diary := range s.diaries {
		for _, day := range diary.Days {
			if day.ID == id {
				return day, nil
			}
		}
	}
	return nil, fmt.Errorf("day available %d: %w", id, apperror.ErrNotFound)
}

func (s *fakeDiaryStore) Update(_ context.Context, diary *model.Diary) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.diaries[diary.ID]; !ok {
		return fmt.Errorf("diary %d: %w", diary.ID, apperror.ErrNotFound)
	}
	diary.UpdatedAt = time.Now()
	s.diaries[diary.ID] = diary
	return nil
}

func (s *fakeDiaryStore) ToggleActive(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	diary, ok := s.diaries[id]
	if !ok {
		return false, fmt.Errorf("diary %d: %w", id, apperror.ErrNotFound)
	}
	diary.IsActive = !diary.IsActive
	return diary.IsActive, nil
}

func (s *fakeDiaryStore) ListByFacility(_ context.Context, facilityID int64, filter model.DiaryFilter) ([]*model.Diary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.Diary
	for _, diary := range s.diaries {
		if diary.FacilityID != facilityID {
			continue
		}
		if filter.OnlyActive && !diary.IsActive {
			continue
		}
		if filter.TypeSchedule != "" && diary.TypeSchedule != filter.TypeSchedule {
			continue
		}
		out = append(out, diary)
	}
	return out, nil
}

type fakeEnrollmentStore struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]*model.UserDiary
}

func newFakeEnrollmentStore() *fakeEnrollmentStore {
	return &fakeEnrollmentStore{rows: make(map[int64]*model.UserDiary)}
}

func (s *fakeEnrollmentStore) CreateWithCapacityCheck(_ context.Context, enrollment *model.UserDiary, capacity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	active := 0
	for _, row := range s.rows {
		if row.DiaryID == enrollment.DiaryID && row.IsActive {
			active++
			if row.UserID == enrollment.UserID {
				return apperror.Validation("enrollment", "user already has an active enrollment for this diary")
			}
		}
	}
	if active >= capacity {
		return &apperror.CapacityExceededError{DiaryID: enrollment.DiaryID, Capacity: capacity}
	}

	s.nextID++
	enrollment.ID = s.nextID
	enrollment.IsActive = true
	enrollment.CreatedAt = time.Now()
	stored := *enrollment
	s.rows[enrollment.ID] = &stored
	return nil
}

func (s *fakeEnrollmentStore) GetByID(_ context.Context, id int64) (*model.UserDiary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[id]
	if !ok {
		return nil, fmt.Errorf("enrollment %d: %w", id, apperror.ErrNotFound)
	}
	copied := *row
	return &copied, nil
}

func (s *fakeEnrollmentStore) Deactivate(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[id]
	if !ok {
		return fmt.Errorf("enrollment %d: %w", id, apperror.ErrNotFound)
	}
	row.IsActive = false
	return nil
}

func (s *fakeEnrollmentStore) UpdateSelectedDays(_ context.Context, id int64, dayIDs []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[id]
	if !ok || !row.IsActive {
		return fmt.Errorf("active enrollment %d: %w", id, apperror.ErrNotFound)
	}
	row.SelectedDays = dayIDs
	return nil
}

func (s *fakeEnrollmentStore) ListActiveByUser(_ context.Context, userID int64) ([]*model.UserDiary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.UserDiary
	for id := int64(1); id <= s.nextID; id++ {
		row, ok := s.rows[id]
		if ok && row.UserID == userID && row.IsActive {
			copied := *row
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (s *fakeEnrollmentStore) countActive(diaryID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, row := range s.rows {
		if row.DiaryID == diaryID && row.IsActive {
			count++
		}
	}
	return count
}

type fakeAttendanceStore struct {
	mu     sync.Mutex
	nextID int64
	rows   []*model.DiaryAttendance
}

func newFakeAttendanceStore() *fakeAttendanceStore {
	return &fakeAttendanceStore{}
}

func (s *fakeAttendanceStore) CheckIn(_ context.Context, att *model.DiaryAttendance) (*model.DiaryAttendance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	day := model.TruncateToDay(att.Date)
	for _, row := range s.rows {
		if row.UserID == att.UserID && row.DayAvailableID == att.DayAvailableID && row.Date.Equal(day) {
			return row, nil
		}
	}

	s.nextID++
	att.ID = s.nextID
	att.Date = day
	att.CreatedAt = time.Now()
	stored := *att
	s.rows = append(s.rows, &stored)
	return &stored, nil
}

func (s *fakeAttendanceStore) GetInWindow(_ context.Context, userID, facilityID int64, dayIDs []int64, from, to time.Time) ([]*model.DiaryAttendance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	wanted := make(map[int64]bool, len(dayIDs))
	for _, id := range dayIDs {
		wanted[id] = true
	}

	var out []*model.DiaryAttendance
	for _, row := range s.rows {
		if row.UserID != userID || row.FacilityID != facilityID || !wanted[row.DayAvailableID] {
			continue
		}
		if row.Date.Before(from) || !row.Date.Before(to) {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}
