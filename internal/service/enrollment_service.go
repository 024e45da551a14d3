package service

import (
	"context"
	"fmt"
	"time"

	"github.com/fitadmin/diary_service/internal/apperror"
	"github.com/fitadmin/diary_service/internal/model"
	"github.com/fitadmin/diary_service/internal/repository/base"
	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"
)

// EnrollmentChanged is emitted after an enrollment mutation commits.
type EnrollmentChanged struct {
	EventID uuid.UUID
	UserID  int64
	DiaryID int64
	Action  string
}

const (
	ActionEnrolled    = "enrolled"
	ActionUnenrolled  = "unenrolled"
	ActionDaysChanged = "days_changed"
)

// EnrollmentListener receives enrollment change events. Listeners run
// synchronously on the request goroutine and must not block.
type EnrollmentListener func(EnrollmentChanged)

// EnrollmentService enrolls users into diary slots under capacity and
// exclusivity rules.
type EnrollmentService struct {
	diaries     DiaryStore
	enrollments EnrollmentStore
	logger      *zap.Logger
	now         func() time.Time
	listeners   []EnrollmentListener
}

func NewEnrollmentService(diaries DiaryStore, enrollments EnrollmentStore, logger *zap.Logger) *EnrollmentService {
	return &EnrollmentService{
		diaries:     diaries,
		enrollments: enrollments,
		logger:      logger,
		now:         time.Now,
	}
}

// OnChange registers a listener for enrollment change events.
func (s *EnrollmentService) OnChange(l EnrollmentListener) {
	s.listeners = append(s.listeners, l)
}

func (s *EnrollmentService) emit(action string, userID, diaryID int64) {
	event := EnrollmentChanged{
		EventID: uuid.New(),
		UserID:  userID,
		DiaryID: diaryID,
		Action:  action,
	}
	for _, l := range s.listeners {
		l(event)
	}
}

// Enroll subscribes a user to a subset of a diary's slots. The capacity
// check and the insert run in one storage transaction serialized per diary;
// a transaction conflict is retried once, domain conflicts never are.
func (s *EnrollmentService) Enroll(ctx context.Context, userID, diaryID int64, selectedDayIDs []int64, gender model.Gender) (*model.UserDiary, error) {
	diary, err := s.diaries.GetByID(ctx, diaryID)
	if err != nil {
		return nil, err
	}

	if err := validateSelection(diary, selectedDayIDs); err != nil {
		return nil, err
	}
	if !diary.IsActive {
		return nil, apperror.Validation("diary", "is not active")
	}
	if !diary.AcceptsDate(s.now()) {
		return nil, apperror.Validation("diary", "is outside its active date window")
	}
	if !diary.GenreExclusive.Matches(gender) {
		return nil, &apperror.GenreExclusivityError{
			Required: string(diary.GenreExclusive),
			Got:      string(gender),
		}
	}

	enrollment := &model.UserDiary{
		UserID:       userID,
		DiaryID:      diaryID,
		SelectedDays: selectedDayIDs,
	}

	backoff := retry.WithMaxRetries(1, retry.NewConstant(50*time.Millisecond))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := s.enrollments.CreateWithCapacityCheck(ctx, enrollment, diary.AmountOfPeople)
		if base.IsSerializationFailure(err) {
			return retry.RetryableError(err)
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("user enrolled",
		zap.Int64("user_diary_id", enrollment.ID),
		zap.Int64("user_id", userID),
		zap.Int64("diary_id", diaryID),
		zap.Int("selected_days", len(selectedDayIDs)),
	)
	s.emit(ActionEnrolled, userID, diaryID)

	enrollment.Diary = diary
	return enrollment, nil
}

// Unenroll soft-deletes the enrollment. The row is kept so attendance and
// progress history stay queryable; re-enrolling creates a fresh row.
func (s *EnrollmentService) Unenroll(ctx context.Context, userDiaryID int64) error {
	enrollment, err := s.enrollments.GetByID(ctx, userDiaryID)
	if err != nil {
		return err
	}
	if !enrollment.IsActive {
		return nil
	}

	if err := s.enrollments.Deactivate(ctx, userDiaryID); err != nil {
		return err
	}

	s.logger.Info("user unenrolled",
		zap.Int64("user_diary_id", userDiaryID),
		zap.Int64("user_id", enrollment.UserID),
		zap.Int64("diary_id", enrollment.DiaryID),
	)
	s.emit(ActionUnenrolled, enrollment.UserID, enrollment.DiaryID)

	return nil
}

// ChangeSelectedDays replaces the slot snapshot of an active enrollment.
// Capacity is per diary, so swapping days inside an existing enrollment does
// not change the diary's occupancy; only the new selection is validated.
func (s *EnrollmentService) ChangeSelectedDays(ctx context.Context, userDiaryID int64, newDayIDs []int64) (*model.UserDiary, error) {
	enrollment, err := s.enrollments.GetByID(ctx, userDiaryID)
	if err != nil {
		return nil, err
	}
	if !enrollment.IsActive {
		return nil, apperror.Validation("enrollment", "is not active")
	}

	diary, err := s.diaries.GetByID(ctx, enrollment.DiaryID)
	if err != nil {
		return nil, err
	}
	if err := validateSelection(diary, newDayIDs); err != nil {
		return nil, err
	}

	if err := s.enrollments.UpdateSelectedDays(ctx, userDiaryID, newDayIDs); err != nil {
		return nil, err
	}
	enrollment.SelectedDays = newDayIDs

	s.logger.Info("enrollment days changed",
		zap.Int64("user_diary_id", userDiaryID),
		zap.Int("selected_days", len(newDayIDs)),
	)
	s.emit(ActionDaysChanged, enrollment.UserID, enrollment.DiaryID)

	return enrollment, nil
}

// ListUserEnrollments returns the user's active enrollments with their
// diaries attached.
func (s *EnrollmentService) ListUserEnrollments(ctx context.Context, userID int64) ([]*model.UserDiary, error) {
	enrollments, err := s.enrollments.ListActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, e := range enrollments {
		e.Diary, err = s.diaries.GetByID(ctx, e.DiaryID)
		if err != nil {
			return nil, err
		}
	}
	return enrollments, nil
}

// validateSelection checks every selected id against the diary's slot set:
// the slot must belong to the diary and still be available.
func validateSelection(diary *model.Diary, selectedDayIDs []int64) error {
	available := make(map[int64]bool, len(diary.Days))
	for _, day := range diary.Days {
		available[day.ID] = day.Available
	}
	for _, id := range selectedDayIDs {
		ok, known := available[id]
		if !known {
			return apperror.Validation("selected_days", fmt.Sprintf("slot %d does not belong to diary %d", id, diary.ID))
		}
		if !ok {
			return apperror.Validation("selected_days", fmt.Sprintf("slot %d is not available", id))
		}
	}
	return nil
}
