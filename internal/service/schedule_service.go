package service

import (
	"context"
	"fmt"
	"time"

	"github.com/fitadmin/diary_service/internal/apperror"
	"github.com/fitadmin/diary_service/internal/model"
	"go.uber.org/zap"
)

// ScheduleService owns diary templates and their weekly slots.
type ScheduleService struct {
	diaries DiaryStore
	logger  *zap.Logger
}

func NewScheduleService(diaries DiaryStore, logger *zap.Logger) *ScheduleService {
	return &ScheduleService{diaries: diaries, logger: logger}
}

// DaySpec describes one slot to create with a diary.
type DaySpec struct {
	DayOfWeek int
	TimeStart string
	TimeEnd   string
}

// CreateDiaryInput carries everything needed to create a diary template.
type CreateDiaryInput struct {
	Name           string
	TypeSchedule   model.ScheduleType
	DateFrom       time.Time
	DateUntil      time.Time
	RepeatFor      *int
	OfferDays      []bool
	TermDuration   int
	AmountOfPeople int
	GenreExclusive model.GenreExclusive
	WorksHolidays  bool
	Observations   string
	FacilityID     int64
	Days           []DaySpec
}

// CreateDiary validates the template and creates it with its initial slots.
// When no explicit slots are supplied, one all-day slot is created per
// offered weekday.
func (s *ScheduleService) CreateDiary(ctx context.Context, in CreateDiaryInput) (*model.Diary, error) {
	diary := &model.Diary{
		Name:           in.Name,
		TypeSchedule:   in.TypeSchedule,
		DateFrom:       in.DateFrom,
		DateUntil:      in.DateUntil,
		RepeatFor:      in.RepeatFor,
		OfferDays:      in.OfferDays,
		TermDuration:   in.TermDuration,
		AmountOfPeople: in.AmountOfPeople,
		IsActive:       true,
		GenreExclusive: in.GenreExclusive,
		WorksHolidays:  in.WorksHolidays,
		Observations:   in.Observations,
		FacilityID:     in.FacilityID,
	}
	if diary.GenreExclusive == "" {
		diary.GenreExclusive = model.GenreExclusiveNone
	}

	if err := diary.Validate(); err != nil {
		return nil, err
	}

	if len(in.Days) > 0 {
		for _, spec := range in.Days {
			diary.Days = append(diary.Days, &model.DayAvailable{
				DayOfWeek: spec.DayOfWeek,
				Available: true,
				TimeStart: spec.TimeStart,
				TimeEnd:   spec.TimeEnd,
			})
		}
	} else {
		for weekday, offered := range diary.OfferDays {
			if !offered {
				continue
			}
			diary.Days = append(diary.Days, &model.DayAvailable{
				DayOfWeek: weekday,
				Available: true,
				TimeStart: "00:00",
				TimeEnd:   "23:59",
			})
		}
	}

	for _, day := range diary.Days {
		if err := day.Validate(); err != nil {
			return nil, err
		}
		if !diary.OfferDays[day.DayOfWeek] {
			return nil, apperror.Validation("days", fmt.Sprintf("weekday %d is not offered by this diary", day.DayOfWeek))
		}
	}

	if err := s.diaries.Create(ctx, diary); err != nil {
		return nil, err
	}

	s.logger.Info("diary created",
		zap.Int64("diary_id", diary.ID),
		zap.Int64("facility_id", diary.FacilityID),
		zap.String("name", diary.Name),
		zap.Int("days", len(diary.Days)),
		zap.Int("capacity", diary.AmountOfPeople),
	)

	return diary, nil
}

// DiaryPatch holds the updatable diary fields; nil means "keep".
type DiaryPatch struct {
	Name           *string
	TypeSchedule   *model.ScheduleType
	DateFrom       *time.Time
	DateUntil      *time.Time
	RepeatFor      *int
	OfferDays      []bool
	TermDuration   *int
	AmountOfPeople *int
	GenreExclusive *model.GenreExclusive
	WorksHolidays  *bool
	Observations   *string
}

// UpdateDiary merges the patch into the stored diary and re-validates the
// result. Existing enrollment snapshots are not rewritten.
func (s *ScheduleService) UpdateDiary(ctx context.Context, id int64, patch DiaryPatch) (*model.Diary, error) {
	diary, err := s.diaries.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		diary.Name = *patch.Name
	}
	if patch.TypeSchedule != nil {
		diary.TypeSchedule = *patch.TypeSchedule
	}
	if patch.DateFrom != nil {
		diary.DateFrom = *patch.DateFrom
	}
	if patch.DateUntil != nil {
		diary.DateUntil = *patch.DateUntil
	}
	if patch.RepeatFor != nil {
		diary.RepeatFor = patch.RepeatFor
	}
	if patch.OfferDays != nil {
		diary.OfferDays = patch.OfferDays
	}
	if patch.TermDuration != nil {
		diary.TermDuration = *patch.TermDuration
	}
	if patch.AmountOfPeople != nil {
		diary.AmountOfPeople = *patch.AmountOfPeople
	}
	if patch.GenreExclusive != nil {
		diary.GenreExclusive = *patch.GenreExclusive
	}
	if patch.WorksHolidays != nil {
		diary.WorksHolidays = *patch.WorksHolidays
	}
	if patch.Observations != nil {
		diary.Observations = *patch.Observations
	}

	if err := diary.Validate(); err != nil {
		return nil, err
	}

	if err := s.diaries.Update(ctx, diary); err != nil {
		return nil, err
	}

	s.logger.Info("diary updated", zap.Int64("diary_id", diary.ID))

	return diary, nil
}

// ToggleActive flips the diary's active flag. Children are never cascaded:
// deactivation must not break enrollment or attendance history.
func (s *ScheduleService) ToggleActive(ctx context.Context, id int64) (bool, error) {
	active, err := s.diaries.ToggleActive(ctx, id)
	if err != nil {
		return false, err
	}

	s.logger.Info("diary toggled",
		zap.Int64("diary_id", id),
		zap.Bool("is_active", active),
	)

	return active, nil
}

// GetDiary loads one diary with its slots.
func (s *ScheduleService) GetDiary(ctx context.Context, id int64) (*model.Diary, error) {
	return s.diaries.GetByID(ctx, id)
}

// ListDiaries returns a facility's diaries for menus and dashboards.
func (s *ScheduleService) ListDiaries(ctx context.Context, facilityID int64, filter model.DiaryFilter) ([]*model.Diary, error) {
	return s.diaries.ListByFacility(ctx, facilityID, filter)
}
