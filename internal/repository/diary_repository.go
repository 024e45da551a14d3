package repository

import (
	"context"
	"fmt"

	"github.com/fitadmin/diary_service/internal/apperror"
	"github.com/fitadmin/diary_service/internal/model"
	"github.com/fitadmin/diary_service/internal/repository/base"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type DiaryRepository struct {
	*base.Repository
}

func NewDiaryRepository(pool *pgxpool.Pool) *DiaryRepository {
	return &DiaryRepository{Repository: base.NewRepository(pool)}
}

const diaryColumns = `id, name, type_schedule, date_from, date_until, repeat_for,
	offer_days, term_duration, amount_of_people, is_active, genre_exclusive,
	works_holidays, observations, facility_id, created_at, updated_at`

// Create inserts a diary together with its day slots in one transaction.
// The diary owns its slots; they are never created independently.
func (r *DiaryRepository) Create(ctx context.Context, diary *model.Diary) error {
	tx, err := r.Pool().Begin(ctx)
	if err != nil {
		return apperror.Persistence("begin create diary", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO diaries (name, type_schedule, date_from, date_until, repeat_for,
			offer_days, term_duration, amount_of_people, is_active, genre_exclusive,
			works_holidays, observations, facility_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at
	`,
		diary.Name,
		diary.TypeSchedule,
		diary.DateFrom,
		diary.DateUntil,
		diary.RepeatFor,
		diary.OfferDays,
		diary.TermDuration,
		diary.AmountOfPeople,
		diary.IsActive,
		diary.GenreExclusive,
		diary.WorksHolidays,
		diary.Observations,
		diary.FacilityID,
	).Scan(&diary.ID, &diary.CreatedAt, &diary.UpdatedAt)
	if err != nil {
		return apperror.Persistence("create diary", err)
	}

	for _, day := range diary.Days {
		day.DiaryID = diary.ID
		err = tx.QueryRow(ctx, `
			INSERT INTO days_available (diary_id, day_of_week, available, time_start, time_end)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`, day.DiaryID, day.DayOfWeek, day.Available, day.TimeStart, day.TimeEnd).Scan(&day.ID)
		if err != nil {
			return apperror.Persistence("create diary day", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return apperror.Persistence("commit create diary", err)
	}

	return nil
}

// GetByID loads a diary with its day slots.
func (r *DiaryRepository) GetByID(ctx context.Context, id int64) (*model.Diary, error) {
	query := fmt.Sprintf(`SELECT %s FROM diaries WHERE id = $1`, diaryColumns)

	diary, err := scanDiary(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNoRows(err) {
			return nil, fmt.Errorf("diary %d: %w", id, apperror.ErrNotFound)
		}
		return nil, apperror.Persistence("get diary by id", err)
	}

	diary.Days, err = r.GetDays(ctx, diary.ID)
	if err != nil {
		return nil, err
	}

	return diary, nil
}

// GetDays loads all slots owned by a diary, ordered by weekday and start time.
func (r *DiaryRepository) GetDays(ctx context.Context, diaryID int64) ([]*model.DayAvailable, error) {
	rows, err := r.Query(ctx, `
		SELECT id, diary_id, day_of_week, available, time_start, time_end
		FROM days_available
		WHERE diary_id = $1
		ORDER BY day_of_week, time_start
	`, diaryID)
	if err != nil {
		return nil, apperror.Persistence("get diary days", err)
	}
	defer rows.Close()

	var days []*model.DayAvailable
	for rows.Next() {
		var day model.DayAvailable
		err := rows.Scan(&day.ID, &day.DiaryID, &day.DayOfWeek, &day.Available, &day.TimeStart, &day.TimeEnd)
		if err != nil {
			return nil, apperror.Persistence("scan diary day", err)
		}
		days = append(days, &day)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.Persistence("get diary days", err)
	}

	return days, nil
}

// GetDayByID loads a single slot.
func (r *DiaryRepository) GetDayByID(ctx context.Context, id int64) (*model.DayAvailable, error) {
	var day model.DayAvailable
	err := r.QueryRow(ctx, `
		SELECT id, diary_id, day_of_week, available, time_start, time_end
		FROM days_available
		WHERE id = $1
	`, id).Scan(&day.ID, &day.DiaryID, &day.DayOfWeek, &day.Available, &day.TimeStart, &day.TimeEnd)
	if err != nil {
		if base.IsNoRows(err) {
			return nil, fmt.Errorf("day available %d: %w", id, apperror.ErrNotFound)
		}
		return nil, apperror.Persistence("get day available by id", err)
	}

	return &day, nil
}

// Update rewrites the diary's own fields. Slots are not touched here, so
// existing enrollment snapshots keep their meaning.
func (r *DiaryRepository) Update(ctx context.Context, diary *model.Diary) error {
	affected, err := r.ExecAffected(ctx, `
		UPDATE diaries
		SET name = $1, type_schedule = $2, date_from = $3, date_until = $4,
			repeat_for = $5, offer_days = $6, term_duration = $7,
			amount_of_people = $8, genre_exclusive = $9, works_holidays = $10,
			observations = $11, updated_at = now()
		WHERE id = $12
	`,
		diary.Name,
		diary.TypeSchedule,
		diary.DateFrom,
		diary.DateUntil,
		diary.RepeatFor,
		diary.OfferDays,
		diary.TermDuration,
		diary.AmountOfPeople,
		diary.GenreExclusive,
		diary.WorksHolidays,
		diary.Observations,
		diary.ID,
	)
	if err != nil {
		return apperror.Persistence("update diary", err)
	}
	if affected == 0 {
		return fmt.Errorf("diary %d: %w", diary.ID, apperror.ErrNotFound)
	}

	return nil
}

// ToggleActive flips is_active and returns the new value. Slots and
// enrollments are left alone so history stays intact.
func (r *DiaryRepository) ToggleActive(ctx context.Context, id int64) (bool, error) {
	var active bool
	err := r.QueryRow(ctx, `
		UPDATE diaries
		SET is_active = NOT is_active, updated_at = now()
		WHERE id = $1
		RETURNING is_active
	`, id).Scan(&active)
	if err != nil {
		if base.IsNoRows(err) {
			return false, fmt.Errorf("diary %d: %w", id, apperror.ErrNotFound)
		}
		return false, apperror.Persistence("toggle diary active", err)
	}

	return active, nil
}

// ListByFacility returns the facility's diaries, optionally filtered.
func (r *DiaryRepository) ListByFacility(ctx context.Context, facilityID int64, filter model.DiaryFilter) ([]*model.Diary, error) {
	query := fmt.Sprintf(`SELECT %s FROM diaries WHERE facility_id = $1`, diaryColumns)
	args := []any{facilityID}

	if filter.OnlyActive {
		query += ` AND is_active`
	}
	if filter.TypeSchedule != "" {
		args = append(args, filter.TypeSchedule)
		query += fmt.Sprintf(` AND type_schedule = $%d`, len(args))
	}
	query += ` ORDER BY name, id`

	rows, err := r.Query(ctx, query, args...)
	if err != nil {
		return nil, apperror.Persistence("list diaries", err)
	}
	defer rows.Close()

	var diaries []*model.Diary
	for rows.Next() {
		diary, err := scanDiary(rows)
		if err != nil {
			return nil, apperror.Persistence("scan diary", err)
		}
		diaries = append(diaries, diary)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.Persistence("list diaries", err)
	}

	return diaries, nil
}

func scanDiary(row pgx.Row) (*model.Diary, error) {
	var diary model.Diary
	err := row.Scan(
		&diary.ID,
		&diary.Name,
		&diary.TypeSchedule,
		&diary.DateFrom,
		&diary.DateUntil,
		&diary.RepeatFor,
		&diary.OfferDays,
		&diary.TermDuration,
		&diary.AmountOfPeople,
		&diary.IsActive,
		&diary.GenreExclusive,
		&diary.WorksHolidays,
		&diary.Observations,
		&diary.FacilityID,
		&diary.CreatedAt,
		&diary.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &diary, nil
}
