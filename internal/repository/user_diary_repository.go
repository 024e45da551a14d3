package repository

import (
	"context"
	"fmt"

	"github.com/fitadmin/diary_service/internal/apperror"
	"github.com/fitadmin/diary_service/internal/model"
	"github.com/fitadmin/diary_service/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserDiaryRepository struct {
	*base.Repository
}

func NewUserDiaryRepository(pool *pgxpool.Pool) *UserDiaryRepository {
	return &UserDiaryRepository{Repository: base.NewRepository(pool)}
}

// CreateWithCapacityCheck inserts an enrollment after counting the diary's
// active enrollments, all inside one transaction. The diary row is locked
// first so concurrent enrollments against the same diary serialize and can
// never jointly exceed the capacity.
func (r *UserDiaryRepository) CreateWithCapacityCheck(ctx context.Context, enrollment *model.UserDiary, capacity int) error {
	tx, err := r.Pool().Begin(ctx)
	if err != nil {
		return apperror.Persistence("begin enroll", err)
	}
	defer tx.Rollback(ctx)

	var diaryID int64
	err = tx.QueryRow(ctx, `SELECT id FROM diaries WHERE id = $1 FOR UPDATE`, enrollment.DiaryID).Scan(&diaryID)
	if err != nil {
		if base.IsNoRows(err) {
			return fmt.Errorf("diary %d: %w", enrollment.DiaryID, apperror.ErrNotFound)
		}
		return apperror.Persistence("lock diary", err)
	}

	var active int
	err = tx.QueryRow(ctx, `
		SELECT COUNT(*) FROM user_diaries WHERE diary_id = $1 AND is_active
	`, enrollment.DiaryID).Scan(&active)
	if err != nil {
		return apperror.Persistence("count active enrollments", err)
	}
	if active >= capacity {
		return &apperror.CapacityExceededError{DiaryID: enrollment.DiaryID, Capacity: capacity}
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO user_diaries (user_id, diary_id, selected_days, is_active)
		VALUES ($1, $2, $3, true)
		RETURNING id, created_at
	`, enrollment.UserID, enrollment.DiaryID, enrollment.SelectedDays).Scan(&enrollment.ID, &enrollment.CreatedAt)
	if err != nil {
		if base.IsUniqueViolation(err, "user_diaries_active_per_diary") {
			return apperror.Validation("enrollment", "user already has an active enrollment for this diary")
		}
		return apperror.Persistence("create enrollment", err)
	}
	enrollment.IsActive = true

	if err := tx.Commit(ctx); err != nil {
		return apperror.Persistence("commit enroll", err)
	}

	return nil
}

// GetByID loads one enrollment.
func (r *UserDiaryRepository) GetByID(ctx context.Context, id int64) (*model.UserDiary, error) {
	var e model.UserDiary
	err := r.QueryRow(ctx, `
		SELECT id, user_id, diary_id, selected_days, is_active, created_at
		FROM user_diaries
		WHERE id = $1
	`, id).Scan(&e.ID, &e.UserID, &e.DiaryID, &e.SelectedDays, &e.IsActive, &e.CreatedAt)
	if err != nil {
		if base.IsNoRows(err) {
			return nil, fmt.Errorf("enrollment %d: %w", id, apperror.ErrNotFound)
		}
		return nil, apperror.Persistence("get enrollment by id", err)
	}

	return &e, nil
}

// Deactivate soft-deletes the enrollment; the row stays for attendance and
// progress history. Already-inactive rows are left untouched.
func (r *UserDiaryRepository) Deactivate(ctx context.Context, id int64) error {
	affected, err := r.ExecAffected(ctx, `
		UPDATE user_diaries SET is_active = false WHERE id = $1 AND is_active
	`, id)
	if err != nil {
		return apperror.Persistence("deactivate enrollment", err)
	}
	if affected == 0 {
		// Either missing or already inactive; distinguish for the caller.
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
	}

	return nil
}

// UpdateSelectedDays replaces the slot snapshot of an active enrollment.
func (r *UserDiaryRepository) UpdateSelectedDays(ctx context.Context, id int64, dayIDs []int64) error {
	affected, err := r.ExecAffected(ctx, `
		UPDATE user_diaries SET selected_days = $1 WHERE id = $2 AND is_active
	`, dayIDs, id)
	if err != nil {
		return apperror.Persistence("update selected days", err)
	}
	if affected == 0 {
		return fmt.Errorf("active enrollment %d: %w", id, apperror.ErrNotFound)
	}

	return nil
}

// ListActiveByUser returns the user's active enrollments, oldest first.
func (r *UserDiaryRepository) ListActiveByUser(ctx context.Context, userID int64) ([]*model.UserDiary, error) {
	rows, err := r.Query(ctx, `
		SELECT id, user_id, diary_id, selected_days, is_active, created_at
		FROM user_diaries
		WHERE user_id = $1 AND is_active
		ORDER BY created_at, id
	`, userID)
	if err != nil {
		return nil, apperror.Persistence("list enrollments by user", err)
	}
	defer rows.Close()

	var enrollments []*model.UserDiary
	for rows.Next() {
		var e model.UserDiary
		err := rows.Scan(&e.ID, &e.UserID, &e.DiaryID, &e.SelectedDays, &e.IsActive, &e.CreatedAt)
		if err != nil {
			return nil, apperror.Persistence("scan enrollment", err)
		}
		enrollments = append(enrollments, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.Persistence("list enrollments by user", err)
	}

	return enrollments, nil
}

// CountActive returns the number of active enrollments for a diary.
func (r *UserDiaryRepository) CountActive(ctx context.Context, diaryID int64) (int, error) {
	var count int
	err := r.QueryRow(ctx, `
		SELECT COUNT(*) FROM user_diaries WHERE diary_id = $1 AND is_active
	`, diaryID).Scan(&count)
	if err != nil {
		return 0, apperror.Persistence("count active enrollments", err)
	}
	return count, nil
}
