package repository

import (
	"context"
	"time"

	"github.com/fitadmin/diary_service/internal/apperror"
	"github.com/fitadmin/diary_service/internal/model"
	"github.com/fitadmin/diary_service/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AttendanceRepository struct {
	*base.Repository
}

func NewAttendanceRepository(pool *pgxpool.Pool) *AttendanceRepository {
	return &AttendanceRepository{Repository: base.NewRepository(pool)}
}

// CheckIn records a check-in for the calendar day of att.Date. A second
// call for the same (user, slot, day) returns the existing row unchanged;
// the unique index on (user_id, day_available_id, date) is the backstop
// under concurrent calls.
func (r *AttendanceRepository) CheckIn(ctx context.Context, att *model.DiaryAttendance) (*model.DiaryAttendance, error) {
	att.Date = model.TruncateToDay(att.Date)

	err := r.QueryRow(ctx, `
		INSERT INTO diary_attendances (user_id, facility_id, day_available_id, date)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, day_available_id, date) DO NOTHING
		RETURNING id, created_at
	`, att.UserID, att.FacilityID, att.DayAvailableID, att.Date).Scan(&att.ID, &att.CreatedAt)
	if err == nil {
		return att, nil
	}
	if !base.IsNoRows(err) {
		return nil, apperror.Persistence("create attendance", err)
	}

	// Conflict: the row already exists, return it as-is.
	from, to := model.DayWindow(att.Date)
	var existing model.DiaryAttendance
	err = r.QueryRow(ctx, `
		SELECT id, user_id, facility_id, day_available_id, date, created_at
		FROM diary_attendances
		WHERE user_id = $1 AND day_available_id = $2 AND date >= $3 AND date < $4
	`, att.UserID, att.DayAvailableID, from, to).Scan(
		&existing.ID,
		&existing.UserID,
		&existing.FacilityID,
		&existing.DayAvailableID,
		&existing.Date,
		&existing.CreatedAt,
	)
	if err != nil {
		return nil, apperror.Persistence("get existing attendance", err)
	}

	return &existing, nil
}

// GetInWindow returns the user's check-ins at a facility for any of the
// given slots with date inside [from, to).
func (r *AttendanceRepository) GetInWindow(ctx context.Context, userID, facilityID int64, dayIDs []int64, from, to time.Time) ([]*model.DiaryAttendance, error) {
	if len(dayIDs) == 0 {
		return nil, nil
	}

	rows, err := r.Query(ctx, `
		SELECT id, user_id, facility_id, day_available_id, date, created_at
		FROM diary_attendances
		WHERE user_id = $1
		  AND facility_id = $2
		  AND day_available_id = ANY($3)
		  AND date >= $4
		  AND date < $5
		ORDER BY date, day_available_id
	`, userID, facilityID, dayIDs, from, to)
	if err != nil {
		return nil, apperror.Persistence("get attendance in window", err)
	}
	defer rows.Close()

	var records []*model.DiaryAttendance
	for rows.Next() {
		var att model.DiaryAttendance
		err := rows.Scan(&att.ID, &att.UserID, &att.FacilityID, &att.DayAvailableID, &att.Date, &att.CreatedAt)
		if err != nil {
			return nil, apperror.Persistence("scan attendance", err)
		}
		records = append(records, &att)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.Persistence("get attendance in window", err)
	}

	return records, nil
}
