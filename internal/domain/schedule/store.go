package schedule

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) ListDays(ctx context.Context, companyID string, userID *string) ([]WorkScheduleDay, error) {
	query := `
    SELECT id, company_id, user_id, day_of_week, is_workable, start_time, end_time, break_start, break_end
    FROM work_schedule_days
    WHERE company_id = $1 AND user_id IS NULL
    ORDER BY day_of_week`
	args := []any{companyID}
	if userID != nil {
		query = `
    SELECT id, company_id, user_id, day_of_week, is_workable, start_time, end_time, break_start, break_end
    FROM work_schedule_days
    WHERE company_id = $1 AND user_id = $2
    ORDER BY day_of_week`
		args = append(args, *userID)
	}

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var days []WorkScheduleDay
	for rows.Next() {
		var d WorkScheduleDay
		if err := rows.Scan(&d.ID, &d.CompanyID, &d.UserID, &d.DayOfWeek, &d.IsWorkable, &d.StartTime, &d.EndTime, &d.BreakStart, &d.BreakEnd); err != nil {
			return nil, err
		}
		days = append(days, d)
	}
	return days, rows.Err()
}

func (s *Store) UpsertDay(ctx context.Context, row WorkScheduleDay) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO work_schedule_days (company_id, user_id, day_of_week, is_workable, start_time, end_time, break_start, break_end)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
    ON CONFLICT (company_id, user_id, day_of_week)
    DO UPDATE SET is_workable = EXCLUDED.is_workable,
                  start_time = EXCLUDED.start_time,
                  end_time = EXCLUDED.end_time,
                  break_start = EXCLUDED.break_start,
                  break_end = EXCLUDED.break_end
    RETURNING id
  `, row.CompanyID, row.UserID, row.DayOfWeek, row.IsWorkable, row.StartTime, row.EndTime, row.BreakStart, row.BreakEnd).Scan(&id)
	return id, err
}

func (s *Store) DeleteOverride(ctx context.Context, companyID, userID string, dayOfWeek int) error {
	_, err := s.DB.Exec(ctx, `
    DELETE FROM work_schedule_days
    WHERE company_id = $1 AND user_id = $2 AND day_of_week = $3
  `, companyID, userID, dayOfWeek)
	return err
}
