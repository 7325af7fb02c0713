package absence

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) Insert(ctx context.Context, a Absence) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO absences (company_id, user_id, start_date, end_date, type, status, reason)
    VALUES ($1,$2,$3,$4,$5,$6,$7)
    RETURNING id
  `, a.CompanyID, a.UserID, a.StartDate, a.EndDate, a.Type, a.Status, a.Reason).Scan(&id)
	return id, err
}

func (s *Store) Get(ctx context.Context, companyID, absenceID string) (Absence, error) {
	var a Absence
	err := s.DB.QueryRow(ctx, `
    SELECT id, company_id, user_id, start_date, end_date, type, status, reason, created_at
    FROM absences
    WHERE company_id = $1 AND id = $2
  `, companyID, absenceID).Scan(&a.ID, &a.CompanyID, &a.UserID, &a.StartDate, &a.EndDate, &a.Type, &a.Status, &a.Reason, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Absence{}, ErrAbsenceNotFound
	}
	return a, err
}

func (s *Store) UpdateStatus(ctx context.Context, absenceID, status string) error {
	tag, err := s.DB.Exec(ctx, "UPDATE absences SET status = $2 WHERE id = $1", absenceID, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAbsenceNotFound
	}
	return nil
}

// ListApprovedInRange returns approved absences whose inclusive
// [start_date, end_date] span intersects [from, to], for one or many
// users. An empty userIDs slice means the whole company.
func (s *Store) ListApprovedInRange(ctx context.Context, companyID string, userIDs []string, from, to time.Time) ([]Absence, error) {
	query := `
    SELECT id, company_id, user_id, start_date, end_date, type, status, reason, created_at
    FROM absences
    WHERE company_id = $1 AND status = 'APPROVED'
      AND start_date <= $3 AND end_date >= $2`
	args := []any{companyID, from, to}
	if len(userIDs) > 0 {
		query += " AND user_id = ANY($4)"
		args = append(args, userIDs)
	}
	query += " ORDER BY start_date"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAbsences(rows)
}

func (s *Store) ListForUser(ctx context.Context, companyID, userID string, from, to time.Time) ([]Absence, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, company_id, user_id, start_date, end_date, type, status, reason, created_at
    FROM absences
    WHERE company_id = $1 AND user_id = $2
      AND start_date <= $4 AND end_date >= $3
    ORDER BY start_date
  `, companyID, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAbsences(rows)
}

func scanAbsences(rows pgx.Rows) ([]Absence, error) {
	var absences []Absence
	for rows.Next() {
		var a Absence
		if err := rows.Scan(&a.ID, &a.CompanyID, &a.UserID, &a.StartDate, &a.EndDate, &a.Type, &a.Status, &a.Reason, &a.CreatedAt); err != nil {
			return nil, err
		}
		absences = append(absences, a)
	}
	return absences, rows.Err()
}
