package core

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrCompanyNotFound = errors.New("company not found")
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) GetUser(ctx context.Context, companyID, userID string) (User, error) {
	var u User
	err := s.DB.QueryRow(ctx, `
    SELECT id, company_id, email, role, monthly_salary, hourly_cost, created_at
    FROM users
    WHERE company_id = $1 AND id = $2 AND deleted_at IS NULL
  `, companyID, userID).Scan(&u.ID, &u.CompanyID, &u.Email, &u.Role, &u.MonthlySalary, &u.HourlyCost, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrUserNotFound
	}
	return u, err
}

func (s *Store) GetCompany(ctx context.Context, companyID string) (Company, error) {
	var c Company
	err := s.DB.QueryRow(ctx, `
    SELECT id, name, region_code
    FROM companies
    WHERE id = $1
  `, companyID).Scan(&c.ID, &c.Name, &c.RegionCode)
	if errors.Is(err, pgx.ErrNoRows) {
		return Company{}, ErrCompanyNotFound
	}
	return c, err
}

func (s *Store) CompanyRegion(ctx context.Context, companyID string) (*string, error) {
	var region *string
	err := s.DB.QueryRow(ctx, "SELECT region_code FROM companies WHERE id = $1", companyID).Scan(&region)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrCompanyNotFound
	}
	return region, err
}

// UserSalary reports the monthly salary on file, if any.
func (s *Store) UserSalary(ctx context.Context, companyID, userID string) (float64, bool, error) {
	var salary *float64
	err := s.DB.QueryRow(ctx, `
    SELECT monthly_salary FROM users
    WHERE company_id = $1 AND id = $2 AND deleted_at IS NULL
  `, companyID, userID).Scan(&salary)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, ErrUserNotFound
	}
	if err != nil {
		return 0, false, err
	}
	if salary == nil {
		return 0, false, nil
	}
	return *salary, true, nil
}

func (s *Store) UpdateHourlyCost(ctx context.Context, companyID, userID string, hourlyCost float64) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE users SET hourly_cost = $3
    WHERE company_id = $1 AND id = $2 AND deleted_at IS NULL
  `, companyID, userID, hourlyCost)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// SalariedUserIDsWithoutOverride lists users that have a salary on file
// and no personal schedule row for the given weekday. Those are the
// users whose effective schedule changes when the company default for
// that weekday changes.
func (s *Store) SalariedUserIDsWithoutOverride(ctx context.Context, companyID string, dayOfWeek int) ([]string, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT u.id
    FROM users u
    WHERE u.company_id = $1
      AND u.deleted_at IS NULL
      AND u.monthly_salary IS NOT NULL
      AND NOT EXISTS (
        SELECT 1 FROM work_schedule_days w
        WHERE w.company_id = u.company_id AND w.user_id = u.id AND w.day_of_week = $2
      )
  `, companyID, dayOfWeek)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
