package holiday

import (
	"context"
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

func (s *Store) ListPublic(ctx context.Context, regionCode string, from, to time.Time) ([]Holiday, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, company_id, date, name, local_name, scope, region_code, is_recurring
    FROM holidays
    WHERE company_id IS NULL
      AND date BETWEEN $1 AND $2
      AND (scope = 'national' OR (scope = 'regional' AND region_code = $3))
    ORDER BY date
  `, from, to, regionCode)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanHolidays(rows)
}

func (s *Store) ListCompany(ctx context.Context, companyID string, from, to time.Time) ([]Holiday, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, company_id, date, name, local_name, scope, region_code, is_recurring
    FROM holidays
    WHERE company_id = $1
      AND (is_recurring OR date BETWEEN $2 AND $3)
    ORDER BY date
  `, companyID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanHolidays(rows)
}

func (s *Store) Insert(ctx context.Context, h Holiday) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO holidays (company_id, date, name, local_name, scope, region_code, is_recurring)
    VALUES ($1,$2,$3,$4,$5,$6,$7)
    RETURNING id
  `, h.CompanyID, h.Date, h.Name, h.LocalName, h.Scope, h.RegionCode, h.IsRecurring).Scan(&id)
	return id, err
}

func (s *Store) Delete(ctx context.Context, companyID, holidayID string) error {
	tag, err := s.DB.Exec(ctx, `
    DELETE FROM holidays WHERE id = $1 AND company_id = $2
  `, holidayID, companyID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrHolidayNotFound
	}
	return nil
}

// UpsertNational stores one synced national/regional holiday record,
// keyed by date+scope+region so re-syncs are idempotent.
func (s *Store) UpsertNational(ctx context.Context, h Holiday) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO holidays (company_id, date, name, local_name, scope, region_code, is_recurring)
    VALUES (NULL, $1, $2, $3, $4, $5, false)
    ON CONFLICT (date, scope, COALESCE(region_code, '')) WHERE company_id IS NULL
    DO UPDATE SET name = EXCLUDED.name, local_name = EXCLUDED.local_name
  `, h.Date, h.Name, h.LocalName, h.Scope, h.RegionCode)
	return err
}

func scanHolidays(rows pgx.Rows) ([]Holiday, error) {
	var holidays []Holiday
	for rows.Next() {
		var h Holiday
		if err := rows.Scan(&h.ID, &h.CompanyID, &h.Date, &h.Name, &h.LocalName, &h.Scope, &h.RegionCode, &h.IsRecurring); err != nil {
			return nil, err
		}
		holidays = append(holidays, h)
	}
	return holidays, rows.Err()
}
