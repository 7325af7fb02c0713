package tracking

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

// InsertActiveTimer relies on the UNIQUE(user_id) constraint: of two
// racing starts exactly one row wins, the loser sees the conflict.
func (s *Store) InsertActiveTimer(ctx context.Context, t ActiveTimer) (ActiveTimer, error) {
	err := s.DB.QueryRow(ctx, `
    INSERT INTO active_timers (company_id, user_id, started_at, entry_type, project_id, is_in_office, location_meta)
    VALUES ($1,$2,$3,$4,$5,$6,$7)
    RETURNING id
  `, t.CompanyID, t.UserID, t.StartedAt, t.EntryType, t.ProjectID, t.IsInOffice, t.LocationMeta).Scan(&t.ID)
	if isUniqueViolation(err) {
		return ActiveTimer{}, ErrTimerAlreadyRunning
	}
	if err != nil {
		return ActiveTimer{}, err
	}
	return t, nil
}

func (s *Store) GetActiveTimer(ctx context.Context, companyID, userID string) (ActiveTimer, error) {
	var t ActiveTimer
	err := s.DB.QueryRow(ctx, `
    SELECT id, company_id, user_id, started_at, entry_type, project_id, is_in_office, location_meta
    FROM active_timers
    WHERE company_id = $1 AND user_id = $2
  `, companyID, userID).Scan(&t.ID, &t.CompanyID, &t.UserID, &t.StartedAt, &t.EntryType, &t.ProjectID, &t.IsInOffice, &t.LocationMeta)
	if errors.Is(err, pgx.ErrNoRows) {
		return ActiveTimer{}, ErrNoActiveTimer
	}
	return t, err
}

func (s *Store) DeleteActiveTimer(ctx context.Context, companyID, userID string) error {
	tag, err := s.DB.Exec(ctx, `
    DELETE FROM active_timers WHERE company_id = $1 AND user_id = $2
  `, companyID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNoActiveTimer
	}
	return nil
}

// FinishActiveTimer persists the produced entry and removes the timer
// in one transaction.
func (s *Store) FinishActiveTimer(ctx context.Context, companyID, userID string, entry TimeEntry) (TimeEntry, error) {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return TimeEntry{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `
    DELETE FROM active_timers WHERE company_id = $1 AND user_id = $2
  `, companyID, userID)
	if err != nil {
		return TimeEntry{}, err
	}
	if tag.RowsAffected() == 0 {
		return TimeEntry{}, ErrNoActiveTimer
	}

	saved, err := insertEntryTx(ctx, tx, entry)
	if err != nil {
		return TimeEntry{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return TimeEntry{}, err
	}
	return saved, nil
}

// ReplaceActiveTimer closes the old session and rewrites the timer row
// in place, so no intermediate idle state is observable.
func (s *Store) ReplaceActiveTimer(ctx context.Context, companyID, userID string, entry TimeEntry, next ActiveTimer) (TimeEntry, ActiveTimer, error) {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return TimeEntry{}, ActiveTimer{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = tx.QueryRow(ctx, `
    UPDATE active_timers
    SET started_at = $3, entry_type = $4, project_id = $5, is_in_office = $6, location_meta = $7
    WHERE company_id = $1 AND user_id = $2
    RETURNING id
  `, companyID, userID, next.StartedAt, next.EntryType, next.ProjectID, next.IsInOffice, next.LocationMeta).Scan(&next.ID)
	if errors.Is(err, pgx.ErrNoRows) {
		return TimeEntry{}, ActiveTimer{}, ErrNoActiveTimer
	}
	if err != nil {
		return TimeEntry{}, ActiveTimer{}, err
	}

	saved, err := insertEntryTx(ctx, tx, entry)
	if err != nil {
		return TimeEntry{}, ActiveTimer{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return TimeEntry{}, ActiveTimer{}, err
	}
	next.CompanyID = companyID
	next.UserID = userID
	return saved, next, nil
}

func (s *Store) InsertEntry(ctx context.Context, entry TimeEntry) (TimeEntry, error) {
	err := s.DB.QueryRow(ctx, `
    INSERT INTO time_entries (company_id, user_id, start_time, end_time, duration_minutes, entry_type, project_id, is_in_office)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
    RETURNING id, created_at
  `, entry.CompanyID, entry.UserID, entry.StartTime, entry.EndTime, entry.DurationMinutes, entry.EntryType, entry.ProjectID, entry.IsInOffice).Scan(&entry.ID, &entry.CreatedAt)
	return entry, err
}

func (s *Store) UpdateEntry(ctx context.Context, entry TimeEntry) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE time_entries
    SET start_time = $4, end_time = $5, duration_minutes = $6, entry_type = $7, project_id = $8
    WHERE company_id = $1 AND user_id = $2 AND id = $3
  `, entry.CompanyID, entry.UserID, entry.ID, entry.StartTime, entry.EndTime, entry.DurationMinutes, entry.EntryType, entry.ProjectID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrEntryNotFound
	}
	return nil
}

func (s *Store) DeleteEntry(ctx context.Context, companyID, userID, entryID string) error {
	tag, err := s.DB.Exec(ctx, `
    DELETE FROM time_entries WHERE company_id = $1 AND user_id = $2 AND id = $3
  `, companyID, userID, entryID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrEntryNotFound
	}
	return nil
}

func (s *Store) ListEntries(ctx context.Context, companyID, userID string, from, to time.Time) ([]TimeEntry, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, company_id, user_id, start_time, end_time, duration_minutes, entry_type, project_id, is_in_office, created_at
    FROM time_entries
    WHERE company_id = $1 AND user_id = $2
      AND start_time >= $3 AND start_time < $4
    ORDER BY start_time
  `, companyID, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []TimeEntry
	for rows.Next() {
		var e TimeEntry
		if err := rows.Scan(&e.ID, &e.CompanyID, &e.UserID, &e.StartTime, &e.EndTime, &e.DurationMinutes, &e.EntryType, &e.ProjectID, &e.IsInOffice, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func insertEntryTx(ctx context.Context, tx pgx.Tx, entry TimeEntry) (TimeEntry, error) {
	err := tx.QueryRow(ctx, `
    INSERT INTO time_entries (company_id, user_id, start_time, end_time, duration_minutes, entry_type, project_id, is_in_office)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
    RETURNING id, created_at
  `, entry.CompanyID, entry.UserID, entry.StartTime, entry.EndTime, entry.DurationMinutes, entry.EntryType, entry.ProjectID, entry.IsInOffice).Scan(&entry.ID, &entry.CreatedAt)
	return entry, err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
