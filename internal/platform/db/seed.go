package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"timeclock/internal/domain/auth"
	"timeclock/internal/platform/config"
)

func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	companyID, err := ensureCompany(ctx, pool, cfg.SeedCompanyName, cfg.SeedCompanyRegion)
	if err != nil {
		return err
	}

	if cfg.SeedAdminEmail != "" {
		if err := ensureAdminUser(ctx, pool, companyID, cfg.SeedAdminEmail, cfg.SeedAdminPassword); err != nil {
			return err
		}
	}

	return ensureDefaultSchedule(ctx, pool, companyID)
}

func ensureCompany(ctx context.Context, pool *pgxpool.Pool, name, region string) (string, error) {
	var id string
	err := pool.QueryRow(ctx, "SELECT id FROM companies WHERE name = $1", name).Scan(&id)
	if err == nil {
		return id, nil
	}

	var regionValue any
	if region != "" {
		regionValue = region
	}
	err = pool.QueryRow(ctx, "INSERT INTO companies (name, region_code) VALUES ($1, $2) RETURNING id", name, regionValue).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func ensureAdminUser(ctx context.Context, pool *pgxpool.Pool, companyID, email, password string) error {
	var count int
	if err := pool.QueryRow(ctx, "SELECT COUNT(1) FROM users WHERE email = $1", email).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	if password == "" {
		return fmt.Errorf("seed admin password required for %s", email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx, `
    INSERT INTO users (company_id, email, password_hash, role)
    VALUES ($1, $2, $3, $4)
  `, companyID, email, string(hash), auth.RoleAdmin)
	return err
}

// ensureDefaultSchedule gives a fresh company a Mon-Fri 09:00-18:00
// template with a one hour lunch break, so calendars are meaningful
// before anyone configures schedules.
func ensureDefaultSchedule(ctx context.Context, pool *pgxpool.Pool, companyID string) error {
	var count int
	if err := pool.QueryRow(ctx, "SELECT COUNT(1) FROM work_schedule_days WHERE company_id = $1 AND user_id IS NULL", companyID).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for day := 0; day < 7; day++ {
		workable := day < 5
		_, err := pool.Exec(ctx, `
      INSERT INTO work_schedule_days (company_id, user_id, day_of_week, is_workable, start_time, end_time, break_start, break_end)
      VALUES ($1, NULL, $2, $3, '09:00', '18:00', '13:00', '14:00')
    `, companyID, day, workable)
		if err != nil {
			return err
		}
	}
	return nil
}
