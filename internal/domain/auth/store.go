package auth

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type AuthUser struct {
	ID        string
	CompanyID string
	Role      string
	Password  string
}

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (AuthUser, error) {
	var out AuthUser
	err := s.DB.QueryRow(ctx, `
    SELECT id, company_id, role, password_hash
    FROM users
    WHERE email = $1 AND deleted_at IS NULL
  `, email).Scan(&out.ID, &out.CompanyID, &out.Role, &out.Password)
	return out, err
}
