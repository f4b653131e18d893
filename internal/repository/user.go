package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/safeboxlab/safebox/internal/models"
)

// UserRepository persists accounts.
type UserRepository struct {
	db *DB
}

func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create registers an account.
func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	query := `
		INSERT INTO users (username, password, role, company_name, email, phone)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err := r.db.Pool.QueryRow(ctx, query,
		u.Username,
		u.Password,
		u.Role,
		u.CompanyName,
		u.Email,
		u.Phone,
	).Scan(&u.ID)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByCredentials looks up an account by username and password.
func (r *UserRepository) GetByCredentials(ctx context.Context, username, password string) (*models.User, error) {
	query := `
		SELECT id, username, password, role, COALESCE(company_name, ''), COALESCE(email, ''), COALESCE(phone, '')
		FROM users WHERE username = $1 AND password = $2
	`
	u := &models.User{}
	err := r.db.Pool.QueryRow(ctx, query, username, password).Scan(
		&u.ID,
		&u.Username,
		&u.Password,
		&u.Role,
		&u.CompanyName,
		&u.Email,
		&u.Phone,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}
