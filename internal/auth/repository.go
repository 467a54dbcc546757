// internal/auth/repository.go

package auth

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

// Repository persists and resolves user accounts
type Repository interface {
	CreateUser(ctx context.Context, user *User, displayName string) error
	GetUserByID(ctx context.Context, id int64) (*User, error)
	GetUserByHandle(ctx context.Context, handle string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	IsHandleTaken(ctx context.Context, handle string) (bool, error)
	UpdateProvider(ctx context.Context, userID int64, provider, providerID string) error
}

type postgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a Postgres-backed repository
func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

// CreateUser inserts the account row plus its initial profile projection.
// The handle carries a unique constraint; a conflict surfaces as an error
// the service translates to a validation failure.
func (r *postgresRepository) CreateUser(ctx context.Context, user *User, displayName string) error {
	query := `
		INSERT INTO users (handle, email, phone, password_hash, provider, provider_id,
		                   display_name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		strings.ToLower(user.Handle), user.Email, user.Phone, user.PasswordHash,
		user.Provider, user.ProviderID, displayName,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetUserByID(ctx context.Context, id int64) (*User, error) {
	var user User
	query := `
		SELECT id, handle, email, phone, password_hash, provider, provider_id,
		       created_at, updated_at
		FROM users WHERE id = $1`

	err := r.db.GetContext(ctx, &user, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *postgresRepository) GetUserByHandle(ctx context.Context, handle string) (*User, error) {
	var user User
	query := `
		SELECT id, handle, email, phone, password_hash, provider, provider_id,
		       created_at, updated_at
		FROM users WHERE handle = $1`

	err := r.db.GetContext(ctx, &user, query, strings.ToLower(handle))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *postgresRepository) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	query := `
		SELECT id, handle, email, phone, password_hash, provider, provider_id,
		       created_at, updated_at
		FROM users WHERE email = $1`

	err := r.db.GetContext(ctx, &user, query, strings.ToLower(email))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *postgresRepository) IsHandleTaken(ctx context.Context, handle string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE handle = $1)`
	err := r.db.QueryRowContext(ctx, query, strings.ToLower(handle)).Scan(&exists)
	return exists, err
}

func (r *postgresRepository) UpdateProvider(ctx context.Context, userID int64, provider, providerID string) error {
	query := `UPDATE users SET provider = $2, provider_id = $3, updated_at = NOW() WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, userID, provider, providerID)
	return err
}
