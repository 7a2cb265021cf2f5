package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/articlol/bank-rest/internal/apperrors"
	"github.com/articlol/bank-rest/internal/model"
)

type UserRepository struct {
	db     *sql.DB
	logger *logrus.Logger
}

func NewUserRepository(db *sql.DB, logger *logrus.Logger) *UserRepository {
	return &UserRepository{db: db, logger: logger}
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (id, email, full_name, password_hash, enabled, roles, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		user.ID,
		user.Email,
		user.FullName,
		user.PasswordHash,
		user.Enabled,
		pq.StringArray(user.Roles),
		user.CreatedAt,
	)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code.Name() == "unique_violation" {
				return apperrors.InvalidRequest("email already exists")
			}
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `
		SELECT id, email, full_name, password_hash, enabled, roles, created_at
		FROM users
		WHERE email = $1
	`

	var user model.User
	var roles pq.StringArray
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&user.ID,
		&user.Email,
		&user.FullName,
		&user.PasswordHash,
		&user.Enabled,
		&roles,
		&user.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.NotFound("user not found")
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}

	user.Roles = roles
	return &user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	query := `
		SELECT id, email, full_name, password_hash, enabled, roles, created_at
		FROM users
		WHERE id = $1
	`

	var user model.User
	var roles pq.StringArray
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID,
		&user.Email,
		&user.FullName,
		&user.PasswordHash,
		&user.Enabled,
		&roles,
		&user.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.NotFound("user not found")
		}
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}

	user.Roles = roles
	return &user, nil
}
