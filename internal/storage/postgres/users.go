// Package postgres implements the storage interfaces on PostgreSQL via
// database/sql. One type per store so wiring mirrors the in-memory layout.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"greenlane/internal/domain"
	"greenlane/internal/storage"
)

// Users reads purchaser records. The identity service owns writes; Save is
// still implemented for seeding and integration tests.
type Users struct {
	db *sql.DB
}

func NewUsers(db *sql.DB) *Users {
	return &Users{db: db}
}

func (s *Users) Save(ctx context.Context, user domain.User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, email, date_of_birth, age_verified, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET email = EXCLUDED.email,
		    date_of_birth = EXCLUDED.date_of_birth,
		    age_verified = EXCLUDED.age_verified`,
		user.ID, user.Email, user.DateOfBirth, user.AgeVerified, user.CreatedAt)
	if err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

func (s *Users) FindByID(ctx context.Context, id string) (domain.User, error) {
	var user domain.User
	err := s.db.QueryRowContext(ctx, `
		SELECT id, email, date_of_birth, age_verified, created_at
		FROM users WHERE id = $1`, id).
		Scan(&user.ID, &user.Email, &user.DateOfBirth, &user.AgeVerified, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, storage.ErrNotFound
		}
		return domain.User{}, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}
