package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"greenlane/internal/domain"
	"greenlane/internal/storage"
)

type Dispensaries struct {
	db *sql.DB
}

func NewDispensaries(db *sql.DB) *Dispensaries {
	return &Dispensaries{db: db}
}

func (s *Dispensaries) Save(ctx context.Context, dispensary domain.Dispensary) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO dispensaries (id, name, state_code, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name, state_code = EXCLUDED.state_code`,
		dispensary.ID, dispensary.Name, dispensary.StateCode, dispensary.CreatedAt)
	if err != nil {
		return fmt.Errorf("save dispensary: %w", err)
	}
	return nil
}

func (s *Dispensaries) FindByID(ctx context.Context, id string) (domain.Dispensary, error) {
	var dispensary domain.Dispensary
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, state_code, created_at
		FROM dispensaries WHERE id = $1`, id).
		Scan(&dispensary.ID, &dispensary.Name, &dispensary.StateCode, &dispensary.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Dispensary{}, storage.ErrNotFound
		}
		return domain.Dispensary{}, fmt.Errorf("find dispensary: %w", err)
	}
	return dispensary, nil
}

func (s *Dispensaries) List(ctx context.Context) ([]domain.Dispensary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, state_code, created_at
		FROM dispensaries ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list dispensaries: %w", err)
	}
	defer rows.Close()

	var out []domain.Dispensary
	for rows.Next() {
		var d domain.Dispensary
		if err := rows.Scan(&d.ID, &d.Name, &d.StateCode, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan dispensary: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
