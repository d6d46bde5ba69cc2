package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"greenlane/internal/domain"
	"greenlane/internal/storage"
)

type Products struct {
	db *sql.DB
}

func NewProducts(db *sql.DB) *Products {
	return &Products{db: db}
}

func (s *Products) Save(ctx context.Context, product domain.Product) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO products (id, dispensary_id, name, category, price_cents, thc_mg_per_unit, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name,
		    category = EXCLUDED.category,
		    price_cents = EXCLUDED.price_cents,
		    thc_mg_per_unit = EXCLUDED.thc_mg_per_unit,
		    active = EXCLUDED.active`,
		product.ID, product.DispensaryID, product.Name, product.Category,
		product.PriceCents, product.THCMgPerUnit, product.Active, product.CreatedAt)
	if err != nil {
		return fmt.Errorf("save product: %w", err)
	}
	return nil
}

func (s *Products) FindByID(ctx context.Context, id string) (domain.Product, error) {
	var p domain.Product
	err := s.db.QueryRowContext(ctx, `
		SELECT id, dispensary_id, name, category, price_cents, thc_mg_per_unit, active, created_at
		FROM products WHERE id = $1`, id).
		Scan(&p.ID, &p.DispensaryID, &p.Name, &p.Category, &p.PriceCents, &p.THCMgPerUnit, &p.Active, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Product{}, storage.ErrNotFound
		}
		return domain.Product{}, fmt.Errorf("find product: %w", err)
	}
	return p, nil
}

func (s *Products) FindByIDs(ctx context.Context, ids []string) (map[string]domain.Product, error) {
	if len(ids) == 0 {
		return map[string]domain.Product{}, nil
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, dispensary_id, name, category, price_cents, thc_mg_per_unit, active, created_at
		FROM products WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	defer rows.Close()

	out := make(map[string]domain.Product, len(ids))
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.DispensaryID, &p.Name, &p.Category, &p.PriceCents, &p.THCMgPerUnit, &p.Active, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out[p.ID] = p
	}
	return out, rows.Err()
}

func (s *Products) ListByDispensary(ctx context.Context, dispensaryID string) ([]domain.Product, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, dispensary_id, name, category, price_cents, thc_mg_per_unit, active, created_at
		FROM products WHERE dispensary_id = $1 AND active ORDER BY name`, dispensaryID)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var out []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.DispensaryID, &p.Name, &p.Category, &p.PriceCents, &p.THCMgPerUnit, &p.Active, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
