package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"greenlane/internal/domain"
	"greenlane/internal/storage"
)

type Orders struct {
	db *sql.DB
}

func NewOrders(db *sql.DB) *Orders {
	return &Orders{db: db}
}

// Create inserts the order and its items in one transaction. An order without
// its items would corrupt every future dosage aggregation for the user.
func (s *Orders) Create(ctx context.Context, order domain.Order) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin order tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (id, user_id, dispensary_id, status, total_cents, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		order.ID, order.UserID, order.DispensaryID, order.Status.String(), order.TotalCents, order.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for _, item := range order.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, product_id, quantity, unit_price_cents, thc_mg_per_unit)
			VALUES ($1, $2, $3, $4, $5)`,
			order.ID, item.ProductID, item.Quantity, item.UnitPriceCents, item.THCMgPerUnit)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit order tx: %w", err)
	}
	return nil
}

func (s *Orders) FindByID(ctx context.Context, id string) (domain.Order, error) {
	var order domain.Order
	var status string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, dispensary_id, status, total_cents, created_at
		FROM orders WHERE id = $1`, id).
		Scan(&order.ID, &order.UserID, &order.DispensaryID, &status, &order.TotalCents, &order.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Order{}, storage.ErrNotFound
		}
		return domain.Order{}, fmt.Errorf("find order: %w", err)
	}
	order.Status = domain.OrderStatus(status)

	order.Items, err = s.itemsFor(ctx, order.ID)
	if err != nil {
		return domain.Order{}, err
	}
	return order, nil
}

func (s *Orders) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, dispensary_id, status, total_cents, created_at
		FROM orders WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var out []domain.Order
	for rows.Next() {
		var order domain.Order
		var status string
		if err := rows.Scan(&order.ID, &order.UserID, &order.DispensaryID, &status, &order.TotalCents, &order.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		order.Status = domain.OrderStatus(status)
		out = append(out, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		out[i].Items, err = s.itemsFor(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// SumTHCMgForUserBetween aggregates in SQL from the denormalized item THC
// content; cancelled orders never count toward the daily total.
func (s *Orders) SumTHCMgForUserBetween(ctx context.Context, userID string, from, to time.Time) (float64, error) {
	var total float64
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(oi.thc_mg_per_unit * oi.quantity), 0)
		FROM orders o
		JOIN order_items oi ON oi.order_id = o.id
		WHERE o.user_id = $1
		  AND o.status <> 'cancelled'
		  AND o.created_at >= $2
		  AND o.created_at < $3`,
		userID, from, to).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum daily thc: %w", err)
	}
	return total, nil
}

func (s *Orders) itemsFor(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT product_id, quantity, unit_price_cents, thc_mg_per_unit
		FROM order_items WHERE order_id = $1`, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ProductID, &item.Quantity, &item.UnitPriceCents, &item.THCMgPerUnit); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
