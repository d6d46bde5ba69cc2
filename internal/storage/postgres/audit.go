package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"greenlane/internal/domain"
)

// Audit is the append-only audit trail.
type Audit struct {
	db *sql.DB
}

func NewAudit(db *sql.DB) *Audit {
	return &Audit{db: db}
}

func (s *Audit) Append(ctx context.Context, event domain.AuditEvent) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_events (ts, user_id, dispensary_id, action, decision, reasons, order_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		event.Timestamp, event.UserID, event.DispensaryID, event.Action,
		event.Decision, pq.Array(event.Reasons), event.OrderID)
	if err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}

func (s *Audit) ListByUser(ctx context.Context, userID string) ([]domain.AuditEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT ts, user_id, dispensary_id, action, decision, reasons, order_id
		FROM audit_events WHERE user_id = $1 ORDER BY ts`, userID)
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer rows.Close()

	var out []domain.AuditEvent
	for rows.Next() {
		var event domain.AuditEvent
		if err := rows.Scan(&event.Timestamp, &event.UserID, &event.DispensaryID,
			&event.Action, &event.Decision, pq.Array(&event.Reasons), &event.OrderID); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		out = append(out, event)
	}
	return out, rows.Err()
}
