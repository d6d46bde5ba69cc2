package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"greenlane/internal/domain"
	"greenlane/internal/storage"
)

// Rules persists per-jurisdiction compliance rules. The state code is the
// primary key, which is what keeps "at most one active rule per state" true
// at the database level.
type Rules struct {
	db *sql.DB
}

func NewRules(db *sql.DB) *Rules {
	return &Rules{db: db}
}

func (s *Rules) Upsert(ctx context.Context, rule domain.ComplianceRule) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO compliance_rules (state_code, min_age, max_daily_thc_mg, must_verify_age, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (state_code) DO UPDATE
		SET min_age = EXCLUDED.min_age,
		    max_daily_thc_mg = EXCLUDED.max_daily_thc_mg,
		    must_verify_age = EXCLUDED.must_verify_age,
		    updated_at = EXCLUDED.updated_at`,
		rule.StateCode, rule.MinAge, rule.MaxDailyTHCMg, rule.MustVerifyAge, rule.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert compliance rule: %w", err)
	}
	return nil
}

func (s *Rules) FindByState(ctx context.Context, stateCode string) (domain.ComplianceRule, error) {
	var rule domain.ComplianceRule
	err := s.db.QueryRowContext(ctx, `
		SELECT state_code, min_age, max_daily_thc_mg, must_verify_age, updated_at
		FROM compliance_rules WHERE state_code = $1`, stateCode).
		Scan(&rule.StateCode, &rule.MinAge, &rule.MaxDailyTHCMg, &rule.MustVerifyAge, &rule.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ComplianceRule{}, storage.ErrNotFound
		}
		return domain.ComplianceRule{}, fmt.Errorf("find compliance rule: %w", err)
	}
	return rule, nil
}
