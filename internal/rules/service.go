// Package rules manages per-state compliance rules: the admin write side and
// the cached read side used by the compliance engine.
package rules

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"greenlane/internal/domain"
	"greenlane/internal/storage"
	"greenlane/internal/storage/rulecache"
	dErrors "greenlane/pkg/domain-errors"
)

var stateCodeRe = regexp.MustCompile(`^[A-Z]{2}$`)

type Service struct {
	store  storage.RuleStore
	cache  rulecache.Cache
	logger *slog.Logger
}

func NewService(store storage.RuleStore, cache rulecache.Cache, logger *slog.Logger) *Service {
	return &Service{store: store, cache: cache, logger: logger}
}

// Get returns the rule for a state, bypassing the cache so admins always see
// the stored value.
func (s *Service) Get(ctx context.Context, stateCode string) (domain.ComplianceRule, error) {
	if !stateCodeRe.MatchString(stateCode) {
		return domain.ComplianceRule{}, dErrors.New(dErrors.CodeInvalidInput, "state code must be two uppercase letters")
	}
	rule, err := s.store.FindByState(ctx, stateCode)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return domain.ComplianceRule{}, dErrors.Wrap(dErrors.CodeNotFound,
				fmt.Sprintf("no rule configured for state %s", stateCode), err)
		}
		return domain.ComplianceRule{}, fmt.Errorf("find rule: %w", err)
	}
	return rule, nil
}

// Upsert stores the rule and invalidates its cache entry so the next checkout
// in that state sees the new limits.
func (s *Service) Upsert(ctx context.Context, rule domain.ComplianceRule) (domain.ComplianceRule, error) {
	if !stateCodeRe.MatchString(rule.StateCode) {
		return domain.ComplianceRule{}, dErrors.New(dErrors.CodeInvalidInput, "state code must be two uppercase letters")
	}
	if rule.MinAge < 0 || rule.MaxDailyTHCMg < 0 {
		return domain.ComplianceRule{}, dErrors.New(dErrors.CodeInvalidInput, "limits must not be negative")
	}
	rule.UpdatedAt = time.Now().UTC()

	if err := s.store.Upsert(ctx, rule); err != nil {
		return domain.ComplianceRule{}, fmt.Errorf("upsert rule: %w", err)
	}
	if err := s.cache.Invalidate(ctx, rule.StateCode); err != nil {
		s.logger.WarnContext(ctx, "rule cache invalidation failed",
			"state_code", rule.StateCode,
			"error", err,
		)
	}

	s.logger.InfoContext(ctx, "compliance rule updated",
		"state_code", rule.StateCode,
		"min_age", rule.MinAge,
		"max_daily_thc_mg", rule.MaxDailyTHCMg,
		"must_verify_age", rule.MustVerifyAge,
	)
	return rule, nil
}

// SeedDefaults loads a starter rule set for local development. Existing rules
// are overwritten.
func (s *Service) SeedDefaults(ctx context.Context) error {
	defaults := []domain.ComplianceRule{
		{StateCode: "CA", MinAge: 21, MaxDailyTHCMg: 1000, MustVerifyAge: true},
		{StateCode: "CO", MinAge: 21, MaxDailyTHCMg: 800, MustVerifyAge: true},
		{StateCode: "OK", MinAge: 18, MaxDailyTHCMg: 0, MustVerifyAge: false},
	}
	for _, rule := range defaults {
		if _, err := s.Upsert(ctx, rule); err != nil {
			return err
		}
	}
	return nil
}
