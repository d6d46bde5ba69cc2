// Package storage defines the persistence interfaces and their in-memory
// implementations.
//
// Stores are interface-driven to keep the domain logic testable and to allow
// swapping in-memory and PostgreSQL persistence without rewiring business
// code. Users live in the identity subsystem and products come from the
// catalog pipeline; both are read-only from this service's perspective, but
// the in-memory stores keep Save methods so tests and dev seeding can build
// fixtures.
package storage

import (
	"context"
	"time"

	"greenlane/internal/domain"
)

type UserStore interface {
	Save(ctx context.Context, user domain.User) error
	FindByID(ctx context.Context, id string) (domain.User, error)
}

type DispensaryStore interface {
	Save(ctx context.Context, dispensary domain.Dispensary) error
	FindByID(ctx context.Context, id string) (domain.Dispensary, error)
	List(ctx context.Context) ([]domain.Dispensary, error)
}

type ProductStore interface {
	Save(ctx context.Context, product domain.Product) error
	FindByID(ctx context.Context, id string) (domain.Product, error)
	// FindByIDs returns the products that exist, keyed by ID. Missing IDs are
	// simply absent from the map; callers decide whether that is an error.
	FindByIDs(ctx context.Context, ids []string) (map[string]domain.Product, error)
	ListByDispensary(ctx context.Context, dispensaryID string) ([]domain.Product, error)
}

type RuleStore interface {
	Upsert(ctx context.Context, rule domain.ComplianceRule) error
	// FindByState returns sentinel.ErrNotFound for unconfigured jurisdictions;
	// callers treat that as the permissive default, not a failure.
	FindByState(ctx context.Context, stateCode string) (domain.ComplianceRule, error)
}

type OrderStore interface {
	Create(ctx context.Context, order domain.Order) error
	FindByID(ctx context.Context, id string) (domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	// SumTHCMgForUserBetween totals the THC milligrams of the user's orders
	// created in [from, to), excluding cancelled orders. Item THC content is
	// read from the order items themselves (denormalized at purchase time).
	SumTHCMgForUserBetween(ctx context.Context, userID string, from, to time.Time) (float64, error)
}

type AuditStore interface {
	Append(ctx context.Context, event domain.AuditEvent) error
	ListByUser(ctx context.Context, userID string) ([]domain.AuditEvent, error)
}
