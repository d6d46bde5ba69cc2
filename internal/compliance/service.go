package compliance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"greenlane/internal/compliance/metrics"
	"greenlane/internal/domain"
	"greenlane/pkg/platform/sentinel"
	"greenlane/pkg/requestcontext"
)

var tracer = otel.Tracer("greenlane/compliance")

// Read-side dependencies, kept narrow so the engine cannot mutate anything.
type (
	UserReader interface {
		FindByID(ctx context.Context, id string) (domain.User, error)
	}
	DispensaryReader interface {
		FindByID(ctx context.Context, id string) (domain.Dispensary, error)
	}
	ProductReader interface {
		FindByIDs(ctx context.Context, ids []string) (map[string]domain.Product, error)
	}
	OrderHistoryReader interface {
		SumTHCMgForUserBetween(ctx context.Context, userID string, from, to time.Time) (float64, error)
	}
	RuleReader interface {
		FindByState(ctx context.Context, stateCode string) (domain.ComplianceRule, error)
	}
)

// Engine evaluates order intents against jurisdiction rules. It holds no
// state beyond its read-only data access handles, so one instance serves
// concurrent checkouts.
type Engine struct {
	users        UserReader
	dispensaries DispensaryReader
	products     ProductReader
	orders       OrderHistoryReader
	rules        RuleReader
	metrics      *metrics.Metrics
}

func NewEngine(users UserReader, dispensaries DispensaryReader, products ProductReader, orders OrderHistoryReader, rules RuleReader, m *metrics.Metrics) *Engine {
	return &Engine{
		users:        users,
		dispensaries: dispensaries,
		products:     products,
		orders:       orders,
		rules:        rules,
		metrics:      m,
	}
}

// Check runs the full compliance evaluation for one checkout attempt.
//
// It performs reads only and never mutates order or user state: callers treat
// the Result as a pure gate evaluated fresh on every attempt. Business
// violations come back inside the Result; a non-nil error means
// infrastructure failed and the caller should answer with a server error,
// not a rejection.
//
// Known limitation: two concurrent checkouts by the same user can each read
// the same consumed total and both pass, together exceeding the daily cap
// (check-then-act). Closing that race belongs to the order-creation path,
// e.g. a transactional re-check at commit; see order.Service.
func (e *Engine) Check(ctx context.Context, req CheckRequest) (Result, error) {
	ctx, span := tracer.Start(ctx, "compliance.Check")
	defer span.End()
	span.SetAttributes(attribute.String("dispensary_id", req.DispensaryID))

	start := time.Now()
	now := requestcontext.Now(ctx)

	// The user and dispensary lookups are independent; run them together.
	// Rule lookup waits for the dispensary since it needs the state code.
	var (
		user           domain.User
		userFound      bool
		dispensary     domain.Dispensary
		dispensaryOK   bool
		g, gctx        = errgroup.WithContext(ctx)
	)
	g.Go(func() error {
		u, err := e.users.FindByID(gctx, req.UserID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return nil
			}
			return fmt.Errorf("look up user: %w", err)
		}
		user, userFound = u, true
		return nil
	})
	g.Go(func() error {
		d, err := e.dispensaries.FindByID(gctx, req.DispensaryID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return nil
			}
			return fmt.Errorf("look up dispensary: %w", err)
		}
		dispensary, dispensaryOK = d, true
		return nil
	})
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	// The one short-circuit: without a dispensary there is no jurisdiction,
	// and no other check can be evaluated consistently.
	if !dispensaryOK {
		result := resultOf([]Violation{{
			Code:    ViolationStoreUnknown,
			Message: "store not found; jurisdiction cannot be determined",
		}})
		e.record(result, start)
		return result, nil
	}

	rule, err := e.resolveRule(ctx, dispensary.StateCode)
	if err != nil {
		return Result{}, err
	}

	var userPtr *domain.User
	if userFound {
		userPtr = &user
	}
	violations := validateSubject(userPtr, rule, now)

	// No subject, nothing to aggregate against; USER_NOT_FOUND already says
	// everything.
	if userFound {
		dosage, err := e.computeDosage(ctx, req.UserID, req.Items, rule, now)
		if err != nil {
			return Result{}, err
		}
		violations = append(violations, dosage...)
	}

	result := resultOf(violations)
	e.record(result, start)
	return result, nil
}

// resolveRule returns nil for an unconfigured jurisdiction - the permissive
// default, not an error.
func (e *Engine) resolveRule(ctx context.Context, stateCode string) (*domain.ComplianceRule, error) {
	rule, err := e.rules.FindByState(ctx, stateCode)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("resolve rule for %s: %w", stateCode, err)
	}
	return &rule, nil
}

// computeDosage sums the requested THC milligrams plus everything the user
// already purchased today (UTC day, cancelled orders excluded) and compares
// against the jurisdiction cap.
func (e *Engine) computeDosage(ctx context.Context, userID string, items []RequestedItem, rule *domain.ComplianceRule, now time.Time) ([]Violation, error) {
	if rule == nil || rule.MaxDailyTHCMg <= 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	products, err := e.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve products: %w", err)
	}
	requested := requestedTHCMg(items, products)

	from, to := dayWindowUTC(now)
	consumed, err := e.orders.SumTHCMgForUserBetween(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("aggregate daily thc: %w", err)
	}

	return dosageViolations(requested, consumed, rule), nil
}

func (e *Engine) record(result Result, start time.Time) {
	e.metrics.ObserveCheck(result.Valid, time.Since(start))
	for _, v := range result.Violations {
		e.metrics.IncViolation(string(v.Code))
	}
}
