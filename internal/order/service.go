// Package order creates and lists orders. Creation is hard-gated by the
// compliance engine: any violation blocks the order, no partial commits.
package order

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"

	"greenlane/internal/audit"
	"greenlane/internal/compliance"
	"greenlane/internal/domain"
	"greenlane/internal/order/ports"
	"greenlane/internal/storage"
	dErrors "greenlane/pkg/domain-errors"
	"greenlane/pkg/platform/sentinel"
	"greenlane/pkg/requestcontext"
)

var tracer = otel.Tracer("greenlane/order")

// ComplianceChecker is the gate in front of checkout.
type ComplianceChecker interface {
	Check(ctx context.Context, req compliance.CheckRequest) (compliance.Result, error)
}

// Auditor records the regulatory trail.
type Auditor interface {
	Emit(ctx context.Context, event domain.AuditEvent)
}

// CreateRequest is one checkout attempt.
type CreateRequest struct {
	UserID       string
	DispensaryID string
	Items        []compliance.RequestedItem
}

// Service owns order creation and listing.
type Service struct {
	orders   storage.OrderStore
	products storage.ProductStore
	checker  ComplianceChecker
	payments ports.PaymentProvider
	notifier ports.Notifier
	auditor  Auditor
	logger   *slog.Logger
}

func NewService(orders storage.OrderStore, products storage.ProductStore, checker ComplianceChecker,
	payments ports.PaymentProvider, notifier ports.Notifier, auditor Auditor, logger *slog.Logger) *Service {
	return &Service{
		orders:   orders,
		products: products,
		checker:  checker,
		payments: payments,
		notifier: notifier,
		auditor:  auditor,
		logger:   logger,
	}
}

// Create runs the compliance gate and, when it passes, prices the order,
// authorizes payment, and persists the order with its items.
//
// The returned Result carries any compliance violations; the order is only
// non-zero when the result is valid and persistence succeeded. The dosage
// check-then-act race across concurrent checkouts is accepted here (see
// compliance.Engine.Check); the persisted order makes the next check see the
// reserved dosage.
func (s *Service) Create(ctx context.Context, req CreateRequest) (domain.Order, compliance.Result, error) {
	ctx, span := tracer.Start(ctx, "order.Create")
	defer span.End()

	result, err := s.checker.Check(ctx, compliance.CheckRequest{
		UserID:       req.UserID,
		DispensaryID: req.DispensaryID,
		Items:        req.Items,
	})
	if err != nil {
		return domain.Order{}, compliance.Result{}, fmt.Errorf("compliance check: %w", err)
	}

	s.auditCheck(ctx, req, result)
	if !result.Valid {
		return domain.Order{}, result, nil
	}

	items, total, err := s.priceItems(ctx, req)
	if err != nil {
		return domain.Order{}, compliance.Result{}, err
	}

	paymentRef, err := s.payments.Authorize(ctx, req.UserID, total)
	if err != nil {
		if errors.Is(err, ports.ErrPaymentDeclined) {
			return domain.Order{}, compliance.Result{}, dErrors.Wrap(dErrors.CodePaymentDeclined, "payment was declined", err)
		}
		return domain.Order{}, compliance.Result{}, fmt.Errorf("authorize payment: %w", err)
	}

	order := domain.Order{
		ID:           uuid.NewString(),
		UserID:       req.UserID,
		DispensaryID: req.DispensaryID,
		Status:       domain.OrderStatusPending,
		TotalCents:   total,
		CreatedAt:    requestcontext.Now(ctx),
		Items:        items,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return domain.Order{}, compliance.Result{}, fmt.Errorf("persist order: %w", err)
	}

	s.logger.InfoContext(ctx, "order created",
		"order_id", order.ID,
		"user_id", order.UserID,
		"dispensary_id", order.DispensaryID,
		"total_cents", order.TotalCents,
		"payment_ref", paymentRef,
	)

	s.auditor.Emit(ctx, domain.AuditEvent{
		Timestamp:    order.CreatedAt,
		UserID:       order.UserID,
		DispensaryID: order.DispensaryID,
		Action:       audit.ActionOrderCreated,
		OrderID:      order.ID,
	})
	if err := s.notifier.OrderCreated(ctx, order.UserID, order.ID); err != nil {
		s.logger.WarnContext(ctx, "order notification failed", "order_id", order.ID, "error", err)
	}

	return order, result, nil
}

// ListByUser returns the user's orders, newest first.
func (s *Service) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	orders, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// priceItems resolves every requested product and prices the lines. Unlike
// the dosage aggregator, ordering an unknown or inactive product is a hard
// input error: we will not charge for something we cannot sell.
func (s *Service) priceItems(ctx context.Context, req CreateRequest) ([]domain.OrderItem, int64, error) {
	ids := make([]string, 0, len(req.Items))
	for _, item := range req.Items {
		ids = append(ids, item.ProductID)
	}
	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, 0, fmt.Errorf("resolve products: %w", err)
	}

	items := make([]domain.OrderItem, 0, len(req.Items))
	var total int64
	for _, item := range req.Items {
		product, ok := products[item.ProductID]
		if !ok || !product.Active {
			return nil, 0, dErrors.Wrap(dErrors.CodeInvalidInput,
				fmt.Sprintf("product %s is not available", item.ProductID), sentinel.ErrNotFound)
		}
		if product.DispensaryID != req.DispensaryID {
			return nil, 0, dErrors.New(dErrors.CodeInvalidInput,
				fmt.Sprintf("product %s is not sold by this store", item.ProductID))
		}
		items = append(items, domain.OrderItem{
			ProductID:      product.ID,
			Quantity:       item.Quantity,
			UnitPriceCents: product.PriceCents,
			THCMgPerUnit:   product.THCMgPerUnit,
		})
		total += product.PriceCents * int64(item.Quantity)
	}
	return items, total, nil
}

func (s *Service) auditCheck(ctx context.Context, req CreateRequest, result compliance.Result) {
	decision := audit.DecisionAllowed
	var reasons []string
	if !result.Valid {
		decision = audit.DecisionBlocked
		for _, v := range result.Violations {
			reasons = append(reasons, string(v.Code))
		}
	}
	s.auditor.Emit(ctx, domain.AuditEvent{
		Timestamp:    requestcontext.Now(ctx),
		UserID:       req.UserID,
		DispensaryID: req.DispensaryID,
		Action:       audit.ActionComplianceCheck,
		Decision:     decision,
		Reasons:      reasons,
	})
}
