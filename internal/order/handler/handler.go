package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"greenlane/internal/compliance"
	"greenlane/internal/domain"
	"greenlane/internal/order"
	dErrors "greenlane/pkg/domain-errors"
	"greenlane/pkg/platform/httputil"
	"greenlane/pkg/requestcontext"
)

// Service defines the interface for order operations.
type Service interface {
	Create(ctx context.Context, req order.CreateRequest) (domain.Order, compliance.Result, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
}

// Handler wires order endpoints to the order service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs an order handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts order endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/orders", h.HandleCreate)
	r.Get("/orders", h.HandleList)
}

// CreateRequest is the wire shape of a checkout.
type CreateRequest struct {
	UserID  string        `json:"userId" validate:"required"`
	StoreID string        `json:"storeId" validate:"required"`
	Items   []RequestItem `json:"items" validate:"required,min=1,dive"`
}

// RequestItem is one requested line.
type RequestItem struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

// OrderResponse is the wire shape of a placed order.
type OrderResponse struct {
	ID         string         `json:"id"`
	UserID     string         `json:"userId"`
	StoreID    string         `json:"storeId"`
	Status     string         `json:"status"`
	TotalCents int64          `json:"totalCents"`
	CreatedAt  time.Time      `json:"createdAt"`
	Items      []ItemResponse `json:"items"`
}

// ItemResponse is one placed line.
type ItemResponse struct {
	ProductID      string  `json:"productId"`
	Quantity       int     `json:"quantity"`
	UnitPriceCents int64   `json:"unitPriceCents"`
	THCMgPerUnit   float64 `json:"thcMgPerUnit"`
}

// HandleCreate handles POST /orders requests. Compliance violations reject
// the order with 422 and the serialized violation list so the client can
// render jurisdiction-specific messaging.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[CreateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	created, result, err := h.service.Create(ctx, toDomain(req))
	if err != nil {
		h.logger.ErrorContext(ctx, "order creation failed",
			"request_id", requestID,
			"user_id", req.UserID,
			"store_id", req.StoreID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	if !result.Valid {
		h.logger.InfoContext(ctx, "order rejected by compliance",
			"request_id", requestID,
			"user_id", req.UserID,
			"store_id", req.StoreID,
			"violations", len(result.Violations),
		)
		httputil.WriteJSON(w, http.StatusUnprocessableEntity, result)
		return
	}

	h.logger.InfoContext(ctx, "order created",
		"request_id", requestID,
		"order_id", created.ID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusCreated, fromOrder(created))
}

// HandleList handles GET /orders?userId= requests.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "userId query parameter is required"))
		return
	}

	orders, err := h.service.ListByUser(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "order listing failed",
			"request_id", requestcontext.RequestID(ctx),
			"user_id", userID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	out := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, fromOrder(o))
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func toDomain(req CreateRequest) order.CreateRequest {
	items := make([]compliance.RequestedItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, compliance.RequestedItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}
	return order.CreateRequest{
		UserID:       req.UserID,
		DispensaryID: req.StoreID,
		Items:        items,
	}
}

func fromOrder(o domain.Order) OrderResponse {
	items := make([]ItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, ItemResponse{
			ProductID:      item.ProductID,
			Quantity:       item.Quantity,
			UnitPriceCents: item.UnitPriceCents,
			THCMgPerUnit:   item.THCMgPerUnit,
		})
	}
	return OrderResponse{
		ID:         o.ID,
		UserID:     o.UserID,
		StoreID:    o.DispensaryID,
		Status:     o.Status.String(),
		TotalCents: o.TotalCents,
		CreatedAt:  o.CreatedAt,
		Items:      items,
	}
}
