package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"greenlane/internal/compliance"
	"greenlane/pkg/platform/httputil"
	"greenlane/pkg/requestcontext"
)

// Service defines the interface for compliance operations.
type Service interface {
	Check(ctx context.Context, req compliance.CheckRequest) (compliance.Result, error)
}

// Handler wires the pre-flight compliance endpoint to the engine. The mobile
// client calls it before presenting the payment sheet so the user learns
// about violations before entering card details.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a compliance handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts compliance endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/compliance/check", h.HandleCheck)
}

// CheckRequest is the wire shape of a compliance pre-flight.
type CheckRequest struct {
	UserID  string        `json:"userId" validate:"required"`
	StoreID string        `json:"storeId" validate:"required"`
	Items   []RequestItem `json:"items" validate:"required,min=1,dive"`
}

// RequestItem is one proposed line.
type RequestItem struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

// HandleCheck handles POST /compliance/check requests. The response is always
// 200 with the structured result; violations are the payload here, not an
// HTTP failure.
func (h *Handler) HandleCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[CheckRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.Check(ctx, toDomain(req))
	if err != nil {
		h.logger.ErrorContext(ctx, "compliance check failed",
			"request_id", requestID,
			"user_id", req.UserID,
			"store_id", req.StoreID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "compliance check evaluated",
		"request_id", requestID,
		"user_id", req.UserID,
		"store_id", req.StoreID,
		"valid", result.Valid,
		"violations", len(result.Violations),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusOK, result)
}

func toDomain(req CheckRequest) compliance.CheckRequest {
	items := make([]compliance.RequestedItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, compliance.RequestedItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}
	return compliance.CheckRequest{
		UserID:       req.UserID,
		DispensaryID: req.StoreID,
		Items:        items,
	}
}
