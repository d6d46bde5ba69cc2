package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"greenlane/internal/domain"
	dErrors "greenlane/pkg/domain-errors"
	"greenlane/pkg/platform/httputil"
	"greenlane/pkg/requestcontext"
)

// Service defines the interface for catalog reads.
type Service interface {
	ListDispensaries(ctx context.Context) ([]domain.Dispensary, error)
	GetDispensary(ctx context.Context, id string) (domain.Dispensary, error)
	ListProducts(ctx context.Context, dispensaryID string) ([]domain.Product, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts catalog endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/dispensaries", h.HandleListDispensaries)
	r.Get("/dispensaries/{dispensaryID}", h.HandleGetDispensary)
	r.Get("/products", h.HandleListProducts)
}

// DispensaryResponse is the wire shape of a dispensary.
type DispensaryResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	StateCode string `json:"stateCode"`
}

// ProductResponse is the wire shape of a menu item.
type ProductResponse struct {
	ID           string  `json:"id"`
	StoreID      string  `json:"storeId"`
	Name         string  `json:"name"`
	Category     string  `json:"category"`
	PriceCents   int64   `json:"priceCents"`
	THCMgPerUnit float64 `json:"thcMgPerUnit"`
}

func (h *Handler) HandleListDispensaries(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	dispensaries, err := h.service.ListDispensaries(ctx)
	if err != nil {
		h.logError(ctx, "dispensary listing failed", err)
		httputil.WriteError(w, err)
		return
	}
	out := make([]DispensaryResponse, 0, len(dispensaries))
	for _, d := range dispensaries {
		out = append(out, fromDispensary(d))
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) HandleGetDispensary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	dispensary, err := h.service.GetDispensary(ctx, chi.URLParam(r, "dispensaryID"))
	if err != nil {
		if dErrors.CodeOf(err) == dErrors.CodeInternal {
			h.logError(ctx, "dispensary lookup failed", err)
		}
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, fromDispensary(dispensary))
}

func (h *Handler) HandleListProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	dispensaryID := r.URL.Query().Get("dispensaryId")
	if dispensaryID == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "dispensaryId query parameter is required"))
		return
	}

	products, err := h.service.ListProducts(ctx, dispensaryID)
	if err != nil {
		if dErrors.CodeOf(err) == dErrors.CodeInternal {
			h.logError(ctx, "product listing failed", err)
		}
		httputil.WriteError(w, err)
		return
	}
	out := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, ProductResponse{
			ID:           p.ID,
			StoreID:      p.DispensaryID,
			Name:         p.Name,
			Category:     p.Category,
			PriceCents:   p.PriceCents,
			THCMgPerUnit: p.THCMgPerUnit,
		})
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) logError(ctx context.Context, msg string, err error) {
	h.logger.ErrorContext(ctx, msg,
		"request_id", requestcontext.RequestID(ctx),
		"error", err,
	)
}

func fromDispensary(d domain.Dispensary) DispensaryResponse {
	return DispensaryResponse{ID: d.ID, Name: d.Name, StateCode: d.StateCode}
}
