package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"greenlane/internal/domain"
	"greenlane/pkg/platform/httputil"
	"greenlane/pkg/requestcontext"
)

// Service defines the interface for rule administration.
type Service interface {
	Get(ctx context.Context, stateCode string) (domain.ComplianceRule, error)
	Upsert(ctx context.Context, rule domain.ComplianceRule) (domain.ComplianceRule, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts rule admin endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/rules/{stateCode}", h.HandleGet)
	r.Put("/rules/{stateCode}", h.HandleUpsert)
}

// UpsertRequest carries the fields an admin can set for a state.
type UpsertRequest struct {
	MinAge        int     `json:"minAge" validate:"gte=0,lte=150"`
	MaxDailyTHCMg float64 `json:"maxDailyThcMg" validate:"gte=0"`
	MustVerifyAge bool    `json:"mustVerifyAge"`
}

// RuleResponse is the wire shape of a stored rule.
type RuleResponse struct {
	StateCode     string    `json:"stateCode"`
	MinAge        int       `json:"minAge"`
	MaxDailyTHCMg float64   `json:"maxDailyThcMg"`
	MustVerifyAge bool      `json:"mustVerifyAge"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rule, err := h.service.Get(ctx, chi.URLParam(r, "stateCode"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, fromRule(rule))
}

func (h *Handler) HandleUpsert(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[UpsertRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	rule, err := h.service.Upsert(ctx, domain.ComplianceRule{
		StateCode:     chi.URLParam(r, "stateCode"),
		MinAge:        req.MinAge,
		MaxDailyTHCMg: req.MaxDailyTHCMg,
		MustVerifyAge: req.MustVerifyAge,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "rule upsert failed",
			"request_id", requestID,
			"state_code", chi.URLParam(r, "stateCode"),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, fromRule(rule))
}

func fromRule(rule domain.ComplianceRule) RuleResponse {
	return RuleResponse{
		StateCode:     rule.StateCode,
		MinAge:        rule.MinAge,
		MaxDailyTHCMg: rule.MaxDailyTHCMg,
		MustVerifyAge: rule.MustVerifyAge,
		UpdatedAt:     rule.UpdatedAt,
	}
}
