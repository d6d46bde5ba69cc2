package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"greenlane/internal/compliance"
	"greenlane/internal/domain"
	"greenlane/internal/order"
	dErrors "greenlane/pkg/domain-errors"
)

type stubService struct {
	order  domain.Order
	result compliance.Result
	orders []domain.Order
	err    error
}

func (s *stubService) Create(_ context.Context, _ order.CreateRequest) (domain.Order, compliance.Result, error) {
	return s.order, s.result, s.err
}

func (s *stubService) ListByUser(_ context.Context, _ string) ([]domain.Order, error) {
	return s.orders, s.err
}

func newTestRouter(service Service) http.Handler {
	r := chi.NewRouter()
	New(service, slog.New(slog.NewTextHandler(io.Discard, nil))).Register(r)
	return r
}

const createBody = `{"userId":"u1","storeId":"d1","items":[{"productId":"p1","quantity":2}]}`

func TestHandleCreateSuccess(t *testing.T) {
	created := time.Date(2025, 6, 15, 20, 30, 0, 0, time.UTC)
	service := &stubService{
		order: domain.Order{
			ID:           "o1",
			UserID:       "u1",
			DispensaryID: "d1",
			Status:       domain.OrderStatusPending,
			TotalCents:   3000,
			CreatedAt:    created,
			Items: []domain.OrderItem{
				{ProductID: "p1", Quantity: 2, UnitPriceCents: 1500, THCMgPerUnit: 10},
			},
		},
		result: compliance.Result{Valid: true, Violations: []compliance.Violation{}},
	}
	router := newTestRouter(service)

	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(createBody))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp OrderResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "o1", resp.ID)
	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, int64(3000), resp.TotalCents)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, float64(10), resp.Items[0].THCMgPerUnit)
}

func TestHandleCreateRejectedByCompliance(t *testing.T) {
	service := &stubService{
		result: compliance.Result{
			Valid: false,
			Violations: []compliance.Violation{
				{Code: compliance.ViolationAgeNotVerified, Message: "user has not completed age verification"},
				{Code: compliance.ViolationDailyTHCExceeded, Message: "over the daily limit"},
			},
		},
	}
	router := newTestRouter(service)

	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(createBody))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var resp struct {
		IsValid bool `json:"isValid"`
		Errors  []struct {
			Code string `json:"code"`
		} `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.IsValid)
	require.Len(t, resp.Errors, 2)
	assert.Equal(t, "AGE_NOT_VERIFIED", resp.Errors[0].Code)
	assert.Equal(t, "DAILY_THC_LIMIT_EXCEEDED", resp.Errors[1].Code)
}

func TestHandleCreatePaymentDeclined(t *testing.T) {
	service := &stubService{err: dErrors.New(dErrors.CodePaymentDeclined, "payment was declined")}
	router := newTestRouter(service)

	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(createBody))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusPaymentRequired, w.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "payment_declined", resp["error"])
}

func TestHandleCreateRejectsInvalidBody(t *testing.T) {
	router := newTestRouter(&stubService{})

	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(`{"userId":"u1"}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleListRequiresUserID(t *testing.T) {
	router := newTestRouter(&stubService{})

	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleList(t *testing.T) {
	service := &stubService{orders: []domain.Order{
		{ID: "o2", UserID: "u1", DispensaryID: "d1", Status: domain.OrderStatusCompleted},
		{ID: "o1", UserID: "u1", DispensaryID: "d1", Status: domain.OrderStatusCancelled},
	}}
	router := newTestRouter(service)

	req := httptest.NewRequest(http.MethodGet, "/orders?userId=u1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp []OrderResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 2)
	assert.Equal(t, "o2", resp[0].ID)
}
