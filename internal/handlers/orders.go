package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	domain "github.com/spiritmart/api/internal/domain"
	"github.com/spiritmart/api/internal/platform/httpx"
	"github.com/spiritmart/api/internal/services"
)

const maxOrderBodySize = 32 * 1024

// OrderHandlers exposes the order submission endpoint.
type OrderHandlers struct {
	orders  services.OrderService
	limiter rateLimiter
}

// OrderHandlersOption customises the order handlers.
type OrderHandlersOption func(*OrderHandlers)

// WithSubmissionRateLimit throttles submissions per session id.
func WithSubmissionRateLimit(limit int, window time.Duration) OrderHandlersOption {
	return func(h *OrderHandlers) {
		h.limiter = newSimpleRateLimiter(limit, window, nil)
	}
}

// NewOrderHandlers constructs handlers over the order service.
func NewOrderHandlers(orders services.OrderService, opts ...OrderHandlersOption) *OrderHandlers {
	h := &OrderHandlers{orders: orders}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Routes wires the /orders endpoints onto the provided router.
func (h *OrderHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Post("/", h.submit)
}

type submitOrderRequest struct {
	Company string `json:"company"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Notes   string `json:"notes"`
	State   string `json:"state"`
}

type orderReceiptPayload struct {
	AttemptID   string `json:"attempt_id"`
	Rows        int    `json:"rows"`
	SubmittedAt string `json:"submitted_at"`
}

func (h *OrderHandlers) submit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.orders == nil {
		httpx.WriteError(ctx, w, httpx.NewError("order_service_unavailable", "order service is unavailable", http.StatusServiceUnavailable))
		return
	}

	sid := sessionIDFromRequest(r)
	if h.limiter != nil && !h.limiter.Allow(sid) {
		httpx.WriteError(ctx, w, httpx.NewError("rate_limited", "too many submissions, retry later", http.StatusTooManyRequests))
		return
	}

	body, err := readLimitedBody(r, maxOrderBodySize)
	if err != nil {
		switch {
		case errors.Is(err, errBodyTooLarge):
			httpx.WriteError(ctx, w, httpx.NewError("payload_too_large", "request body exceeds allowed size", http.StatusRequestEntityTooLarge))
		default:
			httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		}
		return
	}

	var req submitOrderRequest
	if err := json.Unmarshal(body, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", fmt.Sprintf("invalid JSON payload: %v", err), http.StatusBadRequest))
		return
	}

	receipt, err := h.orders.Submit(ctx, services.SubmitOrderCommand{
		SessionID: sid,
		Meta: domain.SubmissionMeta{
			Company: req.Company,
			Name:    req.Name,
			Email:   req.Email,
			Notes:   req.Notes,
			State:   req.State,
		},
	})
	if err != nil {
		h.writeOrderError(ctx, w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]any{"order": orderReceiptPayload{
		AttemptID:   receipt.AttemptID,
		Rows:        receipt.Rows,
		SubmittedAt: receipt.SubmittedAt.UTC().Format(time.RFC3339Nano),
	}})
}

func (h *OrderHandlers) writeOrderError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrOrderInvalidInput):
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "session id is required", http.StatusBadRequest))
	case errors.Is(err, services.ErrOrderEmptyCart):
		httpx.WriteError(ctx, w, httpx.NewError("empty_cart", "cart has no lines to submit", http.StatusUnprocessableEntity))
	case errors.Is(err, services.ErrOrderInFlight):
		httpx.WriteError(ctx, w, httpx.NewError("submission_in_flight", "a submission for this session is already running", http.StatusConflict))
	case errors.Is(err, services.ErrOrderRejected):
		httpx.WriteError(ctx, w, httpx.NewError("submission_rejected", err.Error(), http.StatusBadGateway))
	default:
		httpx.WriteError(ctx, w, httpx.NewError("submission_failed", "order could not be delivered, cart preserved", http.StatusBadGateway))
	}
}
