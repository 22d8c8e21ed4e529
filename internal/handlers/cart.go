package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/spiritmart/api/internal/platform/httpx"
	"github.com/spiritmart/api/internal/services"
)

const maxCartBodySize = 16 * 1024

// CartHandlers exposes the per-session cart endpoints.
type CartHandlers struct {
	carts services.CartService
}

// NewCartHandlers constructs handlers over the cart service.
func NewCartHandlers(carts services.CartService) *CartHandlers {
	return &CartHandlers{carts: carts}
}

// Routes wires the /cart endpoints onto the provided router.
func (h *CartHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/", h.getCart)
	r.Delete("/", h.clearCart)
	r.Put("/items/{designID}", h.upsertItem)
	r.Delete("/items/{designID}", h.removeItem)
}

type cartLinePayload struct {
	DesignID           string `json:"design_id"`
	DesignName         string `json:"design_name"`
	State              string `json:"state"`
	School             string `json:"school"`
	Style              string `json:"style"`
	Quantity           int    `json:"quantity"`
	WholesaleUnitPrice string `json:"wholesale_unit_price"`
	MSRP               string `json:"msrp"`
	LineTotal          string `json:"line_total"`
}

type cartTotalsPayload struct {
	TotalWholesale string `json:"total_wholesale"`
	TotalMSRP      string `json:"total_msrp"`
	LineCount      int    `json:"line_count"`
	TotalQuantity  int    `json:"total_quantity"`
}

type cartPayload struct {
	SessionID string            `json:"session_id"`
	Lines     []cartLinePayload `json:"lines"`
	Totals    cartTotalsPayload `json:"totals"`
	UpdatedAt string            `json:"updated_at,omitempty"`
}

type upsertItemRequest struct {
	State    string  `json:"state"`
	School   string  `json:"school"`
	Quantity float64 `json:"quantity"`
}

func buildCartPayload(view services.CartView) cartPayload {
	lines := make([]cartLinePayload, 0, len(view.Lines))
	for _, line := range view.Lines {
		qty := int(line.Quantity)
		lines = append(lines, cartLinePayload{
			DesignID:           line.DesignID,
			DesignName:         line.DesignName,
			State:              line.State,
			School:             line.School,
			Style:              line.Style,
			Quantity:           qty,
			WholesaleUnitPrice: line.WholesaleUnitPrice.String(),
			MSRP:               line.MSRP.String(),
			LineTotal:          line.WholesaleUnitPrice.Mul(decimal.NewFromInt(int64(qty))).String(),
		})
	}

	payload := cartPayload{
		SessionID: view.SessionID,
		Lines:     lines,
		Totals: cartTotalsPayload{
			TotalWholesale: view.Totals.TotalWholesale.String(),
			TotalMSRP:      view.Totals.TotalMSRP.String(),
			LineCount:      view.Totals.LineCount,
			TotalQuantity:  view.Totals.TotalQuantity,
		},
	}
	if !view.UpdatedAt.IsZero() {
		payload.UpdatedAt = view.UpdatedAt.UTC().Format(time.RFC3339Nano)
	}
	return payload
}

func (h *CartHandlers) getCart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.carts == nil {
		httpx.WriteError(ctx, w, httpx.NewError("cart_service_unavailable", "cart service is unavailable", http.StatusServiceUnavailable))
		return
	}

	view, err := h.carts.GetCart(ctx, sessionIDFromRequest(r))
	if err != nil {
		h.writeCartError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]any{"cart": buildCartPayload(view)})
}

func (h *CartHandlers) upsertItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.carts == nil {
		httpx.WriteError(ctx, w, httpx.NewError("cart_service_unavailable", "cart service is unavailable", http.StatusServiceUnavailable))
		return
	}

	body, err := readLimitedBody(r, maxCartBodySize)
	if err != nil {
		switch {
		case errors.Is(err, errBodyTooLarge):
			httpx.WriteError(ctx, w, httpx.NewError("payload_too_large", "request body exceeds allowed size", http.StatusRequestEntityTooLarge))
		default:
			httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		}
		return
	}

	var req upsertItemRequest
	if err := json.Unmarshal(body, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", fmt.Sprintf("invalid JSON payload: %v", err), http.StatusBadRequest))
		return
	}

	view, err := h.carts.UpsertItem(ctx, services.UpsertLineCommand{
		SessionID: sessionIDFromRequest(r),
		State:     req.State,
		School:    req.School,
		DesignID:  pathParam(r, "designID"),
		Quantity:  req.Quantity,
	})
	if err != nil {
		h.writeCartError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]any{"cart": buildCartPayload(view)})
}

func (h *CartHandlers) removeItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.carts == nil {
		httpx.WriteError(ctx, w, httpx.NewError("cart_service_unavailable", "cart service is unavailable", http.StatusServiceUnavailable))
		return
	}

	view, err := h.carts.RemoveItem(ctx, sessionIDFromRequest(r), pathParam(r, "designID"))
	if err != nil {
		h.writeCartError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]any{"cart": buildCartPayload(view)})
}

func (h *CartHandlers) clearCart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.carts == nil {
		httpx.WriteError(ctx, w, httpx.NewError("cart_service_unavailable", "cart service is unavailable", http.StatusServiceUnavailable))
		return
	}

	sid := sessionIDFromRequest(r)
	if err := h.carts.ClearCart(ctx, sid); err != nil {
		h.writeCartError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]any{"cart": buildCartPayload(services.CartView{SessionID: sid})})
}

func (h *CartHandlers) writeCartError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrCartInvalidInput):
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "session, design, state and school are required", http.StatusBadRequest))
	case errors.Is(err, services.ErrCartDesignNotFound):
		httpx.WriteError(ctx, w, httpx.NewError("design_not_found", "design not found for the given state and school", http.StatusNotFound))
	default:
		httpx.WriteError(ctx, w, httpx.NewError("cart_unavailable", "cart is unavailable", http.StatusServiceUnavailable))
	}
}
