package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	domain "github.com/spiritmart/api/internal/domain"
	"github.com/spiritmart/api/internal/platform/httpx"
	"github.com/spiritmart/api/internal/services"
)

// CatalogHandlers exposes the read-only state/school/design browse endpoints.
type CatalogHandlers struct {
	catalog services.CatalogService
	prices  *domain.PriceBook
}

// NewCatalogHandlers constructs handlers over the catalog service and price book.
func NewCatalogHandlers(catalog services.CatalogService, prices *domain.PriceBook) *CatalogHandlers {
	return &CatalogHandlers{catalog: catalog, prices: prices}
}

// Routes wires the /catalog endpoints onto the provided router.
func (h *CatalogHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/states", h.listStates)
	r.Get("/states/{state}/schools", h.listSchools)
	r.Get("/states/{state}/schools/{school}/designs", h.listDesigns)
}

type designCard struct {
	DesignID   string            `json:"design_id"`
	DesignName string            `json:"design_name"`
	Style      string            `json:"style"`
	Wholesale  string            `json:"wholesale"`
	MSRP       string            `json:"msrp"`
	TierPrices map[string]string `json:"tier_prices"`
}

func (h *CatalogHandlers) listStates(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.catalog == nil {
		httpx.WriteError(ctx, w, httpx.NewError("catalog_service_unavailable", "catalog service is unavailable", http.StatusServiceUnavailable))
		return
	}

	states, err := h.catalog.ListStates(ctx, r.URL.Query().Get("q"))
	if err != nil {
		h.writeCatalogError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]any{"states": states})
}

func (h *CatalogHandlers) listSchools(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.catalog == nil {
		httpx.WriteError(ctx, w, httpx.NewError("catalog_service_unavailable", "catalog service is unavailable", http.StatusServiceUnavailable))
		return
	}

	schools, err := h.catalog.ListSchools(ctx, pathParam(r, "state"), r.URL.Query().Get("q"))
	if err != nil {
		h.writeCatalogError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]any{"schools": schools})
}

func (h *CatalogHandlers) listDesigns(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.catalog == nil {
		httpx.WriteError(ctx, w, httpx.NewError("catalog_service_unavailable", "catalog service is unavailable", http.StatusServiceUnavailable))
		return
	}

	designs, err := h.catalog.ListDesigns(ctx, pathParam(r, "state"), pathParam(r, "school"))
	if err != nil {
		h.writeCatalogError(ctx, w, err)
		return
	}

	cards := make([]designCard, 0, len(designs))
	for _, design := range designs {
		cards = append(cards, designCard{
			DesignID:   design.ID,
			DesignName: design.Name,
			Style:      design.Style,
			Wholesale:  design.Wholesale.String(),
			MSRP:       design.MSRP.String(),
			TierPrices: h.tierPrices(design.Style),
		})
	}
	writeJSONResponse(w, http.StatusOK, map[string]any{"designs": cards})
}

// tierPrices maps every quantity tier to the style's wholesale price, with
// the zero sentinel rendered for unpriced combinations.
func (h *CatalogHandlers) tierPrices(style string) map[string]string {
	out := make(map[string]string, len(domain.Tiers()))
	for _, tier := range domain.Tiers() {
		price, _ := h.prices.UnitPrice(style, tier)
		out[strconv.Itoa(int(tier))] = price.String()
	}
	return out
}

func (h *CatalogHandlers) writeCatalogError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrCatalogInvalidInput):
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "state and school are required", http.StatusBadRequest))
	case errors.Is(err, services.ErrCatalogNotFound):
		httpx.WriteError(ctx, w, httpx.NewError("catalog_not_found", "state or school not found", http.StatusNotFound))
	default:
		httpx.WriteError(ctx, w, httpx.NewError("catalog_unavailable", "catalog is unavailable", http.StatusServiceUnavailable))
	}
}

func pathParam(r *http.Request, name string) string {
	raw := chi.URLParam(r, name)
	if decoded, err := url.PathUnescape(raw); err == nil {
		return strings.TrimSpace(decoded)
	}
	return strings.TrimSpace(raw)
}
