package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	domain "github.com/spiritmart/api/internal/domain"
	"github.com/spiritmart/api/internal/services"
)

type stubCartService struct {
	view       services.CartView
	err        error
	lastUpsert services.UpsertLineCommand
	cleared    []string
}

func (s *stubCartService) GetCart(_ context.Context, sessionID string) (services.CartView, error) {
	if s.err != nil {
		return services.CartView{}, s.err
	}
	view := s.view
	view.SessionID = sessionID
	return view, nil
}

func (s *stubCartService) UpsertItem(_ context.Context, cmd services.UpsertLineCommand) (services.CartView, error) {
	s.lastUpsert = cmd
	if s.err != nil {
		return services.CartView{}, s.err
	}
	return s.view, nil
}

func (s *stubCartService) RemoveItem(_ context.Context, sessionID string, _ string) (services.CartView, error) {
	if s.err != nil {
		return services.CartView{}, s.err
	}
	return services.CartView{SessionID: sessionID}, nil
}

func (s *stubCartService) ClearCart(_ context.Context, sessionID string) error {
	s.cleared = append(s.cleared, sessionID)
	return s.err
}

func cartTestRouter(svc services.CartService) chi.Router {
	r := chi.NewRouter()
	r.Use(SessionMiddleware(func() string { return "minted-session" }))
	NewCartHandlers(svc).Routes(r)
	return r
}

func singleLineView() services.CartView {
	lines := []domain.LineItem{{
		DesignID:           "d1",
		DesignName:         "Eagles Tee",
		State:              "CA",
		School:             "Lincoln HS",
		Style:              "G500",
		Quantity:           50,
		WholesaleUnitPrice: decimal.RequireFromString("6.25"),
		MSRP:               decimal.RequireFromString("12.00"),
	}}
	return services.CartView{SessionID: "sess-1", Lines: lines, Totals: domain.Totals(lines)}
}

func TestGetCartEchoesSessionHeader(t *testing.T) {
	router := cartTestRouter(&stubCartService{})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if got := rr.Header().Get(SessionHeader); got != "minted-session" {
		t.Fatalf("expected minted session header, got %q", got)
	}
	var body struct {
		Cart cartPayload `json:"cart"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if body.Cart.SessionID != "minted-session" || len(body.Cart.Lines) != 0 {
		t.Fatalf("unexpected cart payload: %+v", body.Cart)
	}
}

func TestUpsertItemEndpoint(t *testing.T) {
	svc := &stubCartService{view: singleLineView()}
	router := cartTestRouter(svc)

	req := httptest.NewRequest(http.MethodPut, "/items/d1", strings.NewReader(`{"state":"CA","school":"Lincoln HS","quantity":60}`))
	req.Header.Set(SessionHeader, "sess-1")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if svc.lastUpsert.SessionID != "sess-1" || svc.lastUpsert.DesignID != "d1" {
		t.Fatalf("unexpected command: %+v", svc.lastUpsert)
	}
	if svc.lastUpsert.Quantity != 60 {
		t.Fatalf("expected raw quantity forwarded, got %v", svc.lastUpsert.Quantity)
	}

	var body struct {
		Cart cartPayload `json:"cart"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(body.Cart.Lines) != 1 {
		t.Fatalf("expected one line, got %d", len(body.Cart.Lines))
	}
	line := body.Cart.Lines[0]
	if line.Quantity != 50 || line.WholesaleUnitPrice != "6.25" || line.LineTotal != "312.50" {
		t.Fatalf("unexpected line payload: %+v", line)
	}
	if body.Cart.Totals.TotalQuantity != 50 {
		t.Fatalf("unexpected totals: %+v", body.Cart.Totals)
	}
}

func TestUpsertItemInvalidJSON(t *testing.T) {
	router := cartTestRouter(&stubCartService{})

	req := httptest.NewRequest(http.MethodPut, "/items/d1", strings.NewReader("{not json"))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestUpsertItemUnknownDesignEndpoint(t *testing.T) {
	router := cartTestRouter(&stubCartService{err: services.ErrCartDesignNotFound})

	req := httptest.NewRequest(http.MethodPut, "/items/missing", strings.NewReader(`{"state":"CA","school":"Lincoln HS","quantity":25}`))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestClearCartEndpoint(t *testing.T) {
	svc := &stubCartService{}
	router := cartTestRouter(svc)

	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	req.Header.Set(SessionHeader, "sess-9")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if len(svc.cleared) != 1 || svc.cleared[0] != "sess-9" {
		t.Fatalf("expected clear for sess-9, got %v", svc.cleared)
	}
}
