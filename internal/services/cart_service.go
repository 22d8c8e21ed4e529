package services

import (
	"context"
	"errors"
	"strings"
	"time"

	domain "github.com/spiritmart/api/internal/domain"
	"github.com/spiritmart/api/internal/repositories"
)

var (
	errCartRepositoryRequired = errors.New("cart service: repository is required")
	errCartCatalogRequired    = errors.New("cart service: catalog is required")
	errCartPriceBookRequired  = errors.New("cart service: price book is required")
	errCartClockRequired      = errors.New("cart service: clock is required")
)

// ErrCartInvalidInput indicates the caller supplied invalid input.
var ErrCartInvalidInput = errors.New("cart service: invalid input")

// ErrCartUnavailable indicates the cart service cannot fulfil the request due to backend issues.
var ErrCartUnavailable = errors.New("cart service: unavailable")

// ErrCartDesignNotFound indicates the referenced design does not exist in the catalog.
var ErrCartDesignNotFound = errors.New("cart service: design not found")

// CartServiceDeps wires the storage, catalog, and pricing dependencies for cart operations.
type CartServiceDeps struct {
	Repository repositories.CartRepository
	Catalog    repositories.CatalogRepository
	Prices     *domain.PriceBook
	Clock      func() time.Time
	Logger     func(context.Context, string, map[string]any)
}

type cartService struct {
	repo    repositories.CartRepository
	catalog repositories.CatalogRepository
	prices  *domain.PriceBook
	now     func() time.Time
	logger  func(context.Context, string, map[string]any)
}

// NewCartService constructs a CartService enforcing dependency validation.
func NewCartService(deps CartServiceDeps) (CartService, error) {
	if deps.Repository == nil {
		return nil, errCartRepositoryRequired
	}
	if deps.Catalog == nil {
		return nil, errCartCatalogRequired
	}
	if deps.Prices == nil {
		return nil, errCartPriceBookRequired
	}
	if deps.Clock == nil {
		return nil, errCartClockRequired
	}

	logger := deps.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}

	return &cartService{
		repo:    deps.Repository,
		catalog: deps.Catalog,
		prices:  deps.Prices,
		now:     func() time.Time { return deps.Clock().UTC() },
		logger:  logger,
	}, nil
}

// GetCart returns the session's cart in presentation order. A session without
// a stored cart gets an empty view rather than an error.
func (s *cartService) GetCart(ctx context.Context, sessionID string) (CartView, error) {
	sid := strings.TrimSpace(sessionID)
	if sid == "" {
		return CartView{}, ErrCartInvalidInput
	}

	cart, err := s.repo.GetCart(ctx, sid)
	if err != nil {
		if isRepoNotFound(err) {
			return CartView{SessionID: sid}, nil
		}
		return CartView{}, s.translateRepoError(err)
	}
	return s.view(cart), nil
}

// UpsertItem normalizes the raw quantity to a tier and inserts or replaces the
// line for the design. A quantity that normalizes to zero removes the line.
// The wholesale price is re-derived from the price book on every call.
func (s *cartService) UpsertItem(ctx context.Context, cmd UpsertLineCommand) (CartView, error) {
	sid := strings.TrimSpace(cmd.SessionID)
	designID := strings.TrimSpace(cmd.DesignID)
	if sid == "" || designID == "" {
		return CartView{}, ErrCartInvalidInput
	}

	// A zero-tier quantity is a removal, which needs no catalog coordinates.
	tier := domain.NormalizeQuantity(cmd.Quantity)
	if tier == domain.TierNone {
		return s.RemoveItem(ctx, sid, designID)
	}

	state := strings.TrimSpace(cmd.State)
	school := strings.TrimSpace(cmd.School)
	if state == "" || school == "" {
		return CartView{}, ErrCartInvalidInput
	}

	design, err := s.catalog.FindDesign(ctx, state, school, designID)
	if err != nil {
		if isRepoNotFound(err) {
			return CartView{}, ErrCartDesignNotFound
		}
		return CartView{}, s.translateRepoError(err)
	}

	// An unpriced style/tier combination yields the zero sentinel and the
	// line is still stored.
	unitPrice, priced := s.prices.UnitPrice(design.Style, tier)

	line := domain.LineItem{
		DesignID:           design.ID,
		DesignName:         design.Name,
		State:              state,
		School:             school,
		Style:              design.Style,
		Quantity:           tier,
		WholesaleUnitPrice: unitPrice,
		MSRP:               design.MSRP,
	}

	items, err := s.currentItems(ctx, sid)
	if err != nil {
		return CartView{}, s.translateRepoError(err)
	}
	if idx := domain.IndexOfLine(items, designID); idx >= 0 {
		items[idx] = line
	} else {
		items = append(items, line)
	}

	cart, err := s.repo.ReplaceItems(ctx, sid, items)
	if err != nil {
		return CartView{}, s.translateRepoError(err)
	}

	s.logger(ctx, "cart.item_upserted", map[string]any{
		"session_id": sid,
		"design_id":  designID,
		"quantity":   int(tier),
		"priced":     priced,
	})
	return s.view(cart), nil
}

// RemoveItem deletes the line for the design. Removing an absent line is a no-op.
func (s *cartService) RemoveItem(ctx context.Context, sessionID string, designID string) (CartView, error) {
	sid := strings.TrimSpace(sessionID)
	did := strings.TrimSpace(designID)
	if sid == "" || did == "" {
		return CartView{}, ErrCartInvalidInput
	}

	cart, err := s.repo.GetCart(ctx, sid)
	if err != nil {
		if isRepoNotFound(err) {
			return CartView{SessionID: sid}, nil
		}
		return CartView{}, s.translateRepoError(err)
	}

	idx := domain.IndexOfLine(cart.Items, did)
	if idx < 0 {
		return s.view(cart), nil
	}

	items := append(append([]domain.LineItem{}, cart.Items[:idx]...), cart.Items[idx+1:]...)
	updated, err := s.repo.ReplaceItems(ctx, sid, items)
	if err != nil {
		return CartView{}, s.translateRepoError(err)
	}

	s.logger(ctx, "cart.item_removed", map[string]any{
		"session_id": sid,
		"design_id":  did,
	})
	return s.view(updated), nil
}

// ClearCart empties the session's cart. Clearing an absent cart is a no-op.
func (s *cartService) ClearCart(ctx context.Context, sessionID string) error {
	sid := strings.TrimSpace(sessionID)
	if sid == "" {
		return ErrCartInvalidInput
	}
	if err := s.repo.DeleteCart(ctx, sid); err != nil {
		return s.translateRepoError(err)
	}
	s.logger(ctx, "cart.cleared", map[string]any{"session_id": sid})
	return nil
}

// currentItems loads the session's stored lines. A missing cart is empty;
// any other repository failure propagates so stored lines are never dropped.
func (s *cartService) currentItems(ctx context.Context, sessionID string) ([]domain.LineItem, error) {
	cart, err := s.repo.GetCart(ctx, sessionID)
	if err != nil {
		if isRepoNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return cart.Items, nil
}

func (s *cartService) view(cart domain.Cart) CartView {
	lines := domain.SortLines(cart.Items)
	return CartView{
		SessionID: cart.SessionID,
		Lines:     lines,
		Totals:    domain.Totals(lines),
		UpdatedAt: cart.UpdatedAt,
	}
}

func (s *cartService) translateRepoError(err error) error {
	if err == nil {
		return nil
	}
	return ErrCartUnavailable
}

func isRepoNotFound(err error) bool {
	var repoErr repositories.RepositoryError
	return errors.As(err, &repoErr) && repoErr.IsNotFound()
}
