package services

import (
	"context"
	"time"

	domain "github.com/spiritmart/api/internal/domain"
)

// Type aliases expose domain models to the services package without reversing dependency direction.
type (
	Design         = domain.Design
	LineItem       = domain.LineItem
	CartTotals     = domain.CartTotals
	QuantityTier   = domain.QuantityTier
	SubmissionMeta = domain.SubmissionMeta
)

// CatalogService serves the read-only state → school → design hierarchy the
// storefront browses.
type CatalogService interface {
	ListStates(ctx context.Context, filter string) ([]string, error)
	ListSchools(ctx context.Context, state string, filter string) ([]string, error)
	ListDesigns(ctx context.Context, state string, school string) ([]Design, error)
	FindDesign(ctx context.Context, state string, school string, designID string) (Design, error)
}

// CartService manages per-session cart state: tier-normalized upserts,
// removals, and derived presentation views.
type CartService interface {
	GetCart(ctx context.Context, sessionID string) (CartView, error)
	UpsertItem(ctx context.Context, cmd UpsertLineCommand) (CartView, error)
	RemoveItem(ctx context.Context, sessionID string, designID string) (CartView, error)
	ClearCart(ctx context.Context, sessionID string) error
}

// OrderService turns the current cart into a submission, delivers it, and
// clears the cart on acceptance.
type OrderService interface {
	Submit(ctx context.Context, cmd SubmitOrderCommand) (OrderReceipt, error)
}

// CartView is the presentation snapshot of one cart: lines in display order
// plus totals recomputed from those lines.
type CartView struct {
	SessionID string
	Lines     []LineItem
	Totals    CartTotals
	UpdatedAt time.Time
}

// UpsertLineCommand adds or replaces one cart line. Quantity is the raw
// client value before tier normalization.
type UpsertLineCommand struct {
	SessionID string
	State     string
	School    string
	DesignID  string
	Quantity  float64
}

// SubmitOrderCommand submits the session's cart with buyer details attached.
type SubmitOrderCommand struct {
	SessionID string
	Meta      SubmissionMeta
}

// OrderReceipt reports the outcome of an accepted submission.
type OrderReceipt struct {
	AttemptID   string
	Rows        int
	SubmittedAt time.Time
}
