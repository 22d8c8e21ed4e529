package repositories

import (
	"context"

	domain "github.com/spiritmart/api/internal/domain"
)

// RepositoryError categorises low-level storage failures for service-level
// translation via errors.As.
type RepositoryError interface {
	error
	IsNotFound() bool
	IsConflict() bool
	IsUnavailable() bool
}

// CatalogRepository is the read-only three-level catalog lookup:
// state → school → ordered designs. The snapshot is loaded once before any
// cart operation and never mutated afterwards. Key listings come back in
// locale-collated ascending order; designs keep catalog order.
type CatalogRepository interface {
	States(ctx context.Context) ([]string, error)
	Schools(ctx context.Context, state string) ([]string, error)
	Designs(ctx context.Context, state string, school string) ([]domain.Design, error)
	FindDesign(ctx context.Context, state string, school string, designID string) (domain.Design, error)
}

// CartRepository owns per-session cart state. Carts live in process memory
// only; there is no multi-session persistence.
type CartRepository interface {
	GetCart(ctx context.Context, sessionID string) (domain.Cart, error)
	ReplaceItems(ctx context.Context, sessionID string, items []domain.LineItem) (domain.Cart, error)
	DeleteCart(ctx context.Context, sessionID string) error
}
