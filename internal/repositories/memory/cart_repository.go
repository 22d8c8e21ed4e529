package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	domain "github.com/spiritmart/api/internal/domain"
	"github.com/spiritmart/api/internal/repositories"
)

// CartRepository keeps each session's cart in process memory. Per-cart
// operations are serialised by the store lock; a cart exists from the first
// ReplaceItems until DeleteCart or process exit.
type CartRepository struct {
	mu    sync.Mutex
	carts map[string]domain.Cart
	now   func() time.Time
}

// NewCartRepository constructs an empty in-memory cart store.
func NewCartRepository(clock func() time.Time) *CartRepository {
	if clock == nil {
		clock = time.Now
	}
	return &CartRepository{
		carts: make(map[string]domain.Cart),
		now:   func() time.Time { return clock().UTC() },
	}
}

// GetCart returns a copy of the session's cart, or a not-found error.
func (r *CartRepository) GetCart(ctx context.Context, sessionID string) (domain.Cart, error) {
	sid := strings.TrimSpace(sessionID)
	if sid == "" {
		return domain.Cart{}, repositories.NewError("cart.GetCart", repositories.KindNotFound, "session id is empty", nil)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	cart, ok := r.carts[sid]
	if !ok {
		return domain.Cart{}, repositories.NewError("cart.GetCart", repositories.KindNotFound, "cart not found", nil)
	}
	return cloneCart(cart), nil
}

// ReplaceItems swaps the session's line items wholesale, creating the cart
// when absent. The stored slice is a private copy.
func (r *CartRepository) ReplaceItems(ctx context.Context, sessionID string, items []domain.LineItem) (domain.Cart, error) {
	sid := strings.TrimSpace(sessionID)
	if sid == "" {
		return domain.Cart{}, repositories.NewError("cart.ReplaceItems", repositories.KindNotFound, "session id is empty", nil)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	cart := domain.Cart{
		SessionID: sid,
		Items:     cloneItems(items),
		UpdatedAt: r.now(),
	}
	r.carts[sid] = cart
	return cloneCart(cart), nil
}

// DeleteCart removes the session's cart; no-op when absent.
func (r *CartRepository) DeleteCart(ctx context.Context, sessionID string) error {
	sid := strings.TrimSpace(sessionID)
	if sid == "" {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.carts, sid)
	return nil
}

func cloneCart(cart domain.Cart) domain.Cart {
	cart.Items = cloneItems(cart.Items)
	return cart
}

func cloneItems(items []domain.LineItem) []domain.LineItem {
	out := make([]domain.LineItem, len(items))
	copy(out, items)
	return out
}
