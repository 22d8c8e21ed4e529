package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Design describes one orderable artwork offered for a school. Designs are
// owned by the catalog snapshot and never mutated after load.
type Design struct {
	ID    string
	Name  string
	Style string
	// Wholesale is the legacy per-design price carried by the catalog feed.
	// It is superseded by the PriceBook and kept only for the submission wire format.
	Wholesale decimal.Decimal
	MSRP      decimal.Decimal
}

// LineItem is one cart entry: a single design at a single quantity tier.
// State, school, style and MSRP are snapshotted at upsert time.
type LineItem struct {
	DesignID           string
	DesignName         string
	State              string
	School             string
	Style              string
	Quantity           QuantityTier
	WholesaleUnitPrice decimal.Decimal
	MSRP               decimal.Decimal
}

// Cart holds the line items for one session. Items keep insertion order;
// at most one item exists per design id and every stored item has a
// positive quantity.
type Cart struct {
	SessionID string
	Items     []LineItem
	UpdatedAt time.Time
}

// CartTotals aggregates the current cart contents. Always derived, never stored.
type CartTotals struct {
	TotalWholesale decimal.Decimal
	TotalMSRP      decimal.Decimal
	LineCount      int
	TotalQuantity  int
}

// SubmissionMeta carries the free-text fields the buyer attaches to an order.
type SubmissionMeta struct {
	Company string
	Name    string
	Email   string
	Notes   string
	State   string
}
