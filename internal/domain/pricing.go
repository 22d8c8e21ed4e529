package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// PriceBook maps a garment style to its wholesale unit price per quantity
// tier. Lookups are pure; absence is data, not failure.
type PriceBook struct {
	prices map[string]map[QuantityTier]decimal.Decimal
}

// NormalizeStyle trims and uppercases a style code for lookup.
func NormalizeStyle(style string) string {
	return strings.ToUpper(strings.TrimSpace(style))
}

// NewPriceBook builds a PriceBook from the supplied entries, normalizing
// style keys and dropping negative prices and invalid tiers.
func NewPriceBook(entries map[string]map[QuantityTier]decimal.Decimal) PriceBook {
	prices := make(map[string]map[QuantityTier]decimal.Decimal, len(entries))
	for style, tiers := range entries {
		key := NormalizeStyle(style)
		if key == "" || len(tiers) == 0 {
			continue
		}
		row := make(map[QuantityTier]decimal.Decimal, len(tiers))
		for tier, price := range tiers {
			if tier == TierNone || !tier.Valid() || price.IsNegative() {
				continue
			}
			row[tier] = price
		}
		if len(row) > 0 {
			prices[key] = row
		}
	}
	return PriceBook{prices: prices}
}

// UnitPrice returns the tabulated wholesale price for (style, qty). The
// second return is false when the style or tier is unknown, in which case the
// price is a zero sentinel that callers must not confuse with a free item.
// TierNone is always priceless since it represents removal.
func (b PriceBook) UnitPrice(style string, qty QuantityTier) (decimal.Decimal, bool) {
	if qty == TierNone {
		return decimal.Zero, false
	}
	row, ok := b.prices[NormalizeStyle(style)]
	if !ok {
		return decimal.Zero, false
	}
	price, ok := row[qty]
	if !ok {
		return decimal.Zero, false
	}
	return price, true
}

// Styles returns the number of styles carried by the book.
func (b PriceBook) Styles() int {
	return len(b.prices)
}

// DefaultPriceBook is the compiled-in wholesale program pricing for the blank
// garment styles the catalog currently carries.
func DefaultPriceBook() PriceBook {
	row := func(prices ...string) map[QuantityTier]decimal.Decimal {
		tiers := Tiers()
		out := make(map[QuantityTier]decimal.Decimal, len(tiers))
		for i, tier := range tiers {
			if i < len(prices) {
				out[tier] = decimal.RequireFromString(prices[i])
			}
		}
		return out
	}

	return NewPriceBook(map[string]map[QuantityTier]decimal.Decimal{
		// Heavy cotton tee.
		"G500": row("9.75", "8.95", "8.40", "7.85", "7.30", "6.90", "6.55"),
		// Long sleeve tee.
		"G240": row("12.40", "11.55", "10.90", "10.25", "9.60", "9.10", "8.70"),
		// Pullover hooded sweatshirt.
		"G185": row("21.50", "19.95", "18.80", "17.60", "16.45", "15.60", "14.90"),
		// Crewneck sweatshirt.
		"G180": row("16.80", "15.60", "14.70", "13.80", "12.95", "12.30", "11.75"),
		// Triblend tee, premium program.
		"NL6010": row("13.25", "12.30", "11.60", "10.90", "10.20", "9.65", "9.20"),
	})
}
