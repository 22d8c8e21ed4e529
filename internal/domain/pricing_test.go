package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func testPriceBook(t *testing.T) PriceBook {
	t.Helper()
	return NewPriceBook(map[string]map[QuantityTier]decimal.Decimal{
		"S1": {
			25: decimal.RequireFromString("18.50"),
			50: decimal.RequireFromString("15.75"),
		},
	})
}

func TestPriceBookUnitPriceIgnoresCaseAndWhitespace(t *testing.T) {
	book := testPriceBook(t)
	want := decimal.RequireFromString("15.75")

	for _, style := range []string{"s1", "S1", " S1 ", "\ts1\n"} {
		price, ok := book.UnitPrice(style, 50)
		if !ok {
			t.Fatalf("expected price for style %q", style)
		}
		if !price.Equal(want) {
			t.Fatalf("UnitPrice(%q, 50) = %s, want %s", style, price, want)
		}
	}
}

func TestPriceBookUnknownStyleIsZeroSentinel(t *testing.T) {
	book := testPriceBook(t)

	price, ok := book.UnitPrice("ZZ", 50)
	if ok {
		t.Fatalf("expected no price for unknown style")
	}
	if !price.IsZero() {
		t.Fatalf("expected zero sentinel, got %s", price)
	}
}

func TestPriceBookUnknownTierIsZeroSentinel(t *testing.T) {
	book := testPriceBook(t)

	price, ok := book.UnitPrice("S1", 100)
	if ok {
		t.Fatalf("expected no price for absent tier")
	}
	if !price.IsZero() {
		t.Fatalf("expected zero sentinel, got %s", price)
	}
}

func TestPriceBookTierNoneIsAlwaysPriceless(t *testing.T) {
	book := testPriceBook(t)

	if _, ok := book.UnitPrice("S1", TierNone); ok {
		t.Fatalf("expected TierNone lookup to miss")
	}
}

func TestPriceBookEmptyStyleIsUnknown(t *testing.T) {
	book := testPriceBook(t)

	if _, ok := book.UnitPrice("", 25); ok {
		t.Fatalf("expected empty style to miss")
	}
	if _, ok := book.UnitPrice("   ", 25); ok {
		t.Fatalf("expected blank style to miss")
	}
}

func TestDefaultPriceBookCoversAllTiers(t *testing.T) {
	book := DefaultPriceBook()
	if book.Styles() == 0 {
		t.Fatalf("expected default price book to carry styles")
	}

	var last decimal.Decimal
	for i, tier := range Tiers() {
		price, ok := book.UnitPrice("g500", tier)
		if !ok {
			t.Fatalf("expected G500 price at tier %d", tier)
		}
		if i > 0 && price.GreaterThanOrEqual(last) {
			t.Fatalf("expected tier pricing to decrease, tier %d is %s after %s", tier, price, last)
		}
		last = price
	}
}
