package domain

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortLines returns a copy of items ordered by (state, school, design name)
// ascending under locale-aware collation. The sort is stable, so lines that
// compare equal on the full key keep their insertion order. Summary views
// must reproduce this ordering exactly.
func SortLines(items []LineItem) []LineItem {
	out := make([]LineItem, len(items))
	copy(out, items)
	if len(out) < 2 {
		return out
	}

	c := collate.New(language.AmericanEnglish)
	sort.SliceStable(out, func(i, j int) bool {
		if cmp := c.CompareString(out[i].State, out[j].State); cmp != 0 {
			return cmp < 0
		}
		if cmp := c.CompareString(out[i].School, out[j].School); cmp != 0 {
			return cmp < 0
		}
		return c.CompareString(out[i].DesignName, out[j].DesignName) < 0
	})
	return out
}

// Totals recomputes cart aggregates from scratch on every call so callers
// never observe values stale relative to the last mutation.
func Totals(items []LineItem) CartTotals {
	totals := CartTotals{
		TotalWholesale: decimal.Zero,
		TotalMSRP:      decimal.Zero,
	}
	for _, item := range items {
		if item.Quantity <= TierNone {
			continue
		}
		qty := decimal.NewFromInt(int64(item.Quantity))
		totals.TotalWholesale = totals.TotalWholesale.Add(item.WholesaleUnitPrice.Mul(qty))
		totals.TotalMSRP = totals.TotalMSRP.Add(item.MSRP.Mul(qty))
		totals.LineCount++
		totals.TotalQuantity += int(item.Quantity)
	}
	return totals
}

// IndexOfLine locates the line for designID, or -1 when absent.
func IndexOfLine(items []LineItem, designID string) int {
	target := strings.TrimSpace(designID)
	if target == "" {
		return -1
	}
	for i, item := range items {
		if item.DesignID == target {
			return i
		}
	}
	return -1
}
