package domain

import "math"

// QuantityTier is one of the fixed order quantities the wholesale program
// accepts. TierNone (zero) is the sentinel for "not in cart".
type QuantityTier int

// TierNone marks a design as absent from the cart; upserting it removes the line.
const TierNone QuantityTier = 0

var orderTiers = [...]QuantityTier{25, 50, 72, 100, 150, 200, 250}

// Tiers returns the ascending set of orderable quantities, excluding TierNone.
func Tiers() []QuantityTier {
	out := make([]QuantityTier, len(orderTiers))
	copy(out, orderTiers[:])
	return out
}

// Valid reports whether t is TierNone or a member of the tier set.
func (t QuantityTier) Valid() bool {
	if t == TierNone {
		return true
	}
	for _, tier := range orderTiers {
		if t == tier {
			return true
		}
	}
	return false
}

// NormalizeQuantity converts a raw numeric quantity into a tier. Non-finite
// and negative inputs collapse to TierNone, fractions are floored, and the
// result snaps down to the largest tier not exceeding the value (values above
// the top tier cap there). Off-tier input is clamped rather than rejected.
func NormalizeQuantity(raw float64) QuantityTier {
	if math.IsNaN(raw) || math.IsInf(raw, 0) || raw <= 0 {
		return TierNone
	}
	top := orderTiers[len(orderTiers)-1]
	// Clamp before converting: float64 values past the int range would wrap.
	if raw >= float64(top) {
		return top
	}
	qty := QuantityTier(math.Floor(raw))

	snapped := TierNone
	for _, tier := range orderTiers {
		if qty < tier {
			break
		}
		snapped = tier
	}
	return snapped
}
