package domain

import (
	"math"
	"testing"
)

func TestNormalizeQuantitySnapsToTier(t *testing.T) {
	cases := []struct {
		name string
		raw  float64
		want QuantityTier
	}{
		{"zero", 0, TierNone},
		{"negative", -40, TierNone},
		{"below first tier", 24, TierNone},
		{"exact tier", 25, 25},
		{"fraction floors", 50.9, 50},
		{"off tier snaps down", 30, 25},
		{"between high tiers", 199, 150},
		{"top tier", 250, 250},
		{"above top tier caps", 10000, 250},
		{"huge value caps", 1e19, 250},
		{"beyond int range caps", 1e300, 250},
		{"nan", math.NaN(), TierNone},
		{"positive infinity", math.Inf(1), TierNone},
		{"negative infinity", math.Inf(-1), TierNone},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NormalizeQuantity(tc.raw)
			if got != tc.want {
				t.Fatalf("NormalizeQuantity(%v) = %d, want %d", tc.raw, got, tc.want)
			}
		})
	}
}

func TestQuantityTierValid(t *testing.T) {
	for _, tier := range Tiers() {
		if !tier.Valid() {
			t.Fatalf("expected tier %d to be valid", tier)
		}
	}
	if !TierNone.Valid() {
		t.Fatalf("expected TierNone to be valid")
	}
	for _, tier := range []QuantityTier{-1, 1, 30, 99, 251} {
		if tier.Valid() {
			t.Fatalf("expected tier %d to be invalid", tier)
		}
	}
}
