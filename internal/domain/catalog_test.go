package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestTotalPrice(t *testing.T) {
	t.Parallel()

	standard, ok := OfferingByID(OfferingStandard)
	if !ok {
		t.Fatalf("standard offering missing from catalog")
	}
	instant, ok := OfferingByID(OfferingInstant)
	if !ok {
		t.Fatalf("instant offering missing from catalog")
	}

	tests := []struct {
		name     string
		offering Offering
		sel      AddOnSelection
		expected string
	}{
		{
			name:     "standard base price only",
			offering: standard,
			sel:      AddOnSelection{},
			expected: "6.00",
		},
		{
			name:     "revoke protection is free",
			offering: standard,
			sel:      AddOnSelection{RevokeProtection: true},
			expected: "6.00",
		},
		{
			name:     "standard with custom entitlements and priority support",
			offering: standard,
			sel:      AddOnSelection{CustomEntitlements: true, PrioritySupport: true},
			expected: "10.00",
		},
		{
			name:     "standard with extended validity is charged",
			offering: standard,
			sel:      AddOnSelection{ExtendedValidity: true},
			expected: "8.00",
		},
		{
			name:     "instant includes extended validity",
			offering: instant,
			sel:      AddOnSelection{ExtendedValidity: true},
			expected: "14.00",
		},
		{
			name:     "instant with priority support",
			offering: instant,
			sel:      AddOnSelection{ExtendedValidity: true, PrioritySupport: true},
			expected: "16.00",
		},
		{
			name:     "everything on standard",
			offering: standard,
			sel: AddOnSelection{
				RevokeProtection:   true,
				CustomEntitlements: true,
				ExtendedValidity:   true,
				PrioritySupport:    true,
			},
			expected: "12.00",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := TotalPrice(tt.offering, tt.sel)
			want := decimal.RequireFromString(tt.expected)
			if !got.Equal(want) {
				t.Fatalf("expected total %s, got %s", want, got)
			}
		})
	}
}

func TestOfferingByID_Unknown(t *testing.T) {
	t.Parallel()

	if _, ok := OfferingByID("premium"); ok {
		t.Fatalf("expected lookup of unknown offering to fail")
	}
}

func TestAddOns_CatalogShape(t *testing.T) {
	t.Parallel()

	addOns := AddOns()
	if len(addOns) != 4 {
		t.Fatalf("expected 4 add-ons, got %d", len(addOns))
	}
	for _, addOn := range addOns {
		if addOn.Price.IsNegative() {
			t.Fatalf("add-on %s has negative price %s", addOn.ID, addOn.Price)
		}
		if addOn.DefaultOn && !addOn.Price.IsZero() {
			t.Fatalf("default-on add-on %s must be free, priced %s", addOn.ID, addOn.Price)
		}
	}
}

func TestKnownEntitlement(t *testing.T) {
	t.Parallel()

	if !KnownEntitlement("com.apple.developer.healthkit") {
		t.Fatalf("expected healthkit entitlement in catalog")
	}
	if KnownEntitlement("com.example.not-a-real-entitlement") {
		t.Fatalf("expected unknown entitlement to be rejected")
	}
	if len(Entitlements()) == 0 {
		t.Fatalf("expected non-empty entitlement catalog")
	}
}
