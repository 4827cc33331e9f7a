package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OfferingID string

const (
	OfferingStandard OfferingID = "standard"
	OfferingInstant  OfferingID = "instant"
)

type DeliveryClass string

const (
	DeliveryDelayed   DeliveryClass = "delayed"
	DeliveryImmediate DeliveryClass = "immediate"
)

type ValidityClass string

const (
	ValidityFixedTerm  ValidityClass = "fixed-term"
	ValidityIndefinite ValidityClass = "indefinite"
)

// Offering is a purchasable certificate tier. The catalog is static and
// defined at process start; offerings are never mutated.
type Offering struct {
	ID           OfferingID
	Name         string
	BasePrice    decimal.Decimal
	Delivery     DeliveryClass
	DeliveryWait time.Duration
	Validity     ValidityClass
}

type AddOnID string

const (
	AddOnRevokeProtection   AddOnID = "revokeProtection"
	AddOnCustomEntitlements AddOnID = "customEntitlements"
	AddOnExtendedValidity   AddOnID = "extendedValidity"
	AddOnPrioritySupport    AddOnID = "prioritySupport"
)

// AddOn is an optional feature toggle applied to an offering.
type AddOn struct {
	ID    AddOnID
	Name  string
	Price decimal.Decimal
	// DefaultOn marks add-ons that ship enabled (and free) on every order.
	DefaultOn bool
}

var offerings = []Offering{
	{
		ID:           OfferingStandard,
		Name:         "Standard Certificate",
		BasePrice:    decimal.RequireFromString("6.00"),
		Delivery:     DeliveryDelayed,
		DeliveryWait: 72 * time.Hour,
		Validity:     ValidityFixedTerm,
	},
	{
		ID:           OfferingInstant,
		Name:         "Instant Certificate",
		BasePrice:    decimal.RequireFromString("14.00"),
		Delivery:     DeliveryImmediate,
		DeliveryWait: 0,
		Validity:     ValidityIndefinite,
	},
}

var addOns = []AddOn{
	{ID: AddOnRevokeProtection, Name: "Revoke Protection", Price: decimal.Zero, DefaultOn: true},
	{ID: AddOnCustomEntitlements, Name: "Custom Entitlements", Price: decimal.RequireFromString("2.00")},
	{ID: AddOnExtendedValidity, Name: "Extended Validity Period", Price: decimal.RequireFromString("2.00")},
	{ID: AddOnPrioritySupport, Name: "Priority Support", Price: decimal.RequireFromString("2.00")},
}

// Offerings returns the static offering catalog.
func Offerings() []Offering {
	out := make([]Offering, len(offerings))
	copy(out, offerings)
	return out
}

// OfferingByID looks up an offering in the catalog.
func OfferingByID(id OfferingID) (Offering, bool) {
	for _, off := range offerings {
		if off.ID == id {
			return off, true
		}
	}
	return Offering{}, false
}

// AddOns returns the static add-on catalog.
func AddOns() []AddOn {
	out := make([]AddOn, len(addOns))
	copy(out, addOns)
	return out
}

// AddOnSelection holds the customer's add-on toggles for one order.
type AddOnSelection struct {
	RevokeProtection   bool `json:"revokeProtection"`
	CustomEntitlements bool `json:"customEntitlements"`
	ExtendedValidity   bool `json:"extendedValidity"`
	PrioritySupport    bool `json:"prioritySupport"`
}

// Enabled reports whether the given add-on is selected.
func (s AddOnSelection) Enabled(id AddOnID) bool {
	switch id {
	case AddOnRevokeProtection:
		return s.RevokeProtection
	case AddOnCustomEntitlements:
		return s.CustomEntitlements
	case AddOnExtendedValidity:
		return s.ExtendedValidity
	case AddOnPrioritySupport:
		return s.PrioritySupport
	default:
		return false
	}
}

// TotalPrice computes the order total for an offering and a selection:
// base price plus every selected, separately priced add-on. Extended
// validity is skipped for indefinite-validity offerings, which already
// include it.
func TotalPrice(off Offering, sel AddOnSelection) decimal.Decimal {
	total := off.BasePrice
	for _, addOn := range addOns {
		if !sel.Enabled(addOn.ID) || !addOn.Price.IsPositive() {
			continue
		}
		if addOn.ID == AddOnExtendedValidity && off.Validity == ValidityIndefinite {
			continue
		}
		total = total.Add(addOn.Price)
	}
	return total
}
