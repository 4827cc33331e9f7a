package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type DraftStatus string

const (
	DraftSelecting    DraftStatus = "selecting"
	DraftCustomizing  DraftStatus = "customizing"
	DraftReviewReady  DraftStatus = "review_ready"
	DraftSubmitting   DraftStatus = "submitting"
	DraftSubmitted    DraftStatus = "submitted"
	DraftSubmitFailed DraftStatus = "submit_failed"
)

// Draft walks one order through the checkout steps. The order id and
// total are fixed when the draft becomes review-ready; a failed submit
// goes back to review-ready so the same draft (and the same order id)
// can be resubmitted. Submitted is the only terminal state.
type Draft struct {
	Offering     Offering
	Options      AddOnSelection
	Entitlements []string
	OrderID      string
	Total        decimal.Decimal
	Status       DraftStatus
}

func NewDraft() *Draft {
	return &Draft{Status: DraftSelecting}
}

// Select fixes the offering and moves the draft to customizing.
func (d *Draft) Select(off Offering) error {
	if d.Status != DraftSelecting {
		return ErrDraftTransition
	}
	d.Offering = off
	d.Status = DraftCustomizing
	return nil
}

// Customize records the add-on selection and entitlements, computes the
// total, generates the order id, and moves the draft to review-ready.
func (d *Draft) Customize(now time.Time, opts AddOnSelection, entitlements []string) error {
	if d.Status != DraftCustomizing {
		return ErrDraftTransition
	}
	d.Options = opts
	d.Entitlements = entitlements
	d.Total = TotalPrice(d.Offering, opts)
	d.OrderID = NewOrderID(now)
	d.Status = DraftReviewReady
	return nil
}

// AdoptOrderID replaces the generated order id with one carried over
// from an earlier attempt at the same draft.
func (d *Draft) AdoptOrderID(id string) error {
	if d.Status != DraftReviewReady {
		return ErrDraftTransition
	}
	if !ValidOrderID(id) {
		return ErrDraftTransition
	}
	d.OrderID = id
	return nil
}

// BeginSubmit moves a review-ready (or previously failed) draft into
// the submitting state.
func (d *Draft) BeginSubmit() error {
	if d.Status != DraftReviewReady && d.Status != DraftSubmitFailed {
		return ErrDraftTransition
	}
	d.Status = DraftSubmitting
	return nil
}

// CompleteSubmit marks the draft submitted.
func (d *Draft) CompleteSubmit() error {
	if d.Status != DraftSubmitting {
		return ErrDraftTransition
	}
	d.Status = DraftSubmitted
	return nil
}

// FailSubmit records a failed submission attempt. The order id is kept
// so a retry stores under the same identifier.
func (d *Draft) FailSubmit() error {
	if d.Status != DraftSubmitting {
		return ErrDraftTransition
	}
	d.Status = DraftSubmitFailed
	return nil
}

// Record builds the persisted document for this draft at the given
// submission time.
func (d *Draft) Record(now time.Time, card PaymentCard, validity string) OrderRecord {
	entitlements := d.Entitlements
	if entitlements == nil {
		entitlements = []string{}
	}
	if validity == "" {
		validity = string(d.Offering.Validity)
	}
	return OrderRecord{
		OrderID:              d.OrderID,
		Timestamp:            now,
		CertificateType:      d.Offering.ID,
		CustomOptions:        d.Options,
		SelectedEntitlements: entitlements,
		Price:                d.Total,
		Validity:             validity,
		PaymentInfo:          card.Normalized(),
	}
}
