package app

import (
	"context"
	"fmt"

	"github.com/cimillas/cert-checkout/internal/clock"
	"github.com/cimillas/cert-checkout/internal/domain"
	"github.com/shopspring/decimal"
)

// RecordStore persists order records in the storage backend.
type RecordStore interface {
	EnsureFolder(ctx context.Context) error
	SaveOrder(ctx context.Context, record domain.OrderRecord) (string, error)
}

type CheckoutService struct {
	store RecordStore
	clock clock.Clock
}

func NewCheckoutService(store RecordStore, clk clock.Clock) *CheckoutService {
	return &CheckoutService{
		store: store,
		clock: clk,
	}
}

type SubmitOrderInput struct {
	Card            domain.PaymentCard
	CertificateType domain.OfferingID
	Options         domain.AddOnSelection
	Entitlements    []string
	OrderID         string
	Price           decimal.Decimal
	Validity        string
}

type SubmitOrderResult struct {
	OrderID    string
	StoredPath string
}

// SubmitOrder validates a submission, prices it against the catalog,
// and writes the order record. A client-supplied order id in the
// generated format is honored so retried submissions keep their
// identifier; anything else gets a fresh id.
//
// Entitlement selections are accepted even when the custom-entitlements
// add-on is off, matching the checkout UI's behavior.
func (s *CheckoutService) SubmitOrder(ctx context.Context, in SubmitOrderInput) (SubmitOrderResult, error) {
	offering, ok := domain.OfferingByID(in.CertificateType)
	if !ok {
		return SubmitOrderResult{}, domain.ErrUnknownOffering
	}

	for _, id := range in.Entitlements {
		if !domain.KnownEntitlement(id) {
			return SubmitOrderResult{}, fmt.Errorf("%w: %s", domain.ErrUnknownEntitlement, id)
		}
	}

	now := s.clock.Now()
	if errs := in.Card.Validate(now); len(errs) > 0 {
		return SubmitOrderResult{}, errs
	}

	draft := domain.NewDraft()
	if err := draft.Select(offering); err != nil {
		return SubmitOrderResult{}, err
	}
	if err := draft.Customize(now, in.Options, in.Entitlements); err != nil {
		return SubmitOrderResult{}, err
	}
	if domain.ValidOrderID(in.OrderID) {
		if err := draft.AdoptOrderID(in.OrderID); err != nil {
			return SubmitOrderResult{}, err
		}
	}

	if !in.Price.Equal(draft.Total) {
		return SubmitOrderResult{}, fmt.Errorf("%w: got %s, want %s",
			domain.ErrPriceMismatch, in.Price, draft.Total)
	}

	if err := draft.BeginSubmit(); err != nil {
		return SubmitOrderResult{}, err
	}

	record := draft.Record(now, in.Card, in.Validity)

	if err := s.store.EnsureFolder(ctx); err != nil {
		_ = draft.FailSubmit()
		return SubmitOrderResult{}, err
	}
	path, err := s.store.SaveOrder(ctx, record)
	if err != nil {
		_ = draft.FailSubmit()
		return SubmitOrderResult{}, err
	}
	if err := draft.CompleteSubmit(); err != nil {
		return SubmitOrderResult{}, err
	}

	return SubmitOrderResult{
		OrderID:    draft.OrderID,
		StoredPath: path,
	}, nil
}
