package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cimillas/cert-checkout/internal/clock"
	"github.com/cimillas/cert-checkout/internal/domain"
	"github.com/shopspring/decimal"
)

func TestCheckoutService_SubmitOrder(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)

	validCard := domain.PaymentCard{
		CardNumber: "4111 1111 1111 1111",
		CardHolder: "John Doe",
		ExpiryDate: "01/30",
		CVV:        "123",
	}

	t.Run("stores record with computed total", func(t *testing.T) {
		t.Parallel()
		store := newFakeStore()
		svc := NewCheckoutService(store, clock.NewFixed(now))

		res, err := svc.SubmitOrder(context.Background(), SubmitOrderInput{
			Card:            validCard,
			CertificateType: domain.OfferingStandard,
			Options:         domain.AddOnSelection{CustomEntitlements: true, PrioritySupport: true},
			Entitlements:    []string{"com.apple.developer.healthkit"},
			Price:           decimal.RequireFromString("10.00"),
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if res.OrderID == "" {
			t.Fatalf("expected order id in result")
		}
		if res.StoredPath == "" {
			t.Fatalf("expected stored path in result")
		}
		if len(store.records) != 1 {
			t.Fatalf("expected one stored record, got %d", len(store.records))
		}

		rec := store.records[0]
		if !rec.Price.Equal(decimal.RequireFromString("10.00")) {
			t.Fatalf("expected recorded price 10.00, got %s", rec.Price)
		}
		if rec.OrderID != res.OrderID {
			t.Fatalf("record order id %q does not match result %q", rec.OrderID, res.OrderID)
		}
		if rec.Timestamp != now {
			t.Fatalf("expected record timestamp %v, got %v", now, rec.Timestamp)
		}
		if rec.PaymentInfo.CardNumber != "4111 1111 1111 1111" {
			t.Fatalf("expected normalized card number, got %q", rec.PaymentInfo.CardNumber)
		}
	})

	t.Run("empty options records base price", func(t *testing.T) {
		t.Parallel()
		store := newFakeStore()
		svc := NewCheckoutService(store, clock.NewFixed(now))

		res, err := svc.SubmitOrder(context.Background(), SubmitOrderInput{
			Card:            validCard,
			CertificateType: domain.OfferingStandard,
			Price:           decimal.RequireFromString("6.00"),
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		rec := store.records[0]
		if !rec.Price.Equal(decimal.RequireFromString("6.00")) {
			t.Fatalf("expected base price 6.00, got %s", rec.Price)
		}
		if rec.SelectedEntitlements == nil || len(rec.SelectedEntitlements) != 0 {
			t.Fatalf("expected empty entitlement list, got %v", rec.SelectedEntitlements)
		}
		if res.OrderID == "" {
			t.Fatalf("expected generated order id")
		}
	})

	t.Run("reuses client order id on retry", func(t *testing.T) {
		t.Parallel()
		store := newFakeStore()
		svc := NewCheckoutService(store, clock.NewFixed(now))

		orderID := domain.NewOrderID(now.Add(-time.Minute))
		res, err := svc.SubmitOrder(context.Background(), SubmitOrderInput{
			Card:            validCard,
			CertificateType: domain.OfferingInstant,
			Options:         domain.AddOnSelection{ExtendedValidity: true},
			OrderID:         orderID,
			Price:           decimal.RequireFromString("14.00"),
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if res.OrderID != orderID {
			t.Fatalf("expected order id %q reused, got %q", orderID, res.OrderID)
		}
	})

	t.Run("unknown certificate type", func(t *testing.T) {
		t.Parallel()
		svc := NewCheckoutService(newFakeStore(), clock.NewFixed(now))

		_, err := svc.SubmitOrder(context.Background(), SubmitOrderInput{
			Card:            validCard,
			CertificateType: "premium",
			Price:           decimal.RequireFromString("6.00"),
		})
		if !errors.Is(err, domain.ErrUnknownOffering) {
			t.Fatalf("expected ErrUnknownOffering, got %v", err)
		}
	})

	t.Run("unknown entitlement", func(t *testing.T) {
		t.Parallel()
		svc := NewCheckoutService(newFakeStore(), clock.NewFixed(now))

		_, err := svc.SubmitOrder(context.Background(), SubmitOrderInput{
			Card:            validCard,
			CertificateType: domain.OfferingStandard,
			Entitlements:    []string{"com.example.bogus"},
			Price:           decimal.RequireFromString("6.00"),
		})
		if !errors.Is(err, domain.ErrUnknownEntitlement) {
			t.Fatalf("expected ErrUnknownEntitlement, got %v", err)
		}
	})

	t.Run("price mismatch", func(t *testing.T) {
		t.Parallel()
		svc := NewCheckoutService(newFakeStore(), clock.NewFixed(now))

		_, err := svc.SubmitOrder(context.Background(), SubmitOrderInput{
			Card:            validCard,
			CertificateType: domain.OfferingStandard,
			Price:           decimal.RequireFromString("5.00"),
		})
		if !errors.Is(err, domain.ErrPriceMismatch) {
			t.Fatalf("expected ErrPriceMismatch, got %v", err)
		}
	})

	t.Run("invalid card returns field errors", func(t *testing.T) {
		t.Parallel()
		store := newFakeStore()
		svc := NewCheckoutService(store, clock.NewFixed(now))

		card := validCard
		card.ExpiryDate = "01/20"
		card.CVV = "12"

		_, err := svc.SubmitOrder(context.Background(), SubmitOrderInput{
			Card:            card,
			CertificateType: domain.OfferingStandard,
			Price:           decimal.RequireFromString("6.00"),
		})

		var fieldErrs domain.FieldErrors
		if !errors.As(err, &fieldErrs) {
			t.Fatalf("expected FieldErrors, got %v", err)
		}
		if fieldErrs[domain.FieldExpiryDate] != domain.ErrCardExpired {
			t.Fatalf("expected expired card error, got %v", fieldErrs[domain.FieldExpiryDate])
		}
		if fieldErrs[domain.FieldCVV] != domain.ErrInvalidSecurityCode {
			t.Fatalf("expected security code error, got %v", fieldErrs[domain.FieldCVV])
		}
		if len(store.records) != 0 {
			t.Fatalf("expected nothing stored for invalid card")
		}
	})

	t.Run("folder ensure failure surfaces", func(t *testing.T) {
		t.Parallel()
		store := newFakeStore()
		store.ensureErr = domain.ErrFolderEnsure
		svc := NewCheckoutService(store, clock.NewFixed(now))

		_, err := svc.SubmitOrder(context.Background(), SubmitOrderInput{
			Card:            validCard,
			CertificateType: domain.OfferingStandard,
			Price:           decimal.RequireFromString("6.00"),
		})
		if !errors.Is(err, domain.ErrFolderEnsure) {
			t.Fatalf("expected ErrFolderEnsure, got %v", err)
		}
	})

	t.Run("storage write failure surfaces", func(t *testing.T) {
		t.Parallel()
		store := newFakeStore()
		store.saveErr = domain.ErrStorageWrite
		svc := NewCheckoutService(store, clock.NewFixed(now))

		_, err := svc.SubmitOrder(context.Background(), SubmitOrderInput{
			Card:            validCard,
			CertificateType: domain.OfferingStandard,
			Price:           decimal.RequireFromString("6.00"),
		})
		if !errors.Is(err, domain.ErrStorageWrite) {
			t.Fatalf("expected ErrStorageWrite, got %v", err)
		}
	})
}

type fakeStore struct {
	records   []domain.OrderRecord
	ensureErr error
	saveErr   error
}

func newFakeStore() *fakeStore {
	return &fakeStore{}
}

func (f *fakeStore) EnsureFolder(_ context.Context) error {
	return f.ensureErr
}

func (f *fakeStore) SaveOrder(_ context.Context, record domain.OrderRecord) (string, error) {
	if f.saveErr != nil {
		return "", f.saveErr
	}
	f.records = append(f.records, record)
	return "/orders/" + record.OrderID + ".json", nil
}
