package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cimillas/cert-checkout/internal/app"
)

func TestHandleCatalog(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/api/catalog", nil)
	rec := httptest.NewRecorder()

	HandleCatalog(app.NewCatalogService()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var resp catalogResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if len(resp.Certificates) != 2 {
		t.Fatalf("expected 2 certificates, got %d", len(resp.Certificates))
	}
	byID := make(map[string]certificateResponse, len(resp.Certificates))
	for _, cert := range resp.Certificates {
		byID[cert.ID] = cert
	}

	standard, ok := byID["standard"]
	if !ok {
		t.Fatalf("expected standard certificate in catalog")
	}
	if standard.Price != "6.00" {
		t.Fatalf("expected standard price 6.00, got %s", standard.Price)
	}
	if standard.WaitingPeriod != "72 hours" {
		t.Fatalf("expected 72 hours wait, got %s", standard.WaitingPeriod)
	}

	instant, ok := byID["instant"]
	if !ok {
		t.Fatalf("expected instant certificate in catalog")
	}
	if instant.Price != "14.00" {
		t.Fatalf("expected instant price 14.00, got %s", instant.Price)
	}
	if instant.WaitingPeriod != "Instant" {
		t.Fatalf("expected instant delivery, got %s", instant.WaitingPeriod)
	}

	if len(resp.Options) != 4 {
		t.Fatalf("expected 4 options, got %d", len(resp.Options))
	}
	if len(resp.Entitlements) == 0 {
		t.Fatalf("expected non-empty entitlement list")
	}
}

func TestHandleCatalog_MethodNotAllowed(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPost, "/api/catalog", nil)
	rec := httptest.NewRecorder()

	HandleCatalog(app.NewCatalogService()).ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status 405, got %d", rec.Code)
	}
}
