package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/cimillas/cert-checkout/internal/domain"
)

// CatalogProvider is the minimal interface needed to serve the catalog.
type CatalogProvider interface {
	Offerings() []domain.Offering
	AddOns() []domain.AddOn
	Entitlements() []string
}

// HandleCatalog returns an HTTP handler that lists the certificate
// offerings, add-on options, and selectable entitlements.
func HandleCatalog(svc CatalogProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		offerings := svc.Offerings()
		certificates := make([]certificateResponse, 0, len(offerings))
		for _, off := range offerings {
			waiting := "Instant"
			if off.Delivery == domain.DeliveryDelayed {
				waiting = formatWait(off)
			}
			certificates = append(certificates, certificateResponse{
				ID:            string(off.ID),
				Name:          off.Name,
				Price:         off.BasePrice.StringFixed(2),
				WaitingPeriod: waiting,
				Validity:      string(off.Validity),
			})
		}

		addOns := svc.AddOns()
		options := make([]optionResponse, 0, len(addOns))
		for _, addOn := range addOns {
			options = append(options, optionResponse{
				ID:        string(addOn.ID),
				Name:      addOn.Name,
				Price:     addOn.Price.StringFixed(2),
				DefaultOn: addOn.DefaultOn,
			})
		}

		resp := catalogResponse{
			Certificates: certificates,
			Options:      options,
			Entitlements: svc.Entitlements(),
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func formatWait(off domain.Offering) string {
	hours := int(off.DeliveryWait.Hours())
	if hours <= 0 {
		return "Instant"
	}
	return strconv.Itoa(hours) + " hours"
}

type catalogResponse struct {
	Certificates []certificateResponse `json:"certificates"`
	Options      []optionResponse      `json:"options"`
	Entitlements []string              `json:"entitlements"`
}

type certificateResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Price         string `json:"price"`
	WaitingPeriod string `json:"waitingPeriod"`
	Validity      string `json:"validity"`
}

type optionResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Price     string `json:"price"`
	DefaultOn bool   `json:"defaultOn"`
}
