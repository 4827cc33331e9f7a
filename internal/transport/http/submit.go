package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/cimillas/cert-checkout/internal/app"
	"github.com/cimillas/cert-checkout/internal/domain"
	"github.com/shopspring/decimal"
)

// OrderSubmitter is the minimal interface needed to submit a payment.
type OrderSubmitter interface {
	SubmitOrder(ctx context.Context, in app.SubmitOrderInput) (app.SubmitOrderResult, error)
}

// HandleSubmitPayment returns an HTTP handler for the payment
// submission endpoint. Malformed or mispriced submissions are rejected
// with a 400; everything that fails past validation collapses to a
// single opaque 500.
func HandleSubmitPayment(svc OrderSubmitter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		var req submitPaymentRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		res, err := svc.SubmitOrder(r.Context(), app.SubmitOrderInput{
			Card: domain.PaymentCard{
				CardNumber: req.PaymentInfo.CardNumber,
				CardHolder: req.PaymentInfo.CardHolder,
				ExpiryDate: req.PaymentInfo.ExpiryDate,
				CVV:        req.PaymentInfo.CVV,
			},
			CertificateType: domain.OfferingID(req.CertificateType),
			Options: domain.AddOnSelection{
				RevokeProtection:   req.CustomOptions.RevokeProtection,
				CustomEntitlements: req.CustomOptions.CustomEntitlements,
				ExtendedValidity:   req.CustomOptions.ExtendedValidity,
				PrioritySupport:    req.CustomOptions.PrioritySupport,
			},
			Entitlements: req.SelectedEntitlements,
			OrderID:      req.OrderID,
			Price:        req.Price,
			Validity:     req.Validity,
		})
		if err != nil {
			var fieldErrs domain.FieldErrors
			switch {
			case errors.As(err, &fieldErrs):
				fields := make(map[string]string, len(fieldErrs))
				for field, fieldErr := range fieldErrs {
					fields[string(field)] = fieldErr.Error()
				}
				writeFieldError(w, http.StatusBadRequest, codeInvalidPaymentDetails, fieldErrs.Error(), fields)
			case errors.Is(err, domain.ErrUnknownOffering):
				writeError(w, http.StatusBadRequest, codeUnknownCertificateType, err.Error())
			case errors.Is(err, domain.ErrUnknownEntitlement):
				writeError(w, http.StatusBadRequest, codeUnknownEntitlement, err.Error())
			case errors.Is(err, domain.ErrPriceMismatch):
				writeError(w, http.StatusBadRequest, codePriceMismatch, err.Error())
			default:
				writeError(w, http.StatusInternalServerError, codeInternalError, "Failed to process payment information")
			}
			return
		}

		resp := submitPaymentResponse{
			Success: true,
			Message: "Payment information received",
			OrderID: res.OrderID,
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(resp)
	}
}

type submitPaymentRequest struct {
	PaymentInfo          paymentInfoPayload   `json:"paymentInfo"`
	CertificateType      string               `json:"certificateType"`
	CustomOptions        customOptionsPayload `json:"customOptions"`
	SelectedEntitlements []string             `json:"selectedEntitlements"`
	OrderID              string               `json:"orderId"`
	Price                decimal.Decimal      `json:"price"`
	Validity             string               `json:"validity"`
}

type paymentInfoPayload struct {
	CardNumber string `json:"cardNumber"`
	CardHolder string `json:"cardHolder"`
	ExpiryDate string `json:"expiryDate"`
	CVV        string `json:"cvv"`
}

type customOptionsPayload struct {
	RevokeProtection   bool `json:"revokeProtection"`
	CustomEntitlements bool `json:"customEntitlements"`
	ExtendedValidity   bool `json:"extendedValidity"`
	PrioritySupport    bool `json:"prioritySupport"`
}

type submitPaymentResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	OrderID string `json:"orderId"`
}
