package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderRecord is the persisted representation of one completed
// submission. It is written once and never mutated or deleted.
type OrderRecord struct {
	OrderID              string          `json:"orderId"`
	Timestamp            time.Time       `json:"timestamp"`
	CertificateType      OfferingID      `json:"certificateType"`
	CustomOptions        AddOnSelection  `json:"customOptions"`
	SelectedEntitlements []string        `json:"selectedEntitlements"`
	Price                decimal.Decimal `json:"price"`
	Validity             string          `json:"validity"`
	PaymentInfo          PaymentCard     `json:"paymentInfo"`
}
