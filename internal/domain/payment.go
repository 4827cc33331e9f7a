package domain

import (
	"regexp"
	"sort"
	"strings"
	"time"
)

// PaymentCard holds raw card input for one submission. It is written to
// storage exactly once and never kept beyond that.
type PaymentCard struct {
	CardNumber string `json:"cardNumber"`
	CardHolder string `json:"cardHolder"`
	ExpiryDate string `json:"expiryDate"`
	CVV        string `json:"cvv"`
}

type CardField string

const (
	FieldCardNumber CardField = "cardNumber"
	FieldCardHolder CardField = "cardHolder"
	FieldExpiryDate CardField = "expiryDate"
	FieldCVV        CardField = "cvv"
)

// FieldErrors maps card fields to their validation errors. It is empty
// for a valid card.
type FieldErrors map[CardField]error

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, string(field))
	}
	sort.Strings(fields)
	return "invalid payment details: " + strings.Join(fields, ", ")
}

var expiryPattern = regexp.MustCompile(`^\d{2}/\d{2}$`)

// FormatCardNumber strips non-digits and regroups the digits in blocks
// of four, capped at 16 digits (19 characters formatted).
func FormatCardNumber(input string) string {
	var b strings.Builder
	count := 0
	for _, r := range input {
		if r < '0' || r > '9' {
			continue
		}
		if count > 0 && count%4 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
		count++
		if count == 16 {
			break
		}
	}
	return b.String()
}

// FormatExpiry strips non-digits and renders MM/YY, capped at four digits.
func FormatExpiry(input string) string {
	digits := digitsOnly(input)
	if len(digits) > 4 {
		digits = digits[:4]
	}
	if len(digits) <= 2 {
		return digits
	}
	return digits[:2] + "/" + digits[2:]
}

// FormatCVC strips non-digits and caps the code at four digits.
func FormatCVC(input string) string {
	digits := digitsOnly(input)
	if len(digits) > 4 {
		digits = digits[:4]
	}
	return digits
}

func digitsOnly(input string) string {
	var b strings.Builder
	for _, r := range input {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Validate checks the card input against submission rules. The expiry
// comparison uses now's two-digit year and one-indexed month; a card
// expiring in the current month is still accepted.
func (c PaymentCard) Validate(now time.Time) FieldErrors {
	errs := FieldErrors{}

	if len(digitsOnly(c.CardNumber)) < 16 {
		errs[FieldCardNumber] = ErrInvalidCardNumber
	}

	if strings.TrimSpace(c.CardHolder) == "" {
		errs[FieldCardHolder] = ErrMissingHolderName
	}

	if !expiryPattern.MatchString(c.ExpiryDate) {
		errs[FieldExpiryDate] = ErrInvalidExpiryFormat
	} else {
		month := int(c.ExpiryDate[0]-'0')*10 + int(c.ExpiryDate[1]-'0')
		year := int(c.ExpiryDate[3]-'0')*10 + int(c.ExpiryDate[4]-'0')
		currentYear := now.Year() % 100
		currentMonth := int(now.Month())
		if month < 1 || month > 12 ||
			year < currentYear ||
			(year == currentYear && month < currentMonth) {
			errs[FieldExpiryDate] = ErrCardExpired
		}
	}

	cvv := c.CVV
	if len(cvv) < 3 || len(cvv) > 4 || digitsOnly(cvv) != cvv {
		errs[FieldCVV] = ErrInvalidSecurityCode
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Normalized returns a copy of the card with every field run through
// its display formatting.
func (c PaymentCard) Normalized() PaymentCard {
	return PaymentCard{
		CardNumber: FormatCardNumber(c.CardNumber),
		CardHolder: strings.TrimSpace(c.CardHolder),
		ExpiryDate: FormatExpiry(c.ExpiryDate),
		CVV:        FormatCVC(c.CVV),
	}
}
