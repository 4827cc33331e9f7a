package domain

import "errors"

var (
	ErrUnknownOffering    = errors.New("unknown certificate type")
	ErrUnknownEntitlement = errors.New("unknown entitlement")
	ErrPriceMismatch      = errors.New("submitted price does not match catalog price")
	ErrDraftTransition    = errors.New("invalid draft state transition")

	ErrInvalidCardNumber   = errors.New("invalid card number")
	ErrMissingHolderName   = errors.New("cardholder name is required")
	ErrInvalidExpiryFormat = errors.New("invalid expiry date format")
	ErrCardExpired         = errors.New("card has expired or date is invalid")
	ErrInvalidSecurityCode = errors.New("invalid security code")

	ErrCredentialRefresh = errors.New("credential refresh failed")
	ErrFolderEnsure      = errors.New("folder ensure failed")
	ErrStorageWrite      = errors.New("storage write failed")
)
