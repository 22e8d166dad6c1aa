package utils

import "errors"

// Common application errors used across services.
var (
	ErrProductNotFound    = errors.New("PRODUCT_NOT_FOUND")
	ErrCollectionNotFound = errors.New("COLLECTION_NOT_FOUND")
	ErrSlugTaken          = errors.New("SLUG_TAKEN")
	ErrInvalidCatalog     = errors.New("INVALID_CATALOG")
	ErrInvalidOption      = errors.New("INVALID_OPTION")
	ErrInvalidCredentials = errors.New("INVALID_CREDENTIALS")
	ErrAccountInactive    = errors.New("ACCOUNT_INACTIVE")
	ErrInvalidToken       = errors.New("INVALID_TOKEN")
	ErrTooManyAttempts    = errors.New("TOO_MANY_ATTEMPTS")
)
