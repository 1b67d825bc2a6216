// internal/services/errors.go
package services

import "errors"

// Sentinel errors the handler layer maps onto HTTP status codes.
var (
	ErrNotFound   = errors.New("resource not found")
	ErrConflict   = errors.New("resource state does not allow this action")
	ErrValidation = errors.New("validation failed")
	ErrForbidden  = errors.New("operation not permitted")
)
