// Package apperrors defines the error taxonomy shared by the cart and
// order services. Handlers translate these into HTTP status codes; the
// services themselves never touch HTTP semantics.
package apperrors

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidQuantity   = errors.New("invalid quantity")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrConflict          = errors.New("conflicting concurrent update")
	ErrInternal          = errors.New("internal error")
)

// HTTPStatus maps a service error to the response code the API uses for it.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidQuantity),
		errors.Is(err, ErrInsufficientStock),
		errors.Is(err, ErrEmptyCart),
		errors.Is(err, ErrInvalidTransition):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// IsUserFacing reports whether the error message is safe to show to end
// users. Everything else is surfaced as an opaque failure.
func IsUserFacing(err error) bool {
	return HTTPStatus(err) != http.StatusInternalServerError
}
