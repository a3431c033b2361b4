// Package apperr defines the error taxonomy shared by the session service and
// the HTTP handlers, so status mapping happens in exactly one place.
package apperr

import (
	"errors"
	"net/http"
)

var (
	// ErrNotFound: bad token or ID. No state change.
	ErrNotFound = errors.New("not found")
	// ErrExpired: the access token's TTL elapsed. One-way transition to EXPIRADA.
	ErrExpired = errors.New("evaluation expired")
	// ErrConflict: operation attempted against an evaluation not in the
	// required state, e.g. answering a completed session.
	ErrConflict = errors.New("invalid evaluation state")
	// ErrValidation: missing or malformed required fields.
	ErrValidation = errors.New("validation failed")
)

// HTTPStatus maps a service error onto the response status.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrExpired):
		return http.StatusGone
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
