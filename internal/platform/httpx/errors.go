// Package httpx provides HTTP response utilities.
package httpx

import (
	"errors"
	"net/http"

	"github.com/melitech/docengine/internal/billing"
	"github.com/melitech/docengine/internal/numbering"
)

// Sentinel errors for handler layers without a domain error of their own.
var (
	ErrNotFound   = errors.New("resource not found")
	ErrValidation = errors.New("validation failed")
)

// RespondError maps domain errors to HTTP responses using RFC7807.
// Transient counter-store failures come back retryable: the UI surfaces
// "could not generate document number, please retry" and no document is
// created without a number.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, numbering.ErrTransient):
		w.Header().Set("Retry-After", "1")
		Problem(w, http.StatusServiceUnavailable, "Temporarily Unavailable",
			"could not generate document number, please retry")
	case errors.Is(err, numbering.ErrUnknownDocumentType),
		errors.Is(err, numbering.ErrNegativeValue),
		errors.Is(err, billing.ErrValidation),
		errors.Is(err, ErrValidation):
		Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.Is(err, ErrNotFound):
		Problem(w, http.StatusNotFound, "Not Found", err.Error())
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
