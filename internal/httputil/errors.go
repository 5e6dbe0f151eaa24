package httputil

import (
	"errors"
	"net/http"

	"datadocs/internal/domain"
)

// RespondDomainError maps a domain error onto an RFC 7807 response.
// Typed domain errors carry their own status codes; anything else is an
// opaque internal failure. The contract upstream is all-or-nothing, so
// no partial content accompanies an error.
func RespondDomainError(w http.ResponseWriter, err error) {
	var httpErr domain.HTTPError
	if errors.As(err, &httpErr) {
		RespondError(w, httpErr.StatusCode(), httpErr.Error())
		return
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		RespondError(w, http.StatusNotFound, "unable to retrieve the requested text")
	case errors.Is(err, domain.ErrValidation):
		RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrConflict):
		RespondError(w, http.StatusConflict, err.Error())
	default:
		// Storage and decode failures surface as unrecoverable request
		// errors without leaking internals
		RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}
