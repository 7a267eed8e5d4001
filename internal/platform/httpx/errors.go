package httpx

import (
	"errors"
	"net/http"

	"github.com/haven-app/haven/internal/shared"
)

// RespondError maps domain sentinel errors to JSON error responses. Handlers
// that need endpoint-specific wording map their errors explicitly and fall
// back to this for anything unexpected.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrValidation):
		Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, shared.ErrLimitExceeded):
		Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, shared.ErrConflict):
		Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, shared.ErrUnauthorized):
		Error(w, http.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, shared.ErrForbidden):
		Error(w, http.StatusForbidden, "Forbidden")
	case errors.Is(err, shared.ErrNotFound):
		Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, shared.ErrTransport):
		Error(w, http.StatusInternalServerError, err.Error())
	default:
		Error(w, http.StatusInternalServerError, "Internal server error")
	}
}
