package httpx

import (
	"errors"
	"net/http"

	"github.com/fieldsales/backoffice/internal/platform/apiclient"
)

// Sentinel errors for the JSON endpoints.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
)

// RespondError maps errors to HTTP responses using RFC7807. Upstream
// failures keep their status and the detail the API sent back.
func RespondError(w http.ResponseWriter, err error) {
	var upstream *apiclient.Error
	switch {
	case errors.Is(err, apiclient.ErrSessionExpired), errors.Is(err, ErrUnauthorized):
		Problem(w, http.StatusUnauthorized, "Unauthorized", apiclient.UserMessage(apiclient.ErrSessionExpired))
	case errors.Is(err, ErrNotFound), errors.Is(err, apiclient.ErrNotFound):
		Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrValidation):
		Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.As(err, &upstream):
		Problem(w, http.StatusBadGateway, "Upstream Error", apiclient.UserMessage(err))
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", apiclient.GenericMessage)
	}
}
