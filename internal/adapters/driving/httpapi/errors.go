package httpapi

import (
	"errors"
	"net/http"

	"github.com/custodia-labs/qa-agent/internal/core/domain"
)

// ErrMissingAgent is returned when the agent service is not provided.
var ErrMissingAgent = errors.New("httpapi: agent service is required")

// statusFor maps a pipeline error to an HTTP status code.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrUnsupportedDocument):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrIndexInProgress):
		return http.StatusConflict
	case errors.Is(err, domain.ErrFetch),
		errors.Is(err, domain.ErrEmbeddingService),
		errors.Is(err, domain.ErrGenerationService):
		return http.StatusBadGateway
	case errors.Is(err, domain.ErrBackendUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
