package http

import (
	"net/http"

	"adalert-srv/internal/webhook"
	"adalert-srv/pkg/errors"
)

func (h *Handler) mapError(err error) error {
	switch err {
	case webhook.ErrUnknownPlatform:
		return errors.NewHTTPError(http.StatusNotFound, "Unknown platform", http.StatusNotFound)
	case webhook.ErrMissingChallenge:
		return errors.NewHTTPError(http.StatusBadRequest, "Missing hub.challenge", http.StatusBadRequest)
	case webhook.ErrForbidden:
		return errors.NewHTTPError(http.StatusForbidden, "Verification failed", http.StatusForbidden)
	case webhook.ErrInvalidSignature:
		return errors.NewHTTPError(http.StatusUnauthorized, "Invalid signature", http.StatusUnauthorized)
	case webhook.ErrMalformedPayload:
		return errors.NewHTTPError(http.StatusBadRequest, "Malformed payload", http.StatusBadRequest)
	case webhook.ErrBodyTooLarge:
		return errors.NewHTTPError(http.StatusBadRequest, "Payload too large", http.StatusBadRequest)
	case webhook.ErrShuttingDown:
		return errors.NewHTTPError(http.StatusServiceUnavailable, "Service is shutting down", http.StatusServiceUnavailable)
	default:
		panic(err)
	}
}
