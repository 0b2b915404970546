package webhook

import (
	"errors"

	"adalert-srv/internal/model"
	"adalert-srv/internal/normalizer"
)

var (
	ErrUnknownPlatform  = model.ErrUnknownPlatform
	ErrMalformedPayload = normalizer.ErrMalformedPayload
	ErrMissingChallenge = errors.New("missing hub.challenge")
	ErrForbidden        = errors.New("subscription verification failed")
	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrBodyTooLarge     = errors.New("webhook body too large")
	ErrShuttingDown     = errors.New("webhook processing is shutting down")
)
