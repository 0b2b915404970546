package usecase

import (
	"context"
	"crypto/subtle"

	"adalert-srv/internal/model"
	"adalert-srv/internal/webhook"
)

func (uc *implUseCase) VerifySubscription(ctx context.Context, input webhook.VerifyInput) (string, error) {
	platform, err := model.ParsePlatform(input.Platform)
	if err != nil {
		return "", webhook.ErrUnknownPlatform
	}
	if input.Challenge == "" {
		return "", webhook.ErrMissingChallenge
	}
	if input.Mode != "" && input.Mode != webhook.ModeSubscribe {
		return "", webhook.ErrForbidden
	}

	expected := uc.opts.Credentials[platform].VerifyToken
	if expected == "" || input.Token == "" {
		return "", webhook.ErrForbidden
	}
	if subtle.ConstantTimeCompare([]byte(input.Token), []byte(expected)) != 1 {
		uc.l.Warnf(ctx, "internal.webhook.usecase.VerifySubscription: verify token mismatch for %s", platform)
		return "", webhook.ErrForbidden
	}

	uc.l.Infof(ctx, "internal.webhook.usecase.VerifySubscription: subscription verified for %s", platform)
	return input.Challenge, nil
}
