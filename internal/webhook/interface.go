package webhook

import "context"

//go:generate mockery --name UseCase
type UseCase interface {
	// VerifySubscription answers the platform's subscription handshake and returns the challenge to echo.
	VerifySubscription(ctx context.Context, input VerifyInput) (string, error)
	// Deliver authenticates and normalizes a delivery, then processes its events in the background.
	Deliver(ctx context.Context, input DeliverInput) (DeliverOutput, error)
	// Shutdown waits for background processing to finish or ctx to expire, then stops dispatch retries.
	Shutdown(ctx context.Context) error
}
