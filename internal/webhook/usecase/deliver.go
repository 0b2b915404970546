package usecase

import (
	"context"
	"errors"

	"adalert-srv/internal/model"
	"adalert-srv/internal/normalizer"
	"adalert-srv/internal/webhook"
	pkgLog "adalert-srv/pkg/log"
	"adalert-srv/pkg/signature"
)

func (uc *implUseCase) Deliver(ctx context.Context, input webhook.DeliverInput) (webhook.DeliverOutput, error) {
	platform, err := model.ParsePlatform(input.Platform)
	if err != nil {
		deliveriesTotal.WithLabelValues("unknown", outcomeUnknownPlatform).Inc()
		return webhook.DeliverOutput{}, webhook.ErrUnknownPlatform
	}

	deliveryID := uc.newID()
	ctx = pkgLog.WithFields(ctx, uc.l, "platform", string(platform), "delivery_id", deliveryID)

	if !signature.Verify(input.Body, input.Signature, uc.opts.Credentials[platform].AppSecret) {
		deliveriesTotal.WithLabelValues(string(platform), outcomeInvalidSignature).Inc()
		uc.l.Warnf(ctx, "internal.webhook.usecase.Deliver: rejected delivery with invalid signature")
		return webhook.DeliverOutput{}, webhook.ErrInvalidSignature
	}

	events, err := uc.normalizer.Normalize(ctx, platform, input.Body)
	if err != nil {
		if errors.Is(err, normalizer.ErrMalformedPayload) {
			deliveriesTotal.WithLabelValues(string(platform), outcomeMalformed).Inc()
			uc.l.Warnf(ctx, "internal.webhook.usecase.Deliver.Normalize: %v", err)
			return webhook.DeliverOutput{}, webhook.ErrMalformedPayload
		}
		// Anything else is internal; the delivery itself was valid.
		uc.l.Errorf(ctx, "internal.webhook.usecase.Deliver.Normalize: %v", err)
		events = nil
	}

	if !uc.spawn(func() {
		bg := context.WithoutCancel(ctx)
		func() {
			defer uc.recoverPanic(bg, "archivePayload")
			uc.archivePayload(bg, platform, deliveryID, input.Body)
		}()
		uc.process(bg, events)
	}) {
		deliveriesTotal.WithLabelValues(string(platform), outcomeRejected).Inc()
		return webhook.DeliverOutput{}, webhook.ErrShuttingDown
	}

	deliveriesTotal.WithLabelValues(string(platform), outcomeAccepted).Inc()
	changeEventsTotal.WithLabelValues(string(platform)).Add(float64(len(events)))
	uc.l.Infof(ctx, "internal.webhook.usecase.Deliver: accepted %d change events", len(events))

	return webhook.DeliverOutput{Received: len(events)}, nil
}

// spawn runs fn in the background unless Shutdown has started.
func (uc *implUseCase) spawn(fn func()) bool {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if uc.closing {
		return false
	}
	uc.wg.Add(1)
	go func() {
		defer uc.wg.Done()
		defer uc.recoverPanic(context.Background(), "spawn")
		fn()
	}()
	return true
}

// Shutdown rejects new deliveries and stops dispatch retries, then waits for
// in-flight attempts to finish or ctx to end.
func (uc *implUseCase) Shutdown(ctx context.Context) error {
	uc.mu.Lock()
	uc.closing = true
	uc.mu.Unlock()

	uc.dispatcher.Close()

	done := make(chan struct{})
	go func() {
		uc.wg.Wait()
		close(done)
	}()

	var err error
	select {
	case <-done:
	case <-ctx.Done():
		err = ctx.Err()
		uc.l.Warnf(ctx, "internal.webhook.usecase.Shutdown: background processing still running: %v", err)
	}
	return err
}
