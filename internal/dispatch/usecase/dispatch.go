package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"adalert-srv/internal/channel"
	"adalert-srv/internal/dispatch"
	"adalert-srv/internal/model"
)

func (uc *implUseCase) Dispatch(ctx context.Context, rule model.NotificationRule, event model.ChangeEvent) []dispatch.Result {
	// Targets resolve before the dedup key is taken: a change with nowhere to
	// go must stay deliverable on the platform's redelivery.
	plans := uc.resolveTargets(ctx, rule)
	if len(plans) == 0 {
		return nil
	}

	fp := Fingerprint(rule, event)
	first, err := uc.guard.MarkSeen(ctx, dedupKeyPrefix+fp, uc.opts.DedupWindow)
	if err != nil {
		// Fail open: a guard outage must not silence alerts.
		uc.l.Warnf(ctx, "internal.dispatch.usecase.Dispatch.MarkSeen: %v", err)
	} else if !first {
		dedupTotal.Inc()
		uc.l.Debugf(ctx, "internal.dispatch.usecase.Dispatch: duplicate rule=%s event=%s", rule.ID, event.ID)
		return nil
	}

	if !uc.allow(ctx, rule) {
		uc.l.Warnf(ctx, "internal.dispatch.usecase.Dispatch: rule %s exceeded %d notifications per %s", rule.ID, uc.opts.RateLimit, uc.opts.RateWindow)
		return uc.rateLimited(ctx, rule, event, plans)
	}

	results := make([]dispatch.Result, len(plans))
	var wg sync.WaitGroup
	for i, p := range plans {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = uc.deliver(ctx, rule, event, p)
		}()
	}
	wg.Wait()

	return results
}

// allow reports whether rule is under its rate limit. A limit <= 0 disables
// the check; guard errors fail open.
func (uc *implUseCase) allow(ctx context.Context, rule model.NotificationRule) bool {
	if uc.opts.RateLimit <= 0 {
		return true
	}
	allowed, err := uc.guard.Allow(ctx, rateLimitKeyPrefix+rule.ID, uc.opts.RateLimit, uc.opts.RateWindow)
	if err != nil {
		uc.l.Warnf(ctx, "internal.dispatch.usecase.Dispatch.Allow: %v", err)
		return true
	}
	return allowed
}

func (uc *implUseCase) rateLimited(ctx context.Context, rule model.NotificationRule, event model.ChangeEvent, plans []plan) []dispatch.Result {
	results := make([]dispatch.Result, len(plans))
	for i, p := range plans {
		results[i] = dispatch.Result{
			Channel: p.channel,
			Status:  model.DispatchStatusRateLimited,
			Err:     dispatch.ErrRateLimited,
		}
		uc.record(ctx, rule, event, results[i])
	}
	return results
}

// deliver renders once and sends with bounded retries. It always records
// exactly one log for the channel.
func (uc *implUseCase) deliver(ctx context.Context, rule model.NotificationRule, event model.ChangeEvent, p plan) (res dispatch.Result) {
	res = dispatch.Result{Channel: p.channel}
	defer func() {
		if r := recover(); r != nil {
			uc.l.Errorf(ctx, "internal.dispatch.usecase.deliver: %s sender panic: %v", p.channel, r)
			res.Status = model.DispatchStatusFailed
			res.Err = fmt.Errorf("sender panic: %v", r)
		}
		uc.record(ctx, rule, event, res)
	}()

	msg, err := p.sender.Render(rule, event)
	if err != nil {
		uc.l.Errorf(ctx, "internal.dispatch.usecase.deliver.Render: %s: %v", p.channel, err)
		res.Status = model.DispatchStatusFailed
		res.Err = err
		return res
	}

	target := p.target
	for {
		res.Attempts++
		err = p.sender.Send(ctx, target, msg)
		if err == nil {
			break
		}
		uc.l.Warnf(ctx, "internal.dispatch.usecase.deliver.Send: %s attempt %d/%d: %v", p.channel, res.Attempts, uc.opts.MaxAttempts, err)

		if res.Attempts >= uc.opts.MaxAttempts || !channel.IsRetryable(err) || !uc.waitRetry(ctx) {
			break
		}
		target = target.Narrow(err)
	}

	res.Err = err
	res.Status = model.DispatchStatusSent
	if err != nil {
		res.Status = model.DispatchStatusFailed
	}
	return res
}

// waitRetry sleeps for the retry delay. It returns false when the coordinator
// is closing or ctx ends first.
func (uc *implUseCase) waitRetry(ctx context.Context) bool {
	select {
	case <-uc.closed:
		return false
	case <-ctx.Done():
		return false
	default:
	}
	if uc.opts.RetryDelay <= 0 {
		return true
	}

	t := time.NewTimer(uc.opts.RetryDelay)
	defer t.Stop()
	select {
	case <-uc.closed:
		return false
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func (uc *implUseCase) record(ctx context.Context, rule model.NotificationRule, event model.ChangeEvent, res dispatch.Result) {
	dispatchTotal.WithLabelValues(string(res.Channel), string(res.Status)).Inc()

	entry := model.NotificationLog{
		ID:            uc.newID(),
		RuleID:        rule.ID,
		ChangeEventID: event.ID,
		Channel:       res.Channel,
		Status:        res.Status,
		SentAt:        uc.clock(),
	}
	if res.Err != nil {
		msg := res.Err.Error()
		entry.Error = &msg
	}

	if err := uc.logs.Append(ctx, entry); err != nil {
		uc.l.Errorf(ctx, "internal.dispatch.usecase.record.Append: %v", err)
	}
}
