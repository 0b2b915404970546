package usecase

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"

	"adalert-srv/internal/model"
)

// process matches and dispatches events concurrently. Rules are loaded once
// per organization for the whole delivery.
func (uc *implUseCase) process(ctx context.Context, events []model.ChangeEvent) {
	if len(events) == 0 {
		return
	}

	rulesByOrg := uc.loadRules(ctx, events)

	var wg sync.WaitGroup
	for _, event := range events {
		if err := uc.sem.Acquire(ctx, 1); err != nil {
			uc.l.Errorf(ctx, "internal.webhook.usecase.process.Acquire: %v", err)
			break
		}
		wg.Add(1)
		go func(event model.ChangeEvent) {
			defer wg.Done()
			defer uc.sem.Release(1)
			uc.handleEvent(ctx, rulesByOrg[event.OrganizationID], event)
		}(event)
	}
	wg.Wait()
}

func (uc *implUseCase) loadRules(ctx context.Context, events []model.ChangeEvent) map[string][]model.NotificationRule {
	out := make(map[string][]model.NotificationRule)
	for _, event := range events {
		org := event.OrganizationID
		if _, ok := out[org]; ok {
			continue
		}
		rules, err := uc.findRules(ctx, org)
		if err != nil {
			uc.l.Errorf(ctx, "internal.webhook.usecase.loadRules.FindActiveRules: organization=%s: %v", org, err)
		}
		if rules == nil {
			rules = []model.NotificationRule{}
		}
		out[org] = rules
	}
	return out
}

// findRules turns a repository panic into an error so one organization
// cannot take down the rest of the delivery.
func (uc *implUseCase) findRules(ctx context.Context, org string) (rules []model.NotificationRule, err error) {
	defer func() {
		if r := recover(); r != nil {
			rules, err = nil, fmt.Errorf("panic: %v", r)
		}
	}()
	return uc.rules.FindActiveRules(ctx, org)
}

// recoverPanic logs a recovered panic. It must be deferred directly.
func (uc *implUseCase) recoverPanic(ctx context.Context, where string) {
	if r := recover(); r != nil {
		uc.l.Errorf(ctx, "internal.webhook.usecase.%s: panic: %v\n%s", where, r, debug.Stack())
	}
}

func (uc *implUseCase) handleEvent(ctx context.Context, rules []model.NotificationRule, event model.ChangeEvent) {
	defer func() {
		if r := recover(); r != nil {
			uc.l.Errorf(ctx, "internal.webhook.usecase.handleEvent: panic for event %s: %v\n%s", event.ID, r, debug.Stack())
		}
	}()

	matched := uc.matcher.MatchAll(ctx, rules, event)
	if len(matched) == 0 {
		uc.l.Debugf(ctx, "internal.webhook.usecase.handleEvent: no rule matched event %s (%s)", event.ID, event.ChangeType)
		return
	}

	for _, rule := range matched {
		results := uc.dispatcher.Dispatch(ctx, rule, event)
		for _, res := range results {
			if res.Err != nil {
				uc.l.Warnf(ctx, "internal.webhook.usecase.handleEvent: rule=%s event=%s channel=%s status=%s attempts=%d: %v",
					rule.ID, event.ID, res.Channel, res.Status, res.Attempts, res.Err)
				continue
			}
			uc.l.Debugf(ctx, "internal.webhook.usecase.handleEvent: rule=%s event=%s channel=%s status=%s",
				rule.ID, event.ID, res.Channel, res.Status)
		}
	}
}
