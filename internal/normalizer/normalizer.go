package normalizer

import (
	"context"
	"strings"
	"time"

	"adalert-srv/internal/model"
	"adalert-srv/pkg/log"

	"github.com/google/uuid"
)

type implNormalizer struct {
	logger   log.Logger
	accounts AccountResolver
	detector ChangeDetector
	clock    func() time.Time
	newID    func() string
}

var _ Normalizer = &implNormalizer{}

// New returns the default Normalizer.
func New(logger log.Logger, accounts AccountResolver, detector ChangeDetector) Normalizer {
	return &implNormalizer{
		logger:   logger,
		accounts: accounts,
		detector: detector,
		clock:    time.Now,
		newID:    func() string { return uuid.NewString() },
	}
}

func (n *implNormalizer) Normalize(ctx context.Context, platform model.Platform, raw []byte) ([]model.ChangeEvent, error) {
	entries, err := parseEnvelope(raw)
	if err != nil {
		return nil, err
	}

	resolved := make(map[string]*model.AdAccount, len(entries))
	var events []model.ChangeEvent
	for _, e := range entries {
		account, seen := resolved[e.AccountID]
		if !seen {
			account = n.resolve(ctx, platform, e.AccountID)
			resolved[e.AccountID] = account
		}
		if account == nil {
			continue
		}

		for _, c := range e.Changes {
			if ev, ok := n.toEvent(platform, *account, e, c); ok {
				events = append(events, ev)
			}
		}
	}
	return events, nil
}

// resolve returns nil for unknown accounts. Lookup failures are treated the
// same way so a persistence fault never turns into a rejected delivery.
func (n *implNormalizer) resolve(ctx context.Context, platform model.Platform, externalID string) *model.AdAccount {
	account, err := n.accounts.FindAccountByExternalID(ctx, platform, externalID)
	if err != nil {
		n.logger.Warnf(ctx, "internal.normalizer.resolve.FindAccountByExternalID: platform=%s external_id=%s: %v", platform, externalID, err)
		return nil
	}
	if account == nil {
		n.logger.Debugf(ctx, "internal.normalizer.resolve: unknown account %s/%s, dropping", platform, externalID)
	}
	return account
}

func (n *implNormalizer) toEvent(platform model.Platform, account model.AdAccount, e parsedEntry, c parsedChange) (model.ChangeEvent, bool) {
	before, after := c.Before, c.After
	if c.Field != "" && !isObject(before) && !isObject(after) {
		before = map[string]any{c.Field: before}
		after = map[string]any{c.Field: after}
	}

	detection := n.detector.DetectChanges(before, after)
	if !detection.HasChanges {
		return model.ChangeEvent{}, false
	}

	entity := entityType(c.ObjectType)
	metadata := map[string]any{
		"verb":                c.Verb,
		"external_account_id": e.AccountID,
	}
	if e.Time != 0 {
		metadata["entry_time"] = e.Time
	}
	if account.Name != "" {
		metadata["account_name"] = account.Name
	}

	return model.ChangeEvent{
		ID:             n.newID(),
		OrganizationID: account.OrganizationID,
		AdAccountID:    account.ID,
		Platform:       platform,
		ChangeType:     changeType(entity, c.Verb, detection.Changes),
		EntityType:     entity,
		EntityID:       c.ObjectID,
		EntityName:     entityName(c),
		Changes:        detection.Changes,
		Metadata:       metadata,
		DetectedAt:     n.clock().UTC(),
	}, true
}

func isObject(v any) bool {
	_, ok := v.(map[string]any)
	return ok
}

func entityType(objectType string) model.EntityType {
	switch objectType {
	case "campaign":
		return model.EntityCampaign
	case "adset", "ad_set", "adgroup", "ad_group":
		return model.EntityAdSet
	case "ad", "ad_group_ad":
		return model.EntityAd
	default:
		return model.EntityType(objectType)
	}
}

// fieldFamilies collapses platform field variants into the name used in change types.
var fieldFamilies = map[string]string{
	"daily_budget":      "budget",
	"lifetime_budget":   "budget",
	"effective_status":  "status",
	"configured_status": "status",
	"bid_amount":        "bid",
}

func changeType(entity model.EntityType, verb string, changes map[string]model.FieldChange) string {
	switch verb {
	case "add", "create", "created":
		return string(entity) + "_created"
	case "delete", "remove", "deleted":
		return string(entity) + "_deleted"
	}

	var family string
	for field := range changes {
		f := field
		if mapped, ok := fieldFamilies[field]; ok {
			f = mapped
		}
		if family != "" && family != f {
			return string(entity) + "_updated"
		}
		family = f
	}
	return string(entity) + "_" + family + "_changed"
}

func entityName(c parsedChange) string {
	if c.ObjectName != "" {
		return c.ObjectName
	}
	for _, snapshot := range []any{c.After, c.Before} {
		if obj, ok := snapshot.(map[string]any); ok {
			if name, ok := obj["name"].(string); ok && strings.TrimSpace(name) != "" {
				return name
			}
		}
	}
	return c.ObjectID
}
