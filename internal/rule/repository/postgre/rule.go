package postgres

import (
	"context"
	"strings"

	"adalert-srv/internal/model"
	postgresPkg "adalert-srv/pkg/postgre"

	"github.com/aarondl/sqlboiler/v4/queries"
	"github.com/friendsofgo/errors"
)

func (r *implRepository) FindActiveRules(ctx context.Context, organizationID string) ([]model.NotificationRule, error) {
	if err := postgresPkg.IsUUID(organizationID); err != nil {
		r.l.Errorf(ctx, "internal.rule.repository.postgres.FindActiveRules.IsUUID: %v", err)
		return nil, err
	}

	var rows []dbRule
	if err := queries.Raw(findActiveRulesQuery, organizationID).Bind(ctx, r.db, &rows); err != nil {
		r.l.Errorf(ctx, "internal.rule.repository.postgres.FindActiveRules.Bind: %v", err)
		return nil, errors.Wrap(err, "find active rules")
	}

	rules := make([]model.NotificationRule, 0, len(rows))
	for _, row := range rows {
		rules = append(rules, r.toModel(ctx, row))
	}
	return rules, nil
}

func (r *implRepository) toModel(ctx context.Context, row dbRule) model.NotificationRule {
	conditions, err := model.ParseConditionTree(row.Conditions.JSON)
	if err != nil {
		// The rule still loads; an invalid tree never matches.
		r.l.Warnf(ctx, "internal.rule.repository.postgres.toModel.ParseConditionTree: rule %s: %v", row.ID, err)
	}

	rule := model.NotificationRule{
		ID:              row.ID,
		OrganizationID:  row.OrganizationID,
		Name:            row.Name,
		IsActive:        row.IsActive,
		Priority:        model.Priority(strings.ToLower(row.Priority.String)),
		ChangeTypes:     []string(row.ChangeTypes),
		Conditions:      conditions,
		SlackChannelID:  row.SlackChannelID.String,
		EmailRecipients: []string(row.EmailRecipients),
		WebhookURL:      row.WebhookURL.String,
	}
	if rule.Priority == "" {
		rule.Priority = model.PriorityNormal
	}

	// Unknown platforms are kept so the filter stays restrictive.
	for _, p := range row.Platforms {
		rule.Platforms = append(rule.Platforms, model.Platform(strings.ToLower(strings.TrimSpace(p))))
	}
	for _, c := range row.NotificationChannels {
		rule.NotificationChannels = append(rule.NotificationChannels, model.Channel(strings.ToLower(strings.TrimSpace(c))))
	}

	return rule
}
