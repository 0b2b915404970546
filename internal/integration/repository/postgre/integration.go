package postgres

import (
	"context"
	"database/sql"

	"adalert-srv/internal/model"

	"github.com/aarondl/sqlboiler/v4/queries"
	"github.com/friendsofgo/errors"
)

func (r *implRepository) GetSlackIntegration(ctx context.Context, organizationID string) (*model.SlackIntegration, error) {
	var row dbSlackIntegration
	err := queries.Raw(getSlackIntegrationQuery, organizationID).Bind(ctx, r.db, &row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.l.Errorf(ctx, "internal.integration.repository.postgres.GetSlackIntegration.Bind: %v", err)
		return nil, errors.Wrap(err, "get slack integration")
	}

	return &model.SlackIntegration{
		OrganizationID:   row.OrganizationID,
		WebhookURL:       row.WebhookURL.String,
		BotToken:         row.BotToken.String,
		DefaultChannelID: row.DefaultChannelID.String,
		TeamName:         row.TeamName.String,
	}, nil
}
