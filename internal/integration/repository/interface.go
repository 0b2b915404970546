package repository

import (
	"context"

	"adalert-srv/internal/model"
)

//go:generate mockery --name Repository
type Repository interface {
	// GetSlackIntegration returns nil, nil when the organization has no Slack integration.
	GetSlackIntegration(ctx context.Context, organizationID string) (*model.SlackIntegration, error)
}
