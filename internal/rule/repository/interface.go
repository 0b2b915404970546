package repository

import (
	"context"

	"adalert-srv/internal/model"
)

//go:generate mockery --name Repository
type Repository interface {
	// FindActiveRules returns the organization's active, non-deleted rules.
	FindActiveRules(ctx context.Context, organizationID string) ([]model.NotificationRule, error)
}
