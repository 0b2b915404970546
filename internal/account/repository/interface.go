package repository

import (
	"context"

	"adalert-srv/internal/model"
)

//go:generate mockery --name Repository
type Repository interface {
	// FindAccountByExternalID returns nil, nil when no account is connected
	// for the platform's external id.
	FindAccountByExternalID(ctx context.Context, platform model.Platform, externalID string) (*model.AdAccount, error)
}
