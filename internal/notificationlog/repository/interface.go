package repository

import (
	"context"

	"adalert-srv/internal/model"
)

//go:generate mockery --name Repository
type Repository interface {
	// Append inserts one log row. Logs are never updated.
	Append(ctx context.Context, log model.NotificationLog) error
}
