package postgres

import (
	"context"

	"adalert-srv/internal/model"
	postgresPkg "adalert-srv/pkg/postgre"

	"github.com/aarondl/null/v8"
	"github.com/aarondl/sqlboiler/v4/queries"
	"github.com/friendsofgo/errors"
)

func (r *implRepository) Append(ctx context.Context, log model.NotificationLog) error {
	if log.ID == "" {
		log.ID = postgresPkg.NewUUID()
	}

	_, err := queries.Raw(appendQuery,
		log.ID,
		log.RuleID,
		log.ChangeEventID,
		string(log.Channel),
		string(log.Status),
		null.StringFromPtr(log.Error),
		log.SentAt.UTC(),
	).ExecContext(ctx, r.db)
	if err != nil {
		r.l.Errorf(ctx, "internal.notificationlog.repository.postgres.Append.ExecContext: %v", err)
		return errors.Wrap(err, "append notification log")
	}
	return nil
}
