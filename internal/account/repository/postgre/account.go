package postgres

import (
	"context"
	"database/sql"
	"strings"

	"adalert-srv/internal/model"

	"github.com/aarondl/sqlboiler/v4/queries"
	"github.com/friendsofgo/errors"
)

func (r *implRepository) FindAccountByExternalID(ctx context.Context, platform model.Platform, externalID string) (*model.AdAccount, error) {
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return nil, nil
	}

	var row dbAccount
	err := queries.Raw(findByExternalIDQuery, string(platform), externalID).Bind(ctx, r.db, &row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.l.Errorf(ctx, "internal.account.repository.postgres.FindAccountByExternalID.Bind: %v", err)
		return nil, errors.Wrap(err, "find ad account")
	}

	return &model.AdAccount{
		ID:             row.ID,
		OrganizationID: row.OrganizationID,
		Platform:       model.Platform(row.Platform),
		ExternalID:     row.ExternalID,
		Name:           row.Name.String,
	}, nil
}
