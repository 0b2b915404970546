package postgres

import "github.com/aarondl/null/v8"

const findByExternalIDQuery = `
SELECT id, organization_id, platform, external_id, name
FROM ad_accounts
WHERE platform = $1 AND external_id = $2 AND deleted_at IS NULL
LIMIT 1`

type dbAccount struct {
	ID             string      `boil:"id"`
	OrganizationID string      `boil:"organization_id"`
	Platform       string      `boil:"platform"`
	ExternalID     string      `boil:"external_id"`
	Name           null.String `boil:"name"`
}
