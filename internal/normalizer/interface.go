package normalizer

import (
	"context"

	"adalert-srv/internal/model"
)

//go:generate mockery --name Normalizer
type Normalizer interface {
	// Normalize turns a raw webhook body into change events. Only structural
	// problems with the payload are returned as errors (wrapping ErrMalformedPayload).
	Normalize(ctx context.Context, platform model.Platform, raw []byte) ([]model.ChangeEvent, error)
}

// AccountResolver maps an external ad account id to the internal account.
// A nil account with a nil error means the account is unknown.
type AccountResolver interface {
	FindAccountByExternalID(ctx context.Context, platform model.Platform, externalID string) (*model.AdAccount, error)
}

// ChangeDetector computes field level differences between two raw snapshots.
type ChangeDetector interface {
	DetectChanges(before, after any) Detection
}

// Detection is the result of a ChangeDetector run.
type Detection struct {
	HasChanges bool
	Changes    map[string]model.FieldChange
}
