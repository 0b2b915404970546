package postgres

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// IsUUID reports an ErrInvalidUUID-wrapped error unless u is a canonical,
// non-nil UUID.
func IsUUID(u string) error {
	u = strings.TrimSpace(u)
	if u == "" {
		return fmt.Errorf("%w: empty", ErrInvalidUUID)
	}
	id, err := uuid.Parse(u)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrInvalidUUID, u, err)
	}
	if id == uuid.Nil {
		return fmt.Errorf("%w: nil UUID", ErrInvalidUUID)
	}
	return nil
}

// NewUUID returns a random (v4) UUID string for new rows.
func NewUUID() string {
	return uuid.NewString()
}
