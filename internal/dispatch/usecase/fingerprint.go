package usecase

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"adalert-srv/internal/model"
)

const (
	dedupKeyPrefix     = "dedup:"
	rateLimitKeyPrefix = "ratelimit:"
)

// Fingerprint identifies a (rule, change) pair for deduplication. Events with
// the same entity, change type and field values share a fingerprint whatever
// their ids.
func Fingerprint(rule model.NotificationRule, event model.ChangeEvent) string {
	// Map keys marshal sorted, which makes the encoding canonical.
	changes, err := json.Marshal(event.Changes)
	if err != nil {
		changes = []byte(event.ID)
	}

	h := sha256.New()
	h.Write([]byte(rule.ID))
	h.Write([]byte{'|'})
	h.Write([]byte(event.EntityID))
	h.Write([]byte{'|'})
	h.Write([]byte(event.ChangeType))
	h.Write([]byte{'|'})
	h.Write(changes)
	return hex.EncodeToString(h.Sum(nil))
}
