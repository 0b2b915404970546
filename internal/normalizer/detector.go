package normalizer

import (
	"bytes"
	"encoding/json"
	"slices"

	"adalert-srv/internal/model"
)

// FieldDiffDetector compares two snapshots key by key. Values are compared
// by their JSON encoding so nested objects and arrays are handled. Non-object
// snapshots are compared under the key "value".
type FieldDiffDetector struct {
	// Ignore lists keys that never count as a change.
	Ignore []string
}

// NewFieldDiffDetector returns a detector ignoring bookkeeping fields platforms
// bump on every write.
func NewFieldDiffDetector() FieldDiffDetector {
	return FieldDiffDetector{Ignore: []string{"updated_time", "update_time"}}
}

func (d FieldDiffDetector) DetectChanges(before, after any) Detection {
	b, a := asObject(before), asObject(after)

	keys := make([]string, 0, len(b)+len(a))
	for k := range b {
		keys = append(keys, k)
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)

	changes := make(map[string]model.FieldChange)
	for _, k := range keys {
		if slices.Contains(d.Ignore, k) {
			continue
		}
		bv, av := b[k], a[k]
		if sameJSON(bv, av) {
			continue
		}
		changes[k] = model.FieldChange{Before: bv, After: av}
	}

	return Detection{HasChanges: len(changes) > 0, Changes: changes}
}

func asObject(v any) map[string]any {
	switch x := v.(type) {
	case nil:
		return map[string]any{}
	case map[string]any:
		return x
	default:
		return map[string]any{"value": x}
	}
}

func sameJSON(a, b any) bool {
	x, errA := json.Marshal(a)
	y, errB := json.Marshal(b)
	if errA != nil || errB != nil {
		return false
	}
	return bytes.Equal(x, y)
}
