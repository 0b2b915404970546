package normalizer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// parseEnvelope validates the whole body before any lookups happen, so a
// malformed delivery has no side effects.
func parseEnvelope(raw []byte) ([]parsedEntry, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var env envelope
	if err := dec.Decode(&env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data after body", ErrMalformedPayload)
	}
	if env.Entry == nil {
		return nil, fmt.Errorf("%w: entry is required", ErrMalformedPayload)
	}

	entries := make([]parsedEntry, 0, len(env.Entry))
	for i, e := range env.Entry {
		accountID, err := idString(e.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: entry[%d].id: %v", ErrMalformedPayload, i, err)
		}

		var ts int64
		if e.Time != "" {
			if ts, err = strconv.ParseInt(e.Time.String(), 10, 64); err != nil {
				return nil, fmt.Errorf("%w: entry[%d].time is not an integer", ErrMalformedPayload, i)
			}
		}

		pe := parsedEntry{AccountID: accountID, Time: ts, Changes: make([]parsedChange, 0, len(e.Changes))}
		for j, c := range e.Changes {
			pc, err := parseChange(c)
			if err != nil {
				return nil, fmt.Errorf("%w: entry[%d].changes[%d]: %v", ErrMalformedPayload, i, j, err)
			}
			pe.Changes = append(pe.Changes, pc)
		}
		entries = append(entries, pe)
	}
	return entries, nil
}

func parseChange(c rawChange) (parsedChange, error) {
	if c.Value == nil {
		return parsedChange{}, fmt.Errorf("value is required")
	}
	v := c.Value
	if strings.TrimSpace(v.ObjectType) == "" {
		return parsedChange{}, fmt.Errorf("value.object_type is required")
	}
	objectID, err := idString(v.ObjectID)
	if err != nil {
		return parsedChange{}, fmt.Errorf("value.object_id: %v", err)
	}

	field := v.Field
	if field == "" {
		field = c.Field
	}
	return parsedChange{
		Verb:       strings.ToLower(strings.TrimSpace(v.Verb)),
		ObjectType: strings.ToLower(strings.TrimSpace(v.ObjectType)),
		ObjectID:   objectID,
		ObjectName: v.ObjectName,
		Field:      field,
		Before:     v.Before,
		After:      v.After,
	}, nil
}

// idString accepts ids sent either as JSON strings or JSON integers.
func idString(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", fmt.Errorf("is required")
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if strings.TrimSpace(s) == "" {
			return "", fmt.Errorf("is empty")
		}
		return s, nil
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		if _, err := strconv.ParseInt(n.String(), 10, 64); err == nil {
			return n.String(), nil
		}
	}
	return "", fmt.Errorf("must be a string or integer")
}
