package channel

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"adalert-srv/internal/model"
)

// Arrow separates before and after values in rendered text.
const Arrow = "→"

// Humanize turns "campaign_status_changed" into "Campaign status changed".
func Humanize(s string) string {
	s = strings.TrimSpace(strings.ReplaceAll(s, "_", " "))
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// EntityLabel is the display name of an entity type.
func EntityLabel(t model.EntityType) string {
	switch t {
	case model.EntityCampaign:
		return "Campaign"
	case model.EntityAdSet:
		return "Ad set"
	case model.EntityAd:
		return "Ad"
	default:
		return Humanize(string(t))
	}
}

// FormatValue renders a decoded JSON value for humans.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "(none)"
	case string:
		if x == "" {
			return "(empty)"
		}
		return x
	case json.Number:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprintf("%v", x)
		}
		return string(b)
	}
}

// SortedFields returns the changed field names in lexical order.
func SortedFields(changes map[string]model.FieldChange) []string {
	fields := make([]string, 0, len(changes))
	for f := range changes {
		fields = append(fields, f)
	}
	slices.Sort(fields)
	return fields
}

// Summary is the one line description of a change used as a headline.
func Summary(rule model.NotificationRule, event model.ChangeEvent) string {
	subject := fmt.Sprintf("%s %q", EntityLabel(event.EntityType), event.EntityName)

	var detail string
	fields := SortedFields(event.Changes)
	if len(fields) == 1 {
		fc := event.Changes[fields[0]]
		detail = fmt.Sprintf("%s: %s %s %s", fields[0], FormatValue(fc.Before), Arrow, FormatValue(fc.After))
	} else {
		detail = fmt.Sprintf("%s (%d fields)", strings.ToLower(Humanize(event.ChangeType)), len(fields))
	}

	if rule.Name == "" {
		return subject + " " + detail
	}
	return fmt.Sprintf("[%s] %s %s", rule.Name, subject, detail)
}

// Document is the JSON representation of a matched event sent to callbacks.
type Document struct {
	Event     model.ChangeEvent `json:"event"`
	Rule      RuleRef           `json:"rule"`
	Summary   string            `json:"summary"`
	MatchedAt string            `json:"matchedAt"`
}

// RuleRef identifies the rule that matched.
type RuleRef struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Priority model.Priority `json:"priority,omitempty"`
}

// NewDocument builds the callback document. It only reads from its inputs so
// the encoding is stable across retries.
func NewDocument(rule model.NotificationRule, event model.ChangeEvent) Document {
	return Document{
		Event:     event,
		Rule:      RuleRef{ID: rule.ID, Name: rule.Name, Priority: rule.Priority},
		Summary:   Summary(rule, event),
		MatchedAt: event.DetectedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}
