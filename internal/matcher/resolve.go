package matcher

import "adalert-srv/internal/model"

// fieldAliases lets rules use a friendly name for a family of platform fields.
var fieldAliases = map[string][]string{
	"budget": {"daily_budget", "lifetime_budget"},
	"status": {"effective_status", "configured_status"},
	"bid":    {"bid_amount"},
}

type resolution struct {
	pair    model.FieldChange
	hasPair bool
	flat    any
	hasFlat bool
}

// current is the value a non-transition operator compares against: the new
// value of a before/after pair, or the flat property.
func (r resolution) current() (any, bool) {
	if r.hasPair {
		return r.pair.After, true
	}
	return r.flat, r.hasFlat
}

func resolve(event model.ChangeEvent, field string) resolution {
	if fc, ok := event.Change(field); ok {
		return resolution{pair: fc, hasPair: true}
	}
	for _, alias := range fieldAliases[field] {
		if fc, ok := event.Change(alias); ok {
			return resolution{pair: fc, hasPair: true}
		}
	}
	if v, ok := flatValue(event, field); ok {
		return resolution{flat: v, hasFlat: true}
	}
	return resolution{}
}

func flatValue(e model.ChangeEvent, field string) (any, bool) {
	switch field {
	case "platform":
		return string(e.Platform), true
	case "changeType", "change_type":
		return e.ChangeType, true
	case "entityType", "entity_type":
		return string(e.EntityType), true
	case "entityId", "entity_id":
		return e.EntityID, true
	case "entityName", "entity_name":
		return e.EntityName, true
	case "adAccountId", "ad_account_id":
		return e.AdAccountID, true
	case "organizationId", "organization_id":
		return e.OrganizationID, true
	}
	v, ok := e.Metadata[field]
	return v, ok
}
