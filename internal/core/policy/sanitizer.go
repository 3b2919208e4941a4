package policy

import "github.com/tracklight/tracklight/internal/core/domain"

// stableFields is the reduced field set known to exist in every deployed
// schema generation. The degraded fallback path restricts writes to these.
var stableFields = NewFieldMask(
	FieldSummary, FieldDescription, FieldStatus, FieldStoryPoints,
	FieldLabels, FieldDueDate, FieldEstimatedDays, FieldActualDays,
	FieldExposedToClient, FieldUpdatedAt,
)

// Sanitize returns a copy of raw with every key outside mask dropped.
// Disallowed keys are dropped silently (a no-op, not an error), and the
// operation is idempotent. The input map is never mutated.
func Sanitize(raw map[string]any, mask FieldMask) map[string]any {
	safe := make(map[string]any, len(raw))
	for k, v := range raw {
		if mask.Contains(k) {
			safe[k] = v
		}
	}
	return safe
}

// DegradedPayload rebuilds payload for a retry against a drifted schema:
// only the known-stable field set survives, the field the storage error named
// is dropped, and the internal priority is re-expressed as the legacy
// single-tier token the old schema understands.
func DegradedPayload(payload map[string]any, offendingField string) map[string]any {
	out := make(map[string]any, len(payload))
	for k, v := range payload {
		// The internal tier is re-expressed in the legacy column even when it
		// is the very field the store rejected.
		if k == FieldInternalPriority {
			if s, ok := v.(string); ok {
				out[FieldLegacyPriority] = domain.ToLegacy(s)
			}
			continue
		}
		if k == offendingField {
			continue
		}
		if !stableFields.Contains(k) {
			continue
		}
		out[k] = v
	}
	if offendingField == FieldLegacyPriority {
		delete(out, FieldLegacyPriority)
	}
	return out
}
