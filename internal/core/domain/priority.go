package domain

// Internal priority tiers. Client priority is freeform and lives alongside
// these as an arbitrary client-facing label.
const (
	PriorityP1 = "P1"
	PriorityP2 = "P2"
	PriorityP3 = "P3"
	PriorityP4 = "P4"
	PriorityP5 = "P5"
)

// DefaultInternalPriority is applied when neither an internal nor a legacy
// priority value is supplied on create.
const DefaultInternalPriority = PriorityP3

// legacyToInternal maps the single-tier tokens that predate the
// internal/client split onto the current internal tiers.
var legacyToInternal = map[string]string{
	"highest": PriorityP1,
	"high":    PriorityP2,
	"medium":  PriorityP3,
	"low":     PriorityP4,
	"lowest":  PriorityP5,
}

var internalToLegacy = map[string]string{
	PriorityP1: "highest",
	PriorityP2: "high",
	PriorityP3: "medium",
	PriorityP4: "low",
	PriorityP5: "lowest",
}

// NormalizeOnCreate reconciles the two priority inputs a create payload may
// carry. The internal value wins when present; a legacy token in the internal
// slot is translated through the mapping table. The legacy value is only
// consulted when the internal one is absent. Unrecognized tokens pass through
// unchanged: priority is advisory metadata, never a reason to reject a write.
func NormalizeOnCreate(rawInternal, rawLegacy string) string {
	if rawInternal != "" {
		if mapped, ok := legacyToInternal[rawInternal]; ok {
			return mapped
		}
		return rawInternal
	}
	if rawLegacy != "" {
		if mapped, ok := legacyToInternal[rawLegacy]; ok {
			return mapped
		}
		return rawLegacy
	}
	return DefaultInternalPriority
}

// ToLegacy translates an internal priority back to its single-tier token for
// backward-compatible writes. Unknown values pass through unchanged.
func ToLegacy(internal string) string {
	if legacy, ok := internalToLegacy[internal]; ok {
		return legacy
	}
	return internal
}
