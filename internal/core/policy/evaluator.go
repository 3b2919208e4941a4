package policy

import (
	"sort"

	"github.com/tracklight/tracklight/internal/core/domain"
)

// Action identifies the operation being authorized.
type Action string

const (
	ActionIssueCreate   Action = "issue.create"
	ActionIssueUpdate   Action = "issue.update"
	ActionTaskCreate    Action = "task.create"
	ActionTaskUpdate    Action = "task.update"
	ActionUsersView     Action = "users.view"
	ActionUsersManage   Action = "users.manage"
	ActionProjectCreate Action = "project.create"
	ActionProjectsView  Action = "projects.view"
)

// ReasonCode is the stable denial code handed to the boundary layer, which
// maps it to a client-visible message without the evaluator knowing about
// transport formatting.
type ReasonCode string

const (
	ReasonRoleForbidden       ReasonCode = "ROLE_FORBIDDEN"
	ReasonNotOwner            ReasonCode = "NOT_OWNER"
	ReasonCapabilityMissing   ReasonCode = "CAPABILITY_MISSING"
	ReasonInvalidHierarchy    ReasonCode = "INVALID_HIERARCHY"
	ReasonSchemaDrift         ReasonCode = "SCHEMA_DRIFT"
	ReasonUpstreamUnavailable ReasonCode = "UPSTREAM_UNAVAILABLE"
)

// Canonical field names. These double as storage keys, so masks can be
// applied directly to raw update payloads.
const (
	FieldIssueTypeID      = "issue_type_id"
	FieldSummary          = "summary"
	FieldDescription      = "description"
	FieldStatus           = "status"
	FieldInternalPriority = "internal_priority"
	FieldClientPriority   = "client_priority"
	FieldAssigneeID       = "assignee_id"
	FieldReporterID       = "reporter_id"
	FieldSprintID         = "sprint_id"
	FieldReleaseID        = "release_id"
	FieldParentIssueID    = "parent_issue_id"
	FieldStoryPoints      = "story_points"
	FieldLabels           = "labels"
	FieldComponents       = "components"
	FieldDueDate          = "due_date"
	FieldEstimatedDays    = "estimated_days"
	FieldActualDays       = "actual_days"
	FieldExposedToClient  = "exposed_to_client"
	FieldUpdatedAt        = "updated_at"

	FieldTitle      = "title"
	FieldAssignedTo = "assigned_to"

	// FieldLegacyPriority is the single-tier priority column kept for
	// degraded writes against drifted schemas.
	FieldLegacyPriority = "priority"
)

// FieldMask is the subset of a record's fields a decision permits mutating.
type FieldMask map[string]struct{}

// NewFieldMask builds a mask from field names.
func NewFieldMask(fields ...string) FieldMask {
	m := make(FieldMask, len(fields))
	for _, f := range fields {
		m[f] = struct{}{}
	}
	return m
}

// Contains reports whether field is in the mask.
func (m FieldMask) Contains(field string) bool {
	_, ok := m[field]
	return ok
}

// Fields returns the mask's field names in sorted order.
func (m FieldMask) Fields() []string {
	out := make([]string, 0, len(m))
	for f := range m {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// issueMutableFields is every issue field reachable through an update.
// ReporterID is set once at create and is deliberately absent.
func issueMutableFields() FieldMask {
	return NewFieldMask(
		FieldIssueTypeID, FieldSummary, FieldDescription, FieldStatus,
		FieldInternalPriority, FieldClientPriority, FieldAssigneeID,
		FieldSprintID, FieldReleaseID, FieldParentIssueID, FieldStoryPoints,
		FieldLabels, FieldComponents, FieldDueDate, FieldEstimatedDays,
		FieldActualDays, FieldExposedToClient,
	)
}

func taskMutableFields() FieldMask {
	return NewFieldMask(FieldTitle, FieldDescription, FieldStatus, FieldAssignedTo, FieldDueDate)
}

// Snapshot carries the ownership facts of the target resource. Only the
// fields relevant to the action need to be populated.
type Snapshot struct {
	// Issue ownership.
	AssigneeID string
	ReporterID string
	// Task ownership.
	CreatedBy  string
	AssignedTo string
	// Requested assignee on create, or the new value of an assignment field
	// on update ("" means the payload does not touch the assignment).
	TargetAssignee string
	// ClearAssignment marks a payload that sets the assignment to null.
	ClearAssignment bool
}

// Decision is the evaluator's verdict: an allowed field mask or a denial
// carrying a stable reason code.
type Decision struct {
	Allowed bool
	Mask    FieldMask
	Reason  ReasonCode
}

// Allow builds a permissive decision with the given mask.
func Allow(mask FieldMask) Decision {
	return Decision{Allowed: true, Mask: mask}
}

// Deny builds a denial carrying reason.
func Deny(reason ReasonCode) Decision {
	return Decision{Reason: reason}
}

// Err maps a denial to its domain error; nil for allowed decisions.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	switch d.Reason {
	case ReasonNotOwner:
		return domain.ErrNotOwner
	case ReasonCapabilityMissing:
		return domain.ErrCapabilityMissing
	default:
		return domain.ErrRoleForbidden
	}
}

// Evaluator answers allow/deny questions against an immutable Registry.
type Evaluator struct {
	reg Registry
}

// NewEvaluator builds an Evaluator over the given registry.
func NewEvaluator(reg Registry) Evaluator {
	return Evaluator{reg: reg}
}

// Evaluate applies the authorization rules in precedence order and returns
// either Allow with the permitted field mask or Deny with a reason code.
func (e Evaluator) Evaluate(role domain.Role, action Action, snap Snapshot, actorID string) Decision {
	caps := e.reg.CapabilitiesFor(role)

	switch action {
	case ActionIssueCreate:
		if !caps.Project.CanCreateIssues {
			return Deny(ReasonCapabilityMissing)
		}
		// Self-assignment is always allowed regardless of capability.
		if snap.TargetAssignee != "" && snap.TargetAssignee != actorID && !caps.Project.CanAssignIssuesToOthers {
			return Deny(ReasonCapabilityMissing)
		}
		return Allow(issueMutableFields())

	case ActionTaskCreate:
		if snap.TargetAssignee != "" && snap.TargetAssignee != actorID && !role.ManagerTier() {
			return Deny(ReasonRoleForbidden)
		}
		return Allow(taskMutableFields())

	case ActionIssueUpdate:
		switch {
		case role == domain.RoleClient:
			return Allow(NewFieldMask(FieldClientPriority, FieldDescription))
		case role == domain.RoleTeamMember:
			if actorID != snap.AssigneeID && actorID != snap.ReporterID {
				return Deny(ReasonNotOwner)
			}
			return Allow(NewFieldMask(FieldStatus, FieldInternalPriority))
		case role.ManagerTier():
			return Allow(issueMutableFields())
		default:
			return Deny(ReasonRoleForbidden)
		}

	case ActionTaskUpdate:
		if role.ManagerTier() {
			return Allow(taskMutableFields())
		}
		switch role {
		case domain.RoleUser:
			if snap.CreatedBy != actorID {
				return Deny(ReasonNotOwner)
			}
		case domain.RoleTeamMember:
			if snap.AssignedTo != actorID && snap.CreatedBy != actorID {
				return Deny(ReasonNotOwner)
			}
		default:
			return Deny(ReasonRoleForbidden)
		}
		// Non-managers may keep or take the assignment, never hand it off.
		if snap.TargetAssignee != "" && snap.TargetAssignee != actorID && snap.TargetAssignee != snap.AssignedTo {
			return Deny(ReasonRoleForbidden)
		}
		// Clearing a held assignment hands it off to nobody.
		if snap.ClearAssignment && snap.AssignedTo != "" {
			return Deny(ReasonRoleForbidden)
		}
		return Allow(taskMutableFields())

	case ActionUsersView:
		if !caps.Global.CanViewAllUsers {
			return Deny(ReasonCapabilityMissing)
		}
		return Allow(nil)

	case ActionUsersManage:
		if !caps.Global.CanManageUsers {
			return Deny(ReasonCapabilityMissing)
		}
		return Allow(nil)

	case ActionProjectCreate:
		if !caps.Global.CanCreateProjects {
			return Deny(ReasonCapabilityMissing)
		}
		return Allow(nil)

	case ActionProjectsView:
		if !caps.Global.CanViewAllProjects {
			return Deny(ReasonCapabilityMissing)
		}
		return Allow(nil)
	}

	return Deny(ReasonRoleForbidden)
}
