// Package policy implements the role/capability registry, the permission
// evaluator, and the mutation sanitizer. Everything here is pure: no storage
// access, no ambient state. The registry is built once at startup and passed
// into the evaluator explicitly.
package policy

import "github.com/tracklight/tracklight/internal/core/domain"

// GlobalCapabilities are system-wide boolean switches.
type GlobalCapabilities struct {
	CanManageUsers     bool
	CanViewAllUsers    bool
	CanCreateProjects  bool
	CanViewAllProjects bool
}

// ProjectCapabilities are per-project switches and policy flags.
type ProjectCapabilities struct {
	AutoMemberOnCreate      bool
	CanManageMembers        bool
	CanCreateIssues         bool
	CanAssignIssuesToOthers bool
}

// CapabilitySet is the full grant for one role.
type CapabilitySet struct {
	Global  GlobalCapabilities
	Project ProjectCapabilities
}

// Registry maps roles to capability sets. Immutable after construction.
type Registry struct {
	sets map[domain.Role]CapabilitySet
}

// NewRegistry builds a Registry from explicit per-role grants. The map is
// copied so callers cannot mutate the registry afterwards.
func NewRegistry(sets map[domain.Role]CapabilitySet) Registry {
	copied := make(map[domain.Role]CapabilitySet, len(sets))
	for role, set := range sets {
		copied[role] = set
	}
	return Registry{sets: copied}
}

// DefaultRegistry returns the reference deployment's capability table.
func DefaultRegistry() Registry {
	return NewRegistry(map[domain.Role]CapabilitySet{
		domain.RoleUser: {
			Project: ProjectCapabilities{CanCreateIssues: true},
		},
		domain.RoleClient: {
			Project: ProjectCapabilities{CanCreateIssues: true},
		},
		domain.RoleTeamMember: {
			Project: ProjectCapabilities{CanCreateIssues: true},
		},
		domain.RoleTeamLeader: {
			Global: GlobalCapabilities{
				CanViewAllUsers:    true,
				CanCreateProjects:  true,
				CanViewAllProjects: true,
			},
			Project: ProjectCapabilities{
				AutoMemberOnCreate:      true,
				CanManageMembers:        true,
				CanCreateIssues:         true,
				CanAssignIssuesToOthers: true,
			},
		},
		domain.RoleAdmin: {
			Global: GlobalCapabilities{
				CanManageUsers:     true,
				CanViewAllUsers:    true,
				CanCreateProjects:  true,
				CanViewAllProjects: true,
			},
			Project: ProjectCapabilities{
				AutoMemberOnCreate:      true,
				CanManageMembers:        true,
				CanCreateIssues:         true,
				CanAssignIssuesToOthers: true,
			},
		},
		domain.RoleSuperadmin: {
			Global: GlobalCapabilities{
				CanManageUsers:     true,
				CanViewAllUsers:    true,
				CanCreateProjects:  true,
				CanViewAllProjects: true,
			},
			Project: ProjectCapabilities{
				AutoMemberOnCreate:      true,
				CanManageMembers:        true,
				CanCreateIssues:         true,
				CanAssignIssuesToOthers: true,
			},
		},
	})
}

// CapabilitiesFor resolves a role to its capability set. Never fails: an
// unknown role resolves to the user role's set, and a registry missing even
// that yields the zero (deny-everything) set.
func (r Registry) CapabilitiesFor(role domain.Role) CapabilitySet {
	if set, ok := r.sets[role]; ok {
		return set
	}
	return r.sets[domain.RoleUser]
}
