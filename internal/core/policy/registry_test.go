package policy

import (
	"testing"

	"github.com/tracklight/tracklight/internal/core/domain"
)

func TestDefaultRegistry_UnknownRoleFallsBackToUser(t *testing.T) {
	reg := DefaultRegistry()

	got := reg.CapabilitiesFor(domain.Role("intruder"))
	want := reg.CapabilitiesFor(domain.RoleUser)
	if got != want {
		t.Errorf("unknown role must resolve to the user set: got %+v", got)
	}
}

func TestDefaultRegistry_EmptyRegistryDeniesEverything(t *testing.T) {
	reg := NewRegistry(nil)

	got := reg.CapabilitiesFor(domain.RoleAdmin)
	if got != (CapabilitySet{}) {
		t.Errorf("empty registry must yield the zero set, got %+v", got)
	}
}

func TestDefaultRegistry_BaselineGrants(t *testing.T) {
	reg := DefaultRegistry()

	for _, role := range []domain.Role{domain.RoleUser, domain.RoleClient, domain.RoleTeamMember} {
		caps := reg.CapabilitiesFor(role)
		if !caps.Project.CanCreateIssues {
			t.Errorf("%s must be able to create issues", role)
		}
		if caps.Global.CanManageUsers || caps.Project.CanAssignIssuesToOthers {
			t.Errorf("%s must not carry elevated grants: %+v", role, caps)
		}
	}
}

func TestDefaultRegistry_ManagerGrants(t *testing.T) {
	reg := DefaultRegistry()

	leader := reg.CapabilitiesFor(domain.RoleTeamLeader)
	if leader.Global.CanManageUsers {
		t.Error("team_leader must not manage users")
	}
	if !leader.Global.CanCreateProjects || !leader.Project.CanAssignIssuesToOthers {
		t.Errorf("team_leader missing expected grants: %+v", leader)
	}
	if !leader.Project.AutoMemberOnCreate {
		t.Error("team_leader must auto-join projects it creates")
	}

	for _, role := range []domain.Role{domain.RoleAdmin, domain.RoleSuperadmin} {
		caps := reg.CapabilitiesFor(role)
		if !caps.Global.CanManageUsers || !caps.Global.CanViewAllUsers ||
			!caps.Global.CanCreateProjects || !caps.Global.CanViewAllProjects {
			t.Errorf("%s missing global grants: %+v", role, caps)
		}
	}
}

func TestNewRegistry_CopiesInput(t *testing.T) {
	sets := map[domain.Role]CapabilitySet{
		domain.RoleUser: {Project: ProjectCapabilities{CanCreateIssues: true}},
	}
	reg := NewRegistry(sets)

	// Mutating the source map must not leak into the registry.
	sets[domain.RoleUser] = CapabilitySet{}

	if !reg.CapabilitiesFor(domain.RoleUser).Project.CanCreateIssues {
		t.Error("registry must copy the grant map at construction")
	}
}
