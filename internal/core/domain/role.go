package domain

// Role is an actor's system-wide classification, resolved once per request.
// The set is closed: anything outside it degrades to RoleUser.
type Role string

const (
	RoleUser       Role = "user"
	RoleTeamMember Role = "team_member"
	RoleTeamLeader Role = "team_leader"
	RoleClient     Role = "client"
	RoleAdmin      Role = "admin"
	RoleSuperadmin Role = "superadmin"
)

// AllRoles lists every role the deployment knows about.
var AllRoles = []Role{
	RoleUser, RoleTeamMember, RoleTeamLeader, RoleClient, RoleAdmin, RoleSuperadmin,
}

// ParseRole maps a raw string onto a known role, degrading to RoleUser
// (least privilege) when the value is unknown or empty.
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleTeamMember, RoleTeamLeader, RoleClient, RoleAdmin, RoleSuperadmin:
		return Role(s)
	default:
		return RoleUser
	}
}

// IsKnown reports whether s names one of the declared roles exactly.
// Used when a role is supplied as admin input rather than resolved from a token.
func IsKnown(s string) bool {
	switch Role(s) {
	case RoleUser, RoleTeamMember, RoleTeamLeader, RoleClient, RoleAdmin, RoleSuperadmin:
		return true
	}
	return false
}

// ManagerTier reports whether the role carries unrestricted mutation and
// reassignment rights (team_leader, admin, superadmin).
func (r Role) ManagerTier() bool {
	switch r {
	case RoleTeamLeader, RoleAdmin, RoleSuperadmin:
		return true
	}
	return false
}
