package domain

import "strings"

// Role is a member's standing within a single workspace. A user holds one
// role per workspace and may hold different roles in different workspaces.
type Role string

const (
	RoleOwner       Role = "owner"
	RoleAdmin       Role = "admin"
	RoleEditor      Role = "editor"
	RoleContributor Role = "contributor"
	RoleViewer      Role = "viewer"
	RoleGuest       Role = "guest"
)

// Roles lists every valid role, highest-ranked first.
var Roles = []Role{RoleOwner, RoleAdmin, RoleEditor, RoleContributor, RoleViewer, RoleGuest}

// grantableRoles is the complete grant table: which roles each role may hand
// out through an invitation. Only the owner may grant its own rank or above;
// every other role grants strictly below itself.
var grantableRoles = map[Role]map[Role]bool{
	RoleOwner: {
		RoleOwner: true, RoleAdmin: true, RoleEditor: true,
		RoleContributor: true, RoleViewer: true, RoleGuest: true,
	},
	RoleAdmin: {
		RoleEditor: true, RoleContributor: true, RoleViewer: true, RoleGuest: true,
	},
	RoleEditor: {
		RoleContributor: true, RoleViewer: true, RoleGuest: true,
	},
	RoleContributor: {
		RoleViewer: true, RoleGuest: true,
	},
	RoleViewer: {},
	RoleGuest:  {},
}

// ParseRole maps user input onto a known role, ignoring case and surrounding
// whitespace.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	_, ok := grantableRoles[r]
	return r, ok
}

// CanInvite reports whether the role may grant target through an invitation.
// Unknown roles on either side are denied.
func (r Role) CanInvite(target Role) bool {
	return grantableRoles[r][target]
}

// CanManageInvitations reports whether the role may create, revoke, or resend
// invitations at all. Viewers and guests have no grantable roles and are
// excluded entirely.
func (r Role) CanManageInvitations() bool {
	return len(grantableRoles[r]) > 0
}
