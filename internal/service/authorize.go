package service

import "mewayz-backend/internal/domain"

// roleAuthorizer grants invitation capabilities from the member's workspace
// role alone. It answers whether the member may act at all; which roles they
// may grant is decided separately by the role hierarchy.
type roleAuthorizer struct{}

func NewRoleAuthorizer() Authorizer {
	return roleAuthorizer{}
}

func (roleAuthorizer) CanCreateInvitation(member *domain.WorkspaceMember) bool {
	return member != nil && member.Role.CanManageInvitations()
}

func (roleAuthorizer) CanRevokeInvitation(member *domain.WorkspaceMember, inv *domain.WorkspaceInvitation) bool {
	// Revoking an invitation requires the same standing as issuing it.
	return member != nil && member.Role.CanInvite(inv.Role)
}
