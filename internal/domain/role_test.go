package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// The full inviter -> grantable-roles table. Everything not listed here must
// be denied, including self-grants by non-owners and unknown roles.
var inviteTable = map[Role][]Role{
	RoleOwner:       {RoleOwner, RoleAdmin, RoleEditor, RoleContributor, RoleViewer, RoleGuest},
	RoleAdmin:       {RoleEditor, RoleContributor, RoleViewer, RoleGuest},
	RoleEditor:      {RoleContributor, RoleViewer, RoleGuest},
	RoleContributor: {RoleViewer, RoleGuest},
	RoleViewer:      {},
	RoleGuest:       {},
}

func TestRole_CanInvite_FullTable(t *testing.T) {
	for _, inviter := range Roles {
		allowed := map[Role]bool{}
		for _, r := range inviteTable[inviter] {
			allowed[r] = true
		}
		for _, target := range Roles {
			got := inviter.CanInvite(target)
			assert.Equalf(t, allowed[target], got, "inviter=%s target=%s", inviter, target)
		}
	}
}

func TestRole_CanInvite_NoPeerOrSuperior(t *testing.T) {
	// Aside from owner, no role may invite its own role or any role above it.
	rank := map[Role]int{RoleOwner: 0, RoleAdmin: 1, RoleEditor: 2, RoleContributor: 3, RoleViewer: 4, RoleGuest: 5}
	for _, inviter := range Roles {
		if inviter == RoleOwner {
			continue
		}
		for _, target := range Roles {
			if rank[target] <= rank[inviter] {
				assert.Falsef(t, inviter.CanInvite(target), "inviter=%s target=%s", inviter, target)
			}
		}
	}
}

func TestRole_CanInvite_UnknownRole(t *testing.T) {
	assert.False(t, Role("").CanInvite(RoleGuest))
	assert.False(t, Role("superuser").CanInvite(RoleGuest))
	assert.False(t, RoleOwner.CanInvite(Role("superuser")))
}

func TestParseRole(t *testing.T) {
	r, ok := ParseRole("  Editor ")
	assert.True(t, ok)
	assert.Equal(t, RoleEditor, r)

	_, ok = ParseRole("manager")
	assert.False(t, ok)
}

func TestRole_CanManageInvitations(t *testing.T) {
	assert.True(t, RoleOwner.CanManageInvitations())
	assert.True(t, RoleContributor.CanManageInvitations())
	assert.False(t, RoleViewer.CanManageInvitations())
	assert.False(t, RoleGuest.CanManageInvitations())
	assert.False(t, Role("").CanManageInvitations())
}
