package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInvitation_EffectiveStatus(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	inv := &WorkspaceInvitation{Status: InvitationStatusPending, ExpiresAt: now.Add(time.Hour)}
	assert.Equal(t, InvitationStatusPending, inv.EffectiveStatus(now))
	assert.True(t, inv.IsAcceptable(now))

	// Past the deadline a pending row reads as expired, even with no write.
	assert.Equal(t, InvitationStatusExpired, inv.EffectiveStatus(now.Add(2*time.Hour)))
	assert.False(t, inv.IsAcceptable(now.Add(2*time.Hour)))

	// Exactly at the deadline counts as expired.
	assert.Equal(t, InvitationStatusExpired, inv.EffectiveStatus(inv.ExpiresAt))

	// Terminal states are untouched by the clock.
	inv.Status = InvitationStatusAccepted
	assert.Equal(t, InvitationStatusAccepted, inv.EffectiveStatus(now.Add(48*time.Hour)))
	inv.Status = InvitationStatusRevoked
	assert.False(t, inv.IsAcceptable(now))
}

func TestFieldErrors(t *testing.T) {
	fe := FieldErrors{}
	assert.False(t, fe.HasErrors())

	fe.Add("email", "email is required")
	fe.Add("email", "email domain is not resolvable")
	fe.Add("role", "role is invalid")

	assert.True(t, fe.HasErrors())
	assert.Equal(t, []string{"email", "role"}, fe.Fields())
	assert.Len(t, fe["email"], 2)

	err := NewValidationError(fe)
	assert.Contains(t, err.Error(), "email is required")
	assert.Contains(t, err.Error(), "role: role is invalid")
}
