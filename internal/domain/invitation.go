package domain

import "time"

type InvitationStatus string

const (
	InvitationStatusPending  InvitationStatus = "pending"
	InvitationStatusAccepted InvitationStatus = "accepted"
	InvitationStatusDeclined InvitationStatus = "declined"
	InvitationStatusExpired  InvitationStatus = "expired"
	InvitationStatusRevoked  InvitationStatus = "revoked"
)

type WorkspaceInvitation struct {
	ID              int64            `json:"id"`
	Token           string           `json:"token,omitempty"`
	WorkspaceID     int64            `json:"workspace_id"`
	Email           string           `json:"email"`
	Role            Role             `json:"role"`
	Department      string           `json:"department,omitempty"`
	Position        string           `json:"position,omitempty"`
	PersonalMessage string           `json:"personal_message,omitempty"`
	Status          InvitationStatus `json:"status"`
	ExpiresAt       time.Time        `json:"expires_at"`
	InviterID       int64            `json:"inviter_id"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// EffectiveStatus resolves lazy expiry: a pending invitation whose deadline
// has passed reads as expired even before the sweep job has stamped it.
func (i *WorkspaceInvitation) EffectiveStatus(now time.Time) InvitationStatus {
	if i.Status == InvitationStatusPending && !now.Before(i.ExpiresAt) {
		return InvitationStatusExpired
	}
	return i.Status
}

// IsAcceptable reports whether the invitation can still transition out of
// pending via recipient action at the given instant.
func (i *WorkspaceInvitation) IsAcceptable(now time.Time) bool {
	return i.EffectiveStatus(now) == InvitationStatusPending
}
