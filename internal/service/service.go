package service

import (
	"context"
	"time"

	"mewayz-backend/internal/domain"
)

type AuthService interface {
	Signup(ctx context.Context, name, email, password string) (*domain.User, string, string, error) // user, access, refresh
	Login(ctx context.Context, email, password string) (*domain.User, string, string, error)
	RefreshToken(ctx context.Context, refresh string) (string, string, error)
}

// CreateInvitationInput is the raw, unnormalized invitation request as it
// arrives from the dashboard.
type CreateInvitationInput struct {
	Email           string `json:"email"`
	Role            string `json:"role"`
	Department      string `json:"department,omitempty"`
	Position        string `json:"position,omitempty"`
	PersonalMessage string `json:"personal_message,omitempty"`
	ExpiresInDays   *int   `json:"expires_in_days,omitempty"`
}

type InvitationService interface {
	// Create validates the request and persists a pending invitation,
	// then dispatches the invitation email and an activity-feed event.
	// callerIP is recorded in the audit log on validation failure.
	Create(ctx context.Context, workspaceID, inviterID int64, in CreateInvitationInput, callerIP string) (*domain.WorkspaceInvitation, error)
	List(ctx context.Context, workspaceID, actorID int64) ([]domain.WorkspaceInvitation, error)
	GetByToken(ctx context.Context, token string) (*domain.WorkspaceInvitation, error)
	Accept(ctx context.Context, token string, userID int64) (*domain.WorkspaceMember, error)
	Decline(ctx context.Context, token string) error
	Revoke(ctx context.Context, workspaceID, invitationID, actorID int64) error
	Resend(ctx context.Context, workspaceID, invitationID, actorID int64) (*domain.WorkspaceInvitation, error)
}

type WorkspaceService interface {
	CreateWorkspace(ctx context.Context, userID int64, name, description string) (*domain.Workspace, error)
	GetWorkspace(ctx context.Context, workspaceID, userID int64) (*domain.Workspace, error)
	ListMyWorkspaces(ctx context.Context, userID int64) ([]domain.Workspace, error)
	UpdateOnboardingStep(ctx context.Context, workspaceID, userID int64, step int32) (*domain.Workspace, error)
	CompleteOnboarding(ctx context.Context, workspaceID, userID int64, plan string) (*domain.Workspace, error)
	ListMembers(ctx context.Context, workspaceID, actorID int64) ([]domain.User, []domain.WorkspaceMember, error)
	UpdateMemberRole(ctx context.Context, workspaceID, actorID, targetUserID int64, role string) error
	RemoveMember(ctx context.Context, workspaceID, actorID, targetUserID int64) error
}

type NotificationService interface {
	GetNotifications(ctx context.Context, userID int64, page, pageSize int) ([]domain.Notification, int, error)
	MarkAsRead(ctx context.Context, userID, notificationID int64) error
}

type EmailService interface {
	SendInvitation(ctx context.Context, email, workspaceName, inviterName, token, personalMessage string, expiresAt time.Time) error
	SendInvitationAccepted(ctx context.Context, inviterEmail, memberEmail, workspaceName string) error
}

// Authorizer is the external policy collaborator consulted before any field
// validation runs.
type Authorizer interface {
	CanCreateInvitation(member *domain.WorkspaceMember) bool
	CanRevokeInvitation(member *domain.WorkspaceMember, inv *domain.WorkspaceInvitation) bool
}
