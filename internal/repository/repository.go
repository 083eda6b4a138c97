package repository

import (
	"context"
	"errors"
	"time"

	"mewayz-backend/internal/domain"
)

// Sentinel errors surfaced by InvitationRepository.Create when the
// transactional re-check fails. The service layer maps them onto the
// user-facing error taxonomy.
var (
	ErrDuplicatePending = errors.New("a pending invitation already exists for this email")
	ErrCapacityReached  = errors.New("workspace capacity reached")
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

type WorkspaceRepository interface {
	Create(ctx context.Context, ws *domain.Workspace) error
	GetByID(ctx context.Context, id int64) (*domain.Workspace, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Workspace, error)
	Update(ctx context.Context, ws *domain.Workspace) error
	ListByUser(ctx context.Context, userID int64) ([]domain.Workspace, error)

	// Members
	AddMember(ctx context.Context, member *domain.WorkspaceMember) error
	GetMember(ctx context.Context, workspaceID, userID int64) (*domain.WorkspaceMember, error)
	// GetMemberByEmail joins members to user records by email; used for the
	// already-a-member check at validation time.
	GetMemberByEmail(ctx context.Context, workspaceID int64, email string) (*domain.WorkspaceMember, error)
	ListMembers(ctx context.Context, workspaceID int64) ([]domain.User, []domain.WorkspaceMember, error)
	UpdateMemberRole(ctx context.Context, workspaceID, userID int64, role domain.Role) error
	RemoveMember(ctx context.Context, workspaceID, userID int64) error
	CountMembers(ctx context.Context, workspaceID int64) (int, error)
}

type InvitationRepository interface {
	// Create inserts a pending invitation. The duplicate-pending and
	// capacity checks are re-evaluated inside the insert transaction with
	// the workspace row locked, so concurrent creates cannot slip past the
	// validator's read-then-decide pass. Returns ErrDuplicatePending or
	// ErrCapacityReached when the re-check fails.
	Create(ctx context.Context, inv *domain.WorkspaceInvitation, capacityLimit int) error
	GetByID(ctx context.Context, id int64) (*domain.WorkspaceInvitation, error)
	GetByToken(ctx context.Context, token string) (*domain.WorkspaceInvitation, error)
	HasPending(ctx context.Context, workspaceID int64, email string) (bool, error)
	CountPending(ctx context.Context, workspaceID int64) (int, error)
	ListByWorkspace(ctx context.Context, workspaceID int64) ([]domain.WorkspaceInvitation, error)
	// UpdateStatus transitions an invitation from one status to another.
	// The update is conditional on the current status; zero rows affected
	// means the invitation was not in the expected state.
	UpdateStatus(ctx context.Context, id int64, from, to domain.InvitationStatus) error
	// Accept atomically marks the invitation accepted and inserts the new
	// workspace member.
	Accept(ctx context.Context, inv *domain.WorkspaceInvitation, member *domain.WorkspaceMember) error
	ExtendExpiry(ctx context.Context, id int64, expiresAt time.Time) error
	// MarkExpired stamps every pending invitation past its deadline as
	// expired and returns the number of rows updated.
	MarkExpired(ctx context.Context, now time.Time) (int64, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, note *domain.Notification) error
	List(ctx context.Context, userID int64, limit, offset int) ([]domain.Notification, int, error)
	MarkAsRead(ctx context.Context, id, userID int64) error
	PurgeRead(ctx context.Context, before time.Time) (int64, error)
}
