package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"mewayz-backend/internal/config"
	"mewayz-backend/internal/domain"
	"mewayz-backend/internal/logger"
	"mewayz-backend/internal/repository"

	"github.com/google/uuid"
)

type invitationService struct {
	wsRepo     repository.WorkspaceRepository
	invRepo    repository.InvitationRepository
	userRepo   repository.UserRepository
	noteRepo   repository.NotificationRepository
	emailSvc   EmailService
	authorizer Authorizer
	resolver   DomainResolver

	defaultExpiryDays int
	maxExpiryDays     int
	capacityLimit     int

	now func() time.Time
}

func NewInvitationService(
	wsRepo repository.WorkspaceRepository,
	invRepo repository.InvitationRepository,
	userRepo repository.UserRepository,
	noteRepo repository.NotificationRepository,
	emailSvc EmailService,
	authorizer Authorizer,
	resolver DomainResolver,
	cfg config.InvitationConfig,
) InvitationService {
	return &invitationService{
		wsRepo:            wsRepo,
		invRepo:           invRepo,
		userRepo:          userRepo,
		noteRepo:          noteRepo,
		emailSvc:          emailSvc,
		authorizer:        authorizer,
		resolver:          resolver,
		defaultExpiryDays: cfg.DefaultExpiryDays,
		maxExpiryDays:     cfg.MaxExpiryDays,
		capacityLimit:     cfg.CapacityLimit,
		now:               time.Now,
	}
}

func (s *invitationService) Create(ctx context.Context, workspaceID, inviterID int64, in CreateInvitationInput, callerIP string) (*domain.WorkspaceInvitation, error) {
	ws, err := s.wsRepo.GetByID(ctx, workspaceID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewNotFoundError("workspace", workspaceID)
		}
		return nil, fmt.Errorf("failed to load workspace: %w", err)
	}

	inviter, err := s.memberOf(ctx, workspaceID, inviterID)
	if err != nil {
		return nil, err
	}
	if !s.authorizer.CanCreateInvitation(inviter) {
		return nil, &domain.PermissionError{Reason: "your role does not permit creating invitations"}
	}

	inv, err := s.validate(ctx, ws, inviter, &in)
	if err != nil {
		var verr *domain.ValidationError
		var cerr *domain.CapacityError
		switch {
		case errors.As(err, &verr):
			logValidationFailure(ctx, workspaceID, inviterID, &in, verr.Errors, callerIP)
		case errors.As(err, &cerr):
			logCapacityRejection(ctx, workspaceID, inviterID, &in, cerr.Limit, callerIP)
		}
		return nil, err
	}
	inv.Token = uuid.NewString()

	// The repository re-runs the duplicate and capacity checks inside the
	// insert transaction; its verdict wins over the reads above.
	if err := s.invRepo.Create(ctx, inv, s.capacityLimit); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicatePending):
			errs := domain.FieldErrors{}
			errs.Add("email", "a pending invitation already exists for this email")
			logValidationFailure(ctx, workspaceID, inviterID, &in, errs, callerIP)
			return nil, domain.NewValidationError(errs)
		case errors.Is(err, repository.ErrCapacityReached):
			logCapacityRejection(ctx, workspaceID, inviterID, &in, s.capacityLimit, callerIP)
			return nil, &domain.CapacityError{Limit: s.capacityLimit}
		case errors.Is(err, sql.ErrNoRows):
			return nil, domain.NewNotFoundError("workspace", workspaceID)
		}
		return nil, fmt.Errorf("failed to create invitation: %w", err)
	}

	s.dispatchInvitation(ctx, ws, inv, inviter)
	return inv, nil
}

// dispatchInvitation sends the invitation email and records the activity-feed
// event. Neither failure rolls back the stored invitation.
func (s *invitationService) dispatchInvitation(ctx context.Context, ws *domain.Workspace, inv *domain.WorkspaceInvitation, inviter *domain.WorkspaceMember) {
	inviterName := ""
	if u, err := s.userRepo.GetByID(ctx, inviter.UserID); err == nil {
		inviterName = u.Name
	}

	if err := s.emailSvc.SendInvitation(ctx, inv.Email, ws.Name, inviterName, inv.Token, inv.PersonalMessage, inv.ExpiresAt); err != nil {
		logger.ErrorContext(ctx, "failed to send invitation email", "invitation_id", inv.ID, "error", err)
	}

	note := &domain.Notification{
		UserID:      ws.OwnerID,
		WorkspaceID: ws.ID,
		Title:       "Invitation sent",
		Message:     fmt.Sprintf("%s was invited to %s as %s", inv.Email, ws.Name, inv.Role),
		Attributes: map[string]string{
			"invitation_id": fmt.Sprint(inv.ID),
			"role":          string(inv.Role),
		},
	}
	if err := s.noteRepo.Create(ctx, note); err != nil {
		logger.ErrorContext(ctx, "failed to record invitation activity", "invitation_id", inv.ID, "error", err)
	}
}

func (s *invitationService) List(ctx context.Context, workspaceID, actorID int64) ([]domain.WorkspaceInvitation, error) {
	if _, err := s.memberOf(ctx, workspaceID, actorID); err != nil {
		return nil, err
	}

	invitations, err := s.invRepo.ListByWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list invitations: %w", err)
	}

	// Readers must never see a timed-out invitation as pending.
	now := s.now()
	for i := range invitations {
		invitations[i].Status = invitations[i].EffectiveStatus(now)
	}
	return invitations, nil
}

func (s *invitationService) GetByToken(ctx context.Context, token string) (*domain.WorkspaceInvitation, error) {
	inv, err := s.invRepo.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewNotFoundError("invitation", token)
		}
		return nil, fmt.Errorf("failed to load invitation: %w", err)
	}
	inv.Status = inv.EffectiveStatus(s.now())
	return inv, nil
}

func (s *invitationService) Accept(ctx context.Context, token string, userID int64) (*domain.WorkspaceMember, error) {
	inv, err := s.invRepo.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewNotFoundError("invitation", token)
		}
		return nil, fmt.Errorf("failed to load invitation: %w", err)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewNotFoundError("user", userID)
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if !strings.EqualFold(user.Email, inv.Email) {
		return nil, &domain.PermissionError{Reason: "this invitation was issued to a different email address"}
	}

	if err := s.requirePending(inv); err != nil {
		return nil, err
	}

	member := &domain.WorkspaceMember{
		WorkspaceID: inv.WorkspaceID,
		UserID:      userID,
		Role:        inv.Role,
		Department:  inv.Department,
		Position:    inv.Position,
	}
	if err := s.invRepo.Accept(ctx, inv, member); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Lost a race against another transition.
			return nil, &domain.StateError{Reason: "invitation is no longer pending"}
		}
		return nil, fmt.Errorf("failed to accept invitation: %w", err)
	}

	s.notifyAccepted(ctx, inv, user)
	return member, nil
}

func (s *invitationService) notifyAccepted(ctx context.Context, inv *domain.WorkspaceInvitation, user *domain.User) {
	ws, err := s.wsRepo.GetByID(ctx, inv.WorkspaceID)
	if err != nil {
		logger.ErrorContext(ctx, "failed to load workspace for accept notification", "workspace_id", inv.WorkspaceID, "error", err)
		return
	}

	if inviter, err := s.userRepo.GetByID(ctx, inv.InviterID); err == nil {
		if err := s.emailSvc.SendInvitationAccepted(ctx, inviter.Email, user.Email, ws.Name); err != nil {
			logger.ErrorContext(ctx, "failed to send acceptance email", "invitation_id", inv.ID, "error", err)
		}
	}

	note := &domain.Notification{
		UserID:      inv.InviterID,
		WorkspaceID: inv.WorkspaceID,
		Title:       "Invitation accepted",
		Message:     fmt.Sprintf("%s joined %s as %s", user.Email, ws.Name, inv.Role),
		Attributes:  map[string]string{"invitation_id": fmt.Sprint(inv.ID)},
	}
	if err := s.noteRepo.Create(ctx, note); err != nil {
		logger.ErrorContext(ctx, "failed to record acceptance activity", "invitation_id", inv.ID, "error", err)
	}
}

func (s *invitationService) Decline(ctx context.Context, token string) error {
	inv, err := s.invRepo.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NewNotFoundError("invitation", token)
		}
		return fmt.Errorf("failed to load invitation: %w", err)
	}

	if err := s.requirePending(inv); err != nil {
		return err
	}

	if err := s.invRepo.UpdateStatus(ctx, inv.ID, domain.InvitationStatusPending, domain.InvitationStatusDeclined); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &domain.StateError{Reason: "invitation is no longer pending"}
		}
		return fmt.Errorf("failed to decline invitation: %w", err)
	}
	return nil
}

func (s *invitationService) Revoke(ctx context.Context, workspaceID, invitationID, actorID int64) error {
	inv, err := s.invitationInWorkspace(ctx, workspaceID, invitationID)
	if err != nil {
		return err
	}

	actor, err := s.memberOf(ctx, workspaceID, actorID)
	if err != nil {
		return err
	}
	if !s.authorizer.CanRevokeInvitation(actor, inv) {
		return &domain.PermissionError{Reason: fmt.Sprintf("your role '%s' does not permit revoking a '%s' invitation", actor.Role, inv.Role)}
	}

	if err := s.requirePending(inv); err != nil {
		return err
	}

	if err := s.invRepo.UpdateStatus(ctx, inv.ID, domain.InvitationStatusPending, domain.InvitationStatusRevoked); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &domain.StateError{Reason: "invitation is no longer pending"}
		}
		return fmt.Errorf("failed to revoke invitation: %w", err)
	}
	return nil
}

func (s *invitationService) Resend(ctx context.Context, workspaceID, invitationID, actorID int64) (*domain.WorkspaceInvitation, error) {
	inv, err := s.invitationInWorkspace(ctx, workspaceID, invitationID)
	if err != nil {
		return nil, err
	}

	actor, err := s.memberOf(ctx, workspaceID, actorID)
	if err != nil {
		return nil, err
	}
	if !s.authorizer.CanRevokeInvitation(actor, inv) {
		return nil, &domain.PermissionError{Reason: fmt.Sprintf("your role '%s' does not permit resending a '%s' invitation", actor.Role, inv.Role)}
	}

	if err := s.requirePending(inv); err != nil {
		return nil, err
	}

	inv.ExpiresAt = s.now().AddDate(0, 0, s.defaultExpiryDays)
	if err := s.invRepo.ExtendExpiry(ctx, inv.ID, inv.ExpiresAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &domain.StateError{Reason: "invitation is no longer pending"}
		}
		return nil, fmt.Errorf("failed to extend invitation: %w", err)
	}

	ws, err := s.wsRepo.GetByID(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to load workspace: %w", err)
	}
	s.dispatchInvitation(ctx, ws, inv, actor)
	return inv, nil
}

// requirePending enforces lazy expiry on every lifecycle transition: a
// pending row past its deadline is treated as expired even though the sweep
// has not stamped it yet.
func (s *invitationService) requirePending(inv *domain.WorkspaceInvitation) error {
	switch inv.EffectiveStatus(s.now()) {
	case domain.InvitationStatusPending:
		return nil
	case domain.InvitationStatusExpired:
		return &domain.StateError{Reason: "invitation has expired"}
	default:
		return &domain.StateError{Reason: fmt.Sprintf("invitation is already %s", inv.Status)}
	}
}

func (s *invitationService) memberOf(ctx context.Context, workspaceID, userID int64) (*domain.WorkspaceMember, error) {
	member, err := s.wsRepo.GetMember(ctx, workspaceID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &domain.PermissionError{Reason: "you are not a member of this workspace"}
		}
		return nil, fmt.Errorf("failed to load workspace member: %w", err)
	}
	return member, nil
}

func (s *invitationService) invitationInWorkspace(ctx context.Context, workspaceID, invitationID int64) (*domain.WorkspaceInvitation, error) {
	inv, err := s.invRepo.GetByID(ctx, invitationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewNotFoundError("invitation", invitationID)
		}
		return nil, fmt.Errorf("failed to load invitation: %w", err)
	}
	// Only the owning workspace may mutate its invitations.
	if inv.WorkspaceID != workspaceID {
		return nil, domain.NewNotFoundError("invitation", invitationID)
	}
	return inv, nil
}
