package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"mewayz-backend/internal/domain"
	"mewayz-backend/internal/repository"
)

type workspaceService struct {
	wsRepo   repository.WorkspaceRepository
	userRepo repository.UserRepository
}

func NewWorkspaceService(wsRepo repository.WorkspaceRepository, userRepo repository.UserRepository) WorkspaceService {
	return &workspaceService{wsRepo: wsRepo, userRepo: userRepo}
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(name string) string {
	slug := slugPattern.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(slug, "-")
}

func (s *workspaceService) CreateWorkspace(ctx context.Context, userID int64, name, description string) (*domain.Workspace, error) {
	name = strings.TrimSpace(name)
	errs := domain.FieldErrors{}
	if name == "" {
		errs.Add("name", "workspace name is required")
	} else if len(name) > 100 {
		errs.Add("name", "workspace name must be at most 100 characters")
	}
	if errs.HasErrors() {
		return nil, domain.NewValidationError(errs)
	}

	slug := slugify(name)
	if _, err := s.wsRepo.GetBySlug(ctx, slug); err == nil {
		errs.Add("name", "a workspace with this name already exists")
		return nil, domain.NewValidationError(errs)
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to check workspace slug: %w", err)
	}

	ws := &domain.Workspace{
		Name:        name,
		Slug:        slug,
		Description: strings.TrimSpace(description),
		OwnerID:     userID,
		Plan:        domain.PlanFree,
	}
	if err := s.wsRepo.Create(ctx, ws); err != nil {
		return nil, fmt.Errorf("failed to create workspace: %w", err)
	}

	// The creator becomes the workspace owner.
	member := &domain.WorkspaceMember{
		WorkspaceID: ws.ID,
		UserID:      userID,
		Role:        domain.RoleOwner,
	}
	if err := s.wsRepo.AddMember(ctx, member); err != nil {
		return nil, fmt.Errorf("failed to add workspace owner: %w", err)
	}
	return ws, nil
}

func (s *workspaceService) GetWorkspace(ctx context.Context, workspaceID, userID int64) (*domain.Workspace, error) {
	if _, err := s.requireMember(ctx, workspaceID, userID); err != nil {
		return nil, err
	}
	ws, err := s.wsRepo.GetByID(ctx, workspaceID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewNotFoundError("workspace", workspaceID)
		}
		return nil, fmt.Errorf("failed to load workspace: %w", err)
	}
	return ws, nil
}

func (s *workspaceService) ListMyWorkspaces(ctx context.Context, userID int64) ([]domain.Workspace, error) {
	return s.wsRepo.ListByUser(ctx, userID)
}

func (s *workspaceService) UpdateOnboardingStep(ctx context.Context, workspaceID, userID int64, step int32) (*domain.Workspace, error) {
	ws, err := s.requireOwnerOrAdmin(ctx, workspaceID, userID)
	if err != nil {
		return nil, err
	}
	if step < 0 || step > 10 {
		errs := domain.FieldErrors{}
		errs.Add("step", "onboarding step is out of range")
		return nil, domain.NewValidationError(errs)
	}
	ws.OnboardingStep = step
	if err := s.wsRepo.Update(ctx, ws); err != nil {
		return nil, fmt.Errorf("failed to update onboarding step: %w", err)
	}
	return ws, nil
}

// CompleteOnboarding stores the selected plan and marks the wizard finished.
// Checkout for paid plans happens in an external payment processor; only the
// selection is recorded here.
func (s *workspaceService) CompleteOnboarding(ctx context.Context, workspaceID, userID int64, plan string) (*domain.Workspace, error) {
	ws, err := s.requireOwnerOrAdmin(ctx, workspaceID, userID)
	if err != nil {
		return nil, err
	}

	p, ok := domain.ParsePlan(strings.ToLower(strings.TrimSpace(plan)))
	if !ok {
		errs := domain.FieldErrors{}
		errs.Add("plan", "plan must be one of: free, pro, enterprise")
		return nil, domain.NewValidationError(errs)
	}

	ws.Plan = p
	ws.OnboardingDone = true
	if err := s.wsRepo.Update(ctx, ws); err != nil {
		return nil, fmt.Errorf("failed to complete onboarding: %w", err)
	}
	return ws, nil
}

func (s *workspaceService) ListMembers(ctx context.Context, workspaceID, actorID int64) ([]domain.User, []domain.WorkspaceMember, error) {
	if _, err := s.requireMember(ctx, workspaceID, actorID); err != nil {
		return nil, nil, err
	}
	return s.wsRepo.ListMembers(ctx, workspaceID)
}

func (s *workspaceService) UpdateMemberRole(ctx context.Context, workspaceID, actorID, targetUserID int64, role string) error {
	actor, err := s.requireMember(ctx, workspaceID, actorID)
	if err != nil {
		return err
	}

	newRole, ok := domain.ParseRole(role)
	if !ok {
		errs := domain.FieldErrors{}
		errs.Add("role", fmt.Sprintf("role must be one of: %s", joinRoles()))
		return domain.NewValidationError(errs)
	}

	target, err := s.wsRepo.GetMember(ctx, workspaceID, targetUserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NewNotFoundError("member", targetUserID)
		}
		return fmt.Errorf("failed to load member: %w", err)
	}

	// Granting a role through a role change is bounded by the same
	// hierarchy as granting it through an invitation, and the actor must
	// outrank the member being changed.
	if !actor.Role.CanInvite(newRole) || !actor.Role.CanInvite(target.Role) {
		return &domain.PermissionError{Reason: fmt.Sprintf("your role '%s' does not permit this role change", actor.Role)}
	}
	if target.Role == domain.RoleOwner {
		return &domain.PermissionError{Reason: "the workspace owner's role cannot be changed"}
	}

	return s.wsRepo.UpdateMemberRole(ctx, workspaceID, targetUserID, newRole)
}

func (s *workspaceService) RemoveMember(ctx context.Context, workspaceID, actorID, targetUserID int64) error {
	actor, err := s.requireMember(ctx, workspaceID, actorID)
	if err != nil {
		return err
	}

	target, err := s.wsRepo.GetMember(ctx, workspaceID, targetUserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NewNotFoundError("member", targetUserID)
		}
		return fmt.Errorf("failed to load member: %w", err)
	}
	if target.Role == domain.RoleOwner {
		return &domain.PermissionError{Reason: "the workspace owner cannot be removed"}
	}
	// Members may always remove themselves.
	if actorID != targetUserID && !actor.Role.CanInvite(target.Role) {
		return &domain.PermissionError{Reason: fmt.Sprintf("your role '%s' does not permit removing a '%s' member", actor.Role, target.Role)}
	}

	return s.wsRepo.RemoveMember(ctx, workspaceID, targetUserID)
}

func (s *workspaceService) requireMember(ctx context.Context, workspaceID, userID int64) (*domain.WorkspaceMember, error) {
	member, err := s.wsRepo.GetMember(ctx, workspaceID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &domain.PermissionError{Reason: "you are not a member of this workspace"}
		}
		return nil, fmt.Errorf("failed to load workspace member: %w", err)
	}
	return member, nil
}

func (s *workspaceService) requireOwnerOrAdmin(ctx context.Context, workspaceID, userID int64) (*domain.Workspace, error) {
	member, err := s.requireMember(ctx, workspaceID, userID)
	if err != nil {
		return nil, err
	}
	if member.Role != domain.RoleOwner && member.Role != domain.RoleAdmin {
		return nil, &domain.PermissionError{Reason: "only owners and admins may manage workspace settings"}
	}
	ws, err := s.wsRepo.GetByID(ctx, workspaceID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewNotFoundError("workspace", workspaceID)
		}
		return nil, fmt.Errorf("failed to load workspace: %w", err)
	}
	return ws, nil
}
