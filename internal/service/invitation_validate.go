package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/mail"
	"regexp"
	"strings"

	"mewayz-backend/internal/domain"
	"mewayz-backend/internal/logger"
)

const (
	maxEmailLength   = 255
	maxFreeTextLen   = 100
	maxMessageLength = 1000
)

var freeTextPattern = regexp.MustCompile(`^[a-zA-Z0-9\s\-_]+$`)

// DomainResolver checks that an email domain is deliverable. *net.Resolver
// satisfies it; tests supply a stub.
type DomainResolver interface {
	LookupMX(ctx context.Context, name string) ([]*net.MX, error)
	LookupHost(ctx context.Context, host string) ([]string, error)
}

// normalize lower-cases and trims email and role, trims the free-text fields,
// and drops optional fields that are empty after trimming.
func (in *CreateInvitationInput) normalize() {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Role = strings.ToLower(strings.TrimSpace(in.Role))
	in.Department = strings.TrimSpace(in.Department)
	in.Position = strings.TrimSpace(in.Position)
	in.PersonalMessage = strings.TrimSpace(in.PersonalMessage)
}

// validate runs every field rule, then the business rules against the target
// workspace. All violations are collected; nothing short-circuits except the
// checks that need a field to be individually valid first. Returns the
// normalized invitation on success.
func (s *invitationService) validate(ctx context.Context, ws *domain.Workspace, inviter *domain.WorkspaceMember, in *CreateInvitationInput) (*domain.WorkspaceInvitation, error) {
	in.normalize()
	errs := domain.FieldErrors{}

	if err := s.validateEmail(ctx, errs, ws, in.Email); err != nil {
		return nil, err
	}

	role, roleOK := domain.ParseRole(in.Role)
	if in.Role == "" {
		errs.Add("role", "role is required")
	} else if !roleOK {
		errs.Add("role", fmt.Sprintf("role must be one of: %s", joinRoles()))
	}

	validateFreeText(errs, "department", in.Department)
	validateFreeText(errs, "position", in.Position)

	if in.PersonalMessage != "" {
		if len(in.PersonalMessage) > maxMessageLength {
			errs.Add("personal_message", fmt.Sprintf("personal message must be at most %d characters", maxMessageLength))
		}
		if strings.ContainsAny(in.PersonalMessage, "<>") {
			errs.Add("personal_message", "personal message must not contain '<' or '>'")
		}
	}

	expiresInDays := s.defaultExpiryDays
	if in.ExpiresInDays != nil {
		if *in.ExpiresInDays < 1 || *in.ExpiresInDays > s.maxExpiryDays {
			errs.Add("expires_in_days", fmt.Sprintf("expiry must be between 1 and %d days", s.maxExpiryDays))
		} else {
			expiresInDays = *in.ExpiresInDays
		}
	}

	// Business rules. The workspace is known to exist by the time the
	// validator runs; these reads are advisory and re-checked inside the
	// insert transaction.
	if roleOK && !inviter.Role.CanInvite(role) {
		errs.Add("role", fmt.Sprintf("your role '%s' does not permit inviting members as '%s'", inviter.Role, role))
	}

	capacityExceeded := false
	memberCount, err := s.wsRepo.CountMembers(ctx, ws.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count workspace members: %w", err)
	}
	pendingCount, err := s.invRepo.CountPending(ctx, ws.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count pending invitations: %w", err)
	}
	if memberCount+pendingCount >= s.capacityLimit {
		capacityExceeded = true
	}

	// Capacity alone is a workspace-state conflict, not a bad request; it only
	// joins the field errors when the request is rejected anyway.
	if errs.HasErrors() {
		if capacityExceeded {
			errs.Add("workspace", fmt.Sprintf("workspace has reached its limit of %d members and pending invitations", s.capacityLimit))
		}
		return nil, domain.NewValidationError(errs)
	}
	if capacityExceeded {
		return nil, &domain.CapacityError{Limit: s.capacityLimit}
	}

	now := s.now()
	return &domain.WorkspaceInvitation{
		WorkspaceID:     ws.ID,
		Email:           in.Email,
		Role:            role,
		Department:      in.Department,
		Position:        in.Position,
		PersonalMessage: in.PersonalMessage,
		Status:          domain.InvitationStatusPending,
		ExpiresAt:       now.AddDate(0, 0, expiresInDays),
		InviterID:       inviter.UserID,
	}, nil
}

func (s *invitationService) validateEmail(ctx context.Context, errs domain.FieldErrors, ws *domain.Workspace, email string) error {
	if email == "" {
		errs.Add("email", "email is required")
		return nil
	}
	if len(email) > maxEmailLength {
		errs.Add("email", fmt.Sprintf("email must be at most %d characters", maxEmailLength))
	}
	if strings.ContainsAny(email, "<>'") {
		errs.Add("email", "email contains invalid characters")
		return nil
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		errs.Add("email", "email address is not valid")
		return nil
	}
	host := email[strings.LastIndex(email, "@")+1:]
	if !s.domainResolvable(ctx, host) {
		errs.Add("email", "email domain cannot receive mail")
		return nil
	}

	// Duplicate and membership checks only run once the address itself is
	// well formed; both are scoped to the target workspace. A failed lookup
	// aborts the request: proceeding would skip a business rule.
	pending, err := s.invRepo.HasPending(ctx, ws.ID, email)
	if err != nil {
		return fmt.Errorf("failed to check pending invitations: %w", err)
	}
	if pending {
		errs.Add("email", "a pending invitation already exists for this email")
	}

	_, err = s.wsRepo.GetMemberByEmail(ctx, ws.ID, email)
	switch {
	case err == nil:
		errs.Add("email", "this email already belongs to a workspace member")
	case errors.Is(err, sql.ErrNoRows):
		// not a member, fine
	default:
		return fmt.Errorf("failed to check workspace membership: %w", err)
	}
	return nil
}

func (s *invitationService) domainResolvable(ctx context.Context, host string) bool {
	if mx, err := s.resolver.LookupMX(ctx, host); err == nil && len(mx) > 0 {
		return true
	}
	// Fall back to an address record; plenty of small domains receive mail
	// without an MX entry.
	addrs, err := s.resolver.LookupHost(ctx, host)
	return err == nil && len(addrs) > 0
}

func validateFreeText(errs domain.FieldErrors, field, value string) {
	if value == "" {
		return
	}
	if len(value) > maxFreeTextLen {
		errs.Add(field, fmt.Sprintf("%s must be at most %d characters", field, maxFreeTextLen))
	}
	if !freeTextPattern.MatchString(value) {
		errs.Add(field, fmt.Sprintf("%s may only contain letters, digits, spaces, hyphens, and underscores", field))
	}
}

func joinRoles() string {
	names := make([]string, len(domain.Roles))
	for i, r := range domain.Roles {
		names[i] = string(r)
	}
	return strings.Join(names, ", ")
}

// logValidationFailure records the audit entry for a rejected invitation.
// The personal message is deliberately left out so arbitrary user text never
// reaches the logs. Nothing is logged on success.
func logValidationFailure(ctx context.Context, workspaceID, inviterID int64, in *CreateInvitationInput, errs domain.FieldErrors, callerIP string) {
	logger.WarnContext(ctx, "invitation validation failed",
		"workspace_id", workspaceID,
		"inviter_id", inviterID,
		"fields", errs.Fields(),
		"errors", errs,
		"email", in.Email,
		"role", in.Role,
		"department", in.Department,
		"position", in.Position,
		"caller_ip", callerIP,
	)
}

// logCapacityRejection is the audit entry for the standalone capacity
// conflict, which carries no field errors.
func logCapacityRejection(ctx context.Context, workspaceID, inviterID int64, in *CreateInvitationInput, limit int, callerIP string) {
	logger.WarnContext(ctx, "invitation rejected at capacity",
		"workspace_id", workspaceID,
		"inviter_id", inviterID,
		"limit", limit,
		"email", in.Email,
		"role", in.Role,
		"department", in.Department,
		"position", in.Position,
		"caller_ip", callerIP,
	)
}
