package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"mewayz-backend/internal/domain"
	"mewayz-backend/internal/logger"
	"mewayz-backend/internal/repository"

	"github.com/lib/pq"
)

type invitationRepository struct {
	db *sql.DB
}

func NewInvitationRepository(db *sql.DB) repository.InvitationRepository {
	return &invitationRepository{db: db}
}

const invitationColumns = `id, token, workspace_id, email, role, COALESCE(department, ''), COALESCE(position, ''), COALESCE(personal_message, ''), status, expires_at, inviter_id, created_at, updated_at`

func scanInvitation(row interface{ Scan(...any) error }) (*domain.WorkspaceInvitation, error) {
	inv := &domain.WorkspaceInvitation{}
	err := row.Scan(&inv.ID, &inv.Token, &inv.WorkspaceID, &inv.Email, &inv.Role,
		&inv.Department, &inv.Position, &inv.PersonalMessage, &inv.Status,
		&inv.ExpiresAt, &inv.InviterID, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return inv, nil
}

// Create inserts a pending invitation inside a transaction that locks the
// workspace row and re-runs the duplicate-pending and capacity checks. The
// validator performs the same checks read-then-decide, which is racy across
// concurrent requests; the authoritative decision happens here. A partial
// unique index on (workspace_id, email) WHERE status = 'pending' backs the
// duplicate check as a second line of defense.
func (r *invitationRepository) Create(ctx context.Context, inv *domain.WorkspaceInvitation, capacityLimit int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Serialize invitation creation per workspace.
	var wsID int64
	if err := tx.QueryRowContext(ctx, `SELECT id FROM workspaces WHERE id = $1 FOR UPDATE`, inv.WorkspaceID).Scan(&wsID); err != nil {
		return err
	}

	var pendingExists bool
	err = tx.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM workspace_invitations WHERE workspace_id = $1 AND email = $2 AND status = 'pending')`,
		inv.WorkspaceID, inv.Email).Scan(&pendingExists)
	if err != nil {
		return err
	}
	if pendingExists {
		return repository.ErrDuplicatePending
	}

	var occupied int
	err = tx.QueryRowContext(ctx,
		`SELECT (SELECT COUNT(*) FROM workspace_members WHERE workspace_id = $1)
		      + (SELECT COUNT(*) FROM workspace_invitations WHERE workspace_id = $1 AND status = 'pending')`,
		inv.WorkspaceID).Scan(&occupied)
	if err != nil {
		return err
	}
	if occupied >= capacityLimit {
		return repository.ErrCapacityReached
	}

	now := time.Now().UTC()
	inv.Status = domain.InvitationStatusPending
	inv.CreatedAt = now
	inv.UpdatedAt = now
	logger.DatabaseCall("INSERT", "workspace_invitations", "workspaceID", inv.WorkspaceID)
	err = tx.QueryRowContext(ctx,
		`INSERT INTO workspace_invitations (token, workspace_id, email, role, department, position, personal_message, status, expires_at, inviter_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11) RETURNING id`,
		inv.Token, inv.WorkspaceID, inv.Email, inv.Role, inv.Department, inv.Position,
		inv.PersonalMessage, inv.Status, inv.ExpiresAt, inv.InviterID, now,
	).Scan(&inv.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return repository.ErrDuplicatePending
		}
		return err
	}

	return tx.Commit()
}

func (r *invitationRepository) GetByID(ctx context.Context, id int64) (*domain.WorkspaceInvitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM workspace_invitations WHERE id = $1`
	return scanInvitation(r.db.QueryRowContext(ctx, query, id))
}

func (r *invitationRepository) GetByToken(ctx context.Context, token string) (*domain.WorkspaceInvitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM workspace_invitations WHERE token = $1`
	return scanInvitation(r.db.QueryRowContext(ctx, query, token))
}

func (r *invitationRepository) HasPending(ctx context.Context, workspaceID int64, email string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM workspace_invitations WHERE workspace_id = $1 AND email = $2 AND status = 'pending')`
	err := r.db.QueryRowContext(ctx, query, workspaceID, email).Scan(&exists)
	return exists, err
}

func (r *invitationRepository) CountPending(ctx context.Context, workspaceID int64) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM workspace_invitations WHERE workspace_id = $1 AND status = 'pending'`
	err := r.db.QueryRowContext(ctx, query, workspaceID).Scan(&count)
	return count, err
}

func (r *invitationRepository) ListByWorkspace(ctx context.Context, workspaceID int64) ([]domain.WorkspaceInvitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM workspace_invitations WHERE workspace_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invitations []domain.WorkspaceInvitation
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, err
		}
		invitations = append(invitations, *inv)
	}
	return invitations, rows.Err()
}

func (r *invitationRepository) UpdateStatus(ctx context.Context, id int64, from, to domain.InvitationStatus) error {
	query := `UPDATE workspace_invitations SET status = $1, updated_at = $2 WHERE id = $3 AND status = $4`
	result, err := r.db.ExecContext(ctx, query, to, time.Now().UTC(), id, from)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *invitationRepository) Accept(ctx context.Context, inv *domain.WorkspaceInvitation, member *domain.WorkspaceMember) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	result, err := tx.ExecContext(ctx,
		`UPDATE workspace_invitations SET status = $1, updated_at = $2 WHERE id = $3 AND status = $4`,
		domain.InvitationStatusAccepted, now, inv.ID, domain.InvitationStatusPending)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}

	if member.JoinedAt.IsZero() {
		member.JoinedAt = now
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO workspace_members (workspace_id, user_id, role, department, position, joined_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		member.WorkspaceID, member.UserID, member.Role, member.Department, member.Position, member.JoinedAt)
	if err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	inv.Status = domain.InvitationStatusAccepted
	inv.UpdatedAt = now
	return nil
}

func (r *invitationRepository) ExtendExpiry(ctx context.Context, id int64, expiresAt time.Time) error {
	query := `UPDATE workspace_invitations SET expires_at = $1, updated_at = $2 WHERE id = $3 AND status = 'pending'`
	result, err := r.db.ExecContext(ctx, query, expiresAt, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *invitationRepository) MarkExpired(ctx context.Context, now time.Time) (int64, error) {
	query := `UPDATE workspace_invitations SET status = 'expired', updated_at = $1 WHERE status = 'pending' AND expires_at <= $1`
	result, err := r.db.ExecContext(ctx, query, now.UTC())
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
