package postgres

import (
	"context"
	"database/sql"
	"time"

	"mewayz-backend/internal/domain"
	"mewayz-backend/internal/logger"
	"mewayz-backend/internal/repository"
)

type workspaceRepository struct {
	db *sql.DB
}

func NewWorkspaceRepository(db *sql.DB) repository.WorkspaceRepository {
	return &workspaceRepository{db: db}
}

func (r *workspaceRepository) Create(ctx context.Context, ws *domain.Workspace) error {
	query := `INSERT INTO workspaces (name, slug, description, owner_id, plan, onboarding_step, onboarding_done, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8) RETURNING id`
	now := time.Now().UTC()
	ws.CreatedAt = now
	ws.UpdatedAt = now
	if ws.Plan == "" {
		ws.Plan = domain.PlanFree
	}
	return r.db.QueryRowContext(ctx, query,
		ws.Name, ws.Slug, ws.Description, ws.OwnerID, ws.Plan, ws.OnboardingStep, ws.OnboardingDone, now,
	).Scan(&ws.ID)
}

const workspaceColumns = `id, name, slug, COALESCE(description, ''), owner_id, plan, onboarding_step, onboarding_done, created_at, updated_at`

func scanWorkspace(row interface{ Scan(...any) error }) (*domain.Workspace, error) {
	ws := &domain.Workspace{}
	err := row.Scan(&ws.ID, &ws.Name, &ws.Slug, &ws.Description, &ws.OwnerID, &ws.Plan,
		&ws.OnboardingStep, &ws.OnboardingDone, &ws.CreatedAt, &ws.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return ws, nil
}

func (r *workspaceRepository) GetByID(ctx context.Context, id int64) (*domain.Workspace, error) {
	query := `SELECT ` + workspaceColumns + ` FROM workspaces WHERE id = $1`
	return scanWorkspace(r.db.QueryRowContext(ctx, query, id))
}

func (r *workspaceRepository) GetBySlug(ctx context.Context, slug string) (*domain.Workspace, error) {
	query := `SELECT ` + workspaceColumns + ` FROM workspaces WHERE slug = $1`
	return scanWorkspace(r.db.QueryRowContext(ctx, query, slug))
}

func (r *workspaceRepository) Update(ctx context.Context, ws *domain.Workspace) error {
	query := `UPDATE workspaces SET name=$1, description=$2, plan=$3, onboarding_step=$4, onboarding_done=$5, updated_at=$6 WHERE id=$7`
	ws.UpdatedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx, query, ws.Name, ws.Description, ws.Plan, ws.OnboardingStep, ws.OnboardingDone, ws.UpdatedAt, ws.ID)
	return err
}

func (r *workspaceRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Workspace, error) {
	query := `SELECT w.id, w.name, w.slug, COALESCE(w.description, ''), w.owner_id, w.plan, w.onboarding_step, w.onboarding_done, w.created_at, w.updated_at
	          FROM workspaces w
	          JOIN workspace_members m ON w.id = m.workspace_id
	          WHERE m.user_id = $1
	          ORDER BY w.created_at`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var workspaces []domain.Workspace
	for rows.Next() {
		ws, err := scanWorkspace(rows)
		if err != nil {
			return nil, err
		}
		workspaces = append(workspaces, *ws)
	}
	return workspaces, rows.Err()
}

func (r *workspaceRepository) AddMember(ctx context.Context, m *domain.WorkspaceMember) error {
	query := `INSERT INTO workspace_members (workspace_id, user_id, role, department, position, joined_at)
	          VALUES ($1, $2, $3, $4, $5, $6)`
	if m.JoinedAt.IsZero() {
		m.JoinedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, query, m.WorkspaceID, m.UserID, m.Role, m.Department, m.Position, m.JoinedAt)
	return err
}

func (r *workspaceRepository) GetMember(ctx context.Context, workspaceID, userID int64) (*domain.WorkspaceMember, error) {
	m := &domain.WorkspaceMember{}
	query := `SELECT workspace_id, user_id, role, COALESCE(department, ''), COALESCE(position, ''), joined_at
	          FROM workspace_members WHERE workspace_id = $1 AND user_id = $2`
	err := r.db.QueryRowContext(ctx, query, workspaceID, userID).Scan(
		&m.WorkspaceID, &m.UserID, &m.Role, &m.Department, &m.Position, &m.JoinedAt)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *workspaceRepository) GetMemberByEmail(ctx context.Context, workspaceID int64, email string) (*domain.WorkspaceMember, error) {
	m := &domain.WorkspaceMember{}
	query := `SELECT m.workspace_id, m.user_id, m.role, COALESCE(m.department, ''), COALESCE(m.position, ''), m.joined_at
	          FROM workspace_members m
	          JOIN users u ON u.id = m.user_id
	          WHERE m.workspace_id = $1 AND LOWER(u.email) = LOWER($2)`
	err := r.db.QueryRowContext(ctx, query, workspaceID, email).Scan(
		&m.WorkspaceID, &m.UserID, &m.Role, &m.Department, &m.Position, &m.JoinedAt)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *workspaceRepository) ListMembers(ctx context.Context, workspaceID int64) ([]domain.User, []domain.WorkspaceMember, error) {
	query := `SELECT u.id, u.email, u.name, u.created_at, u.updated_at,
	                 m.workspace_id, m.user_id, m.role, COALESCE(m.department, ''), COALESCE(m.position, ''), m.joined_at
	          FROM users u
	          JOIN workspace_members m ON u.id = m.user_id
	          WHERE m.workspace_id = $1
	          ORDER BY m.joined_at`
	logger.DatabaseCall("SELECT", "users JOIN workspace_members", "workspaceID", workspaceID)

	rows, err := r.db.QueryContext(ctx, query, workspaceID)
	if err != nil {
		logger.DatabaseResult("SELECT", 0, err, "workspaceID", workspaceID)
		return nil, nil, err
	}
	defer rows.Close()

	var users []domain.User
	var members []domain.WorkspaceMember
	for rows.Next() {
		var u domain.User
		var m domain.WorkspaceMember
		if err := rows.Scan(
			&u.ID, &u.Email, &u.Name, &u.CreatedAt, &u.UpdatedAt,
			&m.WorkspaceID, &m.UserID, &m.Role, &m.Department, &m.Position, &m.JoinedAt,
		); err != nil {
			logger.DatabaseResult("SELECT", int64(len(users)), err, "workspaceID", workspaceID)
			return nil, nil, err
		}
		users = append(users, u)
		members = append(members, m)
	}

	logger.DatabaseResult("SELECT", int64(len(users)), nil, "workspaceID", workspaceID)
	return users, members, rows.Err()
}

func (r *workspaceRepository) UpdateMemberRole(ctx context.Context, workspaceID, userID int64, role domain.Role) error {
	query := `UPDATE workspace_members SET role = $1 WHERE workspace_id = $2 AND user_id = $3`
	result, err := r.db.ExecContext(ctx, query, role, workspaceID, userID)
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

func (r *workspaceRepository) RemoveMember(ctx context.Context, workspaceID, userID int64) error {
	query := `DELETE FROM workspace_members WHERE workspace_id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, workspaceID, userID)
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

func (r *workspaceRepository) CountMembers(ctx context.Context, workspaceID int64) (int, error) {
	query := `SELECT COUNT(*) FROM workspace_members WHERE workspace_id = $1`
	var count int
	err := r.db.QueryRowContext(ctx, query, workspaceID).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}
