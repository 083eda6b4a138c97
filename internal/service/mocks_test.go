package service

import (
	"context"
	"errors"
	"net"
	"time"

	"mewayz-backend/internal/domain"

	"github.com/stretchr/testify/mock"
)

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) Update(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// MockWorkspaceRepo
type MockWorkspaceRepo struct {
	mock.Mock
}

func (m *MockWorkspaceRepo) Create(ctx context.Context, ws *domain.Workspace) error {
	args := m.Called(ctx, ws)
	return args.Error(0)
}
func (m *MockWorkspaceRepo) GetByID(ctx context.Context, id int64) (*domain.Workspace, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Workspace), args.Error(1)
}
func (m *MockWorkspaceRepo) GetBySlug(ctx context.Context, slug string) (*domain.Workspace, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Workspace), args.Error(1)
}
func (m *MockWorkspaceRepo) Update(ctx context.Context, ws *domain.Workspace) error {
	args := m.Called(ctx, ws)
	return args.Error(0)
}
func (m *MockWorkspaceRepo) ListByUser(ctx context.Context, userID int64) ([]domain.Workspace, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Workspace), args.Error(1)
}
func (m *MockWorkspaceRepo) AddMember(ctx context.Context, member *domain.WorkspaceMember) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}
func (m *MockWorkspaceRepo) GetMember(ctx context.Context, workspaceID, userID int64) (*domain.WorkspaceMember, error) {
	args := m.Called(ctx, workspaceID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WorkspaceMember), args.Error(1)
}
func (m *MockWorkspaceRepo) GetMemberByEmail(ctx context.Context, workspaceID int64, email string) (*domain.WorkspaceMember, error) {
	args := m.Called(ctx, workspaceID, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WorkspaceMember), args.Error(1)
}
func (m *MockWorkspaceRepo) ListMembers(ctx context.Context, workspaceID int64) ([]domain.User, []domain.WorkspaceMember, error) {
	args := m.Called(ctx, workspaceID)
	return args.Get(0).([]domain.User), args.Get(1).([]domain.WorkspaceMember), args.Error(2)
}
func (m *MockWorkspaceRepo) UpdateMemberRole(ctx context.Context, workspaceID, userID int64, role domain.Role) error {
	args := m.Called(ctx, workspaceID, userID, role)
	return args.Error(0)
}
func (m *MockWorkspaceRepo) RemoveMember(ctx context.Context, workspaceID, userID int64) error {
	args := m.Called(ctx, workspaceID, userID)
	return args.Error(0)
}
func (m *MockWorkspaceRepo) CountMembers(ctx context.Context, workspaceID int64) (int, error) {
	args := m.Called(ctx, workspaceID)
	return args.Int(0), args.Error(1)
}

// MockInvitationRepo
type MockInvitationRepo struct {
	mock.Mock
}

func (m *MockInvitationRepo) Create(ctx context.Context, inv *domain.WorkspaceInvitation, capacityLimit int) error {
	args := m.Called(ctx, inv, capacityLimit)
	return args.Error(0)
}
func (m *MockInvitationRepo) GetByID(ctx context.Context, id int64) (*domain.WorkspaceInvitation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WorkspaceInvitation), args.Error(1)
}
func (m *MockInvitationRepo) GetByToken(ctx context.Context, token string) (*domain.WorkspaceInvitation, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WorkspaceInvitation), args.Error(1)
}
func (m *MockInvitationRepo) HasPending(ctx context.Context, workspaceID int64, email string) (bool, error) {
	args := m.Called(ctx, workspaceID, email)
	return args.Bool(0), args.Error(1)
}
func (m *MockInvitationRepo) CountPending(ctx context.Context, workspaceID int64) (int, error) {
	args := m.Called(ctx, workspaceID)
	return args.Int(0), args.Error(1)
}
func (m *MockInvitationRepo) ListByWorkspace(ctx context.Context, workspaceID int64) ([]domain.WorkspaceInvitation, error) {
	args := m.Called(ctx, workspaceID)
	return args.Get(0).([]domain.WorkspaceInvitation), args.Error(1)
}
func (m *MockInvitationRepo) UpdateStatus(ctx context.Context, id int64, from, to domain.InvitationStatus) error {
	args := m.Called(ctx, id, from, to)
	return args.Error(0)
}
func (m *MockInvitationRepo) Accept(ctx context.Context, inv *domain.WorkspaceInvitation, member *domain.WorkspaceMember) error {
	args := m.Called(ctx, inv, member)
	return args.Error(0)
}
func (m *MockInvitationRepo) ExtendExpiry(ctx context.Context, id int64, expiresAt time.Time) error {
	args := m.Called(ctx, id, expiresAt)
	return args.Error(0)
}
func (m *MockInvitationRepo) MarkExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

// MockNotificationRepo
type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) Create(ctx context.Context, note *domain.Notification) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}
func (m *MockNotificationRepo) List(ctx context.Context, userID int64, limit, offset int) ([]domain.Notification, int, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]domain.Notification), args.Int(1), args.Error(2)
}
func (m *MockNotificationRepo) MarkAsRead(ctx context.Context, id, userID int64) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}
func (m *MockNotificationRepo) PurgeRead(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendInvitation(ctx context.Context, email, workspaceName, inviterName, token, personalMessage string, expiresAt time.Time) error {
	args := m.Called(ctx, email, workspaceName, inviterName, token, personalMessage, expiresAt)
	return args.Error(0)
}
func (m *MockEmailService) SendInvitationAccepted(ctx context.Context, inviterEmail, memberEmail, workspaceName string) error {
	args := m.Called(ctx, inviterEmail, memberEmail, workspaceName)
	return args.Error(0)
}

// stubResolver resolves every domain, or none when failing is set.
type stubResolver struct {
	failing bool
}

func (r stubResolver) LookupMX(ctx context.Context, name string) ([]*net.MX, error) {
	if r.failing {
		return nil, errors.New("no such host")
	}
	return []*net.MX{{Host: "mx." + name, Pref: 10}}, nil
}

func (r stubResolver) LookupHost(ctx context.Context, host string) ([]string, error) {
	if r.failing {
		return nil, errors.New("no such host")
	}
	return []string{"192.0.2.10"}, nil
}
