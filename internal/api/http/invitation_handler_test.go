package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"mewayz-backend/internal/domain"
	"mewayz-backend/internal/security"
	"mewayz-backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockInvitationService struct {
	mock.Mock
}

func (m *mockInvitationService) Create(ctx context.Context, workspaceID, inviterID int64, in service.CreateInvitationInput, callerIP string) (*domain.WorkspaceInvitation, error) {
	args := m.Called(ctx, workspaceID, inviterID, in, callerIP)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WorkspaceInvitation), args.Error(1)
}

func (m *mockInvitationService) List(ctx context.Context, workspaceID, actorID int64) ([]domain.WorkspaceInvitation, error) {
	args := m.Called(ctx, workspaceID, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.WorkspaceInvitation), args.Error(1)
}

func (m *mockInvitationService) GetByToken(ctx context.Context, token string) (*domain.WorkspaceInvitation, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WorkspaceInvitation), args.Error(1)
}

func (m *mockInvitationService) Accept(ctx context.Context, token string, userID int64) (*domain.WorkspaceMember, error) {
	args := m.Called(ctx, token, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WorkspaceMember), args.Error(1)
}

func (m *mockInvitationService) Decline(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func (m *mockInvitationService) Revoke(ctx context.Context, workspaceID, invitationID, actorID int64) error {
	return m.Called(ctx, workspaceID, invitationID, actorID).Error(0)
}

func (m *mockInvitationService) Resend(ctx context.Context, workspaceID, invitationID, actorID int64) (*domain.WorkspaceInvitation, error) {
	args := m.Called(ctx, workspaceID, invitationID, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WorkspaceInvitation), args.Error(1)
}

func newTestRouter(invitations service.InvitationService) (http.Handler, string) {
	tokens := security.NewTokenManager("handler-test-secret-at-least-32-chars", 15, 60)
	access, err := tokens.GenerateAccessToken(3, "ada@example.com")
	if err != nil {
		panic(err)
	}
	router := NewRouter(Services{Invitations: invitations, Tokens: tokens})
	return router, access
}

func TestInvitationHandler_Create(t *testing.T) {
	body := `{"email":"editor@example.com","role":"editor","expires_in_days":7}`

	t.Run("Created", func(t *testing.T) {
		svc := new(mockInvitationService)
		router, access := newTestRouter(svc)
		svc.On("Create", mock.Anything, int64(7), int64(3), mock.Anything, "203.0.113.9").
			Return(&domain.WorkspaceInvitation{ID: 11, Email: "editor@example.com", Role: domain.RoleEditor, Status: domain.InvitationStatusPending, ExpiresAt: time.Now().AddDate(0, 0, 7)}, nil)

		req := httptest.NewRequest("POST", "/api/v1/workspaces/7/invitations", strings.NewReader(body))
		req.Header.Set("Authorization", "Bearer "+access)
		req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)
		var out domain.WorkspaceInvitation
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
		assert.Equal(t, int64(11), out.ID)
		svc.AssertExpectations(t)
	})

	t.Run("ValidationFailure", func(t *testing.T) {
		svc := new(mockInvitationService)
		router, access := newTestRouter(svc)
		errs := domain.FieldErrors{}
		errs.Add("email", "email address is not valid")
		errs.Add("role", "role is required")
		svc.On("Create", mock.Anything, int64(7), int64(3), mock.Anything, mock.Anything).
			Return(nil, domain.NewValidationError(errs))

		req := httptest.NewRequest("POST", "/api/v1/workspaces/7/invitations", strings.NewReader(body))
		req.Header.Set("Authorization", "Bearer "+access)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		var out errorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
		assert.Equal(t, []string{"email address is not valid"}, out.Errors["email"])
		assert.Equal(t, []string{"role is required"}, out.Errors["role"])
	})

	t.Run("CapacityConflict", func(t *testing.T) {
		svc := new(mockInvitationService)
		router, access := newTestRouter(svc)
		svc.On("Create", mock.Anything, int64(7), int64(3), mock.Anything, mock.Anything).
			Return(nil, &domain.CapacityError{Limit: 100})

		req := httptest.NewRequest("POST", "/api/v1/workspaces/7/invitations", strings.NewReader(body))
		req.Header.Set("Authorization", "Bearer "+access)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("PermissionDenied", func(t *testing.T) {
		svc := new(mockInvitationService)
		router, access := newTestRouter(svc)
		svc.On("Create", mock.Anything, int64(7), int64(3), mock.Anything, mock.Anything).
			Return(nil, &domain.PermissionError{Reason: "your role does not permit creating invitations"})

		req := httptest.NewRequest("POST", "/api/v1/workspaces/7/invitations", strings.NewReader(body))
		req.Header.Set("Authorization", "Bearer "+access)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("MissingToken", func(t *testing.T) {
		svc := new(mockInvitationService)
		router, _ := newTestRouter(svc)

		req := httptest.NewRequest("POST", "/api/v1/workspaces/7/invitations", strings.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("RefreshTokenRejected", func(t *testing.T) {
		svc := new(mockInvitationService)
		router, _ := newTestRouter(svc)
		tokens := security.NewTokenManager("handler-test-secret-at-least-32-chars", 15, 60)
		refresh, err := tokens.GenerateRefreshToken(3, "ada@example.com")
		require.NoError(t, err)

		req := httptest.NewRequest("POST", "/api/v1/workspaces/7/invitations", strings.NewReader(body))
		req.Header.Set("Authorization", "Bearer "+refresh)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("BadWorkspaceID", func(t *testing.T) {
		svc := new(mockInvitationService)
		router, access := newTestRouter(svc)

		req := httptest.NewRequest("POST", "/api/v1/workspaces/zero/invitations", strings.NewReader(body))
		req.Header.Set("Authorization", "Bearer "+access)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestInvitationHandler_TokenEndpoints(t *testing.T) {
	t.Run("PreviewIsPublic", func(t *testing.T) {
		svc := new(mockInvitationService)
		router, _ := newTestRouter(svc)
		svc.On("GetByToken", mock.Anything, "tok-11").
			Return(&domain.WorkspaceInvitation{ID: 11, Status: domain.InvitationStatusPending}, nil)

		req := httptest.NewRequest("GET", "/api/v1/invitations/tok-11", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("UnknownToken", func(t *testing.T) {
		svc := new(mockInvitationService)
		router, _ := newTestRouter(svc)
		svc.On("GetByToken", mock.Anything, "nope").Return(nil, domain.NewNotFoundError("invitation", "nope"))

		req := httptest.NewRequest("GET", "/api/v1/invitations/nope", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("AcceptRequiresAuth", func(t *testing.T) {
		svc := new(mockInvitationService)
		router, _ := newTestRouter(svc)

		req := httptest.NewRequest("POST", "/api/v1/invitations/tok-11/accept", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("AcceptExpiredConflict", func(t *testing.T) {
		svc := new(mockInvitationService)
		router, access := newTestRouter(svc)
		svc.On("Accept", mock.Anything, "tok-11", int64(3)).
			Return(nil, &domain.StateError{Reason: "invitation has expired"})

		req := httptest.NewRequest("POST", "/api/v1/invitations/tok-11/accept", nil)
		req.Header.Set("Authorization", "Bearer "+access)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("DeclineIsPublic", func(t *testing.T) {
		svc := new(mockInvitationService)
		router, _ := newTestRouter(svc)
		svc.On("Decline", mock.Anything, "tok-11").Return(nil)

		req := httptest.NewRequest("POST", "/api/v1/invitations/tok-11/decline", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}

func TestInvitationHandler_Revoke(t *testing.T) {
	svc := new(mockInvitationService)
	router, access := newTestRouter(svc)
	svc.On("Revoke", mock.Anything, int64(7), int64(11), int64(3)).Return(nil)

	req := httptest.NewRequest("DELETE", "/api/v1/workspaces/7/invitations/11", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	svc.AssertExpectations(t)
}
