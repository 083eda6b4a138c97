package service

import (
	"context"
	"database/sql"
	"testing"

	"mewayz-backend/internal/domain"
	"mewayz-backend/internal/security"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testJWTSecret = "unit-test-secret-at-least-32-chars-long"

func newAuthFixture() (AuthService, *MockUserRepo) {
	userRepo := new(MockUserRepo)
	tokens := security.NewTokenManager(testJWTSecret, 15, 60*24)
	return NewAuthService(userRepo, tokens), userRepo
}

func TestAuthService_Signup(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc, userRepo := newAuthFixture()
		userRepo.On("GetByEmail", mock.Anything, "new@example.com").Return(nil, sql.ErrNoRows)
		userRepo.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			args.Get(1).(*domain.User).ID = 42
		}).Return(nil)

		user, access, refresh, err := svc.Signup(context.Background(), " Ada ", " New@Example.com ", "s3cretpass")
		require.NoError(t, err)
		assert.Equal(t, "Ada", user.Name)
		assert.Equal(t, "new@example.com", user.Email)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("s3cretpass")))
		assert.NotEmpty(t, access)
		assert.NotEmpty(t, refresh)
		assert.NotEqual(t, access, refresh)
	})

	t.Run("FieldViolationsAccumulate", func(t *testing.T) {
		svc, _ := newAuthFixture()
		_, _, _, err := svc.Signup(context.Background(), "", "not-an-email", "short")
		errs := fieldErrorsOf(t, err)
		assert.Contains(t, errs, "name")
		assert.Contains(t, errs, "email")
		assert.Contains(t, errs, "password")
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		svc, userRepo := newAuthFixture()
		userRepo.On("GetByEmail", mock.Anything, "taken@example.com").Return(&domain.User{ID: 1, Email: "taken@example.com"}, nil)

		_, _, _, err := svc.Signup(context.Background(), "Ada", "taken@example.com", "s3cretpass")
		errs := fieldErrorsOf(t, err)
		assert.Contains(t, errs["email"][0], "already exists")
		userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestAuthService_Login(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cretpass"), bcrypt.MinCost)
	require.NoError(t, err)
	stored := &domain.User{ID: 42, Email: "ada@example.com", PasswordHash: string(hash)}

	t.Run("Success", func(t *testing.T) {
		svc, userRepo := newAuthFixture()
		userRepo.On("GetByEmail", mock.Anything, "ada@example.com").Return(stored, nil)

		user, access, refresh, err := svc.Login(context.Background(), "Ada@Example.com", "s3cretpass")
		require.NoError(t, err)
		assert.Equal(t, int64(42), user.ID)
		assert.NotEmpty(t, access)
		assert.NotEmpty(t, refresh)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		svc, userRepo := newAuthFixture()
		userRepo.On("GetByEmail", mock.Anything, "ada@example.com").Return(stored, nil)

		_, _, _, err := svc.Login(context.Background(), "ada@example.com", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("UnknownEmail", func(t *testing.T) {
		svc, userRepo := newAuthFixture()
		userRepo.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, sql.ErrNoRows)

		_, _, _, err := svc.Login(context.Background(), "ghost@example.com", "s3cretpass")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestAuthService_RefreshToken(t *testing.T) {
	tokens := security.NewTokenManager(testJWTSecret, 15, 60*24)

	t.Run("Success", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		svc := NewAuthService(userRepo, tokens)
		refresh, err := tokens.GenerateRefreshToken(42, "ada@example.com")
		require.NoError(t, err)
		userRepo.On("GetByID", mock.Anything, int64(42)).Return(&domain.User{ID: 42, Email: "ada@example.com"}, nil)

		access, newRefresh, err := svc.RefreshToken(context.Background(), refresh)
		require.NoError(t, err)
		assert.NotEmpty(t, access)
		assert.NotEmpty(t, newRefresh)
	})

	t.Run("AccessTokenRejected", func(t *testing.T) {
		svc := NewAuthService(new(MockUserRepo), tokens)
		access, err := tokens.GenerateAccessToken(42, "ada@example.com")
		require.NoError(t, err)

		_, _, err = svc.RefreshToken(context.Background(), access)
		assert.ErrorIs(t, err, security.ErrWrongTokenType)
	})

	t.Run("Garbage", func(t *testing.T) {
		svc := NewAuthService(new(MockUserRepo), tokens)
		_, _, err := svc.RefreshToken(context.Background(), "not.a.jwt")
		assert.ErrorIs(t, err, security.ErrInvalidToken)
	})
}
