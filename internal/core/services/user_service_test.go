package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/opsuite/opsuite_backend/internal/apperrors"
	"github.com/opsuite/opsuite_backend/internal/core/domain"
	"github.com/opsuite/opsuite_backend/internal/core/services"
	"github.com/opsuite/opsuite_backend/internal/dto"
	"github.com/opsuite/opsuite_backend/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- Mock UserRepository ---
type MockUserRepository struct {
	mock.Mock
	FindUserByIDFn              func(ctx context.Context, userID string) (*domain.User, error)
	FindUserByEmailFn           func(ctx context.Context, email string) (*domain.User, error)
	FindUserByProviderDetailsFn func(ctx context.Context, authProvider, providerUserID string) (*domain.User, error)
	FindUsersFn                 func(ctx context.Context, limit int, offset int) ([]domain.User, error)
	SaveUserFn                  func(ctx context.Context, user domain.User) error
	UpdateUserFn                func(ctx context.Context, user domain.User) error
	UpdateRefreshTokenFn        func(ctx context.Context, userID string, refreshTokenHash string, refreshTokenExpiry time.Time) error
	ClearRefreshTokenFn         func(ctx context.Context, userID string) error
	MarkUserDeletedFn           func(ctx context.Context, userID string, deletedAt time.Time, deletedBy string) error
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	if m.FindUserByIDFn != nil {
		return m.FindUserByIDFn(ctx, userID)
	}
	args := m.Called(ctx, userID)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.FindUserByEmailFn != nil {
		return m.FindUserByEmailFn(ctx, email)
	}
	args := m.Called(ctx, email)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) FindUserByProviderDetails(ctx context.Context, authProvider, providerUserID string) (*domain.User, error) {
	if m.FindUserByProviderDetailsFn != nil {
		return m.FindUserByProviderDetailsFn(ctx, authProvider, providerUserID)
	}
	args := m.Called(ctx, authProvider, providerUserID)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) FindUsers(ctx context.Context, limit int, offset int) ([]domain.User, error) {
	if m.FindUsersFn != nil {
		return m.FindUsersFn(ctx, limit, offset)
	}
	args := m.Called(ctx, limit, offset)
	var users []domain.User
	if args.Get(0) != nil {
		users = args.Get(0).([]domain.User)
	}
	return users, args.Error(1)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	if m.SaveUserFn != nil {
		return m.SaveUserFn(ctx, user)
	}
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	if m.UpdateUserFn != nil {
		return m.UpdateUserFn(ctx, user)
	}
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash string, refreshTokenExpiry time.Time) error {
	if m.UpdateRefreshTokenFn != nil {
		return m.UpdateRefreshTokenFn(ctx, userID, refreshTokenHash, refreshTokenExpiry)
	}
	args := m.Called(ctx, userID, refreshTokenHash, refreshTokenExpiry)
	return args.Error(0)
}

func (m *MockUserRepository) ClearRefreshToken(ctx context.Context, userID string) error {
	if m.ClearRefreshTokenFn != nil {
		return m.ClearRefreshTokenFn(ctx, userID)
	}
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockUserRepository) MarkUserDeleted(ctx context.Context, userID string, deletedAt time.Time, deletedBy string) error {
	if m.MarkUserDeletedFn != nil {
		return m.MarkUserDeletedFn(ctx, userID, deletedAt, deletedBy)
	}
	args := m.Called(ctx, userID, deletedAt, deletedBy)
	return args.Error(0)
}

func TestCreateUser_HashesPassword(t *testing.T) {
	userRepo := &MockUserRepository{}
	var saved domain.User
	userRepo.SaveUserFn = func(ctx context.Context, user domain.User) error {
		saved = user
		return nil
	}
	svc := services.NewUserService(userRepo)

	user, err := svc.CreateUser(context.Background(), dto.CreateUserRequest{
		Name:     "Ada",
		Email:    "ada@example.com",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, user.UserID)
	assert.Equal(t, "local", saved.AuthProvider)
	assert.NotEqual(t, "s3cret-pass", saved.PasswordHash)
	assert.True(t, utils.CheckPasswordHash("s3cret-pass", saved.PasswordHash))
}

func TestCreateUser_DuplicateEmailSurfaces(t *testing.T) {
	userRepo := &MockUserRepository{
		SaveUserFn: func(ctx context.Context, user domain.User) error {
			return apperrors.NewConflictError("email already registered")
		},
	}
	svc := services.NewUserService(userRepo)

	_, err := svc.CreateUser(context.Background(), dto.CreateUserRequest{
		Name:     "Ada",
		Email:    "ada@example.com",
		Password: "s3cret-pass",
	})
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)
}

func TestFindOrCreateOAuthUser(t *testing.T) {
	t.Run("returns existing user on repeat sign-in", func(t *testing.T) {
		existing := &domain.User{UserID: "user-1", AuthProvider: "google", ProviderUserID: "g-123"}
		userRepo := &MockUserRepository{
			FindUserByProviderDetailsFn: func(ctx context.Context, authProvider, providerUserID string) (*domain.User, error) {
				return existing, nil
			},
			SaveUserFn: func(ctx context.Context, user domain.User) error {
				t.Fatal("must not create a second account")
				return nil
			},
		}
		svc := services.NewUserService(userRepo)

		user, err := svc.FindOrCreateOAuthUser(context.Background(), "google", "g-123", "ada@example.com", "Ada")
		require.NoError(t, err)
		assert.Equal(t, "user-1", user.UserID)
	})

	t.Run("creates account on first sign-in", func(t *testing.T) {
		var saved domain.User
		userRepo := &MockUserRepository{
			FindUserByProviderDetailsFn: func(ctx context.Context, authProvider, providerUserID string) (*domain.User, error) {
				return nil, apperrors.ErrNotFound
			},
			SaveUserFn: func(ctx context.Context, user domain.User) error {
				saved = user
				return nil
			},
		}
		svc := services.NewUserService(userRepo)

		user, err := svc.FindOrCreateOAuthUser(context.Background(), "google", "g-123", "ada@example.com", "Ada")
		require.NoError(t, err)
		assert.Equal(t, "google", saved.AuthProvider)
		assert.Equal(t, "g-123", saved.ProviderUserID)
		assert.Empty(t, saved.PasswordHash)
		assert.Equal(t, saved.UserID, user.UserID)
	})
}

func TestUpdateUser_OnlySelf(t *testing.T) {
	svc := services.NewUserService(&MockUserRepository{})

	name := "New Name"
	_, err := svc.UpdateUser(context.Background(), "user-1", dto.UpdateUserRequest{Name: &name}, "user-2")
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestDeleteUser_ProtectedAccountRefused(t *testing.T) {
	userRepo := &MockUserRepository{
		FindUserByIDFn: func(ctx context.Context, userID string) (*domain.User, error) {
			return &domain.User{UserID: userID, IsProtected: true}, nil
		},
		MarkUserDeletedFn: func(ctx context.Context, userID string, deletedAt time.Time, deletedBy string) error {
			t.Fatal("protected account must never be deleted")
			return nil
		},
	}
	svc := services.NewUserService(userRepo)

	err := svc.DeleteUser(context.Background(), "owner-1", "owner-1")
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestDeleteUser_SelfSoftDelete(t *testing.T) {
	var deletedBy string
	userRepo := &MockUserRepository{
		FindUserByIDFn: func(ctx context.Context, userID string) (*domain.User, error) {
			return &domain.User{UserID: userID}, nil
		},
		MarkUserDeletedFn: func(ctx context.Context, userID string, deletedAt time.Time, by string) error {
			deletedBy = by
			return nil
		},
	}
	svc := services.NewUserService(userRepo)

	require.NoError(t, svc.DeleteUser(context.Background(), "user-1", "user-1"))
	assert.Equal(t, "user-1", deletedBy)

	err := svc.DeleteUser(context.Background(), "user-1", "user-2")
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestAuthenticateUser_UniformUnauthorized(t *testing.T) {
	hash, err := utils.HashPassword("right-password")
	require.NoError(t, err)
	userRepo := &MockUserRepository{
		FindUserByEmailFn: func(ctx context.Context, email string) (*domain.User, error) {
			if email == "ada@example.com" {
				return &domain.User{UserID: "user-1", Email: email, PasswordHash: hash}, nil
			}
			return nil, apperrors.ErrNotFound
		},
	}
	svc := services.NewUserService(userRepo)
	ctx := context.Background()

	user, err := svc.AuthenticateUser(ctx, "ada@example.com", "right-password")
	require.NoError(t, err)
	assert.Equal(t, "user-1", user.UserID)

	// Unknown email and wrong password are indistinguishable to the caller.
	_, wrongPass := svc.AuthenticateUser(ctx, "ada@example.com", "wrong-password")
	_, unknownEmail := svc.AuthenticateUser(ctx, "nobody@example.com", "right-password")
	assert.ErrorIs(t, wrongPass, apperrors.ErrUnauthorized)
	assert.ErrorIs(t, unknownEmail, apperrors.ErrUnauthorized)
}

func TestAuthenticateUser_OAuthOnlyAccountHasNoPassword(t *testing.T) {
	userRepo := &MockUserRepository{
		FindUserByEmailFn: func(ctx context.Context, email string) (*domain.User, error) {
			return &domain.User{UserID: "user-1", Email: email, AuthProvider: "google"}, nil
		},
	}
	svc := services.NewUserService(userRepo)

	_, err := svc.AuthenticateUser(context.Background(), "ada@example.com", "anything")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestListUsers_DefaultsLimit(t *testing.T) {
	var gotLimit int
	userRepo := &MockUserRepository{
		FindUsersFn: func(ctx context.Context, limit int, offset int) ([]domain.User, error) {
			gotLimit = limit
			return []domain.User{}, nil
		},
	}
	svc := services.NewUserService(userRepo)

	_, err := svc.ListUsers(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 20, gotLimit)
}
