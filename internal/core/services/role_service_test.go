package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/opsuite/opsuite_backend/internal/apperrors"
	"github.com/opsuite/opsuite_backend/internal/core/domain"
	"github.com/opsuite/opsuite_backend/internal/core/policy"
	"github.com/opsuite/opsuite_backend/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- Mock RoleRepository ---
type MockRoleRepository struct {
	mock.Mock
	ListRoleAssignmentsFn             func(ctx context.Context, userID, organizationID string) ([]domain.RoleAssignment, error)
	ListOrganizationRoleAssignmentsFn func(ctx context.Context, organizationID string) ([]domain.RoleAssignment, error)
	ListUserIDsByRoleFn               func(ctx context.Context, organizationID string, role domain.Role) ([]string, error)
	ListMemberUserIDsFn               func(ctx context.Context, organizationID string) ([]string, error)
	SaveRoleAssignmentFn              func(ctx context.Context, assignment domain.RoleAssignment) error
	DeleteRoleAssignmentFn            func(ctx context.Context, userID, organizationID string, role domain.Role) error
}

func (m *MockRoleRepository) ListRoleAssignments(ctx context.Context, userID, organizationID string) ([]domain.RoleAssignment, error) {
	if m.ListRoleAssignmentsFn != nil {
		return m.ListRoleAssignmentsFn(ctx, userID, organizationID)
	}
	args := m.Called(ctx, userID, organizationID)
	var assignments []domain.RoleAssignment
	if args.Get(0) != nil {
		assignments = args.Get(0).([]domain.RoleAssignment)
	}
	return assignments, args.Error(1)
}

func (m *MockRoleRepository) ListOrganizationRoleAssignments(ctx context.Context, organizationID string) ([]domain.RoleAssignment, error) {
	if m.ListOrganizationRoleAssignmentsFn != nil {
		return m.ListOrganizationRoleAssignmentsFn(ctx, organizationID)
	}
	args := m.Called(ctx, organizationID)
	var assignments []domain.RoleAssignment
	if args.Get(0) != nil {
		assignments = args.Get(0).([]domain.RoleAssignment)
	}
	return assignments, args.Error(1)
}

func (m *MockRoleRepository) ListUserIDsByRole(ctx context.Context, organizationID string, role domain.Role) ([]string, error) {
	if m.ListUserIDsByRoleFn != nil {
		return m.ListUserIDsByRoleFn(ctx, organizationID, role)
	}
	args := m.Called(ctx, organizationID, role)
	var ids []string
	if args.Get(0) != nil {
		ids = args.Get(0).([]string)
	}
	return ids, args.Error(1)
}

func (m *MockRoleRepository) ListMemberUserIDs(ctx context.Context, organizationID string) ([]string, error) {
	if m.ListMemberUserIDsFn != nil {
		return m.ListMemberUserIDsFn(ctx, organizationID)
	}
	args := m.Called(ctx, organizationID)
	var ids []string
	if args.Get(0) != nil {
		ids = args.Get(0).([]string)
	}
	return ids, args.Error(1)
}

func (m *MockRoleRepository) SaveRoleAssignment(ctx context.Context, assignment domain.RoleAssignment) error {
	if m.SaveRoleAssignmentFn != nil {
		return m.SaveRoleAssignmentFn(ctx, assignment)
	}
	args := m.Called(ctx, assignment)
	return args.Error(0)
}

func (m *MockRoleRepository) DeleteRoleAssignment(ctx context.Context, userID, organizationID string, role domain.Role) error {
	if m.DeleteRoleAssignmentFn != nil {
		return m.DeleteRoleAssignmentFn(ctx, userID, organizationID, role)
	}
	args := m.Called(ctx, userID, organizationID, role)
	return args.Error(0)
}

// --- Mock UserReader ---
type MockUserReader struct {
	mock.Mock
	FindUserByIDFn func(ctx context.Context, userID string) (*domain.User, error)
}

func (m *MockUserReader) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
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

func (m *MockUserReader) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserReader) FindUserByProviderDetails(ctx context.Context, authProvider, providerUserID string) (*domain.User, error) {
	args := m.Called(ctx, authProvider, providerUserID)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserReader) FindUsers(ctx context.Context, limit int, offset int) ([]domain.User, error) {
	args := m.Called(ctx, limit, offset)
	var users []domain.User
	if args.Get(0) != nil {
		users = args.Get(0).([]domain.User)
	}
	return users, args.Error(1)
}

func assignmentsOf(userID, orgID string, roles ...domain.Role) []domain.RoleAssignment {
	out := make([]domain.RoleAssignment, len(roles))
	for i, r := range roles {
		out[i] = domain.RoleAssignment{
			UserID:         userID,
			OrganizationID: orgID,
			Role:           r,
			AssignedBy:     "admin-1",
			AssignedAt:     time.Now(),
		}
	}
	return out
}

func memberUser(userID string) *domain.User {
	return &domain.User{UserID: userID, Name: "Member", Email: userID + "@example.com"}
}

func TestResolveRoles_DefaultsToEmployee(t *testing.T) {
	roleRepo := &MockRoleRepository{
		ListRoleAssignmentsFn: func(ctx context.Context, userID, orgID string) ([]domain.RoleAssignment, error) {
			return nil, nil
		},
	}
	svc := services.NewRoleService(roleRepo, &MockUserReader{}, false)

	res, err := svc.ResolveRoles(context.Background(), "user-1", "org-1")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleEmployee, res.ActualRole)
	assert.Equal(t, domain.RoleEmployee, res.EffectiveRole)
	assert.Equal(t, []domain.Role{domain.RoleEmployee}, res.AvailableRoles)
	assert.False(t, res.IsImpersonating)
}

func TestResolveRoles_HighestRoleWinsAndOrdering(t *testing.T) {
	roleRepo := &MockRoleRepository{
		ListRoleAssignmentsFn: func(ctx context.Context, userID, orgID string) ([]domain.RoleAssignment, error) {
			return assignmentsOf(userID, orgID, domain.RoleManager, domain.RoleHR, domain.RoleEmployee), nil
		},
	}
	svc := services.NewRoleService(roleRepo, &MockUserReader{}, false)

	res, err := svc.ResolveRoles(context.Background(), "user-1", "org-1")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleHR, res.ActualRole)
	assert.Equal(t, []domain.Role{domain.RoleHR, domain.RoleManager, domain.RoleEmployee}, res.AvailableRoles)
}

func TestRolePreview_DisabledReturnsForbidden(t *testing.T) {
	svc := services.NewRoleService(&MockRoleRepository{}, &MockUserReader{}, false)

	err := svc.SetActiveRole(context.Background(), "user-1", "org-1", domain.RoleAdmin)
	require.Error(t, err)
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, 403, appErr.Code)
}

func TestRolePreview_ChangesEffectiveRoleOnly(t *testing.T) {
	roleRepo := &MockRoleRepository{
		ListRoleAssignmentsFn: func(ctx context.Context, userID, orgID string) ([]domain.RoleAssignment, error) {
			return assignmentsOf(userID, orgID, domain.RoleEmployee), nil
		},
	}
	svc := services.NewRoleService(roleRepo, &MockUserReader{}, true)
	ctx := context.Background()

	require.NoError(t, svc.SetActiveRole(ctx, "user-1", "org-1", domain.RoleAdmin))

	res, err := svc.ResolveRoles(ctx, "user-1", "org-1")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleEmployee, res.ActualRole, "actual role must not change")
	assert.Equal(t, domain.RoleAdmin, res.EffectiveRole)
	assert.True(t, res.IsImpersonating)

	// The preview is per (user, organization).
	other, err := svc.ResolveRoles(ctx, "user-1", "org-2")
	require.NoError(t, err)
	assert.False(t, other.IsImpersonating)

	svc.ClearActiveRole(ctx, "user-1", "org-1")
	res, err = svc.ResolveRoles(ctx, "user-1", "org-1")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleEmployee, res.EffectiveRole)
	assert.False(t, res.IsImpersonating)
}

func TestRolePreview_RejectsUnknownRole(t *testing.T) {
	svc := services.NewRoleService(&MockRoleRepository{}, &MockUserReader{}, true)

	err := svc.SetActiveRole(context.Background(), "user-1", "org-1", domain.Role("SUPERUSER"))
	require.Error(t, err)
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.Code)
}

func TestAuthorize_IgnoresPreviewOverride(t *testing.T) {
	roleRepo := &MockRoleRepository{
		ListRoleAssignmentsFn: func(ctx context.Context, userID, orgID string) ([]domain.RoleAssignment, error) {
			return assignmentsOf(userID, orgID, domain.RoleEmployee), nil
		},
	}
	userRepo := &MockUserReader{
		FindUserByIDFn: func(ctx context.Context, userID string) (*domain.User, error) {
			return memberUser(userID), nil
		},
	}
	svc := services.NewRoleService(roleRepo, userRepo, true)
	ctx := context.Background()

	// Preview ADMIN, then attempt an admin-gated operation: the stored
	// EMPLOYEE role must still decide.
	require.NoError(t, svc.SetActiveRole(ctx, "user-1", "org-1", domain.RoleAdmin))
	err := svc.Authorize(ctx, "user-1", "org-1", policy.OpRolesAssign)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestAuthorize_PlatformAdminBypass(t *testing.T) {
	userRepo := &MockUserReader{
		FindUserByIDFn: func(ctx context.Context, userID string) (*domain.User, error) {
			u := memberUser(userID)
			u.IsPlatformAdmin = true
			return u, nil
		},
	}
	svc := services.NewRoleService(&MockRoleRepository{}, userRepo, false)

	// No role rows anywhere, yet every operation passes.
	assert.NoError(t, svc.Authorize(context.Background(), "admin-0", "org-1", policy.OpOrgManage))
	assert.NoError(t, svc.Authorize(context.Background(), "admin-0", "org-2", policy.OpReimbursePay))
}

func TestAuthorize_NoMembershipIsForbidden(t *testing.T) {
	roleRepo := &MockRoleRepository{
		ListRoleAssignmentsFn: func(ctx context.Context, userID, orgID string) ([]domain.RoleAssignment, error) {
			return nil, nil
		},
	}
	userRepo := &MockUserReader{
		FindUserByIDFn: func(ctx context.Context, userID string) (*domain.User, error) {
			return memberUser(userID), nil
		},
	}
	svc := services.NewRoleService(roleRepo, userRepo, false)

	err := svc.Authorize(context.Background(), "user-1", "org-1", policy.OpLeaveSubmit)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestAssignRole_SelfModificationForbidden(t *testing.T) {
	svc := services.NewRoleService(&MockRoleRepository{}, &MockUserReader{}, false)

	err := svc.AssignRole(context.Background(), "user-1", "user-1", "org-1", domain.RoleManager)
	require.Error(t, err)
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, 403, appErr.Code)
}

func TestAssignRole_Success(t *testing.T) {
	var saved domain.RoleAssignment
	roleRepo := &MockRoleRepository{
		ListRoleAssignmentsFn: func(ctx context.Context, userID, orgID string) ([]domain.RoleAssignment, error) {
			return assignmentsOf(userID, orgID, domain.RoleAdmin), nil
		},
		SaveRoleAssignmentFn: func(ctx context.Context, assignment domain.RoleAssignment) error {
			saved = assignment
			return nil
		},
	}
	userRepo := &MockUserReader{
		FindUserByIDFn: func(ctx context.Context, userID string) (*domain.User, error) {
			return memberUser(userID), nil
		},
	}
	svc := services.NewRoleService(roleRepo, userRepo, false)

	err := svc.AssignRole(context.Background(), "admin-1", "user-2", "org-1", domain.RoleManager)
	require.NoError(t, err)
	assert.Equal(t, "user-2", saved.UserID)
	assert.Equal(t, domain.RoleManager, saved.Role)
	assert.Equal(t, "admin-1", saved.AssignedBy)
}

func TestRevokeRole_ProtectedAccountCannotBeDemoted(t *testing.T) {
	roleRepo := &MockRoleRepository{
		ListRoleAssignmentsFn: func(ctx context.Context, userID, orgID string) ([]domain.RoleAssignment, error) {
			return assignmentsOf(userID, orgID, domain.RoleAdmin), nil
		},
	}
	userRepo := &MockUserReader{
		FindUserByIDFn: func(ctx context.Context, userID string) (*domain.User, error) {
			u := memberUser(userID)
			u.IsProtected = userID == "owner-1"
			return u, nil
		},
	}
	svc := services.NewRoleService(roleRepo, userRepo, false)

	err := svc.RevokeRole(context.Background(), "admin-1", "owner-1", "org-1", domain.RoleAdmin)
	require.Error(t, err)
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, 403, appErr.Code)
}
