package services_test

import (
	"context"
	"testing"

	"github.com/opsuite/opsuite_backend/internal/apperrors"
	"github.com/opsuite/opsuite_backend/internal/core/domain"
	"github.com/opsuite/opsuite_backend/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- Mock OrganizationRepository ---
type MockOrganizationRepository struct {
	mock.Mock
	FindOrganizationByIDFn      func(ctx context.Context, organizationID string) (*domain.Organization, error)
	ListOrganizationsByUserIDFn func(ctx context.Context, userID string) ([]domain.Organization, error)
	SaveOrganizationFn          func(ctx context.Context, org domain.Organization) error
	UpdateOrganizationStatusFn  func(ctx context.Context, org *domain.Organization, newStatus domain.OrgStatus, updatedByUserID string) error
}

func (m *MockOrganizationRepository) FindOrganizationByID(ctx context.Context, organizationID string) (*domain.Organization, error) {
	if m.FindOrganizationByIDFn != nil {
		return m.FindOrganizationByIDFn(ctx, organizationID)
	}
	args := m.Called(ctx, organizationID)
	var org *domain.Organization
	if args.Get(0) != nil {
		org = args.Get(0).(*domain.Organization)
	}
	return org, args.Error(1)
}

func (m *MockOrganizationRepository) ListOrganizationsByUserID(ctx context.Context, userID string) ([]domain.Organization, error) {
	if m.ListOrganizationsByUserIDFn != nil {
		return m.ListOrganizationsByUserIDFn(ctx, userID)
	}
	args := m.Called(ctx, userID)
	var orgs []domain.Organization
	if args.Get(0) != nil {
		orgs = args.Get(0).([]domain.Organization)
	}
	return orgs, args.Error(1)
}

func (m *MockOrganizationRepository) SaveOrganization(ctx context.Context, org domain.Organization) error {
	if m.SaveOrganizationFn != nil {
		return m.SaveOrganizationFn(ctx, org)
	}
	args := m.Called(ctx, org)
	return args.Error(0)
}

func (m *MockOrganizationRepository) UpdateOrganizationStatus(ctx context.Context, org *domain.Organization, newStatus domain.OrgStatus, updatedByUserID string) error {
	if m.UpdateOrganizationStatusFn != nil {
		return m.UpdateOrganizationStatusFn(ctx, org, newStatus, updatedByUserID)
	}
	args := m.Called(ctx, org, newStatus, updatedByUserID)
	return args.Error(0)
}

func TestCreateOrganization_StartsPendingWithCreatorAsAdmin(t *testing.T) {
	orgRepo := &MockOrganizationRepository{}
	var savedOrg domain.Organization
	orgRepo.SaveOrganizationFn = func(ctx context.Context, org domain.Organization) error {
		savedOrg = org
		return nil
	}
	roleRepo := &MockRoleRepository{}
	var savedAssignment domain.RoleAssignment
	roleRepo.SaveRoleAssignmentFn = func(ctx context.Context, assignment domain.RoleAssignment) error {
		savedAssignment = assignment
		return nil
	}
	svc := services.NewOrganizationService(orgRepo, roleRepo, &MockUserReader{})

	org, err := svc.CreateOrganization(context.Background(), "Acme Corp", "founder-1")
	require.NoError(t, err)
	assert.Equal(t, domain.OrgStatusPendingActivation, org.Status)
	assert.Empty(t, org.EnabledModules, "modules come from the redeemed key, not creation")
	assert.Equal(t, savedOrg.OrganizationID, org.OrganizationID)
	assert.Equal(t, "founder-1", savedAssignment.UserID)
	assert.Equal(t, domain.RoleAdmin, savedAssignment.Role)
	assert.Equal(t, org.OrganizationID, savedAssignment.OrganizationID)
}

func TestCreateOrganization_RequiresName(t *testing.T) {
	svc := services.NewOrganizationService(&MockOrganizationRepository{}, &MockRoleRepository{}, &MockUserReader{})

	_, err := svc.CreateOrganization(context.Background(), "", "founder-1")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestGetOrganization_MembersOnly(t *testing.T) {
	orgRepo := &MockOrganizationRepository{
		FindOrganizationByIDFn: func(ctx context.Context, organizationID string) (*domain.Organization, error) {
			return &domain.Organization{OrganizationID: organizationID, Status: domain.OrgStatusActive}, nil
		},
	}
	roleRepo := &MockRoleRepository{
		ListRoleAssignmentsFn: func(ctx context.Context, userID, orgID string) ([]domain.RoleAssignment, error) {
			if userID == "member-1" {
				return assignmentsOf(userID, orgID, domain.RoleEmployee), nil
			}
			return nil, nil
		},
	}
	userRepo := &MockUserReader{
		FindUserByIDFn: func(ctx context.Context, userID string) (*domain.User, error) {
			return memberUser(userID), nil
		},
	}
	svc := services.NewOrganizationService(orgRepo, roleRepo, userRepo)
	ctx := context.Background()

	org, err := svc.GetOrganization(ctx, "org-1", "member-1")
	require.NoError(t, err)
	assert.Equal(t, "org-1", org.OrganizationID)

	_, err = svc.GetOrganization(ctx, "org-1", "outsider-1")
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestGetOrganization_PlatformAdminNeedsNoMembership(t *testing.T) {
	orgRepo := &MockOrganizationRepository{
		FindOrganizationByIDFn: func(ctx context.Context, organizationID string) (*domain.Organization, error) {
			return &domain.Organization{OrganizationID: organizationID, Status: domain.OrgStatusSuspended}, nil
		},
	}
	svc := services.NewOrganizationService(orgRepo, &MockRoleRepository{}, platformAdminReader())

	org, err := svc.GetOrganization(context.Background(), "org-1", "platform-1")
	require.NoError(t, err)
	assert.Equal(t, domain.OrgStatusSuspended, org.Status)
}

func TestSuspendOrganization_PlatformAdminOnly(t *testing.T) {
	orgRepo := &MockOrganizationRepository{
		FindOrganizationByIDFn: func(ctx context.Context, organizationID string) (*domain.Organization, error) {
			return &domain.Organization{OrganizationID: organizationID, Status: domain.OrgStatusActive}, nil
		},
	}
	var gotStatus domain.OrgStatus
	orgRepo.UpdateOrganizationStatusFn = func(ctx context.Context, org *domain.Organization, newStatus domain.OrgStatus, updatedByUserID string) error {
		gotStatus = newStatus
		return nil
	}
	svc := services.NewOrganizationService(orgRepo, &MockRoleRepository{}, platformAdminReader())
	ctx := context.Background()

	require.NoError(t, svc.SuspendOrganization(ctx, "org-1", "platform-1"))
	assert.Equal(t, domain.OrgStatusSuspended, gotStatus)

	// A tenant admin is not a platform operator.
	err := svc.SuspendOrganization(ctx, "org-1", "admin-1")
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestUnsuspendOrganization_RestoresActive(t *testing.T) {
	orgRepo := &MockOrganizationRepository{
		FindOrganizationByIDFn: func(ctx context.Context, organizationID string) (*domain.Organization, error) {
			return &domain.Organization{
				OrganizationID: organizationID,
				Status:         domain.OrgStatusSuspended,
				SuspendedFrom:  domain.OrgStatusActive,
			}, nil
		},
	}
	var gotStatus domain.OrgStatus
	orgRepo.UpdateOrganizationStatusFn = func(ctx context.Context, org *domain.Organization, newStatus domain.OrgStatus, updatedByUserID string) error {
		gotStatus = newStatus
		return nil
	}
	svc := services.NewOrganizationService(orgRepo, &MockRoleRepository{}, platformAdminReader())

	require.NoError(t, svc.UnsuspendOrganization(context.Background(), "org-1", "platform-1"))
	assert.Equal(t, domain.OrgStatusActive, gotStatus)
}

func TestUnsuspendOrganization_RestoresPreSuspensionState(t *testing.T) {
	// A tenant suspended before finishing onboarding must resume onboarding,
	// not jump to ACTIVE with no redeemed key or seeded defaults.
	for _, from := range []domain.OrgStatus{
		domain.OrgStatusPendingActivation,
		domain.OrgStatusOnboarding,
	} {
		orgRepo := &MockOrganizationRepository{
			FindOrganizationByIDFn: func(ctx context.Context, organizationID string) (*domain.Organization, error) {
				return &domain.Organization{
					OrganizationID: organizationID,
					Status:         domain.OrgStatusSuspended,
					SuspendedFrom:  from,
				}, nil
			},
		}
		var gotStatus domain.OrgStatus
		orgRepo.UpdateOrganizationStatusFn = func(ctx context.Context, org *domain.Organization, newStatus domain.OrgStatus, updatedByUserID string) error {
			gotStatus = newStatus
			return nil
		}
		svc := services.NewOrganizationService(orgRepo, &MockRoleRepository{}, platformAdminReader())

		require.NoError(t, svc.UnsuspendOrganization(context.Background(), "org-1", "platform-1"))
		assert.Equal(t, from, gotStatus)
	}
}

func TestListMyOrganizations_NilBecomesEmptySlice(t *testing.T) {
	orgRepo := &MockOrganizationRepository{
		ListOrganizationsByUserIDFn: func(ctx context.Context, userID string) ([]domain.Organization, error) {
			return nil, nil
		},
	}
	svc := services.NewOrganizationService(orgRepo, &MockRoleRepository{}, &MockUserReader{})

	orgs, err := svc.ListMyOrganizations(context.Background(), "user-1")
	require.NoError(t, err)
	assert.NotNil(t, orgs)
	assert.Empty(t, orgs)
}
