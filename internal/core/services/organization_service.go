package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/opsuite/opsuite_backend/internal/apperrors"
	"github.com/opsuite/opsuite_backend/internal/core/domain"
	portsrepo "github.com/opsuite/opsuite_backend/internal/core/ports/repositories"
	portssvc "github.com/opsuite/opsuite_backend/internal/core/ports/services"
)

// organizationService implements the OrganizationSvcFacade interface
type organizationService struct {
	BaseService
	orgRepo  portsrepo.OrganizationRepositoryFacade
	roleRepo portsrepo.RoleRepositoryFacade
	userRepo portsrepo.UserReader
}

// NewOrganizationService creates a new organization service with the provided dependencies
func NewOrganizationService(
	orgRepo portsrepo.OrganizationRepositoryFacade,
	roleRepo portsrepo.RoleRepositoryFacade,
	userRepo portsrepo.UserReader,
) portssvc.OrganizationSvcFacade {
	return &organizationService{
		orgRepo:  orgRepo,
		roleRepo: roleRepo,
		userRepo: userRepo,
	}
}

// Ensure organizationService implements the OrganizationSvcFacade interface
var _ portssvc.OrganizationSvcFacade = (*organizationService)(nil)

// CreateOrganization creates a tenant in PENDING_ACTIVATION and makes the
// creator its ADMIN. The tenant cannot reach application data until a
// subscription key is redeemed and onboarding completes.
func (s *organizationService) CreateOrganization(ctx context.Context, name, creatorUserID string) (*domain.Organization, error) {
	if name == "" {
		return nil, apperrors.NewValidationFailedError("organization name is required", nil)
	}

	now := time.Now()
	org := domain.Organization{
		OrganizationID: uuid.NewString(),
		Name:           name,
		Status:         domain.OrgStatusPendingActivation,
		EnabledModules: []domain.AppModule{},
		Version:        1,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.orgRepo.SaveOrganization(ctx, org); err != nil {
		s.LogError(ctx, err, "Failed to save organization",
			slog.String("organization_id", org.OrganizationID))
		return nil, err
	}

	adminAssignment := domain.RoleAssignment{
		UserID:         creatorUserID,
		OrganizationID: org.OrganizationID,
		Role:           domain.RoleAdmin,
		AssignedBy:     creatorUserID,
		AssignedAt:     now,
	}
	if err := s.roleRepo.SaveRoleAssignment(ctx, adminAssignment); err != nil {
		s.LogError(ctx, err, "Failed to assign creator as admin",
			slog.String("organization_id", org.OrganizationID),
			slog.String("user_id", creatorUserID))
		return nil, err
	}

	s.LogInfo(ctx, "Organization created",
		slog.String("organization_id", org.OrganizationID),
		slog.String("creator_id", creatorUserID))
	return &org, nil
}

// GetOrganization retrieves an organization for a member or platform admin.
func (s *organizationService) GetOrganization(ctx context.Context, organizationID, requestingUserID string) (*domain.Organization, error) {
	isMember, err := s.isMemberOrPlatformAdmin(ctx, requestingUserID, organizationID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, apperrors.ErrForbidden
	}

	org, err := s.orgRepo.FindOrganizationByID(ctx, organizationID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find organization",
				slog.String("organization_id", organizationID))
		}
		return nil, err
	}
	return org, nil
}

// ListMyOrganizations retrieves the organizations the caller belongs to.
func (s *organizationService) ListMyOrganizations(ctx context.Context, userID string) ([]domain.Organization, error) {
	orgs, err := s.orgRepo.ListOrganizationsByUserID(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list organizations for user",
			slog.String("user_id", userID))
		return nil, err
	}
	if orgs == nil {
		return []domain.Organization{}, nil
	}
	return orgs, nil
}

// SuspendOrganization suspends a tenant. Platform admins only. Suspension
// locks the tenant out of everything except the subscription surface.
func (s *organizationService) SuspendOrganization(ctx context.Context, organizationID, requestingUserID string) error {
	return s.transitionAsPlatformAdmin(ctx, organizationID, requestingUserID, func(*domain.Organization) domain.OrgStatus {
		return domain.OrgStatusSuspended
	})
}

// UnsuspendOrganization restores a suspended tenant to the state it was
// suspended from. A tenant suspended mid-onboarding goes back to ONBOARDING,
// never straight to ACTIVE.
func (s *organizationService) UnsuspendOrganization(ctx context.Context, organizationID, requestingUserID string) error {
	return s.transitionAsPlatformAdmin(ctx, organizationID, requestingUserID, func(org *domain.Organization) domain.OrgStatus {
		return org.ResumeStatus()
	})
}

func (s *organizationService) transitionAsPlatformAdmin(ctx context.Context, organizationID, requestingUserID string, target func(*domain.Organization) domain.OrgStatus) error {
	user, err := s.userRepo.FindUserByID(ctx, requestingUserID)
	if err != nil {
		return err
	}
	if !user.IsPlatformAdmin {
		return apperrors.ErrForbidden
	}

	org, err := s.orgRepo.FindOrganizationByID(ctx, organizationID)
	if err != nil {
		return err
	}
	newStatus := target(org)

	if err := s.orgRepo.UpdateOrganizationStatus(ctx, org, newStatus, requestingUserID); err != nil {
		s.LogError(ctx, err, "Failed to update organization status",
			slog.String("organization_id", organizationID),
			slog.String("new_status", string(newStatus)))
		return err
	}

	s.LogInfo(ctx, "Organization status updated",
		slog.String("organization_id", organizationID),
		slog.String("new_status", string(newStatus)),
		slog.String("acting_user_id", requestingUserID))
	return nil
}

// isMemberOrPlatformAdmin reports whether the user holds any role in the
// organization or is a platform operator.
func (s *organizationService) isMemberOrPlatformAdmin(ctx context.Context, userID, organizationID string) (bool, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	if user.IsPlatformAdmin {
		return true, nil
	}
	assignments, err := s.roleRepo.ListRoleAssignments(ctx, userID, organizationID)
	if err != nil {
		return false, err
	}
	return len(assignments) > 0, nil
}
