package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/opsuite/opsuite_backend/internal/apperrors"
	portsrepo "github.com/opsuite/opsuite_backend/internal/core/ports/repositories"
	portssvc "github.com/opsuite/opsuite_backend/internal/core/ports/services"
)

// onboardingService implements the OnboardingSvcFacade interface
type onboardingService struct {
	BaseService
	onboardingRepo portsrepo.OnboardingRepository
	roleRepo       portsrepo.RoleAssignmentReader
	userRepo       portsrepo.UserReader
}

// NewOnboardingService creates a new onboarding service with the provided dependencies
func NewOnboardingService(
	onboardingRepo portsrepo.OnboardingRepository,
	roleRepo portsrepo.RoleAssignmentReader,
	userRepo portsrepo.UserReader,
) portssvc.OnboardingSvcFacade {
	return &onboardingService{
		onboardingRepo: onboardingRepo,
		roleRepo:       roleRepo,
		userRepo:       userRepo,
	}
}

// Ensure onboardingService implements the OnboardingSvcFacade interface
var _ portssvc.OnboardingSvcFacade = (*onboardingService)(nil)

// CompleteOnboarding seeds the organization's defaults and transitions it to
// ACTIVE. Any member may complete onboarding; the operation is idempotent, so
// a double-submit from the setup screen is a harmless no-op.
func (s *onboardingService) CompleteOnboarding(ctx context.Context, organizationID, actorUserID string) ([]string, error) {
	member, err := s.isMemberOrPlatformAdmin(ctx, actorUserID, organizationID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, apperrors.ErrForbidden
	}

	applied, err := s.onboardingRepo.CompleteOnboarding(ctx, organizationID, actorUserID, time.Now())
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to complete onboarding",
				slog.String("organization_id", organizationID))
		}
		return nil, err
	}

	if len(applied) == 0 {
		s.LogInfo(ctx, "Onboarding already complete",
			slog.String("organization_id", organizationID))
		return []string{}, nil
	}

	s.LogInfo(ctx, "Onboarding completed",
		slog.String("organization_id", organizationID),
		slog.String("actor_user_id", actorUserID),
		slog.Int("applied_defaults", len(applied)))
	return applied, nil
}

func (s *onboardingService) isMemberOrPlatformAdmin(ctx context.Context, userID, organizationID string) (bool, error) {
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
