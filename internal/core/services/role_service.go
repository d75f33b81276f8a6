package services

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/opsuite/opsuite_backend/internal/apperrors"
	"github.com/opsuite/opsuite_backend/internal/core/domain"
	"github.com/opsuite/opsuite_backend/internal/core/policy"
	portsrepo "github.com/opsuite/opsuite_backend/internal/core/ports/repositories"
	portssvc "github.com/opsuite/opsuite_backend/internal/core/ports/services"
)

// roleService implements the RoleSvcFacade interface. Preview overrides live
// in process memory only: they are keyed per (user, organization), dropped on
// restart, and deliberately never consulted by Authorize.
type roleService struct {
	BaseService
	roleRepo       portsrepo.RoleRepositoryFacade
	userRepo       portsrepo.UserReader
	previewEnabled bool

	previewMu sync.RWMutex
	previews  map[previewKey]domain.Role
}

type previewKey struct {
	userID         string
	organizationID string
}

// NewRoleService creates a new role service with the provided dependencies.
// previewEnabled comes from configuration and is forced off in production.
func NewRoleService(
	roleRepo portsrepo.RoleRepositoryFacade,
	userRepo portsrepo.UserReader,
	previewEnabled bool,
) portssvc.RoleSvcFacade {
	return &roleService{
		roleRepo:       roleRepo,
		userRepo:       userRepo,
		previewEnabled: previewEnabled,
		previews:       make(map[previewKey]domain.Role),
	}
}

// Ensure roleService implements the RoleSvcFacade interface
var _ portssvc.RoleSvcFacade = (*roleService)(nil)

// storedRoles fetches the user's role rows and reduces them to a sorted slice.
func (s *roleService) storedRoles(ctx context.Context, userID, organizationID string) ([]domain.Role, error) {
	assignments, err := s.roleRepo.ListRoleAssignments(ctx, userID, organizationID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list role assignments",
			slog.String("user_id", userID),
			slog.String("organization_id", organizationID))
		return nil, err
	}
	held := make(map[domain.Role]bool, len(assignments))
	for _, a := range assignments {
		held[a.Role] = true
	}
	var roles []domain.Role
	for _, r := range domain.AllRoles { // keeps highest priority first
		if held[r] {
			roles = append(roles, r)
		}
	}
	return roles, nil
}

// ActualRole returns the stored highest-priority role, ignoring any preview
// override. This is what server-side authorization uses.
func (s *roleService) ActualRole(ctx context.Context, userID, organizationID string) (domain.Role, error) {
	roles, err := s.storedRoles(ctx, userID, organizationID)
	if err != nil {
		return "", err
	}
	return domain.HighestRole(roles), nil
}

// ResolveRoles computes the session role view for a user in an organization.
func (s *roleService) ResolveRoles(ctx context.Context, userID, organizationID string) (*domain.RoleResolution, error) {
	roles, err := s.storedRoles(ctx, userID, organizationID)
	if err != nil {
		return nil, err
	}

	actual := domain.HighestRole(roles)
	resolution := &domain.RoleResolution{
		ActualRole:     actual,
		EffectiveRole:  actual,
		AvailableRoles: roles,
	}
	if resolution.AvailableRoles == nil {
		resolution.AvailableRoles = []domain.Role{domain.RoleEmployee}
	}

	if s.previewEnabled {
		s.previewMu.RLock()
		preview, ok := s.previews[previewKey{userID, organizationID}]
		s.previewMu.RUnlock()
		if ok && preview != actual {
			resolution.EffectiveRole = preview
			resolution.IsImpersonating = true
		}
	}

	return resolution, nil
}

// SetActiveRole sets the session's previewed role. Disabled outside developer
// mode; the override never reaches storage or authorization.
func (s *roleService) SetActiveRole(ctx context.Context, userID, organizationID string, role domain.Role) error {
	if !s.previewEnabled {
		return apperrors.NewForbiddenError("role preview is disabled")
	}
	if !domain.ValidRole(role) {
		return apperrors.NewValidationFailedError("unknown role: "+string(role), nil)
	}

	s.previewMu.Lock()
	s.previews[previewKey{userID, organizationID}] = role
	s.previewMu.Unlock()

	s.LogInfo(ctx, "Role preview activated",
		slog.String("user_id", userID),
		slog.String("organization_id", organizationID),
		slog.String("preview_role", string(role)))
	return nil
}

// ClearActiveRole drops any preview override for the session.
func (s *roleService) ClearActiveRole(ctx context.Context, userID, organizationID string) {
	s.previewMu.Lock()
	delete(s.previews, previewKey{userID, organizationID})
	s.previewMu.Unlock()
}

// AssignRole grants a role to a user in an organization. Admin only; actors
// cannot modify their own assignments.
func (s *roleService) AssignRole(ctx context.Context, actingUserID, targetUserID, organizationID string, role domain.Role) error {
	if actingUserID == targetUserID {
		return apperrors.NewForbiddenError("cannot modify your own role assignments")
	}
	if !domain.ValidRole(role) {
		return apperrors.NewValidationFailedError("unknown role: "+string(role), nil)
	}
	if err := s.Authorize(ctx, actingUserID, organizationID, policy.OpRolesAssign); err != nil {
		return err
	}

	// Target must exist and not be deleted.
	if _, err := s.userRepo.FindUserByID(ctx, targetUserID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NewNotFoundError("target user not found")
		}
		return err
	}

	assignment := domain.RoleAssignment{
		UserID:         targetUserID,
		OrganizationID: organizationID,
		Role:           role,
		AssignedBy:     actingUserID,
		AssignedAt:     time.Now(),
	}
	if err := s.roleRepo.SaveRoleAssignment(ctx, assignment); err != nil {
		s.LogError(ctx, err, "Failed to save role assignment",
			slog.String("target_user_id", targetUserID),
			slog.String("organization_id", organizationID),
			slog.String("role", string(role)))
		return err
	}

	s.LogInfo(ctx, "Role assigned",
		slog.String("acting_user_id", actingUserID),
		slog.String("target_user_id", targetUserID),
		slog.String("organization_id", organizationID),
		slog.String("role", string(role)))
	return nil
}

// RevokeRole removes a role row under the same constraints as AssignRole.
func (s *roleService) RevokeRole(ctx context.Context, actingUserID, targetUserID, organizationID string, role domain.Role) error {
	if actingUserID == targetUserID {
		return apperrors.NewForbiddenError("cannot modify your own role assignments")
	}
	if err := s.Authorize(ctx, actingUserID, organizationID, policy.OpRolesAssign); err != nil {
		return err
	}

	target, err := s.userRepo.FindUserByID(ctx, targetUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NewNotFoundError("target user not found")
		}
		return err
	}
	if target.IsProtected {
		return apperrors.NewForbiddenError("this account cannot be demoted")
	}

	if err := s.roleRepo.DeleteRoleAssignment(ctx, targetUserID, organizationID, role); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to delete role assignment",
				slog.String("target_user_id", targetUserID),
				slog.String("organization_id", organizationID),
				slog.String("role", string(role)))
		}
		return err
	}

	s.LogInfo(ctx, "Role revoked",
		slog.String("acting_user_id", actingUserID),
		slog.String("target_user_id", targetUserID),
		slog.String("organization_id", organizationID),
		slog.String("role", string(role)))
	return nil
}

// ListOrganizationRoles lists every role assignment in the organization.
func (s *roleService) ListOrganizationRoles(ctx context.Context, actingUserID, organizationID string) ([]domain.RoleAssignment, error) {
	if err := s.Authorize(ctx, actingUserID, organizationID, policy.OpRolesRead); err != nil {
		return nil, err
	}
	assignments, err := s.roleRepo.ListOrganizationRoleAssignments(ctx, organizationID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list organization role assignments",
			slog.String("organization_id", organizationID))
		return nil, err
	}
	if assignments == nil {
		return []domain.RoleAssignment{}, nil
	}
	return assignments, nil
}

// Authorize decides whether userID may perform op against organizationID's
// data. Always evaluates the stored role; preview overrides are invisible
// here. Platform admins bypass tenant scoping.
func (s *roleService) Authorize(ctx context.Context, userID, organizationID string, op policy.Operation) error {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.ErrForbidden
		}
		return err
	}

	actorRole := domain.RoleEmployee
	actorOrgID := ""
	if !user.IsPlatformAdmin {
		assignments, err := s.roleRepo.ListRoleAssignments(ctx, userID, organizationID)
		if err != nil {
			return err
		}
		if len(assignments) == 0 {
			s.LogDebug(ctx, "User holds no roles in organization",
				slog.String("user_id", userID),
				slog.String("organization_id", organizationID))
			return apperrors.ErrForbidden
		}
		roles := make([]domain.Role, 0, len(assignments))
		for _, a := range assignments {
			roles = append(roles, a.Role)
		}
		actorRole = domain.HighestRole(roles)
		actorOrgID = organizationID
	}

	if !policy.Allow(actorRole, actorOrgID, organizationID, op, user.IsPlatformAdmin) {
		s.LogDebug(ctx, "Authorization denied",
			slog.String("user_id", userID),
			slog.String("organization_id", organizationID),
			slog.String("operation", string(op)),
			slog.String("actual_role", string(actorRole)))
		return apperrors.ErrForbidden
	}
	return nil
}
