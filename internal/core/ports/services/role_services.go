package services

import (
	"context"

	"github.com/opsuite/opsuite_backend/internal/core/domain"
	"github.com/opsuite/opsuite_backend/internal/core/policy"
)

// RoleResolverSvc resolves the caller's session role view.
type RoleResolverSvc interface {
	// ResolveRoles fetches the user's stored roles in the organization and
	// computes the resolution. Users with no role rows default to EMPLOYEE.
	// The effective role reflects an active preview override only when role
	// preview is enabled in configuration.
	ResolveRoles(ctx context.Context, userID, organizationID string) (*domain.RoleResolution, error)

	// ActualRole returns the stored highest-priority role, ignoring any
	// preview override. This is what server-side authorization uses.
	ActualRole(ctx context.Context, userID, organizationID string) (domain.Role, error)
}

// RolePreviewSvc is the developer-mode impersonation surface. The override is
// held in process memory per (user, organization), never persisted, and never
// consulted by authorization checks.
type RolePreviewSvc interface {
	// SetActiveRole sets the session's previewed role. Returns ErrForbidden
	// when role preview is disabled (always the case in production).
	SetActiveRole(ctx context.Context, userID, organizationID string, role domain.Role) error

	// ClearActiveRole drops any preview override for the session.
	ClearActiveRole(ctx context.Context, userID, organizationID string)
}

// RoleAssignmentSvc defines admin-gated role mutation operations.
type RoleAssignmentSvc interface {
	// AssignRole grants a role. The actor must be an ADMIN of the
	// organization and may not modify their own assignments.
	AssignRole(ctx context.Context, actingUserID, targetUserID, organizationID string, role domain.Role) error

	// RevokeRole removes a role row under the same constraints as AssignRole.
	// The protected platform owner account cannot be demoted.
	RevokeRole(ctx context.Context, actingUserID, targetUserID, organizationID string, role domain.Role) error

	// ListOrganizationRoles lists every role assignment in the organization.
	ListOrganizationRoles(ctx context.Context, actingUserID, organizationID string) ([]domain.RoleAssignment, error)
}

// AuthorizerSvc is the server-side authorization check used by route guards
// and services. Decisions always use the stored role, never a preview.
type AuthorizerSvc interface {
	// Authorize returns nil when the user may perform op against the
	// organization's data, apperrors.ErrForbidden otherwise.
	Authorize(ctx context.Context, userID, organizationID string, op policy.Operation) error
}

// RoleSvcFacade combines all role service interfaces.
type RoleSvcFacade interface {
	RoleResolverSvc
	RolePreviewSvc
	RoleAssignmentSvc
	AuthorizerSvc
}
