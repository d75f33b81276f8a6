package repositories

import (
	"context"

	"github.com/opsuite/opsuite_backend/internal/core/domain"
)

// RoleAssignmentReader defines read operations for role assignments
type RoleAssignmentReader interface {
	// ListRoleAssignments retrieves all role rows a user holds in an organization.
	ListRoleAssignments(ctx context.Context, userID, organizationID string) ([]domain.RoleAssignment, error)

	// ListOrganizationRoleAssignments retrieves every role row in an organization.
	ListOrganizationRoleAssignments(ctx context.Context, organizationID string) ([]domain.RoleAssignment, error)

	// ListUserIDsByRole retrieves the IDs of all users holding a specific role
	// in an organization.
	ListUserIDsByRole(ctx context.Context, organizationID string, role domain.Role) ([]string, error)

	// ListMemberUserIDs retrieves the distinct IDs of every user holding any
	// role in an organization.
	ListMemberUserIDs(ctx context.Context, organizationID string) ([]string, error)
}

// RoleAssignmentWriter defines write operations for role assignments
type RoleAssignmentWriter interface {
	// SaveRoleAssignment persists a role row. Assigning a role a user already
	// holds is an upsert, not an error.
	SaveRoleAssignment(ctx context.Context, assignment domain.RoleAssignment) error

	// DeleteRoleAssignment removes a single (user, organization, role) row.
	DeleteRoleAssignment(ctx context.Context, userID, organizationID string, role domain.Role) error
}

// RoleRepositoryFacade combines all role assignment repository interfaces.
type RoleRepositoryFacade interface {
	RoleAssignmentReader
	RoleAssignmentWriter
}
