package dto

import (
	"time"

	"github.com/opsuite/opsuite_backend/internal/core/domain"
)

// AssignRoleRequest grants a role to a user in an organization.
type AssignRoleRequest struct {
	UserID string      `json:"userID" binding:"required"`
	Role   domain.Role `json:"role" binding:"required,role"`
}

// RevokeRoleRequest removes one role row from a user.
type RevokeRoleRequest struct {
	UserID string      `json:"userID" binding:"required"`
	Role   domain.Role `json:"role" binding:"required,role"`
}

// SetActiveRoleRequest switches the session's previewed role (developer mode).
type SetActiveRoleRequest struct {
	Role domain.Role `json:"role" binding:"required,role"`
}

// RoleResolutionResponse is the session view of the caller's roles.
type RoleResolutionResponse struct {
	ActualRole      domain.Role   `json:"actualRole"`
	EffectiveRole   domain.Role   `json:"effectiveRole"`
	AvailableRoles  []domain.Role `json:"availableRoles"`
	IsImpersonating bool          `json:"isImpersonating"`
}

// ToRoleResolutionResponse converts a domain.RoleResolution.
func ToRoleResolutionResponse(res *domain.RoleResolution) RoleResolutionResponse {
	return RoleResolutionResponse{
		ActualRole:      res.ActualRole,
		EffectiveRole:   res.EffectiveRole,
		AvailableRoles:  res.AvailableRoles,
		IsImpersonating: res.IsImpersonating,
	}
}

// RoleAssignmentResponse is one stored (user, role) row.
type RoleAssignmentResponse struct {
	UserID     string      `json:"userID"`
	Role       domain.Role `json:"role"`
	AssignedBy string      `json:"assignedBy"`
	AssignedAt time.Time   `json:"assignedAt"`
}

// ListRoleAssignmentsResponse wraps an organization's role listing.
type ListRoleAssignmentsResponse struct {
	Assignments []RoleAssignmentResponse `json:"assignments"`
}

// ToListRoleAssignmentsResponse converts a slice of domain.RoleAssignment.
func ToListRoleAssignmentsResponse(assignments []domain.RoleAssignment) ListRoleAssignmentsResponse {
	responses := make([]RoleAssignmentResponse, len(assignments))
	for i, a := range assignments {
		responses[i] = RoleAssignmentResponse{
			UserID:     a.UserID,
			Role:       a.Role,
			AssignedBy: a.AssignedBy,
			AssignedAt: a.AssignedAt,
		}
	}
	return ListRoleAssignmentsResponse{Assignments: responses}
}
