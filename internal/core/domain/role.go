package domain

import "time"

// Role defines the possible roles a user can hold within an organization.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleHR       Role = "HR"
	RoleFinance  Role = "FINANCE"
	RoleManager  Role = "MANAGER"
	RoleEmployee Role = "EMPLOYEE"
)

// rolePriority is the canonical role ranking. Higher wins when a user holds
// multiple roles in the same organization.
var rolePriority = map[Role]int{
	RoleAdmin:    100,
	RoleHR:       80,
	RoleFinance:  80,
	RoleManager:  60,
	RoleEmployee: 20,
}

// AllRoles lists every assignable role, highest priority first.
var AllRoles = []Role{RoleAdmin, RoleHR, RoleFinance, RoleManager, RoleEmployee}

// Priority returns the numeric rank of the role. Unknown roles rank zero,
// below EMPLOYEE.
func (r Role) Priority() int {
	return rolePriority[r]
}

// AtLeast reports whether r ranks the same as or higher than required.
func (r Role) AtLeast(required Role) bool {
	return r.Priority() >= required.Priority()
}

// ValidRole reports whether r names a known role.
func ValidRole(r Role) bool {
	_, ok := rolePriority[r]
	return ok
}

// HighestRole returns the highest-priority role among the given assignments.
// An empty slice resolves to EMPLOYEE, the lowest-privilege default.
func HighestRole(roles []Role) Role {
	best := RoleEmployee
	for _, r := range roles {
		if r.Priority() > best.Priority() {
			best = r
		}
	}
	return best
}

// RoleAssignment is a stored (user, organization, role) tuple. A user may hold
// several of these per organization.
type RoleAssignment struct {
	UserID         string    `json:"userID" db:"user_id"`
	OrganizationID string    `json:"organizationID" db:"organization_id"`
	Role           Role      `json:"role" db:"role"`
	AssignedBy     string    `json:"assignedBy" db:"assigned_by"`
	AssignedAt     time.Time `json:"assignedAt" db:"assigned_at"`
}

// RoleResolution is the session view of a user's roles in an organization.
// EffectiveRole differs from ActualRole only under developer role preview;
// it is never consulted by server-side authorization.
type RoleResolution struct {
	ActualRole      Role   `json:"actualRole"`
	EffectiveRole   Role   `json:"effectiveRole"`
	AvailableRoles  []Role `json:"availableRoles"` // Ordered highest priority first
	IsImpersonating bool   `json:"isImpersonating"`
}
