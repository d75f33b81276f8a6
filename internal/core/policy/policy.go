// Package policy is the single source of truth for authorization decisions.
// It is a pure function table over (actor role, actor org, resource org,
// operation) with no storage dependency, so it can be tested in isolation and
// evaluated anywhere a data access needs gating.
package policy

import "github.com/opsuite/opsuite_backend/internal/core/domain"

// Operation names a guarded action on organization-scoped data.
type Operation string

const (
	OpOrgManage           Operation = "org:manage"
	OpRolesAssign         Operation = "roles:assign"
	OpRolesRead           Operation = "roles:read"
	OpEmployeesManage     Operation = "employees:manage"
	OpEmployeesRead       Operation = "employees:read"
	OpLeaveSubmit         Operation = "leave:submit"
	OpLeaveDecide         Operation = "leave:decide"
	OpReimburseSubmit     Operation = "reimburse:submit"
	OpReimburseDecide     Operation = "reimburse:decide"
	OpReimbursePay        Operation = "reimburse:pay"
	OpMemoPublish         Operation = "memo:publish"
	OpNotificationsRead   Operation = "notifications:read"
	OpChartOfAccountsRead Operation = "coa:read"
	OpFiscalYearRead      Operation = "fiscalyear:read"
)

// minimumRole is the lowest role allowed to perform each operation. Roles at
// or above the listed priority are permitted.
var minimumRole = map[Operation]domain.Role{
	OpOrgManage:           domain.RoleAdmin,
	OpRolesAssign:         domain.RoleAdmin,
	OpRolesRead:           domain.RoleEmployee,
	OpEmployeesManage:     domain.RoleHR,
	OpEmployeesRead:       domain.RoleManager,
	OpLeaveSubmit:         domain.RoleEmployee,
	OpLeaveDecide:         domain.RoleManager,
	OpReimburseSubmit:     domain.RoleEmployee,
	OpReimburseDecide:     domain.RoleManager,
	OpReimbursePay:        domain.RoleFinance,
	OpMemoPublish:         domain.RoleHR,
	OpNotificationsRead:   domain.RoleEmployee,
	OpChartOfAccountsRead: domain.RoleFinance,
	OpFiscalYearRead:      domain.RoleFinance,
}

// PermittedRoles returns every role allowed to perform op, highest priority
// first. Used by access-denied responses to tell the user which roles would
// be accepted.
func PermittedRoles(op Operation) []domain.Role {
	min, ok := minimumRole[op]
	if !ok {
		return nil
	}
	var permitted []domain.Role
	for _, r := range domain.AllRoles {
		if r.AtLeast(min) {
			permitted = append(permitted, r)
		}
	}
	return permitted
}

// Allow decides whether an actor holding actorRole in actorOrgID may perform
// op against data belonging to resourceOrgID. Cross-organization access is
// always denied for tenant roles; platformAdmin bypasses tenant scoping.
func Allow(actorRole domain.Role, actorOrgID, resourceOrgID string, op Operation, platformAdmin bool) bool {
	if platformAdmin {
		return true
	}
	if actorOrgID == "" || actorOrgID != resourceOrgID {
		return false
	}
	min, ok := minimumRole[op]
	if !ok {
		// Unknown operations are denied rather than defaulting open.
		return false
	}
	return actorRole.AtLeast(min)
}
