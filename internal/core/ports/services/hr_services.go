package services

import (
	"context"
	"time"

	"github.com/opsuite/opsuite_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// EmployeeSvc defines employee profile management operations.
type EmployeeSvc interface {
	// UpsertEmployee creates or updates an employee profile. HR or ADMIN only.
	UpsertEmployee(ctx context.Context, actingUserID string, employee domain.Employee) (*domain.Employee, error)

	// GetEmployee retrieves one employee profile.
	GetEmployee(ctx context.Context, actingUserID, organizationID, userID string) (*domain.Employee, error)

	// ListEmployees lists an organization's employee profiles. MANAGER and up.
	ListEmployees(ctx context.Context, actingUserID, organizationID string) ([]domain.Employee, error)
}

// LeaveSvc defines the leave request flow. Submission notifies the employee's
// manager; a decision notifies the employee.
type LeaveSvc interface {
	SubmitLeave(ctx context.Context, actingUserID, organizationID string, kind domain.LeaveKind, from, to time.Time, reason string) (*domain.LeaveRequest, error)
	DecideLeave(ctx context.Context, actingUserID, leaveRequestID string, approve bool) (*domain.LeaveRequest, error)
	ListLeaveRequests(ctx context.Context, actingUserID, organizationID string, mineOnly bool) ([]domain.LeaveRequest, error)
}

// ReimbursementSvc defines the two-stage reimbursement flow: the manager
// approves, then finance pays. The manager approval notifies finance role
// holders for the handoff.
type ReimbursementSvc interface {
	SubmitReimbursement(ctx context.Context, actingUserID, organizationID string, amount decimal.Decimal, currencyCode, description string) (*domain.Reimbursement, error)
	DecideReimbursementAsManager(ctx context.Context, actingUserID, reimbursementID string, approve bool) (*domain.Reimbursement, error)
	DecideReimbursementAsFinance(ctx context.Context, actingUserID, reimbursementID string, approve bool) (*domain.Reimbursement, error)
	ListReimbursements(ctx context.Context, actingUserID, organizationID string, mineOnly bool) ([]domain.Reimbursement, error)
}

// MemoSvc defines organization-wide announcements. Publishing notifies every
// member.
type MemoSvc interface {
	PublishMemo(ctx context.Context, actingUserID, organizationID, title, body string) (*domain.Memo, error)
	ListMemos(ctx context.Context, actingUserID, organizationID string, limit, offset int) ([]domain.Memo, error)
}

// HRSvcFacade combines all HR service interfaces.
type HRSvcFacade interface {
	EmployeeSvc
	LeaveSvc
	ReimbursementSvc
	MemoSvc
}
