package repositories

import (
	"context"
	"time"

	"github.com/opsuite/opsuite_backend/internal/core/domain"
)

// EmployeeReader defines read operations for employee profiles
type EmployeeReader interface {
	// FindEmployee retrieves an employee profile by user and organization.
	FindEmployee(ctx context.Context, userID, organizationID string) (*domain.Employee, error)

	// ListEmployees retrieves all employee profiles in an organization.
	ListEmployees(ctx context.Context, organizationID string) ([]domain.Employee, error)
}

// EmployeeWriter defines write operations for employee profiles
type EmployeeWriter interface {
	// SaveEmployee inserts or updates an employee profile.
	SaveEmployee(ctx context.Context, employee domain.Employee) error
}

// LeaveRequestRepository defines operations for leave requests
type LeaveRequestRepository interface {
	SaveLeaveRequest(ctx context.Context, request domain.LeaveRequest) error
	FindLeaveRequestByID(ctx context.Context, leaveRequestID string) (*domain.LeaveRequest, error)
	ListLeaveRequests(ctx context.Context, organizationID string, employeeUserID *string) ([]domain.LeaveRequest, error)

	// UpdateLeaveRequestStatus records a decision on a PENDING request.
	UpdateLeaveRequestStatus(ctx context.Context, leaveRequestID string, status domain.RequestStatus, decidedBy string, decidedAt time.Time) error
}

// ReimbursementRepository defines operations for reimbursement claims
type ReimbursementRepository interface {
	SaveReimbursement(ctx context.Context, claim domain.Reimbursement) error
	FindReimbursementByID(ctx context.Context, reimbursementID string) (*domain.Reimbursement, error)
	ListReimbursements(ctx context.Context, organizationID string, employeeUserID *string) ([]domain.Reimbursement, error)

	// UpdateReimbursementStatus advances a claim through the two-stage flow.
	UpdateReimbursementStatus(ctx context.Context, reimbursementID string, status domain.ReimbursementStatus, decidedBy string, decidedAt time.Time) error
}

// MemoRepository defines operations for organization-wide memos
type MemoRepository interface {
	SaveMemo(ctx context.Context, memo domain.Memo) error
	FindMemoByID(ctx context.Context, memoID string) (*domain.Memo, error)
	ListMemos(ctx context.Context, organizationID string, limit, offset int) ([]domain.Memo, error)
}

// HRRepositoryFacade combines all HR repository interfaces.
type HRRepositoryFacade interface {
	EmployeeReader
	EmployeeWriter
	LeaveRequestRepository
	ReimbursementRepository
	MemoRepository
}
