package dto

import (
	"time"

	"github.com/opsuite/opsuite_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// UpsertEmployeeRequest creates or updates an employee profile.
type UpsertEmployeeRequest struct {
	UserID      string  `json:"userID" binding:"required"`
	ManagerID   *string `json:"managerID"`
	Department  string  `json:"department"`
	Designation string  `json:"designation"`
}

// EmployeeResponse is the HR view of a member.
type EmployeeResponse struct {
	UserID      string  `json:"userID"`
	ManagerID   *string `json:"managerID,omitempty"`
	Department  string  `json:"department"`
	Designation string  `json:"designation"`
}

// ToEmployeeResponse converts a domain.Employee.
func ToEmployeeResponse(e *domain.Employee) EmployeeResponse {
	return EmployeeResponse{
		UserID:      e.UserID,
		ManagerID:   e.ManagerID,
		Department:  e.Department,
		Designation: e.Designation,
	}
}

// ListEmployeesResponse wraps an organization's employee profiles.
type ListEmployeesResponse struct {
	Employees []EmployeeResponse `json:"employees"`
}

// ToListEmployeesResponse converts a slice of domain.Employee.
func ToListEmployeesResponse(employees []domain.Employee) ListEmployeesResponse {
	responses := make([]EmployeeResponse, len(employees))
	for i, e := range employees {
		responses[i] = ToEmployeeResponse(&e)
	}
	return ListEmployeesResponse{Employees: responses}
}

// SubmitLeaveRequest files a leave application.
type SubmitLeaveRequest struct {
	Kind     domain.LeaveKind `json:"kind" binding:"required"`
	FromDate time.Time        `json:"fromDate" binding:"required"`
	ToDate   time.Time        `json:"toDate" binding:"required"`
	Reason   string           `json:"reason"`
}

// DecideRequest approves or rejects a pending item.
type DecideRequest struct {
	Approve *bool `json:"approve" binding:"required"`
}

// LeaveRequestResponse is one leave application.
type LeaveRequestResponse struct {
	LeaveRequestID string               `json:"leaveRequestID"`
	EmployeeUserID string               `json:"employeeUserID"`
	Kind           domain.LeaveKind     `json:"kind"`
	FromDate       time.Time            `json:"fromDate"`
	ToDate         time.Time            `json:"toDate"`
	Reason         string               `json:"reason"`
	Status         domain.RequestStatus `json:"status"`
	DecidedBy      *string              `json:"decidedBy,omitempty"`
	DecidedAt      *time.Time           `json:"decidedAt,omitempty"`
}

// ToLeaveRequestResponse converts a domain.LeaveRequest.
func ToLeaveRequestResponse(r *domain.LeaveRequest) LeaveRequestResponse {
	return LeaveRequestResponse{
		LeaveRequestID: r.LeaveRequestID,
		EmployeeUserID: r.EmployeeUserID,
		Kind:           r.Kind,
		FromDate:       r.FromDate,
		ToDate:         r.ToDate,
		Reason:         r.Reason,
		Status:         r.Status,
		DecidedBy:      r.DecidedBy,
		DecidedAt:      r.DecidedAt,
	}
}

// ListLeaveRequestsResponse wraps leave applications.
type ListLeaveRequestsResponse struct {
	LeaveRequests []LeaveRequestResponse `json:"leaveRequests"`
}

// ToListLeaveRequestsResponse converts a slice of domain.LeaveRequest.
func ToListLeaveRequestsResponse(requests []domain.LeaveRequest) ListLeaveRequestsResponse {
	responses := make([]LeaveRequestResponse, len(requests))
	for i, r := range requests {
		responses[i] = ToLeaveRequestResponse(&r)
	}
	return ListLeaveRequestsResponse{LeaveRequests: responses}
}

// SubmitReimbursementRequest files an expense claim.
type SubmitReimbursementRequest struct {
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	CurrencyCode string          `json:"currencyCode" binding:"required,len=3"`
	Description  string          `json:"description" binding:"required"`
}

// ReimbursementResponse is one expense claim.
type ReimbursementResponse struct {
	ReimbursementID string                     `json:"reimbursementID"`
	EmployeeUserID  string                     `json:"employeeUserID"`
	Amount          decimal.Decimal            `json:"amount"`
	CurrencyCode    string                     `json:"currencyCode"`
	Description     string                     `json:"description"`
	Status          domain.ReimbursementStatus `json:"status"`
	DecidedBy       *string                    `json:"decidedBy,omitempty"`
	DecidedAt       *time.Time                 `json:"decidedAt,omitempty"`
}

// ToReimbursementResponse converts a domain.Reimbursement.
func ToReimbursementResponse(r *domain.Reimbursement) ReimbursementResponse {
	return ReimbursementResponse{
		ReimbursementID: r.ReimbursementID,
		EmployeeUserID:  r.EmployeeUserID,
		Amount:          r.Amount,
		CurrencyCode:    r.CurrencyCode,
		Description:     r.Description,
		Status:          r.Status,
		DecidedBy:       r.DecidedBy,
		DecidedAt:       r.DecidedAt,
	}
}

// ListReimbursementsResponse wraps expense claims.
type ListReimbursementsResponse struct {
	Reimbursements []ReimbursementResponse `json:"reimbursements"`
}

// ToListReimbursementsResponse converts a slice of domain.Reimbursement.
func ToListReimbursementsResponse(claims []domain.Reimbursement) ListReimbursementsResponse {
	responses := make([]ReimbursementResponse, len(claims))
	for i, r := range claims {
		responses[i] = ToReimbursementResponse(&r)
	}
	return ListReimbursementsResponse{Reimbursements: responses}
}

// PublishMemoRequest publishes an organization-wide announcement.
type PublishMemoRequest struct {
	Title string `json:"title" binding:"required,max=200"`
	Body  string `json:"body" binding:"required"`
}

// MemoResponse is one announcement.
type MemoResponse struct {
	MemoID      string    `json:"memoID"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	PublishedBy string    `json:"publishedBy"`
	PublishedAt time.Time `json:"publishedAt"`
}

// ToMemoResponse converts a domain.Memo.
func ToMemoResponse(m *domain.Memo) MemoResponse {
	return MemoResponse{
		MemoID:      m.MemoID,
		Title:       m.Title,
		Body:        m.Body,
		PublishedBy: m.PublishedBy,
		PublishedAt: m.PublishedAt,
	}
}

// ListMemosParams defines query parameters for listing memos.
type ListMemosParams struct {
	Limit  int `form:"limit,default=20"`
	Offset int `form:"offset,default=0"`
}

// ListMemosResponse wraps announcements.
type ListMemosResponse struct {
	Memos []MemoResponse `json:"memos"`
}

// ToListMemosResponse converts a slice of domain.Memo.
func ToListMemosResponse(memos []domain.Memo) ListMemosResponse {
	responses := make([]MemoResponse, len(memos))
	for i, m := range memos {
		responses[i] = ToMemoResponse(&m)
	}
	return ListMemosResponse{Memos: responses}
}
