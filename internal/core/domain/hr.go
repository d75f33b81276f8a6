package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Employee is the HR profile of a user within an organization. ManagerID
// points at another user in the same organization and drives notification
// recipient resolution.
type Employee struct {
	UserID         string  `json:"userID" db:"user_id"`
	OrganizationID string  `json:"organizationID" db:"organization_id"`
	ManagerID      *string `json:"managerID,omitempty" db:"manager_id"`
	Department     string  `json:"department" db:"department"`
	Designation    string  `json:"designation" db:"designation"`
	AuditFields
}

// RequestStatus is the decision state of an employee-initiated request.
type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "PENDING"
	RequestStatusApproved RequestStatus = "APPROVED"
	RequestStatusRejected RequestStatus = "REJECTED"
)

// LeaveKind classifies a leave request.
type LeaveKind string

const (
	LeaveKindCasual LeaveKind = "CASUAL"
	LeaveKindSick   LeaveKind = "SICK"
	LeaveKindEarned LeaveKind = "EARNED"
	LeaveKindUnpaid LeaveKind = "UNPAID"
)

// LeaveRequest is a leave application awaiting a manager decision.
type LeaveRequest struct {
	LeaveRequestID string        `json:"leaveRequestID" db:"leave_request_id"`
	OrganizationID string        `json:"organizationID" db:"organization_id"`
	EmployeeUserID string        `json:"employeeUserID" db:"employee_user_id"`
	Kind           LeaveKind     `json:"kind" db:"kind"`
	FromDate       time.Time     `json:"fromDate" db:"from_date"`
	ToDate         time.Time     `json:"toDate" db:"to_date"`
	Reason         string        `json:"reason" db:"reason"`
	Status         RequestStatus `json:"status" db:"status"`
	DecidedBy      *string       `json:"decidedBy,omitempty" db:"decided_by"`
	DecidedAt      *time.Time    `json:"decidedAt,omitempty" db:"decided_at"`
	AuditFields
}

// ReimbursementStatus tracks the two-stage reimbursement flow: the manager
// approves the claim, then finance pays it out.
type ReimbursementStatus string

const (
	ReimbursementSubmitted       ReimbursementStatus = "SUBMITTED"
	ReimbursementManagerApproved ReimbursementStatus = "MANAGER_APPROVED"
	ReimbursementPaid            ReimbursementStatus = "PAID"
	ReimbursementRejected        ReimbursementStatus = "REJECTED"
)

// Reimbursement is an expense claim moving through manager and finance review.
type Reimbursement struct {
	ReimbursementID string              `json:"reimbursementID" db:"reimbursement_id"`
	OrganizationID  string              `json:"organizationID" db:"organization_id"`
	EmployeeUserID  string              `json:"employeeUserID" db:"employee_user_id"`
	Amount          decimal.Decimal     `json:"amount" db:"amount"`
	CurrencyCode    string              `json:"currencyCode" db:"currency_code"`
	Description     string              `json:"description" db:"description"`
	Status          ReimbursementStatus `json:"status" db:"status"`
	DecidedBy       *string             `json:"decidedBy,omitempty" db:"decided_by"`
	DecidedAt       *time.Time          `json:"decidedAt,omitempty" db:"decided_at"`
	AuditFields
}

// Memo is an organization-wide announcement. Publishing notifies every member.
type Memo struct {
	MemoID         string    `json:"memoID" db:"memo_id"`
	OrganizationID string    `json:"organizationID" db:"organization_id"`
	Title          string    `json:"title" db:"title"`
	Body           string    `json:"body" db:"body"`
	PublishedBy    string    `json:"publishedBy" db:"published_by"`
	PublishedAt    time.Time `json:"publishedAt" db:"published_at"`
}
