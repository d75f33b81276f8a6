package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/opsuite/opsuite_backend/internal/apperrors"
	"github.com/opsuite/opsuite_backend/internal/core/domain"
	"github.com/opsuite/opsuite_backend/internal/core/policy"
	portsrepo "github.com/opsuite/opsuite_backend/internal/core/ports/repositories"
	portssvc "github.com/opsuite/opsuite_backend/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// hrService implements the HRSvcFacade interface
type hrService struct {
	BaseService
	hrRepo     portsrepo.HRRepositoryFacade
	userRepo   portsrepo.UserReader
	dispatcher portssvc.NotificationDispatcherSvc
}

// NewHRService creates a new HR service with the provided dependencies
func NewHRService(
	hrRepo portsrepo.HRRepositoryFacade,
	userRepo portsrepo.UserReader,
	authorizer portssvc.AuthorizerSvc,
	dispatcher portssvc.NotificationDispatcherSvc,
) portssvc.HRSvcFacade {
	return &hrService{
		BaseService: BaseService{Authorizer: authorizer},
		hrRepo:      hrRepo,
		userRepo:    userRepo,
		dispatcher:  dispatcher,
	}
}

// Ensure hrService implements the HRSvcFacade interface
var _ portssvc.HRSvcFacade = (*hrService)(nil)

// dispatch publishes a domain event. Dispatch failures are logged and never
// fail the triggering operation; the record write already succeeded.
func (s *hrService) dispatch(ctx context.Context, eventType domain.EventType, p eventPayload) {
	if s.dispatcher == nil {
		return
	}
	payload, err := json.Marshal(p)
	if err != nil {
		s.LogError(ctx, err, "Failed to marshal event payload",
			slog.String("event_type", string(eventType)))
		return
	}
	if _, err := s.dispatcher.Dispatch(ctx, eventType, payload); err != nil {
		s.LogError(ctx, err, "Failed to dispatch event",
			slog.String("event_type", string(eventType)),
			slog.String("reference_id", p.ReferenceID))
	}
}

func (s *hrService) userName(ctx context.Context, userID string) string {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return userID
	}
	return user.Name
}

// UpsertEmployee creates or updates an employee profile. HR or ADMIN only.
func (s *hrService) UpsertEmployee(ctx context.Context, actingUserID string, employee domain.Employee) (*domain.Employee, error) {
	if err := s.Authorize(ctx, actingUserID, employee.OrganizationID, policy.OpEmployeesManage); err != nil {
		return nil, err
	}
	if employee.UserID == "" {
		return nil, apperrors.NewValidationFailedError("employee userID is required", nil)
	}
	if employee.ManagerID != nil && *employee.ManagerID == employee.UserID {
		return nil, apperrors.NewValidationFailedError("an employee cannot be their own manager", nil)
	}

	now := time.Now()
	if employee.CreatedAt.IsZero() {
		employee.CreatedAt = now
		employee.CreatedBy = actingUserID
	}
	employee.LastUpdatedAt = now
	employee.LastUpdatedBy = actingUserID

	if err := s.hrRepo.SaveEmployee(ctx, employee); err != nil {
		s.LogError(ctx, err, "Failed to save employee",
			slog.String("user_id", employee.UserID),
			slog.String("organization_id", employee.OrganizationID))
		return nil, err
	}

	s.LogInfo(ctx, "Employee profile saved",
		slog.String("user_id", employee.UserID),
		slog.String("organization_id", employee.OrganizationID))
	return &employee, nil
}

// GetEmployee retrieves one employee profile. Users may always read their
// own; anyone else's needs MANAGER or up.
func (s *hrService) GetEmployee(ctx context.Context, actingUserID, organizationID, userID string) (*domain.Employee, error) {
	if actingUserID != userID {
		if err := s.Authorize(ctx, actingUserID, organizationID, policy.OpEmployeesRead); err != nil {
			return nil, err
		}
	}
	employee, err := s.hrRepo.FindEmployee(ctx, userID, organizationID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find employee",
				slog.String("user_id", userID),
				slog.String("organization_id", organizationID))
		}
		return nil, err
	}
	return employee, nil
}

// ListEmployees lists an organization's employee profiles. MANAGER and up.
func (s *hrService) ListEmployees(ctx context.Context, actingUserID, organizationID string) ([]domain.Employee, error) {
	if err := s.Authorize(ctx, actingUserID, organizationID, policy.OpEmployeesRead); err != nil {
		return nil, err
	}
	employees, err := s.hrRepo.ListEmployees(ctx, organizationID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list employees",
			slog.String("organization_id", organizationID))
		return nil, err
	}
	if employees == nil {
		return []domain.Employee{}, nil
	}
	return employees, nil
}

// SubmitLeave files a leave request and notifies the employee's manager.
func (s *hrService) SubmitLeave(ctx context.Context, actingUserID, organizationID string, kind domain.LeaveKind, from, to time.Time, reason string) (*domain.LeaveRequest, error) {
	if err := s.Authorize(ctx, actingUserID, organizationID, policy.OpLeaveSubmit); err != nil {
		return nil, err
	}
	if to.Before(from) {
		return nil, apperrors.NewValidationFailedError("leave end date is before start date", nil)
	}

	now := time.Now()
	request := domain.LeaveRequest{
		LeaveRequestID: uuid.NewString(),
		OrganizationID: organizationID,
		EmployeeUserID: actingUserID,
		Kind:           kind,
		FromDate:       from,
		ToDate:         to,
		Reason:         reason,
		Status:         domain.RequestStatusPending,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actingUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: actingUserID,
		},
	}

	if err := s.hrRepo.SaveLeaveRequest(ctx, request); err != nil {
		s.LogError(ctx, err, "Failed to save leave request",
			slog.String("organization_id", organizationID),
			slog.String("employee_user_id", actingUserID))
		return nil, err
	}

	s.dispatch(ctx, domain.EventLeaveRequestCreated, eventPayload{
		OrganizationID: organizationID,
		ActorUserID:    actingUserID,
		SubjectUserID:  actingUserID,
		ReferenceID:    request.LeaveRequestID,
		Title:          "New leave request",
		Body: fmt.Sprintf("%s requested %s leave from %s to %s.",
			s.userName(ctx, actingUserID), kind,
			from.Format("2006-01-02"), to.Format("2006-01-02")),
	})

	return &request, nil
}

// DecideLeave approves or rejects a pending leave request and notifies the
// employee. MANAGER and up; nobody decides their own request.
func (s *hrService) DecideLeave(ctx context.Context, actingUserID, leaveRequestID string, approve bool) (*domain.LeaveRequest, error) {
	request, err := s.hrRepo.FindLeaveRequestByID(ctx, leaveRequestID)
	if err != nil {
		return nil, err
	}
	if request.EmployeeUserID == actingUserID {
		return nil, apperrors.NewForbiddenError("cannot decide your own leave request")
	}
	if err := s.Authorize(ctx, actingUserID, request.OrganizationID, policy.OpLeaveDecide); err != nil {
		return nil, err
	}
	if request.Status != domain.RequestStatusPending {
		return nil, apperrors.NewConflictError("leave request is already decided")
	}

	status := domain.RequestStatusRejected
	if approve {
		status = domain.RequestStatusApproved
	}
	now := time.Now()
	if err := s.hrRepo.UpdateLeaveRequestStatus(ctx, leaveRequestID, status, actingUserID, now); err != nil {
		s.LogError(ctx, err, "Failed to update leave request status",
			slog.String("leave_request_id", leaveRequestID))
		return nil, err
	}
	request.Status = status
	request.DecidedBy = &actingUserID
	request.DecidedAt = &now

	s.dispatch(ctx, domain.EventLeaveRequestDecided, eventPayload{
		OrganizationID: request.OrganizationID,
		ActorUserID:    actingUserID,
		SubjectUserID:  request.EmployeeUserID,
		ReferenceID:    request.LeaveRequestID,
		Approved:       &approve,
		Title:          "Leave request " + statusWord(approve),
		Body: fmt.Sprintf("Your %s leave request (%s to %s) was %s.",
			request.Kind,
			request.FromDate.Format("2006-01-02"), request.ToDate.Format("2006-01-02"),
			statusWord(approve)),
	})

	return request, nil
}

// ListLeaveRequests lists leave requests. mineOnly restricts to the caller's
// own; a full listing needs MANAGER or up.
func (s *hrService) ListLeaveRequests(ctx context.Context, actingUserID, organizationID string, mineOnly bool) ([]domain.LeaveRequest, error) {
	var employeeFilter *string
	if mineOnly {
		if err := s.Authorize(ctx, actingUserID, organizationID, policy.OpLeaveSubmit); err != nil {
			return nil, err
		}
		employeeFilter = &actingUserID
	} else {
		if err := s.Authorize(ctx, actingUserID, organizationID, policy.OpLeaveDecide); err != nil {
			return nil, err
		}
	}

	requests, err := s.hrRepo.ListLeaveRequests(ctx, organizationID, employeeFilter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list leave requests",
			slog.String("organization_id", organizationID))
		return nil, err
	}
	if requests == nil {
		return []domain.LeaveRequest{}, nil
	}
	return requests, nil
}

// SubmitReimbursement files an expense claim and notifies the manager.
func (s *hrService) SubmitReimbursement(ctx context.Context, actingUserID, organizationID string, amount decimal.Decimal, currencyCode, description string) (*domain.Reimbursement, error) {
	if err := s.Authorize(ctx, actingUserID, organizationID, policy.OpReimburseSubmit); err != nil {
		return nil, err
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, apperrors.NewValidationFailedError("reimbursement amount must be positive", nil)
	}
	if len(currencyCode) != 3 {
		return nil, apperrors.NewValidationFailedError("currency code must be 3 letters", nil)
	}

	now := time.Now()
	claim := domain.Reimbursement{
		ReimbursementID: uuid.NewString(),
		OrganizationID:  organizationID,
		EmployeeUserID:  actingUserID,
		Amount:          amount,
		CurrencyCode:    currencyCode,
		Description:     description,
		Status:          domain.ReimbursementSubmitted,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actingUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: actingUserID,
		},
	}

	if err := s.hrRepo.SaveReimbursement(ctx, claim); err != nil {
		s.LogError(ctx, err, "Failed to save reimbursement",
			slog.String("organization_id", organizationID),
			slog.String("employee_user_id", actingUserID))
		return nil, err
	}

	s.dispatch(ctx, domain.EventReimbursementSubmitted, eventPayload{
		OrganizationID: organizationID,
		ActorUserID:    actingUserID,
		SubjectUserID:  actingUserID,
		ReferenceID:    claim.ReimbursementID,
		Title:          "New reimbursement claim",
		Body: fmt.Sprintf("%s claimed %s %s: %s",
			s.userName(ctx, actingUserID), amount.StringFixed(2), currencyCode, description),
	})

	return &claim, nil
}

// DecideReimbursementAsManager records the manager stage decision. On
// approval the claim hands off to finance for payout.
func (s *hrService) DecideReimbursementAsManager(ctx context.Context, actingUserID, reimbursementID string, approve bool) (*domain.Reimbursement, error) {
	claim, err := s.hrRepo.FindReimbursementByID(ctx, reimbursementID)
	if err != nil {
		return nil, err
	}
	if claim.EmployeeUserID == actingUserID {
		return nil, apperrors.NewForbiddenError("cannot decide your own reimbursement")
	}
	if err := s.Authorize(ctx, actingUserID, claim.OrganizationID, policy.OpReimburseDecide); err != nil {
		return nil, err
	}
	if claim.Status != domain.ReimbursementSubmitted {
		return nil, apperrors.NewConflictError("reimbursement is not awaiting manager review")
	}

	status := domain.ReimbursementRejected
	if approve {
		status = domain.ReimbursementManagerApproved
	}
	now := time.Now()
	if err := s.hrRepo.UpdateReimbursementStatus(ctx, reimbursementID, status, actingUserID, now); err != nil {
		s.LogError(ctx, err, "Failed to update reimbursement status",
			slog.String("reimbursement_id", reimbursementID))
		return nil, err
	}
	claim.Status = status
	claim.DecidedBy = &actingUserID
	claim.DecidedAt = &now

	s.dispatch(ctx, domain.EventReimbursementManagerDecided, eventPayload{
		OrganizationID: claim.OrganizationID,
		ActorUserID:    actingUserID,
		SubjectUserID:  claim.EmployeeUserID,
		ReferenceID:    claim.ReimbursementID,
		Approved:       &approve,
		Title:          "Reimbursement " + statusWord(approve) + " by manager",
		Body: fmt.Sprintf("The claim for %s %s was %s by the manager.",
			claim.Amount.StringFixed(2), claim.CurrencyCode, statusWord(approve)),
	})

	return claim, nil
}

// DecideReimbursementAsFinance records the payout stage decision. FINANCE
// and up; only manager-approved claims are eligible.
func (s *hrService) DecideReimbursementAsFinance(ctx context.Context, actingUserID, reimbursementID string, approve bool) (*domain.Reimbursement, error) {
	claim, err := s.hrRepo.FindReimbursementByID(ctx, reimbursementID)
	if err != nil {
		return nil, err
	}
	if claim.EmployeeUserID == actingUserID {
		return nil, apperrors.NewForbiddenError("cannot decide your own reimbursement")
	}
	if err := s.Authorize(ctx, actingUserID, claim.OrganizationID, policy.OpReimbursePay); err != nil {
		return nil, err
	}
	if claim.Status != domain.ReimbursementManagerApproved {
		return nil, apperrors.NewConflictError("reimbursement is not awaiting finance review")
	}

	status := domain.ReimbursementRejected
	if approve {
		status = domain.ReimbursementPaid
	}
	now := time.Now()
	if err := s.hrRepo.UpdateReimbursementStatus(ctx, reimbursementID, status, actingUserID, now); err != nil {
		s.LogError(ctx, err, "Failed to update reimbursement status",
			slog.String("reimbursement_id", reimbursementID))
		return nil, err
	}
	claim.Status = status
	claim.DecidedBy = &actingUserID
	claim.DecidedAt = &now

	outcome := "rejected by finance"
	if approve {
		outcome = "paid"
	}
	s.dispatch(ctx, domain.EventReimbursementFinanceDecided, eventPayload{
		OrganizationID: claim.OrganizationID,
		ActorUserID:    actingUserID,
		SubjectUserID:  claim.EmployeeUserID,
		ReferenceID:    claim.ReimbursementID,
		Approved:       &approve,
		Title:          "Reimbursement " + outcome,
		Body: fmt.Sprintf("Your claim for %s %s was %s.",
			claim.Amount.StringFixed(2), claim.CurrencyCode, outcome),
	})

	return claim, nil
}

// ListReimbursements lists claims. mineOnly restricts to the caller's own;
// a full listing needs MANAGER or up.
func (s *hrService) ListReimbursements(ctx context.Context, actingUserID, organizationID string, mineOnly bool) ([]domain.Reimbursement, error) {
	var employeeFilter *string
	if mineOnly {
		if err := s.Authorize(ctx, actingUserID, organizationID, policy.OpReimburseSubmit); err != nil {
			return nil, err
		}
		employeeFilter = &actingUserID
	} else {
		if err := s.Authorize(ctx, actingUserID, organizationID, policy.OpReimburseDecide); err != nil {
			return nil, err
		}
	}

	claims, err := s.hrRepo.ListReimbursements(ctx, organizationID, employeeFilter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list reimbursements",
			slog.String("organization_id", organizationID))
		return nil, err
	}
	if claims == nil {
		return []domain.Reimbursement{}, nil
	}
	return claims, nil
}

// PublishMemo publishes an organization-wide announcement and notifies every
// member. HR and up.
func (s *hrService) PublishMemo(ctx context.Context, actingUserID, organizationID, title, body string) (*domain.Memo, error) {
	if err := s.Authorize(ctx, actingUserID, organizationID, policy.OpMemoPublish); err != nil {
		return nil, err
	}
	if title == "" {
		return nil, apperrors.NewValidationFailedError("memo title is required", nil)
	}

	memo := domain.Memo{
		MemoID:         uuid.NewString(),
		OrganizationID: organizationID,
		Title:          title,
		Body:           body,
		PublishedBy:    actingUserID,
		PublishedAt:    time.Now(),
	}

	if err := s.hrRepo.SaveMemo(ctx, memo); err != nil {
		s.LogError(ctx, err, "Failed to save memo",
			slog.String("organization_id", organizationID))
		return nil, err
	}

	s.dispatch(ctx, domain.EventMemoPublished, eventPayload{
		OrganizationID: organizationID,
		ActorUserID:    actingUserID,
		ReferenceID:    memo.MemoID,
		Title:          "Memo: " + title,
		Body:           body,
	})

	return &memo, nil
}

// ListMemos lists an organization's announcements, newest first. Any member.
func (s *hrService) ListMemos(ctx context.Context, actingUserID, organizationID string, limit, offset int) ([]domain.Memo, error) {
	if err := s.Authorize(ctx, actingUserID, organizationID, policy.OpNotificationsRead); err != nil {
		return nil, err
	}
	memos, err := s.hrRepo.ListMemos(ctx, organizationID, limit, offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list memos",
			slog.String("organization_id", organizationID))
		return nil, err
	}
	if memos == nil {
		return []domain.Memo{}, nil
	}
	return memos, nil
}

func statusWord(approved bool) string {
	if approved {
		return "approved"
	}
	return "rejected"
}
