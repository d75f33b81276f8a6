package services_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/opsuite/opsuite_backend/internal/apperrors"
	"github.com/opsuite/opsuite_backend/internal/core/domain"
	"github.com/opsuite/opsuite_backend/internal/core/policy"
	"github.com/opsuite/opsuite_backend/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- Mock HRRepository ---
type MockHRRepository struct {
	mock.Mock
	FindEmployeeFn              func(ctx context.Context, userID, organizationID string) (*domain.Employee, error)
	ListEmployeesFn             func(ctx context.Context, organizationID string) ([]domain.Employee, error)
	SaveEmployeeFn              func(ctx context.Context, employee domain.Employee) error
	SaveLeaveRequestFn          func(ctx context.Context, request domain.LeaveRequest) error
	FindLeaveRequestByIDFn      func(ctx context.Context, leaveRequestID string) (*domain.LeaveRequest, error)
	ListLeaveRequestsFn         func(ctx context.Context, organizationID string, employeeUserID *string) ([]domain.LeaveRequest, error)
	UpdateLeaveRequestStatusFn  func(ctx context.Context, leaveRequestID string, status domain.RequestStatus, decidedBy string, decidedAt time.Time) error
	SaveReimbursementFn         func(ctx context.Context, claim domain.Reimbursement) error
	FindReimbursementByIDFn     func(ctx context.Context, reimbursementID string) (*domain.Reimbursement, error)
	ListReimbursementsFn        func(ctx context.Context, organizationID string, employeeUserID *string) ([]domain.Reimbursement, error)
	UpdateReimbursementStatusFn func(ctx context.Context, reimbursementID string, status domain.ReimbursementStatus, decidedBy string, decidedAt time.Time) error
	SaveMemoFn                  func(ctx context.Context, memo domain.Memo) error
	FindMemoByIDFn              func(ctx context.Context, memoID string) (*domain.Memo, error)
	ListMemosFn                 func(ctx context.Context, organizationID string, limit, offset int) ([]domain.Memo, error)
}

func (m *MockHRRepository) FindEmployee(ctx context.Context, userID, organizationID string) (*domain.Employee, error) {
	if m.FindEmployeeFn != nil {
		return m.FindEmployeeFn(ctx, userID, organizationID)
	}
	args := m.Called(ctx, userID, organizationID)
	var employee *domain.Employee
	if args.Get(0) != nil {
		employee = args.Get(0).(*domain.Employee)
	}
	return employee, args.Error(1)
}

func (m *MockHRRepository) ListEmployees(ctx context.Context, organizationID string) ([]domain.Employee, error) {
	if m.ListEmployeesFn != nil {
		return m.ListEmployeesFn(ctx, organizationID)
	}
	args := m.Called(ctx, organizationID)
	var employees []domain.Employee
	if args.Get(0) != nil {
		employees = args.Get(0).([]domain.Employee)
	}
	return employees, args.Error(1)
}

func (m *MockHRRepository) SaveEmployee(ctx context.Context, employee domain.Employee) error {
	if m.SaveEmployeeFn != nil {
		return m.SaveEmployeeFn(ctx, employee)
	}
	args := m.Called(ctx, employee)
	return args.Error(0)
}

func (m *MockHRRepository) SaveLeaveRequest(ctx context.Context, request domain.LeaveRequest) error {
	if m.SaveLeaveRequestFn != nil {
		return m.SaveLeaveRequestFn(ctx, request)
	}
	args := m.Called(ctx, request)
	return args.Error(0)
}

func (m *MockHRRepository) FindLeaveRequestByID(ctx context.Context, leaveRequestID string) (*domain.LeaveRequest, error) {
	if m.FindLeaveRequestByIDFn != nil {
		return m.FindLeaveRequestByIDFn(ctx, leaveRequestID)
	}
	args := m.Called(ctx, leaveRequestID)
	var request *domain.LeaveRequest
	if args.Get(0) != nil {
		request = args.Get(0).(*domain.LeaveRequest)
	}
	return request, args.Error(1)
}

func (m *MockHRRepository) ListLeaveRequests(ctx context.Context, organizationID string, employeeUserID *string) ([]domain.LeaveRequest, error) {
	if m.ListLeaveRequestsFn != nil {
		return m.ListLeaveRequestsFn(ctx, organizationID, employeeUserID)
	}
	args := m.Called(ctx, organizationID, employeeUserID)
	var requests []domain.LeaveRequest
	if args.Get(0) != nil {
		requests = args.Get(0).([]domain.LeaveRequest)
	}
	return requests, args.Error(1)
}

func (m *MockHRRepository) UpdateLeaveRequestStatus(ctx context.Context, leaveRequestID string, status domain.RequestStatus, decidedBy string, decidedAt time.Time) error {
	if m.UpdateLeaveRequestStatusFn != nil {
		return m.UpdateLeaveRequestStatusFn(ctx, leaveRequestID, status, decidedBy, decidedAt)
	}
	args := m.Called(ctx, leaveRequestID, status, decidedBy, decidedAt)
	return args.Error(0)
}

func (m *MockHRRepository) SaveReimbursement(ctx context.Context, claim domain.Reimbursement) error {
	if m.SaveReimbursementFn != nil {
		return m.SaveReimbursementFn(ctx, claim)
	}
	args := m.Called(ctx, claim)
	return args.Error(0)
}

func (m *MockHRRepository) FindReimbursementByID(ctx context.Context, reimbursementID string) (*domain.Reimbursement, error) {
	if m.FindReimbursementByIDFn != nil {
		return m.FindReimbursementByIDFn(ctx, reimbursementID)
	}
	args := m.Called(ctx, reimbursementID)
	var claim *domain.Reimbursement
	if args.Get(0) != nil {
		claim = args.Get(0).(*domain.Reimbursement)
	}
	return claim, args.Error(1)
}

func (m *MockHRRepository) ListReimbursements(ctx context.Context, organizationID string, employeeUserID *string) ([]domain.Reimbursement, error) {
	if m.ListReimbursementsFn != nil {
		return m.ListReimbursementsFn(ctx, organizationID, employeeUserID)
	}
	args := m.Called(ctx, organizationID, employeeUserID)
	var claims []domain.Reimbursement
	if args.Get(0) != nil {
		claims = args.Get(0).([]domain.Reimbursement)
	}
	return claims, args.Error(1)
}

func (m *MockHRRepository) UpdateReimbursementStatus(ctx context.Context, reimbursementID string, status domain.ReimbursementStatus, decidedBy string, decidedAt time.Time) error {
	if m.UpdateReimbursementStatusFn != nil {
		return m.UpdateReimbursementStatusFn(ctx, reimbursementID, status, decidedBy, decidedAt)
	}
	args := m.Called(ctx, reimbursementID, status, decidedBy, decidedAt)
	return args.Error(0)
}

func (m *MockHRRepository) SaveMemo(ctx context.Context, memo domain.Memo) error {
	if m.SaveMemoFn != nil {
		return m.SaveMemoFn(ctx, memo)
	}
	args := m.Called(ctx, memo)
	return args.Error(0)
}

func (m *MockHRRepository) FindMemoByID(ctx context.Context, memoID string) (*domain.Memo, error) {
	if m.FindMemoByIDFn != nil {
		return m.FindMemoByIDFn(ctx, memoID)
	}
	args := m.Called(ctx, memoID)
	var memo *domain.Memo
	if args.Get(0) != nil {
		memo = args.Get(0).(*domain.Memo)
	}
	return memo, args.Error(1)
}

func (m *MockHRRepository) ListMemos(ctx context.Context, organizationID string, limit, offset int) ([]domain.Memo, error) {
	if m.ListMemosFn != nil {
		return m.ListMemosFn(ctx, organizationID, limit, offset)
	}
	args := m.Called(ctx, organizationID, limit, offset)
	var memos []domain.Memo
	if args.Get(0) != nil {
		memos = args.Get(0).([]domain.Memo)
	}
	return memos, args.Error(1)
}

// --- Authorizer and dispatcher stubs ---

// recordingAuthorizer permits everything and records the operations checked.
type recordingAuthorizer struct {
	ops  []policy.Operation
	deny map[policy.Operation]bool
}

func (a *recordingAuthorizer) Authorize(ctx context.Context, userID, organizationID string, op policy.Operation) error {
	a.ops = append(a.ops, op)
	if a.deny[op] {
		return apperrors.NewForbiddenError("insufficient role")
	}
	return nil
}

type recordingDispatcher struct {
	events   []domain.EventType
	payloads []json.RawMessage
	err      error
}

func (d *recordingDispatcher) Dispatch(ctx context.Context, eventType domain.EventType, payload json.RawMessage) (*domain.DispatchResult, error) {
	d.events = append(d.events, eventType)
	d.payloads = append(d.payloads, payload)
	if d.err != nil {
		return nil, d.err
	}
	return &domain.DispatchResult{Notified: 1}, nil
}

func newHRFixture() (*MockHRRepository, *recordingAuthorizer, *recordingDispatcher) {
	return &MockHRRepository{}, &recordingAuthorizer{}, &recordingDispatcher{}
}

func TestUpsertEmployee_RejectsSelfManagement(t *testing.T) {
	hrRepo, authorizer, dispatcher := newHRFixture()
	svc := services.NewHRService(hrRepo, &MockUserReader{}, authorizer, dispatcher)

	selfID := "user-1"
	_, err := svc.UpsertEmployee(context.Background(), "hr-1", domain.Employee{
		UserID:         selfID,
		OrganizationID: "org-1",
		ManagerID:      &selfID,
	})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestUpsertEmployee_StampsAuditFields(t *testing.T) {
	hrRepo, authorizer, dispatcher := newHRFixture()
	var saved domain.Employee
	hrRepo.SaveEmployeeFn = func(ctx context.Context, employee domain.Employee) error {
		saved = employee
		return nil
	}
	svc := services.NewHRService(hrRepo, &MockUserReader{}, authorizer, dispatcher)

	managerID := "manager-1"
	_, err := svc.UpsertEmployee(context.Background(), "hr-1", domain.Employee{
		UserID:         "employee-1",
		OrganizationID: "org-1",
		ManagerID:      &managerID,
		Department:     "Engineering",
	})
	require.NoError(t, err)
	assert.Equal(t, "hr-1", saved.CreatedBy)
	assert.Equal(t, "hr-1", saved.LastUpdatedBy)
	assert.False(t, saved.CreatedAt.IsZero())
	assert.Contains(t, authorizer.ops, policy.OpEmployeesManage)
}

func TestGetEmployee_SelfReadSkipsRoleCheck(t *testing.T) {
	hrRepo, _, dispatcher := newHRFixture()
	hrRepo.FindEmployeeFn = func(ctx context.Context, userID, orgID string) (*domain.Employee, error) {
		return &domain.Employee{UserID: userID, OrganizationID: orgID}, nil
	}
	authorizer := &recordingAuthorizer{deny: map[policy.Operation]bool{policy.OpEmployeesRead: true}}
	svc := services.NewHRService(hrRepo, &MockUserReader{}, authorizer, dispatcher)

	employee, err := svc.GetEmployee(context.Background(), "employee-1", "org-1", "employee-1")
	require.NoError(t, err, "reading your own profile needs no elevated role")
	assert.Equal(t, "employee-1", employee.UserID)

	_, err = svc.GetEmployee(context.Background(), "employee-1", "org-1", "employee-2")
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestSubmitLeave_RejectsInvertedDates(t *testing.T) {
	hrRepo, authorizer, dispatcher := newHRFixture()
	svc := services.NewHRService(hrRepo, &MockUserReader{}, authorizer, dispatcher)

	from := time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)
	_, err := svc.SubmitLeave(context.Background(), "employee-1", "org-1", domain.LeaveKindSick, from, from.AddDate(0, 0, -1), "typo")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Empty(t, dispatcher.events)
}

func TestSubmitLeave_SavesPendingAndNotifies(t *testing.T) {
	hrRepo, authorizer, dispatcher := newHRFixture()
	var saved domain.LeaveRequest
	hrRepo.SaveLeaveRequestFn = func(ctx context.Context, request domain.LeaveRequest) error {
		saved = request
		return nil
	}
	svc := services.NewHRService(hrRepo, emailableUserReader(), authorizer, dispatcher)

	from := time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)
	request, err := svc.SubmitLeave(context.Background(), "employee-1", "org-1", domain.LeaveKindCasual, from, from.AddDate(0, 0, 2), "family visit")
	require.NoError(t, err)
	assert.Equal(t, domain.RequestStatusPending, request.Status)
	assert.Equal(t, "employee-1", saved.EmployeeUserID)
	require.Equal(t, []domain.EventType{domain.EventLeaveRequestCreated}, dispatcher.events)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(dispatcher.payloads[0], &payload))
	assert.Equal(t, "org-1", payload["organizationID"])
	assert.Equal(t, saved.LeaveRequestID, payload["referenceID"])
}

func TestDecideLeave_NoSelfDecision(t *testing.T) {
	hrRepo, authorizer, dispatcher := newHRFixture()
	hrRepo.FindLeaveRequestByIDFn = func(ctx context.Context, leaveRequestID string) (*domain.LeaveRequest, error) {
		return &domain.LeaveRequest{
			LeaveRequestID: leaveRequestID,
			OrganizationID: "org-1",
			EmployeeUserID: "manager-1",
			Status:         domain.RequestStatusPending,
		}, nil
	}
	svc := services.NewHRService(hrRepo, &MockUserReader{}, authorizer, dispatcher)

	_, err := svc.DecideLeave(context.Background(), "manager-1", "leave-1", true)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	assert.Empty(t, authorizer.ops, "self-decision is rejected before any role check")
}

func TestDecideLeave_OnlyPendingDecidable(t *testing.T) {
	hrRepo, authorizer, dispatcher := newHRFixture()
	hrRepo.FindLeaveRequestByIDFn = func(ctx context.Context, leaveRequestID string) (*domain.LeaveRequest, error) {
		return &domain.LeaveRequest{
			LeaveRequestID: leaveRequestID,
			OrganizationID: "org-1",
			EmployeeUserID: "employee-1",
			Status:         domain.RequestStatusApproved,
		}, nil
	}
	svc := services.NewHRService(hrRepo, &MockUserReader{}, authorizer, dispatcher)

	_, err := svc.DecideLeave(context.Background(), "manager-1", "leave-1", false)
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)
	assert.Empty(t, dispatcher.events)
}

func TestDecideLeave_RejectionPersistsAndNotifies(t *testing.T) {
	hrRepo, authorizer, dispatcher := newHRFixture()
	hrRepo.FindLeaveRequestByIDFn = func(ctx context.Context, leaveRequestID string) (*domain.LeaveRequest, error) {
		return &domain.LeaveRequest{
			LeaveRequestID: leaveRequestID,
			OrganizationID: "org-1",
			EmployeeUserID: "employee-1",
			Kind:           domain.LeaveKindEarned,
			Status:         domain.RequestStatusPending,
		}, nil
	}
	var gotStatus domain.RequestStatus
	hrRepo.UpdateLeaveRequestStatusFn = func(ctx context.Context, leaveRequestID string, status domain.RequestStatus, decidedBy string, decidedAt time.Time) error {
		gotStatus = status
		return nil
	}
	svc := services.NewHRService(hrRepo, &MockUserReader{}, authorizer, dispatcher)

	request, err := svc.DecideLeave(context.Background(), "manager-1", "leave-1", false)
	require.NoError(t, err)
	assert.Equal(t, domain.RequestStatusRejected, gotStatus)
	assert.Equal(t, domain.RequestStatusRejected, request.Status)
	require.NotNil(t, request.DecidedBy)
	assert.Equal(t, "manager-1", *request.DecidedBy)
	assert.Equal(t, []domain.EventType{domain.EventLeaveRequestDecided}, dispatcher.events)
	assert.Contains(t, authorizer.ops, policy.OpLeaveDecide)
}

func TestListLeaveRequests_MineOnlyFiltersByCaller(t *testing.T) {
	hrRepo, authorizer, dispatcher := newHRFixture()
	var gotFilter *string
	hrRepo.ListLeaveRequestsFn = func(ctx context.Context, organizationID string, employeeUserID *string) ([]domain.LeaveRequest, error) {
		gotFilter = employeeUserID
		return nil, nil
	}
	svc := services.NewHRService(hrRepo, &MockUserReader{}, authorizer, dispatcher)

	requests, err := svc.ListLeaveRequests(context.Background(), "employee-1", "org-1", true)
	require.NoError(t, err)
	require.NotNil(t, gotFilter)
	assert.Equal(t, "employee-1", *gotFilter)
	assert.NotNil(t, requests)
	assert.Contains(t, authorizer.ops, policy.OpLeaveSubmit)

	_, err = svc.ListLeaveRequests(context.Background(), "manager-1", "org-1", false)
	require.NoError(t, err)
	assert.Nil(t, gotFilter)
	assert.Contains(t, authorizer.ops, policy.OpLeaveDecide)
}

func TestSubmitReimbursement_Validation(t *testing.T) {
	hrRepo, authorizer, dispatcher := newHRFixture()
	svc := services.NewHRService(hrRepo, &MockUserReader{}, authorizer, dispatcher)
	ctx := context.Background()

	_, err := svc.SubmitReimbursement(ctx, "employee-1", "org-1", decimal.Zero, "USD", "lunch")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = svc.SubmitReimbursement(ctx, "employee-1", "org-1", decimal.NewFromInt(50), "US", "lunch")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestReimbursement_TwoStageApproval(t *testing.T) {
	hrRepo, authorizer, dispatcher := newHRFixture()
	claim := &domain.Reimbursement{
		ReimbursementID: "claim-1",
		OrganizationID:  "org-1",
		EmployeeUserID:  "employee-1",
		Amount:          decimal.NewFromInt(120),
		CurrencyCode:    "USD",
		Status:          domain.ReimbursementSubmitted,
	}
	hrRepo.FindReimbursementByIDFn = func(ctx context.Context, reimbursementID string) (*domain.Reimbursement, error) {
		copied := *claim
		return &copied, nil
	}
	hrRepo.UpdateReimbursementStatusFn = func(ctx context.Context, reimbursementID string, status domain.ReimbursementStatus, decidedBy string, decidedAt time.Time) error {
		claim.Status = status
		return nil
	}
	svc := services.NewHRService(hrRepo, &MockUserReader{}, authorizer, dispatcher)
	ctx := context.Background()

	// Finance cannot act before the manager stage.
	_, err := svc.DecideReimbursementAsFinance(ctx, "finance-1", "claim-1", true)
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)

	decided, err := svc.DecideReimbursementAsManager(ctx, "manager-1", "claim-1", true)
	require.NoError(t, err)
	assert.Equal(t, domain.ReimbursementManagerApproved, decided.Status)

	// Manager stage is not repeatable.
	_, err = svc.DecideReimbursementAsManager(ctx, "manager-1", "claim-1", true)
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)

	paid, err := svc.DecideReimbursementAsFinance(ctx, "finance-1", "claim-1", true)
	require.NoError(t, err)
	assert.Equal(t, domain.ReimbursementPaid, paid.Status)

	assert.Equal(t, []domain.EventType{
		domain.EventReimbursementManagerDecided,
		domain.EventReimbursementFinanceDecided,
	}, dispatcher.events)
	assert.Contains(t, authorizer.ops, policy.OpReimburseDecide)
	assert.Contains(t, authorizer.ops, policy.OpReimbursePay)
}

func TestDecideReimbursement_NoSelfDecision(t *testing.T) {
	hrRepo, authorizer, dispatcher := newHRFixture()
	hrRepo.FindReimbursementByIDFn = func(ctx context.Context, reimbursementID string) (*domain.Reimbursement, error) {
		return &domain.Reimbursement{
			ReimbursementID: reimbursementID,
			OrganizationID:  "org-1",
			EmployeeUserID:  "manager-1",
			Status:          domain.ReimbursementSubmitted,
		}, nil
	}
	svc := services.NewHRService(hrRepo, &MockUserReader{}, authorizer, dispatcher)

	_, err := svc.DecideReimbursementAsManager(context.Background(), "manager-1", "claim-1", true)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	assert.Empty(t, dispatcher.events)
}

func TestPublishMemo_RequiresTitleAndNotifiesOrg(t *testing.T) {
	hrRepo, authorizer, dispatcher := newHRFixture()
	var saved domain.Memo
	hrRepo.SaveMemoFn = func(ctx context.Context, memo domain.Memo) error {
		saved = memo
		return nil
	}
	svc := services.NewHRService(hrRepo, &MockUserReader{}, authorizer, dispatcher)
	ctx := context.Background()

	_, err := svc.PublishMemo(ctx, "hr-1", "org-1", "", "body")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	memo, err := svc.PublishMemo(ctx, "hr-1", "org-1", "Office closure", "Closed Friday.")
	require.NoError(t, err)
	assert.Equal(t, "hr-1", memo.PublishedBy)
	assert.Equal(t, saved.MemoID, memo.MemoID)
	assert.Equal(t, []domain.EventType{domain.EventMemoPublished}, dispatcher.events)
	assert.Contains(t, authorizer.ops, policy.OpMemoPublish)
}

func TestSubmitLeave_DispatchFailureDoesNotFailSubmission(t *testing.T) {
	hrRepo, authorizer, _ := newHRFixture()
	hrRepo.SaveLeaveRequestFn = func(ctx context.Context, request domain.LeaveRequest) error {
		return nil
	}
	dispatcher := &recordingDispatcher{err: apperrors.NewInternalServerError("dispatch down")}
	svc := services.NewHRService(hrRepo, emailableUserReader(), authorizer, dispatcher)

	from := time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)
	request, err := svc.SubmitLeave(context.Background(), "employee-1", "org-1", domain.LeaveKindUnpaid, from, from, "half day")
	require.NoError(t, err, "the saved record is the source of truth")
	assert.NotEmpty(t, request.LeaveRequestID)
}
