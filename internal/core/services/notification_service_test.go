package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"testing"

	"github.com/opsuite/opsuite_backend/internal/apperrors"
	"github.com/opsuite/opsuite_backend/internal/core/domain"
	"github.com/opsuite/opsuite_backend/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- Mock NotificationRepository ---
type MockNotificationRepository struct {
	mock.Mock
	ListNotificationsByRecipientFn func(ctx context.Context, recipientUserID, organizationID string, limit, offset int) ([]domain.Notification, error)
	CountUnreadFn                  func(ctx context.Context, recipientUserID, organizationID string) (int, error)
	SaveNotificationsFn            func(ctx context.Context, notifications []domain.Notification) error
	MarkReadFn                     func(ctx context.Context, notificationID, recipientUserID string) error
	MarkAllReadFn                  func(ctx context.Context, recipientUserID, organizationID string) error
}

func (m *MockNotificationRepository) ListNotificationsByRecipient(ctx context.Context, recipientUserID, organizationID string, limit, offset int) ([]domain.Notification, error) {
	if m.ListNotificationsByRecipientFn != nil {
		return m.ListNotificationsByRecipientFn(ctx, recipientUserID, organizationID, limit, offset)
	}
	args := m.Called(ctx, recipientUserID, organizationID, limit, offset)
	var notifications []domain.Notification
	if args.Get(0) != nil {
		notifications = args.Get(0).([]domain.Notification)
	}
	return notifications, args.Error(1)
}

func (m *MockNotificationRepository) CountUnread(ctx context.Context, recipientUserID, organizationID string) (int, error) {
	if m.CountUnreadFn != nil {
		return m.CountUnreadFn(ctx, recipientUserID, organizationID)
	}
	args := m.Called(ctx, recipientUserID, organizationID)
	return args.Int(0), args.Error(1)
}

func (m *MockNotificationRepository) SaveNotifications(ctx context.Context, notifications []domain.Notification) error {
	if m.SaveNotificationsFn != nil {
		return m.SaveNotificationsFn(ctx, notifications)
	}
	args := m.Called(ctx, notifications)
	return args.Error(0)
}

func (m *MockNotificationRepository) MarkRead(ctx context.Context, notificationID, recipientUserID string) error {
	if m.MarkReadFn != nil {
		return m.MarkReadFn(ctx, notificationID, recipientUserID)
	}
	args := m.Called(ctx, notificationID, recipientUserID)
	return args.Error(0)
}

func (m *MockNotificationRepository) MarkAllRead(ctx context.Context, recipientUserID, organizationID string) error {
	if m.MarkAllReadFn != nil {
		return m.MarkAllReadFn(ctx, recipientUserID, organizationID)
	}
	args := m.Called(ctx, recipientUserID, organizationID)
	return args.Error(0)
}

// --- Mock EmployeeReader ---
type MockEmployeeReader struct {
	mock.Mock
	FindEmployeeFn func(ctx context.Context, userID, organizationID string) (*domain.Employee, error)
}

func (m *MockEmployeeReader) FindEmployee(ctx context.Context, userID, organizationID string) (*domain.Employee, error) {
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

func (m *MockEmployeeReader) ListEmployees(ctx context.Context, organizationID string) ([]domain.Employee, error) {
	args := m.Called(ctx, organizationID)
	var employees []domain.Employee
	if args.Get(0) != nil {
		employees = args.Get(0).([]domain.Employee)
	}
	return employees, args.Error(1)
}

// --- Mock EmailEnqueuer ---
type MockEmailEnqueuer struct {
	EnqueueEmailFn func(ctx context.Context, recipientEmail, subject, body string) error
	Sent           []string
}

func (m *MockEmailEnqueuer) EnqueueEmail(ctx context.Context, recipientEmail, subject, body string) error {
	if m.EnqueueEmailFn != nil {
		if err := m.EnqueueEmailFn(ctx, recipientEmail, subject, body); err != nil {
			return err
		}
	}
	m.Sent = append(m.Sent, recipientEmail)
	return nil
}

func payloadJSON(t *testing.T, p map[string]any) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(p)
	require.NoError(t, err)
	return raw
}

func emailableUserReader() *MockUserReader {
	return &MockUserReader{
		FindUserByIDFn: func(ctx context.Context, userID string) (*domain.User, error) {
			return memberUser(userID), nil
		},
	}
}

func newDispatchFixture() (*MockNotificationRepository, *MockRoleRepository, *MockEmployeeReader, *MockEmailEnqueuer) {
	notifRepo := &MockNotificationRepository{
		SaveNotificationsFn: func(ctx context.Context, notifications []domain.Notification) error {
			return nil
		},
	}
	roleRepo := &MockRoleRepository{}
	hrRepo := &MockEmployeeReader{}
	enqueuer := &MockEmailEnqueuer{}
	return notifRepo, roleRepo, hrRepo, enqueuer
}

func TestDispatch_LeaveCreatedRoutesToManager(t *testing.T) {
	notifRepo, roleRepo, hrRepo, enqueuer := newDispatchFixture()
	var savedRows []domain.Notification
	notifRepo.SaveNotificationsFn = func(ctx context.Context, notifications []domain.Notification) error {
		savedRows = notifications
		return nil
	}
	managerID := "manager-1"
	hrRepo.FindEmployeeFn = func(ctx context.Context, userID, orgID string) (*domain.Employee, error) {
		return &domain.Employee{UserID: userID, OrganizationID: orgID, ManagerID: &managerID}, nil
	}
	svc := services.NewNotificationService(notifRepo, roleRepo, hrRepo, emailableUserReader(), enqueuer)

	result, err := svc.Dispatch(context.Background(), domain.EventLeaveRequestCreated, payloadJSON(t, map[string]any{
		"organizationID": "org-1",
		"actorUserID":    "employee-1",
		"subjectUserID":  "employee-1",
		"referenceID":    "leave-1",
		"title":          "New leave request",
		"body":           "Sick leave from 2025-06-01",
	}))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Notified)
	assert.Equal(t, 1, result.Emailed)
	require.Len(t, savedRows, 1)
	assert.Equal(t, "manager-1", savedRows[0].RecipientUserID)
	assert.Equal(t, domain.EventLeaveRequestCreated, savedRows[0].EventType)
	assert.Equal(t, "leave-1", savedRows[0].ReferenceID)
	assert.False(t, savedRows[0].IsRead)
}

func TestDispatch_LeaveCreatedFallsBackToManagerRoleHolders(t *testing.T) {
	notifRepo, roleRepo, hrRepo, enqueuer := newDispatchFixture()
	hrRepo.FindEmployeeFn = func(ctx context.Context, userID, orgID string) (*domain.Employee, error) {
		return nil, apperrors.ErrNotFound
	}
	roleRepo.ListUserIDsByRoleFn = func(ctx context.Context, orgID string, role domain.Role) ([]string, error) {
		require.Equal(t, domain.RoleManager, role)
		return []string{"manager-1", "manager-2"}, nil
	}
	svc := services.NewNotificationService(notifRepo, roleRepo, hrRepo, emailableUserReader(), enqueuer)

	result, err := svc.Dispatch(context.Background(), domain.EventLeaveRequestCreated, payloadJSON(t, map[string]any{
		"organizationID": "org-1",
		"actorUserID":    "employee-1",
		"subjectUserID":  "employee-1",
		"title":          "New leave request",
	}))
	require.NoError(t, err)
	assert.Equal(t, 2, result.Notified)
}

func TestDispatch_ActorNeverNotified(t *testing.T) {
	notifRepo, roleRepo, hrRepo, enqueuer := newDispatchFixture()
	var savedRows []domain.Notification
	notifRepo.SaveNotificationsFn = func(ctx context.Context, notifications []domain.Notification) error {
		savedRows = notifications
		return nil
	}
	roleRepo.ListMemberUserIDsFn = func(ctx context.Context, orgID string) ([]string, error) {
		return []string{"hr-1", "employee-1", "employee-2", "employee-1"}, nil
	}
	svc := services.NewNotificationService(notifRepo, roleRepo, hrRepo, emailableUserReader(), enqueuer)

	result, err := svc.Dispatch(context.Background(), domain.EventMemoPublished, payloadJSON(t, map[string]any{
		"organizationID": "org-1",
		"actorUserID":    "hr-1",
		"referenceID":    "memo-1",
		"title":          "Office closed Friday",
	}))
	require.NoError(t, err)
	assert.Equal(t, 2, result.Notified, "publisher excluded, duplicates collapsed")

	var recipients []string
	for _, n := range savedRows {
		recipients = append(recipients, n.RecipientUserID)
	}
	sort.Strings(recipients)
	assert.Equal(t, []string{"employee-1", "employee-2"}, recipients)
}

func TestDispatch_ManagerApprovalHandsOffToFinance(t *testing.T) {
	notifRepo, roleRepo, hrRepo, enqueuer := newDispatchFixture()
	var savedRows []domain.Notification
	notifRepo.SaveNotificationsFn = func(ctx context.Context, notifications []domain.Notification) error {
		savedRows = notifications
		return nil
	}
	roleRepo.ListUserIDsByRoleFn = func(ctx context.Context, orgID string, role domain.Role) ([]string, error) {
		require.Equal(t, domain.RoleFinance, role)
		return []string{"finance-1"}, nil
	}
	svc := services.NewNotificationService(notifRepo, roleRepo, hrRepo, emailableUserReader(), enqueuer)

	result, err := svc.Dispatch(context.Background(), domain.EventReimbursementManagerDecided, payloadJSON(t, map[string]any{
		"organizationID": "org-1",
		"actorUserID":    "manager-1",
		"subjectUserID":  "employee-1",
		"approved":       true,
		"title":          "Reimbursement approved",
	}))
	require.NoError(t, err)
	assert.Equal(t, 2, result.Notified)

	var recipients []string
	for _, n := range savedRows {
		recipients = append(recipients, n.RecipientUserID)
	}
	sort.Strings(recipients)
	assert.Equal(t, []string{"employee-1", "finance-1"}, recipients)
}

func TestDispatch_ManagerRejectionSkipsFinance(t *testing.T) {
	notifRepo, _, hrRepo, enqueuer := newDispatchFixture()
	var savedRows []domain.Notification
	notifRepo.SaveNotificationsFn = func(ctx context.Context, notifications []domain.Notification) error {
		savedRows = notifications
		return nil
	}
	roleRepo := &MockRoleRepository{
		ListUserIDsByRoleFn: func(ctx context.Context, orgID string, role domain.Role) ([]string, error) {
			t.Fatal("finance lookup must not happen on rejection")
			return nil, nil
		},
	}
	svc := services.NewNotificationService(notifRepo, roleRepo, hrRepo, emailableUserReader(), enqueuer)

	result, err := svc.Dispatch(context.Background(), domain.EventReimbursementManagerDecided, payloadJSON(t, map[string]any{
		"organizationID": "org-1",
		"actorUserID":    "manager-1",
		"subjectUserID":  "employee-1",
		"approved":       false,
		"title":          "Reimbursement rejected",
	}))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Notified)
	require.Len(t, savedRows, 1)
	assert.Equal(t, "employee-1", savedRows[0].RecipientUserID)
}

func TestDispatch_EmailFailuresDoNotFailDispatch(t *testing.T) {
	notifRepo, roleRepo, hrRepo, _ := newDispatchFixture()
	roleRepo.ListMemberUserIDsFn = func(ctx context.Context, orgID string) ([]string, error) {
		return []string{"employee-1", "employee-2"}, nil
	}
	enqueuer := &MockEmailEnqueuer{
		EnqueueEmailFn: func(ctx context.Context, recipientEmail, subject, body string) error {
			return errors.New("redis down")
		},
	}
	svc := services.NewNotificationService(notifRepo, roleRepo, hrRepo, emailableUserReader(), enqueuer)

	result, err := svc.Dispatch(context.Background(), domain.EventMemoPublished, payloadJSON(t, map[string]any{
		"organizationID": "org-1",
		"actorUserID":    "hr-1",
		"title":          "Memo",
	}))
	require.NoError(t, err, "notification rows are the success criterion")
	assert.Equal(t, 2, result.Notified)
	assert.Equal(t, 0, result.Emailed)
}

func TestDispatch_NilEnqueuerSkipsEmails(t *testing.T) {
	notifRepo, roleRepo, hrRepo, _ := newDispatchFixture()
	roleRepo.ListMemberUserIDsFn = func(ctx context.Context, orgID string) ([]string, error) {
		return []string{"employee-1"}, nil
	}
	svc := services.NewNotificationService(notifRepo, roleRepo, hrRepo, emailableUserReader(), nil)

	result, err := svc.Dispatch(context.Background(), domain.EventMemoPublished, payloadJSON(t, map[string]any{
		"organizationID": "org-1",
		"actorUserID":    "hr-1",
		"title":          "Memo",
	}))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Notified)
	assert.Equal(t, 0, result.Emailed)
}

func TestDispatch_ValidationFailures(t *testing.T) {
	svc := services.NewNotificationService(&MockNotificationRepository{}, &MockRoleRepository{}, &MockEmployeeReader{}, &MockUserReader{}, nil)
	ctx := context.Background()

	_, err := svc.Dispatch(ctx, domain.EventType("unknown_event"), json.RawMessage(`{}`))
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = svc.Dispatch(ctx, domain.EventMemoPublished, json.RawMessage(`{not json`))
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = svc.Dispatch(ctx, domain.EventMemoPublished, json.RawMessage(`{"title":"x"}`))
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestDispatch_NoRecipientsIsNoOp(t *testing.T) {
	notifRepo := &MockNotificationRepository{
		SaveNotificationsFn: func(ctx context.Context, notifications []domain.Notification) error {
			t.Fatal("must not write rows when there are no recipients")
			return nil
		},
	}
	roleRepo := &MockRoleRepository{
		ListMemberUserIDsFn: func(ctx context.Context, orgID string) ([]string, error) {
			return []string{"hr-1"}, nil // only the actor
		},
	}
	svc := services.NewNotificationService(notifRepo, roleRepo, &MockEmployeeReader{}, &MockUserReader{}, nil)

	result, err := svc.Dispatch(context.Background(), domain.EventMemoPublished, payloadJSON(t, map[string]any{
		"organizationID": "org-1",
		"actorUserID":    "hr-1",
		"title":          "Memo",
	}))
	require.NoError(t, err)
	assert.Equal(t, 0, result.Notified)
	assert.Equal(t, 0, result.Emailed)
}

func TestMarkRead_ScopedToRecipient(t *testing.T) {
	var gotNotifID, gotUserID string
	notifRepo := &MockNotificationRepository{
		MarkReadFn: func(ctx context.Context, notificationID, recipientUserID string) error {
			gotNotifID, gotUserID = notificationID, recipientUserID
			return nil
		},
	}
	svc := services.NewNotificationService(notifRepo, &MockRoleRepository{}, &MockEmployeeReader{}, &MockUserReader{}, nil)

	require.NoError(t, svc.MarkRead(context.Background(), "user-1", "notif-1"))
	assert.Equal(t, "notif-1", gotNotifID)
	assert.Equal(t, "user-1", gotUserID)
}

func TestListMyNotifications_NilBecomesEmptySlice(t *testing.T) {
	notifRepo := &MockNotificationRepository{
		ListNotificationsByRecipientFn: func(ctx context.Context, recipientUserID, organizationID string, limit, offset int) ([]domain.Notification, error) {
			return nil, nil
		},
	}
	svc := services.NewNotificationService(notifRepo, &MockRoleRepository{}, &MockEmployeeReader{}, &MockUserReader{}, nil)

	notifications, err := svc.ListMyNotifications(context.Background(), "user-1", "org-1", 20, 0)
	require.NoError(t, err)
	assert.NotNil(t, notifications)
	assert.Empty(t, notifications)
}
