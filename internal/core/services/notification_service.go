package services

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/opsuite/opsuite_backend/internal/apperrors"
	"github.com/opsuite/opsuite_backend/internal/core/domain"
	portsrepo "github.com/opsuite/opsuite_backend/internal/core/ports/repositories"
	portssvc "github.com/opsuite/opsuite_backend/internal/core/ports/services"
)

// notificationService implements the NotificationSvcFacade interface
type notificationService struct {
	BaseService
	notifRepo portsrepo.NotificationRepositoryFacade
	roleRepo  portsrepo.RoleAssignmentReader
	hrRepo    portsrepo.EmployeeReader
	userRepo  portsrepo.UserReader
	enqueuer  portssvc.EmailEnqueuerSvc
}

// NewNotificationService creates a new notification service with the provided
// dependencies. enqueuer may be nil, in which case emails are skipped.
func NewNotificationService(
	notifRepo portsrepo.NotificationRepositoryFacade,
	roleRepo portsrepo.RoleAssignmentReader,
	hrRepo portsrepo.EmployeeReader,
	userRepo portsrepo.UserReader,
	enqueuer portssvc.EmailEnqueuerSvc,
) portssvc.NotificationSvcFacade {
	return &notificationService{
		notifRepo: notifRepo,
		roleRepo:  roleRepo,
		hrRepo:    hrRepo,
		userRepo:  userRepo,
		enqueuer:  enqueuer,
	}
}

// Ensure notificationService implements the NotificationSvcFacade interface
var _ portssvc.NotificationSvcFacade = (*notificationService)(nil)

// eventPayload is the dispatch envelope the domain services publish. Subject
// is the employee the triggering record belongs to; actor is whoever caused
// the event. The actor is never notified about their own action.
type eventPayload struct {
	OrganizationID string `json:"organizationID"`
	ActorUserID    string `json:"actorUserID"`
	SubjectUserID  string `json:"subjectUserID,omitempty"`
	ReferenceID    string `json:"referenceID"`
	Title          string `json:"title"`
	Body           string `json:"body"`
	Approved       *bool  `json:"approved,omitempty"`
}

// Dispatch resolves recipients for the event, writes one notification row per
// recipient, then best-effort enqueues an email to each. Notification rows
// are the success criterion: an enqueue failure is logged and swallowed.
func (s *notificationService) Dispatch(ctx context.Context, eventType domain.EventType, payload json.RawMessage) (*domain.DispatchResult, error) {
	if !domain.KnownEventType(eventType) {
		return nil, apperrors.NewValidationFailedError("unknown event type: "+string(eventType), nil)
	}

	var p eventPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, apperrors.NewValidationFailedError("malformed event payload", err)
	}
	if p.OrganizationID == "" {
		return nil, apperrors.NewValidationFailedError("event payload missing organizationID", nil)
	}

	recipients, err := s.resolveRecipients(ctx, eventType, p)
	if err != nil {
		s.LogError(ctx, err, "Failed to resolve notification recipients",
			slog.String("event_type", string(eventType)),
			slog.String("organization_id", p.OrganizationID))
		return nil, err
	}
	if len(recipients) == 0 {
		s.LogDebug(ctx, "Event has no recipients",
			slog.String("event_type", string(eventType)),
			slog.String("organization_id", p.OrganizationID))
		return &domain.DispatchResult{}, nil
	}

	now := time.Now()
	notifications := make([]domain.Notification, 0, len(recipients))
	for _, recipientID := range recipients {
		notifications = append(notifications, domain.Notification{
			NotificationID:  uuid.NewString(),
			OrganizationID:  p.OrganizationID,
			RecipientUserID: recipientID,
			EventType:       eventType,
			Title:           p.Title,
			Body:            p.Body,
			ReferenceID:     p.ReferenceID,
			IsRead:          false,
			CreatedAt:       now,
		})
	}

	if err := s.notifRepo.SaveNotifications(ctx, notifications); err != nil {
		s.LogError(ctx, err, "Failed to save notifications",
			slog.String("event_type", string(eventType)),
			slog.String("organization_id", p.OrganizationID))
		return nil, err
	}

	emailed := s.enqueueEmails(ctx, recipients, p)

	s.LogInfo(ctx, "Event dispatched",
		slog.String("event_type", string(eventType)),
		slog.String("organization_id", p.OrganizationID),
		slog.Int("notified", len(recipients)),
		slog.Int("emailed", emailed))
	return &domain.DispatchResult{Notified: len(recipients), Emailed: emailed}, nil
}

// resolveRecipients maps an event to the user IDs who should hear about it.
func (s *notificationService) resolveRecipients(ctx context.Context, eventType domain.EventType, p eventPayload) ([]string, error) {
	var recipients []string
	var err error

	switch eventType {
	case domain.EventLeaveRequestCreated,
		domain.EventCorrectionRequestCreated,
		domain.EventReimbursementSubmitted:
		// Route to the subject's manager; managers-at-large when no manager
		// is on file so the request is never silently orphaned.
		recipients, err = s.managerOrRoleHolders(ctx, p.OrganizationID, p.SubjectUserID, domain.RoleManager)

	case domain.EventLeaveRequestDecided,
		domain.EventCorrectionRequestDecided,
		domain.EventReimbursementFinanceDecided:
		if p.SubjectUserID != "" {
			recipients = []string{p.SubjectUserID}
		}

	case domain.EventReimbursementManagerDecided:
		// The employee always hears the outcome; on approval finance picks
		// up the payout stage.
		if p.SubjectUserID != "" {
			recipients = []string{p.SubjectUserID}
		}
		if p.Approved != nil && *p.Approved {
			financeUsers, ferr := s.roleRepo.ListUserIDsByRole(ctx, p.OrganizationID, domain.RoleFinance)
			if ferr != nil {
				return nil, ferr
			}
			recipients = append(recipients, financeUsers...)
		}

	case domain.EventMemoPublished:
		recipients, err = s.roleRepo.ListMemberUserIDs(ctx, p.OrganizationID)
	}
	if err != nil {
		return nil, err
	}

	return dedupeExcluding(recipients, p.ActorUserID), nil
}

// managerOrRoleHolders returns the subject's manager, falling back to every
// holder of fallbackRole in the organization.
func (s *notificationService) managerOrRoleHolders(ctx context.Context, organizationID, subjectUserID string, fallbackRole domain.Role) ([]string, error) {
	if subjectUserID != "" {
		employee, err := s.hrRepo.FindEmployee(ctx, subjectUserID, organizationID)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		if employee != nil && employee.ManagerID != nil && *employee.ManagerID != "" {
			return []string{*employee.ManagerID}, nil
		}
	}
	return s.roleRepo.ListUserIDsByRole(ctx, organizationID, fallbackRole)
}

// enqueueEmails queues a delivery per recipient. Failures are logged only.
func (s *notificationService) enqueueEmails(ctx context.Context, recipients []string, p eventPayload) int {
	if s.enqueuer == nil {
		return 0
	}
	emailed := 0
	for _, recipientID := range recipients {
		user, err := s.userRepo.FindUserByID(ctx, recipientID)
		if err != nil {
			s.LogDebug(ctx, "Skipping email for unknown recipient",
				slog.String("recipient_user_id", recipientID))
			continue
		}
		if user.Email == "" {
			continue
		}
		if err := s.enqueuer.EnqueueEmail(ctx, user.Email, p.Title, p.Body); err != nil {
			s.LogError(ctx, err, "Failed to enqueue notification email",
				slog.String("recipient_user_id", recipientID))
			continue
		}
		emailed++
	}
	return emailed
}

func dedupeExcluding(userIDs []string, exclude string) []string {
	seen := make(map[string]bool, len(userIDs))
	var out []string
	for _, id := range userIDs {
		if id == "" || id == exclude || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// ListMyNotifications retrieves the caller's notifications, newest first.
func (s *notificationService) ListMyNotifications(ctx context.Context, userID, organizationID string, limit, offset int) ([]domain.Notification, error) {
	notifications, err := s.notifRepo.ListNotificationsByRecipient(ctx, userID, organizationID, limit, offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list notifications",
			slog.String("user_id", userID),
			slog.String("organization_id", organizationID))
		return nil, err
	}
	if notifications == nil {
		return []domain.Notification{}, nil
	}
	return notifications, nil
}

// CountMyUnread returns the caller's unread notification count.
func (s *notificationService) CountMyUnread(ctx context.Context, userID, organizationID string) (int, error) {
	count, err := s.notifRepo.CountUnread(ctx, userID, organizationID)
	if err != nil {
		s.LogError(ctx, err, "Failed to count unread notifications",
			slog.String("user_id", userID),
			slog.String("organization_id", organizationID))
		return 0, err
	}
	return count, nil
}

// MarkRead marks one of the caller's notifications read.
func (s *notificationService) MarkRead(ctx context.Context, userID, notificationID string) error {
	if err := s.notifRepo.MarkRead(ctx, notificationID, userID); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to mark notification read",
				slog.String("notification_id", notificationID))
		}
		return err
	}
	return nil
}

// MarkAllRead marks all the caller's notifications in an organization read.
func (s *notificationService) MarkAllRead(ctx context.Context, userID, organizationID string) error {
	if err := s.notifRepo.MarkAllRead(ctx, userID, organizationID); err != nil {
		s.LogError(ctx, err, "Failed to mark all notifications read",
			slog.String("user_id", userID),
			slog.String("organization_id", organizationID))
		return err
	}
	return nil
}
