package services

import (
	portsrepo "github.com/opsuite/opsuite_backend/internal/core/ports/repositories"
	portssvc "github.com/opsuite/opsuite_backend/internal/core/ports/services"
	"github.com/opsuite/opsuite_backend/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
// enqueuer may be nil when no mail queue is configured; notification emails
// are then skipped.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, enqueuer portssvc.EmailEnqueuerSvc) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Role service first: it is the authorizer everything else leans on.
	container.Role = NewRoleService(repos.RoleRepo, repos.UserRepo, cfg.RolePreviewEnabled)
	authorizer := container.Role.(portssvc.AuthorizerSvc)

	container.Organization = NewOrganizationService(repos.OrganizationRepo, repos.RoleRepo, repos.UserRepo)
	container.Subscription = NewSubscriptionService(repos.SubscriptionRepo, repos.RoleRepo, repos.UserRepo)
	container.Onboarding = NewOnboardingService(repos.OnboardingRepo, repos.RoleRepo, repos.UserRepo)
	container.Notification = NewNotificationService(repos.NotificationRepo, repos.RoleRepo, repos.HRRepo, repos.UserRepo, enqueuer)
	container.HR = NewHRService(repos.HRRepo, repos.UserRepo, authorizer, container.Notification)
	container.Finance = NewFinanceService(repos.FinanceRepo, authorizer)
	container.User = NewUserService(repos.UserRepo)

	container.Token = NewTokenService(cfg, container.User)
	container.GoogleOAuth = NewGoogleOAuthService(cfg)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.RoleSvcFacade         = (*roleService)(nil)
	_ portssvc.OrganizationSvcFacade = (*organizationService)(nil)
	_ portssvc.HRSvcFacade           = (*hrService)(nil)
)
