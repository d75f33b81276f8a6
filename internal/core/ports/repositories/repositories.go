package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	OrganizationRepo OrganizationRepositoryFacade
	OnboardingRepo   OnboardingRepository
	SubscriptionRepo SubscriptionKeyRepositoryFacade
	RoleRepo         RoleRepositoryFacade
	NotificationRepo NotificationRepositoryFacade
	HRRepo           HRRepositoryFacade
	FinanceRepo      FinanceRepositoryFacade
	UserRepo         UserRepositoryFacade
}
