package services

// ServiceContainer holds instances of all the application services.
// This is the main entry point for accessing service functionality and
// is used throughout the application, particularly in the handlers.
type ServiceContainer struct {
	Organization OrganizationSvcFacade
	Subscription SubscriptionSvcFacade
	Onboarding   OnboardingSvcFacade
	Role         RoleSvcFacade
	Notification NotificationSvcFacade
	HR           HRSvcFacade
	Finance      FinanceSvcFacade
	User         UserSvcFacade
	Token        TokenSvcFacade
	GoogleOAuth  GoogleOAuthSvcFacade
}
