package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/opsuite/opsuite_backend/cmd/docs"
	"github.com/opsuite/opsuite_backend/internal/core/domain"
	"github.com/opsuite/opsuite_backend/internal/core/policy"
	portsrepo "github.com/opsuite/opsuite_backend/internal/core/ports/repositories"
	portssvc "github.com/opsuite/opsuite_backend/internal/core/ports/services"
	"github.com/opsuite/opsuite_backend/internal/middleware"
	"github.com/opsuite/opsuite_backend/internal/platform/config"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	repos portsrepo.RepositoryProvider,
) {
	registerCustomValidators()

	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	// Register public authentication routes
	registerAuthRoutes(r, cfg, services)

	// Setup API v1 routes with the guard chain, passing service interfaces
	setupAPIV1Routes(r, cfg, services, repos)

	// Swagger routes (typically public or conditionally available)
	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the /api/v1 group. The guard order is fixed:
// authentication, then the subscription gate, then per-route role guards.
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	repos portsrepo.RepositoryProvider,
) {
	authorizer := services.Role.(portssvc.AuthorizerSvc)

	// Apply AuthMiddleware to the entire v1 group
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))

	registerUserRoutes(v1, services.User)
	registerPlatformRoutes(v1, services, repos)

	// Organization creation and listing sit outside the subscription gate:
	// a user must be able to create a tenant before it has a subscription.
	registerOrganizationRoutes(v1, services.Organization)

	// Everything scoped to one organization passes the subscription gate.
	orgScoped := v1.Group("/organizations/:organizationID",
		middleware.SubscriptionGuard(repos.OrganizationRepo, repos.UserRepo))
	{
		registerOrganizationScopedRoutes(orgScoped, services.Organization)
		registerSubscriptionRoutes(orgScoped, services.Subscription)
		registerOnboardingRoutes(orgScoped, services.Onboarding, services.Organization)
		registerRoleRoutes(orgScoped, services.Role, authorizer)
		registerNotificationRoutes(orgScoped, services.Notification, authorizer)
		registerHRRoutes(orgScoped, services.HR, authorizer)
		registerFinanceRoutes(orgScoped, services.Finance, authorizer)
	}
}

// registerPlatformRoutes wires the platform-operator surface: key minting and
// tenant suspension. These bypass the subscription gate by construction.
func registerPlatformRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer, repos portsrepo.RepositoryProvider) {
	platform := rg.Group("/platform", middleware.PlatformAdminGuard(repos.UserRepo))
	{
		registerPlatformKeyRoutes(platform, services.Subscription)
		registerPlatformOrgRoutes(platform, services.Organization)
	}
}

// registerCustomValidators adds domain-aware binding validators so request
// structs can declare `binding:"role"` on role fields.
func registerCustomValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
			return domain.ValidRole(domain.Role(fl.Field().String()))
		})
	}
}

// roleGuard is shorthand for the per-route role middleware.
func roleGuard(authorizer portssvc.AuthorizerSvc, op policy.Operation) gin.HandlerFunc {
	return middleware.RoleGuard(authorizer, op)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	// Swagger setup
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
