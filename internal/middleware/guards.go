package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/opsuite/opsuite_backend/internal/apperrors"
	"github.com/opsuite/opsuite_backend/internal/core/domain"
	"github.com/opsuite/opsuite_backend/internal/core/policy"
	portsrepo "github.com/opsuite/opsuite_backend/internal/core/ports/repositories"
	portssvc "github.com/opsuite/opsuite_backend/internal/core/ports/services"
)

// OrgIDParam is the route parameter carrying the organization scope.
const OrgIDParam = "organizationID"

// subscriptionExemptSuffixes are the organization-scoped routes reachable
// before the tenant is ACTIVE. Everything needed to get a tenant from
// PENDING_ACTIVATION to ACTIVE must be on this list, or the tenant is locked
// out of its own activation.
var subscriptionExemptSuffixes = []string{
	"/subscription/redeem",
	"/subscription/redemptions",
	"/onboarding/complete",
	"/roles/me",
}

// SubscriptionGuard enforces the tenant lifecycle gate. It runs after
// AuthMiddleware and before any role guard: a tenant that is not ACTIVE is
// turned away with a redirect hint matching its state, regardless of the
// caller's role. Platform admins bypass the gate entirely.
func SubscriptionGuard(orgRepo portsrepo.OrganizationReader, userRepo portsrepo.UserReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		fullPath := c.FullPath()
		for _, suffix := range subscriptionExemptSuffixes {
			if strings.HasSuffix(fullPath, suffix) {
				c.Next()
				return
			}
		}

		userID, ok := GetUserIDFromContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		user, err := userRepo.FindUserByID(c.Request.Context(), userID)
		if err == nil && user.IsPlatformAdmin {
			c.Next()
			return
		}

		orgID := c.Param(OrgIDParam)
		if orgID == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Organization ID required"})
			return
		}

		org, err := orgRepo.FindOrganizationByID(c.Request.Context(), orgID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Organization not found"})
				return
			}
			logger.Error("Subscription guard failed to load organization",
				slog.String("organization_id", orgID),
				slog.String("error", err.Error()))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		switch org.Status {
		case domain.OrgStatusActive:
			c.Next()
		case domain.OrgStatusPendingActivation:
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":      "Subscription activation required",
				"status":     org.Status,
				"redirectTo": "/subscription/activate",
			})
		case domain.OrgStatusOnboarding:
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":      "Onboarding incomplete",
				"status":     org.Status,
				"redirectTo": "/onboarding",
			})
		case domain.OrgStatusSuspended:
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":      "Organization is suspended",
				"status":     org.Status,
				"redirectTo": "/suspended",
			})
		default:
			logger.Error("Organization in unknown status",
				slog.String("organization_id", orgID),
				slog.String("status", string(org.Status)))
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Organization is not accessible"})
		}
	}
}

// RoleGuard enforces a minimum role for the wrapped routes. It always decides
// on the stored role: a previewed role from developer mode never opens a door
// here. The denial body lists the roles that would be accepted so the client
// can explain itself.
func RoleGuard(authorizer portssvc.AuthorizerSvc, op policy.Operation) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := GetUserIDFromContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		orgID := c.Param(OrgIDParam)
		if orgID == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Organization ID required"})
			return
		}

		if err := authorizer.Authorize(c.Request.Context(), userID, orgID, op); err != nil {
			if errors.Is(err, apperrors.ErrForbidden) {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
					"error":          "Insufficient role for this action",
					"permittedRoles": policy.PermittedRoles(op),
				})
				return
			}
			GetLoggerFromCtx(c.Request.Context()).Error("Role guard authorization failed",
				slog.String("organization_id", orgID),
				slog.String("operation", string(op)),
				slog.String("error", err.Error()))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		c.Next()
	}
}

// PlatformAdminGuard restricts the wrapped routes to platform operators.
func PlatformAdminGuard(userRepo portsrepo.UserReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := GetUserIDFromContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		user, err := userRepo.FindUserByID(c.Request.Context(), userID)
		if err != nil || !user.IsPlatformAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Platform admin access required"})
			return
		}

		c.Next()
	}
}
