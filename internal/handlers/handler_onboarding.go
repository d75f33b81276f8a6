package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/opsuite/opsuite_backend/internal/core/domain"
	portssvc "github.com/opsuite/opsuite_backend/internal/core/ports/services"
	"github.com/opsuite/opsuite_backend/internal/dto"
	"github.com/opsuite/opsuite_backend/internal/middleware"
)

// onboardingHandler completes the guided setup for fresh tenants.
type onboardingHandler struct {
	onboardingService portssvc.OnboardingSvcFacade
	orgService        portssvc.OrganizationSvcFacade
}

// registerOnboardingRoutes registers the onboarding completion route. It is
// exempt from the subscription guard so ONBOARDING organizations can reach it.
func registerOnboardingRoutes(rg *gin.RouterGroup, onboardingService portssvc.OnboardingSvcFacade, orgService portssvc.OrganizationSvcFacade) {
	h := &onboardingHandler{onboardingService: onboardingService, orgService: orgService}
	rg.POST("/onboarding/complete", h.CompleteOnboarding)
}

// CompleteOnboarding godoc
// @Summary Complete onboarding
// @Description Seeds the organization's module defaults and transitions it to ACTIVE. Safe to call again: an already ACTIVE organization gets an empty appliedDefaults list.
// @Tags onboarding
// @Produce json
// @Param organizationID path string true "Organization ID"
// @Success 200 {object} dto.CompleteOnboardingResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Organization is not in ONBOARDING"
// @Security BearerAuth
// @Router /api/v1/organizations/{organizationID}/onboarding/complete [post]
func (h *onboardingHandler) CompleteOnboarding(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	orgID := c.Param(middleware.OrgIDParam)
	applied, err := h.onboardingService.CompleteOnboarding(c.Request.Context(), orgID, userID)
	if err != nil {
		respondError(c, err, "Failed to complete onboarding")
		return
	}

	c.JSON(http.StatusOK, dto.CompleteOnboardingResponse{
		OrganizationID:  orgID,
		Status:          string(domain.OrgStatusActive),
		AppliedDefaults: applied,
	})
}
