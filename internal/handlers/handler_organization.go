package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/opsuite/opsuite_backend/internal/core/ports/services"
	"github.com/opsuite/opsuite_backend/internal/dto"
	"github.com/opsuite/opsuite_backend/internal/middleware"
)

// organizationHandler handles HTTP requests related to organizations.
type organizationHandler struct {
	orgService portssvc.OrganizationSvcFacade
}

func newOrganizationHandler(orgService portssvc.OrganizationSvcFacade) *organizationHandler {
	return &organizationHandler{orgService: orgService}
}

// registerOrganizationRoutes registers the routes reachable before the
// subscription guard: creating an organization and listing one's own.
func registerOrganizationRoutes(rg *gin.RouterGroup, orgService portssvc.OrganizationSvcFacade) {
	h := newOrganizationHandler(orgService)

	orgs := rg.Group("/organizations")
	{
		orgs.POST("", h.CreateOrganization)
		orgs.GET("", h.ListMyOrganizations)
	}
}

// registerOrganizationScopedRoutes registers the organization-scoped reads
// that sit behind the subscription guard.
func registerOrganizationScopedRoutes(rg *gin.RouterGroup, orgService portssvc.OrganizationSvcFacade) {
	h := newOrganizationHandler(orgService)
	rg.GET("", h.GetOrganization)
}

// registerPlatformOrgRoutes registers the platform-admin lifecycle actions.
func registerPlatformOrgRoutes(rg *gin.RouterGroup, orgService portssvc.OrganizationSvcFacade) {
	h := newOrganizationHandler(orgService)

	orgs := rg.Group("/organizations")
	{
		orgs.POST("/:organizationID/suspend", h.SuspendOrganization)
		orgs.POST("/:organizationID/unsuspend", h.UnsuspendOrganization)
	}
}

// CreateOrganization godoc
// @Summary Create an organization
// @Description Creates an organization in PENDING_ACTIVATION and assigns the creator the ADMIN role.
// @Tags organizations
// @Accept json
// @Produce json
// @Param organization body dto.CreateOrganizationRequest true "Organization to create"
// @Success 201 {object} dto.OrganizationResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/organizations [post]
func (h *organizationHandler) CreateOrganization(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var req dto.CreateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	org, err := h.orgService.CreateOrganization(c.Request.Context(), req.Name, userID)
	if err != nil {
		respondError(c, err, "Failed to create organization")
		return
	}
	c.JSON(http.StatusCreated, dto.ToOrganizationResponse(org))
}

// ListMyOrganizations godoc
// @Summary List my organizations
// @Description Returns the organizations the caller belongs to, with their lifecycle status.
// @Tags organizations
// @Produce json
// @Success 200 {object} dto.ListOrganizationsResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/organizations [get]
func (h *organizationHandler) ListMyOrganizations(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	orgs, err := h.orgService.ListMyOrganizations(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to list organizations")
		return
	}
	c.JSON(http.StatusOK, dto.ToListOrganizationsResponse(orgs))
}

// GetOrganization godoc
// @Summary Get an organization
// @Description Returns the organization's details. The caller must be a member or a platform admin.
// @Tags organizations
// @Produce json
// @Param organizationID path string true "Organization ID"
// @Success 200 {object} dto.OrganizationResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/organizations/{organizationID} [get]
func (h *organizationHandler) GetOrganization(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	org, err := h.orgService.GetOrganization(c.Request.Context(), c.Param(middleware.OrgIDParam), userID)
	if err != nil {
		respondError(c, err, "Failed to retrieve organization")
		return
	}
	c.JSON(http.StatusOK, dto.ToOrganizationResponse(org))
}

// SuspendOrganization godoc
// @Summary Suspend an organization
// @Description Moves the organization to SUSPENDED, locking its members out of organization-scoped routes. Platform admins only.
// @Tags platform
// @Produce json
// @Param organizationID path string true "Organization ID"
// @Success 204 "No Content"
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Invalid lifecycle transition"
// @Security BearerAuth
// @Router /api/v1/platform/organizations/{organizationID}/suspend [post]
func (h *organizationHandler) SuspendOrganization(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	if err := h.orgService.SuspendOrganization(c.Request.Context(), c.Param(middleware.OrgIDParam), userID); err != nil {
		respondError(c, err, "Failed to suspend organization")
		return
	}
	c.Status(http.StatusNoContent)
}

// UnsuspendOrganization godoc
// @Summary Unsuspend an organization
// @Description Restores a SUSPENDED organization to ACTIVE. Platform admins only.
// @Tags platform
// @Produce json
// @Param organizationID path string true "Organization ID"
// @Success 204 "No Content"
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Invalid lifecycle transition"
// @Security BearerAuth
// @Router /api/v1/platform/organizations/{organizationID}/unsuspend [post]
func (h *organizationHandler) UnsuspendOrganization(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	if err := h.orgService.UnsuspendOrganization(c.Request.Context(), c.Param(middleware.OrgIDParam), userID); err != nil {
		respondError(c, err, "Failed to unsuspend organization")
		return
	}
	c.Status(http.StatusNoContent)
}
