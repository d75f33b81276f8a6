package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/opsuite/opsuite_backend/internal/core/policy"
	portssvc "github.com/opsuite/opsuite_backend/internal/core/ports/services"
	"github.com/opsuite/opsuite_backend/internal/dto"
	"github.com/opsuite/opsuite_backend/internal/middleware"
)

// roleHandler handles role resolution, preview and assignment.
type roleHandler struct {
	roleService portssvc.RoleSvcFacade
}

func newRoleHandler(roleService portssvc.RoleSvcFacade) *roleHandler {
	return &roleHandler{roleService: roleService}
}

// registerRoleRoutes registers the role routes. /roles/me is exempt from the
// subscription guard so clients can render role context on every screen.
func registerRoleRoutes(rg *gin.RouterGroup, roleService portssvc.RoleSvcFacade, authorizer portssvc.AuthorizerSvc) {
	h := newRoleHandler(roleService)

	roles := rg.Group("/roles")
	{
		roles.GET("/me", h.GetMyRoles)
		roles.POST("/preview", h.SetPreviewRole)
		roles.DELETE("/preview", h.ClearPreviewRole)
		roles.GET("/assignments", roleGuard(authorizer, policy.OpRolesRead), h.ListAssignments)
		roles.POST("/assignments", roleGuard(authorizer, policy.OpRolesAssign), h.AssignRole)
		roles.DELETE("/assignments", roleGuard(authorizer, policy.OpRolesAssign), h.RevokeRole)
	}
}

// GetMyRoles godoc
// @Summary Resolve my roles
// @Description Returns the caller's available roles, actual highest-priority role and effective role for this organization. The effective role differs from the actual role only while a preview override is active.
// @Tags roles
// @Produce json
// @Param organizationID path string true "Organization ID"
// @Success 200 {object} dto.RoleResolutionResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/organizations/{organizationID}/roles/me [get]
func (h *roleHandler) GetMyRoles(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	resolution, err := h.roleService.ResolveRoles(c.Request.Context(), userID, c.Param(middleware.OrgIDParam))
	if err != nil {
		respondError(c, err, "Failed to resolve roles")
		return
	}
	c.JSON(http.StatusOK, dto.ToRoleResolutionResponse(resolution))
}

// SetPreviewRole godoc
// @Summary Preview a role
// @Description Sets a developer-mode role override for this session. The override changes only what the client renders; server-side authorization keeps using the stored role. Disabled outside development.
// @Tags roles
// @Accept json
// @Produce json
// @Param organizationID path string true "Organization ID"
// @Param preview body dto.SetActiveRoleRequest true "Role to preview"
// @Success 200 {object} dto.RoleResolutionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse "Role preview is disabled"
// @Security BearerAuth
// @Router /api/v1/organizations/{organizationID}/roles/preview [post]
func (h *roleHandler) SetPreviewRole(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var req dto.SetActiveRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	orgID := c.Param(middleware.OrgIDParam)
	if err := h.roleService.SetActiveRole(c.Request.Context(), userID, orgID, req.Role); err != nil {
		respondError(c, err, "Failed to set preview role")
		return
	}

	resolution, err := h.roleService.ResolveRoles(c.Request.Context(), userID, orgID)
	if err != nil {
		respondError(c, err, "Failed to resolve roles")
		return
	}
	c.JSON(http.StatusOK, dto.ToRoleResolutionResponse(resolution))
}

// ClearPreviewRole godoc
// @Summary Clear role preview
// @Description Drops any preview override for this session, restoring the actual role.
// @Tags roles
// @Produce json
// @Param organizationID path string true "Organization ID"
// @Success 204 "No Content"
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/organizations/{organizationID}/roles/preview [delete]
func (h *roleHandler) ClearPreviewRole(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	h.roleService.ClearActiveRole(c.Request.Context(), userID, c.Param(middleware.OrgIDParam))
	c.Status(http.StatusNoContent)
}

// ListAssignments godoc
// @Summary List role assignments
// @Description Lists every role assignment in the organization.
// @Tags roles
// @Produce json
// @Param organizationID path string true "Organization ID"
// @Success 200 {object} dto.ListRoleAssignmentsResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/organizations/{organizationID}/roles/assignments [get]
func (h *roleHandler) ListAssignments(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	assignments, err := h.roleService.ListOrganizationRoles(c.Request.Context(), userID, c.Param(middleware.OrgIDParam))
	if err != nil {
		respondError(c, err, "Failed to list role assignments")
		return
	}
	c.JSON(http.StatusOK, dto.ToListRoleAssignmentsResponse(assignments))
}

// AssignRole godoc
// @Summary Assign a role
// @Description Grants a role to a user in this organization. Admins only; admins cannot modify their own assignments.
// @Tags roles
// @Accept json
// @Produce json
// @Param organizationID path string true "Organization ID"
// @Param assignment body dto.AssignRoleRequest true "Assignment"
// @Success 204 "No Content"
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Target user not found"
// @Security BearerAuth
// @Router /api/v1/organizations/{organizationID}/roles/assignments [post]
func (h *roleHandler) AssignRole(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var req dto.AssignRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	if err := h.roleService.AssignRole(c.Request.Context(), userID, req.UserID, c.Param(middleware.OrgIDParam), req.Role); err != nil {
		respondError(c, err, "Failed to assign role")
		return
	}
	c.Status(http.StatusNoContent)
}

// RevokeRole godoc
// @Summary Revoke a role
// @Description Removes a role assignment. Admins only; admins cannot modify their own assignments, and the protected platform owner cannot be demoted.
// @Tags roles
// @Accept json
// @Produce json
// @Param organizationID path string true "Organization ID"
// @Param revocation body dto.RevokeRoleRequest true "Revocation"
// @Success 204 "No Content"
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/organizations/{organizationID}/roles/assignments [delete]
func (h *roleHandler) RevokeRole(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var req dto.RevokeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	if err := h.roleService.RevokeRole(c.Request.Context(), userID, req.UserID, c.Param(middleware.OrgIDParam), req.Role); err != nil {
		respondError(c, err, "Failed to revoke role")
		return
	}
	c.Status(http.StatusNoContent)
}
