package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/opsuite/opsuite_backend/internal/core/policy"
	portssvc "github.com/opsuite/opsuite_backend/internal/core/ports/services"
	"github.com/opsuite/opsuite_backend/internal/dto"
	"github.com/opsuite/opsuite_backend/internal/middleware"
)

// notificationHandler handles the recipient-facing notification routes.
type notificationHandler struct {
	notifService portssvc.NotificationSvcFacade
}

// registerNotificationRoutes registers the notification inbox routes plus the
// admin-gated dispatch entrypoint.
func registerNotificationRoutes(rg *gin.RouterGroup, notifService portssvc.NotificationSvcFacade, authorizer portssvc.AuthorizerSvc) {
	h := &notificationHandler{notifService: notifService}

	notifs := rg.Group("/notifications")
	{
		notifs.GET("", h.ListMyNotifications)
		notifs.GET("/unread-count", h.CountUnread)
		notifs.POST("/:notificationID/read", h.MarkRead)
		notifs.POST("/read-all", h.MarkAllRead)
		notifs.POST("/dispatch", roleGuard(authorizer, policy.OpOrgManage), h.Dispatch)
	}
}

// Dispatch godoc
// @Summary Dispatch a notification event
// @Description Resolves recipients for the event, writes one notification row each and enqueues best-effort emails. Re-invoking for the same event re-notifies.
// @Tags notifications
// @Accept json
// @Produce json
// @Param organizationID path string true "Organization ID"
// @Param request body dto.DispatchEventRequest true "Event type and payload"
// @Success 200 {object} dto.DispatchEventResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/organizations/{organizationID}/notifications/dispatch [post]
func (h *notificationHandler) Dispatch(c *gin.Context) {
	var req dto.DispatchEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	// The payload's organization is forced to the route's scope so a tenant
	// admin cannot dispatch into another tenant.
	var payload map[string]any
	if err := json.Unmarshal(req.Payload, &payload); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid event payload"})
		return
	}
	payload["organizationID"] = c.Param(middleware.OrgIDParam)
	scoped, err := json.Marshal(payload)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid event payload"})
		return
	}

	result, err := h.notifService.Dispatch(c.Request.Context(), req.Type, scoped)
	if err != nil {
		respondError(c, err, "Failed to dispatch event")
		return
	}
	c.JSON(http.StatusOK, dto.DispatchEventResponse{Notified: result.Notified, Emailed: result.Emailed})
}

// ListMyNotifications godoc
// @Summary List my notifications
// @Description Returns the caller's notifications in this organization, newest first, along with the unread count.
// @Tags notifications
// @Produce json
// @Param organizationID path string true "Organization ID"
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {object} dto.ListNotificationsResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/organizations/{organizationID}/notifications [get]
func (h *notificationHandler) ListMyNotifications(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var params dto.ListNotificationsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters"})
		return
	}

	orgID := c.Param(middleware.OrgIDParam)
	notifications, err := h.notifService.ListMyNotifications(c.Request.Context(), userID, orgID, params.Limit, params.Offset)
	if err != nil {
		respondError(c, err, "Failed to list notifications")
		return
	}

	unread, err := h.notifService.CountMyUnread(c.Request.Context(), userID, orgID)
	if err != nil {
		respondError(c, err, "Failed to count unread notifications")
		return
	}
	c.JSON(http.StatusOK, dto.ToListNotificationsResponse(notifications, unread))
}

// CountUnread godoc
// @Summary Count unread notifications
// @Description Returns the caller's unread notification count for badge rendering.
// @Tags notifications
// @Produce json
// @Param organizationID path string true "Organization ID"
// @Success 200 {object} map[string]int
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/organizations/{organizationID}/notifications/unread-count [get]
func (h *notificationHandler) CountUnread(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	unread, err := h.notifService.CountMyUnread(c.Request.Context(), userID, c.Param(middleware.OrgIDParam))
	if err != nil {
		respondError(c, err, "Failed to count unread notifications")
		return
	}
	c.JSON(http.StatusOK, gin.H{"unreadCount": unread})
}

// MarkRead godoc
// @Summary Mark a notification read
// @Description Marks one of the caller's notifications as read. Marking another user's notification fails with 404.
// @Tags notifications
// @Produce json
// @Param organizationID path string true "Organization ID"
// @Param notificationID path string true "Notification ID"
// @Success 204 "No Content"
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/organizations/{organizationID}/notifications/{notificationID}/read [post]
func (h *notificationHandler) MarkRead(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	if err := h.notifService.MarkRead(c.Request.Context(), userID, c.Param("notificationID")); err != nil {
		respondError(c, err, "Failed to mark notification read")
		return
	}
	c.Status(http.StatusNoContent)
}

// MarkAllRead godoc
// @Summary Mark all notifications read
// @Description Marks all of the caller's notifications in this organization as read.
// @Tags notifications
// @Produce json
// @Param organizationID path string true "Organization ID"
// @Success 204 "No Content"
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/organizations/{organizationID}/notifications/read-all [post]
func (h *notificationHandler) MarkAllRead(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	if err := h.notifService.MarkAllRead(c.Request.Context(), userID, c.Param(middleware.OrgIDParam)); err != nil {
		respondError(c, err, "Failed to mark notifications read")
		return
	}
	c.Status(http.StatusNoContent)
}
