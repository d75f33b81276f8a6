package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/opsuite/opsuite_backend/internal/core/domain"
	portssvc "github.com/opsuite/opsuite_backend/internal/core/ports/services"
	"github.com/opsuite/opsuite_backend/internal/dto"
	"github.com/opsuite/opsuite_backend/internal/middleware"
)

// subscriptionHandler handles key redemption and the redemption audit trail.
type subscriptionHandler struct {
	subService portssvc.SubscriptionSvcFacade
}

func newSubscriptionHandler(subService portssvc.SubscriptionSvcFacade) *subscriptionHandler {
	return &subscriptionHandler{subService: subService}
}

// registerSubscriptionRoutes registers the tenant-facing subscription routes.
// Both are exempt from the subscription guard so a PENDING_ACTIVATION
// organization can activate itself; the service enforces membership instead.
func registerSubscriptionRoutes(rg *gin.RouterGroup, subService portssvc.SubscriptionSvcFacade) {
	h := newSubscriptionHandler(subService)

	sub := rg.Group("/subscription")
	{
		sub.POST("/redeem", h.RedeemKey)
		sub.GET("/redemptions", h.ListRedemptions)
	}
}

// platformKeyHandler handles platform-admin key management.
type platformKeyHandler struct {
	subService portssvc.SubscriptionSvcFacade
}

// registerPlatformKeyRoutes registers the key minting and management routes.
func registerPlatformKeyRoutes(rg *gin.RouterGroup, subService portssvc.SubscriptionSvcFacade) {
	h := &platformKeyHandler{subService: subService}

	keys := rg.Group("/keys")
	{
		keys.POST("", h.CreateKey)
		keys.GET("", h.ListKeys)
		keys.POST("/:keyID/revoke", h.RevokeKey)
	}
}

// RedeemKey godoc
// @Summary Redeem a subscription key
// @Description Validates the passkey and atomically activates the organization, moving it from PENDING_ACTIVATION to ONBOARDING and enabling the key's modules.
// @Tags subscription
// @Accept json
// @Produce json
// @Param organizationID path string true "Organization ID"
// @Param redeem body dto.RedeemKeyRequest true "Passkey"
// @Success 200 {object} dto.RedeemKeyResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse "KEY_NOT_FOUND, KEY_REVOKED, KEY_EXPIRED, KEY_EXHAUSTED or ORG_NOT_ELIGIBLE"
// @Security BearerAuth
// @Router /api/v1/organizations/{organizationID}/subscription/redeem [post]
func (h *subscriptionHandler) RedeemKey(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var req dto.RedeemKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	orgID := c.Param(middleware.OrgIDParam)
	key, err := h.subService.RedeemKey(c.Request.Context(), req.Key, orgID, userID)
	if err != nil {
		respondError(c, err, "Failed to redeem key")
		return
	}

	c.JSON(http.StatusOK, dto.RedeemKeyResponse{
		OrganizationID: orgID,
		Status:         domain.OrgStatusOnboarding,
		EnabledModules: key.EnabledModules,
		PlanTier:       key.PlanTier,
	})
}

// ListRedemptions godoc
// @Summary List redemption history
// @Description Returns the organization's redemption audit trail, an append-only record of every key consumed.
// @Tags subscription
// @Produce json
// @Param organizationID path string true "Organization ID"
// @Success 200 {object} dto.ListRedemptionsResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/organizations/{organizationID}/subscription/redemptions [get]
func (h *subscriptionHandler) ListRedemptions(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	redemptions, err := h.subService.ListRedemptions(c.Request.Context(), c.Param(middleware.OrgIDParam), userID)
	if err != nil {
		respondError(c, err, "Failed to list redemptions")
		return
	}
	c.JSON(http.StatusOK, dto.ToListRedemptionsResponse(redemptions))
}

// CreateKey godoc
// @Summary Mint a subscription key
// @Description Creates a key for a plan tier and module set. The plaintext passkey is returned exactly once and never stored.
// @Tags platform
// @Accept json
// @Produce json
// @Param key body dto.CreateKeyRequest true "Key parameters"
// @Success 201 {object} dto.CreateKeyResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/platform/keys [post]
func (h *platformKeyHandler) CreateKey(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var req dto.CreateKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	key, passkey, err := h.subService.CreateKey(c.Request.Context(), userID, req.PlanTier, req.MaxUses, req.ExpiresAt, req.Modules)
	if err != nil {
		respondError(c, err, "Failed to create key")
		return
	}

	c.JSON(http.StatusCreated, dto.CreateKeyResponse{
		Key:     dto.ToSubscriptionKeyResponse(key),
		Passkey: passkey,
	})
}

// ListKeys godoc
// @Summary List subscription keys
// @Description Returns all keys, newest first. Hashes never leave the server.
// @Tags platform
// @Produce json
// @Param limit query int false "Page size" default(50)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {object} dto.ListKeysResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/platform/keys [get]
func (h *platformKeyHandler) ListKeys(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var params dto.ListKeysParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters"})
		return
	}

	keys, err := h.subService.ListKeys(c.Request.Context(), userID, params.Limit, params.Offset)
	if err != nil {
		respondError(c, err, "Failed to list keys")
		return
	}
	c.JSON(http.StatusOK, dto.ToListKeysResponse(keys))
}

// RevokeKey godoc
// @Summary Revoke a subscription key
// @Description Marks a key REVOKED. Revocation is permanent and does not affect organizations that already redeemed the key.
// @Tags platform
// @Produce json
// @Param keyID path string true "Key ID"
// @Success 204 "No Content"
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/platform/keys/{keyID}/revoke [post]
func (h *platformKeyHandler) RevokeKey(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	if err := h.subService.RevokeKey(c.Request.Context(), userID, c.Param("keyID")); err != nil {
		respondError(c, err, "Failed to revoke key")
		return
	}
	c.Status(http.StatusNoContent)
}
