package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/opsuite/opsuite_backend/internal/core/policy"
	portssvc "github.com/opsuite/opsuite_backend/internal/core/ports/services"
	"github.com/opsuite/opsuite_backend/internal/dto"
	"github.com/opsuite/opsuite_backend/internal/middleware"
)

// financeHandler exposes the finance records seeded during onboarding.
type financeHandler struct {
	financeService portssvc.FinanceSvcFacade
}

// registerFinanceRoutes registers the finance module routes.
func registerFinanceRoutes(rg *gin.RouterGroup, financeService portssvc.FinanceSvcFacade, authorizer portssvc.AuthorizerSvc) {
	h := &financeHandler{financeService: financeService}

	finance := rg.Group("/finance")
	{
		finance.GET("/chart-of-accounts", roleGuard(authorizer, policy.OpChartOfAccountsRead), h.ListChartOfAccounts)
		finance.GET("/fiscal-year", roleGuard(authorizer, policy.OpFiscalYearRead), h.GetCurrentFiscalYear)
		finance.GET("/compliance", roleGuard(authorizer, policy.OpFiscalYearRead), h.GetComplianceSettings)
	}
}

// ListChartOfAccounts godoc
// @Summary List the chart of accounts
// @Description Returns the organization's ledger accounts, seeded from the default chart during onboarding. FINANCE role and up.
// @Tags finance
// @Produce json
// @Param organizationID path string true "Organization ID"
// @Success 200 {object} dto.ListChartOfAccountsResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/organizations/{organizationID}/finance/chart-of-accounts [get]
func (h *financeHandler) ListChartOfAccounts(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	accounts, err := h.financeService.ListChartOfAccounts(c.Request.Context(), userID, c.Param(middleware.OrgIDParam))
	if err != nil {
		respondError(c, err, "Failed to list chart of accounts")
		return
	}
	c.JSON(http.StatusOK, dto.ToListChartOfAccountsResponse(accounts))
}

// GetCurrentFiscalYear godoc
// @Summary Get the current fiscal year
// @Description Returns the fiscal year covering today, created during onboarding. FINANCE role and up.
// @Tags finance
// @Produce json
// @Param organizationID path string true "Organization ID"
// @Success 200 {object} dto.FiscalYearResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/organizations/{organizationID}/finance/fiscal-year [get]
func (h *financeHandler) GetCurrentFiscalYear(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	fy, err := h.financeService.GetCurrentFiscalYear(c.Request.Context(), userID, c.Param(middleware.OrgIDParam))
	if err != nil {
		respondError(c, err, "Failed to retrieve fiscal year")
		return
	}
	c.JSON(http.StatusOK, dto.ToFiscalYearResponse(fy))
}

// GetComplianceSettings godoc
// @Summary Get compliance settings
// @Description Returns the organization's compliance defaults seeded during onboarding. FINANCE role and up.
// @Tags finance
// @Produce json
// @Param organizationID path string true "Organization ID"
// @Success 200 {object} dto.ComplianceSettingsResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/organizations/{organizationID}/finance/compliance [get]
func (h *financeHandler) GetComplianceSettings(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	settings, err := h.financeService.GetComplianceSettings(c.Request.Context(), userID, c.Param(middleware.OrgIDParam))
	if err != nil {
		respondError(c, err, "Failed to retrieve compliance settings")
		return
	}
	c.JSON(http.StatusOK, dto.ToComplianceSettingsResponse(settings))
}
