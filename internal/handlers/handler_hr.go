package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/opsuite/opsuite_backend/internal/core/domain"
	"github.com/opsuite/opsuite_backend/internal/core/policy"
	portssvc "github.com/opsuite/opsuite_backend/internal/core/ports/services"
	"github.com/opsuite/opsuite_backend/internal/dto"
	"github.com/opsuite/opsuite_backend/internal/middleware"
)

// hrHandler handles the people-operations routes: employee profiles, leave,
// reimbursements and memos.
type hrHandler struct {
	hrService portssvc.HRSvcFacade
}

func newHRHandler(hrService portssvc.HRSvcFacade) *hrHandler {
	return &hrHandler{hrService: hrService}
}

// registerHRRoutes registers the HR module routes. Route-level guards carry
// the coarse role check; the service re-checks with the same policy table.
func registerHRRoutes(rg *gin.RouterGroup, hrService portssvc.HRSvcFacade, authorizer portssvc.AuthorizerSvc) {
	h := newHRHandler(hrService)

	employees := rg.Group("/employees")
	{
		employees.PUT("", roleGuard(authorizer, policy.OpEmployeesManage), h.UpsertEmployee)
		employees.GET("", roleGuard(authorizer, policy.OpEmployeesRead), h.ListEmployees)
		employees.GET("/:userID", h.GetEmployee)
	}

	leave := rg.Group("/leave-requests")
	{
		leave.POST("", roleGuard(authorizer, policy.OpLeaveSubmit), h.SubmitLeave)
		leave.GET("", h.ListLeaveRequests)
		leave.POST("/:leaveRequestID/decide", roleGuard(authorizer, policy.OpLeaveDecide), h.DecideLeave)
	}

	reimbursements := rg.Group("/reimbursements")
	{
		reimbursements.POST("", roleGuard(authorizer, policy.OpReimburseSubmit), h.SubmitReimbursement)
		reimbursements.GET("", h.ListReimbursements)
		reimbursements.POST("/:reimbursementID/manager-decision", roleGuard(authorizer, policy.OpReimburseDecide), h.DecideReimbursementAsManager)
		reimbursements.POST("/:reimbursementID/finance-decision", roleGuard(authorizer, policy.OpReimbursePay), h.DecideReimbursementAsFinance)
	}

	memos := rg.Group("/memos")
	{
		memos.POST("", roleGuard(authorizer, policy.OpMemoPublish), h.PublishMemo)
		memos.GET("", h.ListMemos)
	}
}

// UpsertEmployee godoc
// @Summary Create or update an employee profile
// @Description Creates or updates the HR profile for a member, including the manager used for leave routing. HR or ADMIN only; an employee cannot be their own manager.
// @Tags hr
// @Accept json
// @Produce json
// @Param organizationID path string true "Organization ID"
// @Param employee body dto.UpsertEmployeeRequest true "Employee profile"
// @Success 200 {object} dto.EmployeeResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/organizations/{organizationID}/employees [put]
func (h *hrHandler) UpsertEmployee(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var req dto.UpsertEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	employee, err := h.hrService.UpsertEmployee(c.Request.Context(), userID, domain.Employee{
		UserID:         req.UserID,
		OrganizationID: c.Param(middleware.OrgIDParam),
		ManagerID:      req.ManagerID,
		Department:     req.Department,
		Designation:    req.Designation,
	})
	if err != nil {
		respondError(c, err, "Failed to save employee profile")
		return
	}
	c.JSON(http.StatusOK, dto.ToEmployeeResponse(employee))
}

// GetEmployee godoc
// @Summary Get an employee profile
// @Description Returns one employee profile. Members can always read their own; reading others requires MANAGER or up.
// @Tags hr
// @Produce json
// @Param organizationID path string true "Organization ID"
// @Param userID path string true "User ID"
// @Success 200 {object} dto.EmployeeResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/organizations/{organizationID}/employees/{userID} [get]
func (h *hrHandler) GetEmployee(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	employee, err := h.hrService.GetEmployee(c.Request.Context(), userID, c.Param(middleware.OrgIDParam), c.Param("userID"))
	if err != nil {
		respondError(c, err, "Failed to retrieve employee profile")
		return
	}
	c.JSON(http.StatusOK, dto.ToEmployeeResponse(employee))
}

// ListEmployees godoc
// @Summary List employee profiles
// @Description Lists the organization's employee profiles. MANAGER and up.
// @Tags hr
// @Produce json
// @Param organizationID path string true "Organization ID"
// @Success 200 {object} dto.ListEmployeesResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/organizations/{organizationID}/employees [get]
func (h *hrHandler) ListEmployees(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	employees, err := h.hrService.ListEmployees(c.Request.Context(), userID, c.Param(middleware.OrgIDParam))
	if err != nil {
		respondError(c, err, "Failed to list employees")
		return
	}
	c.JSON(http.StatusOK, dto.ToListEmployeesResponse(employees))
}

// SubmitLeave godoc
// @Summary Submit a leave request
// @Description Files a leave application and notifies the employee's manager, falling back to the organization's MANAGER role holders when no manager is assigned.
// @Tags hr
// @Accept json
// @Produce json
// @Param organizationID path string true "Organization ID"
// @Param leave body dto.SubmitLeaveRequest true "Leave application"
// @Success 201 {object} dto.LeaveRequestResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/organizations/{organizationID}/leave-requests [post]
func (h *hrHandler) SubmitLeave(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var req dto.SubmitLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	leave, err := h.hrService.SubmitLeave(c.Request.Context(), userID, c.Param(middleware.OrgIDParam), req.Kind, req.FromDate, req.ToDate, req.Reason)
	if err != nil {
		respondError(c, err, "Failed to submit leave request")
		return
	}
	c.JSON(http.StatusCreated, dto.ToLeaveRequestResponse(leave))
}

// DecideLeave godoc
// @Summary Decide a leave request
// @Description Approves or rejects a pending leave request and notifies the employee. Deciders cannot decide their own requests.
// @Tags hr
// @Accept json
// @Produce json
// @Param organizationID path string true "Organization ID"
// @Param leaveRequestID path string true "Leave request ID"
// @Param decision body dto.DecideRequest true "Decision"
// @Success 200 {object} dto.LeaveRequestResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Already decided"
// @Security BearerAuth
// @Router /api/v1/organizations/{organizationID}/leave-requests/{leaveRequestID}/decide [post]
func (h *hrHandler) DecideLeave(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var req dto.DecideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	leave, err := h.hrService.DecideLeave(c.Request.Context(), userID, c.Param("leaveRequestID"), *req.Approve)
	if err != nil {
		respondError(c, err, "Failed to decide leave request")
		return
	}
	c.JSON(http.StatusOK, dto.ToLeaveRequestResponse(leave))
}

// ListLeaveRequests godoc
// @Summary List leave requests
// @Description Lists leave requests. With mine=true returns only the caller's own; otherwise requires the decide permission and returns the whole organization's.
// @Tags hr
// @Produce json
// @Param organizationID path string true "Organization ID"
// @Param mine query bool false "Only my own requests"
// @Success 200 {object} dto.ListLeaveRequestsResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/organizations/{organizationID}/leave-requests [get]
func (h *hrHandler) ListLeaveRequests(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	mineOnly := c.Query("mine") == "true"
	requests, err := h.hrService.ListLeaveRequests(c.Request.Context(), userID, c.Param(middleware.OrgIDParam), mineOnly)
	if err != nil {
		respondError(c, err, "Failed to list leave requests")
		return
	}
	c.JSON(http.StatusOK, dto.ToListLeaveRequestsResponse(requests))
}

// SubmitReimbursement godoc
// @Summary Submit a reimbursement claim
// @Description Files an expense claim for the two-stage approval flow: manager decision, then finance payout.
// @Tags hr
// @Accept json
// @Produce json
// @Param organizationID path string true "Organization ID"
// @Param claim body dto.SubmitReimbursementRequest true "Expense claim"
// @Success 201 {object} dto.ReimbursementResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/organizations/{organizationID}/reimbursements [post]
func (h *hrHandler) SubmitReimbursement(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var req dto.SubmitReimbursementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	claim, err := h.hrService.SubmitReimbursement(c.Request.Context(), userID, c.Param(middleware.OrgIDParam), req.Amount, req.CurrencyCode, req.Description)
	if err != nil {
		respondError(c, err, "Failed to submit reimbursement")
		return
	}
	c.JSON(http.StatusCreated, dto.ToReimbursementResponse(claim))
}

// DecideReimbursementAsManager godoc
// @Summary Manager decision on a reimbursement
// @Description Approves or rejects a submitted claim as the manager stage. Approval notifies the claimant and FINANCE role holders for payout.
// @Tags hr
// @Accept json
// @Produce json
// @Param organizationID path string true "Organization ID"
// @Param reimbursementID path string true "Reimbursement ID"
// @Param decision body dto.DecideRequest true "Decision"
// @Success 200 {object} dto.ReimbursementResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Not awaiting a manager decision"
// @Security BearerAuth
// @Router /api/v1/organizations/{organizationID}/reimbursements/{reimbursementID}/manager-decision [post]
func (h *hrHandler) DecideReimbursementAsManager(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var req dto.DecideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	claim, err := h.hrService.DecideReimbursementAsManager(c.Request.Context(), userID, c.Param("reimbursementID"), *req.Approve)
	if err != nil {
		respondError(c, err, "Failed to decide reimbursement")
		return
	}
	c.JSON(http.StatusOK, dto.ToReimbursementResponse(claim))
}

// DecideReimbursementAsFinance godoc
// @Summary Finance decision on a reimbursement
// @Description Pays out or rejects a manager-approved claim. FINANCE role and up.
// @Tags hr
// @Accept json
// @Produce json
// @Param organizationID path string true "Organization ID"
// @Param reimbursementID path string true "Reimbursement ID"
// @Param decision body dto.DecideRequest true "Decision"
// @Success 200 {object} dto.ReimbursementResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Not awaiting a finance decision"
// @Security BearerAuth
// @Router /api/v1/organizations/{organizationID}/reimbursements/{reimbursementID}/finance-decision [post]
func (h *hrHandler) DecideReimbursementAsFinance(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var req dto.DecideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	claim, err := h.hrService.DecideReimbursementAsFinance(c.Request.Context(), userID, c.Param("reimbursementID"), *req.Approve)
	if err != nil {
		respondError(c, err, "Failed to decide reimbursement")
		return
	}
	c.JSON(http.StatusOK, dto.ToReimbursementResponse(claim))
}

// ListReimbursements godoc
// @Summary List reimbursements
// @Description Lists expense claims. With mine=true returns only the caller's own; otherwise requires the decide permission and returns the whole organization's.
// @Tags hr
// @Produce json
// @Param organizationID path string true "Organization ID"
// @Param mine query bool false "Only my own claims"
// @Success 200 {object} dto.ListReimbursementsResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/organizations/{organizationID}/reimbursements [get]
func (h *hrHandler) ListReimbursements(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	mineOnly := c.Query("mine") == "true"
	claims, err := h.hrService.ListReimbursements(c.Request.Context(), userID, c.Param(middleware.OrgIDParam), mineOnly)
	if err != nil {
		respondError(c, err, "Failed to list reimbursements")
		return
	}
	c.JSON(http.StatusOK, dto.ToListReimbursementsResponse(claims))
}

// PublishMemo godoc
// @Summary Publish a memo
// @Description Publishes an organization-wide announcement and notifies every member. HR or ADMIN only.
// @Tags hr
// @Accept json
// @Produce json
// @Param organizationID path string true "Organization ID"
// @Param memo body dto.PublishMemoRequest true "Memo"
// @Success 201 {object} dto.MemoResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/organizations/{organizationID}/memos [post]
func (h *hrHandler) PublishMemo(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var req dto.PublishMemoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	memo, err := h.hrService.PublishMemo(c.Request.Context(), userID, c.Param(middleware.OrgIDParam), req.Title, req.Body)
	if err != nil {
		respondError(c, err, "Failed to publish memo")
		return
	}
	c.JSON(http.StatusCreated, dto.ToMemoResponse(memo))
}

// ListMemos godoc
// @Summary List memos
// @Description Lists the organization's memos, newest first.
// @Tags hr
// @Produce json
// @Param organizationID path string true "Organization ID"
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {object} dto.ListMemosResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/organizations/{organizationID}/memos [get]
func (h *hrHandler) ListMemos(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var params dto.ListMemosParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters"})
		return
	}

	memos, err := h.hrService.ListMemos(c.Request.Context(), userID, c.Param(middleware.OrgIDParam), params.Limit, params.Offset)
	if err != nil {
		respondError(c, err, "Failed to list memos")
		return
	}
	c.JSON(http.StatusOK, dto.ToListMemosResponse(memos))
}
