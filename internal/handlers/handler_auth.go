package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/gin-gonic/gin"
	"github.com/opsuite/opsuite_backend/internal/core/domain"
	portssvc "github.com/opsuite/opsuite_backend/internal/core/ports/services"
	"github.com/opsuite/opsuite_backend/internal/dto"
	"github.com/opsuite/opsuite_backend/internal/middleware"
	"github.com/opsuite/opsuite_backend/internal/platform/config"
	"github.com/opsuite/opsuite_backend/internal/utils"
)

// authHandler handles authentication related requests.
type authHandler struct {
	userService   portssvc.UserSvcFacade
	orgService    portssvc.OrganizationSvcFacade
	tokenService  portssvc.TokenSvcFacade
	googleService portssvc.GoogleOAuthSvcFacade
	cfg           *config.Config
}

// newAuthHandler creates a new authHandler.
func newAuthHandler(cfg *config.Config, services *portssvc.ServiceContainer) *authHandler {
	return &authHandler{
		userService:   services.User,
		orgService:    services.Organization,
		tokenService:  services.Token,
		googleService: services.GoogleOAuth,
		cfg:           cfg,
	}
}

// registerAuthRoutes sets up the routes for authentication.
func registerAuthRoutes(rg *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer) {
	h := newAuthHandler(cfg, services)

	// Define rate limit: 5 requests per minute
	rate, _ := limiter.NewRateFromFormatted("5-M")
	store := memory.NewStore()
	ipLimiter := limiter.New(store, rate)
	limitMiddleware := middleware.RateLimit(ipLimiter)

	auth := rg.Group("/auth")
	{
		auth.POST("/login", limitMiddleware, h.Login)
		auth.POST("/register", h.Register)
		auth.POST("/refresh", h.Refresh)
		auth.POST("/logout", h.Logout)
		auth.POST("/google", limitMiddleware, h.GoogleTokenLogin)
		auth.GET("/google/login", h.GoogleLoginRedirect)
		auth.GET("/callback", h.GoogleCallback)
	}
}

// issueSession generates the access and refresh tokens for a user, persists
// the refresh hash and sets the HTTP-only cookie.
func (h *authHandler) issueSession(c *gin.Context, user *domain.User) (dto.LoginResponse, error) {
	accessToken, expiresAt, err := h.tokenService.GenerateAccessToken(c.Request.Context(), user)
	if err != nil {
		return dto.LoginResponse{}, err
	}

	rawRefresh, refreshExpiry, err := h.tokenService.GenerateRefreshToken(c.Request.Context(), user)
	if err != nil {
		return dto.LoginResponse{}, err
	}
	if err := h.userService.UpdateRefreshToken(c.Request.Context(), user.UserID, utils.HashRefreshToken(rawRefresh), refreshExpiry); err != nil {
		return dto.LoginResponse{}, err
	}

	maxAge := int(time.Until(refreshExpiry).Seconds())
	c.SetCookie(h.cfg.RefreshTokenCookieName, rawRefresh, maxAge, h.cfg.RefreshTokenCookiePath, "", h.cfg.IsProduction, true)

	return dto.LoginResponse{
		Token:     accessToken,
		ExpiresAt: expiresAt.Format(time.RFC3339),
		User:      dto.ToUserResponse(user),
	}, nil
}

// Login godoc
// @Summary User login
// @Description Authenticates a user with email and password and returns a JWT token. The refresh token is set as an HTTP-only cookie.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Login Credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/login [post]
func (h *authHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	user, err := h.userService.AuthenticateUser(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid email or password"})
		return
	}

	resp, err := h.issueSession(c, user)
	if err != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Failed to issue session", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to generate token"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Register godoc
// @Summary Register new user
// @Description Creates a new user account with a bcrypt-hashed password. When organizationName is supplied, the tenant is created in PENDING_ACTIVATION with the new user as its admin.
// @Tags auth
// @Accept json
// @Produce json
// @Param register body dto.CreateUserRequest true "User Registration Info"
// @Success 201 {object} dto.SignupResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Conflict (email already registered)"
// @Failure 500 {object} ErrorResponse
// @Router /auth/register [post]
func (h *authHandler) Register(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	newUser, err := h.userService.CreateUser(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to register user")
		return
	}

	resp := dto.SignupResponse{User: dto.ToUserResponse(newUser)}
	if req.OrganizationName != "" {
		org, err := h.orgService.CreateOrganization(c.Request.Context(), req.OrganizationName, newUser.UserID)
		if err != nil {
			respondError(c, err, "Failed to create organization")
			return
		}
		orgResp := dto.ToOrganizationResponse(org)
		resp.Organization = &orgResp
	}

	c.JSON(http.StatusCreated, resp)
}

// Refresh godoc
// @Summary Refresh access token
// @Description Exchanges a valid refresh token cookie for a fresh access token. The refresh token is rotated.
// @Tags auth
// @Produce json
// @Param userID query string true "User ID the refresh token belongs to"
// @Success 200 {object} dto.LoginResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/refresh [post]
func (h *authHandler) Refresh(c *gin.Context) {
	rawRefresh, err := c.Cookie(h.cfg.RefreshTokenCookieName)
	if err != nil || rawRefresh == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Refresh token required"})
		return
	}

	userID := c.Query("userID")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID required"})
		return
	}

	user, err := h.tokenService.ValidateAndParseRefreshToken(c.Request.Context(), userID, rawRefresh)
	if err != nil {
		respondError(c, err, "Failed to refresh session")
		return
	}

	// Rotate: every refresh invalidates the previous token.
	resp, err := h.issueSession(c, user)
	if err != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Failed to rotate session", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to generate token"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Logout godoc
// @Summary Log out
// @Description Clears the stored refresh token and the cookie.
// @Tags auth
// @Produce json
// @Param userID query string true "User ID to log out"
// @Success 204 "No Content"
// @Router /auth/logout [post]
func (h *authHandler) Logout(c *gin.Context) {
	userID := c.Query("userID")
	if userID != "" {
		if err := h.userService.ClearRefreshToken(c.Request.Context(), userID); err != nil {
			middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Failed to clear refresh token", slog.String("error", err.Error()))
		}
	}
	c.SetCookie(h.cfg.RefreshTokenCookieName, "", -1, h.cfg.RefreshTokenCookiePath, "", h.cfg.IsProduction, true)
	c.Status(http.StatusNoContent)
}

// GoogleTokenLogin godoc
// @Summary Sign in with a Google ID token
// @Description Validates a Google ID token obtained by the frontend and signs the user in, creating the account on first sign-in.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.GoogleLoginRequest true "Google ID token"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/google [post]
func (h *authHandler) GoogleTokenLogin(c *gin.Context) {
	var req dto.GoogleLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	payload, err := h.googleService.ValidateGoogleIDToken(c.Request.Context(), req.IDToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid Google token"})
		return
	}

	email, _ := payload.Claims["email"].(string)
	name, _ := payload.Claims["name"].(string)
	if email == "" || payload.Subject == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Essential claims missing from Google token"})
		return
	}

	user, err := h.userService.FindOrCreateOAuthUser(c.Request.Context(), "google", payload.Subject, email, name)
	if err != nil {
		respondError(c, err, "Failed to process Google sign-in")
		return
	}

	resp, err := h.issueSession(c, user)
	if err != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Failed to issue session", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to generate token"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GoogleLoginRedirect godoc
// @Summary Start the Google OAuth code flow
// @Description Redirects the browser to Google's consent screen.
// @Tags auth
// @Success 307
// @Router /auth/google/login [get]
func (h *authHandler) GoogleLoginRedirect(c *gin.Context) {
	state, err := h.googleService.GenerateStateString(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to start Google sign-in"})
		return
	}

	// The state round-trips through a short-lived cookie for CSRF checking.
	c.SetCookie("oauth_state", state, 300, "/auth", "", h.cfg.IsProduction, true)
	c.Redirect(http.StatusTemporaryRedirect, h.googleService.GetGoogleLoginURL(c.Request.Context(), state))
}

// GoogleCallback godoc
// @Summary Google OAuth callback
// @Description Completes the code flow: exchanges the code, fetches the profile, signs the user in and redirects to the frontend.
// @Tags auth
// @Success 307
// @Failure 401 {object} ErrorResponse
// @Router /auth/callback [get]
func (h *authHandler) GoogleCallback(c *gin.Context) {
	expectedState, err := c.Cookie("oauth_state")
	if err != nil || expectedState == "" || c.Query("state") != expectedState {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid OAuth state"})
		return
	}
	c.SetCookie("oauth_state", "", -1, "/auth", "", h.cfg.IsProduction, true)

	token, err := h.googleService.ExchangeCodeForToken(c.Request.Context(), c.Query("code"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Failed to exchange authorization code"})
		return
	}

	info, err := h.googleService.GetUserInfo(c.Request.Context(), token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Failed to fetch Google profile"})
		return
	}

	user, err := h.userService.FindOrCreateOAuthUser(c.Request.Context(), "google", info.ID, info.Email, info.Name)
	if err != nil {
		respondError(c, err, "Failed to process Google sign-in")
		return
	}

	resp, err := h.issueSession(c, user)
	if err != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Failed to issue session", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to generate token"})
		return
	}

	c.Redirect(http.StatusTemporaryRedirect, h.cfg.FrontendBaseURL+"/auth/complete#token="+resp.Token)
}
