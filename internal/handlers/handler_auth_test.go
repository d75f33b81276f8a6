package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/opsuite/opsuite_backend/internal/core/domain"
	portssvc "github.com/opsuite/opsuite_backend/internal/core/ports/services"
	"github.com/opsuite/opsuite_backend/internal/dto"
	"github.com/opsuite/opsuite_backend/internal/platform/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubUserSvc covers only the methods Register touches; everything else
// panics through the embedded nil interface.
type stubUserSvc struct {
	portssvc.UserSvcFacade
	createUserFn func(ctx context.Context, req dto.CreateUserRequest) (*domain.User, error)
}

func (s *stubUserSvc) CreateUser(ctx context.Context, req dto.CreateUserRequest) (*domain.User, error) {
	return s.createUserFn(ctx, req)
}

type stubOrgSvc struct {
	portssvc.OrganizationSvcFacade
	createOrganizationFn func(ctx context.Context, name, creatorUserID string) (*domain.Organization, error)
}

func (s *stubOrgSvc) CreateOrganization(ctx context.Context, name, creatorUserID string) (*domain.Organization, error) {
	return s.createOrganizationFn(ctx, name, creatorUserID)
}

func signupRouter(userSvc portssvc.UserSvcFacade, orgSvc portssvc.OrganizationSvcFacade) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := &authHandler{userService: userSvc, orgService: orgSvc, cfg: &config.Config{}}
	router := gin.New()
	router.POST("/auth/register", h.Register)
	return router
}

func TestRegister_CreatesTenantWithSignup(t *testing.T) {
	userSvc := &stubUserSvc{
		createUserFn: func(ctx context.Context, req dto.CreateUserRequest) (*domain.User, error) {
			return &domain.User{UserID: "user-1", Name: req.Name, Email: req.Email}, nil
		},
	}
	var gotName, gotCreator string
	orgSvc := &stubOrgSvc{
		createOrganizationFn: func(ctx context.Context, name, creatorUserID string) (*domain.Organization, error) {
			gotName, gotCreator = name, creatorUserID
			return &domain.Organization{
				OrganizationID: "org-1",
				Name:           name,
				Status:         domain.OrgStatusPendingActivation,
			}, nil
		},
	}
	router := signupRouter(userSvc, orgSvc)

	body := `{"name":"Ada","email":"ada@example.com","password":"password123","organizationName":"Acme Corp"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "Acme Corp", gotName)
	assert.Equal(t, "user-1", gotCreator, "the new user becomes the tenant's creator")

	var resp dto.SignupResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "user-1", resp.User.UserID)
	require.NotNil(t, resp.Organization)
	assert.Equal(t, domain.OrgStatusPendingActivation, resp.Organization.Status)
}

func TestRegister_WithoutOrganizationName(t *testing.T) {
	userSvc := &stubUserSvc{
		createUserFn: func(ctx context.Context, req dto.CreateUserRequest) (*domain.User, error) {
			return &domain.User{UserID: "user-1", Name: req.Name, Email: req.Email}, nil
		},
	}
	orgSvc := &stubOrgSvc{
		createOrganizationFn: func(ctx context.Context, name, creatorUserID string) (*domain.Organization, error) {
			t.Fatal("no organization may be created when the request does not ask for one")
			return nil, nil
		},
	}
	router := signupRouter(userSvc, orgSvc)

	body := `{"name":"Ada","email":"ada@example.com","password":"password123"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp dto.SignupResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Nil(t, resp.Organization)
}
