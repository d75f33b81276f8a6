package dto

import (
	"github.com/opsuite/opsuite_backend/internal/core/domain"
)

// CreateOrganizationRequest defines the data required to create a tenant.
type CreateOrganizationRequest struct {
	Name string `json:"name" binding:"required,min=2,max=120"`
}

// OrganizationResponse is the public view of an organization.
type OrganizationResponse struct {
	OrganizationID string             `json:"organizationID"`
	Name           string             `json:"name"`
	Status         domain.OrgStatus   `json:"status"`
	EnabledModules []domain.AppModule `json:"enabledModules"`
}

// ToOrganizationResponse converts a domain.Organization to its response DTO.
func ToOrganizationResponse(org *domain.Organization) OrganizationResponse {
	modules := org.EnabledModules
	if modules == nil {
		modules = []domain.AppModule{}
	}
	return OrganizationResponse{
		OrganizationID: org.OrganizationID,
		Name:           org.Name,
		Status:         org.Status,
		EnabledModules: modules,
	}
}

// ListOrganizationsResponse wraps the caller's organizations.
type ListOrganizationsResponse struct {
	Organizations []OrganizationResponse `json:"organizations"`
}

// ToListOrganizationsResponse converts a slice of domain.Organization.
func ToListOrganizationsResponse(orgs []domain.Organization) ListOrganizationsResponse {
	responses := make([]OrganizationResponse, len(orgs))
	for i, org := range orgs {
		responses[i] = ToOrganizationResponse(&org)
	}
	return ListOrganizationsResponse{Organizations: responses}
}
