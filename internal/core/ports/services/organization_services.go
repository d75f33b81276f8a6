package services

import (
	"context"

	"github.com/opsuite/opsuite_backend/internal/core/domain"
)

// OrganizationReaderSvc defines read operations for organization data
type OrganizationReaderSvc interface {
	// GetOrganization retrieves an organization. The caller must be a member
	// or a platform admin.
	GetOrganization(ctx context.Context, organizationID, requestingUserID string) (*domain.Organization, error)

	// ListMyOrganizations retrieves the organizations the caller belongs to.
	ListMyOrganizations(ctx context.Context, userID string) ([]domain.Organization, error)
}

// OrganizationWriterSvc defines write operations for organization data
type OrganizationWriterSvc interface {
	// CreateOrganization creates an organization in PENDING_ACTIVATION and
	// assigns the creator the ADMIN role.
	CreateOrganization(ctx context.Context, name, creatorUserID string) (*domain.Organization, error)
}

// OrganizationLifecycleSvc defines platform-level lifecycle actions
type OrganizationLifecycleSvc interface {
	// SuspendOrganization suspends a tenant. Platform admins only.
	SuspendOrganization(ctx context.Context, organizationID, requestingUserID string) error

	// UnsuspendOrganization restores a suspended tenant to the state it was
	// suspended from. Platform admins only.
	UnsuspendOrganization(ctx context.Context, organizationID, requestingUserID string) error
}

// OrganizationSvcFacade combines all organization service interfaces.
type OrganizationSvcFacade interface {
	OrganizationReaderSvc
	OrganizationWriterSvc
	OrganizationLifecycleSvc
}
