package repositories

import (
	"context"
	"time"

	"github.com/opsuite/opsuite_backend/internal/core/domain"
)

// OrganizationReader defines read operations for organization data
type OrganizationReader interface {
	// FindOrganizationByID retrieves a specific organization by its ID.
	FindOrganizationByID(ctx context.Context, organizationID string) (*domain.Organization, error)

	// ListOrganizationsByUserID retrieves all organizations a user holds a role in.
	ListOrganizationsByUserID(ctx context.Context, userID string) ([]domain.Organization, error)
}

// OrganizationWriter defines write operations for organization data
type OrganizationWriter interface {
	// SaveOrganization persists a new organization.
	SaveOrganization(ctx context.Context, org domain.Organization) error

	// UpdateOrganizationStatus transitions an organization's lifecycle status
	// using optimistic locking on the version column.
	UpdateOrganizationStatus(ctx context.Context, org *domain.Organization, newStatus domain.OrgStatus, updatedByUserID string) error
}

// OrganizationRepositoryFacade combines all organization repository interfaces.
type OrganizationRepositoryFacade interface {
	OrganizationReader
	OrganizationWriter
}

// OnboardingRepository applies an organization's one-time setup as a single
// atomic unit: it locks the organization row, verifies it is in ONBOARDING,
// seeds the default chart of accounts, fiscal year and compliance settings
// (each insert is existence-checked, so re-running never duplicates rows) and
// transitions the organization to ACTIVE.
type OnboardingRepository interface {
	// CompleteOnboarding returns the names of the defaults it actually
	// applied. An already-ACTIVE organization yields (nil, nil): a no-op
	// success. An organization in any other state yields
	// domain.ErrOrgNotInOnboarding.
	CompleteOnboarding(ctx context.Context, organizationID, actorUserID string, now time.Time) ([]string, error)
}
