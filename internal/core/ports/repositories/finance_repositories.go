package repositories

import (
	"context"

	"github.com/opsuite/opsuite_backend/internal/core/domain"
)

// FinanceReader defines read operations over the records seeded at onboarding.
type FinanceReader interface {
	// ListChartOfAccounts retrieves an organization's ledger accounts ordered
	// by code.
	ListChartOfAccounts(ctx context.Context, organizationID string) ([]domain.LedgerAccount, error)

	// FindCurrentFiscalYear retrieves the organization's current fiscal year.
	FindCurrentFiscalYear(ctx context.Context, organizationID string) (*domain.FiscalYear, error)

	// FindComplianceSettings retrieves the organization's statutory defaults.
	FindComplianceSettings(ctx context.Context, organizationID string) (*domain.ComplianceSettings, error)
}

// FinanceRepositoryFacade combines all finance repository interfaces.
type FinanceRepositoryFacade interface {
	FinanceReader
}
