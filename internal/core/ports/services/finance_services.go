package services

import (
	"context"

	"github.com/opsuite/opsuite_backend/internal/core/domain"
)

// FinanceSvcFacade exposes the records seeded during onboarding. FINANCE role
// and up.
type FinanceSvcFacade interface {
	ListChartOfAccounts(ctx context.Context, actingUserID, organizationID string) ([]domain.LedgerAccount, error)
	GetCurrentFiscalYear(ctx context.Context, actingUserID, organizationID string) (*domain.FiscalYear, error)
	GetComplianceSettings(ctx context.Context, actingUserID, organizationID string) (*domain.ComplianceSettings, error)
}
