package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/opsuite/opsuite_backend/internal/apperrors"
	"github.com/opsuite/opsuite_backend/internal/core/domain"
	"github.com/opsuite/opsuite_backend/internal/core/policy"
	portsrepo "github.com/opsuite/opsuite_backend/internal/core/ports/repositories"
	portssvc "github.com/opsuite/opsuite_backend/internal/core/ports/services"
)

// financeService implements the FinanceSvcFacade interface
type financeService struct {
	BaseService
	financeRepo portsrepo.FinanceRepositoryFacade
}

// NewFinanceService creates a new finance service with the provided dependencies
func NewFinanceService(
	financeRepo portsrepo.FinanceRepositoryFacade,
	authorizer portssvc.AuthorizerSvc,
) portssvc.FinanceSvcFacade {
	return &financeService{
		BaseService: BaseService{Authorizer: authorizer},
		financeRepo: financeRepo,
	}
}

// Ensure financeService implements the FinanceSvcFacade interface
var _ portssvc.FinanceSvcFacade = (*financeService)(nil)

// ListChartOfAccounts retrieves the accounts seeded at onboarding. FINANCE
// and up.
func (s *financeService) ListChartOfAccounts(ctx context.Context, actingUserID, organizationID string) ([]domain.LedgerAccount, error) {
	if err := s.Authorize(ctx, actingUserID, organizationID, policy.OpChartOfAccountsRead); err != nil {
		return nil, err
	}
	accounts, err := s.financeRepo.ListChartOfAccounts(ctx, organizationID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list chart of accounts",
			slog.String("organization_id", organizationID))
		return nil, err
	}
	if accounts == nil {
		return []domain.LedgerAccount{}, nil
	}
	return accounts, nil
}

// GetCurrentFiscalYear retrieves the organization's current fiscal year.
func (s *financeService) GetCurrentFiscalYear(ctx context.Context, actingUserID, organizationID string) (*domain.FiscalYear, error) {
	if err := s.Authorize(ctx, actingUserID, organizationID, policy.OpFiscalYearRead); err != nil {
		return nil, err
	}
	fy, err := s.financeRepo.FindCurrentFiscalYear(ctx, organizationID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find current fiscal year",
				slog.String("organization_id", organizationID))
		}
		return nil, err
	}
	return fy, nil
}

// GetComplianceSettings retrieves the organization's statutory defaults.
func (s *financeService) GetComplianceSettings(ctx context.Context, actingUserID, organizationID string) (*domain.ComplianceSettings, error) {
	if err := s.Authorize(ctx, actingUserID, organizationID, policy.OpFiscalYearRead); err != nil {
		return nil, err
	}
	settings, err := s.financeRepo.FindComplianceSettings(ctx, organizationID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find compliance settings",
				slog.String("organization_id", organizationID))
		}
		return nil, err
	}
	return settings, nil
}
