package dto

import (
	"time"

	"github.com/opsuite/opsuite_backend/internal/core/domain"
)

// LedgerAccountResponse is one chart-of-accounts row.
type LedgerAccountResponse struct {
	AccountID string             `json:"accountID"`
	Code      string             `json:"code"`
	Name      string             `json:"name"`
	Type      domain.AccountType `json:"type"`
	IsSystem  bool               `json:"isSystem"`
}

// ListChartOfAccountsResponse wraps an organization's chart of accounts.
type ListChartOfAccountsResponse struct {
	Accounts []LedgerAccountResponse `json:"accounts"`
}

// ToListChartOfAccountsResponse converts a slice of domain.LedgerAccount.
func ToListChartOfAccountsResponse(accounts []domain.LedgerAccount) ListChartOfAccountsResponse {
	responses := make([]LedgerAccountResponse, len(accounts))
	for i, a := range accounts {
		responses[i] = LedgerAccountResponse{
			AccountID: a.AccountID,
			Code:      a.Code,
			Name:      a.Name,
			Type:      a.Type,
			IsSystem:  a.IsSystem,
		}
	}
	return ListChartOfAccountsResponse{Accounts: responses}
}

// FiscalYearResponse is an organization's accounting period.
type FiscalYearResponse struct {
	FiscalYearID string    `json:"fiscalYearID"`
	StartDate    time.Time `json:"startDate"`
	EndDate      time.Time `json:"endDate"`
	IsCurrent    bool      `json:"isCurrent"`
}

// ToFiscalYearResponse converts a domain.FiscalYear.
func ToFiscalYearResponse(fy *domain.FiscalYear) FiscalYearResponse {
	return FiscalYearResponse{
		FiscalYearID: fy.FiscalYearID,
		StartDate:    fy.StartDate,
		EndDate:      fy.EndDate,
		IsCurrent:    fy.IsCurrent,
	}
}

// ComplianceSettingsResponse holds statutory deduction defaults.
type ComplianceSettingsResponse struct {
	PFEnabled  bool `json:"pfEnabled"`
	ESIEnabled bool `json:"esiEnabled"`
	TDSEnabled bool `json:"tdsEnabled"`
}

// ToComplianceSettingsResponse converts a domain.ComplianceSettings.
func ToComplianceSettingsResponse(cs *domain.ComplianceSettings) ComplianceSettingsResponse {
	return ComplianceSettingsResponse{
		PFEnabled:  cs.PFEnabled,
		ESIEnabled: cs.ESIEnabled,
		TDSEnabled: cs.TDSEnabled,
	}
}
