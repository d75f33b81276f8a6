package domain

import "time"

// AccountType classifies a ledger account in the chart of accounts.
type AccountType string

const (
	AccountTypeAsset     AccountType = "ASSET"
	AccountTypeLiability AccountType = "LIABILITY"
	AccountTypeEquity    AccountType = "EQUITY"
	AccountTypeIncome    AccountType = "INCOME"
	AccountTypeExpense   AccountType = "EXPENSE"
)

// LedgerAccount is one row of an organization's chart of accounts.
type LedgerAccount struct {
	AccountID      string      `json:"accountID" db:"account_id"`
	OrganizationID string      `json:"organizationID" db:"organization_id"`
	Code           string      `json:"code" db:"code"`
	Name           string      `json:"name" db:"name"`
	Type           AccountType `json:"type" db:"type"`
	IsSystem       bool        `json:"isSystem" db:"is_system"` // Seeded during onboarding, not user-deletable
	AuditFields
}

// FiscalYear is an organization's accounting period.
type FiscalYear struct {
	FiscalYearID   string    `json:"fiscalYearID" db:"fiscal_year_id"`
	OrganizationID string    `json:"organizationID" db:"organization_id"`
	StartDate      time.Time `json:"startDate" db:"start_date"`
	EndDate        time.Time `json:"endDate" db:"end_date"`
	IsCurrent      bool      `json:"isCurrent" db:"is_current"`
	AuditFields
}

// ComplianceSettings holds an organization's statutory deduction defaults.
type ComplianceSettings struct {
	OrganizationID string `json:"organizationID" db:"organization_id"`
	PFEnabled      bool   `json:"pfEnabled" db:"pf_enabled"`
	ESIEnabled     bool   `json:"esiEnabled" db:"esi_enabled"`
	TDSEnabled     bool   `json:"tdsEnabled" db:"tds_enabled"`
	AuditFields
}

// AccountSeed is one entry of the standard chart-of-accounts template applied
// during onboarding.
type AccountSeed struct {
	Code string
	Name string
	Type AccountType
}

// StandardChartOfAccounts is the default chart seeded for every new
// organization. Onboarding checks existence per code before inserting, so
// re-running the seed never duplicates rows.
var StandardChartOfAccounts = []AccountSeed{
	{"1000", "Cash", AccountTypeAsset},
	{"1010", "Bank", AccountTypeAsset},
	{"1100", "Accounts Receivable", AccountTypeAsset},
	{"1200", "Inventory", AccountTypeAsset},
	{"1300", "Prepaid Expenses", AccountTypeAsset},
	{"1500", "Fixed Assets", AccountTypeAsset},
	{"1510", "Accumulated Depreciation", AccountTypeAsset},
	{"2000", "Accounts Payable", AccountTypeLiability},
	{"2100", "Salaries Payable", AccountTypeLiability},
	{"2200", "Taxes Payable", AccountTypeLiability},
	{"2300", "PF Payable", AccountTypeLiability},
	{"2310", "ESI Payable", AccountTypeLiability},
	{"2320", "TDS Payable", AccountTypeLiability},
	{"3000", "Owner Equity", AccountTypeEquity},
	{"3100", "Retained Earnings", AccountTypeEquity},
	{"4000", "Sales Revenue", AccountTypeIncome},
	{"4100", "Service Revenue", AccountTypeIncome},
	{"4900", "Other Income", AccountTypeIncome},
	{"5000", "Cost of Goods Sold", AccountTypeExpense},
	{"6000", "Salaries Expense", AccountTypeExpense},
	{"6100", "Rent Expense", AccountTypeExpense},
	{"6200", "Utilities Expense", AccountTypeExpense},
	{"6300", "Travel Expense", AccountTypeExpense},
	{"6400", "Depreciation Expense", AccountTypeExpense},
	{"6900", "Miscellaneous Expense", AccountTypeExpense},
}

// CurrentFiscalYearBounds returns the April-to-March fiscal year containing
// now.
func CurrentFiscalYearBounds(now time.Time) (start, end time.Time) {
	year := now.Year()
	if now.Month() < time.April {
		year--
	}
	start = time.Date(year, time.April, 1, 0, 0, 0, 0, time.UTC)
	end = time.Date(year+1, time.March, 31, 0, 0, 0, 0, time.UTC)
	return start, end
}
