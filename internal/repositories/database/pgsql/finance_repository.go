package pgsql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/opsuite/opsuite_backend/internal/apperrors"
	"github.com/opsuite/opsuite_backend/internal/core/domain"
	portsrepo "github.com/opsuite/opsuite_backend/internal/core/ports/repositories"
)

type PgxFinanceRepository struct {
	BaseRepository
}

// newPgxFinanceRepository creates a new repository over the onboarding-seeded
// finance records.
func newPgxFinanceRepository(pool *pgxpool.Pool) portsrepo.FinanceRepositoryFacade {
	return &PgxFinanceRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.FinanceRepositoryFacade = (*PgxFinanceRepository)(nil)

func (r *PgxFinanceRepository) ListChartOfAccounts(ctx context.Context, organizationID string) ([]domain.LedgerAccount, error) {
	query := `
		SELECT account_id, organization_id, code, name, type, is_system,
			created_at, created_by, last_updated_at, last_updated_by
		FROM ledger_accounts
		WHERE organization_id = $1
		ORDER BY code;
	`
	rows, err := r.Pool.Query(ctx, query, organizationID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query chart of accounts", err)
	}
	defer rows.Close()

	accounts, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.LedgerAccount])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.LedgerAccount{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect ledger account rows", err)
	}
	return accounts, nil
}

func (r *PgxFinanceRepository) FindCurrentFiscalYear(ctx context.Context, organizationID string) (*domain.FiscalYear, error) {
	query := `
		SELECT fiscal_year_id, organization_id, start_date, end_date, is_current,
			created_at, created_by, last_updated_at, last_updated_by
		FROM fiscal_years
		WHERE organization_id = $1 AND is_current = true;
	`
	rows, err := r.Pool.Query(ctx, query, organizationID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query fiscal year", err)
	}
	defer rows.Close()

	fy, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[domain.FiscalYear])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to scan fiscal year row", err)
	}
	return &fy, nil
}

func (r *PgxFinanceRepository) FindComplianceSettings(ctx context.Context, organizationID string) (*domain.ComplianceSettings, error) {
	query := `
		SELECT organization_id, pf_enabled, esi_enabled, tds_enabled,
			created_at, created_by, last_updated_at, last_updated_by
		FROM compliance_settings
		WHERE organization_id = $1;
	`
	rows, err := r.Pool.Query(ctx, query, organizationID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query compliance settings", err)
	}
	defer rows.Close()

	settings, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[domain.ComplianceSettings])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to scan compliance settings row", err)
	}
	return &settings, nil
}
