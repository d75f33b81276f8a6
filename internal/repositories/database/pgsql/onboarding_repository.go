package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/opsuite/opsuite_backend/internal/apperrors"
	"github.com/opsuite/opsuite_backend/internal/core/domain"
	portsrepo "github.com/opsuite/opsuite_backend/internal/core/ports/repositories"
)

type PgxOnboardingRepository struct {
	BaseRepository
}

// newPgxOnboardingRepository creates a new repository for the onboarding procedure.
func newPgxOnboardingRepository(pool *pgxpool.Pool) portsrepo.OnboardingRepository {
	return &PgxOnboardingRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.OnboardingRepository = (*PgxOnboardingRepository)(nil)

// CompleteOnboarding seeds the organization's defaults and activates it in a
// single transaction. Every seed insert is existence-checked first, so the
// procedure is safe to run twice: the second run on an already-ACTIVE
// organization is a no-op success, and a retried run after a partial failure
// only fills in what is missing.
func (r *PgxOnboardingRepository) CompleteOnboarding(ctx context.Context, organizationID, actorUserID string, now time.Time) ([]string, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	orgQuery := `SELECT ` + organizationSelectColumns + `
		FROM organizations o
		WHERE o.organization_id = $1
		FOR UPDATE;`
	org, err := scanOrganization(tx.QueryRow(ctx, orgQuery, organizationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrOrgNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to look up organization "+organizationID, err)
	}

	if org.Status == domain.OrgStatusActive {
		// Second call after a successful completion: report success without
		// touching anything.
		return nil, nil
	}
	if org.Status != domain.OrgStatusOnboarding {
		return nil, domain.ErrOrgNotInOnboarding
	}

	var applied []string

	for _, seed := range domain.StandardChartOfAccounts {
		var exists bool
		err := tx.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM ledger_accounts WHERE organization_id = $1 AND code = $2);`,
			organizationID, seed.Code,
		).Scan(&exists)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to check ledger account "+seed.Code, err)
		}
		if exists {
			continue
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO ledger_accounts (
				account_id, organization_id, code, name, type, is_system,
				created_at, created_by, last_updated_at, last_updated_by
			)
			VALUES ($1, $2, $3, $4, $5, true, $6, $7, $6, $7);
		`, uuid.NewString(), organizationID, seed.Code, seed.Name, seed.Type, now, actorUserID)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to seed ledger account "+seed.Code, err)
		}
		applied = append(applied, fmt.Sprintf("account:%s %s", seed.Code, seed.Name))
	}

	var hasFiscalYear bool
	err = tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM fiscal_years WHERE organization_id = $1 AND is_current = true);`,
		organizationID,
	).Scan(&hasFiscalYear)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to check fiscal year", err)
	}
	if !hasFiscalYear {
		start, end := domain.CurrentFiscalYearBounds(now)
		_, err = tx.Exec(ctx, `
			INSERT INTO fiscal_years (
				fiscal_year_id, organization_id, start_date, end_date, is_current,
				created_at, created_by, last_updated_at, last_updated_by
			)
			VALUES ($1, $2, $3, $4, true, $5, $6, $5, $6);
		`, uuid.NewString(), organizationID, start, end, now, actorUserID)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to seed fiscal year", err)
		}
		applied = append(applied, fmt.Sprintf("fiscal_year:%s", start.Format("2006-01-02")))
	}

	var hasCompliance bool
	err = tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM compliance_settings WHERE organization_id = $1);`,
		organizationID,
	).Scan(&hasCompliance)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to check compliance settings", err)
	}
	if !hasCompliance {
		_, err = tx.Exec(ctx, `
			INSERT INTO compliance_settings (
				organization_id, pf_enabled, esi_enabled, tds_enabled,
				created_at, created_by, last_updated_at, last_updated_by
			)
			VALUES ($1, true, true, true, $2, $3, $2, $3);
		`, organizationID, now, actorUserID)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to seed compliance settings", err)
		}
		applied = append(applied, "compliance_settings:defaults")
	}

	_, err = tx.Exec(ctx, `
		UPDATE organizations
		SET status = $1, last_updated_at = $2, last_updated_by = $3, version = version + 1
		WHERE organization_id = $4;
	`, domain.OrgStatusActive, now, actorUserID, organizationID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to activate organization "+organizationID, err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	if applied == nil {
		applied = []string{}
	}
	return applied, nil
}
