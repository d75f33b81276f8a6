package pgsql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/opsuite/opsuite_backend/internal/apperrors"
	"github.com/opsuite/opsuite_backend/internal/core/domain"
	portsrepo "github.com/opsuite/opsuite_backend/internal/core/ports/repositories"
)

type PgxOrganizationRepository struct {
	BaseRepository
}

// newPgxOrganizationRepository creates a new repository for organization data.
func newPgxOrganizationRepository(pool *pgxpool.Pool) portsrepo.OrganizationRepositoryFacade {
	return &PgxOrganizationRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.OrganizationRepositoryFacade = (*PgxOrganizationRepository)(nil)

const organizationSelectColumns = `
	o.organization_id, o.name, o.status, o.suspended_from, o.enabled_modules, o.version,
	o.created_at, o.created_by, o.last_updated_at, o.last_updated_by
`

func scanOrganization(row pgx.Row) (*domain.Organization, error) {
	var org domain.Organization
	var modules []string
	var suspendedFrom *string
	err := row.Scan(
		&org.OrganizationID,
		&org.Name,
		&org.Status,
		&suspendedFrom,
		&modules,
		&org.Version,
		&org.CreatedAt,
		&org.CreatedBy,
		&org.LastUpdatedAt,
		&org.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	if suspendedFrom != nil {
		org.SuspendedFrom = domain.OrgStatus(*suspendedFrom)
	}
	org.EnabledModules = toAppModules(modules)
	return &org, nil
}

func toAppModules(names []string) []domain.AppModule {
	modules := make([]domain.AppModule, len(names))
	for i, n := range names {
		modules[i] = domain.AppModule(n)
	}
	return modules
}

func fromAppModules(modules []domain.AppModule) []string {
	names := make([]string, len(modules))
	for i, m := range modules {
		names[i] = string(m)
	}
	return names
}

func (r *PgxOrganizationRepository) SaveOrganization(ctx context.Context, org domain.Organization) error {
	query := `
		INSERT INTO organizations (
			organization_id, name, status, enabled_modules, version,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.Pool.Exec(ctx, query,
		org.OrganizationID,
		org.Name,
		org.Status,
		fromAppModules(org.EnabledModules),
		1,
		org.CreatedAt,
		org.CreatedBy,
		org.LastUpdatedAt,
		org.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return apperrors.NewConflictError("organization ID " + org.OrganizationID + " already exists")
		}
		return apperrors.NewAppError(500, "failed to save organization "+org.OrganizationID, err)
	}
	return nil
}

func (r *PgxOrganizationRepository) FindOrganizationByID(ctx context.Context, organizationID string) (*domain.Organization, error) {
	query := `SELECT ` + organizationSelectColumns + ` FROM organizations o WHERE o.organization_id = $1;`
	org, err := scanOrganization(r.Pool.QueryRow(ctx, query, organizationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find organization "+organizationID, err)
	}
	return org, nil
}

func (r *PgxOrganizationRepository) ListOrganizationsByUserID(ctx context.Context, userID string) ([]domain.Organization, error) {
	query := `
		SELECT DISTINCT ` + organizationSelectColumns + `
		FROM organizations o
		JOIN role_assignments ra ON o.organization_id = ra.organization_id
		WHERE ra.user_id = $1
		ORDER BY o.name;
	`
	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query organizations for user "+userID, err)
	}
	defer rows.Close()

	var orgs []domain.Organization
	for rows.Next() {
		org, err := scanOrganization(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan organization row", err)
		}
		orgs = append(orgs, *org)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating organization rows", err)
	}
	if orgs == nil {
		orgs = []domain.Organization{}
	}
	return orgs, nil
}

// UpdateOrganizationStatus transitions the lifecycle status using optimistic
// locking on the version column. The transition legality is validated here so
// no caller can push an organization backwards through the lifecycle. Moving
// into SUSPENDED records the outgoing status in suspended_from so unsuspension
// can restore it; moving out of SUSPENDED clears the marker.
func (r *PgxOrganizationRepository) UpdateOrganizationStatus(ctx context.Context, org *domain.Organization, newStatus domain.OrgStatus, updatedByUserID string) error {
	if !org.Status.CanTransitionTo(newStatus) {
		return domain.ErrInvalidTransition
	}
	var suspendedFrom *string
	if newStatus == domain.OrgStatusSuspended {
		from := string(org.Status)
		suspendedFrom = &from
	}
	query := `
		UPDATE organizations
		SET status = $1, suspended_from = $2, last_updated_at = NOW(), last_updated_by = $3, version = version + 1
		WHERE organization_id = $4 AND version = $5;
	`
	result, err := r.Pool.Exec(ctx, query, newStatus, suspendedFrom, updatedByUserID, org.OrganizationID, org.Version)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update organization status "+org.OrganizationID, err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NewConflictError("optimistic locking failed: organization " + org.OrganizationID)
	}
	return nil
}
