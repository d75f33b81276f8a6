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

type PgxRoleRepository struct {
	BaseRepository
}

// newPgxRoleRepository creates a new repository for role assignment data.
func newPgxRoleRepository(pool *pgxpool.Pool) portsrepo.RoleRepositoryFacade {
	return &PgxRoleRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.RoleRepositoryFacade = (*PgxRoleRepository)(nil)

const roleAssignmentSelectQuery = `
	SELECT user_id, organization_id, role, assigned_by, assigned_at
	FROM role_assignments
`

func (r *PgxRoleRepository) getRoleAssignments(ctx context.Context, filterQuery string, args ...any) ([]domain.RoleAssignment, error) {
	rows, err := r.Pool.Query(ctx, roleAssignmentSelectQuery+filterQuery, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query role assignments", err)
	}
	defer rows.Close()

	assignments, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.RoleAssignment])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.RoleAssignment{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect role assignment rows", err)
	}
	return assignments, nil
}

func (r *PgxRoleRepository) ListRoleAssignments(ctx context.Context, userID, organizationID string) ([]domain.RoleAssignment, error) {
	return r.getRoleAssignments(ctx, ` WHERE user_id = $1 AND organization_id = $2;`, userID, organizationID)
}

func (r *PgxRoleRepository) ListOrganizationRoleAssignments(ctx context.Context, organizationID string) ([]domain.RoleAssignment, error) {
	return r.getRoleAssignments(ctx, ` WHERE organization_id = $1 ORDER BY assigned_at;`, organizationID)
}

// SaveRoleAssignment upserts on (user, organization, role): re-granting a
// held role refreshes the assigner and timestamp instead of erroring.
func (r *PgxRoleRepository) SaveRoleAssignment(ctx context.Context, assignment domain.RoleAssignment) error {
	query := `
		INSERT INTO role_assignments (user_id, organization_id, role, assigned_by, assigned_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, organization_id, role)
		DO UPDATE SET assigned_by = EXCLUDED.assigned_by, assigned_at = EXCLUDED.assigned_at;
	`
	_, err := r.Pool.Exec(ctx, query,
		assignment.UserID,
		assignment.OrganizationID,
		assignment.Role,
		assignment.AssignedBy,
		assignment.AssignedAt,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to save role assignment for user "+assignment.UserID, err)
	}
	return nil
}

func (r *PgxRoleRepository) DeleteRoleAssignment(ctx context.Context, userID, organizationID string, role domain.Role) error {
	query := `DELETE FROM role_assignments WHERE user_id = $1 AND organization_id = $2 AND role = $3;`
	result, err := r.Pool.Exec(ctx, query, userID, organizationID, role)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete role assignment for user "+userID, err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("role assignment not found")
	}
	return nil
}

func (r *PgxRoleRepository) ListUserIDsByRole(ctx context.Context, organizationID string, role domain.Role) ([]string, error) {
	query := `SELECT user_id FROM role_assignments WHERE organization_id = $1 AND role = $2;`
	rows, err := r.Pool.Query(ctx, query, organizationID, role)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query users by role", err)
	}
	defer rows.Close()
	return collectUserIDs(rows)
}

func (r *PgxRoleRepository) ListMemberUserIDs(ctx context.Context, organizationID string) ([]string, error) {
	query := `SELECT DISTINCT user_id FROM role_assignments WHERE organization_id = $1;`
	rows, err := r.Pool.Query(ctx, query, organizationID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query organization members", err)
	}
	defer rows.Close()
	return collectUserIDs(rows)
}

func collectUserIDs(rows pgx.Rows) ([]string, error) {
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan user ID", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating user ID rows", err)
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}
