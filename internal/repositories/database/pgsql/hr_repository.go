package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/opsuite/opsuite_backend/internal/apperrors"
	"github.com/opsuite/opsuite_backend/internal/core/domain"
	portsrepo "github.com/opsuite/opsuite_backend/internal/core/ports/repositories"
)

type PgxHRRepository struct {
	BaseRepository
}

// newPgxHRRepository creates a new repository for HR data.
func newPgxHRRepository(pool *pgxpool.Pool) portsrepo.HRRepositoryFacade {
	return &PgxHRRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.HRRepositoryFacade = (*PgxHRRepository)(nil)

// --- Employees ---

func (r *PgxHRRepository) SaveEmployee(ctx context.Context, employee domain.Employee) error {
	query := `
		INSERT INTO employees (
			user_id, organization_id, manager_id, department, designation,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (user_id, organization_id)
		DO UPDATE SET manager_id = EXCLUDED.manager_id,
			department = EXCLUDED.department,
			designation = EXCLUDED.designation,
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by;
	`
	_, err := r.Pool.Exec(ctx, query,
		employee.UserID,
		employee.OrganizationID,
		employee.ManagerID,
		employee.Department,
		employee.Designation,
		employee.CreatedAt,
		employee.CreatedBy,
		employee.LastUpdatedAt,
		employee.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to save employee "+employee.UserID, err)
	}
	return nil
}

func (r *PgxHRRepository) FindEmployee(ctx context.Context, userID, organizationID string) (*domain.Employee, error) {
	query := `
		SELECT user_id, organization_id, manager_id, department, designation,
			created_at, created_by, last_updated_at, last_updated_by
		FROM employees
		WHERE user_id = $1 AND organization_id = $2;
	`
	rows, err := r.Pool.Query(ctx, query, userID, organizationID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query employee "+userID, err)
	}
	defer rows.Close()

	employee, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[domain.Employee])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to scan employee row", err)
	}
	return &employee, nil
}

func (r *PgxHRRepository) ListEmployees(ctx context.Context, organizationID string) ([]domain.Employee, error) {
	query := `
		SELECT user_id, organization_id, manager_id, department, designation,
			created_at, created_by, last_updated_at, last_updated_by
		FROM employees
		WHERE organization_id = $1
		ORDER BY created_at;
	`
	rows, err := r.Pool.Query(ctx, query, organizationID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query employees", err)
	}
	defer rows.Close()

	employees, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.Employee])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.Employee{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect employee rows", err)
	}
	return employees, nil
}

// --- Leave requests ---

func (r *PgxHRRepository) SaveLeaveRequest(ctx context.Context, request domain.LeaveRequest) error {
	query := `
		INSERT INTO leave_requests (
			leave_request_id, organization_id, employee_user_id, kind,
			from_date, to_date, reason, status, decided_by, decided_at,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := r.Pool.Exec(ctx, query,
		request.LeaveRequestID,
		request.OrganizationID,
		request.EmployeeUserID,
		request.Kind,
		request.FromDate,
		request.ToDate,
		request.Reason,
		request.Status,
		request.DecidedBy,
		request.DecidedAt,
		request.CreatedAt,
		request.CreatedBy,
		request.LastUpdatedAt,
		request.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to save leave request "+request.LeaveRequestID, err)
	}
	return nil
}

func (r *PgxHRRepository) FindLeaveRequestByID(ctx context.Context, leaveRequestID string) (*domain.LeaveRequest, error) {
	query := `
		SELECT leave_request_id, organization_id, employee_user_id, kind,
			from_date, to_date, reason, status, decided_by, decided_at,
			created_at, created_by, last_updated_at, last_updated_by
		FROM leave_requests
		WHERE leave_request_id = $1;
	`
	rows, err := r.Pool.Query(ctx, query, leaveRequestID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query leave request "+leaveRequestID, err)
	}
	defer rows.Close()

	request, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[domain.LeaveRequest])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to scan leave request row", err)
	}
	return &request, nil
}

func (r *PgxHRRepository) ListLeaveRequests(ctx context.Context, organizationID string, employeeUserID *string) ([]domain.LeaveRequest, error) {
	query := `
		SELECT leave_request_id, organization_id, employee_user_id, kind,
			from_date, to_date, reason, status, decided_by, decided_at,
			created_at, created_by, last_updated_at, last_updated_by
		FROM leave_requests
		WHERE organization_id = $1
	`
	args := []any{organizationID}
	if employeeUserID != nil {
		query += ` AND employee_user_id = $2`
		args = append(args, *employeeUserID)
	}
	query += ` ORDER BY created_at DESC;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query leave requests", err)
	}
	defer rows.Close()

	requests, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.LeaveRequest])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.LeaveRequest{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect leave request rows", err)
	}
	return requests, nil
}

// UpdateLeaveRequestStatus guards on PENDING so a decided request cannot be
// re-decided.
func (r *PgxHRRepository) UpdateLeaveRequestStatus(ctx context.Context, leaveRequestID string, status domain.RequestStatus, decidedBy string, decidedAt time.Time) error {
	query := `
		UPDATE leave_requests
		SET status = $1, decided_by = $2, decided_at = $3, last_updated_at = $3, last_updated_by = $2
		WHERE leave_request_id = $4 AND status = $5;
	`
	result, err := r.Pool.Exec(ctx, query, status, decidedBy, decidedAt, leaveRequestID, domain.RequestStatusPending)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update leave request "+leaveRequestID, err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NewConflictError("leave request already decided or not found")
	}
	return nil
}

// --- Reimbursements ---

func (r *PgxHRRepository) SaveReimbursement(ctx context.Context, claim domain.Reimbursement) error {
	query := `
		INSERT INTO reimbursements (
			reimbursement_id, organization_id, employee_user_id, amount,
			currency_code, description, status, decided_by, decided_at,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := r.Pool.Exec(ctx, query,
		claim.ReimbursementID,
		claim.OrganizationID,
		claim.EmployeeUserID,
		claim.Amount,
		claim.CurrencyCode,
		claim.Description,
		claim.Status,
		claim.DecidedBy,
		claim.DecidedAt,
		claim.CreatedAt,
		claim.CreatedBy,
		claim.LastUpdatedAt,
		claim.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to save reimbursement "+claim.ReimbursementID, err)
	}
	return nil
}

func (r *PgxHRRepository) FindReimbursementByID(ctx context.Context, reimbursementID string) (*domain.Reimbursement, error) {
	query := `
		SELECT reimbursement_id, organization_id, employee_user_id, amount,
			currency_code, description, status, decided_by, decided_at,
			created_at, created_by, last_updated_at, last_updated_by
		FROM reimbursements
		WHERE reimbursement_id = $1;
	`
	rows, err := r.Pool.Query(ctx, query, reimbursementID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query reimbursement "+reimbursementID, err)
	}
	defer rows.Close()

	claim, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[domain.Reimbursement])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to scan reimbursement row", err)
	}
	return &claim, nil
}

func (r *PgxHRRepository) ListReimbursements(ctx context.Context, organizationID string, employeeUserID *string) ([]domain.Reimbursement, error) {
	query := `
		SELECT reimbursement_id, organization_id, employee_user_id, amount,
			currency_code, description, status, decided_by, decided_at,
			created_at, created_by, last_updated_at, last_updated_by
		FROM reimbursements
		WHERE organization_id = $1
	`
	args := []any{organizationID}
	if employeeUserID != nil {
		query += ` AND employee_user_id = $2`
		args = append(args, *employeeUserID)
	}
	query += ` ORDER BY created_at DESC;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query reimbursements", err)
	}
	defer rows.Close()

	claims, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.Reimbursement])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.Reimbursement{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect reimbursement rows", err)
	}
	return claims, nil
}

func (r *PgxHRRepository) UpdateReimbursementStatus(ctx context.Context, reimbursementID string, status domain.ReimbursementStatus, decidedBy string, decidedAt time.Time) error {
	query := `
		UPDATE reimbursements
		SET status = $1, decided_by = $2, decided_at = $3, last_updated_at = $3, last_updated_by = $2
		WHERE reimbursement_id = $4;
	`
	result, err := r.Pool.Exec(ctx, query, status, decidedBy, decidedAt, reimbursementID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update reimbursement "+reimbursementID, err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("reimbursement not found")
	}
	return nil
}

// --- Memos ---

func (r *PgxHRRepository) SaveMemo(ctx context.Context, memo domain.Memo) error {
	query := `
		INSERT INTO memos (memo_id, organization_id, title, body, published_by, published_at)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	_, err := r.Pool.Exec(ctx, query,
		memo.MemoID,
		memo.OrganizationID,
		memo.Title,
		memo.Body,
		memo.PublishedBy,
		memo.PublishedAt,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to save memo "+memo.MemoID, err)
	}
	return nil
}

func (r *PgxHRRepository) FindMemoByID(ctx context.Context, memoID string) (*domain.Memo, error) {
	query := `
		SELECT memo_id, organization_id, title, body, published_by, published_at
		FROM memos
		WHERE memo_id = $1;
	`
	rows, err := r.Pool.Query(ctx, query, memoID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query memo "+memoID, err)
	}
	defer rows.Close()

	memo, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[domain.Memo])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to scan memo row", err)
	}
	return &memo, nil
}

func (r *PgxHRRepository) ListMemos(ctx context.Context, organizationID string, limit, offset int) ([]domain.Memo, error) {
	query := `
		SELECT memo_id, organization_id, title, body, published_by, published_at
		FROM memos
		WHERE organization_id = $1
		ORDER BY published_at DESC
		LIMIT $2 OFFSET $3;
	`
	rows, err := r.Pool.Query(ctx, query, organizationID, limit, offset)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query memos", err)
	}
	defer rows.Close()

	memos, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.Memo])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.Memo{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect memo rows", err)
	}
	return memos, nil
}
