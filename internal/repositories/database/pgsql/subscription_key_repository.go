package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/opsuite/opsuite_backend/internal/apperrors"
	"github.com/opsuite/opsuite_backend/internal/core/domain"
	portsrepo "github.com/opsuite/opsuite_backend/internal/core/ports/repositories"
)

type PgxSubscriptionKeyRepository struct {
	BaseRepository
}

// newPgxSubscriptionKeyRepository creates a new repository for subscription key data.
func newPgxSubscriptionKeyRepository(pool *pgxpool.Pool) portsrepo.SubscriptionKeyRepositoryFacade {
	return &PgxSubscriptionKeyRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.SubscriptionKeyRepositoryFacade = (*PgxSubscriptionKeyRepository)(nil)

const subscriptionKeySelectColumns = `
	k.key_id, k.key_hash, k.plan_tier, k.max_uses, k.used_count, k.expires_at,
	k.enabled_modules, k.status,
	k.created_at, k.created_by, k.last_updated_at, k.last_updated_by
`

func scanSubscriptionKey(row pgx.Row) (*domain.SubscriptionKey, error) {
	var key domain.SubscriptionKey
	var modules []string
	err := row.Scan(
		&key.KeyID,
		&key.KeyHash,
		&key.PlanTier,
		&key.MaxUses,
		&key.UsedCount,
		&key.ExpiresAt,
		&modules,
		&key.Status,
		&key.CreatedAt,
		&key.CreatedBy,
		&key.LastUpdatedAt,
		&key.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	key.EnabledModules = toAppModules(modules)
	return &key, nil
}

func (r *PgxSubscriptionKeyRepository) SaveKey(ctx context.Context, key domain.SubscriptionKey) error {
	query := `
		INSERT INTO subscription_keys (
			key_id, key_hash, plan_tier, max_uses, used_count, expires_at,
			enabled_modules, status,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.Pool.Exec(ctx, query,
		key.KeyID,
		key.KeyHash,
		key.PlanTier,
		key.MaxUses,
		key.UsedCount,
		key.ExpiresAt,
		fromAppModules(key.EnabledModules),
		key.Status,
		key.CreatedAt,
		key.CreatedBy,
		key.LastUpdatedAt,
		key.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation on key_hash
			return apperrors.NewConflictError("subscription key already exists")
		}
		return apperrors.NewAppError(500, "failed to save subscription key "+key.KeyID, err)
	}
	return nil
}

func (r *PgxSubscriptionKeyRepository) FindKeyByID(ctx context.Context, keyID string) (*domain.SubscriptionKey, error) {
	query := `SELECT ` + subscriptionKeySelectColumns + ` FROM subscription_keys k WHERE k.key_id = $1;`
	key, err := scanSubscriptionKey(r.Pool.QueryRow(ctx, query, keyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find subscription key "+keyID, err)
	}
	return key, nil
}

func (r *PgxSubscriptionKeyRepository) ListKeys(ctx context.Context, limit, offset int) ([]domain.SubscriptionKey, error) {
	query := `SELECT ` + subscriptionKeySelectColumns + `
		FROM subscription_keys k
		ORDER BY k.created_at DESC
		LIMIT $1 OFFSET $2;`
	rows, err := r.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query subscription keys", err)
	}
	defer rows.Close()

	var keys []domain.SubscriptionKey
	for rows.Next() {
		key, err := scanSubscriptionKey(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan subscription key row", err)
		}
		keys = append(keys, *key)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating subscription key rows", err)
	}
	if keys == nil {
		keys = []domain.SubscriptionKey{}
	}
	return keys, nil
}

func (r *PgxSubscriptionKeyRepository) RevokeKey(ctx context.Context, keyID, revokedByUserID string) error {
	query := `
		UPDATE subscription_keys
		SET status = $1, last_updated_at = NOW(), last_updated_by = $2
		WHERE key_id = $3 AND status != $1;
	`
	result, err := r.Pool.Exec(ctx, query, domain.KeyStatusRevoked, revokedByUserID, keyID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to revoke subscription key "+keyID, err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("subscription key not found or already revoked")
	}
	return nil
}

func (r *PgxSubscriptionKeyRepository) ListRedemptionsByOrganization(ctx context.Context, organizationID string) ([]domain.Redemption, error) {
	query := `
		SELECT redemption_id, key_id, organization_id, redeemed_by, redeemed_at
		FROM subscription_redemptions
		WHERE organization_id = $1
		ORDER BY redeemed_at DESC;
	`
	rows, err := r.Pool.Query(ctx, query, organizationID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query redemptions for organization "+organizationID, err)
	}
	defer rows.Close()

	redemptions, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.Redemption])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.Redemption{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect redemption rows", err)
	}
	return redemptions, nil
}

// RedeemKey runs the whole redemption procedure inside one transaction. Both
// the key row and the organization row are locked FOR UPDATE, so two
// concurrent redemptions of a max_uses:1 key serialize: the second sees
// used_count already at max and fails with key_exhausted, and the counter,
// tenant transition and audit row land together or not at all.
func (r *PgxSubscriptionKeyRepository) RedeemKey(ctx context.Context, keyHash, organizationID, actorUserID string, now time.Time) (*domain.SubscriptionKey, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	keyQuery := `SELECT ` + subscriptionKeySelectColumns + `
		FROM subscription_keys k
		WHERE k.key_hash = $1
		FOR UPDATE;`
	key, err := scanSubscriptionKey(tx.QueryRow(ctx, keyQuery, keyHash))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrKeyNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to look up subscription key", err)
	}

	if err := key.CheckRedeemable(now); err != nil {
		return nil, err
	}

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
	if org.Status != domain.OrgStatusPendingActivation {
		return nil, domain.ErrOrgNotEligible
	}

	key.UsedCount++
	newStatus := key.Status
	if key.UsedCount >= key.MaxUses {
		newStatus = domain.KeyStatusExhausted
	}
	_, err = tx.Exec(ctx, `
		UPDATE subscription_keys
		SET used_count = $1, status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE key_id = $5;
	`, key.UsedCount, newStatus, now, actorUserID, key.KeyID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to increment subscription key usage "+key.KeyID, err)
	}
	key.Status = newStatus

	_, err = tx.Exec(ctx, `
		UPDATE organizations
		SET status = $1, enabled_modules = $2, last_updated_at = $3, last_updated_by = $4, version = version + 1
		WHERE organization_id = $5;
	`, domain.OrgStatusOnboarding, fromAppModules(key.EnabledModules), now, actorUserID, organizationID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to transition organization "+organizationID, err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO subscription_redemptions (redemption_id, key_id, organization_id, redeemed_by, redeemed_at)
		VALUES ($1, $2, $3, $4, $5);
	`, uuid.NewString(), key.KeyID, organizationID, actorUserID, now)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to record redemption for key "+key.KeyID, err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return key, nil
}
