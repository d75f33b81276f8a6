package repositories

import (
	"context"
	"time"

	"github.com/opsuite/opsuite_backend/internal/core/domain"
)

// SubscriptionKeyReader defines read operations for subscription keys
type SubscriptionKeyReader interface {
	// FindKeyByID retrieves a key by its ID.
	FindKeyByID(ctx context.Context, keyID string) (*domain.SubscriptionKey, error)

	// ListKeys retrieves all keys, newest first.
	ListKeys(ctx context.Context, limit, offset int) ([]domain.SubscriptionKey, error)

	// ListRedemptionsByOrganization retrieves the redemption audit trail for an organization.
	ListRedemptionsByOrganization(ctx context.Context, organizationID string) ([]domain.Redemption, error)
}

// SubscriptionKeyWriter defines write operations for subscription keys
type SubscriptionKeyWriter interface {
	// SaveKey persists a new key. Only the hash of the passkey is stored.
	SaveKey(ctx context.Context, key domain.SubscriptionKey) error

	// RevokeKey marks a key REVOKED. Revocation is a platform action and is
	// never reversed.
	RevokeKey(ctx context.Context, keyID, revokedByUserID string) error
}

// SubscriptionRedeemer performs the whole redemption procedure as one
// database transaction: lock the key row by hash, validate it, lock the
// organization row, verify it is PENDING_ACTIVATION, increment used_count
// (flipping status to EXHAUSTED on the last use), copy the key's module set
// onto the organization, transition it to ONBOARDING and append a redemption
// audit row. Concurrent redemptions of a max_uses:1 key serialize on the row
// lock so exactly one succeeds.
type SubscriptionRedeemer interface {
	// RedeemKey returns the redeemed key on success, or one of the
	// domain.ErrKey*/ErrOrgNotEligible failure reasons.
	RedeemKey(ctx context.Context, keyHash, organizationID, actorUserID string, now time.Time) (*domain.SubscriptionKey, error)
}

// SubscriptionKeyRepositoryFacade combines all subscription key repository interfaces.
type SubscriptionKeyRepositoryFacade interface {
	SubscriptionKeyReader
	SubscriptionKeyWriter
	SubscriptionRedeemer
}
