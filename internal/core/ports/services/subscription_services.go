package services

import (
	"context"
	"time"

	"github.com/opsuite/opsuite_backend/internal/core/domain"
)

// SubscriptionRedeemerSvc defines the tenant-facing subscription operations.
// Both require the caller to be a member of the organization or a platform
// admin; the subscription routes bypass the lifecycle guard, so membership is
// the only thing standing between tenants here.
type SubscriptionRedeemerSvc interface {
	// RedeemKey validates the presented passkey and atomically transitions
	// the organization from PENDING_ACTIVATION to ONBOARDING. Failures are
	// one of domain.ErrKeyNotFound, ErrKeyRevoked, ErrKeyExpired,
	// ErrKeyExhausted or ErrOrgNotEligible.
	RedeemKey(ctx context.Context, plaintextKey, organizationID, actorUserID string) (*domain.SubscriptionKey, error)

	// ListRedemptions retrieves the organization's redemption audit trail.
	ListRedemptions(ctx context.Context, organizationID, actorUserID string) ([]domain.Redemption, error)
}

// SubscriptionAdminSvc defines platform-admin key management operations
type SubscriptionAdminSvc interface {
	// CreateKey mints a new key and returns it with the plaintext passkey.
	// The plaintext is never persisted and never shown again.
	CreateKey(ctx context.Context, actorUserID, planTier string, maxUses int, expiresAt *time.Time, modules []domain.AppModule) (*domain.SubscriptionKey, string, error)

	// ListKeys retrieves keys, newest first. Platform admins only.
	ListKeys(ctx context.Context, actorUserID string, limit, offset int) ([]domain.SubscriptionKey, error)

	// RevokeKey marks a key REVOKED. Platform admins only.
	RevokeKey(ctx context.Context, actorUserID, keyID string) error
}

// SubscriptionSvcFacade combines all subscription service interfaces.
type SubscriptionSvcFacade interface {
	SubscriptionRedeemerSvc
	SubscriptionAdminSvc
}

// OnboardingSvcFacade defines the onboarding completion procedure.
type OnboardingSvcFacade interface {
	// CompleteOnboarding seeds the organization's defaults and transitions it
	// to ACTIVE. Idempotent: an already-ACTIVE organization returns an empty
	// appliedDefaults slice and no error. The caller must be a member of the
	// organization; any role qualifies.
	CompleteOnboarding(ctx context.Context, organizationID, actorUserID string) ([]string, error)
}
