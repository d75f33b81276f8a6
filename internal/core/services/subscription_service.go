package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/opsuite/opsuite_backend/internal/apperrors"
	"github.com/opsuite/opsuite_backend/internal/core/domain"
	portsrepo "github.com/opsuite/opsuite_backend/internal/core/ports/repositories"
	portssvc "github.com/opsuite/opsuite_backend/internal/core/ports/services"
	"github.com/opsuite/opsuite_backend/internal/utils"
)

// subscriptionService implements the SubscriptionSvcFacade interface
type subscriptionService struct {
	BaseService
	subRepo  portsrepo.SubscriptionKeyRepositoryFacade
	roleRepo portsrepo.RoleAssignmentReader
	userRepo portsrepo.UserReader
}

// NewSubscriptionService creates a new subscription service with the provided dependencies
func NewSubscriptionService(
	subRepo portsrepo.SubscriptionKeyRepositoryFacade,
	roleRepo portsrepo.RoleAssignmentReader,
	userRepo portsrepo.UserReader,
) portssvc.SubscriptionSvcFacade {
	return &subscriptionService{
		subRepo:  subRepo,
		roleRepo: roleRepo,
		userRepo: userRepo,
	}
}

// Ensure subscriptionService implements the SubscriptionSvcFacade interface
var _ portssvc.SubscriptionSvcFacade = (*subscriptionService)(nil)

// RedeemKey hashes the presented passkey and runs the atomic redemption
// procedure. The failure reason is surfaced verbatim so the frontend can tell
// an expired key apart from an exhausted one. The redemption route is exempt
// from the lifecycle guard, so membership is checked here: a key holder must
// not be able to activate someone else's organization.
func (s *subscriptionService) RedeemKey(ctx context.Context, plaintextKey, organizationID, actorUserID string) (*domain.SubscriptionKey, error) {
	if plaintextKey == "" {
		return nil, apperrors.NewValidationFailedError("subscription key is required", nil)
	}
	if err := s.requireMemberOrPlatformAdmin(ctx, actorUserID, organizationID); err != nil {
		return nil, err
	}

	keyHash := utils.HashSubscriptionKey(plaintextKey)
	key, err := s.subRepo.RedeemKey(ctx, keyHash, organizationID, actorUserID, time.Now())
	if err != nil {
		// Redemption failures are expected traffic, not server faults.
		switch {
		case errors.Is(err, domain.ErrKeyNotFound),
			errors.Is(err, domain.ErrKeyRevoked),
			errors.Is(err, domain.ErrKeyExpired),
			errors.Is(err, domain.ErrKeyExhausted),
			errors.Is(err, domain.ErrOrgNotEligible):
			s.LogInfo(ctx, "Subscription key redemption rejected",
				slog.String("organization_id", organizationID),
				slog.String("reason", err.Error()))
		default:
			s.LogError(ctx, err, "Subscription key redemption failed",
				slog.String("organization_id", organizationID))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Subscription key redeemed",
		slog.String("key_id", key.KeyID),
		slog.String("organization_id", organizationID),
		slog.String("redeemed_by", actorUserID))
	return key, nil
}

// ListRedemptions retrieves the redemption audit trail for members of the
// organization and platform admins.
func (s *subscriptionService) ListRedemptions(ctx context.Context, organizationID, actorUserID string) ([]domain.Redemption, error) {
	if err := s.requireMemberOrPlatformAdmin(ctx, actorUserID, organizationID); err != nil {
		return nil, err
	}
	redemptions, err := s.subRepo.ListRedemptionsByOrganization(ctx, organizationID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list redemptions",
			slog.String("organization_id", organizationID))
		return nil, err
	}
	if redemptions == nil {
		return []domain.Redemption{}, nil
	}
	return redemptions, nil
}

// CreateKey mints a new key. The plaintext passkey is returned exactly once;
// only its hash is stored.
func (s *subscriptionService) CreateKey(ctx context.Context, actorUserID, planTier string, maxUses int, expiresAt *time.Time, modules []domain.AppModule) (*domain.SubscriptionKey, string, error) {
	if err := s.requirePlatformAdmin(ctx, actorUserID); err != nil {
		return nil, "", err
	}
	if maxUses < 1 {
		return nil, "", apperrors.NewValidationFailedError("maxUses must be at least 1", nil)
	}
	if len(modules) == 0 {
		return nil, "", apperrors.NewValidationFailedError("at least one module is required", nil)
	}
	for _, m := range modules {
		if !domain.ValidModule(m) {
			return nil, "", apperrors.NewValidationFailedError("unknown module: "+string(m), nil)
		}
	}
	if expiresAt != nil && expiresAt.Before(time.Now()) {
		return nil, "", apperrors.NewValidationFailedError("expiresAt is in the past", nil)
	}

	passkey, err := utils.GeneratePasskey()
	if err != nil {
		s.LogError(ctx, err, "Failed to generate passkey")
		return nil, "", err
	}

	now := time.Now()
	key := domain.SubscriptionKey{
		KeyID:          uuid.NewString(),
		KeyHash:        utils.HashSubscriptionKey(passkey),
		PlanTier:       planTier,
		MaxUses:        maxUses,
		UsedCount:      0,
		ExpiresAt:      expiresAt,
		EnabledModules: modules,
		Status:         domain.KeyStatusActive,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorUserID,
		},
	}

	if err := s.subRepo.SaveKey(ctx, key); err != nil {
		s.LogError(ctx, err, "Failed to save subscription key",
			slog.String("key_id", key.KeyID))
		return nil, "", err
	}

	s.LogInfo(ctx, "Subscription key created",
		slog.String("key_id", key.KeyID),
		slog.String("plan_tier", planTier),
		slog.Int("max_uses", maxUses),
		slog.String("created_by", actorUserID))
	return &key, passkey, nil
}

// ListKeys retrieves keys, newest first. Platform admins only.
func (s *subscriptionService) ListKeys(ctx context.Context, actorUserID string, limit, offset int) ([]domain.SubscriptionKey, error) {
	if err := s.requirePlatformAdmin(ctx, actorUserID); err != nil {
		return nil, err
	}
	keys, err := s.subRepo.ListKeys(ctx, limit, offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list subscription keys")
		return nil, err
	}
	if keys == nil {
		return []domain.SubscriptionKey{}, nil
	}
	return keys, nil
}

// RevokeKey marks a key REVOKED. Platform admins only; never reversed.
func (s *subscriptionService) RevokeKey(ctx context.Context, actorUserID, keyID string) error {
	if err := s.requirePlatformAdmin(ctx, actorUserID); err != nil {
		return err
	}
	if err := s.subRepo.RevokeKey(ctx, keyID, actorUserID); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to revoke subscription key",
				slog.String("key_id", keyID))
		}
		return err
	}
	s.LogInfo(ctx, "Subscription key revoked",
		slog.String("key_id", keyID),
		slog.String("revoked_by", actorUserID))
	return nil
}

func (s *subscriptionService) requireMemberOrPlatformAdmin(ctx context.Context, userID, organizationID string) error {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.ErrForbidden
		}
		return err
	}
	if user.IsPlatformAdmin {
		return nil
	}
	assignments, err := s.roleRepo.ListRoleAssignments(ctx, userID, organizationID)
	if err != nil {
		return err
	}
	if len(assignments) == 0 {
		return apperrors.ErrForbidden
	}
	return nil
}

func (s *subscriptionService) requirePlatformAdmin(ctx context.Context, userID string) error {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.ErrForbidden
		}
		return err
	}
	if !user.IsPlatformAdmin {
		return apperrors.ErrForbidden
	}
	return nil
}
