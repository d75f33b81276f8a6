package dto

import (
	"time"

	"github.com/opsuite/opsuite_backend/internal/core/domain"
)

// RedeemKeyRequest carries a passkey presented for redemption. The target
// organization comes from the route.
type RedeemKeyRequest struct {
	Key string `json:"key" binding:"required"`
}

// RedeemKeyResponse reports a successful activation.
type RedeemKeyResponse struct {
	OrganizationID string             `json:"organizationID"`
	Status         domain.OrgStatus   `json:"status"`
	EnabledModules []domain.AppModule `json:"enabledModules"`
	PlanTier       string             `json:"planTier"`
}

// CreateKeyRequest defines the platform-admin key minting payload.
type CreateKeyRequest struct {
	PlanTier  string             `json:"planTier" binding:"required"`
	MaxUses   int                `json:"maxUses" binding:"required,min=1"`
	ExpiresAt *time.Time         `json:"expiresAt"`
	Modules   []domain.AppModule `json:"modules" binding:"required,min=1"`
}

// CreateKeyResponse returns the minted key. Passkey is the plaintext shown
// exactly once.
type CreateKeyResponse struct {
	Key     SubscriptionKeyResponse `json:"key"`
	Passkey string                  `json:"passkey"`
}

// SubscriptionKeyResponse is the admin view of a key. The hash never leaves
// the server.
type SubscriptionKeyResponse struct {
	KeyID          string             `json:"keyID"`
	PlanTier       string             `json:"planTier"`
	MaxUses        int                `json:"maxUses"`
	UsedCount      int                `json:"usedCount"`
	ExpiresAt      *time.Time         `json:"expiresAt,omitempty"`
	EnabledModules []domain.AppModule `json:"enabledModules"`
	Status         domain.KeyStatus   `json:"status"`
	CreatedAt      time.Time          `json:"createdAt"`
}

// ToSubscriptionKeyResponse converts a domain.SubscriptionKey.
func ToSubscriptionKeyResponse(key *domain.SubscriptionKey) SubscriptionKeyResponse {
	return SubscriptionKeyResponse{
		KeyID:          key.KeyID,
		PlanTier:       key.PlanTier,
		MaxUses:        key.MaxUses,
		UsedCount:      key.UsedCount,
		ExpiresAt:      key.ExpiresAt,
		EnabledModules: key.EnabledModules,
		Status:         key.Status,
		CreatedAt:      key.CreatedAt,
	}
}

// ListKeysParams defines query parameters for listing keys.
type ListKeysParams struct {
	Limit  int `form:"limit,default=50"`
	Offset int `form:"offset,default=0"`
}

// ListKeysResponse wraps the platform admin key listing.
type ListKeysResponse struct {
	Keys []SubscriptionKeyResponse `json:"keys"`
}

// ToListKeysResponse converts a slice of domain.SubscriptionKey.
func ToListKeysResponse(keys []domain.SubscriptionKey) ListKeysResponse {
	responses := make([]SubscriptionKeyResponse, len(keys))
	for i, key := range keys {
		responses[i] = ToSubscriptionKeyResponse(&key)
	}
	return ListKeysResponse{Keys: responses}
}

// RedemptionResponse is one entry of an organization's redemption audit trail.
type RedemptionResponse struct {
	RedemptionID   string    `json:"redemptionID"`
	KeyID          string    `json:"keyID"`
	OrganizationID string    `json:"organizationID"`
	RedeemedBy     string    `json:"redeemedBy"`
	RedeemedAt     time.Time `json:"redeemedAt"`
}

// ListRedemptionsResponse wraps an organization's redemption history.
type ListRedemptionsResponse struct {
	Redemptions []RedemptionResponse `json:"redemptions"`
}

// ToListRedemptionsResponse converts a slice of domain.Redemption.
func ToListRedemptionsResponse(redemptions []domain.Redemption) ListRedemptionsResponse {
	responses := make([]RedemptionResponse, len(redemptions))
	for i, r := range redemptions {
		responses[i] = RedemptionResponse{
			RedemptionID:   r.RedemptionID,
			KeyID:          r.KeyID,
			OrganizationID: r.OrganizationID,
			RedeemedBy:     r.RedeemedBy,
			RedeemedAt:     r.RedeemedAt,
		}
	}
	return ListRedemptionsResponse{Redemptions: responses}
}

// CompleteOnboardingResponse reports the defaults applied during setup.
type CompleteOnboardingResponse struct {
	OrganizationID  string   `json:"organizationID"`
	Status          string   `json:"status"`
	AppliedDefaults []string `json:"appliedDefaults"`
}
