package domain

import (
	"errors"
	"time"
)

// KeyStatus is the stored state of a subscription key. Expiry is derived at
// read time from ExpiresAt, never stored as a transition.
type KeyStatus string

const (
	KeyStatusActive    KeyStatus = "ACTIVE"
	KeyStatusRevoked   KeyStatus = "REVOKED"
	KeyStatusExhausted KeyStatus = "EXHAUSTED" // used_count reached max_uses
)

// Redemption failure reasons, surfaced verbatim as error codes to callers.
var (
	ErrKeyNotFound    = errors.New("key_not_found")
	ErrKeyRevoked     = errors.New("key_revoked")
	ErrKeyExpired     = errors.New("key_expired")
	ErrKeyExhausted   = errors.New("key_exhausted")
	ErrOrgNotEligible = errors.New("organization_not_eligible")
)

// SubscriptionKey is a limited-use activation code. Only the SHA-256 hash of
// the human-presented passkey is persisted; the plaintext is shown to the
// platform admin exactly once at creation.
type SubscriptionKey struct {
	KeyID          string      `json:"keyID" db:"key_id"`
	KeyHash        string      `json:"-" db:"key_hash"`
	PlanTier       string      `json:"planTier" db:"plan_tier"`
	MaxUses        int         `json:"maxUses" db:"max_uses"`
	UsedCount      int         `json:"usedCount" db:"used_count"`
	ExpiresAt      *time.Time  `json:"expiresAt,omitempty" db:"expires_at"`
	EnabledModules []AppModule `json:"enabledModules" db:"enabled_modules"`
	Status         KeyStatus   `json:"status" db:"status"`
	AuditFields
}

// CheckRedeemable validates the key against the redemption rules, returning
// the specific failure reason or nil when the key may be consumed.
func (k *SubscriptionKey) CheckRedeemable(now time.Time) error {
	switch k.Status {
	case KeyStatusRevoked:
		return ErrKeyRevoked
	case KeyStatusExhausted:
		return ErrKeyExhausted
	}
	if k.ExpiresAt != nil && now.After(*k.ExpiresAt) {
		return ErrKeyExpired
	}
	if k.UsedCount >= k.MaxUses {
		return ErrKeyExhausted
	}
	return nil
}

// Redemption is an append-only audit record linking a key to the organization
// that consumed it. Never mutated or deleted.
type Redemption struct {
	RedemptionID   string    `json:"redemptionID" db:"redemption_id"`
	KeyID          string    `json:"keyID" db:"key_id"`
	OrganizationID string    `json:"organizationID" db:"organization_id"`
	RedeemedBy     string    `json:"redeemedBy" db:"redeemed_by"` // UserID
	RedeemedAt     time.Time `json:"redeemedAt" db:"redeemed_at"`
}
