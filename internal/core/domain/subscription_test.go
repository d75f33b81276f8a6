package domain_test

import (
	"testing"
	"time"

	"github.com/opsuite/opsuite_backend/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestSubscriptionKeyCheckRedeemable(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	future := now.Add(24 * time.Hour)
	past := now.Add(-24 * time.Hour)

	base := domain.SubscriptionKey{
		Status:    domain.KeyStatusActive,
		MaxUses:   3,
		UsedCount: 0,
		ExpiresAt: &future,
	}

	t.Run("valid key redeems", func(t *testing.T) {
		k := base
		assert.NoError(t, k.CheckRedeemable(now))
	})

	t.Run("no expiry never expires", func(t *testing.T) {
		k := base
		k.ExpiresAt = nil
		assert.NoError(t, k.CheckRedeemable(now))
	})

	t.Run("revoked wins over everything", func(t *testing.T) {
		k := base
		k.Status = domain.KeyStatusRevoked
		k.ExpiresAt = &past
		assert.ErrorIs(t, k.CheckRedeemable(now), domain.ErrKeyRevoked)
	})

	t.Run("expired", func(t *testing.T) {
		k := base
		k.ExpiresAt = &past
		assert.ErrorIs(t, k.CheckRedeemable(now), domain.ErrKeyExpired)
	})

	t.Run("exhausted by status", func(t *testing.T) {
		k := base
		k.Status = domain.KeyStatusExhausted
		assert.ErrorIs(t, k.CheckRedeemable(now), domain.ErrKeyExhausted)
	})

	t.Run("exhausted by count", func(t *testing.T) {
		k := base
		k.UsedCount = 3
		assert.ErrorIs(t, k.CheckRedeemable(now), domain.ErrKeyExhausted)
	})

	t.Run("one use left still redeems", func(t *testing.T) {
		k := base
		k.UsedCount = 2
		assert.NoError(t, k.CheckRedeemable(now))
	})
}
