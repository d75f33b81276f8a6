package utils_test

import (
	"regexp"
	"testing"

	"github.com/opsuite/opsuite_backend/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratePasskeyFormat(t *testing.T) {
	format := regexp.MustCompile(`^OPS-[ABCDEFGHJKMNPQRSTUVWXYZ23456789]{4}-[ABCDEFGHJKMNPQRSTUVWXYZ23456789]{4}-[ABCDEFGHJKMNPQRSTUVWXYZ23456789]{4}$`)

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		key, err := utils.GeneratePasskey()
		require.NoError(t, err)
		assert.Regexp(t, format, key)
		assert.False(t, seen[key], "generated a duplicate passkey")
		seen[key] = true
	}
}

func TestGeneratePasskeyCoversWholeAlphabet(t *testing.T) {
	// Characters are drawn uniformly from the 31-letter alphabet; across a few
	// thousand draws every letter must show up.
	counts := make(map[byte]int)
	for i := 0; i < 500; i++ {
		key, err := utils.GeneratePasskey()
		require.NoError(t, err)
		for _, group := range []string{key[4:8], key[9:13], key[14:18]} {
			for j := 0; j < len(group); j++ {
				counts[group[j]]++
			}
		}
	}

	const alphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"
	for i := 0; i < len(alphabet); i++ {
		assert.Positive(t, counts[alphabet[i]], "letter %q never generated", alphabet[i])
	}
	assert.Len(t, counts, len(alphabet))
}

func TestHashSubscriptionKey_CaseAndWhitespaceInsensitive(t *testing.T) {
	canonical := utils.HashSubscriptionKey("OPS-ABCD-EFGH-JKMN")

	assert.Equal(t, canonical, utils.HashSubscriptionKey("ops-abcd-efgh-jkmn"))
	assert.Equal(t, canonical, utils.HashSubscriptionKey("  OPS-ABCD-EFGH-JKMN  "))
	assert.NotEqual(t, canonical, utils.HashSubscriptionKey("OPS-ABCD-EFGH-JKMP"))

	// SHA-256 hex digest.
	assert.Len(t, canonical, 64)
}
