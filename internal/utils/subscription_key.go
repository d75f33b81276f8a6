package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
)

// passkeyAlphabet omits ambiguous characters (0/O, 1/I/L) so keys survive
// being read over the phone.
const passkeyAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// GeneratePasskey creates a human-presentable activation key of the form
// OPS-XXXX-XXXX-XXXX. The plaintext is returned to the platform admin once
// and only its hash is persisted.
func GeneratePasskey() (string, error) {
	alphabetSize := big.NewInt(int64(len(passkeyAlphabet)))
	groups := make([]string, 3)
	for g := range groups {
		chars := make([]byte, 4)
		for i := range chars {
			// rand.Int is uniform over the alphabet; reducing a raw byte
			// modulo 31 would skew the distribution.
			n, err := rand.Int(rand.Reader, alphabetSize)
			if err != nil {
				return "", fmt.Errorf("failed to read random bytes: %w", err)
			}
			chars[i] = passkeyAlphabet[n.Int64()]
		}
		groups[g] = string(chars)
	}
	return "OPS-" + strings.Join(groups, "-"), nil
}

// HashSubscriptionKey produces the SHA-256 hex digest used to look up a key
// at redemption time. Normalized to upper case so keys are case-insensitive
// for the user.
func HashSubscriptionKey(plaintext string) string {
	normalized := strings.ToUpper(strings.TrimSpace(plaintext))
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}
