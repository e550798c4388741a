package crypto

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

type keyedHasher struct {
	key []byte
}

// NewKeyedHasher returns a deterministic HMAC-SHA256 hasher. Ciphertexts
// from KMS are not comparable, so duplicate checks run on this hash instead.
func NewKeyedHasher(key string) *keyedHasher {
	return &keyedHasher{key: []byte(key)}
}

func (h *keyedHasher) Hash(value string) string {
	mac := hmac.New(sha256.New, h.key)
	mac.Write([]byte(strings.TrimSpace(value)))
	return hex.EncodeToString(mac.Sum(nil))
}
