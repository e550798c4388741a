package crypto

import (
	"context"
	"encoding/base64"

	"github.com/GregMSThompson/onboarding/internal/errs"
)

// encodingOnly stands in for KMS when no key is configured (local runs).
// It only base64-encodes, so stored values keep the same shape.
type encodingOnly struct{}

func NewEncodingOnly() *encodingOnly {
	return &encodingOnly{}
}

func (encodingOnly) Encrypt(_ context.Context, plaintext string) (string, error) {
	return base64.StdEncoding.EncodeToString([]byte(plaintext)), nil
}

func (encodingOnly) Decrypt(_ context.Context, ciphertext string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", errs.NewEncryptionError("ciphertext is not base64", err)
	}
	return string(raw), nil
}
