package bootstrap

import (
	"context"
	"errors"
	"fmt"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"

	"github.com/GregMSThompson/onboarding/internal/config"
	"github.com/GregMSThompson/onboarding/internal/store"
)

var ErrNoSigningKey = errors.New("no JWT signing key: set JWT_SIGNING_KEY or JWT_SECRET_NAME")

// LoadSigningKey prefers an explicit key and otherwise reads the latest
// version of JWT_SECRET_NAME from Secret Manager.
func LoadSigningKey(ctx context.Context, cfg *config.Config) (string, error) {
	if cfg.JWTSigningKey != "" {
		return cfg.JWTSigningKey, nil
	}
	if cfg.JWTSecretName == "" {
		return "", ErrNoSigningKey
	}

	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return "", fmt.Errorf("secret manager client: %w", err)
	}
	defer client.Close()

	key, err := store.NewSecretStore(client, cfg.ProjectID).Latest(ctx, cfg.JWTSecretName)
	if err != nil {
		return "", fmt.Errorf("load signing key: %w", err)
	}
	return key, nil
}
