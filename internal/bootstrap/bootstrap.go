package bootstrap

import (
	"context"
	"errors"
	"log/slog"

	"cloud.google.com/go/firestore"
	gcpkms "cloud.google.com/go/kms/apiv1"
	"firebase.google.com/go/v4/auth"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"

	"github.com/GregMSThompson/onboarding/internal/config"
	"github.com/GregMSThompson/onboarding/pkg/logger"
)

// Bootstrap holds the process-wide clients. Any client whose feature is
// disabled in config is left nil.
type Bootstrap struct {
	Log        *slog.Logger
	Firestore  *firestore.Client
	Firebase   *auth.Client
	KMS        *gcpkms.KeyManagementClient
	Redis      *redis.Client
	NATS       *nats.Conn
	SigningKey string
}

func Run(cfg *config.Config) (*Bootstrap, error) {
	var err error
	applicationCtx := context.Background()
	bs := new(Bootstrap)

	bs.Log = logger.New(cfg.LogLevel, logger.NewCloudRunHandler)

	if cfg.FirestoreEnabled {
		bs.Firestore, err = InitFirestore(applicationCtx, cfg.ProjectID)
		if err != nil {
			return bs, err
		}
	}
	if cfg.FirebaseEnabled {
		bs.Firebase, err = InitFirebase(applicationCtx, cfg.ProjectID)
		if err != nil {
			return bs, err
		}
	}
	if cfg.KMSKeyName != "" {
		bs.KMS, err = InitKMS(applicationCtx)
		if err != nil {
			return bs, err
		}
	}
	if cfg.RedisURL != "" {
		bs.Redis, err = InitRedis(applicationCtx, cfg.RedisURL)
		if err != nil {
			return bs, err
		}
	}
	if cfg.NATSURL != "" {
		bs.NATS, err = InitNATS(cfg.NATSURL, bs.Log)
		if err != nil {
			return bs, err
		}
	}

	bs.SigningKey, err = LoadSigningKey(applicationCtx, cfg)
	if err != nil {
		return bs, err
	}

	return bs, nil
}

// Close releases every client that was opened.
func (bs *Bootstrap) Close() error {
	var errs []error
	if bs.NATS != nil {
		if err := bs.NATS.Drain(); err != nil {
			errs = append(errs, err)
		}
	}
	if bs.Redis != nil {
		errs = append(errs, bs.Redis.Close())
	}
	if bs.KMS != nil {
		errs = append(errs, bs.KMS.Close())
	}
	if bs.Firestore != nil {
		errs = append(errs, bs.Firestore.Close())
	}
	return errors.Join(errs...)
}
