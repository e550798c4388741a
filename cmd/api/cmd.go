package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/GregMSThompson/onboarding/internal/bootstrap"
	"github.com/GregMSThompson/onboarding/internal/client/identity"
	"github.com/GregMSThompson/onboarding/internal/client/nameenquiry"
	"github.com/GregMSThompson/onboarding/internal/config"
	"github.com/GregMSThompson/onboarding/internal/crypto"
	"github.com/GregMSThompson/onboarding/internal/events"
	"github.com/GregMSThompson/onboarding/internal/handlers"
	"github.com/GregMSThompson/onboarding/internal/metrics"
	"github.com/GregMSThompson/onboarding/internal/middleware"
	"github.com/GregMSThompson/onboarding/internal/response"
	"github.com/GregMSThompson/onboarding/internal/router"
	"github.com/GregMSThompson/onboarding/internal/services"
	"github.com/GregMSThompson/onboarding/internal/store"
	"github.com/GregMSThompson/onboarding/internal/token"
)

func exitOnError(message string, err error, log *slog.Logger) {
	if err != nil {
		log.Error(message, "error", err)
		os.Exit(1)
	}
}

func main() {
	// bootstrap
	cfg := config.New()
	bs, err := bootstrap.Run(cfg)
	exitOnError("bootstrap failed", err, bs.Log)
	defer bs.Close()

	// metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	// helpers
	var cipher services.FieldCipher = crypto.NewEncodingOnly()
	if bs.KMS != nil {
		cipher = crypto.NewKMS(bs.KMS, cfg.KMSKeyName)
	} else {
		bs.Log.Warn("KMS_KEY_NAME not set; identity numbers are stored unencrypted")
	}
	if cfg.BVNHashKey == "" {
		bs.Log.Warn("BVN_HASH_KEY not set; duplicate detection uses the signing key")
		cfg.BVNHashKey = bs.SigningKey
	}
	hasher := crypto.NewKeyedHasher(cfg.BVNHashKey)
	tokens := token.NewIssuer(bs.SigningKey, cfg.TokenTTL)

	// stores
	var directoryCache, accountCache services.Cache = store.NewNopCache(), store.NewNopCache()
	if bs.Redis != nil {
		directoryCache = store.NewRedisCache(bs.Redis, "onboarding:directory:")
		accountCache = store.NewRedisCache(bs.Redis, "onboarding:")
	}

	var (
		dirSource services.DirectorySource   = store.NewStaticDirectory()
		regStore  services.RegistrationStore = store.NewMemoryRegistrationStore()
	)
	if bs.Firestore != nil {
		dirSource = store.NewDirectoryStore(bs.Firestore)
		regStore = store.NewRegistrationStore(bs.Firestore)
	} else {
		bs.Log.Warn("FIRESTORE_ENABLED not set; using seed directory and in-memory registrations")
	}

	// clients
	var resolver services.AccountResolver = store.NewStaticAccounts()
	if cfg.NameEnquiryURL != "" {
		resolver = nameenquiry.NewAdapter(cfg.NameEnquiryURL, cfg.NameEnquiryAPIKey)
	}

	var publisher services.EventPublisher = events.NewNopPublisher()
	if bs.NATS != nil {
		publisher = events.NewNATSPublisher(bs.NATS)
	}

	// services
	dirsvc := services.NewDirectoryService(dirSource, directoryCache, cfg.DirectoryCacheTTL, m)
	acctsvc := services.NewAccountService(resolver, accountCache, cfg.AccountCacheTTL, m)
	regDeps := services.RegistrationDeps{
		Store:     regStore,
		Cipher:    cipher,
		Hasher:    hasher,
		Accounts:  acctsvc,
		Tokens:    tokens,
		Events:    publisher,
		Metrics:   m,
		Providers: cfg.RegistrationProviders,
	}
	if bs.Firebase != nil {
		regDeps.Identity = identity.NewAdapter(bs.Firebase)
	}
	regsvc := services.NewRegistrationService(regDeps)

	// response handler
	rh := response.New(bs.Log)

	// dependancies
	deps := new(handlers.Deps)
	deps.Log = bs.Log
	deps.ResponseHandler = rh
	deps.DirectorySvc = dirsvc
	deps.AccountSvc = acctsvc
	deps.RegistrationSvc = regsvc
	deps.HealthChecks = healthChecks(bs)

	// router
	r := router.NewRouter(deps, router.Middleware{
		Logger: middleware.NewLoggerMiddleware(bs.Log).LoggerMiddleware,
		Auth:   middleware.NewAuthMiddleware(tokens, rh).BearerAuth,
	}, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			bs.Log.Error("server shutdown failed", "error", err)
		}
	}()

	bs.Log.Info("server starting", "port", cfg.Port, "providers", cfg.RegistrationProviders)
	err = srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		err = nil
	}
	exitOnError("server start failed", err, bs.Log)
}

func healthChecks(bs *bootstrap.Bootstrap) map[string]handlers.HealthCheck {
	checks := map[string]handlers.HealthCheck{}
	if bs.Redis != nil {
		checks["redis"] = func(ctx context.Context) error {
			return bs.Redis.Ping(ctx).Err()
		}
	}
	if bs.NATS != nil {
		checks["nats"] = func(context.Context) error {
			if bs.NATS.Status() != nats.CONNECTED {
				return errors.New(bs.NATS.Status().String())
			}
			return nil
		}
	}
	return checks
}
