package services

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/GregMSThompson/onboarding/internal/dto"
	"github.com/GregMSThompson/onboarding/internal/errs"
	"github.com/GregMSThompson/onboarding/internal/metrics"
	"github.com/GregMSThompson/onboarding/pkg/logger"
)

type AccountResolver interface {
	ResolveAccountName(ctx context.Context, bankCode, accountNumber string) (string, error)
}

type accountService struct {
	resolver AccountResolver
	cache    Cache
	ttl      time.Duration
	metrics  *metrics.Metrics
	group    singleflight.Group
}

func NewAccountService(resolver AccountResolver, c Cache, ttl time.Duration, m *metrics.Metrics) *accountService {
	return &accountService{
		resolver: resolver,
		cache:    c,
		ttl:      ttl,
		metrics:  m,
	}
}

// ValidateAccount checks the pair locally before any lookup, then resolves
// the holder name through the cache and the configured resolver.
func (s *accountService) ValidateAccount(ctx context.Context, bankCode, accountNumber string) (string, error) {
	if bankCode == "" || accountNumber == "" {
		s.metrics.IncAccountValidation("invalid")
		return "", errs.NewValidationError("Bank code and account number are required")
	}
	if !dto.IsAccountNumber(accountNumber) {
		s.metrics.IncAccountValidation("invalid")
		return "", errs.NewValidationError("Account number must be 10 digits")
	}

	log := logger.FromContext(ctx)
	key := "acctname:" + bankCode + ":" + accountNumber

	if name, ok, err := s.cache.Get(ctx, key); err != nil {
		log.Warn("cache read failed", "cache", "account", "error", err)
	} else if ok && name != "" {
		s.metrics.CacheHit("account")
		s.metrics.IncAccountValidation("ok")
		return name, nil
	}
	s.metrics.CacheMiss("account")

	v, err, shared := s.group.Do(key, func() (any, error) {
		start := time.Now()
		defer s.metrics.ObserveResolve(start)

		// shared by every caller waiting on key, so one caller going away
		// must not cancel it for the rest
		callCtx := context.WithoutCancel(ctx)

		name, err := s.resolver.ResolveAccountName(callCtx, bankCode, accountNumber)
		if err != nil {
			return "", err
		}
		if err := s.cache.Set(callCtx, key, name, s.ttl); err != nil {
			log.Warn("cache write failed", "cache", "account", "error", err)
		}
		return name, nil
	})
	if err != nil {
		var ve *errs.ValidationError
		if errors.As(err, &ve) {
			s.metrics.IncAccountValidation("invalid")
		} else {
			s.metrics.IncAccountValidation("error")
		}
		return "", err
	}

	log.Debug("account resolved", "bank_code", bankCode, "shared", shared)
	s.metrics.IncAccountValidation("ok")
	return v.(string), nil
}
