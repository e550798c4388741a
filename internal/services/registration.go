package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/GregMSThompson/onboarding/internal/client/identity"
	"github.com/GregMSThompson/onboarding/internal/dto"
	"github.com/GregMSThompson/onboarding/internal/errs"
	"github.com/GregMSThompson/onboarding/internal/metrics"
	"github.com/GregMSThompson/onboarding/internal/models"
	"github.com/GregMSThompson/onboarding/pkg/logger"
)

type RegistrationStore interface {
	Create(ctx context.Context, reg *models.Registration) error
	Get(ctx context.Context, registrationID string) (*models.Registration, error)
	ExistsByBVNHash(ctx context.Context, provider, bvnHash string) (bool, error)
}

type FieldCipher interface {
	Encrypt(ctx context.Context, plaintext string) (string, error)
}

type fieldHasher interface {
	Hash(value string) string
}

type accountValidator interface {
	ValidateAccount(ctx context.Context, bankCode, accountNumber string) (string, error)
}

type identityProvisioner interface {
	CreateUser(ctx context.Context, u identity.NewUser) (string, error)
	DeleteUser(ctx context.Context, uid string) error
}

type tokenMinter interface {
	Mint(registrationID, provider string) (string, error)
}

type EventPublisher interface {
	RegistrationCompleted(ctx context.Context, evt dto.RegistrationCompletedEvent) error
}

type RegistrationDeps struct {
	Store     RegistrationStore
	Cipher    FieldCipher
	Hasher    fieldHasher
	Accounts  accountValidator
	Identity  identityProvisioner // optional
	Tokens    tokenMinter
	Events    EventPublisher
	Metrics   *metrics.Metrics
	Providers []string
}

type registrationService struct {
	store     RegistrationStore
	cipher    FieldCipher
	hasher    fieldHasher
	accounts  accountValidator
	identity  identityProvisioner
	tokens    tokenMinter
	events    EventPublisher
	metrics   *metrics.Metrics
	providers map[string]bool
	newID     func() string
}

func NewRegistrationService(d RegistrationDeps) *registrationService {
	providers := make(map[string]bool, len(d.Providers))
	for _, p := range d.Providers {
		providers[strings.ToLower(p)] = true
	}
	return &registrationService{
		store:     d.Store,
		cipher:    d.Cipher,
		hasher:    d.Hasher,
		accounts:  d.Accounts,
		identity:  d.Identity,
		tokens:    d.Tokens,
		events:    d.Events,
		metrics:   d.Metrics,
		providers: providers,
		newID:     uuid.NewString,
	}
}

func (s *registrationService) Register(ctx context.Context, provider string, form dto.RegistrationFormData) (dto.RegistrationResponse, error) {
	start := time.Now()
	defer s.metrics.ObserveRegistration(start)

	provider = strings.ToLower(provider)
	resp, err := s.register(ctx, provider, form)
	if err != nil {
		s.metrics.IncRegistration(provider, outcomeOf(err))
		return nil, err
	}
	s.metrics.IncRegistration(provider, "success")
	return resp, nil
}

func (s *registrationService) register(ctx context.Context, provider string, form dto.RegistrationFormData) (dto.RegistrationResponse, error) {
	if err := validateRegistration(form); err != nil {
		return nil, err
	}
	if !s.providers[provider] {
		return nil, errs.NewNotFoundError("Unknown registration provider")
	}

	regID := s.newID()
	log, ctx := logger.With(ctx, "registration_id", regID, "provider", provider)

	// the stored name always comes from the resolver; a client value is
	// only accepted when it agrees with it
	accountName, err := s.accounts.ValidateAccount(ctx, form.BankID, form.AccountNumber)
	if err != nil {
		return nil, err
	}
	if supplied := strings.TrimSpace(form.AccountName); supplied != "" && !strings.EqualFold(supplied, accountName) {
		log.Warn("supplied account name does not match resolved name")
		return nil, errs.NewValidationError("Account name does not match bank records")
	}

	bvnHash := s.hasher.Hash(form.BVN)
	exists, err := s.store.ExistsByBVNHash(ctx, provider, bvnHash)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errs.NewAlreadyExistsError("A registration already exists for this BVN")
	}

	ninCipher, err := s.cipher.Encrypt(ctx, form.NIN)
	if err != nil {
		return nil, err
	}
	bvnCipher, err := s.cipher.Encrypt(ctx, form.BVN)
	if err != nil {
		return nil, err
	}

	reg := &models.Registration{
		RegistrationID: regID,
		Provider:       provider,
		FirstName:      form.FirstName,
		Surname:        form.Surname,
		Phone:          form.Phone,
		Email:          form.Email,
		NINCipher:      ninCipher,
		BVNCipher:      bvnCipher,
		BVNHash:        bvnHash,
		Address:        form.Address,
		RegionID:       form.RegionID,
		ZoneID:         form.ZoneID,
		BankID:         form.BankID,
		AccountNumber:  form.AccountNumber,
		AccountName:    accountName,
		ParallexID:     form.ParallexID,
	}

	if s.identity != nil {
		uid, err := s.identity.CreateUser(ctx, identity.NewUser{
			UID:         regID,
			DisplayName: strings.TrimSpace(form.FirstName + " " + form.Surname),
			Email:       form.Email,
			Phone:       form.Phone,
		})
		if err != nil {
			return nil, err
		}
		reg.IdentityUID = uid
	}

	if err := s.store.Create(ctx, reg); err != nil {
		// the identity user would otherwise be orphaned
		if reg.IdentityUID != "" {
			if derr := s.identity.DeleteUser(ctx, reg.IdentityUID); derr != nil {
				log.Error("failed to remove identity after store failure", "uid", reg.IdentityUID, "error", derr)
			}
		}
		return nil, err
	}

	tok, err := s.tokens.Mint(regID, provider)
	if err != nil {
		return nil, err
	}

	evt := dto.RegistrationCompletedEvent{
		RegistrationID: regID,
		Provider:       provider,
		BankID:         reg.BankID,
		RegionID:       reg.RegionID,
		ZoneID:         reg.ZoneID,
		CreatedAt:      reg.CreatedAt.UTC().Format(time.RFC3339),
	}
	if err := s.events.RegistrationCompleted(ctx, evt); err != nil {
		s.metrics.IncEventPublishFailed()
		log.Warn("registration event not published", "error", err)
	}

	log.Info("registration completed")
	return dto.RegistrationResponse{
		dto.AuthTokenField: tok,
		"registration_id":  regID,
		"account_name":     accountName,
	}, nil
}

func (s *registrationService) GetRegistration(ctx context.Context, registrationID string) (dto.RegistrationSummary, error) {
	reg, err := s.store.Get(ctx, registrationID)
	if err != nil {
		return dto.RegistrationSummary{}, err
	}
	return dto.RegistrationSummary{
		RegistrationID: reg.RegistrationID,
		Provider:       reg.Provider,
		FirstName:      reg.FirstName,
		Surname:        reg.Surname,
		Phone:          reg.Phone,
		Email:          reg.Email,
		RegionID:       reg.RegionID,
		ZoneID:         reg.ZoneID,
		BankID:         reg.BankID,
		AccountNumber:  reg.AccountNumber,
		AccountName:    reg.AccountName,
		CreatedAt:      reg.CreatedAt.UTC().Format(time.RFC3339),
	}, nil
}

func outcomeOf(err error) string {
	switch err.(type) {
	case *errs.ValidationError:
		return "invalid"
	case *errs.NotFoundError:
		return "unknown_provider"
	case *errs.AlreadyExistsError:
		return "duplicate"
	default:
		return "error"
	}
}
