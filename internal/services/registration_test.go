package services

import (
	"context"
	"errors"
	"testing"

	"github.com/GregMSThompson/onboarding/internal/client/identity"
	"github.com/GregMSThompson/onboarding/internal/crypto"
	"github.com/GregMSThompson/onboarding/internal/dto"
	"github.com/GregMSThompson/onboarding/internal/errs"
	"github.com/GregMSThompson/onboarding/internal/models"
	"github.com/GregMSThompson/onboarding/internal/store"
	"github.com/GregMSThompson/onboarding/pkg/helpers"
)

type fakeAccounts struct {
	name  string
	err   error
	calls int
}

func (f *fakeAccounts) ValidateAccount(ctx context.Context, bankCode, accountNumber string) (string, error) {
	f.calls++
	return f.name, f.err
}

type fakeIdentity struct {
	created []identity.NewUser
	deleted []string
	err     error
}

func (f *fakeIdentity) CreateUser(ctx context.Context, u identity.NewUser) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.created = append(f.created, u)
	return "uid-" + u.UID, nil
}

func (f *fakeIdentity) DeleteUser(ctx context.Context, uid string) error {
	f.deleted = append(f.deleted, uid)
	return nil
}

type fakeMinter struct{}

func (fakeMinter) Mint(registrationID, provider string) (string, error) {
	return "tok:" + registrationID, nil
}

type fakePublisher struct {
	events []dto.RegistrationCompletedEvent
	err    error
}

func (f *fakePublisher) RegistrationCompleted(ctx context.Context, evt dto.RegistrationCompletedEvent) error {
	f.events = append(f.events, evt)
	return f.err
}

type failingStore struct {
	RegistrationStore
	err error
}

func (f failingStore) ExistsByBVNHash(ctx context.Context, provider, bvnHash string) (bool, error) {
	return false, nil
}

func (f failingStore) Create(ctx context.Context, reg *models.Registration) error { return f.err }

type regFixture struct {
	svc      *registrationService
	accounts *fakeAccounts
	events   *fakePublisher
	identity *fakeIdentity
}

func newRegFixture(withIdentity bool) regFixture {
	f := regFixture{
		accounts: &fakeAccounts{name: "John Doe"},
		events:   &fakePublisher{},
		identity: &fakeIdentity{},
	}
	deps := RegistrationDeps{
		Store:     store.NewMemoryRegistrationStore(),
		Cipher:    crypto.NewEncodingOnly(),
		Hasher:    crypto.NewKeyedHasher("k"),
		Accounts:  f.accounts,
		Tokens:    fakeMinter{},
		Events:    f.events,
		Providers: []string{"parallex"},
	}
	if withIdentity {
		deps.Identity = f.identity
	}
	f.svc = NewRegistrationService(deps)
	f.svc.newID = func() string { return "reg-1" }
	return f
}

func validForm() dto.RegistrationFormData {
	return dto.RegistrationFormData{
		FirstName:     "John",
		Surname:       "Doe",
		Phone:         "08012345678",
		NIN:           "12345678901",
		BVN:           "22222222222",
		Address:       "1 Marina",
		RegionID:      "1",
		ZoneID:        "1",
		BankID:        "1",
		AccountNumber: "0123456789",
		ParallexID:    "PX-1",
	}
}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*dto.RegistrationFormData)
		want   string
	}{
		{name: "missing first name", mutate: func(f *dto.RegistrationFormData) { f.FirstName = "" }, want: "Missing required fields"},
		{name: "missing bvn", mutate: func(f *dto.RegistrationFormData) { f.BVN = "" }, want: "Missing required fields"},
		{name: "missing bank", mutate: func(f *dto.RegistrationFormData) { f.BankID = "" }, want: "Invalid bank/account details"},
		{name: "short account", mutate: func(f *dto.RegistrationFormData) { f.AccountNumber = "123" }, want: "Invalid bank/account details"},
		{name: "non-digit account", mutate: func(f *dto.RegistrationFormData) { f.AccountNumber = "012345678é" }, want: "Invalid bank/account details"},
		{name: "personal fields reported first", mutate: func(f *dto.RegistrationFormData) {
			f.Address = ""
			f.AccountNumber = ""
		}, want: "Missing required fields"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newRegFixture(false)
			form := validForm()
			tt.mutate(&form)

			_, err := fx.svc.Register(helpers.TestCtx(), "parallex", form)
			var ve *errs.ValidationError
			if !errors.As(err, &ve) || ve.Message != tt.want {
				t.Fatalf("expected %q, got %v", tt.want, err)
			}
		})
	}
}

func TestRegisterUnknownProvider(t *testing.T) {
	fx := newRegFixture(false)
	_, err := fx.svc.Register(helpers.TestCtx(), "acme", validForm())
	var nf *errs.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestRegisterSuccess(t *testing.T) {
	fx := newRegFixture(true)
	ctx := helpers.TestCtx()

	resp, err := fx.svc.Register(ctx, "Parallex", validForm())
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if resp.AuthToken() != "tok:reg-1" {
		t.Fatalf("authtoken = %q", resp.AuthToken())
	}
	if resp["account_name"] != "John Doe" || resp["registration_id"] != "reg-1" {
		t.Fatalf("unexpected response: %#v", resp)
	}
	if fx.accounts.calls != 1 {
		t.Fatalf("account name should be resolved once, got %d", fx.accounts.calls)
	}
	if len(fx.events.events) != 1 || fx.events.events[0].Provider != "parallex" {
		t.Fatalf("unexpected events: %#v", fx.events.events)
	}
	if len(fx.identity.created) != 1 || fx.identity.created[0].DisplayName != "John Doe" {
		t.Fatalf("unexpected identity calls: %#v", fx.identity.created)
	}

	summary, err := fx.svc.GetRegistration(ctx, "reg-1")
	if err != nil {
		t.Fatalf("GetRegistration returned error: %v", err)
	}
	if summary.AccountName != "John Doe" || summary.Provider != "parallex" || summary.CreatedAt == "" {
		t.Fatalf("unexpected summary: %#v", summary)
	}
}

func TestRegisterAlwaysResolvesAccountName(t *testing.T) {
	fx := newRegFixture(false)
	form := validForm()
	form.AccountName = "john doe"

	resp, err := fx.svc.Register(helpers.TestCtx(), "parallex", form)
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if fx.accounts.calls != 1 {
		t.Fatalf("expected the account to be resolved once, got %d calls", fx.accounts.calls)
	}
	if resp["account_name"] != "John Doe" {
		t.Fatalf("resolved name should be stored, got %#v", resp["account_name"])
	}
}

func TestRegisterRejectsMismatchedAccountName(t *testing.T) {
	fx := newRegFixture(false)
	form := validForm()
	form.AccountName = "Mallory"

	_, err := fx.svc.Register(helpers.TestCtx(), "parallex", form)
	var ve *errs.ValidationError
	if !errors.As(err, &ve) || ve.Message != "Account name does not match bank records" {
		t.Fatalf("expected mismatch ValidationError, got %v", err)
	}
	if _, gerr := fx.svc.GetRegistration(helpers.TestCtx(), "reg-1"); gerr == nil {
		t.Fatalf("mismatched registration must not be persisted")
	}
}

func TestRegisterDuplicateBVN(t *testing.T) {
	fx := newRegFixture(false)
	ctx := helpers.TestCtx()
	if _, err := fx.svc.Register(ctx, "parallex", validForm()); err != nil {
		t.Fatalf("first Register returned error: %v", err)
	}

	fx.svc.newID = func() string { return "reg-2" }
	_, err := fx.svc.Register(ctx, "parallex", validForm())
	var dup *errs.AlreadyExistsError
	if !errors.As(err, &dup) {
		t.Fatalf("expected AlreadyExistsError, got %v", err)
	}
}

func TestRegisterAccountFailurePropagates(t *testing.T) {
	fx := newRegFixture(false)
	fx.accounts.err = errs.NewExternalServiceError("name-enquiry", "down", true, nil)

	_, err := fx.svc.Register(helpers.TestCtx(), "parallex", validForm())
	var ext *errs.ExternalServiceError
	if !errors.As(err, &ext) {
		t.Fatalf("expected ExternalServiceError, got %v", err)
	}
	if len(fx.events.events) != 0 {
		t.Fatalf("no event should be published on failure")
	}
}

func TestRegisterPublishFailureIsNotFatal(t *testing.T) {
	fx := newRegFixture(false)
	fx.events.err = errors.New("nats down")

	resp, err := fx.svc.Register(helpers.TestCtx(), "parallex", validForm())
	if err != nil {
		t.Fatalf("publish failure must not fail registration: %v", err)
	}
	if resp.AuthToken() == "" {
		t.Fatalf("expected authtoken")
	}
}

func TestGetRegistrationNotFound(t *testing.T) {
	fx := newRegFixture(false)
	_, err := fx.svc.GetRegistration(helpers.TestCtx(), "missing")
	var nf *errs.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestRegisterRemovesIdentityWhenStoreFails(t *testing.T) {
	fx := newRegFixture(true)
	boom := errs.NewDatabaseError("create", "failed to save registration", errors.New("unavailable"))
	fx.svc.store = failingStore{err: boom}

	_, err := fx.svc.Register(helpers.TestCtx(), "parallex", validForm())
	if !errors.Is(err, boom) {
		t.Fatalf("expected store error, got %v", err)
	}
	if len(fx.identity.deleted) != 1 || fx.identity.deleted[0] != "uid-reg-1" {
		t.Fatalf("identity not cleaned up: %#v", fx.identity.deleted)
	}
	if len(fx.events.events) != 0 {
		t.Fatalf("no event should be published on failure")
	}
}
