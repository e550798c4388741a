package workflow

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/GregMSThompson/onboarding/internal/dto"
	"github.com/GregMSThompson/onboarding/internal/models"
)

type fakeTimer struct {
	s       *fakeScheduler
	at      time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// fakeScheduler is a manual clock. Callbacks run on the goroutine calling
// Advance, without the scheduler lock held.
type fakeScheduler struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*fakeTimer
}

func (s *fakeScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &fakeTimer{s: s, at: s.now + d, f: f}
	s.timers = append(s.timers, t)
	return t
}

func (s *fakeScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.now + d
	s.mu.Unlock()

	for {
		s.mu.Lock()
		var due []*fakeTimer
		for _, t := range s.timers {
			if !t.stopped && !t.fired && t.at <= target {
				due = append(due, t)
			}
		}
		if len(due) == 0 {
			s.now = target
			s.mu.Unlock()
			return
		}
		sort.SliceStable(due, func(i, j int) bool { return due[i].at < due[j].at })
		next := due[0]
		next.fired = true
		s.now = next.at
		s.mu.Unlock()

		next.f()
	}
}

type navRecorder struct {
	mu    sync.Mutex
	paths []string
}

func (n *navRecorder) Navigate(path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.paths = append(n.paths, path)
}

func (n *navRecorder) Paths() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.paths...)
}

type validateCall struct {
	Bank    string
	Account string
}

type fakeAPI struct {
	mu sync.Mutex

	regions   []models.Region
	banks     []models.Bank
	zones     map[string][]models.Zone
	regionErr error

	validateFn func(bank, account string) (dto.AccountValidationResponse, error)
	registerFn func(form dto.RegistrationFormData) (dto.RegistrationResponse, error)

	zoneCalls      []string
	validateCalls  []validateCall
	registerCalls  []dto.RegistrationFormData
	registerParams []string
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		regions: []models.Region{{ID: "1", Name: "Lagos"}, {ID: "2", Name: "Abuja"}},
		banks:   []models.Bank{{ID: "1", BankName: "Access Bank"}},
		zones: map[string][]models.Zone{
			"1": {{ID: "1", Name: "Lagos Island"}, {ID: "2", Name: "Lagos Mainland"}},
			"2": {{ID: "4", Name: "Garki"}},
		},
		validateFn: func(bank, account string) (dto.AccountValidationResponse, error) {
			if bank == "1" && account == "0123456789" {
				return dto.AccountValidationResponse{AccountName: "John Doe"}, nil
			}
			return dto.AccountValidationResponse{AccountName: "Test Account"}, nil
		},
		registerFn: func(dto.RegistrationFormData) (dto.RegistrationResponse, error) {
			return dto.RegistrationResponse{"authtoken": "tok-123", "registration_id": "r-1"}, nil
		},
	}
}

func (a *fakeAPI) Regions(context.Context) ([]models.Region, error) {
	if a.regionErr != nil {
		return nil, a.regionErr
	}
	return a.regions, nil
}

func (a *fakeAPI) Zones(_ context.Context, regionID string) ([]models.Zone, error) {
	a.mu.Lock()
	a.zoneCalls = append(a.zoneCalls, regionID)
	a.mu.Unlock()
	zones, ok := a.zones[regionID]
	if !ok {
		return nil, errors.New("no such region")
	}
	return zones, nil
}

func (a *fakeAPI) Banks(context.Context) ([]models.Bank, error) {
	return a.banks, nil
}

func (a *fakeAPI) ValidateAccount(_ context.Context, bank, account string) (dto.AccountValidationResponse, error) {
	a.mu.Lock()
	a.validateCalls = append(a.validateCalls, validateCall{bank, account})
	fn := a.validateFn
	a.mu.Unlock()
	return fn(bank, account)
}

func (a *fakeAPI) Register(_ context.Context, provider string, form dto.RegistrationFormData) (dto.RegistrationResponse, error) {
	a.mu.Lock()
	a.registerCalls = append(a.registerCalls, form)
	a.registerParams = append(a.registerParams, provider)
	fn := a.registerFn
	a.mu.Unlock()
	return fn(form)
}

func (a *fakeAPI) ValidateCalls() []validateCall {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]validateCall(nil), a.validateCalls...)
}

func (a *fakeAPI) RegisterCalls() []dto.RegistrationFormData {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]dto.RegistrationFormData(nil), a.registerCalls...)
}
