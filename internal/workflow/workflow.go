// Package workflow drives a single registration: field edits, directory
// lookups, debounced account validation and final submission.
package workflow

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/GregMSThompson/onboarding/internal/dto"
	"github.com/GregMSThompson/onboarding/internal/models"
	"github.com/GregMSThompson/onboarding/pkg/storage"
)

const (
	DebounceDelay = 500 * time.Millisecond
	ToastDuration = 4 * time.Second
	NavigateDelay = 2 * time.Second
	HomePath      = "/"
)

var (
	ErrLocked           = errors.New("workflow: form is locked while submitting")
	ErrCompleted        = errors.New("workflow: registration already completed")
	ErrValidationFailed = errors.New("workflow: validation failed")
	ErrSubmitFailed     = errors.New("workflow: registration failed")
	ErrUnknownField     = errors.New("workflow: unknown field")
	ErrNoRegion         = errors.New("workflow: select a region before a zone")
)

// API is the slice of the onboarding client the workflow needs.
type API interface {
	Regions(ctx context.Context) ([]models.Region, error)
	Zones(ctx context.Context, regionID string) ([]models.Zone, error)
	Banks(ctx context.Context) ([]models.Bank, error)
	ValidateAccount(ctx context.Context, bankCode, accountNumber string) (dto.AccountValidationResponse, error)
	Register(ctx context.Context, provider string, form dto.RegistrationFormData) (dto.RegistrationResponse, error)
}

type Config struct {
	API       API
	Store     storage.Store
	Scheduler Scheduler
	Navigator Navigator
	Provider  string
	// OnChange, when set, is called with a fresh snapshot after every
	// state change. It runs without the workflow lock held.
	OnChange func(Snapshot)
}

type Workflow struct {
	mu sync.Mutex

	ctx      context.Context
	api      API
	store    storage.Store
	sched    Scheduler
	nav      Navigator
	provider string
	onChange func(Snapshot)

	form            dto.RegistrationFormData
	state           State
	accountName     string
	validationError string
	fieldErrors     map[string]string

	regions []models.Region
	zones   []models.Zone
	banks   []models.Bank

	// accountGen changes whenever the bank/account pair changes; results
	// and timers from an older generation are ignored.
	accountGen uint64
	debounce   Timer
	regionGen  uint64
	// validationSeq identifies the latest validation call; only its result
	// is applied. Submit's own re-validation supersedes a debounced one
	// still in flight.
	validationSeq uint64

	// submitting is set for the whole of Submit, including re-validation.
	submitting bool

	toast      *Toast
	toastTimer Timer
	toastSeq   uint64
}

// New binds the workflow to ctx; debounced validations run with it.
func New(ctx context.Context, cfg Config) *Workflow {
	if cfg.Store == nil {
		cfg.Store = storage.Nop{}
	}
	if cfg.Scheduler == nil {
		cfg.Scheduler = RealScheduler()
	}
	if cfg.Navigator == nil {
		cfg.Navigator = NavigatorFunc(func(string) {})
	}
	return &Workflow{
		ctx:         ctx,
		api:         cfg.API,
		store:       cfg.Store,
		sched:       cfg.Scheduler,
		nav:         cfg.Navigator,
		provider:    cfg.Provider,
		onChange:    cfg.OnChange,
		state:       Idle,
		fieldErrors: map[string]string{},
	}
}

// Snapshot is a copy of everything a view needs to render the form.
type Snapshot struct {
	State           State
	Form            dto.RegistrationFormData
	AccountName     string
	ValidationError string
	FieldErrors     map[string]string
	Regions         []models.Region
	Zones           []models.Zone
	Banks           []models.Bank
	Toast           *Toast
}

func (w *Workflow) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.snapshotLocked()
}

func (w *Workflow) snapshotLocked() Snapshot {
	s := Snapshot{
		State:           w.state,
		Form:            w.form,
		AccountName:     w.accountName,
		ValidationError: w.validationError,
		FieldErrors:     make(map[string]string, len(w.fieldErrors)),
		Regions:         append([]models.Region(nil), w.regions...),
		Zones:           append([]models.Zone(nil), w.zones...),
		Banks:           append([]models.Bank(nil), w.banks...),
	}
	for k, v := range w.fieldErrors {
		s.FieldErrors[k] = v
	}
	if w.toast != nil {
		t := *w.toast
		s.Toast = &t
	}
	return s
}

func (w *Workflow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

func (w *Workflow) notify() {
	if w.onChange == nil {
		return
	}
	w.onChange(w.Snapshot())
}

// editableLocked reports whether fields may change. Caller holds w.mu.
func (w *Workflow) editableLocked() error {
	switch w.state {
	case Submitting:
		return ErrLocked
	case SubmitSucceeded:
		return ErrCompleted
	}
	return nil
}
