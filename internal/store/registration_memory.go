package store

import (
	"context"
	"sync"
	"time"

	"github.com/GregMSThompson/onboarding/internal/errs"
	"github.com/GregMSThompson/onboarding/internal/models"
)

// memoryRegistrationStore backs local runs where Firestore is disabled.
// Contents are lost on restart.
type memoryRegistrationStore struct {
	mu      sync.RWMutex
	byID    map[string]models.Registration
	bvnSeen map[string]string
}

func NewMemoryRegistrationStore() *memoryRegistrationStore {
	return &memoryRegistrationStore{
		byID:    make(map[string]models.Registration),
		bvnSeen: make(map[string]string),
	}
}

func (s *memoryRegistrationStore) Create(_ context.Context, reg *models.Registration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := reg.Provider + ":" + reg.BVNHash
	if _, ok := s.bvnSeen[key]; ok {
		return errs.NewAlreadyExistsError("a registration already exists for this BVN")
	}
	if _, ok := s.byID[reg.RegistrationID]; ok {
		return errs.NewAlreadyExistsError("registration id already in use")
	}

	now := time.Now()
	if reg.CreatedAt.IsZero() {
		reg.CreatedAt = now
	}
	reg.UpdatedAt = now

	s.byID[reg.RegistrationID] = *reg
	s.bvnSeen[key] = reg.RegistrationID
	return nil
}

func (s *memoryRegistrationStore) Get(_ context.Context, registrationID string) (*models.Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	reg, ok := s.byID[registrationID]
	if !ok {
		return nil, errs.NewNotFoundError("registration not found")
	}
	return &reg, nil
}

func (s *memoryRegistrationStore) ExistsByBVNHash(_ context.Context, provider, bvnHash string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.bvnSeen[provider+":"+bvnHash]
	return ok, nil
}
