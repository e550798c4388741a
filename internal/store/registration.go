package store

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/GregMSThompson/onboarding/internal/errs"
	"github.com/GregMSThompson/onboarding/internal/models"
)

type registrationStore struct {
	client *firestore.Client
}

func NewRegistrationStore(client *firestore.Client) *registrationStore {
	return &registrationStore{client: client}
}

func (s *registrationStore) collection() *firestore.CollectionRef {
	return s.client.Collection("registrations")
}

// one document per provider+BVN, created in the same transaction as the registration
func (s *registrationStore) bvnIndexDoc(provider, bvnHash string) *firestore.DocumentRef {
	return s.client.Collection("registration_bvn_index").Doc(provider + ":" + bvnHash)
}

func (s *registrationStore) Create(ctx context.Context, reg *models.Registration) error {
	now := time.Now()
	if reg.CreatedAt.IsZero() {
		reg.CreatedAt = now
	}
	reg.UpdatedAt = now

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if err := tx.Create(s.bvnIndexDoc(reg.Provider, reg.BVNHash), map[string]any{
			"registrationId": reg.RegistrationID,
			"createdAt":      reg.CreatedAt,
		}); err != nil {
			return err
		}
		return tx.Create(s.collection().Doc(reg.RegistrationID), reg)
	})
	if status.Code(err) == codes.AlreadyExists {
		return errs.NewAlreadyExistsError("a registration already exists for this BVN")
	}
	if err != nil {
		return errs.NewDatabaseError("create", "failed to save registration", err)
	}
	return nil
}

func (s *registrationStore) Get(ctx context.Context, registrationID string) (*models.Registration, error) {
	doc, err := s.collection().Doc(registrationID).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, errs.NewNotFoundError("registration not found")
	}
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to load registration", err)
	}

	var reg models.Registration
	if err := doc.DataTo(&reg); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse registration", err)
	}
	return &reg, nil
}

func (s *registrationStore) ExistsByBVNHash(ctx context.Context, provider, bvnHash string) (bool, error) {
	_, err := s.bvnIndexDoc(provider, bvnHash).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return false, nil
	}
	if err != nil {
		return false, errs.NewDatabaseError("read", "failed to check registration index", err)
	}
	return true, nil
}
