package store

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/GregMSThompson/onboarding/internal/errs"
	"github.com/GregMSThompson/onboarding/internal/models"
)

// directoryStore reads regions, zones and banks from Firestore:
//
//	regions/{regionId}
//	regions/{regionId}/zones/{zoneId}
//	banks/{bankId}
type directoryStore struct {
	client *firestore.Client
}

func NewDirectoryStore(client *firestore.Client) *directoryStore {
	return &directoryStore{client: client}
}

func (s *directoryStore) Regions(ctx context.Context) ([]models.Region, error) {
	return readAll[models.Region](ctx, s.client.Collection("regions").OrderBy("name", firestore.Asc), "regions")
}

func (s *directoryStore) Zones(ctx context.Context, regionID string) ([]models.Zone, error) {
	q := s.client.Collection("regions").Doc(regionID).Collection("zones").OrderBy("name", firestore.Asc)
	zones, err := readAll[models.Zone](ctx, q, "zones")
	if err != nil {
		return nil, err
	}
	if zones == nil {
		zones = []models.Zone{}
	}
	return zones, nil
}

func (s *directoryStore) Banks(ctx context.Context) ([]models.Bank, error) {
	return readAll[models.Bank](ctx, s.client.Collection("banks").OrderBy("bankName", firestore.Asc), "banks")
}

func readAll[T any](ctx context.Context, q firestore.Query, what string) ([]T, error) {
	iter := q.Documents(ctx)
	defer iter.Stop()

	var out []T
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errs.NewDatabaseError("read", "failed to list "+what, err)
		}
		var v T
		if err := doc.DataTo(&v); err != nil {
			return nil, errs.NewDatabaseError("read", "failed to parse "+what, err)
		}
		out = append(out, v)
	}
	return out, nil
}
