package bootstrap

import (
	"context"

	"cloud.google.com/go/firestore"
)

// InitFirestore falls back to the ambient project (or the emulator's) when
// PROJECTID is unset.
func InitFirestore(ctx context.Context, projectID string) (*firestore.Client, error) {
	if projectID == "" {
		projectID = firestore.DetectProjectID
	}
	return firestore.NewClient(ctx, projectID)
}
