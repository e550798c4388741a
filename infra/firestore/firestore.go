package firestore

import (
	"fmt"

	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp/firestore"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp/projects"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi/config"
)

const databaseID = "(default)"

// fieldExemption turns off single-field indexing for a field the API never
// filters or orders on.
type fieldExemption struct {
	collection string
	field      string
}

func (f fieldExemption) resourceName() string {
	return fmt.Sprintf("%s-%s-noindex", f.collection, f.field)
}

// ciphertexts and keyed hashes are large, high-entropy and only ever read
// back by document id
var exemptions = []fieldExemption{
	{collection: "registrations", field: "ninCipher"},
	{collection: "registrations", field: "bvnCipher"},
	{collection: "registrations", field: "bvnHash"},
	{collection: "registration_bvn_index", field: "registrationId"},
}

func SetupFirestore(ctx *pulumi.Context, prov *gcp.Provider) error {
	svc, err := enableFirestore(ctx, prov)
	if err != nil {
		return err
	}

	db, err := createDatabase(ctx, prov, svc)
	if err != nil {
		return err
	}

	return exemptFields(ctx, prov, db)
}

func enableFirestore(ctx *pulumi.Context, prov *gcp.Provider) (*projects.Service, error) {
	return projects.NewService(ctx, "firestore", &projects.ServiceArgs{
		Service: pulumi.String("firestore.googleapis.com"),
	},
		pulumi.Provider(prov),
	)
}

func createDatabase(ctx *pulumi.Context, prov *gcp.Provider, res ...pulumi.Resource) (*firestore.Database, error) {
	gcpCfg := config.New(ctx, "gcp")

	// registrations hold encrypted PII; keep them recoverable
	return firestore.NewDatabase(ctx, "onboardingDatabase", &firestore.DatabaseArgs{
		Project:                       pulumi.String(gcpCfg.Require("project")),
		Name:                          pulumi.String(databaseID),
		LocationId:                    pulumi.String(gcpCfg.Require("region")),
		Type:                          pulumi.String("FIRESTORE_NATIVE"),
		PointInTimeRecoveryEnablement: pulumi.String("POINT_IN_TIME_RECOVERY_ENABLED"),
		DeleteProtectionState:         pulumi.String("DELETE_PROTECTION_ENABLED"),
	},
		pulumi.Provider(prov),
		pulumi.DependsOn(res),
	)
}

func exemptFields(ctx *pulumi.Context, prov *gcp.Provider, db *firestore.Database) error {
	for _, ex := range exemptions {
		_, err := firestore.NewField(ctx, ex.resourceName(), &firestore.FieldArgs{
			Database:   db.Name.ToStringPtrOutput(),
			Collection: pulumi.String(ex.collection),
			Field:      pulumi.String(ex.field),
			// an empty index config removes every single-field index
			IndexConfig: &firestore.FieldIndexConfigArgs{},
		},
			pulumi.Provider(prov),
			pulumi.DependsOn([]pulumi.Resource{db}),
		)
		if err != nil {
			return err
		}
	}
	return nil
}
