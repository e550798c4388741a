package main

import (
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"

	"github.com/GregMSThompson/onboarding/infra/cloudrun"
	"github.com/GregMSThompson/onboarding/infra/docker"
	"github.com/GregMSThompson/onboarding/infra/firestore"
	"github.com/GregMSThompson/onboarding/infra/identity"
	"github.com/GregMSThompson/onboarding/infra/kms"
	"github.com/GregMSThompson/onboarding/infra/provider"
	"github.com/GregMSThompson/onboarding/infra/secret"
)

func main() {
	pulumi.Run(func(ctx *pulumi.Context) error {
		prov, err := provider.SetupDefaultProvider(ctx)
		if err != nil {
			return err
		}

		// firebase auth accounts are created for each registration
		ident, err := identity.SetupIdentity(ctx, prov)
		if err != nil {
			return err
		}

		if err := firestore.SetupFirestore(ctx, prov); err != nil {
			return err
		}

		if _, err := kms.SetupKMS(ctx, prov); err != nil {
			return err
		}
		piiKey, err := kms.CreateKey(ctx, prov, "onboarding", "registration-pii")
		if err != nil {
			return err
		}

		sa, err := cloudrun.CreateServiceAccount(ctx, prov)
		if err != nil {
			return err
		}
		if err := kms.GrantEncrypterDecrypter(ctx, prov, piiKey, sa); err != nil {
			return err
		}

		secrets, err := secret.SetupSecretManager(ctx, prov, sa)
		if err != nil {
			return err
		}

		repo, err := docker.CreateCloudrunRepo(ctx, prov)
		if err != nil {
			return err
		}

		return cloudrun.SetupCloudRun(ctx, prov, sa, piiKey, secrets, ident, repo, secrets.Service())
	})
}
