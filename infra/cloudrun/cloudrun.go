package cloudrun

import (
	"fmt"
	"strconv"

	"github.com/pulumi/pulumi-docker/sdk/v4/go/docker"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp/cloudrun"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp/projects"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp/serviceaccount"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi/config"

	"github.com/GregMSThompson/onboarding/infra/common"
	"github.com/GregMSThompson/onboarding/infra/secret"
)

type secretRefs struct {
	jwtSigningKeyName  pulumi.StringOutput
	bvnHashKeyName     pulumi.StringOutput
	nameEnquiryKeyName pulumi.StringOutput
}

func SetupCloudRun(ctx *pulumi.Context,
	prov *gcp.Provider,
	apiSA *serviceaccount.Account,
	kmsKey pulumi.StringOutput,
	secrets *secret.Manager,
	res ...pulumi.Resource) error {
	img, err := buildApiImage(ctx, res...)
	if err != nil {
		return err
	}

	sr, err := createSecrets(ctx, secrets)
	if err != nil {
		return err
	}

	srv, err := enableCloudRun(ctx, prov)
	if err != nil {
		return err
	}

	svc, err := createCloudRunService(ctx, img, apiSA, sr, kmsKey, prov, srv)
	if err != nil {
		return err
	}

	if err := setIAMAccessPolicy(ctx, svc, prov); err != nil {
		return err
	}

	ctx.Export("url", svc.Statuses.Index(pulumi.Int(0)).Url())
	return nil
}

func buildApiImage(ctx *pulumi.Context, res ...pulumi.Resource) (*docker.Image, error) {
	gcpCfg := config.New(ctx, "gcp")
	projectID := gcpCfg.Require("project")
	region := gcpCfg.Require("region")

	hash, err := common.GenerateHash("../")
	if err != nil {
		return nil, err
	}

	return docker.NewImage(ctx, "onboardingApiImage", &docker.ImageArgs{
		Build: docker.DockerBuildArgs{
			Platform:   pulumi.String("linux/amd64"),
			Context:    pulumi.String(".."),
			Dockerfile: pulumi.String("../cmd/api/Dockerfile"),
		},
		ImageName: pulumi.String(fmt.Sprintf("%s-docker.pkg.dev/%s/onboarding/onboarding-api:%s", region, projectID, hash)),
	},
		pulumi.DependsOn(res),
	)
}

func enableCloudRun(ctx *pulumi.Context, prov *gcp.Provider) (*projects.Service, error) {
	return projects.NewService(ctx, "cloudRunService", &projects.ServiceArgs{
		Service: pulumi.String("run.googleapis.com"),
	},
		pulumi.Provider(prov),
	)
}

// CreateServiceAccount creates the identity the API runs as, with
// Firestore and Firebase Auth access. KMS and Secret Manager grants are
// added by their own modules.
func CreateServiceAccount(ctx *pulumi.Context, prov *gcp.Provider) (*serviceaccount.Account, error) {
	gcpCfg := config.New(ctx, "gcp")
	projectID := gcpCfg.Require("project")

	apiSA, err := serviceaccount.NewAccount(ctx, "onboardingServiceAccount", &serviceaccount.AccountArgs{
		AccountId:   pulumi.String("onboarding-api"),
		DisplayName: pulumi.String("Onboarding API Service Account"),
	},
		pulumi.Provider(prov),
	)
	if err != nil {
		return nil, err
	}

	member := apiSA.Email.ApplyT(func(email string) string {
		return fmt.Sprintf("serviceAccount:%s", email)
	}).(pulumi.StringOutput)

	roles := map[string]string{
		"firestoreAccess":    "roles/datastore.user",
		"firebaseAuthAccess": "roles/firebaseauth.admin",
	}
	for name, role := range roles {
		_, err = projects.NewIAMMember(ctx, name, &projects.IAMMemberArgs{
			Role:    pulumi.String(role),
			Member:  member,
			Project: pulumi.String(projectID),
		},
			pulumi.Provider(prov),
		)
		if err != nil {
			return nil, err
		}
	}

	return apiSA, nil
}

func env(name string, value pulumi.StringInput) *cloudrun.ServiceTemplateSpecContainerEnvArgs {
	return &cloudrun.ServiceTemplateSpecContainerEnvArgs{
		Name:  pulumi.String(name),
		Value: value,
	}
}

func secretEnv(name string, secretName pulumi.StringOutput) *cloudrun.ServiceTemplateSpecContainerEnvArgs {
	return &cloudrun.ServiceTemplateSpecContainerEnvArgs{
		Name: pulumi.String(name),
		ValueFrom: &cloudrun.ServiceTemplateSpecContainerEnvValueFromArgs{
			SecretKeyRef: &cloudrun.ServiceTemplateSpecContainerEnvValueFromSecretKeyRefArgs{
				Name: secretName,
				Key:  pulumi.String("latest"),
			},
		},
	}
}

func createCloudRunService(ctx *pulumi.Context,
	img *docker.Image,
	apiSA *serviceaccount.Account,
	sr *secretRefs,
	kmsKey pulumi.StringOutput,
	prov *gcp.Provider,
	res ...pulumi.Resource) (*cloudrun.Service, error) {
	gcpCfg := config.New(ctx, "gcp")
	crCfg := config.New(ctx, "cloudrun")
	obCfg := config.New(ctx, "onboarding")

	projectID := gcpCfg.Require("project")
	region := gcpCfg.Require("region")
	minScale := crCfg.Require("minScale")
	maxScale := crCfg.Require("maxScale")
	cpu := crCfg.Require("cpu")
	memory := crCfg.Require("memory")
	concurrency := crCfg.Require("concurrency")
	logLevel := crCfg.Require("logLevel")
	timeout, _ := strconv.Atoi(crCfg.Require("timeout"))

	envs := cloudrun.ServiceTemplateSpecContainerEnvArray{
		env("PROJECTID", pulumi.String(projectID)),
		env("LOGLEVEL", pulumi.String(logLevel)),
		env("FIRESTORE_ENABLED", pulumi.String("true")),
		env("FIREBASE_ENABLED", pulumi.String("true")),
		env("KMS_KEY_NAME", kmsKey),
		env("REGISTRATION_PROVIDERS", pulumi.String(obCfg.Get("providers"))),
		env("NAME_ENQUIRY_URL", pulumi.String(obCfg.Require("nameEnquiryUrl"))),
		env("REDIS_URL", pulumi.String(obCfg.Get("redisUrl"))),
		env("NATS_URL", pulumi.String(obCfg.Get("natsUrl"))),
		secretEnv("JWT_SIGNING_KEY", sr.jwtSigningKeyName),
		secretEnv("BVN_HASH_KEY", sr.bvnHashKeyName),
		secretEnv("NAME_ENQUIRY_API_KEY", sr.nameEnquiryKeyName),
	}

	return cloudrun.NewService(ctx, "onboardingService", &cloudrun.ServiceArgs{
		Location: pulumi.String(region),

		Template: &cloudrun.ServiceTemplateArgs{
			Metadata: &cloudrun.ServiceTemplateMetadataArgs{
				Annotations: pulumi.StringMap{
					"autoscaling.knative.dev/minScale": pulumi.String(minScale),
					"autoscaling.knative.dev/maxScale": pulumi.String(maxScale),

					"run.googleapis.com/cpu":    pulumi.String(cpu),
					"run.googleapis.com/memory": pulumi.String(memory),

					"run.googleapis.com/cpu-throttling": pulumi.String("true"),

					"run.googleapis.com/container-concurrency": pulumi.String(concurrency),
				},
			},

			Spec: &cloudrun.ServiceTemplateSpecArgs{
				ServiceAccountName: apiSA.Email,
				TimeoutSeconds:     pulumi.Int(timeout),

				Containers: cloudrun.ServiceTemplateSpecContainerArray{
					&cloudrun.ServiceTemplateSpecContainerArgs{
						Image: img.ImageName,
						Ports: cloudrun.ServiceTemplateSpecContainerPortArray{
							&cloudrun.ServiceTemplateSpecContainerPortArgs{
								ContainerPort: pulumi.Int(8080),
							},
						},
						Envs: envs,
					},
				},
			},
		},
	},
		pulumi.Provider(prov),
		pulumi.DependsOn(res),
	)
}

// The onboarding endpoints are public; /registrations/me checks its own
// bearer token.
func setIAMAccessPolicy(ctx *pulumi.Context, svc *cloudrun.Service, prov *gcp.Provider) error {
	gcpCfg := config.New(ctx, "gcp")
	region := gcpCfg.Require("region")

	_, err := cloudrun.NewIamMember(ctx, "allowPublic", &cloudrun.IamMemberArgs{
		Service:  svc.Name,
		Location: pulumi.String(region),
		Role:     pulumi.String("roles/run.invoker"),
		Member:   pulumi.String("allUsers"),
	},
		pulumi.Provider(prov),
	)
	return err
}

func createSecrets(ctx *pulumi.Context, secrets *secret.Manager) (*secretRefs, error) {
	var err error
	sr := new(secretRefs)

	obCfg := config.New(ctx, "onboarding")

	sr.jwtSigningKeyName, err = secrets.AddSecret(ctx, "jwtSigningKeySecret", "onboardingJwtSigningKey", obCfg.RequireSecret("jwtSigningKey"))
	if err != nil {
		return nil, err
	}

	sr.bvnHashKeyName, err = secrets.AddSecret(ctx, "bvnHashKeySecret", "onboardingBvnHashKey", obCfg.RequireSecret("bvnHashKey"))
	if err != nil {
		return nil, err
	}

	sr.nameEnquiryKeyName, err = secrets.AddSecret(ctx, "nameEnquiryKeySecret", "onboardingNameEnquiryKey", obCfg.RequireSecret("nameEnquiryApiKey"))
	if err != nil {
		return nil, err
	}

	return sr, nil
}
