package provider

import (
	"strings"

	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi/config"
)

// defaultLabels tags every resource with the owning service and stack.
// GCP label values only allow lowercase letters, digits, '-' and '_'.
func defaultLabels(stack string) map[string]string {
	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return '-'
		}
	}, stack)
	return map[string]string{
		"service": "onboarding",
		"stack":   clean,
	}
}

func SetupDefaultProvider(ctx *pulumi.Context) (*gcp.Provider, error) {
	gcpCfg := config.New(ctx, "gcp")
	projectID := gcpCfg.Require("project")

	// quota and billing go to the onboarding project, not the caller's
	return gcp.NewProvider(ctx, "onboardingProvider", &gcp.ProviderArgs{
		Project:             pulumi.String(projectID),
		Region:              pulumi.String(gcpCfg.Require("region")),
		UserProjectOverride: pulumi.Bool(true),
		BillingProject:      pulumi.String(projectID),
		DefaultLabels:       pulumi.ToStringMap(defaultLabels(ctx.Stack())),
	})
}
