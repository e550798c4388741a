package handlers

import (
	"log/slog"

	"github.com/GregMSThompson/onboarding/internal/response"
)

type Deps struct {
	Log             *slog.Logger
	ResponseHandler response.ResponseHandler
	DirectorySvc    directoryService
	AccountSvc      accountService
	RegistrationSvc registrationService
	HealthChecks    map[string]HealthCheck
}
