package services

import (
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/GregMSThompson/onboarding/internal/dto"
	"github.com/GregMSThompson/onboarding/internal/errs"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

var bankFields = map[string]bool{
	"BankID":        true,
	"AccountNumber": true,
}

// validateRegistration reports missing personal fields before bad bank
// details, matching the order clients have always seen.
func validateRegistration(form dto.RegistrationFormData) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return errs.NewValidationError("Missing required fields")
	}

	bankOnly := true
	for _, fe := range fieldErrs {
		if !bankFields[fe.StructField()] {
			bankOnly = false
			break
		}
	}
	if bankOnly {
		return errs.NewValidationError("Invalid bank/account details")
	}
	return errs.NewValidationError("Missing required fields")
}
