package identity

import (
	"context"
	"regexp"
	"strings"

	"firebase.google.com/go/v4/auth"

	"github.com/GregMSThompson/onboarding/internal/errs"
)

const service = "firebase-auth"

var e164 = regexp.MustCompile(`^\+[1-9][0-9]{7,14}$`)

type authClient interface {
	CreateUser(ctx context.Context, user *auth.UserToCreate) (*auth.UserRecord, error)
	DeleteUser(ctx context.Context, uid string) error
}

// Adapter provisions a Firebase Auth user per registration so registrants
// can later sign in to the provider's apps.
type Adapter struct {
	client authClient
}

func NewAdapter(client *auth.Client) *Adapter {
	return &Adapter{client: client}
}

type NewUser struct {
	UID         string
	DisplayName string
	Email       string
	Phone       string
}

func (a *Adapter) CreateUser(ctx context.Context, u NewUser) (string, error) {
	params := (&auth.UserToCreate{}).UID(u.UID).DisplayName(u.DisplayName)
	if u.Email != "" {
		params = params.Email(u.Email)
	}
	if phone, ok := NormalisePhone(u.Phone); ok {
		params = params.PhoneNumber(phone)
	}

	rec, err := a.client.CreateUser(ctx, params)
	if err != nil {
		if auth.IsEmailAlreadyExists(err) || auth.IsPhoneNumberAlreadyExists(err) || auth.IsUIDAlreadyExists(err) {
			return "", errs.NewAlreadyExistsError("an account already exists for this email or phone")
		}
		return "", errs.NewExternalServiceError(service, "failed to create user", true, err)
	}
	return rec.UID, nil
}

func (a *Adapter) DeleteUser(ctx context.Context, uid string) error {
	if err := a.client.DeleteUser(ctx, uid); err != nil && !auth.IsUserNotFound(err) {
		return errs.NewExternalServiceError(service, "failed to delete user", true, err)
	}
	return nil
}

// NormalisePhone converts local Nigerian numbers (0XXXXXXXXXX) to E.164.
// It reports false when the result is still not a valid E.164 number.
func NormalisePhone(phone string) (string, bool) {
	p := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(strings.TrimSpace(phone))
	switch {
	case strings.HasPrefix(p, "0") && len(p) == 11:
		p = "+234" + p[1:]
	case strings.HasPrefix(p, "234"):
		p = "+" + p
	}
	return p, e164.MatchString(p)
}
