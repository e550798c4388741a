package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/GregMSThompson/onboarding/internal/errs"
)

const issuer = "onboarding-api"

// Claims identify a registration. Subject is the registration id.
type Claims struct {
	Provider string `json:"provider"`
	jwt.RegisteredClaims
}

// Issuer mints and verifies the authtoken handed back on registration.
type Issuer struct {
	signingKey []byte
	ttl        time.Duration
	now        func() time.Time
}

func NewIssuer(signingKey string, ttl time.Duration) *Issuer {
	return &Issuer{
		signingKey: []byte(signingKey),
		ttl:        ttl,
		now:        time.Now,
	}
}

func (i *Issuer) Mint(registrationID, provider string) (string, error) {
	now := i.now()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Provider: provider,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   registrationID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
			ID:        uuid.NewString(),
		},
	})
	return tok.SignedString(i.signingKey)
}

// Verify returns an *errs.UnauthorizedError for any token that is not a
// live HS256 token signed with our key.
func (i *Issuer) Verify(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return i.signingKey, nil
	},
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errs.NewUnauthorizedError("token has expired")
		}
		return nil, errs.NewUnauthorizedError("invalid token")
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return nil, errs.NewUnauthorizedError("invalid token")
	}
	return claims, nil
}
