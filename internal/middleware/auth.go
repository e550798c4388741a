package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/GregMSThompson/onboarding/internal/errs"
	"github.com/GregMSThompson/onboarding/internal/response"
	"github.com/GregMSThompson/onboarding/internal/token"
)

type tokenVerifier interface {
	Verify(tokenString string) (*token.Claims, error)
}

type authMiddleware struct {
	Tokens          tokenVerifier
	ResponseHandler response.ResponseHandler
}

func NewAuthMiddleware(tokens tokenVerifier, rh response.ResponseHandler) *authMiddleware {
	return &authMiddleware{Tokens: tokens, ResponseHandler: rh}
}

type contextKey string

const RegistrationIDKey contextKey = "registration_id"

// BearerAuth accepts the authtoken issued at registration.
func (m *authMiddleware) BearerAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			m.ResponseHandler.HandleError(w, r, errs.NewUnauthorizedError("missing Authorization header"))
			return
		}

		parts := strings.Fields(header)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			m.ResponseHandler.HandleError(w, r, errs.NewUnauthorizedError("invalid Authorization header"))
			return
		}

		claims, err := m.Tokens.Verify(parts[1])
		if err != nil {
			m.ResponseHandler.HandleError(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), RegistrationIDKey, claims.Subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func RegistrationID(ctx context.Context) string {
	id, _ := ctx.Value(RegistrationIDKey).(string)
	return id
}
