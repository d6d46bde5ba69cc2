package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	dErrors "greenlane/pkg/domain-errors"
	"greenlane/pkg/platform/httputil"
	"greenlane/pkg/requestcontext"
)

// RequireAuth verifies HS256 bearer tokens issued by the identity service and
// stores the subject in the request context. Token issuance is not our
// concern; we only verify.
//
// With an empty signing key the middleware is a no-op, which keeps local
// development and the test suite free of token plumbing.
func RequireAuth(signingKey string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if signingKey == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const bearerPrefix = "Bearer "
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, bearerPrefix) {
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "missing bearer token"))
				return
			}

			claims := jwt.MapClaims{}
			token, err := jwt.ParseWithClaims(strings.TrimPrefix(authHeader, bearerPrefix), claims,
				func(t *jwt.Token) (any, error) {
					if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
						return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
					}
					return []byte(signingKey), nil
				})
			if err != nil || !token.Valid {
				logger.WarnContext(r.Context(), "rejected bearer token", "error", err)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "invalid bearer token"))
				return
			}

			subject, _ := claims.GetSubject()
			ctx := requestcontext.WithUserID(r.Context(), subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
