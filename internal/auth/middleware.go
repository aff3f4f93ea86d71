package auth

import (
	"net/http"
	"strings"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"

	"github.com/noah-isme/backend-sewa/internal/common"
)

// Middleware validates HS256 bearer tokens for administrative endpoints.
// Booking creation itself is unauthenticated; only back-office operations
// such as status patching sit behind this check.
type Middleware struct {
	Secret []byte
}

// RequireAdmin rejects requests without a valid bearer token carrying the
// admin role claim.
func (m Middleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if len(m.Secret) == 0 {
			common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "admin auth not configured", nil)
			return
		}
		raw := bearerToken(r)
		if raw == "" {
			common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
			return
		}
		token, err := jwt.Parse([]byte(raw),
			jwt.WithKey(jwa.HS256, m.Secret),
			jwt.WithValidate(true),
		)
		if err != nil {
			common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid token", nil)
			return
		}
		role, _ := token.Get("role")
		if roleStr, ok := role.(string); !ok || roleStr != "admin" {
			common.JSONError(w, http.StatusForbidden, "FORBIDDEN", "insufficient permissions", nil)
			return
		}
		ctx := common.WithUserID(r.Context(), token.Subject())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
