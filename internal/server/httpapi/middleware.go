package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/okarpovs/doclib/internal/server/auth"
)

type contextKey string

// userIDKey holds the authenticated user id in the request context.
const userIDKey contextKey = "userID"

// UserIDFromContext returns the user id placed by AuthMiddleware, or "".
func UserIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

// AuthMiddleware requires a valid bearer token and stores the user id it
// carries in the request context. Preflight requests pass through untouched.
func AuthMiddleware(secretKey []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			tokenStr, ok := bearerToken(r)
			if !ok {
				JSONResponse(w, http.StatusUnauthorized, Payload{Success: false, Message: "Unauthorized"})
				return
			}

			userID, err := auth.GetUserIDFromToken(tokenStr, secretKey)
			if err != nil || userID == "" {
				JSONResponse(w, http.StatusUnauthorized, Payload{Success: false, Message: "Unauthorized"})
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return "", false
	}
	return h[len(prefix):], true
}
