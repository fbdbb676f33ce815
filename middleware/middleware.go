package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/Kamal-Bhagchandani/jira-lite/auth"
	"github.com/Kamal-Bhagchandani/jira-lite/logging"
	"github.com/Kamal-Bhagchandani/jira-lite/models"
	"github.com/Kamal-Bhagchandani/jira-lite/utils"
)

type contextKey string

const callerKey contextKey = "caller"

// JWTAuth verifies the bearer token and attaches the caller identity to the
// request context. Everything behind it can assume an authenticated caller.
func JWTAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Authorization header missing", http.StatusUnauthorized)
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenStr == authHeader {
			http.Error(w, "Authorization header must use the Bearer scheme", http.StatusUnauthorized)
			return
		}

		claims, err := utils.ValidateToken(tokenStr)
		if err != nil {
			logging.Logger.Warnf("Rejected token on %s %s: %v", r.Method, r.URL.Path, err)
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		userID, err := models.UserIDFromHex(claims.UserID)
		if err != nil {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		caller := auth.Caller{ID: userID, Role: models.Role(claims.Role)}
		ctx := context.WithValue(r.Context(), callerKey, caller)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// CallerFrom extracts the authenticated caller set by JWTAuth.
func CallerFrom(ctx context.Context) (auth.Caller, bool) {
	caller, ok := ctx.Value(callerKey).(auth.Caller)
	return caller, ok
}

// WithCaller returns a context carrying the given caller. Used by tests.
func WithCaller(ctx context.Context, caller auth.Caller) context.Context {
	return context.WithValue(ctx, callerKey, caller)
}

// CORS mirrors the browser-facing headers the frontend expects.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
