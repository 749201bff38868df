package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/taskline/taskline-go/internal/model"
	"github.com/taskline/taskline-go/internal/service"
)

type contextKey string

const userKey contextKey = "user"

// authErrorMessage is the single message for every authentication failure.
// Missing header, malformed token, wrong secret, expiry, wrong token type
// and a deleted user are deliberately indistinguishable to the caller.
const authErrorMessage = "Please authenticate"

// UserLoader resolves a verified token subject to a user record.
type UserLoader interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
}

// TokenVerifier verifies a bearer token as a given token type.
type TokenVerifier interface {
	VerifyToken(token string, expectedType model.TokenType) (*service.Claims, error)
}

// Authenticate returns middleware that gates requests on a valid access
// token and, when permissions are given, on the user's role holding every
// one of them.
func Authenticate(tokens TokenVerifier, users UserLoader, permissions ...model.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			token, found := strings.CutPrefix(authHeader, "Bearer ")
			if !found || token == "" {
				writeJSONError(w, http.StatusUnauthorized, authErrorMessage)
				return
			}

			claims, err := tokens.VerifyToken(token, model.TokenTypeAccess)
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, authErrorMessage)
				return
			}

			userID, err := claims.UserID()
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, authErrorMessage)
				return
			}

			user, err := users.GetByID(r.Context(), userID)
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, authErrorMessage)
				return
			}

			for _, p := range permissions {
				if !user.Role.HasPermission(p) {
					writeJSONError(w, http.StatusForbidden, "Forbidden")
					return
				}
			}

			next.ServeHTTP(w, r.WithContext(ContextWithUser(r.Context(), user)))
		})
	}
}

// ContextWithUser returns a context carrying the authenticated user.
func ContextWithUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext extracts the authenticated user from the request context.
func UserFromContext(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(userKey).(*model.User)
	return user, ok
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{"code": status, "message": msg})
}
