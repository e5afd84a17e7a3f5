package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/kshitij/vidtube/internal/api/respond"
	"github.com/kshitij/vidtube/internal/service"
)

type contextKey string

const (
	UserIDKey contextKey = "userID"
)

// Auth requires a valid access token, taken from the Authorization header or
// the accessToken cookie, and puts the account id into the request context.
func Auth(tokens *service.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				respond.Error(w, http.StatusUnauthorized, "Unauthorized request")
				return
			}

			userID, err := tokens.VerifyAccess(token)
			if err != nil {
				log.Printf("ERROR [middleware.Auth] token validation failed: %v", err)
				respond.Error(w, http.StatusUnauthorized, "Invalid access token")
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth attaches the account id when a valid access token is present
// and passes the request through anonymously otherwise.
func OptionalAuth(tokens *service.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token := bearerToken(r); token != "" {
				if userID, err := tokens.VerifyAccess(token); err == nil {
					r = r.WithContext(context.WithValue(r.Context(), UserIDKey, userID))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// bearerToken prefers a well-formed Authorization header and otherwise falls
// back to the accessToken cookie.
func bearerToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		parts := strings.Split(header, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
	}
	if cookie, err := r.Cookie("accessToken"); err == nil {
		return cookie.Value
	}
	return ""
}

func GetUserID(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return userID, ok
}
