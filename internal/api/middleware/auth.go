package middleware

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/dom/weather-gate/internal/api/respond"
	"github.com/dom/weather-gate/internal/domain"
	"github.com/dom/weather-gate/internal/service"
)

type contextKey string

const (
	UserKey contextKey = "user"

	TokenCookie = "Token"
)

// Session resolves the Token cookie to a user when possible. It never rejects
// a request; handlers that need a user sit behind RequireUser.
func Session(sessionService *service.SessionService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(TokenCookie)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			user, err := sessionService.GetUserByToken(r.Context(), cookie.Value)
			if err != nil {
				if !errors.Is(err, domain.ErrUnknownSession) {
					log.Printf("ERROR [middleware.Session] token lookup failed: %v", err)
				}
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), UserKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetUser(r.Context()); !ok {
			respond.Error(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func GetUser(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(UserKey).(*domain.User)
	return user, ok
}
