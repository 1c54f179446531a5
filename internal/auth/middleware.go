package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/johnrirwin/yatra/internal/logging"
	"github.com/johnrirwin/yatra/internal/models"
)

type contextKey string

const (
	UserIDKey contextKey = "userID"
	userKey   contextKey = "user"

	SessionCookieName = "session"
)

// Middleware authenticates requests from the session cookie.
type Middleware struct {
	service      *Service
	cookieSecure bool
	logger       *logging.Logger
}

func NewMiddleware(service *Service, cookieSecure bool, logger *logging.Logger) *Middleware {
	return &Middleware{service: service, cookieSecure: cookieSecure, logger: logger}
}

// RequireAuth rejects requests without a valid session with 401.
func (m *Middleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookieName)
		if err != nil || cookie.Value == "" {
			writeUnauthorized(w)
			return
		}

		user, _, err := m.service.Authenticate(r.Context(), cookie.Value)
		if err != nil {
			if !errors.Is(err, ErrUnauthenticated) {
				m.logger.Error("Session lookup failed", logging.WithField("error", err.Error()))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(map[string]string{"error": "Server error"})
				return
			}
			writeUnauthorized(w)
			return
		}

		ctx := context.WithValue(r.Context(), UserIDKey, user.ID)
		ctx = context.WithValue(ctx, userKey, user)
		next(w, r.WithContext(ctx))
	}
}

// SetSessionCookie stores token in the session cookie until expiresAt.
func (m *Middleware) SetSessionCookie(w http.ResponseWriter, token string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   m.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (m *Middleware) ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// GetUserID returns the authenticated user's ID, or "" outside RequireAuth.
func GetUserID(ctx context.Context) string {
	id, _ := ctx.Value(UserIDKey).(string)
	return id
}

// GetUser returns the authenticated user, or nil outside RequireAuth.
func GetUser(ctx context.Context) *models.User {
	user, _ := ctx.Value(userKey).(*models.User)
	return user
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": "Unauthorized"})
}
