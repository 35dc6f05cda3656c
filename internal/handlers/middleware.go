package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"vocabquest/internal/security"
	"vocabquest/internal/utils"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const SessionContextKey ContextKey = "session_id"

// Middleware holds dependencies for middleware functions
type Middleware struct {
	tokens          *security.TokenManager
	sessionLifetime time.Duration
}

// NewMiddleware creates a new middleware instance
func NewMiddleware(tokens *security.TokenManager, sessionLifetime time.Duration) *Middleware {
	return &Middleware{
		tokens:          tokens,
		sessionLifetime: sessionLifetime,
	}
}

// WithSession ensures every request carries a verified widget session id.
// A missing, expired, or forged cookie gets a fresh anonymous session
// rather than an error; the widget never requires a login.
func (m *Middleware) WithSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var sessionID string

		if cookie, err := r.Cookie(SessionCookieName); err == nil {
			if id, err := m.tokens.Verify(cookie.Value); err == nil {
				sessionID = id
			}
		}

		if sessionID == "" {
			sessionID = utils.GenerateSessionID()
			signed, err := m.tokens.Issue(sessionID)
			if err != nil {
				respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to issue session token", err)
				return
			}
			http.SetCookie(w, security.CreateSessionCookie(r, SessionCookieName, signed, time.Now().Add(m.sessionLifetime)))
		}

		ctx := context.WithValue(r.Context(), SessionContextKey, sessionID)
		next(w, r.WithContext(ctx))
	}
}

// Logging middleware logs HTTP requests
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		next.ServeHTTP(w, r)

		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

// SessionIDFromContext retrieves the widget session id from the request context
func SessionIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(SessionContextKey).(string)
	return id
}
