package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"codeassess/internal/models"
	"codeassess/internal/security"
	"codeassess/internal/service"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const SessionContextKey ContextKey = "session"

// Middleware holds dependencies for middleware functions
type Middleware struct {
	authService *service.AuthService
	csrf        *security.CSRFGenerator
	rateLimiter *security.RateLimiter
}

// NewMiddleware creates a new middleware instance
func NewMiddleware(authService *service.AuthService, csrf *security.CSRFGenerator, rateLimiter *security.RateLimiter) *Middleware {
	return &Middleware{
		authService: authService,
		csrf:        csrf,
		rateLimiter: rateLimiter,
	}
}

// LoadSession attaches the session named by the session cookie to the
// request context. Pages stay reachable without one; the backend decides
// what an unauthenticated request may see.
func (m *Middleware) LoadSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookieName)
		if err != nil || cookie.Value == "" {
			next.ServeHTTP(w, r)
			return
		}

		session, err := m.authService.ValidateSession(r.Context(), cookie.Value)
		if err != nil {
			if errors.Is(err, service.ErrSessionNotFound) || errors.Is(err, service.ErrSessionExpired) {
				// Clear invalid cookie
				http.SetCookie(w, security.CreateDeleteCookie(r, SessionCookieName))
			} else {
				// Store failure; keep the cookie so the next request can retry
				log.Printf("Error validating session: %v", err)
			}
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), SessionContextKey, session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// CSRFProtect rejects state-changing requests made under a session
// without that session's CSRF token
func (m *Middleware) CSRFProtect(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := GetSessionFromContext(r.Context())
		if session == nil {
			next(w, r)
			return
		}

		token := r.Header.Get("X-CSRF-Token")
		if token == "" {
			token = r.FormValue(CSRFFormField)
		}

		if !m.csrf.ValidateToken(session.ID, token) {
			respondWithError(w, http.StatusForbidden, ErrInvalidCSRFToken, "", nil)
			return
		}
		next(w, r)
	}
}

// RateLimit limits requests per client IP
func (m *Middleware) RateLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if m.rateLimiter == nil {
			next(w, r)
			return
		}
		ip := m.rateLimiter.ClientIP(r)
		if !m.rateLimiter.Allow(ip) {
			log.Printf("Rate limit exceeded for %s %s", ip, r.URL.Path)
			respondWithError(w, http.StatusTooManyRequests, ErrTooManyRequests, "", nil)
			return
		}
		next(w, r)
	}
}

// CSRFToken returns the CSRF token for the request's session, or "" when
// there is no session
func (m *Middleware) CSRFToken(r *http.Request) string {
	session := GetSessionFromContext(r.Context())
	if session == nil {
		return ""
	}
	token, err := m.csrf.GenerateToken(session.ID)
	if err != nil {
		log.Printf("Error generating CSRF token: %v", err)
		return ""
	}
	return token
}

// Logging middleware logs HTTP requests
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		next.ServeHTTP(w, r)

		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

// GetSessionFromContext retrieves the session from the request context
func GetSessionFromContext(ctx context.Context) *models.Session {
	session, ok := ctx.Value(SessionContextKey).(*models.Session)
	if !ok {
		return nil
	}
	return session
}
