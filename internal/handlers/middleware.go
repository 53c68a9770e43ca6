package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"rakau/internal/models"
	"rakau/internal/security"
	"rakau/internal/service"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const LearnerContextKey ContextKey = "learner"

// Middleware holds dependencies for middleware functions
type Middleware struct {
	authService *service.AuthService
	rateLimiter *security.RateLimiter
	csrf        *security.CSRFGenerator
}

// NewMiddleware creates a new middleware instance
func NewMiddleware(authService *service.AuthService, rateLimiter *security.RateLimiter, csrf *security.CSRFGenerator) *Middleware {
	return &Middleware{
		authService: authService,
		rateLimiter: rateLimiter,
		csrf:        csrf,
	}
}

// RequireLearner is middleware that requires a valid learner session
func (m *Middleware) RequireLearner(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(security.SessionCookieName)
		if err != nil {
			respondWithError(w, http.StatusUnauthorized, "Authentication required", "", nil)
			return
		}

		learner, err := m.authService.ValidateSession(cookie.Value)
		if err != nil {
			// Clear the stale cookie
			http.SetCookie(w, security.CreateDeleteCookie(r, security.SessionCookieName))
			respondWithError(w, http.StatusUnauthorized, "Session expired", "", nil)
			return
		}

		ctx := context.WithValue(r.Context(), LearnerContextKey, learner)
		next(w, r.WithContext(ctx))
	}
}

// RequireCSRF checks the X-CSRF-Token header on mutating requests.
// The expected token is derived from the learner's session ID.
func (m *Middleware) RequireCSRF(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(security.SessionCookieName)
		if err != nil {
			respondWithError(w, http.StatusUnauthorized, "Authentication required", "", nil)
			return
		}
		if !m.csrf.ValidateToken(cookie.Value, r.Header.Get("X-CSRF-Token")) {
			respondWithError(w, http.StatusForbidden, "Invalid CSRF token", "", nil)
			return
		}
		next(w, r)
	}
}

// RateLimit rejects clients that exceed the configured request rate
func (m *Middleware) RateLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if m.rateLimiter != nil && !m.rateLimiter.Allow(security.GetClientIP(r)) {
			respondWithError(w, http.StatusTooManyRequests, "Too many requests", "", nil)
			return
		}
		next(w, r)
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

// GetLearnerFromContext retrieves the learner from the request context
func GetLearnerFromContext(ctx context.Context) *models.Learner {
	learner, ok := ctx.Value(LearnerContextKey).(*models.Learner)
	if !ok {
		return nil
	}
	return learner
}
