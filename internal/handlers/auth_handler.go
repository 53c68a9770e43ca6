package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"rakau/internal/models"
	"rakau/internal/security"
	"rakau/internal/service"
)

// AuthHandler handles registration, login and logout
type AuthHandler struct {
	authService  *service.AuthService
	emailService *service.EmailService
	csrf         *security.CSRFGenerator
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService, emailService *service.EmailService, csrf *security.CSRFGenerator) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		emailService: emailService,
		csrf:         csrf,
	}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

type learnerResponse struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	CSRFToken string `json:"csrfToken,omitempty"`
}

func (h *AuthHandler) toLearnerResponse(learner *models.Learner, sessionID string) learnerResponse {
	resp := learnerResponse{
		ID:    learner.ID,
		Email: learner.Email,
		Name:  learner.Name,
	}
	if sessionID != "" {
		if token, err := h.csrf.GenerateToken(sessionID); err == nil {
			resp.CSRFToken = token
		}
	}
	return resp
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}

	learner, err := h.authService.Register(req.Email, req.Password, req.Name)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			respondWithError(w, http.StatusConflict, "Email already taken", "", nil)
			return
		}
		respondWithError(w, http.StatusBadRequest, err.Error(), "", nil)
		return
	}

	if h.emailService != nil && h.emailService.IsEnabled() {
		go func(email, name string) {
			if err := h.emailService.SendWelcomeEmail(context.Background(), email, name); err != nil {
				log.Printf("Failed to send welcome email to %s: %v", email, err)
			}
		}(learner.Email, learner.Name)
	}

	session, _, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Registration succeeded but login failed", "auto-login after register", err)
		return
	}

	http.SetCookie(w, security.CreateSessionCookie(r, security.SessionCookieName, session.ID, session.ExpiresAt))
	respondWithJSON(w, http.StatusCreated, h.toLearnerResponse(learner, session.ID))
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}

	session, learner, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		respondWithError(w, http.StatusUnauthorized, "Invalid email or password", "", nil)
		return
	}

	http.SetCookie(w, security.CreateSessionCookie(r, security.SessionCookieName, session.ID, session.ExpiresAt))
	respondWithJSON(w, http.StatusOK, h.toLearnerResponse(learner, session.ID))
}

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(security.SessionCookieName); err == nil {
		if err := h.authService.Logout(cookie.Value); err != nil {
			log.Printf("Failed to delete session: %v", err)
		}
	}

	http.SetCookie(w, security.CreateDeleteCookie(r, security.SessionCookieName))
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	learner := GetLearnerFromContext(r.Context())
	if learner == nil {
		respondWithError(w, http.StatusUnauthorized, "Authentication required", "", nil)
		return
	}

	sessionID := ""
	if cookie, err := r.Cookie(security.SessionCookieName); err == nil {
		sessionID = cookie.Value
	}
	respondWithJSON(w, http.StatusOK, h.toLearnerResponse(learner, sessionID))
}
