package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"rakau/internal/models"
	"rakau/internal/repository"
	"rakau/internal/security"
	"rakau/internal/validation"
)

var (
	ErrEmailTaken         = errors.New("email already taken")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionExpired     = errors.New("session expired")
)

// AuthService handles authentication business logic
type AuthService struct {
	learnerRepo     *repository.LearnerRepository
	sessionDuration time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(learnerRepo *repository.LearnerRepository, sessionDuration time.Duration) *AuthService {
	return &AuthService{
		learnerRepo:     learnerRepo,
		sessionDuration: sessionDuration,
	}
}

// Register creates a new learner account
func (s *AuthService) Register(email, password, name string) (*models.Learner, error) {
	if err := validation.ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, err
	}
	if err := validation.ValidateName(name); err != nil {
		return nil, err
	}

	existing, err := s.learnerRepo.GetLearnerByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing learner: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	passwordHash, err := security.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	learner, err := s.learnerRepo.CreateLearner(email, passwordHash, name)
	if err != nil {
		return nil, fmt.Errorf("failed to create learner: %w", err)
	}

	return learner, nil
}

// Login authenticates a learner and creates a session
func (s *AuthService) Login(email, password string) (*models.Session, *models.Learner, error) {
	learner, err := s.learnerRepo.GetLearnerByEmail(email)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get learner: %w", err)
	}
	if learner == nil {
		return nil, nil, ErrInvalidCredentials
	}

	if !security.CheckPassword(password, learner.PasswordHash) {
		return nil, nil, ErrInvalidCredentials
	}

	return s.createSession(learner)
}

// ValidateSession checks if a session is valid and returns the associated learner
func (s *AuthService) ValidateSession(sessionID string) (*models.Learner, error) {
	session, err := s.learnerRepo.GetSession(sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	if session.IsExpired() {
		_ = s.learnerRepo.DeleteSession(sessionID)
		return nil, ErrSessionExpired
	}

	learner, err := s.learnerRepo.GetLearnerByID(session.LearnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get learner: %w", err)
	}
	if learner == nil {
		return nil, ErrSessionNotFound
	}

	return learner, nil
}

// Logout invalidates a session
func (s *AuthService) Logout(sessionID string) error {
	if err := s.learnerRepo.DeleteSession(sessionID); err != nil {
		return fmt.Errorf("failed to logout: %w", err)
	}
	return nil
}

// CleanupExpiredSessions removes expired sessions from the database
func (s *AuthService) CleanupExpiredSessions() error {
	if err := s.learnerRepo.DeleteExpiredSessions(); err != nil {
		return fmt.Errorf("failed to cleanup sessions: %w", err)
	}
	return nil
}

// OAuthLogin authenticates or creates a learner using an OAuth provider.
// An existing account with the same email is linked on first OAuth login.
func (s *AuthService) OAuthLogin(provider, subject, email, name string) (*models.Session, *models.Learner, error) {
	if provider == "" || subject == "" {
		return nil, nil, errors.New("missing oauth provider information")
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, nil, err
	}

	learner, err := s.learnerRepo.GetLearnerByOAuth(provider, subject)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to lookup oauth learner: %w", err)
	}

	if learner == nil {
		existing, err := s.learnerRepo.GetLearnerByEmail(email)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to check existing learner: %w", err)
		}
		if existing != nil {
			if existing.OAuthProvider != "" && existing.OAuthProvider != provider {
				return nil, nil, ErrEmailTaken
			}
			if err := s.learnerRepo.LinkOAuthProvider(existing.ID, provider, subject); err != nil {
				return nil, nil, fmt.Errorf("failed to link oauth provider: %w", err)
			}
			learner = existing
		} else {
			if name == "" {
				name = strings.Split(email, "@")[0]
			}
			// OAuth accounts get an unusable random password
			randomHash, err := security.HashPassword(security.GenerateSessionID())
			if err != nil {
				return nil, nil, fmt.Errorf("failed to generate oauth password hash: %w", err)
			}
			created, err := s.learnerRepo.CreateLearner(email, randomHash, name)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to create oauth learner: %w", err)
			}
			if err := s.learnerRepo.LinkOAuthProvider(created.ID, provider, subject); err != nil {
				return nil, nil, fmt.Errorf("failed to link oauth provider: %w", err)
			}
			learner = created
		}
	}

	return s.createSession(learner)
}

func (s *AuthService) createSession(learner *models.Learner) (*models.Session, *models.Learner, error) {
	sessionID := security.GenerateSessionID()
	expiresAt := time.Now().Add(s.sessionDuration)

	session, err := s.learnerRepo.CreateSession(sessionID, learner.ID, expiresAt)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create session: %w", err)
	}

	return session, learner, nil
}
