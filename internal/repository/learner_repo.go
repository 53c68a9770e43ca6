package repository

import (
	"database/sql"
	"fmt"
	"time"

	"rakau/internal/database"
	"rakau/internal/models"
)

// LearnerRepository handles database operations for learners and their sessions
type LearnerRepository struct {
	db database.DBTX
}

// NewLearnerRepository creates a new learner repository
func NewLearnerRepository(db database.DBTX) *LearnerRepository {
	return &LearnerRepository{db: db}
}

const learnerColumns = "id, email, password_hash, name, oauth_provider, oauth_subject, created_at, updated_at"

func scanLearner(row *sql.Row) (*models.Learner, error) {
	learner := &models.Learner{}
	err := row.Scan(
		&learner.ID,
		&learner.Email,
		&learner.PasswordHash,
		&learner.Name,
		&learner.OAuthProvider,
		&learner.OAuthSubject,
		&learner.CreatedAt,
		&learner.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get learner: %w", err)
	}
	return learner, nil
}

// CreateLearner inserts a new learner into the database
func (r *LearnerRepository) CreateLearner(email, passwordHash, name string) (*models.Learner, error) {
	query := `
		INSERT INTO learners (email, password_hash, name)
		VALUES (?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query, email, passwordHash, name)
	if err != nil {
		return nil, fmt.Errorf("failed to create learner: %w", err)
	}

	return &models.Learner{
		ID:           id,
		Email:        email,
		PasswordHash: passwordHash,
		Name:         name,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}, nil
}

// GetLearnerByEmail retrieves a learner by email address
func (r *LearnerRepository) GetLearnerByEmail(email string) (*models.Learner, error) {
	query := "SELECT " + learnerColumns + " FROM learners WHERE email = ?"
	return scanLearner(r.db.QueryRow(query, email))
}

// GetLearnerByID retrieves a learner by ID
func (r *LearnerRepository) GetLearnerByID(id int64) (*models.Learner, error) {
	query := "SELECT " + learnerColumns + " FROM learners WHERE id = ?"
	return scanLearner(r.db.QueryRow(query, id))
}

// GetLearnerByOAuth retrieves a learner by OAuth provider and subject
func (r *LearnerRepository) GetLearnerByOAuth(provider, subject string) (*models.Learner, error) {
	query := "SELECT " + learnerColumns + " FROM learners WHERE oauth_provider = ? AND oauth_subject = ?"
	return scanLearner(r.db.QueryRow(query, provider, subject))
}

// LinkOAuthProvider links an existing learner to an OAuth provider.
// Fails if the learner is already linked to a provider.
func (r *LearnerRepository) LinkOAuthProvider(learnerID int64, provider, subject string) error {
	query := `
		UPDATE learners
		SET oauth_provider = ?, oauth_subject = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND oauth_provider = ''
	`
	result, err := r.db.Exec(query, provider, subject, learnerID)
	if err != nil {
		return fmt.Errorf("failed to link oauth provider: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read link result: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("oauth provider already linked")
	}

	return nil
}

// CreateSession creates a new session for a learner
func (r *LearnerRepository) CreateSession(sessionID string, learnerID int64, expiresAt time.Time) (*models.Session, error) {
	query := `
		INSERT INTO sessions (id, learner_id, expires_at)
		VALUES (?, ?, ?)
	`
	_, err := r.db.Exec(query, sessionID, learnerID, expiresAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &models.Session{
		ID:        sessionID,
		LearnerID: learnerID,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}, nil
}

// GetSession retrieves a session by ID
func (r *LearnerRepository) GetSession(sessionID string) (*models.Session, error) {
	query := `
		SELECT id, learner_id, expires_at, created_at
		FROM sessions
		WHERE id = ?
	`
	session := &models.Session{}
	err := r.db.QueryRow(query, sessionID).Scan(
		&session.ID,
		&session.LearnerID,
		&session.ExpiresAt,
		&session.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return session, nil
}

// DeleteSession removes a session from the database
func (r *LearnerRepository) DeleteSession(sessionID string) error {
	query := "DELETE FROM sessions WHERE id = ?"
	if _, err := r.db.Exec(query, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteExpiredSessions removes all expired sessions
func (r *LearnerRepository) DeleteExpiredSessions() error {
	query := "DELETE FROM sessions WHERE expires_at < ?"
	if _, err := r.db.Exec(query, time.Now()); err != nil {
		return fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	return nil
}
