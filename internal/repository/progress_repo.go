package repository

import (
	"fmt"

	"rakau/internal/database"
)

// ProgressRepository persists the set of whiti a learner has completed.
// Completion is add-only: finishing a whiti a second time changes nothing,
// and completions are never removed.
type ProgressRepository struct {
	db database.DBTX
}

// NewProgressRepository creates a new progress repository
func NewProgressRepository(db database.DBTX) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// MarkComplete records that a learner has completed a whiti. Idempotent.
func (r *ProgressRepository) MarkComplete(learnerID int64, whitiID int) error {
	query := r.db.GetDialect().InsertCompletionQuery()
	if _, err := r.db.Exec(query, learnerID, whitiID); err != nil {
		return fmt.Errorf("failed to mark whiti complete: %w", err)
	}
	return nil
}

// IsComplete reports whether a learner has completed the given whiti
func (r *ProgressRepository) IsComplete(learnerID int64, whitiID int) (bool, error) {
	var count int
	query := "SELECT COUNT(*) FROM completed_whiti WHERE learner_id = ? AND whiti_id = ?"
	if err := r.db.QueryRow(query, learnerID, whitiID).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check completion: %w", err)
	}
	return count > 0, nil
}

// CompletedIDs returns the set of whiti IDs a learner has completed
func (r *ProgressRepository) CompletedIDs(learnerID int64) (map[int]bool, error) {
	query := "SELECT whiti_id FROM completed_whiti WHERE learner_id = ?"
	rows, err := r.db.Query(query, learnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query completions: %w", err)
	}
	defer rows.Close()

	completed := make(map[int]bool)
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan completion: %w", err)
		}
		completed[id] = true
	}

	return completed, rows.Err()
}

// CompletedCount returns how many whiti a learner has completed
func (r *ProgressRepository) CompletedCount(learnerID int64) (int, error) {
	var count int
	query := "SELECT COUNT(*) FROM completed_whiti WHERE learner_id = ?"
	if err := r.db.QueryRow(query, learnerID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count completions: %w", err)
	}
	return count, nil
}
