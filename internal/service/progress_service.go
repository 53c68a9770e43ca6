package service

import (
	"context"
	"fmt"
	"log"

	"rakau/internal/content"
	"rakau/internal/models"
	"rakau/internal/repository"
)

// ProgressService tracks which whiti each learner has completed and
// surfaces prerequisite availability.
type ProgressService struct {
	progressRepo *repository.ProgressRepository
	registry     *content.Registry
	emailService *EmailService
}

// NewProgressService creates a new progress service
func NewProgressService(progressRepo *repository.ProgressRepository, registry *content.Registry, emailService *EmailService) *ProgressService {
	return &ProgressService{
		progressRepo: progressRepo,
		registry:     registry,
		emailService: emailService,
	}
}

// RecordCompletion marks a whiti complete for the learner. Completion is
// idempotent; repeating a finished whiti changes nothing. When the
// completion closes out a phase, a congratulations email is sent.
func (s *ProgressService) RecordCompletion(ctx context.Context, learner *models.Learner, whitiID int) error {
	whiti, err := s.registry.Whiti(whitiID)
	if err != nil {
		return fmt.Errorf("unknown whiti %d: %w", whitiID, err)
	}

	already, err := s.progressRepo.IsComplete(learner.ID, whitiID)
	if err != nil {
		return err
	}

	if err := s.progressRepo.MarkComplete(learner.ID, whitiID); err != nil {
		return err
	}

	// Only a first-time completion can close out a phase
	if already || s.emailService == nil || !s.emailService.IsEnabled() {
		return nil
	}

	done, err := s.PhaseComplete(learner.ID, whiti.Phase)
	if err != nil {
		log.Printf("Failed to check phase completion for learner %d: %v", learner.ID, err)
		return nil
	}
	if done {
		if err := s.emailService.SendPhaseCompletionEmail(ctx, learner.Email, learner.Name, whiti.Phase); err != nil {
			log.Printf("Failed to send phase completion email to %s: %v", learner.Email, err)
		}
	}

	return nil
}

// CompletedIDs returns the set of whiti IDs the learner has completed
func (s *ProgressService) CompletedIDs(learnerID int64) (map[int]bool, error) {
	return s.progressRepo.CompletedIDs(learnerID)
}

// IsAvailable reports whether a learner may start the given whiti.
// A whiti is available once all of its prerequisites are complete.
func (s *ProgressService) IsAvailable(learnerID int64, whiti *models.Whiti) (bool, error) {
	if len(whiti.Prerequisites) == 0 {
		return true, nil
	}

	completed, err := s.progressRepo.CompletedIDs(learnerID)
	if err != nil {
		return false, err
	}
	for _, prereq := range whiti.Prerequisites {
		if !completed[prereq] {
			return false, nil
		}
	}
	return true, nil
}

// PhaseComplete reports whether the learner has completed every whiti in a phase
func (s *ProgressService) PhaseComplete(learnerID int64, phase int) (bool, error) {
	phaseWhiti := s.registry.PhaseWhiti(phase)
	if len(phaseWhiti) == 0 {
		return false, nil
	}

	completed, err := s.progressRepo.CompletedIDs(learnerID)
	if err != nil {
		return false, err
	}
	for _, w := range phaseWhiti {
		if !completed[w.ID] {
			return false, nil
		}
	}
	return true, nil
}
