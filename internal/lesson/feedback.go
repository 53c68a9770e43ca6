package lesson

import (
	"time"

	"rakau/internal/models"
)

// Feedback windows. These gate when the learner may submit again, so they are
// part of the pedagogical contract rather than presentation polish.
const (
	DelayCorrect = 700 * time.Millisecond  // correct answer, then advance
	DelayRetry   = 650 * time.Millisecond  // first miss, then clear and retry
	DelayReveal  = 1600 * time.Millisecond // second miss, reveal, then advance
)

// Result classifies a submission. The values are structural signals for the
// presentation layer (colour, motion) — never rendered as verdict words.
type Result string

const (
	ResultCorrect   Result = "correct"
	ResultIncorrect Result = "incorrect"
)

// FollowUp is the action scheduled when a feedback window closes
type FollowUp int

const (
	FollowAdvance FollowUp = iota // move to the next exercise
	FollowRetry                   // clear feedback, same exercise again
)

// Feedback is the transient state shown between a submission and the next
// stable state. Reveal is populated only on the second incorrect attempt.
type Feedback struct {
	Selected string `json:"selected"`
	Result   Result `json:"result"`
	Reveal   string `json:"reveal,omitempty"`
}

// Decide maps an evaluation outcome to feedback, the window duration, and the
// follow-up action. priorAttempts is the incorrect-submission count recorded
// for the exercise before this submission.
func Decide(exercise *models.Exercise, input string, correct bool, priorAttempts int) (Feedback, time.Duration, FollowUp) {
	if correct {
		return Feedback{Selected: input, Result: ResultCorrect}, DelayCorrect, FollowAdvance
	}

	if priorAttempts+1 >= MaxAttempts {
		return Feedback{
			Selected: input,
			Result:   ResultIncorrect,
			Reveal:   revealValue(exercise),
		}, DelayReveal, FollowAdvance
	}

	return Feedback{Selected: input, Result: ResultIncorrect}, DelayRetry, FollowRetry
}

// revealValue is the correct form shown after the second miss. For
// multiple_choice it is the option the evaluator accepts; for everything else
// it is CorrectAnswer verbatim, macrons intact, exactly as authored.
func revealValue(exercise *models.Exercise) string {
	if exercise.Type == models.ExerciseMultipleChoice {
		return CorrectOption(exercise)
	}
	return exercise.CorrectAnswer
}
