package lesson

import "rakau/internal/models"

// Behaviour classifies how the flow handles an exercise type
type Behaviour int

const (
	// BehaviourAnswer: a single submission evaluated against the answer
	// (multiple_choice, typed_input).
	BehaviourAnswer Behaviour = iota

	// BehaviourBuilder: word-by-word sentence construction with its own
	// per-slot retry policy (sentence_builder).
	BehaviourBuilder

	// BehaviourInert: no evaluation defined yet. The learner experiences the
	// content and taps through; nothing is ever counted as answered.
	BehaviourInert
)

// BehaviourFor routes an exercise type to its behaviour. Unrecognised types
// are inert.
func BehaviourFor(t models.ExerciseType) Behaviour {
	switch t {
	case models.ExerciseMultipleChoice, models.ExerciseTypedInput:
		return BehaviourAnswer
	case models.ExerciseSentenceBuilder:
		return BehaviourBuilder
	default:
		return BehaviourInert
	}
}
