package lesson

import "rakau/internal/models"

// IsCorrect reports whether a learner's input matches the correct answer for
// an exercise.
//
// Matching rules, in order (first match wins):
//  1. Exact match (case-insensitive, trimmed) against CorrectAnswer
//  2. Exact match against any AcceptedVariants
//  3. Macron-stripped fallback against CorrectAnswer
//  4. Macron-stripped fallback against any AcceptedVariants
//
// No partial credit, no edit distance. The app never tells the learner they
// are wrong — this function only decides whether to advance or wait silently.
func IsCorrect(input string, exercise *models.Exercise) bool {
	normInput := Normalize(input)
	normCorrect := Normalize(exercise.CorrectAnswer)

	if normInput == normCorrect {
		return true
	}

	for _, variant := range exercise.AcceptedVariants {
		if normInput == Normalize(variant) {
			return true
		}
	}

	strippedInput := StripMacrons(normInput)
	if strippedInput == StripMacrons(normCorrect) {
		return true
	}

	for _, variant := range exercise.AcceptedVariants {
		if strippedInput == StripMacrons(Normalize(variant)) {
			return true
		}
	}

	return false
}

// CorrectOption returns the option string of a multiple_choice exercise that
// the evaluator accepts, falling back to CorrectAnswer when no option matches.
// Used when revealing the correct form after a second miss.
func CorrectOption(exercise *models.Exercise) string {
	for _, option := range exercise.Options {
		if IsCorrect(option, exercise) {
			return option
		}
	}
	return exercise.CorrectAnswer
}
