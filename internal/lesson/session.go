package lesson

// MaxAttempts is the number of incorrect submissions allowed on one exercise
// before the session advances anyway (silence principle: the app models the
// answer instead of correcting the learner).
const MaxAttempts = 2

// Session tracks one in-memory traversal of a whiti.
//
// Intentionally never persisted — state is discarded when the learner leaves
// the lesson, per Te Ataarangi methodology (no score-keeping, no pressure).
type Session struct {
	total     int
	index     int
	attempts  map[string]int
	completed bool
}

// NewSession creates a session positioned at the first of total exercises.
// A session over an empty exercise list is completed immediately.
func NewSession(total int) *Session {
	s := &Session{
		total:    total,
		attempts: make(map[string]int),
	}
	if total == 0 {
		s.Complete()
	}
	return s
}

// Index returns the current 0-based exercise position
func (s *Session) Index() int {
	return s.index
}

// Total returns the number of exercises in the traversal
func (s *Session) Total() int {
	return s.total
}

// Completed returns true once every exercise has been passed or exhausted
func (s *Session) Completed() bool {
	return s.completed
}

// Attempts returns the incorrect-submission count recorded for an exercise
func (s *Session) Attempts(exerciseID string) int {
	return s.attempts[exerciseID]
}

// RecordAttempt registers an incorrect submission against an exercise. When
// the count reaches MaxAttempts the session advances in the same call — there
// is no intermediate state where the count is full but the position has not
// moved. Returns true when that compound advance happened.
func (s *Session) RecordAttempt(exerciseID string) bool {
	if s.completed {
		return false
	}
	s.attempts[exerciseID]++
	if s.attempts[exerciseID] >= MaxAttempts {
		s.Advance()
		return true
	}
	return false
}

// Advance moves to the next exercise, completing the session when the
// position reaches the exercise count. No-op on a completed session.
func (s *Session) Advance() {
	if s.completed {
		return
	}
	s.index++
	if s.index >= s.total {
		s.completed = true
	}
}

// Complete force-transitions the session to its terminal state
func (s *Session) Complete() {
	s.completed = true
}
