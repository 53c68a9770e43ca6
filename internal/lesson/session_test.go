package lesson

import "testing"

func TestSessionAdvanceToCompletion(t *testing.T) {
	s := NewSession(3)

	if s.Completed() {
		t.Fatal("new session should not be completed")
	}
	if s.Index() != 0 {
		t.Fatalf("initial index = %d, want 0", s.Index())
	}

	s.Advance()
	s.Advance()
	if s.Completed() {
		t.Fatal("session completed before final exercise")
	}

	s.Advance()
	if !s.Completed() {
		t.Fatal("session should be completed after advancing past last exercise")
	}
}

func TestSessionEmptyLessonCompletesImmediately(t *testing.T) {
	s := NewSession(0)
	if !s.Completed() {
		t.Fatal("session over zero exercises should be completed")
	}
}

func TestSessionRecordAttempt(t *testing.T) {
	s := NewSession(3)

	if advanced := s.RecordAttempt("ex-1"); advanced {
		t.Fatal("first attempt should not advance")
	}
	if s.Attempts("ex-1") != 1 {
		t.Fatalf("attempts = %d, want 1", s.Attempts("ex-1"))
	}
	if s.Index() != 0 {
		t.Fatalf("index = %d, want 0", s.Index())
	}

	if advanced := s.RecordAttempt("ex-1"); !advanced {
		t.Fatal("second attempt should trigger the compound advance")
	}
	if s.Attempts("ex-1") != MaxAttempts {
		t.Fatalf("attempts = %d, want %d", s.Attempts("ex-1"), MaxAttempts)
	}
	if s.Index() != 1 {
		t.Fatalf("index = %d, want 1 (advanced exactly once)", s.Index())
	}
}

func TestSessionAttemptsNeverExceedMax(t *testing.T) {
	s := NewSession(5)

	// Two misses on each of two exercises; counts are per-exercise and capped
	s.RecordAttempt("ex-1")
	s.RecordAttempt("ex-1")
	s.RecordAttempt("ex-2")
	s.RecordAttempt("ex-2")

	for _, id := range []string{"ex-1", "ex-2"} {
		if s.Attempts(id) > MaxAttempts {
			t.Errorf("attempts[%s] = %d, exceeds MaxAttempts", id, s.Attempts(id))
		}
	}
	if s.Index() != 2 {
		t.Fatalf("index = %d, want 2", s.Index())
	}
}

func TestSessionDoubleMissOnLastExerciseCompletes(t *testing.T) {
	s := NewSession(3)

	// Pass the first two, then miss twice on the third
	s.Advance()
	s.Advance()
	s.RecordAttempt("ex-3")
	if s.Completed() {
		t.Fatal("one miss should not complete the session")
	}
	s.RecordAttempt("ex-3")
	if !s.Completed() {
		t.Fatal("second miss on the last exercise should complete the session")
	}
}

func TestSessionTerminalStateAcceptsNoTransitions(t *testing.T) {
	s := NewSession(1)
	s.Advance()
	if !s.Completed() {
		t.Fatal("session should be completed")
	}

	index := s.Index()
	s.Advance()
	s.RecordAttempt("ex-1")
	if s.Index() != index {
		t.Errorf("index moved after completion: %d -> %d", index, s.Index())
	}
	if s.Attempts("ex-1") != 0 {
		t.Errorf("attempts recorded after completion: %d", s.Attempts("ex-1"))
	}
}

func TestSessionForceComplete(t *testing.T) {
	s := NewSession(4)
	s.Complete()
	if !s.Completed() {
		t.Fatal("Complete() should transition to the terminal state")
	}
}
