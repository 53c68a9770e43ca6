package lesson

import (
	"errors"
	"testing"
	"time"

	"rakau/internal/models"
)

// manualScheduler lets tests control when feedback windows close
type manualScheduler struct {
	pending   []func()
	cancelled int
	lastDelay time.Duration
}

func (s *manualScheduler) schedule(d time.Duration, fn func()) func() {
	s.lastDelay = d
	s.pending = append(s.pending, fn)
	return func() { s.cancelled++ }
}

// fire runs every pending callback, as if all open windows elapsed
func (s *manualScheduler) fire() {
	pending := s.pending
	s.pending = nil
	for _, fn := range pending {
		fn()
	}
}

func testWhiti() *models.Whiti {
	return &models.Whiti{
		ID:    1,
		Slug:  "nga-tae",
		Title: "Ngā Tae",
		Exercises: []models.Exercise{
			{
				ID:            "ex-1",
				Type:          models.ExerciseMultipleChoice,
				CorrectAnswer: "He whero",
				Options:       []string{"He whero", "He mā"},
			},
			{
				ID:            "ex-2",
				Type:          models.ExerciseTypedInput,
				CorrectAnswer: "He wāteri",
			},
			{
				ID:            "ex-3",
				Type:          models.ExerciseTypedInput,
				CorrectAnswer: "He kōwhai",
			},
		},
	}
}

func TestFlowCorrectAnswerAdvances(t *testing.T) {
	sched := &manualScheduler{}
	flow := NewFlowWithScheduler(testWhiti(), sched.schedule)

	fb, err := flow.Submit("he whero")
	if err != nil {
		t.Fatalf("Submit() error: %v", err)
	}
	if fb.Result != ResultCorrect {
		t.Fatalf("result = %q, want correct", fb.Result)
	}
	if sched.lastDelay != DelayCorrect {
		t.Fatalf("delay = %v, want %v", sched.lastDelay, DelayCorrect)
	}

	// Window open: index unchanged, resubmission rejected
	if view := flow.View(); view.Index != 0 || !view.Locked {
		t.Fatalf("during window: index=%d locked=%v, want 0/true", view.Index, view.Locked)
	}
	if _, err := flow.Submit("he whero"); !errors.Is(err, ErrLocked) {
		t.Fatalf("submission during window: err = %v, want ErrLocked", err)
	}

	sched.fire()
	if view := flow.View(); view.Index != 1 || view.Locked {
		t.Fatalf("after window: index=%d locked=%v, want 1/false", view.Index, view.Locked)
	}
}

func TestFlowFirstMissRetries(t *testing.T) {
	sched := &manualScheduler{}
	flow := NewFlowWithScheduler(testWhiti(), sched.schedule)

	fb, err := flow.Submit("He mā")
	if err != nil {
		t.Fatalf("Submit() error: %v", err)
	}
	if fb.Result != ResultIncorrect || fb.Reveal != "" {
		t.Fatalf("first miss: result=%q reveal=%q, want incorrect with no reveal", fb.Result, fb.Reveal)
	}
	if sched.lastDelay != DelayRetry {
		t.Fatalf("delay = %v, want %v", sched.lastDelay, DelayRetry)
	}

	sched.fire()
	if view := flow.View(); view.Index != 0 || view.Locked || view.Feedback != nil {
		t.Fatalf("after retry window the learner should face the same exercise again")
	}
}

func TestFlowSecondMissRevealsAndAdvances(t *testing.T) {
	sched := &manualScheduler{}
	flow := NewFlowWithScheduler(testWhiti(), sched.schedule)

	flow.Submit("He mā")
	sched.fire()

	fb, err := flow.Submit("He mā")
	if err != nil {
		t.Fatalf("Submit() error: %v", err)
	}
	if fb.Reveal != "He whero" {
		t.Fatalf("reveal = %q, want %q", fb.Reveal, "He whero")
	}
	if sched.lastDelay != DelayReveal {
		t.Fatalf("delay = %v, want %v", sched.lastDelay, DelayReveal)
	}

	// The view holds the missed exercise while the reveal window is open
	if view := flow.View(); view.Index != 0 || view.Feedback == nil {
		t.Fatalf("during reveal window: index=%d, want 0 with feedback", view.Index)
	}

	sched.fire()
	if view := flow.View(); view.Index != 1 {
		t.Fatalf("after reveal window: index=%d, want 1", view.Index)
	}
}

func TestFlowCompletionScenario(t *testing.T) {
	// Spec scenario: 3-exercise lesson; correct, correct, wrong, wrong →
	// completed after the 4th submission's window.
	sched := &manualScheduler{}
	flow := NewFlowWithScheduler(testWhiti(), sched.schedule)

	completions := 0
	flow.SetOnComplete(func() { completions++ })

	flow.Submit("He whero")
	sched.fire()
	flow.Submit("He wāteri")
	sched.fire()
	flow.Submit("wrong")
	sched.fire()
	flow.Submit("wrong")

	// The second miss records and advances atomically — the session is
	// already terminal even while the reveal window is open.
	if !flow.Completed() {
		t.Fatal("session should be completed after the 4th submission")
	}
	if completions != 1 {
		t.Fatalf("onComplete invoked %d times, want 1", completions)
	}

	sched.fire()
	if _, err := flow.Submit("anything"); !errors.Is(err, ErrCompleted) {
		t.Fatalf("submission after completion: err = %v, want ErrCompleted", err)
	}
}

func TestFlowMultiChoiceRevealScenario(t *testing.T) {
	sched := &manualScheduler{}
	flow := NewFlowWithScheduler(testWhiti(), sched.schedule)

	fb, _ := flow.Submit("He mā")
	if fb.Reveal != "" {
		t.Fatalf("after one incorrect pick reveal = %q, want empty", fb.Reveal)
	}
	sched.fire()

	fb, _ = flow.Submit("He mā")
	if fb.Reveal != "He whero" {
		t.Fatalf("after second incorrect pick reveal = %q, want %q", fb.Reveal, "He whero")
	}
}

func TestFlowInertExercise(t *testing.T) {
	whiti := &models.Whiti{
		ID: 2,
		Exercises: []models.Exercise{
			{ID: "k-1", Type: models.ExerciseKarakia, CorrectAnswer: "karakia text"},
			{ID: "ex-1", Type: models.ExerciseTypedInput, CorrectAnswer: "He whero"},
		},
	}
	sched := &manualScheduler{}
	flow := NewFlowWithScheduler(whiti, sched.schedule)

	if _, err := flow.Submit("anything"); !errors.Is(err, ErrNotAnswerable) {
		t.Fatalf("submit on inert exercise: err = %v, want ErrNotAnswerable", err)
	}

	// Tap through; never recorded as answered
	if err := flow.Continue(); err != nil {
		t.Fatalf("Continue() error: %v", err)
	}
	if view := flow.View(); view.Index != 1 {
		t.Fatalf("index = %d, want 1", view.Index)
	}

	if err := flow.Continue(); !errors.Is(err, ErrAnswerRequired) {
		t.Fatalf("Continue() on answerable exercise: err = %v, want ErrAnswerRequired", err)
	}
}

func TestFlowSentenceBuilder(t *testing.T) {
	whiti := &models.Whiti{
		ID: 3,
		Exercises: []models.Exercise{
			{
				ID:            "sb-1",
				Type:          models.ExerciseSentenceBuilder,
				CorrectAnswer: "He rākau whero",
				Words:         []string{"He", "rākau", "whero", "mā"},
			},
		},
	}
	sched := &manualScheduler{}
	flow := NewFlowWithScheduler(whiti, sched.schedule)

	view := flow.View()
	if view.Slot == nil {
		t.Fatal("sentence builder exercise should expose slot state")
	}
	if view.Slot.TargetLen != 3 {
		t.Fatalf("target length = %d, want 3", view.Slot.TargetLen)
	}

	pick, fb, err := flow.PickWord("He")
	if err != nil || !pick.Locked || fb != nil {
		t.Fatalf("first pick: pick=%+v fb=%v err=%v", pick, fb, err)
	}

	flow.PickWord("rākau")
	pick, fb, err = flow.PickWord("whero")
	if err != nil {
		t.Fatalf("final pick error: %v", err)
	}
	if !pick.Complete {
		t.Fatal("final pick should complete the sentence")
	}
	if fb == nil || fb.Result != ResultCorrect {
		t.Fatalf("completed sentence should submit and evaluate correct, got %+v", fb)
	}

	sched.fire()
	if !flow.Completed() {
		t.Fatal("flow should be completed after the sentence window closes")
	}
}

func TestFlowSlotRevealsBypassOuterAttempts(t *testing.T) {
	whiti := &models.Whiti{
		ID: 4,
		Exercises: []models.Exercise{
			{
				ID:            "sb-1",
				Type:          models.ExerciseSentenceBuilder,
				CorrectAnswer: "He whero",
				Words:         []string{"He", "whero", "mā"},
			},
		},
	}
	sched := &manualScheduler{}
	flow := NewFlowWithScheduler(whiti, sched.schedule)

	// Two wrong picks per slot force reveals; the outer evaluator still only
	// ever sees the completed sentence, which is correct.
	var fb *Feedback
	for fb == nil {
		var err error
		_, fb, err = flow.PickWord("xxx")
		if err != nil {
			t.Fatalf("PickWord error: %v", err)
		}
	}
	if fb.Result != ResultCorrect {
		t.Fatalf("result = %q, want correct", fb.Result)
	}
}

func TestFlowCloseCancelsPendingWindow(t *testing.T) {
	sched := &manualScheduler{}
	flow := NewFlowWithScheduler(testWhiti(), sched.schedule)

	flow.Submit("He whero")
	flow.Close()

	if sched.cancelled != 1 {
		t.Fatalf("cancelled = %d, want 1", sched.cancelled)
	}

	// A stale timer that fires anyway must be a no-op
	sched.fire()
	if view := flow.View(); view.Index != 0 {
		t.Fatalf("index moved after close: %d", view.Index)
	}

	if _, err := flow.Submit("He whero"); !errors.Is(err, ErrClosed) {
		t.Fatalf("submit after close: err = %v, want ErrClosed", err)
	}
}

func TestFlowEmptyWhitiCompletesImmediately(t *testing.T) {
	flow := NewFlow(&models.Whiti{ID: 9})
	if !flow.Completed() {
		t.Fatal("flow over an empty exercise list should be completed")
	}
}
