package lesson

import (
	"errors"
	"math/rand"
	"sync"
	"time"

	"rakau/internal/models"
)

var (
	// ErrLocked is returned while a feedback window is open. Submissions are
	// rejected, never queued — the learner waits for the window to close.
	ErrLocked = errors.New("submission in flight")

	// ErrCompleted is returned once the session has reached its terminal state
	ErrCompleted = errors.New("lesson already completed")

	// ErrClosed is returned after the flow has been torn down
	ErrClosed = errors.New("flow closed")

	// ErrNotAnswerable is returned when submitting against an inert exercise
	ErrNotAnswerable = errors.New("exercise type has no evaluation")

	// ErrNotBuilder is returned when picking a word outside a sentence builder
	ErrNotBuilder = errors.New("exercise is not a sentence builder")

	// ErrAnswerRequired is returned when tapping through an exercise that
	// expects an answer
	ErrAnswerRequired = errors.New("exercise expects an answer")
)

// Scheduler runs fn after d and returns a cancel func. The default is
// time.AfterFunc; tests substitute a synchronous implementation.
type Scheduler func(d time.Duration, fn func()) (cancel func())

func afterFunc(d time.Duration, fn func()) func() {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}

// Flow orchestrates one learner's traversal of a whiti: it owns the session
// state machine, the transient feedback state, and the sentence-builder slot
// machine for the current exercise.
//
// All mutation happens under one mutex; the only asynchrony is the scheduled
// close of a feedback window. Flows are created per lesson entry and
// discarded on exit — Close cancels any pending window so stale timers are
// no-ops.
type Flow struct {
	mu sync.Mutex

	whiti   *models.Whiti
	session *Session

	builder    *SlotMachine
	builderFor string // exercise ID the builder belongs to

	feedback  *Feedback
	heldIndex int // exercise index the open feedback refers to

	locked bool
	closed bool
	gen    int // invalidates scheduled callbacks from earlier submissions

	cancel   func()
	schedule Scheduler
	rng      *rand.Rand

	onComplete func()
	notified   bool
}

// FlowView is a snapshot of the flow for the presentation layer. While a
// feedback window is open the view keeps reporting the exercise the feedback
// refers to, even if the underlying session has already advanced.
type FlowView struct {
	WhitiID   int              `json:"whitiId"`
	Index     int              `json:"index"`
	Total     int              `json:"total"`
	Completed bool             `json:"completed"`
	Locked    bool             `json:"locked"`
	Exercise  *models.Exercise `json:"exercise,omitempty"`
	Feedback  *Feedback        `json:"feedback,omitempty"`
	Slot      *SlotView        `json:"slot,omitempty"`
}

// SlotView is the sentence-builder portion of a FlowView
type SlotView struct {
	Built     []string `json:"built"`
	SlotIndex int      `json:"slotIndex"`
	TargetLen int      `json:"targetLen"`
	Options   []string `json:"options"`
}

// NewFlow creates a flow over a whiti with real timers
func NewFlow(whiti *models.Whiti) *Flow {
	return NewFlowWithScheduler(whiti, afterFunc)
}

// NewFlowWithScheduler creates a flow with a custom feedback-window scheduler
func NewFlowWithScheduler(whiti *models.Whiti, schedule Scheduler) *Flow {
	f := &Flow{
		whiti:    whiti,
		session:  NewSession(len(whiti.Exercises)),
		schedule: schedule,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	f.syncBuilder()
	return f
}

// SetOnComplete registers a callback invoked exactly once when the session
// reaches its terminal state. Called outside the flow's lock.
func (f *Flow) SetOnComplete(fn func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onComplete = fn
}

// Submit evaluates a learner's answer for the current exercise and opens the
// feedback window. Correct: advance when the window closes. First miss: clear
// and allow resubmission. Second miss: the correct form is revealed and the
// session advances (the advance itself is atomic with recording the attempt).
func (f *Flow) Submit(input string) (Feedback, error) {
	fb, notify, err := f.submit(input)
	if notify != nil {
		notify()
	}
	return fb, err
}

func (f *Flow) submit(input string) (Feedback, func(), error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	exercise, err := f.submittable()
	if err != nil {
		return Feedback{}, nil, err
	}
	if BehaviourFor(exercise.Type) == BehaviourInert {
		return Feedback{}, nil, ErrNotAnswerable
	}

	return f.evaluate(exercise, input)
}

// evaluate runs the answer through the evaluator and feedback policy.
// Caller holds the lock.
func (f *Flow) evaluate(exercise *models.Exercise, input string) (Feedback, func(), error) {
	correct := IsCorrect(input, exercise)
	fb, delay, follow := Decide(exercise, input, correct, f.session.Attempts(exercise.ID))

	var notify func()
	if !correct {
		f.session.RecordAttempt(exercise.ID)
		notify = f.completionNotice()
	}

	f.feedback = &fb
	f.heldIndex = f.indexOf(exercise)
	f.locked = true
	f.gen++

	gen := f.gen
	advance := follow == FollowAdvance && correct
	f.cancel = f.schedule(delay, func() { f.expire(gen, advance) })

	return fb, notify, nil
}

// expire closes a feedback window. Guarded by generation and closed checks so
// a stale timer after teardown or re-entry does nothing.
func (f *Flow) expire(gen int, advance bool) {
	f.mu.Lock()

	if f.closed || gen != f.gen {
		f.mu.Unlock()
		return
	}

	f.feedback = nil
	f.locked = false
	f.cancel = nil

	if advance {
		f.session.Advance()
	}
	f.syncBuilder()
	notify := f.completionNotice()

	f.mu.Unlock()
	if notify != nil {
		notify()
	}
}

// PickWord applies a sentence-builder word selection. When the pick completes
// the sentence, the joined sentence is submitted to the evaluator and the
// returned feedback is non-nil.
func (f *Flow) PickWord(word string) (Pick, *Feedback, error) {
	pick, fb, notify, err := f.pickWord(word)
	if notify != nil {
		notify()
	}
	return pick, fb, err
}

func (f *Flow) pickWord(word string) (Pick, *Feedback, func(), error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	exercise, err := f.submittable()
	if err != nil {
		return Pick{}, nil, nil, err
	}
	if BehaviourFor(exercise.Type) != BehaviourBuilder {
		return Pick{}, nil, nil, ErrNotBuilder
	}

	pick := f.builder.PickWord(word)
	if !pick.Complete {
		return pick, nil, nil, nil
	}

	// Full sentence built — submit it to the outer evaluator. It was
	// constructed from the target, so it evaluates as correct; slot-level
	// reveals never surface as an outer incorrect.
	fb, notify, err := f.evaluate(exercise, f.builder.Sentence())
	if err != nil {
		return pick, nil, notify, err
	}
	return pick, &fb, notify, nil
}

// Continue advances past an inert exercise (karakia, waiata, pattern_drill,
// listen_identify). The learner taps through; nothing is recorded as
// answered.
func (f *Flow) Continue() error {
	notify, err := f.cont()
	if notify != nil {
		notify()
	}
	return err
}

func (f *Flow) cont() (func(), error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	exercise, err := f.submittable()
	if err != nil {
		return nil, err
	}
	if BehaviourFor(exercise.Type) != BehaviourInert {
		return nil, ErrAnswerRequired
	}

	f.session.Advance()
	f.syncBuilder()
	return f.completionNotice(), nil
}

// View returns a presentation snapshot of the flow
func (f *Flow) View() FlowView {
	f.mu.Lock()
	defer f.mu.Unlock()

	view := FlowView{
		WhitiID:   f.whiti.ID,
		Total:     f.session.Total(),
		Completed: f.session.Completed(),
		Locked:    f.locked,
		Feedback:  f.feedback,
	}

	index := f.session.Index()
	if f.feedback != nil {
		index = f.heldIndex
	}
	view.Index = index

	if index < len(f.whiti.Exercises) {
		view.Exercise = &f.whiti.Exercises[index]
	}

	if f.builder != nil && f.feedback == nil && !view.Completed {
		view.Slot = &SlotView{
			Built:     f.builder.Built(),
			SlotIndex: f.builder.SlotIndex(),
			TargetLen: len(f.builder.Target()),
			Options:   f.builder.Options(),
		}
	}

	return view
}

// Completed reports whether the session has reached its terminal state
func (f *Flow) Completed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.session.Completed()
}

// Close tears the flow down and cancels any pending feedback window
func (f *Flow) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.closed = true
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
}

// submittable returns the current exercise if the flow accepts input.
// Caller holds the lock.
func (f *Flow) submittable() (*models.Exercise, error) {
	if f.closed {
		return nil, ErrClosed
	}
	if f.session.Completed() {
		return nil, ErrCompleted
	}
	if f.locked {
		return nil, ErrLocked
	}
	return &f.whiti.Exercises[f.session.Index()], nil
}

// syncBuilder creates the slot machine when the current exercise is a
// sentence builder. Caller holds the lock.
func (f *Flow) syncBuilder() {
	if f.session.Completed() {
		f.builder = nil
		f.builderFor = ""
		return
	}
	exercise := &f.whiti.Exercises[f.session.Index()]
	if BehaviourFor(exercise.Type) != BehaviourBuilder {
		f.builder = nil
		f.builderFor = ""
		return
	}
	if f.builderFor != exercise.ID {
		f.builder = NewSlotMachine(exercise, f.rng)
		f.builderFor = exercise.ID
	}
}

// completionNotice returns the completion callback when the session has just
// completed, arming it only once. Caller holds the lock; the returned func
// must be invoked after the lock is released.
func (f *Flow) completionNotice() func() {
	if f.session.Completed() && !f.notified && f.onComplete != nil {
		f.notified = true
		return f.onComplete
	}
	return nil
}

func (f *Flow) indexOf(exercise *models.Exercise) int {
	for i := range f.whiti.Exercises {
		if f.whiti.Exercises[i].ID == exercise.ID {
			return i
		}
	}
	return f.session.Index()
}
