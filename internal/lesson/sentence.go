package lesson

import (
	"math/rand"
	"strings"

	"rakau/internal/models"
)

const (
	// maxSlotAttempts mirrors the session-level limit: two wrong picks on a
	// slot and the correct word is revealed and locked in.
	maxSlotAttempts = 2

	// maxDistractors caps the wrong options offered alongside the correct word
	maxDistractors = 3
)

// SlotMachine runs the word-by-word sentence builder nested inside one
// sentence_builder exercise.
//
// The per-slot two-strikes rule is independent of the outer session attempt
// map: correctness is only ever reported once, when the full sentence is
// submitted, and a sentence completed via slot reveals still evaluates as
// correct (it was constructed from the target). The outer attempt count for a
// sentence_builder exercise therefore stays at zero.
type SlotMachine struct {
	target       []string
	pool         []string
	built        []string
	slotAttempts int
	options      []string
	rng          *rand.Rand
}

// Pick is the outcome of one word selection
type Pick struct {
	Locked   bool   // the slot was filled (correct pick or auto-reveal)
	Revealed bool   // the slot was filled by reveal after two wrong picks
	Word     string // the word locked into the slot, empty if not locked
	Complete bool   // all slots are now filled
}

// NewSlotMachine creates the builder for a sentence_builder exercise. The
// target sequence is CorrectAnswer split on spaces; distractors are drawn
// from the exercise word pool.
func NewSlotMachine(exercise *models.Exercise, rng *rand.Rand) *SlotMachine {
	m := &SlotMachine{
		target: strings.Fields(exercise.CorrectAnswer),
		pool:   exercise.Words,
		rng:    rng,
	}
	m.refreshOptions()
	return m
}

// SlotIndex returns the number of words already locked in
func (m *SlotMachine) SlotIndex() int {
	return len(m.built)
}

// SlotAttempts returns the wrong-pick count for the active slot
func (m *SlotMachine) SlotAttempts() int {
	return m.slotAttempts
}

// Built returns the words locked in so far
func (m *SlotMachine) Built() []string {
	out := make([]string, len(m.built))
	copy(out, m.built)
	return out
}

// Target returns the full target word sequence
func (m *SlotMachine) Target() []string {
	out := make([]string, len(m.target))
	copy(out, m.target)
	return out
}

// Complete returns true once every slot is filled
func (m *SlotMachine) Complete() bool {
	return len(m.built) >= len(m.target)
}

// Sentence returns the built words joined by spaces
func (m *SlotMachine) Sentence() string {
	return strings.Join(m.built, " ")
}

// Options returns the choices for the active slot: the correct next word plus
// up to three distractors, shuffled. Stable until the slot changes.
func (m *SlotMachine) Options() []string {
	out := make([]string, len(m.options))
	copy(out, m.options)
	return out
}

// PickWord applies one word selection to the active slot.
//
// Correct word: lock it in, reset the slot attempt counter, open the next
// slot. Wrong word: count the attempt; on the second wrong pick the correct
// word is locked in anyway (modelling, not correction) and the next slot
// opens. Picks on a completed builder are no-ops.
func (m *SlotMachine) PickWord(word string) Pick {
	if m.Complete() {
		return Pick{Complete: true}
	}

	correct := m.target[len(m.built)]

	if word == correct {
		m.lock(correct)
		return Pick{Locked: true, Word: correct, Complete: m.Complete()}
	}

	m.slotAttempts++
	if m.slotAttempts >= maxSlotAttempts {
		m.lock(correct)
		return Pick{Locked: true, Revealed: true, Word: correct, Complete: m.Complete()}
	}

	return Pick{}
}

func (m *SlotMachine) lock(word string) {
	m.built = append(m.built, word)
	m.slotAttempts = 0
	m.refreshOptions()
}

// refreshOptions draws distractors for the newly active slot: pool words
// other than the correct word, without replacement, capped at maxDistractors,
// then shuffled together with the correct word.
func (m *SlotMachine) refreshOptions() {
	if m.Complete() {
		m.options = nil
		return
	}

	correct := m.target[len(m.built)]

	var distractors []string
	for _, w := range m.pool {
		if w != correct {
			distractors = append(distractors, w)
		}
	}
	m.shuffle(distractors)
	if len(distractors) > maxDistractors {
		distractors = distractors[:maxDistractors]
	}

	options := append([]string{correct}, distractors...)
	m.shuffle(options)
	m.options = options
}

func (m *SlotMachine) shuffle(words []string) {
	if m.rng != nil {
		m.rng.Shuffle(len(words), func(i, j int) {
			words[i], words[j] = words[j], words[i]
		})
		return
	}
	rand.Shuffle(len(words), func(i, j int) {
		words[i], words[j] = words[j], words[i]
	})
}
