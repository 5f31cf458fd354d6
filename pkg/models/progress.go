package models

import (
	"fmt"
	"math"
	"time"
)

const (
	// InitialEaseFactor is the ease assigned to a card that has never been reviewed.
	InitialEaseFactor = 2.5
	// MinEaseFactor is the floor below which ease never drops.
	MinEaseFactor = 1.3
)

// NoIndex marks the absence of a card index ("no card shown yet").
const NoIndex = -1

// MemoryState is the per-card record of the spaced-repetition memory model.
// One MemoryState exists per deck card, index-aligned with the deck.
type MemoryState struct {
	// Repetitions counts consecutive successful reviews. Reset to zero by any failure.
	Repetitions int `json:"repetitions"`
	// IntervalDays is the current scheduling interval in days.
	IntervalDays float64 `json:"interval_days"`
	// EaseFactor controls interval growth; never below MinEaseFactor.
	EaseFactor float64 `json:"ease_factor"`
	// Due is the earliest time the card should be considered for review again.
	Due time.Time `json:"due"`
}

/// NewMemoryState returns the state of a card that has never been reviewed:
// zero repetitions, zero interval, default ease, due immediately.
func NewMemoryState(now time.Time) MemoryState {
	return MemoryState{
		Repetitions:  0,
		IntervalDays: 0,
		EaseFactor:   InitialEaseFactor,
		Due:          now,
	}
}

// NewProgress builds a fresh progress table for n cards, every entry due at now.
func NewProgress(n int, now time.Time) []MemoryState {
	progress := make([]MemoryState, n)
	for i := range progress {
		progress[i] = NewMemoryState(now)
	}
	return progress
}

// IsDue reports whether the card should be considered for review at the given time.
func (m MemoryState) IsDue(now time.Time) bool {
	return !m.Due.After(now)
}

// IsNew reports whether the card has never been graded. A failed card keeps
// zero repetitions but its ease drops, which tells the two apart.
func (m MemoryState) IsNew() bool {
	return m.Repetitions == 0 && m.IntervalDays == 0 && m.EaseFactor == InitialEaseFactor
}

// Sanitize repairs out-of-range or non-finite fields, returning the corrected
// state. Corrupt persisted values degrade to safe defaults field by field
// instead of invalidating the whole record.
func (m MemoryState) Sanitize(now time.Time) MemoryState {
	if m.Repetitions < 0 {
		m.Repetitions = 0
	}
	if math.IsNaN(m.IntervalDays) || math.IsInf(m.IntervalDays, 0) || m.IntervalDays < 0 {
		m.IntervalDays = 0
	}
	if math.IsNaN(m.EaseFactor) || math.IsInf(m.EaseFactor, 0) || m.EaseFactor <= 0 {
		m.EaseFactor = InitialEaseFactor
	}
	if m.EaseFactor < MinEaseFactor {
		m.EaseFactor = MinEaseFactor
	}
	if m.Due.IsZero() {
		m.Due = now
	}
	return m
}

// Summary renders a short presenter line describing the memory state.
func (m MemoryState) Summary(now time.Time) string {
	switch {
	case m.IsNew():
		return "new card"
	case m.Repetitions == 0:
		return fmt.Sprintf("relearning · ease %.2f · %s", m.EaseFactor, dueIn(m.Due, now))
	default:
		return fmt.Sprintf("streak %d · ease %.2f · %s", m.Repetitions, m.EaseFactor, dueIn(m.Due, now))
	}
}

// dueIn formats the distance to the due time at a coarse, human granularity.
func dueIn(due, now time.Time) string {
	d := due.Sub(now)
	switch {
	case d <= 0:
		return "due now"
	case d < time.Hour:
		return fmt.Sprintf("due in %dm", int(d.Minutes()+0.5))
	case d < 48*time.Hour:
		return fmt.Sprintf("due in %dh", int(d.Hours()+0.5))
	default:
		return fmt.Sprintf("due in %dd", int(d.Hours()/24+0.5))
	}
}
