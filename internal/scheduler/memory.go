// Package scheduler implements the spaced-repetition core: the memory model
// applied after each grading event and the selector that picks which card to
// present next. Both are pure with respect to session state; callers own all
// storage.
package scheduler

import (
	"math"
	"time"

	"github.com/lingot-dev/lingot/pkg/models"
)

// RelearnDelay is how soon a failed card comes back for another attempt,
// independent of the normal interval curve.
const RelearnDelay = 5 * time.Minute

const (
	// failurePenalty is subtracted from the ease factor on a failed recall.
	failurePenalty = 0.2
	// firstIntervalDays and secondIntervalDays seed the interval curve.
	firstIntervalDays  = 1
	secondIntervalDays = 6
	// maxIntervalDays caps interval growth (100 years). Keeps the due
	// timestamp arithmetic inside time.Duration range.
	maxIntervalDays = 36500
)

// Review applies one grading event to a card's memory state and returns the
// new state. The input is not modified; the caller stores the result back at
// the card's index.
//
// The grade is clamped into [0,5]; grades below 3 are failures. A failure
// resets the streak and schedules the card RelearnDelay from now. A success
// grows the interval 1 → 6 → round(interval × ease) and then adjusts the ease
// factor by 0.1 − (5−g)·(0.08 + (5−g)·0.02), floored at models.MinEaseFactor.
// The third-and-later interval uses the ease factor as it stood before this
// review's adjustment, and a grade of exactly 4 leaves the ease factor where
// it was.
func Review(state models.MemoryState, grade models.Grade, now time.Time) models.MemoryState {
	grade = grade.Clamp()

	if !grade.Passing() {
		state.Repetitions = 0
		state.IntervalDays = 0
		state.EaseFactor = math.Max(models.MinEaseFactor, state.EaseFactor-failurePenalty)
		state.Due = now.Add(RelearnDelay)
		return state
	}

	state.Repetitions++
	switch state.Repetitions {
	case 1:
		state.IntervalDays = firstIntervalDays
	case 2:
		state.IntervalDays = secondIntervalDays
	default:
		state.IntervalDays = math.Round(state.IntervalDays * state.EaseFactor)
		if state.IntervalDays > maxIntervalDays {
			state.IntervalDays = maxIntervalDays
		}
	}

	q := float64(grade)
	state.EaseFactor += 0.1 - (5-q)*(0.08+(5-q)*0.02)
	if state.EaseFactor < models.MinEaseFactor {
		state.EaseFactor = models.MinEaseFactor
	}

	state.Due = now.Add(time.Duration(state.IntervalDays * 24 * float64(time.Hour)))
	return state
}
