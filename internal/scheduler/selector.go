package scheduler

import (
	"math/rand"
	"time"

	"github.com/lingot-dev/lingot/pkg/models"
)

// Intner supplies uniform random integers in [0, n). *rand.Rand satisfies
// it; tests substitute a scripted implementation.
type Intner interface {
	Intn(n int) int
}

// Selector picks the next card to present from the filtered active set.
type Selector struct {
	rng Intner
}

// NewSelector returns a Selector backed by the given randomness source. A
// nil source gets a time-seeded math/rand generator.
func NewSelector(rng Intner) *Selector {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Selector{rng: rng}
}

// Pick returns the index of the next card to show, or false when the active
// set is empty. Due cards take priority; when nothing is due the whole
// active set becomes the pool, so a session never stalls waiting for the
// clock. Within the pool the previously shown index is excluded whenever at
// least one alternative remains. progress is read-only.
func (s *Selector) Pick(active []int, progress []models.MemoryState, now time.Time, last int) (int, bool) {
	if len(active) == 0 {
		return models.NoIndex, false
	}

	due := make([]int, 0, len(active))
	for _, idx := range active {
		if idx >= 0 && idx < len(progress) && progress[idx].IsDue(now) {
			due = append(due, idx)
		}
	}

	pool := due
	if len(pool) == 0 {
		pool = active
	}
	pool = withoutLast(pool, last)
	return pool[s.rng.Intn(len(pool))], true
}

// withoutLast filters last out of the pool unless that would empty it.
func withoutLast(pool []int, last int) []int {
	if last == models.NoIndex || len(pool) < 2 {
		return pool
	}
	trimmed := make([]int, 0, len(pool))
	for _, idx := range pool {
		if idx != last {
			trimmed = append(trimmed, idx)
		}
	}
	if len(trimmed) == 0 {
		return pool
	}
	return trimmed
}
