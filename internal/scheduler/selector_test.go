package scheduler

import (
	"math/rand"
	"testing"
	"time"

	"github.com/lingot-dev/lingot/pkg/models"
)

// scriptedIntn plays back a fixed sequence of draws, reduced modulo n.
type scriptedIntn struct {
	vals []int
	pos  int
}

func (s *scriptedIntn) Intn(n int) int {
	if s.pos >= len(s.vals) {
		return 0
	}
	v := s.vals[s.pos] % n
	s.pos++
	return v
}

func dueAt(t time.Time) models.MemoryState {
	return models.MemoryState{EaseFactor: models.InitialEaseFactor, Due: t}
}

func TestPickEmptyActive(t *testing.T) {
	now := time.Now()
	sel := NewSelector(&scriptedIntn{})

	idx, ok := sel.Pick(nil, nil, now, models.NoIndex)
	if ok {
		t.Fatalf("Pick on empty active set returned ok")
	}
	if idx != models.NoIndex {
		t.Errorf("idx = %d, want %d", idx, models.NoIndex)
	}
}

func TestPickSingleCardRepeats(t *testing.T) {
	now := time.Now()
	progress := []models.MemoryState{dueAt(now.Add(time.Hour))}
	sel := NewSelector(&scriptedIntn{})

	// One candidate means the repeat guard cannot apply.
	idx, ok := sel.Pick([]int{0}, progress, now, 0)
	if !ok || idx != 0 {
		t.Errorf("Pick = (%d, %v), want (0, true)", idx, ok)
	}
}

func TestPickPrefersDue(t *testing.T) {
	now := time.Now()
	progress := []models.MemoryState{
		dueAt(now.Add(time.Hour)),
		dueAt(now.Add(2 * time.Hour)),
		dueAt(now.Add(-time.Minute)),
	}
	sel := NewSelector(&scriptedIntn{vals: []int{0, 1, 2, 3, 4}})

	for i := 0; i < 5; i++ {
		idx, ok := sel.Pick([]int{0, 1, 2}, progress, now, models.NoIndex)
		if !ok || idx != 2 {
			t.Fatalf("Pick = (%d, %v), want the only due card (2, true)", idx, ok)
		}
	}
}

func TestPickFallsBackWhenNothingDue(t *testing.T) {
	now := time.Now()
	progress := []models.MemoryState{
		dueAt(now.Add(time.Hour)),
		dueAt(now.Add(time.Hour)),
		dueAt(now.Add(time.Hour)),
	}
	sel := NewSelector(&scriptedIntn{vals: []int{1}})

	idx, ok := sel.Pick([]int{0, 1, 2}, progress, now, models.NoIndex)
	if !ok {
		t.Fatal("Pick returned !ok for a non-empty active set")
	}
	if idx != 1 {
		t.Errorf("idx = %d, want 1", idx)
	}
}

func TestPickAvoidsPreviousCard(t *testing.T) {
	now := time.Now()
	progress := make([]models.MemoryState, 8)
	for i := range progress {
		progress[i] = dueAt(now.Add(-time.Minute))
	}
	active := []int{2, 5, 7}
	sel := NewSelector(rand.New(rand.NewSource(1)))

	seen := make(map[int]int)
	for i := 0; i < 200; i++ {
		idx, ok := sel.Pick(active, progress, now, 5)
		if !ok {
			t.Fatal("Pick returned !ok for a non-empty active set")
		}
		if idx == 5 {
			t.Fatal("Pick repeated the previous card with alternatives available")
		}
		seen[idx]++
	}
	if seen[2] == 0 || seen[7] == 0 {
		t.Errorf("picks not spread across candidates: %v", seen)
	}
}

func TestPickIgnoresStaleLastIndex(t *testing.T) {
	now := time.Now()
	progress := []models.MemoryState{
		dueAt(now.Add(-time.Minute)),
		dueAt(now.Add(-time.Minute)),
	}
	sel := NewSelector(&scriptedIntn{vals: []int{0, 1}})

	// A last index outside the pool must not shrink it.
	for i := 0; i < 2; i++ {
		if _, ok := sel.Pick([]int{0, 1}, progress, now, 99); !ok {
			t.Fatal("Pick returned !ok for a non-empty active set")
		}
	}
}

func TestPickLeavesProgressAlone(t *testing.T) {
	now := time.Now()
	progress := []models.MemoryState{
		dueAt(now.Add(-time.Minute)),
		dueAt(now.Add(time.Hour)),
	}
	before := make([]models.MemoryState, len(progress))
	copy(before, progress)

	sel := NewSelector(rand.New(rand.NewSource(7)))
	for i := 0; i < 20; i++ {
		sel.Pick([]int{0, 1}, progress, now, models.NoIndex)
	}

	for i := range progress {
		if progress[i] != before[i] {
			t.Errorf("progress[%d] changed from %+v to %+v", i, before[i], progress[i])
		}
	}
}

func TestNewSelectorDefaultsRand(t *testing.T) {
	sel := NewSelector(nil)
	progress := []models.MemoryState{dueAt(time.Now())}

	if _, ok := sel.Pick([]int{0}, progress, time.Now(), models.NoIndex); !ok {
		t.Error("selector with default rng failed to pick from a single card")
	}
}
