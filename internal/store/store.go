// Package store persists a learning session between runs: the deck, the
// per-card memory state, the last shown card, the category filter and an
// append-only review log. The SQLite implementation is the real store; a
// MemStore stands in for it in tests.
package store

import (
	"time"

	"github.com/lingot-dev/lingot/pkg/models"
)

// Snapshot is the full persisted session state. Progress is positional:
// Progress[i] belongs to Cards[i].
type Snapshot struct {
	Cards     []models.Card
	Progress  []models.MemoryState
	LastIndex int
	SavedAt   time.Time
}

// ReviewEntry is one row of the append-only review log.
type ReviewEntry struct {
	// ID is a UUID; AppendReview fills it when empty.
	ID        string
	CardIndex int
	Term      string
	Grade     models.Grade
	// IntervalDays and EaseFactor are the values after the review applied.
	IntervalDays float64
	EaseFactor   float64
	ReviewedAt   time.Time
}

// Store is what a session needs from persistence. Load returns (nil, nil)
// when nothing has been persisted yet. The category filter lives in its own
// slot so it survives deck replacement; LoadFilter returns an empty set when
// the slot has never been written.
type Store interface {
	Load() (*Snapshot, error)
	Save(*Snapshot) error
	LoadFilter() (models.CategorySet, error)
	SaveFilter(models.CategorySet) error
	ClearFilter() error
	AppendReview(ReviewEntry) error
	Close() error
}
