package store

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lingot-dev/lingot/pkg/models"
)

// MemStore is an in-memory Store for tests. It deep-copies snapshots both
// ways so callers and the store never alias each other's slices.
type MemStore struct {
	mu      sync.Mutex
	snap    *Snapshot
	filter  models.CategorySet
	reviews []ReviewEntry

	// FailSave, when set, is returned by Save. Lets tests exercise
	// persistence failures.
	FailSave error
}

// NewMemStore returns an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{filter: models.NewCategorySet()}
}

func copySnapshot(s *Snapshot) *Snapshot {
	if s == nil {
		return nil
	}
	out := &Snapshot{
		Cards:     make([]models.Card, len(s.Cards)),
		Progress:  make([]models.MemoryState, len(s.Progress)),
		LastIndex: s.LastIndex,
		SavedAt:   s.SavedAt,
	}
	copy(out.Cards, s.Cards)
	copy(out.Progress, s.Progress)
	return out
}

// Load returns a copy of the last saved snapshot, or (nil, nil).
func (m *MemStore) Load() (*Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return copySnapshot(m.snap), nil
}

// Save stores a copy of the snapshot.
func (m *MemStore) Save(s *Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailSave != nil {
		return m.FailSave
	}
	saved := copySnapshot(s)
	if saved != nil && saved.SavedAt.IsZero() {
		saved.SavedAt = time.Now()
	}
	m.snap = saved
	return nil
}

// LoadFilter returns a copy of the filter slot.
func (m *MemStore) LoadFilter() (models.CategorySet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.filter.Clone(), nil
}

// SaveFilter replaces the filter slot.
func (m *MemStore) SaveFilter(set models.CategorySet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.filter = set.Clone()
	return nil
}

// ClearFilter empties the filter slot.
func (m *MemStore) ClearFilter() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.filter = models.NewCategorySet()
	return nil
}

// AppendReview records the entry, assigning an ID when it has none.
func (m *MemStore) AppendReview(e ReviewEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	m.reviews = append(m.reviews, e)
	return nil
}

// Reviews returns a copy of the logged entries, oldest first.
func (m *MemStore) Reviews() []ReviewEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]ReviewEntry, len(m.reviews))
	copy(out, m.reviews)
	return out
}

// Close is a no-op.
func (m *MemStore) Close() error {
	return nil
}
