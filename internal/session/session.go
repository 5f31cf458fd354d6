// Package session owns the mutable learning state: the deck, the per-card
// memory table, the category selection and the cursor of the card on screen.
// A Controller serializes access from the TUI goroutine and the deck watcher
// and persists every mutation through a store.Store.
package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/lingot-dev/lingot/internal/deck"
	"github.com/lingot-dev/lingot/internal/scheduler"
	"github.com/lingot-dev/lingot/internal/store"
	"github.com/lingot-dev/lingot/pkg/models"
)

// Session is the complete in-memory learning state. Progress is positional:
// Progress[i] belongs to Cards[i].
type Session struct {
	Cards      []models.Card
	Progress   []models.MemoryState
	LastIndex  int
	Categories models.CategorySet
}

// Options tune a Controller; zero values select production defaults.
type Options struct {
	// Selector picks the next card; nil gets a time-seeded one.
	Selector *scheduler.Selector
	// Clock supplies the current time; nil means time.Now.
	Clock func() time.Time
	// Logger receives diagnostics; nil disables them.
	Logger *DebugLogger
}

// Controller mediates all access to the session.
type Controller struct {
	mu       sync.Mutex
	session  Session
	current  int
	store    store.Store
	selector *scheduler.Selector
	now      func() time.Time
	logger   *DebugLogger
}

// New builds a Controller from the persisted state, falling back to the
// supplied deck and then to the built-in starter deck. It never fails: a
// corrupt or mismatched persisted state is repaired or regenerated, and the
// card store is never empty. The reconciled state is persisted before New
// returns.
func New(fallback []models.Card, st store.Store, opts Options) *Controller {
	c := &Controller{
		current:  models.NoIndex,
		store:    st,
		selector: opts.Selector,
		now:      opts.Clock,
		logger:   opts.Logger,
	}
	if c.selector == nil {
		c.selector = scheduler.NewSelector(nil)
	}
	if c.now == nil {
		c.now = time.Now
	}

	now := c.now()

	snap, err := st.Load()
	if err != nil {
		c.logger.Log("load snapshot: %v", err)
		snap = nil
	}

	var cards []models.Card
	persisted := false
	if snap != nil {
		cards = validCards(snap.Cards)
		persisted = len(cards) > 0
	}
	if len(cards) == 0 {
		cards = validCards(fallback)
	}
	if len(cards) == 0 {
		cards = deck.Builtin()
		c.logger.Log("no usable deck persisted or supplied, using builtin deck (%d cards)", len(cards))
	}

	progress := models.NewProgress(len(cards), now)
	if persisted && len(snap.Progress) == len(cards) {
		for i, p := range snap.Progress {
			progress[i] = p.Sanitize(now)
		}
	} else if persisted {
		c.logger.Log("progress table had %d records for %d cards, regenerated", len(snap.Progress), len(cards))
	}

	lastIndex := models.NoIndex
	if persisted && snap.LastIndex >= 0 && snap.LastIndex < len(cards) {
		lastIndex = snap.LastIndex
	}

	c.session = Session{
		Cards:      cards,
		Progress:   progress,
		LastIndex:  lastIndex,
		Categories: c.resolveFilter(cards),
	}

	c.pickLocked()

	if err := st.Save(c.snapshotLocked()); err != nil {
		c.logger.Log("persist reconciled state: %v", err)
	}

	return c
}

// validCards normalizes the input and drops anything unusable.
func validCards(in []models.Card) []models.Card {
	var out []models.Card
	for _, card := range in {
		if err := card.Validate(); err != nil {
			continue
		}
		out = append(out, card.Normalize())
	}
	return out
}

// resolveFilter returns the persisted category selection when one is
// configured, otherwise the full set of deck categories.
func (c *Controller) resolveFilter(cards []models.Card) models.CategorySet {
	slot, err := c.store.LoadFilter()
	if err != nil {
		c.logger.Log("load category filter: %v", err)
		slot = models.NewCategorySet()
	}
	if slot.Len() > 0 {
		return slot
	}
	return models.AllCategories(cards)
}

// Current returns the card on screen with its memory state and deck index.
// ok is false when nothing matches the current category selection.
func (c *Controller) Current() (card models.Card, state models.MemoryState, index int, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current == models.NoIndex {
		return models.Card{}, models.MemoryState{}, models.NoIndex, false
	}
	return c.session.Cards[c.current], c.session.Progress[c.current], c.current, true
}

// Grade applies the learner's grade to the current card, persists the
// result, and moves on to the next card. It returns the graded card's new
// memory state. A persistence failure does not undo the in-memory review.
func (c *Controller) Grade(g models.Grade) (models.MemoryState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current == models.NoIndex {
		return models.MemoryState{}, ErrNoCurrentCard
	}

	now := c.now()
	idx := c.current
	next := scheduler.Review(c.session.Progress[idx], g, now)
	c.session.Progress[idx] = next
	c.session.LastIndex = idx

	var firstErr error
	entry := store.ReviewEntry{
		CardIndex:    idx,
		Term:         c.session.Cards[idx].Term,
		Grade:        g.Clamp(),
		IntervalDays: next.IntervalDays,
		EaseFactor:   next.EaseFactor,
		ReviewedAt:   now,
	}
	if err := c.store.AppendReview(entry); err != nil {
		c.logger.Log("append review: %v", err)
		firstErr = fmt.Errorf("recording review: %w", err)
	}
	if err := c.store.Save(c.snapshotLocked()); err != nil {
		c.logger.Log("save snapshot: %v", err)
		if firstErr == nil {
			firstErr = fmt.Errorf("persisting session: %w", err)
		}
	}

	c.pickLocked()
	return next, firstErr
}

// Reset regenerates the progress table for the current deck: every card
// becomes new and due immediately.
func (c *Controller) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.session.Progress = models.NewProgress(len(c.session.Cards), now)
	c.session.LastIndex = models.NoIndex
	c.logger.Log("progress reset for %d cards", len(c.session.Cards))

	err := c.store.Save(c.snapshotLocked())
	c.pickLocked()
	if err != nil {
		c.logger.Log("save snapshot: %v", err)
		return fmt.Errorf("persisting reset: %w", err)
	}
	return nil
}

// ReplaceDeck swaps in a new deck wholesale. Progress regenerates from
// scratch; a configured category filter is kept as-is, otherwise the
// selection follows the new deck's categories. An input with no valid cards
// is rejected with deck.ErrEmptyDeck before anything changes.
func (c *Controller) ReplaceDeck(cards []models.Card) error {
	valid := validCards(cards)
	if len(valid) == 0 {
		return deck.ErrEmptyDeck
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.session.Cards = valid
	c.session.Progress = models.NewProgress(len(valid), now)
	c.session.LastIndex = models.NoIndex
	c.session.Categories = c.resolveFilter(valid)
	c.logger.Log("deck replaced: %d cards, %d categories", len(valid), len(models.DeckCategories(valid)))

	err := c.store.Save(c.snapshotLocked())
	c.pickLocked()
	if err != nil {
		c.logger.Log("save snapshot: %v", err)
		return fmt.Errorf("persisting deck: %w", err)
	}
	return nil
}

// SetCategories replaces the category selection and persists it to the
// independent filter slot. An empty set is rejected with ErrEmptyFilter and
// leaves the session untouched.
func (c *Controller) SetCategories(set models.CategorySet) error {
	if set.Len() == 0 {
		return ErrEmptyFilter
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.session.Categories = set.Clone()
	c.pickLocked()

	if err := c.store.SaveFilter(set); err != nil {
		c.logger.Log("save category filter: %v", err)
		return fmt.Errorf("persisting filter: %w", err)
	}
	return nil
}

// ClearCategories empties the persisted filter slot, reverting the selection
// to every category of the current deck.
func (c *Controller) ClearCategories() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.session.Categories = models.AllCategories(c.session.Cards)
	c.pickLocked()

	if err := c.store.ClearFilter(); err != nil {
		c.logger.Log("clear category filter: %v", err)
		return fmt.Errorf("clearing filter: %w", err)
	}
	return nil
}

// Selected returns a copy of the current category selection.
func (c *Controller) Selected() models.CategorySet {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.Categories.Clone()
}

// ActiveIndices returns the deck indices matching the category selection.
func (c *Controller) ActiveIndices() []int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activeLocked()
}

// Counts returns how many active cards exist and how many of them are due.
func (c *Controller) Counts() (due, active int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for _, i := range c.activeLocked() {
		active++
		if c.session.Progress[i].IsDue(now) {
			due++
		}
	}
	return due, active
}

func (c *Controller) activeLocked() []int {
	var active []int
	for i, card := range c.session.Cards {
		if c.session.Categories.Has(card.Category) {
			active = append(active, i)
		}
	}
	return active
}

func (c *Controller) pickLocked() {
	idx, ok := c.selector.Pick(c.activeLocked(), c.session.Progress, c.now(), c.session.LastIndex)
	if !ok {
		c.current = models.NoIndex
		return
	}
	c.current = idx
}

func (c *Controller) snapshotLocked() *store.Snapshot {
	return &store.Snapshot{
		Cards:     c.session.Cards,
		Progress:  c.session.Progress,
		LastIndex: c.session.LastIndex,
		SavedAt:   c.now(),
	}
}
