package session

import "github.com/lingot-dev/lingot/pkg/models"

// matureIntervalDays is the interval from which a card counts as firmly
// learned.
const matureIntervalDays = 21

// CategoryStats summarizes one category of the deck.
type CategoryStats struct {
	Category    string
	Total       int
	Due         int
	New         int
	AverageEase float64
	Selected    bool
}

// Stats is an aggregate picture of the deck and the current selection.
// Active and Due count only cards matching the selection; everything else
// covers the whole deck.
type Stats struct {
	Total       int
	Active      int
	Due         int
	New         int
	Mature      int
	AverageEase float64
	Selected    []string
	Categories  []CategoryStats
}

// Stats computes deck-wide and per-category figures at the current time.
// Categories appear in deck order.
func (c *Controller) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	s := Stats{
		Total:    len(c.session.Cards),
		Selected: c.session.Categories.Labels(),
	}

	order := models.DeckCategories(c.session.Cards)
	perCat := make(map[string]*CategoryStats, len(order))
	catEase := make(map[string]float64, len(order))
	for _, cat := range order {
		perCat[cat] = &CategoryStats{Category: cat, Selected: c.session.Categories.Has(cat)}
	}

	var easeSum float64
	for i, card := range c.session.Cards {
		p := c.session.Progress[i]
		cs := perCat[card.Category]
		cs.Total++
		catEase[card.Category] += p.EaseFactor
		easeSum += p.EaseFactor

		due := p.IsDue(now)
		if due {
			cs.Due++
		}
		if p.IsNew() {
			s.New++
			cs.New++
		}
		if p.IntervalDays >= matureIntervalDays {
			s.Mature++
		}
		if c.session.Categories.Has(card.Category) {
			s.Active++
			if due {
				s.Due++
			}
		}
	}

	if s.Total > 0 {
		s.AverageEase = easeSum / float64(s.Total)
	}
	for _, cat := range order {
		cs := perCat[cat]
		if cs.Total > 0 {
			cs.AverageEase = catEase[cat] / float64(cs.Total)
		}
		s.Categories = append(s.Categories, *cs)
	}
	return s
}
