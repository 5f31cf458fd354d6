package session

import "errors"

var (
	// ErrEmptyFilter rejects an attempt to select zero categories. An empty
	// selection is only ever a persisted default meaning "everything", never
	// a valid interactive choice.
	ErrEmptyFilter = errors.New("category selection is empty")

	// ErrNoCurrentCard means no card is on screen because nothing matches
	// the current category selection.
	ErrNoCurrentCard = errors.New("no card is currently shown")
)
