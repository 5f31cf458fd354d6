package store

import (
	"database/sql"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/lingot-dev/lingot/pkg/models"
)

// DB is the SQLite-backed Store.
type DB struct {
	conn *sql.DB
	path string
	mu   sync.RWMutex
}

// DefaultPath returns the default database location under the XDG data dir.
func DefaultPath() string {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, _ := os.UserHomeDir()
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "lingot", "lingot.db")
}

// Open opens the SQLite database at the given path, creating parent
// directories as needed. WAL mode is enabled for concurrent reads.
func Open(path string) (*DB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	return &DB{conn: conn, path: path}, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.conn.Close()
}

// Path returns the path to the database file.
func (db *DB) Path() string {
	return db.path
}

// Migrate applies all pending schema migrations.
func (db *DB) Migrate() error {
	db.mu.Lock()
	defer db.mu.Unlock()

	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("create schema_version table: %w", err)
	}

	var currentVersion int
	row := db.conn.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("get schema version: %w", err)
	}

	migrations := []struct {
		version int
		sql     string
	}{
		{1, migrationV1Session},
		{2, migrationV2Filter},
		{3, migrationV3ReviewLog},
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}

		tx, err := db.conn.Begin()
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}
		if _, err := tx.Exec(m.sql); err != nil {
			tx.Rollback()
			return fmt.Errorf("apply migration v%d: %w", m.version, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", m.version); err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration v%d: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration v%d: %w", m.version, err)
		}
	}

	return nil
}

const migrationV1Session = `
CREATE TABLE IF NOT EXISTS cards (
	idx INTEGER PRIMARY KEY,
	term TEXT NOT NULL,
	translation TEXT NOT NULL,
	category TEXT NOT NULL DEFAULT 'other',
	example TEXT,
	example_translation TEXT
);

CREATE TABLE IF NOT EXISTS progress (
	idx INTEGER PRIMARY KEY,
	repetitions INTEGER,
	interval_days REAL,
	ease_factor REAL,
	due_at TEXT
);

CREATE TABLE IF NOT EXISTS session (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	last_index INTEGER NOT NULL,
	saved_at TEXT NOT NULL
);
`

const migrationV2Filter = `
CREATE TABLE IF NOT EXISTS category_filter (
	category TEXT PRIMARY KEY
);
`

const migrationV3ReviewLog = `
CREATE TABLE IF NOT EXISTS review_log (
	id TEXT PRIMARY KEY,
	card_idx INTEGER NOT NULL,
	term TEXT NOT NULL,
	grade INTEGER NOT NULL,
	interval_days REAL NOT NULL,
	ease_factor REAL NOT NULL,
	reviewed_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_review_log_reviewed_at ON review_log(reviewed_at);
`

// Load reads the persisted snapshot. It returns (nil, nil) when no deck has
// been saved. Unreadable numeric fields come back as NaN and unreadable
// timestamps as the zero time, so the session layer can repair them
// per-field instead of losing the whole record.
func (db *DB) Load() (*Snapshot, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	cards, err := db.loadCards()
	if err != nil {
		return nil, err
	}
	if len(cards) == 0 {
		return nil, nil
	}

	progress, err := db.loadProgress()
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{
		Cards:     cards,
		Progress:  progress,
		LastIndex: models.NoIndex,
	}

	row := db.conn.QueryRow("SELECT last_index, saved_at FROM session WHERE id = 1")
	var lastIndex int
	var savedAt string
	switch err := row.Scan(&lastIndex, &savedAt); err {
	case nil:
		snap.LastIndex = lastIndex
		snap.SavedAt, _ = parseTime(savedAt)
	case sql.ErrNoRows:
	default:
		return nil, fmt.Errorf("load session row: %w", err)
	}

	return snap, nil
}

func (db *DB) loadCards() ([]models.Card, error) {
	rows, err := db.conn.Query(`
		SELECT term, translation, category, example, example_translation
		FROM cards ORDER BY idx
	`)
	if err != nil {
		return nil, fmt.Errorf("load cards: %w", err)
	}
	defer rows.Close()

	var cards []models.Card
	for rows.Next() {
		var c models.Card
		var example, exampleTranslation sql.NullString
		if err := rows.Scan(&c.Term, &c.Translation, &c.Category, &example, &exampleTranslation); err != nil {
			// Positional integrity is gone; treat the deck as unsaved.
			return nil, nil
		}
		c.Example = example.String
		c.ExampleTranslation = exampleTranslation.String
		cards = append(cards, c)
	}
	if err := rows.Err(); err != nil {
		return nil, nil
	}
	return cards, nil
}

func (db *DB) loadProgress() ([]models.MemoryState, error) {
	rows, err := db.conn.Query(`
		SELECT repetitions, interval_days, ease_factor, due_at
		FROM progress ORDER BY idx
	`)
	if err != nil {
		return nil, fmt.Errorf("load progress: %w", err)
	}
	defer rows.Close()

	var progress []models.MemoryState
	for rows.Next() {
		var state models.MemoryState
		var repetitions sql.NullInt64
		var interval, ease sql.NullFloat64
		var dueAt sql.NullString
		if err := rows.Scan(&repetitions, &interval, &ease, &dueAt); err != nil {
			return nil, fmt.Errorf("scan progress row: %w", err)
		}

		state.Repetitions = int(repetitions.Int64)
		state.IntervalDays = nullableFloat(interval)
		state.EaseFactor = nullableFloat(ease)
		if dueAt.Valid {
			state.Due, _ = parseTime(dueAt.String)
		}
		progress = append(progress, state)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load progress: %w", err)
	}
	return progress, nil
}

// nullableFloat maps a NULL (how SQLite hands back NaN) to NaN so the
// session's sanitizer sees the corruption instead of a silent zero.
func nullableFloat(f sql.NullFloat64) float64 {
	if !f.Valid {
		return math.NaN()
	}
	return f.Float64
}

// Save replaces the whole persisted snapshot in one transaction.
func (db *DB) Save(snap *Snapshot) error {
	return db.transaction(func(tx *sql.Tx) error {
		if _, err := tx.Exec("DELETE FROM cards"); err != nil {
			return fmt.Errorf("clear cards: %w", err)
		}
		if _, err := tx.Exec("DELETE FROM progress"); err != nil {
			return fmt.Errorf("clear progress: %w", err)
		}

		for i, c := range snap.Cards {
			_, err := tx.Exec(`
				INSERT INTO cards (idx, term, translation, category, example, example_translation)
				VALUES (?, ?, ?, ?, ?, ?)
			`, i, c.Term, c.Translation, c.Category, c.Example, c.ExampleTranslation)
			if err != nil {
				return fmt.Errorf("save card %d: %w", i, err)
			}
		}
		for i, p := range snap.Progress {
			_, err := tx.Exec(`
				INSERT INTO progress (idx, repetitions, interval_days, ease_factor, due_at)
				VALUES (?, ?, ?, ?, ?)
			`, i, p.Repetitions, p.IntervalDays, p.EaseFactor, formatTime(p.Due))
			if err != nil {
				return fmt.Errorf("save progress %d: %w", i, err)
			}
		}

		savedAt := snap.SavedAt
		if savedAt.IsZero() {
			savedAt = time.Now()
		}
		_, err := tx.Exec(`
			INSERT OR REPLACE INTO session (id, last_index, saved_at) VALUES (1, ?, ?)
		`, snap.LastIndex, formatTime(savedAt))
		if err != nil {
			return fmt.Errorf("save session row: %w", err)
		}
		return nil
	})
}

// LoadFilter reads the category filter slot. An empty set means the filter
// has never been configured.
func (db *DB) LoadFilter() (models.CategorySet, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	rows, err := db.conn.Query("SELECT category FROM category_filter")
	if err != nil {
		return nil, fmt.Errorf("load filter: %w", err)
	}
	defer rows.Close()

	set := models.NewCategorySet()
	for rows.Next() {
		var label string
		if err := rows.Scan(&label); err != nil {
			return nil, fmt.Errorf("scan filter row: %w", err)
		}
		set.Add(label)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load filter: %w", err)
	}
	return set, nil
}

// SaveFilter replaces the category filter slot.
func (db *DB) SaveFilter(set models.CategorySet) error {
	return db.transaction(func(tx *sql.Tx) error {
		if _, err := tx.Exec("DELETE FROM category_filter"); err != nil {
			return fmt.Errorf("clear filter: %w", err)
		}
		for _, label := range set.Labels() {
			if _, err := tx.Exec("INSERT INTO category_filter (category) VALUES (?)", label); err != nil {
				return fmt.Errorf("save filter label %q: %w", label, err)
			}
		}
		return nil
	})
}

// ClearFilter empties the category filter slot.
func (db *DB) ClearFilter() error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, err := db.conn.Exec("DELETE FROM category_filter"); err != nil {
		return fmt.Errorf("clear filter: %w", err)
	}
	return nil
}

// AppendReview adds one row to the review log, assigning an ID when the
// entry has none.
func (db *DB) AppendReview(e ReviewEntry) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	_, err := db.conn.Exec(`
		INSERT INTO review_log (id, card_idx, term, grade, interval_days, ease_factor, reviewed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, e.ID, e.CardIndex, e.Term, int(e.Grade), e.IntervalDays, e.EaseFactor, formatTime(e.ReviewedAt))
	if err != nil {
		return fmt.Errorf("append review: %w", err)
	}
	return nil
}

// CountReviewsSince returns how many reviews were logged at or after t.
func (db *DB) CountReviewsSince(t time.Time) (int, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	var count int
	row := db.conn.QueryRow("SELECT COUNT(*) FROM review_log WHERE reviewed_at >= ?", formatTime(t))
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("count reviews: %w", err)
	}
	return count, nil
}

// transaction runs fn within a write transaction.
func (db *DB) transaction(fn func(tx *sql.Tx) error) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// formatTime formats a time.Time for SQLite storage.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// parseTime parses a time string from SQLite.
func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}
