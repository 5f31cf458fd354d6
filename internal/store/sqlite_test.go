package store

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lingot-dev/lingot/pkg/models"
)

func tempDBPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "test.db")
}

func setupTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(tempDBPath(t))
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := db.Migrate(); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
	})
	return db
}

func sampleSnapshot(now time.Time) *Snapshot {
	return &Snapshot{
		Cards: []models.Card{
			{Term: "hola", Translation: "hello", Category: "greetings",
				Example: "¡Hola!", ExampleTranslation: "Hello!"},
			{Term: "perro", Translation: "dog", Category: "animals"},
		},
		Progress: []models.MemoryState{
			{Repetitions: 2, IntervalDays: 6, EaseFactor: 2.5, Due: now.Add(24 * time.Hour)},
			{Repetitions: 0, IntervalDays: 0, EaseFactor: 2.5, Due: now},
		},
		LastIndex: 1,
		SavedAt:   now,
	}
}

func TestOpenCreatesParentDirectories(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a", "b", "lingot.db")

	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer db.Close()

	if _, err := os.Stat(filepath.Dir(path)); os.IsNotExist(err) {
		t.Errorf("parent directories not created")
	}
	if db.Path() != path {
		t.Errorf("Path() = %q, want %q", db.Path(), path)
	}
}

func TestMigrate(t *testing.T) {
	db := setupTestDB(t)

	tables := []string{"schema_version", "cards", "progress", "session", "category_filter", "review_log"}
	for _, table := range tables {
		var count int
		row := db.conn.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table)
		if err := row.Scan(&count); err != nil {
			t.Errorf("failed to check table %s: %v", table, err)
		}
		if count != 1 {
			t.Errorf("table %s does not exist", table)
		}
	}

	// Re-running must be a no-op.
	if err := db.Migrate(); err != nil {
		t.Errorf("second Migrate failed: %v", err)
	}
}

func TestLoadEmpty(t *testing.T) {
	db := setupTestDB(t)

	snap, err := db.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if snap != nil {
		t.Errorf("Load on empty db = %+v, want nil", snap)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	want := sampleSnapshot(now)

	if err := db.Save(want); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := db.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got == nil {
		t.Fatal("Load returned nil after Save")
	}

	if len(got.Cards) != 2 || got.Cards[0] != want.Cards[0] || got.Cards[1] != want.Cards[1] {
		t.Errorf("Cards = %+v, want %+v", got.Cards, want.Cards)
	}
	if len(got.Progress) != 2 {
		t.Fatalf("got %d progress records, want 2", len(got.Progress))
	}
	for i := range got.Progress {
		g, w := got.Progress[i], want.Progress[i]
		if g.Repetitions != w.Repetitions || g.IntervalDays != w.IntervalDays ||
			g.EaseFactor != w.EaseFactor || !g.Due.Equal(w.Due) {
			t.Errorf("Progress[%d] = %+v, want %+v", i, g, w)
		}
	}
	if got.LastIndex != 1 {
		t.Errorf("LastIndex = %d, want 1", got.LastIndex)
	}
	if !got.SavedAt.Equal(now) {
		t.Errorf("SavedAt = %v, want %v", got.SavedAt, now)
	}
}

func TestSaveReplacesPreviousSnapshot(t *testing.T) {
	db := setupTestDB(t)
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	if err := db.Save(sampleSnapshot(now)); err != nil {
		t.Fatalf("first Save failed: %v", err)
	}

	smaller := &Snapshot{
		Cards:     []models.Card{{Term: "uno", Translation: "one", Category: "numbers"}},
		Progress:  []models.MemoryState{{EaseFactor: 2.5, Due: now}},
		LastIndex: models.NoIndex,
		SavedAt:   now,
	}
	if err := db.Save(smaller); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}

	got, err := db.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(got.Cards) != 1 || got.Cards[0].Term != "uno" {
		t.Errorf("Cards = %+v, want the replacement deck only", got.Cards)
	}
	if got.LastIndex != models.NoIndex {
		t.Errorf("LastIndex = %d, want %d", got.LastIndex, models.NoIndex)
	}
}

func TestFilterSlot(t *testing.T) {
	db := setupTestDB(t)

	set, err := db.LoadFilter()
	if err != nil {
		t.Fatalf("LoadFilter failed: %v", err)
	}
	if set.Len() != 0 {
		t.Errorf("unconfigured filter = %v, want empty", set.Labels())
	}

	if err := db.SaveFilter(models.NewCategorySet("Food", "travel")); err != nil {
		t.Fatalf("SaveFilter failed: %v", err)
	}
	set, err = db.LoadFilter()
	if err != nil {
		t.Fatalf("LoadFilter failed: %v", err)
	}
	if labels := set.Labels(); len(labels) != 2 || labels[0] != "food" || labels[1] != "travel" {
		t.Errorf("filter labels = %v, want [food travel]", labels)
	}

	// The slot is independent of the snapshot tables.
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	if err := db.Save(sampleSnapshot(now)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	set, err = db.LoadFilter()
	if err != nil {
		t.Fatalf("LoadFilter failed: %v", err)
	}
	if set.Len() != 2 {
		t.Errorf("filter lost across Save: %v", set.Labels())
	}

	if err := db.ClearFilter(); err != nil {
		t.Fatalf("ClearFilter failed: %v", err)
	}
	set, err = db.LoadFilter()
	if err != nil {
		t.Fatalf("LoadFilter failed: %v", err)
	}
	if set.Len() != 0 {
		t.Errorf("filter after clear = %v, want empty", set.Labels())
	}
}

func TestAppendReviewAndCount(t *testing.T) {
	db := setupTestDB(t)
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	entries := []ReviewEntry{
		{CardIndex: 0, Term: "hola", Grade: models.GradeGood, IntervalDays: 1, EaseFactor: 2.5, ReviewedAt: now.Add(-48 * time.Hour)},
		{CardIndex: 1, Term: "perro", Grade: models.GradeBlackout, IntervalDays: 0, EaseFactor: 2.3, ReviewedAt: now.Add(-time.Hour)},
		{CardIndex: 0, Term: "hola", Grade: models.GradeEasy, IntervalDays: 6, EaseFactor: 2.6, ReviewedAt: now},
	}
	for _, e := range entries {
		if err := db.AppendReview(e); err != nil {
			t.Fatalf("AppendReview failed: %v", err)
		}
	}

	count, err := db.CountReviewsSince(now.Add(-24 * time.Hour))
	if err != nil {
		t.Fatalf("CountReviewsSince failed: %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}

	total, err := db.CountReviewsSince(time.Time{})
	if err != nil {
		t.Fatalf("CountReviewsSince failed: %v", err)
	}
	if total != 3 {
		t.Errorf("total = %d, want 3", total)
	}
}

func TestLoadCorruptNumericFields(t *testing.T) {
	db := setupTestDB(t)
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	if err := db.Save(sampleSnapshot(now)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	// NULL is how SQLite hands back non-finite REALs.
	if _, err := db.conn.Exec("UPDATE progress SET ease_factor = NULL, interval_days = NULL WHERE idx = 0"); err != nil {
		t.Fatalf("corrupting row: %v", err)
	}
	if _, err := db.conn.Exec("UPDATE progress SET due_at = 'garbage' WHERE idx = 1"); err != nil {
		t.Fatalf("corrupting row: %v", err)
	}

	got, err := db.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !math.IsNaN(got.Progress[0].EaseFactor) || !math.IsNaN(got.Progress[0].IntervalDays) {
		t.Errorf("corrupt numerics = %+v, want NaN fields", got.Progress[0])
	}
	if !got.Progress[1].Due.IsZero() {
		t.Errorf("corrupt due_at = %v, want zero time", got.Progress[1].Due)
	}
}

func TestMemStore(t *testing.T) {
	m := NewMemStore()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	snap, err := m.Load()
	if err != nil || snap != nil {
		t.Fatalf("Load on empty MemStore = (%+v, %v), want (nil, nil)", snap, err)
	}

	want := sampleSnapshot(now)
	if err := m.Save(want); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := m.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	got.Cards[0].Term = "mutated"
	again, _ := m.Load()
	if again.Cards[0].Term == "mutated" {
		t.Error("MemStore aliases caller slices")
	}

	if err := m.AppendReview(ReviewEntry{Term: "hola", ReviewedAt: now}); err != nil {
		t.Fatalf("AppendReview failed: %v", err)
	}
	reviews := m.Reviews()
	if len(reviews) != 1 || reviews[0].ID == "" {
		t.Errorf("reviews = %+v, want one entry with an assigned ID", reviews)
	}
}
