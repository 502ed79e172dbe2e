package persistence

import (
	"path/filepath"
	"testing"
)

func TestOpenSQLiteMigratesSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer db.Close()

	var count int
	if err := db.conn.Get(&count, "SELECT COUNT(*) FROM entities"); err != nil {
		t.Fatalf("expected entities table to exist: %v", err)
	}
	if count != 0 {
		t.Errorf("expected a freshly migrated database to be empty, got %d entities", count)
	}
}

func TestBulkLoadInsertsEveryStream(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer db.Close()

	w := newTestWorld()
	if err := db.BulkLoad(w); err != nil {
		t.Fatalf("BulkLoad: %v", err)
	}

	var entityCount, relCount, eventCount, participantCount, changeCount int
	if err := db.conn.Get(&entityCount, "SELECT COUNT(*) FROM entities"); err != nil {
		t.Fatalf("count entities: %v", err)
	}
	if entityCount != w.Store.Len() {
		t.Errorf("expected %d entities, got %d", w.Store.Len(), entityCount)
	}

	if err := db.conn.Get(&relCount, "SELECT COUNT(*) FROM relationships"); err != nil {
		t.Fatalf("count relationships: %v", err)
	}
	if relCount == 0 {
		t.Error("expected at least one relationship row")
	}

	if err := db.conn.Get(&eventCount, "SELECT COUNT(*) FROM events"); err != nil {
		t.Fatalf("count events: %v", err)
	}
	if eventCount != len(w.Log.Events()) {
		t.Errorf("expected %d events, got %d", len(w.Log.Events()), eventCount)
	}

	if err := db.conn.Get(&participantCount, "SELECT COUNT(*) FROM event_participants"); err != nil {
		t.Fatalf("count participants: %v", err)
	}
	if participantCount != len(w.Log.Participants()) {
		t.Errorf("expected %d participants, got %d", len(w.Log.Participants()), participantCount)
	}

	if err := db.conn.Get(&changeCount, "SELECT COUNT(*) FROM event_effects"); err != nil {
		t.Fatalf("count changes: %v", err)
	}
	if changeCount != len(w.Log.Changes()) {
		t.Errorf("expected %d changes, got %d", len(w.Log.Changes()), changeCount)
	}
}

func TestBulkLoadReplacesPriorContents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer db.Close()

	if err := db.BulkLoad(newTestWorld()); err != nil {
		t.Fatalf("first BulkLoad: %v", err)
	}
	if err := db.BulkLoad(newTestWorld()); err != nil {
		t.Fatalf("second BulkLoad: %v", err)
	}

	var entityCount int
	if err := db.conn.Get(&entityCount, "SELECT COUNT(*) FROM entities"); err != nil {
		t.Fatalf("count entities: %v", err)
	}
	if entityCount != newTestWorld().Store.Len() {
		t.Errorf("expected bulk load to replace rather than accumulate rows, got %d entities", entityCount)
	}
}
