// Columnar bulk-load realized as SQLite, via jmoiron/sqlx over the
// CGO-free modernc.org/sqlite driver, targeting the kernel's
// entity/relationship/event streams.
package persistence

import (
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/kaelhaven/chronicle/internal/kernel"
)

// DB wraps a SQLite connection that serves as a columnar bulk-load
// target.
type DB struct {
	conn *sqlx.DB
}

// OpenSQLite opens or creates a SQLite database at path and migrates its
// schema.
func OpenSQLite(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS entities (
		id INTEGER PRIMARY KEY,
		kind TEXT NOT NULL,
		name TEXT NOT NULL,
		origin TEXT NOT NULL,
		end TEXT,
		attrs_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS relationships (
		id INTEGER PRIMARY KEY,
		source INTEGER NOT NULL,
		target INTEGER NOT NULL,
		kind TEXT NOT NULL,
		start TEXT NOT NULL,
		end TEXT
	);

	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY,
		kind TEXT NOT NULL,
		timestamp TEXT NOT NULL,
		description TEXT NOT NULL,
		caused_by INTEGER
	);

	CREATE TABLE IF NOT EXISTS event_participants (
		event_id INTEGER NOT NULL,
		entity_id INTEGER NOT NULL,
		role TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS event_effects (
		entity_id INTEGER NOT NULL,
		event_id INTEGER NOT NULL,
		field TEXT NOT NULL,
		old_value TEXT,
		new_value TEXT
	);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// BulkLoad replaces the full contents of every table with the current
// World state, one transaction per table: delete, then bulk insert.
func (db *DB) BulkLoad(w *kernel.World) error {
	if err := db.bulkLoadEntities(w); err != nil {
		return err
	}
	if err := db.bulkLoadRelationships(w); err != nil {
		return err
	}
	if err := db.bulkLoadEvents(w); err != nil {
		return err
	}
	if err := db.bulkLoadParticipants(w); err != nil {
		return err
	}
	return db.bulkLoadChanges(w)
}

func (db *DB) bulkLoadEntities(w *kernel.World) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM entities"); err != nil {
		return err
	}
	stmt, err := tx.Preparex(`INSERT INTO entities (id, kind, name, origin, end, attrs_json)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	var loadErr error
	w.Store.All(func(e *kernel.Entity) bool {
		var end any
		if e.End != nil {
			end = e.End.String()
		}
		attrsJSON, err := json.Marshal(e.Attrs)
		if err != nil {
			loadErr = fmt.Errorf("marshal entity %d attrs: %w", e.ID, err)
			return false
		}
		if _, err := stmt.Exec(e.ID, e.Kind.String(), e.Name, e.Origin.String(), end, string(attrsJSON)); err != nil {
			loadErr = fmt.Errorf("insert entity %d: %w", e.ID, err)
			return false
		}
		return true
	})
	if loadErr != nil {
		return loadErr
	}
	return tx.Commit()
}

func (db *DB) bulkLoadRelationships(w *kernel.World) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM relationships"); err != nil {
		return err
	}
	stmt, err := tx.Preparex(`INSERT INTO relationships (id, source, target, kind, start, end)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	var loadErr error
	w.Graph.All(func(r *kernel.Relationship) bool {
		var end any
		if r.End != nil {
			end = r.End.String()
		}
		if _, err := stmt.Exec(r.ID, r.Source, r.Target, r.Kind.String(), r.Start.String(), end); err != nil {
			loadErr = fmt.Errorf("insert relationship %d: %w", r.ID, err)
			return false
		}
		return true
	})
	if loadErr != nil {
		return loadErr
	}
	return tx.Commit()
}

func (db *DB) bulkLoadEvents(w *kernel.World) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM events"); err != nil {
		return err
	}
	stmt, err := tx.Preparex(`INSERT INTO events (id, kind, timestamp, description, caused_by)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range w.Log.Events() {
		var causedBy any
		if e.CausedBy != nil {
			causedBy = *e.CausedBy
		}
		if _, err := stmt.Exec(e.ID, e.Kind.String(), e.Timestamp.String(), e.Description, causedBy); err != nil {
			return fmt.Errorf("insert event %d: %w", e.ID, err)
		}
	}
	return tx.Commit()
}

func (db *DB) bulkLoadParticipants(w *kernel.World) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM event_participants"); err != nil {
		return err
	}
	stmt, err := tx.Preparex(`INSERT INTO event_participants (event_id, entity_id, role) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, p := range w.Log.Participants() {
		if _, err := stmt.Exec(p.EventID, p.EntityID, roleName(p.Role)); err != nil {
			return fmt.Errorf("insert participant for event %d: %w", p.EventID, err)
		}
	}
	return tx.Commit()
}

func (db *DB) bulkLoadChanges(w *kernel.World) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM event_effects"); err != nil {
		return err
	}
	stmt, err := tx.Preparex(`INSERT INTO event_effects (entity_id, event_id, field, old_value, new_value)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, c := range w.Log.Changes() {
		oldJSON, err := attrsToJSON(c.OldValue)
		if err != nil {
			return err
		}
		newJSON, err := attrsToJSON(c.NewValue)
		if err != nil {
			return err
		}
		if _, err := stmt.Exec(c.EntityID, c.EventID, c.Field, oldJSON, newJSON); err != nil {
			return fmt.Errorf("insert change for event %d: %w", c.EventID, err)
		}
	}
	return tx.Commit()
}
