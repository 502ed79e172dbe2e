package persistence

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kaelhaven/chronicle/internal/clock"
	"github.com/kaelhaven/chronicle/internal/kernel"
)

// loadedEntity mirrors jsonlEntity with the attrs held raw until the
// kind is known.
type loadedEntity struct {
	ID     uint64          `json:"id"`
	Kind   string          `json:"kind"`
	Name   string          `json:"name"`
	Origin string          `json:"origin"`
	End    string          `json:"end,omitempty"`
	Attrs  json.RawMessage `json:"attrs"`
	Extra  map[string]any  `json:"extra,omitempty"`
}

// LoadJSONL reconstructs a World from a directory WriteJSONL produced:
// same entities, same relationship timeline, same events, participants,
// and changes. The returned world's clock sits at zero — a loaded world
// is an archive to query, not a run to resume.
func LoadJSONL(dir string) (*kernel.World, error) {
	w := kernel.NewWorld(0, 1)

	if err := eachLine(filepath.Join(dir, "entities.jsonl"), func(line []byte) error {
		var row loadedEntity
		if err := json.Unmarshal(line, &row); err != nil {
			return err
		}
		kind, ok := kernel.ParseEntityKind(row.Kind)
		if !ok {
			return fmt.Errorf("unknown entity kind %q", row.Kind)
		}
		origin, err := clock.Parse(row.Origin)
		if err != nil {
			return err
		}
		attrs := kernel.EmptyAttrs(kind)
		if len(row.Attrs) > 0 {
			if err := json.Unmarshal(row.Attrs, attrs); err != nil {
				return fmt.Errorf("entity %d attrs: %w", row.ID, err)
			}
		}
		e := &kernel.Entity{
			ID: row.ID, Kind: kind, Name: row.Name, Origin: origin,
			Attrs: attrs, Extra: row.Extra,
		}
		if row.End != "" {
			end, err := clock.Parse(row.End)
			if err != nil {
				return err
			}
			e.End = &end
		}
		w.Store.Insert(e)
		return nil
	}); err != nil {
		return nil, fmt.Errorf("persistence: load entities: %w", err)
	}

	// Relationship rows arrive in id order; replaying Open (and Close for
	// ended edges) in that order reproduces the ids.
	if err := eachLine(filepath.Join(dir, "relationships.jsonl"), func(line []byte) error {
		var row jsonlRelationship
		if err := json.Unmarshal(line, &row); err != nil {
			return err
		}
		kind, ok := kernel.ParseRelKind(row.Kind)
		if !ok {
			return fmt.Errorf("unknown relationship kind %q", row.Kind)
		}
		start, err := clock.Parse(row.Start)
		if err != nil {
			return err
		}
		rel := w.Graph.Open(row.Source, row.Target, kind, start, 0)
		if rel.ID != row.ID {
			return fmt.Errorf("relationship id drift: got %d, want %d", rel.ID, row.ID)
		}
		if row.End != "" {
			end, err := clock.Parse(row.End)
			if err != nil {
				return err
			}
			w.Graph.Close(row.Source, row.Target, kind, end)
		}
		return nil
	}); err != nil {
		return nil, fmt.Errorf("persistence: load relationships: %w", err)
	}

	if err := eachLine(filepath.Join(dir, "events.jsonl"), func(line []byte) error {
		var row jsonlEvent
		if err := json.Unmarshal(line, &row); err != nil {
			return err
		}
		kind, ok := kernel.ParseEventKind(row.Kind)
		if !ok {
			return fmt.Errorf("unknown event kind %q", row.Kind)
		}
		at, err := clock.Parse(row.Timestamp)
		if err != nil {
			return err
		}
		ev := w.Log.Append(kind, at, row.Description, row.CausedBy, nil)
		if ev.ID != row.ID {
			return fmt.Errorf("event id drift: got %d, want %d", ev.ID, row.ID)
		}
		return nil
	}); err != nil {
		return nil, fmt.Errorf("persistence: load events: %w", err)
	}

	if err := eachLine(filepath.Join(dir, "event_participants.jsonl"), func(line []byte) error {
		var row jsonlParticipant
		if err := json.Unmarshal(line, &row); err != nil {
			return err
		}
		role, ok := parseRoleName(row.Role)
		if !ok {
			return fmt.Errorf("unknown participant role %q", row.Role)
		}
		w.Log.AddParticipant(row.EventID, row.EntityID, role)
		return nil
	}); err != nil {
		return nil, fmt.Errorf("persistence: load participants: %w", err)
	}

	if err := eachLine(filepath.Join(dir, "event_effects.jsonl"), func(line []byte) error {
		var row jsonlChange
		if err := json.Unmarshal(line, &row); err != nil {
			return err
		}
		w.Log.RecordChange(row.EntityID, row.EventID, row.Field, row.OldValue, row.NewValue)
		return nil
	}); err != nil {
		return nil, fmt.Errorf("persistence: load changes: %w", err)
	}

	return w, nil
}

func eachLine(path string, fn func(line []byte) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 1<<16), 1<<22)
	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		if err := fn(line); err != nil {
			return err
		}
	}
	return sc.Err()
}

func parseRoleName(s string) (kernel.ParticipantRole, bool) {
	for r := kernel.RoleSubject; r <= kernel.RoleWitness; r++ {
		if roleName(r) == s {
			return r, true
		}
	}
	return 0, false
}
