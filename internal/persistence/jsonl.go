// Package persistence writes two output formats for a completed run:
// line-delimited JSON (this file) and a columnar bulk-load target
// (columnar.go, sqlite.go), both covering the same entity/relationship/
// event/participant/change streams.
package persistence

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kaelhaven/chronicle/internal/kernel"
)

type jsonlEntity struct {
	ID     uint64 `json:"id"`
	Kind   string `json:"kind"`
	Name   string `json:"name"`
	Origin string `json:"origin"`
	End    string `json:"end,omitempty"`
	Attrs  any    `json:"attrs"`
	Extra  any    `json:"extra,omitempty"`
}

type jsonlRelationship struct {
	ID     uint64 `json:"id"`
	Source uint64 `json:"source"`
	Target uint64 `json:"target"`
	Kind   string `json:"kind"`
	Start  string `json:"start"`
	End    string `json:"end,omitempty"`
}

type jsonlEvent struct {
	ID          uint64 `json:"id"`
	Kind        string `json:"kind"`
	Timestamp   string `json:"timestamp"`
	Description string `json:"description"`
	CausedBy    *uint64 `json:"caused_by,omitempty"`
}

type jsonlParticipant struct {
	EventID  uint64 `json:"event_id"`
	EntityID uint64 `json:"entity_id"`
	Role     string `json:"role"`
}

type jsonlChange struct {
	EntityID uint64 `json:"entity_id"`
	EventID  uint64 `json:"event_id"`
	Field    string `json:"field"`
	OldValue any    `json:"old_value"`
	NewValue any    `json:"new_value"`
}

// WriteJSONL dumps entities.jsonl, relationships.jsonl, events.jsonl,
// event_participants.jsonl, and event_effects.jsonl to dir, one JSON
// object per line in id-ascending order.
func WriteJSONL(w *kernel.World, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("persistence: mkdir %s: %w", dir, err)
	}

	if err := writeJSONLFile(filepath.Join(dir, "entities.jsonl"), entityRows(w)); err != nil {
		return err
	}
	if err := writeJSONLFile(filepath.Join(dir, "relationships.jsonl"), relationshipRows(w)); err != nil {
		return err
	}
	if err := writeJSONLFile(filepath.Join(dir, "events.jsonl"), eventRows(w)); err != nil {
		return err
	}
	if err := writeJSONLFile(filepath.Join(dir, "event_participants.jsonl"), participantRows(w)); err != nil {
		return err
	}
	if err := writeJSONLFile(filepath.Join(dir, "event_effects.jsonl"), changeRows(w)); err != nil {
		return err
	}
	return nil
}

func writeJSONLFile(path string, rows []any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("persistence: create %s: %w", path, err)
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	enc := json.NewEncoder(bw)
	for _, row := range rows {
		if err := enc.Encode(row); err != nil {
			return fmt.Errorf("persistence: encode row in %s: %w", path, err)
		}
	}
	return bw.Flush()
}

func entityRows(w *kernel.World) []any {
	var rows []any
	w.Store.All(func(e *kernel.Entity) bool {
		row := jsonlEntity{
			ID:     e.ID,
			Kind:   e.Kind.String(),
			Name:   e.Name,
			Origin: e.Origin.String(),
			Attrs:  e.Attrs,
			Extra:  e.Extra,
		}
		if e.End != nil {
			row.End = e.End.String()
		}
		rows = append(rows, row)
		return true
	})
	return rows
}

func relationshipRows(w *kernel.World) []any {
	var rows []any
	w.Graph.All(func(r *kernel.Relationship) bool {
		row := jsonlRelationship{
			ID:     r.ID,
			Source: r.Source,
			Target: r.Target,
			Kind:   r.Kind.String(),
			Start:  r.Start.String(),
		}
		if r.End != nil {
			row.End = r.End.String()
		}
		rows = append(rows, row)
		return true
	})
	return rows
}

func eventRows(w *kernel.World) []any {
	rows := make([]any, 0, len(w.Log.Events()))
	for _, e := range w.Log.Events() {
		rows = append(rows, jsonlEvent{
			ID:          e.ID,
			Kind:        e.Kind.String(),
			Timestamp:   e.Timestamp.String(),
			Description: e.Description,
			CausedBy:    e.CausedBy,
		})
	}
	return rows
}

func participantRows(w *kernel.World) []any {
	parts := w.Log.Participants()
	rows := make([]any, 0, len(parts))
	for _, p := range parts {
		rows = append(rows, jsonlParticipant{
			EventID:  p.EventID,
			EntityID: p.EntityID,
			Role:     roleName(p.Role),
		})
	}
	return rows
}

func changeRows(w *kernel.World) []any {
	changes := w.Log.Changes()
	rows := make([]any, 0, len(changes))
	for _, c := range changes {
		rows = append(rows, jsonlChange{
			EntityID: c.EntityID,
			EventID:  c.EventID,
			Field:    c.Field,
			OldValue: c.OldValue,
			NewValue: c.NewValue,
		})
	}
	return rows
}

// attrsToJSON renders an entity's typed attributes (or a Change's
// old/new value) as a JSON string for embedding in the columnar dump's
// text columns.
func attrsToJSON(v any) (string, error) {
	if v == nil {
		return "", nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshal attrs: %w", err)
	}
	return string(b), nil
}

func roleName(r kernel.ParticipantRole) string {
	switch r {
	case kernel.RoleSubject:
		return "Subject"
	case kernel.RoleObject:
		return "Object"
	case kernel.RoleAttacker:
		return "Attacker"
	case kernel.RoleDefender:
		return "Defender"
	case kernel.RoleLocation:
		return "Location"
	case kernel.RoleOrigin:
		return "Origin"
	case kernel.RoleDestination:
		return "Destination"
	case kernel.RoleInstigator:
		return "Instigator"
	case kernel.RoleParentRole:
		return "Parent"
	case kernel.RoleWitness:
		return "Witness"
	default:
		return "Unknown"
	}
}
