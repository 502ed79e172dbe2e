package persistence

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/kaelhaven/chronicle/internal/kernel"
)

// nullString is the columnar-format NULL marker.
const nullString = `\N`

// escapeColumnar applies the bulk-load text-format escaping convention:
// backslash, tab, carriage return, and newline are backslash-escaped.
func escapeColumnar(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		case '\n':
			b.WriteString(`\n`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func optString(s string) string {
	if s == "" {
		return nullString
	}
	return escapeColumnar(s)
}

func optUint64(p *uint64) string {
	if p == nil {
		return nullString
	}
	return strconv.FormatUint(*p, 10)
}

// WriteColumnar dumps the same five streams as WriteJSONL, formatted as
// tab-separated text records with `\N` for NULL, suitable for a bulk `COPY`-style
// load into the columnar store.
func WriteColumnar(w *kernel.World, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("persistence: mkdir %s: %w", dir, err)
	}

	writers := []struct {
		file string
		fn   func(*bufio.Writer, *kernel.World) error
	}{
		{"entities.tsv", writeEntitiesColumnar},
		{"relationships.tsv", writeRelationshipsColumnar},
		{"events.tsv", writeEventsColumnar},
		{"event_participants.tsv", writeParticipantsColumnar},
		{"event_effects.tsv", writeChangesColumnar},
	}

	for _, wr := range writers {
		path := filepath.Join(dir, wr.file)
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("persistence: create %s: %w", path, err)
		}
		bw := bufio.NewWriter(f)
		if err := wr.fn(bw, w); err != nil {
			f.Close()
			return fmt.Errorf("persistence: write %s: %w", path, err)
		}
		if err := bw.Flush(); err != nil {
			f.Close()
			return fmt.Errorf("persistence: flush %s: %w", path, err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("persistence: close %s: %w", path, err)
		}
	}
	return nil
}

func writeEntitiesColumnar(bw *bufio.Writer, w *kernel.World) error {
	var err error
	w.Store.All(func(e *kernel.Entity) bool {
		end := nullString
		if e.End != nil {
			end = escapeColumnar(e.End.String())
		}
		attrsJSON, marshalErr := attrsToJSON(e.Attrs)
		if marshalErr != nil {
			err = marshalErr
			return false
		}
		_, err = fmt.Fprintf(bw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			e.ID, e.Kind.String(), optString(e.Name), escapeColumnar(e.Origin.String()), end, escapeColumnar(attrsJSON))
		return err == nil
	})
	return err
}

func writeRelationshipsColumnar(bw *bufio.Writer, w *kernel.World) error {
	var err error
	w.Graph.All(func(r *kernel.Relationship) bool {
		end := nullString
		if r.End != nil {
			end = escapeColumnar(r.End.String())
		}
		_, err = fmt.Fprintf(bw, "%d\t%d\t%d\t%s\t%s\t%s\n",
			r.ID, r.Source, r.Target, escapeColumnar(r.Kind.String()), escapeColumnar(r.Start.String()), end)
		return err == nil
	})
	return err
}

func writeEventsColumnar(bw *bufio.Writer, w *kernel.World) error {
	for _, e := range w.Log.Events() {
		if _, err := fmt.Fprintf(bw, "%d\t%s\t%s\t%s\t%s\n",
			e.ID, escapeColumnar(e.Kind.String()), escapeColumnar(e.Timestamp.String()),
			optString(e.Description), optUint64(e.CausedBy)); err != nil {
			return err
		}
	}
	return nil
}

func writeParticipantsColumnar(bw *bufio.Writer, w *kernel.World) error {
	for _, p := range w.Log.Participants() {
		if _, err := fmt.Fprintf(bw, "%d\t%d\t%s\n", p.EventID, p.EntityID, escapeColumnar(roleName(p.Role))); err != nil {
			return err
		}
	}
	return nil
}

func writeChangesColumnar(bw *bufio.Writer, w *kernel.World) error {
	for _, c := range w.Log.Changes() {
		oldJSON, err := attrsToJSON(c.OldValue)
		if err != nil {
			return err
		}
		newJSON, err := attrsToJSON(c.NewValue)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(bw, "%d\t%d\t%s\t%s\t%s\n",
			c.EntityID, c.EventID, escapeColumnar(c.Field), escapeColumnar(oldJSON), escapeColumnar(newJSON)); err != nil {
			return err
		}
	}
	return nil
}
