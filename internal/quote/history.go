package quote

import (
	"fmt"
	"time"

	"github.com/teslaing/cotizador/internal/models"
)

// History is the append-only log of quote snapshots, one per successful
// generation or revision. Entries are never mutated after creation.
type History struct {
	entries []models.HistoryEntry
}

// Commit appends a deep-copy snapshot of the quote tagged with its current
// version and state, and returns the new entry.
func (h *History) Commit(q *models.Quote) models.HistoryEntry {
	return h.commit(q, "")
}

// CommitNote is Commit with an annotation, used to mark restorations.
func (h *History) CommitNote(q *models.Quote, note string) models.HistoryEntry {
	return h.commit(q, note)
}

func (h *History) commit(q *models.Quote, note string) models.HistoryEntry {
	e := models.HistoryEntry{
		Version:   q.Version,
		Timestamp: time.Now(),
		State:     q.State,
		Snapshot:  q.Clone(),
		Note:      note,
	}
	h.entries = append(h.entries, e)
	return e
}

// List returns the entries in creation order, which equals version order
// since versions only increase.
func (h *History) List() []models.HistoryEntry {
	out := make([]models.HistoryEntry, len(h.entries))
	copy(out, h.entries)
	return out
}

// Len reports the number of committed snapshots.
func (h *History) Len() int { return len(h.entries) }

// Restore returns a deep copy of the snapshot recorded for the given
// version. The caller replaces the working quote with it and commits a new
// entry noting the restoration; the history itself is not rewound.
func (h *History) Restore(v models.Version) (*models.Quote, error) {
	for i := len(h.entries) - 1; i >= 0; i-- {
		if h.entries[i].Version == v {
			return h.entries[i].Snapshot.Clone(), nil
		}
	}
	return nil, fmt.Errorf("history: version %s not found", v)
}

// Replace swaps the full entry list, used when importing a saved session.
func (h *History) Replace(entries []models.HistoryEntry) {
	h.entries = make([]models.HistoryEntry, len(entries))
	copy(h.entries, entries)
}
