package ledger

import (
	"errors"
	"sort"
	"strings"
	"time"
)

// Entry records the completion of one item in one stage. Entries are
// append-only: once written they are never mutated or deleted except by
// manual operator intervention (deleting an entry from the file forces that
// single key to be reprocessed).
type Entry struct {
	Title       string    `json:"title,omitempty"`
	Artifact    string    `json:"artifact,omitempty"`
	Category    string    `json:"category,omitempty"`
	CompletedAt time.Time `json:"completedAt"`
}

// File is the persisted ledger form. It is JSON, indented, with map keys
// sorted by the encoder, so operators can diff and hand-edit it.
type File struct {
	Description  string           `json:"description"`
	LastUpdated  time.Time        `json:"lastUpdated"`
	TotalEntries int              `json:"totalEntries"`
	Entries      map[string]Entry `json:"entries"`
}

// Ledger is the durable record of completed work for one stage. Presence of
// a key is the sole authority that work for that key is done; absence only
// means the work has not completed yet.
type Ledger struct {
	store       Store
	description string
	lastUpdated time.Time
	entries     map[string]Entry
}

// Open loads the ledger from the store. A missing ledger yields an empty,
// well-formed ledger; only read or parse failures return an error, since
// silently starting empty would reprocess every item.
func Open(store Store, description string) (*Ledger, error) {
	if store == nil {
		return nil, errors.New("ledger store required")
	}
	file, err := store.Load()
	if err != nil {
		return nil, err
	}
	entries := file.Entries
	if entries == nil {
		entries = make(map[string]Entry)
	}
	desc := strings.TrimSpace(file.Description)
	if desc == "" {
		desc = description
	}
	return &Ledger{
		store:       store,
		description: desc,
		lastUpdated: file.LastUpdated,
		entries:     entries,
	}, nil
}

// Has reports whether work for key has completed.
func (l *Ledger) Has(key string) bool {
	_, ok := l.entries[key]
	return ok
}

// Entry returns the recorded entry for key.
func (l *Ledger) Entry(key string) (Entry, bool) {
	entry, ok := l.entries[key]
	return entry, ok
}

// Record appends an entry for key and persists the whole ledger before
// returning, so a crash afterwards can lose at most the in-flight item. If
// key is already present the existing entry is kept untouched and no write
// occurs.
func (l *Ledger) Record(key string, entry Entry) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("ledger key must not be empty")
	}
	if _, exists := l.entries[key]; exists {
		return nil
	}
	if entry.CompletedAt.IsZero() {
		entry.CompletedAt = time.Now().UTC()
	}
	l.entries[key] = entry
	l.lastUpdated = time.Now().UTC()
	if err := l.store.Save(l.file()); err != nil {
		// Roll back the in-memory entry so a retry is possible and Has
		// keeps agreeing with durable state.
		delete(l.entries, key)
		return err
	}
	return nil
}

// Len returns the number of recorded entries.
func (l *Ledger) Len() int {
	return len(l.entries)
}

// Keys returns all recorded keys in sorted order.
func (l *Ledger) Keys() []string {
	keys := make([]string, 0, len(l.entries))
	for key := range l.entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Description returns the ledger's human-readable description.
func (l *Ledger) Description() string {
	return l.description
}

// LastUpdated returns the time of the most recent recorded entry.
func (l *Ledger) LastUpdated() time.Time {
	return l.lastUpdated
}

func (l *Ledger) file() File {
	entries := make(map[string]Entry, len(l.entries))
	for key, entry := range l.entries {
		entries[key] = entry
	}
	return File{
		Description:  l.description,
		LastUpdated:  l.lastUpdated,
		TotalEntries: len(entries),
		Entries:      entries,
	}
}
