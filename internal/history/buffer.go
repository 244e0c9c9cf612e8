// Package history keeps the commands submitted to a shell session and the
// cursor used to browse them.
package history

import (
	"strings"

	"shellkit/internal/logging"
)

// Buffer stores submitted commands in submission order. Duplicates are kept.
//
// cursor is always in [0, len(entries)]; len(entries) means no entry is
// currently being shown.
type Buffer struct {
	entries []string
	cursor  int
	limit   int
	store   Store
}

// Option configures a Buffer.
type Option func(*Buffer)

// WithLimit caps the number of in-memory entries; 0 means unlimited.
// The oldest entries are dropped first. The backing store is not pruned.
func WithLimit(n int) Option {
	return func(b *Buffer) {
		if n > 0 {
			b.limit = n
		}
	}
}

// New creates a Buffer backed by store, which may be nil for an in-memory
// history. The store is read once; blank entries are skipped and the cursor
// is left past the last entry so the first Up recalls the most recent
// command of the previous session. A store that cannot be read degrades the
// buffer to in-memory for the rest of the session.
func New(store Store, opts ...Option) *Buffer {
	b := &Buffer{store: store}
	for _, opt := range opts {
		opt(b)
	}

	if b.store != nil {
		lines, err := b.store.Load()
		if err != nil {
			b.detach("load", err)
		}
		for _, line := range lines {
			if strings.TrimSpace(line) == "" {
				continue
			}
			b.entries = append(b.entries, line)
		}
		logging.HistoryDebug("loaded %d history entries", len(b.entries))
	}
	b.trim()
	b.cursor = len(b.entries)
	return b
}

// Add appends cmd and resets the cursor. Blank commands are ignored.
func (b *Buffer) Add(cmd string) {
	if strings.TrimSpace(cmd) == "" {
		return
	}
	b.entries = append(b.entries, cmd)
	b.trim()
	b.cursor = len(b.entries)

	if b.store != nil {
		if err := b.store.Append(cmd); err != nil {
			b.detach("append", err)
		}
	}
}

// Up moves the cursor back one entry and returns it. It reports false when
// there is no previous entry; the cursor does not move in that case.
func (b *Buffer) Up() (string, bool) {
	if len(b.entries) == 0 || b.cursor <= 0 {
		return "", false
	}
	b.cursor--
	return b.entries[b.cursor], true
}

// Down moves the cursor forward one entry and returns it. It reports false
// when the cursor is at or after the newest entry.
func (b *Buffer) Down() (string, bool) {
	if len(b.entries) == 0 || b.cursor >= len(b.entries)-1 {
		return "", false
	}
	b.cursor++
	return b.entries[b.cursor], true
}

// Clear empties the history and truncates the backing store.
func (b *Buffer) Clear() {
	b.entries = nil
	b.cursor = 0
	if b.store != nil {
		if err := b.store.Truncate(); err != nil {
			b.detach("truncate", err)
		}
	}
}

// Entries returns a copy of the stored commands, oldest first.
func (b *Buffer) Entries() []string {
	out := make([]string, len(b.entries))
	copy(out, b.entries)
	return out
}

// Len returns the number of stored commands.
func (b *Buffer) Len() int { return len(b.entries) }

// Cursor returns the browse position.
func (b *Buffer) Cursor() int { return b.cursor }

// Persistent reports whether a backing store is still attached.
func (b *Buffer) Persistent() bool { return b.store != nil }

// Close releases the backing store.
func (b *Buffer) Close() error {
	if b.store == nil {
		return nil
	}
	err := b.store.Close()
	b.store = nil
	return err
}

func (b *Buffer) trim() {
	if b.limit > 0 && len(b.entries) > b.limit {
		// Copy so the dropped entries are not pinned by the backing array
		b.entries = append([]string(nil), b.entries[len(b.entries)-b.limit:]...)
	}
}

// detach drops the store after a failure; history keeps working in memory.
func (b *Buffer) detach(op string, err error) {
	logging.HistoryWarn("history store %s failed, continuing in memory: %v", op, err)
	_ = b.store.Close()
	b.store = nil
}
