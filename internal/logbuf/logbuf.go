// Package logbuf keeps the most recent log entries in memory so the ops API
// can serve them without touching files.
package logbuf

import (
	"log/slog"
	"sync"
	"time"
)

// Entry is one captured log record.
type Entry struct {
	Time    time.Time      `json:"time"`
	Level   string         `json:"level"`
	Message string         `json:"message"`
	Attrs   map[string]any `json:"attrs,omitempty"`
}

// Buffer is a fixed-size ring of log entries, safe for concurrent use.
type Buffer struct {
	mu      sync.Mutex
	entries []Entry
	size    int
	next    int
	count   int
}

// New creates a buffer holding up to size entries; older entries are
// overwritten once the ring is full.
func New(size int) *Buffer {
	return &Buffer{
		entries: make([]Entry, size),
		size:    size,
	}
}

// Write records one entry.
func (b *Buffer) Write(e Entry) {
	b.mu.Lock()
	b.entries[b.next] = e
	b.next = (b.next + 1) % b.size
	if b.count < b.size {
		b.count++
	}
	b.mu.Unlock()
}

// Query returns entries at or above minLevel, oldest first. A zero since
// means no time filter; limit <= 0 returns everything that matches, a
// positive limit keeps the newest matches.
func (b *Buffer) Query(since time.Time, minLevel slog.Level, limit int) []Entry {
	b.mu.Lock()
	defer b.mu.Unlock()

	oldest := 0
	if b.count == b.size {
		oldest = b.next
	}

	var out []Entry
	for i := 0; i < b.count; i++ {
		e := b.entries[(oldest+i)%b.size]
		if !since.IsZero() && e.Time.Before(since) {
			continue
		}
		if levelFromString(e.Level) < minLevel {
			continue
		}
		out = append(out, e)
	}

	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out
}

func levelFromString(s string) slog.Level {
	switch s {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
