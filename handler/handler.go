package handler

import (
	"github.com/elmarx/slog-kickstarter/core"
)

// Handler defines the interface for log drains
type Handler interface {
	// Handle processes a log entry
	Handle(entry *core.Entry) error

	// Close closes the handler and releases resources
	Close() error
}

// EntryRecycler is an optional interface a handler can implement to
// tell callers whether it is safe to return the entry to the pool
// immediately after Handle returns. Asynchronous handlers keep a
// reference past Handle and must report false.
type EntryRecycler interface {
	CanRecycleEntry() bool
}

// StatsProvider is an optional interface for handlers that track
// dropped/blocked/processed counters.
type StatsProvider interface {
	Stats() Snapshot
}
