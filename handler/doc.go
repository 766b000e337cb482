// Package handler provides the drain pipeline: the Handler interface
// and the built-in drains that compose into the kickstarter's output
// path.
//
//	ConsoleHandler  <-  LevelFilter  <-  AsyncHandler
//
// ConsoleHandler is the base drain. It owns exclusive write access
// to a single output stream and writes one encoded unit per entry.
//
// LevelFilter drops entries below the effective threshold of their
// origin module. Thresholds come from a Resolver that layers a
// runtime directive string ("debug" or "module=level" rules, comma
// separated) over builder-time settings; a malformed directive is a
// DirectiveError at construction time, never a silent fallback.
//
// AsyncHandler is the boundary between producers and I/O: Handle
// enqueues into a bounded channel and a single background goroutine
// performs the writes. Every entry travels through the queue, so
// entries submitted by one goroutine reach the drain in submission
// order. When the queue is full, each entry's level selects an
// OverflowPolicy: DropNewest (default for Trace through Warn),
// DropOldest, or Block, which applies backpressure up to a timeout
// and then drops with a counter (default for Error and Critical).
// A write failure in the consumer terminates it; entries
// submitted afterwards are counted as dropped and discarded, and the
// producer never observes an error.
//
// SlogHandler adapts any drain to log/slog.Handler so facade call
// sites can feed the same pipeline.
//
// Dropped, blocked, and processed counts are tracked via the Stats
// type, which can be queried at runtime for monitoring.
package handler
