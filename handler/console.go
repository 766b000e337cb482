package handler

import (
	"io"
	"os"
	"sync"

	"github.com/elmarx/slog-kickstarter/core"
	"github.com/elmarx/slog-kickstarter/formatter"
)

// lockedWriter wraps an io.Writer with a mutex, acquiring the lock
// only for Write calls. Formatters prepare data in their own pooled
// buffers and call Write once, so the lock is held only during the
// actual I/O.
type lockedWriter struct {
	mu *sync.Mutex // points to handler's mu
	w  io.Writer
}

func (lw *lockedWriter) Write(p []byte) (n int, err error) {
	lw.mu.Lock()
	n, err = lw.w.Write(p)
	lw.mu.Unlock()
	return
}

// isConcurrentSafeWriter returns true if the writer is known to be safe for
// concurrent Write calls, allowing the handler to skip write-level locking.
func isConcurrentSafeWriter(w io.Writer) bool {
	if w == io.Discard {
		return true
	}
	_, ok := w.(*os.File)
	return ok
}

// ConsoleHandler is the base drain: it writes one encoded unit per
// entry to a single output stream. It owns exclusive write access to
// the stream; every write goes through this handler.
type ConsoleHandler struct {
	writer          io.Writer
	formatter       formatter.Formatter
	writerFormatter formatter.WriterFormatter
	concurrentSafe  bool
	stats           *Stats
	mu              sync.Mutex
	lw              lockedWriter
}

// ConsoleConfig holds configuration for the console drain
type ConsoleConfig struct {
	// Writer to write to (default: os.Stdout)
	Writer io.Writer
	// Formatter to use (default: TermFormatter)
	Formatter formatter.Formatter
	// ConcurrentWriter indicates the Writer supports concurrent
	// Write calls. Automatically detected for io.Discard and
	// *os.File; set true for other goroutine-safe writers.
	ConcurrentWriter bool
}

// NewConsoleHandler creates a new console drain
func NewConsoleHandler(cfg ConsoleConfig) *ConsoleHandler {
	if cfg.Writer == nil {
		cfg.Writer = os.Stdout
	}
	if cfg.Formatter == nil {
		cfg.Formatter = formatter.NewTermFormatter(formatter.Config{})
	}

	h := &ConsoleHandler{
		writer:         cfg.Writer,
		formatter:      cfg.Formatter,
		concurrentSafe: cfg.ConcurrentWriter || isConcurrentSafeWriter(cfg.Writer),
		stats:          NewStats(),
	}

	// Cache WriterFormatter for zero-alloc path
	h.writerFormatter, _ = cfg.Formatter.(formatter.WriterFormatter)

	// Pre-allocate lockedWriter for lock-minimal write path
	h.lw = lockedWriter{mu: &h.mu, w: h.writer}

	return h
}

// Handle formats and writes a single entry. Write errors are
// returned to the caller; an async wrapper treats them as fatal for
// its consumer.
func (h *ConsoleHandler) Handle(entry *core.Entry) error {
	if h.writerFormatter != nil {
		var err error
		if h.concurrentSafe {
			err = h.writerFormatter.FormatTo(entry, h.writer)
		} else {
			err = h.writerFormatter.FormatTo(entry, &h.lw)
		}
		if err == nil {
			h.stats.IncrementProcessed()
		}
		return err
	}

	data, err := h.formatter.Format(entry)
	if err != nil {
		return err
	}

	if h.concurrentSafe {
		_, writeErr := h.writer.Write(data)
		if writeErr == nil {
			h.stats.IncrementProcessed()
		}
		return writeErr
	}

	h.mu.Lock()
	_, writeErr := h.writer.Write(data)
	h.mu.Unlock()

	if writeErr == nil {
		h.stats.IncrementProcessed()
	}

	return writeErr
}

// CanRecycleEntry returns true because the entry is fully consumed
// before Handle returns.
func (h *ConsoleHandler) CanRecycleEntry() bool {
	return true
}

// Stats returns a snapshot of the current statistics
func (h *ConsoleHandler) Stats() Snapshot {
	return h.stats.GetSnapshot()
}

// Close is a no-op; the handler does not own the lifetime of the
// underlying stream.
func (h *ConsoleHandler) Close() error {
	return nil
}
