package handler

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/elmarx/slog-kickstarter/core"
)

// AsyncHandler decouples entry production from output I/O: Handle is
// a non-blocking enqueue (subject to the overflow policy) and a
// single background consumer forwards queued entries to the wrapped
// drain in submission order.
//
// Entries submitted by the same goroutine reach the drain in the
// order submitted; entries from different goroutines may interleave.
// If the wrapped drain returns a write error the consumer terminates
// and all entries submitted afterwards are dropped silently. This
// data-loss trade-off keeps log emission from ever failing the
// application.
type AsyncHandler struct {
	next           Handler
	queue          chan *core.Entry
	wg             sync.WaitGroup
	closed         chan struct{}
	closing        atomic.Bool
	failed         atomic.Bool
	overflowPolicy map[core.Level]OverflowPolicy
	blockTimeout   time.Duration
	drainTimeout   time.Duration
	stats          *Stats
}

// AsyncConfig holds configuration for the async boundary
type AsyncConfig struct {
	// Next is the drain entries are forwarded to (required)
	Next Handler
	// QueueSize is the capacity of the queue (default: 1000)
	QueueSize int
	// OverflowPolicy defines per-level overflow behavior (default: DefaultLevelPolicy)
	OverflowPolicy map[core.Level]OverflowPolicy
	// BlockTimeout is the timeout for the Block policy (default: 100ms)
	BlockTimeout time.Duration
	// DrainTimeout is the timeout for draining the queue on Close (default: 5s)
	DrainTimeout time.Duration
}

// NewAsyncHandler wraps the given drain with an async boundary and
// starts the consumer goroutine.
func NewAsyncHandler(cfg AsyncConfig) *AsyncHandler {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1000
	}
	if cfg.OverflowPolicy == nil {
		cfg.OverflowPolicy = DefaultLevelPolicy()
	}
	if cfg.BlockTimeout == 0 {
		cfg.BlockTimeout = 100 * time.Millisecond
	}
	if cfg.DrainTimeout == 0 {
		cfg.DrainTimeout = 5 * time.Second
	}

	h := &AsyncHandler{
		next:           cfg.Next,
		queue:          make(chan *core.Entry, cfg.QueueSize),
		closed:         make(chan struct{}),
		overflowPolicy: cfg.OverflowPolicy,
		blockTimeout:   cfg.BlockTimeout,
		drainTimeout:   cfg.DrainTimeout,
		stats:          NewStats(),
	}

	h.wg.Add(1)
	go h.process()

	return h
}

// Handle enqueues a log entry, applying the per-level overflow
// policy when the queue is full. It never returns an error to the
// producer; failures downstream are absorbed by the boundary.
func (h *AsyncHandler) Handle(entry *core.Entry) error {
	if h.failed.Load() {
		// Consumer terminated after a write failure; documented
		// data-loss window.
		h.stats.IncrementDropped(entry.Level)
		core.PutEntry(entry)
		return nil
	}

	policy, ok := h.overflowPolicy[entry.Level]
	if !ok {
		policy = DropNewest
	}

	switch policy {
	case Block:
		select {
		case h.queue <- entry:
			return nil
		default:
		}
		// Queue full: apply backpressure for up to blockTimeout.
		// Every entry goes through the queue so per-producer
		// submission order is preserved; after the timeout the
		// entry is dropped and counted, never reordered ahead of
		// earlier records.
		timer := time.NewTimer(h.blockTimeout)
		defer timer.Stop()
		select {
		case h.queue <- entry:
			return nil
		case <-timer.C:
			h.stats.IncrementBlocked()
			h.stats.IncrementDropped(entry.Level)
			core.PutEntry(entry)
			return nil
		case <-h.closed:
			h.stats.IncrementDropped(entry.Level)
			core.PutEntry(entry)
			return nil
		}

	case DropOldest:
		select {
		case h.queue <- entry:
			return nil
		default:
		}
		// Queue full - try to drop oldest
		select {
		case old := <-h.queue:
			h.stats.IncrementDropped(old.Level)
			core.PutEntry(old)
		default:
		}
		select {
		case h.queue <- entry:
			return nil
		default:
			// Still full, drop this one
			h.stats.IncrementDropped(entry.Level)
			core.PutEntry(entry)
			return nil
		}

	case DropNewest:
		fallthrough
	default:
		select {
		case h.queue <- entry:
			return nil
		default:
			// Queue full - drop this entry
			h.stats.IncrementDropped(entry.Level)
			core.PutEntry(entry)
			return nil
		}
	}
}

// forward hands one entry to the drain from the consumer goroutine.
// A drain error blows the fuse. Processed counts are tracked by the
// base drain, which knows whether the entry actually reached the
// stream; a level filter in between may still drop it.
func (h *AsyncHandler) forward(entry *core.Entry) bool {
	err := h.next.Handle(entry)
	core.PutEntry(entry)
	if err != nil {
		h.failed.Store(true)
		return false
	}
	return true
}

// CanRecycleEntry returns false because the async boundary keeps a
// reference to the entry after Handle returns.
func (h *AsyncHandler) CanRecycleEntry() bool {
	return false
}

// process is the single consumer loop
func (h *AsyncHandler) process() {
	defer h.wg.Done()

	for {
		select {
		case entry := <-h.queue:
			if !h.forward(entry) {
				return
			}
			// Batch drain: process additional queued entries without blocking
		batchDrain:
			for {
				select {
				case entry := <-h.queue:
					if !h.forward(entry) {
						return
					}
				default:
					break batchDrain
				}
			}
		case <-h.closed:
			// Drain remaining entries with timeout
			deadline := time.After(h.drainTimeout)
		drainLoop:
			for {
				select {
				case entry := <-h.queue:
					if !h.forward(entry) {
						return
					}
				case <-deadline:
					// Timeout reached, stop draining
					break drainLoop
				default:
					// Queue empty
					break drainLoop
				}
			}
			return
		}
	}
}

// Stats returns a snapshot of the current statistics
func (h *AsyncHandler) Stats() Snapshot {
	return h.stats.GetSnapshot()
}

// Failed reports whether the consumer terminated after a write
// failure.
func (h *AsyncHandler) Failed() bool {
	return h.failed.Load()
}

// Close stops the consumer after draining the queue (bounded by
// DrainTimeout) and closes the wrapped drain. Safe to call from
// multiple goroutines; only the first call performs the shutdown.
func (h *AsyncHandler) Close() error {
	if !h.closing.CompareAndSwap(false, true) {
		h.wg.Wait()
		return nil
	}

	close(h.closed)
	h.wg.Wait()

	return h.next.Close()
}
