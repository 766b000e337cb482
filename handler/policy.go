package handler

import (
	"sync/atomic"

	"github.com/elmarx/slog-kickstarter/core"
)

// OverflowPolicy defines how to handle a full async queue
type OverflowPolicy int

const (
	// DropNewest drops the newest log entry when the queue is full
	DropNewest OverflowPolicy = iota
	// DropOldest drops the oldest log entry when the queue is full
	DropOldest
	// Block applies backpressure: the caller waits for queue space
	// up to a timeout, after which the entry is dropped and counted.
	// Entries are never reordered past the queue.
	Block
)

// String returns the string representation of the policy
func (p OverflowPolicy) String() string {
	switch p {
	case DropNewest:
		return "DropNewest"
	case DropOldest:
		return "DropOldest"
	case Block:
		return "Block"
	default:
		return "Unknown"
	}
}

// DefaultLevelPolicy returns the default level-based overflow
// policies: Trace through Warn are best-effort and dropped when the
// queue is full, Error and Critical block briefly so short bursts
// ride out the backpressure; a loss is always visible in the
// dropped counters.
func DefaultLevelPolicy() map[core.Level]OverflowPolicy {
	return map[core.Level]OverflowPolicy{
		core.TraceLevel:    DropNewest,
		core.DebugLevel:    DropNewest,
		core.InfoLevel:     DropNewest,
		core.WarnLevel:     DropNewest,
		core.ErrorLevel:    Block,
		core.CriticalLevel: Block,
	}
}

// Stats tracks handler statistics
type Stats struct {
	dropped [core.NumLevels]uint64
	// blockedTotal counts times logging blocked due to full queue
	blockedTotal uint64
	// processedTotal counts total processed logs
	processedTotal uint64
}

// NewStats creates a new Stats instance
func NewStats() *Stats {
	return &Stats{}
}

// IncrementDropped atomically increments the dropped counter for a level
func (s *Stats) IncrementDropped(level core.Level) {
	if level < 0 || int(level) >= core.NumLevels {
		return
	}
	atomic.AddUint64(&s.dropped[level], 1)
}

// IncrementBlocked atomically increments the blocked counter
func (s *Stats) IncrementBlocked() {
	atomic.AddUint64(&s.blockedTotal, 1)
}

// IncrementProcessed atomically increments the processed counter
func (s *Stats) IncrementProcessed() {
	atomic.AddUint64(&s.processedTotal, 1)
}

// GetDropped returns the dropped count for a level
func (s *Stats) GetDropped(level core.Level) uint64 {
	if level < 0 || int(level) >= core.NumLevels {
		return 0
	}
	return atomic.LoadUint64(&s.dropped[level])
}

// GetBlocked returns the blocked count
func (s *Stats) GetBlocked() uint64 {
	return atomic.LoadUint64(&s.blockedTotal)
}

// GetProcessed returns the processed count
func (s *Stats) GetProcessed() uint64 {
	return atomic.LoadUint64(&s.processedTotal)
}

// GetTotalDropped returns the total dropped across all levels
func (s *Stats) GetTotalDropped() uint64 {
	var total uint64
	for l := 0; l < core.NumLevels; l++ {
		total += atomic.LoadUint64(&s.dropped[l])
	}
	return total
}

// Snapshot is a point-in-time copy of the counters
type Snapshot struct {
	DroppedTotal   map[core.Level]uint64
	BlockedTotal   uint64
	ProcessedTotal uint64
}

// GetSnapshot returns a snapshot of current statistics
func (s *Stats) GetSnapshot() Snapshot {
	dropped := make(map[core.Level]uint64, core.NumLevels)
	for l := core.TraceLevel; l <= core.CriticalLevel; l++ {
		dropped[l] = s.GetDropped(l)
	}
	return Snapshot{
		DroppedTotal:   dropped,
		BlockedTotal:   s.GetBlocked(),
		ProcessedTotal: s.GetProcessed(),
	}
}
