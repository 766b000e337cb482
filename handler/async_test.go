package handler

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/elmarx/slog-kickstarter/core"
	"github.com/elmarx/slog-kickstarter/formatter"
)

// syncCollect is a goroutine-safe collecting drain.
type syncCollect struct {
	mu      sync.Mutex
	msgs    []string
	failAt  int // fail on the n-th Handle call (1-based), 0 = never
	handled int
}

func (c *syncCollect) Handle(entry *core.Entry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handled++
	if c.failAt > 0 && c.handled >= c.failAt {
		return errors.New("write failure")
	}
	c.msgs = append(c.msgs, entry.Message)
	return nil
}

func (c *syncCollect) CanRecycleEntry() bool { return true }

func (c *syncCollect) Close() error { return nil }

func (c *syncCollect) messages() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.msgs...)
}

func submit(h Handler, level core.Level, msg string) {
	entry := core.GetEntry()
	entry.Level = level
	entry.Message = msg
	h.Handle(entry)
}

func TestAsyncHandler_DeliversInOrder(t *testing.T) {
	sink := &syncCollect{}
	h := NewAsyncHandler(AsyncConfig{Next: sink, QueueSize: 100})

	for i := 0; i < 50; i++ {
		submit(h, core.InfoLevel, fmt.Sprintf("msg-%03d", i))
	}
	if err := h.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	msgs := sink.messages()
	if len(msgs) != 50 {
		t.Fatalf("Expected 50 delivered messages, got %d", len(msgs))
	}
	for i, msg := range msgs {
		want := fmt.Sprintf("msg-%03d", i)
		if msg != want {
			t.Fatalf("Out of order at %d: got %q, want %q", i, msg, want)
		}
	}
}

func TestAsyncHandler_WriteFailureTerminatesConsumer(t *testing.T) {
	sink := &syncCollect{failAt: 1}
	h := NewAsyncHandler(AsyncConfig{Next: sink, QueueSize: 10})

	submit(h, core.InfoLevel, "first")

	// Wait for the consumer to hit the failure and terminate
	deadline := time.Now().Add(time.Second)
	for !h.Failed() && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if !h.Failed() {
		t.Fatal("Expected consumer to terminate after write failure")
	}

	// Entries submitted after termination are dropped, and the
	// producer never observes an error.
	entry := core.GetEntry()
	entry.Level = core.InfoLevel
	entry.Message = "after failure"
	if err := h.Handle(entry); err != nil {
		t.Errorf("Handle() after failure returned error %v", err)
	}

	if got := h.Stats().DroppedTotal[core.InfoLevel]; got == 0 {
		t.Error("Expected dropped counter to increase after consumer failure")
	}
}

func TestAsyncHandler_DropNewestOnOverflow(t *testing.T) {
	block := make(chan struct{})
	sink := &gateHandler{gate: block}
	h := NewAsyncHandler(AsyncConfig{
		Next:      sink,
		QueueSize: 2,
		OverflowPolicy: map[core.Level]OverflowPolicy{
			core.InfoLevel: DropNewest,
		},
	})

	// First entry occupies the consumer, the next two fill the queue.
	for i := 0; i < 3; i++ {
		submit(h, core.InfoLevel, fmt.Sprintf("fill-%d", i))
	}
	// Give the consumer time to pick up the first entry
	time.Sleep(20 * time.Millisecond)
	for i := 0; i < 3; i++ {
		submit(h, core.InfoLevel, fmt.Sprintf("overflow-%d", i))
	}

	if got := h.Stats().DroppedTotal[core.InfoLevel]; got == 0 {
		t.Error("Expected drops after overflowing the queue")
	}

	close(block)
	h.Close()
}

func TestAsyncHandler_BlockTimesOutAndDrops(t *testing.T) {
	block := make(chan struct{})
	sink := &gateHandler{gate: block}
	h := NewAsyncHandler(AsyncConfig{
		Next:         sink,
		QueueSize:    1,
		BlockTimeout: 10 * time.Millisecond,
		OverflowPolicy: map[core.Level]OverflowPolicy{
			core.ErrorLevel: Block,
		},
	})

	// Occupy consumer and fill the queue
	submit(h, core.ErrorLevel, "occupy")
	time.Sleep(20 * time.Millisecond)
	submit(h, core.ErrorLevel, "queued")

	// The producer is released after the timeout; the entry is
	// dropped and counted, never written out of order.
	done := make(chan struct{})
	go func() {
		submit(h, core.ErrorLevel, "over capacity")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Block policy producer did not return after timeout")
	}

	if got := h.Stats().BlockedTotal; got == 0 {
		t.Error("Expected blocked counter to increase")
	}
	if got := h.Stats().DroppedTotal[core.ErrorLevel]; got == 0 {
		t.Error("Expected timed-out entry to be counted as dropped")
	}

	close(block)
	h.Close()

	if sink.saw("over capacity") {
		t.Error("Timed-out entry must not bypass the queue")
	}
}

func TestAsyncHandler_BlockPreservesProducerOrder(t *testing.T) {
	block := make(chan struct{})
	sink := &gateHandler{gate: block}
	h := NewAsyncHandler(AsyncConfig{
		Next:         sink,
		QueueSize:    1,
		BlockTimeout: 10 * time.Millisecond,
	})

	// Single producer: the first entry occupies the consumer, the
	// second fills the queue, the third hits a full queue under the
	// Block policy.
	submit(h, core.InfoLevel, "info-1")
	time.Sleep(20 * time.Millisecond)
	submit(h, core.InfoLevel, "info-2")
	submit(h, core.ErrorLevel, "error-3")

	close(block)
	h.Close()

	msgs := sink.messages()
	if len(msgs) < 2 {
		t.Fatalf("Expected at least 2 delivered messages, got %v", msgs)
	}
	// Whatever subset survives, delivery must follow submission
	// order for a single producer.
	want := []string{"info-1", "info-2", "error-3"}
	wi := 0
	for _, msg := range msgs {
		for wi < len(want) && want[wi] != msg {
			wi++
		}
		if wi == len(want) {
			t.Fatalf("Delivery order %v violates submission order %v", msgs, want)
		}
		wi++
	}
}

func TestAsyncHandler_ConcurrentClose(t *testing.T) {
	sink := &syncCollect{}
	h := NewAsyncHandler(AsyncConfig{Next: sink, QueueSize: 10})
	submit(h, core.InfoLevel, "closing time")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := h.Close(); err != nil {
				t.Errorf("Close() error = %v", err)
			}
		}()
	}
	wg.Wait()

	if got := len(sink.messages()); got != 1 {
		t.Errorf("Expected 1 message after concurrent Close, got %d", got)
	}
}

func TestAsyncHandler_CloseDrainsQueue(t *testing.T) {
	sink := &syncCollect{}
	h := NewAsyncHandler(AsyncConfig{Next: sink, QueueSize: 100})

	for i := 0; i < 20; i++ {
		submit(h, core.InfoLevel, "drain me")
	}
	if err := h.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := h.Close(); err != nil {
		t.Errorf("Second Close() error = %v", err)
	}

	if got := len(sink.messages()); got != 20 {
		t.Errorf("Expected 20 messages drained on Close, got %d", got)
	}
}

func TestAsyncHandler_EndToEndWithConsoleDrain(t *testing.T) {
	var buf bytes.Buffer
	console := NewConsoleHandler(ConsoleConfig{
		Writer:    &buf,
		Formatter: formatter.NewTermFormatter(formatter.Config{}),
	})
	h := NewAsyncHandler(AsyncConfig{Next: console, QueueSize: 10})

	submit(h, core.InfoLevel, "through the boundary")
	h.Close()

	if !strings.Contains(buf.String(), "through the boundary") {
		t.Errorf("Expected message in output, got: %s", buf.String())
	}
}

func TestAsyncHandler_ProcessedCountsOnlyWrites(t *testing.T) {
	var buf bytes.Buffer
	console := NewConsoleHandler(ConsoleConfig{
		Writer:    &buf,
		Formatter: formatter.NewTermFormatter(formatter.Config{}),
	})
	filtered := NewLevelFilter(console, NewResolver(core.InfoLevel))
	h := NewAsyncHandler(AsyncConfig{Next: filtered, QueueSize: 10})

	submit(h, core.DebugLevel, "filtered away")
	submit(h, core.InfoLevel, "written")
	h.Close()

	if strings.Contains(buf.String(), "filtered away") {
		t.Errorf("Filtered entry reached the stream: %q", buf.String())
	}
	if got := console.Stats().ProcessedTotal; got != 1 {
		t.Errorf("ProcessedTotal = %d, want 1; filtered entries are not writes", got)
	}
}

// gateHandler blocks the first Handle call until its gate is closed,
// then records messages. Used to hold the consumer busy while other
// callers proceed.
type gateHandler struct {
	gate  <-chan struct{}
	first atomic.Bool
	mu    sync.Mutex
	msgs  []string
}

func (g *gateHandler) Handle(entry *core.Entry) error {
	if g.first.CompareAndSwap(false, true) {
		<-g.gate
	}
	g.mu.Lock()
	g.msgs = append(g.msgs, entry.Message)
	g.mu.Unlock()
	return nil
}

func (g *gateHandler) messages() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.msgs...)
}

func (g *gateHandler) saw(msg string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, m := range g.msgs {
		if m == msg {
			return true
		}
	}
	return false
}

func (g *gateHandler) CanRecycleEntry() bool { return true }

func (g *gateHandler) Close() error { return nil }
