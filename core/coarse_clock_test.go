package core

import (
	"testing"
	"time"
)

func TestCoarseNow(t *testing.T) {
	StartCoarseClock()
	// Let the ticker publish at least one fresh value
	time.Sleep(2 * time.Millisecond)

	got := CoarseNow()
	now := time.Now()

	diff := now.Sub(got)
	if diff < 0 {
		diff = -diff
	}

	// Staleness must stay far below the seconds precision the
	// encoders render, or cached timestamps would become visible in
	// the output.
	if diff > 50*time.Millisecond {
		t.Errorf("CoarseNow() drifted %v from time.Now()", diff)
	}
}

func TestCoarseNow_NonDecreasing(t *testing.T) {
	StartCoarseClock()

	prev := CoarseNow()
	for i := 0; i < 100; i++ {
		time.Sleep(100 * time.Microsecond)
		cur := CoarseNow()
		if cur.Before(prev) {
			t.Fatalf("CoarseNow() went backwards: %v then %v", prev, cur)
		}
		prev = cur
	}
}

func TestStartCoarseClockIdempotent(t *testing.T) {
	// Repeated calls must not spawn more tickers or panic
	StartCoarseClock()
	StartCoarseClock()

	if CoarseNow().IsZero() {
		t.Error("CoarseNow() returned zero time after repeated StartCoarseClock calls")
	}
}
