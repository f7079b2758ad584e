package challenge

import (
	"math/rand"
	"sync/atomic"
	"testing"
	"time"
)

func TestRelocateBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	b := Bounds{MaxTop: 200, MaxLeft: 120, Size: 150}
	for i := 0; i < 1000; i++ {
		r := Relocate(rng, b)
		if r.Top < 0 || r.Top >= 200 || r.Left < 0 || r.Left >= 120 || r.Size != 150 {
			t.Fatalf("region out of bounds: %+v", r)
		}
	}
}

func TestTrackerSingleLoop(t *testing.T) {
	var tr Tracker
	var first, second atomic.Int32
	tr.Start(time.Millisecond, func() { first.Add(1) })
	tr.Start(time.Millisecond, func() { second.Add(1) })
	time.Sleep(20 * time.Millisecond)
	tr.Stop()

	n := first.Load()
	time.Sleep(10 * time.Millisecond)
	if first.Load() != n {
		t.Fatalf("replaced loop kept running")
	}
	if second.Load() == 0 {
		t.Fatalf("second loop never ran")
	}
	m := second.Load()
	time.Sleep(10 * time.Millisecond)
	if second.Load() != m {
		t.Fatalf("callback ran after Stop")
	}
	if tr.Running() {
		t.Fatalf("Running after Stop")
	}
	tr.Stop()
}
