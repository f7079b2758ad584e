package challenge

import (
	"math/rand"
	"sync"
	"time"
)

// Region is the square area of interest over the captured frame, in
// frame pixels.
type Region struct {
	Top  int `json:"top"`
	Left int `json:"left"`
	Size int `json:"size"`
}

// Bounds limits where a region may be placed.
type Bounds struct {
	MaxTop, MaxLeft int
	Size            int
}

// Relocate draws a new region with Top in [0, MaxTop) and Left in
// [0, MaxLeft).
func Relocate(rng *rand.Rand, b Bounds) Region {
	return Region{
		Top:  rng.Intn(b.MaxTop),
		Left: rng.Intn(b.MaxLeft),
		Size: b.Size,
	}
}

// Tracker runs a callback on a fixed interval. At most one run loop is
// live per Tracker; Start replaces the previous one.
type Tracker struct {
	mu   sync.Mutex
	stop chan struct{}
	done chan struct{}
}

// Start cancels any running loop, then calls fn every interval until
// Stop.
func (t *Tracker) Start(interval time.Duration, fn func()) {
	t.Stop()

	stop, done := make(chan struct{}), make(chan struct{})
	t.mu.Lock()
	t.stop, t.done = stop, done
	t.mu.Unlock()

	go func() {
		defer close(done)
		tk := time.NewTicker(interval)
		defer tk.Stop()
		for {
			select {
			case <-stop:
				return
			case <-tk.C:
				fn()
			}
		}
	}()
}

// Stop cancels the loop and waits for it to exit. fn is never called
// after Stop returns. Safe to call when nothing is running.
func (t *Tracker) Stop() {
	t.mu.Lock()
	stop, done := t.stop, t.done
	t.stop, t.done = nil, nil
	t.mu.Unlock()

	if stop == nil {
		return
	}
	close(stop)
	<-done
}

// Running reports whether a loop is active.
func (t *Tracker) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stop != nil
}
