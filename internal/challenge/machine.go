package challenge

import (
	"fmt"
	"image"
	"math/rand"
	"sync"
	"time"
)

// Phase is the step a session is in.
type Phase int

const (
	Capturing Phase = iota
	Selecting
	Passed
	Failed
	Blocked // terminal; attempt budget exhausted
)

func (p Phase) String() string {
	switch p {
	case Capturing:
		return "capturing"
	case Selecting:
		return "selecting"
	case Passed:
		return "passed"
	case Failed:
		return "failed"
	case Blocked:
		return "blocked"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Phase) UnmarshalText(b []byte) error {
	for q := Capturing; q <= Blocked; q++ {
		if q.String() == string(b) {
			*p = q
			return nil
		}
	}
	return fmt.Errorf("unknown phase %q", b)
}

// Outcome is the verdict of the last validation.
type Outcome int

const (
	Unknown Outcome = iota
	Pass
	Fail
)

func (o Outcome) String() string {
	switch o {
	case Pass:
		return "pass"
	case Fail:
		return "fail"
	}
	return "unknown"
}

func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func (o *Outcome) UnmarshalText(b []byte) error {
	for q := Unknown; q <= Fail; q++ {
		if q.String() == string(b) {
			*o = q
			return nil
		}
	}
	return fmt.Errorf("unknown outcome %q", b)
}

// Snapshot is a copy of a session's observable state.
type Snapshot struct {
	Phase       Phase   `json:"phase"`
	Region      Region  `json:"region"`
	Target      *Target `json:"target,omitempty"`
	Grid        *Grid   `json:"-"`
	Attempts    int     `json:"attempts"`
	MaxAttempts int     `json:"maxAttempts"`
	Outcome     Outcome `json:"outcome"`
}

// Option customizes a new Session.
type Option func(*Session)

// WithRand replaces the session's random source.
func WithRand(rng *rand.Rand) Option {
	return func(s *Session) { s.rng = rng }
}

// Session is the state of one challenge flow, from the first capture to
// pass or block. Attempts survive retries for the session's lifetime.
type Session struct {
	cfg Config

	// op serializes transitions, including timer start/stop. The
	// relocation callback only takes mu, so Stop can wait on it while op
	// is held.
	op sync.Mutex
	mu sync.RWMutex

	rng      *rand.Rand
	phase    Phase
	region   Region
	target   Target
	grid     *Grid
	frame    image.Image
	attempts int
	outcome  Outcome
	closed   bool
	done     chan struct{}

	tracker Tracker

	lmu       sync.Mutex
	listeners map[int]func(Snapshot)
	nextID    int
}

// NewSession returns a session in the capture phase with its region
// relocation running.
func NewSession(cfg Config, opts ...Option) *Session {
	s := &Session{
		cfg:       cfg,
		phase:     Capturing,
		done:      make(chan struct{}),
		listeners: make(map[int]func(Snapshot)),
	}
	for _, o := range opts {
		o(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	s.region = Relocate(s.rng, cfg.Bounds)
	s.tracker.Start(cfg.MoveInterval, s.relocate)
	return s
}

// relocate runs on the tracker goroutine. It drops ticks that arrive
// after the capture phase has ended.
func (s *Session) relocate() {
	s.mu.Lock()
	if s.phase != Capturing || s.closed {
		s.mu.Unlock()
		return
	}
	s.region = Relocate(s.rng, s.cfg.Bounds)
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)
}

// Capture freezes the current region over frame, picks a target and
// builds a fresh grid. A nil frame is a no-op.
func (s *Session) Capture(frame image.Image) error {
	s.op.Lock()
	defer s.op.Unlock()

	s.mu.Lock()
	if err := s.checkLocked(Capturing); err != nil {
		s.mu.Unlock()
		return err
	}
	if frame == nil {
		s.mu.Unlock()
		return ErrNoFrame
	}
	s.target = Target{Shape: PickShape(s.rng)}
	if s.cfg.WithColor {
		s.target.Color = PickColor(s.rng)
	}
	s.grid = BuildGrid(s.rng, s.cfg.Rows, s.cfg.Cols, s.cfg.ShapeChance, s.cfg.WithColor)
	s.frame = frame
	s.phase = Selecting
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.tracker.Stop()
	s.notify(snap)
	return nil
}

// Toggle flips the selection of one cell.
func (s *Session) Toggle(id int) error {
	return s.selecting(func(g *Grid) error { return g.Toggle(id) })
}

// Select replaces the whole selection with ids.
func (s *Session) Select(ids []int) error {
	return s.selecting(func(g *Grid) error { return g.SetSelection(ids) })
}

func (s *Session) selecting(fn func(*Grid) error) error {
	s.op.Lock()
	defer s.op.Unlock()

	s.mu.Lock()
	if err := s.checkLocked(Selecting); err != nil {
		s.mu.Unlock()
		return err
	}
	if err := fn(s.grid); err != nil {
		s.mu.Unlock()
		return err
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
	return nil
}

// Validate checks the selection against the target. A failure that uses
// up the last attempt blocks the session instead of settling in Failed.
func (s *Session) Validate() (Outcome, error) {
	s.op.Lock()
	defer s.op.Unlock()

	s.mu.Lock()
	if err := s.checkLocked(Selecting); err != nil {
		s.mu.Unlock()
		return Unknown, err
	}
	if Validate(s.grid, s.target) {
		s.outcome = Pass
		s.phase = Passed
	} else {
		s.outcome = Fail
		s.attempts++
		if s.attempts >= s.cfg.MaxAttempts {
			s.phase = Blocked
		} else {
			s.phase = Failed
		}
	}
	out := s.outcome
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
	return out, nil
}

// Retry discards the failed challenge and returns to the capture phase.
// The attempt count is kept.
func (s *Session) Retry() error {
	s.op.Lock()
	defer s.op.Unlock()

	s.mu.Lock()
	if err := s.checkLocked(Failed); err != nil {
		s.mu.Unlock()
		return err
	}
	s.outcome = Unknown
	s.frame = nil
	s.grid = nil
	s.target = Target{}
	s.phase = Capturing
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.tracker.Start(s.cfg.MoveInterval, s.relocate)
	s.notify(snap)
	return nil
}

// Close stops the relocation timer and closes Done. Every later
// transition fails with ErrClosed. Closing twice is a no-op.
func (s *Session) Close() {
	s.op.Lock()
	defer s.op.Unlock()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	close(s.done)
	s.mu.Unlock()
	s.tracker.Stop()
}

// Done is closed once the session is closed.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

func (s *Session) checkLocked(want Phase) error {
	if s.closed {
		return ErrClosed
	}
	if s.phase != want {
		return fmt.Errorf("%w: in %s, need %s", ErrWrongPhase, s.phase, want)
	}
	return nil
}

// Snapshot returns a copy of the observable state.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{
		Phase:       s.phase,
		Region:      s.region,
		Grid:        s.grid.Clone(),
		Attempts:    s.attempts,
		MaxAttempts: s.cfg.MaxAttempts,
		Outcome:     s.outcome,
	}
	if s.grid != nil {
		t := s.target
		snap.Target = &t
	}
	return snap
}

// Frame returns the captured frame, or nil outside the selection and
// outcome phases.
func (s *Session) Frame() image.Image {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.frame
}

// Relocating reports whether the region timer is live.
func (s *Session) Relocating() bool {
	return s.tracker.Running()
}

// Subscribe registers fn to receive a snapshot after every change,
// relocations included. The returned func removes it.
func (s *Session) Subscribe(fn func(Snapshot)) func() {
	s.lmu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.lmu.Unlock()

	return func() {
		s.lmu.Lock()
		delete(s.listeners, id)
		s.lmu.Unlock()
	}
}

// Watched reports whether any listener is subscribed.
func (s *Session) Watched() bool {
	s.lmu.Lock()
	defer s.lmu.Unlock()
	return len(s.listeners) > 0
}

func (s *Session) notify(snap Snapshot) {
	s.lmu.Lock()
	fns := make([]func(Snapshot), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.lmu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}
