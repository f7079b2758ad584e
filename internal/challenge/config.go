package challenge

import (
	"fmt"
	"time"
)

// Config holds the compiled-in constants of a challenge.
type Config struct {
	Rows, Cols   int           // grid dimensions
	ShapeChance  float64       // probability that a cell carries a glyph
	MoveInterval time.Duration // region relocation cadence while capturing
	MaxAttempts  int           // failed validations before the session is blocked
	WithColor    bool          // color-aware target and grid

	Bounds Bounds

	// captured frame is fitted to this size before drawing
	FrameWidth, FrameHeight int
}

// DefaultConfig returns the reference configuration: a 5x5 grid over a
// 150px region that moves every second inside a 400x300 frame.
func DefaultConfig() Config {
	return Config{
		Rows:         5,
		Cols:         5,
		ShapeChance:  0.5,
		MoveInterval: time.Second,
		MaxAttempts:  3,
		WithColor:    true,
		Bounds:       Bounds{MaxTop: 200, MaxLeft: 200, Size: 150},
		FrameWidth:   400,
		FrameHeight:  300,
	}
}

// Validate reports the first unusable value.
func (c Config) Validate() error {
	switch {
	case c.Rows < 1 || c.Cols < 1:
		return fmt.Errorf("grid must be at least 1x1, got %dx%d", c.Rows, c.Cols)
	case c.Cols > 26:
		return fmt.Errorf("%d columns cannot be labelled A-Z", c.Cols)
	case c.ShapeChance < 0 || c.ShapeChance > 1:
		return fmt.Errorf("shape chance %v outside [0,1]", c.ShapeChance)
	case c.MoveInterval <= 0:
		return fmt.Errorf("move interval must be positive, got %v", c.MoveInterval)
	case c.MaxAttempts < 1:
		return fmt.Errorf("max attempts must be positive, got %d", c.MaxAttempts)
	case c.Bounds.MaxTop < 1 || c.Bounds.MaxLeft < 1 || c.Bounds.Size < 1:
		return fmt.Errorf("invalid region bounds %+v", c.Bounds)
	case c.FrameWidth < 1 || c.FrameHeight < 1:
		return fmt.Errorf("invalid frame size %dx%d", c.FrameWidth, c.FrameHeight)
	}
	return nil
}
