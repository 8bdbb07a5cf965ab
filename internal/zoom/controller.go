package zoom

import (
	"github.com/dshills/camerakeys/internal/host"
	"github.com/dshills/camerakeys/internal/logging"
)

// CancelThreshold is how far the observed zoom may drift from the achieved
// level before an active zoom counts as cancelled by the user. About three
// scroll wheel notches.
const CancelThreshold = 50

// TransitionFunc observes state changes.
type TransitionFunc func(from, to State)

// Controller owns one zoom session.
//
// Controller is not safe for concurrent use; key events and ticks must be
// serialized by the caller.
type Controller struct {
	state State

	previous    int
	hasPrevious bool
	target      int
	hasTarget   bool

	logger       *logging.Logger
	onTransition TransitionFunc
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithTransitionFunc registers an observer for state changes.
func WithTransitionFunc(fn TransitionFunc) Option {
	return func(c *Controller) {
		c.onTransition = fn
	}
}

// NewController creates a controller in the Off state.
func NewController(opts ...Option) *Controller {
	c := &Controller{
		state:  Off,
		logger: logging.Null,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.WithComponent("zoom")
	return c
}

// State returns the current state.
func (c *Controller) State() State {
	return c.state
}

// PreviousLevel returns the level captured when the session began.
func (c *Controller) PreviousLevel() (int, bool) {
	return c.previous, c.hasPrevious
}

// TargetLevel returns the level achieved after zooming, which may differ
// from the configured level when the client clamps it.
func (c *Controller) TargetLevel() (int, bool) {
	return c.target, c.hasTarget
}

// OverlayVisible reports whether the zoom indicator should show.
func (c *Controller) OverlayVisible() bool {
	return c.state == On
}

// OnKey applies a zoom key press or release under the given activation mode.
func (c *Controller) OnKey(pressed bool, mode ActivationMode) {
	switch mode {
	case Hold:
		if pressed {
			c.transition(Zooming)
		} else if c.state == On {
			// Releases before the tick applied the zoom are ignored.
			c.transition(Resetting)
		}
	case Toggle:
		if !pressed {
			return
		}
		switch c.state {
		case Off:
			c.transition(Zooming)
		case On:
			c.transition(Resetting)
		}
	case Set:
		if pressed {
			c.transition(Setting)
		}
	}
}

// Tick advances the session against the observed zoom level and returns
// the command to apply, or nil.
//
// After applying a SetZoom returned while Zooming, the caller should report
// the achieved level through Settle. If it does not, the first On tick
// records the observed level instead.
func (c *Controller) Tick(current, configured int) host.Command {
	switch c.state {
	case Zooming:
		c.previous, c.hasPrevious = current, true
		c.target, c.hasTarget = 0, false
		c.logger.Debug("zoom level change: %d --> %d", current, configured)
		c.transition(On)
		return host.SetZoom{Level: configured}

	case Setting:
		// The captured level is kept for inspection but never restored.
		c.previous, c.hasPrevious = current, true
		c.target, c.hasTarget = 0, false
		c.logger.Debug("zoom level change: %d --> %d", current, configured)
		c.transition(Off)
		return host.SetZoom{Level: configured}

	case Resetting:
		level := c.previous
		c.logger.Debug("zoom level change: %d <-- %d", level, current)
		c.clear()
		c.transition(Off)
		return host.SetZoom{Level: level}

	case On:
		if !c.hasTarget {
			c.target, c.hasTarget = current, true
			return nil
		}
		if drift(current, c.target) > CancelThreshold {
			c.logger.Debug("zoom canceled by user, target %d observed %d", c.target, current)
			// The manual level wins; nothing is restored.
			c.clear()
			c.transition(Off)
		}
	}
	return nil
}

// Settle records the level achieved by the SetZoom just applied.
// It only has an effect while On with no recorded target.
func (c *Controller) Settle(level int) {
	if c.state == On && !c.hasTarget {
		c.target, c.hasTarget = level, true
	}
}

// Restore ends the session, returning the command that puts the previous
// level back when a zoom is in effect or its restore is still pending, and
// nil otherwise. Pending Zooming and Setting requests are dropped. Used on
// shutdown; the controller is Off with both levels cleared afterwards.
func (c *Controller) Restore() host.Command {
	var cmd host.Command
	if (c.state == On || c.state == Resetting) && c.hasPrevious {
		cmd = host.SetZoom{Level: c.previous}
	}
	c.clear()
	c.transition(Off)
	return cmd
}

func (c *Controller) clear() {
	c.previous, c.hasPrevious = 0, false
	c.target, c.hasTarget = 0, false
}

func (c *Controller) transition(to State) {
	from := c.state
	if from == to {
		return
	}
	c.state = to
	c.logger.Debug("state %s -> %s", from, to)
	if c.onTransition != nil {
		c.onTransition(from, to)
	}
}

func drift(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}
