// Package app runs the reference client: a simulated game client drawn in
// the terminal with the Camera Keys plugin installed.
//
// One goroutine reads terminal events; the main loop serializes them with
// the client tick, so key events, ticks and drawing all happen on the loop
// goroutine, which plays the client thread.
package app

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync/atomic"
	"time"

	"github.com/dshills/camerakeys/internal/camerakeys"
	"github.com/dshills/camerakeys/internal/client"
	"github.com/dshills/camerakeys/internal/input/key"
	"github.com/dshills/camerakeys/internal/logging"
	"github.com/dshills/camerakeys/internal/renderer/backend"
)

// Defaults.
const (
	DefaultTickInterval = 20 * time.Millisecond
	// DefaultHoldTimeout must exceed the terminal's initial auto-repeat delay.
	DefaultHoldTimeout = 550 * time.Millisecond
)

// Options configures the application.
type Options struct {
	// TickInterval is the client tick period.
	TickInterval time.Duration

	// HoldTimeout is how long after the last auto-repeat a key counts as
	// released.
	HoldTimeout time.Duration

	// Logger receives application logs.
	Logger *logging.Logger
}

// DefaultOptions returns the default options.
func DefaultOptions() Options {
	return Options{
		TickInterval: DefaultTickInterval,
		HoldTimeout:  DefaultHoldTimeout,
	}
}

// Application owns the terminal, the simulated client and the plugin.
type Application struct {
	backend backend.Backend
	client  *client.Client
	plugin  *camerakeys.Plugin

	held    *heldKeys
	ticks   uint64
	running atomic.Bool

	opts   Options
	logger *logging.Logger
}

// New creates an application.
func New(b backend.Backend, c *client.Client, p *camerakeys.Plugin, opts Options) *Application {
	if opts.TickInterval <= 0 {
		opts.TickInterval = DefaultTickInterval
	}
	if opts.HoldTimeout <= 0 {
		opts.HoldTimeout = DefaultHoldTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Null
	}
	return &Application{
		backend: b,
		client:  c,
		plugin:  p,
		held:    newHeldKeys(opts.HoldTimeout),
		opts:    opts,
		logger:  logger.WithComponent("app"),
	}
}

// IsRunning reports whether Run is in progress.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}

// Run starts the plugin and runs the main loop until ctx is cancelled or
// the user quits. The plugin is stopped and the terminal restored before
// Run returns.
func (app *Application) Run(ctx context.Context) error {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	if app.backend == nil {
		return ErrNoBackend
	}
	if err := app.backend.Init(); err != nil {
		return &OperationError{Op: "init", Target: "backend", Err: err}
	}
	if err := app.Start(); err != nil {
		app.backend.Shutdown()
		return err
	}

	events := make(chan backend.Event, 64)
	stop := make(chan struct{})
	pollDone := make(chan struct{})
	go app.pollEvents(events, stop, pollDone)

	ticker := time.NewTicker(app.opts.TickInterval)
	defer ticker.Stop()

	app.backend.HideCursor()
	app.draw()

loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case ev := <-events:
			err := app.HandleEvent(ev, time.Now())
			if errors.Is(err, ErrQuit) {
				break loop
			}
			if err != nil {
				app.logger.Error("%v", err)
			}
		case now := <-ticker.C:
			app.Tick(now)
		}
	}

	err := app.Stop()
	close(stop)
	app.backend.Shutdown()
	<-pollDone
	return err
}

// Start starts the plugin and installs it as the client's key listener.
func (app *Application) Start() error {
	if err := app.plugin.Start(); err != nil {
		return &OperationError{Op: "start", Target: "plugin", Err: err}
	}
	app.client.SetKeyListener(app.plugin)
	app.logger.Info("plugin started")
	return nil
}

// Stop releases held keys, stops the plugin and removes it from the client.
func (app *Application) Stop() error {
	for _, ev := range app.held.releaseAll() {
		app.client.KeyReleased(ev)
	}
	app.client.SetKeyListener(nil)
	if err := app.plugin.Stop(); err != nil {
		return &OperationError{Op: "stop", Target: "plugin", Err: err}
	}
	app.logger.Info("plugin stopped after %d ticks", app.ticks)
	return nil
}

func (app *Application) pollEvents(events chan<- backend.Event, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	for {
		ev := app.backend.PollEvent()
		if ev.Type == backend.EventNone {
			select {
			case <-stop:
				return
			default:
				continue
			}
		}
		select {
		case events <- ev:
		case <-stop:
			return
		}
	}
}

// HandleEvent processes one terminal event received at now. It returns
// ErrQuit when the user asks to exit. Panics are recovered and returned.
func (app *Application) HandleEvent(ev backend.Event, now time.Time) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &RecoveredPanicError{Value: r, Stack: string(debug.Stack())}
		}
	}()

	switch ev.Type {
	case backend.EventKey:
		return app.handleKey(ev.Key, now)
	case backend.EventMouse:
		app.handleMouse(ev)
	case backend.EventFocus:
		if !ev.Focused {
			app.focusLost()
		}
	case backend.EventResize:
		app.backend.Clear()
	}
	app.draw()
	return nil
}

// Tick runs one client tick at now: synthesized releases, the client, the
// plugin, then a redraw.
func (app *Application) Tick(now time.Time) {
	for _, ev := range app.held.expire(now) {
		app.client.KeyReleased(ev)
	}
	app.client.Tick()
	app.plugin.Tick()
	app.ticks++
	app.draw()
}

// Ticks returns the number of ticks run.
func (app *Application) Ticks() uint64 {
	return app.ticks
}

func (app *Application) handleKey(ev key.Event, now time.Time) error {
	if ev.Key == key.KeyRune && ev.Modifiers.Has(key.ModCtrl) && (ev.Rune == 'c' || ev.Rune == 'q') {
		return ErrQuit
	}
	if app.handleClientControl(ev) {
		app.draw()
		return nil
	}

	app.held.press(ev, now)
	app.client.KeyPressed(ev)
	app.draw()
	return nil
}

// handleClientControl handles the keys that stand in for mouse actions in
// the game client.
func (app *Application) handleClientControl(ev key.Event) bool {
	if ev.Modifiers != key.ModNone {
		return false
	}
	switch ev.Key {
	case key.KeyF1:
		app.client.ToggleMapSearch()
	case key.KeyF2:
		app.client.ToggleBankPin()
	case key.KeyF3:
		app.client.ToggleTransparency()
	case key.KeyF4:
		app.client.ToggleLogin()
	case key.KeyF5:
		app.client.ToggleDialog()
	case key.KeyF12:
		if s := app.client.Sibling(); s != nil {
			s.Toggle()
		}
	case key.KeyPageUp:
		app.client.Scroll(1)
	case key.KeyPageDown:
		app.client.Scroll(-1)
	default:
		return false
	}
	app.logger.Debug("client control %s", ev)
	return true
}

func (app *Application) handleMouse(ev backend.Event) {
	switch ev.MouseButton {
	case backend.MouseWheelUp:
		app.client.Scroll(1)
	case backend.MouseWheelDown:
		app.client.Scroll(-1)
	}
}

func (app *Application) focusLost() {
	for _, ev := range app.held.releaseAll() {
		app.client.KeyReleased(ev)
	}
	app.plugin.FocusLost()
}

func (app *Application) String() string {
	return fmt.Sprintf("app(ticks=%d, held=%d)", app.ticks, app.held.len())
}
