// Package camerakeys wires the zoom controller, the chat lock coordinator
// and the input router into a plugin driven by the client's key events and
// ticks.
//
// Every Plugin method must be called from one goroutine, the client
// thread. Setting changes may arrive from any goroutine; they are queued
// and applied at the start of the next tick.
package camerakeys

import (
	"errors"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/dshills/camerakeys/internal/chatlock"
	"github.com/dshills/camerakeys/internal/config"
	"github.com/dshills/camerakeys/internal/config/notify"
	"github.com/dshills/camerakeys/internal/host"
	"github.com/dshills/camerakeys/internal/input/key"
	"github.com/dshills/camerakeys/internal/logging"
	"github.com/dshills/camerakeys/internal/router"
	"github.com/dshills/camerakeys/internal/zoom"
)

// Script callbacks raised by the client's chat input script.
const (
	CallbackSetChatboxInput = "setChatboxInput"
	CallbackBlockChatInput  = "blockChatInput"
)

var (
	// ErrAlreadyStarted is returned by Start on a running plugin.
	ErrAlreadyStarted = errors.New("camerakeys: plugin already started")

	// ErrNotStarted is returned by Stop on a plugin that is not running.
	ErrNotStarted = errors.New("camerakeys: plugin not started")
)

// Plugin is the Camera Keys plugin.
type Plugin struct {
	surface host.Surface
	store   *config.Store
	queue   *host.Queue

	zoom   *zoom.Controller
	chat   *chatlock.Coordinator
	router *router.Router

	// applied is the settings snapshot the tick last reconciled against.
	applied config.Settings
	dirty   atomic.Bool
	sub     *notify.Subscription

	// siblingChanges holds each Key Remapping state change in arrival
	// order, so an enable and disable between two ticks are both seen.
	siblingMu      sync.Mutex
	siblingChanges []bool

	running  bool
	stopping bool
	overlay  bool

	metrics *Metrics
	logger  *logging.Logger
}

// Option configures a Plugin.
type Option func(*Plugin)

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(p *Plugin) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithMetrics sets the metrics collectors.
func WithMetrics(m *Metrics) Option {
	return func(p *Plugin) {
		if m != nil {
			p.metrics = m
		}
	}
}

// New creates a stopped plugin for the given client and settings.
func New(surface host.Surface, store *config.Store, opts ...Option) *Plugin {
	p := &Plugin{
		surface: surface,
		store:   store,
		logger:  logging.Null,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.metrics == nil {
		p.metrics = NewMetrics()
	}
	p.logger = p.logger.WithComponent("camerakeys")

	p.zoom = zoom.NewController(
		zoom.WithLogger(p.logger),
		zoom.WithTransitionFunc(p.onZoomTransition),
	)
	return p
}

// Start reconciles with the client and begins handling input. Must be
// called on the client thread.
func (p *Plugin) Start() error {
	if p.running {
		return ErrAlreadyStarted
	}

	p.applied = p.store.Settings()
	p.siblingMu.Lock()
	p.siblingChanges = nil
	p.siblingMu.Unlock()
	p.queue = host.NewQueue()
	p.chat = chatlock.New(p.surface, p.queue,
		chatlock.WithLogger(p.logger),
		chatlock.WithBlockingDisabled(p.applied.DisableChatBlocking),
		chatlock.WithModeFunc(func(_, to chatlock.Mode) {
			p.metrics.chatModes.WithLabelValues(to.String()).Inc()
		}),
	)
	p.router = router.New(p.surface, p.zoom, p.chat, p.queue, p.store.Settings,
		router.WithLogger(p.logger),
		router.WithActionFunc(func(a router.Action) {
			p.metrics.actions.WithLabelValues(a.String()).Inc()
		}),
	)

	p.chat.Start(p.applied.SiblingEnabled)
	p.sub = p.store.Subscribe(p.onSettingChange)
	p.running = true
	p.logger.Info("started, key remapping enabled=%v", p.applied.SiblingEnabled)
	return nil
}

// Stop restores an active zoom, unlocks the chat box and stops handling
// input. Pending commands are discarded. Must be called on the client
// thread.
func (p *Plugin) Stop() error {
	if !p.running {
		return ErrNotStarted
	}

	p.stopping = true
	if cmd := p.zoom.Restore(); cmd != nil {
		p.execute(cmd)
	}
	p.stopping = false

	p.chat.Stop()
	p.sub.Unsubscribe()
	p.sub = nil
	p.queue.Close()
	p.router.Reset()
	p.setOverlay(false)
	p.running = false
	p.logger.Info("stopped")
	return nil
}

// Running reports whether the plugin is started.
func (p *Plugin) Running() bool {
	return p.running
}

// Tick runs once per client tick on the client thread: setting changes,
// posted commands, zoom update and cancel check, chat reconcile, overlay.
func (p *Plugin) Tick() {
	if !p.running {
		return
	}
	p.metrics.ticks.Inc()

	p.applySettings()

	p.queue.Drain(func(inv host.Invocation) {
		p.logger.Debug("applying %s (%s)", inv.Command, inv.ID)
		p.execute(inv.Command)
	})

	s := p.applied
	if cmd := p.zoom.Tick(p.surface.ZoomLevel(), s.Zoom); cmd != nil {
		p.execute(cmd)
		p.zoom.Settle(p.surface.ZoomLevel())
	}

	p.chat.Tick()

	p.setOverlay(s.ZoomIndicator && p.zoom.OverlayVisible())
}

// KeyPressed handles a key-down event and reports whether the client must
// drop the key.
func (p *Plugin) KeyPressed(ev key.Event) bool {
	if !p.running {
		return false
	}
	return p.router.KeyPressed(ev)
}

// KeyReleased handles a key-up event.
func (p *Plugin) KeyReleased(ev key.Event) {
	if !p.running {
		return
	}
	p.router.KeyReleased(ev)
}

// FocusLost forgets held keys; the client will not deliver their releases.
func (p *Plugin) FocusLost() {
	if !p.running {
		return
	}
	p.router.Reset()
}

// OnScriptCallback handles a callback raised by a client script and returns
// its result. Unknown callbacks return false.
func (p *Plugin) OnScriptCallback(name string) bool {
	if !p.running {
		return false
	}
	switch name {
	case CallbackSetChatboxInput:
		p.chat.OnSetChatboxInput()
		return false
	case CallbackBlockChatInput:
		return p.chat.BlockChatInput()
	}
	return false
}

// OverlayVisible reports whether the zoom indicator is shown.
func (p *Plugin) OverlayVisible() bool {
	return p.overlay
}

// Status is a snapshot of the plugin state for display.
type Status struct {
	Running    bool
	Zoom       zoom.State
	Previous   int
	ChatMode   chatlock.Mode
	Typing     bool
	Overlay    bool
	Activation zoom.ActivationMode
}

// Status returns the current plugin state.
func (p *Plugin) Status() Status {
	st := Status{
		Running:    p.running,
		Zoom:       p.zoom.State(),
		Overlay:    p.overlay,
		Activation: p.applied.ActivationType,
	}
	st.Previous, _ = p.zoom.PreviousLevel()
	if p.chat != nil {
		st.ChatMode = p.chat.Mode()
		st.Typing = p.chat.Typing()
	}
	return st
}

// Metrics returns the plugin's metrics.
func (p *Plugin) Metrics() *Metrics {
	return p.metrics
}

// onSettingChange may run on any goroutine.
func (p *Plugin) onSettingChange(c notify.Change) {
	p.metrics.settingChanges.Inc()
	if c.Key == config.KeySiblingEnabled && c.Type != notify.ChangeReload {
		value := c.NewValue
		if c.Type == notify.ChangeUnset {
			d, _ := config.Lookup(c.Key)
			value = d.Default
		}
		if enabled, err := strconv.ParseBool(value); err == nil {
			p.siblingMu.Lock()
			p.siblingChanges = append(p.siblingChanges, enabled)
			p.siblingMu.Unlock()
		}
	}
	p.dirty.Store(true)
}

// applySettings reconciles with the settings that changed since the last
// tick.
func (p *Plugin) applySettings() {
	if !p.dirty.Swap(false) {
		return
	}
	next := p.store.Settings()
	prev := p.applied
	p.applied = next

	p.siblingMu.Lock()
	toggles := p.siblingChanges
	p.siblingChanges = nil
	p.siblingMu.Unlock()

	if len(toggles) > 0 {
		for _, enabled := range toggles {
			p.chat.SiblingToggled(enabled)
		}
	} else if next.SiblingEnabled != prev.SiblingEnabled {
		p.chat.SiblingToggled(next.SiblingEnabled)
	}
	if next.DisableChatBlocking != prev.DisableChatBlocking {
		p.chat.SetBlockingDisabled(next.DisableChatBlocking)
	}
}

func (p *Plugin) setOverlay(visible bool) {
	if p.overlay == visible {
		return
	}
	p.overlay = visible
	if visible {
		p.metrics.overlayVisible.Set(1)
	} else {
		p.metrics.overlayVisible.Set(0)
	}
}

func (p *Plugin) onZoomTransition(from, to zoom.State) {
	p.metrics.zoomTransitions.WithLabelValues(to.String()).Inc()
	if from == zoom.On && to == zoom.Off && !p.stopping {
		p.metrics.zoomCancels.Inc()
	}
}
