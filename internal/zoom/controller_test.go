package zoom

import (
	"math/rand"
	"testing"

	"github.com/dshills/camerakeys/internal/host"
	"github.com/dshills/camerakeys/internal/host/hosttest"
)

// step ticks c against s and applies any command the way the plugin does.
func step(c *Controller, s *hosttest.Surface, configured int) host.Command {
	cmd := c.Tick(s.ZoomLevel(), configured)
	if z, ok := cmd.(host.SetZoom); ok {
		_ = s.RunScript(host.ScriptCameraDoZoom, z.Level, z.Level)
		c.Settle(s.ZoomLevel())
	}
	return cmd
}

func TestNewControllerIsOff(t *testing.T) {
	c := NewController()
	if c.State() != Off {
		t.Errorf("State() = %v, want Off", c.State())
	}
	if _, ok := c.PreviousLevel(); ok {
		t.Error("PreviousLevel() set on a new controller")
	}
	if c.OverlayVisible() {
		t.Error("OverlayVisible() = true while Off")
	}
	if cmd := c.Tick(300, 500); cmd != nil {
		t.Errorf("Tick() while Off = %v, want nil", cmd)
	}
}

func TestHoldScenario(t *testing.T) {
	s := hosttest.New(300)
	c := NewController()

	c.OnKey(true, Hold)
	if c.State() != Zooming {
		t.Fatalf("after press State() = %v, want Zooming", c.State())
	}

	cmd := step(c, s, 500)
	if cmd != (host.SetZoom{Level: 500}) {
		t.Fatalf("press tick command = %v, want set zoom to 500", cmd)
	}
	if c.State() != On {
		t.Errorf("State() = %v, want On", c.State())
	}
	if prev, ok := c.PreviousLevel(); !ok || prev != 300 {
		t.Errorf("PreviousLevel() = %d, %v; want 300, true", prev, ok)
	}
	if !c.OverlayVisible() {
		t.Error("OverlayVisible() = false while On")
	}

	c.OnKey(false, Hold)
	if c.State() != Resetting {
		t.Fatalf("after release State() = %v, want Resetting", c.State())
	}
	cmd = step(c, s, 500)
	if cmd != (host.SetZoom{Level: 300}) {
		t.Errorf("release tick command = %v, want set zoom to 300", cmd)
	}
	if c.State() != Off {
		t.Errorf("State() = %v, want Off", c.State())
	}
	if _, ok := c.PreviousLevel(); ok {
		t.Error("PreviousLevel() still set after reset")
	}
	if _, ok := c.TargetLevel(); ok {
		t.Error("TargetLevel() still set after reset")
	}
	if s.Zoom != 300 {
		t.Errorf("zoom = %d, want 300", s.Zoom)
	}
}

func TestHoldReleaseBeforeTickIgnored(t *testing.T) {
	c := NewController()
	c.OnKey(true, Hold)
	c.OnKey(false, Hold)
	if c.State() != Zooming {
		t.Errorf("State() = %v, want Zooming (release ignored)", c.State())
	}

	c.OnKey(true, Set)
	c.OnKey(false, Hold)
	if c.State() != Setting {
		t.Errorf("State() = %v, want Setting (release ignored)", c.State())
	}
}

func TestHoldReleaseWhileOffIgnored(t *testing.T) {
	c := NewController()
	c.OnKey(false, Hold)
	if c.State() != Off {
		t.Errorf("State() = %v, want Off", c.State())
	}
}

func TestToggleRoundTrip(t *testing.T) {
	s := hosttest.New(420)
	c := NewController()

	c.OnKey(true, Toggle)
	c.OnKey(false, Toggle)
	step(c, s, 700)
	if c.State() != On || s.Zoom != 700 {
		t.Fatalf("after first press State() = %v zoom = %d, want On 700", c.State(), s.Zoom)
	}

	// Ticks while On with no drift keep the zoom.
	for i := 0; i < 5; i++ {
		if cmd := step(c, s, 700); cmd != nil {
			t.Fatalf("idle tick returned %v", cmd)
		}
	}

	c.OnKey(true, Toggle)
	c.OnKey(false, Toggle)
	step(c, s, 700)
	if c.State() != Off {
		t.Errorf("State() = %v, want Off", c.State())
	}
	if s.Zoom != 420 {
		t.Errorf("zoom = %d, want restored 420", s.Zoom)
	}
}

func TestTogglePressIgnoredMidTransition(t *testing.T) {
	c := NewController()
	c.OnKey(true, Toggle)
	c.OnKey(true, Toggle)
	if c.State() != Zooming {
		t.Errorf("State() = %v, want Zooming", c.State())
	}

	c.Tick(100, 200)
	c.OnKey(true, Toggle)
	c.OnKey(true, Toggle)
	if c.State() != Resetting {
		t.Errorf("State() = %v, want Resetting", c.State())
	}
}

func TestToggleCancelScenario(t *testing.T) {
	s := hosttest.New(300)
	c := NewController()
	c.OnKey(true, Toggle)
	step(c, s, 500)

	if target, ok := c.TargetLevel(); !ok || target != 500 {
		t.Fatalf("TargetLevel() = %d, %v; want 500, true", target, ok)
	}

	before := len(s.Scripts)
	s.Zoom = 560
	if cmd := step(c, s, 500); cmd != nil {
		t.Errorf("cancel tick command = %v, want nil", cmd)
	}
	if c.State() != Off {
		t.Errorf("State() = %v, want Off", c.State())
	}
	if len(s.Scripts) != before {
		t.Error("cancel ran a script; no restore expected")
	}
	if s.Zoom != 560 {
		t.Errorf("zoom = %d, want user level 560", s.Zoom)
	}
}

func TestCancelThresholdBoundary(t *testing.T) {
	tests := []struct {
		name   string
		drift  int
		cancel bool
	}{
		{"exact threshold above", CancelThreshold, false},
		{"threshold plus one above", CancelThreshold + 1, true},
		{"exact threshold below", -CancelThreshold, false},
		{"threshold plus one below", -(CancelThreshold + 1), true},
		{"no drift", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := hosttest.New(300)
			c := NewController()
			c.OnKey(true, Hold)
			step(c, s, 500)

			s.Zoom = 500 + tt.drift
			step(c, s, 500)

			if got := c.State() == Off; got != tt.cancel {
				t.Errorf("drift %d canceled = %v, want %v", tt.drift, got, tt.cancel)
			}
		})
	}
}

func TestClampedTargetIsTracked(t *testing.T) {
	s := hosttest.New(300)
	s.ZoomMin, s.ZoomMax = 128, 896
	c := NewController()

	c.OnKey(true, Hold)
	step(c, s, 1300)

	if target, _ := c.TargetLevel(); target != 896 {
		t.Fatalf("TargetLevel() = %d, want clamped 896", target)
	}
	// Measured against the achieved level, not the configured one.
	step(c, s, 1300)
	if c.State() != On {
		t.Errorf("State() = %v, want On", c.State())
	}
}

func TestTargetCapturedOnFirstOnTickWithoutSettle(t *testing.T) {
	c := NewController()
	c.OnKey(true, Hold)
	c.Tick(300, 500)

	if _, ok := c.TargetLevel(); ok {
		t.Fatal("TargetLevel() set before the zoom was applied")
	}
	if cmd := c.Tick(500, 500); cmd != nil {
		t.Errorf("first On tick returned %v", cmd)
	}
	if target, ok := c.TargetLevel(); !ok || target != 500 {
		t.Errorf("TargetLevel() = %d, %v; want 500, true", target, ok)
	}
}

func TestSetScenario(t *testing.T) {
	s := hosttest.New(200)
	c := NewController()

	c.OnKey(true, Set)
	c.OnKey(false, Set)
	cmd := step(c, s, 700)

	if cmd != (host.SetZoom{Level: 700}) {
		t.Errorf("command = %v, want set zoom to 700", cmd)
	}
	if c.State() != Off {
		t.Errorf("State() = %v, want Off", c.State())
	}
	if prev, ok := c.PreviousLevel(); !ok || prev != 200 {
		t.Errorf("PreviousLevel() = %d, %v; want 200, true", prev, ok)
	}

	// No restore is ever scheduled.
	for i := 0; i < 3; i++ {
		if cmd := step(c, s, 700); cmd != nil {
			t.Errorf("tick %d returned %v", i, cmd)
		}
	}
	if got := s.ZoomScripts(); len(got) != 1 || got[0] != 700 {
		t.Errorf("zoom scripts = %v, want [700]", got)
	}
}

func TestSettleIgnoredOutsideOn(t *testing.T) {
	c := NewController()
	c.Settle(123)
	if _, ok := c.TargetLevel(); ok {
		t.Error("Settle() recorded a target while Off")
	}
}

func TestRestore(t *testing.T) {
	s := hosttest.New(250)
	c := NewController()

	if cmd := c.Restore(); cmd != nil {
		t.Errorf("Restore() while Off = %v, want nil", cmd)
	}

	c.OnKey(true, Toggle)
	step(c, s, 600)

	cmd := c.Restore()
	if cmd != (host.SetZoom{Level: 250}) {
		t.Errorf("Restore() = %v, want set zoom to 250", cmd)
	}
	if c.State() != Off {
		t.Errorf("State() = %v, want Off", c.State())
	}
}

func TestRestoreWhileResetting(t *testing.T) {
	s := hosttest.New(300)
	c := NewController()

	c.OnKey(true, Hold)
	step(c, s, 500)
	c.OnKey(false, Hold)
	if c.State() != Resetting {
		t.Fatalf("State() = %v, want Resetting", c.State())
	}

	cmd := c.Restore()
	if cmd != (host.SetZoom{Level: 300}) {
		t.Errorf("Restore() = %v, want set zoom to 300", cmd)
	}
	if c.State() != Off {
		t.Errorf("State() = %v, want Off", c.State())
	}
	if _, ok := c.PreviousLevel(); ok {
		t.Error("PreviousLevel() still set after Restore")
	}
}

func TestRestoreDropsPendingRequests(t *testing.T) {
	for _, mode := range []ActivationMode{Hold, Set} {
		c := NewController()
		c.OnKey(true, mode)

		if cmd := c.Restore(); cmd != nil {
			t.Errorf("%v: Restore() = %v, want nil", mode, cmd)
		}
		if c.State() != Off {
			t.Errorf("%v: State() = %v, want Off", mode, c.State())
		}
		if cmd := c.Tick(300, 500); cmd != nil {
			t.Errorf("%v: Tick() after Restore = %v, want nil", mode, cmd)
		}
	}
}

func TestTransitionObserver(t *testing.T) {
	var got []string
	c := NewController(WithTransitionFunc(func(from, to State) {
		got = append(got, from.String()+">"+to.String())
	}))

	c.OnKey(true, Hold)
	c.Tick(100, 400)
	c.OnKey(false, Hold)
	c.Tick(400, 400)

	want := []string{"Off>Zooming", "Zooming>On", "On>Resetting", "Resetting>Off"}
	if len(got) != len(want) {
		t.Fatalf("transitions = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("transition %d = %s, want %s", i, got[i], want[i])
		}
	}
}

// Under Hold, a press from Off always reaches On after one tick with the
// previous level equal to the level observed at press time.
func TestHoldPressFromOffProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 200; trial++ {
		s := hosttest.New(128 + rng.Intn(768))
		c := NewController()

		// Random prefix of presses, releases and ticks.
		for i := rng.Intn(20); i > 0; i-- {
			switch rng.Intn(3) {
			case 0:
				c.OnKey(true, Hold)
			case 1:
				c.OnKey(false, Hold)
			default:
				step(c, s, 128+rng.Intn(768))
			}
		}
		if c.State() != Off {
			continue
		}

		observed := s.ZoomLevel()
		c.OnKey(true, Hold)
		step(c, s, 128+rng.Intn(768))

		if c.State() != On {
			t.Fatalf("trial %d: State() = %v, want On", trial, c.State())
		}
		if prev, _ := c.PreviousLevel(); prev != observed {
			t.Fatalf("trial %d: PreviousLevel() = %d, want %d", trial, prev, observed)
		}
	}
}

// Under Toggle, two presses with no intervening cancel restore the level
// captured at the first press.
func TestToggleRestoresProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for trial := 0; trial < 200; trial++ {
		start := rng.Intn(1000)
		target := rng.Intn(1000)
		s := hosttest.New(start)
		c := NewController()

		c.OnKey(true, Toggle)
		step(c, s, target)
		for i := rng.Intn(10); i > 0; i-- {
			c.OnKey(false, Toggle)
			// Small scrolls that stay within the threshold.
			s.Zoom = target + rng.Intn(2*CancelThreshold+1) - CancelThreshold
			step(c, s, target)
		}
		c.OnKey(true, Toggle)
		step(c, s, target)

		if c.State() != Off {
			t.Fatalf("trial %d: State() = %v, want Off", trial, c.State())
		}
		if s.Zoom != start {
			t.Fatalf("trial %d: zoom = %d, want %d", trial, s.Zoom, start)
		}
	}
}
