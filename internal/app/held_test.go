package app

import (
	"testing"
	"time"

	"github.com/dshills/camerakeys/internal/input/key"
)

func TestHeldKeysRepeat(t *testing.T) {
	h := newHeldKeys(500 * time.Millisecond)
	t0 := time.Unix(0, 0)
	c := key.NewRuneEvent('c', key.ModNone)

	if h.press(c, t0) {
		t.Error("first press reported as repeat")
	}
	if !h.press(c, t0.Add(30*time.Millisecond)) {
		t.Error("second press not reported as repeat")
	}
	if got := h.len(); got != 1 {
		t.Errorf("len() = %d, want 1", got)
	}
}

func TestHeldKeysExpire(t *testing.T) {
	h := newHeldKeys(500 * time.Millisecond)
	t0 := time.Unix(0, 0)
	h.press(key.NewRuneEvent('c', key.ModNone), t0)
	h.press(key.NewRuneEvent('n', key.ModNone), t0.Add(100*time.Millisecond))

	if evs := h.expire(t0.Add(499 * time.Millisecond)); len(evs) != 0 {
		t.Fatalf("expire() before timeout = %v, want none", evs)
	}

	evs := h.expire(t0.Add(500 * time.Millisecond))
	if len(evs) != 1 || evs[0].Rune != 'c' || !evs[0].IsRelease() {
		t.Fatalf("expire() = %v, want release of c", evs)
	}

	evs = h.expire(t0.Add(time.Second))
	if len(evs) != 1 || evs[0].Rune != 'n' {
		t.Fatalf("expire() = %v, want release of n", evs)
	}
	if h.len() != 0 {
		t.Errorf("len() = %d after expiry, want 0", h.len())
	}
}

func TestHeldKeysRepeatExtendsHold(t *testing.T) {
	h := newHeldKeys(500 * time.Millisecond)
	t0 := time.Unix(0, 0)
	c := key.NewRuneEvent('c', key.ModNone)

	h.press(c, t0)
	h.press(c, t0.Add(400*time.Millisecond))
	if evs := h.expire(t0.Add(600 * time.Millisecond)); len(evs) != 0 {
		t.Errorf("expire() = %v, want key still held", evs)
	}
}

func TestHeldKeysShiftSharesCode(t *testing.T) {
	h := newHeldKeys(500 * time.Millisecond)
	t0 := time.Unix(0, 0)

	h.press(key.NewRuneEvent('c', key.ModNone), t0)
	if !h.press(key.NewRuneEvent('C', key.ModShift), t0.Add(10*time.Millisecond)) {
		t.Error("shifted press of a held key not reported as repeat")
	}
}

func TestHeldKeysReleaseAllOrder(t *testing.T) {
	h := newHeldKeys(time.Second)
	t0 := time.Unix(0, 0)
	h.press(key.NewRuneEvent('b', key.ModNone), t0.Add(20*time.Millisecond))
	h.press(key.NewRuneEvent('a', key.ModNone), t0)
	h.press(key.NewSpecialEvent(key.KeyEnter, key.ModNone), t0.Add(10*time.Millisecond))

	evs := h.releaseAll()
	if len(evs) != 3 {
		t.Fatalf("releaseAll() returned %d events, want 3", len(evs))
	}
	if evs[0].Rune != 'a' || evs[1].Key != key.KeyEnter || evs[2].Rune != 'b' {
		t.Errorf("releaseAll() = %v, want oldest first", evs)
	}
	for _, ev := range evs {
		if !ev.IsRelease() {
			t.Errorf("%v is not a release", ev)
		}
	}
	if h.len() != 0 {
		t.Errorf("len() = %d, want 0", h.len())
	}
}
