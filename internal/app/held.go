package app

import (
	"sort"
	"time"

	"github.com/dshills/camerakeys/internal/input/key"
)

// heldKeys turns a terminal's press-only key stream into presses and
// releases. A key counts as held while its auto-repeat keeps arriving; it
// is released once no press has been seen for the hold timeout.
type heldKeys struct {
	timeout time.Duration
	keys    map[key.Code]heldKey
}

type heldKey struct {
	ev   key.Event
	last time.Time
}

func newHeldKeys(timeout time.Duration) *heldKeys {
	return &heldKeys{
		timeout: timeout,
		keys:    make(map[key.Code]heldKey),
	}
}

// press records ev and reports whether it is an auto-repeat of a held key.
func (h *heldKeys) press(ev key.Event, now time.Time) (repeat bool) {
	code := ev.Code()
	_, repeat = h.keys[code]
	h.keys[code] = heldKey{ev: ev, last: now}
	return repeat
}

// expire returns release events for keys not repeated within the timeout,
// oldest first.
func (h *heldKeys) expire(now time.Time) []key.Event {
	var out []heldKey
	for code, k := range h.keys {
		if now.Sub(k.last) >= h.timeout {
			out = append(out, k)
			delete(h.keys, code)
		}
	}
	return releases(out)
}

// releaseAll returns release events for every held key.
func (h *heldKeys) releaseAll() []key.Event {
	out := make([]heldKey, 0, len(h.keys))
	for _, k := range h.keys {
		out = append(out, k)
	}
	clear(h.keys)
	return releases(out)
}

func (h *heldKeys) len() int {
	return len(h.keys)
}

func releases(keys []heldKey) []key.Event {
	sort.Slice(keys, func(i, j int) bool { return keys[i].last.Before(keys[j].last) })
	evs := make([]key.Event, len(keys))
	for i, k := range keys {
		evs[i] = k.ev.Released()
	}
	return evs
}
