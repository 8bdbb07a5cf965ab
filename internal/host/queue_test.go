package host

import (
	"sync"
	"testing"
)

func TestQueueDrainOrder(t *testing.T) {
	q := NewQueue()
	q.Invoke(SetZoom{Level: 500})
	q.Invoke(SetCompass{Direction: North})
	q.Invoke(LockChat{})

	if q.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", q.Len())
	}

	var got []string
	n := q.Drain(func(inv Invocation) {
		if inv.ID == "" {
			t.Error("invocation has no id")
		}
		got = append(got, inv.Command.String())
	})

	want := []string{"set zoom to 500", "face north", "lock chat"}
	if n != len(want) {
		t.Fatalf("Drain() = %d, want %d", n, len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("command %d = %q, want %q", i, got[i], want[i])
		}
	}
	if q.Len() != 0 {
		t.Errorf("Len() after drain = %d, want 0", q.Len())
	}
}

func TestQueueDrainRunsNestedPosts(t *testing.T) {
	q := NewQueue()
	q.Invoke(ClearTypedText{})

	var got []string
	q.Drain(func(inv Invocation) {
		got = append(got, inv.Command.String())
		if _, ok := inv.Command.(ClearTypedText); ok {
			q.Invoke(LockChat{})
		}
	})

	if len(got) != 2 || got[1] != "lock chat" {
		t.Errorf("drained %v, want nested lock to run in the same drain", got)
	}
}

func TestQueueUniqueIDs(t *testing.T) {
	q := NewQueue()
	for i := 0; i < 50; i++ {
		q.Invoke(UnlockChat{})
	}
	seen := make(map[string]bool)
	q.Drain(func(inv Invocation) {
		if seen[inv.ID] {
			t.Errorf("duplicate id %s", inv.ID)
		}
		seen[inv.ID] = true
	})
}

func TestQueueClose(t *testing.T) {
	q := NewQueue()
	q.Invoke(LockChat{})
	q.Close()
	q.Close()
	q.Invoke(UnlockChat{})

	if n := q.Drain(func(Invocation) {}); n != 0 {
		t.Errorf("Drain() after Close = %d, want 0", n)
	}
	stats := q.Stats()
	if stats.Posted != 1 || stats.Dropped != 2 {
		t.Errorf("Stats() = %+v, want posted 1 dropped 2", stats)
	}
}

func TestQueueNilCommandIgnored(t *testing.T) {
	q := NewQueue()
	q.Invoke(nil)
	if q.Len() != 0 {
		t.Errorf("Len() = %d, want 0", q.Len())
	}
}

func TestQueueConcurrentPosts(t *testing.T) {
	q := NewQueue()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				q.Invoke(SetZoom{Level: j})
			}
		}()
	}
	wg.Wait()

	if n := q.Drain(func(Invocation) {}); n != 800 {
		t.Errorf("Drain() = %d, want 800", n)
	}
	if s := q.Stats(); s.Applied != 800 {
		t.Errorf("Applied = %d, want 800", s.Applied)
	}
}

func TestInvokerFunc(t *testing.T) {
	var got Command
	var inv Invoker = InvokerFunc(func(c Command) { got = c })
	inv.Invoke(SetCompass{Direction: West})
	if got != (SetCompass{Direction: West}) {
		t.Errorf("got %v, want face west", got)
	}
}

func TestStringers(t *testing.T) {
	tests := []struct {
		got, want string
	}{
		{WidgetChatboxInput.String(), "chatbox_input"},
		{WidgetID(99).String(), "widget(99)"},
		{ScriptCameraDoZoom.String(), "camera_do_zoom"},
		{ScriptCompassOp.String(), "toplevel_compass_op"},
		{East.String(), "east"},
		{Direction(9).String(), "direction(9)"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}
}

func TestDirectionValues(t *testing.T) {
	// Op codes expected by the compass script.
	if North != 1 || South != 2 || East != 3 || West != 4 {
		t.Errorf("direction op codes = %d %d %d %d, want 1 2 3 4", North, South, East, West)
	}
}
