// Package hosttest provides an in-memory host.Surface for tests.
package hosttest

import (
	"fmt"

	"github.com/dshills/camerakeys/internal/host"
)

// ScriptCall records a RunScript invocation.
type ScriptCall struct {
	ID   host.ScriptID
	Args []int
}

// Surface is a scriptable fake of the client. The zero value is not usable;
// call New.
type Surface struct {
	Zoom int
	// ZoomMin and ZoomMax clamp script zooms when ZoomMax > ZoomMin.
	ZoomMin, ZoomMax int

	ChatText      string
	HasChatWidget bool
	Typed         string

	ChatFocused      bool
	MapSearchFocused bool
	Hidden           map[host.WidgetID]bool
	Transparent      bool
	LoggedOut        bool

	Direction host.Direction
	Scripts   []ScriptCall
	ScriptErr error
}

// New returns a logged-in client with a focused, unlocked, empty chat box
// belonging to "Player", no dialog open, and the zoom at level.
func New(level int) *Surface {
	return &Surface{
		Zoom:          level,
		ChatText:      "Player: <col=0000ff>*</col>",
		HasChatWidget: true,
		ChatFocused:   true,
		Hidden: map[host.WidgetID]bool{
			host.WidgetBankPinContainer: true,
		},
	}
}

func (s *Surface) ZoomLevel() int { return s.Zoom }

func (s *Surface) ChatBoxText() (string, bool) {
	if !s.HasChatWidget {
		return "", false
	}
	return s.ChatText, true
}

func (s *Surface) SetChatBoxText(text string) {
	if s.HasChatWidget {
		s.ChatText = text
	}
}

func (s *Surface) TypedText() string           { return s.Typed }
func (s *Surface) SetTypedText(text string)    { s.Typed = text }
func (s *Surface) ChatBoxHasFocus() bool       { return s.ChatFocused }
func (s *Surface) WorldMapSearchFocused() bool { return s.MapSearchFocused }
func (s *Surface) ChatBoxTransparent() bool    { return s.Transparent }
func (s *Surface) LoggedIn() bool              { return !s.LoggedOut }

func (s *Surface) WidgetHidden(id host.WidgetID) bool {
	return s.Hidden[id]
}

// RunScript records the call and emulates the zoom and compass scripts.
func (s *Surface) RunScript(id host.ScriptID, args ...int) error {
	s.Scripts = append(s.Scripts, ScriptCall{ID: id, Args: append([]int(nil), args...)})
	if s.ScriptErr != nil {
		return s.ScriptErr
	}
	switch id {
	case host.ScriptCameraDoZoom:
		if len(args) == 0 {
			return fmt.Errorf("%s: missing level", id)
		}
		level := args[0]
		if s.ZoomMax > s.ZoomMin {
			level = max(s.ZoomMin, min(s.ZoomMax, level))
		}
		s.Zoom = level
	case host.ScriptCompassOp:
		if len(args) == 0 {
			return fmt.Errorf("%s: missing op", id)
		}
		s.Direction = host.Direction(args[0])
	}
	return nil
}

// ZoomScripts returns the levels passed to the zoom script, in order.
func (s *Surface) ZoomScripts() []int {
	var levels []int
	for _, c := range s.Scripts {
		if c.ID == host.ScriptCameraDoZoom && len(c.Args) > 0 {
			levels = append(levels, c.Args[0])
		}
	}
	return levels
}

// Recorder is an Invoker that keeps posted commands for inspection.
type Recorder struct {
	Commands []host.Command
}

// Invoke records cmd.
func (r *Recorder) Invoke(cmd host.Command) {
	r.Commands = append(r.Commands, cmd)
}

// Strings returns the recorded commands as strings.
func (r *Recorder) Strings() []string {
	out := make([]string, len(r.Commands))
	for i, c := range r.Commands {
		out[i] = c.String()
	}
	return out
}

// Reset forgets recorded commands.
func (r *Recorder) Reset() {
	r.Commands = nil
}

var (
	_ host.Surface = (*Surface)(nil)
	_ host.Invoker = (*Recorder)(nil)
)
