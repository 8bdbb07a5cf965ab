package backend

import (
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/camerakeys/internal/input/key"
)

// Terminal implements Backend using tcell.
type Terminal struct {
	screen tcell.Screen
	mu     sync.Mutex
}

// NewTerminal creates a terminal backend.
func NewTerminal() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return &Terminal{screen: screen}, nil
}

func (t *Terminal) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.screen.Init(); err != nil {
		return err
	}
	// The wheel drives the camera zoom.
	t.screen.EnableMouse()
	t.screen.EnableFocus()
	return nil
}

func (t *Terminal) Shutdown() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Fini()
}

func (t *Terminal) Size() (int, int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.screen.Size()
}

func (t *Terminal) SetCell(x, y int, cell Cell) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.SetContent(x, y, cell.Rune, nil, convertStyle(cell.Style))
}

func (t *Terminal) GetCell(x, y int) Cell {
	t.mu.Lock()
	defer t.mu.Unlock()

	mainc, _, style, _ := t.screen.GetContent(x, y) //nolint:staticcheck // GetContent is the correct API
	return Cell{Rune: mainc, Style: convertTcellStyle(style)}
}

func (t *Terminal) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Clear()
}

func (t *Terminal) Show() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Show()
}

func (t *Terminal) HideCursor() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.HideCursor()
}

func (t *Terminal) PollEvent() Event {
	ev := t.screen.PollEvent()
	if ev == nil {
		// Screen finalized.
		return Event{Type: EventNone}
	}
	return convertEvent(ev)
}

func (t *Terminal) PostEvent(event Event) {
	switch event.Type {
	case EventKey:
		k, r, mod := convertToTcellKey(event.Key)
		_ = t.screen.PostEvent(tcell.NewEventKey(k, r, mod)) // best-effort; queue may be full
	case EventInterrupt:
		_ = t.screen.PostEvent(tcell.NewEventInterrupt(nil))
	}
}

func convertStyle(s Style) tcell.Style {
	style := tcell.StyleDefault
	if s.Foreground.Set {
		style = style.Foreground(tcell.NewRGBColor(int32(s.Foreground.R), int32(s.Foreground.G), int32(s.Foreground.B)))
	}
	if s.Background.Set {
		style = style.Background(tcell.NewRGBColor(int32(s.Background.R), int32(s.Background.G), int32(s.Background.B)))
	}
	if s.Attrs.Has(AttrBold) {
		style = style.Bold(true)
	}
	if s.Attrs.Has(AttrDim) {
		style = style.Dim(true)
	}
	if s.Attrs.Has(AttrReverse) {
		style = style.Reverse(true)
	}
	if s.Attrs.Has(AttrUnderline) {
		style = style.Underline(true)
	}
	return style
}

func convertTcellStyle(ts tcell.Style) Style {
	fg, bg, attrs := ts.Decompose()
	s := Style{
		Foreground: convertTcellColor(fg),
		Background: convertTcellColor(bg),
	}
	if attrs&tcell.AttrBold != 0 {
		s.Attrs |= AttrBold
	}
	if attrs&tcell.AttrDim != 0 {
		s.Attrs |= AttrDim
	}
	if attrs&tcell.AttrReverse != 0 {
		s.Attrs |= AttrReverse
	}
	if attrs&tcell.AttrUnderline != 0 {
		s.Attrs |= AttrUnderline
	}
	return s
}

func convertTcellColor(tc tcell.Color) Color {
	if tc == tcell.ColorDefault {
		return ColorDefault
	}
	r, g, b := tc.RGB()
	return RGB(uint8(r), uint8(g), uint8(b))
}

func convertEvent(ev tcell.Event) Event {
	switch e := ev.(type) {
	case *tcell.EventKey:
		return Event{Type: EventKey, Key: convertKey(e)}

	case *tcell.EventMouse:
		x, y := e.Position()
		return Event{
			Type:        EventMouse,
			MouseX:      x,
			MouseY:      y,
			MouseButton: convertMouseButton(e.Buttons()),
		}

	case *tcell.EventResize:
		w, h := e.Size()
		return Event{Type: EventResize, Width: w, Height: h}

	case *tcell.EventFocus:
		return Event{Type: EventFocus, Focused: e.Focused}

	case *tcell.EventInterrupt:
		return Event{Type: EventInterrupt}
	}
	return Event{Type: EventNone}
}

var specialKeys = map[tcell.Key]key.Key{
	tcell.KeyEscape:     key.KeyEscape,
	tcell.KeyEnter:      key.KeyEnter,
	tcell.KeyTab:        key.KeyTab,
	tcell.KeyBackspace:  key.KeyBackspace,
	tcell.KeyBackspace2: key.KeyBackspace,
	tcell.KeyDelete:     key.KeyDelete,
	tcell.KeyInsert:     key.KeyInsert,
	tcell.KeyHome:       key.KeyHome,
	tcell.KeyEnd:        key.KeyEnd,
	tcell.KeyPgUp:       key.KeyPageUp,
	tcell.KeyPgDn:       key.KeyPageDown,
	tcell.KeyUp:         key.KeyUp,
	tcell.KeyDown:       key.KeyDown,
	tcell.KeyLeft:       key.KeyLeft,
	tcell.KeyRight:      key.KeyRight,
	tcell.KeyF1:         key.KeyF1,
	tcell.KeyF2:         key.KeyF2,
	tcell.KeyF3:         key.KeyF3,
	tcell.KeyF4:         key.KeyF4,
	tcell.KeyF5:         key.KeyF5,
	tcell.KeyF6:         key.KeyF6,
	tcell.KeyF7:         key.KeyF7,
	tcell.KeyF8:         key.KeyF8,
	tcell.KeyF9:         key.KeyF9,
	tcell.KeyF10:        key.KeyF10,
	tcell.KeyF11:        key.KeyF11,
	tcell.KeyF12:        key.KeyF12,
}

var ctrlLetters = func() map[tcell.Key]rune {
	keys := []tcell.Key{
		tcell.KeyCtrlA, tcell.KeyCtrlB, tcell.KeyCtrlC, tcell.KeyCtrlD, tcell.KeyCtrlE,
		tcell.KeyCtrlF, tcell.KeyCtrlG, tcell.KeyCtrlH, tcell.KeyCtrlI, tcell.KeyCtrlJ,
		tcell.KeyCtrlK, tcell.KeyCtrlL, tcell.KeyCtrlM, tcell.KeyCtrlN, tcell.KeyCtrlO,
		tcell.KeyCtrlP, tcell.KeyCtrlQ, tcell.KeyCtrlR, tcell.KeyCtrlS, tcell.KeyCtrlT,
		tcell.KeyCtrlU, tcell.KeyCtrlV, tcell.KeyCtrlW, tcell.KeyCtrlX, tcell.KeyCtrlY,
		tcell.KeyCtrlZ,
	}
	m := make(map[tcell.Key]rune, len(keys))
	for i, k := range keys {
		m[k] = rune('a' + i)
	}
	return m
}()

// convertKey converts a tcell key event. Control letters arrive as their
// own keys and become the letter with ModCtrl.
func convertKey(e *tcell.EventKey) key.Event {
	mods := convertMod(e.Modifiers())
	k := e.Key()

	if k == tcell.KeyRune {
		r := e.Rune()
		if r >= 'A' && r <= 'Z' {
			mods = mods.With(key.ModShift)
		}
		return key.NewRuneEvent(r, mods)
	}
	if sk, ok := specialKeys[k]; ok {
		return key.NewSpecialEvent(sk, mods)
	}
	if r, ok := ctrlLetters[k]; ok {
		return key.NewRuneEvent(r, mods.With(key.ModCtrl))
	}
	return key.NewSpecialEvent(key.KeyNone, mods)
}

func convertToTcellKey(ev key.Event) (tcell.Key, rune, tcell.ModMask) {
	mod := convertToTcellMod(ev.Modifiers)
	if ev.Key == key.KeyRune {
		return tcell.KeyRune, ev.Rune, mod
	}
	for tk, k := range specialKeys {
		if k == ev.Key && tk != tcell.KeyBackspace {
			return tk, 0, mod
		}
	}
	return tcell.KeyRune, 0, mod
}

func convertMod(m tcell.ModMask) key.Modifier {
	var result key.Modifier
	if m&tcell.ModShift != 0 {
		result |= key.ModShift
	}
	if m&tcell.ModCtrl != 0 {
		result |= key.ModCtrl
	}
	if m&tcell.ModAlt != 0 {
		result |= key.ModAlt
	}
	if m&tcell.ModMeta != 0 {
		result |= key.ModMeta
	}
	return result
}

func convertToTcellMod(m key.Modifier) tcell.ModMask {
	var result tcell.ModMask
	if m.Has(key.ModShift) {
		result |= tcell.ModShift
	}
	if m.Has(key.ModCtrl) {
		result |= tcell.ModCtrl
	}
	if m.Has(key.ModAlt) {
		result |= tcell.ModAlt
	}
	if m.Has(key.ModMeta) {
		result |= tcell.ModMeta
	}
	return result
}

func convertMouseButton(b tcell.ButtonMask) MouseButton {
	switch {
	case b&tcell.Button1 != 0:
		return MouseLeft
	case b&tcell.Button2 != 0:
		return MouseMiddle
	case b&tcell.Button3 != 0:
		return MouseRight
	case b&tcell.WheelUp != 0:
		return MouseWheelUp
	case b&tcell.WheelDown != 0:
		return MouseWheelDown
	}
	return MouseNone
}

var _ Backend = (*Terminal)(nil)
