package app

import (
	"fmt"
	"strings"

	"github.com/dshills/camerakeys/internal/client"
	"github.com/dshills/camerakeys/internal/renderer/backend"
)

// Zoom limits of the client camera script.
const (
	zoomMin = 128
	zoomMax = 896
)

const zoomBarWidth = 24

var (
	titleStyle   = backend.DefaultStyle.WithAttrs(backend.AttrBold)
	dimStyle     = backend.DefaultStyle.WithAttrs(backend.AttrDim)
	overlayStyle = backend.DefaultStyle.
			WithForeground(backend.RGB(0, 0, 0)).
			WithBackground(backend.RGB(0xff, 0xc8, 0x00)).
			WithAttrs(backend.AttrBold)
	panelStyle = backend.DefaultStyle.WithAttrs(backend.AttrReverse)
)

const helpLine = "F1 map search  F2 bank pin  F3 transparency  F4 login  F5 dialog  F12 key remapping  PgUp/PgDn zoom  Ctrl+C quit"

// draw redraws the whole screen from the client view and plugin status.
func (app *Application) draw() {
	b := app.backend
	b.Clear()
	_, height := b.Size()
	v := app.client.View()
	st := app.plugin.Status()

	sibling := "off"
	if v.SiblingOn {
		sibling = "on"
	}
	backend.DrawText(b, 0, 0, "Camera Keys", titleStyle)
	backend.DrawText(b, 14, 0, "key remapping: "+sibling, dimStyle)

	if !v.LoggedIn {
		backend.DrawText(b, 0, 2, "Logged out. Press F4 to log in.", backend.DefaultStyle)
		backend.DrawText(b, 0, height-1, helpLine, dimStyle)
		b.Show()
		return
	}

	x := backend.DrawText(b, 0, 2, fmt.Sprintf("Zoom %4d %s", v.Zoom, zoomBar(v.Zoom)), backend.DefaultStyle)
	if app.plugin.OverlayVisible() {
		backend.DrawText(b, x+2, 2, " ZOOM ", overlayStyle)
	}
	backend.DrawText(b, 0, 3, fmt.Sprintf("Yaw  %4d %s", v.Yaw, compassName(v.Yaw)), backend.DefaultStyle)
	backend.DrawText(b, 0, 4, fmt.Sprintf("zoom=%s mode=%s chat=%s typing=%t",
		st.Zoom, st.Activation, st.ChatMode, st.Typing), dimStyle)

	inputRow := height - 3
	app.drawMessages(v, 6, inputRow-1)
	app.drawInput(v, inputRow)

	backend.DrawText(b, 0, height-1, helpLine, dimStyle)
	b.Show()
}

// drawMessages fills rows top..bottom with the newest messages, or with the
// open dialog.
func (app *Application) drawMessages(v client.View, top, bottom int) {
	b := app.backend
	if bottom < top {
		return
	}
	if v.DialogOpen {
		backend.DrawText(b, 0, top, " A dialog is open. Press F5 to close it. ", panelStyle)
		return
	}
	msgs := v.Messages
	if n := bottom - top + 1; len(msgs) > n {
		msgs = msgs[len(msgs)-n:]
	}
	for i, m := range msgs {
		backend.DrawText(b, 0, top+i, m, backend.DefaultStyle)
	}
}

func (app *Application) drawInput(v client.View, y int) {
	b := app.backend
	switch {
	case v.BankPinOpen:
		backend.DrawText(b, 0, y, " Bank pin: [1] [2] [3] [4] (F2 to close) ", panelStyle)
	case v.MapSearchOpen:
		backend.DrawText(b, 0, y, " World map search: "+v.MapSearch+"_ ", panelStyle)
	default:
		style := backend.DefaultStyle
		if !v.Transparent {
			style = style.WithBackground(backend.RGB(0xc8, 0xb8, 0x90))
		}
		backend.FillRow(b, 0, y, backend.Cell{Rune: ' ', Style: style})
		x := 0
		for _, seg := range parseColorTags(v.ChatInput) {
			s := style
			if seg.color.Set {
				s = s.WithForeground(seg.color)
			}
			x = backend.DrawText(b, x, y, seg.text, s)
		}
	}
}

// segment is a run of chat text in one colour.
type segment struct {
	text  string
	color backend.Color
}

// parseColorTags splits chat widget text on <col=rrggbb> and </col> tags.
// Malformed tags are drawn as text.
func parseColorTags(s string) []segment {
	var (
		out []segment
		cur backend.Color
	)
	for s != "" {
		i := strings.IndexByte(s, '<')
		if i < 0 {
			out = append(out, segment{text: s, color: cur})
			break
		}
		if i > 0 {
			out = append(out, segment{text: s[:i], color: cur})
			s = s[i:]
		}
		end := strings.IndexByte(s, '>')
		if end < 0 {
			out = append(out, segment{text: s, color: cur})
			break
		}
		tag := s[1:end]
		switch {
		case tag == "/col":
			cur = backend.ColorDefault
		case strings.HasPrefix(tag, "col="):
			c, ok := backend.ParseHex(tag[len("col="):])
			if !ok {
				out = append(out, segment{text: s[:end+1], color: cur})
				break
			}
			cur = c
		default:
			out = append(out, segment{text: s[:end+1], color: cur})
		}
		s = s[end+1:]
	}
	return out
}

func zoomBar(level int) string {
	level = max(zoomMin, min(zoomMax, level))
	filled := (level - zoomMin) * zoomBarWidth / (zoomMax - zoomMin)
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", zoomBarWidth-filled) + "]"
}

// compassName names a camera yaw; yaw runs 0..2047 counter-clockwise from
// north.
func compassName(yaw int) string {
	switch yaw & 2047 {
	case 0:
		return "N"
	case 512:
		return "W"
	case 1024:
		return "S"
	case 1536:
		return "E"
	}
	return fmt.Sprintf("%d°", (2048-yaw&2047)*360/2048)
}
