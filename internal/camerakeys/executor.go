package camerakeys

import (
	"github.com/dshills/camerakeys/internal/host"
)

// execute applies cmd to the client. Script failures are logged and the
// command is otherwise dropped.
func (p *Plugin) execute(cmd host.Command) {
	switch c := cmd.(type) {
	case host.SetZoom:
		// The zoom script takes the fixed and resizable viewport levels.
		p.runScript(host.ScriptCameraDoZoom, c.Level, c.Level)
	case host.SetCompass:
		p.runScript(host.ScriptCompassOp, int(c.Direction))
	case host.LockChat:
		p.chat.LockChatBox()
	case host.UnlockChat:
		p.chat.UnlockChatBox(p.surface.TypedText())
	case host.ClearTypedText:
		p.surface.SetTypedText("")
	default:
		p.logger.Warn("unknown command %T", cmd)
		return
	}
	p.metrics.commands.WithLabelValues(commandName(cmd)).Inc()
}

func (p *Plugin) runScript(id host.ScriptID, args ...int) {
	if err := p.surface.RunScript(id, args...); err != nil {
		p.metrics.scriptErrors.WithLabelValues(id.String()).Inc()
		p.logger.Error("script %s%v: %v", id, args, err)
	}
}

func commandName(cmd host.Command) string {
	switch cmd.(type) {
	case host.SetZoom:
		return "set_zoom"
	case host.SetCompass:
		return "set_compass"
	case host.LockChat:
		return "lock_chat"
	case host.UnlockChat:
		return "unlock_chat"
	case host.ClearTypedText:
		return "clear_typed_text"
	}
	return "unknown"
}
