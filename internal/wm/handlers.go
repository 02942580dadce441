package wm

import (
	"fmt"

	"github.com/1broseidon/framewm/internal/x11"
	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
)

// dispatch routes one event to its handler. Every handler runs to completion
// before the next event is read.
func (m *Manager) dispatch(ev xgb.Event) {
	switch e := ev.(type) {
	case xproto.CreateNotifyEvent:
		m.onCreateNotify(e)
	case xproto.DestroyNotifyEvent:
		m.onDestroyNotify(e)
	case xproto.ReparentNotifyEvent:
		m.onReparentNotify(e)
	case xproto.ConfigureRequestEvent:
		m.onConfigureRequest(e)
	case xproto.ConfigureNotifyEvent:
		m.onConfigureNotify(e)
	case xproto.MapRequestEvent:
		m.onMapRequest(e)
	case xproto.MapNotifyEvent:
		m.onMapNotify(e)
	case xproto.UnmapNotifyEvent:
		m.onUnmapNotify(e)
	default:
		m.logger.Warn("ignored event", "type", fmt.Sprintf("%T", ev))
	}
}

func (m *Manager) onCreateNotify(e xproto.CreateNotifyEvent) {
	m.logger.Debug("create notify", "window", hexID(e.Window), "parent", hexID(e.Parent))
}

// onDestroyNotify forgets clients destroyed without an UnmapNotify reaching
// onUnmapNotify first, so their frames do not leak.
func (m *Manager) onDestroyNotify(e xproto.DestroyNotifyEvent) {
	m.logger.Debug("destroy notify", "window", hexID(e.Window))
	m.dropClient(e.Window)
}

func (m *Manager) onReparentNotify(e xproto.ReparentNotifyEvent) {
	m.logger.Debug("reparent notify", "window", hexID(e.Window), "parent", hexID(e.Parent))
}

// onConfigureRequest grants the request as-is: the frame of a managed client
// receives the change set, and the same change set is always applied to root.
func (m *Manager) onConfigureRequest(e xproto.ConfigureRequestEvent) {
	changes := x11.ChangesFromRequest(e)

	if frame, ok := m.clients.Frame(e.Window); ok {
		m.display.ConfigureWindow(frame, e.ValueMask, changes)
		m.logger.Info("resize frame",
			"frame", hexID(frame),
			"width", e.Width,
			"height", e.Height)
	}

	m.display.ConfigureWindow(m.root, e.ValueMask, changes)
	m.logger.Info("resize window",
		"window", hexID(e.Window),
		"width", e.Width,
		"height", e.Height)
}

func (m *Manager) onConfigureNotify(e xproto.ConfigureNotifyEvent) {
	m.logger.Debug("configure notify", "window", hexID(e.Window))
}

func (m *Manager) onMapRequest(e xproto.MapRequestEvent) {
	if err := m.Frame(e.Window, false); err != nil {
		m.logger.Warn("failed to frame window", "window", hexID(e.Window), "error", err)
	}
	m.display.MapWindow(e.Window)
}

func (m *Manager) onMapNotify(e xproto.MapNotifyEvent) {
	m.logger.Debug("map notify", "window", hexID(e.Window))
}

// onUnmapNotify unframes a managed client that was unmapped. An UnmapNotify
// reported on root comes from reparenting a pre-existing window into its
// frame, not from the client, and is ignored.
func (m *Manager) onUnmapNotify(e xproto.UnmapNotifyEvent) {
	if _, ok := m.clients.Frame(e.Window); !ok {
		m.logger.Debug("ignore unmap notify for non-client window", "window", hexID(e.Window))
		return
	}
	if e.Event == m.root {
		m.logger.Debug("ignore unmap notify for reparented pre-existing window", "window", hexID(e.Window))
		return
	}
	m.Unframe(e.Window)
}
