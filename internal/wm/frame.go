package wm

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
)

// Frame decoration. Cosmetic only.
const (
	frameBorderWidth     = 3
	frameBorderColor     = 0xff0000
	frameBackgroundColor = 0x0000ff
)

// Frame wraps client in a new frame window at the client's current geometry
// and records the pair. Windows that existed before the manager started are
// skipped when they are override-redirect or not viewable. Framing an already
// managed client is a no-op.
func (m *Manager) Frame(client xproto.Window, preExisting bool) error {
	if frame, ok := m.clients.Frame(client); ok {
		m.logger.Debug("window already framed", "window", hexID(client), "frame", hexID(frame))
		return nil
	}

	attrs, err := m.display.WindowAttributes(client)
	if err != nil {
		return fmt.Errorf("failed to read attributes of window %s: %w", hexID(client), err)
	}

	if preExisting && (attrs.OverrideRedirect || !attrs.Viewable()) {
		m.logger.Debug("skipping unmanageable window",
			"window", hexID(client),
			"override_redirect", attrs.OverrideRedirect,
			"map_state", attrs.MapState)
		return nil
	}

	frame, err := m.display.CreateSimpleWindow(m.root, attrs.Geometry,
		frameBorderWidth, frameBorderColor, frameBackgroundColor)
	if err != nil {
		return fmt.Errorf("failed to create frame for window %s: %w", hexID(client), err)
	}

	m.display.SelectInput(frame, substructureMask)
	m.display.AddToSaveSet(client)
	m.display.ReparentWindow(client, frame, 0, 0)
	m.display.MapWindow(frame)

	m.clients.add(client, frame)
	m.publishClients()

	m.logger.Info("framed window",
		"window", hexID(client),
		"frame", hexID(frame),
		"name", m.display.WindowName(client),
		"geometry", attrs.Geometry.String())
	return nil
}

// Unframe moves client back to the root window and destroys its frame.
// Unmanaged clients are ignored.
func (m *Manager) Unframe(client xproto.Window) {
	frame, ok := m.clients.Frame(client)
	if !ok {
		return
	}

	m.display.UnmapWindow(frame)
	m.display.ReparentWindow(client, m.root, 0, 0)
	m.display.RemoveFromSaveSet(client)
	m.display.DestroyWindow(frame)

	m.clients.remove(client)
	m.publishClients()

	m.logger.Info("unframed window", "window", hexID(client), "frame", hexID(frame))
}

// dropClient forgets a client that no longer exists and destroys its frame.
func (m *Manager) dropClient(client xproto.Window) {
	frame, ok := m.clients.Frame(client)
	if !ok {
		return
	}

	m.display.DestroyWindow(frame)
	m.clients.remove(client)
	m.publishClients()

	m.logger.Warn("dropped destroyed client", "window", hexID(client), "frame", hexID(frame))
}
