package x11

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// CreateSimpleWindow creates an unmapped InputOutput window under parent with
// a solid border and background.
func (c *Connection) CreateSimpleWindow(parent xproto.Window, geom Geometry, borderWidth int, border, background uint32) (xproto.Window, error) {
	win, err := xwindow.Generate(c.XUtil)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate window id: %w", err)
	}

	screen := c.XUtil.Screen()
	xproto.CreateWindow(c.XUtil.Conn(),
		screen.RootDepth, win.Id, parent,
		int16(geom.X), int16(geom.Y), uint16(geom.Width), uint16(geom.Height),
		uint16(borderWidth),
		xproto.WindowClassInputOutput, screen.RootVisual,
		xproto.CwBackPixel|xproto.CwBorderPixel,
		[]uint32{background, border})

	return win.Id, nil
}

// DestroyWindow destroys win.
func (c *Connection) DestroyWindow(win xproto.Window) {
	xproto.DestroyWindow(c.XUtil.Conn(), win)
}

// MapWindow maps win.
func (c *Connection) MapWindow(win xproto.Window) {
	xwindow.New(c.XUtil, win).Map()
}

// UnmapWindow unmaps win.
func (c *Connection) UnmapWindow(win xproto.Window) {
	xwindow.New(c.XUtil, win).Unmap()
}

// ReparentWindow moves win under parent at offset (x, y).
func (c *Connection) ReparentWindow(win, parent xproto.Window, x, y int) {
	xproto.ReparentWindow(c.XUtil.Conn(), win, parent, int16(x), int16(y))
}

// ConfigureWindow applies the fields of changes selected by mask to win.
func (c *Connection) ConfigureWindow(win xproto.Window, mask uint16, changes WindowChanges) {
	xproto.ConfigureWindow(c.XUtil.Conn(), win, mask, changes.ValueList(mask))
}

// AddToSaveSet adds win to this client's save-set.
func (c *Connection) AddToSaveSet(win xproto.Window) {
	xproto.ChangeSaveSet(c.XUtil.Conn(), xproto.SetModeInsert, win)
}

// RemoveFromSaveSet removes win from this client's save-set.
func (c *Connection) RemoveFromSaveSet(win xproto.Window) {
	xproto.ChangeSaveSet(c.XUtil.Conn(), xproto.SetModeDelete, win)
}

// SelectInput replaces the event mask this client selects on win.
func (c *Connection) SelectInput(win xproto.Window, mask uint32) {
	xproto.ChangeWindowAttributes(c.XUtil.Conn(), win, xproto.CwEventMask, []uint32{mask})
}

// WindowAttributes reads the geometry, map state and override-redirect flag of win.
func (c *Connection) WindowAttributes(win xproto.Window) (Attributes, error) {
	attrCookie := xproto.GetWindowAttributes(c.XUtil.Conn(), win)
	geomCookie := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(win))

	attrs, err := attrCookie.Reply()
	if err != nil {
		return Attributes{}, c.report(err)
	}
	geom, err := geomCookie.Reply()
	if err != nil {
		return Attributes{}, c.report(err)
	}

	return Attributes{
		Geometry: Geometry{
			X:      int(geom.X),
			Y:      int(geom.Y),
			Width:  int(geom.Width),
			Height: int(geom.Height),
		},
		BorderWidth:      int(geom.BorderWidth),
		MapState:         attrs.MapState,
		OverrideRedirect: attrs.OverrideRedirect,
	}, nil
}

// QueryTree lists the root, parent and children of win.
func (c *Connection) QueryTree(win xproto.Window) (Tree, error) {
	reply, err := xproto.QueryTree(c.XUtil.Conn(), win).Reply()
	if err != nil {
		return Tree{}, c.report(err)
	}
	return Tree{
		Root:     reply.Root,
		Parent:   reply.Parent,
		Children: reply.Children,
	}, nil
}

// WindowName returns the best-effort title of win for diagnostics.
// _NET_WM_NAME is preferred over WM_NAME; an empty string means neither is set.
func (c *Connection) WindowName(win xproto.Window) string {
	if name, err := ewmh.WmNameGet(c.XUtil, win); err == nil {
		if name = strings.TrimSpace(name); name != "" {
			return name
		}
	}
	if name, err := icccm.WmNameGet(c.XUtil, win); err == nil {
		return strings.TrimSpace(name)
	}
	return ""
}

// SetClientList publishes the managed client windows as _NET_CLIENT_LIST on root.
func (c *Connection) SetClientList(clients []xproto.Window) error {
	if err := ewmh.ClientListSet(c.XUtil, clients); err != nil {
		return fmt.Errorf("failed to set _NET_CLIENT_LIST: %w", err)
	}
	return nil
}
