package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
)

// Geometry is a window's position and size relative to its parent.
type Geometry struct {
	X      int
	Y      int
	Width  int
	Height int
}

func (g Geometry) String() string {
	return fmt.Sprintf("%dx%d+%d+%d", g.Width, g.Height, g.X, g.Y)
}

// Attributes is the subset of a window's state the manager decides on.
type Attributes struct {
	Geometry
	BorderWidth      int
	MapState         byte
	OverrideRedirect bool
}

// Viewable reports whether the window is mapped and all its ancestors are too.
func (a Attributes) Viewable() bool {
	return a.MapState == xproto.MapStateViewable
}

// Tree is the result of a QueryTree request. Children are in stacking order,
// bottom-most first.
type Tree struct {
	Root     xproto.Window
	Parent   xproto.Window
	Children []xproto.Window
}

// WindowChanges carries every field a ConfigureWindow request can set.
// Which fields are sent is decided by the value mask passed alongside.
type WindowChanges struct {
	X           int16
	Y           int16
	Width       uint16
	Height      uint16
	BorderWidth uint16
	Sibling     xproto.Window
	StackMode   byte
}

// ChangesFromRequest copies the raw change set out of a ConfigureRequest.
func ChangesFromRequest(ev xproto.ConfigureRequestEvent) WindowChanges {
	return WindowChanges{
		X:           ev.X,
		Y:           ev.Y,
		Width:       ev.Width,
		Height:      ev.Height,
		BorderWidth: ev.BorderWidth,
		Sibling:     ev.Sibling,
		StackMode:   ev.StackMode,
	}
}

// ValueList encodes the fields selected by mask in protocol order.
func (c WindowChanges) ValueList(mask uint16) []uint32 {
	values := make([]uint32, 0, 7)
	if mask&xproto.ConfigWindowX != 0 {
		values = append(values, uint32(int32(c.X)))
	}
	if mask&xproto.ConfigWindowY != 0 {
		values = append(values, uint32(int32(c.Y)))
	}
	if mask&xproto.ConfigWindowWidth != 0 {
		values = append(values, uint32(c.Width))
	}
	if mask&xproto.ConfigWindowHeight != 0 {
		values = append(values, uint32(c.Height))
	}
	if mask&xproto.ConfigWindowBorderWidth != 0 {
		values = append(values, uint32(c.BorderWidth))
	}
	if mask&xproto.ConfigWindowSibling != 0 {
		values = append(values, uint32(c.Sibling))
	}
	if mask&xproto.ConfigWindowStackMode != 0 {
		values = append(values, uint32(c.StackMode))
	}
	return values
}
