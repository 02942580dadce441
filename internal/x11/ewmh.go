package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// supportedHints are the EWMH root properties the manager maintains.
var supportedHints = []string{
	"_NET_SUPPORTED",
	"_NET_SUPPORTING_WM_CHECK",
	"_NET_CLIENT_LIST",
	"_NET_WM_NAME",
}

// AnnounceManager advertises a running EWMH window manager called name: it
// creates an unmapped check window, points _NET_SUPPORTING_WM_CHECK at it from
// both root and itself, names it, and sets _NET_SUPPORTED on root. The check
// window is returned and lives as long as the connection.
func (c *Connection) AnnounceManager(name string) (xproto.Window, error) {
	check, err := c.CreateSimpleWindow(c.Root, Geometry{X: -1, Y: -1, Width: 1, Height: 1}, 0, 0, 0)
	if err != nil {
		return 0, err
	}

	if err := ewmh.SupportingWmCheckSet(c.XUtil, c.Root, check); err != nil {
		return check, fmt.Errorf("failed to set _NET_SUPPORTING_WM_CHECK on root: %w", err)
	}
	if err := ewmh.SupportingWmCheckSet(c.XUtil, check, check); err != nil {
		return check, fmt.Errorf("failed to set _NET_SUPPORTING_WM_CHECK on check window: %w", err)
	}
	if err := ewmh.WmNameSet(c.XUtil, check, name); err != nil {
		return check, fmt.Errorf("failed to set _NET_WM_NAME: %w", err)
	}
	if err := ewmh.SupportedSet(c.XUtil, supportedHints); err != nil {
		return check, fmt.Errorf("failed to set _NET_SUPPORTED: %w", err)
	}
	return check, nil
}
