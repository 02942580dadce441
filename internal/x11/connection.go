package x11

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xevent"
)

// ErrClosed is returned by NextEvent once the connection to the X server is gone.
var ErrClosed = errors.New("x11: connection closed")

// wakeAtomName names the private ClientMessage type used by Wake.
const wakeAtomName = "_FRAMEWM_WAKE"

// ErrorHandler receives X protocol errors reported for failed requests.
type ErrorHandler = xgbutil.ErrorHandlerFun

// ConnectionError reports that the X server could not be reached.
type ConnectionError struct {
	Display string
	Err     error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("failed to open display %s: %v", displayLabel(e.Display), e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// Connection manages the X11 connection and core X resources
type Connection struct {
	XUtil   *xgbutil.XUtil
	Root    xproto.Window
	Display string

	wire       wire
	wakeAtom   xproto.Atom
	wakeTarget xproto.Window
	closeOnce  sync.Once
}

// wire is the part of the server connection the event pump and Wake use.
type wire interface {
	RoundTrip()
	PollForEvent() (xgb.Event, xgb.Error)
	WaitForEvent() (xgb.Event, xgb.Error)
	SendEvent(dest xproto.Window, mask uint32, event string) error
}

type xgbWire struct {
	xu *xgbutil.XUtil
}

func (w xgbWire) RoundTrip() {
	w.xu.Sync()
}

func (w xgbWire) PollForEvent() (xgb.Event, xgb.Error) {
	return w.xu.Conn().PollForEvent()
}

func (w xgbWire) WaitForEvent() (xgb.Event, xgb.Error) {
	return w.xu.Conn().WaitForEvent()
}

func (w xgbWire) SendEvent(dest xproto.Window, mask uint32, event string) error {
	return xproto.SendEventChecked(w.xu.Conn(), false, dest, mask, event).Check()
}

// ResolveDisplay returns the display target that will be dialed for name.
// An empty name selects $DISPLAY.
func ResolveDisplay(name string) string {
	if name != "" {
		return name
	}
	return os.Getenv("DISPLAY")
}

// NewConnection establishes a connection to the X11 server named by display
// (or $DISPLAY when display is empty).
func NewConnection(display string) (*Connection, error) {
	target := ResolveDisplay(display)
	if target == "" {
		return nil, &ConnectionError{Err: errors.New("no display target set")}
	}

	xu, err := xgbutil.NewConnDisplay(target)
	if err != nil {
		return nil, &ConnectionError{Display: target, Err: err}
	}

	reply, err := xproto.InternAtom(xu.Conn(), false,
		uint16(len(wakeAtomName)), wakeAtomName).Reply()
	if err != nil {
		xu.Conn().Close()
		return nil, &ConnectionError{Display: target, Err: fmt.Errorf("failed to intern %s: %w", wakeAtomName, err)}
	}

	return &Connection{
		XUtil:      xu,
		Root:       xu.RootWin(),
		Display:    target,
		wire:       xgbWire{xu: xu},
		wakeAtom:   reply.Atom,
		wakeTarget: xu.Dummy(),
	}, nil
}

// RootWindow returns the root window of the default screen.
func (c *Connection) RootWindow() xproto.Window {
	return c.Root
}

// DisplayName returns the display target this connection was opened on.
func (c *Connection) DisplayName() string {
	return c.Display
}

// Close cleanly disconnects from the X11 server. Only the first call has an effect.
func (c *Connection) Close() {
	c.closeOnce.Do(func() {
		c.XUtil.Conn().Close()
	})
}

// SetErrorHandler installs the process-wide handler for failed requests,
// replacing the previous one.
func (c *Connection) SetErrorHandler(handler ErrorHandler) {
	xevent.ErrorHandlerSet(c.XUtil, handler)
}

func (c *Connection) reportError(err xgb.Error) {
	if handler := xevent.ErrorHandlerGet(c.XUtil); handler != nil {
		handler(err)
	}
}

// report forwards X protocol errors returned by a reply to the installed
// handler and passes err through.
func (c *Connection) report(err error) error {
	var xerr xgb.Error
	if errors.As(err, &xerr) {
		c.reportError(xerr)
	}
	return err
}

// Sync performs a round trip to the server. Every error caused by a request
// sent before Sync has been delivered to the error handler when it returns;
// events read along the way stay queued for NextEvent.
func (c *Connection) Sync() {
	c.wire.RoundTrip()
	for {
		ev, xerr := c.wire.PollForEvent()
		if ev == nil && xerr == nil {
			return
		}
		if xerr != nil {
			c.reportError(xerr)
			continue
		}
		xevent.Enqueue(c.XUtil, ev, nil)
	}
}

// drainErrors hands queued errors to the error handler, keeping events in order.
func (c *Connection) drainErrors() (xgb.Event, bool) {
	for !xevent.Empty(c.XUtil) {
		ev, xerr := xevent.Dequeue(c.XUtil)
		if xerr != nil {
			c.reportError(xerr)
			continue
		}
		if ev != nil {
			return ev, true
		}
	}
	return nil, false
}

// NextEvent blocks until the next event arrives. Errors received in the
// meantime are delivered to the error handler.
func (c *Connection) NextEvent() (xgb.Event, error) {
	for {
		if ev, ok := c.drainErrors(); ok {
			return ev, nil
		}

		ev, xerr := c.wire.WaitForEvent()
		switch {
		case ev == nil && xerr == nil:
			return nil, ErrClosed
		case xerr != nil:
			c.reportError(xerr)
		default:
			return ev, nil
		}
	}
}

// Wake unblocks a goroutine waiting in NextEvent by sending a private
// ClientMessage to a window this connection created. With an empty event mask
// the server delivers it to the creating client only. It is safe to call from
// any goroutine.
func (c *Connection) Wake() error {
	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: c.wakeTarget,
		Type:   c.wakeAtom,
		Data:   xproto.ClientMessageDataUnionData32New([]uint32{0, 0, 0, 0, 0}),
	}
	return c.wire.SendEvent(c.wakeTarget, xproto.EventMaskNoEvent, string(ev.Bytes()))
}

// IsWake reports whether ev was sent by Wake.
func (c *Connection) IsWake(ev xgb.Event) bool {
	msg, ok := ev.(xproto.ClientMessageEvent)
	return ok && msg.Type == c.wakeAtom
}

// Grab grabs the server so no other client can change the window tree.
func (c *Connection) Grab() {
	c.XUtil.Grab()
}

// Ungrab releases a grab taken by Grab.
func (c *Connection) Ungrab() {
	c.XUtil.Ungrab()
}

func displayLabel(display string) string {
	if display == "" {
		return "(unset)"
	}
	return fmt.Sprintf("%q", display)
}
