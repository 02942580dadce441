package wm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/1broseidon/framewm/internal/x11"
	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
)

// Display is the set of display-server primitives the manager drives.
// *x11.Connection implements it.
type Display interface {
	RootWindow() xproto.Window
	DisplayName() string
	Close()

	CreateSimpleWindow(parent xproto.Window, geom x11.Geometry, borderWidth int, border, background uint32) (xproto.Window, error)
	DestroyWindow(win xproto.Window)
	MapWindow(win xproto.Window)
	UnmapWindow(win xproto.Window)
	ReparentWindow(win, parent xproto.Window, x, y int)
	ConfigureWindow(win xproto.Window, mask uint16, changes x11.WindowChanges)
	AddToSaveSet(win xproto.Window)
	RemoveFromSaveSet(win xproto.Window)
	WindowAttributes(win xproto.Window) (x11.Attributes, error)
	QueryTree(win xproto.Window) (x11.Tree, error)
	SelectInput(win xproto.Window, mask uint32)

	SetErrorHandler(handler x11.ErrorHandler)
	Sync()
	Grab()
	Ungrab()
	NextEvent() (xgb.Event, error)
	Wake() error
	IsWake(ev xgb.Event) bool

	WindowName(win xproto.Window) string
	SetClientList(clients []xproto.Window) error
	AnnounceManager(name string) (xproto.Window, error)
}

var _ Display = (*x11.Connection)(nil)

// managerName is advertised through _NET_SUPPORTING_WM_CHECK.
const managerName = "framewm"

// substructureMask routes map and configure requests of a window's children
// to the manager and reports their structural changes.
const substructureMask = xproto.EventMaskSubstructureRedirect | xproto.EventMaskSubstructureNotify

// State is the lifecycle stage of a Manager.
type State int32

const (
	StateUninitialized State = iota
	StateProbingOwnership
	StateActive
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateProbingOwnership:
		return "probing-ownership"
	case StateActive:
		return "active"
	case StateTerminated:
		return "terminated"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// ManagerCreateError reports that the manager could not be constructed
// because its display was unreachable.
type ManagerCreateError struct {
	Display string
	Err     error
}

func (e *ManagerCreateError) Error() string {
	return fmt.Sprintf("failed to create window manager: %v", e.Err)
}

func (e *ManagerCreateError) Unwrap() error {
	return e.Err
}

// Options configures New.
type Options struct {
	// Display is the display target; empty selects $DISPLAY.
	Display string
	Logger  *slog.Logger
}

// Status is a point-in-time summary of a Manager.
type Status struct {
	State   State
	Display string
	Clients int
	Started time.Time
}

// Manager owns the display connection, the client registry and the event loop.
type Manager struct {
	display Display
	root    xproto.Window
	logger  *slog.Logger
	clients *Registry
	state   atomic.Int32
	started time.Time
}

// New opens the display and returns a manager that has not yet claimed it.
func New(opts Options) (*Manager, error) {
	conn, err := x11.NewConnection(opts.Display)
	if err != nil {
		return nil, &ManagerCreateError{Display: x11.ResolveDisplay(opts.Display), Err: err}
	}
	return NewWithDisplay(conn, opts.Logger), nil
}

// NewWithDisplay returns a manager driving an already opened display.
func NewWithDisplay(display Display, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		display: display,
		root:    display.RootWindow(),
		logger:  logger,
		clients: NewRegistry(),
		started: time.Now(),
	}
}

// Close releases the display connection. It must be the last call made on m.
func (m *Manager) Close() {
	m.display.Close()
}

// State returns the current lifecycle stage.
func (m *Manager) State() State {
	return State(m.state.Load())
}

func (m *Manager) setState(s State) {
	m.state.Store(int32(s))
}

// Clients returns the managed clients ordered by window id.
func (m *Manager) Clients() []Client {
	return m.clients.Snapshot()
}

// Status summarizes the manager for status queries.
func (m *Manager) Status() Status {
	return Status{
		State:   m.State(),
		Display: m.display.DisplayName(),
		Clients: m.clients.Len(),
		Started: m.started,
	}
}

// Run claims the display, adopts existing windows and dispatches events until
// ctx is cancelled or the connection is closed. If another window manager
// already owns the root window, Run logs it and returns nil without managing
// anything; State then stays at StateProbingOwnership.
func (m *Manager) Run(ctx context.Context) error {
	if !m.takeOwnership() {
		m.logger.Error("another window manager is already running",
			"display", m.display.DisplayName())
		return nil
	}

	m.display.SetErrorHandler(m.onXError)

	if _, err := m.display.AnnounceManager(managerName); err != nil {
		m.logger.Warn("failed to announce EWMH support", "error", err)
	}

	if err := m.adoptExisting(); err != nil {
		m.setState(StateTerminated)
		return err
	}

	m.setState(StateActive)
	m.logger.Info("window manager active",
		"display", m.display.DisplayName(),
		"clients", m.clients.Len())

	woken := make(chan struct{})
	stop := context.AfterFunc(ctx, func() {
		defer close(woken)
		if err := m.display.Wake(); err != nil {
			m.logger.Warn("failed to wake event loop", "error", err)
		}
	})
	// Close must not race a Wake still in flight.
	defer func() {
		if !stop() {
			<-woken
		}
	}()

	for {
		if ctx.Err() != nil {
			m.setState(StateTerminated)
			m.logger.Info("window manager stopped")
			return nil
		}

		ev, err := m.display.NextEvent()
		if err != nil {
			m.setState(StateTerminated)
			if ctx.Err() != nil && errors.Is(err, x11.ErrClosed) {
				return nil
			}
			return fmt.Errorf("event loop: %w", err)
		}
		if m.display.IsWake(ev) {
			continue
		}
		m.dispatch(ev)
	}
}

// takeOwnership selects substructure redirection on root and reports whether
// the server granted it.
func (m *Manager) takeOwnership() bool {
	m.setState(StateProbingOwnership)

	probe := &ownershipProbe{logger: m.logger}
	m.display.SetErrorHandler(probe.onError)
	m.display.SelectInput(m.root, substructureMask)
	m.display.Sync()

	return !probe.denied
}

// ownershipProbe records whether the root event-mask selection was refused.
// It lives only for the duration of takeOwnership.
type ownershipProbe struct {
	denied bool
	logger *slog.Logger
}

func (p *ownershipProbe) onError(err xgb.Error) {
	if x11.IsAccessError(err) {
		p.denied = true
		return
	}
	code := x11.ErrorCode(err)
	p.logger.Warn("unexpected X error during ownership probe",
		"code", code,
		"text", x11.ErrorText(code),
		"sequence", err.SequenceId())
}

// onXError is the error handler while the manager is active. The failed
// request is dropped and execution continues.
func (m *Manager) onXError(err xgb.Error) {
	code := x11.ErrorCode(err)
	m.logger.Error("X request failed",
		"code", code,
		"text", x11.ErrorText(code),
		"bad_id", fmt.Sprintf("0x%x", err.BadId()),
		"sequence", err.SequenceId())
}

// adoptExisting frames the viewable, non-override-redirect top-level windows
// that were mapped before the manager started. The server is grabbed for the
// duration of the scan.
func (m *Manager) adoptExisting() error {
	m.display.Grab()
	defer m.display.Ungrab()

	tree, err := m.display.QueryTree(m.root)
	if err != nil {
		return fmt.Errorf("failed to query top-level windows: %w", err)
	}
	if tree.Root != m.root {
		return fmt.Errorf("query tree returned root %s, expected %s", hexID(tree.Root), hexID(m.root))
	}

	for _, win := range tree.Children {
		if err := m.Frame(win, true); err != nil {
			m.logger.Warn("failed to adopt window", "window", hexID(win), "error", err)
		}
	}

	m.logger.Info("adopted existing windows",
		"candidates", len(tree.Children),
		"framed", m.clients.Len())
	return nil
}

func (m *Manager) publishClients() {
	if err := m.display.SetClientList(m.clients.Windows()); err != nil {
		m.logger.Warn("failed to publish client list", "error", err)
	}
}

func hexID(win xproto.Window) string {
	return fmt.Sprintf("0x%x", uint32(win))
}
