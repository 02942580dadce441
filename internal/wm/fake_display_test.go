package wm

import (
	"sync"

	"github.com/1broseidon/framewm/internal/x11"
	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
)

const testRoot xproto.Window = 0x100

// call is one recorded protocol request.
type call struct {
	op      string
	win     xproto.Window
	target  xproto.Window
	mask    uint32
	changes x11.WindowChanges
}

type fakeWindow struct {
	parent xproto.Window
	attrs  x11.Attributes
	border int
}

// fakeDisplay models just enough of an X server for the manager: a window
// tree with attributes, a save-set, an event queue and an error handler.
type fakeDisplay struct {
	mu sync.Mutex

	windows    map[xproto.Window]*fakeWindow
	topLevel   []xproto.Window
	saveSet    map[xproto.Window]bool
	nextID     xproto.Window
	calls      []call
	events     []xgb.Event
	handler    x11.ErrorHandler
	clientList []xproto.Window
	treeRoot   xproto.Window
	closed     int
	announced  string

	// probeError is reported to the error handler on the first Sync after
	// root's event mask is selected.
	probeError   xgb.Error
	probePending bool
}

func newFakeDisplay() *fakeDisplay {
	return &fakeDisplay{
		windows:  map[xproto.Window]*fakeWindow{testRoot: {}},
		saveSet:  map[xproto.Window]bool{},
		nextID:   0x800000,
		treeRoot: testRoot,
	}
}

// addTopLevel registers a window under root as if it existed before the manager.
func (d *fakeDisplay) addTopLevel(win xproto.Window, attrs x11.Attributes) {
	d.windows[win] = &fakeWindow{parent: testRoot, attrs: attrs}
	d.topLevel = append(d.topLevel, win)
}

// addClient registers a window a client just created under root.
func (d *fakeDisplay) addClient(win xproto.Window, geom x11.Geometry) {
	d.windows[win] = &fakeWindow{parent: testRoot, attrs: x11.Attributes{Geometry: geom, MapState: xproto.MapStateUnmapped}}
}

func (d *fakeDisplay) queue(events ...xgb.Event) {
	d.events = append(d.events, events...)
}

func (d *fakeDisplay) record(c call) {
	d.calls = append(d.calls, c)
}

func (d *fakeDisplay) resetCalls() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = nil
}

func (d *fakeDisplay) callsOf(op string) []call {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []call
	for _, c := range d.calls {
		if c.op == op {
			out = append(out, c)
		}
	}
	return out
}

func (d *fakeDisplay) parentOf(win xproto.Window) xproto.Window {
	d.mu.Lock()
	defer d.mu.Unlock()
	if w, ok := d.windows[win]; ok {
		return w.parent
	}
	return 0
}

func (d *fakeDisplay) RootWindow() xproto.Window { return testRoot }
func (d *fakeDisplay) DisplayName() string       { return ":99" }

func (d *fakeDisplay) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed++
}

func (d *fakeDisplay) CreateSimpleWindow(parent xproto.Window, geom x11.Geometry, borderWidth int, border, background uint32) (xproto.Window, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nextID++
	id := d.nextID
	d.windows[id] = &fakeWindow{
		parent: parent,
		attrs:  x11.Attributes{Geometry: geom, MapState: xproto.MapStateUnmapped},
		border: borderWidth,
	}
	d.record(call{op: "create", win: id, target: parent})
	return id, nil
}

func (d *fakeDisplay) DestroyWindow(win xproto.Window) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.windows, win)
	d.record(call{op: "destroy", win: win})
}

func (d *fakeDisplay) MapWindow(win xproto.Window) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if w, ok := d.windows[win]; ok {
		w.attrs.MapState = xproto.MapStateViewable
	}
	d.record(call{op: "map", win: win})
}

func (d *fakeDisplay) UnmapWindow(win xproto.Window) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if w, ok := d.windows[win]; ok {
		w.attrs.MapState = xproto.MapStateUnmapped
	}
	d.record(call{op: "unmap", win: win})
}

func (d *fakeDisplay) ReparentWindow(win, parent xproto.Window, x, y int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if w, ok := d.windows[win]; ok {
		w.parent = parent
		w.attrs.X, w.attrs.Y = x, y
	}
	d.record(call{op: "reparent", win: win, target: parent})
}

func (d *fakeDisplay) ConfigureWindow(win xproto.Window, mask uint16, changes x11.WindowChanges) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record(call{op: "configure", win: win, mask: uint32(mask), changes: changes})
}

func (d *fakeDisplay) AddToSaveSet(win xproto.Window) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.saveSet[win] = true
	d.record(call{op: "saveset-add", win: win})
}

func (d *fakeDisplay) RemoveFromSaveSet(win xproto.Window) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.saveSet, win)
	d.record(call{op: "saveset-remove", win: win})
}

func (d *fakeDisplay) WindowAttributes(win xproto.Window) (x11.Attributes, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record(call{op: "attributes", win: win})
	w, ok := d.windows[win]
	if !ok {
		return x11.Attributes{}, xproto.WindowError{NiceName: "Window", BadValue: uint32(win)}
	}
	return w.attrs, nil
}

func (d *fakeDisplay) QueryTree(win xproto.Window) (x11.Tree, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record(call{op: "query-tree", win: win})
	children := append([]xproto.Window(nil), d.topLevel...)
	return x11.Tree{Root: d.treeRoot, Children: children}, nil
}

func (d *fakeDisplay) SelectInput(win xproto.Window, mask uint32) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if win == testRoot && d.probeError != nil {
		d.probePending = true
	}
	d.record(call{op: "select-input", win: win, mask: mask})
}

func (d *fakeDisplay) SetErrorHandler(handler x11.ErrorHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handler = handler
}

func (d *fakeDisplay) Sync() {
	d.mu.Lock()
	pending := d.probePending
	d.probePending = false
	handler := d.handler
	err := d.probeError
	d.mu.Unlock()

	if pending && handler != nil {
		handler(err)
	}
}

func (d *fakeDisplay) Grab() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record(call{op: "grab"})
}

func (d *fakeDisplay) Ungrab() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record(call{op: "ungrab"})
}

// NextEvent pops queued events and reports a closed connection once the
// queue is empty.
func (d *fakeDisplay) NextEvent() (xgb.Event, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.events) == 0 {
		return nil, x11.ErrClosed
	}
	ev := d.events[0]
	d.events = d.events[1:]
	return ev, nil
}

var fakeWakeAtom xproto.Atom = 0x999

func (d *fakeDisplay) Wake() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, xproto.ClientMessageEvent{Window: testRoot, Type: fakeWakeAtom})
	return nil
}

func (d *fakeDisplay) IsWake(ev xgb.Event) bool {
	msg, ok := ev.(xproto.ClientMessageEvent)
	return ok && msg.Type == fakeWakeAtom
}

func (d *fakeDisplay) WindowName(win xproto.Window) string { return "test-window" }

func (d *fakeDisplay) SetClientList(clients []xproto.Window) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.clientList = append([]xproto.Window(nil), clients...)
	return nil
}

func (d *fakeDisplay) AnnounceManager(name string) (xproto.Window, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nextID++
	id := d.nextID
	d.windows[id] = &fakeWindow{parent: testRoot, attrs: x11.Attributes{MapState: xproto.MapStateUnmapped}}
	d.topLevel = append(d.topLevel, id)
	d.announced = name
	d.record(call{op: "announce", win: id})
	return id, nil
}

func (d *fakeDisplay) publishedClients() []xproto.Window {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]xproto.Window(nil), d.clientList...)
}
