package wm

import (
	"sort"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
)

// Client pairs a managed client window with the frame that contains it.
type Client struct {
	Window xproto.Window
	Frame  xproto.Window
}

// Registry maps each managed client window to its frame. Only Frame and
// Unframe mutate it; the lock exists so status readers on other goroutines
// see a consistent view.
type Registry struct {
	mu     sync.RWMutex
	frames map[xproto.Window]xproto.Window
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{frames: make(map[xproto.Window]xproto.Window)}
}

func (r *Registry) add(client, frame xproto.Window) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames[client] = frame
}

func (r *Registry) remove(client xproto.Window) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.frames, client)
}

// Frame returns the frame of client and whether client is managed.
func (r *Registry) Frame(client xproto.Window) (xproto.Window, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	frame, ok := r.frames[client]
	return frame, ok
}

// Len returns the number of managed clients.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.frames)
}

// Snapshot returns every managed client ordered by window id.
func (r *Registry) Snapshot() []Client {
	r.mu.RLock()
	clients := make([]Client, 0, len(r.frames))
	for client, frame := range r.frames {
		clients = append(clients, Client{Window: client, Frame: frame})
	}
	r.mu.RUnlock()

	sort.Slice(clients, func(i, j int) bool {
		return clients[i].Window < clients[j].Window
	})
	return clients
}

// Windows returns the managed client windows ordered by window id.
func (r *Registry) Windows() []xproto.Window {
	snapshot := r.Snapshot()
	windows := make([]xproto.Window, len(snapshot))
	for i, c := range snapshot {
		windows[i] = c.Window
	}
	return windows
}
