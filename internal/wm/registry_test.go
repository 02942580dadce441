package wm

import (
	"reflect"
	"testing"

	"github.com/BurntSushi/xgb/xproto"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	if r.Len() != 0 {
		t.Fatalf("new registry has %d entries", r.Len())
	}

	r.add(0x30, 0x31)
	r.add(0x10, 0x11)
	r.add(0x20, 0x21)

	if frame, ok := r.Frame(0x10); !ok || frame != 0x11 {
		t.Errorf("Frame(0x10) = 0x%x, %v; want 0x11, true", frame, ok)
	}
	if _, ok := r.Frame(0x11); ok {
		t.Errorf("frames must not be looked up as clients")
	}

	want := []Client{{0x10, 0x11}, {0x20, 0x21}, {0x30, 0x31}}
	if got := r.Snapshot(); !reflect.DeepEqual(got, want) {
		t.Errorf("Snapshot() = %+v, want %+v", got, want)
	}

	r.remove(0x20)
	r.remove(0x99)

	if got, want := r.Windows(), []xproto.Window{0x10, 0x30}; !reflect.DeepEqual(got, want) {
		t.Errorf("Windows() = %v, want %v", got, want)
	}
	if r.Len() != 2 {
		t.Errorf("Len() = %d, want 2", r.Len())
	}
}

func TestRegistry_SnapshotIsACopy(t *testing.T) {
	r := NewRegistry()
	r.add(0x10, 0x11)

	snap := r.Snapshot()
	snap[0].Frame = 0x99

	if frame, _ := r.Frame(0x10); frame != 0x11 {
		t.Errorf("mutating a snapshot changed the registry: frame = 0x%x", frame)
	}
}
