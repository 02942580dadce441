package x11

import (
	"errors"
	"reflect"
	"testing"

	"github.com/BurntSushi/xgb/xproto"
)

func TestWindowChanges_ValueListFollowsMaskOrder(t *testing.T) {
	changes := WindowChanges{
		X:           10,
		Y:           20,
		Width:       300,
		Height:      200,
		BorderWidth: 2,
		Sibling:     0x200003,
		StackMode:   xproto.StackModeAbove,
	}

	tests := []struct {
		name string
		mask uint16
		want []uint32
	}{
		{
			name: "geometry",
			mask: xproto.ConfigWindowX | xproto.ConfigWindowY | xproto.ConfigWindowWidth |
				xproto.ConfigWindowHeight | xproto.ConfigWindowBorderWidth,
			want: []uint32{10, 20, 300, 200, 2},
		},
		{
			name: "size only",
			mask: xproto.ConfigWindowWidth | xproto.ConfigWindowHeight,
			want: []uint32{300, 200},
		},
		{
			name: "stacking",
			mask: xproto.ConfigWindowSibling | xproto.ConfigWindowStackMode,
			want: []uint32{0x200003, xproto.StackModeAbove},
		},
		{
			name: "empty",
			mask: 0,
			want: []uint32{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := changes.ValueList(tt.mask)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("ValueList(%#x) = %v, want %v", tt.mask, got, tt.want)
			}
		})
	}
}

func TestWindowChanges_NegativePositionIsSignExtended(t *testing.T) {
	changes := WindowChanges{X: -5, Y: -1}
	got := changes.ValueList(xproto.ConfigWindowX | xproto.ConfigWindowY)
	want := []uint32{0xfffffffb, 0xffffffff}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ValueList() = %#v, want %#v", got, want)
	}
}

func TestChangesFromRequest(t *testing.T) {
	ev := xproto.ConfigureRequestEvent{
		StackMode:   xproto.StackModeBelow,
		Window:      0x100,
		Sibling:     0x200,
		X:           1,
		Y:           2,
		Width:       3,
		Height:      4,
		BorderWidth: 5,
		ValueMask:   xproto.ConfigWindowX,
	}
	want := WindowChanges{X: 1, Y: 2, Width: 3, Height: 4, BorderWidth: 5, Sibling: 0x200, StackMode: xproto.StackModeBelow}
	if got := ChangesFromRequest(ev); got != want {
		t.Fatalf("ChangesFromRequest() = %+v, want %+v", got, want)
	}
}

func TestAttributes_Viewable(t *testing.T) {
	if !(Attributes{MapState: xproto.MapStateViewable}).Viewable() {
		t.Fatal("expected MapStateViewable to be viewable")
	}
	for _, state := range []byte{xproto.MapStateUnmapped, xproto.MapStateUnviewable} {
		if (Attributes{MapState: state}).Viewable() {
			t.Fatalf("expected map state %d not to be viewable", state)
		}
	}
}

func TestGeometry_String(t *testing.T) {
	g := Geometry{X: 5, Y: -3, Width: 640, Height: 480}
	if got := g.String(); got != "640x480+5+-3" {
		t.Fatalf("String() = %q", got)
	}
}

func TestConnectionError_ReportsTarget(t *testing.T) {
	err := &ConnectionError{Display: ":9", Err: errString("refused")}
	if got := err.Error(); got != `failed to open display ":9": refused` {
		t.Fatalf("Error() = %q", got)
	}

	unset := &ConnectionError{Err: errString("no display target set")}
	if got := unset.Error(); got != "failed to open display (unset): no display target set" {
		t.Fatalf("Error() = %q", got)
	}
}

func TestResolveDisplay(t *testing.T) {
	t.Setenv("DISPLAY", ":3")
	if got := ResolveDisplay(""); got != ":3" {
		t.Fatalf("ResolveDisplay(\"\") = %q, want :3", got)
	}
	if got := ResolveDisplay(":1"); got != ":1" {
		t.Fatalf("ResolveDisplay(:1) = %q, want :1", got)
	}
}

func TestNewConnection_NoDisplayTarget(t *testing.T) {
	t.Setenv("DISPLAY", "")
	_, err := NewConnection("")
	var connErr *ConnectionError
	if !errors.As(err, &connErr) {
		t.Fatalf("expected *ConnectionError, got %T (%v)", err, err)
	}
}

type errString string

func (e errString) Error() string { return string(e) }
