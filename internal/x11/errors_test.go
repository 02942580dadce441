package x11

import (
	"strings"
	"testing"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
)

func TestErrorCode_CoreErrors(t *testing.T) {
	tests := []struct {
		name string
		err  xgb.Error
		want int
	}{
		{name: "access", err: xproto.AccessError{NiceName: "Access"}, want: xproto.BadAccess},
		{name: "window", err: xproto.WindowError{NiceName: "Window", BadValue: 0x400001}, want: xproto.BadWindow},
		{name: "match", err: xproto.MatchError{NiceName: "Match"}, want: xproto.BadMatch},
		{name: "value", err: xproto.ValueError{NiceName: "Value"}, want: xproto.BadValue},
		{name: "drawable", err: xproto.DrawableError{NiceName: "Drawable"}, want: xproto.BadDrawable},
		{name: "implementation", err: xproto.ImplementationError{NiceName: "Implementation"}, want: xproto.BadImplementation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ErrorCode(tt.err); got != tt.want {
				t.Fatalf("ErrorCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestErrorText(t *testing.T) {
	if got := ErrorText(xproto.BadAccess); !strings.HasPrefix(got, "BadAccess") {
		t.Fatalf("ErrorText(BadAccess) = %q", got)
	}
	if got := ErrorText(xproto.BadWindow); !strings.Contains(got, "invalid Window parameter") {
		t.Fatalf("ErrorText(BadWindow) = %q", got)
	}
	if got := ErrorText(200); got != "unknown error code 200" {
		t.Fatalf("ErrorText(200) = %q", got)
	}
}

func TestIsAccessError(t *testing.T) {
	if !IsAccessError(xproto.AccessError{}) {
		t.Fatal("expected AccessError to be reported as access error")
	}
	if IsAccessError(xproto.WindowError{}) {
		t.Fatal("expected WindowError not to be reported as access error")
	}
}
