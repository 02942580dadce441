package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
)

// errorTexts mirrors the descriptions Xlib's XGetErrorText gives core errors.
var errorTexts = map[int]string{
	xproto.BadRequest:        "BadRequest (invalid request code or no such operation)",
	xproto.BadValue:          "BadValue (integer parameter out of range for operation)",
	xproto.BadWindow:         "BadWindow (invalid Window parameter)",
	xproto.BadPixmap:         "BadPixmap (invalid Pixmap parameter)",
	xproto.BadAtom:           "BadAtom (invalid Atom parameter)",
	xproto.BadCursor:         "BadCursor (invalid Cursor parameter)",
	xproto.BadFont:           "BadFont (invalid Font parameter)",
	xproto.BadMatch:          "BadMatch (invalid parameter attributes)",
	xproto.BadDrawable:       "BadDrawable (invalid Pixmap or Window parameter)",
	xproto.BadAccess:         "BadAccess (attempt to access private resource denied)",
	xproto.BadAlloc:          "BadAlloc (insufficient resources for operation)",
	xproto.BadColormap:       "BadColor (invalid Colormap parameter)",
	xproto.BadGContext:       "BadGC (invalid GC parameter)",
	xproto.BadIDChoice:       "BadIDChoice (invalid resource ID chosen for this connection)",
	xproto.BadName:           "BadName (named color or font does not exist)",
	xproto.BadLength:         "BadLength (poly request too large or internal Xlib length error)",
	xproto.BadImplementation: "BadImplementation (server does not implement operation)",
}

// ErrorCode returns the core protocol error number of err, or 0 when err is
// not a core protocol error (for example an extension error).
func ErrorCode(err xgb.Error) int {
	switch err.(type) {
	case xproto.RequestError:
		return xproto.BadRequest
	case xproto.ValueError:
		return xproto.BadValue
	case xproto.WindowError:
		return xproto.BadWindow
	case xproto.PixmapError:
		return xproto.BadPixmap
	case xproto.AtomError:
		return xproto.BadAtom
	case xproto.CursorError:
		return xproto.BadCursor
	case xproto.FontError:
		return xproto.BadFont
	case xproto.MatchError:
		return xproto.BadMatch
	case xproto.DrawableError:
		return xproto.BadDrawable
	case xproto.AccessError:
		return xproto.BadAccess
	case xproto.AllocError:
		return xproto.BadAlloc
	case xproto.ColormapError:
		return xproto.BadColormap
	case xproto.GContextError:
		return xproto.BadGContext
	case xproto.IDChoiceError:
		return xproto.BadIDChoice
	case xproto.NameError:
		return xproto.BadName
	case xproto.LengthError:
		return xproto.BadLength
	case xproto.ImplementationError:
		return xproto.BadImplementation
	default:
		return 0
	}
}

// ErrorText returns a human-readable description of a core error number.
func ErrorText(code int) string {
	if text, ok := errorTexts[code]; ok {
		return text
	}
	return fmt.Sprintf("unknown error code %d", code)
}

// IsAccessError reports whether err is a BadAccess error, the error the server
// sends when another client already selected SubstructureRedirect on a window.
func IsAccessError(err xgb.Error) bool {
	return ErrorCode(err) == xproto.BadAccess
}
