package hailoinfra

import (
	"github.com/tinyzimmer/go-gst/gst"
)

// VideoCaps is the format/geometry triple negotiated on a pad.
type VideoCaps struct {
	Format string
	Width  int
	Height int
}

// CapsFromPad extracts the negotiated video caps from a pad.
//
// ok is false when the pad has no current caps or the first caps structure
// does not carry format, width and height — typically because negotiation
// has not completed yet.
func CapsFromPad(pad *gst.Pad) (VideoCaps, bool) {
	caps := pad.GetCurrentCaps()
	if caps == nil || caps.GetSize() == 0 {
		return VideoCaps{}, false
	}

	structure := caps.GetStructureAt(0)
	if structure == nil {
		return VideoCaps{}, false
	}

	var vc VideoCaps
	if val, err := structure.GetValue("format"); err == nil {
		if s, ok := val.(string); ok {
			vc.Format = s
		}
	}
	if val, err := structure.GetValue("width"); err == nil {
		if w, ok := val.(int); ok {
			vc.Width = w
		}
	}
	if val, err := structure.GetValue("height"); err == nil {
		if h, ok := val.(int); ok {
			vc.Height = h
		}
	}

	if vc.Format == "" || vc.Width == 0 || vc.Height == 0 {
		return vc, false
	}
	return vc, true
}
