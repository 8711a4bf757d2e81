package hailoinfra

// Format identifies the pixel layout of a raw video frame.
//
// The set is closed: every format the decoder understands has a variant here
// and carvePlanes switches over all of them. Adding a format is a
// single-point change — one variant, one ParseFormat case, one carvePlanes
// case.
type Format int

const (
	// FormatUnknown is the zero value; DecodeFrame rejects it.
	FormatUnknown Format = iota
	// FormatRGB is a single plane of interleaved 8-bit R, G, B samples.
	FormatRGB
	// FormatNV12 is a full-resolution luma plane followed by a
	// half-resolution interleaved chroma plane (4:2:0 subsampling).
	FormatNV12
	// FormatYUYV is a single plane with two interleaved 8-bit samples per
	// pixel (packed 4:2:2).
	FormatYUYV
)

// String returns the GStreamer caps name for the format.
func (f Format) String() string {
	switch f {
	case FormatRGB:
		return "RGB"
	case FormatNV12:
		return "NV12"
	case FormatYUYV:
		return "YUYV"
	default:
		return "unknown"
	}
}

// ParseFormat maps a negotiated caps format string to a Format.
//
// Unknown strings are rejected with *UnsupportedFormatError so that a typo
// or an unexpected negotiation never silently decodes as something else.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "RGB":
		return FormatRGB, nil
	case "NV12":
		return FormatNV12, nil
	case "YUYV":
		return FormatYUYV, nil
	default:
		return FormatUnknown, &UnsupportedFormatError{Format: s}
	}
}

// FrameSize returns the number of bytes one frame of the given geometry
// occupies in this format, or 0 for unknown formats.
func (f Format) FrameSize(width, height int) int {
	switch f {
	case FormatRGB:
		return height * width * 3
	case FormatNV12:
		return height*width + (height/2)*(width/2)*2
	case FormatYUYV:
		return height * width * 2
	default:
		return 0
	}
}
