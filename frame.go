package hailoinfra

import (
	"github.com/tinyzimmer/go-gst/gst"
)

// Buffer is the scoped read mapping a frame source must expose.
//
// Map acquires a read-only view of the frame memory; the view is valid only
// until Unmap. The mapping discipline is not reentrant for a single buffer:
// callers must not map the same buffer concurrently.
type Buffer interface {
	// Map acquires the read mapping. ok is false when the mapping could not
	// be acquired; in that case no view exists and Unmap must not be called.
	Map() (data []byte, ok bool)
	// Unmap releases the mapping acquired by Map.
	Unmap()
}

// gstBuffer adapts a GStreamer buffer to the Buffer interface.
type gstBuffer struct {
	buf *gst.Buffer
}

// WrapBuffer exposes a GStreamer buffer as a Buffer for DecodeFrame.
func WrapBuffer(buf *gst.Buffer) Buffer {
	return gstBuffer{buf: buf}
}

func (b gstBuffer) Map() ([]byte, bool) {
	mapInfo := b.buf.Map(gst.MapRead)
	if mapInfo == nil {
		return nil, false
	}
	data := mapInfo.Bytes()
	if len(data) == 0 {
		// A mapping with no bytes is useless to the decoder. Release it here
		// so the caller sees a plain mapping failure.
		b.buf.Unmap()
		return nil, false
	}
	return data, true
}

func (b gstBuffer) Unmap() {
	b.buf.Unmap()
}

// Plane is one component plane of a decoded frame. Data is an owned copy and
// stays valid after the source buffer is unmapped or reused.
type Plane struct {
	Data     []byte
	Rows     int
	Cols     int
	Channels int
}

// At returns the sample at (row, col, ch). Row-major, channels interleaved.
func (p Plane) At(row, col, ch int) byte {
	return p.Data[(row*p.Cols+col)*p.Channels+ch]
}

// Size returns the byte length implied by the plane's shape.
func (p Plane) Size() int {
	return p.Rows * p.Cols * p.Channels
}

// DecodedFrame is the result of DecodeFrame: one plane for the packed
// formats, luma then chroma for NV12.
type DecodedFrame struct {
	Format Format
	Width  int
	Height int
	Planes []Plane
}

// DecodeFrame maps buf for read and reinterprets its bytes as the plane
// layout implied by (f, width, height).
//
// The returned planes are deep copies taken before the mapping is released,
// so they are unaffected by later reuse of the source memory. The mapping is
// released on every exit path after a successful Map; when Map itself fails
// (ErrBufferMap) no mapping exists and Unmap is never called.
//
// DecodeFrame is stateless and safe for concurrent use as long as no two
// calls share a buffer.
func DecodeFrame(buf Buffer, f Format, width, height int) (DecodedFrame, error) {
	data, ok := buf.Map()
	if !ok {
		return DecodedFrame{}, ErrBufferMap
	}
	defer buf.Unmap()

	views, err := carvePlanes(data, f, width, height)
	if err != nil {
		return DecodedFrame{}, err
	}

	// Copy out at the scope boundary, not inside the handlers: every plane,
	// present and future, gets detached from the mapped memory here.
	planes := make([]Plane, len(views))
	for i, v := range views {
		owned := make([]byte, len(v.Data))
		copy(owned, v.Data)
		planes[i] = Plane{Data: owned, Rows: v.Rows, Cols: v.Cols, Channels: v.Channels}
	}

	return DecodedFrame{Format: f, Width: width, Height: height, Planes: planes}, nil
}

// carvePlanes slices the mapped region into per-plane views. The returned
// planes borrow data; DecodeFrame copies them before the mapping is
// released.
func carvePlanes(data []byte, f Format, width, height int) ([]Plane, error) {
	need := f.FrameSize(width, height)
	if len(data) < need {
		return nil, &BufferTooSmallError{Format: f, Need: need, Got: len(data)}
	}

	switch f {
	case FormatRGB:
		return []Plane{
			{Data: data[:need], Rows: height, Cols: width, Channels: 3},
		}, nil

	case FormatNV12:
		lumaSize := height * width
		chromaSize := (height / 2) * (width / 2) * 2
		return []Plane{
			{Data: data[:lumaSize], Rows: height, Cols: width, Channels: 1},
			{Data: data[lumaSize : lumaSize+chromaSize], Rows: height / 2, Cols: width / 2, Channels: 2},
		}, nil

	case FormatYUYV:
		return []Plane{
			{Data: data[:need], Rows: height, Cols: width, Channels: 2},
		}, nil

	default:
		return nil, &UnsupportedFormatError{Format: f.String()}
	}
}
