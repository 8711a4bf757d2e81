package hailoinfra

import (
	"errors"
	"fmt"
)

// ErrBufferMap reports that mapping a frame buffer for read failed. No
// mapping exists when this is returned, so Unmap is never called.
var ErrBufferMap = errors.New("hailoinfra: buffer mapping failed")

// UnsupportedFormatError reports a pixel format the decoder has no handler
// for. Format carries the offending identifier.
type UnsupportedFormatError struct {
	Format string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("hailoinfra: unsupported format: %s", e.Format)
}

// BufferTooSmallError reports a mapped buffer shorter than the byte budget
// implied by the declared format and geometry. Decoding a truncated buffer
// would feed garbage to inference, so it is rejected up front.
type BufferTooSmallError struct {
	Format Format
	Need   int
	Got    int
}

func (e *BufferTooSmallError) Error() string {
	return fmt.Sprintf("hailoinfra: %s buffer too small: need %d bytes, got %d", e.Format, e.Need, e.Got)
}
