// Package hailoinfra is the shared utility layer for the Hailo GStreamer
// inference demo applications.
//
// It covers the glue every demo needs and nothing a demo should reimplement:
//
//   - Decoding raw GStreamer frame buffers into owned per-plane byte arrays
//     keyed by pixel format (RGB, NV12, YUYV)
//   - Reading the negotiated format/width/height from a pad
//   - Detecting the host CPU family and the attached Hailo accelerator
//     variant (hailo8 vs hailo8l)
//   - The common demo-app flag set (--input, --show-fps, --arch, ...)
//   - Standard resource directory scaffolding, .env environment setup and
//     manifest-driven resource downloads
//   - A minimal pipeline runner that feeds decoded frames to a callback
//
// # Decoding frames
//
// The decoder borrows the buffer for the duration of one call and always
// releases the mapping, including on error paths. Returned planes are deep
// copies: they stay valid after GStreamer reuses the buffer.
//
//	frame, err := hailoinfra.DecodeFrame(
//	    hailoinfra.WrapBuffer(sample.GetBuffer()),
//	    hailoinfra.FormatNV12, width, height,
//	)
//	if err != nil {
//	    // ErrBufferMap, *UnsupportedFormatError or *BufferTooSmallError
//	}
//	luma, chroma := frame.Planes[0], frame.Planes[1]
//
// # Host detection
//
// Probes shell out to hailortcli and dpkg. They never fail hard: each result
// carries a ProbeOutcome so callers can distinguish "tool not installed"
// from "device answered" and fall back to --arch or configuration.
//
// DecodeFrame is stateless and safe to call concurrently as long as no two
// calls map the same buffer. Everything else in the package is either pure
// or a synchronous one-shot helper.
package hailoinfra
