package hailoinfra

import (
	"flag"
	"fmt"
)

// Options is the flag surface shared by the inference demo apps.
type Options struct {
	// Input selects the video source: a file path, "usb" (auto-detected
	// webcam), "/dev/video<X>", or "rpi" for the CSI camera module. Empty
	// means the application-specific default video.
	Input string
	// UseFrame hands decoded frames to the callback function.
	UseFrame bool
	// ShowFPS enables periodic frame-rate reporting on the sink.
	ShowFPS bool
	// Arch overrides accelerator auto-detection ("hailo8" or "hailo8l").
	Arch string
	// HEFPath points at the compiled network file.
	HEFPath string
	// DisableSync lets the sink run as fast as possible (file sources).
	DisableSync bool
	// DisableCallback runs the pipeline without invoking the callback logic.
	DisableCallback bool
	// DumpDot dumps the pipeline graph to a dot file.
	DumpDot bool
}

// RegisterFlags declares the demo-app flags on fs. Short aliases share the
// destination of their long form, so either spelling wins last.
func (o *Options) RegisterFlags(fs *flag.FlagSet) {
	const inputUsage = "Input source: file path, 'usb' (auto-detect webcam), '/dev/video<X>', or 'rpi' (CSI camera module). Defaults to the application-specific video."
	fs.StringVar(&o.Input, "input", "", inputUsage)
	fs.StringVar(&o.Input, "i", "", inputUsage+" (shorthand)")

	const useFrameUsage = "Use frame from the callback function"
	fs.BoolVar(&o.UseFrame, "use-frame", false, useFrameUsage)
	fs.BoolVar(&o.UseFrame, "u", false, useFrameUsage+" (shorthand)")

	const showFPSUsage = "Print FPS on sink"
	fs.BoolVar(&o.ShowFPS, "show-fps", false, showFPSUsage)
	fs.BoolVar(&o.ShowFPS, "f", false, showFPSUsage+" (shorthand)")

	fs.StringVar(&o.Arch, "arch", "", "Hailo architecture (hailo8 or hailo8l); empty runs auto-detection")
	fs.StringVar(&o.HEFPath, "hef-path", "", "Path to HEF file")
	fs.BoolVar(&o.DisableSync, "disable-sync", false, "Disable display sink sync; runs as fast as possible (file sources)")
	fs.BoolVar(&o.DisableCallback, "disable-callback", false, "Run the pipeline without invoking the user callback logic")
	fs.BoolVar(&o.DumpDot, "dump-dot", false, "Dump the pipeline graph to a dot file")
}

// Validate checks post-parse constraints that flag itself cannot express.
func (o *Options) Validate() error {
	if o.Arch != "" {
		if _, ok := ParseHailoArch(o.Arch); !ok {
			return fmt.Errorf("hailoinfra: invalid --arch %q (must be hailo8 or hailo8l)", o.Arch)
		}
	}
	return nil
}
