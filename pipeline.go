package hailoinfra

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/tinyzimmer/go-gst/gst"
	"github.com/tinyzimmer/go-gst/gst/app"
)

// SourceKind classifies the --input flag value.
type SourceKind int

const (
	// SourceTest renders the GStreamer test pattern (no input given).
	SourceTest SourceKind = iota
	// SourceRPi captures from the CSI camera module via libcamera.
	SourceRPi
	// SourceUSB captures from a V4L2 device.
	SourceUSB
	// SourceFile plays a media file through decodebin.
	SourceFile
)

func (k SourceKind) String() string {
	switch k {
	case SourceTest:
		return "test"
	case SourceRPi:
		return "rpi"
	case SourceUSB:
		return "usb"
	case SourceFile:
		return "file"
	default:
		return "unknown"
	}
}

// ClassifySource maps an --input value to a SourceKind and the concrete
// device or path it refers to.
func ClassifySource(input string) (SourceKind, string) {
	switch {
	case input == "" || input == "test":
		return SourceTest, ""
	case input == "rpi":
		return SourceRPi, ""
	case input == "usb":
		return SourceUSB, "/dev/video0"
	case strings.HasPrefix(input, "/dev/video"):
		return SourceUSB, input
	default:
		return SourceFile, input
	}
}

// PipelineConfig describes the demo capture pipeline.
type PipelineConfig struct {
	Input  string
	Width  int
	Height int
	Format Format
	// Sync makes the sink honor buffer timestamps (disable for file sources
	// that should run as fast as possible).
	Sync bool
}

// pipelineElements holds the element references the app needs after build.
type pipelineElements struct {
	pipeline *gst.Pipeline
	appSink  *app.Sink
	source   *gst.Element
	kind     SourceKind
}

// buildPipeline assembles source → videoconvert → videoscale → capsfilter →
// appsink. File sources insert decodebin, whose src pads appear dynamically
// and get linked in a pad-added callback.
//
// The pipeline is configured but not started (state remains NULL).
func buildPipeline(cfg PipelineConfig) (*pipelineElements, error) {
	// Initialize GStreamer (safe to call multiple times)
	gst.Init(nil)

	pipeline, err := gst.NewPipeline("")
	if err != nil {
		return nil, fmt.Errorf("hailoinfra: failed to create pipeline: %w", err)
	}

	kind, target := ClassifySource(cfg.Input)

	var source, decode *gst.Element
	switch kind {
	case SourceTest:
		source, err = gst.NewElement("videotestsrc")
		if err != nil {
			return nil, fmt.Errorf("hailoinfra: failed to create videotestsrc: %w", err)
		}
		source.SetProperty("is-live", true)

	case SourceRPi:
		source, err = gst.NewElement("libcamerasrc")
		if err != nil {
			return nil, fmt.Errorf("hailoinfra: failed to create libcamerasrc: %w", err)
		}

	case SourceUSB:
		source, err = gst.NewElement("v4l2src")
		if err != nil {
			return nil, fmt.Errorf("hailoinfra: failed to create v4l2src: %w", err)
		}
		source.SetProperty("device", target)

	case SourceFile:
		source, err = gst.NewElement("filesrc")
		if err != nil {
			return nil, fmt.Errorf("hailoinfra: failed to create filesrc: %w", err)
		}
		source.SetProperty("location", target)

		decode, err = gst.NewElement("decodebin")
		if err != nil {
			return nil, fmt.Errorf("hailoinfra: failed to create decodebin: %w", err)
		}
	}

	converter, err := gst.NewElement("videoconvert")
	if err != nil {
		return nil, fmt.Errorf("hailoinfra: failed to create videoconvert: %w", err)
	}

	scaler, err := gst.NewElement("videoscale")
	if err != nil {
		return nil, fmt.Errorf("hailoinfra: failed to create videoscale: %w", err)
	}

	capsfilter, err := gst.NewElement("capsfilter")
	if err != nil {
		return nil, fmt.Errorf("hailoinfra: failed to create capsfilter: %w", err)
	}
	capsfilter.SetProperty("caps", gst.NewCapsFromString(buildVideoCaps(cfg.Format, cfg.Width, cfg.Height)))

	appsink, err := app.NewAppSink()
	if err != nil {
		return nil, fmt.Errorf("hailoinfra: failed to create appsink: %w", err)
	}
	appsink.SetProperty("sync", cfg.Sync)
	appsink.SetProperty("max-buffers", 1) // Keep only latest frame
	appsink.SetProperty("drop", true)     // Drop old frames

	if decode != nil {
		pipeline.AddMany(source, decode, converter, scaler, capsfilter, appsink.Element)
		if err := gst.ElementLinkMany(source, decode); err != nil {
			return nil, fmt.Errorf("hailoinfra: failed to link filesrc to decodebin: %w", err)
		}
		if err := gst.ElementLinkMany(converter, scaler, capsfilter, appsink.Element); err != nil {
			return nil, fmt.Errorf("hailoinfra: failed to link pipeline elements: %w", err)
		}
		// decodebin pads appear after preroll; link video pads to the
		// converter as they show up.
		decode.Connect("pad-added", func(self *gst.Element, srcPad *gst.Pad) {
			onDecodePadAdded(srcPad, converter)
		})
	} else {
		pipeline.AddMany(source, converter, scaler, capsfilter, appsink.Element)
		if err := gst.ElementLinkMany(source, converter, scaler, capsfilter, appsink.Element); err != nil {
			return nil, fmt.Errorf("hailoinfra: failed to link pipeline elements: %w", err)
		}
	}

	return &pipelineElements{
		pipeline: pipeline,
		appSink:  appsink,
		source:   source,
		kind:     kind,
	}, nil
}

// onDecodePadAdded links a new decodebin src pad to the converter.
//
// decodebin also exposes audio pads for files with sound; those fail the
// link against videoconvert and are skipped.
func onDecodePadAdded(srcPad *gst.Pad, converter *gst.Element) {
	sinkPad := converter.GetStaticPad("sink")
	if sinkPad == nil {
		slog.Error("hailoinfra: failed to get sink pad from videoconvert")
		return
	}
	if ret := srcPad.Link(sinkPad); ret != gst.PadLinkOK {
		slog.Debug("hailoinfra: decodebin pad not linked",
			"src_pad", srcPad.GetName(),
			"ret", ret,
		)
		return
	}
	slog.Debug("hailoinfra: decodebin pad linked", "src_pad", srcPad.GetName())
}

// buildVideoCaps builds the raw-video caps string the appsink negotiates.
func buildVideoCaps(f Format, width, height int) string {
	return fmt.Sprintf("video/x-raw,format=%s,width=%d,height=%d", f, width, height)
}
