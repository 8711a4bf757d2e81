package hailoinfra

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/tinyzimmer/go-gst/gst"
	"github.com/tinyzimmer/go-gst/gst/app"
)

// FrameMeta describes one decoded frame delivered to the callback.
type FrameMeta struct {
	// Seq is the monotonic frame sequence number.
	Seq uint64
	// Timestamp is when the frame was decoded.
	Timestamp time.Time
	// TraceID is a unique identifier for tracing a frame through the demo.
	TraceID string
}

// FrameCallback receives decoded frames from the pipeline.
type FrameCallback func(frame DecodedFrame, meta FrameMeta)

// AppConfig configures the demo pipeline runner.
type AppConfig struct {
	Options Options
	// Width and Height of the frames handed to the callback.
	Width  int
	Height int
	// Format the capsfilter negotiates towards the appsink.
	Format Format
	// OnFrame is invoked for every decoded frame unless
	// Options.DisableCallback is set.
	OnFrame FrameCallback
	// DotDir receives pipeline graph dumps when Options.DumpDot is set.
	// Defaults to the working directory.
	DotDir string
}

// App drives a capture pipeline and hands decoded frames to a callback. It
// is the scaffolding shared by the inference demos; the demos insert their
// inference elements between source and sink.
type App struct {
	cfg      AppConfig
	elements *pipelineElements

	mu         sync.Mutex
	cancel     context.CancelFunc
	frameTimes []time.Time // only collected when ShowFPS is set

	// Statistics (atomic for thread-safety)
	frameCount   uint64
	decodeFailed uint64

	started time.Time
}

// AppStats is a snapshot of the runner's counters.
type AppStats struct {
	// Frames is the number of frames decoded and delivered.
	Frames uint64
	// DecodeFailed is the number of frames skipped because decoding failed.
	DecodeFailed uint64
	// Uptime is the time since Run started.
	Uptime time.Duration
}

// NewApp validates cfg and assembles the pipeline. Fail-fast: configuration
// errors surface here, before anything starts. The pipeline stays in NULL
// state until Run.
func NewApp(cfg AppConfig) (*App, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("hailoinfra: invalid frame geometry %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.Format == FormatUnknown {
		return nil, &UnsupportedFormatError{Format: cfg.Format.String()}
	}
	if err := cfg.Options.Validate(); err != nil {
		return nil, err
	}

	if cfg.Options.DumpDot {
		dotDir := cfg.DotDir
		if dotDir == "" {
			dotDir = "."
		}
		// GStreamer reads this at init time and dumps the graph on state
		// changes, so it must be set before the pipeline is built.
		os.Setenv("GST_DEBUG_DUMP_DOT_DIR", dotDir)
	}

	elements, err := buildPipeline(PipelineConfig{
		Input:  cfg.Options.Input,
		Width:  cfg.Width,
		Height: cfg.Height,
		Format: cfg.Format,
		Sync:   !cfg.Options.DisableSync,
	})
	if err != nil {
		return nil, err
	}

	a := &App{cfg: cfg, elements: elements}
	elements.appSink.SetCallbacks(&app.SinkCallbacks{
		NewSampleFunc: a.onNewSample,
	})
	return a, nil
}

// onNewSample pulls the next sample from the appsink, decodes it and hands
// it to the user callback. A single bad frame never terminates the stream.
func (a *App) onNewSample(sink *app.Sink) gst.FlowReturn {
	sample := sink.PullSample()
	if sample == nil {
		slog.Warn("hailoinfra: failed to pull sample from appsink, skipping frame")
		return gst.FlowOK
	}

	buffer := sample.GetBuffer()
	if buffer == nil {
		slog.Warn("hailoinfra: sample without buffer, skipping frame")
		return gst.FlowOK
	}

	// Prefer the negotiated caps over the configured geometry; they agree
	// once the capsfilter kicks in, but caps win while renegotiating.
	f, width, height := a.cfg.Format, a.cfg.Width, a.cfg.Height
	if pad := sink.Element.GetStaticPad("sink"); pad != nil {
		if caps, ok := CapsFromPad(pad); ok {
			if parsed, err := ParseFormat(caps.Format); err == nil {
				f, width, height = parsed, caps.Width, caps.Height
			}
		}
	}

	frame, err := DecodeFrame(WrapBuffer(buffer), f, width, height)
	if err != nil {
		atomic.AddUint64(&a.decodeFailed, 1)
		slog.Warn("hailoinfra: frame decode failed, skipping",
			"error", err,
			"format", f.String(),
		)
		return gst.FlowOK
	}

	seq := atomic.AddUint64(&a.frameCount, 1)
	meta := FrameMeta{
		Seq:       seq,
		Timestamp: time.Now(),
		TraceID:   uuid.New().String(),
	}

	if a.cfg.Options.ShowFPS {
		a.mu.Lock()
		a.frameTimes = append(a.frameTimes, meta.Timestamp)
		a.mu.Unlock()
	}

	if a.cfg.OnFrame != nil && !a.cfg.Options.DisableCallback {
		a.cfg.OnFrame(frame, meta)
	}
	return gst.FlowOK
}

// Run starts the pipeline and blocks until EOS, a pipeline error, or ctx
// cancellation. The pipeline is stopped on every return path.
func (a *App) Run(ctx context.Context) error {
	a.mu.Lock()
	if a.cancel != nil {
		a.mu.Unlock()
		return fmt.Errorf("hailoinfra: app already running")
	}
	runCtx, cancel := context.WithCancel(ctx)
	a.cancel = cancel
	a.started = time.Now()
	a.mu.Unlock()
	defer a.Stop()

	if err := a.elements.pipeline.SetState(gst.StatePlaying); err != nil {
		return fmt.Errorf("hailoinfra: failed to start pipeline: %w", err)
	}

	slog.Info("hailoinfra: pipeline started",
		"source", a.elements.kind.String(),
		"resolution", fmt.Sprintf("%dx%d", a.cfg.Width, a.cfg.Height),
		"format", a.cfg.Format.String(),
	)

	bus := a.elements.pipeline.GetPipelineBus()
	fpsTicker := time.NewTicker(5 * time.Second)
	defer fpsTicker.Stop()

	for {
		select {
		case <-runCtx.Done():
			slog.Debug("hailoinfra: context cancelled, stopping pipeline")
			return nil

		case <-fpsTicker.C:
			if a.cfg.Options.ShowFPS {
				a.reportFPS()
			}

		default:
			// Poll with short timeout for responsive shutdown
			msg := bus.TimedPop(50 * time.Millisecond)
			if msg == nil {
				continue
			}

			switch msg.Type() {
			case gst.MessageEOS:
				slog.Info("hailoinfra: end of stream",
					"frames", atomic.LoadUint64(&a.frameCount),
					"uptime", time.Since(a.started),
				)
				return nil

			case gst.MessageError:
				gerr := msg.ParseError()
				slog.Error("hailoinfra: pipeline error",
					"error", gerr.Error(),
					"debug", gerr.DebugString(),
					"frames", atomic.LoadUint64(&a.frameCount),
				)
				return fmt.Errorf("hailoinfra: pipeline error: %s", gerr.Error())

			case gst.MessageStateChanged:
				if msg.Source() == a.elements.pipeline.GetName() {
					old, new := msg.ParseStateChanged()
					slog.Debug("hailoinfra: pipeline state changed", "from", old, "to", new)
				}
			}
		}
	}
}

// reportFPS logs frame-rate statistics over the window since the last
// report and resets the window.
func (a *App) reportFPS() {
	a.mu.Lock()
	times := make([]time.Time, len(a.frameTimes))
	copy(times, a.frameTimes)
	a.frameTimes = a.frameTimes[:0]
	a.mu.Unlock()

	if len(times) < 2 {
		return
	}

	stats := CalculateFrameRateStats(times, times[len(times)-1].Sub(times[0]))
	slog.Info("hailoinfra: fps",
		"mean", fmt.Sprintf("%.2f", stats.FPSMean),
		"min", fmt.Sprintf("%.2f", stats.FPSMin),
		"max", fmt.Sprintf("%.2f", stats.FPSMax),
		"stddev", fmt.Sprintf("%.2f", stats.FPSStdDev),
		"frames", stats.FramesReceived,
	)
}

// Stop sets the pipeline to NULL. Idempotent - safe to call multiple times.
func (a *App) Stop() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	if a.elements != nil && a.elements.pipeline != nil {
		if err := a.elements.pipeline.SetState(gst.StateNull); err != nil {
			return fmt.Errorf("hailoinfra: failed to stop pipeline: %w", err)
		}
	}
	return nil
}

// Stats returns a snapshot of the runner's counters. Thread-safe.
func (a *App) Stats() AppStats {
	a.mu.Lock()
	started := a.started
	a.mu.Unlock()

	var uptime time.Duration
	if !started.IsZero() {
		uptime = time.Since(started)
	}
	return AppStats{
		Frames:       atomic.LoadUint64(&a.frameCount),
		DecodeFailed: atomic.LoadUint64(&a.decodeFailed),
		Uptime:       uptime,
	}
}
