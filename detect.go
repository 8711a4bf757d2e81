package hailoinfra

import (
	"log/slog"
	"os"
	"runtime"

	"github.com/e7canasta/hailo-apps-infra/internal/hostprobe"
)

// HailoArch identifies the accelerator chip variant.
type HailoArch int

const (
	HailoArchUnknown HailoArch = iota
	HailoArch8
	HailoArch8L
)

// String returns the spelling used by the CLI, the environment and the
// resource layout.
func (a HailoArch) String() string {
	switch a {
	case HailoArch8:
		return "hailo8"
	case HailoArch8L:
		return "hailo8l"
	default:
		return "unknown"
	}
}

// ParseHailoArch maps the CLI / env spelling to a HailoArch.
func ParseHailoArch(s string) (HailoArch, bool) {
	switch s {
	case "hailo8":
		return HailoArch8, true
	case "hailo8l":
		return HailoArch8L, true
	default:
		return HailoArchUnknown, false
	}
}

// DeviceArch is the coarse host CPU family.
type DeviceArch int

const (
	DeviceArchUnknown DeviceArch = iota
	DeviceArchRPi
	DeviceArchARM
	DeviceArchX86
)

func (a DeviceArch) String() string {
	switch a {
	case DeviceArchRPi:
		return "rpi"
	case DeviceArchARM:
		return "arm"
	case DeviceArchX86:
		return "x86"
	default:
		return "unknown"
	}
}

// ProbeOutcome classifies how a host probe concluded. Probes degrade to an
// outcome plus diagnostic instead of returning errors: detection gates
// defaults and diagnostics, never correctness.
type ProbeOutcome int

const (
	// ProbeDetected means the probe produced an answer.
	ProbeDetected ProbeOutcome = iota
	// ProbeToolMissing means the probe executable is not installed.
	ProbeToolMissing
	// ProbeFailed means the tool ran but exited with an error.
	ProbeFailed
	// ProbeParseFailed means the tool ran but its output had no answer.
	ProbeParseFailed
)

func (o ProbeOutcome) String() string {
	switch o {
	case ProbeDetected:
		return "detected"
	case ProbeToolMissing:
		return "tool-missing"
	case ProbeFailed:
		return "failed"
	case ProbeParseFailed:
		return "parse-failed"
	default:
		return "unknown"
	}
}

func convertOutcome(o hostprobe.Outcome) ProbeOutcome {
	switch o {
	case hostprobe.OutcomeDetected:
		return ProbeDetected
	case hostprobe.OutcomeToolMissing:
		return ProbeToolMissing
	case hostprobe.OutcomeParseFailed:
		return ProbeParseFailed
	default:
		return ProbeFailed
	}
}

// HailoArchDetection is the tagged result of DetectHailoArch.
type HailoArchDetection struct {
	Arch    HailoArch
	Outcome ProbeOutcome
	// Detail explains non-detected outcomes.
	Detail string
}

// Detected reports whether the probe produced a usable architecture.
func (d HailoArchDetection) Detected() bool {
	return d.Outcome == ProbeDetected && d.Arch != HailoArchUnknown
}

// PkgDetection is the tagged result of DetectPkgInstalled.
type PkgDetection struct {
	Installed bool
	Outcome   ProbeOutcome
	Detail    string
}

// defaultRunner executes the probe subprocesses; tests swap it out.
var defaultRunner hostprobe.Runner = hostprobe.ExecRunner{}

// DetectHailoArch probes the attached Hailo device via hailortcli.
//
// Failures never surface as errors: callers that need an architecture fall
// back to --arch or configuration when Detected() is false.
func DetectHailoArch() HailoArchDetection {
	arch, outcome, detail := hostprobe.IdentifyHailoArch(defaultRunner)
	det := HailoArchDetection{Outcome: convertOutcome(outcome), Detail: detail}
	if outcome == hostprobe.OutcomeDetected {
		det.Arch, _ = ParseHailoArch(arch)
	} else {
		slog.Debug("hailoinfra: hailo arch probe inconclusive",
			"outcome", det.Outcome.String(),
			"detail", detail,
		)
	}
	return det
}

// DetectPkgInstalled checks whether a Debian package is installed on the
// host via dpkg.
func DetectPkgInstalled(name string) PkgDetection {
	installed, outcome, detail := hostprobe.DpkgInstalled(defaultRunner, name)
	det := PkgDetection{Installed: installed, Outcome: convertOutcome(outcome), Detail: detail}
	if outcome == hostprobe.OutcomeToolMissing || outcome == hostprobe.OutcomeFailed {
		slog.Debug("hailoinfra: package probe inconclusive",
			"package", name,
			"outcome", det.Outcome.String(),
			"detail", detail,
		)
	}
	return det
}

// DetectDeviceArch classifies the host CPU family: rpi, arm, x86 or unknown.
func DetectDeviceArch() DeviceArch {
	hostname, _ := os.Hostname()
	switch hostprobe.ClassifyDeviceArch(runtime.GOOS, runtime.GOARCH, hostname) {
	case "rpi":
		return DeviceArchRPi
	case "arm":
		return DeviceArchARM
	case "x86":
		return DeviceArchX86
	default:
		return DeviceArchUnknown
	}
}
