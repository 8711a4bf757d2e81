// Package hostprobe shells out to host tools (hailortcli, dpkg) and
// classifies their output. Probes never fail hard: every result carries an
// Outcome describing how far the probe got, so callers can tell a missing
// tool from a device that answered.
package hostprobe

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Outcome classifies how a probe concluded.
type Outcome int

const (
	// OutcomeDetected means the probe ran and produced an answer.
	OutcomeDetected Outcome = iota
	// OutcomeToolMissing means the probe executable is not installed.
	OutcomeToolMissing
	// OutcomeFailed means the tool ran but exited with an error.
	OutcomeFailed
	// OutcomeParseFailed means the tool ran but its output carried no answer.
	OutcomeParseFailed
)

// String returns a human-readable outcome name for logging.
func (o Outcome) String() string {
	switch o {
	case OutcomeDetected:
		return "detected"
	case OutcomeToolMissing:
		return "tool-missing"
	case OutcomeFailed:
		return "failed"
	case OutcomeParseFailed:
		return "parse-failed"
	default:
		return "unknown"
	}
}

// Runner abstracts subprocess execution so tests can inject canned output.
type Runner interface {
	Run(name string, args ...string) (stdout string, err error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

func (ExecRunner) Run(name string, args ...string) (string, error) {
	out, err := exec.Command(name, args...).Output()
	return string(out), err
}

// IdentifyHailoArch asks hailortcli which accelerator variant is attached.
// It returns "hailo8" or "hailo8l" with OutcomeDetected, or "" with an
// outcome describing why there is no answer.
func IdentifyHailoArch(r Runner) (arch string, outcome Outcome, detail string) {
	out, err := r.Run("hailortcli", "fw-control", "identify")
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", OutcomeToolMissing, "hailortcli not found in PATH"
		}
		return "", OutcomeFailed, fmt.Sprintf("hailortcli failed: %v", err)
	}

	for _, line := range strings.Split(out, "\n") {
		if !strings.Contains(line, "Device Architecture") {
			continue
		}
		// HAILO8L must be tested before HAILO8: the former contains the latter.
		switch {
		case strings.Contains(line, "HAILO8L"):
			return "hailo8l", OutcomeDetected, ""
		case strings.Contains(line, "HAILO8"):
			return "hailo8", OutcomeDetected, ""
		}
	}
	return "", OutcomeParseFailed, "no Device Architecture line in hailortcli output"
}

// DpkgInstalled reports whether a Debian package is installed. A non-zero
// dpkg exit is a definitive "not installed", not a probe failure.
func DpkgInstalled(r Runner, pkg string) (installed bool, outcome Outcome, detail string) {
	_, err := r.Run("dpkg", "-s", pkg)
	if err == nil {
		return true, OutcomeDetected, ""
	}
	if errors.Is(err, exec.ErrNotFound) {
		return false, OutcomeToolMissing, "dpkg not found in PATH"
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return false, OutcomeDetected, fmt.Sprintf("%s not installed", pkg)
	}
	return false, OutcomeFailed, fmt.Sprintf("dpkg failed: %v", err)
}

// ClassifyDeviceArch maps GOOS/GOARCH plus the hostname to a coarse host
// family: "rpi", "arm", "x86" or "unknown".
func ClassifyDeviceArch(goos, goarch, hostname string) string {
	goarch = strings.ToLower(goarch)
	hostname = strings.ToLower(hostname)

	switch {
	case strings.Contains(goarch, "arm"):
		if goos == "linux" && (strings.Contains(hostname, "raspberrypi") || strings.Contains(hostname, "pi")) {
			return "rpi"
		}
		return "arm"
	case goarch == "amd64" || strings.Contains(goarch, "386"):
		return "x86"
	default:
		return "unknown"
	}
}
