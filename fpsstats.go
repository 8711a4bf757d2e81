package hailoinfra

import (
	"math"
	"time"
)

// fpsStabilityThreshold is the maximum allowed FPS standard deviation as a
// fraction of the mean. A source is considered stable below it.
const fpsStabilityThreshold = 0.15

// FrameRateStats summarizes observed frame pacing over a window.
type FrameRateStats struct {
	// FramesReceived is the number of frames in the window.
	FramesReceived int
	// Duration is the window length.
	Duration time.Duration
	// FPSMean is the overall frame rate across the window.
	FPSMean float64
	// FPSStdDev is the standard deviation of the instantaneous rate.
	FPSStdDev float64
	// FPSMin is the lowest instantaneous rate.
	FPSMin float64
	// FPSMax is the highest instantaneous rate.
	FPSMax float64
	// IsStable is true when stddev is below 15% of the mean.
	IsStable bool
}

// CalculateFrameRateStats computes frame-rate statistics from frame
// timestamps over totalDuration.
//
// The instantaneous rate is derived from each inter-frame interval; the
// mean uses the whole window so a burst at the end cannot inflate it.
// Fewer than two frames yields zeroed stats with IsStable false.
func CalculateFrameRateStats(frameTimes []time.Time, totalDuration time.Duration) FrameRateStats {
	n := len(frameTimes)
	if n == 0 || totalDuration <= 0 {
		return FrameRateStats{Duration: totalDuration}
	}

	fpsMean := float64(n) / totalDuration.Seconds()

	instantaneous := make([]float64, 0, n-1)
	for i := 1; i < n; i++ {
		interval := frameTimes[i].Sub(frameTimes[i-1]).Seconds()
		if interval > 0 {
			instantaneous = append(instantaneous, 1.0/interval)
		}
	}

	if len(instantaneous) == 0 {
		return FrameRateStats{
			FramesReceived: n,
			Duration:       totalDuration,
			FPSMean:        fpsMean,
		}
	}

	fpsMin := instantaneous[0]
	fpsMax := instantaneous[0]
	for _, fps := range instantaneous {
		if fps < fpsMin {
			fpsMin = fps
		}
		if fps > fpsMax {
			fpsMax = fps
		}
	}

	var sumSquares float64
	for _, fps := range instantaneous {
		diff := fps - fpsMean
		sumSquares += diff * diff
	}
	fpsStdDev := math.Sqrt(sumSquares / float64(len(instantaneous)))

	return FrameRateStats{
		FramesReceived: n,
		Duration:       totalDuration,
		FPSMean:        fpsMean,
		FPSStdDev:      fpsStdDev,
		FPSMin:         fpsMin,
		FPSMax:         fpsMax,
		IsStable:       fpsStdDev < fpsMean*fpsStabilityThreshold,
	}
}
