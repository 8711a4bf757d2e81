package hailoinfra

import (
	"math"
	"testing"
	"time"
)

// evenFrameTimes spaces n frames exactly interval apart starting at a fixed
// origin.
func evenFrameTimes(n int, interval time.Duration) []time.Time {
	origin := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	times := make([]time.Time, n)
	for i := range times {
		times[i] = origin.Add(time.Duration(i) * interval)
	}
	return times
}

func TestCalculateFrameRateStatsSteady(t *testing.T) {
	// 30 frames at 100ms spacing over 3 seconds => 10 FPS.
	times := evenFrameTimes(30, 100*time.Millisecond)
	stats := CalculateFrameRateStats(times, 3*time.Second)

	if stats.FramesReceived != 30 {
		t.Errorf("FramesReceived = %d, want 30", stats.FramesReceived)
	}
	if math.Abs(stats.FPSMean-10.0) > 0.01 {
		t.Errorf("FPSMean = %.3f, want ~10.0", stats.FPSMean)
	}
	if math.Abs(stats.FPSMin-10.0) > 0.01 || math.Abs(stats.FPSMax-10.0) > 0.01 {
		t.Errorf("FPSMin/FPSMax = %.3f/%.3f, want ~10.0 both", stats.FPSMin, stats.FPSMax)
	}
	if !stats.IsStable {
		t.Errorf("evenly spaced frames reported unstable (stddev %.3f, mean %.3f)",
			stats.FPSStdDev, stats.FPSMean)
	}
}

func TestCalculateFrameRateStatsJittery(t *testing.T) {
	// Alternate 20ms and 500ms intervals: instantaneous rate swings between
	// 50 and 2 FPS, far beyond the stability band.
	origin := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	times := []time.Time{origin}
	cursor := origin
	for i := 0; i < 10; i++ {
		step := 20 * time.Millisecond
		if i%2 == 1 {
			step = 500 * time.Millisecond
		}
		cursor = cursor.Add(step)
		times = append(times, cursor)
	}

	total := times[len(times)-1].Sub(times[0])
	stats := CalculateFrameRateStats(times, total)

	if stats.IsStable {
		t.Errorf("jittery frames reported stable (stddev %.3f, mean %.3f)",
			stats.FPSStdDev, stats.FPSMean)
	}
	if stats.FPSMax <= stats.FPSMin {
		t.Errorf("FPSMax (%.3f) should exceed FPSMin (%.3f)", stats.FPSMax, stats.FPSMin)
	}
}

func TestCalculateFrameRateStatsEdgeCases(t *testing.T) {
	t.Run("no frames", func(t *testing.T) {
		stats := CalculateFrameRateStats(nil, time.Second)
		if stats.FramesReceived != 0 || stats.FPSMean != 0 || stats.IsStable {
			t.Errorf("unexpected stats for empty input: %+v", stats)
		}
	})

	t.Run("single frame", func(t *testing.T) {
		stats := CalculateFrameRateStats(evenFrameTimes(1, time.Second), 2*time.Second)
		if stats.FramesReceived != 1 {
			t.Errorf("FramesReceived = %d, want 1", stats.FramesReceived)
		}
		if math.Abs(stats.FPSMean-0.5) > 0.01 {
			t.Errorf("FPSMean = %.3f, want 0.5", stats.FPSMean)
		}
		if stats.IsStable {
			t.Error("single frame cannot be stable")
		}
	})

	t.Run("zero duration", func(t *testing.T) {
		stats := CalculateFrameRateStats(evenFrameTimes(5, time.Millisecond), 0)
		if stats.FramesReceived != 0 || stats.FPSMean != 0 {
			t.Errorf("unexpected stats for zero duration: %+v", stats)
		}
	})

	t.Run("duplicate timestamps", func(t *testing.T) {
		origin := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
		times := []time.Time{origin, origin, origin}
		stats := CalculateFrameRateStats(times, time.Second)
		if stats.FramesReceived != 3 {
			t.Errorf("FramesReceived = %d, want 3", stats.FramesReceived)
		}
		// No positive interval exists, so spread stats stay zero.
		if stats.FPSStdDev != 0 || stats.FPSMin != 0 || stats.FPSMax != 0 {
			t.Errorf("expected zero spread stats, got %+v", stats)
		}
		if stats.IsStable {
			t.Error("no-interval input cannot be stable")
		}
	})
}
