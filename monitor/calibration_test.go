package monitor

import (
	"math"
	"testing"
	"time"
)

func TestCalibrationStats(t *testing.T) {
	tests := []struct {
		name       string
		readings   []float64
		wantMean   float64
		wantStdDev float64
	}{
		{"uniform", []float64{-40, -40, -40}, -40, 0},
		{"pair", []float64{-39, -41}, -40, 1},
		{"spread", []float64{-35, -45}, -40, 5},
		{"mixed", []float64{-38, -40, -42, -40}, -40, math.Sqrt(2)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newCalibrationWindow(time.Now())
			for _, r := range tt.readings {
				w.observe(r)
			}
			mean, stddev := w.stats()
			if math.Abs(mean-tt.wantMean) > 1e-9 {
				t.Errorf("mean = %v, want %v", mean, tt.wantMean)
			}
			if math.Abs(stddev-tt.wantStdDev) > 1e-9 {
				t.Errorf("stddev = %v, want %v", stddev, tt.wantStdDev)
			}
		})
	}
}

func TestCalibrationProgress(t *testing.T) {
	start := time.Date(2026, 3, 1, 6, 30, 0, 0, time.UTC)
	w := newCalibrationWindow(start)

	if p := w.progress(start); p != 0 {
		t.Errorf("progress at start = %v, want 0", p)
	}
	if p := w.progress(start.Add(CalibrationDuration / 2)); math.Abs(p-0.5) > 1e-9 {
		t.Errorf("progress at half = %v, want 0.5", p)
	}
	if p := w.progress(start.Add(2 * CalibrationDuration)); p != 1 {
		t.Errorf("progress past deadline = %v, want capped at 1", p)
	}
}

func TestCalibrationDoneRequiresSamples(t *testing.T) {
	start := time.Date(2026, 3, 1, 6, 30, 0, 0, time.UTC)
	w := newCalibrationWindow(start)

	// Elapsed without a single reading: never done.
	if w.done(start.Add(time.Hour)) {
		t.Fatal("empty window reported done")
	}

	w.observe(-40)
	if w.done(start.Add(CalibrationDuration - time.Millisecond)) {
		t.Fatal("done before the window elapsed")
	}
	if !w.done(start.Add(CalibrationDuration)) {
		t.Fatal("not done with samples after the window elapsed")
	}
}
