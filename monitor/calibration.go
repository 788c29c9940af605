package monitor

import (
	"math"
	"time"
)

// CalibrationDuration is the wall-clock length of the baseline-learning
// window. Completion is driven by elapsed time, not sample count, so
// uneven block arrival neither stretches nor shrinks the window.
const CalibrationDuration = 30 * time.Second

type calibrationWindow struct {
	startedAt time.Time
	readings  []float64
}

func newCalibrationWindow(now time.Time) *calibrationWindow {
	return &calibrationWindow{startedAt: now}
}

func (w *calibrationWindow) observe(reading float64) {
	w.readings = append(w.readings, reading)
}

func (w *calibrationWindow) progress(now time.Time) float64 {
	p := now.Sub(w.startedAt).Seconds() / CalibrationDuration.Seconds()
	return math.Min(math.Max(p, 0), 1)
}

// done reports whether the window may be reduced to a baseline. An
// empty window never completes: a baseline computed from zero samples
// would be fiction, so completion is withheld instead.
func (w *calibrationWindow) done(now time.Time) bool {
	return now.Sub(w.startedAt) >= CalibrationDuration && len(w.readings) > 0
}

// stats returns the arithmetic mean and population standard deviation
// over the whole window. Call only when the window is non-empty.
func (w *calibrationWindow) stats() (mean, stddev float64) {
	n := float64(len(w.readings))
	for _, r := range w.readings {
		mean += r
	}
	mean /= n
	var sq float64
	for _, r := range w.readings {
		d := r - mean
		sq += d * d
	}
	return mean, math.Sqrt(sq / n)
}
