package monitor

import "time"

// State is the engine's lifecycle phase. Exactly one variant is active
// at a time, and each carries only the data that exists in that phase,
// so a half-updated combination of flags cannot be observed.
type State interface {
	state()
}

// Idle: not accepting a calibration window, not listening. Initial
// state and the state after Stop.
type Idle struct{}

// Calibrating: collecting the baseline window since StartedAt.
type Calibrating struct {
	StartedAt time.Time
}

// Listening: baseline learned, watching for sustained excess noise.
type Listening struct {
	Baseline Baseline
}

func (Idle) state()        {}
func (Calibrating) state() {}
func (Listening) state()   {}

// Baseline is the product of one calibration cycle. Immutable until the
// next calibration; StdDev is stored already floored, as used for the
// threshold.
type Baseline struct {
	Mean      float64
	StdDev    float64
	Threshold float64
}
