package monitor

import (
	"math"
	"sync"
	"time"

	"lark/log"
)

// Engine ingests PCM blocks from the capture callback and runs the
// Idle -> Calibrating -> Listening lifecycle. A single mutex guards the
// whole mutable tuple (window, state, detector, published level and
// progress, trigger flag), so the audio producer and the UI consumer
// never observe a half-applied transition and the Calibrating ->
// Listening transition cannot run twice.
//
// The engine holds no samples beyond the calibration window's derived
// readings and writes nothing anywhere: blocks are reduced to one dB
// scalar and discarded.
type Engine struct {
	mu          sync.Mutex
	running     bool
	state       State
	window      *calibrationWindow
	detector    triggerDetector
	sensitivity float64
	level       float64
	progress    float64
	triggered   bool

	now func() time.Time // injectable for tests
}

// Snapshot is a consistent read-only view of the engine's published
// state, taken under the engine lock.
type Snapshot struct {
	Running   bool
	State     State
	Level     float64
	Progress  float64
	Triggered bool
}

// NewEngine returns an idle engine. The caller owns its lifecycle:
// Start, StartCalibration, Stop. Sensitivity is in [0,1].
func NewEngine(sensitivity float64) *Engine {
	return &Engine{
		state:       Idle{},
		sensitivity: sensitivity,
		now:         time.Now,
	}
}

// Start begins accepting sample blocks. No calibration is started;
// until then readings only update the published level.
func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.running = true
}

// StartCalibration opens a fresh baseline window. Calling it while a
// window is already open restarts the window from scratch.
func (e *Engine) StartCalibration() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.running = true
	now := e.now()
	e.window = newCalibrationWindow(now)
	e.detector.reset()
	e.triggered = false
	e.progress = 0
	e.state = Calibrating{StartedAt: now}
}

// SetSensitivity updates the sensitivity setting. It is read once when
// a calibration completes; a threshold already fixed by an earlier
// calibration is deliberately not recomputed.
func (e *Engine) SetSensitivity(v float64) {
	e.mu.Lock()
	e.sensitivity = v
	e.mu.Unlock()
}

// Stop synchronously halts sample acceptance and discards all session
// state, so a subsequent Start or StartCalibration begins from a clean
// slate.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.running = false
	e.state = Idle{}
	e.window = nil
	e.detector.reset()
	e.triggered = false
	e.level = 0
	e.progress = 0
}

// Process is the audio DataCallback: it decodes the block, reduces it
// to one loudness reading, and advances the state machine. Malformed
// (empty) blocks are dropped without touching any state. Process never
// blocks on I/O; it runs on the capture driver's cadence.
func (e *Engine) Process(data []byte, frameCount uint32) {
	reading, err := Level(DecodePCM16(data))
	if err != nil {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.running {
		return
	}
	e.level = reading

	switch st := e.state.(type) {
	case Calibrating:
		e.window.observe(reading)
		now := e.now()
		e.progress = e.window.progress(now)
		if e.window.done(now) {
			e.finishCalibration()
		}
	case Listening:
		if e.detector.evaluate(reading, st.Baseline.Threshold) {
			e.triggered = true
			log.Trigger(reading, st.Baseline.Threshold, RequiredConsecutive)
		}
	}
}

// finishCalibration reduces the window to a baseline and applies the
// Calibrating -> Listening transition. The caller holds e.mu, and the
// state switch in Process guarantees at most one application per
// calibration cycle.
func (e *Engine) finishCalibration() {
	mean, raw := e.window.stats()
	mult := Multiplier(e.sensitivity)
	b := Baseline{
		Mean:      mean,
		StdDev:    math.Max(raw, StdDevFloor),
		Threshold: Threshold(mean, raw, mult),
	}
	samples := len(e.window.readings)
	e.window = nil
	e.detector.reset()
	e.progress = 1
	e.state = Listening{Baseline: b}
	log.Calibrated(b.Mean, b.StdDev, b.Threshold, samples)
}

// Snapshot returns the published state as one consistent copy.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Snapshot{
		Running:   e.running,
		State:     e.state,
		Level:     e.level,
		Progress:  e.progress,
		Triggered: e.triggered,
	}
}
