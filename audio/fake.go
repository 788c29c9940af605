package audio

import (
	"encoding/binary"
	"math"
	"sync"
	"time"
)

const (
	fakeFrameSize     = 1024
	fakeBytesPerFrame = 2 // 16-bit mono
)

// FakeContext synthesizes capture input for unit tests and the scripted
// test mode. Blocks are generated in memory at a controllable loudness;
// nothing is read from disk or recorded anywhere.
type FakeContext struct {
	realtime bool
}

// NewFakeContext returns a context whose captures produce synthetic
// blocks. With realtime=false, blocks arrive every millisecond so tests
// run fast; with realtime=true, they arrive at the real block cadence.
func NewFakeContext(realtime bool) *FakeContext {
	return &FakeContext{realtime: realtime}
}

func (f *FakeContext) Devices() ([]DeviceInfo, error) {
	return []DeviceInfo{{ID: "fake", Name: "fake"}}, nil
}

func (f *FakeContext) Close() {}

func (f *FakeContext) NewCapture(_ *DeviceInfo, _ CaptureConfig) (CaptureDevice, error) {
	return &FakeCapture{realtime: f.realtime}, nil
}

type FakeCapture struct {
	realtime bool

	mu       sync.Mutex
	cb       DataCallback
	amp      float64 // linear amplitude in [0,1]
	stopCh   chan struct{}
	feedDone chan struct{}
}

// SetLevelDB sets the loudness of generated blocks, in the same dBFS
// scale the monitor reads. Zero amplitude (silence) is the default.
func (f *FakeCapture) SetLevelDB(db float64) {
	f.mu.Lock()
	f.amp = math.Pow(10, db/20)
	f.mu.Unlock()
}

// Silence makes generated blocks all-zero.
func (f *FakeCapture) Silence() {
	f.mu.Lock()
	f.amp = 0
	f.mu.Unlock()
}

func (f *FakeCapture) SetCallback(cb DataCallback) {
	f.mu.Lock()
	f.cb = cb
	f.mu.Unlock()
}

func (f *FakeCapture) ClearCallback() {
	f.mu.Lock()
	f.cb = nil
	f.mu.Unlock()
}

func (f *FakeCapture) block() []byte {
	f.mu.Lock()
	amp := f.amp
	f.mu.Unlock()

	data := make([]byte, fakeFrameSize*fakeBytesPerFrame)
	if amp == 0 {
		return data
	}
	sample := int16(amp * 32767)
	for i := 0; i < fakeFrameSize; i++ {
		binary.LittleEndian.PutUint16(data[i*2:], uint16(sample))
	}
	return data
}

func (f *FakeCapture) Start() error {
	f.stopCh = make(chan struct{})
	f.feedDone = make(chan struct{})

	interval := time.Millisecond
	if f.realtime {
		interval = time.Duration(fakeFrameSize) * time.Second / DefaultSampleRate
	}

	go func() {
		defer close(f.feedDone)
		for {
			select {
			case <-f.stopCh:
				return
			case <-time.After(interval):
			}

			f.mu.Lock()
			cb := f.cb
			f.mu.Unlock()
			if cb != nil {
				cb(f.block(), fakeFrameSize)
			}
		}
	}()

	return nil
}

func (f *FakeCapture) Stop() {
	if f.stopCh == nil {
		return
	}
	select {
	case <-f.stopCh:
	default:
		close(f.stopCh)
	}
	<-f.feedDone
}

func (f *FakeCapture) Close() {}
