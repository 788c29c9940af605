package main

import (
	"sync"
	"testing"
	"time"

	"lark/audio"
)

// recorderSink captures session events for assertions.
type recorderSink struct {
	mu           sync.Mutex
	started      bool
	ended        bool
	lastLevel    float64
	progress     float64
	listening    bool
	alarmStarted chan string
	statuses     []string
}

func newRecorderSink() *recorderSink {
	return &recorderSink{alarmStarted: make(chan string, 1)}
}

func (r *recorderSink) SessionStart() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.started = true
}

func (r *recorderSink) SessionEnd() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ended = true
}

func (r *recorderSink) AudioLevel(level float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastLevel = level
}

func (r *recorderSink) CalibrationProgress(progress float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.progress = progress
}

func (r *recorderSink) ListeningStart(baseline, threshold float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listening = true
}

func (r *recorderSink) AlarmStart(reason string) {
	select {
	case r.alarmStarted <- reason:
	default:
	}
}

func (r *recorderSink) AlarmStop() {}

func (r *recorderSink) StatusLine(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses = append(r.statuses, text)
}

func newTestSession(t *testing.T, window time.Duration) (*wakeSession, *audio.FakeCapture, *recorderSink, chan string) {
	t.Helper()
	ctx := audio.NewFakeContext(false)
	capture, err := ctx.NewCapture(nil, audio.CaptureConfig{
		SampleRate: audio.DefaultSampleRate,
		Channels:   1,
	})
	if err != nil {
		t.Fatalf("NewCapture: %v", err)
	}
	fake := capture.(*audio.FakeCapture)
	sink := newRecorderSink()
	dismiss := make(chan string, 1)
	cfg := Config{
		Sensitivity: 0.5,
		WakeWindow:  duration{window},
		Sound:       false,
	}
	s := newWakeSession(capture, sink, dismiss, cfg)
	s.tick = 10 * time.Millisecond
	return s, fake, sink, dismiss
}

// The wake window closes while the engine is still calibrating, so the
// fallback alarm fires and is dismissed.
func TestSessionFallbackAlarm(t *testing.T) {
	s, fake, sink, dismiss := newTestSession(t, 150*time.Millisecond)
	fake.SetLevelDB(-40)

	stop := make(chan struct{})
	result := make(chan wakeReason, 1)
	go func() {
		reason, err := s.Run(stop)
		if err != nil {
			t.Errorf("Run: %v", err)
		}
		result <- reason
	}()

	select {
	case reason := <-sink.alarmStarted:
		if reason != string(wakeFallback) {
			t.Errorf("alarm reason = %q, want %q", reason, wakeFallback)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("fallback alarm never fired")
	}

	dismiss <- "test"

	select {
	case reason := <-result:
		if reason != wakeFallback {
			t.Errorf("Run returned %q, want %q", reason, wakeFallback)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("session did not end after dismissal")
	}

	sink.mu.Lock()
	defer sink.mu.Unlock()
	if !sink.started || !sink.ended {
		t.Errorf("started=%v ended=%v, want both true", sink.started, sink.ended)
	}
}

func TestSessionEarlyStop(t *testing.T) {
	s, fake, sink, _ := newTestSession(t, time.Hour)
	fake.SetLevelDB(-40)

	stop := make(chan struct{})
	result := make(chan wakeReason, 1)
	go func() {
		reason, err := s.Run(stop)
		if err != nil {
			t.Errorf("Run: %v", err)
		}
		result <- reason
	}()

	// Let the session get going before pulling the plug.
	deadline := time.After(3 * time.Second)
	for {
		sink.mu.Lock()
		started := sink.started
		sink.mu.Unlock()
		if started {
			break
		}
		select {
		case <-deadline:
			t.Fatal("session never started")
		case <-time.After(5 * time.Millisecond):
		}
	}
	close(stop)

	select {
	case reason := <-result:
		if reason != "" {
			t.Errorf("Run returned %q, want empty reason for early stop", reason)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("session did not stop")
	}
}

// During calibration the sink should see levels near the room loudness
// and a growing progress fraction.
func TestSessionPublishesCalibration(t *testing.T) {
	s, fake, sink, _ := newTestSession(t, time.Hour)
	fake.SetLevelDB(-30)

	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		if _, err := s.Run(stop); err != nil {
			t.Errorf("Run: %v", err)
		}
	}()

	deadline := time.After(3 * time.Second)
	for {
		sink.mu.Lock()
		level, progress := sink.lastLevel, sink.progress
		sink.mu.Unlock()
		if progress > 0 && level < -29 && level > -31 {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("no calibration activity: level=%v progress=%v", level, progress)
		case <-time.After(5 * time.Millisecond):
		}
	}

	close(stop)
	<-done
}

// A dismiss press before any alarm ends the session instead of
// pre-silencing the eventual ring.
func TestSessionDismissBeforeAlarmStopsEarly(t *testing.T) {
	s, fake, sink, dismiss := newTestSession(t, time.Hour)
	fake.SetLevelDB(-40)

	stop := make(chan struct{})
	result := make(chan wakeReason, 1)
	go func() {
		reason, err := s.Run(stop)
		if err != nil {
			t.Errorf("Run: %v", err)
		}
		result <- reason
	}()

	deadline := time.After(3 * time.Second)
	for {
		sink.mu.Lock()
		started := sink.started
		sink.mu.Unlock()
		if started {
			break
		}
		select {
		case <-deadline:
			t.Fatal("session never started")
		case <-time.After(5 * time.Millisecond):
		}
	}
	dismiss <- "hotkey"

	select {
	case reason := <-result:
		if reason != "" {
			t.Errorf("Run returned %q, want empty reason", reason)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("session did not end on early dismiss")
	}

	select {
	case via := <-sink.alarmStarted:
		t.Errorf("alarm started (%q) on early dismiss", via)
	default:
	}
}
