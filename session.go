package main

import (
	"fmt"
	"time"

	"lark/alarm"
	"lark/audio"
	"lark/log"
	"lark/monitor"
)

const tickInterval = 100 * time.Millisecond

type wakeReason string

const (
	wakeNatural  wakeReason = "natural"
	wakeFallback wakeReason = "fallback"
)

// wakeSession owns one run of the engine: start capture, calibrate,
// listen, ring, dismiss. The engine only answers "has sustained excess
// noise been detected"; the policy decisions - the fallback deadline
// and when to stop - live here.
type wakeSession struct {
	engine  *monitor.Engine
	capture audio.CaptureDevice
	sink    EventSink
	dismiss <-chan string

	window time.Duration // fallback deadline, measured from Run
	tick   time.Duration
	sound  bool
}

func newWakeSession(capture audio.CaptureDevice, sink EventSink, dismiss <-chan string, cfg Config) *wakeSession {
	return &wakeSession{
		engine:  monitor.NewEngine(cfg.Sensitivity),
		capture: capture,
		sink:    sink,
		dismiss: dismiss,
		window:  cfg.WakeWindow.Duration,
		tick:    tickInterval,
		sound:   cfg.Sound,
	}
}

// Run drives the session until the alarm fires and is dismissed, or
// until stop closes. It returns the reason the alarm fired, or "" when
// stopped early.
func (s *wakeSession) Run(stop <-chan struct{}) (wakeReason, error) {
	s.capture.SetCallback(s.engine.Process)
	defer s.capture.ClearCallback()

	if err := s.capture.Start(); err != nil {
		return "", fmt.Errorf("starting capture: %w", err)
	}
	defer s.capture.Stop()

	s.engine.Start()
	s.engine.StartCalibration()
	if s.sound {
		alarm.PlayArmed()
	}
	s.sink.SessionStart()
	s.sink.StatusLine("calibrating - keep the room quiet")

	start := time.Now()
	deadline := time.After(s.window)
	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	wasCalibrating := true
	for {
		select {
		case <-stop:
			s.engine.Stop()
			s.sink.SessionEnd()
			log.SessionEnd(false, time.Since(start))
			return "", nil

		case via := <-s.dismiss:
			// Dismiss pressed before any alarm: end the session early.
			// This also keeps a stale press from silencing the ring
			// the moment it starts.
			s.engine.Stop()
			log.Dismissed(via)
			s.sink.SessionEnd()
			log.SessionEnd(false, time.Since(start))
			return "", nil

		case <-deadline:
			// The wake window closed without a natural trigger. The
			// engine never times out on its own; this is the bound.
			log.Fallback(time.Since(start))
			return s.ring(wakeFallback, start, stop)

		case <-ticker.C:
			snap := s.engine.Snapshot()
			s.sink.AudioLevel(snap.Level)

			switch st := snap.State.(type) {
			case monitor.Calibrating:
				s.sink.CalibrationProgress(snap.Progress)
			case monitor.Listening:
				if wasCalibrating {
					wasCalibrating = false
					if s.sound {
						alarm.PlayReady()
					}
					s.sink.ListeningStart(st.Baseline.Mean, st.Baseline.Threshold)
					s.sink.StatusLine("listening for you to stir")
				}
				if snap.Triggered {
					return s.ring(wakeNatural, start, stop)
				}
			}
		}
	}
}

// ring stops monitoring, sounds the alarm, and waits for dismissal.
func (s *wakeSession) ring(reason wakeReason, start time.Time, stop <-chan struct{}) (wakeReason, error) {
	s.engine.Stop()
	s.capture.Stop()

	s.sink.AlarmStart(string(reason))
	if s.sound {
		alarm.StartRing()
	}

	select {
	case via := <-s.dismiss:
		log.Dismissed(via)
	case <-stop:
		log.Dismissed("stop")
	}

	alarm.StopRing()
	s.sink.AlarmStop()
	s.sink.SessionEnd()
	log.SessionEnd(reason == wakeNatural, time.Since(start))
	return reason, nil
}
