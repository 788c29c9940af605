package main

// EventSink abstracts the display layer so the Bubble Tea TUI and the
// headless test mode receive the same session events.
type EventSink interface {
	SessionStart()
	SessionEnd()
	AudioLevel(level float64)
	CalibrationProgress(progress float64)
	ListeningStart(baseline, threshold float64)
	AlarmStart(reason string)
	AlarmStop()
	StatusLine(text string)
}
