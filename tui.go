package main

import (
	"fmt"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// TUI message types
type SessionStartMsg struct{}
type SessionEndMsg struct{}
type AudioLevelMsg struct{ Level float64 }
type CalibrationMsg struct{ Progress float64 }
type ListeningMsg struct{ Baseline, Threshold float64 }
type AlarmMsg struct{ Reason string }
type AlarmStopMsg struct{}
type StatusMsg struct{ Text string }
type sessionDoneMsg struct {
	reason wakeReason
	err    error
}
type tickMsg time.Time

type tuiPhase int

const (
	tuiPhaseIdle tuiPhase = iota
	tuiPhaseCalibrating
	tuiPhaseListening
	tuiPhaseRinging
)

type tuiModel struct {
	phase         tuiPhase
	frame         int
	level         float64 // smoothed dBFS
	peak          float64 // loudest reading this session
	progress      float64 // calibration progress 0..1
	baseline      float64 // dBFS mean from calibration
	threshold     float64 // trigger threshold dBFS
	reason        string  // why the alarm fired
	status        string
	deviceLine    string
	windowLine    string
	width, height int
	started       time.Time

	dismiss chan<- string
	stop    func()
}

var (
	tuiProgram *tea.Program
	tuiMu      sync.Mutex
)

// Meter geometry. The bar spans the audible floor to full scale; a
// quiet bedroom sits in the lower third.
const (
	meterFloor = -80.0
	meterWidth = 40
)

var (
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	faintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("239"))
	boldStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("239")).Bold(true)
	calmStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warmStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	alertStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("246")).Bold(true)
	markerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
)

func NewTUIProgram(dismiss chan<- string, stop func(), deviceLine, windowLine string) *tea.Program {
	m := tuiModel{
		level:      meterFloor,
		peak:       meterFloor,
		dismiss:    dismiss,
		stop:       stop,
		deviceLine: deviceLine,
		windowLine: windowLine,
		started:    time.Now(),
	}
	return tea.NewProgram(m, tea.WithAltScreen())
}

func tuiTick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m tuiModel) Init() tea.Cmd {
	return tuiTick()
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.stop()
			if m.phase == tuiPhaseRinging {
				m.sendDismiss("keyboard")
			}
		case " ", "enter":
			if m.phase == tuiPhaseRinging {
				m.sendDismiss("keyboard")
			}
		}

	case tickMsg:
		m.frame++
		return m, tuiTick()

	case SessionStartMsg:
		m.phase = tuiPhaseCalibrating
		m.started = time.Now()

	case SessionEndMsg:
		m.phase = tuiPhaseIdle

	case AudioLevelMsg:
		m.level = m.level*0.6 + msg.Level*0.4
		if msg.Level > m.peak {
			m.peak = msg.Level
		}

	case CalibrationMsg:
		m.progress = msg.Progress

	case ListeningMsg:
		m.phase = tuiPhaseListening
		m.baseline = msg.Baseline
		m.threshold = msg.Threshold

	case AlarmMsg:
		m.phase = tuiPhaseRinging
		m.reason = msg.Reason

	case AlarmStopMsg:
		m.phase = tuiPhaseIdle

	case StatusMsg:
		m.status = msg.Text

	case sessionDoneMsg:
		return m, tea.Quit
	}
	return m, nil
}

func (m tuiModel) sendDismiss(via string) {
	select {
	case m.dismiss <- via:
	default:
	}
}

func (m tuiModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var lines []string
	lines = append(lines, titleStyle.Render("lark")+dimStyle.Render("  "+version))
	lines = append(lines, "")

	switch m.phase {
	case tuiPhaseCalibrating:
		lines = append(lines, warmStyle.Render(fmt.Sprintf("◐ CALIBRATING %3.0f%%", m.progress*100)))
		lines = append(lines, renderProgressBar(m.progress))
	case tuiPhaseListening:
		lines = append(lines, calmStyle.Render(fmt.Sprintf("● LISTENING %s", clockFace(m.frame))))
		lines = append(lines, dimStyle.Render(fmt.Sprintf("baseline %.1f dB, wake above %.1f dB", m.baseline, m.threshold)))
	case tuiPhaseRinging:
		pulse := alertStyle
		if m.frame%6 < 3 {
			pulse = warmStyle
		}
		lines = append(lines, pulse.Render("☀ GOOD MORNING"))
		if m.reason == string(wakeFallback) {
			lines = append(lines, dimStyle.Render("wake window closed without stirring"))
		} else {
			lines = append(lines, dimStyle.Render("you were already stirring"))
		}
	default:
		lines = append(lines, dimStyle.Render("○ IDLE"))
	}

	lines = append(lines, "")
	lines = append(lines, renderMeter(m.level, m.threshold, m.phase))
	lines = append(lines, dimStyle.Render(fmt.Sprintf("room %5.1f dB   peak %5.1f dB", m.level, m.peak)))

	if m.status != "" {
		lines = append(lines, "")
		lines = append(lines, dimStyle.Render(m.status))
	}
	if m.deviceLine != "" {
		lines = append(lines, dimStyle.Render(m.deviceLine))
	}
	if m.windowLine != "" {
		lines = append(lines, dimStyle.Render(m.windowLine+fmt.Sprintf("  (elapsed %s)", time.Since(m.started).Round(time.Second))))
	}

	lines = append(lines, "")
	if m.phase == tuiPhaseRinging {
		lines = append(lines, boldStyle.Render("Space")+faintStyle.Render(" or ")+boldStyle.Render("Ctrl+Shift+Space")+faintStyle.Render(" to dismiss"))
	} else {
		lines = append(lines, faintStyle.Render("q to quit"))
	}

	panel := lipgloss.NewStyle().
		Padding(1, 2).
		Render(strings.Join(lines, "\n"))
	return panel
}

// renderMeter draws the level bar with the wake threshold marked.
func renderMeter(level, threshold float64, phase tuiPhase) string {
	fill := meterCell(level)
	mark := -1
	if phase == tuiPhaseListening || phase == tuiPhaseRinging {
		mark = meterCell(threshold)
	}

	var b strings.Builder
	b.WriteString(dimStyle.Render("▏"))
	for i := 0; i < meterWidth; i++ {
		switch {
		case i == mark:
			b.WriteString(markerStyle.Render("│"))
		case i < fill && mark >= 0 && i >= mark:
			b.WriteString(alertStyle.Render("█"))
		case i < fill:
			b.WriteString(calmStyle.Render("█"))
		default:
			b.WriteString(faintStyle.Render("·"))
		}
	}
	b.WriteString(dimStyle.Render("▕"))
	return b.String()
}

func meterCell(db float64) int {
	if db <= meterFloor {
		return 0
	}
	cell := int((db - meterFloor) / -meterFloor * meterWidth)
	if cell > meterWidth {
		cell = meterWidth
	}
	return cell
}

func renderProgressBar(progress float64) string {
	filled := int(progress * meterWidth)
	if filled > meterWidth {
		filled = meterWidth
	}
	return warmStyle.Render(strings.Repeat("█", filled)) + faintStyle.Render(strings.Repeat("·", meterWidth-filled))
}

func clockFace(frame int) string {
	faces := []string{"◴", "◷", "◶", "◵"}
	return faces[(frame/5)%len(faces)]
}

// tuiSink forwards session events to the running Bubble Tea program.
type tuiSink struct{}

func (tuiSink) SessionStart() { sendToTUI(SessionStartMsg{}) }
func (tuiSink) SessionEnd()   { sendToTUI(SessionEndMsg{}) }

func (tuiSink) AudioLevel(level float64) { sendToTUI(AudioLevelMsg{Level: level}) }

func (tuiSink) CalibrationProgress(progress float64) { sendToTUI(CalibrationMsg{Progress: progress}) }

func (tuiSink) ListeningStart(baseline, thr float64) {
	sendToTUI(ListeningMsg{Baseline: baseline, Threshold: thr})
}

func (tuiSink) AlarmStart(reason string) { sendToTUI(AlarmMsg{Reason: reason}) }
func (tuiSink) AlarmStop()               { sendToTUI(AlarmStopMsg{}) }
func (tuiSink) StatusLine(text string)   { sendToTUI(StatusMsg{Text: text}) }

func sendToTUI(msg tea.Msg) {
	tuiMu.Lock()
	p := tuiProgram
	tuiMu.Unlock()

	if p != nil {
		p.Send(msg)
	}
}
