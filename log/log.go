package log

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	diagLog  zerolog.Logger
	diagFile *os.File
	logMu    sync.Mutex
	logReady bool
	pid      int
	dir      string
)

func ResolveDir(flagPath string) (string, error) {
	// Priority 1: -logpath flag
	if flagPath != "" {
		if !filepath.IsAbs(flagPath) {
			wd, err := os.Getwd()
			if err != nil {
				return "", err
			}
			return filepath.Join(wd, flagPath), nil
		}
		return flagPath, nil
	}

	// Priority 2: LARK_LOG_PATH environment variable
	envPath := os.Getenv("LARK_LOG_PATH")
	if envPath != "" {
		if !filepath.IsAbs(envPath) {
			wd, err := os.Getwd()
			if err != nil {
				return "", err
			}
			return filepath.Join(wd, envPath), nil
		}
		return envPath, nil
	}

	// Priority 3: Default OS-specific location
	return getDefaultDir()
}

func SetDir(d string) {
	dir = d
}

func Dir() string {
	return dir
}

func EnsureDir() error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	return nil
}

func Init() error {
	logMu.Lock()
	defer logMu.Unlock()

	if err := EnsureDir(); err != nil {
		return err
	}

	pid = os.Getpid()

	var err error

	diagPath := filepath.Join(dir, "diagnostics_log.txt")
	diagFile, err = os.OpenFile(diagPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}

	consoleWriter := zerolog.ConsoleWriter{
		Out:        diagFile,
		TimeFormat: "2006-01-02 15:04:05",
		NoColor:    true,
	}
	diagLog = zerolog.New(consoleWriter).With().Timestamp().Int("pid", pid).Logger()

	logReady = true
	return nil
}

func Close() {
	logMu.Lock()
	defer logMu.Unlock()
	if diagFile != nil {
		diagFile.Close()
		diagFile = nil
	}
	logReady = false
}

func Info(msg string) {
	if logReady {
		diagLog.Info().Msg(msg)
	}
}

func Error(msg string) {
	if logReady {
		diagLog.Error().Msg(msg)
	}
}

func Errorf(format string, args ...any) {
	if logReady {
		diagLog.Error().Msg(fmt.Sprintf(format, args...))
	}
}

func Warn(msg string) {
	if logReady {
		diagLog.Warn().Msg(msg)
	}
}

func Warnf(format string, args ...any) {
	if logReady {
		diagLog.Warn().Msg(fmt.Sprintf(format, args...))
	}
}

// SessionStart records the start of a wake session. Only derived
// settings are logged; audio data never is.
func SessionStart(device string, sensitivity float64, window time.Duration) {
	if !logReady {
		return
	}
	diagLog.Info().
		Str("device", device).
		Float64("sensitivity", sensitivity).
		Dur("window", window).
		Msg("session_start")
}

// Calibrated records the baseline produced by one calibration cycle.
func Calibrated(mean, stddev, threshold float64, samples int) {
	if !logReady {
		return
	}
	diagLog.Info().
		Float64("mean_db", mean).
		Float64("stddev_db", stddev).
		Float64("threshold_db", threshold).
		Int("samples", samples).
		Msg("calibrated")
}

// Trigger records a natural wake trigger.
func Trigger(level, threshold float64, consecutive int) {
	if !logReady {
		return
	}
	diagLog.Info().
		Float64("level_db", level).
		Float64("threshold_db", threshold).
		Int("consecutive", consecutive).
		Msg("trigger")
}

// Fallback records the wake window closing without a natural trigger.
func Fallback(after time.Duration) {
	if !logReady {
		return
	}
	diagLog.Info().
		Dur("after", after).
		Msg("fallback_deadline")
}

// Dismissed records how the ringing alarm was silenced.
func Dismissed(via string) {
	if !logReady {
		return
	}
	diagLog.Info().
		Str("via", via).
		Msg("alarm_dismissed")
}

// SessionEnd records the outcome of a wake session.
func SessionEnd(triggered bool, dur time.Duration) {
	if !logReady {
		return
	}
	diagLog.Info().
		Bool("triggered", triggered).
		Dur("duration", dur).
		Msg("session_end")
}
