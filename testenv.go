package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"lark/alarm"
	"lark/audio"
	"lark/hotkey"
)

// consoleSink prints one machine-parseable line per event so a driving
// script can assert on session behavior without a terminal.
type consoleSink struct{}

func (consoleSink) SessionStart() { fmt.Println("EVENT session_start") }
func (consoleSink) SessionEnd()   { fmt.Println("EVENT session_end") }

func (consoleSink) AudioLevel(level float64) {}

func (consoleSink) CalibrationProgress(progress float64) {
	fmt.Printf("EVENT calibrating %.2f\n", progress)
}

func (consoleSink) ListeningStart(baseline, threshold float64) {
	fmt.Printf("EVENT listening baseline=%.2f threshold=%.2f\n", baseline, threshold)
}

func (consoleSink) AlarmStart(reason string) { fmt.Println("EVENT alarm " + reason) }
func (consoleSink) AlarmStop()               { fmt.Println("EVENT alarm_stop") }
func (consoleSink) StatusLine(text string)   {}

// runTestMode drives a session from stdin commands instead of a
// microphone and a clock on the wall:
//
//	NOISE <db>   feed constant-level blocks at <db> dBFS
//	QUIET        feed silence
//	SLEEP <ms>   pause the script
//	DISMISS      press the dismiss key (silences a ringing alarm,
//	             ends the session if pressed before one)
//	QUIT         exit immediately
//
// The session still runs the real engine with the real 30s calibration
// window, so scripts either ride that out or set -window short enough
// to exercise the fallback path.
func runTestMode(cfg Config) {
	alarm.Disable()

	ctx := audio.NewFakeContext(true)
	capture, err := ctx.NewCapture(nil, audio.CaptureConfig{
		SampleRate: audio.DefaultSampleRate,
		Channels:   1,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fake := capture.(*audio.FakeCapture)

	// DISMISS goes through the same keydown path as the real hotkey.
	hk := hotkey.NewFake()
	go func() {
		for range hk.Keydown() {
			select {
			case dismissChan <- "hotkey":
			default:
			}
		}
	}()

	stop := make(chan struct{})
	session := newWakeSession(capture, consoleSink{}, dismissChan, cfg)
	done := make(chan struct{})

	var reason wakeReason
	go func() {
		defer close(done)
		var runErr error
		reason, runErr = session.Run(stop)
		if runErr != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
		}
	}()

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		switch strings.ToUpper(fields[0]) {
		case "NOISE":
			if len(fields) < 2 {
				fmt.Println("ERR NOISE needs a dB level")
				continue
			}
			db, err := strconv.ParseFloat(fields[1], 64)
			if err != nil {
				fmt.Printf("ERR bad dB level %q\n", fields[1])
				continue
			}
			fake.SetLevelDB(db)
			fmt.Println("OK")
		case "QUIET":
			fake.Silence()
			fmt.Println("OK")
		case "SLEEP":
			if len(fields) < 2 {
				fmt.Println("ERR SLEEP needs milliseconds")
				continue
			}
			ms, err := strconv.Atoi(fields[1])
			if err != nil {
				fmt.Printf("ERR bad duration %q\n", fields[1])
				continue
			}
			time.Sleep(time.Duration(ms) * time.Millisecond)
			fmt.Println("OK")
		case "DISMISS":
			hk.Press()
			fmt.Println("OK")
		case "QUIT":
			close(stop)
			<-done
			fmt.Println("RESULT " + string(reason))
			return
		default:
			fmt.Printf("ERR unknown command %q\n", fields[0])
		}
	}

	// stdin closed: let the session finish on its own
	<-done
	fmt.Println("RESULT " + string(reason))
}
