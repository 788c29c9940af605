package doctor

import (
	"fmt"
	"sync"
	"time"

	"lark/alarm"
	"lark/audio"
	"lark/hotkey"
	"lark/log"
	"lark/monitor"
)

// Run executes interactive diagnostic checks and returns an exit code
// (0=all pass, 1=any fail).
func Run() int {
	resetTerminal()
	setupInterruptHandler()

	fmt.Println("lark doctor - interactive system diagnostics")
	fmt.Println("=============================================")

	allPass := true

	if !checkMicrophone() {
		allPass = false
	}
	if allPass && !checkAlarmPlayback() {
		allPass = false
	}
	if allPass && !checkHotkey() {
		allPass = false
	}
	if allPass && !checkLogDir() {
		allPass = false
	}

	fmt.Println()
	if allPass {
		fmt.Println("All checks passed!")
	} else {
		fmt.Println("Some checks failed. See details above.")
	}

	if allPass {
		return 0
	}
	return 1
}

// checkMicrophone captures two seconds of audio and reports the live
// level, so the user can see the mic actually hears the room.
func checkMicrophone() bool {
	fmt.Println()
	fmt.Println("[1/4] Microphone level")

	ctx, err := audio.NewContext()
	if err != nil {
		fmt.Printf("  FAIL: cannot connect to audio: %v\n", err)
		return false
	}
	defer ctx.Close()

	devices, err := ctx.Devices()
	if err != nil {
		fmt.Printf("  FAIL: cannot list devices: %v\n", err)
		return false
	}
	if len(devices) == 0 {
		fmt.Println("  FAIL: no capture devices found")
		return false
	}
	device := &devices[0]
	fmt.Printf("  Using device: %s\n", device.Name)
	if audio.IsBluetooth(device.Name) {
		fmt.Println("  WARN: Bluetooth mic - unreliable for overnight monitoring")
	}

	capture, err := ctx.NewCapture(device, audio.CaptureConfig{
		SampleRate: audio.DefaultSampleRate,
		Channels:   1,
	})
	if err != nil {
		fmt.Printf("  FAIL: cannot open capture: %v\n", err)
		return false
	}
	defer capture.Close()

	var mu sync.Mutex
	var lastLevel float64
	blocks := 0
	capture.SetCallback(func(data []byte, frameCount uint32) {
		level, err := monitor.Level(monitor.DecodePCM16(data))
		if err != nil {
			return
		}
		mu.Lock()
		lastLevel = level
		blocks++
		mu.Unlock()
	})

	if err := capture.Start(); err != nil {
		fmt.Printf("  FAIL: cannot start capture: %v\n", err)
		return false
	}
	fmt.Print("  Listening for 2 seconds (make some noise)... ")
	time.Sleep(2 * time.Second)
	capture.Stop()
	capture.ClearCallback()

	mu.Lock()
	defer mu.Unlock()
	if blocks == 0 {
		fmt.Println("FAIL: no audio blocks received")
		return false
	}
	fmt.Printf("PASS: %d blocks, last level %.1f dB\n", blocks, lastLevel)
	return true
}

func checkAlarmPlayback() bool {
	fmt.Println()
	fmt.Println("[2/4] Alarm playback")
	fmt.Println("  Playing the armed chirp...")

	alarm.Init()
	alarm.PlayArmed()
	time.Sleep(500 * time.Millisecond)

	fmt.Println("  PASS (if you heard nothing, check the default output device)")
	return true
}

func checkHotkey() bool {
	fmt.Println()
	fmt.Println("[3/4] Dismiss hotkey")

	if info, err := hotkey.Diagnose(); err != nil {
		fmt.Printf("  FAIL: %v\n", err)
		return false
	} else {
		fmt.Printf("  %s\n", info)
	}
	fmt.Println("  Press Ctrl+Shift+Space...")

	hk := hotkey.New()
	if err := hk.Register(); err != nil {
		fmt.Printf("  FAIL: could not register hotkey: %v\n", err)
		return false
	}
	defer hk.Unregister()

	select {
	case <-hk.Keydown():
		fmt.Println("  PASS: hotkey detected")
		select {
		case <-hk.Keyup():
		case <-time.After(5 * time.Second):
		}
		// The hotkey may leave the terminal in raw mode.
		resetTerminal()
		return true
	case <-time.After(10 * time.Second):
		fmt.Println("  FAIL: timeout waiting for hotkey")
		return false
	}
}

func checkLogDir() bool {
	fmt.Println()
	fmt.Println("[4/4] Log directory")

	dir, err := log.ResolveDir("")
	if err != nil {
		fmt.Printf("  FAIL: cannot resolve log directory: %v\n", err)
		return false
	}
	log.SetDir(dir)
	if err := log.EnsureDir(); err != nil {
		fmt.Printf("  FAIL: %v\n", err)
		return false
	}
	fmt.Printf("  PASS: %s\n", dir)
	return true
}
