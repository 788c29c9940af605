package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"lark/alarm"
	"lark/audio"
	"lark/doctor"
	"lark/hotkey"
	"lark/log"
	"lark/shutdown"
)

var version = "dev"

// dismissChan carries dismissal requests from the TUI, the global
// hotkey, and the scripted test harness into the running session.
var dismissChan = make(chan string, 1)

var stopOnce sync.Once

func run() {
	configFlag := flag.String("config", "", "config file path (default: XDG config dir)")
	sensFlag := flag.Float64("sensitivity", -1, "wake sensitivity 0..1, higher wakes on smaller stirrings (overrides config)")
	windowFlag := flag.Duration("window", 0, "wake window length before the fallback alarm, e.g. 45m (overrides config)")
	setupFlag := flag.Bool("setup", false, "select microphone device (otherwise uses system default)")
	deviceFlag := flag.String("device", "", "use named microphone device")
	volumeFlag := flag.Float64("volume", -1, "playback volume 0..1 (overrides config)")
	noSoundFlag := flag.Bool("nosound", false, "disable the chirps and the audible ring")
	versionFlag := flag.Bool("version", false, "print version and exit")
	doctorFlag := flag.Bool("doctor", false, "run system diagnostics and exit")
	crashFlag := flag.Bool("crash", false, "trigger synthetic panic to verify crash logging")
	logPathFlag := flag.String("logpath", "", "log directory path (default: OS-specific location, use ./ for current dir)")
	testFlag := flag.Bool("test", false, "test mode (headless, stdin-driven)")
	flag.Parse()

	logPath, err := log.ResolveDir(*logPathFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to resolve log directory: %v\n", err)
		os.Exit(1)
	}
	log.SetDir(logPath)

	if err := log.EnsureDir(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not create log directory: %v\n", err)
	}

	crashPath := filepath.Join(log.Dir(), "crash_log.txt")
	crashFile, err := os.OpenFile(crashPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err == nil {
		fmt.Fprintf(crashFile, "\n=== Session %s [pid=%d] ===\n", time.Now().Format("2006-01-02 15:04:05"), os.Getpid())
		debug.SetCrashOutput(crashFile, debug.CrashOptions{})
	}

	if *crashFlag {
		panic("TEST CRASH: synthetic panic to verify crash logging")
	}

	if *versionFlag {
		fmt.Printf("lark %s\n", version)
		os.Exit(0)
	}

	if *doctorFlag {
		os.Exit(doctor.Run())
	}

	cfg, err := loadConfig(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *sensFlag >= 0 {
		cfg.Sensitivity = *sensFlag
	}
	if *windowFlag > 0 {
		cfg.WakeWindow = duration{*windowFlag}
	}
	if *deviceFlag != "" {
		cfg.Device = *deviceFlag
	}
	if *volumeFlag >= 0 {
		cfg.Volume = *volumeFlag
	}
	if *noSoundFlag {
		cfg.Sound = false
	}
	if err := validateConfig(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *testFlag {
		runTestMode(cfg)
		return
	}

	ctx, err := audio.NewContext()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing audio: %v\n", err)
		os.Exit(1)
	}
	defer ctx.Close()

	var selected *audio.DeviceInfo
	if *setupFlag {
		selected, err = audio.SelectDevice(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	} else if cfg.Device != "" {
		selected, err = findDevice(ctx, cfg.Device)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	capture, err := ctx.NewCapture(selected, audio.CaptureConfig{
		SampleRate: audio.DefaultSampleRate,
		Channels:   1,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening capture device: %v\n", err)
		os.Exit(1)
	}
	defer capture.Close()

	if err := log.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not init logging: %v\n", err)
	}
	defer log.Close()
	log.SessionStart(deviceName(selected), cfg.Sensitivity, cfg.WakeWindow.Duration)

	if cfg.Sound {
		alarm.SetVolume(cfg.Volume)
		alarm.Init()
	} else {
		alarm.Disable()
	}

	hk := hotkey.New()
	if err := hk.Register(); err != nil {
		log.Errorf("hotkey register error: %v", err)
		fmt.Fprintf(os.Stderr, "Warning: global dismiss key unavailable: %v\n", err)
	} else {
		defer hk.Unregister()
		go func() {
			for range hk.Keydown() {
				select {
				case dismissChan <- "hotkey":
				default:
				}
			}
		}()
	}

	stop := make(chan struct{})
	requestStop := func() {
		stopOnce.Do(func() { close(stop) })
	}

	sigChan := make(chan os.Signal, 1)
	shutdown.Notify(sigChan)
	go func() {
		<-sigChan
		requestStop()
		select {
		case dismissChan <- "signal":
		default:
		}
	}()

	p := NewTUIProgram(dismissChan, requestStop,
		"mic: "+deviceName(selected),
		fmt.Sprintf("fallback alarm in %s", cfg.WakeWindow.Duration))
	tuiMu.Lock()
	tuiProgram = p
	tuiMu.Unlock()

	session := newWakeSession(capture, tuiSink{}, dismissChan, cfg)
	sessionDone := make(chan struct{})
	go func() {
		defer close(sessionDone)
		reason, err := session.Run(stop)
		p.Send(sessionDoneMsg{reason: reason, err: err})
	}()

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	requestStop()

	// The session may be waiting on a dismissal that will never come.
	select {
	case dismissChan <- "quit":
	default:
	}
	select {
	case <-sessionDone:
	case <-time.After(2 * time.Second):
	}
}

// findDevice matches by exact name first, then by case-insensitive
// substring, so "-device usb" works against long ALSA names.
func findDevice(ctx audio.Context, name string) (*audio.DeviceInfo, error) {
	devices, err := ctx.Devices()
	if err != nil {
		return nil, fmt.Errorf("listing devices: %w", err)
	}
	for i := range devices {
		if devices[i].Name == name {
			return &devices[i], nil
		}
	}
	lower := strings.ToLower(name)
	for i := range devices {
		if strings.Contains(strings.ToLower(devices[i].Name), lower) {
			return &devices[i], nil
		}
	}
	return nil, fmt.Errorf("no capture device matching %q", name)
}

func deviceName(dev *audio.DeviceInfo) string {
	if dev == nil {
		return "system default"
	}
	if audio.IsBluetooth(dev.Name) {
		return dev.Name + " (BT!)"
	}
	return dev.Name
}
