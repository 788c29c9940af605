// Package alarm generates and plays the session cues and the wake-up
// ring. All tones are synthesized sine waves; no audio assets ship with
// the binary and nothing is written to disk.
package alarm

import (
	"math"
	"sync"
	"time"
)

var disabled bool

// Disable silences all playback (scripted test mode).
func Disable() { disabled = true }

var volumeScale = 1.0

// SetVolume scales all cues and the ring, 0..1. Must be called before
// the first playback; tones are synthesized once.
func SetVolume(v float64) {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	volumeScale = v
}

const (
	sampleRate = 44100

	// Armed chirp: short high tick when calibration starts
	armedFreq   = 1200.0
	armedVolume = 0.4
	armedDecay  = 40.0

	// Ready chirp: double tick when the engine starts listening
	readyFreq   = 900.0
	readyVolume = 0.4
	readyDecay  = 30.0

	// Ring: gentle two-tone that repeats until dismissed
	ringLowFreq  = 660.0
	ringHighFreq = 880.0
	ringVolume   = 0.7
	ringDecay    = 6.0
	ringGap      = 400 * time.Millisecond
)

var (
	armedSamples []int16
	readySamples []int16
	ringSamples  []int16
	soundOnce    sync.Once

	ringMu   sync.Mutex
	ringStop chan struct{}
)

func initSound() {
	armedSamples = generateTone(armedFreq, 0.15, armedVolume*volumeScale, armedDecay)
	readySamples = generateDoubleTone(readyFreq, 0.08, 0.05, readyVolume*volumeScale, readyDecay)

	// One ring cycle: low tone then high tone, each with a slow decay.
	low := generateTone(ringLowFreq, 0.5, ringVolume*volumeScale, ringDecay)
	high := generateTone(ringHighFreq, 0.5, ringVolume*volumeScale, ringDecay)
	ringSamples = append(append([]int16{}, low...), high...)
}

func generateTone(freq, duration, volume, decay float64) []int16 {
	n := int(float64(sampleRate) * duration)
	samples := make([]int16, n)
	for i := 0; i < n; i++ {
		t := float64(i) / float64(sampleRate)
		envelope := math.Exp(-t * decay)
		samples[i] = int16(math.Sin(2*math.Pi*freq*t) * 32767 * volume * envelope)
	}
	return samples
}

func generateDoubleTone(freq, toneDur, gapDur, volume, decay float64) []int16 {
	tone := generateTone(freq, toneDur, volume, decay)
	gap := make([]int16, int(float64(sampleRate)*gapDur))
	result := make([]int16, 0, len(tone)*2+len(gap))
	result = append(result, tone...)
	result = append(result, gap...)
	result = append(result, tone...)
	return result
}

func Init() {
	soundOnce.Do(initSound)
}

// PlayArmed plays the calibration-start chirp.
func PlayArmed() {
	if disabled {
		return
	}
	soundOnce.Do(initSound)
	go playSamples(armedSamples)
}

// PlayReady plays the listening chirp.
func PlayReady() {
	if disabled {
		return
	}
	soundOnce.Do(initSound)
	go playSamples(readySamples)
}

// StartRing begins the repeating wake-up ring. It keeps ringing until
// StopRing; calling it while already ringing is a no-op.
func StartRing() {
	if disabled {
		return
	}
	soundOnce.Do(initSound)

	ringMu.Lock()
	defer ringMu.Unlock()
	if ringStop != nil {
		return
	}
	stop := make(chan struct{})
	ringStop = stop

	go func() {
		for {
			select {
			case <-stop:
				return
			default:
			}
			playSamples(ringSamples)
			select {
			case <-stop:
				return
			case <-time.After(ringGap):
			}
		}
	}()
}

// StopRing silences the ring. Safe to call when not ringing.
func StopRing() {
	ringMu.Lock()
	defer ringMu.Unlock()
	if ringStop != nil {
		close(ringStop)
		ringStop = nil
	}
}

// Ringing reports whether the ring loop is active.
func Ringing() bool {
	ringMu.Lock()
	defer ringMu.Unlock()
	return ringStop != nil
}
