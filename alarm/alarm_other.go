//go:build !linux

package alarm

import (
	"sync"
	"sync/atomic"

	"github.com/gen2brain/malgo"
)

var (
	malgoCtx   *malgo.AllocatedContext
	device     *malgo.Device
	deviceOnce sync.Once
	playBuf    atomic.Pointer[[]int16]
	playPos    atomic.Uint32
	playDone   chan struct{}
	playDoneMu sync.Mutex
	playSerial sync.Mutex
)

func initDevice() {
	var err error
	malgoCtx, err = malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return
	}

	config := malgo.DefaultDeviceConfig(malgo.Playback)
	config.Playback.Format = malgo.FormatS16
	config.Playback.Channels = 1
	config.SampleRate = sampleRate

	device, err = malgo.InitDevice(malgoCtx.Context, config, malgo.DeviceCallbacks{
		Data: dataCallback,
	})
	if err != nil {
		malgoCtx.Uninit()
		malgoCtx = nil
		device = nil
	}
}

func dataCallback(pOutput, _ []byte, frameCount uint32) {
	buf := playBuf.Load()
	if buf == nil {
		for i := range pOutput {
			pOutput[i] = 0
		}
		return
	}

	samples := *buf
	pos := playPos.Load()
	for i := uint32(0); i < frameCount; i++ {
		var s int16
		if pos < uint32(len(samples)) {
			s = samples[pos]
			pos++
		}
		pOutput[i*2] = byte(uint16(s))
		pOutput[i*2+1] = byte(uint16(s) >> 8)
	}
	playPos.Store(pos)

	if pos >= uint32(len(samples)) {
		playBuf.Store(nil)
		playDoneMu.Lock()
		if playDone != nil {
			close(playDone)
			playDone = nil
		}
		playDoneMu.Unlock()
	}
}

// playSamples plays one buffer and blocks until it is consumed.
func playSamples(samples []int16) {
	if len(samples) == 0 {
		return
	}
	deviceOnce.Do(initDevice)
	if device == nil {
		return
	}

	// One buffer at a time through the shared playback device.
	playSerial.Lock()
	defer playSerial.Unlock()

	done := make(chan struct{})
	playDoneMu.Lock()
	playDone = done
	playDoneMu.Unlock()

	playPos.Store(0)
	buf := samples
	playBuf.Store(&buf)

	if err := device.Start(); err != nil {
		playBuf.Store(nil)
		return
	}
	<-done
	device.Stop()
}
