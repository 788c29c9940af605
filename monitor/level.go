package monitor

import (
	"encoding/binary"
	"errors"
	"math"
)

// rmsEpsilon floors the RMS before the logarithm so an all-zero block
// yields a finite reading (-120 dB) instead of -Inf.
const rmsEpsilon = 1e-6

var ErrEmptyBlock = errors.New("monitor: empty sample block")

// Level reduces one block of signed 16-bit samples to a single dBFS-like
// loudness reading. Samples are normalized to [-1, 1] before the RMS, so
// full-scale input reads near 0 and the epsilon floor bottoms out at
// -120. Empty blocks are rejected, never turned into a reading.
func Level(samples []int16) (float64, error) {
	if len(samples) == 0 {
		return 0, ErrEmptyBlock
	}
	var sum float64
	for _, s := range samples {
		v := float64(s) / 32768.0
		sum += v * v
	}
	rms := math.Sqrt(sum / float64(len(samples)))
	return 20 * math.Log10(math.Max(rms, rmsEpsilon)), nil
}

// DecodePCM16 converts little-endian 16-bit PCM bytes to samples.
// A trailing odd byte is dropped.
func DecodePCM16(data []byte) []int16 {
	n := len(data) / 2
	samples := make([]int16, n)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(data[i*2:]))
	}
	return samples
}
