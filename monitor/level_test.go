package monitor

import (
	"encoding/binary"
	"math"
	"testing"
)

func constBlock(amp int16, n int) []int16 {
	block := make([]int16, n)
	for i := range block {
		block[i] = amp
	}
	return block
}

func TestLevelEmptyBlockRejected(t *testing.T) {
	if _, err := Level(nil); err == nil {
		t.Fatal("expected error for nil block")
	}
	if _, err := Level([]int16{}); err == nil {
		t.Fatal("expected error for empty block")
	}
}

func TestLevelZeroBlockFinite(t *testing.T) {
	level, err := Level(constBlock(0, 512))
	if err != nil {
		t.Fatal(err)
	}
	if math.IsNaN(level) || math.IsInf(level, 0) {
		t.Fatalf("expected finite reading for silence, got %v", level)
	}
	// Epsilon floor: 20*log10(1e-6) = -120
	if level != -120.0 {
		t.Errorf("expected -120 for all-zero block, got %v", level)
	}
}

func TestLevelFullScaleNearZero(t *testing.T) {
	level, err := Level(constBlock(32767, 512))
	if err != nil {
		t.Fatal(err)
	}
	if level > 0 || level < -0.01 {
		t.Errorf("expected full-scale level near 0 dB, got %v", level)
	}
}

func TestLevelMonotonic(t *testing.T) {
	amps := []int16{10, 100, 1000, 10000, 32000}
	prev := math.Inf(-1)
	for _, a := range amps {
		level, err := Level(constBlock(a, 256))
		if err != nil {
			t.Fatal(err)
		}
		if level <= prev {
			t.Errorf("amp %d: level %v not greater than %v", a, level, prev)
		}
		prev = level
	}
}

func TestLevelKnownAmplitude(t *testing.T) {
	// Constant block: RMS equals the normalized amplitude.
	level, err := Level(constBlock(3277, 100)) // ~0.1 full scale
	if err != nil {
		t.Fatal(err)
	}
	want := 20 * math.Log10(3277.0/32768.0)
	if math.Abs(level-want) > 1e-9 {
		t.Errorf("got %v, want %v", level, want)
	}
}

func TestLevelSignInsensitive(t *testing.T) {
	pos, err := Level(constBlock(1000, 64))
	if err != nil {
		t.Fatal(err)
	}
	neg, err := Level(constBlock(-1000, 64))
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(pos-neg) > 1e-9 {
		t.Errorf("positive and negative amplitude differ: %v vs %v", pos, neg)
	}
}

func TestDecodePCM16(t *testing.T) {
	data := make([]byte, 6)
	neg := int16(-1000)
	binary.LittleEndian.PutUint16(data[0:], uint16(int16(1000)))
	binary.LittleEndian.PutUint16(data[2:], uint16(neg))
	binary.LittleEndian.PutUint16(data[4:], 0)

	samples := DecodePCM16(data)
	if len(samples) != 3 {
		t.Fatalf("expected 3 samples, got %d", len(samples))
	}
	if samples[0] != 1000 || samples[1] != -1000 || samples[2] != 0 {
		t.Errorf("unexpected samples: %v", samples)
	}
}

func TestDecodePCM16OddTrailingByte(t *testing.T) {
	samples := DecodePCM16([]byte{0x01, 0x02, 0x03})
	if len(samples) != 1 {
		t.Fatalf("expected 1 sample from 3 bytes, got %d", len(samples))
	}
}
