package monitor

import (
	"math"
	"testing"
)

func TestMultiplierEndpoints(t *testing.T) {
	tests := []struct {
		sensitivity float64
		want        float64
	}{
		{0.0, 5.0},
		{0.5, 3.5},
		{1.0, 2.0},
		{-1.0, 5.0}, // clamped
		{2.0, 2.0},  // clamped
	}
	for _, tt := range tests {
		got := Multiplier(tt.sensitivity)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Multiplier(%v) = %v, want %v", tt.sensitivity, got, tt.want)
		}
	}
}

func TestMultiplierMonotoneDecreasing(t *testing.T) {
	prev := math.Inf(1)
	for s := 0.0; s <= 1.0; s += 0.05 {
		m := Multiplier(s)
		if m >= prev {
			t.Errorf("Multiplier(%v) = %v, not below %v", s, m, prev)
		}
		prev = m
	}
}

func TestThresholdFloor(t *testing.T) {
	// Raw stddev below the floor: the floor is used.
	got := Threshold(-40.0, 2.0, 3.5)
	want := -40.0 + 3.5*StdDevFloor
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("got %v, want %v", got, want)
	}

	// Raw stddev above the floor: used as-is.
	got = Threshold(-40.0, 5.0, 3.5)
	want = -40.0 + 3.5*5.0
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestThresholdDecreasesWithSensitivity(t *testing.T) {
	prev := math.Inf(1)
	for s := 0.0; s <= 1.0; s += 0.25 {
		th := Threshold(-40.0, 4.0, Multiplier(s))
		if th >= prev {
			t.Errorf("sensitivity %v: threshold %v not below %v", s, th, prev)
		}
		prev = th
	}
}

func TestThresholdScenario(t *testing.T) {
	// Default sensitivity 0.5 on a quiet room: mean -40, raw stddev 2
	// floored to 3 gives -40 + 3.5*3 = -29.5.
	got := Threshold(-40.0, 2.0, Multiplier(0.5))
	if math.Abs(got-(-29.5)) > 1e-9 {
		t.Errorf("got %v, want -29.5", got)
	}
}
