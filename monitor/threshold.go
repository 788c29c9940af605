package monitor

import "math"

const (
	// Deviation multiplier range. Higher user sensitivity maps to a
	// lower multiplier: smaller deviations from the baseline trigger.
	multiplierMin = 2.0
	multiplierMax = 5.0

	// StdDevFloor keeps an abnormally quiet room from producing a
	// hair-trigger threshold when the raw deviation collapses to zero.
	StdDevFloor = 3.0
)

// Multiplier maps a sensitivity setting in [0,1] onto the deviation
// multiplier, monotone decreasing. Out-of-range settings are clamped.
func Multiplier(sensitivity float64) float64 {
	s := math.Min(math.Max(sensitivity, 0), 1)
	return multiplierMax - (multiplierMax-multiplierMin)*s
}

// Threshold computes the trigger threshold for a learned baseline:
// mean + multiplier * max(stddev, StdDevFloor).
func Threshold(mean, stddev, multiplier float64) float64 {
	return mean + multiplier*math.Max(stddev, StdDevFloor)
}
