package monitor

// RequiredConsecutive is the debounce count: this many consecutive
// above-threshold readings are needed before a trigger, so a door slam
// or a single cough does not fire the alarm.
const RequiredConsecutive = 3

// triggerDetector counts consecutive above-threshold readings. It
// latches after the first fire; the session stops on trigger, so a
// fired detector must never report again.
type triggerDetector struct {
	run   int
	fired bool
}

// evaluate feeds one reading and reports whether the trigger fires on
// it. Readings at or below the threshold reset the run.
func (d *triggerDetector) evaluate(reading, threshold float64) bool {
	if d.fired {
		return false
	}
	if reading <= threshold {
		d.run = 0
		return false
	}
	d.run++
	if d.run >= RequiredConsecutive {
		d.fired = true
		return true
	}
	return false
}

func (d *triggerDetector) reset() {
	d.run = 0
	d.fired = false
}
