package monitor

import "testing"

func TestTriggerDebounce(t *testing.T) {
	var d triggerDetector
	const threshold = -29.5

	// RequiredConsecutive-1 loud readings, then one quiet: never fires.
	for i := 0; i < RequiredConsecutive-1; i++ {
		if d.evaluate(-28.0, threshold) {
			t.Fatalf("fired after %d readings", i+1)
		}
	}
	if d.evaluate(-30.0, threshold) {
		t.Fatal("fired on quiet reading")
	}

	// Counter was reset: two more loud readings still must not fire.
	if d.evaluate(-28.0, threshold) || d.evaluate(-28.0, threshold) {
		t.Fatal("fired before a full consecutive run")
	}
	// The third consecutive loud reading fires.
	if !d.evaluate(-28.0, threshold) {
		t.Fatal("expected trigger on third consecutive loud reading")
	}
}

func TestTriggerAtThresholdResets(t *testing.T) {
	var d triggerDetector
	const threshold = -29.5

	d.evaluate(-28.0, threshold)
	d.evaluate(-28.0, threshold)
	// Reading exactly at the threshold is not an exceed.
	if d.evaluate(threshold, threshold) {
		t.Fatal("fired on at-threshold reading")
	}
	if d.evaluate(-28.0, threshold) {
		t.Fatal("counter survived an at-threshold reading")
	}
}

func TestTriggerFiresOnce(t *testing.T) {
	var d triggerDetector
	const threshold = -29.5

	fires := 0
	for i := 0; i < 10; i++ {
		if d.evaluate(-28.0, threshold) {
			fires++
		}
	}
	if fires != 1 {
		t.Fatalf("expected exactly 1 fire, got %d", fires)
	}
}

func TestTriggerResetRearms(t *testing.T) {
	var d triggerDetector
	const threshold = -29.5

	for i := 0; i < RequiredConsecutive; i++ {
		d.evaluate(-28.0, threshold)
	}
	d.reset()

	fired := false
	for i := 0; i < RequiredConsecutive; i++ {
		fired = d.evaluate(-28.0, threshold)
	}
	if !fired {
		t.Fatal("expected detector to fire again after reset")
	}
}
