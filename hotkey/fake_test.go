package hotkey

import (
	"testing"
	"time"
)

func TestFakePressDeliversKeydown(t *testing.T) {
	f := NewFake()
	if err := f.Register(); err != nil {
		t.Fatalf("Register: %v", err)
	}
	f.Press()

	select {
	case <-f.Keydown():
	case <-time.After(time.Second):
		t.Fatal("no keydown after Press")
	}
	select {
	case <-f.Keyup():
	case <-time.After(time.Second):
		t.Fatal("no keyup after Press")
	}
}

func TestFakePressNeverBlocks(t *testing.T) {
	f := NewFake()
	// Nobody reading; repeated presses must not deadlock.
	for i := 0; i < 5; i++ {
		f.Press()
	}
}
