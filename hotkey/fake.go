package hotkey

// FakeHotkey stands in for the dismiss key in tests and scripted runs.
type FakeHotkey struct {
	keydown chan struct{}
	keyup   chan struct{}
}

func NewFake() *FakeHotkey {
	return &FakeHotkey{
		keydown: make(chan struct{}, 1),
		keyup:   make(chan struct{}, 1),
	}
}

func (f *FakeHotkey) Register() error { return nil }
func (f *FakeHotkey) Unregister()     {}

func (f *FakeHotkey) Keydown() <-chan struct{} { return f.keydown }
func (f *FakeHotkey) Keyup() <-chan struct{}   { return f.keyup }

// Press simulates one full press of the dismiss key.
func (f *FakeHotkey) Press() {
	select {
	case f.keydown <- struct{}{}:
	default:
	}
	select {
	case f.keyup <- struct{}{}:
	default:
	}
}
