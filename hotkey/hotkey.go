// Package hotkey provides the global dismiss key (Ctrl+Shift+Space):
// the one control that must work while the alarm is ringing, even with
// the terminal buried or the screen locked.
package hotkey

type Hotkey interface {
	Register() error
	Unregister()
	Keydown() <-chan struct{}
	Keyup() <-chan struct{}
}
