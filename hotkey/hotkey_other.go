//go:build !linux

package hotkey

import (
	"golang.design/x/hotkey"
)

type globalKey struct {
	hk      *hotkey.Hotkey
	keydown chan struct{}
	keyup   chan struct{}
}

func New() Hotkey {
	return &globalKey{
		hk:      hotkey.New([]hotkey.Modifier{hotkey.ModCtrl, hotkey.ModShift}, hotkey.KeySpace),
		keydown: make(chan struct{}, 1),
		keyup:   make(chan struct{}, 1),
	}
}

func (g *globalKey) Register() error {
	if err := g.hk.Register(); err != nil {
		return err
	}
	// Non-blocking forwards: only Keydown has a reader during a
	// session, and a repeat press carries no extra information.
	go func() {
		for range g.hk.Keydown() {
			select {
			case g.keydown <- struct{}{}:
			default:
			}
		}
	}()
	go func() {
		for range g.hk.Keyup() {
			select {
			case g.keyup <- struct{}{}:
			default:
			}
		}
	}()
	return nil
}

func (g *globalKey) Unregister() {
	g.hk.Unregister()
}

func (g *globalKey) Keydown() <-chan struct{} { return g.keydown }
func (g *globalKey) Keyup() <-chan struct{}   { return g.keyup }

func Diagnose() (string, error) {
	return "dismiss key available (Ctrl+Shift+Space)", nil
}
