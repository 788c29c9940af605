//go:build windows

package shutdown

import (
	"os"
	"os/signal"
)

// SIGTERM does not exist on Windows; console close is delivered as an
// interrupt.
func Notify(ch chan os.Signal) {
	signal.Notify(ch, os.Interrupt)
}
