//go:build windows

package doctor

import (
	"os"
	"os/signal"
)

// The console never enters raw mode on Windows; nothing to restore.
func resetTerminal() {}

func setupInterruptHandler() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)
	go func() {
		<-sigChan
		println("\nInterrupted")
		os.Exit(1)
	}()
}
