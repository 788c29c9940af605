//go:build !windows

// Package shutdown wires OS termination signals into the session so an
// interrupted run still silences the ring and flushes the log.
package shutdown

import (
	"os"
	"os/signal"
	"syscall"
)

func Notify(ch chan os.Signal) {
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
}
