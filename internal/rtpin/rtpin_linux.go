//go:build linux

// Package rtpin offers a best-effort realtime-priority hint for the audio
// goroutine, isolated behind a build tag so the hot loop itself never
// depends on platform syscalls (spec.md §5: "no allocations, no blocking
// locks, no system calls" on the audio thread — this call happens once at
// startup, never inside ProcessBlock).
package rtpin

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Raise asks the OS scheduler to favor the calling thread, lowering its
// "nice" value. Failure is never fatal — a process without the right
// privileges simply keeps default scheduling, so callers should log the
// error, not propagate it as a startup failure.
func Raise() error {
	if err := unix.Setpriority(unix.PRIO_PROCESS, 0, -11); err != nil {
		return fmt.Errorf("rtpin: setpriority: %w", err)
	}
	return nil
}
