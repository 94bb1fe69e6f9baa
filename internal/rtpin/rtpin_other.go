//go:build !linux

package rtpin

// Raise is a no-op on platforms without a wired priority hint.
func Raise() error { return nil }
