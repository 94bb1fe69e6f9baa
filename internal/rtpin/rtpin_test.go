package rtpin

import "testing"

// TestRaiseNeverPanics confirms the hint is best-effort: whether or not the
// calling process has permission to renice itself, Raise must not panic,
// and on non-Linux platforms it is a guaranteed no-op.
func TestRaiseNeverPanics(t *testing.T) {
	_ = Raise()
}
