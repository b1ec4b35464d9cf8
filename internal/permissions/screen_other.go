//go:build !darwin

package permissions

// HasScreenRecording always succeeds outside macOS.
func HasScreenRecording() bool { return true }

// RequestScreenRecording always succeeds outside macOS.
func RequestScreenRecording() bool { return true }
