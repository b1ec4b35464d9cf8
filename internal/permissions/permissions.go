// Package permissions checks the OS permissions desktop capture needs.
package permissions

import "errors"

// ErrScreenRecording is returned when the Screen Recording permission is
// missing.
var ErrScreenRecording = errors.New("screen recording permission not granted; grant it in System Settings > Privacy & Security and restart")

// EnsureScreenRecording requests the permission if needed and returns
// ErrScreenRecording when it is still missing.
func EnsureScreenRecording() error {
	if HasScreenRecording() {
		return nil
	}
	if RequestScreenRecording() {
		return nil
	}
	return ErrScreenRecording
}
