// Package transport carries the mirror traffic: JPEG preview frames from the
// publisher and control events from the viewer.
package transport

import "errors"

// Channel labels negotiated between publisher and viewer.
const (
	LabelPreview = "preview"
	LabelControl = "control"
)

// ErrNotOpen is returned when sending on a channel that is not attached.
var ErrNotOpen = errors.New("data channel not open")

// PreviewSender sends encoded preview frames.
type PreviewSender interface {
	SendPreview(data []byte) error
}

// PreviewReceiver receives encoded preview frames.
type PreviewReceiver interface {
	OnPreview(callback func(data []byte))
}

// ControlSender sends serialized control events.
type ControlSender interface {
	SendControl(data []byte) error
}

// ControlReceiver receives serialized control events.
type ControlReceiver interface {
	OnControl(callback func(data []byte))
}
