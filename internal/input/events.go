package input

import (
	"encoding/json"
	"fmt"
)

// EventType identifies the kind of input event.
type EventType string

const (
	EventMouseMove EventType = "mouse_move"
	EventMouseDown EventType = "mouse_down"
	EventMouseUp   EventType = "mouse_up"
	EventKeyDown   EventType = "key_down"
	EventKeyUp     EventType = "key_up"
)

// MouseButton identifies a mouse button.
type MouseButton int

const (
	MouseButtonLeft   MouseButton = 0
	MouseButtonRight  MouseButton = 1
	MouseButtonMiddle MouseButton = 2
)

// Key names a key the recorder reacts to. Other keys are never reported.
type Key string

const (
	KeyGrave Key = "grave"
	KeyF     Key = "f"
	KeyR     Key = "r"
	KeyS     Key = "s"
	KeyShift Key = "shift"
	KeySpace Key = "space"
	Key1     Key = "1"
	Key2     Key = "2"
	Key3     Key = "3"
	Key4     Key = "4"
)

// Modifier flags (bitfield).
const (
	ModShift uint8 = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

// Event is a keyboard or pointer event. X and Y are pixels of the render
// target, top-left origin. It is also the wire format of the control data
// channel.
type Event struct {
	Type      EventType   `json:"type"`
	X         float64     `json:"x,omitempty"`
	Y         float64     `json:"y,omitempty"`
	Button    MouseButton `json:"button,omitempty"`
	Key       Key         `json:"key,omitempty"`
	Modifiers uint8       `json:"modifiers,omitempty"`
}

// Ctrl reports whether a control modifier was held.
func (e Event) Ctrl() bool {
	return e.Modifiers&(ModCtrl|ModMeta) != 0
}

// Marshal encodes e for the control channel.
func (e Event) Marshal() ([]byte, error) {
	return json.Marshal(e)
}

// Unmarshal decodes and validates a control channel message.
func Unmarshal(data []byte) (Event, error) {
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return Event{}, fmt.Errorf("decode input event: %w", err)
	}
	switch e.Type {
	case EventMouseMove, EventMouseDown, EventMouseUp:
	case EventKeyDown, EventKeyUp:
		if e.Key == "" {
			return Event{}, fmt.Errorf("%s event without key", e.Type)
		}
	default:
		return Event{}, fmt.Errorf("unknown input event type %q", e.Type)
	}
	return e, nil
}
