package display

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/junsooki/cliprec/internal/input"
)

var keyMap = map[ebiten.Key]input.Key{
	ebiten.KeyBackquote:  input.KeyGrave,
	ebiten.KeyF:          input.KeyF,
	ebiten.KeyR:          input.KeyR,
	ebiten.KeyS:          input.KeyS,
	ebiten.KeyShiftLeft:  input.KeyShift,
	ebiten.KeyShiftRight: input.KeyShift,
	ebiten.KeySpace:      input.KeySpace,
	ebiten.Key1:          input.Key1,
	ebiten.Key2:          input.Key2,
	ebiten.Key3:          input.Key3,
	ebiten.Key4:          input.Key4,
}

var buttonMap = []struct {
	eb  ebiten.MouseButton
	btn input.MouseButton
}{
	{ebiten.MouseButtonLeft, input.MouseButtonLeft},
	{ebiten.MouseButtonRight, input.MouseButtonRight},
	{ebiten.MouseButtonMiddle, input.MouseButtonMiddle},
}

// poller turns ebiten input state into events once per Update.
type poller struct {
	prevX, prevY int
	moved        bool
}

// poll returns this tick's events. transform maps the cursor position into
// the coordinate space events are reported in.
func (p *poller) poll(transform func(x, y int) (float64, float64)) []input.Event {
	var events []input.Event
	mx, my := ebiten.CursorPosition()
	x, y := transform(mx, my)

	if !p.moved || mx != p.prevX || my != p.prevY {
		p.moved = true
		p.prevX, p.prevY = mx, my
		events = append(events, input.Event{Type: input.EventMouseMove, X: x, Y: y})
	}
	for _, b := range buttonMap {
		if inpututil.IsMouseButtonJustPressed(b.eb) {
			events = append(events, input.Event{Type: input.EventMouseDown, X: x, Y: y, Button: b.btn})
		}
		if inpututil.IsMouseButtonJustReleased(b.eb) {
			events = append(events, input.Event{Type: input.EventMouseUp, X: x, Y: y, Button: b.btn})
		}
	}

	mods := currentModifiers()
	for k, key := range keyMap {
		if inpututil.IsKeyJustPressed(k) {
			events = append(events, input.Event{Type: input.EventKeyDown, Key: key, Modifiers: mods})
		}
		if inpututil.IsKeyJustReleased(k) {
			events = append(events, input.Event{Type: input.EventKeyUp, Key: key, Modifiers: mods})
		}
	}
	return events
}

func currentModifiers() uint8 {
	var m uint8
	if ebiten.IsKeyPressed(ebiten.KeyShift) {
		m |= input.ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) {
		m |= input.ModCtrl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) {
		m |= input.ModAlt
	}
	if ebiten.IsKeyPressed(ebiten.KeyMeta) {
		m |= input.ModMeta
	}
	return m
}
