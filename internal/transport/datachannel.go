package transport

import (
	"fmt"
	"sync"

	"github.com/pion/webrtc/v4"
)

// DataChannelTransport carries preview and control traffic over two WebRTC
// data channels. Either channel may be attached later, when the remote side
// announces it.
type DataChannelTransport struct {
	mu        sync.RWMutex
	previewDC *webrtc.DataChannel
	controlDC *webrtc.DataChannel
	onPreview func(data []byte)
	onControl func(data []byte)
}

// NewDataChannelTransport wraps the given channels; nil channels can be
// attached with SetPreviewChannel and SetControlChannel.
func NewDataChannelTransport(previewDC, controlDC *webrtc.DataChannel) *DataChannelTransport {
	t := &DataChannelTransport{}
	if previewDC != nil {
		t.SetPreviewChannel(previewDC)
	}
	if controlDC != nil {
		t.SetControlChannel(controlDC)
	}
	return t
}

func (t *DataChannelTransport) SendPreview(data []byte) error {
	t.mu.RLock()
	dc := t.previewDC
	t.mu.RUnlock()
	return send(dc, LabelPreview, data)
}

func (t *DataChannelTransport) SendControl(data []byte) error {
	t.mu.RLock()
	dc := t.controlDC
	t.mu.RUnlock()
	return send(dc, LabelControl, data)
}

func send(dc *webrtc.DataChannel, label string, data []byte) error {
	if dc == nil || dc.ReadyState() != webrtc.DataChannelStateOpen {
		return fmt.Errorf("%s: %w", label, ErrNotOpen)
	}
	return dc.Send(data)
}

func (t *DataChannelTransport) OnPreview(cb func(data []byte)) {
	t.mu.Lock()
	t.onPreview = cb
	t.mu.Unlock()
}

func (t *DataChannelTransport) OnControl(cb func(data []byte)) {
	t.mu.Lock()
	t.onControl = cb
	t.mu.Unlock()
}

// SetPreviewChannel attaches or replaces the preview channel.
func (t *DataChannelTransport) SetPreviewChannel(dc *webrtc.DataChannel) {
	t.mu.Lock()
	t.previewDC = dc
	t.mu.Unlock()
	dc.OnMessage(func(msg webrtc.DataChannelMessage) {
		t.deliver(func() func([]byte) { return t.onPreview }, msg.Data)
	})
}

// SetControlChannel attaches or replaces the control channel.
func (t *DataChannelTransport) SetControlChannel(dc *webrtc.DataChannel) {
	t.mu.Lock()
	t.controlDC = dc
	t.mu.Unlock()
	dc.OnMessage(func(msg webrtc.DataChannelMessage) {
		t.deliver(func() func([]byte) { return t.onControl }, msg.Data)
	})
}

func (t *DataChannelTransport) deliver(callback func() func([]byte), data []byte) {
	t.mu.RLock()
	cb := callback()
	t.mu.RUnlock()
	if cb != nil {
		cb(data)
	}
}

var (
	_ PreviewSender   = (*DataChannelTransport)(nil)
	_ PreviewReceiver = (*DataChannelTransport)(nil)
	_ ControlSender   = (*DataChannelTransport)(nil)
	_ ControlReceiver = (*DataChannelTransport)(nil)
)
