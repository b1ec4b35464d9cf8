package peer

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/pion/webrtc/v4"

	"github.com/junsooki/cliprec/internal/transport"
)

// Viewer is the offering side: it receives the preview and sends control
// events to one publisher.
type Viewer struct {
	ctx       context.Context
	pc        *webrtc.PeerConnection
	sig       Signaler
	transport *transport.DataChannelTransport
	publisher string
}

// NewViewer creates a viewer peer for publisherID with both data channels.
func NewViewer(ctx context.Context, sig Signaler, publisherID string) (*Viewer, error) {
	pc, err := NewPeerConnection(ctx)
	if err != nil {
		return nil, err
	}

	// Preview frames may be dropped or arrive out of order.
	unordered := false
	noRetransmits := uint16(0)
	previewDC, err := pc.CreateDataChannel(transport.LabelPreview, &webrtc.DataChannelInit{
		Ordered:        &unordered,
		MaxRetransmits: &noRetransmits,
	})
	if err != nil {
		pc.Close()
		return nil, fmt.Errorf("create %s channel: %w", transport.LabelPreview, err)
	}
	ordered := true
	controlDC, err := pc.CreateDataChannel(transport.LabelControl, &webrtc.DataChannelInit{
		Ordered: &ordered,
	})
	if err != nil {
		pc.Close()
		return nil, fmt.Errorf("create %s channel: %w", transport.LabelControl, err)
	}
	for _, dc := range []*webrtc.DataChannel{previewDC, controlDC} {
		label := dc.Label()
		dc.OnOpen(func() {
			logger.Infof(ctx, "%s channel open", label)
		})
	}

	v := &Viewer{
		ctx:       ctx,
		pc:        pc,
		sig:       sig,
		transport: transport.NewDataChannelTransport(previewDC, controlDC),
		publisher: publisherID,
	}
	trickle(ctx, pc, sig, func() string { return publisherID })
	return v, nil
}

// Transport returns the data channel transport.
func (v *Viewer) Transport() *transport.DataChannelTransport {
	return v.transport
}

// Connect creates an offer and sends it to the publisher.
func (v *Viewer) Connect() error {
	offer, err := v.pc.CreateOffer(nil)
	if err != nil {
		return fmt.Errorf("create offer: %w", err)
	}
	if err := v.pc.SetLocalDescription(offer); err != nil {
		return fmt.Errorf("set local description: %w", err)
	}
	data, err := json.Marshal(offer)
	if err != nil {
		return err
	}
	logger.Debugf(v.ctx, "offering to %s", v.publisher)
	return v.sig.SendOffer(v.publisher, data)
}

// HandleAnswer applies the publisher's answer.
func (v *Viewer) HandleAnswer(payload []byte) error {
	var answer webrtc.SessionDescription
	if err := json.Unmarshal(payload, &answer); err != nil {
		return fmt.Errorf("decode answer: %w", err)
	}
	return v.pc.SetRemoteDescription(answer)
}

// HandleICECandidate adds a remote ICE candidate.
func (v *Viewer) HandleICECandidate(payload []byte) error {
	return addCandidate(v.pc, payload)
}

// Close shuts down the peer connection.
func (v *Viewer) Close() error {
	return v.pc.Close()
}
