package peer

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/pion/webrtc/v4"

	"github.com/junsooki/cliprec/internal/transport"
)

// Publisher is the answering side: it streams the preview and receives
// control events from one viewer.
type Publisher struct {
	ctx       context.Context
	pc        *webrtc.PeerConnection
	sig       Signaler
	transport *transport.DataChannelTransport

	mu     sync.Mutex
	viewer string
}

// NewPublisher creates a publisher peer waiting for an offer.
func NewPublisher(ctx context.Context, sig Signaler) (*Publisher, error) {
	pc, err := NewPeerConnection(ctx)
	if err != nil {
		return nil, err
	}
	p := &Publisher{
		ctx:       ctx,
		pc:        pc,
		sig:       sig,
		transport: transport.NewDataChannelTransport(nil, nil),
	}

	pc.OnDataChannel(func(dc *webrtc.DataChannel) {
		logger.Debugf(ctx, "data channel received: %s", dc.Label())
		switch dc.Label() {
		case transport.LabelPreview:
			p.transport.SetPreviewChannel(dc)
		case transport.LabelControl:
			p.transport.SetControlChannel(dc)
		default:
			logger.Warnf(ctx, "unexpected data channel %q", dc.Label())
			return
		}
		dc.OnOpen(func() {
			logger.Infof(ctx, "%s channel open", dc.Label())
		})
	})
	trickle(ctx, pc, sig, p.Viewer)
	return p, nil
}

// Transport returns the data channel transport.
func (p *Publisher) Transport() *transport.DataChannelTransport {
	return p.transport
}

// Viewer returns the id of the connected viewer, if any.
func (p *Publisher) Viewer() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.viewer
}

// HandleOffer answers an offer from a viewer.
func (p *Publisher) HandleOffer(from string, payload []byte) error {
	p.mu.Lock()
	p.viewer = from
	p.mu.Unlock()

	var offer webrtc.SessionDescription
	if err := json.Unmarshal(payload, &offer); err != nil {
		return fmt.Errorf("decode offer: %w", err)
	}
	if err := p.pc.SetRemoteDescription(offer); err != nil {
		return fmt.Errorf("set remote description: %w", err)
	}
	answer, err := p.pc.CreateAnswer(nil)
	if err != nil {
		return fmt.Errorf("create answer: %w", err)
	}
	if err := p.pc.SetLocalDescription(answer); err != nil {
		return fmt.Errorf("set local description: %w", err)
	}
	data, err := json.Marshal(answer)
	if err != nil {
		return err
	}
	logger.Debugf(p.ctx, "answering %s", from)
	return p.sig.SendAnswer(from, data)
}

// HandleICECandidate adds a remote ICE candidate.
func (p *Publisher) HandleICECandidate(payload []byte) error {
	return addCandidate(p.pc, payload)
}

// Close shuts down the peer connection.
func (p *Publisher) Close() error {
	return p.pc.Close()
}
